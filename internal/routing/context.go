package routing

import (
	"context"
	"sync"

	"sudsy/internal/tenant/models"
)

type resolutionKey struct{}

// WithResolution attaches the routing outcome to the request context.
func WithResolution(ctx context.Context, res Resolution) context.Context {
	return context.WithValue(ctx, resolutionKey{}, res)
}

// FromContext returns the routing outcome for the request, defaulting to
// KindNone when the middleware did not run.
func FromContext(ctx context.Context) Resolution {
	if res, ok := ctx.Value(resolutionKey{}).(Resolution); ok {
		return res
	}
	return Resolution{Kind: KindNone}
}

// Directory is the tenant lookup the loader defers to.
type Directory interface {
	BySlug(ctx context.Context, slug string) (*models.Tenant, error)
	ByDomain(ctx context.Context, domain string) (*models.Tenant, error)
}

// TenantLoader memoizes the directory lookup for one request, so multiple
// downstream consumers of the tenant context trigger at most one store call.
type TenantLoader struct {
	dir Directory
	res Resolution

	once   sync.Once
	tenant *models.Tenant
	err    error
}

func NewTenantLoader(dir Directory, res Resolution) *TenantLoader {
	return &TenantLoader{dir: dir, res: res}
}

// Load resolves the request's tenant. For KindTenantSlug and KindCustomDomain
// it consults the directory once and caches the outcome; for other kinds it
// returns nil without error.
func (l *TenantLoader) Load(ctx context.Context) (*models.Tenant, error) {
	l.once.Do(func() {
		switch l.res.Kind {
		case KindTenantSlug:
			l.tenant, l.err = l.dir.BySlug(ctx, l.res.Slug)
		case KindCustomDomain:
			l.tenant, l.err = l.dir.ByDomain(ctx, l.res.Domain)
		}
	})
	return l.tenant, l.err
}

type loaderKey struct{}

// WithTenantLoader attaches the per-request tenant loader.
func WithTenantLoader(ctx context.Context, l *TenantLoader) context.Context {
	return context.WithValue(ctx, loaderKey{}, l)
}

// CurrentTenant resolves the request's tenant through the per-request loader.
// Returns (nil, nil) when the request carries no tenant routing.
func CurrentTenant(ctx context.Context) (*models.Tenant, error) {
	if l, ok := ctx.Value(loaderKey{}).(*TenantLoader); ok {
		return l.Load(ctx)
	}
	return nil, nil
}
