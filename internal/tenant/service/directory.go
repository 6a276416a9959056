package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"sudsy/internal/sentinel"
	tenantmetrics "sudsy/internal/tenant/metrics"
	"sudsy/internal/tenant/models"
	dErrors "sudsy/pkg/domain-errors"
)

// Directory answers the request hot path: which active tenant does this slug
// or custom domain belong to. Inactive tenants are indistinguishable from
// missing ones. Concurrent lookups for the same key are collapsed into a
// single store call.
type Directory struct {
	tenants TenantStore
	metrics *tenantmetrics.Metrics
	group   singleflight.Group
}

func NewDirectory(tenants TenantStore, opts ...Option) *Directory {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Directory{
		tenants: tenants,
		metrics: cfg.metrics,
	}
}

// BySlug resolves an active tenant from its platform subdomain slug.
func (d *Directory) BySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	return d.lookup(ctx, "slug", slug, d.tenants.FindBySlug)
}

// ByDomain resolves an active tenant from its verified custom domain.
func (d *Directory) ByDomain(ctx context.Context, domain string) (*models.Tenant, error) {
	return d.lookup(ctx, "domain", domain, d.tenants.FindByCustomDomain)
}

func (d *Directory) lookup(ctx context.Context, kind, key string, find func(context.Context, string) (*models.Tenant, error)) (*models.Tenant, error) {
	start := time.Now()
	if key == "" {
		d.observe(kind, "invalid", start)
		return nil, dErrors.New(dErrors.CodeBadRequest, "lookup key is required")
	}

	v, err, _ := d.group.Do(kind+":"+key, func() (any, error) {
		return find(ctx, key)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			d.observe(kind, "miss", start)
			return nil, dErrors.New(dErrors.CodeNotFound, "tenant not found")
		}
		d.observe(kind, "error", start)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "tenant lookup failed")
	}

	tenant := v.(*models.Tenant)
	if !tenant.IsActive() {
		d.observe(kind, "inactive", start)
		return nil, dErrors.New(dErrors.CodeNotFound, "tenant not found")
	}
	d.observe(kind, "hit", start)
	return tenant, nil
}

func (d *Directory) observe(kind, outcome string, start time.Time) {
	if d.metrics != nil {
		d.metrics.ObserveDirectoryLookup(kind, outcome, start)
	}
}
