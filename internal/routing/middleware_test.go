package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudsy/internal/tenant/models"
	dErrors "sudsy/pkg/domain-errors"
)

// countingDirectory records how many lookups reach the store layer.
type countingDirectory struct {
	tenant *models.Tenant
	calls  int
}

func (d *countingDirectory) BySlug(_ context.Context, slug string) (*models.Tenant, error) {
	d.calls++
	if d.tenant != nil && d.tenant.Slug == slug {
		return d.tenant, nil
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "tenant not found")
}

func (d *countingDirectory) ByDomain(_ context.Context, domain string) (*models.Tenant, error) {
	d.calls++
	if d.tenant != nil && d.tenant.HasCustomDomain(domain) {
		return d.tenant, nil
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "tenant not found")
}

func TestMiddlewareAttachesResolution(t *testing.T) {
	dir := &countingDirectory{tenant: &models.Tenant{Slug: "acme", Status: models.TenantStatusActive}}

	var seen Resolution
	handler := Middleware(testCfg, dir, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())

		// Repeated lookups within one request hit the directory once.
		for i := 0; i < 3; i++ {
			tenant, err := CurrentTenant(r.Context())
			require.NoError(t, err)
			require.Equal(t, "acme", tenant.Slug)
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "http://acme.platform.tld/", nil)
	req.Host = "acme.platform.tld"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, KindTenantSlug, seen.Kind)
	assert.Equal(t, "acme", seen.Slug)
	assert.Equal(t, 1, dir.calls)
}

func TestMiddlewareUnresolvedHostPassesThrough(t *testing.T) {
	dir := &countingDirectory{}

	var tenant *models.Tenant
	var err error
	handler := Middleware(testCfg, dir, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, KindNone, FromContext(r.Context()).Kind)
		tenant, err = CurrentTenant(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "http://www.platform.tld/", nil)
	req.Host = "www.platform.tld"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Nil(t, tenant)
	assert.NoError(t, err)
	assert.Zero(t, dir.calls)
}

func TestCurrentTenantWithoutMiddleware(t *testing.T) {
	tenant, err := CurrentTenant(context.Background())
	assert.Nil(t, tenant)
	assert.NoError(t, err)
}
