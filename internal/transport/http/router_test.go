package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sudsy/internal/platform/config"
	"sudsy/internal/platform/health"
	ratelimitmodels "sudsy/internal/ratelimit/models"
	ratelimitservice "sudsy/internal/ratelimit/service"
	ratelimitstore "sudsy/internal/ratelimit/store"
	tenanthandler "sudsy/internal/tenant/handler"
	tenantservice "sudsy/internal/tenant/service"
	tenantstore "sudsy/internal/tenant/store"
	"sudsy/internal/verification/dns"
	verifhandler "sudsy/internal/verification/handler"
	verifmodels "sudsy/internal/verification/models"
	"sudsy/internal/verification/poller"
	verifservice "sudsy/internal/verification/service"
	verifstore "sudsy/internal/verification/store"
)

const (
	testAdminToken = "admin-secret"
	testCronSecret = "cron-secret"
)

// passingChecker approves every DNS proof.
type passingChecker struct{}

func (passingChecker) Check(context.Context, *verifmodels.DomainVerification) dns.Outcome {
	return dns.Outcome{Verified: true, Method: verifmodels.MethodTXT}
}

type RouterSuite struct {
	suite.Suite
	router http.Handler
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	cfg := &config.Server{
		PlatformDomain:   "sudsy.app",
		CNAMETarget:      "domains.sudsy.app",
		DevTenantSlug:    "demo",
		AdminToken:       testAdminToken,
		CronSecret:       testCronSecret,
		PollerBatchSize:  20,
		MaxCheckAttempts: 100,
		RequestTimeout:   30 * time.Second,
	}

	tenants := tenantstore.NewInMemory()
	claims := verifstore.NewInMemory()

	tenantSvc := tenantservice.New(tenants, tenantservice.WithLogger(logger))
	directory := tenantservice.NewDirectory(tenants)

	engine := verifservice.NewEngine(claims, tenants, passingChecker{},
		verifservice.NewInMemoryStoreTx(claims, tenants),
		verifservice.Config{
			PlatformDomain:   cfg.PlatformDomain,
			CNAMETarget:      cfg.CNAMETarget,
			MaxCheckAttempts: cfg.MaxCheckAttempts,
		},
		verifservice.WithLogger(logger))
	batch := poller.New(engine, claims, logger, nil, cfg.PollerBatchSize, cfg.MaxCheckAttempts)

	healthHandler := health.New("test")
	healthHandler.RegisterCheck("tenant_directory", func() error {
		_, err := tenants.Count(context.Background())
		return err
	})

	limiter := ratelimitservice.NewLimiter(ratelimitstore.NewFixedWindow(),
		map[ratelimitmodels.EndpointClass]ratelimitmodels.Policy{
			ratelimitmodels.ClassResolve: {Limit: 3, Window: time.Minute},
			ratelimitmodels.ClassClaim:   {Limit: 100, Window: time.Minute},
			ratelimitmodels.ClassAdmin:   {Limit: 100, Window: time.Minute},
		}, logger, nil)

	s.router = NewRouter(Deps{
		Config:        cfg,
		Logger:        logger,
		Directory:     directory,
		Limiter:       limiter,
		TenantHandler: tenanthandler.New(tenantSvc, logger),
		DomainHandler: verifhandler.New(engine, logger),
		CronHandler:   verifhandler.NewCron(batch, logger),
		Health:        healthHandler,
	})
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) adminRequest(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("X-Admin-Token", testAdminToken)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) createTenant(slug string) tenanthandler.TenantCreateResponse {
	rec := s.adminRequest(http.MethodPost, "/admin/tenants", `{"slug":"`+slug+`","name":"Tenant `+slug+`"}`)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var created tenanthandler.TenantCreateResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))
	return created
}

func (s *RouterSuite) TestResolveTenantSubdomain() {
	s.createTenant("acme")

	req := httptest.NewRequest(http.MethodGet, "/resolve", nil)
	req.Host = "acme.sudsy.app"
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code, rec.Body.String())
	var resp ResolveResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("tenant_slug", string(resp.Kind))
	s.Require().NotNil(resp.Tenant)
	s.Equal("acme", resp.Tenant.Slug)
}

func (s *RouterSuite) TestResolveUnknownHostIs404() {
	req := httptest.NewRequest(http.MethodGet, "/resolve", nil)
	req.Host = "www.sudsy.app"
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *RouterSuite) TestResolveAdminHost() {
	req := httptest.NewRequest(http.MethodGet, "/resolve", nil)
	req.Host = "admin.sudsy.app"
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "platform_admin")
}

func (s *RouterSuite) TestResolveRateLimited() {
	s.createTenant("acme")

	var last *httptest.ResponseRecorder
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodGet, "/resolve", nil)
		req.Host = "acme.sudsy.app"
		req.RemoteAddr = "10.1.1.1:40000"
		last = httptest.NewRecorder()
		s.router.ServeHTTP(last, req)
	}

	s.Equal(http.StatusTooManyRequests, last.Code)
	s.NotEmpty(last.Header().Get("Retry-After"))
	s.Equal("0", last.Header().Get("X-RateLimit-Remaining"))
}

func (s *RouterSuite) TestClaimVerifyResolveFlow() {
	created := s.createTenant("acme")

	// Claim a custom domain.
	req := httptest.NewRequest(http.MethodPost, "/api/domains", strings.NewReader(`{"domain":"acme-laundry.com"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(verifhandler.TenantIDHeader, created.TenantID)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	// Scheduler drives the check; the stub DNS checker passes.
	cronReq := httptest.NewRequest(http.MethodPost, "/internal/cron/verify-domains", nil)
	cronReq.Header.Set("X-Cron-Secret", testCronSecret)
	cronRec := httptest.NewRecorder()
	s.router.ServeHTTP(cronRec, cronReq)
	s.Require().Equal(http.StatusOK, cronRec.Code, cronRec.Body.String())

	var summary poller.Summary
	s.Require().NoError(json.Unmarshal(cronRec.Body.Bytes(), &summary))
	s.Equal(1, summary.Checked)
	s.Equal(1, summary.Verified)

	// The verified domain now resolves to the tenant.
	resolveReq := httptest.NewRequest(http.MethodGet, "/resolve", nil)
	resolveReq.Host = "acme-laundry.com"
	resolveRec := httptest.NewRecorder()
	s.router.ServeHTTP(resolveRec, resolveReq)

	s.Equal(http.StatusOK, resolveRec.Code, resolveRec.Body.String())
	var resp ResolveResponse
	s.Require().NoError(json.Unmarshal(resolveRec.Body.Bytes(), &resp))
	s.Equal("custom_domain", string(resp.Kind))
	s.Require().NotNil(resp.Tenant)
	s.Equal("acme", resp.Tenant.Slug)
}

func (s *RouterSuite) TestCronRequiresSecret() {
	req := httptest.NewRequest(http.MethodPost, "/internal/cron/verify-domains", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *RouterSuite) TestAdminEndpointsRequireToken() {
	req := httptest.NewRequest(http.MethodPost, "/admin/tenants", strings.NewReader(`{"slug":"x","name":"X"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *RouterSuite) TestHealthAndMetrics() {
	for _, path := range []string{"/health/live", "/health/ready", "/metrics"} {
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		s.Equal(http.StatusOK, rec.Code, path)
	}
}

func (s *RouterSuite) TestReadinessReportsTenantDirectory() {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	s.Equal(http.StatusOK, rec.Code)
	var resp health.ReadinessResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("up", resp.Checks["tenant_directory"])
}
