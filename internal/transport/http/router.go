// Package httptransport wires the platform's HTTP surface: the resolve hot
// path, the domain claim API, operator admin endpoints, the cron trigger, and
// operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sudsy/internal/platform/config"
	"sudsy/internal/platform/health"
	"sudsy/internal/platform/middleware"
	ratelimitmw "sudsy/internal/ratelimit/middleware"
	ratelimitmodels "sudsy/internal/ratelimit/models"
	"sudsy/internal/routing"
	routingmetrics "sudsy/internal/routing/metrics"
	tenanthandler "sudsy/internal/tenant/handler"
	verifhandler "sudsy/internal/verification/handler"
	adminmw "sudsy/pkg/platform/middleware/admin"
)

// Deps carries the wired components the router mounts.
type Deps struct {
	Config         *config.Server
	Logger         *slog.Logger
	Directory      routing.Directory
	RoutingMetrics *routingmetrics.Metrics
	Limiter        ratelimitmw.RateLimiter
	TenantHandler  *tenanthandler.Handler
	DomainHandler  *verifhandler.Handler
	CronHandler    *verifhandler.CronHandler
	Health         *health.Handler
}

// NewRouter assembles the middleware stack and mounts every endpoint group
// under its rate-limit class and authentication.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientIP)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(deps.Config.RequestTimeout))

	routingCfg := routing.Config{
		PlatformDomain: deps.Config.PlatformDomain,
		DevTenantSlug:  deps.Config.DevTenantSlug,
	}
	r.Use(routing.Middleware(routingCfg, deps.Directory, deps.RoutingMetrics))

	limit := newLimitFunc(deps)

	// Request hot path: host classification plus tenant lookup.
	r.Group(func(r chi.Router) {
		r.Use(limit(ratelimitmodels.ClassResolve))
		r.Get("/resolve", handleResolve(deps.Logger))
	})

	// Tenant-facing domain claim API.
	r.Group(func(r chi.Router) {
		r.Use(limit(ratelimitmodels.ClassClaim))
		r.Use(middleware.ContentTypeJSON)
		deps.DomainHandler.Register(r)
	})

	// Operator control plane.
	r.Group(func(r chi.Router) {
		r.Use(limit(ratelimitmodels.ClassAdmin))
		r.Use(adminmw.RequireAdminToken(deps.Config.AdminToken, deps.Logger))
		r.Use(middleware.ContentTypeJSON)
		deps.TenantHandler.Register(r)
		deps.DomainHandler.RegisterAdmin(r)
	})

	// Scheduler-facing poll trigger.
	r.Group(func(r chi.Router) {
		r.Use(adminmw.RequireCronAuth(deps.Config.CronSecret, deps.Logger))
		deps.CronHandler.Register(r)
	})

	deps.Health.Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// newLimitFunc builds the per-class rate limit middleware, or a no-op when
// rate limiting is disabled for local development.
func newLimitFunc(deps Deps) func(ratelimitmodels.EndpointClass) func(http.Handler) http.Handler {
	if deps.Config.RateLimitDisabled || deps.Limiter == nil {
		return func(ratelimitmodels.EndpointClass) func(http.Handler) http.Handler {
			return func(next http.Handler) http.Handler { return next }
		}
	}
	m := ratelimitmw.New(deps.Limiter, deps.Logger)
	return m.RateLimit
}
