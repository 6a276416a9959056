package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sudsy/internal/platform/config"
	"sudsy/internal/platform/database"
	"sudsy/internal/platform/health"
	"sudsy/internal/platform/httpserver"
	"sudsy/internal/platform/logger"
	ratelimitconfig "sudsy/internal/ratelimit/config"
	ratelimitmetrics "sudsy/internal/ratelimit/metrics"
	ratelimitservice "sudsy/internal/ratelimit/service"
	ratelimitstore "sudsy/internal/ratelimit/store"
	routingmetrics "sudsy/internal/routing/metrics"
	tenanthandler "sudsy/internal/tenant/handler"
	tenantmetrics "sudsy/internal/tenant/metrics"
	tenantservice "sudsy/internal/tenant/service"
	tenantstore "sudsy/internal/tenant/store"
	httptransport "sudsy/internal/transport/http"
	"sudsy/internal/verification/dns"
	verifhandler "sudsy/internal/verification/handler"
	verifmetrics "sudsy/internal/verification/metrics"
	"sudsy/internal/verification/poller"
	verifservice "sudsy/internal/verification/service"
	verifstore "sudsy/internal/verification/store"
	dErrors "sudsy/pkg/domain-errors"
	platformtx "sudsy/pkg/platform/tx"
)

const janitorInterval = time.Minute

// backends bundles the storage layer so the rest of main does not care whether
// it runs on PostgreSQL or in memory.
type backends struct {
	tenants     tenantservice.TenantStore
	claims      verifservice.ClaimStore
	claimSource poller.ClaimSource
	tenantTx    tenantservice.StoreTx
	verifTx     verifservice.StoreTx
	pool        *database.Pool
}

// main wires the storage backends, services, and HTTP router, then runs the
// server until interrupted. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	be, err := newBackends(cfg)
	if err != nil {
		log.Error("storage init failed", "error", err)
		os.Exit(1)
	}
	defer be.pool.Close() //nolint:errcheck // best-effort close on exit

	log.Info("initializing sudsy routing core",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"platform_domain", cfg.PlatformDomain,
		"storage", storageKind(be),
	)

	tm := tenantmetrics.New()
	tenantSvc := tenantservice.New(be.tenants,
		tenantservice.WithLogger(log),
		tenantservice.WithMetrics(tm),
		tenantservice.WithStoreTx(be.tenantTx),
	)
	directory := tenantservice.NewDirectory(be.tenants,
		tenantservice.WithLogger(log),
		tenantservice.WithMetrics(tm),
	)

	vm := verifmetrics.New()
	engine := verifservice.NewEngine(be.claims, be.tenants, dns.NewResolver(cfg.DNSTimeout), be.verifTx,
		verifservice.Config{
			PlatformDomain:   cfg.PlatformDomain,
			CNAMETarget:      cfg.CNAMETarget,
			MaxCheckAttempts: cfg.MaxCheckAttempts,
		},
		verifservice.WithLogger(log),
		verifservice.WithMetrics(vm),
	)
	batch := poller.New(engine, be.claimSource, log, vm, cfg.PollerBatchSize, cfg.MaxCheckAttempts)

	limiter := ratelimitservice.NewLimiter(ratelimitstore.NewFixedWindow(),
		ratelimitconfig.DefaultPolicies(), log, ratelimitmetrics.New())
	go limiter.RunJanitor(ctx, janitorInterval)

	healthHandler := health.New(cfg.Environment)
	healthHandler.RegisterCheck("tenant_directory", func() error {
		checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, err := be.tenants.Count(checkCtx)
		return err
	})
	if be.pool != nil {
		healthHandler.RegisterCheck("database", func() error {
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return be.pool.Health(checkCtx)
		})
	}

	if cfg.Environment == "development" {
		seedDevTenant(ctx, tenantSvc, cfg.DevTenantSlug, log)
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Config:         &cfg,
		Logger:         log,
		Directory:      directory,
		RoutingMetrics: routingmetrics.New(),
		Limiter:        limiter,
		TenantHandler:  tenanthandler.New(tenantSvc, log),
		DomainHandler:  verifhandler.New(engine, log),
		CronHandler:    verifhandler.NewCron(batch, log),
		Health:         healthHandler,
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

// newBackends selects PostgreSQL stores when SUDSY_DATABASE_URL is set and
// in-memory stores otherwise.
func newBackends(cfg config.Server) (*backends, error) {
	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		return nil, err
	}

	if pool == nil {
		tenants := tenantstore.NewInMemory()
		claims := verifstore.NewInMemory()
		return &backends{
			tenants:     tenants,
			claims:      claims,
			claimSource: claims,
			tenantTx:    nil, // tenant service falls back to its internal lock
			verifTx:     verifservice.NewInMemoryStoreTx(claims, tenants),
		}, nil
	}

	db := pool.DB()
	tenants := tenantstore.NewPostgres(db)
	claims := verifstore.NewPostgres(db)
	tx := platformtx.NewRunner(db)
	return &backends{
		tenants:     tenants,
		claims:      claims,
		claimSource: claims,
		tenantTx:    tx,
		verifTx:     tx,
		pool:        pool,
	}, nil
}

func storageKind(be *backends) string {
	if be.pool != nil {
		return "postgres"
	}
	return "memory"
}

// seedDevTenant guarantees the localhost fallback tenant exists so the dev
// resolve path works out of the box.
func seedDevTenant(ctx context.Context, svc *tenantservice.Service, slug string, log *slog.Logger) {
	if _, err := svc.Create(ctx, slug, "Development Tenant"); err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			return
		}
		log.Warn("dev tenant seed failed", "slug", slug, "error", err)
	}
}
