// Package config builds runtime configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration for the routing core.
type Server struct {
	Addr        string
	Environment string

	// PlatformDomain is the platform's own apex domain (e.g. "sudsy.app").
	// Tenant storefronts live at <slug>.<PlatformDomain>; the operator control
	// plane at admin.<PlatformDomain>.
	PlatformDomain string

	// CNAMETarget is the hostname custom domains must point a CNAME at.
	CNAMETarget string

	// DevTenantSlug is the fallback tenant for localhost development requests.
	DevTenantSlug string

	// AdminToken protects /admin endpoints (shared operator secret).
	AdminToken string

	// CronSecret protects the scheduled-job trigger endpoint. The external
	// scheduler presents it directly or as an HS256-signed bearer token.
	CronSecret string

	// DatabaseURL enables the PostgreSQL stores; empty keeps in-memory stores.
	DatabaseURL string

	DNSTimeout        time.Duration
	PollerBatchSize   int
	MaxCheckAttempts  int
	RequestTimeout    time.Duration
	ShutdownTimeout   time.Duration
	RateLimitDisabled bool
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	return Server{
		Addr:              envOr("SUDSY_ADDR", ":8080"),
		Environment:       envOr("SUDSY_ENV", "development"),
		PlatformDomain:    envOr("SUDSY_PLATFORM_DOMAIN", "sudsy.app"),
		CNAMETarget:       envOr("SUDSY_CNAME_TARGET", "domains.sudsy.app"),
		DevTenantSlug:     envOr("SUDSY_DEV_TENANT", "demo"),
		AdminToken:        envOr("SUDSY_ADMIN_TOKEN", "dev-admin-token-change-in-production"),
		CronSecret:        envOr("SUDSY_CRON_SECRET", "dev-cron-secret-change-in-production"),
		DatabaseURL:       os.Getenv("SUDSY_DATABASE_URL"),
		DNSTimeout:        envDurationOr("SUDSY_DNS_TIMEOUT", 5*time.Second),
		PollerBatchSize:   envIntOr("SUDSY_POLLER_BATCH_SIZE", 20),
		MaxCheckAttempts:  envIntOr("SUDSY_MAX_CHECK_ATTEMPTS", 100),
		RequestTimeout:    envDurationOr("SUDSY_REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout:   envDurationOr("SUDSY_SHUTDOWN_TIMEOUT", 10*time.Second),
		RateLimitDisabled: os.Getenv("SUDSY_RATELIMIT_DISABLED") == "true",
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
