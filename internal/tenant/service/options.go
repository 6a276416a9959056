package service

import (
	"log/slog"

	tenantmetrics "sudsy/internal/tenant/metrics"
)

// serviceConfig holds optional dependencies for services.
type serviceConfig struct {
	logger  *slog.Logger
	metrics *tenantmetrics.Metrics
	tx      StoreTx
}

// Option configures a service.
type Option func(c *serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) {
		c.logger = logger
	}
}

func WithMetrics(m *tenantmetrics.Metrics) Option {
	return func(c *serviceConfig) {
		c.metrics = m
	}
}

func WithStoreTx(tx StoreTx) Option {
	return func(c *serviceConfig) {
		c.tx = tx
	}
}
