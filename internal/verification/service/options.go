package service

import (
	"log/slog"

	verifmetrics "sudsy/internal/verification/metrics"
)

// engineConfig holds optional dependencies for the engine.
type engineConfig struct {
	logger   *slog.Logger
	metrics  *verifmetrics.Metrics
	newToken func() (string, error)
}

// Option configures the engine.
type Option func(c *engineConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

func WithMetrics(m *verifmetrics.Metrics) Option {
	return func(c *engineConfig) {
		c.metrics = m
	}
}

// WithTokenSource overrides verification-token generation. Test hook.
func WithTokenSource(fn func() (string, error)) Option {
	return func(c *engineConfig) {
		c.newToken = fn
	}
}
