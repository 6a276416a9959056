package service

import (
	"context"
	"log/slog"
	"time"

	ratelimitmetrics "sudsy/internal/ratelimit/metrics"
	"sudsy/internal/ratelimit/models"
	dErrors "sudsy/pkg/domain-errors"
	"sudsy/pkg/requestcontext"
)

// WindowStore is the fixed-window counter backend.
type WindowStore interface {
	Allow(key string, policy models.Policy, now time.Time) models.Result
	Sweep(now time.Time) int
}

// Limiter applies per-class fixed-window policies to arbitrary string keys.
type Limiter struct {
	store    WindowStore
	policies map[models.EndpointClass]models.Policy
	logger   *slog.Logger
	metrics  *ratelimitmetrics.Metrics
}

func NewLimiter(store WindowStore, policies map[models.EndpointClass]models.Policy, logger *slog.Logger, metrics *ratelimitmetrics.Metrics) *Limiter {
	return &Limiter{
		store:    store,
		policies: policies,
		logger:   logger,
		metrics:  metrics,
	}
}

// Check admits or rejects one request for the key under the class policy.
func (l *Limiter) Check(ctx context.Context, key string, class models.EndpointClass) (*models.Result, error) {
	policy, ok := l.policies[class]
	if !ok {
		return nil, dErrors.New(dErrors.CodeInternal, "no rate limit policy for endpoint class")
	}
	result := l.store.Allow(string(class)+":"+key, policy, requestcontext.Now(ctx))
	if l.metrics != nil {
		outcome := "allowed"
		if !result.Allowed {
			outcome = "throttled"
		}
		l.metrics.IncrementDecision(string(class), outcome)
	}
	return &result, nil
}

// RunJanitor periodically drops elapsed windows until the context ends.
func (l *Limiter) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := l.store.Sweep(now); removed > 0 {
				l.logger.DebugContext(ctx, "swept rate limit windows", "removed", removed)
			}
		}
	}
}
