// Package poller drives pending domain claims through their DNS checks in
// scheduler-triggered batches.
package poller

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	verifmetrics "sudsy/internal/verification/metrics"
	"sudsy/internal/verification/models"
)

var tracer = otel.Tracer("sudsy/verification/poller")

// Engine is the slice of the verification engine the poller drives.
type Engine interface {
	CheckAndSettle(ctx context.Context, claim *models.DomainVerification) (*models.DomainVerification, error)
}

// ClaimSource lists the work for one batch.
type ClaimSource interface {
	ListPending(ctx context.Context, limit, maxChecks int) ([]*models.DomainVerification, error)
	CountPending(ctx context.Context, maxChecks int) (int, error)
}

// Summary reports what one batch run did.
type Summary struct {
	Checked   int `json:"checked"`
	Verified  int `json:"verified"`
	Expired   int `json:"expired"`
	Remaining int `json:"remaining"`
}

// Poller runs one bounded batch per invocation. The scheduler owns the timer;
// the poller owns nothing between runs.
type Poller struct {
	engine    Engine
	claims    ClaimSource
	logger    *slog.Logger
	metrics   *verifmetrics.Metrics
	batchSize int
	maxChecks int
}

func New(engine Engine, claims ClaimSource, logger *slog.Logger, metrics *verifmetrics.Metrics, batchSize, maxChecks int) *Poller {
	if batchSize <= 0 {
		batchSize = 20
	}
	if maxChecks <= 0 {
		maxChecks = 100
	}
	return &Poller{
		engine:    engine,
		claims:    claims,
		logger:    logger,
		metrics:   metrics,
		batchSize: batchSize,
		maxChecks: maxChecks,
	}
}

// RunOnce processes up to one batch of the oldest pending claims serially.
// A single claim's failure is recorded and skipped, never aborts the batch.
func (p *Poller) RunOnce(ctx context.Context) (Summary, error) {
	ctx, span := tracer.Start(ctx, "verification.poller.run")
	defer span.End()

	if p.metrics != nil {
		p.metrics.IncrementPollerRun()
	}

	batch, err := p.claims.ListPending(ctx, p.batchSize, p.maxChecks)
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	for _, claim := range batch {
		if err := ctx.Err(); err != nil {
			// Scheduler budget exhausted; settled claims stay settled and the
			// rest is picked up next run.
			break
		}

		settled, err := p.engine.CheckAndSettle(ctx, claim)
		summary.Checked++
		if err != nil {
			p.logger.ErrorContext(ctx, "claim check failed",
				"domain", claim.Domain, "tenant_id", claim.TenantID.String(), "error", err)
			continue
		}
		switch settled.Status {
		case models.StatusVerified:
			summary.Verified++
		case models.StatusExpired:
			summary.Expired++
		}
	}

	if remaining, err := p.claims.CountPending(ctx, p.maxChecks); err == nil {
		summary.Remaining = remaining
	}

	span.SetAttributes(
		attribute.Int("checked", summary.Checked),
		attribute.Int("verified", summary.Verified),
		attribute.Int("expired", summary.Expired),
	)
	p.logger.InfoContext(ctx, "verification poll complete",
		"checked", summary.Checked, "verified", summary.Verified,
		"expired", summary.Expired, "remaining", summary.Remaining)
	return summary, nil
}
