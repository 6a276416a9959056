package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sudsy/internal/transport/httputil"
	"sudsy/internal/verification/poller"
	"sudsy/pkg/requestcontext"
)

// BatchRunner drives one verification batch; the external scheduler owns the
// cadence.
type BatchRunner interface {
	RunOnce(ctx context.Context) (poller.Summary, error)
}

// CronHandler exposes the scheduler-facing poll trigger.
type CronHandler struct {
	runner BatchRunner
	logger *slog.Logger
}

func NewCron(runner BatchRunner, logger *slog.Logger) *CronHandler {
	return &CronHandler{runner: runner, logger: logger}
}

// Register mounts the cron trigger route. The caller is responsible for
// wrapping the router in cron authentication.
func (h *CronHandler) Register(r chi.Router) {
	r.Post("/internal/cron/verify-domains", h.HandleVerifyDomains)
}

// HandleVerifyDomains runs one poller batch and reports its summary.
func (h *CronHandler) HandleVerifyDomains(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := h.runner.RunOnce(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "verification batch failed",
			"error", err, "request_id", requestcontext.RequestID(ctx))
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, summary)
}
