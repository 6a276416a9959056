package httptransport

import (
	"log/slog"
	"net/http"

	"sudsy/internal/routing"
	"sudsy/internal/transport/httputil"
	dErrors "sudsy/pkg/domain-errors"
	"sudsy/pkg/requestcontext"
)

// ResolveResponse is the routing decision for the request's Host header.
type ResolveResponse struct {
	Kind   routing.Kind    `json:"kind"`
	Slug   string          `json:"slug,omitempty"`
	Domain string          `json:"domain,omitempty"`
	Tenant *ResolvedTenant `json:"tenant,omitempty"`
}

type ResolvedTenant struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// handleResolve reports which tenant (if any) the request host routes to.
// Downstream renderers call this on every request; unresolvable hosts are a
// 404, never an error.
func handleResolve(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		res := routing.FromContext(ctx)

		switch res.Kind {
		case routing.KindPlatformAdmin:
			httputil.WriteJSON(w, http.StatusOK, &ResolveResponse{Kind: res.Kind})
			return
		case routing.KindNone:
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no tenant resolved for this host"))
			return
		}

		tenant, err := routing.CurrentTenant(ctx)
		if err != nil {
			if !dErrors.HasCode(err, dErrors.CodeNotFound) {
				logger.ErrorContext(ctx, "tenant resolution failed",
					"error", err, "request_id", requestcontext.RequestID(ctx), "host", r.Host)
			}
			httputil.WriteError(w, err)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, &ResolveResponse{
			Kind:   res.Kind,
			Slug:   res.Slug,
			Domain: res.Domain,
			Tenant: &ResolvedTenant{
				ID:   tenant.ID.String(),
				Slug: tenant.Slug,
				Name: tenant.Name,
			},
		})
	}
}
