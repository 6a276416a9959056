package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sudsy/internal/tenant/models"
	"sudsy/internal/transport/httputil"
	id "sudsy/pkg/domain"
	dErrors "sudsy/pkg/domain-errors"
	"sudsy/pkg/requestcontext"
)

// Service defines the interface for tenant lifecycle operations.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	Create(ctx context.Context, slug, name string) (*models.Tenant, error)
	Get(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
	Deactivate(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
	Reactivate(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the platform admin tenant routes. The caller is responsible
// for wrapping the router in admin authentication.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/tenants", h.HandleCreateTenant)
	r.Get("/admin/tenants/{id}", h.HandleGetTenant)
	r.Post("/admin/tenants/{id}/deactivate", h.HandleDeactivateTenant)
	r.Post("/admin/tenants/{id}/reactivate", h.HandleReactivateTenant)
}

// HandleCreateTenant provisions a new tenant.
func (h *Handler) HandleCreateTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateTenantRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	tenant, err := h.service.Create(ctx, req.Slug, req.Name)
	if err != nil {
		h.logger.ErrorContext(ctx, "create tenant failed", "error", err, "request_id", requestID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, &TenantCreateResponse{
		TenantID: tenant.ID.String(),
		Tenant:   toTenantResponse(tenant),
	})
}

// HandleGetTenant returns tenant metadata.
func (h *Handler) HandleGetTenant(w http.ResponseWriter, r *http.Request) {
	h.withTenantID(w, r, "get tenant failed", h.service.Get)
}

// HandleDeactivateTenant deactivates a tenant. Its slug and custom domain stop
// resolving until reactivation.
func (h *Handler) HandleDeactivateTenant(w http.ResponseWriter, r *http.Request) {
	h.withTenantID(w, r, "deactivate tenant failed", h.service.Deactivate)
}

// HandleReactivateTenant restores routing for a deactivated tenant.
func (h *Handler) HandleReactivateTenant(w http.ResponseWriter, r *http.Request) {
	h.withTenantID(w, r, "reactivate tenant failed", h.service.Reactivate)
}

func (h *Handler) withTenantID(w http.ResponseWriter, r *http.Request, logMsg string, op func(context.Context, id.TenantID) (*models.Tenant, error)) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	tenantID, err := id.ParseTenantID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid tenant id"))
		return
	}

	tenant, err := op(ctx, tenantID)
	if err != nil {
		h.logger.ErrorContext(ctx, logMsg, "error", err, "request_id", requestID, "tenant_id", tenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toTenantResponse(tenant))
}
