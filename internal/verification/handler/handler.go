package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"sudsy/internal/transport/httputil"
	"sudsy/internal/verification/models"
	"sudsy/internal/verification/service"
	id "sudsy/pkg/domain"
	dErrors "sudsy/pkg/domain-errors"
	"sudsy/pkg/requestcontext"
)

// TenantIDHeader carries the authenticated tenant identity on the claim API.
// Session authentication itself lives upstream of this service.
const TenantIDHeader = "X-Sudsy-Tenant-ID"

// Service defines the interface for domain claim operations.
// Returns domain objects, not HTTP response DTOs.
type Service interface {
	Initiate(ctx context.Context, tenantID id.TenantID, rawDomain string) (*service.Artifacts, error)
	Status(ctx context.Context, tenantID id.TenantID) (*service.ClaimStatus, error)
	Remove(ctx context.Context, tenantID id.TenantID, domain string) error
	VerifyNow(ctx context.Context, tenantID id.TenantID, domain string) (*models.DomainVerification, error)
	AdminForceAssign(ctx context.Context, tenantID id.TenantID, rawDomain string) error
	AdminRemove(ctx context.Context, domain string) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the tenant-facing domain claim routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/domains", h.HandleInitiate)
	r.Get("/api/domains", h.HandleStatus)
	r.Delete("/api/domains/{domain}", h.HandleRemove)
}

// RegisterAdmin mounts the operator override routes. The caller is
// responsible for wrapping the router in admin authentication.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/admin/domains/force-assign", h.HandleForceAssign)
	r.Post("/admin/domains/verify-now", h.HandleVerifyNow)
	r.Delete("/admin/domains/{domain}", h.HandleAdminRemove)
}

// HandleInitiate starts a domain claim and returns the DNS records to publish.
func (h *Handler) HandleInitiate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	tenantID, ok := h.callerTenantID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[InitiateDomainRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	artifacts, err := h.service.Initiate(ctx, tenantID, req.Domain)
	if err != nil {
		h.logger.ErrorContext(ctx, "initiate domain claim failed",
			"error", err, "request_id", requestID, "tenant_id", tenantID, "domain", req.Domain)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, artifacts)
}

// HandleStatus reports the caller's bound domain and latest claim.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, ok := h.callerTenantID(w, r)
	if !ok {
		return
	}

	status, err := h.service.Status(ctx, tenantID)
	if err != nil {
		h.logger.ErrorContext(ctx, "domain status failed",
			"error", err, "request_id", requestcontext.RequestID(ctx), "tenant_id", tenantID)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, status)
}

// HandleRemove deletes the caller's own claim on the domain.
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, ok := h.callerTenantID(w, r)
	if !ok {
		return
	}
	domain := domainParam(r)

	if err := h.service.Remove(ctx, tenantID, domain); err != nil {
		h.logger.ErrorContext(ctx, "remove domain claim failed",
			"error", err, "request_id", requestcontext.RequestID(ctx), "tenant_id", tenantID, "domain", domain)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleForceAssign binds a domain to a tenant without DNS proof.
func (h *Handler) HandleForceAssign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AdminDomainRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	tenantID, err := id.ParseTenantID(req.TenantID)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid tenant id"))
		return
	}

	if err := h.service.AdminForceAssign(ctx, tenantID, req.Domain); err != nil {
		h.logger.ErrorContext(ctx, "force-assign domain failed",
			"error", err, "request_id", requestID, "tenant_id", tenantID, "domain", req.Domain)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"domain": req.Domain, "tenant_id": req.TenantID})
}

// HandleVerifyNow forces an immediate DNS check outside the poll cycle.
func (h *Handler) HandleVerifyNow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AdminDomainRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	tenantID, err := id.ParseTenantID(req.TenantID)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid tenant id"))
		return
	}

	claim, err := h.service.VerifyNow(ctx, tenantID, req.Domain)
	if err != nil {
		h.logger.ErrorContext(ctx, "verify-now failed",
			"error", err, "request_id", requestID, "tenant_id", tenantID, "domain", req.Domain)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, claim)
}

// HandleAdminRemove deletes any claim regardless of owner.
func (h *Handler) HandleAdminRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	domain := domainParam(r)

	if err := h.service.AdminRemove(ctx, domain); err != nil {
		h.logger.ErrorContext(ctx, "admin remove domain failed",
			"error", err, "request_id", requestcontext.RequestID(ctx), "domain", domain)
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// domainParam normalizes the {domain} path segment the same way request
// bodies are normalized, so DELETE matches the claim stored at POST time.
func domainParam(r *http.Request) string {
	return strings.ToLower(strings.TrimSpace(chi.URLParam(r, "domain")))
}

func (h *Handler) callerTenantID(w http.ResponseWriter, r *http.Request) (id.TenantID, bool) {
	raw := r.Header.Get(TenantIDHeader)
	if raw == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "tenant identity required"))
		return id.TenantID{}, false
	}
	tenantID, err := id.ParseTenantID(raw)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid tenant identity"))
		return id.TenantID{}, false
	}
	return tenantID, true
}
