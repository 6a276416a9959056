package service

import (
	"context"
	"errors"
	"log/slog"

	"sudsy/internal/sentinel"
	tenantmodels "sudsy/internal/tenant/models"
	"sudsy/internal/verification/models"
	id "sudsy/pkg/domain"
	dErrors "sudsy/pkg/domain-errors"
	"sudsy/pkg/requestcontext"
)

// Store interfaces define persistence contracts.

type ClaimStore interface {
	Upsert(ctx context.Context, claim *models.DomainVerification) error
	FindByDomain(ctx context.Context, domain string) (*models.DomainVerification, error)
	FindByTenant(ctx context.Context, tenantID id.TenantID) (*models.DomainVerification, error)
	Update(ctx context.Context, claim *models.DomainVerification) error
	Delete(ctx context.Context, domain string) error
	ListPending(ctx context.Context, limit, maxChecks int) ([]*models.DomainVerification, error)
	CountPending(ctx context.Context, maxChecks int) (int, error)
}

// TenantStore is the slice of the tenant store the engine needs: the domain
// pointer and active-ownership checks.
type TenantStore interface {
	FindByID(ctx context.Context, tenantID id.TenantID) (*tenantmodels.Tenant, error)
	FindByCustomDomain(ctx context.Context, domain string) (*tenantmodels.Tenant, error)
	SetCustomDomain(ctx context.Context, tenantID id.TenantID, domain string) error
	ClearCustomDomain(ctx context.Context, tenantID id.TenantID) error
}

func requireTenantID(tenantID id.TenantID) error {
	if tenantID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "tenant ID required")
	}
	return nil
}

// wrapClaimErr translates sentinel errors to domain errors.
func wrapClaimErr(err error, action string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "domain claim not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, action)
}

func wrapTenantErr(err error, action string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "tenant not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, action)
}

// eventLogger records claim lifecycle events as structured audit-style log lines.
type eventLogger struct {
	logger *slog.Logger
}

func (e *eventLogger) emit(ctx context.Context, event string, attributes ...any) {
	if e.logger == nil {
		return
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	e.logger.InfoContext(ctx, event, args...)
}
