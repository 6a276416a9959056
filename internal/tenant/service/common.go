package service

import (
	"context"
	"errors"
	"log/slog"

	"sudsy/internal/sentinel"
	"sudsy/internal/tenant/models"
	id "sudsy/pkg/domain"
	dErrors "sudsy/pkg/domain-errors"
	"sudsy/pkg/requestcontext"
)

// Store interfaces define persistence contracts.

type TenantStore interface {
	CreateIfSlugAvailable(ctx context.Context, tenant *models.Tenant) error
	Update(ctx context.Context, tenant *models.Tenant) error
	FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
	FindBySlug(ctx context.Context, slug string) (*models.Tenant, error)
	FindByCustomDomain(ctx context.Context, domain string) (*models.Tenant, error)
	SetCustomDomain(ctx context.Context, tenantID id.TenantID, domain string) error
	ClearCustomDomain(ctx context.Context, tenantID id.TenantID) error
	Count(ctx context.Context) (int, error)
}

func requireTenantID(tenantID id.TenantID) error {
	if tenantID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "tenant ID required")
	}
	return nil
}

// wrapTenantErr translates sentinel errors to domain errors.
func wrapTenantErr(err error, action string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "tenant not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, action)
}

// eventLogger records lifecycle events as structured audit-style log lines.
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
