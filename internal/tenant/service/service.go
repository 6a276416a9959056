package service

import (
	"context"
	"errors"
	"strings"

	"sudsy/internal/sentinel"
	tenantmetrics "sudsy/internal/tenant/metrics"
	"sudsy/internal/tenant/models"
	id "sudsy/pkg/domain"
	dErrors "sudsy/pkg/domain-errors"
	"sudsy/pkg/requestcontext"
)

// Service orchestrates tenant lifecycle management.
type Service struct {
	tenants TenantStore
	events  *eventLogger
	metrics *tenantmetrics.Metrics
	tx      StoreTx
}

func New(tenants TenantStore, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	tx := cfg.tx
	if tx == nil {
		tx = newInMemoryStoreTx()
	}
	return &Service{
		tenants: tenants,
		events:  &eventLogger{logger: cfg.logger},
		metrics: cfg.metrics,
		tx:      tx,
	}
}

// Create provisions a new active tenant under the given slug.
func (s *Service) Create(ctx context.Context, slug, name string) (*models.Tenant, error) {
	name = strings.TrimSpace(name)

	var tenant *models.Tenant
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		t, err := models.NewTenant(id.NewTenantID(), slug, name, requestcontext.Now(txCtx))
		if err != nil {
			return err
		}

		if err := s.tenants.CreateIfSlugAvailable(txCtx, t); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeConflict, "tenant slug must be unique")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create tenant")
		}
		s.events.emit(txCtx, "tenant.created", "tenant_id", t.ID.String(), "slug", t.Slug)
		tenant = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementTenantCreated()
	}
	return tenant, nil
}

// Get retrieves a tenant by ID regardless of status.
func (s *Service) Get(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, wrapTenantErr(err, "failed to load tenant")
	}
	return tenant, nil
}

// Deactivate transitions a tenant to inactive status. Its slug and custom
// domain stop resolving but remain bound to it.
func (s *Service) Deactivate(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	return s.transition(ctx, tenantID, "tenant.deactivated", func(t *models.Tenant, txCtx context.Context) error {
		if err := t.Deactivate(requestcontext.Now(txCtx)); err != nil {
			if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
				return dErrors.New(dErrors.CodeConflict, "tenant is already inactive")
			}
			return err
		}
		return nil
	})
}

// Reactivate transitions a tenant back to active status.
func (s *Service) Reactivate(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	return s.transition(ctx, tenantID, "tenant.reactivated", func(t *models.Tenant, txCtx context.Context) error {
		if err := t.Reactivate(requestcontext.Now(txCtx)); err != nil {
			if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
				return dErrors.New(dErrors.CodeConflict, "tenant is already active")
			}
			return err
		}
		return nil
	})
}

func (s *Service) transition(ctx context.Context, tenantID id.TenantID, event string, mutate func(*models.Tenant, context.Context) error) (*models.Tenant, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	var tenant *models.Tenant
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		t, err := s.tenants.FindByID(txCtx, tenantID)
		if err != nil {
			return wrapTenantErr(err, "failed to load tenant")
		}
		if err := mutate(t, txCtx); err != nil {
			return err
		}
		if err := s.tenants.Update(txCtx, t); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update tenant")
		}
		s.events.emit(txCtx, event, "tenant_id", t.ID.String(), "slug", t.Slug)
		tenant = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tenant, nil
}
