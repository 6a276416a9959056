package handler

import (
	"time"

	"sudsy/internal/tenant/models"
)

type TenantResponse struct {
	ID           string              `json:"id"`
	Slug         string              `json:"slug"`
	Name         string              `json:"name"`
	CustomDomain *string             `json:"custom_domain,omitempty"`
	Status       models.TenantStatus `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

type TenantCreateResponse struct {
	TenantID string          `json:"tenant_id"`
	Tenant   *TenantResponse `json:"tenant"`
}

func toTenantResponse(t *models.Tenant) *TenantResponse {
	return &TenantResponse{
		ID:           t.ID.String(),
		Slug:         t.Slug,
		Name:         t.Name,
		CustomDomain: t.CustomDomain,
		Status:       t.Status,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}
