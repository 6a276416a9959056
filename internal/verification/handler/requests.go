package handler

import (
	"strings"

	dErrors "sudsy/pkg/domain-errors"
)

// HTTP Request DTOs - contain JSON tags for API serialization.

type InitiateDomainRequest struct {
	Domain string `json:"domain"`
}

func (r *InitiateDomainRequest) Normalize() {
	if r == nil {
		return
	}
	r.Domain = strings.ToLower(strings.TrimSpace(r.Domain))
}

func (r *InitiateDomainRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Domain == "" {
		return dErrors.New(dErrors.CodeValidation, "domain is required")
	}
	return nil
}

// AdminDomainRequest targets one tenant/domain pair for operator overrides.
type AdminDomainRequest struct {
	TenantID string `json:"tenant_id"`
	Domain   string `json:"domain"`
}

func (r *AdminDomainRequest) Normalize() {
	if r == nil {
		return
	}
	r.TenantID = strings.TrimSpace(r.TenantID)
	r.Domain = strings.ToLower(strings.TrimSpace(r.Domain))
}

func (r *AdminDomainRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.TenantID == "" {
		return dErrors.New(dErrors.CodeValidation, "tenant_id is required")
	}
	if r.Domain == "" {
		return dErrors.New(dErrors.CodeValidation, "domain is required")
	}
	return nil
}
