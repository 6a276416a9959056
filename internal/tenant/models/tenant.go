package models

import (
	"strings"
	"time"

	id "sudsy/pkg/domain"
	dErrors "sudsy/pkg/domain-errors"
)

// Tenant is one business account on the platform. The slug is its identity on
// the platform subdomain (<slug>.sudsy.app); CustomDomain, when set, is the
// single verified external hostname bound to it.
type Tenant struct {
	ID           id.TenantID  `json:"id"`
	Slug         string       `json:"slug"`
	Name         string       `json:"name"`
	CustomDomain *string      `json:"custom_domain,omitempty"`
	Status       TenantStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// HasCustomDomain reports whether the given domain is the tenant's bound domain.
func (t *Tenant) HasCustomDomain(domain string) bool {
	return t.CustomDomain != nil && *t.CustomDomain == domain
}

// Deactivate transitions the tenant to inactive status.
// Returns an error if the tenant is already inactive.
func (t *Tenant) Deactivate(now time.Time) error {
	if !t.IsActive() {
		return dErrors.New(dErrors.CodeInvariantViolation, "tenant is already inactive")
	}
	t.Status = TenantStatusInactive
	t.UpdatedAt = now
	return nil
}

// Reactivate transitions the tenant to active status.
// Returns an error if the tenant is already active.
func (t *Tenant) Reactivate(now time.Time) error {
	if t.IsActive() {
		return dErrors.New(dErrors.CodeInvariantViolation, "tenant is already active")
	}
	t.Status = TenantStatusActive
	t.UpdatedAt = now
	return nil
}

// reservedSlugs are labels the platform keeps for itself; a tenant storefront
// must never shadow them.
var reservedSlugs = map[string]struct{}{
	"admin":   {},
	"www":     {},
	"api":     {},
	"cdn":     {},
	"domains": {},
	"status":  {},
}

// NewTenant constructs an active tenant after validating slug and name.
func NewTenant(tenantID id.TenantID, slug, name string, now time.Time) (*Tenant, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant name must be 128 characters or less")
	}
	return &Tenant{
		ID:        tenantID,
		Slug:      slug,
		Name:      name,
		Status:    TenantStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateSlug enforces subdomain-label syntax on a tenant slug: 1-63
// characters, lowercase alphanumerics plus internal hyphens, not reserved.
func ValidateSlug(slug string) error {
	if slug == "" {
		return dErrors.New(dErrors.CodeValidation, "slug is required")
	}
	if len(slug) > 63 {
		return dErrors.New(dErrors.CodeValidation, "slug must be 63 characters or less")
	}
	if slug[0] == '-' || slug[len(slug)-1] == '-' {
		return dErrors.New(dErrors.CodeValidation, "slug cannot start or end with a hyphen")
	}
	for i := 0; i < len(slug); i++ {
		c := slug[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' {
			continue
		}
		return dErrors.New(dErrors.CodeValidation, "slug may only contain lowercase letters, digits, and hyphens")
	}
	if _, reserved := reservedSlugs[slug]; reserved {
		return dErrors.New(dErrors.CodeValidation, "this slug is reserved by the platform")
	}
	return nil
}
