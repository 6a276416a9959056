// Package testutil provides shared test fixtures and helpers.
package testutil

import (
	"time"

	"github.com/google/uuid"

	tenantmodels "sudsy/internal/tenant/models"
	verifmodels "sudsy/internal/verification/models"
	id "sudsy/pkg/domain"
)

// TestIDs provides convenient pre-generated IDs for tests.
// Use these for deterministic test data.
var TestIDs = struct {
	TenantID1 id.TenantID
	TenantID2 id.TenantID
	TenantID3 id.TenantID
}{
	TenantID1: id.TenantID(uuid.MustParse("aaaa0000-0000-0000-0000-000000000001")),
	TenantID2: id.TenantID(uuid.MustParse("aaaa0000-0000-0000-0000-000000000002")),
	TenantID3: id.TenantID(uuid.MustParse("aaaa0000-0000-0000-0000-000000000003")),
}

// BaseTime is a fixed reference instant for deterministic timestamps.
var BaseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// TenantBuilder provides a fluent interface for building test tenants.
type TenantBuilder struct {
	tenant *tenantmodels.Tenant
}

// NewTenantBuilder creates a TenantBuilder with sensible defaults.
func NewTenantBuilder() *TenantBuilder {
	return &TenantBuilder{
		tenant: &tenantmodels.Tenant{
			ID:        id.TenantID(uuid.New()),
			Slug:      "acme",
			Name:      "Acme Laundry",
			Status:    tenantmodels.TenantStatusActive,
			CreatedAt: BaseTime,
			UpdatedAt: BaseTime,
		},
	}
}

func (b *TenantBuilder) WithID(tenantID id.TenantID) *TenantBuilder {
	b.tenant.ID = tenantID
	return b
}

func (b *TenantBuilder) WithSlug(slug string) *TenantBuilder {
	b.tenant.Slug = slug
	return b
}

func (b *TenantBuilder) WithName(name string) *TenantBuilder {
	b.tenant.Name = name
	return b
}

func (b *TenantBuilder) WithCustomDomain(domain string) *TenantBuilder {
	b.tenant.CustomDomain = &domain
	return b
}

func (b *TenantBuilder) Inactive() *TenantBuilder {
	b.tenant.Status = tenantmodels.TenantStatusInactive
	return b
}

// Build returns the constructed tenant.
func (b *TenantBuilder) Build() *tenantmodels.Tenant {
	t := *b.tenant
	return &t
}

// ClaimBuilder provides a fluent interface for building test domain claims.
type ClaimBuilder struct {
	claim *verifmodels.DomainVerification
}

// NewClaimBuilder creates a ClaimBuilder for a pending claim with defaults.
func NewClaimBuilder() *ClaimBuilder {
	return &ClaimBuilder{
		claim: verifmodels.NewClaim(TestIDs.TenantID1, "acme-laundry.com",
			"test-verification-token", "domains.sudsy.app", BaseTime),
	}
}

func (b *ClaimBuilder) WithTenant(tenantID id.TenantID) *ClaimBuilder {
	b.claim.TenantID = tenantID
	return b
}

func (b *ClaimBuilder) WithDomain(domain string) *ClaimBuilder {
	b.claim.Domain = domain
	return b
}

func (b *ClaimBuilder) WithToken(token string) *ClaimBuilder {
	b.claim.Token = token
	return b
}

func (b *ClaimBuilder) WithStatus(status verifmodels.Status) *ClaimBuilder {
	b.claim.Status = status
	return b
}

func (b *ClaimBuilder) WithCheckCount(n int) *ClaimBuilder {
	b.claim.CheckCount = n
	return b
}

func (b *ClaimBuilder) CreatedAt(at time.Time) *ClaimBuilder {
	b.claim.CreatedAt = at
	b.claim.UpdatedAt = at
	return b
}

// Verified marks the claim verified via TXT proof at BaseTime.
func (b *ClaimBuilder) Verified() *ClaimBuilder {
	b.claim.MarkVerified(verifmodels.MethodTXT, BaseTime)
	return b
}

// Build returns the constructed claim.
func (b *ClaimBuilder) Build() *verifmodels.DomainVerification {
	c := *b.claim
	return &c
}
