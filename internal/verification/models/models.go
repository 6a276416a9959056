// Package models holds the domain-claim aggregate for custom-domain
// verification.
package models

import (
	"time"

	id "sudsy/pkg/domain"
)

// Status is the lifecycle state of a claim. There is no transition out of
// verified or expired.
type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusFailed   Status = "failed"
	StatusExpired  Status = "expired"
)

// Method records which DNS proof succeeded.
type Method string

const (
	MethodCNAME Method = "cname"
	MethodTXT   Method = "txt"
)

// TXTPrefix is the label prepended to a claimed domain to form the
// verification TXT record name.
const TXTPrefix = "_sudsy-verify."

// TXTValuePrefix prefixes the claim token inside the TXT record value.
const TXTValuePrefix = "sudsy-domain-verification="

// DomainVerification is one claim by one tenant on one external hostname.
// The domain string is the unique key: two tenants can never hold claims on
// the same hostname at the same time.
type DomainVerification struct {
	Domain        string      `json:"domain"`
	TenantID      id.TenantID `json:"tenant_id"`
	Token         string      `json:"verification_token"`
	CNAMETarget   string      `json:"cname_target"`
	Status        Status      `json:"status"`
	Method        Method      `json:"verification_method,omitempty"`
	CheckCount    int         `json:"check_count"`
	LastCheckedAt *time.Time  `json:"last_checked_at,omitempty"`
	FailureReason string      `json:"failure_reason,omitempty"`
	VerifiedAt    *time.Time  `json:"verified_at,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// NewClaim starts a pending claim with fresh verification artifacts.
func NewClaim(tenantID id.TenantID, domain, token, cnameTarget string, now time.Time) *DomainVerification {
	return &DomainVerification{
		Domain:      domain,
		TenantID:    tenantID,
		Token:       token,
		CNAMETarget: cnameTarget,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// TXTRecordName is where the claimant must publish the proof TXT record.
func (v *DomainVerification) TXTRecordName() string {
	return TXTPrefix + v.Domain
}

// ExpectedTXTValue is the exact TXT record value that proves control.
func (v *DomainVerification) ExpectedTXTValue() string {
	return TXTValuePrefix + v.Token
}

func (v *DomainVerification) IsPending() bool {
	return v.Status == StatusPending
}

// MarkVerified transitions the claim to verified, stamping the proof method.
func (v *DomainVerification) MarkVerified(method Method, now time.Time) {
	v.Status = StatusVerified
	v.Method = method
	v.FailureReason = ""
	v.CheckCount++
	v.LastCheckedAt = &now
	v.VerifiedAt = &now
	v.UpdatedAt = now
}

// RecordFailure counts a failed check and expires the claim once the attempt
// ceiling is reached. Reports whether the claim just expired.
func (v *DomainVerification) RecordFailure(reason string, ceiling int, now time.Time) bool {
	v.CheckCount++
	v.LastCheckedAt = &now
	v.FailureReason = reason
	v.UpdatedAt = now
	if v.CheckCount >= ceiling {
		v.Status = StatusExpired
		return true
	}
	return false
}
