// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "sudsy/pkg/domain-errors"
)

// TenantID identifies one business account on the platform.
type TenantID uuid.UUID

// ParseTenantID validates a tenant ID at trust boundaries (handlers, API inputs).
// Nil UUIDs parse successfully; use IsNil() at the service layer so store
// lookups can return proper "not found" errors for consistency.
func ParseTenantID(s string) (TenantID, error) {
	if s == "" {
		return TenantID(uuid.Nil), dErrors.New(dErrors.CodeInvalidInput, "tenant ID cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return TenantID(uuid.Nil), dErrors.New(dErrors.CodeInvalidInput, "invalid tenant ID format")
	}
	return TenantID(id), nil
}

// NewTenantID generates a fresh random tenant ID.
func NewTenantID() TenantID {
	return TenantID(uuid.New())
}

func (id TenantID) String() string { return uuid.UUID(id).String() }

func (id TenantID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText renders the canonical UUID string. Defined types do not inherit
// uuid.UUID's methods, so without this encoding/json would emit the raw
// 16-byte array.
func (id TenantID) MarshalText() ([]byte, error) {
	return []byte(uuid.UUID(id).String()), nil
}

// UnmarshalText parses the canonical UUID string.
func (id *TenantID) UnmarshalText(data []byte) error {
	parsed, err := uuid.Parse(string(data))
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid tenant ID format")
	}
	*id = TenantID(parsed)
	return nil
}
