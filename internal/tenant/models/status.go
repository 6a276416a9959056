package models

// TenantStatus is the lifecycle state of a tenant account.
type TenantStatus string

const (
	TenantStatusActive   TenantStatus = "active"
	TenantStatusInactive TenantStatus = "inactive"
)
