package models

import (
	"time"
)

// EndpointClass groups routes sharing a rate-limit policy.
type EndpointClass string

const (
	// ClassResolve: the request hot path (host resolution / storefront traffic).
	ClassResolve EndpointClass = "resolve"
	// ClassClaim: domain claim mutations (initiate/remove/status).
	ClassClaim EndpointClass = "claim"
	// ClassAdmin: operator endpoints.
	ClassAdmin EndpointClass = "admin"
)

func (c EndpointClass) IsValid() bool {
	switch c {
	case ClassResolve, ClassClaim, ClassAdmin:
		return true
	}
	return false
}

// Policy is a fixed-window budget: Limit requests per Window.
type Policy struct {
	Limit  int
	Window time.Duration
}

// Result reports one admission decision.
type Result struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

// ExceededResponse is the 429 body.
type ExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}
