package config

import (
	"time"

	"sudsy/internal/ratelimit/models"
)

// DefaultPolicies returns the per-class admission budgets. The resolver path
// is generous (it guards storefront traffic), claim mutations are tight, and
// admin sits in between.
func DefaultPolicies() map[models.EndpointClass]models.Policy {
	return map[models.EndpointClass]models.Policy{
		models.ClassResolve: {Limit: 300, Window: time.Minute},
		models.ClassClaim:   {Limit: 10, Window: time.Minute},
		models.ClassAdmin:   {Limit: 60, Window: time.Minute},
	}
}
