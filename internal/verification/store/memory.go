package store

import (
	"context"
	"sort"
	"sync"

	"sudsy/internal/sentinel"
	"sudsy/internal/verification/models"
	id "sudsy/pkg/domain"
)

// InMemory stores domain claims in memory for development and tests.
// The claim's domain string is the unique key.
type InMemory struct {
	mu     sync.RWMutex
	claims map[string]*models.DomainVerification
}

func NewInMemory() *InMemory {
	return &InMemory{claims: make(map[string]*models.DomainVerification)}
}

// Upsert creates or replaces the claim keyed by its domain.
func (s *InMemory) Upsert(_ context.Context, claim *models.DomainVerification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *claim
	s.claims[claim.Domain] = &cp
	return nil
}

func (s *InMemory) FindByDomain(_ context.Context, domain string) (*models.DomainVerification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.claims[domain]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

// FindByTenant returns the tenant's most recent claim.
func (s *InMemory) FindByTenant(_ context.Context, tenantID id.TenantID) (*models.DomainVerification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *models.DomainVerification
	for _, c := range s.claims {
		if c.TenantID != tenantID {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, sentinel.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

// Update persists a mutated claim. The claim must already exist.
func (s *InMemory) Update(_ context.Context, claim *models.DomainVerification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.claims[claim.Domain]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *claim
	s.claims[claim.Domain] = &cp
	return nil
}

func (s *InMemory) Delete(_ context.Context, domain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.claims[domain]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.claims, domain)
	return nil
}

// ListPending returns up to limit pending claims with check counts below the
// ceiling, oldest first.
func (s *InMemory) ListPending(_ context.Context, limit, maxChecks int) ([]*models.DomainVerification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.DomainVerification
	for _, c := range s.claims {
		if c.IsPending() && c.CheckCount < maxChecks {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CountPending counts pending claims still eligible for polling.
func (s *InMemory) CountPending(_ context.Context, maxChecks int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, c := range s.claims {
		if c.IsPending() && c.CheckCount < maxChecks {
			n++
		}
	}
	return n, nil
}

// Snapshot captures the full store state for in-memory transaction rollback.
func (s *InMemory) Snapshot() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	claims := make(map[string]*models.DomainVerification, len(s.claims))
	for k, v := range s.claims {
		cp := *v
		claims[k] = &cp
	}
	return claims
}

// Restore reverts the store to a previously captured snapshot.
func (s *InMemory) Restore(snapshot any) {
	claims, ok := snapshot.(map[string]*models.DomainVerification)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims = claims
}
