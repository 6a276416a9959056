package store

import (
	"context"
	"fmt"
	"sync"

	"sudsy/internal/sentinel"
	"sudsy/internal/tenant/models"
	id "sudsy/pkg/domain"
)

// InMemory stores tenants in memory for development and tests.
type InMemory struct {
	mu        sync.RWMutex
	tenants   map[string]*models.Tenant // tenant ID -> tenant
	slugIdx   map[string]string         // slug -> tenant ID
	domainIdx map[string]string         // custom domain -> tenant ID

	// failSetCustomDomain simulates a storage fault on the tenant-pointer
	// write; tests use it to prove finalize atomicity.
	failSetCustomDomain bool
}

// NewInMemory creates an in-memory tenant store.
func NewInMemory() *InMemory {
	return &InMemory{
		tenants:   make(map[string]*models.Tenant),
		slugIdx:   make(map[string]string),
		domainIdx: make(map[string]string),
	}
}

// FailNextSetCustomDomain arms the simulated storage fault. Test hook.
func (s *InMemory) FailNextSetCustomDomain() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSetCustomDomain = true
}

// CreateIfSlugAvailable atomically creates the tenant if the slug is not taken.
func (s *InMemory) CreateIfSlugAvailable(_ context.Context, t *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.slugIdx[t.Slug]; exists {
		return fmt.Errorf("tenant slug must be unique: %w", sentinel.ErrAlreadyUsed)
	}
	cp := *t
	key := t.ID.String()
	s.tenants[key] = &cp
	s.slugIdx[t.Slug] = key
	return nil
}

// FindByID retrieves a tenant by its UUID.
func (s *InMemory) FindByID(_ context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.tenants[tenantID.String()]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

// FindBySlug retrieves a tenant by its platform subdomain slug.
func (s *InMemory) FindBySlug(_ context.Context, slug string) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if key, ok := s.slugIdx[slug]; ok {
		cp := *s.tenants[key]
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

// FindByCustomDomain retrieves a tenant by its verified custom domain.
func (s *InMemory) FindByCustomDomain(_ context.Context, domain string) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if key, ok := s.domainIdx[domain]; ok {
		cp := *s.tenants[key]
		return &cp, nil
	}
	return nil, sentinel.ErrNotFound
}

// Update persists mutated tenant fields (status, name, timestamps).
// Custom domain changes go through SetCustomDomain/ClearCustomDomain only.
func (s *InMemory) Update(_ context.Context, t *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := t.ID.String()
	existing, ok := s.tenants[key]
	if !ok {
		return sentinel.ErrNotFound
	}
	cp := *t
	cp.CustomDomain = existing.CustomDomain
	s.tenants[key] = &cp
	return nil
}

// SetCustomDomain binds a domain to the tenant, enforcing global uniqueness.
func (s *InMemory) SetCustomDomain(_ context.Context, tenantID id.TenantID, domain string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSetCustomDomain {
		s.failSetCustomDomain = false
		return sentinel.ErrUnavailable
	}
	if owner, taken := s.domainIdx[domain]; taken && owner != tenantID.String() {
		return fmt.Errorf("custom domain must be unique: %w", sentinel.ErrAlreadyUsed)
	}
	t, ok := s.tenants[tenantID.String()]
	if !ok {
		return sentinel.ErrNotFound
	}
	if t.CustomDomain != nil {
		delete(s.domainIdx, *t.CustomDomain)
	}
	d := domain
	t.CustomDomain = &d
	s.domainIdx[domain] = tenantID.String()
	return nil
}

// ClearCustomDomain removes the tenant's domain binding if present.
func (s *InMemory) ClearCustomDomain(_ context.Context, tenantID id.TenantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[tenantID.String()]
	if !ok {
		return sentinel.ErrNotFound
	}
	if t.CustomDomain != nil {
		delete(s.domainIdx, *t.CustomDomain)
		t.CustomDomain = nil
	}
	return nil
}

// Count returns the total number of tenants.
func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tenants), nil
}

// Snapshot captures the full store state for in-memory transaction rollback.
func (s *InMemory) Snapshot() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tenants := make(map[string]*models.Tenant, len(s.tenants))
	for k, v := range s.tenants {
		cp := *v
		tenants[k] = &cp
	}
	slugIdx := make(map[string]string, len(s.slugIdx))
	for k, v := range s.slugIdx {
		slugIdx[k] = v
	}
	domainIdx := make(map[string]string, len(s.domainIdx))
	for k, v := range s.domainIdx {
		domainIdx[k] = v
	}
	return &memorySnapshot{tenants: tenants, slugIdx: slugIdx, domainIdx: domainIdx}
}

// Restore reverts the store to a previously captured snapshot.
func (s *InMemory) Restore(snapshot any) {
	snap, ok := snapshot.(*memorySnapshot)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenants = snap.tenants
	s.slugIdx = snap.slugIdx
	s.domainIdx = snap.domainIdx
}

type memorySnapshot struct {
	tenants   map[string]*models.Tenant
	slugIdx   map[string]string
	domainIdx map[string]string
}
