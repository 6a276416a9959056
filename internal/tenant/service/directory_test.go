package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sudsy/internal/tenant/store"
	dErrors "sudsy/pkg/domain-errors"
)

func TestDirectoryBySlug(t *testing.T) {
	ctx := context.Background()
	tenants := store.NewInMemory()
	svc := New(tenants)
	dir := NewDirectory(tenants)

	created, err := svc.Create(ctx, "acme", "Acme Laundry")
	require.NoError(t, err)

	t.Run("active tenant resolves", func(t *testing.T) {
		got, err := dir.BySlug(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("unknown slug is not found", func(t *testing.T) {
		_, err := dir.BySlug(ctx, "ghost")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("inactive tenant looks missing", func(t *testing.T) {
		_, err := svc.Deactivate(ctx, created.ID)
		require.NoError(t, err)

		_, err = dir.BySlug(ctx, "acme")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("empty key rejected", func(t *testing.T) {
		_, err := dir.BySlug(ctx, "")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func TestDirectoryByDomain(t *testing.T) {
	ctx := context.Background()
	tenants := store.NewInMemory()
	svc := New(tenants)
	dir := NewDirectory(tenants)

	created, err := svc.Create(ctx, "acme", "Acme Laundry")
	require.NoError(t, err)
	require.NoError(t, tenants.SetCustomDomain(ctx, created.ID, "acme-laundry.com"))

	t.Run("verified domain resolves", func(t *testing.T) {
		got, err := dir.ByDomain(ctx, "acme-laundry.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("unbound domain is not found", func(t *testing.T) {
		_, err := dir.ByDomain(ctx, "unknown.example.com")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
