//go:build integration

package domains

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tenantservice "sudsy/internal/tenant/service"
	tenantstore "sudsy/internal/tenant/store"
	"sudsy/internal/verification/dns"
	verifmodels "sudsy/internal/verification/models"
	verifservice "sudsy/internal/verification/service"
	verifstore "sudsy/internal/verification/store"
	dErrors "sudsy/pkg/domain-errors"
	platformtx "sudsy/pkg/platform/tx"
	"sudsy/pkg/testutil"
	"sudsy/pkg/testutil/containers"
)

// scriptedChecker returns a fixed outcome per check.
type scriptedChecker struct {
	verified bool
}

func (c *scriptedChecker) Check(context.Context, *verifmodels.DomainVerification) dns.Outcome {
	if c.verified {
		return dns.Outcome{Verified: true, Method: verifmodels.MethodCNAME}
	}
	return dns.Outcome{Diagnostic: "no matching records"}
}

type fixture struct {
	pg      *containers.PostgresContainer
	tenants *tenantstore.Postgres
	claims  *verifstore.Postgres
	checker *scriptedChecker
	engine  *verifservice.Engine
	svc     *tenantservice.Service
}

func setup(t *testing.T) *fixture {
	t.Helper()

	pg := containers.GetManager().GetPostgres(t)
	require.NoError(t, pg.TruncateAll(context.Background()))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tenants := tenantstore.NewPostgres(pg.DB)
	claims := verifstore.NewPostgres(pg.DB)
	runner := platformtx.NewRunner(pg.DB)
	checker := &scriptedChecker{}

	engine := verifservice.NewEngine(claims, tenants, checker, runner,
		verifservice.Config{
			PlatformDomain:   "sudsy.app",
			CNAMETarget:      "domains.sudsy.app",
			MaxCheckAttempts: 3,
		},
		verifservice.WithLogger(logger),
	)
	svc := tenantservice.New(tenants,
		tenantservice.WithLogger(logger),
		tenantservice.WithStoreTx(runner),
	)

	return &fixture{pg: pg, tenants: tenants, claims: claims, checker: checker, engine: engine, svc: svc}
}

func TestClaimLifecyclePostgres(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tenant, err := f.svc.Create(ctx, "fresh-fold", "Fresh & Fold")
	require.NoError(t, err)

	artifacts, err := f.engine.Initiate(ctx, tenant.ID, "fresh-fold.example.com")
	require.NoError(t, err)
	assert.Equal(t, "fresh-fold.example.com", artifacts.Domain)
	assert.Equal(t, "domains.sudsy.app", artifacts.CNAMETarget)
	assert.Equal(t, "_sudsy-verify.fresh-fold.example.com", artifacts.TXTRecordName)

	// First check fails; claim stays pending with one attempt recorded.
	claim, err := f.engine.VerifyNow(ctx, tenant.ID, "fresh-fold.example.com")
	require.NoError(t, err)
	assert.Equal(t, verifmodels.StatusPending, claim.Status)
	assert.Equal(t, 1, claim.CheckCount)

	// DNS comes through; the claim verifies and the domain binds atomically.
	f.checker.verified = true
	claim, err = f.engine.VerifyNow(ctx, tenant.ID, "fresh-fold.example.com")
	require.NoError(t, err)
	assert.Equal(t, verifmodels.StatusVerified, claim.Status)
	assert.Equal(t, verifmodels.MethodCNAME, claim.Method)

	bound, err := f.tenants.FindByCustomDomain(ctx, "fresh-fold.example.com")
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, bound.ID)
}

func TestClaimExpiresAtCeilingPostgres(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tenant, err := f.svc.Create(ctx, "spin-cycle", "Spin Cycle")
	require.NoError(t, err)
	_, err = f.engine.Initiate(ctx, tenant.ID, "spin-cycle.example.com")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		claim, err := f.engine.VerifyNow(ctx, tenant.ID, "spin-cycle.example.com")
		require.NoError(t, err)
		require.Equal(t, verifmodels.StatusPending, claim.Status)
	}
	claim, err := f.engine.VerifyNow(ctx, tenant.ID, "spin-cycle.example.com")
	require.NoError(t, err)
	assert.Equal(t, verifmodels.StatusExpired, claim.Status)

	// Expired claims no longer hold the domain; another tenant can claim it.
	other, err := f.svc.Create(ctx, "suds-up", "Suds Up")
	require.NoError(t, err)
	_, err = f.engine.Initiate(ctx, other.ID, "spin-cycle.example.com")
	assert.NoError(t, err)
}

func TestConcurrentSlugCreationPostgres(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	result := testutil.RunConcurrent(8, func(int) error {
		_, err := f.svc.Create(ctx, "only-one", "Only One")
		return err
	})

	// The unique constraint lets exactly one insert through.
	assert.Equal(t, int32(1), result.Successes)
	assert.Equal(t, int32(7), result.Conflicts+result.Errors)
}

func TestClaimStoreRoundTripPostgres(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tenantID := f.pg.CreateTestTenant(ctx, t)
	claim := testutil.NewClaimBuilder().
		WithTenant(tenantID).
		WithDomain("roundtrip.example.com").
		Build()

	require.NoError(t, f.claims.Upsert(ctx, claim))

	got, err := f.claims.FindByDomain(ctx, "roundtrip.example.com")
	require.NoError(t, err)
	assert.Equal(t, claim.Token, got.Token)
	assert.Equal(t, tenantID, got.TenantID)
	assert.Equal(t, verifmodels.StatusPending, got.Status)
	assert.Empty(t, got.Method)
	assert.Nil(t, got.VerifiedAt)

	got.MarkVerified(verifmodels.MethodTXT, testutil.BaseTime)
	require.NoError(t, f.claims.Update(ctx, got))

	again, err := f.claims.FindByDomain(ctx, "roundtrip.example.com")
	require.NoError(t, err)
	assert.Equal(t, verifmodels.StatusVerified, again.Status)
	assert.Equal(t, verifmodels.MethodTXT, again.Method)
	require.NotNil(t, again.VerifiedAt)
}

func TestAtomicFinalizeRollbackPostgres(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	holder, err := f.svc.Create(ctx, "holder", "Holder")
	require.NoError(t, err)
	claimant, err := f.svc.Create(ctx, "claimant", "Claimant")
	require.NoError(t, err)

	// The claimant starts a claim while the domain is free, then the holder
	// force-binds it underneath. Finalize must hit the unique constraint and
	// leave the claim row untouched.
	_, err = f.engine.Initiate(ctx, claimant.ID, "contested.example.com")
	require.NoError(t, err)
	require.NoError(t, f.tenants.SetCustomDomain(ctx, holder.ID, "contested.example.com"))

	f.checker.verified = true
	_, err = f.engine.VerifyNow(ctx, claimant.ID, "contested.example.com")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict), err)

	claim, err := f.claims.FindByDomain(ctx, "contested.example.com")
	require.NoError(t, err)
	assert.Equal(t, verifmodels.StatusPending, claim.Status, "verified status must not be committed when binding fails")
}
