package service

import (
	"context"
	"errors"
	"time"

	"sudsy/internal/hostname"
	"sudsy/internal/sentinel"
	"sudsy/internal/verification/dns"
	verifmetrics "sudsy/internal/verification/metrics"
	"sudsy/internal/verification/models"
	id "sudsy/pkg/domain"
	dErrors "sudsy/pkg/domain-errors"
	"sudsy/pkg/requestcontext"
)

// Config carries the platform constants the engine stamps into claims.
type Config struct {
	// PlatformDomain is the apex tenants may never claim, e.g. "sudsy.app".
	PlatformDomain string
	// CNAMETarget is the platform hostname claimants point their CNAME at.
	CNAMETarget string
	// MaxCheckAttempts is the hard ceiling after which a pending claim expires.
	MaxCheckAttempts int
}

// Artifacts are the DNS records a claimant must publish to prove control.
type Artifacts struct {
	Domain        string `json:"domain"`
	Token         string `json:"verification_token"`
	CNAMETarget   string `json:"cname_target"`
	TXTRecordName string `json:"txt_record_name"`
	TXTValue      string `json:"txt_value"`
}

// ClaimStatus is the tenant-facing view of its domain setup.
type ClaimStatus struct {
	CurrentDomain *string                    `json:"current_domain,omitempty"`
	Verification  *models.DomainVerification `json:"verification,omitempty"`
}

// Engine owns the custom-domain claim lifecycle: initiate, check, finalize or
// expire, remove, and the admin overrides.
type Engine struct {
	claims   ClaimStore
	tenants  TenantStore
	checker  dns.Checker
	cfg      Config
	events   *eventLogger
	metrics  *verifmetrics.Metrics
	tx       StoreTx
	newToken func() (string, error)
}

func NewEngine(claims ClaimStore, tenants TenantStore, checker dns.Checker, tx StoreTx, cfg Config, opts ...Option) *Engine {
	ec := &engineConfig{}
	for _, opt := range opts {
		opt(ec)
	}
	if ec.newToken == nil {
		ec.newToken = newVerificationToken
	}
	if cfg.MaxCheckAttempts <= 0 {
		cfg.MaxCheckAttempts = 100
	}
	return &Engine{
		claims:   claims,
		tenants:  tenants,
		checker:  checker,
		cfg:      cfg,
		events:   &eventLogger{logger: ec.logger},
		metrics:  ec.metrics,
		tx:       tx,
		newToken: ec.newToken,
	}
}

// Initiate starts (or idempotently returns) a claim on rawDomain for the
// tenant. The domain must pass format validation, must not be the verified
// domain of another active tenant, and must not be pending under another
// tenant. Re-initiating the tenant's own pending claim returns the existing
// artifacts unchanged.
func (e *Engine) Initiate(ctx context.Context, tenantID id.TenantID, rawDomain string) (*Artifacts, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	domain, err := hostname.Validate(e.cfg.PlatformDomain, rawDomain)
	if err != nil {
		return nil, err
	}
	if _, err := e.tenants.FindByID(ctx, tenantID); err != nil {
		return nil, wrapTenantErr(err, "failed to load claimant tenant")
	}

	var artifacts *Artifacts
	err = e.tx.RunInTx(ctx, func(txCtx context.Context) error {
		// Another active tenant already bound to this exact domain.
		if owner, err := e.tenants.FindByCustomDomain(txCtx, domain); err == nil {
			if owner.ID != tenantID && owner.IsActive() {
				return dErrors.New(dErrors.CodeConflict, "this domain is already in use")
			}
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check domain ownership")
		}

		existing, err := e.claims.FindByDomain(txCtx, domain)
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return wrapClaimErr(err, "failed to load existing claim")
		}
		if existing != nil {
			if existing.IsPending() && existing.TenantID != tenantID {
				return dErrors.New(dErrors.CodeConflict, "this domain is already being configured by another account")
			}
			if existing.IsPending() && existing.TenantID == tenantID {
				artifacts = e.artifactsFor(existing)
				return nil
			}
			// Expired, failed, or stale rows release the domain string
			// immediately; the fresh claim replaces them.
		}

		token, err := e.newToken()
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate verification token")
		}
		claim := models.NewClaim(tenantID, domain, token, e.cfg.CNAMETarget, requestcontext.Now(txCtx))
		if err := e.claims.Upsert(txCtx, claim); err != nil {
			return wrapClaimErr(err, "failed to store claim")
		}
		e.events.emit(txCtx, "domain.claim_initiated", "tenant_id", tenantID.String(), "domain", domain)
		artifacts = e.artifactsFor(claim)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if e.metrics != nil {
		e.metrics.IncrementClaimInitiated()
	}
	return artifacts, nil
}

// Status reports the tenant's bound domain and its latest claim, if any.
func (e *Engine) Status(ctx context.Context, tenantID id.TenantID) (*ClaimStatus, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	tenant, err := e.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, wrapTenantErr(err, "failed to load tenant")
	}

	status := &ClaimStatus{CurrentDomain: tenant.CustomDomain}
	claim, err := e.claims.FindByTenant(ctx, tenantID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, wrapClaimErr(err, "failed to load claim")
	}
	status.Verification = claim
	return status, nil
}

// Remove deletes the tenant's own claim on domain. Only the claim's owner may
// remove it. Removing a verified claim also unbinds the tenant's domain.
func (e *Engine) Remove(ctx context.Context, tenantID id.TenantID, domain string) error {
	if err := requireTenantID(tenantID); err != nil {
		return err
	}
	return e.tx.RunInTx(ctx, func(txCtx context.Context) error {
		claim, err := e.claims.FindByDomain(txCtx, domain)
		if err != nil {
			return wrapClaimErr(err, "failed to load claim")
		}
		if claim.TenantID != tenantID {
			return dErrors.New(dErrors.CodeForbidden, "not authorized to modify this domain")
		}
		return e.deleteClaim(txCtx, claim)
	})
}

// AdminRemove deletes any claim regardless of owner. Operator path.
func (e *Engine) AdminRemove(ctx context.Context, domain string) error {
	return e.tx.RunInTx(ctx, func(txCtx context.Context) error {
		claim, err := e.claims.FindByDomain(txCtx, domain)
		if err != nil {
			return wrapClaimErr(err, "failed to load claim")
		}
		return e.deleteClaim(txCtx, claim)
	})
}

func (e *Engine) deleteClaim(ctx context.Context, claim *models.DomainVerification) error {
	if err := e.claims.Delete(ctx, claim.Domain); err != nil {
		return wrapClaimErr(err, "failed to delete claim")
	}
	if tenant, err := e.tenants.FindByID(ctx, claim.TenantID); err == nil && tenant.HasCustomDomain(claim.Domain) {
		if err := e.tenants.ClearCustomDomain(ctx, claim.TenantID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to unbind domain")
		}
	}
	e.events.emit(ctx, "domain.claim_removed", "tenant_id", claim.TenantID.String(), "domain", claim.Domain)
	return nil
}

// AdminForceAssign binds domain to the tenant without DNS proof. Rejected if
// another active tenant already holds it. An existing claim row is marked
// verified retroactively.
func (e *Engine) AdminForceAssign(ctx context.Context, tenantID id.TenantID, rawDomain string) error {
	if err := requireTenantID(tenantID); err != nil {
		return err
	}
	domain, err := hostname.Validate(e.cfg.PlatformDomain, rawDomain)
	if err != nil {
		return err
	}

	return e.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if owner, err := e.tenants.FindByCustomDomain(txCtx, domain); err == nil {
			if owner.ID != tenantID && owner.IsActive() {
				return dErrors.New(dErrors.CodeConflict, "this domain is already in use")
			}
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check domain ownership")
		}

		if err := e.tenants.SetCustomDomain(txCtx, tenantID, domain); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeConflict, "this domain is already in use")
			}
			return wrapTenantErr(err, "failed to bind domain")
		}

		if claim, err := e.claims.FindByDomain(txCtx, domain); err == nil {
			claim.TenantID = tenantID
			claim.MarkVerified(claim.Method, requestcontext.Now(txCtx))
			if err := e.claims.Update(txCtx, claim); err != nil {
				return wrapClaimErr(err, "failed to mark claim verified")
			}
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			return wrapClaimErr(err, "failed to load claim")
		}

		e.events.emit(txCtx, "domain.force_assigned", "tenant_id", tenantID.String(), "domain", domain)
		return nil
	})
}

// VerifyNow forces an immediate check of the tenant's claim outside the poll
// cycle and returns the settled claim.
func (e *Engine) VerifyNow(ctx context.Context, tenantID id.TenantID, domain string) (*models.DomainVerification, error) {
	if err := requireTenantID(tenantID); err != nil {
		return nil, err
	}
	claim, err := e.claims.FindByDomain(ctx, domain)
	if err != nil {
		return nil, wrapClaimErr(err, "failed to load claim")
	}
	if claim.TenantID != tenantID {
		return nil, dErrors.New(dErrors.CodeForbidden, "not authorized to modify this domain")
	}
	if !claim.IsPending() {
		return claim, nil
	}
	return e.CheckAndSettle(ctx, claim)
}

// CheckAndSettle runs the DNS proof for one pending claim and persists the
// outcome: atomic finalize on success, counted failure (possibly expiry)
// otherwise. DNS trouble is recorded, never propagated.
func (e *Engine) CheckAndSettle(ctx context.Context, claim *models.DomainVerification) (*models.DomainVerification, error) {
	start := time.Now()
	outcome := e.checker.Check(ctx, claim)

	if outcome.Verified {
		err := e.tx.RunInTx(ctx, func(txCtx context.Context) error {
			claim.MarkVerified(outcome.Method, requestcontext.Now(txCtx))
			if err := e.claims.Update(txCtx, claim); err != nil {
				return wrapClaimErr(err, "failed to mark claim verified")
			}
			if err := e.tenants.SetCustomDomain(txCtx, claim.TenantID, claim.Domain); err != nil {
				if errors.Is(err, sentinel.ErrAlreadyUsed) {
					return dErrors.New(dErrors.CodeConflict, "this domain is already in use")
				}
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to bind domain")
			}
			e.events.emit(txCtx, "domain.verified",
				"tenant_id", claim.TenantID.String(), "domain", claim.Domain, "method", string(outcome.Method))
			return nil
		})
		if err != nil {
			e.observeCheck("error", start)
			return nil, err
		}
		e.observeCheck("verified", start)
		return claim, nil
	}

	expired := claim.RecordFailure(outcome.Diagnostic, e.cfg.MaxCheckAttempts, requestcontext.Now(ctx))
	if err := e.claims.Update(ctx, claim); err != nil {
		e.observeCheck("error", start)
		return nil, wrapClaimErr(err, "failed to record check attempt")
	}
	if expired {
		e.events.emit(ctx, "domain.claim_expired",
			"tenant_id", claim.TenantID.String(), "domain", claim.Domain, "check_count", claim.CheckCount)
		e.observeCheck("expired", start)
	} else {
		e.observeCheck("failed", start)
	}
	return claim, nil
}

func (e *Engine) artifactsFor(claim *models.DomainVerification) *Artifacts {
	return &Artifacts{
		Domain:        claim.Domain,
		Token:         claim.Token,
		CNAMETarget:   claim.CNAMETarget,
		TXTRecordName: claim.TXTRecordName(),
		TXTValue:      claim.ExpectedTXTValue(),
	}
}

func (e *Engine) observeCheck(outcome string, start time.Time) {
	if e.metrics != nil {
		e.metrics.ObserveCheck(outcome, start)
	}
}
