// Package dns performs the DNS lookups that prove control of a claimed
// domain. Lookup failures are results, not errors: the poller records them as
// failed attempts and retries on the next pass.
package dns

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"sudsy/internal/verification/models"
)

var tracer = otel.Tracer("sudsy/verification/dns")

// Outcome is the result of one verification check.
type Outcome struct {
	Verified bool
	Method   models.Method
	// Diagnostic explains a failed check in operator-readable terms.
	Diagnostic string
}

// Checker decides whether a claim's DNS proof is in place.
type Checker interface {
	Check(ctx context.Context, claim *models.DomainVerification) Outcome
}

// Resolver checks claims against live DNS. Either proof suffices: a CNAME on
// the domain (or its www label) pointing at the platform target, or the
// expected TXT record under the verification label.
type Resolver struct {
	resolver *net.Resolver
	timeout  time.Duration
}

// NewResolver builds a live-DNS checker with the given per-lookup timeout.
func NewResolver(timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Resolver{resolver: net.DefaultResolver, timeout: timeout}
}

func (r *Resolver) Check(ctx context.Context, claim *models.DomainVerification) Outcome {
	ctx, span := tracer.Start(ctx, "verification.dns.check",
		trace.WithAttributes(attribute.String("domain", claim.Domain)))
	defer span.End()

	ok, cnameDiag := r.checkCNAME(ctx, claim)
	if ok {
		span.SetAttributes(attribute.String("method", string(models.MethodCNAME)))
		return Outcome{Verified: true, Method: models.MethodCNAME}
	}
	ok, txtDiag := r.checkTXT(ctx, claim)
	if ok {
		span.SetAttributes(attribute.String("method", string(models.MethodTXT)))
		return Outcome{Verified: true, Method: models.MethodTXT}
	}
	return Outcome{Verified: false, Diagnostic: cnameDiag + "; " + txtDiag}
}

func (r *Resolver) checkCNAME(ctx context.Context, claim *models.DomainVerification) (bool, string) {
	target := strings.TrimSuffix(strings.ToLower(claim.CNAMETarget), ".")
	for _, host := range []string{claim.Domain, "www." + claim.Domain} {
		cname, err := r.lookupCNAME(ctx, host)
		if err != nil {
			continue
		}
		if strings.TrimSuffix(strings.ToLower(cname), ".") == target {
			return true, ""
		}
	}
	return false, fmt.Sprintf("no CNAME pointing at %s", claim.CNAMETarget)
}

func (r *Resolver) checkTXT(ctx context.Context, claim *models.DomainVerification) (bool, string) {
	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	txts, err := r.resolver.LookupTXT(lookupCtx, claim.TXTRecordName())
	if err != nil {
		return false, fmt.Sprintf("TXT lookup failed: %v", err)
	}
	expected := claim.ExpectedTXTValue()
	for _, v := range txts {
		if strings.TrimSpace(v) == expected {
			return true, ""
		}
	}
	return false, fmt.Sprintf("TXT record %s does not carry the expected value", claim.TXTRecordName())
}

func (r *Resolver) lookupCNAME(ctx context.Context, host string) (string, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.resolver.LookupCNAME(lookupCtx, host)
}
