package routing

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testCfg = Config{
	PlatformDomain: "platform.tld",
	DevTenantSlug:  "demo",
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		host  string
		query string
		want  Resolution
	}{
		{"localhost defaults to dev tenant", "localhost:3000", "", Resolution{Kind: KindTenantSlug, Slug: "demo"}},
		{"localhost honors tenant query", "localhost:3000", "tenant=acme", Resolution{Kind: KindTenantSlug, Slug: "acme"}},
		{"localhost without port", "localhost", "", Resolution{Kind: KindTenantSlug, Slug: "demo"}},
		{"admin subdomain", "admin.platform.tld", "", Resolution{Kind: KindPlatformAdmin}},
		{"bare apex", "platform.tld", "", Resolution{Kind: KindPlatformAdmin}},
		{"tenant subdomain", "acme.platform.tld", "", Resolution{Kind: KindTenantSlug, Slug: "acme"}},
		{"www is ambiguous", "www.platform.tld", "", Resolution{Kind: KindNone}},
		{"empty label is ambiguous", ".platform.tld", "", Resolution{Kind: KindNone}},
		{"custom domain", "acme-laundry.com", "", Resolution{Kind: KindCustomDomain, Domain: "acme-laundry.com"}},
		{"custom domain with port", "acme-laundry.com:8443", "", Resolution{Kind: KindCustomDomain, Domain: "acme-laundry.com"}},
		{"uppercase host is normalized", "ACME.Platform.TLD", "", Resolution{Kind: KindTenantSlug, Slug: "acme"}},
		{"empty host", "", "", Resolution{Kind: KindNone}},
		{"tenant query ignored off localhost", "acme.platform.tld", "tenant=other", Resolution{Kind: KindTenantSlug, Slug: "acme"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, Resolve(testCfg, tt.host, q))
		})
	}
}

func TestResolveNeverTouchesDirectory(t *testing.T) {
	// Resolution is pure: a subdomain of a different apex is a custom domain
	// candidate, classification only.
	got := Resolve(testCfg, "sub.other.tld", nil)
	assert.Equal(t, KindCustomDomain, got.Kind)
	assert.Equal(t, "sub.other.tld", got.Domain)
}
