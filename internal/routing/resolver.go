// Package routing decides which tenant, if any, an inbound request belongs to
// based on its Host header. Resolution is pure computation and runs on every
// request before any storage access.
package routing

import (
	"net/url"
	"strings"
)

// Kind is the routing outcome for a request host.
type Kind string

const (
	// KindNone means no tenant could be inferred; downstream treats it as a miss.
	KindNone Kind = "none"
	// KindPlatformAdmin marks the operator control plane (admin subdomain or apex).
	KindPlatformAdmin Kind = "platform_admin"
	// KindTenantSlug routes by platform subdomain label.
	KindTenantSlug Kind = "tenant_slug"
	// KindCustomDomain routes by a verbatim external hostname; the tenant
	// lookup is deferred to the directory.
	KindCustomDomain Kind = "custom_domain"
)

// Resolution is the outcome of classifying one request host.
type Resolution struct {
	Kind   Kind
	Slug   string // set for KindTenantSlug
	Domain string // set for KindCustomDomain
}

// Config carries the platform hostnames the resolver classifies against.
type Config struct {
	// PlatformDomain is the apex under which tenant subdomains live, e.g. "sudsy.app".
	PlatformDomain string
	// DevTenantSlug is the fallback slug for localhost development hosts.
	DevTenantSlug string
}

// Resolve classifies a raw Host header value. It never fails: anything it
// cannot place resolves to KindNone. Query parameters participate only in the
// localhost development path.
func Resolve(cfg Config, host string, query url.Values) Resolution {
	host = normalizeHost(host)
	if host == "" {
		return Resolution{Kind: KindNone}
	}

	// Developer convenience, not a security boundary: any localhost-ish host
	// picks its tenant from ?tenant= and never consults the directory.
	if strings.Contains(host, "localhost") {
		slug := strings.ToLower(strings.TrimSpace(query.Get("tenant")))
		if slug == "" {
			slug = cfg.DevTenantSlug
		}
		return Resolution{Kind: KindTenantSlug, Slug: slug}
	}

	apex := strings.ToLower(cfg.PlatformDomain)
	if host == apex || host == "admin."+apex {
		return Resolution{Kind: KindPlatformAdmin}
	}

	if label, ok := strings.CutSuffix(host, "."+apex); ok {
		if label == "" || label == "www" {
			return Resolution{Kind: KindNone}
		}
		return Resolution{Kind: KindTenantSlug, Slug: label}
	}

	return Resolution{Kind: KindCustomDomain, Domain: host}
}

// normalizeHost lowercases and strips any port suffix. Bracketed IPv6 hosts
// keep their brackets so they fall through to the custom-domain branch and die
// at directory lookup.
func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if i := strings.LastIndex(host, ":"); i >= 0 && !strings.Contains(host[i:], "]") {
		if strings.Count(host, ":") == 1 || strings.HasPrefix(host, "[") {
			host = host[:i]
		}
	}
	return host
}
