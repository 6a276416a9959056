// Package hostname validates candidate custom domains against syntax and
// platform-reserved-name rules. Pure functions, no I/O.
package hostname

import (
	"net"
	"strings"

	dErrors "sudsy/pkg/domain-errors"
)

// maxDomainLength is the RFC 1035 limit on a full domain name.
const maxDomainLength = 253

// Validate checks a candidate custom domain and returns its normalized
// (lowercased, trimmed) form. Every input maps to exactly one outcome; rules
// are checked in order and the first failure wins. All failures carry
// CodeValidation with a human-readable reason safe to surface verbatim.
func Validate(platformDomain, candidate string) (string, error) {
	domain := strings.ToLower(strings.TrimSpace(candidate))
	if domain == "" {
		return "", dErrors.New(dErrors.CodeValidation, "domain is required")
	}

	apex := strings.ToLower(strings.TrimSpace(platformDomain))
	if domain == apex || strings.HasSuffix(domain, "."+apex) {
		return "", dErrors.New(dErrors.CodeValidation, "this is a platform subdomain")
	}

	if isIPLiteral(domain) {
		return "", dErrors.New(dErrors.CodeValidation, "IP addresses are not allowed")
	}

	if domain == "localhost" {
		return "", dErrors.New(dErrors.CodeValidation, "localhost is not allowed")
	}

	if len(domain) > maxDomainLength {
		return "", dErrors.New(dErrors.CodeValidation, "domain name is too long")
	}

	if !validLabelSyntax(domain) {
		return "", dErrors.New(dErrors.CodeValidation, "invalid domain format")
	}

	return domain, nil
}

// isIPLiteral reports whether the candidate is a bare IPv4/IPv6 address,
// including bracketed IPv6 forms.
func isIPLiteral(domain string) bool {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(domain, "["), "]")
	return net.ParseIP(trimmed) != nil
}

// validLabelSyntax applies RFC-1035-style label rules: labels of 1-63
// characters, alphanumeric plus internal hyphens, and at least one dot.
func validLabelSyntax(domain string) bool {
	if !strings.Contains(domain, ".") {
		return false
	}
	labels := strings.Split(domain, ".")
	for _, label := range labels {
		if !validLabel(label) {
			return false
		}
	}
	return true
}

func validLabel(label string) bool {
	if len(label) == 0 || len(label) > 63 {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-':
		default:
			return false
		}
	}
	return true
}
