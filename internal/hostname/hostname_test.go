package hostname

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "sudsy/pkg/domain-errors"
)

const apex = "sudsy.app"

func TestValidate_Accepts(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"acme-laundry.com", "acme-laundry.com"},
		{"ACME-Laundry.COM", "acme-laundry.com"},
		{"  wash.example.co.uk  ", "wash.example.co.uk"},
		{"www.acme-laundry.com", "www.acme-laundry.com"},
		{"1stop-wash.io", "1stop-wash.io"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Validate(apex, tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		reason string
	}{
		{"empty", "", "domain is required"},
		{"whitespace only", "   ", "domain is required"},
		{"platform apex", "sudsy.app", "platform subdomain"},
		{"platform subdomain", "acme.sudsy.app", "platform subdomain"},
		{"platform subdomain mixed case", "Acme.SUDSY.App", "platform subdomain"},
		{"ipv4", "192.168.1.1", "IP addresses are not allowed"},
		{"ipv6", "::1", "IP addresses are not allowed"},
		{"bracketed ipv6", "[2001:db8::1]", "IP addresses are not allowed"},
		{"localhost", "localhost", "localhost is not allowed"},
		{"localhost upper", "LOCALHOST", "localhost is not allowed"},
		{"leading hyphen", "-bad.com", "invalid domain format"},
		{"trailing hyphen", "bad-.com", "invalid domain format"},
		{"underscore", "a_b.com", "invalid domain format"},
		{"no dot", "justaword", "invalid domain format"},
		{"inner whitespace", "a b.com", "invalid domain format"},
		{"empty label", "a..com", "invalid domain format"},
		{"label too long", strings.Repeat("a", 64) + ".com", "invalid domain format"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Validate(apex, tc.in)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.Contains(t, err.Error(), tc.reason)
		})
	}
}

func TestValidate_LengthCeiling(t *testing.T) {
	// A domain over 253 characters is rejected regardless of per-label validity.
	label := strings.Repeat("a", 60)
	long := strings.Join([]string{label, label, label, label, label, "com"}, ".")
	require.Greater(t, len(long), 253)

	_, err := Validate(apex, long)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "domain name is too long")
}
