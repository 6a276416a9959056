package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// newVerificationToken returns 32 random bytes hex-encoded. The token is a
// public DNS artifact, not a credential; entropy matters, secrecy does not.
func newVerificationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate verification token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
