package util

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashToken returns a bcrypt hash suitable for ADMIN_TOKEN_BCRYPT
func HashToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash token: %w", err)
	}
	return string(hash), nil
}

// TokenVerifier checks a presented admin secret against a bcrypt hash or,
// when no hash is configured, against the plain token.
type TokenVerifier struct {
	token []byte
	hash  []byte
}

// NewTokenVerifier creates a verifier. With both values empty every
// presented token is rejected.
func NewTokenVerifier(token, hash string) *TokenVerifier {
	return &TokenVerifier{token: []byte(token), hash: []byte(hash)}
}

// Enabled reports whether any secret is configured
func (v *TokenVerifier) Enabled() bool {
	return len(v.token) > 0 || len(v.hash) > 0
}

// Verify reports whether presented matches the configured secret
func (v *TokenVerifier) Verify(presented string) bool {
	if presented == "" {
		return false
	}
	if len(v.hash) > 0 {
		return bcrypt.CompareHashAndPassword(v.hash, []byte(presented)) == nil
	}
	if len(v.token) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(v.token, []byte(presented)) == 1
}
