package clients

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token is a bearer token for the backend. Only its expiry is read; the
// signature is the backend's business.
type Token struct {
	raw       string
	expiresAt time.Time
}

// ParseToken reads raw. An empty string yields an anonymous token. Tokens that
// are not JWTs are sent as-is without expiry checks.
func ParseToken(raw string) (*Token, error) {
	raw = strings.TrimSpace(raw)
	t := &Token{raw: raw}
	if raw == "" || strings.Count(raw, ".") != 2 {
		return t, nil
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("clients: parse api token: %w", err)
	}
	if claims.ExpiresAt != nil {
		t.expiresAt = claims.ExpiresAt.Time
	}
	return t, nil
}

// Header returns the Authorization header value, or "" when anonymous.
func (t *Token) Header() string {
	if t == nil || t.raw == "" {
		return ""
	}
	return "Bearer " + t.raw
}

// ExpiresAt is zero when the token carries no expiry.
func (t *Token) ExpiresAt() time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.expiresAt
}

// Check fails with ErrTokenExpired once now is past the expiry.
func (t *Token) Check(now time.Time) error {
	if t == nil || t.expiresAt.IsZero() {
		return nil
	}
	if !now.Before(t.expiresAt) {
		return fmt.Errorf("%w at %s", ErrTokenExpired, t.expiresAt.Format(time.RFC3339))
	}
	return nil
}
