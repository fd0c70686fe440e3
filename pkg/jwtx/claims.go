package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access-token claims issued by this service. The subject
// (sub) carries the human-readable subject name; the stable subject id
// travels in the custom uid claim. Scopes are a single space-joined string
// to match how resource services split them back out.
type Claims struct {
	jwt.RegisteredClaims

	// UID is the stable subject identifier.
	UID string `json:"uid,omitempty"`

	// Roles granted to the subject at issuance time.
	Roles []string `json:"roles,omitempty"`

	// Scope is the space-joined scope claim list, e.g. "billing:read profile:write".
	Scope string `json:"scope,omitempty"`
}

// NewAccessClaims builds minimally-correct claims for a fresh access token.
func NewAccessClaims(
	subjectID, subjectName string,
	roles, scopes []string,
	ttl time.Duration,
	issuer string,
	audience []string,
	now time.Time,
) Claims {
	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subjectName,
			Audience:  jwt.ClaimStrings(audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		UID:   subjectID,
		Roles: roles,
	}
	if len(scopes) > 0 {
		c.Scope = strings.Join(scopes, " ")
	}
	return c
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// SubjectID returns the uid claim, or "" when absent.
func (c *Claims) SubjectID() string { return c.UID }

// SubjectName returns the sub claim, or "" when absent.
func (c *Claims) SubjectName() string { return c.Subject }

// RoleList returns the roles claim, nil when absent.
func (c *Claims) RoleList() []string { return c.Roles }

// ScopeList splits the space-joined scope claim back into individual
// scope strings. Returns nil when the claim is absent.
func (c *Claims) ScopeList() []string {
	s := strings.TrimSpace(c.Scope)
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}

// HasScope reports whether the token carries the given scope claim.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.ScopeList(), scope)
}

// ValidateIssuer checks the iss claim against the expected value.
// Empty expected means nothing to enforce.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateAudience checks that at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil
	}
	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}
	return ErrAudience
}

// ValidateExpiry ensures the token is inside its [nbf, exp) window at the
// given instant. The clock is supplied by the caller for determinism.
func (c *Claims) ValidateExpiry(now time.Time) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrTokenExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
