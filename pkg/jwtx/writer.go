package jwtx

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Writer mints signed access tokens. Stateless apart from the immutable key
// source, so one Writer serves every request goroutine.
type Writer struct {
	keys     *KeySource
	issuer   string
	audience []string
	ttl      time.Duration
	now      func() time.Time
}

// NewWriter wires a Writer to its key source. The validity window must be
// positive; a zero or negative window is a configuration fault and fails
// here rather than at first issuance. A nil clock defaults to time.Now.
func NewWriter(
	keys *KeySource,
	issuer string,
	audience []string,
	ttl time.Duration,
	now func() time.Time,
) (*Writer, error) {
	if keys == nil {
		return nil, fmt.Errorf("%w: key source is required", ErrConfig)
	}
	if err := keys.Validate(); err != nil {
		return nil, err
	}
	if !keys.CanSign() {
		return nil, ErrSignerUnavailable
	}
	if issuer == "" {
		return nil, fmt.Errorf("%w: issuer is required", ErrConfig)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: token validity window must be positive, got %s", ErrConfig, ttl)
	}
	if now == nil {
		now = time.Now
	}
	return &Writer{keys: keys, issuer: issuer, audience: audience, ttl: ttl, now: now}, nil
}

// TTL returns the configured validity window.
func (w *Writer) TTL() time.Duration { return w.ttl }

// Issue signs a fresh access token for the subject and returns it together
// with its lifetime in seconds. The signing method is resolved through the
// token library's algorithm registry, so HS256 and the custom EdDSA strategy
// take the same path.
func (w *Writer) Issue(subjectID, subjectName string, roles, scopes []string) (string, int, error) {
	now := w.now().UTC()
	claims := NewAccessClaims(subjectID, subjectName, roles, scopes, w.ttl, w.issuer, w.audience, now)

	method := jwt.GetSigningMethod(w.keys.Alg())
	if method == nil {
		return "", 0, fmt.Errorf("%w: no signing method registered for %q", ErrConfig, w.keys.Alg())
	}

	t := jwt.NewWithClaims(method, claims)
	t.Header["kid"] = w.keys.KID()

	signed, err := t.SignedString(w.keys.SigningKey())
	if err != nil {
		return "", 0, fmt.Errorf("jwtx: sign token: %w", err)
	}
	return signed, int(w.ttl.Seconds()), nil
}
