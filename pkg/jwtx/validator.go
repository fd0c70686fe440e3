package jwtx

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Validator verifies signed access tokens against the configured key source.
// Like Writer it is stateless and shared between request goroutines.
type Validator struct {
	keys     *KeySource
	issuer   string
	audience []string
	now      func() time.Time
}

// NewValidator builds a Validator. A nil clock defaults to time.Now.
func NewValidator(keys *KeySource, issuer string, audience []string, now func() time.Time) (*Validator, error) {
	if keys == nil {
		return nil, fmt.Errorf("%w: key source is required", ErrConfig)
	}
	if err := keys.Validate(); err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return &Validator{keys: keys, issuer: issuer, audience: audience, now: now}, nil
}

// Validate decodes and verifies a token. Signature, issuer, and audience are
// always enforced; the lifetime check is skipped when checkLifetime is false
// (the refresh exchange presents tokens that may already be expired).
//
// Every failure except expiry collapses into ErrTokenRead so callers cannot
// distinguish a forged token from a malformed one. Expiry of an otherwise
// valid token surfaces as ErrTokenExpired.
func (v *Validator) Validate(tokenStr string, checkLifetime bool) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{v.keys.Alg()}),
		// Claims are validated by hand below so the lifetime check can be
		// toggled without weakening issuer/audience enforcement.
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return v.keys.VerificationKey(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenRead, err)
	}

	// The parser already rejects unlisted methods; re-check the raw header
	// anyway so a registry change elsewhere in the process can never widen
	// what this validator accepts (algorithm-substitution defense).
	if alg, _ := token.Header["alg"].(string); alg != v.keys.Alg() {
		return nil, fmt.Errorf("%w: algorithm %q does not match configured %q", ErrTokenRead, alg, v.keys.Alg())
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid claims", ErrTokenRead)
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenRead, err)
	}
	if err := claims.ValidateAudience(v.audience); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenRead, err)
	}

	if checkLifetime {
		if err := claims.ValidateExpiry(v.now().UTC()); err != nil {
			if err == ErrTokenExpired {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %w", ErrTokenRead, err)
		}
	}

	return claims, nil
}
