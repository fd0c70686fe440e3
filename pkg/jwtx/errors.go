package jwtx

import "errors"

var (
	// ErrConfig reports missing or malformed key material at startup.
	ErrConfig = errors.New("jwtx: invalid key configuration")

	// ErrTokenRead covers every way a token can fail verification apart
	// from expiry: malformed input, bad signature, wrong algorithm,
	// issuer or audience mismatch. Callers treat it as unauthenticated.
	ErrTokenRead = errors.New("jwtx: unreadable token")

	// ErrTokenExpired is a structurally valid, correctly signed token
	// whose lifetime has passed. Kept distinct so the boundary can emit
	// a specific expired signal.
	ErrTokenExpired = errors.New("jwtx: token expired")

	// ErrSignerUnavailable is returned when a sign operation is attempted
	// on key material that only carries the public half.
	ErrSignerUnavailable = errors.New("jwtx: signing key not configured")

	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrAudience    = errors.New("jwtx: audience mismatch")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)
