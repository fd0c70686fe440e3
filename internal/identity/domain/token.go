package domain

import "time"

// TokenPair is what a successful issuance or exchange returns: the signed
// access token with its lifetime, and the opaque refresh token.
type TokenPair struct {
	AccessToken  string
	ExpiresIn    time.Duration
	RefreshToken string
}

// RefreshToken models the stored refresh token record. The opaque value is
// never persisted; TokenHash is its base64url SHA-256 fingerprint. Rotation
// overwrites TokenHash and ExpiresAt in place - there is one row per live
// session, never an append-only history.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Active reports whether the record can still redeem an exchange at the
// given instant.
func (t RefreshToken) Active(now time.Time) bool {
	return !t.Deleted && now.Before(t.ExpiresAt)
}
