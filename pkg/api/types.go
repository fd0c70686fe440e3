// Package api holds the wire types shared between this service's HTTP
// boundary and its clients.
package api

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	PreferredName string `json:"preferredName,omitempty"`
}

// LoginRequest authenticates an existing account.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ExchangeRequest trades an expired access token plus a live refresh token
// for a fresh pair.
type ExchangeRequest struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AccessTokenPayload is the signed token plus its lifetime in seconds.
type AccessTokenPayload struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

// TokenPairResponse is returned by register, login, and exchange.
type TokenPairResponse struct {
	AccessToken  AccessTokenPayload `json:"accessToken"`
	RefreshToken string             `json:"refreshToken"`
}

// UserInfoResponse describes the authenticated user.
type UserInfoResponse struct {
	UserID        string `json:"user_id"`
	Username      string `json:"username"`
	PreferredName string `json:"preferred_name"`
	Role          string `json:"role"`
}

// HealthChecks itemizes dependency status for the readiness probe.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// HealthResponse is returned by the liveness and readiness endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
