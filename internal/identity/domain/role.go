package domain

import "time"

// Role grants a named set of scope claims ("resource:action" strings).
// A user holds exactly one role; the scopes embedded in an access token are
// resolved from the role at issuance time, never cached in refresh records.
type Role struct {
	ID        string
	Name      string
	Scopes    []string
	CreatedAt time.Time
	UpdatedAt time.Time
}
