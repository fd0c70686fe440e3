package domain

import "time"

// User is an authenticated account. Password hashes are PHC-format Argon2id.
type User struct {
	ID            string
	Username      string
	PreferredName string
	PasswordHash  string
	RoleID        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
