package store

import (
	"context"
	"errors"
	"time"

	"github.com/arliden/identity/internal/identity/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrNoRowsAffected reports a write that the database silently ignored.
	// For refresh rotation this is a real failure mode, not a no-op: it
	// means another request won the compare-and-swap.
	ErrNoRowsAffected = errors.New("store: no rows affected")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement it. Sub-repositories keep concerns separated and let tests fake
// one aggregate at a time.
type Store interface {
	Users() Users
	Roles() Roles
	RefreshTokens() RefreshTokens

	ApplyMigrations() error

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Tx starts a read/write transaction. The caller MUST Commit or
	// Rollback the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped Store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id supplied by the app as a ULID).
	// A duplicate username maps to ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// DeleteUser cascades to refresh_tokens per schema.
	DeleteUser(ctx context.Context, userID string) error

	IsEmpty(ctx context.Context) (bool, error)
}

type Roles interface {
	GetRoleByID(ctx context.Context, id string) (domain.Role, error)
	GetRoleByName(ctx context.Context, name string) (domain.Role, error)

	// ListByNames returns the roles matching the given names; unknown
	// names are silently skipped.
	ListByNames(ctx context.Context, names []string) ([]domain.Role, error)

	CreateRole(ctx context.Context, r domain.Role) error
	IsEmpty(ctx context.Context) (bool, error)
}

type RefreshTokens interface {
	// CreateRefreshToken stores a new refresh token record.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// FindActiveRefreshToken returns the record matching (userID,
	// tokenHash) that is not soft-deleted and not expired at now.
	// Misses map to ErrNotFound.
	FindActiveRefreshToken(ctx context.Context, userID, tokenHash string, now time.Time) (domain.RefreshToken, error)

	// RotateRefreshToken atomically replaces the token value and expiry of
	// the record still matching (userID, oldHash). The conditional update
	// is the single-use guarantee: of two racing exchanges, exactly one
	// sees a non-zero row count. Callers must treat zero rows as failure.
	RotateRefreshToken(ctx context.Context, userID, oldHash, newHash string, expiresAt time.Time) (int64, error)

	// DeleteUserRefreshTokens soft-deletes every record for the user
	// (logout everywhere).
	DeleteUserRefreshTokens(ctx context.Context, userID string) error

	// DeleteExpiredRefreshTokens is housekeeping.
	DeleteExpiredRefreshTokens(ctx context.Context) error
}
