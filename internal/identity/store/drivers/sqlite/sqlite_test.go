package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/arliden/identity/internal/identity/domain"
	"github.com/arliden/identity/pkg/idx"
	"github.com/stretchr/testify/require"
)

// newTestStore opens a file-backed database so concurrent connections in a
// test all see the same data, which ":memory:" does not guarantee with a
// connection pool.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		filepath.Join(t.TempDir(), "identity.db"),
	)
	st, err := NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedUser(t *testing.T, st *Store, username string) domain.User {
	t.Helper()
	ctx := context.Background()

	role, err := st.Roles().GetRoleByName(ctx, "member")
	require.NoError(t, err)

	u := domain.User{
		ID:            idx.New().String(),
		Username:      username,
		PreferredName: username,
		PasswordHash:  "hash",
		RoleID:        role.ID,
	}
	require.NoError(t, st.Users().CreateUser(ctx, u))
	return u
}

func seedRefreshToken(t *testing.T, st *Store, userID, hash string, expiresAt time.Time) domain.RefreshToken {
	t.Helper()

	rt := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    userID,
		TokenHash: hash,
		ExpiresAt: expiresAt,
	}
	require.NoError(t, st.RefreshTokens().CreateRefreshToken(context.Background(), rt))
	return rt
}
