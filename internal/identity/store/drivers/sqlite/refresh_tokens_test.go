package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/arliden/identity/internal/identity/store"
	"github.com/stretchr/testify/require"
)

func TestFindActiveRefreshToken(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	u := seedUser(t, st, "alice")
	seedRefreshToken(t, st, u.ID, "live-hash", now.Add(time.Hour))

	t.Run("finds a live token", func(t *testing.T) {
		rt, err := st.RefreshTokens().FindActiveRefreshToken(ctx, u.ID, "live-hash", now)
		require.NoError(t, err)
		require.Equal(t, u.ID, rt.UserID)
		require.True(t, rt.Active(now))
	})

	t.Run("unknown hash misses", func(t *testing.T) {
		_, err := st.RefreshTokens().FindActiveRefreshToken(ctx, u.ID, "no-such-hash", now)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("wrong user misses", func(t *testing.T) {
		_, err := st.RefreshTokens().FindActiveRefreshToken(ctx, "other-user", "live-hash", now)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("expired token misses", func(t *testing.T) {
		seedRefreshToken(t, st, u.ID, "stale-hash", now.Add(-time.Minute))
		_, err := st.RefreshTokens().FindActiveRefreshToken(ctx, u.ID, "stale-hash", now)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("soft-deleted token misses", func(t *testing.T) {
		bob := seedUser(t, st, "bob")
		seedRefreshToken(t, st, bob.ID, "bob-hash", now.Add(time.Hour))
		require.NoError(t, st.RefreshTokens().DeleteUserRefreshTokens(ctx, bob.ID))

		_, err := st.RefreshTokens().FindActiveRefreshToken(ctx, bob.ID, "bob-hash", now)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestCreateRefreshTokenDuplicate(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	now := time.Now().UTC()

	u := seedUser(t, st, "alice")
	rt := seedRefreshToken(t, st, u.ID, "dup-hash", now.Add(time.Hour))

	rt.ID = "different-id"
	err := st.RefreshTokens().CreateRefreshToken(context.Background(), rt)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestRotateRefreshToken(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	u := seedUser(t, st, "alice")
	seedRefreshToken(t, st, u.ID, "old-hash", now.Add(time.Hour))

	n, err := st.RefreshTokens().RotateRefreshToken(ctx, u.ID, "old-hash", "new-hash", now.Add(2*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	// The old value is gone, the new one is live.
	_, err = st.RefreshTokens().FindActiveRefreshToken(ctx, u.ID, "old-hash", now)
	require.ErrorIs(t, err, store.ErrNotFound)

	rt, err := st.RefreshTokens().FindActiveRefreshToken(ctx, u.ID, "new-hash", now)
	require.NoError(t, err)
	require.WithinDuration(t, now.Add(2*time.Hour), rt.ExpiresAt, time.Second)

	// Replaying the consumed value matches nothing.
	n, err = st.RefreshTokens().RotateRefreshToken(ctx, u.ID, "old-hash", "another-hash", now.Add(2*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 0, n)
}

func TestRotateRefreshTokenConcurrent(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	u := seedUser(t, st, "alice")
	seedRefreshToken(t, st, u.ID, "contested-hash", now.Add(time.Hour))

	const racers = 8

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	start := make(chan struct{})

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start

			newHash := "winner-hash-" + string(rune('a'+i))
			n, err := st.RefreshTokens().RotateRefreshToken(ctx, u.ID, "contested-hash", newHash, now.Add(2*time.Hour))
			require.NoError(t, err)

			if n == 1 {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}(i)
	}

	close(start)
	wg.Wait()

	require.Equal(t, 1, successes, "exactly one racer may consume the refresh token")
}

func TestDeleteExpiredRefreshTokens(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	u := seedUser(t, st, "alice")
	seedRefreshToken(t, st, u.ID, "fresh-hash", now.Add(time.Hour))
	seedRefreshToken(t, st, u.ID, "expired-hash", now.Add(-time.Hour))

	require.NoError(t, st.RefreshTokens().DeleteExpiredRefreshTokens(ctx))

	_, err := st.RefreshTokens().FindActiveRefreshToken(ctx, u.ID, "fresh-hash", now)
	require.NoError(t, err)

	// The expired row is physically gone, so re-creating the same hash works.
	seedRefreshToken(t, st, u.ID, "expired-hash", now.Add(time.Hour))
}
