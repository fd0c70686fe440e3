package sqlite

import (
	"context"
	"time"

	"github.com/arliden/identity/internal/identity/domain"
	"github.com/arliden/identity/internal/identity/store"
)

type refreshTokensRepo struct {
	q dbtx
}

const refreshColumns = `id, user_id, token_hash, expires_at, deleted, created_at, updated_at`

func (r *refreshTokensRepo) CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error {
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}
	res, err := r.q.ExecContext(ctx,
		`INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, deleted, created_at, updated_at)
		 VALUES (?, ?, ?, ?, 0, ?, ?)`,
		t.ID, t.UserID, t.TokenHash, t.ExpiresAt.UTC(), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return mapConstraint(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNoRowsAffected
	}
	return nil
}

func (r *refreshTokensRepo) FindActiveRefreshToken(
	ctx context.Context,
	userID, tokenHash string,
	now time.Time,
) (domain.RefreshToken, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+refreshColumns+` FROM refresh_tokens
		 WHERE user_id = ? AND token_hash = ? AND deleted = 0 AND expires_at > ?`,
		userID, tokenHash, now.UTC(),
	)

	var t domain.RefreshToken
	err := row.Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.Deleted, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.RefreshToken{}, mapNotFound(err)
	}
	return t, nil
}

// RotateRefreshToken is the compare-and-swap that makes refresh tokens
// single-use. The WHERE clause re-checks the presented token value at
// commit time; a concurrent exchange that already rotated the row leaves
// nothing to match, so the loser observes zero affected rows.
func (r *refreshTokensRepo) RotateRefreshToken(
	ctx context.Context,
	userID, oldHash, newHash string,
	expiresAt time.Time,
) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE refresh_tokens
		 SET token_hash = ?, expires_at = ?, updated_at = ?
		 WHERE user_id = ? AND token_hash = ? AND deleted = 0`,
		newHash, expiresAt.UTC(), time.Now().UTC(), userID, oldHash,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *refreshTokensRepo) DeleteUserRefreshTokens(ctx context.Context, userID string) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE refresh_tokens SET deleted = 1, updated_at = ? WHERE user_id = ? AND deleted = 0`,
		time.Now().UTC(), userID,
	)
	return err
}

func (r *refreshTokensRepo) DeleteExpiredRefreshTokens(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at <= ?`, time.Now().UTC())
	return err
}
