package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/arliden/identity/internal/identity/domain"
	"github.com/arliden/identity/internal/identity/store"
	"github.com/arliden/identity/pkg/cryptox"
	"github.com/arliden/identity/pkg/idx"
	"github.com/arliden/identity/pkg/jwtx"
	"github.com/arliden/identity/pkg/slogx"
)

var (
	ErrInvalidAccessToken  = errors.New("invalid_access_token")
	ErrInvalidRefreshToken = errors.New("invalid_refresh_token")
)

// TokenService issues access/refresh token pairs and drives the exchange
// (rotation) flow. The injected clock keeps expiry decisions testable.
type TokenService struct {
	Writer     *jwtx.Writer
	Validator  *jwtx.Validator
	Roles      *RolesService
	Store      store.Store
	RefreshTTL time.Duration
	Now        func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// IssueTokens mints a fresh token pair for an authenticated user. The
// access token carries the user's current role and the scopes that role
// grants; the refresh token is stored by fingerprint only.
func (s *TokenService) IssueTokens(ctx context.Context, u domain.User) (*domain.TokenPair, error) {
	now := s.now()
	l := slogx.FromContext(ctx)

	role, err := s.Store.Roles().GetRoleByID(ctx, u.RoleID)
	if err != nil {
		return nil, err
	}

	accessToken, _, err := s.Writer.Issue(u.ID, u.Username, []string{role.Name}, role.Scopes)
	if err != nil {
		l.Error("failed to sign access token", slog.Any("error", err))
		return nil, err
	}

	refreshOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}

	rt := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: cryptox.FingerprintToken(refreshOpaque),
		ExpiresAt: now.Add(s.RefreshTTL),
	}
	if err := s.Store.RefreshTokens().CreateRefreshToken(ctx, rt); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		ExpiresIn:    s.Writer.TTL(),
		RefreshToken: refreshOpaque,
	}, nil
}

// ExchangeTokens redeems a (possibly expired) access token plus its live
// refresh token for a fresh pair.
//
// The access token's signature, issuer, and audience must all check out,
// but its lifetime is deliberately ignored: expiry is exactly the moment
// clients come here. The refresh token is single-use. Rotation happens as
// a conditional update keyed on the presented fingerprint, so when two
// requests race with the same refresh token, one rotates the row and the
// other matches nothing and is rejected. Every rejection surfaces as the
// same error; callers learn nothing about which check failed.
func (s *TokenService) ExchangeTokens(ctx context.Context, accessToken, refreshOpaque string) (*domain.TokenPair, error) {
	now := s.now()
	l := slogx.FromContext(ctx)

	claims, err := s.Validator.Validate(accessToken, false)
	if err != nil {
		l.Info("token exchange rejected: unreadable access token", slog.Any("error", err))
		return nil, ErrInvalidAccessToken
	}

	uid := claims.SubjectID()
	if uid == "" || claims.SubjectName() == "" {
		l.Info("token exchange rejected: missing identity claims")
		return nil, ErrInvalidAccessToken
	}

	fp := cryptox.FingerprintToken(refreshOpaque)
	if _, err := s.Store.RefreshTokens().FindActiveRefreshToken(ctx, uid, fp, now); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	// Re-resolve scopes from the current role definitions rather than
	// trusting the ones baked into the old token.
	scopes, err := s.Roles.ResolveScopes(ctx, claims.RoleList())
	if err != nil {
		return nil, err
	}

	newAccess, _, err := s.Writer.Issue(uid, claims.SubjectName(), claims.RoleList(), scopes)
	if err != nil {
		l.Error("failed to sign access token", slog.Any("error", err))
		return nil, err
	}

	newOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}
	newFP := cryptox.FingerprintToken(newOpaque)

	n, err := s.Store.RefreshTokens().RotateRefreshToken(ctx, uid, fp, newFP, now.Add(s.RefreshTTL))
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// Lost the rotation race, or the token was revoked between the
		// lookup and the swap.
		l.Info("token exchange rejected: refresh token already rotated", slog.String("user_id", uid))
		return nil, ErrInvalidRefreshToken
	}

	return &domain.TokenPair{
		AccessToken:  newAccess,
		ExpiresIn:    s.Writer.TTL(),
		RefreshToken: newOpaque,
	}, nil
}

// RevokeUserTokens invalidates every refresh token the user holds.
func (s *TokenService) RevokeUserTokens(ctx context.Context, userID string) error {
	return s.Store.RefreshTokens().DeleteUserRefreshTokens(ctx, userID)
}
