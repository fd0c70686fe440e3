package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/arliden/identity/internal/identity/domain"
	"github.com/arliden/identity/internal/identity/store"
	"github.com/arliden/identity/pkg/cryptox"
	"github.com/arliden/identity/pkg/idx"
	"github.com/arliden/identity/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUsernameTaken      = errors.New("username_taken")
	ErrUnknownRole        = errors.New("unknown_role")
)

// DefaultRoleName is assigned to self-registered accounts.
const DefaultRoleName = "member"

type UserService struct {
	Store store.Store
}

// Register creates a new account with the default role. Usernames are
// case-insensitive unique; a collision surfaces as ErrUsernameTaken.
func (s *UserService) Register(ctx context.Context, username, preferredName, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	username = strings.ToLower(strings.TrimSpace(username))
	if preferredName == "" {
		preferredName = username
	}

	role, err := s.Store.Roles().GetRoleByName(ctx, DefaultRoleName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUnknownRole
		}
		return domain.User{}, err
	}

	passHash, err := cryptox.HashPassword(password)
	if err != nil {
		l.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	u := domain.User{
		ID:            idx.New().String(),
		Username:      username,
		PreferredName: preferredName,
		PasswordHash:  passHash,
		RoleID:        role.ID,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, err
	}

	l.Info("user registered", slog.String("user_id", u.ID))
	return u, nil
}

// Login verifies a username/password pair. Unknown usernames and wrong
// passwords both map to ErrInvalidCredentials so responses don't reveal
// which accounts exist.
func (s *UserService) Login(ctx context.Context, username, password string) (domain.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if cryptox.VerifyPassword(password, u.PasswordHash) != nil {
		return domain.User{}, ErrInvalidCredentials
	}

	return u, nil
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}
