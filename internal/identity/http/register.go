package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/arliden/identity/internal/identity/service"
	"github.com/arliden/identity/pkg/api"
	"github.com/arliden/identity/pkg/httpx"
	"github.com/arliden/identity/pkg/slogx"
)

// RegisterHandler serves POST /v1/auth/register.
//
// New accounts get the default role and an immediate token pair, so the
// client doesn't have to follow up with a login call.
type RegisterHandler struct {
	UserService  *service.UserService
	TokenService *service.TokenService
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.ErrInvalidRequest.WriteError(w)
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		api.ErrInvalidRequest.WriteError(w)
		return
	}

	u, err := h.UserService.Register(ctx, req.Username, req.PreferredName, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			api.ErrConflict.WriteError(w)
		default:
			log.Error("registration failed", slog.Any("error", err))
			api.ErrServerError.WriteError(w)
		}
		return
	}

	pair, err := h.TokenService.IssueTokens(ctx, u)
	if err != nil {
		log.Error("failed to issue tokens after registration", slog.Any("error", err))
		api.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, api.TokenPairResponse{
		AccessToken: api.AccessTokenPayload{
			Token:     pair.AccessToken,
			ExpiresIn: int(pair.ExpiresIn.Seconds()),
		},
		RefreshToken: pair.RefreshToken,
	})
}
