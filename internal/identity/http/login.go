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

// LoginHandler serves POST /v1/auth/login.
type LoginHandler struct {
	UserService  *service.UserService
	TokenService *service.TokenService
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.ErrInvalidRequest.WriteError(w)
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		api.ErrInvalidRequest.WriteError(w)
		return
	}

	u, err := h.UserService.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			api.ErrInvalidCredentials.WriteError(w)
			return
		}
		log.Error("login failed", slog.Any("error", err))
		api.ErrServerError.WriteError(w)
		return
	}

	pair, err := h.TokenService.IssueTokens(ctx, u)
	if err != nil {
		log.Error("failed to issue tokens", slog.Any("error", err))
		api.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, api.TokenPairResponse{
		AccessToken: api.AccessTokenPayload{
			Token:     pair.AccessToken,
			ExpiresIn: int(pair.ExpiresIn.Seconds()),
		},
		RefreshToken: pair.RefreshToken,
	})
}
