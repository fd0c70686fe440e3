package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/arliden/identity/internal/identity/service"
	"github.com/arliden/identity/pkg/api"
	"github.com/arliden/identity/pkg/httpx"
	"github.com/arliden/identity/pkg/slogx"
)

// ExchangeHandler serves POST /v1/auth/token, the refresh exchange.
//
// Every rejection, whatever the underlying reason, writes the same 401
// body. A caller probing with stolen material cannot distinguish a bad
// signature from an unknown refresh token from a lost rotation race.
type ExchangeHandler struct {
	TokenService *service.TokenService
}

func (h *ExchangeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req api.ExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.AccessToken == "" || req.RefreshToken == "" {
		api.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.TokenService.ExchangeTokens(ctx, req.AccessToken, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAccessToken),
			errors.Is(err, service.ErrInvalidRefreshToken):
			api.ErrInvalidCredentials.WriteError(w)
		default:
			log.Error("token exchange failed", slog.Any("error", err))
			api.ErrServerError.WriteError(w)
		}
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
