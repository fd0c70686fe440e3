package http

import (
	"log/slog"
	"net/http"

	"github.com/arliden/identity/internal/identity/service"
	"github.com/arliden/identity/pkg/api"
	"github.com/arliden/identity/pkg/httpx"
	"github.com/arliden/identity/pkg/slogx"
)

// LogoutHandler serves POST /v1/auth/logout. It revokes every refresh
// token the authenticated user holds; already-issued access tokens keep
// working until they expire.
type LogoutHandler struct {
	TokenService *service.TokenService
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		api.ErrInvalidCredentials.WriteError(w)
		return
	}

	if err := h.TokenService.RevokeUserTokens(ctx, userID); err != nil {
		log.Error("logout failed", slog.Any("error", err), slog.String("user_id", userID))
		api.ErrServerError.WriteError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
