package http

import (
	"net/http"

	"github.com/arliden/identity/internal/identity/service"
	"github.com/arliden/identity/pkg/api"
	"github.com/arliden/identity/pkg/httpx"
	"github.com/arliden/identity/pkg/slogx"
)

// UserInfoHandler serves GET /v1/userinfo for callers holding the
// profile:read scope.
type UserInfoHandler struct {
	UserService  *service.UserService
	RolesService *service.RolesService
}

func (h *UserInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		api.ErrInvalidCredentials.WriteError(w)
		return
	}

	user, err := h.UserService.GetUserByID(ctx, userID)
	if err != nil {
		log.Warn("failed to load user", "user_id", userID, "err", err)
		api.ErrServerError.WriteError(w)
		return
	}

	role, err := h.RolesService.GetRoleByID(ctx, user.RoleID)
	if err != nil {
		log.Warn("failed to load role", "user_id", userID, "role_id", user.RoleID, "err", err)
		api.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, api.UserInfoResponse{
		UserID:        user.ID,
		Username:      user.Username,
		PreferredName: user.PreferredName,
		Role:          role.Name,
	})
}
