package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/bryllupspakken/backend/internal/service"
	"github.com/bryllupspakken/backend/pkg/auth"
)

// MeHandler returns the signed-in admin.
type MeHandler struct {
	authService service.AuthService
}

// NewMeHandler creates a MeHandler.
func NewMeHandler(authService service.AuthService) *MeHandler {
	return &MeHandler{authService: authService}
}

// Me handles GET /api/me. Runs behind auth.RequireSession.
func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.authService.CurrentUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user_not_found")
			return
		}
		slog.Error("load current user failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
