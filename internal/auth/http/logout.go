package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Zenith-hasan/Spark/internal/auth/service"
	"github.com/Zenith-hasan/Spark/pkg/authsdk"
	"github.com/Zenith-hasan/Spark/pkg/httpx"
	"github.com/Zenith-hasan/Spark/pkg/slogx"
)

// LogoutHandler serves POST /auth/logout. Revocation is idempotent: logging
// out with an unknown or already-revoked token still returns 204.
type LogoutHandler struct {
	TokenService *service.TokenService
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if token := strings.TrimSpace(req.RefreshToken); token != "" {
		if err := h.TokenService.RevokeRefreshToken(ctx, token); err != nil {
			log.Error("failed to revoke refresh token", "err", err)
			httpx.WriteMessage(w, http.StatusInternalServerError, "internal server error")
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
