package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Zenith-hasan/Spark/internal/auth/service"
	"github.com/Zenith-hasan/Spark/pkg/authsdk"
	"github.com/Zenith-hasan/Spark/pkg/httpx"
	"github.com/Zenith-hasan/Spark/pkg/slogx"
)

// RefreshHandler serves POST /auth/refresh-token. A valid refresh token is
// exchanged for a fresh access token; the refresh token itself is untouched.
type RefreshHandler struct {
	TokenService *service.TokenService
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token := strings.TrimSpace(req.RefreshToken)
	if token == "" {
		// A missing token is still a credential failure, not a bad request;
		// clients key their give-up path off 401.
		httpx.WriteMessage(w, http.StatusUnauthorized, "Refresh token required")
		return
	}

	accessToken, err := h.TokenService.ExchangeRefreshToken(ctx, token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefresh) {
			httpx.WriteMessage(w, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		log.Error("refresh exchange failed", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{
		AccessToken: accessToken,
	})
}
