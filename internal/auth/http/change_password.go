package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Zenith-hasan/Spark/internal/auth/service"
	"github.com/Zenith-hasan/Spark/internal/auth/store"
	"github.com/Zenith-hasan/Spark/pkg/authsdk"
	"github.com/Zenith-hasan/Spark/pkg/httpx"
	"github.com/Zenith-hasan/Spark/pkg/slogx"
)

// ChangePasswordHandler serves POST /auth/change-password. It runs behind
// the bearer middleware; the subject comes from the verified token, never
// from the body. A successful change revokes every refresh token the user
// holds, so other sessions end at their next exchange.
type ChangePasswordHandler struct {
	AccountService *service.AccountService
}

func (h *ChangePasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := httpx.UserIDFromContext(ctx)

	err := h.AccountService.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWeakPassword):
			httpx.WriteMessage(w, http.StatusBadRequest, "Password must be at least 8 characters")
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteMessage(w, http.StatusUnauthorized, "Invalid password")
		case errors.Is(err, store.ErrNotFound):
			httpx.WriteMessage(w, http.StatusUnauthorized, "Account no longer exists")
		default:
			log.Error("password change failed", "err", err)
			httpx.WriteMessage(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
