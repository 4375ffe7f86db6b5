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

// DeleteAccountHandler serves DELETE /auth/account. Deletion requires the
// current password even with a valid bearer token, so a stolen access token
// alone cannot destroy the account.
type DeleteAccountHandler struct {
	AccountService *service.AccountService
}

func (h *DeleteAccountHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.DeleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := httpx.UserIDFromContext(ctx)

	if err := h.AccountService.DeleteAccount(ctx, userID, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteMessage(w, http.StatusUnauthorized, "Invalid password")
		case errors.Is(err, store.ErrNotFound):
			httpx.WriteMessage(w, http.StatusUnauthorized, "Account no longer exists")
		default:
			log.Error("account deletion failed", "err", err)
			httpx.WriteMessage(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
