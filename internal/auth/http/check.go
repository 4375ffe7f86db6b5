package http

import (
	"errors"
	"net/http"

	"github.com/Zenith-hasan/Spark/internal/auth/service"
	"github.com/Zenith-hasan/Spark/internal/auth/store"
	"github.com/Zenith-hasan/Spark/pkg/authsdk"
	"github.com/Zenith-hasan/Spark/pkg/httpx"
	"github.com/Zenith-hasan/Spark/pkg/slogx"
)

// CheckAuthHandler serves GET /auth/check-auth. Reaching it at all means the
// bearer token passed verification; the handler just reflects the account
// back so clients can bootstrap their view of who is logged in.
type CheckAuthHandler struct {
	AccountService *service.AccountService
}

func (h *CheckAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)

	u, err := h.AccountService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Token is valid but the account is gone (deleted after issue).
			httpx.WriteMessage(w, http.StatusUnauthorized, "Account no longer exists")
			return
		}
		log.Error("failed to load user", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.CheckAuthResponse{
		Authenticated: true,
		User:          userInfo(u),
	})
}
