package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Zenith-hasan/Spark/internal/auth/domain"
	"github.com/Zenith-hasan/Spark/internal/auth/service"
	"github.com/Zenith-hasan/Spark/pkg/authsdk"
	"github.com/Zenith-hasan/Spark/pkg/httpx"
	"github.com/Zenith-hasan/Spark/pkg/slogx"
)

// LoginHandler serves POST /auth/login.
type LoginHandler struct {
	AccountService *service.AccountService
	TokenService   *service.TokenService
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.AccountService.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWeakPassword):
			httpx.WriteMessage(w, http.StatusBadRequest, "Password must be at least 8 characters")
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteMessage(w, http.StatusUnauthorized, "Invalid email or password")
		default:
			log.Error("login failed", "err", err)
			httpx.WriteMessage(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	pair, err := h.TokenService.IssuePair(ctx, u)
	if err != nil {
		log.Error("failed to issue token pair", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         userInfo(u),
	})
}

func userInfo(u domain.User) *authsdk.UserInfo {
	return &authsdk.UserInfo{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
