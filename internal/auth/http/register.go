package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Zenith-hasan/Spark/internal/auth/service"
	"github.com/Zenith-hasan/Spark/pkg/authsdk"
	"github.com/Zenith-hasan/Spark/pkg/httpx"
	"github.com/Zenith-hasan/Spark/pkg/slogx"
)

// RegisterHandler serves POST /auth/register.
type RegisterHandler struct {
	AccountService *service.AccountService
	TokenService   *service.TokenService
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.AccountService.Register(ctx, req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			httpx.WriteMessage(w, http.StatusBadRequest, "All fields are required")
		case errors.Is(err, service.ErrInvalidEmail):
			httpx.WriteMessage(w, http.StatusBadRequest, "Invalid email address")
		case errors.Is(err, service.ErrWeakPassword):
			httpx.WriteMessage(w, http.StatusBadRequest, "Password must be at least 8 characters")
		case errors.Is(err, service.ErrUserExists):
			httpx.WriteMessage(w, http.StatusBadRequest, "User already exists")
		default:
			log.Error("registration failed", "err", err)
			httpx.WriteMessage(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	accessToken, err := h.TokenService.IssueAccess(ctx, u)
	if err != nil {
		log.Error("failed to issue access token", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, authsdk.TokenResponse{
		AccessToken: accessToken,
		User:        userInfo(u),
	})
}
