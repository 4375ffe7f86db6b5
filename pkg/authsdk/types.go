package authsdk

import "time"

// ============================================================================
// Request Types
// ============================================================================

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	// Username is the public display name (unique).
	Username string `json:"username"`

	// Email is the login identifier (unique, stored lowercased).
	Email string `json:"email"`

	// Password is the plaintext password, minimum 8 characters.
	Password string `json:"password"`

	// Role is optional; the server assigns "user" when it is empty.
	Role string `json:"role,omitempty"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the body for POST /auth/refresh-token and POST /auth/logout.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest is the body for POST /auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// DeleteAccountRequest is the body for DELETE /auth/account.
type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// ============================================================================
// Response Types
// ============================================================================

// TokenResponse is the success body of the register, login, and refresh
// endpoints. Register omits the refresh token; refresh omits both the
// refresh token and the user.
type TokenResponse struct {
	// AccessToken is the JWT access token used to authenticate API requests
	AccessToken string `json:"accessToken"`

	// RefreshToken is the opaque long-lived token used to obtain new access tokens
	RefreshToken string `json:"refreshToken,omitempty"`

	// User describes the authenticated account
	User *UserInfo `json:"user,omitempty"`
}

// UserInfo is the public view of an account. The password hash never leaves
// the server.
type UserInfo struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// CheckAuthResponse is the body of GET /auth/check-auth.
type CheckAuthResponse struct {
	Authenticated bool      `json:"authenticated"`
	User          *UserInfo `json:"user,omitempty"`
}

// MessageResponse is the uniform error body: every non-2xx response carries
// a human-readable message and nothing else.
type MessageResponse struct {
	Message string `json:"message"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by the /livez and /readyz endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency status for the readiness probe.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}
