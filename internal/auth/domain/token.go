package domain

import "time"

// TokenPair is what a successful login hands back: the short-lived access
// token (JWT) and the opaque refresh token. It never crosses the wire
// itself; handlers copy it into their response types.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string // typically "Bearer"
	ExpiresIn    int64  // seconds the access token is valid for
}

// RefreshToken models the stored refresh token record in the DB. The raw
// token never touches disk; only its fingerprint does.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string // deterministic fingerprint (base64url SHA-256)
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
