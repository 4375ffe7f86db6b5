package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Zenith-hasan/Spark/internal/auth/domain"
	"github.com/Zenith-hasan/Spark/internal/auth/metrics"
	"github.com/Zenith-hasan/Spark/internal/auth/store"
	"github.com/Zenith-hasan/Spark/pkg/cryptox"
	"github.com/Zenith-hasan/Spark/pkg/idx"
	"github.com/Zenith-hasan/Spark/pkg/jwtx"
	"github.com/Zenith-hasan/Spark/pkg/slogx"
)

var ErrInvalidRefresh = errors.New("invalid_refresh_token")

// TokenService mints access tokens and manages the refresh token lifecycle.
type TokenService struct {
	Signer     jwtx.Signer
	Store      store.Store
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// IssuePair mints a fresh access/refresh pair for an authenticated user.
// The opaque refresh token is returned to the caller; only its fingerprint
// is persisted.
func (s *TokenService) IssuePair(ctx context.Context, u domain.User) (*domain.TokenPair, error) {
	now := time.Now()

	accessToken, err := s.signAccess(u, now)
	if err != nil {
		return nil, err
	}

	refreshOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}

	rt := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: cryptox.FingerprintToken(refreshOpaque),
		ExpiresAt: now.Add(s.RefreshTTL),
		Revoked:   false,
	}
	if err := s.Store.RefreshTokens().CreateRefreshToken(ctx, rt); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshOpaque,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.AccessTTL.Seconds()),
	}, nil
}

// IssueAccess mints only an access token, no refresh row. Used after
// registration, where the caller has to log in before holding a long-lived
// credential.
func (s *TokenService) IssueAccess(ctx context.Context, u domain.User) (string, error) {
	return s.signAccess(u, time.Now())
}

// ExchangeRefreshToken validates the provided refresh token by fingerprint
// lookup plus expiry/revocation check, then issues a new access token. The
// refresh token itself is left in place: one long-lived credential per login,
// exchanged many times until it expires or is revoked.
func (s *TokenService) ExchangeRefreshToken(
	ctx context.Context,
	refreshOpaque string,
) (string, error) {
	now := time.Now()
	log := slogx.FromContext(ctx)

	// 1. Lookup the persisted refresh row by token fingerprint
	fp := cryptox.FingerprintToken(refreshOpaque)
	rt, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.RefreshExchanges.WithLabelValues("unknown").Inc()
			return "", ErrInvalidRefresh
		}
		return "", err
	}

	// 2. Validate token is not expired or revoked. The SQL query could
	// filter these out, but we check here for defense in depth.
	if rt.Revoked {
		metrics.RefreshExchanges.WithLabelValues("revoked").Inc()
		return "", ErrInvalidRefresh
	}
	if now.After(rt.ExpiresAt) {
		metrics.RefreshExchanges.WithLabelValues("expired").Inc()
		return "", ErrInvalidRefresh
	}

	// 3. Load the user so the new token carries current identity fields
	u, err := s.Store.Users().GetUserByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// User deleted since the token was minted; the cascade should
			// have removed the row, but treat it as invalid regardless.
			metrics.RefreshExchanges.WithLabelValues("orphaned").Inc()
			return "", ErrInvalidRefresh
		}
		return "", err
	}

	accessToken, err := s.signAccess(u, now)
	if err != nil {
		log.Error("failed to sign access token", slog.Any("error", err))
		return "", err
	}

	metrics.RefreshExchanges.WithLabelValues("success").Inc()
	return accessToken, nil
}

// RevokeRefreshToken revokes a single refresh token (by its opaque value).
// Revoking an unknown token is a no-op; logout must not fail on a credential
// the server has already forgotten.
func (s *TokenService) RevokeRefreshToken(ctx context.Context, refreshOpaque string) error {
	fp := cryptox.FingerprintToken(refreshOpaque)
	return s.Store.RefreshTokens().RevokeRefreshToken(ctx, fp)
}

func (s *TokenService) signAccess(u domain.User, now time.Time) (string, error) {
	claims := jwtx.NewAccessClaims(
		u.ID,        // subject
		u.Username,  // username
		u.Email,     // email
		u.Role,      // role
		s.AccessTTL, // token lifetime
		s.Issuer,    // issuer
		now,         // current time
	)
	return s.Signer.Sign(claims)
}
