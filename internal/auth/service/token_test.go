package service

import (
	"context"
	"testing"
	"time"

	"github.com/Zenith-hasan/Spark/internal/auth/domain"
	"github.com/Zenith-hasan/Spark/internal/auth/store"
	"github.com/Zenith-hasan/Spark/pkg/cryptox"
	"github.com/Zenith-hasan/Spark/pkg/idx"
	"github.com/Zenith-hasan/Spark/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var tokenTestSecret = []byte("0123456789abcdef0123456789abcdef")

func newTokenService(t *testing.T, st store.Store) *TokenService {
	t.Helper()

	signer, err := jwtx.NewSignerHS256(tokenTestSecret)
	require.NoError(t, err)

	return &TokenService{
		Signer:     signer,
		Store:      st,
		Issuer:     "test-issuer",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}
}

func seedUser(t *testing.T, st store.Store) domain.User {
	t.Helper()

	u := domain.User{
		ID:           idx.New().String(),
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Role:         "user",
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func TestIssuePairAndExchange(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTokenService(t, st)
	u := seedUser(t, st)

	pair, err := svc.IssuePair(ctx, u)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, "Bearer", pair.TokenType)

	verifier, err := jwtx.NewVerifierHS256(tokenTestSecret, "test-issuer")
	require.NoError(t, err)

	claims, err := verifier.Verify(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, claims.Subject)
	require.Equal(t, u.Username, claims.Username)
	require.Equal(t, u.Email, claims.Email)
	require.Equal(t, u.Role, claims.Role)

	t.Run("exchange mints a new access token, refresh survives", func(t *testing.T) {
		access, err := svc.ExchangeRefreshToken(ctx, pair.RefreshToken)
		require.NoError(t, err)

		claims, err := verifier.Verify(access)
		require.NoError(t, err)
		require.Equal(t, u.ID, claims.Subject)

		// The same refresh token stays good for further exchanges.
		_, err = svc.ExchangeRefreshToken(ctx, pair.RefreshToken)
		require.NoError(t, err)
	})

	t.Run("raw refresh token never stored", func(t *testing.T) {
		_, err := st.RefreshTokens().GetRefreshTokenByHash(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, store.ErrNotFound)

		fp := cryptox.FingerprintToken(pair.RefreshToken)
		rt, err := st.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
		require.NoError(t, err)
		require.Equal(t, u.ID, rt.UserID)
	})
}

func TestExchangeRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTokenService(t, st)
	u := seedUser(t, st)

	t.Run("unknown token", func(t *testing.T) {
		_, err := svc.ExchangeRefreshToken(ctx, "never-issued")
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("revoked token", func(t *testing.T) {
		pair, err := svc.IssuePair(ctx, u)
		require.NoError(t, err)

		require.NoError(t, svc.RevokeRefreshToken(ctx, pair.RefreshToken))

		_, err = svc.ExchangeRefreshToken(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("expired token", func(t *testing.T) {
		opaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
		require.NoError(t, err)

		rt := domain.RefreshToken{
			ID:        idx.New().String(),
			UserID:    u.ID,
			TokenHash: cryptox.FingerprintToken(opaque),
			ExpiresAt: time.Now().Add(-time.Minute),
		}
		require.NoError(t, st.RefreshTokens().CreateRefreshToken(ctx, rt))

		_, err = svc.ExchangeRefreshToken(ctx, opaque)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("revoking unknown token is a no-op", func(t *testing.T) {
		require.NoError(t, svc.RevokeRefreshToken(ctx, "never-issued"))
	})
}
