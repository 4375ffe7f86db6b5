package service

import (
	"context"
	"testing"

	"github.com/Zenith-hasan/Spark/internal/auth/store"
	"github.com/Zenith-hasan/Spark/internal/auth/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := &AccountService{Store: newTestStore(t)}

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Register(ctx, "", "alice@example.com", "correct-horse", "")
		require.ErrorIs(t, err, ErrMissingFields)

		_, err = svc.Register(ctx, "alice", "", "correct-horse", "")
		require.ErrorIs(t, err, ErrMissingFields)

		_, err = svc.Register(ctx, "alice", "alice@example.com", "", "")
		require.ErrorIs(t, err, ErrMissingFields)
	})

	t.Run("bad email", func(t *testing.T) {
		_, err := svc.Register(ctx, "alice", "not-an-email", "correct-horse", "")
		require.ErrorIs(t, err, ErrInvalidEmail)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := svc.Register(ctx, "alice", "alice@example.com", "short", "")
		require.ErrorIs(t, err, ErrWeakPassword)
	})
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := &AccountService{Store: newTestStore(t)}

	u, err := svc.Register(ctx, "alice", "Alice@Example.com", "correct-horse", "")
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.Equal(t, "alice", u.Username)
	require.Equal(t, "alice@example.com", u.Email, "email should be stored lowercased")
	require.Equal(t, DefaultRole, u.Role)
	require.NotEqual(t, "correct-horse", u.PasswordHash)

	t.Run("login with correct password", func(t *testing.T) {
		got, err := svc.Authenticate(ctx, "alice@example.com", "correct-horse")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})

	t.Run("wrong password is indistinguishable from unknown user", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "alice@example.com", "wrong-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = svc.Authenticate(ctx, "nobody@example.com", "correct-horse")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRegisterRole(t *testing.T) {
	ctx := context.Background()
	svc := &AccountService{Store: newTestStore(t)}

	t.Run("caller-supplied role is kept", func(t *testing.T) {
		u, err := svc.Register(ctx, "ines", "ines@example.com", "correct-horse", "instructor")
		require.NoError(t, err)
		require.Equal(t, "instructor", u.Role)
	})

	t.Run("blank role falls back to default", func(t *testing.T) {
		u, err := svc.Register(ctx, "uma", "uma@example.com", "correct-horse", "  ")
		require.NoError(t, err)
		require.Equal(t, DefaultRole, u.Role)
	})
}

func TestAuthenticateShortPasswordSkipsStore(t *testing.T) {
	// Nil store: any lookup would panic, which is the point. A password under
	// the registration minimum must be rejected before the first query.
	svc := &AccountService{}

	_, err := svc.Authenticate(context.Background(), "alice@example.com", "short")
	require.ErrorIs(t, err, ErrWeakPassword)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	svc := &AccountService{Store: newTestStore(t)}

	first, err := svc.Register(ctx, "alice", "alice@example.com", "correct-horse", "")
	require.NoError(t, err)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, "alice2", "alice@example.com", "correct-horse", "")
		require.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Register(ctx, "alice", "alice2@example.com", "correct-horse", "")
		require.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("original account untouched", func(t *testing.T) {
		got, err := svc.GetUserByID(ctx, first.ID)
		require.NoError(t, err)
		require.Equal(t, "alice@example.com", got.Email)
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &AccountService{Store: st}
	tokens := newTokenService(t, st)

	u, err := svc.Register(ctx, "alice", "alice@example.com", "correct-horse", "")
	require.NoError(t, err)

	pair, err := tokens.IssuePair(ctx, u)
	require.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, u.ID, "wrong-password", "battery-staple")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("short new password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, u.ID, "correct-horse", "short")
		require.ErrorIs(t, err, ErrWeakPassword)
	})

	require.NoError(t, svc.ChangePassword(ctx, u.ID, "correct-horse", "battery-staple"))

	t.Run("old password no longer works", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "alice@example.com", "correct-horse")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("new password works", func(t *testing.T) {
		got, err := svc.Authenticate(ctx, "alice@example.com", "battery-staple")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})

	t.Run("existing refresh tokens are revoked", func(t *testing.T) {
		_, err := tokens.ExchangeRefreshToken(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &AccountService{Store: st}
	tokens := newTokenService(t, st)

	u, err := svc.Register(ctx, "alice", "alice@example.com", "correct-horse", "")
	require.NoError(t, err)

	pair, err := tokens.IssuePair(ctx, u)
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		err := svc.DeleteAccount(ctx, u.ID, "wrong-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	require.NoError(t, svc.DeleteAccount(ctx, u.ID, "correct-horse"))

	t.Run("account is gone", func(t *testing.T) {
		_, err := svc.GetUserByID(ctx, u.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("refresh tokens went with it", func(t *testing.T) {
		_, err := tokens.ExchangeRefreshToken(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})
}
