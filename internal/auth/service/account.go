package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/Zenith-hasan/Spark/internal/auth/domain"
	"github.com/Zenith-hasan/Spark/internal/auth/metrics"
	"github.com/Zenith-hasan/Spark/internal/auth/store"
	"github.com/Zenith-hasan/Spark/pkg/cryptox"
	"github.com/Zenith-hasan/Spark/pkg/idx"
	"github.com/Zenith-hasan/Spark/pkg/slogx"
)

const (
	// MinPasswordLength is the minimum accepted password length.
	// Registration enforces it, and login rejects shorter inputs before any
	// lookup since such a password can never have been accepted.
	MinPasswordLength = 8

	// DefaultRole is assigned when registration does not name a role.
	DefaultRole = "user"
)

var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password too short")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid_credentials")
)

// AccountService owns user registration and password verification.
type AccountService struct {
	Store store.Store
}

// Register validates the input, rejects duplicate email/username, and creates
// the account with an argon2id password hash. Validation runs before any
// store access so a bad request never touches the database. An empty role
// falls back to DefaultRole.
func (s *AccountService) Register(
	ctx context.Context,
	username, email, password, role string,
) (domain.User, error) {
	log := slogx.FromContext(ctx)

	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	role = strings.TrimSpace(role)
	if role == "" {
		role = DefaultRole
	}

	if username == "" || email == "" || password == "" {
		metrics.Registrations.WithLabelValues("invalid").Inc()
		return domain.User{}, ErrMissingFields
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		metrics.Registrations.WithLabelValues("invalid").Inc()
		return domain.User{}, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		metrics.Registrations.WithLabelValues("invalid").Inc()
		return domain.User{}, ErrWeakPassword
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}

	// The existence check and the insert run in one transaction so two
	// racing registrations cannot both pass the check. The UNIQUE
	// constraints are the final arbiter either way.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().GetUserByEmailOrUsername(ctx, email, username)
		if err == nil {
			return ErrUserExists
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return tx.Users().CreateUser(ctx, u)
	})
	if err != nil {
		if errors.Is(err, ErrUserExists) || errors.Is(err, store.ErrAlreadyExists) {
			log.Info("registration rejected, account exists",
				slog.String("username", username),
			)
			metrics.Registrations.WithLabelValues("conflict").Inc()
			return domain.User{}, ErrUserExists
		}
		log.Error("failed to create user", slog.Any("error", err))
		return domain.User{}, err
	}

	metrics.Registrations.WithLabelValues("success").Inc()
	log.Info("user registered",
		slog.String("user_id", u.ID),
		slog.String("username", u.Username),
	)
	return s.Store.Users().GetUserByID(ctx, u.ID)
}

// Authenticate checks an email/password pair. An unknown email and a wrong
// password both come back as ErrInvalidCredentials so the response never
// reveals whether the account exists.
func (s *AccountService) Authenticate(
	ctx context.Context,
	email, password string,
) (domain.User, error) {
	log := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		metrics.Logins.WithLabelValues("failure").Inc()
		return domain.User{}, ErrInvalidCredentials
	}
	// Inputs under the registration minimum are rejected without touching the
	// store. This reveals nothing: no account can hold such a password.
	if len(password) < MinPasswordLength {
		metrics.Logins.WithLabelValues("invalid").Inc()
		return domain.User{}, ErrWeakPassword
	}

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.Logins.WithLabelValues("failure").Inc()
			return domain.User{}, ErrInvalidCredentials
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		log.Info("password verification failed", slog.String("user_id", u.ID))
		metrics.Logins.WithLabelValues("failure").Inc()
		return domain.User{}, ErrInvalidCredentials
	}

	metrics.Logins.WithLabelValues("success").Inc()
	return u, nil
}

// GetUserByID fetches a user by id.
func (s *AccountService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// ChangePassword verifies the current password, stores a hash of the new one,
// and revokes every refresh token the user holds. Existing sessions die with
// their next exchange; the caller has to log in again with the new password.
func (s *AccountService) ChangePassword(
	ctx context.Context,
	userID, currentPassword, newPassword string,
) error {
	log := slogx.FromContext(ctx)

	if len(newPassword) < MinPasswordLength {
		return ErrWeakPassword
	}

	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := cryptox.VerifyPassword(currentPassword, u.PasswordHash); err != nil {
		log.Info("password change rejected", slog.String("user_id", userID))
		return ErrInvalidCredentials
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return err
	}

	// Hash swap and bulk revocation commit together so there is no window
	// where the new password is live but old refresh tokens still work.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
			return err
		}
		return tx.RefreshTokens().RevokeAllUserRefreshTokens(ctx, userID)
	})
	if err != nil {
		log.Error("failed to change password", slog.Any("error", err))
		return err
	}

	log.Info("password changed", slog.String("user_id", userID))
	return nil
}

// DeleteAccount verifies the password and removes the account. Refresh
// tokens go with it via the schema's cascade.
func (s *AccountService) DeleteAccount(ctx context.Context, userID, password string) error {
	log := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		log.Info("account deletion rejected", slog.String("user_id", userID))
		return ErrInvalidCredentials
	}

	if err := s.Store.Users().DeleteUser(ctx, userID); err != nil {
		log.Error("failed to delete user", slog.Any("error", err))
		return err
	}

	log.Info("account deleted", slog.String("user_id", userID))
	return nil
}
