package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taskly/backend/internal/apperrors"
	"github.com/taskly/backend/internal/auth"
	"github.com/taskly/backend/internal/models"
	"github.com/taskly/backend/internal/store"
)

// AccountService orchestrates the account lifecycle: register, confirm,
// login, and the token-based password flows.
type AccountService struct {
	users    store.Users
	tokens   store.Tokens
	mailer   Mailer
	sessions *auth.SessionIssuer
	log      *slog.Logger
}

func NewAccountService(users store.Users, tokens store.Tokens, mailer Mailer, sessions *auth.SessionIssuer, log *slog.Logger) *AccountService {
	return &AccountService{
		users:    users,
		tokens:   tokens,
		mailer:   mailer,
		sessions: sessions,
		log:      log,
	}
}

// Register creates an unconfirmed user, issues a confirmation token and
// dispatches the confirmation email. The email is best-effort: its failure
// never rolls back the persisted user or token.
func (s *AccountService) Register(ctx context.Context, email, name, password string) error {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return apperrors.ErrDuplicateEmail
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	user := &models.User{Email: email, Name: name, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		return err
	}

	token, err := s.tokens.Create(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to issue confirmation token: %w", err)
	}

	s.sendConfirmation(user, token.Token)
	return nil
}

// Confirm redeems a confirmation code and marks the owning account confirmed.
func (s *AccountService) Confirm(ctx context.Context, code string) error {
	token, err := s.tokens.Redeem(ctx, code)
	if err != nil {
		return err
	}
	return s.users.Confirm(ctx, token.UserID)
}

// Login authenticates by email and password and returns a session token.
// An unconfirmed account never gets a session: a fresh confirmation code is
// issued and mailed as a side effect, so retrying login is enough to recover
// a lost confirmation link.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if !user.Confirmed {
		token, err := s.tokens.Create(ctx, user.ID)
		if err != nil {
			s.log.Error("failed to issue confirmation token on login", "user_id", user.ID, "error", err)
		} else {
			s.sendConfirmation(user, token.Token)
		}
		return "", apperrors.ErrAccountNotConfirmed
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", apperrors.ErrInvalidCredentials
	}

	return s.sessions.Issue(user.ID)
}

// RequestConfirmationCode reissues a confirmation code for an unconfirmed
// account.
func (s *AccountService) RequestConfirmationCode(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.Confirmed {
		return apperrors.ErrAlreadyConfirmed
	}

	token, err := s.tokens.Create(ctx, user.ID)
	if err != nil {
		return err
	}

	s.sendConfirmation(user, token.Token)
	return nil
}

// ForgotPassword issues a reset code for an existing email. The not-found
// response reveals whether the email is registered; that mirrors the
// product's observed behavior and is documented as a known limitation.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := s.tokens.Create(ctx, user.ID)
	if err != nil {
		return err
	}

	dispatchMail(s.log, "password_reset", func(ctx context.Context) error {
		return s.mailer.SendPasswordReset(ctx, user.Email, user.Name, token.Token)
	})
	return nil
}

// ValidateResetToken confirms a code is currently redeemable without
// consuming it. Only the reset step consumes.
func (s *AccountService) ValidateResetToken(ctx context.Context, code string) error {
	_, err := s.tokens.Peek(ctx, code)
	return err
}

// ResetPassword consumes a reset code and stores the new password hash.
func (s *AccountService) ResetPassword(ctx context.Context, code, newPassword string) error {
	token, err := s.tokens.Redeem(ctx, code)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, token.UserID, hash)
}

// GetUser loads a user by id.
func (s *AccountService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfile changes the caller's name and email, rejecting an email that
// already belongs to a different account.
func (s *AccountService) UpdateProfile(ctx context.Context, user *models.User, name, email string) error {
	if existing, err := s.users.GetByEmail(ctx, email); err == nil {
		if existing.ID != user.ID {
			return apperrors.ErrDuplicateEmail
		}
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	return s.users.UpdateProfile(ctx, user.ID, name, email)
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AccountService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(currentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, hash)
}

// CheckPassword verifies the caller's password without changing anything.
// The UI uses it to confirm destructive actions.
func (s *AccountService) CheckPassword(ctx context.Context, userID, password string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}
	return nil
}

func (s *AccountService) sendConfirmation(user *models.User, code string) {
	email, name := user.Email, user.Name
	dispatchMail(s.log, "confirmation", func(ctx context.Context) error {
		return s.mailer.SendConfirmation(ctx, email, name, code)
	})
}
