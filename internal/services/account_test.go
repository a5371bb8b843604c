package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskly/backend/internal/apperrors"
	"github.com/taskly/backend/internal/auth"
	"github.com/taskly/backend/internal/store/storetest"
)

type accountHarness struct {
	svc    *AccountService
	users  *storetest.Users
	tokens *storetest.Tokens
	mailer *fakeMailer
}

func newAccountHarness(t *testing.T) *accountHarness {
	t.Helper()

	users := storetest.NewUsers()
	tokens := storetest.NewTokens()
	mailer := &fakeMailer{}
	issuer := auth.NewSessionIssuer("test-secret", time.Hour)
	svc := NewAccountService(users, tokens, mailer, issuer, slog.Default())

	return &accountHarness{svc: svc, users: users, tokens: tokens, mailer: mailer}
}

func waitForMail(t *testing.T, mailer *fakeMailer, kind string, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return mailer.countKind(kind) >= n
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRegister(t *testing.T) {
	h := newAccountHarness(t)
	ctx := context.Background()

	err := h.svc.Register(ctx, "Ana@Example.com", "Ana", "password123")
	require.NoError(t, err)

	user, err := h.users.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.False(t, user.Confirmed)
	assert.NotEqual(t, "password123", user.PasswordHash)

	assert.Equal(t, 1, h.users.Count())
	assert.Equal(t, 1, h.tokens.Count())
	waitForMail(t, h.mailer, "confirmation", 1)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h := newAccountHarness(t)
	ctx := context.Background()

	require.NoError(t, h.svc.Register(ctx, "ana@example.com", "Ana", "password123"))

	err := h.svc.Register(ctx, "ANA@example.com", "Other", "different456")
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)

	// The failed attempt leaves no trace.
	assert.Equal(t, 1, h.users.Count())
	assert.Equal(t, 1, h.tokens.Count())
}

func TestRegisterMailFailureDoesNotFailRegistration(t *testing.T) {
	users := storetest.NewUsers()
	tokens := storetest.NewTokens()
	issuer := auth.NewSessionIssuer("test-secret", time.Hour)
	svc := NewAccountService(users, tokens, failingMailer{}, issuer, slog.Default())

	err := svc.Register(context.Background(), "ana@example.com", "Ana", "password123")
	require.NoError(t, err)
	assert.Equal(t, 1, users.Count())
	assert.Equal(t, 1, tokens.Count())
}

func TestConfirm(t *testing.T) {
	h := newAccountHarness(t)
	ctx := context.Background()

	require.NoError(t, h.svc.Register(ctx, "ana@example.com", "Ana", "password123"))
	code := h.tokens.Latest()

	require.NoError(t, h.svc.Confirm(ctx, code))

	user, err := h.users.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, user.Confirmed)
	assert.Equal(t, 0, h.tokens.Count())
}

func TestConfirmConsumesToken(t *testing.T) {
	h := newAccountHarness(t)
	ctx := context.Background()

	require.NoError(t, h.svc.Register(ctx, "ana@example.com", "Ana", "password123"))
	code := h.tokens.Latest()

	require.NoError(t, h.svc.Confirm(ctx, code))

	err := h.svc.Confirm(ctx, code)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrExpiredToken)
}

func TestConfirmUnknownCode(t *testing.T) {
	h := newAccountHarness(t)

	err := h.svc.Confirm(context.Background(), "000000")
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrExpiredToken)
}

func TestConfirmExpiredToken(t *testing.T) {
	h := newAccountHarness(t)
	ctx := context.Background()

	require.NoError(t, h.svc.Register(ctx, "ana@example.com", "Ana", "password123"))
	code := h.tokens.Latest()

	base := time.Now()
	h.tokens.Now = func() time.Time { return base.Add(11 * time.Minute) }

	err := h.svc.Confirm(ctx, code)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrExpiredToken)
}

func TestLogin(t *testing.T) {
	h := newAccountHarness(t)
	ctx := context.Background()

	require.NoError(t, h.svc.Register(ctx, "ana@example.com", "Ana", "password123"))
	require.NoError(t, h.svc.Confirm(ctx, h.tokens.Latest()))

	session, err := h.svc.Login(ctx, "ana@example.com", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, session)

	user, err := h.users.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)

	issuer := auth.NewSessionIssuer("test-secret", time.Hour)
	subject, err := issuer.Verify(session)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)
}

func TestLoginWrongPassword(t *testing.T) {
	h := newAccountHarness(t)
	ctx := context.Background()

	require.NoError(t, h.svc.Register(ctx, "ana@example.com", "Ana", "password123"))
	require.NoError(t, h.svc.Confirm(ctx, h.tokens.Latest()))

	session, err := h.svc.Login(ctx, "ana@example.com", "wrongpassword")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.Empty(t, session)
}

func TestLoginUnknownEmail(t *testing.T) {
	h := newAccountHarness(t)

	session, err := h.svc.Login(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Empty(t, session)
}

func TestLoginUnconfirmedReissuesCode(t *testing.T) {
	h := newAccountHarness(t)
	ctx := context.Background()

	require.NoError(t, h.svc.Register(ctx, "ana@example.com", "Ana", "password123"))
	waitForMail(t, h.mailer, "confirmation", 1)

	// Even with the right password, no session until the account is
	// confirmed. A fresh code is issued and mailed instead.
	session, err := h.svc.Login(ctx, "ana@example.com", "password123")
	assert.ErrorIs(t, err, apperrors.ErrAccountNotConfirmed)
	assert.Empty(t, session)

	assert.Equal(t, 2, h.tokens.Count())
	waitForMail(t, h.mailer, "confirmation", 2)
}

func TestRequestConfirmationCode(t *testing.T) {
	h := newAccountHarness(t)
	ctx := context.Background()

	require.NoError(t, h.svc.Register(ctx, "ana@example.com", "Ana", "password123"))

	require.NoError(t, h.svc.RequestConfirmationCode(ctx, "ana@example.com"))
	assert.Equal(t, 2, h.tokens.Count())
	waitForMail(t, h.mailer, "confirmation", 2)
}

func TestRequestConfirmationCodeAlreadyConfirmed(t *testing.T) {
	h := newAccountHarness(t)
	ctx := context.Background()

	require.NoError(t, h.svc.Register(ctx, "ana@example.com", "Ana", "password123"))
	require.NoError(t, h.svc.Confirm(ctx, h.tokens.Latest()))

	err := h.svc.RequestConfirmationCode(ctx, "ana@example.com")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyConfirmed)
	assert.Equal(t, 0, h.tokens.Count())
}

func TestForgotPassword(t *testing.T) {
	h := newAccountHarness(t)
	ctx := context.Background()

	require.NoError(t, h.svc.Register(ctx, "ana@example.com", "Ana", "password123"))
	require.NoError(t, h.svc.Confirm(ctx, h.tokens.Latest()))

	require.NoError(t, h.svc.ForgotPassword(ctx, "ana@example.com"))
	assert.Equal(t, 1, h.tokens.Count())
	waitForMail(t, h.mailer, "password_reset", 1)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	h := newAccountHarness(t)

	err := h.svc.ForgotPassword(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestValidateResetTokenDoesNotConsume(t *testing.T) {
	h := newAccountHarness(t)
	ctx := context.Background()

	require.NoError(t, h.svc.Register(ctx, "ana@example.com", "Ana", "password123"))
	require.NoError(t, h.svc.Confirm(ctx, h.tokens.Latest()))
	require.NoError(t, h.svc.ForgotPassword(ctx, "ana@example.com"))
	code := h.tokens.Latest()

	// Validation is repeatable; only the reset consumes.
	require.NoError(t, h.svc.ValidateResetToken(ctx, code))
	require.NoError(t, h.svc.ValidateResetToken(ctx, code))
	assert.Equal(t, 1, h.tokens.Count())

	require.NoError(t, h.svc.ResetPassword(ctx, code, "newpassword456"))
	assert.Equal(t, 0, h.tokens.Count())

	err := h.svc.ValidateResetToken(ctx, code)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrExpiredToken)
}

func TestResetPassword(t *testing.T) {
	h := newAccountHarness(t)
	ctx := context.Background()

	require.NoError(t, h.svc.Register(ctx, "ana@example.com", "Ana", "password123"))
	require.NoError(t, h.svc.Confirm(ctx, h.tokens.Latest()))
	require.NoError(t, h.svc.ForgotPassword(ctx, "ana@example.com"))

	require.NoError(t, h.svc.ResetPassword(ctx, h.tokens.Latest(), "newpassword456"))

	_, err := h.svc.Login(ctx, "ana@example.com", "password123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	session, err := h.svc.Login(ctx, "ana@example.com", "newpassword456")
	require.NoError(t, err)
	assert.NotEmpty(t, session)
}

func TestResetPasswordConsumedCode(t *testing.T) {
	h := newAccountHarness(t)
	ctx := context.Background()

	require.NoError(t, h.svc.Register(ctx, "ana@example.com", "Ana", "password123"))
	require.NoError(t, h.svc.Confirm(ctx, h.tokens.Latest()))
	require.NoError(t, h.svc.ForgotPassword(ctx, "ana@example.com"))
	code := h.tokens.Latest()

	require.NoError(t, h.svc.ResetPassword(ctx, code, "newpassword456"))

	err := h.svc.ResetPassword(ctx, code, "anotherpass789")
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrExpiredToken)

	// The second attempt changed nothing.
	session, err := h.svc.Login(ctx, "ana@example.com", "newpassword456")
	require.NoError(t, err)
	assert.NotEmpty(t, session)
}

func TestUpdateProfile(t *testing.T) {
	h := newAccountHarness(t)
	ctx := context.Background()

	require.NoError(t, h.svc.Register(ctx, "ana@example.com", "Ana", "password123"))
	user, err := h.users.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)

	require.NoError(t, h.svc.UpdateProfile(ctx, user, "Ana B", "ana.b@example.com"))

	updated, err := h.svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana B", updated.Name)
	assert.Equal(t, "ana.b@example.com", updated.Email)
}

func TestUpdateProfileKeepOwnEmail(t *testing.T) {
	h := newAccountHarness(t)
	ctx := context.Background()

	require.NoError(t, h.svc.Register(ctx, "ana@example.com", "Ana", "password123"))
	user, err := h.users.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)

	// Re-submitting your own email is not a collision.
	require.NoError(t, h.svc.UpdateProfile(ctx, user, "Ana B", "ana@example.com"))
}

func TestUpdateProfileEmailTaken(t *testing.T) {
	h := newAccountHarness(t)
	ctx := context.Background()

	require.NoError(t, h.svc.Register(ctx, "ana@example.com", "Ana", "password123"))
	require.NoError(t, h.svc.Register(ctx, "bob@example.com", "Bob", "password123"))

	bob, err := h.users.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)

	err = h.svc.UpdateProfile(ctx, bob, "Bob", "ana@example.com")
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
}

func TestChangePassword(t *testing.T) {
	h := newAccountHarness(t)
	ctx := context.Background()

	require.NoError(t, h.svc.Register(ctx, "ana@example.com", "Ana", "password123"))
	require.NoError(t, h.svc.Confirm(ctx, h.tokens.Latest()))
	user, err := h.users.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)

	err = h.svc.ChangePassword(ctx, user.ID, "wrongpassword", "newpassword456")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	require.NoError(t, h.svc.ChangePassword(ctx, user.ID, "password123", "newpassword456"))

	session, err := h.svc.Login(ctx, "ana@example.com", "newpassword456")
	require.NoError(t, err)
	assert.NotEmpty(t, session)
}

func TestCheckPassword(t *testing.T) {
	h := newAccountHarness(t)
	ctx := context.Background()

	require.NoError(t, h.svc.Register(ctx, "ana@example.com", "Ana", "password123"))
	user, err := h.users.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)

	require.NoError(t, h.svc.CheckPassword(ctx, user.ID, "password123"))
	assert.ErrorIs(t, h.svc.CheckPassword(ctx, user.ID, "nope12345"), apperrors.ErrInvalidCredentials)
}
