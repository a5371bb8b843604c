package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskly/backend/internal/apperrors"
)

func TestSessionIssuer_RoundTrip(t *testing.T) {
	issuer := NewSessionIssuer("test-secret", time.Hour)

	token, err := issuer.Issue("user-1")
	require.NoError(t, err)

	subject, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)
}

func TestSessionIssuer_WrongSecret(t *testing.T) {
	issuer := NewSessionIssuer("test-secret", time.Hour)
	other := NewSessionIssuer("other-secret", time.Hour)

	token, err := issuer.Issue("user-1")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrExpiredToken)
}

func TestSessionIssuer_Expired(t *testing.T) {
	issuer := NewSessionIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue("user-1")
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrExpiredToken)
}

func TestSessionIssuer_Garbage(t *testing.T) {
	issuer := NewSessionIssuer("test-secret", time.Hour)

	_, err := issuer.Verify("definitely-not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrExpiredToken)
}

// A token that decodes and validates but carries no subject must be rejected,
// not treated as an anonymous identity.
func TestSessionIssuer_MissingSubjectFailsClosed(t *testing.T) {
	secret := "test-secret"
	issuer := NewSessionIssuer(secret, time.Hour)

	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := raw.SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrExpiredToken)
}
