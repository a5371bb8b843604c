package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskly/backend/internal/apperrors"
)

// SessionIssuer issues and verifies signed, stateless session tokens. The
// signing secret is process-wide; rotating it invalidates every outstanding
// session.
type SessionIssuer struct {
	secret   []byte
	validity time.Duration
}

func NewSessionIssuer(secret string, validity time.Duration) *SessionIssuer {
	return &SessionIssuer{secret: []byte(secret), validity: validity}
}

// Issue signs a session token asserting the given user id.
func (i *SessionIssuer) Issue(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(i.validity)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	return token.SignedString(i.secret)
}

// Verify returns the subject user id of a valid session token. Bad signature,
// expiry, wrong algorithm and a payload without a subject all fail closed
// with ErrInvalidOrExpiredToken.
func (i *SessionIssuer) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", apperrors.ErrInvalidOrExpiredToken
	}

	if claims.Subject == "" {
		return "", apperrors.ErrInvalidOrExpiredToken
	}

	return claims.Subject, nil
}
