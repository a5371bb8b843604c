// Package apperrors defines the sentinel errors shared by services, stores and
// handlers. Callers should use errors.Is to match these values; the HTTP layer
// maps each one to a client-visible status via Status.
package apperrors

import (
	"errors"
	"net/http"
)

var (
	// Store-level errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")

	// Token lifecycle errors.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

	// Account lifecycle errors.
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountNotConfirmed = errors.New("account not confirmed")
	ErrAlreadyConfirmed    = errors.New("account already confirmed")

	// Authorization errors.
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidRelation = errors.New("resource does not belong to this parent")

	// Team membership conflicts.
	ErrAlreadyTeamMember = errors.New("user already in this project")
	ErrNotTeamMember     = errors.New("user is not in this project")

	// Malformed input, rejected before any service call.
	ErrValidation = errors.New("validation failed")
)

// Status returns the HTTP status code for a known sentinel error, or 500 for
// anything else. Unexpected errors must never leak internal detail to clients;
// the caller is expected to log them and send a generic message.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidOrExpiredToken):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateEmail),
		errors.Is(err, ErrAlreadyTeamMember),
		errors.Is(err, ErrNotTeamMember):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrAccountNotConfirmed):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAlreadyConfirmed), errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidRelation), errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
