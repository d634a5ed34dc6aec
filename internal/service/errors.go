package service

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to handlers. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrProcessing = errors.New("processing failed")
	ErrIO         = errors.New("storage failure")

	ErrUnauthorized       = errors.New("unauthorized")
	ErrMissingToken       = fmt.Errorf("%w: missing token", ErrUnauthorized)
	ErrTokenMalformed     = fmt.Errorf("%w: malformed token", ErrUnauthorized)
	ErrInvalidSignature   = fmt.Errorf("%w: invalid signature", ErrUnauthorized)
	ErrTokenExpired       = fmt.Errorf("%w: token expired", ErrUnauthorized)
	ErrUnknownUser        = fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
)

// invalid wraps a user-facing validation message.
func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
