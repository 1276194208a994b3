package models

import "errors"

// Domain specific errors for authentication, authorization and content overrides.
var (
	ErrNotFound          = errors.New("requested item not found")
	ErrUnauthenticated   = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidLanguage   = errors.New("invalid language")
	ErrBundleUnavailable = errors.New("translation bundle unavailable")
	ErrTooManyAttempts   = errors.New("too many failed attempts")
)
