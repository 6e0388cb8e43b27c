package domain

import "errors"

var (
	ErrListingNotFound    = errors.New("listing not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("action forbidden")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrPersistence wraps backend failures so callers can retry
	// idempotent operations without seeing backend-specific detail.
	ErrPersistence = errors.New("persistence failure")
)
