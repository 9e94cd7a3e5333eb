package services

import "errors"

// Workflow outcome errors. Handlers map these onto HTTP statuses.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrIdentityTaken    = errors.New("username or email already exists")
	ErrAccountNotFound  = errors.New("account not found")
	ErrAccountBlocked   = errors.New("account is blocked")
	ErrWrongPassword    = errors.New("wrong password")
	ErrEmailNotVerified = errors.New("email not verified")

	// ErrCodeInvalid covers every OTP failure: missing, expired, already
	// consumed or simply wrong. Callers must not be able to tell these apart.
	ErrCodeInvalid = errors.New("invalid or expired code")
)
