package domain

import "errors"

// Validation.
var ErrValidation = errors.New("validation failed")

// Credential store.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserExists          = errors.New("user already exists")
	ErrSubscriptionExpired = errors.New("subscription expired")
	ErrCannotDeleteAdmin   = errors.New("admin users cannot be deleted")
	ErrNutritionNotFound   = errors.New("no nutrition entry for date")
)

// Registration workflow.
var (
	ErrRegistrationNotFound  = errors.New("registration request not found")
	ErrRegistrationProcessed = errors.New("registration request already processed")
	ErrDuplicateSubmission   = errors.New("registration request already submitted")
)

// Session tokens and guard. ErrTokenExpired and ErrTokenInvalid are kept
// apart so callers can tell a stale token from a forged or corrupt one.
var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrForbidden    = errors.New("access forbidden")
)

// Infrastructure.
var (
	ErrStorage               = errors.New("storage failure")
	ErrImageStoreUnavailable = errors.New("profile image storage unavailable")
)
