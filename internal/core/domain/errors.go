package domain

import "errors"

// Common domain errors
var (
	ErrValidation      = errors.New("invalid input")
	ErrOutOfRange      = errors.New("value out of range")
	ErrForbidden       = errors.New("forbidden")
	ErrExternalService = errors.New("external service failure")
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateUsername  = errors.New("username already taken")
)

// Loan errors
var (
	ErrLoanNotFound      = errors.New("loan application not found")
	ErrInvalidTransition = errors.New("loan application already decided")
)

// Contributor errors
var (
	ErrContributorNotFound = errors.New("contributor not found")
	ErrRateOutOfRange      = errors.New("preferred rate must be between 0 and 20")
)
