package models

import "errors"

// Common errors for the activity service.
var (
	// ErrActivityNotFound is returned when no activity matches the lookup.
	ErrActivityNotFound = errors.New("activity not found")

	// ErrUserUnvalidated is returned when the referenced user identity
	// could not be confirmed by the user service.
	ErrUserUnvalidated = errors.New("user identity could not be validated")

	// ErrValidationUnavailable is returned when the user service cannot be
	// reached (or its circuit breaker is open), so validation could not run
	// at all.
	ErrValidationUnavailable = errors.New("user validation is unavailable")
)
