package models

import (
	"errors"
	"fmt"
)

// Common errors for identity reconciliation and store operations.
var (
	// ErrUserNotFound is returned when no record matches the lookup key.
	ErrUserNotFound = errors.New("user not found")

	// ErrReconciliationFailed is returned when reconciliation cannot
	// complete even after retrying a storage race. Fatal for the request;
	// stored state is left untouched.
	ErrReconciliationFailed = errors.New("identity reconciliation failed")
)

// DuplicateError is a unique-constraint violation surfaced by the store.
// Field names the identity key a concurrent writer already claimed
// ("external_id" or "email").
type DuplicateError struct {
	Field string
}

// Error implements the error interface.
func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate value for unique field %q", e.Field)
}

// IsDuplicate reports whether err is a unique-constraint violation.
func IsDuplicate(err error) bool {
	var dup *DuplicateError
	return errors.As(err, &dup)
}

// ConflictError reports an identity collision: the asserted email is
// already bound to a different external identity. Never auto-resolved.
type ConflictError struct {
	Email               string
	BoundExternalID     string
	RequestedExternalID string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("email %q is bound to external id %q, not %q",
		e.Email, e.BoundExternalID, e.RequestedExternalID)
}

// IsConflict reports whether err is an identity conflict.
func IsConflict(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict)
}
