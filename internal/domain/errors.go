package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a lookup finds no matching row.
// Callers surface it explicitly rather than silently defaulting.
var ErrNotFound = errors.New("not found")

// ConstraintViolationError is returned when an operation is blocked because
// dependent rows exist. Reason carries a human-readable explanation so
// callers don't need to re-derive which constraint fired.
type ConstraintViolationError struct {
	Reason string
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("constraint violation: %s", e.Reason)
}

// NewConstraintViolation creates a ConstraintViolationError with the given reason
func NewConstraintViolation(reason string) *ConstraintViolationError {
	return &ConstraintViolationError{Reason: reason}
}

// IsConstraintViolation reports whether err is a ConstraintViolationError
func IsConstraintViolation(err error) bool {
	var cv *ConstraintViolationError
	return errors.As(err, &cv)
}

// ValidationError is returned when input fails parse-and-validate at the
// boundary of a Create or Update operation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for the given field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
