package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when input or an entity fails validation.
	// It is usually reached through a *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or empty.
	ErrInvalidID = errors.New("invalid ID")

	// ErrNotFound is returned when a word, exercise or user does not exist
	// or is not owned by the caller.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyCompleted is returned when an answer is submitted for an
	// exercise that already carries a result.
	ErrAlreadyCompleted = errors.New("exercise already completed")

	// ErrAlreadyCheckedIn is returned when a user checks in twice on the same day.
	ErrAlreadyCheckedIn = errors.New("already checked in today")

	// ErrDuplicateWord is returned when a user adds a word they already have.
	ErrDuplicateWord = errors.New("word already exists")

	// ErrUnauthorized is returned when a request carries no usable identity.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// ValidationError describes which field failed validation and why.
// errors.Is(err, ErrValidation) holds for every ValidationError.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports ErrValidation as a match regardless of the wrapped cause.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
