package oracle

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every *Error matches exactly one of ErrTransient and ErrFatal.
var (
	// ErrTransient marks failures worth retrying, such as rate limiting.
	ErrTransient = errors.New("transient oracle failure")

	// ErrFatal marks failures that will not succeed on retry.
	ErrFatal = errors.New("oracle failure")

	// ErrInvalidResponse is returned when the oracle reply cannot be parsed.
	ErrInvalidResponse = errors.New("invalid oracle response")

	// ErrNotConfigured is returned when no oracle backend is configured.
	ErrNotConfigured = errors.New("oracle not configured")

	// ErrRetriesExhausted is returned when every retry attempt failed transiently.
	ErrRetriesExhausted = errors.New("oracle retries exhausted")
)

// Error is a failed oracle operation.
type Error struct {
	// Op is the oracle operation, e.g. "generate_distractors".
	Op string
	// Transient reports whether the failure may succeed on retry.
	Transient bool
	// Err is the underlying cause.
	Err error
}

// NewTransient wraps err as a retryable failure of op.
func NewTransient(op string, err error) *Error {
	return &Error{Op: op, Transient: true, Err: err}
}

// NewFatal wraps err as a non-retryable failure of op.
func NewFatal(op string, err error) *Error {
	return &Error{Op: op, Err: err}
}

func (e *Error) Error() string {
	kind := "fatal"
	if e.Transient {
		kind = "transient"
	}
	if e.Err == nil {
		return fmt.Sprintf("oracle %s: %s failure", e.Op, kind)
	}
	return fmt.Sprintf("oracle %s: %s failure: %v", e.Op, kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches ErrTransient or ErrFatal according to e.Transient.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTransient:
		return e.Transient
	case ErrFatal:
		return !e.Transient
	}
	return false
}

// IsTransient reports whether err is an oracle failure worth retrying.
func IsTransient(err error) bool {
	var oe *Error
	return errors.As(err, &oe) && oe.Transient
}
