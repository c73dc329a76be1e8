package service

import (
	"fmt"

	"github.com/phrazzld/lexi-api/internal/domain"
	"github.com/phrazzld/lexi-api/internal/store"
)

// ServiceError wraps failures of a service operation with context.
// Callers match the cause with errors.Is and errors.As.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "add_word", "submit_answer")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// notFound reports a missing or foreign entity. Ownership failures are
// indistinguishable from absence.
func notFound(operation, entity string) *ServiceError {
	return NewServiceError(operation, entity+" not found", domain.ErrNotFound)
}

// storeFailure wraps err, translating store not-found errors to
// domain.ErrNotFound for entity.
func storeFailure(operation, entity string, err error) *ServiceError {
	if store.IsNotFoundError(err) {
		return notFound(operation, entity)
	}
	return NewServiceError(operation, "failed to access "+entity, err)
}
