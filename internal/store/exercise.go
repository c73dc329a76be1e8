package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
)

// ExerciseFilter narrows an exercise listing.
type ExerciseFilter struct {
	// Completed, when set, keeps only exercises whose IsCompleted matches.
	Completed *bool
	// Limit caps the number of results; <= 0 means no cap.
	Limit int
}

// ExerciseStore defines the interface for exercise persistence.
type ExerciseStore interface {
	// Create saves a new pending exercise.
	Create(ctx context.Context, exercise *domain.Exercise) error

	// GetByID retrieves an exercise by its ID.
	// Returns ErrExerciseNotFound if the exercise does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error)

	// ListByUser returns a user's exercises, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, filter ExerciseFilter) ([]*domain.Exercise, error)

	// Complete records the result carried by exercise (IsCompleted, Result,
	// CompletedAt). The write only succeeds while the stored exercise is
	// still pending: a second completion returns ErrExerciseCompleted.
	// Returns ErrExerciseNotFound if the exercise does not exist.
	Complete(ctx context.Context, exercise *domain.Exercise) error
}
