package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
)

// ActivityStore defines the interface for the activity log.
type ActivityStore interface {
	// Create appends an entry to the log.
	Create(ctx context.Context, activity *domain.Activity) error

	// ListByUser returns the user's most recent entries, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Activity, error)
}
