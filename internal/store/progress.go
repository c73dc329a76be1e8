package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
)

// ProgressStore defines the interface for gamified progress persistence.
// There is at most one progress row per user.
type ProgressStore interface {
	// Get retrieves the user's progress.
	// Returns ErrProgressNotFound if nothing has been stored for the user yet.
	Get(ctx context.Context, userID uuid.UUID) (*domain.Progress, error)

	// Save creates or replaces the user's progress.
	Save(ctx context.Context, progress *domain.Progress) error
}
