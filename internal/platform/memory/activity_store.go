package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
	"github.com/phrazzld/lexi-api/internal/store"
)

// ActivityStore implements store.ActivityStore in memory.
type ActivityStore struct {
	db *DB
}

var _ store.ActivityStore = (*ActivityStore)(nil)

// Create implements store.ActivityStore.
func (s *ActivityStore) Create(_ context.Context, activity *domain.Activity) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	s.db.activities = append(s.db.activities, copyActivity(activity))
	return nil
}

// ListByUser implements store.ActivityStore. Entries are kept in insertion
// order, so walking backwards yields newest first.
func (s *ActivityStore) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]*domain.Activity, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := make([]*domain.Activity, 0)
	for i := len(s.db.activities) - 1; i >= 0; i-- {
		a := s.db.activities[i]
		if a.UserID != userID {
			continue
		}
		out = append(out, copyActivity(a))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
