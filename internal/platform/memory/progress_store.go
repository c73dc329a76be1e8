package memory

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
	"github.com/phrazzld/lexi-api/internal/store"
)

// ProgressStore implements store.ProgressStore in memory.
type ProgressStore struct {
	db *DB
}

var _ store.ProgressStore = (*ProgressStore)(nil)

// Get implements store.ProgressStore.
func (s *ProgressStore) Get(_ context.Context, userID uuid.UUID) (*domain.Progress, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	p, ok := s.db.progress[userID]
	if !ok {
		return nil, store.ErrProgressNotFound
	}
	c := p.Clone()
	return &c, nil
}

// Save implements store.ProgressStore.
func (s *ProgressStore) Save(_ context.Context, progress *domain.Progress) error {
	if progress.UserID == uuid.Nil {
		return store.NewStoreError("progress", "save", "missing user", domain.ErrInvalidID)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	c := progress.Clone()
	s.db.progress[progress.UserID] = &c
	return nil
}
