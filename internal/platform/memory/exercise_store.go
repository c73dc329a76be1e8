package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
	"github.com/phrazzld/lexi-api/internal/store"
)

// ExerciseStore implements store.ExerciseStore in memory.
type ExerciseStore struct {
	db *DB
}

var _ store.ExerciseStore = (*ExerciseStore)(nil)

// Create implements store.ExerciseStore.
func (s *ExerciseStore) Create(_ context.Context, exercise *domain.Exercise) error {
	if err := exercise.Validate(); err != nil {
		return store.NewStoreError("exercise", "create", "invalid exercise", err)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.exercises[exercise.ID]; ok {
		return store.NewStoreError("exercise", "create", "duplicate id", store.ErrDuplicate)
	}
	s.db.exercises[exercise.ID] = copyExercise(exercise)
	return nil
}

// GetByID implements store.ExerciseStore.
func (s *ExerciseStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Exercise, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	ex, ok := s.db.exercises[id]
	if !ok {
		return nil, store.ErrExerciseNotFound
	}
	return copyExercise(ex), nil
}

// ListByUser implements store.ExerciseStore.
func (s *ExerciseStore) ListByUser(
	_ context.Context,
	userID uuid.UUID,
	filter store.ExerciseFilter,
) ([]*domain.Exercise, error) {
	s.db.mu.RLock()
	out := make([]*domain.Exercise, 0)
	for _, ex := range s.db.exercises {
		if ex.UserID != userID {
			continue
		}
		if filter.Completed != nil && ex.IsCompleted != *filter.Completed {
			continue
		}
		out = append(out, copyExercise(ex))
	}
	s.db.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Complete implements store.ExerciseStore.
func (s *ExerciseStore) Complete(_ context.Context, exercise *domain.Exercise) error {
	if !exercise.IsCompleted || exercise.Result == nil {
		return store.NewStoreError("exercise", "complete", "exercise carries no result", store.ErrInvalidEntity)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, ok := s.db.exercises[exercise.ID]
	if !ok {
		return store.ErrExerciseNotFound
	}
	if existing.IsCompleted {
		return store.ErrExerciseCompleted
	}

	done := copyExercise(exercise)
	existing.IsCompleted = true
	existing.Result = done.Result
	existing.CompletedAt = done.CompletedAt
	return nil
}
