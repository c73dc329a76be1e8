package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
	"github.com/phrazzld/lexi-api/internal/store"
)

// WordStore implements store.WordStore in memory.
type WordStore struct {
	db *DB
}

var _ store.WordStore = (*WordStore)(nil)

// Create implements store.WordStore.
func (s *WordStore) Create(_ context.Context, word *domain.Word) error {
	if err := word.Validate(); err != nil {
		return store.NewStoreError("word", "create", "invalid word", err)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, w := range s.db.words {
		if w.UserID == word.UserID && strings.EqualFold(w.Text, word.Text) {
			return store.ErrWordExists
		}
	}
	s.db.words[word.ID] = copyWord(word)
	return nil
}

// GetByID implements store.WordStore.
func (s *WordStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Word, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	w, ok := s.db.words[id]
	if !ok {
		return nil, store.ErrWordNotFound
	}
	return copyWord(w), nil
}

// ListByUser implements store.WordStore.
func (s *WordStore) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Word, error) {
	words := s.filter(userID, func(*domain.Word) bool { return true })
	sort.SliceStable(words, func(i, j int) bool { return words[i].AddedAt.After(words[j].AddedAt) })

	if offset > 0 {
		if offset >= len(words) {
			return []*domain.Word{}, nil
		}
		words = words[offset:]
	}
	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}
	return words, nil
}

// ListDue implements store.WordStore.
func (s *WordStore) ListDue(_ context.Context, userID uuid.UUID, now time.Time) ([]*domain.Word, error) {
	words := s.filter(userID, func(w *domain.Word) bool { return w.IsDue(now) })
	sort.SliceStable(words, func(i, j int) bool { return words[i].NextReviewAt.Before(words[j].NextReviewAt) })
	return words, nil
}

// CountByUser implements store.WordStore.
func (s *WordStore) CountByUser(_ context.Context, userID uuid.UUID) (int, error) {
	return len(s.filter(userID, func(*domain.Word) bool { return true })), nil
}

// CountDue implements store.WordStore.
func (s *WordStore) CountDue(_ context.Context, userID uuid.UUID, now time.Time) (int, error) {
	return len(s.filter(userID, func(w *domain.Word) bool { return w.IsDue(now) })), nil
}

// UpdateContent implements store.WordStore.
func (s *WordStore) UpdateContent(_ context.Context, word *domain.Word) error {
	if err := word.Validate(); err != nil {
		return store.NewStoreError("word", "update", "invalid word", err)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, ok := s.db.words[word.ID]
	if !ok {
		return store.ErrWordNotFound
	}
	for _, w := range s.db.words {
		if w.ID != word.ID && w.UserID == existing.UserID && strings.EqualFold(w.Text, word.Text) {
			return store.ErrWordExists
		}
	}

	updated := copyWord(word)
	updated.UserID = existing.UserID
	updated.AddedAt = existing.AddedAt
	updated.Repetitions = existing.Repetitions
	updated.EaseFactor = existing.EaseFactor
	updated.LastReviewedAt = existing.LastReviewedAt
	updated.NextReviewAt = existing.NextReviewAt
	s.db.words[word.ID] = updated
	return nil
}

// UpdateSchedule implements store.WordStore.
func (s *WordStore) UpdateSchedule(_ context.Context, word *domain.Word) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, ok := s.db.words[word.ID]
	if !ok {
		return store.ErrWordNotFound
	}
	existing.Repetitions = word.Repetitions
	existing.EaseFactor = word.EaseFactor
	existing.NextReviewAt = word.NextReviewAt
	existing.LastReviewedAt = nil
	if word.LastReviewedAt != nil {
		t := *word.LastReviewedAt
		existing.LastReviewedAt = &t
	}
	return nil
}

// Delete implements store.WordStore.
func (s *WordStore) Delete(_ context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.words[id]; !ok {
		return store.ErrWordNotFound
	}
	delete(s.db.words, id)

	for exID, ex := range s.db.exercises {
		for _, wid := range ex.WordIDs {
			if wid == id {
				delete(s.db.exercises, exID)
				break
			}
		}
	}
	return nil
}

func (s *WordStore) filter(userID uuid.UUID, keep func(*domain.Word) bool) []*domain.Word {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	out := make([]*domain.Word, 0)
	for _, w := range s.db.words {
		if w.UserID == userID && keep(w) {
			out = append(out, copyWord(w))
		}
	}
	// Map order is random; fix a base order so equal sort keys are stable.
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out
}
