package memory

import (
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
)

// DB holds the state shared by the memory stores. Deleting a word must also
// remove the exercises that reference it, so all stores share one lock.
type DB struct {
	mu         sync.RWMutex
	words      map[uuid.UUID]*domain.Word
	exercises  map[uuid.UUID]*domain.Exercise
	progress   map[uuid.UUID]*domain.Progress
	activities []*domain.Activity
}

// NewDB creates an empty DB.
func NewDB() *DB {
	return &DB{
		words:     make(map[uuid.UUID]*domain.Word),
		exercises: make(map[uuid.UUID]*domain.Exercise),
		progress:  make(map[uuid.UUID]*domain.Progress),
	}
}

// Words returns a WordStore backed by db.
func (db *DB) Words() *WordStore {
	return &WordStore{db: db}
}

// Exercises returns an ExerciseStore backed by db.
func (db *DB) Exercises() *ExerciseStore {
	return &ExerciseStore{db: db}
}

// Progress returns a ProgressStore backed by db.
func (db *DB) Progress() *ProgressStore {
	return &ProgressStore{db: db}
}

// Activities returns an ActivityStore backed by db.
func (db *DB) Activities() *ActivityStore {
	return &ActivityStore{db: db}
}

func copyWord(w *domain.Word) *domain.Word {
	c := *w
	c.Synonyms = append([]string(nil), w.Synonyms...)
	c.Antonyms = append([]string(nil), w.Antonyms...)
	if w.LastReviewedAt != nil {
		t := *w.LastReviewedAt
		c.LastReviewedAt = &t
	}
	return &c
}

func copyExercise(e *domain.Exercise) *domain.Exercise {
	c := *e
	c.WordIDs = append([]uuid.UUID(nil), e.WordIDs...)
	c.Question = append([]byte(nil), e.Question...)
	if e.Options != nil {
		c.Options = append([]byte(nil), e.Options...)
	}
	if e.CorrectAnswer != nil {
		c.CorrectAnswer = append([]byte(nil), e.CorrectAnswer...)
	}
	if e.Result != nil {
		r := *e.Result
		c.Result = &r
	}
	if e.CompletedAt != nil {
		t := *e.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

func copyActivity(a *domain.Activity) *domain.Activity {
	c := *a
	if a.RelatedID != nil {
		id := *a.RelatedID
		c.RelatedID = &id
	}
	if a.Details != nil {
		c.Details = make(map[string]any, len(a.Details))
		for k, v := range a.Details {
			c.Details[k] = v
		}
	}
	return &c
}
