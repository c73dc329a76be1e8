package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
)

// WordStore defines the interface for vocabulary persistence.
type WordStore interface {
	// Create saves a new word.
	// Returns ErrWordExists if the user already has a word with the same
	// text (compared case-insensitively).
	Create(ctx context.Context, word *domain.Word) error

	// GetByID retrieves a word by its ID.
	// Returns ErrWordNotFound if the word does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error)

	// ListByUser returns a user's words, most recently added first.
	// A limit <= 0 returns all words from offset on.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Word, error)

	// ListDue returns the user's words with NextReviewAt <= now, earliest first.
	ListDue(ctx context.Context, userID uuid.UUID, now time.Time) ([]*domain.Word, error)

	// CountByUser returns the size of the user's vocabulary.
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)

	// CountDue returns the number of the user's words due at now.
	CountDue(ctx context.Context, userID uuid.UUID, now time.Time) (int, error)

	// UpdateContent persists the user-editable fields of word: its text and
	// every enrichment field. The review schedule is left unchanged.
	// Returns ErrWordNotFound if the word does not exist and ErrWordExists
	// if the new text collides with another of the user's words.
	UpdateContent(ctx context.Context, word *domain.Word) error

	// UpdateSchedule persists the review fields of word (Repetitions,
	// EaseFactor, LastReviewedAt, NextReviewAt).
	// Returns ErrWordNotFound if the word does not exist.
	UpdateSchedule(ctx context.Context, word *domain.Word) error

	// Delete removes a word together with every exercise that references it.
	// Returns ErrWordNotFound if the word does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
