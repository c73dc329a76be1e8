package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Placeholder values written by the enrichment pipeline when a field could not
// be filled. They are treated as absent by exercise construction.
const (
	PlaceholderNA           = "N/A"
	PlaceholderAIFailed     = "N/A (AI Failed)"
	PlaceholderNoDefinition = "No definition found for this word."
)

// Default spaced-repetition state of a newly added word.
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
	MaxWordLength     = 100
)

// Difficulty is the enrichment-assigned difficulty of a word.
type Difficulty string

// Difficulty values.
const (
	DifficultyEasy    Difficulty = "easy"
	DifficultyMedium  Difficulty = "medium"
	DifficultyHard    Difficulty = "hard"
	DifficultyUnknown Difficulty = "unknown"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyUnknown:
		return true
	}
	return false
}

// Word is a vocabulary item owned by a user together with its review schedule.
//
// Repetitions, EaseFactor, LastReviewedAt and NextReviewAt are only ever
// changed by the SRS scheduler.
type Word struct {
	ID                   uuid.UUID  `json:"id"`
	UserID               uuid.UUID  `json:"user_id"`
	Text                 string     `json:"word"`
	Translation          string     `json:"translation,omitempty"`
	WordType             string     `json:"word_type,omitempty"`
	Phonetic             string     `json:"phonetic,omitempty"`
	AudioURL             string     `json:"audio_url,omitempty"`
	EnglishDefinition    string     `json:"english_definition,omitempty"`
	Example              string     `json:"example,omitempty"`
	Synonyms             []string   `json:"synonyms,omitempty"`
	Antonyms             []string   `json:"antonyms,omitempty"`
	VietnameseDefinition string     `json:"vietnamese_definition,omitempty"`
	VietnameseExample    string     `json:"vietnamese_example,omitempty"`
	Difficulty           Difficulty `json:"difficulty"`
	Notes                string     `json:"notes,omitempty"`
	AddedAt              time.Time  `json:"added_at"`
	Repetitions          int        `json:"repetitions"`
	EaseFactor           float64    `json:"ease_factor"`
	LastReviewedAt       *time.Time `json:"last_reviewed_at,omitempty"`
	NextReviewAt         time.Time  `json:"next_review_at"`
}

// NewWord creates a word for userID with the initial review state.
// A new word is due for review immediately.
func NewWord(userID uuid.UUID, text string, now time.Time) (*Word, error) {
	now = now.UTC()
	w := &Word{
		ID:           uuid.New(),
		UserID:       userID,
		Text:         strings.TrimSpace(text),
		Difficulty:   DifficultyUnknown,
		AddedAt:      now,
		Repetitions:  0,
		EaseFactor:   DefaultEaseFactor,
		NextReviewAt: now,
	}

	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// Validate checks the word's identity and scheduling invariants.
func (w *Word) Validate() error {
	if w.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if w.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrInvalidID)
	}
	if w.Text == "" {
		return NewValidationError("word", "cannot be empty", nil)
	}
	if utf8.RuneCountInString(w.Text) > MaxWordLength {
		return NewValidationError("word", "is too long", nil)
	}
	if w.Repetitions < 0 {
		return NewValidationError("repetitions", "cannot be negative", nil)
	}
	if w.EaseFactor < MinEaseFactor {
		return NewValidationError("ease_factor", "must be at least 1.3", nil)
	}
	if w.Difficulty != "" && !w.Difficulty.Valid() {
		return NewValidationError("difficulty", "is not a known difficulty", nil)
	}
	return nil
}

// ReviewBase is the instant the next interval is counted from: the last review,
// or the time the word was added if it has never been reviewed.
func (w *Word) ReviewBase() time.Time {
	if w.LastReviewedAt != nil {
		return *w.LastReviewedAt
	}
	return w.AddedAt
}

// IsDue reports whether the word should be reviewed at now.
func (w *Word) IsDue(now time.Time) bool {
	return !w.NextReviewAt.After(now)
}

// HasEnglishDefinition reports whether a real English definition is present.
func (w *Word) HasEnglishDefinition() bool {
	return present(w.EnglishDefinition) && w.EnglishDefinition != PlaceholderNoDefinition
}

// HasUsableExample reports whether the example sentence can be used for a
// fill-in-the-blank exercise.
func (w *Word) HasUsableExample() bool {
	return present(w.Example) && w.Example != PlaceholderAIFailed
}

// HasAudio reports whether a pronunciation audio reference is present.
func (w *Word) HasAudio() bool {
	return present(w.AudioURL)
}

// Definition is the translated definition used by exercises, falling back to
// the English definition.
func (w *Word) Definition() string {
	if strings.TrimSpace(w.VietnameseDefinition) != "" {
		return w.VietnameseDefinition
	}
	return w.EnglishDefinition
}

// HasDefinition reports whether the word has a definition exercises can ask
// for.
func (w *Word) HasDefinition() bool {
	return strings.TrimSpace(w.Definition()) != ""
}

// Gloss is a short meaning of the word: its translation, else its definition.
func (w *Word) Gloss() string {
	if w.Translation != "" {
		return w.Translation
	}
	return w.Definition()
}

func present(s string) bool {
	return strings.TrimSpace(s) != "" && s != PlaceholderNA
}
