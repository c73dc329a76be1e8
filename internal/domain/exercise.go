package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ExerciseType tags the shape and scoring rule of an exercise.
type ExerciseType string

// The seven exercise variants.
const (
	ExerciseFlashcard             ExerciseType = "flashcard"
	ExerciseMultipleChoice        ExerciseType = "multiple_choice"
	ExerciseFillInBlank           ExerciseType = "fill_in_blank"
	ExerciseSentenceConstruction  ExerciseType = "sentence_construction"
	ExercisePronunciationPractice ExerciseType = "pronunciation_practice"
	ExerciseMatching              ExerciseType = "matching"
	ExerciseListenChooseImage     ExerciseType = "listen_choose_image"
)

// ExerciseTypes lists every variant in a fixed order. Random type selection
// indexes into this slice.
var ExerciseTypes = []ExerciseType{
	ExerciseFlashcard,
	ExerciseMultipleChoice,
	ExerciseFillInBlank,
	ExerciseSentenceConstruction,
	ExercisePronunciationPractice,
	ExerciseMatching,
	ExerciseListenChooseImage,
}

// Valid reports whether t is one of the known variants.
func (t ExerciseType) Valid() bool {
	for _, known := range ExerciseTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ExerciseResult is the outcome of evaluating a submitted answer.
type ExerciseResult struct {
	UserAnswer string `json:"user_answer"`
	IsCorrect  bool   `json:"is_correct"`
	Feedback   string `json:"feedback"`
	Score      int    `json:"score"`
}

// Exercise is a generated practice item for one or more of a user's words.
//
// Question, Options and CorrectAnswer hold JSON whose shape depends on Type.
// CorrectAnswer is nil for oracle-scored types. Once IsCompleted is set, none
// of these fields change again.
type Exercise struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	WordIDs       []uuid.UUID     `json:"word_ids"`
	Type          ExerciseType    `json:"exercise_type"`
	Question      json.RawMessage `json:"question"`
	Options       json.RawMessage `json:"options,omitempty"`
	CorrectAnswer json.RawMessage `json:"-"`
	IsCompleted   bool            `json:"is_completed"`
	Result        *ExerciseResult `json:"result,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
}

// NewExercise creates a pending exercise.
func NewExercise(
	userID uuid.UUID,
	wordIDs []uuid.UUID,
	typ ExerciseType,
	question, options, correctAnswer json.RawMessage,
	now time.Time,
) (*Exercise, error) {
	e := &Exercise{
		ID:            uuid.New(),
		UserID:        userID,
		WordIDs:       wordIDs,
		Type:          typ,
		Question:      question,
		Options:       options,
		CorrectAnswer: correctAnswer,
		CreatedAt:     now.UTC(),
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks the exercise's identity, type and payload invariants.
func (e *Exercise) Validate() error {
	if e.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if e.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrInvalidID)
	}
	if len(e.WordIDs) == 0 {
		return NewValidationError("word_ids", "must reference at least one word", nil)
	}
	if !e.Type.Valid() {
		return NewValidationError("exercise_type", "is not a known exercise type", nil)
	}
	if len(e.Question) == 0 || !json.Valid(e.Question) {
		return NewValidationError("question", "must be valid JSON", nil)
	}
	if len(e.Options) > 0 && !json.Valid(e.Options) {
		return NewValidationError("options", "must be valid JSON", nil)
	}
	if len(e.CorrectAnswer) > 0 && !json.Valid(e.CorrectAnswer) {
		return NewValidationError("correct_answer", "must be valid JSON", nil)
	}
	if e.IsCompleted && e.Result == nil {
		return NewValidationError("result", "is required once completed", nil)
	}
	return nil
}

// PrimaryWordID is the word whose schedule is updated when the exercise completes.
func (e *Exercise) PrimaryWordID() uuid.UUID {
	if len(e.WordIDs) == 0 {
		return uuid.Nil
	}
	return e.WordIDs[0]
}

// Complete records the result. It fails with ErrAlreadyCompleted if a result
// has already been recorded.
func (e *Exercise) Complete(result ExerciseResult, now time.Time) error {
	if e.IsCompleted {
		return ErrAlreadyCompleted
	}
	completedAt := now.UTC()
	e.IsCompleted = true
	e.Result = &result
	e.CompletedAt = &completedAt
	return nil
}

// RevealedAnswer is the stored answer a client may see: always for a
// flashcard, whose back is shown before self-rating, and for any type once
// completed. It is nil otherwise.
func (e *Exercise) RevealedAnswer() json.RawMessage {
	if len(e.CorrectAnswer) == 0 {
		return nil
	}
	if e.Type == ExerciseFlashcard || e.IsCompleted {
		return e.CorrectAnswer
	}
	return nil
}

// MarshalJSON adds the revealed answer, if any, as "answer".
func (e Exercise) MarshalJSON() ([]byte, error) {
	type plain Exercise
	return json.Marshal(struct {
		plain
		Answer json.RawMessage `json:"answer,omitempty"`
	}{
		plain:  plain(e),
		Answer: e.RevealedAnswer(),
	})
}
