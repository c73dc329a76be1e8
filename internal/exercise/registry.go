package exercise

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
	"github.com/phrazzld/lexi-api/internal/oracle"
)

// ErrSkipped is returned by a builder when the word cannot support the
// exercise type. The generator omits the slot.
var ErrSkipped = errors.New("exercise skipped")

// ErrUnknownType is returned for an exercise type with no registered kind.
var ErrUnknownType = errors.New("unknown exercise type")

// Env carries the collaborators available to builders and scorers.
type Env struct {
	Oracle oracle.Oracle
	Rand   Rand
	Logger *slog.Logger
}

// BuildInput is the word to build an exercise for, with the rest of the
// generation batch for exercises that need several words.
type BuildInput struct {
	Word       *domain.Word
	Candidates []*domain.Word
}

// Built is a builder's result. WordIDs defaults to the target word when empty.
type Built struct {
	Draft   Draft
	WordIDs []uuid.UUID
}

// Builder constructs the payload of one exercise type.
type Builder func(ctx context.Context, env Env, in BuildInput) (Built, error)

// ScoreInput is a submitted answer together with the exercise and its
// primary word. Word may be nil if the word no longer exists.
type ScoreInput struct {
	Exercise *domain.Exercise
	Word     *domain.Word
	Answer   string
}

// Evaluation is the verdict on a submitted answer.
type Evaluation struct {
	IsCorrect bool
	// Quality is the 0-5 recall quality fed to the scheduler.
	Quality int
	// Score is 0-100.
	Score    int
	Feedback string
	// Degraded is set when scoring failed and the zero verdict was applied.
	Degraded bool
}

// Scorer evaluates an answer to one exercise type.
type Scorer func(ctx context.Context, env Env, in ScoreInput) (Evaluation, error)

// Kind pairs the builder and scorer of an exercise type.
type Kind struct {
	Build Builder
	Score Scorer
}

// Registry maps exercise types to their kinds.
type Registry struct {
	kinds map[domain.ExerciseType]Kind
}

// NewRegistry returns a registry with the given exercise types, or with all
// seven when none are given. Types without a built-in kind are ignored.
func NewRegistry(types ...domain.ExerciseType) *Registry {
	builtin := map[domain.ExerciseType]Kind{
		domain.ExerciseFlashcard:             {Build: buildFlashcard, Score: scoreFlashcard},
		domain.ExerciseMultipleChoice:        {Build: buildMultipleChoice, Score: scoreExactMatch},
		domain.ExerciseFillInBlank:           {Build: buildFillInBlank, Score: scoreExactMatch},
		domain.ExerciseSentenceConstruction:  {Build: buildSentenceConstruction, Score: scoreSentence},
		domain.ExercisePronunciationPractice: {Build: buildPronunciationPractice, Score: scorePronunciation},
		domain.ExerciseMatching:              {Build: buildMatching, Score: scoreMatching},
		domain.ExerciseListenChooseImage:     {Build: buildListenChooseImage, Score: scoreExactMatch},
	}
	if len(types) == 0 {
		types = domain.ExerciseTypes
	}

	r := &Registry{kinds: make(map[domain.ExerciseType]Kind, len(types))}
	for _, t := range types {
		if k, ok := builtin[t]; ok {
			r.Register(t, k)
		}
	}
	return r
}

// Register sets or replaces the kind of t.
func (r *Registry) Register(t domain.ExerciseType, k Kind) {
	r.kinds[t] = k
}

// Lookup returns the kind registered for t.
func (r *Registry) Lookup(t domain.ExerciseType) (Kind, bool) {
	k, ok := r.kinds[t]
	return k, ok
}

// Types lists the registered types in domain.ExerciseTypes order.
func (r *Registry) Types() []domain.ExerciseType {
	types := make([]domain.ExerciseType, 0, len(r.kinds))
	for _, t := range domain.ExerciseTypes {
		if _, ok := r.kinds[t]; ok {
			types = append(types, t)
		}
	}
	return types
}
