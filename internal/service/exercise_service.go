package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
	"github.com/phrazzld/lexi-api/internal/domain/srs"
	"github.com/phrazzld/lexi-api/internal/events"
	"github.com/phrazzld/lexi-api/internal/exercise"
	"github.com/phrazzld/lexi-api/internal/platform/logger"
	"github.com/phrazzld/lexi-api/internal/store"
)

// Generation batch bounds.
const (
	DefaultExerciseLimit = 5
	MaxExerciseLimit     = 20
)

// ExerciseLimits bounds how many exercises one generation request creates.
type ExerciseLimits struct {
	Default int
	Max     int
}

// SubmitResult is the composite outcome of an answer submission.
type SubmitResult struct {
	Exercise  *domain.Exercise `json:"exercise"`
	Progress  *domain.Progress `json:"progress"`
	XPEarned  int              `json:"xp_earned"`
	NewLevel  int              `json:"new_level"`
	LeveledUp bool             `json:"leveled_up"`
	// RewardEarned is the streak milestone bonus, if one was reached.
	RewardEarned *int `json:"reward_earned,omitempty"`
	// Word is the rescheduled primary word, nil if it no longer exists.
	Word *domain.Word `json:"word,omitempty"`
}

// ExerciseService generates exercises and scores submitted answers.
type ExerciseService interface {
	// Generate builds and stores up to limit exercises for the user's due
	// and most recent words. limit <= 0 uses the default; larger values are
	// capped at the maximum.
	Generate(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Exercise, error)

	// Submit scores answer, completes the exercise, reschedules its primary
	// word and records the completion on the user's progress.
	// Returns domain.ErrNotFound for a missing or foreign exercise and
	// domain.ErrAlreadyCompleted for a second submission.
	//
	// The steps are not transactional and are not rolled back. If a later
	// step fails the exercise stays completed (and the word rescheduled), so
	// a retry returns domain.ErrAlreadyCompleted and the completion earns no
	// progress.
	Submit(ctx context.Context, userID, exerciseID uuid.UUID, answer string) (*SubmitResult, error)

	// GetExercise returns one of the user's exercises.
	GetExercise(ctx context.Context, userID, exerciseID uuid.UUID) (*domain.Exercise, error)

	// ListExercises returns the user's exercises, newest first.
	ListExercises(ctx context.Context, userID uuid.UUID, completed *bool, limit int) ([]*domain.Exercise, error)
}

type exerciseServiceImpl struct {
	words     store.WordStore
	exercises store.ExerciseStore
	generator *exercise.Generator
	evaluator *exercise.Evaluator
	srs       srs.Service
	progress  ProgressService
	emitter   events.EventEmitter
	limits    ExerciseLimits
	clock     Clock
	logger    *slog.Logger
}

var _ ExerciseService = (*exerciseServiceImpl)(nil)

// NewExerciseService creates an ExerciseService. Zero limits use
// DefaultExerciseLimit and MaxExerciseLimit. A nil emitter discards events.
func NewExerciseService(
	words store.WordStore,
	exercises store.ExerciseStore,
	generator *exercise.Generator,
	evaluator *exercise.Evaluator,
	srsService srs.Service,
	progress ProgressService,
	emitter events.EventEmitter,
	limits ExerciseLimits,
	clock Clock,
	logger *slog.Logger,
) ExerciseService {
	if words == nil {
		panic("words cannot be nil")
	}
	if exercises == nil {
		panic("exercises cannot be nil")
	}
	if generator == nil {
		panic("generator cannot be nil")
	}
	if evaluator == nil {
		panic("evaluator cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if progress == nil {
		panic("progress cannot be nil")
	}
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	if limits.Max <= 0 {
		limits.Max = MaxExerciseLimit
	}
	if limits.Default <= 0 {
		limits.Default = DefaultExerciseLimit
	}
	if limits.Default > limits.Max {
		limits.Default = limits.Max
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &exerciseServiceImpl{
		words:     words,
		exercises: exercises,
		generator: generator,
		evaluator: evaluator,
		srs:       srsService,
		progress:  progress,
		emitter:   emitter,
		limits:    limits,
		clock:     clock,
		logger:    logger.With(slog.String("component", "exercise_service")),
	}
}

func (s *exerciseServiceImpl) effectiveLimit(limit int) int {
	switch {
	case limit <= 0:
		return s.limits.Default
	case limit > s.limits.Max:
		return s.limits.Max
	}
	return limit
}

// Generate implements ExerciseService.Generate.
func (s *exerciseServiceImpl) Generate(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Exercise, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.clock.now()
	limit = s.effectiveLimit(limit)

	candidates, err := s.candidates(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		log.DebugContext(ctx, "no words to build exercises from", slog.String("user_id", userID.String()))
		return []*domain.Exercise{}, nil
	}

	s.generator.Shuffle(candidates)

	created := make([]*domain.Exercise, 0, len(candidates))
	for _, word := range candidates {
		typ := s.generator.PickType()
		ex, err := s.generator.Build(ctx, userID, typ, word, candidates, now)
		if err != nil {
			if errors.Is(err, exercise.ErrSkipped) {
				log.DebugContext(ctx, "skipped exercise slot",
					slog.String("exercise_type", string(typ)),
					slog.String("word_id", word.ID.String()),
					slog.String("reason", err.Error()))
				continue
			}
			log.WarnContext(ctx, "failed to build exercise",
				slog.String("exercise_type", string(typ)),
				slog.String("word_id", word.ID.String()),
				slog.String("error", err.Error()))
			continue
		}

		if err := s.exercises.Create(ctx, ex); err != nil {
			log.ErrorContext(ctx, "failed to save exercise",
				slog.String("exercise_type", string(typ)),
				slog.String("word_id", word.ID.String()),
				slog.String("error", err.Error()))
			continue
		}
		created = append(created, ex)

		emit(ctx, s.emitter, log, domain.ActivityGenerateExercise, userID,
			fmt.Sprintf("Đã tạo bài tập %s cho từ: %s", typ, word.Text),
			map[string]any{"exercise_type": typ, "word": word.Text},
			&related{id: ex.ID, typ: "exercise"}, now)
	}

	log.InfoContext(ctx, "exercises generated",
		slog.String("user_id", userID.String()),
		slog.Int("requested", limit),
		slog.Int("candidates", len(candidates)),
		slog.Int("created", len(created)))
	return created, nil
}

// candidates returns up to limit words: due words first, then the most
// recently added ones.
func (s *exerciseServiceImpl) candidates(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Word, error) {
	due, err := s.words.ListDue(ctx, userID, s.clock.now())
	if err != nil {
		return nil, NewServiceError("generate_exercises", "failed to list due words", err)
	}
	if len(due) > limit {
		due = due[:limit]
	}
	out := append(make([]*domain.Word, 0, limit), due...)
	if len(out) == limit {
		return out, nil
	}

	// Every due word may be among the most recent, so fetch enough to fill
	// the batch after removing them.
	recent, err := s.words.ListByUser(ctx, userID, limit+len(due), 0)
	if err != nil {
		return nil, NewServiceError("generate_exercises", "failed to list recent words", err)
	}
	seen := make(map[uuid.UUID]bool, len(out))
	for _, w := range out {
		seen[w.ID] = true
	}
	for _, w := range recent {
		if len(out) == limit {
			break
		}
		if !seen[w.ID] {
			seen[w.ID] = true
			out = append(out, w)
		}
	}
	return out, nil
}

// Submit implements ExerciseService.Submit.
func (s *exerciseServiceImpl) Submit(
	ctx context.Context,
	userID, exerciseID uuid.UUID,
	answer string,
) (*SubmitResult, error) {
	const op = "submit_answer"
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("exercise_id", exerciseID.String()))
	now := s.clock.now()

	ex, err := s.GetExercise(ctx, userID, exerciseID)
	if err != nil {
		return nil, err
	}
	if ex.IsCompleted {
		return nil, NewServiceError(op, "exercise already completed", domain.ErrAlreadyCompleted)
	}

	word, err := s.primaryWord(ctx, userID, ex)
	if err != nil {
		return nil, err
	}

	eval := s.evaluator.Evaluate(ctx, ex, word, answer)

	// (a) record the result; the store refuses a second completion
	if err := ex.Complete(domain.ExerciseResult{
		UserAnswer: answer,
		IsCorrect:  eval.IsCorrect,
		Feedback:   eval.Feedback,
		Score:      eval.Score,
	}, now); err != nil {
		return nil, NewServiceError(op, "exercise already completed", err)
	}
	if err := s.exercises.Complete(ctx, ex); err != nil {
		switch {
		case errors.Is(err, store.ErrExerciseCompleted):
			return nil, NewServiceError(op, "exercise already completed", domain.ErrAlreadyCompleted)
		case store.IsNotFoundError(err):
			return nil, notFound(op, "exercise")
		}
		log.ErrorContext(ctx, "failed to save exercise result", slog.String("error", err.Error()))
		return nil, NewServiceError(op, "failed to save exercise result", err)
	}

	result := &SubmitResult{Exercise: ex}

	// (b) reschedule the primary word
	if word == nil {
		log.WarnContext(ctx, "primary word no longer exists, skipping review",
			slog.String("word_id", ex.PrimaryWordID().String()))
	} else {
		reviewed, err := s.srs.Review(word, eval.Quality, now)
		if err != nil {
			return nil, NewServiceError(op, "failed to schedule word review", err)
		}
		if err := s.words.UpdateSchedule(ctx, reviewed); err != nil {
			if !store.IsNotFoundError(err) {
				log.ErrorContext(ctx, "failed to save word review", slog.String("error", err.Error()))
				return nil, NewServiceError(op, "failed to save word review", err)
			}
			log.WarnContext(ctx, "primary word deleted during submission, skipping review",
				slog.String("word_id", word.ID.String()))
		} else {
			result.Word = reviewed
		}
	}

	// (c) record the completion on the user's progress; on failure the
	// completed exercise and the new schedule are kept
	score, quality := eval.Score, eval.Quality
	completion, err := s.progress.RecordCompletion(ctx, userID, string(ex.Type), &score, &quality)
	if err != nil {
		log.ErrorContext(ctx, "failed to record completion", slog.String("error", err.Error()))
		return nil, NewServiceError(op, "failed to update progress", err)
	}
	result.Progress = completion.Progress
	result.XPEarned = completion.XPEarned
	result.NewLevel = completion.NewLevel
	result.LeveledUp = completion.LeveledUp
	result.RewardEarned = completion.RewardEarned

	// (d) publish
	emit(ctx, s.emitter, log, domain.ActivityCompleteExercise, userID,
		fmt.Sprintf("Đã hoàn thành bài tập %s", ex.Type),
		map[string]any{
			"exercise_type": ex.Type,
			"is_correct":    eval.IsCorrect,
			"score":         eval.Score,
			"quality":       eval.Quality,
			"xp_earned":     completion.XPEarned,
			"degraded":      eval.Degraded,
		},
		&related{id: ex.ID, typ: "exercise"}, now)

	log.InfoContext(ctx, "exercise completed",
		slog.String("exercise_type", string(ex.Type)),
		slog.Bool("is_correct", eval.IsCorrect),
		slog.Int("score", eval.Score),
		slog.Int("xp_earned", completion.XPEarned))
	return result, nil
}

// primaryWord loads the word an exercise reschedules. A missing or foreign
// word yields nil.
func (s *exerciseServiceImpl) primaryWord(
	ctx context.Context,
	userID uuid.UUID,
	ex *domain.Exercise,
) (*domain.Word, error) {
	word, err := s.words.GetByID(ctx, ex.PrimaryWordID())
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, NewServiceError("submit_answer", "failed to load word", err)
	}
	if word.UserID != userID {
		return nil, nil
	}
	return word, nil
}

// GetExercise implements ExerciseService.GetExercise.
func (s *exerciseServiceImpl) GetExercise(
	ctx context.Context,
	userID, exerciseID uuid.UUID,
) (*domain.Exercise, error) {
	ex, err := s.exercises.GetByID(ctx, exerciseID)
	if err != nil {
		return nil, storeFailure("get_exercise", "exercise", err)
	}
	if ex.UserID != userID {
		logger.FromContextOrDefault(ctx, s.logger).WarnContext(ctx, "user does not own exercise",
			slog.String("user_id", userID.String()),
			slog.String("exercise_id", exerciseID.String()))
		return nil, notFound("get_exercise", "exercise")
	}
	return ex, nil
}

// ListExercises implements ExerciseService.ListExercises.
func (s *exerciseServiceImpl) ListExercises(
	ctx context.Context,
	userID uuid.UUID,
	completed *bool,
	limit int,
) ([]*domain.Exercise, error) {
	if limit < 0 {
		return nil, domain.NewValidationError("limit", "cannot be negative", nil)
	}
	exercises, err := s.exercises.ListByUser(ctx, userID, store.ExerciseFilter{Completed: completed, Limit: limit})
	if err != nil {
		return nil, NewServiceError("list_exercises", "failed to list exercises", err)
	}
	return exercises, nil
}
