package exercise

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/lexi-api/internal/domain"
	"github.com/phrazzld/lexi-api/internal/oracle"
	"github.com/phrazzld/lexi-api/internal/platform/logger"
)

// Evaluator scores submitted answers.
type Evaluator struct {
	registry *Registry
	oracle   oracle.Oracle
	logger   *slog.Logger
}

// NewEvaluator creates an Evaluator. A nil oracle behaves as oracle.Unavailable.
func NewEvaluator(registry *Registry, o oracle.Oracle, log *slog.Logger) *Evaluator {
	if registry == nil {
		panic("registry cannot be nil")
	}
	if o == nil {
		o = oracle.Unavailable{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Evaluator{
		registry: registry,
		oracle:   o,
		logger:   log.With(slog.String("component", "exercise_evaluator")),
	}
}

// Evaluate scores answer against ex. word is the exercise's primary word and
// may be nil. Evaluate never fails: scoring errors yield the Degrade verdict.
func (e *Evaluator) Evaluate(ctx context.Context, ex *domain.Exercise, word *domain.Word, answer string) Evaluation {
	log := logger.FromContextOrDefault(ctx, e.logger)

	kind, ok := e.registry.Lookup(ex.Type)
	if !ok {
		return Degrade(reject(fmt.Sprintf("unsupported exercise type %s", ex.Type), ErrUnknownType))
	}

	env := Env{Oracle: e.oracle, Logger: log}
	eval, err := kind.Score(ctx, env, ScoreInput{Exercise: ex, Word: word, Answer: answer})
	if err != nil {
		log.WarnContext(ctx, "failed to score exercise, applying zero score",
			slog.String("exercise_id", ex.ID.String()),
			slog.String("exercise_type", string(ex.Type)),
			slog.String("error", err.Error()))
		return Degrade(err)
	}
	return eval
}
