package exercise

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
	"github.com/phrazzld/lexi-api/internal/oracle"
	"github.com/phrazzld/lexi-api/internal/platform/logger"
)

// Generator turns vocabulary words into exercises. It does not persist them.
type Generator struct {
	registry *Registry
	oracle   oracle.Oracle
	rand     Rand
	logger   *slog.Logger
}

// NewGenerator creates a Generator. A nil oracle behaves as oracle.Unavailable.
func NewGenerator(registry *Registry, o oracle.Oracle, rnd Rand, log *slog.Logger) *Generator {
	if registry == nil || len(registry.Types()) == 0 {
		panic("registry must have at least one exercise type")
	}
	if rnd == nil {
		panic("rand cannot be nil")
	}
	if o == nil {
		o = oracle.Unavailable{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Generator{
		registry: registry,
		oracle:   o,
		rand:     rnd,
		logger:   log.With(slog.String("component", "exercise_generator")),
	}
}

// Shuffle reorders words in place.
func (g *Generator) Shuffle(words []*domain.Word) {
	g.rand.Shuffle(len(words), func(i, j int) { words[i], words[j] = words[j], words[i] })
}

// PickType chooses an exercise type uniformly among the registered types.
func (g *Generator) PickType() domain.ExerciseType {
	types := g.registry.Types()
	return types[g.rand.Intn(len(types))]
}

// Build constructs an exercise of type typ for word. candidates is the
// generation batch. Errors wrapping ErrSkipped mean the word cannot support
// typ.
func (g *Generator) Build(
	ctx context.Context,
	userID uuid.UUID,
	typ domain.ExerciseType,
	word *domain.Word,
	candidates []*domain.Word,
	now time.Time,
) (*domain.Exercise, error) {
	kind, ok := g.registry.Lookup(typ)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, typ)
	}

	log := logger.FromContextOrDefault(ctx, g.logger)
	env := Env{Oracle: g.oracle, Rand: g.rand, Logger: log}

	built, err := kind.Build(ctx, env, BuildInput{Word: word, Candidates: candidates})
	if err != nil {
		return nil, err
	}

	encoded, err := built.Draft.encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s exercise: %w", typ, err)
	}

	wordIDs := built.WordIDs
	if len(wordIDs) == 0 {
		wordIDs = []uuid.UUID{word.ID}
	}

	ex, err := domain.NewExercise(userID, wordIDs, typ, encoded.question, encoded.options, encoded.answer, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s exercise: %w", typ, err)
	}

	log.DebugContext(ctx, "built exercise",
		slog.String("exercise_type", string(typ)),
		slog.String("word", word.Text),
		slog.Int("word_count", len(wordIDs)))
	return ex, nil
}
