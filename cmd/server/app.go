package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/lexi-api/internal/config"
	"github.com/phrazzld/lexi-api/internal/domain/gamification"
	"github.com/phrazzld/lexi-api/internal/domain/srs"
	"github.com/phrazzld/lexi-api/internal/enrich"
	"github.com/phrazzld/lexi-api/internal/events"
	"github.com/phrazzld/lexi-api/internal/exercise"
	"github.com/phrazzld/lexi-api/internal/oracle"
	"github.com/phrazzld/lexi-api/internal/platform/gemini"
	"github.com/phrazzld/lexi-api/internal/platform/memory"
	"github.com/phrazzld/lexi-api/internal/platform/postgres"
	"github.com/phrazzld/lexi-api/internal/service"
	"github.com/phrazzld/lexi-api/internal/service/auth"
	"github.com/phrazzld/lexi-api/internal/store"
)

// stores groups the persistence ports the services depend on.
type stores struct {
	words      store.WordStore
	exercises  store.ExerciseStore
	progress   store.ProgressStore
	activities store.ActivityStore
}

func postgresStores(db *sql.DB, logger *slog.Logger) stores {
	return stores{
		words:      postgres.NewPostgresWordStore(db, logger),
		exercises:  postgres.NewPostgresExerciseStore(db, logger),
		progress:   postgres.NewPostgresProgressStore(db, logger),
		activities: postgres.NewPostgresActivityStore(db, logger),
	}
}

func memoryStores() stores {
	db := memory.NewDB()
	return stores{
		words:      db.Words(),
		exercises:  db.Exercises(),
		progress:   db.Progress(),
		activities: db.Activities(),
	}
}

// application holds the shared application dependencies.
type application struct {
	config *config.Config
	logger *slog.Logger

	vocabulary service.VocabularyService
	exercises  service.ExerciseService
	progress   service.ProgressService
	jwtService auth.JWTService
}

// newApplication creates the services on top of st.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, st stores) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	content, err := newContent(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Gamification.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone: %w", err)
	}
	engine := gamification.NewEngine(gamification.NewDefaultParams(), loc)
	srsService := srs.NewDefaultService()

	// Activity entries are written by an event handler so services never
	// write the log directly.
	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.NewActivityLogHandler(st.activities, logger))

	registry := exercise.NewRegistry()
	generator := exercise.NewGenerator(registry, content.oracle, exercise.NewRand(cfg.Exercise.RandomSeed), logger)
	evaluator := exercise.NewEvaluator(registry, content.oracle, logger)

	app.progress = service.NewProgressService(
		st.progress,
		st.words,
		st.activities,
		engine,
		emitter,
		nil,
		logger,
	)
	app.vocabulary = service.NewVocabularyService(
		st.words,
		srsService,
		content.enricher,
		emitter,
		nil,
		logger,
	)
	app.exercises = service.NewExerciseService(
		st.words,
		st.exercises,
		generator,
		evaluator,
		srsService,
		app.progress,
		emitter,
		service.ExerciseLimits{Default: cfg.Exercise.DefaultLimit, Max: cfg.Exercise.MaxLimit},
		nil,
		logger,
	)

	logger.Info("application initialized",
		"time_zone", loc.String(),
		"exercise_default_limit", cfg.Exercise.DefaultLimit,
		"exercise_max_limit", cfg.Exercise.MaxLimit)
	return app, nil
}

// content holds the oracle-backed collaborators. enricher is nil when words
// are stored as entered.
type content struct {
	oracle   oracle.Oracle
	enricher enrich.Enricher
}

// newContent builds the Gemini content oracle with retry and call spacing,
// and the word enricher when enabled. Without an API key the oracle is
// oracle.Unavailable, exercises fall back to fixed content and words are not
// enriched.
func newContent(ctx context.Context, cfg *config.Config, logger *slog.Logger) (content, error) {
	g, err := gemini.New(ctx, cfg.LLM, cfg.Oracle.CallTimeout, logger)
	if errors.Is(err, oracle.ErrNotConfigured) {
		logger.Warn("gemini API key not set, content oracle disabled")
		return content{oracle: oracle.Unavailable{}}, nil
	}
	if err != nil {
		return content{}, fmt.Errorf("failed to initialize content oracle: %w", err)
	}

	spaced := oracle.WithRateLimit(g, cfg.Oracle.MinInterval)
	policy := oracle.RetryPolicy{
		Attempts:  uint(cfg.Oracle.MaxAttempts),
		BaseDelay: cfg.Oracle.RetryBaseDelay,
	}
	logger.Info("content oracle initialized",
		"model", cfg.LLM.ModelName,
		"max_attempts", policy.Attempts,
		"min_interval", cfg.Oracle.MinInterval,
		"enrich_words", cfg.Oracle.EnrichWords)

	c := content{oracle: oracle.WithRetry(spaced, policy, logger)}
	if cfg.Oracle.EnrichWords {
		c.enricher = g
	}
	return c, nil
}

// Run serves HTTP until ctx is canceled.
func (app *application) Run(ctx context.Context) error {
	if err := app.serve(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
