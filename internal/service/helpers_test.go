package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
	"github.com/phrazzld/lexi-api/internal/domain/gamification"
	"github.com/phrazzld/lexi-api/internal/domain/srs"
	"github.com/phrazzld/lexi-api/internal/enrich"
	"github.com/phrazzld/lexi-api/internal/events"
	"github.com/phrazzld/lexi-api/internal/exercise"
	"github.com/phrazzld/lexi-api/internal/mocks"
	"github.com/phrazzld/lexi-api/internal/oracle"
	"github.com/phrazzld/lexi-api/internal/platform/memory"
	"github.com/phrazzld/lexi-api/internal/service"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

// testClock is a settable clock.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// harness wires the three services over one in-memory database.
type harness struct {
	db        *memory.DB
	clock     *testClock
	oracle    *mocks.MockOracle
	vocab     service.VocabularyService
	exercises service.ExerciseService
	progress  service.ProgressService
}

type harnessOption func(*harnessConfig)

type harnessConfig struct {
	enricher      enrich.Enricher
	exerciseTypes []domain.ExerciseType
}

func withEnricher(e enrich.Enricher) harnessOption {
	return func(c *harnessConfig) { c.enricher = e }
}

// withExerciseTypes limits generation to types. Every type can still be
// scored.
func withExerciseTypes(types ...domain.ExerciseType) harnessOption {
	return func(c *harnessConfig) { c.exerciseTypes = types }
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()

	var cfg harnessConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	db := memory.NewDB()
	clock := &testClock{now: fixedNow}
	o := &mocks.MockOracle{
		Distractors: []string{"nghĩa sai một", "nghĩa sai hai", "nghĩa sai ba"},
		Score:       oracle.Score{Score: 80, Feedback: "Câu rất tự nhiên."},
	}

	emitter := events.NewInMemoryEventEmitter(nil)
	emitter.RegisterHandler(events.NewActivityLogHandler(db.Activities(), nil))

	generator := exercise.NewGenerator(exercise.NewRegistry(cfg.exerciseTypes...), o, exercise.NewRand(42), nil)
	evaluator := exercise.NewEvaluator(exercise.NewRegistry(), o, nil)
	srsService := srs.NewDefaultService()
	engine := gamification.NewEngine(nil, time.UTC)

	progress := service.NewProgressService(db.Progress(), db.Words(), db.Activities(), engine, emitter, clock.Now, nil)
	vocab := service.NewVocabularyService(db.Words(), srsService, cfg.enricher, emitter, clock.Now, nil)
	exercises := service.NewExerciseService(db.Words(), db.Exercises(), generator, evaluator, srsService,
		progress, emitter, service.ExerciseLimits{}, clock.Now, nil)

	h := &harness{
		db:        db,
		clock:     clock,
		oracle:    o,
		vocab:     vocab,
		exercises: exercises,
		progress:  progress,
	}
	return h
}

// addWord adds a word with every optional field filled, one second after
// the previous one so listing order is deterministic.
func (h *harness) addWord(t *testing.T, userID uuid.UUID, text string) *domain.Word {
	t.Helper()
	h.clock.Advance(time.Second)
	w, err := h.vocab.AddWord(context.Background(), userID, service.WordInput{
		Word:                 text,
		Translation:          "bản dịch " + text,
		Phonetic:             "/" + text + "/",
		AudioURL:             "https://audio.example.com/" + text + ".mp3",
		EnglishDefinition:    "the meaning of " + text,
		Example:              fmt.Sprintf("I wrote %s on the board.", text),
		VietnameseDefinition: "nghĩa của " + text,
	})
	require.NoError(t, err)
	return w
}

// storeExercise saves a pending exercise with the given stored answer.
func (h *harness) storeExercise(
	t *testing.T,
	userID uuid.UUID,
	typ domain.ExerciseType,
	answer any,
	wordIDs ...uuid.UUID,
) *domain.Exercise {
	t.Helper()
	var raw json.RawMessage
	if answer != nil {
		b, err := json.Marshal(answer)
		require.NoError(t, err)
		raw = b
	}
	ex, err := domain.NewExercise(userID, wordIDs, typ, json.RawMessage(`"question"`), nil, raw, h.clock.now)
	require.NoError(t, err)
	require.NoError(t, h.db.Exercises().Create(context.Background(), ex))
	return ex
}

func (h *harness) activityKinds(t *testing.T, userID uuid.UUID) []domain.ActivityKind {
	t.Helper()
	activities, err := h.db.Activities().ListByUser(context.Background(), userID, 0)
	require.NoError(t, err)
	kinds := make([]domain.ActivityKind, 0, len(activities))
	for _, a := range activities {
		kinds = append(kinds, a.Kind)
	}
	return kinds
}

func countKind(kinds []domain.ActivityKind, kind domain.ActivityKind) int {
	n := 0
	for _, k := range kinds {
		if k == kind {
			n++
		}
	}
	return n
}
