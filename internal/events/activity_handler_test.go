package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
	"github.com/phrazzld/lexi-api/internal/events"
	"github.com/phrazzld/lexi-api/internal/platform/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingActivityStore struct{}

func (failingActivityStore) Create(context.Context, *domain.Activity) error {
	return errors.New("disk full")
}

func (failingActivityStore) ListByUser(context.Context, uuid.UUID, int) ([]*domain.Activity, error) {
	return nil, nil
}

func TestActivityLogHandler_RecordsEvent(t *testing.T) {
	t.Parallel()

	activities := memory.NewDB().Activities()
	emitter := events.NewInMemoryEventEmitter(nil)
	emitter.RegisterHandler(events.NewActivityLogHandler(activities, nil))

	userID := uuid.New()
	exerciseID := uuid.New()
	event, err := events.NewActivityEvent(domain.ActivityCompleteExercise, userID,
		"Completed multiple_choice exercise", map[string]any{"score": 100, "is_correct": true},
		time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	event.WithRelated(exerciseID, "exercise")

	require.NoError(t, emitter.EmitEvent(context.Background(), event))

	got, err := activities.ListByUser(context.Background(), userID, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)

	a := got[0]
	assert.Equal(t, event.ID, a.ID)
	assert.Equal(t, domain.ActivityCompleteExercise, a.Kind)
	assert.Equal(t, "Completed multiple_choice exercise", a.Description)
	require.NotNil(t, a.RelatedID)
	assert.Equal(t, exerciseID, *a.RelatedID)
	assert.Equal(t, "exercise", a.RelatedType)
	assert.Equal(t, float64(100), a.Details["score"])
	assert.Equal(t, true, a.Details["is_correct"])
}

func TestActivityLogHandler_Errors(t *testing.T) {
	t.Parallel()

	t.Run("invalid event", func(t *testing.T) {
		t.Parallel()
		h := events.NewActivityLogHandler(memory.NewDB().Activities(), nil)
		err := h.HandleEvent(context.Background(), &events.ActivityEvent{Kind: domain.ActivityAddWord})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("payload is not an object", func(t *testing.T) {
		t.Parallel()
		h := events.NewActivityLogHandler(memory.NewDB().Activities(), nil)
		err := h.HandleEvent(context.Background(), &events.ActivityEvent{
			ID:      uuid.New(),
			Kind:    domain.ActivityAddWord,
			UserID:  uuid.New(),
			Payload: json.RawMessage(`[1]`),
		})
		assert.Error(t, err)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		h := events.NewActivityLogHandler(failingActivityStore{}, nil)
		event, err := events.NewActivityEvent(domain.ActivityAddWord, uuid.New(), "Added word", nil, time.Now())
		require.NoError(t, err)

		err = h.HandleEvent(context.Background(), event)
		assert.ErrorContains(t, err, "failed to record add_word activity")
	})
}
