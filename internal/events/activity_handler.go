package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/lexi-api/internal/domain"
	"github.com/phrazzld/lexi-api/internal/platform/logger"
	"github.com/phrazzld/lexi-api/internal/store"
)

// ActivityLogHandler writes every event to the activity log.
type ActivityLogHandler struct {
	activities store.ActivityStore
	logger     *slog.Logger
}

var _ EventHandler = (*ActivityLogHandler)(nil)

// NewActivityLogHandler creates a handler persisting events to activities.
func NewActivityLogHandler(activities store.ActivityStore, log *slog.Logger) *ActivityLogHandler {
	if activities == nil {
		panic("activity store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ActivityLogHandler{
		activities: activities,
		logger:     log.With(slog.String("component", "activity_log_handler")),
	}
}

// HandleEvent converts event into a domain.Activity and stores it. The
// activity reuses the event ID.
func (h *ActivityLogHandler) HandleEvent(ctx context.Context, event *ActivityEvent) error {
	log := logger.FromContextOrDefault(ctx, h.logger)

	activity, err := domain.NewActivity(event.UserID, event.Kind, event.Description, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("invalid activity event: %w", err)
	}
	activity.ID = event.ID
	if event.RelatedID != nil {
		activity.WithRelated(*event.RelatedID, event.RelatedType)
	}
	if len(event.Payload) > 0 {
		details := make(map[string]any)
		if err := event.UnmarshalPayload(&details); err != nil {
			return fmt.Errorf("failed to decode payload of %s event: %w", event.Kind, err)
		}
		activity.Details = details
	}

	if err := h.activities.Create(ctx, activity); err != nil {
		return fmt.Errorf("failed to record %s activity: %w", event.Kind, err)
	}

	log.DebugContext(ctx, "recorded activity",
		slog.String("activity_id", activity.ID.String()),
		slog.String("kind", string(activity.Kind)),
		slog.String("user_id", activity.UserID.String()))
	return nil
}
