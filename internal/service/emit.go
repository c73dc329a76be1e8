package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
	"github.com/phrazzld/lexi-api/internal/events"
)

// related identifies the entity an activity is about.
type related struct {
	id  uuid.UUID
	typ string
}

// emit publishes an activity event. Failures are logged only.
func emit(
	ctx context.Context,
	emitter events.EventEmitter,
	log *slog.Logger,
	kind domain.ActivityKind,
	userID uuid.UUID,
	description string,
	payload any,
	about *related,
	now time.Time,
) {
	event, err := events.NewActivityEvent(kind, userID, description, payload, now)
	if err != nil {
		log.ErrorContext(ctx, "failed to build activity event",
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()))
		return
	}
	if about != nil {
		event.WithRelated(about.id, about.typ)
	}
	if err := emitter.EmitEvent(ctx, event); err != nil {
		log.WarnContext(ctx, "failed to emit activity event",
			slog.String("kind", string(kind)),
			slog.String("event_id", event.ID.String()),
			slog.String("error", err.Error()))
	}
}
