package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
)

// ActivityEvent records something a user did or earned.
type ActivityEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Kind is the activity kind, e.g. "add_word" or "level_up"
	Kind domain.ActivityKind `json:"kind"`

	// UserID is the user the event belongs to
	UserID uuid.UUID `json:"user_id"`

	// Description is a short human-readable summary
	Description string `json:"description"`

	// RelatedID and RelatedType identify the entity the event is about, if any
	RelatedID   *uuid.UUID `json:"related_id,omitempty"`
	RelatedType string     `json:"related_type,omitempty"`

	// Payload contains kind-specific details serialized as JSON
	Payload json.RawMessage `json:"payload,omitempty"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewActivityEvent creates an ActivityEvent. payload may be nil.
func NewActivityEvent(
	kind domain.ActivityKind,
	userID uuid.UUID,
	description string,
	payload any,
	now time.Time,
) (*ActivityEvent, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = b
	}

	return &ActivityEvent{
		ID:          uuid.New(),
		Kind:        kind,
		UserID:      userID,
		Description: description,
		Payload:     raw,
		CreatedAt:   now.UTC(),
	}, nil
}

// WithRelated attaches the entity the event is about.
func (e *ActivityEvent) WithRelated(id uuid.UUID, relatedType string) *ActivityEvent {
	e.RelatedID = &id
	e.RelatedType = relatedType
	return e
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *ActivityEvent) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *ActivityEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *ActivityEvent) error
}
