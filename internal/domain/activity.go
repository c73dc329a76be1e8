package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityKind classifies an activity log entry.
type ActivityKind string

// Activity kinds recorded by the engine.
const (
	ActivityAddWord          ActivityKind = "add_word"
	ActivityUpdateWord       ActivityKind = "update_word"
	ActivityDeleteWord       ActivityKind = "delete_word"
	ActivityReviewWord       ActivityKind = "review_word"
	ActivityGenerateExercise ActivityKind = "generate_exercise"
	ActivityCompleteExercise ActivityKind = "complete_exercise"
	ActivityDailyCheckIn     ActivityKind = "daily_check_in"
	ActivityLevelUp          ActivityKind = "level_up"
	ActivityStreakReward     ActivityKind = "streak_reward"
)

// Activity is one entry of a user's activity log.
type Activity struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"user_id"`
	Kind        ActivityKind   `json:"kind"`
	Description string         `json:"description"`
	RelatedID   *uuid.UUID     `json:"related_id,omitempty"`
	RelatedType string         `json:"related_type,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// NewActivity creates an activity entry.
func NewActivity(userID uuid.UUID, kind ActivityKind, description string, now time.Time) (*Activity, error) {
	a := &Activity{
		ID:          uuid.New(),
		UserID:      userID,
		Kind:        kind,
		Description: description,
		CreatedAt:   now.UTC(),
	}
	if a.UserID == uuid.Nil {
		return nil, NewValidationError("user_id", "cannot be empty", ErrInvalidID)
	}
	if a.Kind == "" {
		return nil, NewValidationError("kind", "cannot be empty", nil)
	}
	return a, nil
}

// WithRelated attaches the entity the activity is about.
func (a *Activity) WithRelated(id uuid.UUID, relatedType string) *Activity {
	a.RelatedID = &id
	a.RelatedType = relatedType
	return a
}
