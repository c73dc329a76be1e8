package domain

import (
	"time"

	"github.com/google/uuid"
)

// Progress is a user's gamified learning state.
//
// Level is always derived from XP by the gamification engine. Dates are
// calendar days, stored as midnight UTC of the day they denote.
type Progress struct {
	UserID           uuid.UUID  `json:"user_id"`
	XP               int        `json:"xp"`
	Level            int        `json:"level"`
	Streak           int        `json:"streak"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty"`
	LastCheckInDate  *time.Time `json:"last_check_in_date,omitempty"`
	BetaRewards      int        `json:"beta_rewards"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// NewProgress returns the starting state for a user with no recorded activity.
func NewProgress(userID uuid.UUID) *Progress {
	return &Progress{
		UserID: userID,
		Level:  1,
	}
}

// Clone returns a deep copy of p.
func (p Progress) Clone() Progress {
	c := p
	if p.LastActivityDate != nil {
		d := *p.LastActivityDate
		c.LastActivityDate = &d
	}
	if p.LastCheckInDate != nil {
		d := *p.LastCheckInDate
		c.LastCheckInDate = &d
	}
	return c
}
