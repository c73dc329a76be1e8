// Package gamification computes experience, levels, streaks and streak rewards.
//
// All rules are pure transitions of a domain.Progress value: given a state, an
// event and the current time, Apply returns the next state and what was earned.
// Storage is the caller's concern.
package gamification

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/phrazzld/lexi-api/internal/domain"
)

// ErrUnknownEvent is returned by Apply for an unsupported event type.
var ErrUnknownEvent = errors.New("unknown progress event")

// Event is something that changes a user's progress.
type Event interface {
	isEvent()
}

// Completion is a finished learning activity, usually an exercise.
// Kind is the exercise type or another activity name. Score is 0-100 and
// Quality is 0-5; either may be absent.
type Completion struct {
	Kind    string
	Score   *int
	Quality *int
}

// CheckIn is the once-per-day check-in.
type CheckIn struct{}

func (Completion) isEvent() {}
func (CheckIn) isEvent()    {}

// Outcome is the result of applying an event.
type Outcome struct {
	Progress      domain.Progress
	XPEarned      int
	BetaEarned    int
	PreviousLevel int
	NewLevel      int
	LeveledUp     bool
	// StreakReward is the milestone bonus granted by this event, if any.
	StreakReward *Milestone
}

// Engine applies progression rules in a fixed time zone.
type Engine struct {
	params *Params
	loc    *time.Location
}

// NewEngine creates an engine. A nil params uses the defaults and a nil
// location uses UTC.
func NewEngine(params *Params, loc *time.Location) *Engine {
	if params == nil {
		params = NewDefaultParams()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{params: params, loc: loc}
}

// Params returns the rules the engine applies.
func (e *Engine) Params() *Params {
	return e.params
}

// Apply transitions state by event at time now. The input state is not modified.
func (e *Engine) Apply(state domain.Progress, event Event, now time.Time) (Outcome, error) {
	today := e.Today(now)
	next := state.Clone()
	prevLevel := e.CalculateLevel(state.XP)

	out := Outcome{PreviousLevel: prevLevel}

	switch ev := event.(type) {
	case Completion:
		if err := validateCompletion(ev); err != nil {
			return Outcome{}, err
		}
		out.XPEarned = e.CalculateXP(ev.Kind, ev.Score, ev.Quality)
		next.XP += out.XPEarned

		next.Streak = e.nextStreak(state, today)
		next.LastActivityDate = &today

		if m, ok := e.milestoneFor(next.Streak); ok {
			next.BetaRewards += m.Beta
			out.BetaEarned += m.Beta
			out.StreakReward = &m
		}

	case CheckIn:
		if e.CheckedInOn(state, now) {
			return Outcome{}, domain.ErrAlreadyCheckedIn
		}
		out.XPEarned = e.params.CheckInXP
		out.BetaEarned = e.params.CheckInBeta
		next.XP += out.XPEarned
		next.BetaRewards += out.BetaEarned
		next.LastCheckInDate = &today

	default:
		return Outcome{}, ErrUnknownEvent
	}

	next.Level = e.CalculateLevel(next.XP)
	next.UpdatedAt = now.UTC()

	out.Progress = next
	out.NewLevel = next.Level
	out.LeveledUp = next.Level > prevLevel
	return out, nil
}

// CalculateXP returns the experience awarded for a completion.
//
// The award is BaseXP plus floor(score/10) when a score is present, otherwise
// QualityMultiplier*quality when a quality is present. Free-text kinds scoring
// at least FreeTextBonusScore earn FreeTextBonus, and a perfect quality earns
// PerfectRecallBonus. The result is never below MinimumXP.
func (e *Engine) CalculateXP(kind string, score, quality *int) int {
	p := e.params
	xp := p.BaseXP

	switch {
	case score != nil:
		xp += int(math.Floor(float64(*score) / 10))
	case quality != nil:
		xp += p.QualityMultiplier * *quality
	}

	if freeTextKinds[kind] && score != nil && *score >= p.FreeTextBonusScore {
		xp += p.FreeTextBonus
	}
	if quality != nil && *quality == 5 {
		xp += p.PerfectRecallBonus
	}

	if xp < p.MinimumXP {
		return p.MinimumXP
	}
	return xp
}

// CalculateLevel returns the level for an XP total: one more than the highest
// index whose threshold xp has reached.
func (e *Engine) CalculateLevel(xp int) int {
	thresholds := e.params.LevelThresholds
	for i := len(thresholds) - 1; i >= 0; i-- {
		if xp >= thresholds[i] {
			return i + 1
		}
	}
	return 1
}

// NextLevelThreshold returns the XP needed for the level after level. ok is
// false at the maximum level.
func (e *Engine) NextLevelThreshold(level int) (threshold int, ok bool) {
	if level < 1 || level >= len(e.params.LevelThresholds) {
		return 0, false
	}
	return e.params.LevelThresholds[level], true
}

// UpcomingMilestones lists the milestones longer than streak, shortest first.
func (e *Engine) UpcomingMilestones(streak int) []Milestone {
	var upcoming []Milestone
	for _, m := range e.params.StreakMilestones {
		if m.Days > streak {
			upcoming = append(upcoming, m)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].Days < upcoming[j].Days })
	return upcoming
}

// CheckedInOn reports whether the user has already checked in on now's day.
func (e *Engine) CheckedInOn(state domain.Progress, now time.Time) bool {
	if state.LastCheckInDate == nil {
		return false
	}
	return asDay(*state.LastCheckInDate).Equal(e.Today(now))
}

// Today returns the calendar day of now in the engine's time zone, as
// midnight UTC of that day.
func (e *Engine) Today(now time.Time) time.Time {
	y, m, d := now.In(e.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// nextStreak compares the last activity day to today: same day keeps the
// streak, the day before extends it, anything else starts a new one.
func (e *Engine) nextStreak(state domain.Progress, today time.Time) int {
	if state.LastActivityDate == nil {
		return 1
	}
	last := asDay(*state.LastActivityDate)

	switch {
	case last.Equal(today):
		if state.Streak < 1 {
			return 1
		}
		return state.Streak
	case last.Equal(today.AddDate(0, 0, -1)):
		return state.Streak + 1
	default:
		return 1
	}
}

func (e *Engine) milestoneFor(streak int) (Milestone, bool) {
	for _, m := range e.params.StreakMilestones {
		if m.Days == streak {
			return m, true
		}
	}
	return Milestone{}, false
}

func validateCompletion(c Completion) error {
	if c.Score != nil && (*c.Score < 0 || *c.Score > 100) {
		return domain.NewValidationError("score", "must be between 0 and 100", nil)
	}
	if c.Quality != nil && (*c.Quality < 0 || *c.Quality > 5) {
		return domain.NewValidationError("quality", "must be between 0 and 5", nil)
	}
	return nil
}

// asDay normalizes a stored calendar date to midnight UTC.
func asDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var defaultEngine = NewEngine(nil, nil)

// CalculateLevel returns the level for xp under the default thresholds.
func CalculateLevel(xp int) int {
	return defaultEngine.CalculateLevel(xp)
}
