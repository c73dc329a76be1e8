package gamification

import "github.com/phrazzld/lexi-api/internal/domain"

// Milestone is a one-off reward for reaching a streak length.
type Milestone struct {
	Days int `json:"days"`
	Beta int `json:"beta"`
}

// Params defines the tunable rules of the progression engine.
type Params struct {
	// LevelThresholds[i] is the XP needed to reach level i+1. Must be ascending
	// and start at 0.
	LevelThresholds []int

	// StreakMilestones are matched by exact equality against the streak.
	StreakMilestones []Milestone

	// XP award rules
	BaseXP             int
	QualityMultiplier  int
	FreeTextBonus      int
	FreeTextBonusScore int
	PerfectRecallBonus int
	MinimumXP          int

	// Daily check-in rewards
	CheckInXP   int
	CheckInBeta int
}

// NewDefaultParams returns the standard progression rules.
func NewDefaultParams() *Params {
	return &Params{
		LevelThresholds: []int{0, 100, 300, 600, 1000, 1500, 2500, 4000, 6000, 9000},
		StreakMilestones: []Milestone{
			{Days: 10, Beta: 5},
			{Days: 18, Beta: 10},
			{Days: 24, Beta: 15},
			{Days: 33, Beta: 20},
		},

		BaseXP:             10,
		QualityMultiplier:  2,
		FreeTextBonus:      5,
		FreeTextBonusScore: 80,
		PerfectRecallBonus: 3,
		MinimumXP:          1,

		CheckInXP:   10,
		CheckInBeta: 1,
	}
}

// freeTextKinds earn the bonus for a high oracle score.
var freeTextKinds = map[string]bool{
	string(domain.ExerciseSentenceConstruction):  true,
	string(domain.ExercisePronunciationPractice): true,
}
