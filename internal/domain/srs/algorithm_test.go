package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateNewEaseFactor(t *testing.T) {
	t.Parallel() // Enable parallel execution
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		ef       float64
		quality  int
		expected float64
	}{
		{name: "quality 5 raises ease", ef: 2.5, quality: 5, expected: 2.6},
		{name: "quality 4 keeps ease", ef: 2.5, quality: 4, expected: 2.5},
		{name: "quality 3 lowers ease", ef: 2.5, quality: 3, expected: 2.35},
		{name: "quality 3 respects floor", ef: 1.35, quality: 3, expected: 1.3},
		{name: "lapse lowers ease by 0.2", ef: 2.5, quality: 2, expected: 2.3},
		{name: "lapse respects floor", ef: 1.4, quality: 0, expected: 1.3},
		{name: "already at floor", ef: 1.3, quality: 1, expected: 1.3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tc.expected, calculateNewEaseFactor(tc.ef, tc.quality, params), 1e-9)
		})
	}
}

func TestCalculateNewInterval(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		prevReps int
		newReps  int
		ef       float64
		quality  int
		expected int
	}{
		{name: "lapse resets to one day", prevReps: 7, newReps: 0, ef: 2.5, quality: 2, expected: 1},
		{name: "first repetition", prevReps: 0, newReps: 1, ef: 2.6, quality: 5, expected: 1},
		{name: "second repetition", prevReps: 1, newReps: 2, ef: 2.5, quality: 4, expected: 6},
		{name: "third repetition uses pre-increment count", prevReps: 2, newReps: 3, ef: 2.5, quality: 4, expected: 5},
		{name: "rounds half up", prevReps: 3, newReps: 4, ef: 2.5, quality: 4, expected: 8}, // 7.5
		{name: "rounds down", prevReps: 4, newReps: 5, ef: 1.3, quality: 3, expected: 5},  // 5.2
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := calculateNewInterval(tc.prevReps, tc.newReps, tc.ef, tc.quality, params)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestCalculateNextReviewDate_CalendarDays(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("time zone data not available")
	}

	// The day before the spring-forward transition
	base := time.Date(2025, 3, 8, 9, 30, 0, 0, loc)
	next := calculateNextReviewDate(base, 1)

	assert.Equal(t, time.Date(2025, 3, 9, 9, 30, 0, 0, loc), next)
	assert.Equal(t, 23*time.Hour, next.Sub(base), "calendar arithmetic, not elapsed time")
}

func TestCalculateSchedule_FailedRecallAlwaysResets(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	for quality := 0; quality <= 2; quality++ {
		for _, reps := range []int{0, 1, 2, 5, 30} {
			for _, ef := range []float64{1.3, 2.0, 2.5, 3.1} {
				s := calculateSchedule(quality, reps, ef, base, params)
				assert.Equal(t, 0, s.Repetitions)
				assert.Equal(t, 1, s.Interval)
				assert.Equal(t, base.AddDate(0, 0, 1), s.NextReviewAt)
			}
		}
	}
}

func TestCalculateSchedule_FirstSuccessIsOneDay(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	for quality := 3; quality <= 5; quality++ {
		s := calculateSchedule(quality, 0, 2.5, base, params)
		assert.Equal(t, 1, s.Repetitions)
		assert.Equal(t, 1, s.Interval)
	}
}

func TestCalculateSchedule_EaseFactorFloor(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()
	base := time.Now()

	sequences := [][]int{
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3},
		{5, 0, 3, 1, 3, 2, 3, 0, 4, 3, 3, 1},
	}

	for _, seq := range sequences {
		reps, ef := 0, 2.5
		for _, q := range seq {
			s := calculateSchedule(q, reps, ef, base, params)
			reps, ef = s.Repetitions, s.EaseFactor
			assert.GreaterOrEqual(t, ef, params.MinEaseFactor)
		}
	}
}
