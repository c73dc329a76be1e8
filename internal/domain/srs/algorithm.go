package srs

import (
	"math"
	"time"
)

// Schedule is the outcome of a single review.
type Schedule struct {
	Repetitions  int
	EaseFactor   float64
	Interval     int // days
	NextReviewAt time.Time
}

// calculateNewEaseFactor determines the new ease factor from a review quality.
//
// Successful recalls adjust the ease factor by the per-quality amount in
// params (quality 3 lowers it, 4 keeps it, 5 raises it). Failed recalls lower
// it by params.LapseEasePenalty. The result never falls below
// params.MinEaseFactor.
func calculateNewEaseFactor(currentEF float64, quality int, params *Params) float64 {
	var newEF float64
	if quality >= params.PassingQuality {
		newEF = currentEF + params.EaseFactorAdjustment[quality]
	} else {
		newEF = currentEF - params.LapseEasePenalty
	}

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}
	return newEF
}

// calculateNewRepetitions counts consecutive successful recalls. A failed
// recall resets the count.
func calculateNewRepetitions(repetitions int, quality int, params *Params) int {
	if quality < params.PassingQuality {
		return 0
	}
	return repetitions + 1
}

// calculateNewInterval determines the number of days until the next review.
//
// Parameters:
//   - prevRepetitions: the repetition count before this review
//   - newRepetitions: the repetition count after this review
//   - newEF: the ease factor after this review
//   - quality: the review quality
//   - params: configuration parameters for the SRS algorithm
//
// Algorithm behavior:
//   - Failed recall: params.LapseInterval
//   - First successful repetition: params.FirstInterval
//   - Second successful repetition: params.SecondInterval
//   - Later repetitions: round(prevRepetitions * newEF). The multiplier is the
//     count before incrementing, which existing schedules depend on.
func calculateNewInterval(prevRepetitions, newRepetitions int, newEF float64, quality int, params *Params) int {
	if quality < params.PassingQuality {
		return params.LapseInterval
	}

	switch newRepetitions {
	case 1:
		return params.FirstInterval
	case 2:
		return params.SecondInterval
	default:
		return int(math.Round(float64(prevRepetitions) * newEF))
	}
}

// calculateNextReviewDate adds interval calendar days to base. Calendar
// arithmetic keeps the time of day across daylight-saving changes.
func calculateNextReviewDate(base time.Time, interval int) time.Time {
	return base.AddDate(0, 0, interval)
}

// calculateSchedule is the pure scheduling function. quality must already be
// validated against params.
func calculateSchedule(
	quality int,
	repetitions int,
	easeFactor float64,
	base time.Time,
	params *Params,
) Schedule {
	newEF := calculateNewEaseFactor(easeFactor, quality, params)
	newReps := calculateNewRepetitions(repetitions, quality, params)
	interval := calculateNewInterval(repetitions, newReps, newEF, quality, params)

	return Schedule{
		Repetitions:  newReps,
		EaseFactor:   newEF,
		Interval:     interval,
		NextReviewAt: calculateNextReviewDate(base, interval),
	}
}
