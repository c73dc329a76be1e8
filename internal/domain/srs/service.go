package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/lexi-api/internal/domain"
)

// Common errors
var (
	ErrNilWord        = errors.New("word cannot be nil")
	ErrInvalidQuality = errors.New("invalid review quality")
)

// Service defines the interface for SRS algorithm operations
type Service interface {
	// Schedule computes the next review for a word in the given state.
	// base is the last review time, or the time the word was added.
	// Returns a validation error if quality is out of range.
	Schedule(quality int, repetitions int, easeFactor float64, base time.Time) (Schedule, error)

	// Review returns a copy of word updated for a review of the given quality
	// performed at now. The original word is not modified.
	Review(word *domain.Word, quality int, now time.Time) (*domain.Word, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// Schedule implements Service.Schedule
func (s *defaultService) Schedule(
	quality int,
	repetitions int,
	easeFactor float64,
	base time.Time,
) (Schedule, error) {
	if err := s.validateQuality(quality); err != nil {
		return Schedule{}, err
	}
	return calculateSchedule(quality, repetitions, easeFactor, base, s.params), nil
}

// Review implements Service.Review
func (s *defaultService) Review(word *domain.Word, quality int, now time.Time) (*domain.Word, error) {
	if word == nil {
		return nil, ErrNilWord
	}
	if err := s.validateQuality(quality); err != nil {
		return nil, err
	}

	next := calculateSchedule(quality, word.Repetitions, word.EaseFactor, word.ReviewBase(), s.params)

	reviewedAt := now.UTC()
	updated := *word
	updated.Repetitions = next.Repetitions
	updated.EaseFactor = next.EaseFactor
	updated.NextReviewAt = next.NextReviewAt
	updated.LastReviewedAt = &reviewedAt

	return &updated, nil
}

func (s *defaultService) validateQuality(quality int) error {
	if !s.params.ValidQuality(quality) {
		return domain.NewValidationError(
			"quality",
			fmt.Sprintf("must be between %d and %d", s.params.MinQuality, s.params.MaxQuality),
			ErrInvalidQuality,
		)
	}
	return nil
}
