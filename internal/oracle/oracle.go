// Package oracle defines the port to the external content oracle, an AI
// service that produces plausible wrong answers for exercises and grades
// free-text answers. The port is consumed by the exercise package; adapters
// live under internal/platform.
package oracle

import (
	"context"
	"math"
)

// DistractorKind selects what kind of wrong answers to produce.
type DistractorKind string

const (
	// DistractorDefinitions asks for incorrect Vietnamese definitions.
	DistractorDefinitions DistractorKind = "definitions"
	// DistractorImageConcepts asks for short descriptions of incorrect images.
	DistractorImageConcepts DistractorKind = "image_concepts"
)

// FreeTextKind selects the grading rubric for a free-text answer.
type FreeTextKind string

const (
	// FreeTextSentence grades an English sentence using the target word.
	FreeTextSentence FreeTextKind = "sentence"
	// FreeTextPronunciation grades a transcription of the user's speech.
	FreeTextPronunciation FreeTextKind = "pronunciation"
)

// DistractorRequest describes the wrong answers to generate for a word.
type DistractorRequest struct {
	Word       string
	Definition string
	Kind       DistractorKind
	Count      int
}

// FreeTextRequest describes a free-text answer to grade. TargetContext is the
// word's English definition for sentences and its phonetic transcription for
// pronunciation.
type FreeTextRequest struct {
	Kind          FreeTextKind
	UserText      string
	TargetWord    string
	TargetContext string
}

// Score is a graded answer. Score is always within 0-100.
type Score struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// Oracle generates exercise content and grades free-text answers.
//
// Implementations return *Error for every failure so callers can tell
// transient failures from fatal ones.
type Oracle interface {
	// GenerateDistractors returns up to req.Count plausible but incorrect
	// answers. Fewer may be returned.
	GenerateDistractors(ctx context.Context, req DistractorRequest) ([]string, error)

	// ScoreFreeText grades a free-text answer.
	ScoreFreeText(ctx context.Context, req FreeTextRequest) (Score, error)
}

// NormalizeScore rounds a raw oracle score and clamps it to 0-100.
func NormalizeScore(raw float64) int {
	if math.IsNaN(raw) {
		return 0
	}
	return int(math.Max(0, math.Min(100, math.Round(raw))))
}

// Unavailable is an Oracle that always fails. It stands in when no oracle
// is configured so exercise generation falls back to fixed content.
type Unavailable struct{}

var _ Oracle = Unavailable{}

// GenerateDistractors always fails with ErrNotConfigured.
func (Unavailable) GenerateDistractors(context.Context, DistractorRequest) ([]string, error) {
	return nil, NewFatal("generate_distractors", ErrNotConfigured)
}

// ScoreFreeText always fails with ErrNotConfigured.
func (Unavailable) ScoreFreeText(context.Context, FreeTextRequest) (Score, error) {
	return Score{}, NewFatal("score_free_text", ErrNotConfigured)
}
