package api

import (
	"encoding/json"
	"strings"

	"github.com/phrazzld/lexi-api/internal/domain"
	"github.com/phrazzld/lexi-api/internal/service"
)

// AddWordRequest defines the payload for adding a word.
type AddWordRequest struct {
	Word                 string   `json:"word"                  validate:"required,max=100"`
	Translation          string   `json:"translation"           validate:"max=500"`
	WordType             string   `json:"word_type"             validate:"max=50"`
	Phonetic             string   `json:"phonetic"              validate:"max=100"`
	AudioURL             string   `json:"audio_url"             validate:"omitempty,url"`
	EnglishDefinition    string   `json:"english_definition"    validate:"max=2000"`
	Example              string   `json:"example"               validate:"max=2000"`
	Synonyms             []string `json:"synonyms"              validate:"max=50,dive,max=100"`
	Antonyms             []string `json:"antonyms"              validate:"max=50,dive,max=100"`
	VietnameseDefinition string   `json:"vietnamese_definition" validate:"max=2000"`
	VietnameseExample    string   `json:"vietnamese_example"    validate:"max=2000"`
	Difficulty           string   `json:"difficulty"            validate:"omitempty,oneof=easy medium hard unknown"`
	Notes                string   `json:"notes"                 validate:"max=2000"`
}

func (req *AddWordRequest) normalize() {
	req.Word = strings.TrimSpace(req.Word)
	req.Difficulty = strings.ToLower(strings.TrimSpace(req.Difficulty))
}

func (req AddWordRequest) toInput() service.WordInput {
	return service.WordInput{
		Word:                 req.Word,
		Translation:          req.Translation,
		WordType:             req.WordType,
		Phonetic:             req.Phonetic,
		AudioURL:             req.AudioURL,
		EnglishDefinition:    req.EnglishDefinition,
		Example:              req.Example,
		Synonyms:             req.Synonyms,
		Antonyms:             req.Antonyms,
		VietnameseDefinition: req.VietnameseDefinition,
		VietnameseExample:    req.VietnameseExample,
		Difficulty:           req.Difficulty,
		Notes:                req.Notes,
	}
}

// UpdateWordRequest defines the payload for editing a word. Omitted fields
// are left unchanged.
type UpdateWordRequest struct {
	Word                 *string   `json:"word"                  validate:"omitempty,min=1,max=100"`
	Translation          *string   `json:"translation"           validate:"omitempty,max=500"`
	WordType             *string   `json:"word_type"             validate:"omitempty,max=50"`
	Phonetic             *string   `json:"phonetic"              validate:"omitempty,max=100"`
	AudioURL             *string   `json:"audio_url"             validate:"omitempty,max=2000"`
	EnglishDefinition    *string   `json:"english_definition"    validate:"omitempty,max=2000"`
	Example              *string   `json:"example"               validate:"omitempty,max=2000"`
	Synonyms             *[]string `json:"synonyms"              validate:"omitempty,max=50,dive,max=100"`
	Antonyms             *[]string `json:"antonyms"              validate:"omitempty,max=50,dive,max=100"`
	VietnameseDefinition *string   `json:"vietnamese_definition" validate:"omitempty,max=2000"`
	VietnameseExample    *string   `json:"vietnamese_example"    validate:"omitempty,max=2000"`
	Difficulty           *string   `json:"difficulty"            validate:"omitempty,oneof=easy medium hard unknown"`
	Notes                *string   `json:"notes"                 validate:"omitempty,max=2000"`
}

func (req *UpdateWordRequest) normalize() {
	if req.Word != nil {
		v := strings.TrimSpace(*req.Word)
		req.Word = &v
	}
	if req.Difficulty != nil {
		v := strings.ToLower(strings.TrimSpace(*req.Difficulty))
		req.Difficulty = &v
	}
}

func (req UpdateWordRequest) toUpdate() service.WordUpdate {
	return service.WordUpdate{
		Word:                 req.Word,
		Translation:          req.Translation,
		WordType:             req.WordType,
		Phonetic:             req.Phonetic,
		AudioURL:             req.AudioURL,
		EnglishDefinition:    req.EnglishDefinition,
		Example:              req.Example,
		Synonyms:             req.Synonyms,
		Antonyms:             req.Antonyms,
		VietnameseDefinition: req.VietnameseDefinition,
		VietnameseExample:    req.VietnameseExample,
		Difficulty:           req.Difficulty,
		Notes:                req.Notes,
	}
}

// ReviewWordRequest defines the payload for reviewing a word directly.
type ReviewWordRequest struct {
	Quality *int `json:"quality" validate:"required,min=0,max=5"`
}

// GenerateExercisesRequest defines the optional payload for generating exercises.
type GenerateExercisesRequest struct {
	Limit int `json:"limit" validate:"gte=0"`
}

// SubmitAnswerRequest defines the payload for answering an exercise. Answer
// is a JSON string, or a JSON object of pairs for matching exercises.
type SubmitAnswerRequest struct {
	Answer json.RawMessage `json:"answer" validate:"required"`
}

// answerText returns the answer as the evaluator expects it: the string
// itself, or the raw JSON of any other value.
func (req SubmitAnswerRequest) answerText() string {
	var s string
	if err := json.Unmarshal(req.Answer, &s); err == nil {
		return s
	}
	return string(req.Answer)
}

// WordListResponse is a page of words.
type WordListResponse struct {
	Words  []*domain.Word `json:"words"`
	Count  int            `json:"count"`
	Limit  int            `json:"limit,omitempty"`
	Offset int            `json:"offset,omitempty"`
}

// ExerciseListResponse is a list of exercises.
type ExerciseListResponse struct {
	Exercises []*domain.Exercise `json:"exercises"`
	Count     int                `json:"count"`
}

// ActivityListResponse is a page of the activity log.
type ActivityListResponse struct {
	Activities []*domain.Activity `json:"activities"`
	Count      int                `json:"count"`
}

// CheckInStatusResponse reports whether today's check-in was made.
type CheckInStatusResponse struct {
	CheckedIn bool `json:"checked_in"`
}
