package exercise

import (
	"encoding/json"
	"fmt"
)

// MatchItem is one entry of a matching exercise column.
type MatchItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ImageOption is one choice of a listen-and-choose-image exercise.
type ImageOption struct {
	Concept  string `json:"concept"`
	ImageURL string `json:"imageUrl"`
}

// Draft is an exercise payload before it is given an identity. Question,
// Options and Answer are encoded to JSON as-is; a nil Options or Answer is
// stored as absent.
//
// Question is a string for every type except matching, where it is
// []MatchItem. Options is []string for multiple choice, []MatchItem for
// matching and []ImageOption for listen-and-choose-image. Answer is a string,
// a map of item ID to definition for matching, or nil for oracle-scored types.
type Draft struct {
	Question any
	Options  any
	Answer   any
}

type encodedDraft struct {
	question json.RawMessage
	options  json.RawMessage
	answer   json.RawMessage
}

func (d Draft) encode() (encodedDraft, error) {
	var out encodedDraft
	var err error

	if out.question, err = json.Marshal(d.Question); err != nil {
		return encodedDraft{}, fmt.Errorf("encode question: %w", err)
	}
	if d.Options != nil {
		if out.options, err = json.Marshal(d.Options); err != nil {
			return encodedDraft{}, fmt.Errorf("encode options: %w", err)
		}
	}
	if d.Answer != nil {
		if out.answer, err = json.Marshal(d.Answer); err != nil {
			return encodedDraft{}, fmt.Errorf("encode answer: %w", err)
		}
	}
	return out, nil
}

// decodeStringAnswer reads a stored string answer.
func decodeStringAnswer(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", fmt.Errorf("exercise has no stored answer")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("stored answer is not a string: %w", err)
	}
	return s, nil
}

// decodeMatchingAnswer reads a stored matching answer.
func decodeMatchingAnswer(raw json.RawMessage) (map[string]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("exercise has no stored answer")
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("stored answer is not a pair mapping: %w", err)
	}
	return m, nil
}
