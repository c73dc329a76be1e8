package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phrazzld/lexi-api/internal/domain"
	"github.com/phrazzld/lexi-api/internal/enrich"
	"github.com/phrazzld/lexi-api/internal/oracle"
	"google.golang.org/genai"
)

const (
	opEnrichWord = "enrich_word"

	maxRelatedWords = 3
)

var _ enrich.Enricher = (*Oracle)(nil)

var enrichmentSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"translation":           {Type: genai.TypeString},
		"word_type":             {Type: genai.TypeString},
		"phonetic":              {Type: genai.TypeString},
		"english_definition":    {Type: genai.TypeString},
		"example":               {Type: genai.TypeString},
		"vietnamese_definition": {Type: genai.TypeString},
		"vietnamese_example":    {Type: genai.TypeString},
		"synonyms":              {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"antonyms":              {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"difficulty": {
			Type: genai.TypeString,
			Enum: []string{"easy", "medium", "hard"},
		},
	},
	Required: []string{"translation", "english_definition", "vietnamese_definition", "difficulty"},
}

// enrichmentReply is the JSON shape requested for word enrichment.
type enrichmentReply struct {
	Translation          string   `json:"translation"`
	WordType             string   `json:"word_type"`
	Phonetic             string   `json:"phonetic"`
	EnglishDefinition    string   `json:"english_definition"`
	Example              string   `json:"example"`
	VietnameseDefinition string   `json:"vietnamese_definition"`
	VietnameseExample    string   `json:"vietnamese_example"`
	Synonyms             []string `json:"synonyms"`
	Antonyms             []string `json:"antonyms"`
	Difficulty           string   `json:"difficulty"`
}

// Enrich implements enrich.Enricher. It asks the model for the dictionary
// fields of word in one request. Audio is never filled.
func (o *Oracle) Enrich(ctx context.Context, word string) (enrich.Metadata, error) {
	prompt, err := o.prompts.enrichmentPrompt(word)
	if err != nil {
		return enrich.Metadata{}, oracle.NewFatal(opEnrichWord, err)
	}

	text, err := o.generate(ctx, opEnrichWord, prompt, enrichmentSchema)
	if err != nil {
		return enrich.Metadata{}, err
	}

	var reply enrichmentReply
	if err := json.Unmarshal([]byte(text), &reply); err != nil {
		return enrich.Metadata{}, oracle.NewFatal(opEnrichWord,
			fmt.Errorf("%w: expected a JSON object: %v", oracle.ErrInvalidResponse, err))
	}

	difficulty := domain.Difficulty(strings.ToLower(strings.TrimSpace(reply.Difficulty)))
	if !difficulty.Valid() {
		difficulty = ""
	}
	return enrich.Metadata{
		Translation:          strings.TrimSpace(reply.Translation),
		WordType:             strings.TrimSpace(reply.WordType),
		Phonetic:             strings.TrimSpace(reply.Phonetic),
		EnglishDefinition:    strings.TrimSpace(reply.EnglishDefinition),
		Example:              strings.TrimSpace(reply.Example),
		VietnameseDefinition: strings.TrimSpace(reply.VietnameseDefinition),
		VietnameseExample:    strings.TrimSpace(reply.VietnameseExample),
		Synonyms:             relatedWords(reply.Synonyms, word),
		Antonyms:             relatedWords(reply.Antonyms, word),
		Difficulty:           difficulty,
	}, nil
}

// relatedWords trims values, drops blanks, repeats and the word itself, and
// keeps at most maxRelatedWords.
func relatedWords(values []string, word string) []string {
	var out []string
	seen := map[string]bool{strings.ToLower(word): true}
	for _, v := range values {
		v = strings.TrimSpace(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
		if len(out) == maxRelatedWords {
			break
		}
	}
	return out
}
