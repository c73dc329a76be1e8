// Package enrich defines the port through which newly added words are filled
// with dictionary metadata (phonetics, audio, definitions, examples). The
// Gemini oracle in package gemini implements it.
package enrich

import (
	"context"
	"strings"

	"github.com/phrazzld/lexi-api/internal/domain"
)

// Metadata is what an enricher knows about a word. Empty fields are unknown.
type Metadata struct {
	Translation          string
	WordType             string
	Phonetic             string
	AudioURL             string
	EnglishDefinition    string
	Example              string
	Synonyms             []string
	Antonyms             []string
	VietnameseDefinition string
	VietnameseExample    string
	Difficulty           domain.Difficulty
}

// Enricher looks up metadata for an English word.
type Enricher interface {
	Enrich(ctx context.Context, word string) (Metadata, error)
}

// Func adapts a function to the Enricher interface.
type Func func(ctx context.Context, word string) (Metadata, error)

// Enrich calls f.
func (f Func) Enrich(ctx context.Context, word string) (Metadata, error) {
	return f(ctx, word)
}

// Fill copies m into the fields of w that are still missing. Fields holding a
// placeholder count as missing; values supplied by the user are kept.
func Fill(w *domain.Word, m Metadata) {
	fill(&w.Translation, m.Translation)
	fill(&w.WordType, m.WordType)
	fill(&w.Phonetic, m.Phonetic)
	fill(&w.AudioURL, m.AudioURL)
	fill(&w.EnglishDefinition, m.EnglishDefinition)
	fill(&w.Example, m.Example)
	fill(&w.VietnameseDefinition, m.VietnameseDefinition)
	fill(&w.VietnameseExample, m.VietnameseExample)

	if len(w.Synonyms) == 0 && len(m.Synonyms) > 0 {
		w.Synonyms = append([]string(nil), m.Synonyms...)
	}
	if len(w.Antonyms) == 0 && len(m.Antonyms) > 0 {
		w.Antonyms = append([]string(nil), m.Antonyms...)
	}
	if (w.Difficulty == "" || w.Difficulty == domain.DifficultyUnknown) && m.Difficulty.Valid() {
		w.Difficulty = m.Difficulty
	}
}

func fill(dst *string, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	switch strings.TrimSpace(*dst) {
	case "", domain.PlaceholderNA, domain.PlaceholderAIFailed, domain.PlaceholderNoDefinition:
		*dst = value
	}
}
