package exercise

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
	"github.com/phrazzld/lexi-api/internal/oracle"
)

const (
	distractorCount = 3
	matchingSize    = 3
	blank           = "____"
	notAvailable    = "N/A"
)

// Wrong answers used when the oracle is not consulted or cannot help.
var (
	defaultDefinitionDistractors = []string{
		"Nghĩa sai 1 (mặc định)",
		"Nghĩa sai 2 (mặc định)",
		"Nghĩa sai 3 (mặc định)",
	}
	oracleFailedDefinitionDistractors = []string{
		"Nghĩa sai 1 (từ AI)",
		"Nghĩa sai 2 (từ AI)",
		"Nghĩa sai 3 (từ AI)",
	}
	defaultImageDistractors = []string{
		"a related but incorrect image",
		"another incorrect image",
		"a third incorrect image",
	}
)

func buildFlashcard(_ context.Context, _ Env, in BuildInput) (Built, error) {
	w := in.Word
	if !w.HasDefinition() {
		return Built{}, fmt.Errorf("%w: no definition for %q", ErrSkipped, w.Text)
	}
	return Built{Draft: Draft{
		Question: w.Text,
		Answer:   w.Definition(),
	}}, nil
}

func buildMultipleChoice(ctx context.Context, env Env, in BuildInput) (Built, error) {
	w := in.Word
	if !w.HasDefinition() {
		return Built{}, fmt.Errorf("%w: no definition for %q", ErrSkipped, w.Text)
	}
	correct := w.Definition()

	distractors := defaultDefinitionDistractors
	if w.HasEnglishDefinition() {
		distractors = askDistractors(ctx, env, oracle.DistractorRequest{
			Word:       w.Text,
			Definition: w.EnglishDefinition,
			Kind:       oracle.DistractorDefinitions,
			Count:      distractorCount,
		}, correct, oracleFailedDefinitionDistractors)
	}

	options := make([]string, 0, len(distractors)+1)
	options = append(options, correct)
	options = append(options, distractors...)
	env.Rand.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	return Built{Draft: Draft{
		Question: fmt.Sprintf("Chọn nghĩa tiếng Việt đúng của từ \"%s\":", w.Text),
		Options:  options,
		Answer:   correct,
	}}, nil
}

func buildFillInBlank(_ context.Context, _ Env, in BuildInput) (Built, error) {
	w := in.Word
	if !w.HasUsableExample() {
		return Built{}, fmt.Errorf("%w: no usable example for %q", ErrSkipped, w.Text)
	}
	return Built{Draft: Draft{
		Question: BlankOut(w.Example, w.Text),
		Answer:   w.Text,
	}}, nil
}

func buildSentenceConstruction(_ context.Context, _ Env, in BuildInput) (Built, error) {
	w := in.Word
	return Built{Draft: Draft{
		Question: fmt.Sprintf("Viết một câu tiếng Anh sử dụng từ \"%s\" (định nghĩa: %s).",
			w.Text, orNotAvailable(w.EnglishDefinition)),
	}}, nil
}

func buildPronunciationPractice(_ context.Context, _ Env, in BuildInput) (Built, error) {
	w := in.Word
	return Built{Draft: Draft{
		Question: fmt.Sprintf("Hãy phát âm từ \"%s\" (phiên âm: %s).", w.Text, orNotAvailable(w.Phonetic)),
	}}, nil
}

func buildMatching(_ context.Context, env Env, in BuildInput) (Built, error) {
	if !in.Word.HasDefinition() {
		return Built{}, fmt.Errorf("%w: no definition for %q", ErrSkipped, in.Word.Text)
	}
	group := []*domain.Word{in.Word}
	for _, c := range in.Candidates {
		if len(group) == matchingSize {
			break
		}
		if c != nil && c.ID != in.Word.ID && c.HasDefinition() {
			group = append(group, c)
		}
	}
	if len(group) < 2 {
		return Built{}, fmt.Errorf("%w: not enough words to match %q", ErrSkipped, in.Word.Text)
	}

	ids := make([]uuid.UUID, 0, len(group))
	items := make([]MatchItem, 0, len(group))
	definitions := make([]MatchItem, 0, len(group))
	answer := make(map[string]string, len(group))
	for _, w := range group {
		id := w.ID.String()
		ids = append(ids, w.ID)
		items = append(items, MatchItem{ID: id, Text: w.Text})
		definitions = append(definitions, MatchItem{ID: id, Text: w.Definition()})
		answer[id] = w.Definition()
	}
	env.Rand.Shuffle(len(definitions), func(i, j int) {
		definitions[i], definitions[j] = definitions[j], definitions[i]
	})

	return Built{
		Draft:   Draft{Question: items, Options: definitions, Answer: answer},
		WordIDs: ids,
	}, nil
}

func buildListenChooseImage(ctx context.Context, env Env, in BuildInput) (Built, error) {
	w := in.Word
	if !w.HasAudio() {
		return Built{}, fmt.Errorf("%w: no audio for %q", ErrSkipped, w.Text)
	}

	correct := fmt.Sprintf("Image for %s (%s)", w.Text, w.Gloss())
	distractors := askDistractors(ctx, env, oracle.DistractorRequest{
		Word:       w.Text,
		Definition: w.EnglishDefinition,
		Kind:       oracle.DistractorImageConcepts,
		Count:      distractorCount,
	}, correct, defaultImageDistractors)

	concepts := append([]string{correct}, distractors...)
	options := make([]ImageOption, 0, len(concepts))
	for _, c := range concepts {
		options = append(options, ImageOption{Concept: c, ImageURL: PlaceholderImageURL(env.Rand, c)})
	}
	env.Rand.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	return Built{Draft: Draft{
		Question: w.AudioURL,
		Options:  options,
		Answer:   correct,
	}}, nil
}

// askDistractors consults the oracle and falls back to fallback on failure.
// Blank answers and repeats of the correct answer are dropped; missing slots
// are filled from fallback.
func askDistractors(
	ctx context.Context,
	env Env,
	req oracle.DistractorRequest,
	correct string,
	fallback []string,
) []string {
	got, err := env.Oracle.GenerateDistractors(ctx, req)
	if err != nil {
		env.Logger.WarnContext(ctx, "oracle could not generate distractors, using fallback",
			slog.String("word", req.Word),
			slog.String("kind", string(req.Kind)),
			slog.String("error", err.Error()))
		return fallback
	}

	seen := map[string]bool{strings.ToLower(strings.TrimSpace(correct)): true}
	out := make([]string, 0, req.Count)
	for _, d := range got {
		d = strings.TrimSpace(d)
		key := strings.ToLower(d)
		if d == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
		if len(out) == req.Count {
			return out
		}
	}

	for _, f := range fallback {
		if len(out) == req.Count {
			break
		}
		out = append(out, f)
	}
	return out
}

// BlankOut replaces every whole-word, case-insensitive occurrence of word in
// sentence with a blank.
func BlankOut(sentence, word string) string {
	if strings.TrimSpace(word) == "" {
		return sentence
	}
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	return re.ReplaceAllLiteralString(sentence, blank)
}

// PlaceholderImageURL renders a placeholder image for concept with a random
// background color and the first ten characters of the concept as its label.
func PlaceholderImageURL(rnd Rand, concept string) string {
	label := []rune(concept)
	if len(label) > 10 {
		label = label[:10]
	}
	text := strings.ReplaceAll(url.QueryEscape(string(label)), "+", "%20")
	return fmt.Sprintf("https://placehold.co/150x150/%x/ffffff?text=%s", rnd.Intn(0xFFFFFF), text)
}

func orNotAvailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}
