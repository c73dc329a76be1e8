package gemini

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/phrazzld/lexi-api/internal/oracle"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

// prompts holds the parsed templates keyed by request kind.
type prompts struct {
	distractors map[oracle.DistractorKind]*template.Template
	freeText    map[oracle.FreeTextKind]*template.Template
	enrichment  *template.Template
}

func loadPrompts() (*prompts, error) {
	parse := func(name string) (*template.Template, error) {
		t, err := template.ParseFS(promptFS, "prompts/"+name+".tmpl")
		if err != nil {
			return nil, fmt.Errorf("failed to parse prompt template %s: %w", name, err)
		}
		return t, nil
	}

	p := &prompts{
		distractors: make(map[oracle.DistractorKind]*template.Template),
		freeText:    make(map[oracle.FreeTextKind]*template.Template),
	}
	for kind, name := range map[oracle.DistractorKind]string{
		oracle.DistractorDefinitions:   "definitions",
		oracle.DistractorImageConcepts: "image_concepts",
	} {
		t, err := parse(name)
		if err != nil {
			return nil, err
		}
		p.distractors[kind] = t
	}
	for kind, name := range map[oracle.FreeTextKind]string{
		oracle.FreeTextSentence:      "sentence",
		oracle.FreeTextPronunciation: "pronunciation",
	} {
		t, err := parse(name)
		if err != nil {
			return nil, err
		}
		p.freeText[kind] = t
	}

	t, err := parse("enrichment")
	if err != nil {
		return nil, err
	}
	p.enrichment = t
	return p, nil
}

func (p *prompts) distractorPrompt(req oracle.DistractorRequest) (string, error) {
	t, ok := p.distractors[req.Kind]
	if !ok {
		return "", fmt.Errorf("no prompt for distractor kind %q", req.Kind)
	}
	return execute(t, req)
}

func (p *prompts) freeTextPrompt(req oracle.FreeTextRequest) (string, error) {
	t, ok := p.freeText[req.Kind]
	if !ok {
		return "", fmt.Errorf("no prompt for free text kind %q", req.Kind)
	}
	return execute(t, req)
}

func (p *prompts) enrichmentPrompt(word string) (string, error) {
	return execute(p.enrichment, struct{ Word string }{Word: word})
}

func execute(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
