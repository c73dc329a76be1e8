package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/lexi-api/internal/config"
	"github.com/phrazzld/lexi-api/internal/oracle"
	"github.com/phrazzld/lexi-api/internal/platform/logger"
	"google.golang.org/genai"
)

const (
	opGenerateDistractors = "generate_distractors"
	opScoreFreeText       = "score_free_text"
)

// contentGenerator is the subset of the genai client used by Oracle.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Oracle implements oracle.Oracle using the Gemini API.
type Oracle struct {
	models      contentGenerator
	model       string
	callTimeout time.Duration
	prompts     *prompts
	logger      *slog.Logger
}

var _ oracle.Oracle = (*Oracle)(nil)

// New creates an Oracle backed by a Gemini API client. callTimeout bounds
// each request; zero means no bound beyond the caller's context.
func New(ctx context.Context, cfg config.LLMConfig, callTimeout time.Duration, log *slog.Logger) (*Oracle, error) {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		return nil, oracle.ErrNotConfigured
	}
	if cfg.ModelName == "" {
		return nil, errors.New("gemini model name cannot be empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return newOracle(client.Models, cfg.ModelName, callTimeout, log)
}

func newOracle(models contentGenerator, model string, callTimeout time.Duration, log *slog.Logger) (*Oracle, error) {
	p, err := loadPrompts()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &Oracle{
		models:      models,
		model:       model,
		callTimeout: callTimeout,
		prompts:     p,
		logger:      log.With(slog.String("component", "gemini_oracle")),
	}, nil
}

var distractorSchema = &genai.Schema{
	Type:  genai.TypeArray,
	Items: &genai.Schema{Type: genai.TypeString},
}

var scoreSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"score":    {Type: genai.TypeNumber},
		"feedback": {Type: genai.TypeString},
	},
	Required:         []string{"score", "feedback"},
	PropertyOrdering: []string{"score", "feedback"},
}

// GenerateDistractors implements oracle.Oracle.
func (o *Oracle) GenerateDistractors(ctx context.Context, req oracle.DistractorRequest) ([]string, error) {
	prompt, err := o.prompts.distractorPrompt(req)
	if err != nil {
		return nil, oracle.NewFatal(opGenerateDistractors, err)
	}

	text, err := o.generate(ctx, opGenerateDistractors, prompt, distractorSchema)
	if err != nil {
		return nil, err
	}

	var raw []string
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, oracle.NewFatal(opGenerateDistractors,
			fmt.Errorf("%w: expected a JSON array of strings: %v", oracle.ErrInvalidResponse, err))
	}

	distractors := make([]string, 0, len(raw))
	for _, d := range raw {
		if d = strings.TrimSpace(d); d != "" {
			distractors = append(distractors, d)
		}
	}
	if req.Count > 0 && len(distractors) > req.Count {
		distractors = distractors[:req.Count]
	}
	return distractors, nil
}

// scoreReply is the JSON shape requested for free-text grading.
type scoreReply struct {
	Score    *float64 `json:"score"`
	Feedback *string  `json:"feedback"`
}

// ScoreFreeText implements oracle.Oracle.
func (o *Oracle) ScoreFreeText(ctx context.Context, req oracle.FreeTextRequest) (oracle.Score, error) {
	prompt, err := o.prompts.freeTextPrompt(req)
	if err != nil {
		return oracle.Score{}, oracle.NewFatal(opScoreFreeText, err)
	}

	text, err := o.generate(ctx, opScoreFreeText, prompt, scoreSchema)
	if err != nil {
		return oracle.Score{}, err
	}

	var reply scoreReply
	if err := json.Unmarshal([]byte(text), &reply); err != nil {
		return oracle.Score{}, oracle.NewFatal(opScoreFreeText,
			fmt.Errorf("%w: expected a JSON object: %v", oracle.ErrInvalidResponse, err))
	}
	if reply.Score == nil || reply.Feedback == nil {
		return oracle.Score{}, oracle.NewFatal(opScoreFreeText,
			fmt.Errorf("%w: missing score or feedback", oracle.ErrInvalidResponse))
	}

	return oracle.Score{
		Score:    oracle.NormalizeScore(*reply.Score),
		Feedback: strings.TrimSpace(*reply.Feedback),
	}, nil
}

// generate sends prompt and returns the response text, classifying failures
// as transient or fatal oracle errors.
func (o *Oracle) generate(ctx context.Context, op, prompt string, schema *genai.Schema) (string, error) {
	log := logger.FromContextOrDefault(ctx, o.logger)

	if o.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.callTimeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := o.models.GenerateContent(ctx, o.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		classified := classify(op, err)
		log.WarnContext(ctx, "gemini request failed",
			slog.String("operation", op),
			slog.Bool("transient", classified.Transient),
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()))
		return "", classified
	}

	if reason := blockReason(resp); reason != "" {
		log.WarnContext(ctx, "gemini response blocked",
			slog.String("operation", op),
			slog.String("reason", reason))
		return "", oracle.NewFatal(op, fmt.Errorf("content blocked: %s", reason))
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", oracle.NewFatal(op, fmt.Errorf("%w: empty response", oracle.ErrInvalidResponse))
	}

	log.DebugContext(ctx, "gemini request completed",
		slog.String("operation", op),
		slog.Duration("duration", time.Since(start)))
	return text, nil
}
