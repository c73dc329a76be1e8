package gemini

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/lexi-api/internal/config"
	"github.com/phrazzld/lexi-api/internal/oracle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// fakeModels records requests and returns a canned response.
type fakeModels struct {
	mu       sync.Mutex
	resp     *genai.GenerateContentResponse
	err      error
	prompts  []string
	configs  []*genai.GenerateContentConfig
	deadline bool
}

func (f *fakeModels) GenerateContent(
	ctx context.Context,
	_ string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompts = append(f.prompts, contents[0].Parts[0].Text)
	}
	f.configs = append(f.configs, cfg)
	_, f.deadline = ctx.Deadline()
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Parts: []*genai.Part{{Text: text}}},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

func newTestOracle(t *testing.T, f *fakeModels) *Oracle {
	t.Helper()
	o, err := newOracle(f, "gemini-test", 0, nil)
	require.NoError(t, err)
	return o
}

func TestNew_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), config.LLMConfig{ModelName: "gemini-2.0-flash"}, 0, nil)
	assert.ErrorIs(t, err, oracle.ErrNotConfigured)

	_, err = New(context.Background(), config.LLMConfig{GeminiAPIKey: "key"}, 0, nil)
	assert.Error(t, err)
}

func TestGenerateDistractors(t *testing.T) {
	t.Parallel()

	t.Run("definitions", func(t *testing.T) {
		t.Parallel()
		f := &fakeModels{resp: textResponse(`["quả lê", "  ", "quả nho", "quả mận", "quả dưa"]`)}
		o := newTestOracle(t, f)

		got, err := o.GenerateDistractors(context.Background(), oracle.DistractorRequest{
			Word:       "apple",
			Definition: "quả táo",
			Kind:       oracle.DistractorDefinitions,
			Count:      3,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"quả lê", "quả nho", "quả mận"}, got)

		require.Len(t, f.prompts, 1)
		assert.Contains(t, f.prompts[0], `For the English word "apple" with definition "quả táo"`)
		assert.Contains(t, f.prompts[0], "provide 3 plausible but incorrect Vietnamese definitions")
		assert.Equal(t, "application/json", f.configs[0].ResponseMIMEType)
		assert.Equal(t, genai.TypeArray, f.configs[0].ResponseSchema.Type)
	})

	t.Run("image concepts", func(t *testing.T) {
		t.Parallel()
		f := &fakeModels{resp: textResponse(`["a red ball", "a green pear"]`)}
		o := newTestOracle(t, f)

		got, err := o.GenerateDistractors(context.Background(), oracle.DistractorRequest{
			Word:  "apple",
			Kind:  oracle.DistractorImageConcepts,
			Count: 3,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"a red ball", "a green pear"}, got)
		assert.Contains(t, f.prompts[0], "image concepts")
	})

	t.Run("invalid json is fatal", func(t *testing.T) {
		t.Parallel()
		o := newTestOracle(t, &fakeModels{resp: textResponse(`{"not": "an array"}`)})

		_, err := o.GenerateDistractors(context.Background(), oracle.DistractorRequest{
			Word: "apple", Kind: oracle.DistractorDefinitions, Count: 3,
		})
		assert.ErrorIs(t, err, oracle.ErrInvalidResponse)
		assert.ErrorIs(t, err, oracle.ErrFatal)
	})

	t.Run("unknown kind is fatal without a request", func(t *testing.T) {
		t.Parallel()
		f := &fakeModels{resp: textResponse(`[]`)}
		o := newTestOracle(t, f)

		_, err := o.GenerateDistractors(context.Background(), oracle.DistractorRequest{Kind: "audio"})
		assert.ErrorIs(t, err, oracle.ErrFatal)
		assert.Empty(t, f.prompts)
	})
}

func TestScoreFreeText(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		reply string
		want  oracle.Score
	}{
		{"integer", `{"score": 85, "feedback": "Câu của bạn rất tốt."}`, oracle.Score{Score: 85, Feedback: "Câu của bạn rất tốt."}},
		{"rounded", `{"score": 72.6, "feedback": "ok"}`, oracle.Score{Score: 73, Feedback: "ok"}},
		{"clamped high", `{"score": 130, "feedback": "wow"}`, oracle.Score{Score: 100, Feedback: "wow"}},
		{"clamped low", `{"score": -4, "feedback": " bad "}`, oracle.Score{Score: 0, Feedback: "bad"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := &fakeModels{resp: textResponse(tc.reply)}
			o := newTestOracle(t, f)

			got, err := o.ScoreFreeText(context.Background(), oracle.FreeTextRequest{
				Kind:          oracle.FreeTextSentence,
				UserText:      "I ate an apple.",
				TargetWord:    "apple",
				TargetContext: "the round fruit of a tree",
			})
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Contains(t, f.prompts[0], `Câu của người dùng: "I ate an apple."`)
			assert.Equal(t, []string{"score", "feedback"}, f.configs[0].ResponseSchema.Required)
		})
	}

	t.Run("pronunciation prompt", func(t *testing.T) {
		t.Parallel()
		f := &fakeModels{resp: textResponse(`{"score": 75, "feedback": "Khá tốt."}`)}
		o := newTestOracle(t, f)

		_, err := o.ScoreFreeText(context.Background(), oracle.FreeTextRequest{
			Kind:          oracle.FreeTextPronunciation,
			UserText:      "apo",
			TargetWord:    "apple",
			TargetContext: "/ˈæp.əl/",
		})
		require.NoError(t, err)
		assert.Contains(t, f.prompts[0], "phiên âm IPA: /ˈæp.əl/")
		assert.Contains(t, f.prompts[0], `"apo"`)
	})

	t.Run("missing fields are invalid", func(t *testing.T) {
		t.Parallel()
		o := newTestOracle(t, &fakeModels{resp: textResponse(`{"feedback": "no score"}`)})

		_, err := o.ScoreFreeText(context.Background(), oracle.FreeTextRequest{Kind: oracle.FreeTextSentence})
		assert.ErrorIs(t, err, oracle.ErrInvalidResponse)
	})
}

func TestGenerate_ErrorClassification(t *testing.T) {
	t.Parallel()

	req := oracle.DistractorRequest{Word: "apple", Kind: oracle.DistractorDefinitions, Count: 3}

	testCases := []struct {
		name      string
		fake      *fakeModels
		transient bool
		target    error
	}{
		{
			name:      "rate limited",
			fake:      &fakeModels{err: genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED"}},
			transient: true,
		},
		{
			name:      "rate limited pointer",
			fake:      &fakeModels{err: fmt.Errorf("call: %w", &genai.APIError{Code: 429})},
			transient: true,
		},
		{
			name: "server error",
			fake: &fakeModels{err: genai.APIError{Code: 500, Status: "INTERNAL"}},
		},
		{
			name:   "deadline",
			fake:   &fakeModels{err: context.DeadlineExceeded},
			target: context.DeadlineExceeded,
		},
		{
			name: "safety block",
			fake: &fakeModels{resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
			}},
		},
		{
			name: "prompt blocked",
			fake: &fakeModels{resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
			}},
		},
		{
			name:   "empty text",
			fake:   &fakeModels{resp: textResponse("  ")},
			target: oracle.ErrInvalidResponse,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			o := newTestOracle(t, tc.fake)

			_, err := o.GenerateDistractors(context.Background(), req)
			require.Error(t, err)

			var oe *oracle.Error
			require.True(t, errors.As(err, &oe))
			assert.Equal(t, tc.transient, oe.Transient)
			assert.Equal(t, opGenerateDistractors, oe.Op)
			if tc.target != nil {
				assert.ErrorIs(t, err, tc.target)
			}
		})
	}
}

func TestGenerate_AppliesCallTimeout(t *testing.T) {
	t.Parallel()

	f := &fakeModels{resp: textResponse(`["x"]`)}
	o, err := newOracle(f, "gemini-test", time.Second, nil)
	require.NoError(t, err)

	_, err = o.GenerateDistractors(context.Background(), oracle.DistractorRequest{
		Word: "apple", Kind: oracle.DistractorDefinitions, Count: 3,
	})
	require.NoError(t, err)
	assert.True(t, f.deadline)
}
