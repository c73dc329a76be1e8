package gemini

import (
	"errors"
	"net/http"

	"github.com/phrazzld/lexi-api/internal/oracle"
	"google.golang.org/genai"
)

const statusResourceExhausted = "RESOURCE_EXHAUSTED"

// classify maps a genai client error to an oracle error. Only rate limiting
// is transient.
func classify(op string, err error) *oracle.Error {
	if isRateLimited(err) {
		return oracle.NewTransient(op, err)
	}
	return oracle.NewFatal(op, err)
}

func isRateLimited(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Status == statusResourceExhausted
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code == http.StatusTooManyRequests || apiErrPtr.Status == statusResourceExhausted
	}
	return false
}

// blockReason returns why the response was withheld, or "" if it was not.
func blockReason(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return "no response"
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return string(resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return string(genai.FinishReasonSafety)
	}
	return ""
}
