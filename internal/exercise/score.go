package exercise

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/phrazzld/lexi-api/internal/oracle"
)

const (
	passingScore        = 60
	minSentenceLength   = 5
	feedbackCorrect     = "Chính xác! 👍"
	feedbackIncorrect   = "Sai rồi. Đáp án đúng là: \"%s\" 👎"
	feedbackFlashcard   = "Bạn đã đánh giá mức độ ghi nhớ: %d/5."
	feedbackAllMatched  = "Tuyệt vời! Bạn đã ghép đúng %d/%d cặp."
	feedbackSomeMatched = "Bạn đã ghép đúng %d/%d cặp. Vui lòng xem lại các cặp sai."
	feedbackDegraded    = "Đã xảy ra lỗi khi chấm điểm bài tập: %s. Vui lòng thử lại."
)

// ScoringError is a scoring failure with a reason fit to show the learner.
type ScoringError struct {
	Reason string
	Err    error
}

func (e *ScoringError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *ScoringError) Unwrap() error {
	return e.Err
}

func reject(reason string, err error) error {
	return &ScoringError{Reason: reason, Err: err}
}

// Degrade is the verdict applied when scoring fails: incorrect, zero quality
// and zero score, with feedback explaining the failure.
func Degrade(err error) Evaluation {
	reason := err.Error()
	var se *ScoringError
	if errors.As(err, &se) {
		reason = se.Reason
	}
	return Evaluation{
		IsCorrect: false,
		Quality:   0,
		Score:     0,
		Feedback:  fmt.Sprintf(feedbackDegraded, reason),
		Degraded:  true,
	}
}

func scoreFlashcard(_ context.Context, _ Env, in ScoreInput) (Evaluation, error) {
	q, err := strconv.Atoi(strings.TrimSpace(in.Answer))
	if err != nil || q < 0 || q > 5 {
		return Evaluation{}, reject("Invalid quality score (must be 0-5)", err)
	}
	return Evaluation{
		IsCorrect: q >= 3,
		Quality:   q,
		Score:     q * 20,
		Feedback:  fmt.Sprintf(feedbackFlashcard, q),
	}, nil
}

// scoreExactMatch compares the answer to the stored answer, trimmed and
// case-insensitive.
func scoreExactMatch(_ context.Context, _ Env, in ScoreInput) (Evaluation, error) {
	expected, err := decodeStringAnswer(in.Exercise.CorrectAnswer)
	if err != nil {
		return Evaluation{}, reject("exercise answer is unavailable", err)
	}
	if strings.TrimSpace(expected) == "" {
		return Evaluation{}, reject("exercise answer is unavailable", nil)
	}

	if strings.EqualFold(strings.TrimSpace(in.Answer), strings.TrimSpace(expected)) {
		return Evaluation{IsCorrect: true, Quality: 5, Score: 100, Feedback: feedbackCorrect}, nil
	}
	return Evaluation{
		IsCorrect: false,
		Quality:   0,
		Score:     0,
		Feedback:  fmt.Sprintf(feedbackIncorrect, expected),
	}, nil
}

func scoreSentence(ctx context.Context, env Env, in ScoreInput) (Evaluation, error) {
	if utf8.RuneCountInString(strings.TrimSpace(in.Answer)) < minSentenceLength {
		return Evaluation{}, reject("Vui lòng viết một câu đầy đủ", nil)
	}
	if in.Word == nil {
		return Evaluation{}, reject("word for this exercise no longer exists", nil)
	}
	return scoreFreeText(ctx, env, oracle.FreeTextRequest{
		Kind:          oracle.FreeTextSentence,
		UserText:      in.Answer,
		TargetWord:    in.Word.Text,
		TargetContext: orNotAvailable(in.Word.EnglishDefinition),
	})
}

func scorePronunciation(ctx context.Context, env Env, in ScoreInput) (Evaluation, error) {
	if strings.TrimSpace(in.Answer) == "" {
		return Evaluation{}, reject("Vui lòng cung cấp văn bản của phát âm đã ghi âm", nil)
	}
	if in.Word == nil {
		return Evaluation{}, reject("word for this exercise no longer exists", nil)
	}
	return scoreFreeText(ctx, env, oracle.FreeTextRequest{
		Kind:          oracle.FreeTextPronunciation,
		UserText:      in.Answer,
		TargetWord:    in.Word.Text,
		TargetContext: orNotAvailable(in.Word.Phonetic),
	})
}

func scoreFreeText(ctx context.Context, env Env, req oracle.FreeTextRequest) (Evaluation, error) {
	graded, err := env.Oracle.ScoreFreeText(ctx, req)
	if err != nil {
		return Evaluation{}, reject("grading service is unavailable", err)
	}

	score := oracle.NormalizeScore(float64(graded.Score))
	return Evaluation{
		IsCorrect: score >= passingScore,
		Quality:   int(math.Round(float64(score) / 20)),
		Score:     score,
		Feedback:  graded.Feedback,
	}, nil
}

// scoreMatching expects a JSON object of item ID to chosen definition and
// gives partial credit per correct pair.
func scoreMatching(_ context.Context, _ Env, in ScoreInput) (Evaluation, error) {
	expected, err := decodeMatchingAnswer(in.Exercise.CorrectAnswer)
	if err != nil {
		return Evaluation{}, reject("exercise answer is unavailable", err)
	}
	if len(expected) == 0 {
		return Evaluation{}, reject("exercise has no pairs", nil)
	}

	var given map[string]any
	if err := json.Unmarshal([]byte(in.Answer), &given); err != nil {
		return Evaluation{}, reject("answer must be a JSON object of pairs", err)
	}

	correct := 0
	for id, want := range expected {
		got, ok := given[id].(string)
		if ok && strings.EqualFold(strings.TrimSpace(got), strings.TrimSpace(want)) {
			correct++
		}
	}

	total := len(expected)
	fraction := float64(correct) / float64(total)
	eval := Evaluation{
		IsCorrect: correct == total,
		Quality:   int(math.Round(5 * fraction)),
		Score:     int(math.Round(100 * fraction)),
	}
	if eval.IsCorrect {
		eval.Feedback = fmt.Sprintf(feedbackAllMatched, correct, total)
	} else {
		eval.Feedback = fmt.Sprintf(feedbackSomeMatched, correct, total)
	}
	return eval, nil
}
