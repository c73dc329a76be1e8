package exercise_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
	"github.com/phrazzld/lexi-api/internal/exercise"
	"github.com/phrazzld/lexi-api/internal/mocks"
	"github.com/phrazzld/lexi-api/internal/oracle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExercise(t *testing.T, typ domain.ExerciseType, answer any, wordIDs ...uuid.UUID) *domain.Exercise {
	t.Helper()
	if len(wordIDs) == 0 {
		wordIDs = []uuid.UUID{uuid.New()}
	}
	var raw json.RawMessage
	if answer != nil {
		b, err := json.Marshal(answer)
		require.NoError(t, err)
		raw = b
	}
	ex, err := domain.NewExercise(uuid.New(), wordIDs, typ, json.RawMessage(`"q"`), nil, raw, fixedNow)
	require.NoError(t, err)
	return ex
}

func TestEvaluator_Flashcard(t *testing.T) {
	t.Parallel()
	ev := exercise.NewEvaluator(exercise.NewRegistry(), nil, nil)
	ex := newExercise(t, domain.ExerciseFlashcard, "quả táo")

	testCases := []struct {
		answer    string
		quality   int
		score     int
		isCorrect bool
	}{
		{"4", 4, 80, true},
		{" 3 ", 3, 60, true},
		{"2", 2, 40, false},
		{"0", 0, 0, false},
		{"5", 5, 100, true},
	}
	for _, tc := range testCases {
		t.Run(tc.answer, func(t *testing.T) {
			got := ev.Evaluate(context.Background(), ex, nil, tc.answer)
			assert.Equal(t, tc.quality, got.Quality)
			assert.Equal(t, tc.score, got.Score)
			assert.Equal(t, tc.isCorrect, got.IsCorrect)
			assert.False(t, got.Degraded)
			assert.Equal(t, fmt.Sprintf("Bạn đã đánh giá mức độ ghi nhớ: %d/5.", tc.quality), got.Feedback)
		})
	}

	for _, bad := range []string{"6", "-1", "good", ""} {
		got := ev.Evaluate(context.Background(), ex, nil, bad)
		assert.True(t, got.Degraded, "answer=%q", bad)
		assert.Equal(t, 0, got.Quality)
		assert.Equal(t, 0, got.Score)
		assert.False(t, got.IsCorrect)
		assert.Equal(t,
			"Đã xảy ra lỗi khi chấm điểm bài tập: Invalid quality score (must be 0-5). Vui lòng thử lại.",
			got.Feedback)
	}
}

func TestEvaluator_ExactMatch(t *testing.T) {
	t.Parallel()
	ev := exercise.NewEvaluator(exercise.NewRegistry(), nil, nil)

	for _, typ := range []domain.ExerciseType{
		domain.ExerciseMultipleChoice,
		domain.ExerciseFillInBlank,
		domain.ExerciseListenChooseImage,
	} {
		t.Run(string(typ), func(t *testing.T) {
			ex := newExercise(t, typ, "Apple")

			got := ev.Evaluate(context.Background(), ex, nil, "  apple ")
			assert.Equal(t, exercise.Evaluation{IsCorrect: true, Quality: 5, Score: 100, Feedback: "Chính xác! 👍"}, got)

			got = ev.Evaluate(context.Background(), ex, nil, "pear")
			assert.Equal(t, exercise.Evaluation{
				IsCorrect: false, Quality: 0, Score: 0,
				Feedback: `Sai rồi. Đáp án đúng là: "Apple" 👎`,
			}, got)
		})
	}

	t.Run("missing stored answer degrades", func(t *testing.T) {
		ex := newExercise(t, domain.ExerciseMultipleChoice, nil)
		got := ev.Evaluate(context.Background(), ex, nil, "apple")
		assert.True(t, got.Degraded)
		assert.Contains(t, got.Feedback, "exercise answer is unavailable")
	})

	t.Run("blank stored answer never matches", func(t *testing.T) {
		ex := newExercise(t, domain.ExerciseMultipleChoice, " ")
		for _, answer := range []string{"", "  "} {
			got := ev.Evaluate(context.Background(), ex, nil, answer)
			assert.True(t, got.Degraded)
			assert.False(t, got.IsCorrect)
			assert.Equal(t, 0, got.Score)
			assert.Contains(t, got.Feedback, "exercise answer is unavailable")
		}
	})
}

func TestEvaluator_Matching(t *testing.T) {
	t.Parallel()
	ev := exercise.NewEvaluator(exercise.NewRegistry(), nil, nil)

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	ex := newExercise(t, domain.ExerciseMatching, map[string]string{
		a.String(): "quả táo",
		b.String(): "quả chuối",
		c.String(): "quả cam",
	}, a, b, c)

	answer := func(m map[string]any) string {
		raw, err := json.Marshal(m)
		require.NoError(t, err)
		return string(raw)
	}

	t.Run("two of three", func(t *testing.T) {
		got := ev.Evaluate(context.Background(), ex, nil, answer(map[string]any{
			a.String(): "quả táo",
			b.String(): "QUẢ CHUỐI",
			c.String(): "quả táo",
		}))
		assert.False(t, got.IsCorrect)
		assert.Equal(t, 3, got.Quality)
		assert.Equal(t, 67, got.Score)
		assert.Equal(t, "Bạn đã ghép đúng 2/3 cặp. Vui lòng xem lại các cặp sai.", got.Feedback)
	})

	t.Run("all pairs", func(t *testing.T) {
		got := ev.Evaluate(context.Background(), ex, nil, answer(map[string]any{
			a.String(): "quả táo",
			b.String(): "quả chuối",
			c.String(): "quả cam",
		}))
		assert.True(t, got.IsCorrect)
		assert.Equal(t, 5, got.Quality)
		assert.Equal(t, 100, got.Score)
		assert.Equal(t, "Tuyệt vời! Bạn đã ghép đúng 3/3 cặp.", got.Feedback)
	})

	t.Run("non-string values and unknown ids count as wrong", func(t *testing.T) {
		got := ev.Evaluate(context.Background(), ex, nil, answer(map[string]any{
			a.String():        42,
			uuid.NewString(): "quả chuối",
		}))
		assert.False(t, got.IsCorrect)
		assert.Equal(t, 0, got.Quality)
		assert.Equal(t, 0, got.Score)
		assert.False(t, got.Degraded)
	})

	t.Run("malformed answer degrades", func(t *testing.T) {
		got := ev.Evaluate(context.Background(), ex, nil, "[1,2]")
		assert.True(t, got.Degraded)
		assert.Contains(t, got.Feedback, "answer must be a JSON object of pairs")
	})
}

func TestEvaluator_SentenceConstruction(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	testCases := []struct {
		name      string
		score     int
		isCorrect bool
		quality   int
	}{
		{"just below passing", 59, false, 3},
		{"passing", 60, true, 3},
		{"excellent", 95, true, 5},
		{"clamped", 140, true, 5},
		{"negative", -10, false, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			o := &mocks.MockOracle{Score: oracle.Score{Score: tc.score, Feedback: "Good usage."}}
			ev := exercise.NewEvaluator(exercise.NewRegistry(), o, nil)
			w := richWord(t, userID)
			ex := newExercise(t, domain.ExerciseSentenceConstruction, nil, w.ID)

			got := ev.Evaluate(context.Background(), ex, w, "I ate an apple for lunch.")
			assert.Equal(t, tc.isCorrect, got.IsCorrect)
			assert.Equal(t, tc.quality, got.Quality)
			assert.Equal(t, "Good usage.", got.Feedback)
			assert.GreaterOrEqual(t, got.Score, 0)
			assert.LessOrEqual(t, got.Score, 100)

			reqs := o.FreeTextRequests()
			require.Len(t, reqs, 1)
			assert.Equal(t, oracle.FreeTextRequest{
				Kind:          oracle.FreeTextSentence,
				UserText:      "I ate an apple for lunch.",
				TargetWord:    "apple",
				TargetContext: "the round fruit of a tree",
			}, reqs[0])
		})
	}

	t.Run("too short is rejected without the oracle", func(t *testing.T) {
		t.Parallel()
		o := &mocks.MockOracle{Score: oracle.Score{Score: 100}}
		ev := exercise.NewEvaluator(exercise.NewRegistry(), o, nil)
		w := richWord(t, userID)
		ex := newExercise(t, domain.ExerciseSentenceConstruction, nil, w.ID)

		got := ev.Evaluate(context.Background(), ex, w, " hi ")
		assert.True(t, got.Degraded)
		assert.Equal(t, "Đã xảy ra lỗi khi chấm điểm bài tập: Vui lòng viết một câu đầy đủ. Vui lòng thử lại.", got.Feedback)
		assert.Empty(t, o.FreeTextRequests())
	})

	t.Run("oracle failure degrades", func(t *testing.T) {
		t.Parallel()
		o := mocks.NewMockOracleWithError(oracle.NewFatal("score_free_text", oracle.ErrRetriesExhausted))
		ev := exercise.NewEvaluator(exercise.NewRegistry(), o, nil)
		w := richWord(t, userID)
		ex := newExercise(t, domain.ExerciseSentenceConstruction, nil, w.ID)

		got := ev.Evaluate(context.Background(), ex, w, "I ate an apple for lunch.")
		assert.Equal(t, exercise.Evaluation{
			Feedback: "Đã xảy ra lỗi khi chấm điểm bài tập: grading service is unavailable. Vui lòng thử lại.",
			Degraded: true,
		}, got)
	})

	t.Run("deleted word degrades", func(t *testing.T) {
		t.Parallel()
		ev := exercise.NewEvaluator(exercise.NewRegistry(), &mocks.MockOracle{}, nil)
		ex := newExercise(t, domain.ExerciseSentenceConstruction, nil)

		got := ev.Evaluate(context.Background(), ex, nil, "I ate an apple for lunch.")
		assert.True(t, got.Degraded)
	})
}

func TestEvaluator_Pronunciation(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	o := &mocks.MockOracle{Score: oracle.Score{Score: 95, Feedback: "Clear."}}
	ev := exercise.NewEvaluator(exercise.NewRegistry(), o, nil)
	w := richWord(t, userID)
	ex := newExercise(t, domain.ExercisePronunciationPractice, nil, w.ID)

	got := ev.Evaluate(context.Background(), ex, w, "apple")
	assert.Equal(t, exercise.Evaluation{IsCorrect: true, Quality: 5, Score: 95, Feedback: "Clear."}, got)
	assert.Equal(t, "/ˈæp.əl/", o.FreeTextRequests()[0].TargetContext)
	assert.Equal(t, oracle.FreeTextPronunciation, o.FreeTextRequests()[0].Kind)

	got = ev.Evaluate(context.Background(), ex, w, "   ")
	assert.True(t, got.Degraded)
	assert.Contains(t, got.Feedback, "Vui lòng cung cấp văn bản của phát âm đã ghi âm")
	assert.Len(t, o.FreeTextRequests(), 1)
}

func TestEvaluator_UnknownTypeDegrades(t *testing.T) {
	t.Parallel()

	ev := exercise.NewEvaluator(exercise.NewRegistry(), nil, nil)

	ex := newExercise(t, domain.ExerciseFlashcard, "x")
	ex.Type = domain.ExerciseType("essay")

	got := ev.Evaluate(context.Background(), ex, nil, "anything")
	assert.True(t, got.Degraded)
	assert.Contains(t, got.Feedback, "unsupported exercise type essay")
}

func TestDegrade_UsesPlainErrorText(t *testing.T) {
	t.Parallel()

	got := exercise.Degrade(fmt.Errorf("boom"))
	assert.Equal(t, "Đã xảy ra lỗi khi chấm điểm bài tập: boom. Vui lòng thử lại.", got.Feedback)
	assert.True(t, got.Degraded)

	wrapped := fmt.Errorf("scoring: %w", &exercise.ScoringError{Reason: "bad input", Err: fmt.Errorf("detail")})
	got = exercise.Degrade(wrapped)
	assert.Equal(t, "Đã xảy ra lỗi khi chấm điểm bài tập: bad input. Vui lòng thử lại.", got.Feedback)
}
