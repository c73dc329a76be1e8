package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
	"github.com/phrazzld/lexi-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testWord(userID uuid.UUID, text string) *domain.Word {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	w, _ := domain.NewWord(userID, text, now)
	return w
}

func TestWordHandler_AddWord(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	t.Run("created", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t, userID)
		word := testWord(userID, "apple")
		a.vocab.On("AddWord", mock.Anything, userID, service.WordInput{
			Word:        "apple",
			Translation: "quả táo",
			Difficulty:  "easy",
		}).Return(word, nil)

		rec := a.do(t, http.MethodPost, "/words", map[string]any{
			"word":        "apple",
			"translation": "quả táo",
			"difficulty":  "Easy",
		})

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		got := decodeBody[domain.Word](t, rec)
		assert.Equal(t, word.ID, got.ID)
		assert.Equal(t, "apple", got.Text)
	})

	t.Run("duplicate", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t, userID)
		a.vocab.On("AddWord", mock.Anything, userID, mock.Anything).
			Return(nil, service.NewServiceError("add_word", "word exists", domain.ErrDuplicateWord))

		rec := a.do(t, http.MethodPost, "/words", map[string]any{"word": "apple"})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "Word already exists", errorBody(t, rec).Error)
	})

	badRequests := []struct {
		name    string
		body    any
		message string
	}{
		{"invalid json", `{"word":`, ""},
		{"missing word", map[string]any{"translation": "táo"}, "Invalid word: required field"},
		{"unknown difficulty", map[string]any{"word": "apple", "difficulty": "extreme"}, "Invalid difficulty: invalid value"},
		{"bad audio url", map[string]any{"word": "apple", "audio_url": "not a url"}, "Invalid audio_url: invalid URL"},
	}
	for _, tc := range badRequests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			a := newTestAPI(t, userID)

			rec := a.do(t, http.MethodPost, "/words", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			if tc.message != "" {
				assert.Equal(t, tc.message, errorBody(t, rec).Error)
			}
		})
	}

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t, uuid.Nil)

		rec := a.do(t, http.MethodPost, "/words", map[string]any{"word": "apple"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestWordHandler_ListWords(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	t.Run("paged", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t, userID)
		words := []*domain.Word{testWord(userID, "apple"), testWord(userID, "pear")}
		a.vocab.On("ListWords", mock.Anything, userID, service.ListOptions{Limit: 2, Offset: 4}).Return(words, nil)

		rec := a.do(t, http.MethodGet, "/words?limit=2&offset=4", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[WordListResponse](t, rec)
		assert.Equal(t, 2, resp.Count)
		assert.Equal(t, 2, resp.Limit)
		assert.Equal(t, 4, resp.Offset)
	})

	t.Run("invalid limit", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t, userID)

		rec := a.do(t, http.MethodGet, "/words?limit=ten", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid limit: must be an integer", errorBody(t, rec).Error)
	})

	t.Run("due", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t, userID)
		a.vocab.On("GetDueWords", mock.Anything, userID).Return([]*domain.Word{}, nil)

		rec := a.do(t, http.MethodGet, "/words/due", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"words":[],"count":0}`, rec.Body.String())
	})
}

func TestWordHandler_GetAndDelete(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	word := testWord(userID, "apple")

	t.Run("get", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t, userID)
		a.vocab.On("GetWord", mock.Anything, userID, word.ID).Return(word, nil)

		rec := a.do(t, http.MethodGet, "/words/"+word.ID.String(), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, word.ID, decodeBody[domain.Word](t, rec).ID)
	})

	t.Run("invalid id", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t, userID)

		rec := a.do(t, http.MethodGet, "/words/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid id: has invalid format", errorBody(t, rec).Error)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t, userID)
		a.vocab.On("GetWord", mock.Anything, userID, word.ID).
			Return(nil, service.NewServiceError("get_word", "word not found", domain.ErrNotFound))

		rec := a.do(t, http.MethodGet, "/words/"+word.ID.String(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Word not found", errorBody(t, rec).Error)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t, userID)
		a.vocab.On("DeleteWord", mock.Anything, userID, word.ID).Return(nil)

		rec := a.do(t, http.MethodDelete, "/words/"+word.ID.String(), nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestWordHandler_UpdateWord(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	word := testWord(userID, "apple")
	path := "/words/" + word.ID.String()

	t.Run("only sent fields are updated", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t, userID)
		a.vocab.On("UpdateWord", mock.Anything, userID, word.ID, mock.MatchedBy(func(u service.WordUpdate) bool {
			return u.VietnameseDefinition != nil && *u.VietnameseDefinition == "quả táo" &&
				u.Difficulty != nil && *u.Difficulty == "hard" &&
				u.Synonyms != nil && len(*u.Synonyms) == 0 &&
				u.Word == nil && u.Translation == nil && u.Notes == nil
		})).Return(word, nil)

		rec := a.do(t, http.MethodPut, path, map[string]any{
			"vietnamese_definition": "quả táo",
			"difficulty":            " HARD ",
			"synonyms":              []string{},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, word.ID, decodeBody[domain.Word](t, rec).ID)
	})

	t.Run("new text already exists", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t, userID)
		a.vocab.On("UpdateWord", mock.Anything, userID, word.ID, mock.Anything).
			Return(nil, service.NewServiceError("update_word", "word exists", domain.ErrDuplicateWord))

		rec := a.do(t, http.MethodPut, path, map[string]any{"word": "pear"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t, userID)
		a.vocab.On("UpdateWord", mock.Anything, userID, word.ID, mock.Anything).
			Return(nil, service.NewServiceError("update_word", "word not found", domain.ErrNotFound))

		rec := a.do(t, http.MethodPut, path, map[string]any{"notes": "fruit"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	badRequests := []struct {
		name string
		body any
	}{
		{"empty word", map[string]any{"word": "   "}},
		{"unknown difficulty", map[string]any{"difficulty": "extreme"}},
		{"invalid json", `{"notes":`},
	}
	for _, tc := range badRequests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			a := newTestAPI(t, userID)

			rec := a.do(t, http.MethodPut, path, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestWordHandler_ReviewWord(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	word := testWord(userID, "apple")
	path := "/words/" + word.ID.String() + "/review"

	t.Run("reviewed", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t, userID)
		a.vocab.On("UpdateSrsData", mock.Anything, userID, word.ID, 0).Return(word, nil)

		rec := a.do(t, http.MethodPost, path, map[string]any{"quality": 0})
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	for _, body := range []any{map[string]any{}, map[string]any{"quality": 6}, map[string]any{"quality": -1}} {
		a := newTestAPI(t, userID)
		rec := a.do(t, http.MethodPost, path, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %v", body)
	}
}
