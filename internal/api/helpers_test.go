package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/api/shared"
	"github.com/phrazzld/lexi-api/internal/mocks"
	"github.com/stretchr/testify/require"
)

// testAPI routes requests to handlers backed by service mocks.
type testAPI struct {
	vocab     *mocks.MockVocabularyService
	exercises *mocks.MockExerciseService
	progress  *mocks.MockProgressService
	router    http.Handler
}

// newTestAPI mounts the API routes. Requests are authenticated as userID
// unless it is uuid.Nil.
func newTestAPI(t *testing.T, userID uuid.UUID) *testAPI {
	t.Helper()
	a := &testAPI{
		vocab:     &mocks.MockVocabularyService{},
		exercises: &mocks.MockExerciseService{},
		progress:  &mocks.MockProgressService{},
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := shared.SetTraceID(req.Context())
			if userID != uuid.Nil {
				ctx = shared.WithUserID(ctx, userID)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	Handlers{
		Words:     NewWordHandler(a.vocab, nil),
		Exercises: NewExerciseHandler(a.exercises, nil),
		Progress:  NewProgressHandler(a.progress, nil),
	}.Mount(r)
	a.router = r

	t.Cleanup(func() {
		a.vocab.AssertExpectations(t)
		a.exercises.AssertExpectations(t)
		a.progress.AssertExpectations(t)
	})
	return a
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	resp := decodeBody[shared.ErrorResponse](t, rec)
	require.NotEmpty(t, resp.TraceID)
	return resp
}
