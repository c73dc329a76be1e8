package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/lexi-api/internal/api/middleware"
	"github.com/phrazzld/lexi-api/internal/api/shared"
	"github.com/phrazzld/lexi-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()
	log, buf := logger.NewTestLogger()

	var traceID string
	handler := middleware.NewTraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).InfoContext(r.Context(), "inside handler")
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	require.Len(t, traceID, 2*shared.TraceIDLength)

	entries, err := buf.Entries()
	require.NoError(t, err)

	var sawHandler, sawCompletion bool
	for _, e := range entries {
		assert.Equal(t, traceID, e["trace_id"], "every entry carries the trace ID")
		switch e["msg"] {
		case "inside handler":
			sawHandler = true
		case "request completed":
			sawCompletion = true
			assert.EqualValues(t, http.StatusTeapot, e["status"])
		}
	}
	assert.True(t, sawHandler)
	assert.True(t, sawCompletion)
}
