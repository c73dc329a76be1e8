package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lexi-api/internal/api/shared"
	"github.com/phrazzld/lexi-api/internal/platform/logger"
	"github.com/phrazzld/lexi-api/internal/service"
)

// ExerciseHandler handles exercise generation and submission.
type ExerciseHandler struct {
	exercises service.ExerciseService
	logger    *slog.Logger
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exercises service.ExerciseService, logger *slog.Logger) *ExerciseHandler {
	if exercises == nil {
		panic("exercises cannot be nil for ExerciseHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExerciseHandler{
		exercises: exercises,
		logger:    logger.With(slog.String("component", "exercise_handler")),
	}
}

// Generate handles POST /exercises/generate. The body is optional.
func (h *ExerciseHandler) Generate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := handleUserID(w, r, log)
	if !ok {
		return
	}

	var req GenerateExercisesRequest
	if !decodeAndValidate(w, r, &req, true) {
		return
	}

	exercises, err := h.exercises.Generate(r.Context(), userID, req.Limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate exercises")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, ExerciseListResponse{
		Exercises: exercises,
		Count:     len(exercises),
	})
}

// List handles GET /exercises?completed=&limit=.
func (h *ExerciseHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := handleUserID(w, r, log)
	if !ok {
		return
	}

	completed, err := queryBool(r, "completed")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	exercises, err := h.exercises.ListExercises(r.Context(), userID, completed, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list exercises")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ExerciseListResponse{
		Exercises: exercises,
		Count:     len(exercises),
	})
}

// Submit handles POST /exercises/{id}/submit.
func (h *ExerciseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, exerciseID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if !decodeAndValidate(w, r, &req, false) {
		return
	}

	result, err := h.exercises.Submit(r.Context(), userID, exerciseID, req.answerText())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit answer")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}
