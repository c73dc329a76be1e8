package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lexi-api/internal/api/shared"
	"github.com/phrazzld/lexi-api/internal/platform/logger"
	"github.com/phrazzld/lexi-api/internal/service"
)

// ProgressHandler handles progress, check-in and activity log requests.
type ProgressHandler struct {
	progress service.ProgressService
	logger   *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progress service.ProgressService, logger *slog.Logger) *ProgressHandler {
	if progress == nil {
		panic("progress cannot be nil for ProgressHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressHandler{
		progress: progress,
		logger:   logger.With(slog.String("component", "progress_handler")),
	}
}

// CheckIn handles POST /check-in.
func (h *ProgressHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := handleUserID(w, r, log)
	if !ok {
		return
	}

	result, err := h.progress.DailyCheckIn(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to check in")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// CheckInStatus handles GET /check-in.
func (h *ProgressHandler) CheckInStatus(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := handleUserID(w, r, log)
	if !ok {
		return
	}

	checked, err := h.progress.HasCheckedInToday(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get check-in status")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CheckInStatusResponse{CheckedIn: checked})
}

// Summary handles GET /progress.
func (h *ProgressHandler) Summary(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := handleUserID(w, r, log)
	if !ok {
		return
	}

	summary, err := h.progress.GetSummary(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get progress")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// Activities handles GET /activities?limit=.
func (h *ProgressHandler) Activities(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := handleUserID(w, r, log)
	if !ok {
		return
	}

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	activities, err := h.progress.ListActivities(r.Context(), userID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list activities")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ActivityListResponse{
		Activities: activities,
		Count:      len(activities),
	})
}
