package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
	"github.com/phrazzld/lexi-api/internal/domain/gamification"
	"github.com/phrazzld/lexi-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProgressHandler_CheckIn(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	t.Run("granted", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t, userID)
		a.progress.On("DailyCheckIn", mock.Anything, userID).Return(&service.CheckInResult{
			Progress: &domain.Progress{UserID: userID, XP: 10, Level: 1, BetaRewards: 1},
			Granted:  service.Granted{XP: 10, Beta: 1},
		}, nil)

		rec := a.do(t, http.MethodPost, "/check-in", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[service.CheckInResult](t, rec)
		assert.Equal(t, service.Granted{XP: 10, Beta: 1}, resp.Granted)
	})

	t.Run("twice", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t, userID)
		a.progress.On("DailyCheckIn", mock.Anything, userID).Return(nil, domain.ErrAlreadyCheckedIn)

		rec := a.do(t, http.MethodPost, "/check-in", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "Already checked in today", errorBody(t, rec).Error)
	})

	t.Run("status", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t, userID)
		a.progress.On("HasCheckedInToday", mock.Anything, userID).Return(true, nil)

		rec := a.do(t, http.MethodGet, "/check-in", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"checked_in":true}`, rec.Body.String())
	})
}

func TestProgressHandler_Summary(t *testing.T) {
	t.Parallel()
	userID := uuid.New()
	a := newTestAPI(t, userID)
	next, remaining := 100, 90
	a.progress.On("GetSummary", mock.Anything, userID).Return(&service.Summary{
		XP:                 10,
		Level:              1,
		NextLevelXP:        &next,
		XPToNextLevel:      &remaining,
		UpcomingMilestones: []gamification.Milestone{{Days: 10, Beta: 5}},
		WordsToday:         2,
		SevenDay:           []service.DayCount{{Date: "2025-03-14", Count: 2}},
		DifficultyCounts:   map[domain.Difficulty]int{domain.DifficultyUnknown: 2},
		RecentActivities:   []*domain.Activity{},
	}, nil)

	rec := a.do(t, http.MethodGet, "/progress", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[map[string]any](t, rec)
	assert.EqualValues(t, 90, resp["xp_to_next_level"])
	assert.Len(t, resp["upcoming_milestones"], 1)
	assert.EqualValues(t, 2, resp["words_today"])
	assert.Equal(t, []any{map[string]any{"date": "2025-03-14", "count": float64(2)}}, resp["seven_day"])
	assert.Equal(t, map[string]any{"unknown": float64(2)}, resp["difficulty_counts"])
	assert.Equal(t, []any{}, resp["recent_activities"])
}

func TestProgressHandler_Activities(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	t.Run("limit", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t, userID)
		a.progress.On("ListActivities", mock.Anything, userID, 5).Return([]*domain.Activity{}, nil)

		rec := a.do(t, http.MethodGet, "/activities?limit=5", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"activities":[],"count":0}`, rec.Body.String())
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t, userID)
		a.progress.On("ListActivities", mock.Anything, userID, 0).
			Return(nil, service.NewServiceError("list_activities", "failed", assert.AnError))

		rec := a.do(t, http.MethodGet, "/activities", nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to list activities", errorBody(t, rec).Error)
	})
}
