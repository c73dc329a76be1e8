package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
	"github.com/phrazzld/lexi-api/internal/domain/gamification"
	"github.com/phrazzld/lexi-api/internal/platform/memory"
	"github.com/phrazzld/lexi-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressService_DailyCheckIn(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	userID := uuid.New()

	checked, err := h.progress.HasCheckedInToday(ctx, userID)
	require.NoError(t, err)
	assert.False(t, checked)

	result, err := h.progress.DailyCheckIn(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, service.Granted{XP: 10, Beta: 1}, result.Granted)
	assert.Equal(t, 10, result.Progress.XP)
	assert.Equal(t, 1, result.Progress.BetaRewards)
	assert.Equal(t, 0, result.Progress.Streak, "check-in does not extend the streak")

	checked, err = h.progress.HasCheckedInToday(ctx, userID)
	require.NoError(t, err)
	assert.True(t, checked)

	h.clock.Advance(10 * time.Hour)
	_, err = h.progress.DailyCheckIn(ctx, userID)
	assert.ErrorIs(t, err, domain.ErrAlreadyCheckedIn)

	h.clock.Advance(5 * time.Hour) // next calendar day
	result, err = h.progress.DailyCheckIn(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 20, result.Progress.XP)
	assert.Equal(t, 2, result.Progress.BetaRewards)

	assert.Equal(t, 2, countKind(h.activityKinds(t, userID), domain.ActivityDailyCheckIn))
}

func TestProgressService_CheckInLevelUp(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, h.db.Progress().Save(ctx, &domain.Progress{UserID: userID, XP: 95, Level: 1}))

	result, err := h.progress.DailyCheckIn(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 105, result.Progress.XP)
	assert.Equal(t, 2, result.Progress.Level)
	assert.Equal(t, 1, countKind(h.activityKinds(t, userID), domain.ActivityLevelUp))
}

func TestProgressService_RecordCompletion(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	userID := uuid.New()

	quality := 5
	result, err := h.progress.RecordCompletion(ctx, userID, string(domain.ExerciseFlashcard), nil, &quality)
	require.NoError(t, err)
	// base 10, quality 5*2, perfect recall 3
	assert.Equal(t, 23, result.XPEarned)
	assert.Equal(t, 1, result.Progress.Streak)

	// Same day: the streak holds.
	h.clock.Advance(time.Hour)
	result, err = h.progress.RecordCompletion(ctx, userID, "review", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 10, result.XPEarned)
	assert.Equal(t, 1, result.Progress.Streak)

	// Next day: the streak grows.
	h.clock.Advance(24 * time.Hour)
	result, err = h.progress.RecordCompletion(ctx, userID, "review", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Progress.Streak)

	// A missed day resets it.
	h.clock.Advance(72 * time.Hour)
	result, err = h.progress.RecordCompletion(ctx, userID, "review", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Progress.Streak)

	bad := 101
	_, err = h.progress.RecordCompletion(ctx, userID, "review", &bad, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProgressService_GetProgressNewUser(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	userID := uuid.New()

	p, err := h.progress.GetProgress(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, p.UserID)
	assert.Equal(t, 0, p.XP)
	assert.Equal(t, 1, p.Level)
	assert.Nil(t, p.LastActivityDate)
}

func TestProgressService_GetSummary(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	userID := uuid.New()

	summary, err := h.progress.GetSummary(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Level)
	require.NotNil(t, summary.NextLevelXP)
	assert.Equal(t, 100, *summary.NextLevelXP)
	assert.Equal(t, 100, *summary.XPToNextLevel)
	assert.Len(t, summary.UpcomingMilestones, 4)
	assert.False(t, summary.CheckedInToday)
	assert.Zero(t, summary.TotalWords)

	w := h.addWord(t, userID, "apple")
	h.addWord(t, userID, "banana")
	_, err = h.vocab.UpdateSrsData(ctx, userID, w.ID, 4)
	require.NoError(t, err)
	_, err = h.progress.DailyCheckIn(ctx, userID)
	require.NoError(t, err)

	summary, err = h.progress.GetSummary(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalWords)
	assert.Equal(t, 1, summary.DueWords)
	assert.Equal(t, 10, summary.XP)
	assert.Equal(t, 90, *summary.XPToNextLevel)
	assert.True(t, summary.CheckedInToday)
}

func TestProgressService_GetSummaryWordHistory(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 6; i++ {
		h.addWord(t, userID, fmt.Sprintf("word%d", i))
	}
	stored := []struct {
		text       string
		addedAt    time.Time
		difficulty domain.Difficulty
	}{
		{"yesterday", time.Date(2025, 3, 13, 23, 30, 0, 0, time.UTC), domain.DifficultyMedium},
		{"earlier", time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC), domain.DifficultyHard},
		{"long ago", time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC), domain.DifficultyEasy},
	}
	for _, sw := range stored {
		w, err := domain.NewWord(userID, sw.text, sw.addedAt)
		require.NoError(t, err)
		w.Difficulty = sw.difficulty
		require.NoError(t, h.db.Words().Create(ctx, w))
	}

	summary, err := h.progress.GetSummary(ctx, userID)
	require.NoError(t, err)

	assert.Equal(t, 9, summary.TotalWords)
	assert.Equal(t, 6, summary.WordsToday)
	assert.Equal(t, []service.DayCount{
		{Date: "2025-03-08", Count: 0},
		{Date: "2025-03-09", Count: 0},
		{Date: "2025-03-10", Count: 0},
		{Date: "2025-03-11", Count: 0},
		{Date: "2025-03-12", Count: 1},
		{Date: "2025-03-13", Count: 1},
		{Date: "2025-03-14", Count: 6},
	}, summary.SevenDay)
	assert.Equal(t, map[domain.Difficulty]int{
		domain.DifficultyEasy:    1,
		domain.DifficultyMedium:  1,
		domain.DifficultyHard:    1,
		domain.DifficultyUnknown: 6,
	}, summary.DifficultyCounts)

	require.Len(t, summary.RecentActivities, service.RecentActivityLimit)
	assert.Equal(t, "Đã thêm từ mới: word5", summary.RecentActivities[0].Description)
}

func TestProgressService_GetSummaryDaysFollowTimeZone(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := memory.NewDB()
	userID := uuid.New()
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	ict := time.FixedZone("ICT", 7*60*60)

	// 20:00 UTC on the 13th is already the 14th in ICT.
	w, err := domain.NewWord(userID, "apple", time.Date(2025, 3, 13, 20, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, db.Words().Create(ctx, w))

	svc := service.NewProgressService(db.Progress(), db.Words(), db.Activities(),
		gamification.NewEngine(nil, ict), nil, func() time.Time { return now }, nil)
	summary, err := svc.GetSummary(ctx, userID)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.WordsToday)
	assert.Equal(t, service.DayCount{Date: "2025-03-14", Count: 1}, summary.SevenDay[6])
	assert.Empty(t, summary.RecentActivities)
	assert.NotNil(t, summary.RecentActivities)
}

func TestProgressService_GetSummaryPastMilestonesAndMaxLevel(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	userID := uuid.New()
	require.NoError(t, h.db.Progress().Save(ctx, &domain.Progress{UserID: userID, XP: 9500, Level: 10, Streak: 20}))

	summary, err := h.progress.GetSummary(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 10, summary.Level)
	assert.Nil(t, summary.NextLevelXP)
	assert.Nil(t, summary.XPToNextLevel)
	assert.Equal(t, []gamification.Milestone{{Days: 24, Beta: 15}, {Days: 33, Beta: 20}}, summary.UpcomingMilestones)
}

func TestProgressService_ListActivities(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 25; i++ {
		h.addWord(t, userID, "word"+string(rune('a'+i)))
	}

	activities, err := h.progress.ListActivities(ctx, userID, 0)
	require.NoError(t, err)
	assert.Len(t, activities, service.DefaultActivityLimit)
	assert.Equal(t, "Đã thêm từ mới: wordy", activities[0].Description)

	activities, err = h.progress.ListActivities(ctx, userID, 500)
	require.NoError(t, err)
	assert.Len(t, activities, 25)

	activities, err = h.progress.ListActivities(ctx, uuid.New(), 10)
	require.NoError(t, err)
	assert.Empty(t, activities)
}
