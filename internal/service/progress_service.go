package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
	"github.com/phrazzld/lexi-api/internal/domain/gamification"
	"github.com/phrazzld/lexi-api/internal/events"
	"github.com/phrazzld/lexi-api/internal/platform/logger"
	"github.com/phrazzld/lexi-api/internal/store"
)

// Activity listing bounds.
const (
	DefaultActivityLimit = 20
	MaxActivityLimit     = 100
	// RecentActivityLimit is the number of activities on the dashboard.
	RecentActivityLimit = 5
	// activityDays is the length of the dashboard's word-adding history.
	activityDays = 7
)

// DayCount is the number of words added on one calendar day (YYYY-MM-DD).
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// CompletionResult is the progress change caused by one completion.
type CompletionResult struct {
	Progress  *domain.Progress `json:"progress"`
	XPEarned  int              `json:"xp_earned"`
	NewLevel  int              `json:"new_level"`
	LeveledUp bool             `json:"leveled_up"`
	// RewardEarned is the streak milestone bonus, if one was reached.
	RewardEarned *int `json:"reward_earned,omitempty"`
}

// Granted is what a daily check-in awarded.
type Granted struct {
	XP   int `json:"xp"`
	Beta int `json:"beta"`
}

// CheckInResult is the outcome of a daily check-in.
type CheckInResult struct {
	Progress *domain.Progress `json:"progress"`
	Granted  Granted          `json:"granted"`
}

// Summary is the user's progress dashboard.
type Summary struct {
	XP          int `json:"xp"`
	Level       int `json:"level"`
	Streak      int `json:"streak"`
	BetaRewards int `json:"beta_rewards"`
	// NextLevelXP and XPToNextLevel are nil at the maximum level.
	NextLevelXP        *int                     `json:"next_level_xp"`
	XPToNextLevel      *int                     `json:"xp_to_next_level"`
	CheckedInToday     bool                     `json:"checked_in_today"`
	LastActivityDate   *time.Time               `json:"last_activity_date,omitempty"`
	DueWords           int                      `json:"due_words"`
	TotalWords         int                      `json:"total_words"`
	UpcomingMilestones []gamification.Milestone `json:"upcoming_milestones"`
	// WordsToday and SevenDay count words by the day they were added, in
	// the gamification time zone. SevenDay ends today, oldest first.
	WordsToday       int                       `json:"words_today"`
	SevenDay         []DayCount                `json:"seven_day"`
	DifficultyCounts map[domain.Difficulty]int `json:"difficulty_counts"`
	RecentActivities []*domain.Activity        `json:"recent_activities"`
}

// ProgressService applies gamification events to a user's progress.
type ProgressService interface {
	// RecordCompletion applies a completed activity of the given kind.
	// score (0-100) and quality (0-5) may be nil.
	RecordCompletion(ctx context.Context, userID uuid.UUID, kind string, score, quality *int) (*CompletionResult, error)

	// DailyCheckIn grants the daily reward once per calendar day.
	// Returns domain.ErrAlreadyCheckedIn on a second attempt the same day.
	DailyCheckIn(ctx context.Context, userID uuid.UUID) (*CheckInResult, error)

	// HasCheckedInToday reports whether today's check-in was already made.
	HasCheckedInToday(ctx context.Context, userID uuid.UUID) (bool, error)

	// GetProgress returns the user's progress, or the starting state.
	GetProgress(ctx context.Context, userID uuid.UUID) (*domain.Progress, error)

	// GetSummary returns the progress dashboard.
	GetSummary(ctx context.Context, userID uuid.UUID) (*Summary, error)

	// ListActivities returns the user's activity log, newest first.
	ListActivities(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Activity, error)
}

type progressServiceImpl struct {
	progress   store.ProgressStore
	words      store.WordStore
	activities store.ActivityStore
	engine     *gamification.Engine
	emitter    events.EventEmitter
	clock      Clock
	logger     *slog.Logger
}

var _ ProgressService = (*progressServiceImpl)(nil)

// NewProgressService creates a ProgressService. A nil engine applies the
// default rules in UTC and a nil emitter discards events.
func NewProgressService(
	progress store.ProgressStore,
	words store.WordStore,
	activities store.ActivityStore,
	engine *gamification.Engine,
	emitter events.EventEmitter,
	clock Clock,
	logger *slog.Logger,
) ProgressService {
	if progress == nil {
		panic("progress cannot be nil")
	}
	if words == nil {
		panic("words cannot be nil")
	}
	if activities == nil {
		panic("activities cannot be nil")
	}
	if engine == nil {
		engine = gamification.NewEngine(nil, nil)
	}
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &progressServiceImpl{
		progress:   progress,
		words:      words,
		activities: activities,
		engine:     engine,
		emitter:    emitter,
		clock:      clock,
		logger:     logger.With(slog.String("component", "progress_service")),
	}
}

// load returns the stored progress, or the starting state for a new user.
func (s *progressServiceImpl) load(ctx context.Context, operation string, userID uuid.UUID) (domain.Progress, error) {
	p, err := s.progress.Get(ctx, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return *domain.NewProgress(userID), nil
		}
		return domain.Progress{}, NewServiceError(operation, "failed to load progress", err)
	}
	return *p, nil
}

// RecordCompletion implements ProgressService.RecordCompletion.
func (s *progressServiceImpl) RecordCompletion(
	ctx context.Context,
	userID uuid.UUID,
	kind string,
	score, quality *int,
) (*CompletionResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.clock.now()

	state, err := s.load(ctx, "record_completion", userID)
	if err != nil {
		return nil, err
	}

	out, err := s.engine.Apply(state, gamification.Completion{Kind: kind, Score: score, Quality: quality}, now)
	if err != nil {
		return nil, err
	}
	next := out.Progress
	if err := s.progress.Save(ctx, &next); err != nil {
		return nil, NewServiceError("record_completion", "failed to save progress", err)
	}

	log.DebugContext(ctx, "completion recorded",
		slog.String("user_id", userID.String()),
		slog.String("kind", kind),
		slog.Int("xp_earned", out.XPEarned),
		slog.Int("streak", next.Streak),
		slog.Int("level", next.Level))

	result := &CompletionResult{
		Progress:  &next,
		XPEarned:  out.XPEarned,
		NewLevel:  out.NewLevel,
		LeveledUp: out.LeveledUp,
	}

	if out.LeveledUp {
		emit(ctx, s.emitter, log, domain.ActivityLevelUp, userID,
			fmt.Sprintf("Chúc mừng! Bạn đã đạt cấp độ %d.", out.NewLevel),
			map[string]any{"previous_level": out.PreviousLevel, "new_level": out.NewLevel},
			nil, now)
	}
	if out.StreakReward != nil {
		reward := out.StreakReward.Beta
		result.RewardEarned = &reward
		emit(ctx, s.emitter, log, domain.ActivityStreakReward, userID,
			fmt.Sprintf("Chuỗi %d ngày! Bạn nhận được %d phần thưởng.", out.StreakReward.Days, reward),
			map[string]any{"streak": out.StreakReward.Days, "beta": reward},
			nil, now)
	}
	return result, nil
}

// DailyCheckIn implements ProgressService.DailyCheckIn.
func (s *progressServiceImpl) DailyCheckIn(ctx context.Context, userID uuid.UUID) (*CheckInResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.clock.now()

	state, err := s.load(ctx, "daily_check_in", userID)
	if err != nil {
		return nil, err
	}

	out, err := s.engine.Apply(state, gamification.CheckIn{}, now)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyCheckedIn) {
			log.DebugContext(ctx, "user already checked in today", slog.String("user_id", userID.String()))
		}
		return nil, err
	}
	next := out.Progress
	if err := s.progress.Save(ctx, &next); err != nil {
		return nil, NewServiceError("daily_check_in", "failed to save progress", err)
	}

	granted := Granted{XP: out.XPEarned, Beta: out.BetaEarned}
	log.InfoContext(ctx, "daily check-in",
		slog.String("user_id", userID.String()),
		slog.Int("xp", granted.XP),
		slog.Int("beta", granted.Beta))
	emit(ctx, s.emitter, log, domain.ActivityDailyCheckIn, userID,
		fmt.Sprintf("Điểm danh hằng ngày: +%d XP, +%d phần thưởng.", granted.XP, granted.Beta),
		map[string]any{"xp": granted.XP, "beta": granted.Beta},
		nil, now)
	if out.LeveledUp {
		emit(ctx, s.emitter, log, domain.ActivityLevelUp, userID,
			fmt.Sprintf("Chúc mừng! Bạn đã đạt cấp độ %d.", out.NewLevel),
			map[string]any{"previous_level": out.PreviousLevel, "new_level": out.NewLevel},
			nil, now)
	}

	return &CheckInResult{Progress: &next, Granted: granted}, nil
}

// HasCheckedInToday implements ProgressService.HasCheckedInToday.
func (s *progressServiceImpl) HasCheckedInToday(ctx context.Context, userID uuid.UUID) (bool, error) {
	state, err := s.load(ctx, "has_checked_in_today", userID)
	if err != nil {
		return false, err
	}
	return s.engine.CheckedInOn(state, s.clock.now()), nil
}

// GetProgress implements ProgressService.GetProgress.
func (s *progressServiceImpl) GetProgress(ctx context.Context, userID uuid.UUID) (*domain.Progress, error) {
	state, err := s.load(ctx, "get_progress", userID)
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// GetSummary implements ProgressService.GetSummary.
func (s *progressServiceImpl) GetSummary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	now := s.clock.now()

	state, err := s.load(ctx, "get_summary", userID)
	if err != nil {
		return nil, err
	}
	words, err := s.words.ListByUser(ctx, userID, 0, 0)
	if err != nil {
		return nil, NewServiceError("get_summary", "failed to list words", err)
	}
	due, err := s.words.CountDue(ctx, userID, now)
	if err != nil {
		return nil, NewServiceError("get_summary", "failed to count due words", err)
	}
	recent, err := s.activities.ListByUser(ctx, userID, RecentActivityLimit)
	if err != nil {
		return nil, NewServiceError("get_summary", "failed to list activities", err)
	}
	if recent == nil {
		recent = []*domain.Activity{}
	}

	level := s.engine.CalculateLevel(state.XP)
	summary := &Summary{
		XP:                 state.XP,
		Level:              level,
		Streak:             state.Streak,
		BetaRewards:        state.BetaRewards,
		CheckedInToday:     s.engine.CheckedInOn(state, now),
		LastActivityDate:   state.LastActivityDate,
		DueWords:           due,
		TotalWords:         len(words),
		UpcomingMilestones: s.engine.UpcomingMilestones(state.Streak),
		RecentActivities:   recent,
	}
	s.countWords(summary, words, now)
	if summary.UpcomingMilestones == nil {
		summary.UpcomingMilestones = []gamification.Milestone{}
	}
	if threshold, ok := s.engine.NextLevelThreshold(level); ok {
		remaining := threshold - state.XP
		summary.NextLevelXP = &threshold
		summary.XPToNextLevel = &remaining
	}
	return summary, nil
}

// countWords fills the per-day and per-difficulty word counts of summary.
func (s *progressServiceImpl) countWords(summary *Summary, words []*domain.Word, now time.Time) {
	today := s.engine.Today(now)
	first := today.AddDate(0, 0, -(activityDays - 1))

	summary.SevenDay = make([]DayCount, activityDays)
	for i := range summary.SevenDay {
		summary.SevenDay[i].Date = first.AddDate(0, 0, i).Format(time.DateOnly)
	}
	summary.DifficultyCounts = map[domain.Difficulty]int{
		domain.DifficultyEasy:    0,
		domain.DifficultyMedium:  0,
		domain.DifficultyHard:    0,
		domain.DifficultyUnknown: 0,
	}

	for _, w := range words {
		d := w.Difficulty
		if !d.Valid() {
			d = domain.DifficultyUnknown
		}
		summary.DifficultyCounts[d]++

		added := s.engine.Today(w.AddedAt)
		if added.Before(first) || added.After(today) {
			continue
		}
		summary.SevenDay[int(added.Sub(first).Hours()/24)].Count++
		if added.Equal(today) {
			summary.WordsToday++
		}
	}
}

// ListActivities implements ProgressService.ListActivities.
func (s *progressServiceImpl) ListActivities(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.Activity, error) {
	switch {
	case limit <= 0:
		limit = DefaultActivityLimit
	case limit > MaxActivityLimit:
		limit = MaxActivityLimit
	}
	activities, err := s.activities.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, NewServiceError("list_activities", "failed to list activities", err)
	}
	return activities, nil
}
