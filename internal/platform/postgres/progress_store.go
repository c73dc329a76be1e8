package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
	"github.com/phrazzld/lexi-api/internal/platform/logger"
	"github.com/phrazzld/lexi-api/internal/store"
)

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the ProgressStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// Get implements store.ProgressStore.Get.
// Returns store.ErrProgressNotFound if nothing has been stored for the user.
func (s *PostgresProgressStore) Get(ctx context.Context, userID uuid.UUID) (*domain.Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, xp, level, streak, last_activity_date, last_check_in_date, beta_rewards, updated_at
		FROM user_progress
		WHERE user_id = $1
	`
	var (
		p                   domain.Progress
		lastActivity, check sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID,
		&p.XP,
		&p.Level,
		&p.Streak,
		&lastActivity,
		&check,
		&p.BetaRewards,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("progress not found", slog.String("user_id", userID.String()))
			return nil, store.ErrProgressNotFound
		}
		log.Error("failed to get progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	p.LastActivityDate = datePtr(lastActivity)
	p.LastCheckInDate = datePtr(check)
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

// Save implements store.ProgressStore.Save as an upsert.
func (s *PostgresProgressStore) Save(ctx context.Context, p *domain.Progress) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if p.UserID == uuid.Nil {
		return store.NewStoreError("progress", "save", "missing user", domain.ErrInvalidID)
	}

	query := `
		INSERT INTO user_progress
			(user_id, xp, level, streak, last_activity_date, last_check_in_date, beta_rewards, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			xp = EXCLUDED.xp,
			level = EXCLUDED.level,
			streak = EXCLUDED.streak,
			last_activity_date = EXCLUDED.last_activity_date,
			last_check_in_date = EXCLUDED.last_check_in_date,
			beta_rewards = EXCLUDED.beta_rewards,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		p.UserID,
		p.XP,
		p.Level,
		p.Streak,
		nullDate(p.LastActivityDate),
		nullDate(p.LastCheckInDate),
		p.BetaRewards,
		p.UpdatedAt.UTC(),
	)
	if err != nil {
		log.Error("failed to save progress",
			slog.String("error", err.Error()),
			slog.String("user_id", p.UserID.String()))
		return MapError(err)
	}

	log.Debug("progress saved",
		slog.String("user_id", p.UserID.String()),
		slog.Int("xp", p.XP),
		slog.Int("level", p.Level),
		slog.Int("streak", p.Streak))
	return nil
}

// datePtr normalizes a DATE column to midnight UTC of the same calendar day.
func datePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	y, m, d := t.Time.Date()
	v := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &v
}

// nullDate renders a calendar day as a DATE literal so the session time zone
// cannot shift it.
func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.DateOnly)
}
