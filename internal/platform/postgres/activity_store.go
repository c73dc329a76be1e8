package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
	"github.com/phrazzld/lexi-api/internal/platform/logger"
	"github.com/phrazzld/lexi-api/internal/store"
)

// PostgresActivityStore implements the store.ActivityStore interface
// using a PostgreSQL database as the storage backend.
type PostgresActivityStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresActivityStore creates a new PostgreSQL implementation of the ActivityStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresActivityStore(db store.DBTX, logger *slog.Logger) *PostgresActivityStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresActivityStore{
		db:     db,
		logger: logger.With(slog.String("component", "activity_store")),
	}
}

var _ store.ActivityStore = (*PostgresActivityStore)(nil)

// Create implements store.ActivityStore.Create.
func (s *PostgresActivityStore) Create(ctx context.Context, a *domain.Activity) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var details any
	if len(a.Details) > 0 {
		raw, err := json.Marshal(a.Details)
		if err != nil {
			return store.NewStoreError("activity", "create", "failed to encode details", err)
		}
		details = raw
	}

	var relatedID any
	if a.RelatedID != nil {
		relatedID = *a.RelatedID
	}

	query := `
		INSERT INTO activity_log (id, user_id, kind, description, related_id, related_type, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		a.ID,
		a.UserID,
		string(a.Kind),
		a.Description,
		relatedID,
		a.RelatedType,
		details,
		a.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create activity",
			slog.String("error", err.Error()),
			slog.String("kind", string(a.Kind)),
			slog.String("user_id", a.UserID.String()))
		return MapError(err)
	}
	return nil
}

// ListByUser implements store.ActivityStore.ListByUser.
func (s *PostgresActivityStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Activity, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var lim any
	if limit > 0 {
		lim = limit
	}

	query := `
		SELECT id, user_id, kind, description, related_id, related_type, details, created_at
		FROM activity_log
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, userID, lim)
	if err != nil {
		log.Error("failed to query activities",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	activities := []*domain.Activity{}
	for rows.Next() {
		var (
			a         domain.Activity
			kind      string
			relatedID uuid.NullUUID
			details   []byte
		)
		if err := rows.Scan(
			&a.ID,
			&a.UserID,
			&kind,
			&a.Description,
			&relatedID,
			&a.RelatedType,
			&details,
			&a.CreatedAt,
		); err != nil {
			log.Error("failed to scan activity row", slog.String("error", err.Error()))
			return nil, err
		}

		a.Kind = domain.ActivityKind(kind)
		a.CreatedAt = a.CreatedAt.UTC()
		if relatedID.Valid {
			id := relatedID.UUID
			a.RelatedID = &id
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &a.Details); err != nil {
				return nil, fmt.Errorf("failed to decode activity details: %w", err)
			}
		}
		activities = append(activities, &a)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}
	return activities, nil
}
