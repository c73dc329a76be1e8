package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
	"github.com/phrazzld/lexi-api/internal/platform/logger"
	"github.com/phrazzld/lexi-api/internal/store"
)

const exerciseColumns = `id, user_id, word_ids, exercise_type, question, options, correct_answer,
		is_completed, user_answer, is_correct, feedback, score, created_at, completed_at`

// PostgresExerciseStore implements the store.ExerciseStore interface
// using a PostgreSQL database as the storage backend.
type PostgresExerciseStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresExerciseStore creates a new PostgreSQL implementation of the ExerciseStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresExerciseStore(db store.DBTX, logger *slog.Logger) *PostgresExerciseStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresExerciseStore{
		db:     db,
		logger: logger.With(slog.String("component", "exercise_store")),
	}
}

var _ store.ExerciseStore = (*PostgresExerciseStore)(nil)

// Create implements store.ExerciseStore.Create.
func (s *PostgresExerciseStore) Create(ctx context.Context, ex *domain.Exercise) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := ex.Validate(); err != nil {
		log.Warn("exercise validation failed during create",
			slog.String("error", err.Error()),
			slog.String("exercise_id", ex.ID.String()))
		return err
	}

	wordIDs, err := json.Marshal(ex.WordIDs)
	if err != nil {
		return store.NewStoreError("exercise", "create", "failed to encode word ids", err)
	}

	query := `
		INSERT INTO exercises (id, user_id, word_ids, exercise_type, question, options, correct_answer,
			is_completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8)
	`
	_, err = s.db.ExecContext(ctx, query,
		ex.ID,
		ex.UserID,
		wordIDs,
		string(ex.Type),
		[]byte(ex.Question),
		nullJSON(ex.Options),
		nullJSON(ex.CorrectAnswer),
		ex.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create exercise",
			slog.String("error", err.Error()),
			slog.String("exercise_id", ex.ID.String()),
			slog.String("exercise_type", string(ex.Type)))
		return MapError(err)
	}

	log.Debug("exercise created",
		slog.String("exercise_id", ex.ID.String()),
		slog.String("exercise_type", string(ex.Type)))
	return nil
}

// GetByID implements store.ExerciseStore.GetByID.
// Returns store.ErrExerciseNotFound if the exercise does not exist.
func (s *PostgresExerciseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + exerciseColumns + ` FROM exercises WHERE id = $1`
	ex, err := scanExercise(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("exercise not found", slog.String("exercise_id", id.String()))
			return nil, store.ErrExerciseNotFound
		}
		log.Error("failed to get exercise by ID",
			slog.String("error", err.Error()),
			slog.String("exercise_id", id.String()))
		return nil, MapError(err)
	}
	return ex, nil
}

// ListByUser implements store.ExerciseStore.ListByUser.
func (s *PostgresExerciseStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	filter store.ExerciseFilter,
) ([]*domain.Exercise, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var completed, limit any
	if filter.Completed != nil {
		completed = *filter.Completed
	}
	if filter.Limit > 0 {
		limit = filter.Limit
	}

	query := `
		SELECT ` + exerciseColumns + `
		FROM exercises
		WHERE user_id = $1 AND ($2::boolean IS NULL OR is_completed = $2)
		ORDER BY created_at DESC, id
		LIMIT $3
	`
	rows, err := s.db.QueryContext(ctx, query, userID, completed, limit)
	if err != nil {
		log.Error("failed to query exercises",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	exercises := []*domain.Exercise{}
	for rows.Next() {
		ex, err := scanExercise(rows)
		if err != nil {
			log.Error("failed to scan exercise row", slog.String("error", err.Error()))
			return nil, err
		}
		exercises = append(exercises, ex)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}
	return exercises, nil
}

// Complete implements store.ExerciseStore.Complete. The update only matches a
// pending row; when nothing matches, the row is re-read to tell a missing
// exercise from an already completed one.
func (s *PostgresExerciseStore) Complete(ctx context.Context, ex *domain.Exercise) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !ex.IsCompleted || ex.Result == nil || ex.CompletedAt == nil {
		return store.NewStoreError("exercise", "complete", "exercise carries no result", store.ErrInvalidEntity)
	}

	query := `
		UPDATE exercises
		SET is_completed = TRUE, user_answer = $1, is_correct = $2, feedback = $3, score = $4, completed_at = $5
		WHERE id = $6 AND is_completed = FALSE
	`
	result, err := s.db.ExecContext(ctx, query,
		ex.Result.UserAnswer,
		ex.Result.IsCorrect,
		ex.Result.Feedback,
		ex.Result.Score,
		ex.CompletedAt.UTC(),
		ex.ID,
	)
	if err != nil {
		log.Error("failed to complete exercise",
			slog.String("error", err.Error()),
			slog.String("exercise_id", ex.ID.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		var completed bool
		err := s.db.QueryRowContext(ctx, `SELECT is_completed FROM exercises WHERE id = $1`, ex.ID).Scan(&completed)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return store.ErrExerciseNotFound
		case err != nil:
			return MapError(err)
		case completed:
			log.Debug("exercise already completed", slog.String("exercise_id", ex.ID.String()))
			return store.ErrExerciseCompleted
		default:
			return store.NewStoreError("exercise", "complete", "row was not updated", store.ErrUpdateFailed)
		}
	}

	log.Debug("exercise completed",
		slog.String("exercise_id", ex.ID.String()),
		slog.Bool("is_correct", ex.Result.IsCorrect),
		slog.Int("score", ex.Result.Score))
	return nil
}

func scanExercise(row rowScanner) (*domain.Exercise, error) {
	var (
		ex                   domain.Exercise
		wordIDs, question    []byte
		options, answer      []byte
		typ                  string
		userAnswer, feedback sql.NullString
		isCorrect            sql.NullBool
		score                sql.NullInt64
		completedAt          sql.NullTime
	)
	err := row.Scan(
		&ex.ID,
		&ex.UserID,
		&wordIDs,
		&typ,
		&question,
		&options,
		&answer,
		&ex.IsCompleted,
		&userAnswer,
		&isCorrect,
		&feedback,
		&score,
		&ex.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(wordIDs, &ex.WordIDs); err != nil {
		return nil, fmt.Errorf("failed to decode word ids: %w", err)
	}
	ex.Type = domain.ExerciseType(typ)
	ex.Question = json.RawMessage(question)
	if len(options) > 0 {
		ex.Options = json.RawMessage(options)
	}
	if len(answer) > 0 {
		ex.CorrectAnswer = json.RawMessage(answer)
	}
	ex.CreatedAt = ex.CreatedAt.UTC()
	ex.CompletedAt = timePtr(completedAt)

	if ex.IsCompleted {
		ex.Result = &domain.ExerciseResult{
			UserAnswer: userAnswer.String,
			IsCorrect:  isCorrect.Bool,
			Feedback:   feedback.String,
			Score:      int(score.Int64),
		}
	}
	return &ex, nil
}

func nullJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
