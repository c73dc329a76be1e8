package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
	"github.com/phrazzld/lexi-api/internal/platform/logger"
	"github.com/phrazzld/lexi-api/internal/store"
)

const wordColumns = `id, user_id, word, translation, word_type, phonetic, audio_url,
		english_definition, example, synonyms, antonyms, vietnamese_definition,
		vietnamese_example, difficulty, notes, added_at, repetitions, ease_factor,
		last_reviewed_at, next_review_at`

// PostgresWordStore implements the store.WordStore interface
// using a PostgreSQL database as the storage backend.
type PostgresWordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresWordStore creates a new PostgreSQL implementation of the WordStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresWordStore(db store.DBTX, logger *slog.Logger) *PostgresWordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresWordStore{
		db:     db,
		logger: logger.With(slog.String("component", "word_store")),
	}
}

var _ store.WordStore = (*PostgresWordStore)(nil)

// Create implements store.WordStore.Create.
// Returns store.ErrWordExists if the user already has the word.
func (s *PostgresWordStore) Create(ctx context.Context, word *domain.Word) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := word.Validate(); err != nil {
		log.Warn("word validation failed during create",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return err
	}

	synonyms, err := encodeStrings(word.Synonyms)
	if err != nil {
		return store.NewStoreError("word", "create", "failed to encode synonyms", err)
	}
	antonyms, err := encodeStrings(word.Antonyms)
	if err != nil {
		return store.NewStoreError("word", "create", "failed to encode antonyms", err)
	}

	query := `
		INSERT INTO words (` + wordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`
	_, err = s.db.ExecContext(ctx, query,
		word.ID,
		word.UserID,
		word.Text,
		word.Translation,
		word.WordType,
		word.Phonetic,
		word.AudioURL,
		word.EnglishDefinition,
		word.Example,
		synonyms,
		antonyms,
		word.VietnameseDefinition,
		word.VietnameseExample,
		string(difficultyOrUnknown(word.Difficulty)),
		word.Notes,
		word.AddedAt,
		word.Repetitions,
		word.EaseFactor,
		nullTime(word.LastReviewedAt),
		word.NextReviewAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("duplicate word",
				slog.String("user_id", word.UserID.String()),
				slog.String("word", word.Text))
		} else {
			log.Error("failed to create word",
				slog.String("error", err.Error()),
				slog.String("word_id", word.ID.String()))
		}
		return MapUniqueViolation(err, store.ErrWordExists)
	}

	log.Debug("word created",
		slog.String("word_id", word.ID.String()),
		slog.String("user_id", word.UserID.String()))
	return nil
}

// GetByID implements store.WordStore.GetByID.
// Returns store.ErrWordNotFound if the word does not exist.
func (s *PostgresWordStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + wordColumns + ` FROM words WHERE id = $1`
	word, err := scanWord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("word not found", slog.String("word_id", id.String()))
			return nil, store.ErrWordNotFound
		}
		log.Error("failed to get word by ID",
			slog.String("error", err.Error()),
			slog.String("word_id", id.String()))
		return nil, MapError(err)
	}
	return word, nil
}

// ListByUser implements store.WordStore.ListByUser.
func (s *PostgresWordStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.Word, error) {
	if offset < 0 {
		offset = 0
	}
	// LIMIT NULL means no limit.
	var lim any
	if limit > 0 {
		lim = limit
	}

	query := `
		SELECT ` + wordColumns + `
		FROM words
		WHERE user_id = $1
		ORDER BY added_at DESC, id
		LIMIT $2 OFFSET $3
	`
	return s.queryWords(ctx, "list words", query, userID, lim, offset)
}

// ListDue implements store.WordStore.ListDue.
func (s *PostgresWordStore) ListDue(ctx context.Context, userID uuid.UUID, now time.Time) ([]*domain.Word, error) {
	query := `
		SELECT ` + wordColumns + `
		FROM words
		WHERE user_id = $1 AND next_review_at <= $2
		ORDER BY next_review_at ASC, id
	`
	return s.queryWords(ctx, "list due words", query, userID, now.UTC())
}

// CountByUser implements store.WordStore.CountByUser.
func (s *PostgresWordStore) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM words WHERE user_id = $1`, userID)
}

// CountDue implements store.WordStore.CountDue.
func (s *PostgresWordStore) CountDue(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	return s.count(ctx, `SELECT COUNT(*) FROM words WHERE user_id = $1 AND next_review_at <= $2`, userID, now.UTC())
}

// UpdateContent implements store.WordStore.UpdateContent.
// Returns store.ErrWordNotFound if the word does not exist and
// store.ErrWordExists if the new text is taken.
func (s *PostgresWordStore) UpdateContent(ctx context.Context, word *domain.Word) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := word.Validate(); err != nil {
		log.Warn("word validation failed during update",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return err
	}

	synonyms, err := encodeStrings(word.Synonyms)
	if err != nil {
		return store.NewStoreError("word", "update", "failed to encode synonyms", err)
	}
	antonyms, err := encodeStrings(word.Antonyms)
	if err != nil {
		return store.NewStoreError("word", "update", "failed to encode antonyms", err)
	}

	query := `
		UPDATE words
		SET word = $1, translation = $2, word_type = $3, phonetic = $4, audio_url = $5,
			english_definition = $6, example = $7, synonyms = $8, antonyms = $9,
			vietnamese_definition = $10, vietnamese_example = $11, difficulty = $12, notes = $13
		WHERE id = $14
	`
	result, err := s.db.ExecContext(ctx, query,
		word.Text,
		word.Translation,
		word.WordType,
		word.Phonetic,
		word.AudioURL,
		word.EnglishDefinition,
		word.Example,
		synonyms,
		antonyms,
		word.VietnameseDefinition,
		word.VietnameseExample,
		string(difficultyOrUnknown(word.Difficulty)),
		word.Notes,
		word.ID,
	)
	if err != nil {
		if !IsUniqueViolation(err) {
			log.Error("failed to update word",
				slog.String("error", err.Error()),
				slog.String("word_id", word.ID.String()))
		}
		return MapUniqueViolation(err, store.ErrWordExists)
	}
	if err := CheckRowsAffected(result, store.ErrWordNotFound); err != nil {
		return err
	}

	log.Debug("word content updated", slog.String("word_id", word.ID.String()))
	return nil
}

// UpdateSchedule implements store.WordStore.UpdateSchedule.
// Returns store.ErrWordNotFound if the word does not exist.
func (s *PostgresWordStore) UpdateSchedule(ctx context.Context, word *domain.Word) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE words
		SET repetitions = $1, ease_factor = $2, last_reviewed_at = $3, next_review_at = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(ctx, query,
		word.Repetitions,
		word.EaseFactor,
		nullTime(word.LastReviewedAt),
		word.NextReviewAt,
		word.ID,
	)
	if err != nil {
		log.Error("failed to update word schedule",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrWordNotFound); err != nil {
		return err
	}

	log.Debug("word schedule updated",
		slog.String("word_id", word.ID.String()),
		slog.Int("repetitions", word.Repetitions),
		slog.Time("next_review_at", word.NextReviewAt))
	return nil
}

// Delete implements store.WordStore.Delete. Exercises referencing the word
// are removed in the same statement.
// Returns store.ErrWordNotFound if the word does not exist.
func (s *PostgresWordStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		WITH removed_exercises AS (
			DELETE FROM exercises WHERE word_ids @> jsonb_build_array($1::text)
		)
		DELETE FROM words WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete word",
			slog.String("error", err.Error()),
			slog.String("word_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrWordNotFound); err != nil {
		return err
	}

	log.Info("word deleted", slog.String("word_id", id.String()))
	return nil
}

func (s *PostgresWordStore) queryWords(ctx context.Context, op, query string, args ...any) ([]*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query words", slog.String("operation", op), slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	words := []*domain.Word{}
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			log.Error("failed to scan word row", slog.String("operation", op), slog.String("error", err.Error()))
			return nil, err
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("operation", op), slog.String("error", err.Error()))
		return nil, err
	}
	return words, nil
}

func (s *PostgresWordStore) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count words", slog.String("error", err.Error()))
		return 0, MapError(err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWord(row rowScanner) (*domain.Word, error) {
	var (
		w                  domain.Word
		synonyms, antonyms []byte
		difficulty         string
		lastReviewed       sql.NullTime
	)
	err := row.Scan(
		&w.ID,
		&w.UserID,
		&w.Text,
		&w.Translation,
		&w.WordType,
		&w.Phonetic,
		&w.AudioURL,
		&w.EnglishDefinition,
		&w.Example,
		&synonyms,
		&antonyms,
		&w.VietnameseDefinition,
		&w.VietnameseExample,
		&difficulty,
		&w.Notes,
		&w.AddedAt,
		&w.Repetitions,
		&w.EaseFactor,
		&lastReviewed,
		&w.NextReviewAt,
	)
	if err != nil {
		return nil, err
	}

	if w.Synonyms, err = decodeStrings(synonyms); err != nil {
		return nil, fmt.Errorf("failed to decode synonyms: %w", err)
	}
	if w.Antonyms, err = decodeStrings(antonyms); err != nil {
		return nil, fmt.Errorf("failed to decode antonyms: %w", err)
	}
	w.Difficulty = domain.Difficulty(difficulty)
	w.AddedAt = w.AddedAt.UTC()
	w.NextReviewAt = w.NextReviewAt.UTC()
	w.LastReviewedAt = timePtr(lastReviewed)
	return &w, nil
}

func difficultyOrUnknown(d domain.Difficulty) domain.Difficulty {
	if d == "" {
		return domain.DifficultyUnknown
	}
	return d
}

func encodeStrings(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}

func decodeStrings(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
