package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
	"github.com/phrazzld/lexi-api/internal/domain/srs"
	"github.com/phrazzld/lexi-api/internal/enrich"
	"github.com/phrazzld/lexi-api/internal/events"
	"github.com/phrazzld/lexi-api/internal/platform/logger"
	"github.com/phrazzld/lexi-api/internal/store"
)

// WordInput is the user-supplied content of a new word. Only Word is required.
type WordInput struct {
	Word                 string   `json:"word"`
	Translation          string   `json:"translation"`
	WordType             string   `json:"word_type"`
	Phonetic             string   `json:"phonetic"`
	AudioURL             string   `json:"audio_url"`
	EnglishDefinition    string   `json:"english_definition"`
	Example              string   `json:"example"`
	Synonyms             []string `json:"synonyms"`
	Antonyms             []string `json:"antonyms"`
	VietnameseDefinition string   `json:"vietnamese_definition"`
	VietnameseExample    string   `json:"vietnamese_example"`
	Difficulty           string   `json:"difficulty"`
	Notes                string   `json:"notes"`
}

// WordUpdate holds the fields to change on a word. Nil fields are left as
// they are; the review schedule cannot be edited.
type WordUpdate struct {
	Word                 *string
	Translation          *string
	WordType             *string
	Phonetic             *string
	AudioURL             *string
	EnglishDefinition    *string
	Example              *string
	Synonyms             *[]string
	Antonyms             *[]string
	VietnameseDefinition *string
	VietnameseExample    *string
	Difficulty           *string
	Notes                *string
}

// IsEmpty reports whether the update changes nothing.
func (u WordUpdate) IsEmpty() bool {
	return u == WordUpdate{}
}

// ListOptions pages a word listing. Limit <= 0 returns every word.
type ListOptions struct {
	Limit  int
	Offset int
}

// VocabularyService manages a user's words.
type VocabularyService interface {
	// AddWord creates a word due for review immediately.
	// Returns domain.ErrDuplicateWord if the user already has the word.
	AddWord(ctx context.Context, userID uuid.UUID, in WordInput) (*domain.Word, error)

	// ListWords returns the user's words, most recently added first.
	ListWords(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]*domain.Word, error)

	// GetWord returns one of the user's words, or domain.ErrNotFound.
	GetWord(ctx context.Context, userID, wordID uuid.UUID) (*domain.Word, error)

	// UpdateWord edits the content of one of the user's words.
	// Returns domain.ErrNotFound for a missing or foreign word and
	// domain.ErrDuplicateWord if the new text is already in the vocabulary.
	UpdateWord(ctx context.Context, userID, wordID uuid.UUID, upd WordUpdate) (*domain.Word, error)

	// DeleteWord removes one of the user's words and the exercises built on it.
	DeleteWord(ctx context.Context, userID, wordID uuid.UUID) error

	// UpdateSrsData reviews a word directly with a quality of 0-5 and
	// returns the rescheduled word.
	UpdateSrsData(ctx context.Context, userID, wordID uuid.UUID, quality int) (*domain.Word, error)

	// GetDueWords returns the user's words due now, most overdue first.
	GetDueWords(ctx context.Context, userID uuid.UUID) ([]*domain.Word, error)
}

type vocabularyServiceImpl struct {
	words    store.WordStore
	srs      srs.Service
	enricher enrich.Enricher
	emitter  events.EventEmitter
	clock    Clock
	logger   *slog.Logger
}

var _ VocabularyService = (*vocabularyServiceImpl)(nil)

// NewVocabularyService creates a VocabularyService. enricher may be nil, in
// which case words are stored as entered. A nil emitter discards events.
func NewVocabularyService(
	words store.WordStore,
	srsService srs.Service,
	enricher enrich.Enricher,
	emitter events.EventEmitter,
	clock Clock,
	logger *slog.Logger,
) VocabularyService {
	if words == nil {
		panic("words cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &vocabularyServiceImpl{
		words:    words,
		srs:      srsService,
		enricher: enricher,
		emitter:  emitter,
		clock:    clock,
		logger:   logger.With(slog.String("component", "vocabulary_service")),
	}
}

// AddWord implements VocabularyService.AddWord.
func (s *vocabularyServiceImpl) AddWord(ctx context.Context, userID uuid.UUID, in WordInput) (*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.clock.now()

	word, err := domain.NewWord(userID, in.Word, now)
	if err != nil {
		return nil, err
	}
	applyInput(word, in)
	if err := word.Validate(); err != nil {
		return nil, err
	}

	if s.enricher != nil {
		meta, err := s.enricher.Enrich(ctx, word.Text)
		if err != nil {
			log.WarnContext(ctx, "word enrichment failed, keeping user input",
				slog.String("word", word.Text),
				slog.String("error", err.Error()))
		} else {
			enrich.Fill(word, meta)
		}
	}

	if err := s.words.Create(ctx, word); err != nil {
		if store.IsDuplicateError(err) {
			return nil, NewServiceError("add_word", fmt.Sprintf("word %q already exists", word.Text),
				domain.ErrDuplicateWord)
		}
		log.ErrorContext(ctx, "failed to save word",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, NewServiceError("add_word", "failed to save word", err)
	}

	log.InfoContext(ctx, "word added",
		slog.String("user_id", userID.String()),
		slog.String("word_id", word.ID.String()))
	emit(ctx, s.emitter, log, domain.ActivityAddWord, userID,
		fmt.Sprintf("Đã thêm từ mới: %s", word.Text),
		map[string]any{"word": word.Text},
		&related{id: word.ID, typ: "word"}, now)
	return word, nil
}

// applyInput copies the optional fields of in onto w.
func applyInput(w *domain.Word, in WordInput) {
	w.Translation = strings.TrimSpace(in.Translation)
	w.WordType = strings.TrimSpace(in.WordType)
	w.Phonetic = strings.TrimSpace(in.Phonetic)
	w.AudioURL = strings.TrimSpace(in.AudioURL)
	w.EnglishDefinition = strings.TrimSpace(in.EnglishDefinition)
	w.Example = strings.TrimSpace(in.Example)
	w.Synonyms = in.Synonyms
	w.Antonyms = in.Antonyms
	w.VietnameseDefinition = strings.TrimSpace(in.VietnameseDefinition)
	w.VietnameseExample = strings.TrimSpace(in.VietnameseExample)
	w.Notes = strings.TrimSpace(in.Notes)
	if d := strings.TrimSpace(in.Difficulty); d != "" {
		w.Difficulty = domain.Difficulty(strings.ToLower(d))
	}
}

// ListWords implements VocabularyService.ListWords.
func (s *vocabularyServiceImpl) ListWords(
	ctx context.Context,
	userID uuid.UUID,
	opts ListOptions,
) ([]*domain.Word, error) {
	if opts.Offset < 0 {
		return nil, domain.NewValidationError("offset", "cannot be negative", nil)
	}
	words, err := s.words.ListByUser(ctx, userID, opts.Limit, opts.Offset)
	if err != nil {
		return nil, NewServiceError("list_words", "failed to list words", err)
	}
	return words, nil
}

// GetWord implements VocabularyService.GetWord.
func (s *vocabularyServiceImpl) GetWord(ctx context.Context, userID, wordID uuid.UUID) (*domain.Word, error) {
	return s.ownedWord(ctx, "get_word", userID, wordID)
}

func (s *vocabularyServiceImpl) ownedWord(
	ctx context.Context,
	operation string,
	userID, wordID uuid.UUID,
) (*domain.Word, error) {
	word, err := s.words.GetByID(ctx, wordID)
	if err != nil {
		return nil, storeFailure(operation, "word", err)
	}
	if word.UserID != userID {
		logger.FromContextOrDefault(ctx, s.logger).WarnContext(ctx, "user does not own word",
			slog.String("user_id", userID.String()),
			slog.String("word_id", wordID.String()))
		return nil, notFound(operation, "word")
	}
	return word, nil
}

// UpdateWord implements VocabularyService.UpdateWord.
func (s *vocabularyServiceImpl) UpdateWord(
	ctx context.Context,
	userID, wordID uuid.UUID,
	upd WordUpdate,
) (*domain.Word, error) {
	const op = "update_word"
	log := logger.FromContextOrDefault(ctx, s.logger)

	if upd.IsEmpty() {
		return nil, domain.NewValidationError("word", "no fields to update", nil)
	}
	word, err := s.ownedWord(ctx, op, userID, wordID)
	if err != nil {
		return nil, err
	}
	applyUpdate(word, upd)
	if err := word.Validate(); err != nil {
		return nil, err
	}

	if err := s.words.UpdateContent(ctx, word); err != nil {
		if store.IsDuplicateError(err) {
			return nil, NewServiceError(op, fmt.Sprintf("word %q already exists", word.Text),
				domain.ErrDuplicateWord)
		}
		return nil, storeFailure(op, "word", err)
	}

	log.InfoContext(ctx, "word updated",
		slog.String("user_id", userID.String()),
		slog.String("word_id", wordID.String()))
	emit(ctx, s.emitter, log, domain.ActivityUpdateWord, userID,
		fmt.Sprintf("Đã cập nhật từ: %s", word.Text),
		map[string]any{"word": word.Text},
		&related{id: word.ID, typ: "word"}, s.clock.now())
	return word, nil
}

// applyUpdate copies the set fields of upd onto w.
func applyUpdate(w *domain.Word, upd WordUpdate) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&w.Text, upd.Word)
	set(&w.Translation, upd.Translation)
	set(&w.WordType, upd.WordType)
	set(&w.Phonetic, upd.Phonetic)
	set(&w.AudioURL, upd.AudioURL)
	set(&w.EnglishDefinition, upd.EnglishDefinition)
	set(&w.Example, upd.Example)
	set(&w.VietnameseDefinition, upd.VietnameseDefinition)
	set(&w.VietnameseExample, upd.VietnameseExample)
	set(&w.Notes, upd.Notes)
	if upd.Synonyms != nil {
		w.Synonyms = *upd.Synonyms
	}
	if upd.Antonyms != nil {
		w.Antonyms = *upd.Antonyms
	}
	if upd.Difficulty != nil {
		d := strings.ToLower(strings.TrimSpace(*upd.Difficulty))
		if d == "" {
			d = string(domain.DifficultyUnknown)
		}
		w.Difficulty = domain.Difficulty(d)
	}
}

// DeleteWord implements VocabularyService.DeleteWord.
func (s *vocabularyServiceImpl) DeleteWord(ctx context.Context, userID, wordID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	word, err := s.ownedWord(ctx, "delete_word", userID, wordID)
	if err != nil {
		return err
	}
	if err := s.words.Delete(ctx, wordID); err != nil {
		return storeFailure("delete_word", "word", err)
	}

	log.InfoContext(ctx, "word deleted",
		slog.String("user_id", userID.String()),
		slog.String("word_id", wordID.String()))
	emit(ctx, s.emitter, log, domain.ActivityDeleteWord, userID,
		fmt.Sprintf("Đã xóa từ: %s", word.Text),
		map[string]any{"word": word.Text},
		nil, s.clock.now())
	return nil
}

// UpdateSrsData implements VocabularyService.UpdateSrsData.
func (s *vocabularyServiceImpl) UpdateSrsData(
	ctx context.Context,
	userID, wordID uuid.UUID,
	quality int,
) (*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.clock.now()

	word, err := s.ownedWord(ctx, "update_srs", userID, wordID)
	if err != nil {
		return nil, err
	}

	reviewed, err := s.srs.Review(word, quality, now)
	if err != nil {
		return nil, err
	}
	if err := s.words.UpdateSchedule(ctx, reviewed); err != nil {
		return nil, storeFailure("update_srs", "word", err)
	}

	log.DebugContext(ctx, "word reviewed",
		slog.String("word_id", wordID.String()),
		slog.Int("quality", quality),
		slog.Int("repetitions", reviewed.Repetitions),
		slog.Time("next_review_at", reviewed.NextReviewAt))
	emit(ctx, s.emitter, log, domain.ActivityReviewWord, userID,
		fmt.Sprintf("Đã ôn tập từ: %s", word.Text),
		map[string]any{"quality": quality, "next_review_at": reviewed.NextReviewAt},
		&related{id: word.ID, typ: "word"}, now)
	return reviewed, nil
}

// GetDueWords implements VocabularyService.GetDueWords.
func (s *vocabularyServiceImpl) GetDueWords(ctx context.Context, userID uuid.UUID) ([]*domain.Word, error) {
	words, err := s.words.ListDue(ctx, userID, s.clock.now())
	if err != nil {
		return nil, NewServiceError("get_due_words", "failed to list due words", err)
	}
	return words, nil
}

// isNotFound reports whether err means the entity is missing or foreign.
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound) || store.IsNotFoundError(err)
}
