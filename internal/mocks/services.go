package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/domain"
	"github.com/phrazzld/lexi-api/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockVocabularyService is a testify mock of service.VocabularyService.
type MockVocabularyService struct {
	mock.Mock
}

var _ service.VocabularyService = (*MockVocabularyService)(nil)

func (m *MockVocabularyService) AddWord(
	ctx context.Context,
	userID uuid.UUID,
	in service.WordInput,
) (*domain.Word, error) {
	args := m.Called(ctx, userID, in)
	w, _ := args.Get(0).(*domain.Word)
	return w, args.Error(1)
}

func (m *MockVocabularyService) ListWords(
	ctx context.Context,
	userID uuid.UUID,
	opts service.ListOptions,
) ([]*domain.Word, error) {
	args := m.Called(ctx, userID, opts)
	words, _ := args.Get(0).([]*domain.Word)
	return words, args.Error(1)
}

func (m *MockVocabularyService) GetWord(ctx context.Context, userID, wordID uuid.UUID) (*domain.Word, error) {
	args := m.Called(ctx, userID, wordID)
	w, _ := args.Get(0).(*domain.Word)
	return w, args.Error(1)
}

func (m *MockVocabularyService) UpdateWord(
	ctx context.Context,
	userID, wordID uuid.UUID,
	upd service.WordUpdate,
) (*domain.Word, error) {
	args := m.Called(ctx, userID, wordID, upd)
	w, _ := args.Get(0).(*domain.Word)
	return w, args.Error(1)
}

func (m *MockVocabularyService) DeleteWord(ctx context.Context, userID, wordID uuid.UUID) error {
	return m.Called(ctx, userID, wordID).Error(0)
}

func (m *MockVocabularyService) UpdateSrsData(
	ctx context.Context,
	userID, wordID uuid.UUID,
	quality int,
) (*domain.Word, error) {
	args := m.Called(ctx, userID, wordID, quality)
	w, _ := args.Get(0).(*domain.Word)
	return w, args.Error(1)
}

func (m *MockVocabularyService) GetDueWords(ctx context.Context, userID uuid.UUID) ([]*domain.Word, error) {
	args := m.Called(ctx, userID)
	words, _ := args.Get(0).([]*domain.Word)
	return words, args.Error(1)
}

// MockExerciseService is a testify mock of service.ExerciseService.
type MockExerciseService struct {
	mock.Mock
}

var _ service.ExerciseService = (*MockExerciseService)(nil)

func (m *MockExerciseService) Generate(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Exercise, error) {
	args := m.Called(ctx, userID, limit)
	exercises, _ := args.Get(0).([]*domain.Exercise)
	return exercises, args.Error(1)
}

func (m *MockExerciseService) Submit(
	ctx context.Context,
	userID, exerciseID uuid.UUID,
	answer string,
) (*service.SubmitResult, error) {
	args := m.Called(ctx, userID, exerciseID, answer)
	result, _ := args.Get(0).(*service.SubmitResult)
	return result, args.Error(1)
}

func (m *MockExerciseService) GetExercise(ctx context.Context, userID, exerciseID uuid.UUID) (*domain.Exercise, error) {
	args := m.Called(ctx, userID, exerciseID)
	ex, _ := args.Get(0).(*domain.Exercise)
	return ex, args.Error(1)
}

func (m *MockExerciseService) ListExercises(
	ctx context.Context,
	userID uuid.UUID,
	completed *bool,
	limit int,
) ([]*domain.Exercise, error) {
	args := m.Called(ctx, userID, completed, limit)
	exercises, _ := args.Get(0).([]*domain.Exercise)
	return exercises, args.Error(1)
}

// MockProgressService is a testify mock of service.ProgressService.
type MockProgressService struct {
	mock.Mock
}

var _ service.ProgressService = (*MockProgressService)(nil)

func (m *MockProgressService) RecordCompletion(
	ctx context.Context,
	userID uuid.UUID,
	kind string,
	score, quality *int,
) (*service.CompletionResult, error) {
	args := m.Called(ctx, userID, kind, score, quality)
	result, _ := args.Get(0).(*service.CompletionResult)
	return result, args.Error(1)
}

func (m *MockProgressService) DailyCheckIn(ctx context.Context, userID uuid.UUID) (*service.CheckInResult, error) {
	args := m.Called(ctx, userID)
	result, _ := args.Get(0).(*service.CheckInResult)
	return result, args.Error(1)
}

func (m *MockProgressService) HasCheckedInToday(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProgressService) GetProgress(ctx context.Context, userID uuid.UUID) (*domain.Progress, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(*domain.Progress)
	return p, args.Error(1)
}

func (m *MockProgressService) GetSummary(ctx context.Context, userID uuid.UUID) (*service.Summary, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(*service.Summary)
	return s, args.Error(1)
}

func (m *MockProgressService) ListActivities(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.Activity, error) {
	args := m.Called(ctx, userID, limit)
	activities, _ := args.Get(0).([]*domain.Activity)
	return activities, args.Error(1)
}
