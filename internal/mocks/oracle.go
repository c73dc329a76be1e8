package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/lexi-api/internal/oracle"
)

// MockOracle implements oracle.Oracle for testing.
type MockOracle struct {
	// GenerateDistractorsFn overrides the default GenerateDistractors behavior
	GenerateDistractorsFn func(ctx context.Context, req oracle.DistractorRequest) ([]string, error)

	// ScoreFreeTextFn overrides the default ScoreFreeText behavior
	ScoreFreeTextFn func(ctx context.Context, req oracle.FreeTextRequest) (oracle.Score, error)

	// Default response values
	Distractors []string
	Score       oracle.Score
	Err         error

	mu                 sync.Mutex
	distractorRequests []oracle.DistractorRequest
	freeTextRequests   []oracle.FreeTextRequest
}

var _ oracle.Oracle = (*MockOracle)(nil)

// NewMockOracleWithError creates a MockOracle whose every call fails with err.
func NewMockOracleWithError(err error) *MockOracle {
	return &MockOracle{Err: err}
}

// GenerateDistractors implements oracle.Oracle.
func (m *MockOracle) GenerateDistractors(ctx context.Context, req oracle.DistractorRequest) ([]string, error) {
	m.mu.Lock()
	m.distractorRequests = append(m.distractorRequests, req)
	m.mu.Unlock()

	if m.GenerateDistractorsFn != nil {
		return m.GenerateDistractorsFn(ctx, req)
	}
	return m.Distractors, m.Err
}

// ScoreFreeText implements oracle.Oracle.
func (m *MockOracle) ScoreFreeText(ctx context.Context, req oracle.FreeTextRequest) (oracle.Score, error) {
	m.mu.Lock()
	m.freeTextRequests = append(m.freeTextRequests, req)
	m.mu.Unlock()

	if m.ScoreFreeTextFn != nil {
		return m.ScoreFreeTextFn(ctx, req)
	}
	return m.Score, m.Err
}

// DistractorRequests returns the requests passed to GenerateDistractors.
func (m *MockOracle) DistractorRequests() []oracle.DistractorRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]oracle.DistractorRequest(nil), m.distractorRequests...)
}

// FreeTextRequests returns the requests passed to ScoreFreeText.
func (m *MockOracle) FreeTextRequests() []oracle.FreeTextRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]oracle.FreeTextRequest(nil), m.freeTextRequests...)
}
