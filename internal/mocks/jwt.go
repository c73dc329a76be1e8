package mocks

import (
	"context"

	"github.com/phrazzld/lexi-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing.
type MockJWTService struct {
	// ValidateTokenFn overrides the default ValidateToken behavior
	ValidateTokenFn func(ctx context.Context, token string) (*auth.Claims, error)

	// Default response values
	Claims *auth.Claims
	Err    error
}

var _ auth.JWTService = (*MockJWTService)(nil)

// ValidateToken implements auth.JWTService.
func (m *MockJWTService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, token)
	}
	return m.Claims, m.Err
}
