package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService verifies bearer tokens issued by the external identity service.
// Tokens are never issued here.
type JWTService interface {
	// ValidateToken validates the provided access token string and extracts the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid or ErrInvalidToken if the
	// token cannot be trusted.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims are the verified claims of an access token.
type Claims struct {
	// UserID is parsed from the subject claim.
	UserID uuid.UUID

	Subject   string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
