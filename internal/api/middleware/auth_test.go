package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/lexi-api/internal/api/middleware"
	"github.com/phrazzld/lexi-api/internal/api/shared"
	"github.com/phrazzld/lexi-api/internal/mocks"
	"github.com/phrazzld/lexi-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	jwtService := &mocks.MockJWTService{
		ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
			switch token {
			case "good":
				return &auth.Claims{UserID: userID, Subject: userID.String()}, nil
			case "expired":
				return nil, auth.ErrExpiredToken
			case "early":
				return nil, auth.ErrTokenNotYetValid
			case "broken":
				return nil, errors.New("key store unavailable")
			default:
				return nil, auth.ErrInvalidToken
			}
		},
	}
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"valid token", "Bearer good", http.StatusOK, ""},
		{"scheme is case-insensitive", "bearer good", http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, "Authorization header required"},
		{"wrong scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, "Invalid authorization format"},
		{"empty token", "Bearer ", http.StatusUnauthorized, "Invalid authorization format"},
		{"expired token", "Bearer expired", http.StatusUnauthorized, "Token expired"},
		{"not yet valid", "Bearer early", http.StatusUnauthorized, "Invalid token"},
		{"invalid token", "Bearer forged", http.StatusUnauthorized, "Invalid token"},
		{"verifier failure", "Bearer broken", http.StatusInternalServerError, "Authentication error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotUserID uuid.UUID
			handler := authMiddleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, _ = shared.UserIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/words", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, userID, gotUserID)
				return
			}
			assert.Equal(t, uuid.Nil, gotUserID)
			assert.Contains(t, rec.Body.String(), tt.message)
			assert.NotContains(t, rec.Body.String(), "key store")
		})
	}
}
