package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdhector/taskflow/internal/mocks"
	"github.com/hdhector/taskflow/internal/service/auth"
)

func TestAuthenticateValidToken(t *testing.T) {
	userID := uuid.New()
	jwt := &mocks.MockJWTService{
		ValidateTokenFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
			assert.Equal(t, "good-token", tokenString)
			return &auth.Claims{UserID: userID, TokenType: "access"}, nil
		},
	}
	middleware := NewAuthMiddleware(jwt)

	var gotID uuid.UUID
	var found bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, found = GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()

	middleware.Authenticate(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, found)
	assert.Equal(t, userID, gotID)
}

func TestAuthenticateMissingHeader(t *testing.T) {
	middleware := NewAuthMiddleware(&mocks.MockJWTService{})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	rec := httptest.NewRecorder()

	middleware.Authenticate(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Authorization header required")
}

func TestAuthenticateBadFormat(t *testing.T) {
	middleware := NewAuthMiddleware(&mocks.MockJWTService{})

	tests := []struct {
		name   string
		header string
	}{
		{"no scheme", "good-token"},
		{"wrong scheme", "Basic good-token"},
		{"extra parts", "Bearer one two"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("next handler should not be called")
			})

			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			req.Header.Set("Authorization", tc.header)
			rec := httptest.NewRecorder()

			middleware.Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "Invalid authorization format")
		})
	}
}

func TestAuthenticateTokenErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"expired", auth.ErrExpiredToken, http.StatusUnauthorized, "Token expired"},
		{"invalid", auth.ErrInvalidToken, http.StatusUnauthorized, "Invalid token"},
		{"refresh token as access", auth.ErrWrongTokenType, http.StatusUnauthorized, "Invalid token"},
		{"unexpected", context.DeadlineExceeded, http.StatusInternalServerError, "Authentication error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			jwt := &mocks.MockJWTService{
				ValidateTokenFn: func(ctx context.Context, tokenString string) (*auth.Claims, error) {
					return nil, tc.err
				},
			}
			middleware := NewAuthMiddleware(jwt)

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("next handler should not be called")
			})

			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			req.Header.Set("Authorization", "Bearer whatever")
			rec := httptest.NewRecorder()

			middleware.Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantBody)
		})
	}
}
