package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hdhector/taskflow/internal/domain"
	"github.com/hdhector/taskflow/internal/service"
	"github.com/hdhector/taskflow/internal/service/auth"
	"github.com/hdhector/taskflow/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{
			name:           "nil error",
			err:            nil,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "task not found",
			err:            store.ErrTaskNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "wrapped not found",
			err:            fmt.Errorf("failed to load: %w", store.ErrCommentNotFound),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "forbidden",
			err:            service.ErrForbidden,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "quota exceeded",
			err:            service.ErrQuotaExceeded,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "email conflict",
			err:            store.ErrEmailExists,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "invalid token",
			err:            auth.ErrInvalidToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired refresh token",
			err:            auth.ErrExpiredRefreshToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unauthenticated",
			err:            domain.ErrUnauthorized,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "domain validation",
			err:            domain.ErrTaskTitleTooLong,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid entity",
			err:            store.ErrInvalidEntity,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown error",
			err:            errors.New("database exploded"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStatus, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "quota exceeded surfaces the fixed message",
			err:      service.ErrQuotaExceeded,
			expected: "Máximo 5 tareas activas por usuario.",
		},
		{
			name:     "wrapped quota error keeps the fixed message",
			err:      fmt.Errorf("create failed: %w", service.ErrQuotaExceeded),
			expected: "Máximo 5 tareas activas por usuario.",
		},
		{
			name:     "task not found",
			err:      store.ErrTaskNotFound,
			expected: "Task not found",
		},
		{
			name:     "forbidden",
			err:      service.ErrForbidden,
			expected: "You do not have permission to perform this action",
		},
		{
			name:     "validation errors echo their message",
			err:      domain.ErrTaskTitleEmpty,
			expected: "title cannot be empty",
		},
		{
			name:     "internal details never leak",
			err:      errors.New("pq: connection refused host=10.0.0.1 password=hunter2"),
			expected: "An internal error occurred",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, GetSafeErrorMessage(tc.err))
		})
	}
}
