package mocks

import (
	"errors"

	"github.com/hdhector/taskflow/internal/service/auth"
)

// MockPasswordVerifier implements auth.PasswordVerifier for testing
type MockPasswordVerifier struct {
	// CompareFn allows custom comparison behavior
	CompareFn func(hashedPassword, password string) error

	// ShouldSucceed makes Compare succeed or fail when CompareFn is unset
	ShouldSucceed bool
}

// Compare implements the auth.PasswordVerifier interface
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.ShouldSucceed {
		return nil
	}
	return errors.New("password mismatch")
}

// Ensure MockPasswordVerifier implements auth.PasswordVerifier
var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)
