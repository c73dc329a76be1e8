package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{name: "ErrWordNotFound", err: ErrWordNotFound, expected: true},
		{name: "wrapped ErrExerciseNotFound", err: fmt.Errorf("lookup: %w", ErrExerciseNotFound), expected: true},
		{name: "ErrProgressNotFound", err: ErrProgressNotFound, expected: true},
		{
			name:     "store error wrapping ErrWordNotFound",
			err:      NewStoreError("word", "get", "missing", ErrWordNotFound),
			expected: true,
		},
		{name: "duplicate is not not-found", err: ErrWordExists, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	t.Parallel()

	assert.False(t, IsDuplicateError(nil))
	assert.True(t, IsDuplicateError(ErrDuplicate))
	assert.True(t, IsDuplicateError(ErrWordExists))
	assert.True(t, IsDuplicateError(fmt.Errorf("create: %w", ErrWordExists)))
	assert.False(t, IsDuplicateError(ErrWordNotFound))
	assert.False(t, IsDuplicateError(ErrExerciseCompleted))
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	t.Run("without wrapped error", func(t *testing.T) {
		t.Parallel()
		storeErr := &StoreError{Entity: "word", Operation: "create", Message: "validation failed"}
		assert.Equal(t, "create operation on word failed: validation failed", storeErr.Error())
		assert.Nil(t, storeErr.Unwrap())
	})

	t.Run("with wrapped error", func(t *testing.T) {
		t.Parallel()
		originalErr := errors.New("database connection failed")
		storeErr := NewStoreError("exercise", "update", "database error", originalErr)

		assert.Equal(t,
			"update operation on exercise failed: database error: database connection failed",
			storeErr.Error())
		assert.ErrorIs(t, storeErr, originalErr)

		var target *StoreError
		assert.True(t, errors.As(fmt.Errorf("outer: %w", storeErr), &target))
		assert.Equal(t, "exercise", target.Entity)
	})
}
