package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{name: "ErrBookNotFound", err: ErrBookNotFound, expected: true},
		{
			name:     "wrapped ErrBookNotFound",
			err:      fmt.Errorf("failed to find book: %w", ErrBookNotFound),
			expected: true,
		},
		{
			name:     "StoreError wrapping ErrBookNotFound",
			err:      NewStoreError("book", "delete", "no rows", ErrBookNotFound),
			expected: true,
		},
		{name: "ErrInvalidEntity", err: ErrInvalidEntity, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestStoreErrorMessage(t *testing.T) {
	withCause := NewStoreError("book", "create", "check violation", ErrInvalidEntity)
	assert.Equal(t,
		"book store: create: check violation: invalid entity",
		withCause.Error())
	assert.True(t, errors.Is(withCause, ErrInvalidEntity))

	withoutCause := NewStoreError("book", "list", "closed", nil)
	assert.Equal(t, "book store: list: closed", withoutCause.Error())
	assert.Nil(t, withoutCause.Unwrap())
}
