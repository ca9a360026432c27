package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the root of every absence error a BookStore returns.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidEntity means the backend rejected a document against its own
	// schema. The wrapped error names the failing rule.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrBookNotFound is returned by GetByID, Update and Delete when no book
	// has the given id.
	ErrBookNotFound = fmt.Errorf("%w: book", ErrNotFound)
)

// IsNotFoundError reports whether err wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StoreError records which store call failed and why.
type StoreError struct {
	Entity    string
	Operation string
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	prefix := e.Entity + " store: " + e.Operation + ": " + e.Message
	if e.Err == nil {
		return prefix
	}
	return prefix + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError wraps err with the entity and operation it came from.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{Entity: entity, Operation: operation, Message: message, Err: err}
}
