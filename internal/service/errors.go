package service

import "fmt"

// BookServiceError wraps errors from the book service with context.
type BookServiceError struct {
	// Operation is the operation that failed (e.g., "create", "update_by_id")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for BookServiceError.
func (e *BookServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("book service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("book service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *BookServiceError) Unwrap() error {
	return e.Err
}

// NewBookServiceError creates a new BookServiceError. It returns nil for a nil err.
func NewBookServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	return &BookServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
