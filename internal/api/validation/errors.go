package validation

import (
	"errors"
	"strings"
)

// ErrInvalidJSON is returned when the request body is not well-formed JSON.
var ErrInvalidJSON = errors.New("invalid JSON body")

// ErrBodyTooLarge is returned when the body exceeds the reader's byte cap.
var ErrBodyTooLarge = errors.New("request body too large")

// Error carries every rule violation found in a request body.
type Error struct {
	Messages []string
}

// Error joins the violations with ", ".
func (e *Error) Error() string {
	return strings.Join(e.Messages, ", ")
}

// IsValidationError reports whether err is, or wraps, an *Error.
func IsValidationError(err error) bool {
	var verr *Error
	return errors.As(err, &verr)
}
