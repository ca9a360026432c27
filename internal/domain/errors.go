package domain

import "errors"

// ErrValidation is the root of every Book rule violation. Validate wraps it
// so callers can match any of them with errors.Is.
var ErrValidation = errors.New("book validation failed")
