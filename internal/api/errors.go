package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/books-api/internal/api/shared"
	"github.com/phrazzld/books-api/internal/api/validation"
	"github.com/phrazzld/books-api/internal/platform/logger"
	"github.com/phrazzld/books-api/internal/redact"
	"github.com/phrazzld/books-api/internal/store"
)

// Public messages of the terminal error handler.
const (
	MessageInternalError   = "Something went wrong"
	MessageNotFound        = "not found"
	MessageInvalidDocument = "invalid book document"
)

// HTTPError is an error that carries its own public status and message.
type HTTPError struct {
	Status  int
	Message string
	Err     error
}

// NewHTTPError creates an HTTPError with the given status and public message.
func NewHTTPError(status int, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Message: message, Err: err}
}

// Error implements the error interface for HTTPError.
func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// StatusCode returns the HTTP status of the error.
func (e *HTTPError) StatusCode() int {
	return e.Status
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// statusCoder is implemented by errors that choose their own HTTP status.
type statusCoder interface {
	error
	StatusCode() int
}

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type.
func MapErrorToStatusCode(err error) int {
	var sc statusCoder
	switch {
	case validation.IsValidationError(err),
		errors.Is(err, validation.ErrInvalidJSON):
		return http.StatusBadRequest
	case errors.As(err, &sc) && sc.StatusCode() != 0:
		return sc.StatusCode()
	case errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the message that may be shown to clients.
// Infrastructure details never leave the process.
func GetSafeErrorMessage(err error) string {
	var (
		verr *validation.Error
		herr *HTTPError
		sc   statusCoder
	)
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, validation.ErrInvalidJSON):
		return validation.ErrInvalidJSON.Error()
	case errors.As(err, &herr) && herr.Message != "":
		return herr.Message
	case errors.As(err, &sc) && sc.StatusCode() != 0:
		return sc.Error()
	case errors.Is(err, store.ErrInvalidEntity):
		return MessageInvalidDocument
	case errors.Is(err, store.ErrNotFound):
		return MessageNotFound
	default:
		return MessageInternalError
	}
}

// HandleError is the terminal error handler. It logs the redacted error and
// writes a failure envelope. Server errors are logged at ERROR level, client
// errors at DEBUG.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		err = errors.New("nil error passed to error handler")
	}
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)

	level := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.FromContext(r.Context()).LogAttrs(r.Context(), level, "request failed",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("trace_id", shared.GetTraceID(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status_code", status),
		slog.String("error", redact.Error(err)),
		slog.String("error_type", fmt.Sprintf("%T", err)))

	shared.RespondWithEnvelope(w, r, status, shared.Failure(message))
}

// HandlerFunc is an HTTP handler that reports failures by returning them.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Wrap adapts h to http.HandlerFunc, forwarding any returned error to HandleError.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			HandleError(w, r, err)
		}
	}
}
