package shared

import (
	"log/slog"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/phrazzld/books-api/internal/platform/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultMessage is the envelope message when none is given.
const DefaultMessage = "success"

// Envelope is the body of every JSON response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// EnvelopeOption customizes an Envelope built by NewEnvelope.
type EnvelopeOption func(*Envelope)

// WithMessage sets the envelope message.
func WithMessage(message string) EnvelopeOption {
	return func(e *Envelope) {
		e.Message = message
	}
}

// WithData sets the envelope payload.
func WithData(data any) EnvelopeOption {
	return func(e *Envelope) {
		e.Data = data
	}
}

// WithFailure marks the envelope as unsuccessful.
func WithFailure() EnvelopeOption {
	return func(e *Envelope) {
		e.Success = false
	}
}

// NewEnvelope builds an Envelope that defaults to success=true and
// message "success".
func NewEnvelope(opts ...EnvelopeOption) Envelope {
	env := Envelope{Success: true, Message: DefaultMessage}
	for _, opt := range opts {
		opt(&env)
	}
	return env
}

// Failure builds an unsuccessful envelope with the given message and no data.
func Failure(message string) Envelope {
	return NewEnvelope(WithFailure(), WithMessage(message))
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode JSON response",
			slog.String("error", err.Error()),
			slog.String("path", r.URL.Path))
	}
}

// RespondWithEnvelope writes env as the JSON response body.
func RespondWithEnvelope(w http.ResponseWriter, r *http.Request, status int, env Envelope) {
	RespondWithJSON(w, r, status, env)
}

// RespondOK writes a successful envelope with the given message and data.
func RespondOK(w http.ResponseWriter, r *http.Request, message string, data any) {
	RespondWithEnvelope(w, r, http.StatusOK, NewEnvelope(WithMessage(message), WithData(data)))
}
