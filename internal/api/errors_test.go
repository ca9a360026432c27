package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/books-api/internal/api/validation"
	"github.com/phrazzld/books-api/internal/store"
	"github.com/stretchr/testify/assert"
)

type teapotError struct{}

func (teapotError) Error() string   { return "short and stout" }
func (teapotError) StatusCode() int { return http.StatusTeapot }

func TestMapErrorToStatusCodeAndMessage(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "validation error",
			err:     &validation.Error{Messages: []string{`"title" is required`, `"stock" is required`}},
			status:  http.StatusBadRequest,
			message: `"title" is required, "stock" is required`,
		},
		{
			name:    "invalid JSON",
			err:     fmt.Errorf("%w: unexpected EOF", validation.ErrInvalidJSON),
			status:  http.StatusBadRequest,
			message: "invalid JSON body",
		},
		{
			name:    "HTTP error carries its own status and message",
			err:     NewHTTPError(http.StatusConflict, "conflict", errors.New("detail")),
			status:  http.StatusConflict,
			message: "conflict",
		},
		{
			name:    "any status coder",
			err:     fmt.Errorf("wrapped: %w", teapotError{}),
			status:  http.StatusTeapot,
			message: "short and stout",
		},
		{
			name:    "store schema rejection",
			err:     store.NewStoreError("book", "update", "update failed", store.ErrInvalidEntity),
			status:  http.StatusBadRequest,
			message: "invalid book document",
		},
		{
			name:    "not found escaping the service",
			err:     fmt.Errorf("lookup: %w", store.ErrBookNotFound),
			status:  http.StatusNotFound,
			message: "not found",
		},
		{
			name:    "infrastructure failure",
			err:     errors.New("dial tcp 10.0.0.1:5432: connection refused"),
			status:  http.StatusInternalServerError,
			message: "Something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, MapErrorToStatusCode(tt.err))
			assert.Equal(t, tt.message, GetSafeErrorMessage(tt.err))
		})
	}
}

func TestHTTPError(t *testing.T) {
	cause := errors.New("cause")
	err := NewHTTPError(http.StatusForbidden, "forbidden", cause)
	assert.Equal(t, "forbidden: cause", err.Error())
	assert.Equal(t, http.StatusForbidden, err.StatusCode())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "plain", NewHTTPError(http.StatusBadRequest, "plain", nil).Error())
}

func TestHandleErrorDoesNotLeakDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/books", nil)

	HandleError(rec, req, errors.New("pq: password=hunter2 SELECT * FROM books"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Something went wrong"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "hunter2")
}

func TestHandleErrorNil(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWrap(t *testing.T) {
	t.Run("error goes to the terminal handler", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Wrap(func(http.ResponseWriter, *http.Request) error {
			return NewHTTPError(http.StatusUnprocessableEntity, "nope", nil)
		})(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.JSONEq(t, `{"success":false,"message":"nope"}`, rec.Body.String())
	})

	t.Run("nil error leaves the response alone", func(t *testing.T) {
		rec := httptest.NewRecorder()
		Wrap(func(w http.ResponseWriter, _ *http.Request) error {
			w.WriteHeader(http.StatusAccepted)
			return nil
		})(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}
