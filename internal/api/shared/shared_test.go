package shared

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		env := NewEnvelope()
		assert.True(t, env.Success)
		assert.Equal(t, "success", env.Message)
		assert.Nil(t, env.Data)
	})

	t.Run("options", func(t *testing.T) {
		env := NewEnvelope(WithMessage("success get all book"), WithData([]int{1}))
		assert.True(t, env.Success)
		assert.Equal(t, "success get all book", env.Message)
		assert.Equal(t, []int{1}, env.Data)
	})

	t.Run("failure", func(t *testing.T) {
		assert.Equal(t, Envelope{Success: false, Message: "not found"}, Failure("not found"))
	})
}

func TestRespondWithEnvelope(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		env          Envelope
		expectedBody string
	}{
		{
			name:         "data omitted when nil",
			status:       http.StatusNotFound,
			env:          Failure("not found"),
			expectedBody: `{"success":false,"message":"not found"}`,
		},
		{
			name:         "empty list is kept",
			status:       http.StatusOK,
			env:          NewEnvelope(WithMessage("success get all book"), WithData([]string{})),
			expectedBody: `{"success":true,"message":"success get all book","data":[]}`,
		},
		{
			name:         "object data",
			status:       http.StatusOK,
			env:          NewEnvelope(WithData(map[string]int{"stock": 5})),
			expectedBody: `{"success":true,"message":"success","data":{"stock":5}}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/books", nil)
			w := httptest.NewRecorder()

			RespondWithEnvelope(w, req, tc.status, tc.env)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tc.expectedBody, w.Body.String())
		})
	}
}

func TestRespondOK(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	RespondOK(w, req, "ok", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"ok"}`, w.Body.String())
}

func TestTraceID(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))

	id := NewTraceID()
	assert.Len(t, id, 32)
	assert.NotEqual(t, id, NewTraceID())

	ctx := WithTraceID(context.Background(), id)
	assert.Equal(t, id, GetTraceID(ctx))
}

func TestLimitedBody(t *testing.T) {
	t.Run("within the cap", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(`{}`))
		body, err := io.ReadAll(LimitedBody(httptest.NewRecorder(), req))
		require.NoError(t, err)
		assert.Equal(t, `{}`, string(body))
	})

	t.Run("past the cap", func(t *testing.T) {
		big := strings.Repeat("a", MaxBodyBytes+1)
		req := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(big))
		_, err := io.ReadAll(LimitedBody(httptest.NewRecorder(), req))
		assert.Error(t, err)
	})

	t.Run("nil body", func(t *testing.T) {
		req := &http.Request{}
		body, err := io.ReadAll(LimitedBody(httptest.NewRecorder(), req))
		require.NoError(t, err)
		assert.Empty(t, body)
	})
}
