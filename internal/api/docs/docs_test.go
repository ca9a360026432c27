package docs

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestOperationsCoverEveryBookRoute(t *testing.T) {
	ops, err := Operations()
	require.NoError(t, err)
	for _, want := range []string{
		"GET /books",
		"POST /books",
		"GET /books/{id}",
		"PUT /books/{id}",
		"DELETE /books/{id}",
		"GET /health",
	} {
		assert.Contains(t, ops, want)
	}
}

func TestJSONMatchesYAML(t *testing.T) {
	body, err := JSON()
	require.NoError(t, err)

	var fromJSON map[string]any
	require.NoError(t, json.Unmarshal(body, &fromJSON))
	assert.Equal(t, "3.0.0", fromJSON["openapi"])

	var fromYAML map[string]any
	require.NoError(t, yaml.Unmarshal(YAML(), &fromYAML))
	info := fromYAML["info"].(map[string]any)
	assert.Equal(t, "Books API", info["title"])
	assert.Equal(t, info["title"], fromJSON["info"].(map[string]any)["title"])
}

func TestRoutes(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/api-docs", Routes)

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/api-docs/", "text/html; charset=utf-8", "swagger-ui"},
		{"/api-docs/openapi.yaml", "application/yaml; charset=utf-8", "openapi: 3.0.0"},
		{"/api-docs/openapi.json", "application/json; charset=utf-8", `"openapi":"3.0.0"`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}
}
