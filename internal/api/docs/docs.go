// Package docs serves the embedded OpenAPI document of the books API and a
// Swagger UI page that renders it.
package docs

import (
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/phrazzld/books-api/internal/platform/logger"
	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var specYAML []byte

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	specOnce sync.Once
	specJSON []byte
	specDoc  map[string]any
	specErr  error
)

// load parses the embedded YAML once.
func load() ([]byte, map[string]any, error) {
	specOnce.Do(func() {
		var doc map[string]any
		if err := yaml.Unmarshal(specYAML, &doc); err != nil {
			specErr = fmt.Errorf("failed to parse OpenAPI document: %w", err)
			return
		}
		encoded, err := json.Marshal(doc)
		if err != nil {
			specErr = fmt.Errorf("failed to encode OpenAPI document as JSON: %w", err)
			return
		}
		specDoc, specJSON = doc, encoded
	})
	return specJSON, specDoc, specErr
}

// YAML returns the raw OpenAPI document.
func YAML() []byte {
	return specYAML
}

// JSON returns the OpenAPI document converted to JSON.
func JSON() ([]byte, error) {
	b, _, err := load()
	return b, err
}

// Operations returns the documented operations as "METHOD /path" strings, sorted.
func Operations() ([]string, error) {
	_, doc, err := load()
	if err != nil {
		return nil, err
	}
	paths, _ := doc["paths"].(map[string]any)
	var ops []string
	for path, item := range paths {
		methods, _ := item.(map[string]any)
		for method := range methods {
			switch method {
			case "get", "post", "put", "patch", "delete":
				ops = append(ops, fmt.Sprintf("%s %s", upper(method), path))
			}
		}
	}
	sort.Strings(ops)
	return ops, nil
}

func upper(method string) string {
	switch method {
	case "get":
		return http.MethodGet
	case "post":
		return http.MethodPost
	case "put":
		return http.MethodPut
	case "patch":
		return http.MethodPatch
	default:
		return http.MethodDelete
	}
}

// Routes mounts the docs under the router it is given:
// "/" serves the Swagger UI, "/openapi.yaml" and "/openapi.json" the document.
func Routes(r chi.Router) {
	r.Get("/", serveUI)
	r.Get("/openapi.yaml", serveYAML)
	r.Get("/openapi.json", serveJSON)
}

func serveUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(swaggerUIPage)); err != nil {
		logger.FromContext(r.Context()).Warn("failed to write docs page", slog.String("error", err.Error()))
	}
}

func serveYAML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(specYAML); err != nil {
		logger.FromContext(r.Context()).Warn("failed to write OpenAPI document", slog.String("error", err.Error()))
	}
}

func serveJSON(w http.ResponseWriter, r *http.Request) {
	body, err := JSON()
	if err != nil {
		logger.FromContext(r.Context()).Error("OpenAPI document unavailable", slog.String("error", err.Error()))
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logger.FromContext(r.Context()).Warn("failed to write OpenAPI document", slog.String("error", err.Error()))
	}
}

const swaggerUIPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Books API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function () {
      window.ui = SwaggerUIBundle({ url: "/api-docs/openapi.json", dom_id: "#swagger-ui" });
    };
  </script>
</body>
</html>
`
