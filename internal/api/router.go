package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/books-api/internal/api/docs"
	apimw "github.com/phrazzld/books-api/internal/api/middleware"
	"github.com/phrazzld/books-api/internal/api/shared"
	"github.com/phrazzld/books-api/internal/service"
)

// Messages of the router-level responses.
const (
	MessageHealthy          = "ok"
	MessageRouteNotFound    = "route not found"
	MessageMethodNotAllowed = "method not allowed"
)

// RouterConfig holds the dependencies of the HTTP router.
type RouterConfig struct {
	Books  service.BookService
	Logger *slog.Logger
	// Limiter enables per-client rate limiting when non-nil.
	Limiter apimw.Limiter
}

// NewRouter creates the application router with all routes and middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(apimw.PeerAddr)
	r.Use(chimw.RealIP)
	r.Use(apimw.NewTraceMiddleware(cfg.Logger))
	r.Use(apimw.NewRecoverMiddleware(HandleError))
	if cfg.Limiter != nil {
		r.Use(apimw.NewRateLimitMiddleware(cfg.Limiter))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithEnvelope(w, r, http.StatusNotFound, shared.Failure(MessageRouteNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithEnvelope(w, r, http.StatusMethodNotAllowed, shared.Failure(MessageMethodNotAllowed))
	})

	books := NewBookHandler(cfg.Books)
	r.Route("/books", func(r chi.Router) {
		r.Get("/", Wrap(books.ListBooks))
		r.Post("/", Wrap(books.CreateBook))
		r.Get("/{id}", Wrap(books.GetBook))
		r.Put("/{id}", Wrap(books.UpdateBook))
		r.Delete("/{id}", Wrap(books.DeleteBook))
	})

	r.Route("/api-docs", docs.Routes)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		shared.RespondOK(w, r, MessageHealthy, nil)
	})

	return r
}
