package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/books-api/internal/api/shared"
	"github.com/phrazzld/books-api/internal/api/validation"
	"github.com/phrazzld/books-api/internal/service"
)

// Success messages of the book routes.
const (
	MessageListBooks  = "success get all book"
	MessageCreateBook = "success create book"
	MessageGetBook    = "success get book by id"
	MessageUpdateBook = "success update book by id"
	MessageDeleteBook = "success delete book by id"
)

// MessageBodyTooLarge is returned with 413 for bodies over shared.MaxBodyBytes.
const MessageBodyTooLarge = "request entity too large"

// BookHandler handles book-related HTTP requests.
type BookHandler struct {
	books service.BookService
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(books service.BookService) *BookHandler {
	return &BookHandler{books: books}
}

// ListBooks handles GET /books requests.
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) error {
	books, err := h.books.ListAll(r.Context())
	if err != nil {
		return err
	}
	shared.RespondOK(w, r, MessageListBooks, books)
	return nil
}

// CreateBook handles POST /books requests.
func (h *BookHandler) CreateBook(w http.ResponseWriter, r *http.Request) error {
	fields, err := validation.DecodeCreateBook(shared.LimitedBody(w, r))
	if err != nil {
		return bodyError(err)
	}

	book, err := h.books.Create(r.Context(), fields)
	if err != nil {
		return err
	}
	shared.RespondOK(w, r, MessageCreateBook, book)
	return nil
}

// GetBook handles GET /books/{id} requests.
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) error {
	book, found, err := h.books.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	if !found {
		respondNotFound(w, r)
		return nil
	}
	shared.RespondOK(w, r, MessageGetBook, book)
	return nil
}

// UpdateBook handles PUT /books/{id} requests. The body is validated before
// the service is called.
func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) error {
	patch, err := validation.DecodeUpdateBook(shared.LimitedBody(w, r))
	if err != nil {
		return bodyError(err)
	}

	book, found, err := h.books.UpdateByID(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		return err
	}
	if !found {
		respondNotFound(w, r)
		return nil
	}
	shared.RespondOK(w, r, MessageUpdateBook, book)
	return nil
}

// DeleteBook handles DELETE /books/{id} requests.
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) error {
	book, found, err := h.books.DeleteByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	if !found {
		respondNotFound(w, r)
		return nil
	}
	shared.RespondOK(w, r, MessageDeleteBook, book)
	return nil
}

func respondNotFound(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithEnvelope(w, r, http.StatusNotFound, shared.Failure(MessageNotFound))
}

// bodyError gives an oversized body its own status. Other decode errors pass
// through to the terminal handler unchanged.
func bodyError(err error) error {
	if errors.Is(err, validation.ErrBodyTooLarge) {
		return NewHTTPError(http.StatusRequestEntityTooLarge, MessageBodyTooLarge, err)
	}
	return err
}
