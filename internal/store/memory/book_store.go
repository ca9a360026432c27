// Package memory provides an in-process implementation of store.BookStore.
// It backs the service and router tests and the STORE=memory run mode.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/books-api/internal/domain"
	"github.com/phrazzld/books-api/internal/store"
)

// BookStore keeps book documents in a map and remembers insertion order,
// which serves as its native listing order.
type BookStore struct {
	mu    sync.RWMutex
	books map[uuid.UUID]domain.Book
	order []uuid.UUID
	now   func() time.Time
}

var _ store.BookStore = (*BookStore)(nil)

// NewBookStore initializes an empty in-memory book store.
func NewBookStore() *BookStore {
	return &BookStore{
		books: make(map[uuid.UUID]domain.Book),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// List returns books in insertion order.
func (s *BookStore) List(ctx context.Context) ([]domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]domain.Book, 0, len(s.order))
	for _, id := range s.order {
		if b, ok := s.books[id]; ok {
			res = append(res, copyBook(b))
		}
	}
	return res, nil
}

// Create validates the document and stores it under a fresh UUID.
func (s *BookStore) Create(ctx context.Context, fields domain.BookFields) (domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return domain.Book{}, err
	}
	if err := fields.Validate(); err != nil {
		return domain.Book{}, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	book := domain.NewBook(fields)
	book.ID = uuid.New()
	book.CreatedAt = s.now()
	book.UpdatedAt = book.CreatedAt

	s.mu.Lock()
	defer s.mu.Unlock()
	s.books[book.ID] = book
	s.order = append(s.order, book.ID)
	return copyBook(book), nil
}

// GetByID returns store.ErrBookNotFound when no book has the given ID.
func (s *BookStore) GetByID(ctx context.Context, id uuid.UUID) (domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return domain.Book{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.books[id]
	if !ok {
		return domain.Book{}, store.ErrBookNotFound
	}
	return copyBook(b), nil
}

// Update merges the patch, validates the merged document and only then
// replaces the stored copy.
func (s *BookStore) Update(ctx context.Context, id uuid.UUID, patch domain.BookPatch) (domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return domain.Book{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.books[id]
	if !ok {
		return domain.Book{}, store.ErrBookNotFound
	}

	merged := patch.Apply(current.Fields())
	if err := merged.Validate(); err != nil {
		return domain.Book{}, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	updated := domain.NewBook(merged)
	updated.ID = current.ID
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = s.now()
	s.books[id] = updated
	return copyBook(updated), nil
}

// Delete removes the book and returns its last state.
func (s *BookStore) Delete(ctx context.Context, id uuid.UUID) (domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return domain.Book{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.books[id]
	if !ok {
		return domain.Book{}, store.ErrBookNotFound
	}
	delete(s.books, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return b, nil
}

func copyBook(b domain.Book) domain.Book {
	if b.Genres != nil {
		genres := make([]string, len(b.Genres))
		copy(genres, b.Genres)
		b.Genres = genres
	}
	return b
}
