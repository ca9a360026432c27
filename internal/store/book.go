package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/books-api/internal/domain"
)

// BookStore defines the interface for book document persistence.
// Every method maps to exactly one backend call.
type BookStore interface {
	// List returns every stored book in store-native order.
	// Returns an empty slice when the collection is empty.
	List(ctx context.Context) ([]domain.Book, error)

	// Create inserts a new book document and returns it with the
	// store-assigned ID and timestamps.
	// Returns an error wrapping ErrInvalidEntity if the document violates the store schema.
	Create(ctx context.Context, fields domain.BookFields) (domain.Book, error)

	// GetByID retrieves a book by its unique ID.
	// Returns ErrBookNotFound if the book does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Book, error)

	// Update merges the non-nil patch fields into the stored document,
	// re-validates the merged document and returns the post-update image.
	// Returns ErrBookNotFound if the book does not exist.
	Update(ctx context.Context, id uuid.UUID, patch domain.BookPatch) (domain.Book, error)

	// Delete removes a book and returns the document as it was just before deletion.
	// Returns ErrBookNotFound if the book does not exist.
	Delete(ctx context.Context, id uuid.UUID) (domain.Book, error)
}
