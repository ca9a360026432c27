package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/books-api/internal/domain"
	"github.com/phrazzld/books-api/internal/platform/logger"
	"github.com/phrazzld/books-api/internal/redact"
	"github.com/phrazzld/books-api/internal/store"
)

// BookService provides book-related operations.
type BookService interface {
	// ListAll returns every stored book in store-native order.
	// The slice is never nil.
	ListAll(ctx context.Context) ([]domain.Book, error)

	// Create persists a new book and returns it with its ID and timestamps.
	// The fields are expected to be validated by the caller.
	Create(ctx context.Context, fields domain.BookFields) (domain.Book, error)

	// GetByID returns the book with the given ID, or found=false.
	GetByID(ctx context.Context, id string) (book domain.Book, found bool, err error)

	// UpdateByID applies the non-nil patch fields and returns the post-update
	// book, or found=false.
	UpdateByID(ctx context.Context, id string, patch domain.BookPatch) (book domain.Book, found bool, err error)

	// DeleteByID removes the book and returns it as it was just before
	// deletion, or found=false.
	DeleteByID(ctx context.Context, id string) (book domain.Book, found bool, err error)
}

// bookServiceImpl implements the BookService interface
type bookServiceImpl struct {
	books  store.BookStore
	logger *slog.Logger
}

var _ BookService = (*bookServiceImpl)(nil)

// NewBookService creates a new BookService backed by the given store.
// It returns an error if the store is nil. If logger is nil, slog.Default is used.
func NewBookService(books store.BookStore, log *slog.Logger) (BookService, error) {
	if books == nil {
		return nil, &BookServiceError{
			Operation: "create_service",
			Message:   "book store cannot be nil",
		}
	}
	if log == nil {
		log = slog.Default()
	}
	return &bookServiceImpl{
		books:  books,
		logger: log.With(slog.String("component", "book_service")),
	}, nil
}

// ListAll implements BookService.ListAll.
func (s *bookServiceImpl) ListAll(ctx context.Context) ([]domain.Book, error) {
	books, err := s.books.List(ctx)
	if err != nil {
		s.log(ctx).Error("failed to list books", slog.String("error", redact.Error(err)))
		return nil, NewBookServiceError("list_all", "failed to list books", err)
	}
	if books == nil {
		books = []domain.Book{}
	}
	return books, nil
}

// Create implements BookService.Create.
func (s *bookServiceImpl) Create(ctx context.Context, fields domain.BookFields) (domain.Book, error) {
	book, err := s.books.Create(ctx, fields)
	if err != nil {
		s.log(ctx).Error("failed to create book", slog.String("error", redact.Error(err)))
		return domain.Book{}, NewBookServiceError("create", "failed to create book", err)
	}
	return book, nil
}

// GetByID implements BookService.GetByID.
func (s *bookServiceImpl) GetByID(ctx context.Context, id string) (domain.Book, bool, error) {
	bookID, ok := s.parseID(ctx, id)
	if !ok {
		return domain.Book{}, false, nil
	}

	book, err := s.books.GetByID(ctx, bookID)
	return s.lookupResult(ctx, "get_by_id", bookID, book, err)
}

// UpdateByID implements BookService.UpdateByID.
// The store re-validates the merged document before committing it.
func (s *bookServiceImpl) UpdateByID(
	ctx context.Context,
	id string,
	patch domain.BookPatch,
) (domain.Book, bool, error) {
	bookID, ok := s.parseID(ctx, id)
	if !ok {
		return domain.Book{}, false, nil
	}

	book, err := s.books.Update(ctx, bookID, patch)
	return s.lookupResult(ctx, "update_by_id", bookID, book, err)
}

// DeleteByID implements BookService.DeleteByID.
func (s *bookServiceImpl) DeleteByID(ctx context.Context, id string) (domain.Book, bool, error) {
	bookID, ok := s.parseID(ctx, id)
	if !ok {
		return domain.Book{}, false, nil
	}

	book, err := s.books.Delete(ctx, bookID)
	return s.lookupResult(ctx, "delete_by_id", bookID, book, err)
}

// parseID treats a malformed identifier the same as an absent one.
func (s *bookServiceImpl) parseID(ctx context.Context, id string) (uuid.UUID, bool) {
	bookID, err := uuid.Parse(id)
	if err != nil {
		s.log(ctx).Debug("malformed book id", slog.String("book_id", id))
		return uuid.Nil, false
	}
	return bookID, true
}

func (s *bookServiceImpl) lookupResult(
	ctx context.Context,
	operation string,
	id uuid.UUID,
	book domain.Book,
	err error,
) (domain.Book, bool, error) {
	switch {
	case err == nil:
		return book, true, nil
	case store.IsNotFoundError(err):
		return domain.Book{}, false, nil
	default:
		s.log(ctx).Error("book lookup failed",
			slog.String("operation", operation),
			slog.String("book_id", id.String()),
			slog.String("error", redact.Error(err)))
		return domain.Book{}, false, NewBookServiceError(operation, "store call failed", err)
	}
}

func (s *bookServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}
