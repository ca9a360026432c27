package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // registers the postgres dialect
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/phrazzld/books-api/internal/domain"
	"github.com/phrazzld/books-api/internal/platform/logger"
	"github.com/phrazzld/books-api/internal/redact"
	"github.com/phrazzld/books-api/internal/store"
)

const (
	tableBooks      = "books"
	colID           = "id"
	colDocument     = "document"
	colCreatedAt    = "created_at"
	colUpdatedAt    = "updated_at"
	dialectPostgres = "postgres"
	castJsonb       = "?::jsonb"
	mergeJsonb      = "? || ?::jsonb"
	entityBook      = "book"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var bookColumns = []any{colID, colDocument, colCreatedAt, colUpdatedAt}

// bookDocument is the jsonb payload stored in books.document.
type bookDocument struct {
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	PublishedYear int      `json:"publishedYear"`
	Genres        []string `json:"genres"`
	Stock         int      `json:"stock"`
}

// PostgresBookStore implements the store.BookStore interface
// using a PostgreSQL jsonb column as the document store.
type PostgresBookStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBookStore creates a new PostgreSQL implementation of the BookStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresBookStore(db store.DBTX, logger *slog.Logger) *PostgresBookStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresBookStore{
		db:     db,
		logger: logger.With(slog.String("component", "book_store")),
	}
}

// Ensure PostgresBookStore implements store.BookStore interface
var _ store.BookStore = (*PostgresBookStore)(nil)

// List implements store.BookStore.List.
// No ORDER BY is applied; rows come back in the table's native order.
func (s *PostgresBookStore) List(ctx context.Context) ([]domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := buildListQuery()
	if err != nil {
		return nil, store.NewStoreError(entityBook, "list", "failed to build query", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list books", slog.String("error", redact.Error(err)))
		return nil, store.NewStoreError(entityBook, "list", "query failed", MapError(err))
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	books := make([]domain.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, store.NewStoreError(entityBook, "list", "failed to scan row", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError(entityBook, "list", "row iteration failed", MapError(err))
	}

	log.Debug("books listed", slog.Int("count", len(books)))
	return books, nil
}

// Create implements store.BookStore.Create.
// The id and both timestamps come from column defaults via RETURNING.
func (s *PostgresBookStore) Create(ctx context.Context, fields domain.BookFields) (domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	doc, err := json.Marshal(toDocument(fields))
	if err != nil {
		return domain.Book{}, store.NewStoreError(entityBook, "create", "failed to encode document", err)
	}

	query, args, err := buildInsertQuery(doc)
	if err != nil {
		return domain.Book{}, store.NewStoreError(entityBook, "create", "failed to build query", err)
	}

	book, err := scanBook(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrInvalidEntity) {
			log.Warn("book document rejected by store schema", slog.String("error", redact.Error(err)))
		} else {
			log.Error("failed to create book", slog.String("error", redact.Error(err)))
		}
		return domain.Book{}, store.NewStoreError(entityBook, "create", "insert failed", mapped)
	}

	log.Info("book created", slog.String("book_id", book.ID.String()))
	return book, nil
}

// GetByID implements store.BookStore.GetByID.
// Returns store.ErrBookNotFound if the book does not exist.
func (s *PostgresBookStore) GetByID(ctx context.Context, id uuid.UUID) (domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := buildGetQuery(id)
	if err != nil {
		return domain.Book{}, store.NewStoreError(entityBook, "get", "failed to build query", err)
	}

	book, err := scanBook(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if IsNotFoundError(err) {
			log.Debug("book not found", slog.String("book_id", id.String()))
			return domain.Book{}, store.ErrBookNotFound
		}
		log.Error("failed to get book by ID",
			slog.String("error", redact.Error(err)),
			slog.String("book_id", id.String()))
		return domain.Book{}, store.NewStoreError(entityBook, "get", "select failed", MapError(err))
	}
	return book, nil
}

// Update implements store.BookStore.Update.
// The patch is merged into the stored document with jsonb ||, so the table's
// CHECK constraints validate the merged document before the row is written.
func (s *PostgresBookStore) Update(ctx context.Context, id uuid.UUID, patch domain.BookPatch) (domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	doc, err := json.Marshal(toPatchDocument(patch))
	if err != nil {
		return domain.Book{}, store.NewStoreError(entityBook, "update", "failed to encode patch", err)
	}

	query, args, err := buildUpdateQuery(id, doc)
	if err != nil {
		return domain.Book{}, store.NewStoreError(entityBook, "update", "failed to build query", err)
	}

	book, err := scanBook(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if IsNotFoundError(err) {
			log.Debug("book not found for update", slog.String("book_id", id.String()))
			return domain.Book{}, store.ErrBookNotFound
		}
		mapped := MapError(err)
		log.Error("failed to update book",
			slog.String("error", redact.Error(err)),
			slog.String("book_id", id.String()))
		return domain.Book{}, store.NewStoreError(entityBook, "update", "update failed", mapped)
	}

	log.Info("book updated", slog.String("book_id", id.String()))
	return book, nil
}

// Delete implements store.BookStore.Delete.
// RETURNING yields the row as it was just before deletion.
func (s *PostgresBookStore) Delete(ctx context.Context, id uuid.UUID) (domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := buildDeleteQuery(id)
	if err != nil {
		return domain.Book{}, store.NewStoreError(entityBook, "delete", "failed to build query", err)
	}

	book, err := scanBook(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if IsNotFoundError(err) {
			log.Debug("book not found for delete", slog.String("book_id", id.String()))
			return domain.Book{}, store.ErrBookNotFound
		}
		log.Error("failed to delete book",
			slog.String("error", redact.Error(err)),
			slog.String("book_id", id.String()))
		return domain.Book{}, store.NewStoreError(entityBook, "delete", "delete failed", MapError(err))
	}

	log.Info("book deleted", slog.String("book_id", id.String()))
	return book, nil
}

func buildListQuery() (string, []any, error) {
	return goqu.Dialect(dialectPostgres).
		From(tableBooks).
		Select(bookColumns...).
		Prepared(true).
		ToSQL()
}

func buildInsertQuery(doc []byte) (string, []any, error) {
	return goqu.Dialect(dialectPostgres).
		Insert(tableBooks).
		Cols(colDocument).
		Vals(goqu.Vals{goqu.L(castJsonb, string(doc))}).
		Returning(bookColumns...).
		Prepared(true).
		ToSQL()
}

func buildGetQuery(id uuid.UUID) (string, []any, error) {
	return goqu.Dialect(dialectPostgres).
		From(tableBooks).
		Select(bookColumns...).
		Where(goqu.C(colID).Eq(id.String())).
		Prepared(true).
		ToSQL()
}

func buildUpdateQuery(id uuid.UUID, patch []byte) (string, []any, error) {
	return goqu.Dialect(dialectPostgres).
		Update(tableBooks).
		Set(goqu.Record{
			colDocument:  goqu.L(mergeJsonb, goqu.I(colDocument), string(patch)),
			colUpdatedAt: goqu.L("now()"),
		}).
		Where(goqu.C(colID).Eq(id.String())).
		Returning(bookColumns...).
		Prepared(true).
		ToSQL()
}

func buildDeleteQuery(id uuid.UUID) (string, []any, error) {
	return goqu.Dialect(dialectPostgres).
		Delete(tableBooks).
		Where(goqu.C(colID).Eq(id.String())).
		Returning(bookColumns...).
		Prepared(true).
		ToSQL()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (domain.Book, error) {
	var (
		book domain.Book
		raw  []byte
	)
	if err := row.Scan(&book.ID, &raw, &book.CreatedAt, &book.UpdatedAt); err != nil {
		return domain.Book{}, err
	}

	var doc bookDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Book{}, fmt.Errorf("failed to decode book document %s: %w", book.ID, err)
	}

	book.Title = doc.Title
	book.Author = doc.Author
	book.PublishedYear = doc.PublishedYear
	book.Genres = doc.Genres
	if book.Genres == nil {
		book.Genres = []string{}
	}
	book.Stock = doc.Stock
	return book, nil
}

// toDocument keeps nil genres as JSON null so the store schema rejects it.
func toDocument(f domain.BookFields) bookDocument {
	return bookDocument{
		Title:         f.Title,
		Author:        f.Author,
		PublishedYear: f.PublishedYear,
		Genres:        f.Genres,
		Stock:         f.Stock,
	}
}

// toPatchDocument keeps only the fields present in the patch, so the jsonb
// merge leaves every other key untouched.
func toPatchDocument(p domain.BookPatch) map[string]any {
	doc := make(map[string]any, 5)
	if p.Title != nil {
		doc["title"] = *p.Title
	}
	if p.Author != nil {
		doc["author"] = *p.Author
	}
	if p.PublishedYear != nil {
		doc["publishedYear"] = *p.PublishedYear
	}
	if p.Genres != nil {
		genres := *p.Genres
		if genres == nil {
			genres = []string{}
		}
		doc["genres"] = genres
	}
	if p.Stock != nil {
		doc["stock"] = *p.Stock
	}
	return doc
}
