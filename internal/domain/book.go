package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MinPublishedYear is the earliest publication year a book may carry.
const MinPublishedYear = 1900

// Validation errors for Book documents.
var (
	ErrEmptyBookTitle       = fmt.Errorf("%w: title cannot be empty", ErrValidation)
	ErrEmptyBookAuthor      = fmt.Errorf("%w: author cannot be empty", ErrValidation)
	ErrMissingBookGenres    = fmt.Errorf("%w: genres are required", ErrValidation)
	ErrInvalidPublishedYear = fmt.Errorf("%w: published year is out of range", ErrValidation)
	ErrNegativeBookStock    = fmt.Errorf("%w: stock cannot be negative", ErrValidation)
)

// Book is the single managed record. ID and the timestamps are assigned by
// the store; the remaining fields are supplied by clients.
type Book struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	PublishedYear int       `json:"publishedYear"`
	Genres        []string  `json:"genres"`
	Stock         int       `json:"stock"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// BookFields holds the client-supplied fields of a new book.
type BookFields struct {
	Title         string
	Author        string
	PublishedYear int
	Genres        []string
	Stock         int
}

// BookPatch is a partial update. Nil fields are left untouched.
type BookPatch struct {
	Title         *string
	Author        *string
	PublishedYear *int
	Genres        *[]string
	Stock         *int
}

// NewBook builds an unsaved Book from the given fields. Genres is copied so
// later mutation of the caller's slice cannot leak into the record.
func NewBook(fields BookFields) Book {
	return Book{
		Title:         fields.Title,
		Author:        fields.Author,
		PublishedYear: fields.PublishedYear,
		Genres:        cloneGenres(fields.Genres),
		Stock:         fields.Stock,
	}
}

// Fields returns the client-supplied part of the book.
func (b Book) Fields() BookFields {
	return BookFields{
		Title:         b.Title,
		Author:        b.Author,
		PublishedYear: b.PublishedYear,
		Genres:        cloneGenres(b.Genres),
		Stock:         b.Stock,
	}
}

// Validate checks the document-level invariants the store enforces on every
// write. The upper bound of PublishedYear depends on the current date and is
// only checked at the request boundary.
func (f BookFields) Validate() error {
	if f.Title == "" {
		return ErrEmptyBookTitle
	}
	if f.Author == "" {
		return ErrEmptyBookAuthor
	}
	if f.Genres == nil {
		return ErrMissingBookGenres
	}
	if f.PublishedYear < MinPublishedYear {
		return fmt.Errorf("%w: %d", ErrInvalidPublishedYear, f.PublishedYear)
	}
	if f.Stock < 0 {
		return ErrNegativeBookStock
	}
	return nil
}

// Apply merges the patch into the fields and returns the merged copy.
func (p BookPatch) Apply(f BookFields) BookFields {
	if p.Title != nil {
		f.Title = *p.Title
	}
	if p.Author != nil {
		f.Author = *p.Author
	}
	if p.PublishedYear != nil {
		f.PublishedYear = *p.PublishedYear
	}
	if p.Genres != nil {
		f.Genres = cloneGenres(*p.Genres)
	}
	if p.Stock != nil {
		f.Stock = *p.Stock
	}
	return f
}

// IsEmpty reports whether the patch carries no fields.
func (p BookPatch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.PublishedYear == nil &&
		p.Genres == nil && p.Stock == nil
}

func cloneGenres(genres []string) []string {
	if genres == nil {
		return nil
	}
	out := make([]string, len(genres))
	copy(out, genres)
	return out
}
