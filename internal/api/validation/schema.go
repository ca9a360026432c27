package validation

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/books-api/internal/domain"
)

// Tag names of the custom rules.
const (
	tagNotFuture  = "notfuture"
	tagAtLeastOne = "atleastone"
)

// now is replaced in tests.
var now = time.Now

// CreateBookSchema lists the constraints of a create request. Pointer fields
// distinguish an absent key from a zero value.
type CreateBookSchema struct {
	Title         *string   `json:"title"         validate:"required,min=1"`
	Author        *string   `json:"author"        validate:"required,min=1"`
	Genres        *[]string `json:"genres"        validate:"required"`
	PublishedYear *int      `json:"publishedYear" validate:"required,min=1900,notfuture"`
	Stock         *int      `json:"stock"         validate:"required,min=0"`
}

// UpdateBookSchema lists the constraints of an update request. Every field is
// optional, but at least one must be present.
type UpdateBookSchema struct {
	Title         *string   `json:"title"         validate:"omitempty,min=1"`
	Author        *string   `json:"author"        validate:"omitempty,min=1"`
	Genres        *[]string `json:"genres"        validate:"omitempty"`
	PublishedYear *int      `json:"publishedYear" validate:"omitempty,min=1900,notfuture"`
	Stock         *int      `json:"stock"         validate:"omitempty,min=0"`
}

// Fields converts a validated create schema into domain fields.
func (s CreateBookSchema) Fields() domain.BookFields {
	var f domain.BookFields
	if s.Title != nil {
		f.Title = *s.Title
	}
	if s.Author != nil {
		f.Author = *s.Author
	}
	if s.Genres != nil {
		f.Genres = *s.Genres
	}
	if s.PublishedYear != nil {
		f.PublishedYear = *s.PublishedYear
	}
	if s.Stock != nil {
		f.Stock = *s.Stock
	}
	return f
}

// Patch converts a validated update schema into a domain patch.
func (s UpdateBookSchema) Patch() domain.BookPatch {
	return domain.BookPatch{
		Title:         s.Title,
		Author:        s.Author,
		PublishedYear: s.PublishedYear,
		Genres:        s.Genres,
		Stock:         s.Stock,
	}
}

// validate is shared by every request; validator.Validate caches struct
// metadata and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation(tagNotFuture, notFuture); err != nil {
		panic(err)
	}
	v.RegisterStructValidation(atLeastOneField, UpdateBookSchema{})
	return v
}

// notFuture rejects years after the current calendar year.
func notFuture(fl validator.FieldLevel) bool {
	return fl.Field().Int() <= int64(now().Year())
}

func atLeastOneField(sl validator.StructLevel) {
	s := sl.Current().Interface().(UpdateBookSchema)
	if s.Patch().IsEmpty() {
		sl.ReportError(s.Title, "value", "value", tagAtLeastOne, "")
	}
}
