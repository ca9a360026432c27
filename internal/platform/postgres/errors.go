package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/books-api/internal/store"
)

// SQLSTATE codes raised when a book document breaks the table's schema.
const (
	checkViolationCode            = "23514"
	notNullViolationCode          = "23502"
	invalidTextRepresentationCode = "22P02" // bad cast inside a jsonb CHECK
)

// schemaViolations names each SQLSTATE that means the document was rejected.
var schemaViolations = map[string]string{
	checkViolationCode:            "document fails constraint",
	notNullViolationCode:          "required column missing",
	invalidTextRepresentationCode: "document field has the wrong type",
}

// MapError translates driver errors into store sentinels. Errors without a
// mapping are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	reason, ok := schemaViolations[pgErr.Code]
	if !ok {
		return err
	}
	if where := violationSubject(pgErr); where != "" {
		return fmt.Errorf("%w: %s (%s): %v", store.ErrInvalidEntity, reason, where, err)
	}
	return fmt.Errorf("%w: %s: %v", store.ErrInvalidEntity, reason, err)
}

// violationSubject prefers the constraint name, then the column.
func violationSubject(pgErr *pgconn.PgError) string {
	if pgErr.Code == checkViolationCode && pgErr.ConstraintName != "" {
		return pgErr.ConstraintName
	}
	if pgErr.Code == notNullViolationCode {
		return pgErr.ColumnName
	}
	return ""
}

// IsNotFoundError reports whether err means no row matched. The book store
// uses it to turn an empty RETURNING into store.ErrBookNotFound.
func IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, store.ErrNotFound)
}
