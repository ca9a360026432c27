// Package postgres provides the PostgreSQL implementation of store.BookStore.
// Books are kept as jsonb documents in a single table whose CHECK constraints
// act as the document schema, so every insert and every merged update is
// validated by the database before it commits. Queries are built with goqu.
package postgres
