// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying document store from the service
// layer, so the book service can run against Postgres in production and an
// in-memory store in tests.
package store
