// Package service contains the application use cases for book records.
// It sits between the HTTP handlers in internal/api and the persistence
// interfaces in internal/store.
//
// Lookups that target a single book (GetByID, UpdateByID, DeleteByID) return
// a comma-ok result: found=false is the normal way to report an absent or
// malformed identifier, and is never expressed as an error value. Any error
// that does come back is an infrastructure failure, wrapped with the failing
// operation so callers can still match the store sentinels with errors.Is.
//
// The service layer depends on domain entities and store interfaces, never
// on a concrete backend.
package service
