// Package middleware provides the HTTP middleware of the books API:
// request tracing with a request-scoped logger, panic recovery, and
// per-client rate limiting.
package middleware
