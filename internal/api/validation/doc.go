// Package validation checks book request bodies before they reach the
// service. A body is first decoded into a generic JSON object so that shape
// problems (wrong JSON types, non-integral numbers, unknown keys) can be
// reported per field; the typed result is then checked against the
// CreateBookSchema or UpdateBookSchema constraints with validator/v10.
//
// Every violated rule is reported. The messages are joined with ", " into a
// single *Error, which the HTTP layer turns into a 400 response.
package validation
