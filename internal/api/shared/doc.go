// Package shared holds the response envelope and request-scoped helpers
// used by the api package and its middleware.
package shared
