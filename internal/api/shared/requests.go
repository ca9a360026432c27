package shared

import (
	"io"
	"net/http"
)

// MaxBodyBytes caps the size of a request body.
const MaxBodyBytes = 1 << 20

// LimitedBody returns the request body capped at MaxBodyBytes. Reading past
// the cap fails, which callers report as an invalid body.
func LimitedBody(w http.ResponseWriter, r *http.Request) io.Reader {
	if r.Body == nil {
		return http.NoBody
	}
	return http.MaxBytesReader(w, r.Body, MaxBodyBytes)
}
