package errors

import (
	"errors"
	"fmt"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// Taxonomy of the streaming/registry core. Callers branch on these with
// errors.Is; the HTTP layer maps them to status codes in one place.
var (
	ErrMalformedRange      = errors.New("malformed range header")
	ErrMalformedToken      = errors.New("malformed link token")
	ErrInvalidFingerprint  = errors.New("fingerprint mismatch")
	ErrObjectNotFound      = errors.New("object not found upstream")
	ErrUpstreamUnavailable = errors.New("upstream temporarily unavailable")
)

// RangeNotSatisfiableError carries the total size so the HTTP layer can
// answer 416 with "Content-Range: bytes */<size>".
type RangeNotSatisfiableError struct {
	TotalSize int64
}

func (e *RangeNotSatisfiableError) Error() string {
	return fmt.Sprintf("requested range not satisfiable for size %d", e.TotalSize)
}
