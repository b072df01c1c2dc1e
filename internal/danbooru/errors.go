package danbooru

import (
	"errors"
	"fmt"
	"net/http"
)

// API errors.
var (
	// ErrUnexpectedStatus is matched by every *StatusError.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrMalformedPage is returned when a page body is not a JSON array.
	ErrMalformedPage = errors.New("malformed page: expected a JSON array")

	// ErrInvalidProxyAddress is returned when the proxy address format is invalid.
	// Expected format is "host:port" or "user:password@host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected [user:password@]host:port")

	// ErrInvalidPage is returned when a page number below 1 is requested.
	ErrInvalidPage = errors.New("invalid page number: must be at least 1")
)

// StatusError reports a non-2xx response for a page request.
type StatusError struct {
	// Page is the page number requested.
	Page int

	// StatusCode is the HTTP status received.
	StatusCode int
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("page %d: unexpected HTTP status %d %s",
		e.Page, e.StatusCode, http.StatusText(e.StatusCode))
}

// Is makes errors.Is(err, ErrUnexpectedStatus) true for any StatusError.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}
