package static

import (
	"errors"
	"fmt"
)

// ErrInvalidProxyAddress is returned when a proxy address is not in
// "host:port" format.
var ErrInvalidProxyAddress = errors.New("invalid proxy address: expected host:port")

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	// URL is the requested URL.
	URL string
	// StatusCode is the HTTP status code of the response.
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}
