package source

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for upstream fetches.
var (
	// ErrTransport covers network failures and non-success status codes.
	ErrTransport = errors.New("transport error")
	// ErrPayload is returned when a successful response body is not the
	// expected shape, e.g. an HTML error page instead of a JSON array.
	ErrPayload = errors.New("unexpected payload")
)

// TransportError carries the detail of a failed fetch.
type TransportError struct {
	Dataset    string
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Dataset, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Dataset, e.Err)
}

// Is makes every TransportError match ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
