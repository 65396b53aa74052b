package mapper

import "errors"

// Sentinel error kinds for this package.
var (
	ErrMalformedJSON = errors.New("malformed json payload")
	ErrNotArray      = errors.New("json payload is not an array")
)
