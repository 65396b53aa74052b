package service

import "errors"

// Sentinel error kinds for report requests.
var (
	ErrUnknownKind   = errors.New("unknown report kind")
	ErrUnknownFormat = errors.New("unknown export format")
	ErrNoSource      = errors.New("no source configured")
)
