package export

import "errors"

// Sentinel error kinds for exports.
var (
	// ErrNothingToExport signals an empty record set. It is a warning:
	// callers skip writing output rather than failing.
	ErrNothingToExport = errors.New("nothing to export")
	ErrWriteXLSX       = errors.New("xlsx write failed")
)
