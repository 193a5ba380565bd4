package extract

import "errors"

// Extraction errors.
var (
	// ErrNoSourceURL is returned when Extract is called without a source URL.
	// The source URL is the unique key of a record, so a record cannot exist
	// without one.
	ErrNoSourceURL = errors.New("source URL is required")

	// ErrNilDocument is returned when Extract is called with a nil document.
	ErrNilDocument = errors.New("document is nil")
)
