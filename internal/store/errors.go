package store

import "errors"

var (
	// ErrEmptyPath is returned by New when a file path is empty.
	ErrEmptyPath = errors.New("store: file path must not be empty")

	// ErrCorruptFile is returned when an existing file is not valid JSON.
	// The crawl refuses to start rather than overwrite the file.
	ErrCorruptFile = errors.New("store: file is not valid JSON")
)
