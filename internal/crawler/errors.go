package crawler

import "errors"

var (
	// ErrNilFetcher is returned by New when no fetcher is given.
	ErrNilFetcher = errors.New("crawler: fetcher is nil")

	// ErrNilStore is returned by New when no store is given.
	ErrNilStore = errors.New("crawler: store is nil")

	// ErrInvalidRange is returned by Run for an empty or non-positive range.
	ErrInvalidRange = errors.New("crawler: invalid ID range")

	// ErrPersist wraps failures to write the records or cache file.
	// It is the only error that stops a run.
	ErrPersist = errors.New("crawler: failed to persist state")

	// ErrExtractPanic wraps a panic recovered while extracting a page.
	ErrExtractPanic = errors.New("crawler: extraction panicked")
)
