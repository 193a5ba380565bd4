package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrInvalidStartID is returned when the start ID is below 1.
	// Registry IDs start at 1.
	ErrInvalidStartID = errors.New("invalid start ID: must be at least 1")

	// ErrInvalidRange is returned when an explicit end ID is below the start ID.
	ErrInvalidRange = errors.New("invalid ID range: end must not be below start (use 0 to crawl to the last record)")

	// ErrNoOutputFile is returned when the output file path is empty.
	ErrNoOutputFile = errors.New("no output file specified")

	// ErrNoCacheFile is returned when the cache file path is empty.
	ErrNoCacheFile = errors.New("no cache file specified")

	// ErrSameFile is returned when the output and cache paths are the same
	// file. Each save would overwrite the other.
	ErrSameFile = errors.New("output file and cache file must be different")

	// ErrInvalidDelay is returned when the delay is negative.
	// Use 0 for no pause between records.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidTimeout is returned when the page timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidCountTimeout is returned when the count timeout is not
	// positive and the end ID has to be queried.
	ErrInvalidCountTimeout = errors.New("invalid count timeout: must be positive")

	// ErrInvalidURL is returned when an endpoint is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid registry URL: must be an absolute http or https URL")

	// ErrInvalidLogFormat is returned for a log format other than text or json.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")
)
