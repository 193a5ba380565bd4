package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values match what the registry tolerates for a single sequential
// client and keep file locations compatible with earlier runs.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "rpvsharvest"

	// DefaultStartID is the first partner ID of the registry.
	DefaultStartID = 1

	// DefaultEndID of 0 means the end is taken from the registry's record
	// count at startup.
	DefaultEndID = 0

	// DefaultOutputFile is where the record collection is written.
	DefaultOutputFile = "outputfile/slavak_public_partners_register_data.json"

	// DefaultCacheFile is where processed detail URLs are written.
	DefaultCacheFile = "cache/slavak_public_partners_register_cache_ids.json"

	// DefaultDelay is the pause after each saved record.
	// 200ms keeps the crawl at roughly five detail pages per second, which
	// the registry serves without throttling.
	DefaultDelay = 200 * time.Millisecond

	// DefaultTimeout bounds a single detail page request.
	DefaultTimeout = 10 * time.Second

	// DefaultCountTimeout bounds the record count request. The search
	// endpoint computes the total on every call and is slower than a
	// detail page.
	DefaultCountTimeout = 15 * time.Second

	// DefaultUserAgent is sent with every request. The registry rejects
	// requests without a browser-like User-Agent.
	DefaultUserAgent = "Mozilla/5.0"

	// DefaultDetailBaseURL is the prefix of every partner detail page.
	DefaultDetailBaseURL = "https://rpvs.gov.sk/rpvs/Partner/Partner/Detail"

	// DefaultCountURL is the search endpoint that reports the record total.
	DefaultCountURL = "https://rpvs.gov.sk/rpvs/Partner/Partner/VyhladavaniePartneraData"

	// DefaultDocumentBaseURL is prefixed to relative verification document links.
	DefaultDocumentBaseURL = "https://rpvs.gov.sk"

	// DefaultLogFormat is human-readable text.
	DefaultLogFormat = "text"
)

// Config holds all configuration options for a crawl.
// It is populated from defaults, then the configuration file, then
// explicitly set CLI flags.
//
// Design decision: We use a single flat struct instead of nested structs.
// The number of options is small and every one of them maps to one flag and
// one configuration file key.
type Config struct {
	// StartID is the first partner ID to process (inclusive).
	StartID int

	// EndID is the last partner ID to process (inclusive).
	// 0 means ask the registry for the total record count.
	EndID int

	// OutputFile is the path of the JSON record collection.
	OutputFile string

	// CacheFile is the path of the JSON list of processed detail URLs.
	CacheFile string

	// Delay is the pause after each saved record.
	Delay time.Duration

	// Timeout bounds each detail page request.
	Timeout time.Duration

	// CountTimeout bounds the record count request.
	CountTimeout time.Duration

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// DetailBaseURL is the detail page prefix; the ID is appended after a slash.
	DetailBaseURL string

	// CountURL is the record count endpoint.
	CountURL string

	// DocumentBaseURL is prefixed to relative verification document links.
	DocumentBaseURL string

	// Headers are extra request headers. They are masked in logs.
	Headers map[string]string

	// MetricsFile is where Prometheus metrics are written after the run.
	// Empty disables metrics output.
	MetricsFile string

	// LogFormat is "text" or "json".
	LogFormat string

	// Verbose enables debug logging, including per-ID cache hits.
	Verbose bool

	// Quiet limits logging to warnings and errors.
	Quiet bool

	// ConfigFilePath is the configuration file given on the command line.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because most defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		StartID:         DefaultStartID,
		EndID:           DefaultEndID,
		OutputFile:      DefaultOutputFile,
		CacheFile:       DefaultCacheFile,
		Delay:           DefaultDelay,
		Timeout:         DefaultTimeout,
		CountTimeout:    DefaultCountTimeout,
		UserAgent:       DefaultUserAgent,
		DetailBaseURL:   DefaultDetailBaseURL,
		CountURL:        DefaultCountURL,
		DocumentBaseURL: DefaultDocumentBaseURL,
		Headers:         map[string]string{},
		LogFormat:       DefaultLogFormat,
	}
}

// XDGConfigDir returns the XDG config directory for rpvsharvest.
// On Linux: ~/.config/rpvsharvest
// On macOS: ~/Library/Application Support/rpvsharvest
// On Windows: %APPDATA%\rpvsharvest
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// NeedsCount reports whether the end ID must be obtained from the registry.
func (c *Config) NeedsCount() bool {
	return c.EndID == 0
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast with a clear message before any request is
// made or any file is touched.
func (c *Config) Validate() error {
	if c.StartID < 1 {
		return ErrInvalidStartID
	}

	// EndID 0 is resolved later from the record count
	if c.EndID != 0 && c.EndID < c.StartID {
		return ErrInvalidRange
	}

	if c.OutputFile == "" {
		return ErrNoOutputFile
	}
	if c.CacheFile == "" {
		return ErrNoCacheFile
	}
	if filepath.Clean(c.OutputFile) == filepath.Clean(c.CacheFile) {
		return ErrSameFile
	}

	if c.Delay < 0 {
		return ErrInvalidDelay
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.NeedsCount() && c.CountTimeout <= 0 {
		return ErrInvalidCountTimeout
	}

	if !isHTTPURL(c.DetailBaseURL) || !isHTTPURL(c.DocumentBaseURL) {
		return ErrInvalidURL
	}
	if c.NeedsCount() && !isHTTPURL(c.CountURL) {
		return ErrInvalidURL
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// isHTTPURL reports whether s is an absolute http or https URL.
func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
