// Package log builds the structured loggers used by rpvsharvest.
//
// Loggers are plain *slog.Logger values whose handler is wrapped in a
// SecureHandler. Extra request headers can be configured for the registry
// (for example an API gateway token), and those headers are logged at the
// start of every crawl. The SecureHandler masks them, together with any
// other value that looks like a credential, before it reaches the output.
//
// # Formats
//
// Text output is the default and is meant for a terminal. JSON output is
// meant for log shipping when the crawl runs as a scheduled job.
//
// # Usage
//
//	logger := log.New(os.Stderr, log.Options{Format: log.FormatText})
//	logger.Info("crawl range", "start", 1, "end", 100, log.Headers(cfg.Headers))
package log
