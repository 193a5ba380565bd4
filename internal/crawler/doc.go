// Package crawler drives a resumable, sequential crawl over partner IDs.
//
// # Architecture
//
// The Controller owns the in-memory record collection and the processed-URL
// cache. For every ID in the requested range it checks the cache, fetches the
// detail page, extracts a record and, when one was found, persists both the
// collection and the cache before moving on. The controller is the only
// writer of both, so no locking is involved.
//
// # Outcomes
//
// Each ID ends in exactly one Outcome:
//
//   - Cached: the URL is in the cache; no request is made
//   - Saved: a record was extracted and persisted
//   - Empty: the page lists no beneficial owners; the ID is retried next run
//   - FetchFailed: transport error or non-2xx status; logged and skipped
//   - ExtractFailed: the page could not be parsed; logged and skipped
//
// Only persistence failures stop the run. Continuing without durable state
// would break resumability.
//
// # Resumability
//
// Every saved record is flushed together with the cache before the next ID
// is touched. Killing the process at any point leaves files that describe
// every ID up to the last saved one, and the next run skips those IDs.
//
// # Politeness
//
// After each saved record the controller pauses for the configured delay,
// except after the last ID of the range. The pause is cut short when the
// context is canceled.
//
// # Usage
//
//	ctrl, err := crawler.New(client, st, crawler.WithDelay(200*time.Millisecond))
//	summary, err := ctrl.Run(ctx, crawler.NewSession(logger), 1, 100)
package crawler
