// Package fetch downloads registry pages.
//
// The Client wraps a resty client with the settings the registry needs: a
// browser-like User-Agent, a per-request timeout and optional extra headers.
// Detail pages are decoded to UTF-8 using the charset announced by the
// server, so callers always work with UTF-8 text regardless of how the page
// was served.
//
// Fetch never retries. A failed ID is reported to the caller, which logs it
// and moves on; rerunning the crawl is the retry mechanism.
package fetch
