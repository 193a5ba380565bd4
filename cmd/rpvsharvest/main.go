// Package main provides the entry point for the rpvsharvest CLI.
//
// rpvsharvest downloads partner detail pages from the Slovak register of
// public sector partners (RPVS) and stores the beneficial owner data as a
// JSON collection. Runs are resumable: IDs processed by an earlier run are
// skipped.
//
// Usage:
//
//	rpvsharvest crawl --start 1 --end 500
//	rpvsharvest report --markdown
//
// See --help for all available options.
package main

// main is the entry point for rpvsharvest.
func main() {
	Execute()
}
