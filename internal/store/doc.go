// Package store persists crawl results and the processed-URL cache as JSON
// files.
//
// Both files are rewritten in full on every save. Writes go through a
// temporary file that is renamed over the target, so an interrupted run
// leaves either the previous or the new content on disk, never a truncated
// file. Loading a file that does not exist yields an empty collection: the
// first run and a resumed run use the same code path.
package store
