package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/nao1215/rpvsharvest/internal/model"
)

// filePerm is the permission of written files.
const filePerm = 0o644

// dirPerm is the permission of created parent directories.
const dirPerm = 0o755

// Store reads and writes the records file and the cache file.
//
// Design decision: Store holds no data itself. The crawl controller owns the
// in-memory collection and cache and hands the complete state to every
// save, which keeps the files an exact snapshot of the controller state.
type Store struct {
	recordsPath string
	cachePath   string
}

// New creates a Store and makes sure the parent directories of both files
// exist.
func New(recordsPath, cachePath string) (*Store, error) {
	if recordsPath == "" || cachePath == "" {
		return nil, ErrEmptyPath
	}
	for _, p := range []string{recordsPath, cachePath} {
		if err := os.MkdirAll(filepath.Dir(p), dirPerm); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", p, err)
		}
	}
	return &Store{recordsPath: recordsPath, cachePath: cachePath}, nil
}

// RecordsPath returns the records file path.
func (s *Store) RecordsPath() string {
	return s.recordsPath
}

// CachePath returns the cache file path.
func (s *Store) CachePath() string {
	return s.cachePath
}

// LoadRecords reads the records file.
// A missing file yields an empty, non-nil slice.
func (s *Store) LoadRecords() ([]model.Record, error) {
	return ReadRecords(s.recordsPath)
}

// ReadRecords reads a records file without creating any directory.
// A missing or blank file yields an empty, non-nil slice.
func ReadRecords(path string) ([]model.Record, error) {
	records := []model.Record{}
	found, err := readJSON(path, &records)
	if err != nil {
		return nil, err
	}
	if !found || records == nil {
		return []model.Record{}, nil
	}
	return records, nil
}

// LoadCache reads the cache file.
// A missing file yields an empty cache.
func (s *Store) LoadCache() (*Cache, error) {
	var urls []string
	if _, err := readJSON(s.cachePath, &urls); err != nil {
		return nil, err
	}
	return NewCache(urls...), nil
}

// SaveRecords replaces the records file with records.
func (s *Store) SaveRecords(records []model.Record) error {
	if records == nil {
		records = []model.Record{}
	}
	return writeJSON(s.recordsPath, records)
}

// SaveCache replaces the cache file with the sorted content of cache.
func (s *Store) SaveCache(cache *Cache) error {
	return writeJSON(s.cachePath, cache.Sorted())
}

// readJSON decodes path into v. It reports false when the file is missing.
func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrCorruptFile, path, err)
	}
	return true, nil
}

// writeJSON encodes v with two-space indentation and no HTML escaping and
// atomically replaces path with the result.
func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := renameio.WriteFile(path, buf.Bytes(), filePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
