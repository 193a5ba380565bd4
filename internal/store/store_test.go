package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/rpvsharvest/internal/model"
)

// newTestStore creates a Store under a temporary directory.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := New(filepath.Join(dir, "out", "records.json"), filepath.Join(dir, "cache", "ids.json"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return s
}

// TestNew tests directory creation and path validation.
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)
		for _, p := range []string{s.RecordsPath(), s.CachePath()} {
			info, err := os.Stat(filepath.Dir(p))
			if err != nil {
				t.Fatalf("directory for %s not created: %v", p, err)
			}
			if !info.IsDir() {
				t.Errorf("%s is not a directory", filepath.Dir(p))
			}
		}
	})

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()
		if _, err := New("", "cache.json"); !errors.Is(err, ErrEmptyPath) {
			t.Errorf("expected ErrEmptyPath, got %v", err)
		}
	})
}

// TestLoadMissingFiles tests that a first run starts empty.
func TestLoadMissingFiles(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	records, err := s.LoadRecords()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("expected empty non-nil records, got %#v", records)
	}

	cache, err := s.LoadCache()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", cache.Len())
	}
}

// TestLoadCorruptFile tests that invalid JSON is reported.
func TestLoadCorruptFile(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if err := os.WriteFile(s.CachePath(), []byte("[\"https://x/1\","), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadCache(); !errors.Is(err, ErrCorruptFile) {
		t.Errorf("expected ErrCorruptFile, got %v", err)
	}
}

// TestRecordsRoundTrip tests saving and reloading the collection.
func TestRecordsRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	name := "Firma <A&B> s.r.o."
	records := []model.Record{
		{
			BusinessName: &name,
			BeneficialOwners: []model.BeneficialOwner{
				{NameAndSurname: model.StringPtr("Jan Novak")},
			},
			SourceURL: "https://rpvs.gov.sk/rpvs/Partner/Partner/Detail/1",
		},
	}

	if err := s.SaveRecords(records); err != nil {
		t.Fatalf("SaveRecords() error: %v", err)
	}

	data, err := os.ReadFile(s.RecordsPath())
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, `"Business Name": "Firma <A&B> s.r.o."`) {
		t.Errorf("expected unescaped HTML characters, got:\n%s", text)
	}
	if !strings.Contains(text, "\n  {\n    \"Business Name\"") {
		t.Errorf("expected two-space indentation, got:\n%s", text)
	}
	if !strings.Contains(text, `"ICO": null`) {
		t.Errorf("expected explicit null for missing values, got:\n%s", text)
	}

	got, err := s.LoadRecords()
	if err != nil {
		t.Fatalf("LoadRecords() error: %v", err)
	}
	if diff := cmp.Diff(records, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

// TestSaveEmptyRecords tests that an empty collection is written as an array.
func TestSaveEmptyRecords(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if err := s.SaveRecords(nil); err != nil {
		t.Fatalf("SaveRecords() error: %v", err)
	}
	data, err := os.ReadFile(s.RecordsPath())
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("expected [], got %q", data)
	}
}

// TestCacheRoundTrip tests that the cache file is sorted by numeric ID.
func TestCacheRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	cache := NewCache(
		"https://x/Detail/10",
		"https://x/Detail/2",
		"https://x/Detail/1",
	)
	if err := s.SaveCache(cache); err != nil {
		t.Fatalf("SaveCache() error: %v", err)
	}

	data, err := os.ReadFile(s.CachePath())
	if err != nil {
		t.Fatal(err)
	}
	want := "[\n  \"https://x/Detail/1\",\n  \"https://x/Detail/2\",\n  \"https://x/Detail/10\"\n]\n"
	if string(data) != want {
		t.Errorf("cache file = %q, want %q", data, want)
	}

	loaded, err := s.LoadCache()
	if err != nil {
		t.Fatalf("LoadCache() error: %v", err)
	}
	if diff := cmp.Diff(cache.Sorted(), loaded.Sorted()); diff != "" {
		t.Errorf("cache mismatch (-want +got):\n%s", diff)
	}
}

// TestSaveOverwrites tests that every save replaces the whole file.
func TestSaveOverwrites(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if err := s.SaveCache(NewCache("https://x/1", "https://x/2", "https://x/3")); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveCache(NewCache("https://x/4")); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.LoadCache()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"https://x/4"}, loaded.Sorted()); diff != "" {
		t.Errorf("cache mismatch (-want +got):\n%s", diff)
	}

	entries, err := os.ReadDir(filepath.Dir(s.CachePath()))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the cache file, found %d entries", len(entries))
	}
}

// TestReadRecords tests reading a records file without a Store.
func TestReadRecords(t *testing.T) {
	t.Parallel()

	t.Run("missing file does not create directories", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "absent")
		records, err := ReadRecords(filepath.Join(dir, "records.json"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if records == nil || len(records) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", records)
		}
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			t.Error("ReadRecords should not create the parent directory")
		}
	})

	t.Run("reads saved records", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)
		want := []model.Record{{BusinessName: model.StringPtr("Alfa s.r.o."), SourceURL: "https://example.test/Detail/3"}}
		if err := s.SaveRecords(want); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		got, err := ReadRecords(s.RecordsPath())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("records mismatch (-want +got):\n%s", diff)
		}
	})
}
