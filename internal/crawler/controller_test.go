package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/rpvsharvest/internal/extract"
	"github.com/nao1215/rpvsharvest/internal/fetch"
	"github.com/nao1215/rpvsharvest/internal/metrics"
	"github.com/nao1215/rpvsharvest/internal/model"
	"github.com/nao1215/rpvsharvest/internal/store"
)

const testBaseURL = "https://rpvs.test/Detail/"

// discardLogger drops all log output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// partnerPage renders a detail page with one owner.
func partnerPage(name string) string {
	return fmt.Sprintf(`<html><body>
		<div class="form-group"><label>Obchodné meno</label><p class="form-control-static">%s</p></div>
		<div class="form-group"><label>IČO</label><p class="form-control-static">11111111</p></div>
		<table class="table"><tbody>
			<tr><td>Meno a priezvisko Ján Novák Dátum narodenia 1.1.1980</td><td>1.1.1980</td><td>Slovenská republika</td><td>Hlavná 1, 811 01 Bratislava</td></tr>
		</tbody></table>
	</body></html>`, name)
}

// emptyPage is a detail page without owners.
const emptyPage = `<html><body>
	<div class="form-group"><label>Obchodné meno</label><p class="form-control-static">Bez KUV</p></div>
</body></html>`

// fakeFetcher serves canned pages and records requested IDs.
type fakeFetcher struct {
	mu     sync.Mutex
	pages  map[int]string
	errs   map[int]error
	called []int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{pages: map[int]string{}, errs: map[int]error{}}
}

func (f *fakeFetcher) DetailURL(id int) string {
	return testBaseURL + strconv.Itoa(id)
}

func (f *fakeFetcher) Fetch(ctx context.Context, id int) (*fetch.Page, error) {
	f.mu.Lock()
	f.called = append(f.called, id)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.errs[id]; ok {
		return nil, err
	}
	body, ok := f.pages[id]
	if !ok {
		return nil, &fetch.StatusError{URL: f.DetailURL(id), StatusCode: 404}
	}
	return &fetch.Page{ID: id, URL: f.DetailURL(id), StatusCode: 200, Body: []byte(body)}, nil
}

func (f *fakeFetcher) calls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.called...)
}

// noSleep is a Sleeper that returns immediately.
func noSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// newFileStore creates a store in dir.
func newFileStore(t *testing.T, dir string) *store.Store {
	t.Helper()
	st, err := store.New(filepath.Join(dir, "output", "records.json"), filepath.Join(dir, "cache", "ids.json"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return st
}

// newTestController creates a controller with silent logging and no delay.
func newTestController(t *testing.T, f Fetcher, st Store, opts ...Option) *Controller {
	t.Helper()
	base := []Option{WithLogger(discardLogger()), WithSleeper(noSleep)}
	c, err := New(f, st, append(base, opts...)...)
	if err != nil {
		t.Fatalf("failed to create controller: %v", err)
	}
	return c
}

// sourceURLs lists the source URLs of records in order.
func sourceURLs(records []model.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.SourceURL)
	}
	return out
}

func TestRunSavesInAscendingOrder(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	for id := 1; id <= 3; id++ {
		f.pages[id] = partnerPage(fmt.Sprintf("Firma %d", id))
	}
	st := newFileStore(t, t.TempDir())
	c := newTestController(t, f, st)

	summary, err := c.Run(context.Background(), NewSession(discardLogger()), 1, 3)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if summary.Saved != 3 || summary.Processed() != 3 || summary.Records != 3 {
		t.Errorf("unexpected summary %+v", summary)
	}

	records, err := st.LoadRecords()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{testBaseURL + "1", testBaseURL + "2", testBaseURL + "3"}
	if diff := cmp.Diff(want, sourceURLs(records)); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	if got := model.Deref(records[0].BusinessName); got != "Firma 1" {
		t.Errorf("expected business name 'Firma 1', got %q", got)
	}
	if got := model.Deref(records[0].BeneficialOwners[0].NameAndSurname); got != "Jan Novak" {
		t.Errorf("expected normalized owner name, got %q", got)
	}

	cache, err := st.LoadCache()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, cache.Sorted()); diff != "" {
		t.Errorf("cache mismatch (-want +got):\n%s", diff)
	}
}

func TestRunResumesAfterKill(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	f1 := newFakeFetcher()
	for id := 1; id <= 5; id++ {
		f1.pages[id] = partnerPage(fmt.Sprintf("Firma %d", id))
	}

	// First process: IDs 1-3 are saved, then the process dies without any
	// final save.
	first := newTestController(t, f1, newFileStore(t, dir))
	for id := 1; id <= 3; id++ {
		outcome, err := first.Process(context.Background(), id)
		if err != nil || outcome != Saved {
			t.Fatalf("Process(%d) = (%v, %v), want Saved", id, outcome, err)
		}
	}

	// Second process starts from the files on disk.
	f2 := newFakeFetcher()
	f2.pages = f1.pages
	st := newFileStore(t, dir)
	second := newTestController(t, f2, st)

	summary, err := second.Run(context.Background(), nil, 1, 5)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if summary.Cached != 3 || summary.Saved != 2 {
		t.Errorf("expected 3 cached and 2 saved, got %+v", summary)
	}
	if diff := cmp.Diff([]int{4, 5}, f2.calls()); diff != "" {
		t.Errorf("refetched cached IDs (-want +got):\n%s", diff)
	}

	records, err := st.LoadRecords()
	if err != nil {
		t.Fatal(err)
	}
	want := make([]string, 0, 5)
	for id := 1; id <= 5; id++ {
		want = append(want, testBaseURL+strconv.Itoa(id))
	}
	if diff := cmp.Diff(want, sourceURLs(records)); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestNewReconcilesCacheWithRecords(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	st := newFileStore(t, dir)
	// Records were written but the process died before the cache write.
	if err := st.SaveRecords([]model.Record{{SourceURL: testBaseURL + "2"}}); err != nil {
		t.Fatal(err)
	}

	f := newFakeFetcher()
	f.pages[2] = partnerPage("Firma 2")
	c := newTestController(t, f, st)

	outcome, err := c.Process(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if outcome != Cached {
		t.Errorf("expected Cached, got %v", outcome)
	}
	if len(f.calls()) != 0 {
		t.Errorf("expected no fetch, got %v", f.calls())
	}
}

func TestRunEmptyPageIsNotCached(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	f := newFakeFetcher()
	f.pages[1] = emptyPage
	st := newFileStore(t, dir)

	summary, err := newTestController(t, f, st).Run(context.Background(), nil, 1, 1)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if summary.Empty != 1 || len(summary.WarningIDs) != 0 {
		t.Errorf("unexpected summary %+v", summary)
	}

	cache, err := st.LoadCache()
	if err != nil {
		t.Fatal(err)
	}
	if cache.Len() != 0 {
		t.Errorf("expected empty cache, got %v", cache.Sorted())
	}

	// The next run asks for the page again.
	f.pages[1] = partnerPage("Neskoro")
	summary, err = newTestController(t, f, newFileStore(t, dir)).Run(context.Background(), nil, 1, 1)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if summary.Saved != 1 {
		t.Errorf("expected the retried page to be saved, got %+v", summary)
	}
	if diff := cmp.Diff([]int{1, 1}, f.calls()); diff != "" {
		t.Errorf("fetch calls mismatch (-want +got):\n%s", diff)
	}
}

func TestRunContinuesAfterFailures(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	f.pages[1] = partnerPage("Jedna")
	f.errs[2] = errors.New("connection reset by peer")
	f.pages[3] = "<html><body><table class=\"table\"><tbody><tr><td>x</td></tr></tbody></table></body></html>"
	f.pages[4] = partnerPage("Styri")
	// ID 5 has no page and yields a 404.
	f.pages[6] = partnerPage("Sest")

	st := newFileStore(t, t.TempDir())
	summary, err := newTestController(t, f, st).Run(context.Background(), nil, 1, 6)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := Summary{
		Start:       1,
		End:         6,
		Saved:       3,
		Empty:       1,
		FetchFailed: 2,
		WarningIDs:  []int{2, 5},
		Records:     3,
	}
	if diff := cmp.Diff(want, summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2, 3, 4, 5, 6}, f.calls()); diff != "" {
		t.Errorf("fetch calls mismatch (-want +got):\n%s", diff)
	}
}

// panicExtractor panics for one source URL.
type panicExtractor struct {
	url string
}

func (p panicExtractor) Extract(doc extract.Document, sourceURL string) (*model.Record, error) {
	if sourceURL == p.url {
		panic("index out of range")
	}
	return extract.NewExtractor().Extract(doc, sourceURL)
}

func TestRunRecoversExtractionPanic(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	f.pages[1] = partnerPage("Jedna")
	f.pages[2] = partnerPage("Dva")

	st := newFileStore(t, t.TempDir())
	c := newTestController(t, f, st, WithExtractor(panicExtractor{url: testBaseURL + "1"}))

	summary, err := c.Run(context.Background(), nil, 1, 2)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if summary.ExtractFailed != 1 || summary.Saved != 1 {
		t.Errorf("unexpected summary %+v", summary)
	}
	if diff := cmp.Diff([]int{1}, summary.WarningIDs); diff != "" {
		t.Errorf("warning IDs mismatch (-want +got):\n%s", diff)
	}
}

// failingStore fails every save.
type failingStore struct {
	saves int
}

func (s *failingStore) LoadRecords() ([]model.Record, error) { return nil, nil }
func (s *failingStore) LoadCache() (*store.Cache, error)     { return store.NewCache(), nil }
func (s *failingStore) SaveRecords([]model.Record) error {
	s.saves++
	return errors.New("disk full")
}
func (s *failingStore) SaveCache(*store.Cache) error { return nil }

func TestRunStopsOnPersistFailure(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	f.pages[1] = partnerPage("Jedna")
	f.pages[2] = partnerPage("Dva")

	st := &failingStore{}
	_, err := newTestController(t, f, st).Run(context.Background(), nil, 1, 2)
	if err == nil {
		t.Fatal("expected a persistence error")
	}
	if !IsPersistError(err) {
		t.Errorf("expected ErrPersist, got %v", err)
	}
	if diff := cmp.Diff([]int{1}, f.calls()); diff != "" {
		t.Errorf("expected the run to stop after ID 1 (-want +got):\n%s", diff)
	}
	if st.saves != 1 {
		t.Errorf("expected one save attempt, got %d", st.saves)
	}
}

// corruptStore fails to load.
type corruptStore struct{ failingStore }

func (s *corruptStore) LoadCache() (*store.Cache, error) {
	return nil, store.ErrCorruptFile
}

func TestNewErrors(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, &failingStore{}); !errors.Is(err, ErrNilFetcher) {
		t.Errorf("expected ErrNilFetcher, got %v", err)
	}
	if _, err := New(newFakeFetcher(), nil); !errors.Is(err, ErrNilStore) {
		t.Errorf("expected ErrNilStore, got %v", err)
	}
	if _, err := New(newFakeFetcher(), &corruptStore{}); !errors.Is(err, store.ErrCorruptFile) {
		t.Errorf("expected ErrCorruptFile, got %v", err)
	}
}

func TestRunInvalidRange(t *testing.T) {
	t.Parallel()

	c := newTestController(t, newFakeFetcher(), newFileStore(t, t.TempDir()))
	for _, r := range [][2]int{{0, 5}, {5, 4}} {
		if _, err := c.Run(context.Background(), nil, r[0], r[1]); !errors.Is(err, ErrInvalidRange) {
			t.Errorf("Run(%d, %d): expected ErrInvalidRange, got %v", r[0], r[1], err)
		}
	}
}

func TestRunCancellation(t *testing.T) {
	t.Parallel()

	t.Run("canceled before start", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher()
		f.pages[1] = partnerPage("Jedna")
		st := newFileStore(t, t.TempDir())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		summary, err := newTestController(t, f, st).Run(ctx, nil, 1, 3)
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
		if !summary.Interrupted || summary.Processed() != 0 {
			t.Errorf("unexpected summary %+v", summary)
		}
		if _, err := os.Stat(st.RecordsPath()); err != nil {
			t.Errorf("expected records file to be written: %v", err)
		}
	})

	t.Run("canceled during delay", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher()
		for id := 1; id <= 3; id++ {
			f.pages[id] = partnerPage("Firma")
		}
		st := newFileStore(t, t.TempDir())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		sleeper := func(ctx context.Context, _ time.Duration) error {
			cancel()
			return ctx.Err()
		}

		c := newTestController(t, f, st, WithSleeper(sleeper))
		summary, err := c.Run(ctx, nil, 1, 3)
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
		if !summary.Interrupted || summary.Saved != 1 {
			t.Errorf("unexpected summary %+v", summary)
		}
		if diff := cmp.Diff([]int{1}, f.calls()); diff != "" {
			t.Errorf("fetch calls mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestRunDelay(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	f.pages[1] = partnerPage("Jedna")
	f.pages[2] = emptyPage
	f.pages[3] = partnerPage("Tri")
	f.pages[4] = partnerPage("Styri")

	var delays []time.Duration
	sleeper := func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	c := newTestController(t, f, newFileStore(t, t.TempDir()),
		WithDelay(250*time.Millisecond), WithSleeper(sleeper))
	if _, err := c.Run(context.Background(), nil, 1, 4); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	// Paused after 1 and 3; no pause after the empty page or the last ID.
	want := []time.Duration{250 * time.Millisecond, 250 * time.Millisecond}
	if diff := cmp.Diff(want, delays); diff != "" {
		t.Errorf("delays mismatch (-want +got):\n%s", diff)
	}
}

func TestRunRecordsMetrics(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	f.pages[1] = partnerPage("Jedna")
	f.pages[2] = emptyPage

	m := metrics.New()
	c := newTestController(t, f, newFileStore(t, t.TempDir()), WithMetrics(m))
	if _, err := c.Run(context.Background(), nil, 1, 3); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "crawl.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`rpvsharvest_pages_total{outcome="saved"} 1`,
		`rpvsharvest_pages_total{outcome="empty"} 1`,
		`rpvsharvest_pages_total{outcome="fetch_failed"} 1`,
		`rpvsharvest_records_total 1`,
		`rpvsharvest_fetch_duration_seconds_count 3`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("expected %q in metrics:\n%s", want, data)
		}
	}
}

func TestSleepContext(t *testing.T) {
	t.Parallel()

	if err := sleepContext(context.Background(), 0); err != nil {
		t.Errorf("zero delay: unexpected error %v", err)
	}
	if err := sleepContext(context.Background(), time.Millisecond); err != nil {
		t.Errorf("short delay: unexpected error %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestOutcomeString(t *testing.T) {
	t.Parallel()

	tests := map[Outcome]string{
		Cached:        "cached",
		Saved:         "saved",
		Empty:         "empty",
		FetchFailed:   "fetch_failed",
		ExtractFailed: "extract_failed",
		Outcome(99):   "unknown",
	}
	for o, want := range tests {
		if got := o.String(); got != want {
			t.Errorf("Outcome(%d).String() = %q, want %q", int(o), got, want)
		}
	}
}

func TestSession(t *testing.T) {
	t.Parallel()

	a := NewSession(discardLogger())
	b := NewSession(nil)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected distinct non-empty run IDs, got %q and %q", a.ID, b.ID)
	}
	if a.Logger() == nil {
		t.Error("expected a logger")
	}
	a.Close()
}
