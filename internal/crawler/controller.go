package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/rpvsharvest/internal/extract"
	"github.com/nao1215/rpvsharvest/internal/fetch"
	"github.com/nao1215/rpvsharvest/internal/metrics"
	"github.com/nao1215/rpvsharvest/internal/model"
	"github.com/nao1215/rpvsharvest/internal/store"
	"github.com/nao1215/rpvsharvest/internal/textnorm"
)

// DefaultDelay is the pause after each saved record.
const DefaultDelay = 200 * time.Millisecond

// Fetcher downloads detail pages.
// *fetch.Client implements it.
type Fetcher interface {
	// DetailURL returns the canonical URL of id. It is the cache key.
	DetailURL(id int) string

	// Fetch downloads the page for id.
	Fetch(ctx context.Context, id int) (*fetch.Page, error)
}

// Store persists the collection and the cache.
// *store.Store implements it.
type Store interface {
	LoadRecords() ([]model.Record, error)
	LoadCache() (*store.Cache, error)
	SaveRecords(records []model.Record) error
	SaveCache(cache *store.Cache) error
}

// Extractor turns a parsed page into a record.
// *extract.Extractor implements it.
type Extractor interface {
	Extract(doc extract.Document, sourceURL string) (*model.Record, error)
}

// Sleeper pauses for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Controller runs the crawl loop.
//
// Design decision: the controller keeps the whole collection in memory and
// rewrites both files after every saved record. The request rate is bounded
// by the politeness delay, so the O(n) rewrite is never the bottleneck, and
// the files on disk are always a complete snapshot.
type Controller struct {
	fetcher   Fetcher
	store     Store
	extractor Extractor
	metrics   *metrics.Metrics
	logger    *slog.Logger
	delay     time.Duration
	sleep     Sleeper

	// records is the collection in processing order.
	records []model.Record

	// cache holds the URLs of saved records.
	cache *store.Cache
}

// Option configures a Controller.
type Option func(*Controller)

// WithDelay sets the pause after each saved record.
func WithDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.delay = d
	}
}

// WithExtractor replaces the default extractor.
func WithExtractor(e Extractor) Option {
	return func(c *Controller) {
		c.extractor = e
	}
}

// WithMetrics records outcomes and fetch latency in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithLogger sets the logger used by Process.
// Run logs through its session instead.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithSleeper replaces the context-aware pause. Tests use it to avoid
// real delays.
func WithSleeper(s Sleeper) Option {
	return func(c *Controller) {
		c.sleep = s
	}
}

// New creates a Controller and loads the existing collection and cache
// from st.
//
// Every loaded record's source URL is added to the cache. A crash between
// writing the records file and the cache file therefore never causes a
// saved ID to be fetched and appended a second time.
func New(fetcher Fetcher, st Store, opts ...Option) (*Controller, error) {
	if fetcher == nil {
		return nil, ErrNilFetcher
	}
	if st == nil {
		return nil, ErrNilStore
	}

	c := &Controller{
		fetcher:   fetcher,
		store:     st,
		extractor: extract.NewExtractor(),
		logger:    slog.Default(),
		delay:     DefaultDelay,
		sleep:     sleepContext,
	}

	for _, opt := range opts {
		opt(c)
	}

	records, err := st.LoadRecords()
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	cache, err := st.LoadCache()
	if err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}
	for _, r := range records {
		cache.Add(r.SourceURL)
	}

	c.records = records
	c.cache = cache
	c.metrics.SetRecords(len(records))

	return c, nil
}

// Records returns the in-memory collection.
func (c *Controller) Records() []model.Record {
	return c.records
}

// CacheLen returns the number of cached URLs.
func (c *Controller) CacheLen() int {
	return c.cache.Len()
}

// Run processes every ID from start to end inclusive, in ascending order.
//
// Run stops early when ctx is canceled and reports that in the Summary
// rather than as an error. It returns an error only when the collection or
// the cache could not be written. Both are written once more after the
// loop so that the files reflect the final state even when nothing new was
// saved.
func (c *Controller) Run(ctx context.Context, session *Session, start, end int) (Summary, error) {
	if start < 1 || end < start {
		return Summary{}, fmt.Errorf("%w: %d..%d", ErrInvalidRange, start, end)
	}

	logger := c.logger
	if session != nil {
		logger = session.Logger()
	}

	summary := Summary{Start: start, End: end}
	logger.Info("crawl range", "start", start, "end", end, "cached", c.cache.Len(), "records", len(c.records))

	for id := start; id <= end; id++ {
		if ctx.Err() != nil {
			summary.Interrupted = true
			break
		}

		outcome, err := c.process(ctx, logger, id)
		if err != nil {
			summary.Records = len(c.records)
			return summary, err
		}

		if outcome == FetchFailed && ctx.Err() != nil {
			// The request was aborted by the cancellation, not by the server.
			summary.Interrupted = true
			break
		}
		summary.add(id, outcome)
		c.metrics.IncrementPage(outcome.String())

		if outcome != Saved || id == end {
			continue
		}
		if err := c.sleep(ctx, c.delay); err != nil {
			summary.Interrupted = true
			break
		}
	}

	if err := c.persist(); err != nil {
		summary.Records = len(c.records)
		return summary, err
	}
	summary.Records = len(c.records)

	logger.Info("data saved",
		"records", summary.Records,
		"saved", summary.Saved,
		"cached", summary.Cached,
		"empty", summary.Empty,
		"fetchFailed", summary.FetchFailed,
		"extractFailed", summary.ExtractFailed,
		"interrupted", summary.Interrupted,
	)
	return summary, nil
}

// Process handles a single ID and returns its outcome.
// The error is non-nil only when persisting a saved record failed.
func (c *Controller) Process(ctx context.Context, id int) (Outcome, error) {
	return c.process(ctx, c.logger, id)
}

// process is Process with an explicit logger.
func (c *Controller) process(ctx context.Context, logger *slog.Logger, id int) (Outcome, error) {
	url := c.fetcher.DetailURL(id)
	if c.cache.Has(url) {
		logger.Debug("skipped: already processed", "id", id, "url", url)
		return Cached, nil
	}

	logger.Info("processing partner", "id", id)

	started := time.Now()
	page, err := c.fetcher.Fetch(ctx, id)
	c.metrics.ObserveFetch(time.Since(started))
	if err != nil {
		logger.Warn("failed to fetch partner", "id", id, "url", url, "error", err)
		return FetchFailed, nil
	}

	record, err := c.extract(page, url)
	if err != nil {
		logger.Warn("failed to extract partner", "id", id, "url", url, "error", err)
		return ExtractFailed, nil
	}
	if record == nil {
		logger.Warn("skipped: no beneficial owners", "id", id, "url", url)
		return Empty, nil
	}

	c.records = append(c.records, *record)
	c.cache.Add(url)
	if err := c.persist(); err != nil {
		return Saved, err
	}
	c.metrics.SetRecords(len(c.records))

	logger.Info("saved partner", "id", id, "businessName", model.Deref(record.BusinessName))
	return Saved, nil
}

// extract parses page and builds its record.
// A panic inside parsing or extraction is turned into an error so that one
// malformed page cannot abort the run.
func (c *Controller) extract(page *fetch.Page, url string) (record *model.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			record = nil
			err = fmt.Errorf("%w: %v", ErrExtractPanic, r)
		}
	}()

	doc, err := extract.ParseDocument(textnorm.Reader(page.Reader()))
	if err != nil {
		return nil, err
	}
	return c.extractor.Extract(doc, url)
}

// persist writes the collection and then the cache.
// The records file goes first: a URL must never be cached without its record.
func (c *Controller) persist() error {
	if err := c.store.SaveRecords(c.records); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := c.store.SaveCache(c.cache); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// sleepContext waits for d unless ctx is done first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsPersistError reports whether err came from writing the output files.
func IsPersistError(err error) bool {
	return errors.Is(err, ErrPersist)
}
