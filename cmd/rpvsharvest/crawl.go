package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/rpvsharvest/internal/config"
	"github.com/nao1215/rpvsharvest/internal/crawler"
	"github.com/nao1215/rpvsharvest/internal/extract"
	"github.com/nao1215/rpvsharvest/internal/fetch"
	"github.com/nao1215/rpvsharvest/internal/log"
	"github.com/nao1215/rpvsharvest/internal/metrics"
	"github.com/nao1215/rpvsharvest/internal/store"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Collect partner records from the register",
		Long: `Crawl fetches the detail page of every partner ID in the range, extracts the
partner and its beneficial owners, and appends the record to the output file.

Every successfully processed detail URL is stored in the cache file. IDs whose
URL is already cached are skipped, so a crawl can be stopped at any time
(Ctrl+C) and continued by running the same command again.

Pages without beneficial owners are skipped and not cached. Pages that fail
to download or parse are logged as warnings and retried on the next run.

Examples:
  # Crawl every partner, asking the register for the total count
  rpvsharvest crawl

  # Crawl a fixed range
  rpvsharvest crawl --start 100 --end 200

  # Use custom file locations and write Prometheus metrics
  rpvsharvest crawl -o data/partners.json --cache data/cache.json --metrics-file rpvs.prom

  # Print the run summary as JSON
  rpvsharvest crawl --json`,
		Args: cobra.NoArgs,
		RunE: runCrawlCmd,
	}

	// Range flags
	cmd.Flags().IntP("start", "s", config.DefaultStartID,
		"First partner ID to process")
	cmd.Flags().IntP("end", "e", config.DefaultEndID,
		"Last partner ID to process (0 asks the register for the total count)")

	// Storage flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputFile,
		"Records file (JSON)")
	cmd.Flags().String("cache", config.DefaultCacheFile,
		"Cache file of processed detail URLs (JSON)")
	cmd.Flags().String("metrics-file", "",
		"Write Prometheus metrics to this file after the run")

	// Request flags
	cmd.Flags().DurationP("delay", "d", config.DefaultDelay,
		"Pause after each saved record")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each detail page request")
	cmd.Flags().Duration("count-timeout", config.DefaultCountTimeout,
		"Timeout for the record count request")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header")
	cmd.Flags().String("detail-base-url", config.DefaultDetailBaseURL,
		"Detail page URL prefix; the partner ID is appended")
	cmd.Flags().String("count-url", config.DefaultCountURL,
		"Record count endpoint")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .rpvsharvest in current directory, XDG config or home)")

	addFormatFlags(cmd)

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildCrawlConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	writer, err := newReportWriter(cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("received shutdown signal, stopping after the current ID")
			cancel()
		case <-ctx.Done():
		}
	}()

	summary, err := runCrawl(ctx, cfg, logger)
	if err != nil {
		return err
	}

	_, err = writer.WriteSummary(summary)
	return err
}

// buildCrawlConfig creates a validated Config for the crawl command.
func buildCrawlConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := applyCrawlFlags(cmd.Flags(), cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// newFetchClient creates the registry client configured by cfg.
func newFetchClient(cfg *config.Config, logger *slog.Logger) *fetch.Client {
	return fetch.NewClient(
		fetch.WithDetailBaseURL(cfg.DetailBaseURL),
		fetch.WithCountURL(cfg.CountURL),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithCountTimeout(cfg.CountTimeout),
		fetch.WithHeaders(cfg.Headers),
		fetch.WithLogger(logger),
	)
}

// runCrawl resolves the ID range and runs the crawl controller.
// It returns an error only when the run could not start or the files could
// not be written; skipped IDs are reported in the summary.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) (crawler.Summary, error) {
	client := newFetchClient(cfg, logger)

	end := cfg.EndID
	if cfg.NeedsCount() {
		total, err := client.TotalRecords(ctx)
		if err != nil {
			return crawler.Summary{}, fmt.Errorf("failed to get record count: %w", err)
		}
		logger.Info("record count retrieved", "total", total)
		end = total
	}
	if end < cfg.StartID {
		return crawler.Summary{}, fmt.Errorf("%w: start %d, end %d", config.ErrInvalidRange, cfg.StartID, end)
	}

	st, err := store.New(cfg.OutputFile, cfg.CacheFile)
	if err != nil {
		return crawler.Summary{}, err
	}

	m := metrics.New()
	ctrl, err := crawler.New(client, st,
		crawler.WithDelay(cfg.Delay),
		crawler.WithExtractor(extract.NewExtractor(extract.WithDocumentBaseURL(cfg.DocumentBaseURL))),
		crawler.WithMetrics(m),
		crawler.WithLogger(logger),
	)
	if err != nil {
		return crawler.Summary{}, err
	}

	session := crawler.NewSession(logger)
	session.Logger().Info("crawl configured",
		"start", cfg.StartID,
		"end", end,
		"output", st.RecordsPath(),
		"cache", st.CachePath(),
		"records", len(ctrl.Records()),
		"cached", ctrl.CacheLen(),
		"delay", cfg.Delay.String(),
		log.Headers(cfg.Headers),
	)

	summary, runErr := ctrl.Run(ctx, session, cfg.StartID, end)
	session.Close()

	if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
		logger.Warn("failed to write metrics file", "path", cfg.MetricsFile, "error", err)
	}

	return summary, runErr
}
