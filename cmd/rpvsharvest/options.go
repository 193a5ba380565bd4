package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nao1215/rpvsharvest/internal/config"
	"github.com/nao1215/rpvsharvest/internal/log"
	"github.com/nao1215/rpvsharvest/internal/report"
)

// loadConfig builds a Config from defaults, the configuration file and the
// global flags. Command specific flags are applied by the caller.
//
// If the user explicitly specified a config file path, a missing file is an
// error. Otherwise the defaults are used silently when no file is found.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	if flags.Lookup("config") != nil {
		path, err := flags.GetString("config")
		if err != nil {
			return nil, err
		}
		cfg.ConfigFilePath = path
	}

	if path := config.FindConfigFile(cfg.ConfigFilePath); path != "" {
		f, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		f.Apply(cfg)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	var err error
	if flags.Changed("log-format") {
		if cfg.LogFormat, err = flags.GetString("log-format"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("verbose") {
		if cfg.Verbose, err = flags.GetBool("verbose"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("quiet") {
		if cfg.Quiet, err = flags.GetBool("quiet"); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// applyCrawlFlags copies explicitly set request and range flags into cfg.
// Flags the command does not define are never reported as changed.
func applyCrawlFlags(flags *pflag.FlagSet, cfg *config.Config) error {
	ints := map[string]*int{
		"start": &cfg.StartID,
		"end":   &cfg.EndID,
	}
	for name, dst := range ints {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetInt(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	strs := map[string]*string{
		"output":          &cfg.OutputFile,
		"cache":           &cfg.CacheFile,
		"user-agent":      &cfg.UserAgent,
		"detail-base-url": &cfg.DetailBaseURL,
		"count-url":       &cfg.CountURL,
		"metrics-file":    &cfg.MetricsFile,
	}
	for name, dst := range strs {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	durations := map[string]*time.Duration{
		"delay":         &cfg.Delay,
		"timeout":       &cfg.Timeout,
		"count-timeout": &cfg.CountTimeout,
	}
	for name, dst := range durations {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetDuration(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	return nil
}

// newLogger creates the structured logger selected by cfg.
// Logs go to stderr so that reports on stdout stay machine-readable.
func newLogger(w io.Writer, cfg *config.Config) (*slog.Logger, error) {
	format, err := log.ParseFormat(cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	return log.New(w, log.Options{
		Format:  format,
		Verbose: cfg.Verbose,
		Quiet:   cfg.Quiet,
	}), nil
}

// errFormatConflict is returned when both --json and --markdown are set.
var errFormatConflict = errors.New("--json and --markdown are mutually exclusive")

// addFormatFlags registers the report format flags.
func addFormatFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
}

// newReportWriter selects a report writer from the format flags.
// The default is the human-readable text format.
func newReportWriter(cmd *cobra.Command, output io.Writer) (report.Writer, error) {
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	asMarkdown, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	switch {
	case asJSON && asMarkdown:
		return nil, errFormatConflict
	case asJSON:
		return report.NewJSONWriter(output, report.WithPrettyPrint()), nil
	case asMarkdown:
		return report.NewMarkdownWriter(output), nil
	default:
		return report.NewSimpleWriter(output), nil
	}
}

// createOutputFile creates path and any missing parent directories.
//
// Reports may contain personal data of beneficial owners, so the file is
// readable by the owner only.
func createOutputFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}
