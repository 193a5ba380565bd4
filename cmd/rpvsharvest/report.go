package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/rpvsharvest/internal/model"
	"github.com/nao1215/rpvsharvest/internal/store"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize a collected records file",
		Long: `Report reads a records file written by crawl and prints statistics about it:
the number of partners and beneficial owners, owners per nationality and
partners per country of their registered seat.

Examples:
  # Summarize the default records file
  rpvsharvest report

  # Markdown report with a nationality chart, written to a file
  rpvsharvest report --markdown -o report/rpvs.md

  # JSON statistics of another file
  rpvsharvest report -i data/partners.json --json`,
		Args: cobra.NoArgs,
		RunE: runReportCmd,
	}

	cmd.Flags().StringP("input", "i", "",
		"Records file to summarize (default: output file from config)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path")
	addFormatFlags(cmd)

	return cmd
}

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	input, err := cmd.Flags().GetString("input")
	if err != nil {
		return err
	}
	if input == "" {
		input = cfg.OutputFile
	}

	reportFile, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	records, err := store.ReadRecords(input)
	if err != nil {
		return err
	}
	stats := model.NewDatasetStats(records, store.TrailingID, time.Now())

	var output io.Writer = cmd.OutOrStdout()
	if reportFile != "" {
		f, err := createOutputFile(reportFile)
		if err != nil {
			return err
		}
		defer f.Close()
		output = f
	}

	writer, err := newReportWriter(cmd, output)
	if err != nil {
		return err
	}
	if _, err := writer.Write(stats); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
