package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCountCmd creates the count command.
func NewCountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Print the total number of partners in the register",
		Long: `Count asks the register search endpoint for the total number of partner
records. A crawl without --end uses the same number as its last ID.`,
		Args: cobra.NoArgs,
		RunE: runCountCmd,
	}

	cmd.Flags().Duration("count-timeout", 0,
		"Timeout for the record count request (default from config)")
	cmd.Flags().String("count-url", "",
		"Record count endpoint (default from config)")
	cmd.Flags().String("user-agent", "",
		"User-Agent header (default from config)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path")

	return cmd
}

// runCountCmd executes the count command.
func runCountCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyCrawlFlags(cmd.Flags(), cfg); err != nil {
		return err
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	total, err := newFetchClient(cfg, logger).TotalRecords(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get record count: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), total)
	return nil
}
