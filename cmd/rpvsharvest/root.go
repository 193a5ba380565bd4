// Package main provides the entry point for the rpvsharvest CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/rpvsharvest/internal/config"
)

// NewRootCmd creates the root command for rpvsharvest.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rpvsharvest",
		Short: "Resumable scraper for the Slovak register of public sector partners",
		Long: `rpvsharvest walks partner IDs of the Slovak register of public sector
partners (RPVS) in ascending order and collects the beneficial owners of each
partner into a JSON file.

Every processed detail URL is recorded in a cache file, so an interrupted
crawl continues where it stopped when it is run again.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Log warnings and errors only")
	cmd.PersistentFlags().String("log-format", config.DefaultLogFormat, "Log format: text or json")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewCountCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
