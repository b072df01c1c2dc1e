package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for tagcrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tagcrawl",
		Short: "Download the Danbooru tag list for tag autocompletion",
		Long: `tagcrawl downloads tags from the Danbooru API, keeps the tags of the enabled
categories whose post count reaches a threshold, and writes them to a text
file with one tag per line (tags.csv by default).

Tags are written page by page, most popular first. The crawl stops at the
first tag below the threshold, at the end of the tag list, or at the page
limit.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
