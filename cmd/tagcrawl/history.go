package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nao1215/tagcrawl/internal/config"
	"github.com/nao1215/tagcrawl/internal/database"
	"github.com/nao1215/tagcrawl/internal/model"
	"github.com/nao1215/tagcrawl/internal/report"
)

// defaultHistoryLimit is the number of runs listed without --limit.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show previous crawl runs",
		Long: `History lists the crawl runs recorded in the history database, newest
first. With a run ID, or with --latest, it shows the details of one run.

Runs are recorded by 'tagcrawl crawl' unless --no-history is given.

Examples:
  # List the last 20 runs
  tagcrawl history

  # Show the details of run 12
  tagcrawl history 12

  # Show the latest run as Markdown
  tagcrawl history --latest --markdown

  # List every run as JSON
  tagcrawl history --limit 0 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit, "Maximum number of runs to list (0 = all)")
	cmd.Flags().BoolP("latest", "l", false, "Show the latest run")
	cmd.Flags().BoolP("json", "j", false, "Output in JSON format")
	cmd.Flags().BoolP("markdown", "m", false, "Output in Markdown format")
	cmd.Flags().String("db-dir", config.XDGDataDir(), "History database directory")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

// historyOptions holds the parsed history flags.
type historyOptions struct {
	dbDir  string
	limit  int
	latest bool
	runID  int64
	format report.Format
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	opts, err := parseHistoryOptions(cmd, args)
	if err != nil {
		return err
	}
	return showHistory(cmd.Context(), cmd.OutOrStdout(), opts)
}

func parseHistoryOptions(cmd *cobra.Command, args []string) (historyOptions, error) {
	opts := historyOptions{format: report.FormatText}
	flags := cmd.Flags()

	var err error
	if opts.dbDir, err = flags.GetString("db-dir"); err != nil {
		return opts, err
	}
	if opts.limit, err = flags.GetInt("limit"); err != nil {
		return opts, err
	}
	if opts.latest, err = flags.GetBool("latest"); err != nil {
		return opts, err
	}

	asJSON, err := flags.GetBool("json")
	if err != nil {
		return opts, err
	}
	asMarkdown, err := flags.GetBool("markdown")
	if err != nil {
		return opts, err
	}
	switch {
	case asJSON:
		opts.format = report.FormatJSON
	case asMarkdown:
		opts.format = report.FormatMarkdown
	}

	if len(args) == 1 {
		if opts.latest {
			return opts, errors.New("--latest cannot be combined with a run ID")
		}
		opts.runID, err = strconv.ParseInt(args[0], 10, 64)
		if err != nil || opts.runID <= 0 {
			return opts, fmt.Errorf("invalid run ID %q: must be a positive integer", args[0])
		}
	}
	return opts, nil
}

// showHistory prints one run or the run list.
func showHistory(ctx context.Context, out io.Writer, opts historyOptions) error {
	w := report.New(opts.format, out)

	db, err := database.Open(opts.dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if errors.Is(err, os.ErrNotExist) {
		if opts.runID != 0 {
			return fmt.Errorf("%w: %d", database.ErrRunNotFound, opts.runID)
		}
		if opts.latest {
			fmt.Fprintln(out, "No runs recorded.")
			return nil
		}
		_, err = w.WriteHistory(nil)
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	var run *model.RunResult
	switch {
	case opts.runID != 0:
		run, err = db.GetRun(ctx, opts.runID)
	case opts.latest:
		run, err = db.LatestRun(ctx)
		if err == nil && run == nil {
			fmt.Fprintln(out, "No runs recorded.")
			return nil
		}
	default:
		runs, err := db.ListRuns(ctx, opts.limit)
		if err != nil {
			return err
		}
		_, err = w.WriteHistory(runs)
		return err
	}
	if err != nil {
		return err
	}

	_, err = w.WriteRun(run)
	return err
}
