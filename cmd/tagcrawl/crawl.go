package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/tagcrawl/internal/config"
	"github.com/nao1215/tagcrawl/internal/crawler"
	"github.com/nao1215/tagcrawl/internal/danbooru"
	"github.com/nao1215/tagcrawl/internal/database"
	applog "github.com/nao1215/tagcrawl/internal/log"
	"github.com/nao1215/tagcrawl/internal/model"
	"github.com/nao1215/tagcrawl/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	defaults := config.NewConfig()

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Download tags into the tag file",
		Long: `Crawl downloads the Danbooru tag list page by page, most popular tags first,
and writes every tag of an enabled category whose post count reaches the
threshold to the output file, one tag per line.

Underscores are replaced with spaces and brackets are escaped, so that
"hatsune_miku_(vocaloid)" becomes "hatsune miku \(vocaloid\)".

The output file is truncated when the crawl starts and flushed after each
page. Ctrl+C stops the crawl; the file keeps every completed page.

Settings are read from, in increasing priority: built-in defaults, the
configuration file (see 'tagcrawl init'), a .env file, TAGCRAWL_*
environment variables and command line flags.

Examples:
  # Download with the default settings into tags.csv
  tagcrawl crawl

  # Only tags with at least 500 posts, including meta tags
  tagcrawl crawl --min-post-count 500 --meta

  # Keep underscores and write to a custom path
  tagcrawl crawl --keep-underscore -o ~/sd/extensions/autocomplete/tags/danbooru.csv

  # Route requests through a SOCKS5 proxy and print a Markdown report
  tagcrawl crawl --proxy 127.0.0.1:9050 --markdown`,
		Args: cobra.NoArgs,
		RunE: runCrawlCmd,
	}

	// Output and configuration sources
	cmd.Flags().StringP("output", "o", defaults.Output,
		"Tag file path (truncated at start)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .tagcrawl in current directory, XDG config or home)")
	cmd.Flags().String("env-file", config.DefaultEnvFile,
		"Dotenv file with TAGCRAWL_* settings (ignored if missing)")

	// Filter flags
	cmd.Flags().Int64P("min-post-count", "n", defaults.Filter.MinPostCount,
		"Minimum post count; the crawl stops at the first tag below it")
	cmd.Flags().Bool("general", defaults.Filter.General, "Write general tags")
	cmd.Flags().Bool("artist", defaults.Filter.Artist, "Write artist tags (not supported)")
	cmd.Flags().Bool("copyright", defaults.Filter.Copyright, "Write copyright tags")
	cmd.Flags().Bool("character", defaults.Filter.Character, "Write character tags")
	cmd.Flags().Bool("meta", defaults.Filter.Meta, "Write meta tags")
	cmd.Flags().Bool("keep-underscore", defaults.Filter.KeepUnderscore,
		"Keep underscores instead of replacing them with spaces")
	cmd.Flags().Bool("escape-brackets", defaults.Filter.EscapeBrackets,
		"Escape ( and ) with a backslash")

	// Request flags
	cmd.Flags().StringP("endpoint", "e", defaults.Endpoint, "Tag listing endpoint")
	cmd.Flags().IntP("max-pages", "p", defaults.MaxPages, "Maximum number of pages to fetch")
	cmd.Flags().Int("page-size", defaults.PageSize, "Tags per page")
	cmd.Flags().DurationP("delay", "d", defaults.Delay, "Pause between page requests")
	cmd.Flags().DurationP("timeout", "t", defaults.Timeout, "Per-request timeout (0 = none)")
	cmd.Flags().StringP("proxy", "x", "", "SOCKS5 proxy address ([user:password@]host:port)")
	cmd.Flags().StringP("user-agent", "u", defaults.UserAgent, "User-Agent header")

	// History flags
	cmd.Flags().Bool("no-history", false, "Do not record the run in the history database")
	cmd.Flags().String("db-dir", defaults.DBDir, "History database directory")

	// Report flags
	cmd.Flags().BoolP("summary", "s", false, "Print a text summary of the run")
	cmd.Flags().BoolP("json", "j", false, "Print a JSON summary of the run")
	cmd.Flags().BoolP("markdown", "m", false, "Print a Markdown summary of the run")
	cmd.Flags().StringP("report", "r", "",
		"Also write the summary to a file (.md, .json or text by extension)")
	cmd.MarkFlagsMutuallyExclusive("summary", "json", "markdown")

	return cmd
}

// reportOptions selects the run summaries to produce.
type reportOptions struct {
	// stdout is the format printed to standard output, empty for none.
	stdout report.Format

	// file is an optional report file path.
	file string
}

func runCrawlCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	opts, err := buildReportOptions(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(cmd, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runCrawl(ctx, cmd.OutOrStdout(), cfg, opts, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// newLogger creates the redacting logger selected by --log-json.
func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	asJSON, err := cmd.Flags().GetBool("log-json")
	if err != nil {
		asJSON = false
	}
	if asJSON {
		return applog.NewSecureJSONLogger(cmd.ErrOrStderr(), verbose)
	}
	return applog.NewSecureLogger(cmd.ErrOrStderr(), verbose)
}

// buildConfig layers defaults, the configuration file, the environment and
// the flags the user set explicitly.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	explicitPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	if path := config.FindConfigFile(explicitPath); path != "" {
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		cfg.ApplyFile(file)
		cfg.ConfigFilePath = path
	} else if explicitPath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, explicitPath)
	}

	envFile, err := flags.GetString("env-file")
	if err != nil {
		return nil, err
	}
	env, err := config.LoadEnv(envFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(env); err != nil {
		return nil, err
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)
	return cfg, nil
}

// applyFlags copies every flag the user set into cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	stringFlags := map[string]*string{
		"output":     &cfg.Output,
		"endpoint":   &cfg.Endpoint,
		"proxy":      &cfg.Proxy,
		"user-agent": &cfg.UserAgent,
		"db-dir":     &cfg.DBDir,
	}
	for name, dst := range stringFlags {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	bools := map[string]*bool{
		"general":         &cfg.Filter.General,
		"artist":          &cfg.Filter.Artist,
		"copyright":       &cfg.Filter.Copyright,
		"character":       &cfg.Filter.Character,
		"meta":            &cfg.Filter.Meta,
		"keep-underscore": &cfg.Filter.KeepUnderscore,
		"escape-brackets": &cfg.Filter.EscapeBrackets,
	}
	for name, dst := range bools {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetBool(name)
		if err != nil {
			return err
		}
		*dst = v
	}

	ints := map[string]*int{
		"max-pages": &cfg.MaxPages,
		"page-size": &cfg.PageSize,
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

	durations := map[string]*time.Duration{
		"delay":   &cfg.Delay,
		"timeout": &cfg.Timeout,
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

	if flags.Changed("min-post-count") {
		v, err := flags.GetInt64("min-post-count")
		if err != nil {
			return err
		}
		cfg.Filter.MinPostCount = v
	}

	if flags.Changed("no-history") {
		noHistory, err := flags.GetBool("no-history")
		if err != nil {
			return err
		}
		cfg.SaveHistory = !noHistory
	}
	return nil
}

func buildReportOptions(cmd *cobra.Command) (reportOptions, error) {
	var opts reportOptions
	flags := cmd.Flags()

	formats := []struct {
		flag   string
		format report.Format
	}{
		{"summary", report.FormatText},
		{"json", report.FormatJSON},
		{"markdown", report.FormatMarkdown},
	}
	for _, f := range formats {
		on, err := flags.GetBool(f.flag)
		if err != nil {
			return opts, err
		}
		if on {
			opts.stdout = f.format
		}
	}

	file, err := flags.GetString("report")
	if err != nil {
		return opts, err
	}
	opts.file = file
	return opts, nil
}

// runCrawl performs one crawl and reports it. It returns nil for a
// completed or interrupted crawl and an error for a failed one.
func runCrawl(ctx context.Context, out io.Writer, cfg *config.Config, opts reportOptions, logger *slog.Logger) error {
	clientOpts := []danbooru.Option{
		danbooru.WithEndpoint(cfg.Endpoint),
		danbooru.WithPageSize(cfg.PageSize),
		danbooru.WithUserAgent(cfg.UserAgent),
		danbooru.WithTimeout(cfg.Timeout),
	}
	if cfg.Proxy != "" {
		clientOpts = append(clientOpts, danbooru.WithProxy(cfg.Proxy))
	}
	client, err := danbooru.NewClient(clientOpts...)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	c := crawler.New(client, cfg.Filter,
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithDelay(cfg.Delay),
		crawler.WithEndpoint(client.Endpoint()),
		crawler.WithLogger(logger),
	)

	logger.Info("configuration",
		"configFile", cfg.ConfigFilePath,
		"output", cfg.Output,
		"proxy", cfg.Proxy,
		"categories", fmt.Sprint(cfg.Filter.EnabledCategories()),
		"saveHistory", cfg.SaveHistory,
	)
	fmt.Fprintf(out, "Downloading tags to %s...\n", cfg.Output)

	result, crawlErr := c.CrawlToFile(ctx, cfg.Output)

	if cfg.SaveHistory {
		// The run context may already be cancelled by an interrupt.
		if err := saveRun(context.WithoutCancel(ctx), cfg.DBDir, result, logger); err != nil {
			logger.Warn("failed to record run in history", "error", err)
		}
	}
	if err := writeReports(out, opts, result); err != nil {
		logger.Error("failed to write report", "error", err)
	}

	switch {
	case crawlErr == nil:
		fmt.Fprintf(out, "Finished downloading tags: %d lines (%s)\n", result.Written, result.Outcome.Description())
		return nil
	case errors.Is(crawlErr, crawler.ErrInterrupted):
		fmt.Fprintln(out, "Interrupted...")
		return nil
	default:
		return fmt.Errorf("crawl failed after %d lines: %w", result.Written, crawlErr)
	}
}

// saveRun records result in the history database.
func saveRun(ctx context.Context, dbDir string, result *model.RunResult, logger *slog.Logger) error {
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.SaveRun(ctx, result); err != nil {
		return err
	}
	logger.Info("run recorded", "id", result.ID, "db", db.Path())
	return nil
}

// writeReports prints the selected summary and writes the report file.
func writeReports(out io.Writer, opts reportOptions, result *model.RunResult) error {
	var writers []report.Writer
	if opts.stdout != "" {
		writers = append(writers, report.New(opts.stdout, out))
	}

	if opts.file != "" {
		if dir := filepath.Dir(opts.file); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}
		f, err := os.Create(opts.file)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		writers = append(writers, report.New(report.FormatForPath(opts.file), f))
	}

	if len(writers) == 0 {
		return nil
	}
	_, err := report.NewMultiWriter(writers...).WriteRun(result)
	return err
}
