package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/nao1215/tagcrawl/internal/artifact"
	"github.com/nao1215/tagcrawl/internal/config"
	"github.com/nao1215/tagcrawl/internal/model"
)

// PageFetcher returns the items of one API page in API order.
// An empty slice signals the end of the collection.
type PageFetcher interface {
	FetchPage(ctx context.Context, page int) ([]model.Tag, error)
}

// PageWriter receives the accepted, normalized tags of one page. A page is
// committed whole or, on error, not at all.
type PageWriter interface {
	WritePage(lines []string) error
}

// Crawler drives pagination for one run at a time.
type Crawler struct {
	// fetcher performs one request per page.
	fetcher PageFetcher

	// filter is copied at construction and never modified.
	filter config.Filter

	// maxPages is the highest page requested.
	maxPages int

	// delay is the pause between page requests.
	delay time.Duration

	// endpoint is recorded in results.
	endpoint string

	// logger receives progress and warnings.
	logger *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithMaxPages sets the page ceiling.
func WithMaxPages(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.maxPages = n
		}
	}
}

// WithDelay sets the pause between page requests.
func WithDelay(d time.Duration) Option {
	return func(c *Crawler) {
		c.delay = d
	}
}

// WithEndpoint sets the endpoint recorded in run results.
func WithEndpoint(endpoint string) Option {
	return func(c *Crawler) {
		c.endpoint = endpoint
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// New creates a Crawler that reads pages from fetcher and selects tags with filter.
func New(fetcher PageFetcher, filter config.Filter, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:  fetcher,
		filter:   filter,
		maxPages: config.DefaultMaxPages,
		delay:    config.DefaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// CrawlToFile creates (truncating) the artifact at path, runs Crawl into
// it and closes it on every path, including a panic during the run, which
// is recovered and reported as ErrUnexpected. The returned result is never
// nil and carries the artifact checksum.
func (c *Crawler) CrawlToFile(ctx context.Context, path string) (result *model.RunResult, err error) {
	w, err := artifact.Create(path)
	if err != nil {
		result = model.NewRunResult(c.endpoint, path)
		result.Finish(model.OutcomeFailed, err)
		return result, err
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrUnexpected, r)
			c.logger.Error("crawl panicked", "panic", r, "stack", string(debug.Stack()))
			if result == nil {
				result = model.NewRunResult(c.endpoint, path)
				result.MinPostCount = c.filter.MinPostCount
				result.Categories = c.filter.EnabledCategories()
			}
			result.Finish(model.OutcomeFailed, err)
		}

		closeErr := w.Close()
		c.logger.Debug("artifact closed", "path", path, "lines", w.Lines())
		result.Output = path
		result.Checksum = w.Checksum()
		if closeErr != nil {
			if err == nil {
				result.Finish(model.OutcomeFailed, closeErr)
			}
			err = errors.Join(err, closeErr)
		}
	}()

	return c.Crawl(ctx, w)
}

// Crawl runs pagination and writes the accepted tags of each page to w. The returned result is never nil. The error is nil for the three
// normal outcomes, wraps ErrInterrupted when ctx is cancelled, and is the
// fetch or write error otherwise.
func (c *Crawler) Crawl(ctx context.Context, w PageWriter) (*model.RunResult, error) {
	result := model.NewRunResult(c.endpoint, "")
	result.MinPostCount = c.filter.MinPostCount
	result.Categories = c.filter.EnabledCategories()
	order := &orderWatch{logger: c.logger}

	c.logger.Info("starting crawl",
		"endpoint", c.endpoint,
		"minPostCount", c.filter.MinPostCount,
		"maxPages", c.maxPages,
		"delay", c.delay,
	)

	for page := 1; page <= c.maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return c.interrupted(result, err)
		}

		result.LastPage = page
		tags, err := c.fetcher.FetchPage(ctx, page)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return c.interrupted(result, ctxErr)
			}
			result.Finish(model.OutcomeFailed, err)
			return result, err
		}
		result.PagesFetched++

		if len(tags) == 0 {
			c.logger.Info("no more tags", "page", page)
			result.Finish(model.OutcomeExhausted, nil)
			return result, nil
		}

		accepted, examined, finished := c.scan(tags, order)
		result.Examined += examined

		// Discard the page rather than write part of it.
		if err := ctx.Err(); err != nil {
			return c.interrupted(result, err)
		}

		if err := c.write(w, accepted, result); err != nil {
			result.Finish(model.OutcomeFailed, err)
			return result, err
		}

		c.logger.Info("page done",
			"page", page,
			"items", len(tags),
			"accepted", len(accepted),
			"written", result.Written,
		)

		if finished {
			result.Finish(model.OutcomeThreshold, nil)
			return result, nil
		}

		if page == c.maxPages {
			break
		}
		if err := sleep(ctx, c.delay); err != nil {
			return c.interrupted(result, err)
		}
	}

	c.logger.Info("page limit reached", "maxPages", c.maxPages)
	result.Finish(model.OutcomePageLimit, nil)
	return result, nil
}

// entry is an accepted tag ready to be written.
type entry struct {
	line     string
	category model.Category
}

// scan applies the threshold and category filters to one page.
// It returns the accepted entries, the number of items compared against
// the threshold and whether an item below the threshold was found.
func (c *Crawler) scan(tags []model.Tag, order *orderWatch) ([]entry, int, bool) {
	accepted := make([]entry, 0, len(tags))
	examined := 0

	for _, tag := range tags {
		examined++
		order.observe(tag)

		if tag.Below(c.filter.MinPostCount) {
			return accepted, examined, true
		}
		if !c.filter.Enabled(tag.Category) {
			continue
		}
		if tag.Name == "" {
			c.logger.Warn("skipping tag without name",
				"category", tag.Category.String(),
				"postCount", tag.PostCount,
			)
			continue
		}

		accepted = append(accepted, entry{
			line:     Normalize(tag.Name, c.filter),
			category: tag.Category,
		})
	}
	return accepted, examined, false
}

// write commits the page's entries as one page.
func (c *Crawler) write(w PageWriter, entries []entry, result *model.RunResult) error {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.line
	}
	if err := w.WritePage(lines); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}
	for _, e := range entries {
		result.Written++
		result.ByCategory[e.category]++
	}
	return nil
}

// interrupted finishes result for a cancelled run.
func (c *Crawler) interrupted(result *model.RunResult, cause error) (*model.RunResult, error) {
	c.logger.Warn("crawl interrupted",
		"lastPage", result.LastPage,
		"written", result.Written,
		"reason", cause,
	)
	err := fmt.Errorf("%w: %w", ErrInterrupted, cause)
	result.Finish(model.OutcomeInterrupted, err)
	return result, err
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
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

// orderWatch logs once per run when post counts are not descending.
// Early termination relies on that order; the crawler reports a
// violation but does not change its behavior.
type orderWatch struct {
	logger *slog.Logger
	prev   int64
	seen   bool
	warned bool
}

func (o *orderWatch) observe(tag model.Tag) {
	if o.seen && !o.warned && tag.PostCount > o.prev {
		o.logger.Warn("API results are not sorted by descending post count; early termination may be premature",
			"tag", tag.Name,
			"postCount", tag.PostCount,
			"previousPostCount", o.prev,
		)
		o.warned = true
	}
	o.prev = tag.PostCount
	o.seen = true
}
