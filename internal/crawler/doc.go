// Package crawler downloads the tag taxonomy page by page and writes the
// accepted tags to the artifact.
//
// # Algorithm
//
// Pages are requested one at a time starting at page 1. Every item is
// compared against the popularity threshold; the first item below it ends
// the whole run, because the API lists tags by descending post count.
// Qualifying items whose category is enabled are normalized and written.
// After each page the artifact is flushed to disk, then the crawler sleeps
// for the configured delay before the next request.
//
// A run ends when:
//   - the API returns an empty page (the collection is exhausted)
//   - an item below the threshold is seen
//   - the page ceiling is reached
//   - the context is cancelled (operator interrupt)
//   - a request fails (non-2xx status, transport or decode error)
//
// Pages are written whole: lines of a page are only written if the run
// was not interrupted while the page was being fetched or scanned, and a
// page whose write fails is removed from the artifact again, so the
// artifact always holds a prefix of complete pages.
//
// # Usage
//
//	c := crawler.New(client, cfg.Filter, crawler.WithDelay(cfg.Delay))
//	result, err := c.CrawlToFile(ctx, "tags.csv")
package crawler
