// Package report renders crawl run results and run history.
//
// Writers:
//   - SimpleWriter: plain text for the terminal
//   - MarkdownWriter: Markdown tables, alerts and a category pie chart
//   - JSONWriter: JSON for other tools
//
// All writers implement Writer and can be combined with MultiWriter.
package report
