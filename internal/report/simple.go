package report

import (
	"io"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nao1215/tagcrawl/internal/model"
)

// SimpleWriter outputs plain text for the terminal.
// Numbers are grouped with the printer's locale, e.g. "12,345".
type SimpleWriter struct {
	baseWriter

	printer *message.Printer
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithLanguage sets the locale used for number formatting.
func WithLanguage(tag language.Tag) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.printer = message.NewPrinter(tag)
	}
}

// NewSimpleWriter creates a SimpleWriter. The default locale is English.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		printer:    message.NewPrinter(language.English),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteRun writes a summary of one run.
func (w *SimpleWriter) WriteRun(result *model.RunResult) (int, error) {
	var sb strings.Builder
	p := w.printer

	sb.WriteString(strings.Repeat("=", 60) + "\n")
	p.Fprintf(&sb, "Run #%d\n", result.ID)
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	p.Fprintf(&sb, "Endpoint:       %s\n", result.Endpoint)
	p.Fprintf(&sb, "Output:         %s\n", result.Output)
	p.Fprintf(&sb, "Started:        %s\n", result.StartedAt.Format(timeLayout))
	p.Fprintf(&sb, "Duration:       %s\n", result.Duration().Round(time.Millisecond))
	p.Fprintf(&sb, "Outcome:        %s (%s)\n", result.Outcome, result.Outcome.Description())
	if result.Error != "" {
		p.Fprintf(&sb, "Error:          %s\n", result.Error)
	}
	p.Fprintf(&sb, "Min post count: %d\n", result.MinPostCount)
	p.Fprintf(&sb, "Pages fetched:  %d (last page %d)\n", result.PagesFetched, result.LastPage)
	p.Fprintf(&sb, "Tags examined:  %d\n", result.Examined)
	p.Fprintf(&sb, "Lines written:  %d\n", result.Written)

	if rows := categoryRows(result); len(rows) > 0 {
		sb.WriteString("\nBy category:\n")
		for _, r := range rows {
			p.Fprintf(&sb, "  %-10s %10d\n", r.category.Label(), r.count)
		}
	}
	if result.Checksum != "" {
		p.Fprintf(&sb, "\nSHA3-256: %s\n", result.Checksum)
	}

	return io.WriteString(w.output, sb.String())
}

// WriteHistory writes one line per run.
func (w *SimpleWriter) WriteHistory(runs []model.RunResult) (int, error) {
	if len(runs) == 0 {
		return io.WriteString(w.output, "No runs recorded.\n")
	}

	var sb strings.Builder
	p := w.printer
	p.Fprintf(&sb, "%-6s %-23s %-12s %10s %8s  %s\n", "ID", "STARTED", "OUTCOME", "WRITTEN", "PAGES", "OUTPUT")
	for _, r := range runs {
		p.Fprintf(&sb, "%-6d %-23s %-12s %10d %8d  %s\n",
			r.ID,
			r.StartedAt.Format(timeLayout),
			r.Outcome,
			r.Written,
			r.PagesFetched,
			r.Output,
		)
	}
	return io.WriteString(w.output, sb.String())
}
