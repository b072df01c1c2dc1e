package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/tagcrawl/internal/model"
)

// Writer renders run results.
type Writer interface {
	// WriteRun renders a single run. It returns the bytes written.
	WriteRun(result *model.RunResult) (int, error)

	// WriteHistory renders a list of runs, newest first.
	WriteHistory(runs []model.RunResult) (int, error)
}

// Format names an output format.
type Format string

const (
	// FormatText is the plain text format.
	FormatText Format = "text"
	// FormatMarkdown is the Markdown format.
	FormatMarkdown Format = "markdown"
	// FormatJSON is the JSON format.
	FormatJSON Format = "json"
)

// ParseFormat parses a format name. "md" is accepted for Markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported report format %q (use text, markdown or json)", s)
	}
}

// FormatForPath picks a format from a file extension, defaulting to text.
func FormatForPath(path string) Format {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".md"), strings.HasSuffix(lower, ".markdown"):
		return FormatMarkdown
	case strings.HasSuffix(lower, ".json"):
		return FormatJSON
	default:
		return FormatText
	}
}

// New returns a Writer for format that writes to output.
func New(format Format, output io.Writer) Writer {
	switch format {
	case FormatMarkdown:
		return NewMarkdownWriter(output)
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint())
	default:
		return NewSimpleWriter(output)
	}
}

// MultiWriter writes to several Writers in order and stops at the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteRun renders result with every writer.
func (m *MultiWriter) WriteRun(result *model.RunResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteRun(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteHistory renders runs with every writer.
func (m *MultiWriter) WriteHistory(runs []model.RunResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteHistory(runs)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// timeLayout is used for run timestamps in text and Markdown output.
const timeLayout = "2006-01-02 15:04:05 MST"

// categoryRows returns label/count pairs for the categories of result that
// were enabled or written, in category order.
func categoryRows(result *model.RunResult) []categoryCount {
	seen := make(map[model.Category]bool)
	for _, c := range result.Categories {
		seen[c] = true
	}
	for c := range result.ByCategory {
		seen[c] = true
	}

	rows := make([]categoryCount, 0, len(seen))
	for _, c := range model.WritableCategories {
		if seen[c] {
			rows = append(rows, categoryCount{category: c, count: result.ByCategory[c]})
		}
	}
	return rows
}

type categoryCount struct {
	category model.Category
	count    int
}
