package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/tagcrawl/internal/model"
)

// JSONWriter outputs runs as JSON. Output is compact unless indentation is set.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables indented output with the given prefix and indent.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteRun writes result as a JSON object.
func (w *JSONWriter) WriteRun(result *model.RunResult) (int, error) {
	return w.writeJSON(newJSONRun(result))
}

// WriteHistory writes runs as a JSON array. An empty history is "[]".
func (w *JSONWriter) WriteHistory(runs []model.RunResult) (int, error) {
	out := make([]jsonRun, len(runs))
	for i := range runs {
		out[i] = newJSONRun(&runs[i])
	}
	return w.writeJSON(out)
}

// jsonRun adds derived fields to a RunResult.
type jsonRun struct {
	*model.RunResult

	DurationMS int64 `json:"duration_ms"`
	Success    bool  `json:"success"`
}

func newJSONRun(r *model.RunResult) jsonRun {
	return jsonRun{
		RunResult:  r,
		DurationMS: r.Duration().Milliseconds(),
		Success:    r.Outcome.Success(),
	}
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
