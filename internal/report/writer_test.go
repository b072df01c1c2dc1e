package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/nao1215/tagcrawl/internal/model"
)

// createTestRun creates a finished run with sample data.
func createTestRun(outcome model.Outcome) *model.RunResult {
	started := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	return &model.RunResult{
		ID:           7,
		StartedAt:    started,
		FinishedAt:   started.Add(90 * time.Second),
		Endpoint:     "https://danbooru.donmai.us/tags.json",
		Output:       "tags.csv",
		Outcome:      outcome,
		MinPostCount: 64,
		Categories:   []model.Category{model.CategoryGeneral, model.CategoryCopyright, model.CategoryCharacter},
		PagesFetched: 42,
		LastPage:     42,
		Examined:     41001,
		Written:      38123,
		ByCategory: map[model.Category]int{
			model.CategoryGeneral:   30000,
			model.CategoryCopyright: 3123,
			model.CategoryCharacter: 5000,
		},
		Checksum: "0123abcd",
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"MD", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"json", FormatJSON, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, expected %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatForPath(t *testing.T) {
	t.Parallel()

	tests := map[string]Format{
		"report.md":       FormatMarkdown,
		"REPORT.MARKDOWN": FormatMarkdown,
		"out/run.json":    FormatJSON,
		"summary.txt":     FormatText,
		"summary":         FormatText,
	}
	for path, want := range tests {
		if got := FormatForPath(path); got != want {
			t.Errorf("FormatForPath(%q) = %q, expected %q", path, got, want)
		}
	}
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("run summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteRun(createTestRun(model.OutcomeThreshold)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"Run #7",
			"threshold (popularity threshold reached)",
			"38,123",
			"41,001",
			"Copyright",
			"SHA3-256: 0123abcd",
			"1m30s",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q:\n%s", want, output)
			}
		}
		if strings.Contains(output, "Meta") {
			t.Errorf("disabled category should not be listed:\n%s", output)
		}
	})

	t.Run("failed run shows error", func(t *testing.T) {
		t.Parallel()

		run := createTestRun(model.OutcomeFailed)
		run.Error = "page 3: unexpected status code 503"

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteRun(run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "page 3: unexpected status code 503") {
			t.Errorf("expected error line:\n%s", buf.String())
		}
	})

	t.Run("locale", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithLanguage(language.German)).WriteRun(createTestRun(model.OutcomeExhausted)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "38.123") {
			t.Errorf("expected German grouping:\n%s", buf.String())
		}
	})

	t.Run("history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		runs := []model.RunResult{*createTestRun(model.OutcomeThreshold), *createTestRun(model.OutcomeInterrupted)}
		if _, err := NewSimpleWriter(&buf).WriteHistory(runs); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header and 2 rows, got %d lines:\n%s", len(lines), buf.String())
		}
		if !strings.Contains(lines[2], "interrupted") {
			t.Errorf("expected interrupted row, got %q", lines[2])
		}
	})

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteHistory(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != "No runs recorded.\n" {
			t.Errorf("unexpected output %q", buf.String())
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		outcome model.Outcome
		want    []string
	}{
		{
			name:    "completed run",
			outcome: model.OutcomeThreshold,
			want:    []string{"# Tag Crawl Report", "Lines written", "38123", "[!TIP]", "## Categories", "```mermaid", "pie"},
		},
		{
			name:    "interrupted run",
			outcome: model.OutcomeInterrupted,
			want:    []string{"[!WARNING]", "interrupted after page 42"},
		},
		{
			name:    "page limit",
			outcome: model.OutcomePageLimit,
			want:    []string{"[!IMPORTANT]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			n, err := NewMarkdownWriter(&buf).WriteRun(createTestRun(tt.outcome))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n == 0 {
				t.Error("expected a non-zero byte count")
			}

			output := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(output, want) {
					t.Errorf("expected output to contain %q:\n%s", want, output)
				}
			}
		})
	}

	t.Run("failed run", func(t *testing.T) {
		t.Parallel()

		run := createTestRun(model.OutcomeFailed)
		run.Error = "connection refused"
		run.Written = 0
		run.ByCategory = map[model.Category]int{}

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteRun(run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "[!CAUTION]") || !strings.Contains(output, "connection refused") {
			t.Errorf("expected caution alert:\n%s", output)
		}
		if strings.Contains(output, "mermaid") {
			t.Errorf("no chart expected without lines:\n%s", output)
		}
	})

	t.Run("history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteHistory([]model.RunResult{*createTestRun(model.OutcomeExhausted)}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "# Crawl History") || !strings.Contains(output, "#7") {
			t.Errorf("unexpected history output:\n%s", output)
		}
	})

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteHistory(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No runs recorded.") {
			t.Errorf("unexpected output:\n%s", buf.String())
		}
	})
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("run", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteRun(createTestRun(model.OutcomeThreshold)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
		}
		if decoded["outcome"] != "threshold" {
			t.Errorf("outcome = %v", decoded["outcome"])
		}
		if decoded["success"] != true {
			t.Errorf("success = %v", decoded["success"])
		}
		if decoded["duration_ms"] != float64(90000) {
			t.Errorf("duration_ms = %v", decoded["duration_ms"])
		}
		byCategory, ok := decoded["by_category"].(map[string]any)
		if !ok || byCategory["general"] != float64(30000) {
			t.Errorf("by_category = %v", decoded["by_category"])
		}
	})

	t.Run("pretty print", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).WriteRun(createTestRun(model.OutcomeExhausted)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"") {
			t.Errorf("expected indented output:\n%s", buf.String())
		}
	})

	t.Run("empty history is an array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteHistory(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.TrimSpace(buf.String()) != "[]" {
			t.Errorf("expected [], got %q", buf.String())
		}
	})
}

// failingWriter fails every call.
type failingWriter struct{}

func (failingWriter) WriteRun(*model.RunResult) (int, error)     { return 0, errors.New("boom") }
func (failingWriter) WriteHistory([]model.RunResult) (int, error) { return 0, errors.New("boom") }

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	mw := NewMultiWriter(New(FormatText, &text), New(FormatJSON, &js))

	n, err := mw.WriteRun(createTestRun(model.OutcomeExhausted))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != text.Len()+js.Len() {
		t.Errorf("n = %d, expected %d", n, text.Len()+js.Len())
	}
	if text.Len() == 0 || js.Len() == 0 {
		t.Error("expected both writers to receive output")
	}

	var after bytes.Buffer
	mw = NewMultiWriter(failingWriter{}, New(FormatText, &after))
	if _, err := mw.WriteHistory(nil); err == nil {
		t.Error("expected error from failing writer")
	}
	if after.Len() != 0 {
		t.Error("writers after a failure should not be called")
	}
}
