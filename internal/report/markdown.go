package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/tagcrawl/internal/model"
)

// MarkdownWriter outputs runs as GitHub-flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// WriteRun writes a run summary with a category table and chart.
func (w *MarkdownWriter) WriteRun(result *model.RunResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Tag Crawl Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run", runID(result.ID)},
			{"Endpoint", "`" + result.Endpoint + "`"},
			{"Output", "`" + result.Output + "`"},
			{"Started", result.StartedAt.Format(timeLayout)},
			{"Duration", result.Duration().Round(time.Millisecond).String()},
			{"Outcome", outcomeText(result.Outcome)},
			{"Min post count", strconv.FormatInt(result.MinPostCount, 10)},
			{"Pages fetched", strconv.Itoa(result.PagesFetched)},
			{"Last page", strconv.Itoa(result.LastPage)},
			{"Tags examined", strconv.Itoa(result.Examined)},
			{"Lines written", strconv.Itoa(result.Written)},
		},
	})
	md.PlainText("")

	w.writeAlert(md, result)
	w.writeCategories(md, result)

	if result.Checksum != "" {
		md.H2("Checksum")
		md.PlainText("")
		md.PlainTextf("SHA3-256: `%s`", result.Checksum)
		md.PlainText("")
	}

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, result *model.RunResult) {
	switch result.Outcome {
	case model.OutcomeFailed:
		md.Cautionf("The crawl failed: %s. Lines already written remain in the output.", result.Error)
	case model.OutcomeInterrupted:
		md.Warningf("The crawl was interrupted after page %d. The output holds complete pages only.", result.LastPage)
	case model.OutcomePageLimit:
		md.Importantf("The page limit was reached at page %d; more tags may qualify.", result.LastPage)
	default:
		if result.Written == 0 {
			md.Note("No tags qualified.")
		} else {
			md.Tip("The crawl completed.")
		}
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeCategories(md *markdown.Markdown, result *model.RunResult) {
	rows := categoryRows(result)
	if len(rows) == 0 {
		return
	}

	md.H2("Categories")
	md.PlainText("")

	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		table = append(table, []string{r.category.Label(), strconv.Itoa(r.count)})
	}
	md.Table(markdown.TableSet{Header: []string{"Category", "Lines"}, Rows: table})
	md.PlainText("")

	if result.Written == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Lines by Category"),
		piechart.WithShowData(true),
	)
	for _, r := range rows {
		if r.count > 0 {
			chart.LabelAndIntValue(r.category.Label(), uint64(r.count))
		}
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// WriteHistory writes the run history as a table.
func (w *MarkdownWriter) WriteHistory(runs []model.RunResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Crawl History")
	md.PlainText("")

	if len(runs) == 0 {
		md.Note("No runs recorded.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			runID(r.ID),
			r.StartedAt.Format(timeLayout),
			outcomeText(r.Outcome),
			strconv.Itoa(r.Written),
			strconv.Itoa(r.PagesFetched),
			"`" + r.Output + "`",
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Run", "Started", "Outcome", "Written", "Pages", "Output"},
		Rows:   rows,
	})

	return len(md.String()), md.Build()
}

func runID(id int64) string {
	if id == 0 {
		return "-"
	}
	return "#" + strconv.FormatInt(id, 10)
}

func outcomeText(o model.Outcome) string {
	switch {
	case o.Success():
		return "✅ " + o.Description()
	case o == model.OutcomeInterrupted:
		return "⚠️ " + o.Description()
	default:
		return "❌ " + o.Description()
	}
}
