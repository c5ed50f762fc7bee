package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/speedscan/speedscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.SearchReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeResults(md, report)
	w.writeFooter(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with search parameters.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.SearchReport) {
	md.H1("Speedscan Report")
	md.PlainText("")

	rows := [][]string{
		{"Platform", report.PlatformName + " (`" + report.PlatformID + "`)"},
		{"Max Time", model.FormatRunTime(report.Threshold)},
		{"Scan Date", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
		{"Games Scanned", strconv.Itoa(report.GamesScanned)},
		{"Games Skipped", strconv.Itoa(report.GamesSkipped)},
		{"Status", w.getStatusText(report)},
	}
	if len(report.GenresInclude) > 0 {
		rows = append(rows, []string{"Genres", strings.Join(report.GenresInclude, ", ")})
	}
	if len(report.GenresExclude) > 0 {
		rows = append(rows, []string{"Excluded Genres", strings.Join(report.GenresExclude, ", ")})
	}
	if report.ExclusiveOnly {
		rows = append(rows, []string{"Exclusive", "platform-exclusive games only"})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.SearchReport) string {
	if report.Cancelled {
		return "⚠️ Cancelled (partial results)"
	}
	if report.ErrorMessage != "" {
		return "❌ Error - " + report.ErrorMessage
	}
	return "✅ Complete"
}

// writeResults writes the qualifying games table.
func (w *MarkdownWriter) writeResults(md *markdown.Markdown, report *model.SearchReport) {
	md.H2("Qualifying Games")
	md.PlainText("")

	if len(report.Results) == 0 {
		md.Note("No games with an Any% record under the time limit were found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Results))
	for i, r := range report.Results {
		name := r.GameName
		if r.Weblink != "" {
			name = "[" + name + "](" + r.Weblink + ")"
		}
		rows[i] = []string{
			model.FormatRunTime(r.Record),
			name,
			r.CategoryName,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Record", "Game", "Category"},
		Rows:   rows,
	})
	md.PlainText("")

	md.Tipf("%d game(s) beatable within %s.", report.Matched(), model.FormatRunTime(report.Threshold))
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown, report *model.SearchReport) {
	md.HorizontalRule()
	md.PlainText("")
	if !report.CompletedAt.IsZero() && report.CompletedAt.After(report.StartedAt) {
		md.PlainTextf("*Scan completed in %s.*", report.CompletedAt.Sub(report.StartedAt).Round(time.Second).String())
	}
	md.PlainTextf("*Report generated by [speedscan](https://github.com/speedscan/speedscan)*")
}
