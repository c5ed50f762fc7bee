package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/speedscan/speedscan/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with aligned record
// times and clear section formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no results are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.SearchReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeResults(&sb, report)
	w.writeSummary(&sb, report)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with search parameters.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.SearchReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         SPEEDSCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Platform:       %s (%s)\n", report.PlatformName, report.PlatformID))
	sb.WriteString(fmt.Sprintf("Max Time:       %s\n", model.FormatRunTime(report.Threshold)))
	if len(report.GenresInclude) > 0 {
		sb.WriteString(fmt.Sprintf("Genres:         %s\n", strings.Join(report.GenresInclude, ", ")))
	}
	if len(report.GenresExclude) > 0 {
		sb.WriteString(fmt.Sprintf("Exclude Genres: %s\n", strings.Join(report.GenresExclude, ", ")))
	}
	if report.ExclusiveOnly {
		sb.WriteString("Exclusive:      platform-exclusive games only\n")
	}
	sb.WriteString(fmt.Sprintf("Started:        %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST")))

	switch {
	case report.Cancelled:
		sb.WriteString("Status:         CANCELLED (partial results)\n")
	case report.ErrorMessage != "":
		sb.WriteString(fmt.Sprintf("Status:         ERROR - %s\n", report.ErrorMessage))
	default:
		sb.WriteString("Status:         Complete\n")
	}

	sb.WriteString("\n")
}

// writeResults writes the qualifying games, fastest record first.
func (w *SimpleWriter) writeResults(sb *strings.Builder, report *model.SearchReport) {
	if len(report.Results) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("QUALIFYING GAMES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(report.Results) == 0 {
		sb.WriteString("  No games found under the time limit\n\n")
		return
	}

	for _, r := range report.Results {
		sb.WriteString(fmt.Sprintf("  %-12s | %s\n", model.FormatRunTime(r.Record), r.GameName))
		if w.verbose {
			sb.WriteString(fmt.Sprintf("    Category: %s\n", r.CategoryName))
			if r.Weblink != "" {
				sb.WriteString(fmt.Sprintf("    Link:     %s\n", r.Weblink))
			}
		}
	}
	sb.WriteString("\n")
}

// writeSummary writes the scan statistics footer.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.SearchReport) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Scanned %d games, skipped %d, matched %d",
		report.GamesScanned, report.GamesSkipped, report.Matched()))
	if !report.CompletedAt.IsZero() && report.CompletedAt.After(report.StartedAt) {
		sb.WriteString(fmt.Sprintf(" in %s", report.CompletedAt.Sub(report.StartedAt).Round(time.Second)))
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
