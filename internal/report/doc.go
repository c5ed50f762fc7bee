// Package report formats and writes search reports.
//
// Three output formats are supported: human-readable text for the
// terminal, JSON for tool integration, and Markdown for documentation
// and sharing. All formats implement the Writer interface, and
// MultiWriter combines several destinations (for example terminal and
// file) behind the same interface.
package report
