// Package output renders fetch results in the supported output formats.
package output

import (
	"fmt"
	"io"

	"github.com/spiffcs/tracker/internal/overlay"
)

// Format represents the output format
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatJSON, FormatMarkdown:
		return Format(s), nil
	case "":
		return FormatTable, nil
	}
	return "", fmt.Errorf("invalid output format %q (use table, json or markdown)", s)
}

// Report is everything a formatter needs to render one refresh: the
// annotated items to display plus the counts and failures that make up
// the summary line.
type Report struct {
	Template  string
	Items     []overlay.Annotated
	Total     int // items fetched before condition filtering
	Matched   int // items matching the template's conditions
	Ignored   int // matched items hidden by ignore flags
	FromCache bool
	Failures  []string
}

// Formatter renders a report to a writer.
type Formatter interface {
	Format(report Report, w io.Writer) error
}

// NewFormatter creates a formatter for the specified format
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Pretty: true}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{}
	}
}
