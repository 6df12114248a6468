package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/spiffcs/tracker/internal/format"
	"github.com/spiffcs/tracker/internal/model"
	"github.com/spiffcs/tracker/internal/overlay"
)

// TableFormatter formats output as a terminal table
type TableFormatter struct{}

// hyperlink creates a clickable terminal hyperlink using OSC 8.
func hyperlink(text, url string) string {
	if url == "" || !term.IsTerminal(int(os.Stdout.Fd())) {
		return text
	}
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

// Format outputs annotated items as a table
func (f *TableFormatter) Format(report Report, w io.Writer) error {
	if len(report.Items) == 0 {
		fmt.Fprintln(w, "No items found.")
		printSummary(report, w)
		return nil
	}

	const (
		colType   = 4
		colRepo   = 26
		colNumber = 6
		colStatus = 11
		colAge    = 5
	)
	colTitle := titleWidth(colType + colRepo + colNumber + colStatus + colAge)

	fmt.Fprintf(w, "%-*s  %-*s  %-*s  %-*s  %-*s  %s\n",
		colType, "Type",
		colRepo, "Repository",
		colNumber, "#",
		colTitle, "Title",
		colStatus, "Status",
		"Age")
	fmt.Fprintln(w, strings.Repeat("-", colType+colRepo+colNumber+colTitle+colStatus+colAge+10))

	for _, item := range report.Items {
		typeStr := "ISS"
		if item.Kind == model.KindDiscussion {
			typeStr = "DIS"
		}

		repo, repoWidth := format.TruncateToWidth(item.Repository.FullName(), colRepo)

		title := item.Title
		if item.Note != "" {
			title = "✎ " + title
		}
		title, titleVisible := format.TruncateToWidth(title, colTitle)
		if item.Ignored {
			title = color.New(color.Faint).Sprint(title)
		}
		linked := format.PadRight(hyperlink(title, item.HTMLURL), titleVisible, colTitle)

		status := statusCell(item)

		fmt.Fprintf(w, "%-*s  %s  %-*d  %s  %s  %s\n",
			colType, typeStr,
			format.PadRight(repo, repoWidth, colRepo),
			colNumber, item.Number,
			linked,
			status,
			format.Age(time.Since(item.UpdatedAt)),
		)
	}

	printSummary(report, w)
	return nil
}

// statusCell renders the status column: the override when set, otherwise
// the remote open/closed state.
func statusCell(item overlay.Annotated) string {
	const colStatus = 11
	switch item.Status {
	case model.StatusInProgress:
		return format.PadRight(color.CyanString("in_progress"), 11, colStatus)
	case model.StatusBlocked:
		return format.PadRight(color.RedString("blocked"), 7, colStatus)
	case model.StatusFuture:
		return format.PadRight(color.YellowString("future"), 6, colStatus)
	}
	if item.State == model.StateClosed {
		return format.PadRight(color.New(color.Faint).Sprint("closed"), 6, colStatus)
	}
	return format.PadRight("open", 4, colStatus)
}

// titleWidth sizes the title column from the terminal width, falling
// back to 50 columns when stdout is not a terminal.
func titleWidth(fixed int) int {
	width := 50
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w - fixed - 12
	}
	if width < 20 {
		width = 20
	}
	if width > 80 {
		width = 80
	}
	return width
}

func printSummary(report Report, w io.Writer) {
	fmt.Fprintln(w)

	source := "fetched"
	if report.FromCache {
		source = "cached"
	}
	fmt.Fprintf(w, "%d of %d items match", report.Matched, report.Total)
	if report.Ignored > 0 {
		fmt.Fprintf(w, " (%d ignored)", report.Ignored)
	}
	fmt.Fprintf(w, " [%s]\n", source)

	for _, failure := range report.Failures {
		fmt.Fprintf(w, "  %s %s\n", color.YellowString("!"), failure)
	}
}
