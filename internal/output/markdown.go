package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spiffcs/tracker/internal/format"
	"github.com/spiffcs/tracker/internal/model"
	"github.com/spiffcs/tracker/internal/overlay"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct{}

// Format outputs annotated items as Markdown, grouped by repository.
func (f *MarkdownFormatter) Format(report Report, w io.Writer) error {
	title := report.Template
	if title == "" {
		title = "Tracked Items"
	}
	fmt.Fprintf(w, "# %s\n\n", title)
	fmt.Fprintf(w, "*Generated: %s*\n\n", time.Now().Format("2006-01-02 15:04"))

	if len(report.Items) == 0 {
		fmt.Fprintln(w, "No items found.")
		f.writeSummary(report, w)
		return nil
	}

	// Group by repository, preserving first-seen order.
	var order []string
	grouped := map[string][]overlay.Annotated{}
	for _, item := range report.Items {
		repo := item.Repository.FullName()
		if _, seen := grouped[repo]; !seen {
			order = append(order, repo)
		}
		grouped[repo] = append(grouped[repo], item)
	}

	for _, repo := range order {
		fmt.Fprintf(w, "## %s\n\n", repo)
		for _, item := range grouped[repo] {
			f.writeItem(item, w)
		}
	}

	f.writeSummary(report, w)
	return nil
}

func (f *MarkdownFormatter) writeItem(item overlay.Annotated, w io.Writer) {
	marker := "-"
	if item.Ignored {
		marker = "- ~~"
	}
	line := fmt.Sprintf("%s [#%d %s](%s)", marker, item.Number, item.Title, item.HTMLURL)
	if item.Ignored {
		line += "~~"
	}
	fmt.Fprintln(w, line)

	var details []string
	if item.Kind == model.KindDiscussion {
		details = append(details, "discussion")
	}
	if item.Status != model.StatusNone {
		details = append(details, "status: "+item.Status.String())
	}
	if len(item.Labels) > 0 {
		details = append(details, "labels: "+formatLabels(item.Labels))
	}
	details = append(details, "updated "+format.Age(time.Since(item.UpdatedAt))+" ago")
	fmt.Fprintf(w, "  %s\n", strings.Join(details, " | "))

	if item.Note != "" {
		fmt.Fprintf(w, "  > %s\n", item.Note)
	}
	fmt.Fprintln(w)
}

func (f *MarkdownFormatter) writeSummary(report Report, w io.Writer) {
	fmt.Fprintf(w, "\n---\n\n%d of %d items match", report.Matched, report.Total)
	if report.Ignored > 0 {
		fmt.Fprintf(w, " (%d ignored)", report.Ignored)
	}
	if report.FromCache {
		fmt.Fprint(w, " (cached)")
	}
	fmt.Fprintln(w)

	for _, failure := range report.Failures {
		fmt.Fprintf(w, "- ⚠ %s\n", failure)
	}
}

func formatLabels(labels []string) string {
	formatted := make([]string, len(labels))
	for i, l := range labels {
		formatted[i] = "`" + l + "`"
	}
	return strings.Join(formatted, " ")
}
