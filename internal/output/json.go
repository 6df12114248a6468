package output

import (
	"encoding/json"
	"io"

	"github.com/spiffcs/tracker/internal/overlay"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Pretty bool
}

// jsonReport is the machine-readable envelope: the items plus the same
// counts the table summary line shows.
type jsonReport struct {
	Template  string              `json:"template,omitempty"`
	Items     []overlay.Annotated `json:"items"`
	Total     int                 `json:"total"`
	Matched   int                 `json:"matched"`
	Ignored   int                 `json:"ignored"`
	FromCache bool                `json:"fromCache"`
	Failures  []string            `json:"failures,omitempty"`
}

// Format outputs annotated items as JSON
func (f *JSONFormatter) Format(report Report, w io.Writer) error {
	items := report.Items
	if items == nil {
		items = []overlay.Annotated{}
	}
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(jsonReport{
		Template:  report.Template,
		Items:     items,
		Total:     report.Total,
		Matched:   report.Matched,
		Ignored:   report.Ignored,
		FromCache: report.FromCache,
		Failures:  report.Failures,
	})
}
