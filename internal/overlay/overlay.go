// Package overlay combines freshly fetched items with the template's
// local annotations, and applies user edits back onto the annotation
// set for persistence.
package overlay

import (
	"github.com/spiffcs/tracker/internal/model"
)

// Annotated is a fetched item with its local overlay attached. Ignored
// items are flagged rather than removed, so hiding them stays a pure
// display concern over complete data.
type Annotated struct {
	model.Item
	Ignored bool         `json:"ignored"`
	Note    string       `json:"note,omitempty"`
	Status  model.Status `json:"status"`
}

// Merge attaches annotations to items by ID. Items without an entry get
// defaults (not ignored, no note, status none). Merge preserves the
// input order, never drops items, and is idempotent: the same inputs
// always produce the same output. Annotations whose IDs are absent from
// items are left untouched in the annotation set.
func Merge(items []model.Item, ann model.Annotations) []Annotated {
	merged := make([]Annotated, 0, len(items))
	for _, item := range items {
		merged = append(merged, Annotated{
			Item:    item,
			Ignored: ann.Ignored[item.ID],
			Note:    ann.Notes[item.ID],
			Status:  ann.StatusFor(item.ID),
		})
	}
	return merged
}

// Edit is a single user action against one item's annotations.
type Edit interface {
	isEdit()
}

// ToggleIgnore flips the ignore flag for an item.
type ToggleIgnore struct{}

// SetNote replaces the note for an item; empty text clears it.
type SetNote struct {
	Text string
}

// CycleStatus advances the status override one step through
// none -> in_progress -> blocked -> future -> none.
type CycleStatus struct{}

func (ToggleIgnore) isEdit() {}
func (SetNote) isEdit()      {}
func (CycleStatus) isEdit()  {}

// ApplyEdit is the single mutation point for annotations. It returns a
// new annotation set with exactly the target ID changed; only the map
// the edit touches is copied, the others are shared with the input.
func ApplyEdit(ann model.Annotations, id string, edit Edit) model.Annotations {
	out := ann
	switch e := edit.(type) {
	case ToggleIgnore:
		out.Ignored = cloneMap(ann.Ignored)
		if out.Ignored[id] {
			delete(out.Ignored, id)
		} else {
			out.Ignored[id] = true
		}
	case SetNote:
		out.Notes = cloneMap(ann.Notes)
		if e.Text == "" {
			delete(out.Notes, id)
		} else {
			out.Notes[id] = e.Text
		}
	case CycleStatus:
		out.Statuses = cloneMap(ann.Statuses)
		next := ann.StatusFor(id).Next()
		if next == model.StatusNone {
			// A none override carries no information; drop the entry
			// instead of persisting it.
			delete(out.Statuses, id)
		} else {
			out.Statuses[id] = next
		}
	}
	return out
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
