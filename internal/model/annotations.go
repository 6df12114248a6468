package model

// Annotations is the durable, user-authored overlay keyed by item ID:
// ignore flags, free-form notes and status overrides. It belongs to one
// template, is loaded when the template is opened and written back on
// every user edit. Fetching never mutates it, and entries for items
// absent from the current fetch are kept so they reapply when the item
// shows up again.
type Annotations struct {
	Ignored  map[string]bool
	Notes    map[string]string
	Statuses map[string]Status
}

// NewAnnotations returns an empty annotation set.
func NewAnnotations() Annotations {
	return Annotations{
		Ignored:  map[string]bool{},
		Notes:    map[string]string{},
		Statuses: map[string]Status{},
	}
}

// StatusFor returns the status override for id, defaulting to none.
func (a Annotations) StatusFor(id string) Status {
	if s, ok := a.Statuses[id]; ok {
		return s
	}
	return StatusNone
}

// Len returns the total number of annotation entries across all maps.
func (a Annotations) Len() int {
	return len(a.Ignored) + len(a.Notes) + len(a.Statuses)
}
