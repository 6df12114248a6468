package model

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Status is a user-assigned tracking status for an item. It persists
// locally in the template document and is never sent to the remote API.
type Status string

const (
	StatusNone       Status = "none"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
	StatusFuture     Status = "future"
)

// statusCycle is the fixed total order used by cycle operations.
var statusCycle = []Status{StatusNone, StatusInProgress, StatusBlocked, StatusFuture}

// ParseStatus converts a plain string into a Status. It is the single
// decoding point for status values at the persistence boundary.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNone, StatusInProgress, StatusBlocked, StatusFuture:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// String returns the plain string form written to template documents.
func (s Status) String() string {
	return string(s)
}

// Next returns the status following s in the cycle
// none -> in_progress -> blocked -> future -> none.
func (s Status) Next() Status {
	for i, cur := range statusCycle {
		if cur == s {
			return statusCycle[(i+1)%len(statusCycle)]
		}
	}
	return StatusNone
}

// MarshalYAML writes the status as its plain string value, never as a
// tagged or wrapped node.
func (s Status) MarshalYAML() (interface{}, error) {
	return string(s), nil
}

// UnmarshalYAML decodes a status from a plain string scalar. Any other
// node shape (a tagged type wrapper, a mapping, a non-string scalar) is
// rejected so corrupted documents are reported instead of silently
// accepted.
func (s *Status) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode || (node.Tag != "!!str" && node.Tag != "") {
		return fmt.Errorf("status must be a plain string, got %s node with tag %s", kindName(node.Kind), node.Tag)
	}
	parsed, err := ParseStatus(node.Value)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	}
	return "unknown"
}
