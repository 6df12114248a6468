package filter

import (
	"strings"
	"time"

	"github.com/spiffcs/tracker/internal/model"
)

// Evaluate reports whether the item matches the spec. An empty
// condition list matches everything for both AND and OR: the OR case is
// a degenerate "no filtering" convention kept from the original
// behavior, not a meaningful disjunction over nothing.
func (s Spec) Evaluate(item model.Item) bool {
	if len(s.Conditions) == 0 {
		return true
	}

	if s.Logic == LogicOr {
		for _, c := range s.Conditions {
			if c.matches(item) {
				return true
			}
		}
		return false
	}

	for _, c := range s.Conditions {
		if !c.matches(item) {
			return false
		}
	}
	return true
}

// matches evaluates one condition, applying negation last.
func (c Condition) matches(item model.Item) bool {
	result := c.check(item)
	if c.Negate {
		return !result
	}
	return result
}

func (c Condition) check(item model.Item) bool {
	switch c.Field {
	case FieldLabel:
		return c.setOp(item.Labels)
	case FieldAssignee:
		return c.setOp(item.Assignees)
	case FieldTitle:
		return c.textOp(item.Title)
	case FieldBody:
		if item.Body == "" {
			return false
		}
		return c.textOp(item.Body)
	case FieldAuthor:
		return c.textOp(item.Author)
	case FieldState:
		return c.textOp(item.State)
	case FieldCreatedAfter:
		return c.dateOp(item.CreatedAt)
	case FieldUpdatedAfter:
		return c.dateOp(item.UpdatedAt)
	}
	// Unknown fields are rejected by Validate before evaluation runs.
	return false
}

// textOp applies an equality/containment operator to a scalar field.
// Comparisons are case-insensitive unless the condition opts in to
// case sensitivity.
func (c Condition) textOp(field string) bool {
	f, v := c.fold(field), c.fold(c.Value)
	switch c.Operator {
	case OpEquals:
		return f == v
	case OpNotEquals:
		return f != v
	case OpContains:
		return strings.Contains(f, v)
	case OpNotContains:
		return !strings.Contains(f, v)
	}
	return false
}

// setOp applies membership semantics over a set field: equals means the
// value is a member, contains means some member contains the value.
func (c Condition) setOp(members []string) bool {
	v := c.fold(c.Value)
	var member, contained bool
	for _, m := range members {
		m = c.fold(m)
		if m == v {
			member = true
		}
		if strings.Contains(m, v) {
			contained = true
		}
	}
	switch c.Operator {
	case OpEquals:
		return member
	case OpNotEquals:
		return !member
	case OpContains:
		return contained
	case OpNotContains:
		return !contained
	}
	return false
}

// dateOp applies strict ordering: greater_than excludes equal timestamps.
func (c Condition) dateOp(field time.Time) bool {
	ref, err := parseConditionTime(c.Value)
	if err != nil {
		// Validate rejects unparseable values before evaluation runs.
		return false
	}
	switch c.Operator {
	case OpGreaterThan:
		return field.After(ref)
	case OpLessThan:
		return field.Before(ref)
	}
	return false
}

func (c Condition) fold(s string) string {
	if c.CaseSensitive {
		return s
	}
	return strings.ToLower(s)
}
