// Package filter evaluates typed conditions against fetched items.
// Conditions are validated once at template load; evaluation itself is
// pure and safe to run concurrently over distinct items.
package filter

import (
	"fmt"
	"time"

	"github.com/spiffcs/tracker/internal/model"
)

// Field names the item attribute a condition inspects.
type Field string

const (
	FieldLabel        Field = "label"
	FieldTitle        Field = "title_contains"
	FieldBody         Field = "body_contains"
	FieldAuthor       Field = "author"
	FieldAssignee     Field = "assignee"
	FieldState        Field = "state"
	FieldCreatedAfter Field = "created_after"
	FieldUpdatedAfter Field = "updated_after"
)

// Operator is the comparison applied to the field's value.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
)

// Logic selects how per-condition results combine.
type Logic string

const (
	LogicAnd Logic = "and"
	LogicOr  Logic = "or"
)

// ParseLogic validates a combination logic string; empty defaults to AND.
func ParseLogic(s string) (Logic, error) {
	switch Logic(s) {
	case LogicAnd, LogicOr:
		return Logic(s), nil
	case "":
		return LogicAnd, nil
	}
	return "", fmt.Errorf("invalid condition logic %q (use and or or)", s)
}

// Condition is a single predicate over one item field.
type Condition struct {
	Field         Field    `yaml:"field"          json:"field"`
	Operator      Operator `yaml:"operator"       json:"operator"`
	Value         string   `yaml:"value"          json:"value"`
	CaseSensitive bool     `yaml:"case_sensitive,omitempty" json:"case_sensitive,omitempty"`
	Negate        bool     `yaml:"negate,omitempty"         json:"negate,omitempty"`
}

// Spec is a condition list plus its combination rule.
type Spec struct {
	Conditions []Condition
	Logic      Logic
}

// valueType classifies fields by the comparisons they support.
type valueType int

const (
	textValue valueType = iota // equality and containment
	setValue                   // membership (labels, assignees)
	dateValue                  // strict ordering over timestamps
)

var fieldTypes = map[Field]valueType{
	FieldLabel:        setValue,
	FieldTitle:        textValue,
	FieldBody:         textValue,
	FieldAuthor:       textValue,
	FieldAssignee:     setValue,
	FieldState:        textValue,
	FieldCreatedAfter: dateValue,
	FieldUpdatedAfter: dateValue,
}

var allowedOps = map[valueType]map[Operator]bool{
	textValue: {
		OpEquals:      true,
		OpNotEquals:   true,
		OpContains:    true,
		OpNotContains: true,
	},
	setValue: {
		OpEquals:      true,
		OpNotEquals:   true,
		OpContains:    true,
		OpNotContains: true,
	},
	dateValue: {
		OpGreaterThan: true,
		OpLessThan:    true,
	},
}

// ConfigError reports an invalid condition found at load time.
type ConfigError struct {
	Index  int
	Field  Field
	Op     Operator
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("condition %d (%s %s): %s", e.Index, e.Field, e.Op, e.Reason)
}

// Validate checks every (field, operator, value) combination against the
// dispatch table. Invalid combinations are configuration errors reported
// here, before any fetch, never deferred to evaluation time.
func (s Spec) Validate() error {
	for i, c := range s.Conditions {
		vt, ok := fieldTypes[c.Field]
		if !ok {
			return &ConfigError{Index: i, Field: c.Field, Op: c.Operator, Reason: "unknown field"}
		}
		if !allowedOps[vt][c.Operator] {
			return &ConfigError{Index: i, Field: c.Field, Op: c.Operator, Reason: "operator not valid for this field"}
		}
		if vt == dateValue {
			if _, err := parseConditionTime(c.Value); err != nil {
				return &ConfigError{Index: i, Field: c.Field, Op: c.Operator, Reason: fmt.Sprintf("invalid timestamp %q", c.Value)}
			}
		}
	}
	if _, err := ParseLogic(string(s.Logic)); err != nil {
		return err
	}
	return nil
}

// parseConditionTime accepts RFC 3339 timestamps or bare dates.
func parseConditionTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// Apply returns the items matching the spec, preserving input order.
func Apply(items []model.Item, spec Spec) []model.Item {
	if len(spec.Conditions) == 0 {
		return items
	}
	matched := make([]model.Item, 0, len(items))
	for _, item := range items {
		if spec.Evaluate(item) {
			matched = append(matched, item)
		}
	}
	return matched
}
