package template

import "fmt"

// CorruptionReason distinguishes the ways a template document can be
// unusable, so a repair path can target the specific cause.
type CorruptionReason string

const (
	// ReasonSyntax: the document is not parseable YAML.
	ReasonSyntax CorruptionReason = "syntax"

	// ReasonMissingField: a required field is absent or empty.
	ReasonMissingField CorruptionReason = "missing_field"

	// ReasonStatusOverride: a status override is not a recognized plain
	// string (e.g. it carries a language-specific type wrapper).
	ReasonStatusOverride CorruptionReason = "status_override"
)

// CorruptionError reports an unusable template document. The document
// is never partially applied: Load returns either a valid template or
// this error.
type CorruptionError struct {
	Path   string
	Reason CorruptionReason
	Detail string
	Err    error
}

func (e *CorruptionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("template %s corrupt (%s): %s: %v", e.Path, e.Reason, e.Detail, e.Err)
	}
	return fmt.Sprintf("template %s corrupt (%s): %s", e.Path, e.Reason, e.Detail)
}

func (e *CorruptionError) Unwrap() error {
	return e.Err
}
