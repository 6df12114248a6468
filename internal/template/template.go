// Package template loads and saves query templates: named YAML documents
// holding repositories, filter conditions, fetch settings and the
// per-item annotation overlay. Documents are validated fully at load and
// written atomically, so a template on disk is either a previous valid
// state or the new one, never a torn write.
package template

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/spiffcs/tracker/internal/constants"
	"github.com/spiffcs/tracker/internal/duration"
	"github.com/spiffcs/tracker/internal/filter"
	"github.com/spiffcs/tracker/internal/model"
)

// Template is a fully validated query template. All duration settings
// are parsed, all conditions are checked against the operator dispatch
// table, and all annotation entries are well-formed by the time Load
// returns one.
type Template struct {
	Name        string
	Description string

	Repositories []model.RepositoryRef
	Filter       filter.Spec

	State              model.StateFilter
	IncludeDiscussions bool
	MaxAge             time.Duration
	CacheTTL           time.Duration

	Annotations model.Annotations
	LastUsed    time.Time

	path string
}

// templateDoc is the on-disk YAML shape. Status overrides are decoded as
// raw nodes so a malformed entry can be reported with its exact cause
// instead of surfacing as a generic type error.
type templateDoc struct {
	Name         string             `yaml:"name"`
	Description  string             `yaml:"description,omitempty"`
	Repositories []string           `yaml:"repositories"`
	Conditions   []filter.Condition `yaml:"conditions,omitempty"`
	Logic        string             `yaml:"condition_logic,omitempty"`
	Settings     settingsDoc        `yaml:"settings,omitempty"`
	Annotations  annotationsDoc     `yaml:"annotations,omitempty"`
	LastUsed     time.Time          `yaml:"last_used,omitempty"`
}

type settingsDoc struct {
	State              string `yaml:"state,omitempty"`
	IncludeDiscussions bool   `yaml:"include_discussions,omitempty"`
	MaxAge             string `yaml:"max_age,omitempty"`
	CacheTTL           string `yaml:"cache_ttl,omitempty"`
}

type annotationsDoc struct {
	Ignored         []string             `yaml:"ignored,omitempty"`
	Notes           map[string]string    `yaml:"notes,omitempty"`
	StatusOverrides map[string]yaml.Node `yaml:"status_overrides,omitempty"`
}

// Load reads and validates a template document. Unparseable YAML,
// missing required fields and malformed status overrides return a
// *CorruptionError; semantically invalid settings (unknown fields,
// impossible operators, bad durations) return plain validation errors.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}

	var doc templateDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &CorruptionError{Path: path, Reason: ReasonSyntax, Detail: "invalid YAML", Err: err}
	}

	if doc.Name == "" {
		return nil, &CorruptionError{Path: path, Reason: ReasonMissingField, Detail: "name is required"}
	}
	if len(doc.Repositories) == 0 {
		return nil, &CorruptionError{Path: path, Reason: ReasonMissingField, Detail: "at least one repository is required"}
	}

	t := &Template{
		Name:        doc.Name,
		Description: doc.Description,
		LastUsed:    doc.LastUsed,
		path:        path,
	}

	for _, s := range doc.Repositories {
		repo, err := model.ParseRepositoryRef(s)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", path, err)
		}
		t.Repositories = append(t.Repositories, repo)
	}

	logic, err := filter.ParseLogic(doc.Logic)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", path, err)
	}
	t.Filter = filter.Spec{Conditions: doc.Conditions, Logic: logic}
	if err := t.Filter.Validate(); err != nil {
		return nil, fmt.Errorf("template %s: %w", path, err)
	}

	if t.State, err = model.ParseStateFilter(doc.Settings.State); err != nil {
		return nil, fmt.Errorf("template %s: %w", path, err)
	}
	t.IncludeDiscussions = doc.Settings.IncludeDiscussions

	t.MaxAge = constants.DefaultMaxAge
	if doc.Settings.MaxAge != "" {
		if t.MaxAge, err = duration.Parse(doc.Settings.MaxAge); err != nil {
			return nil, fmt.Errorf("template %s: max_age: %w", path, err)
		}
	}
	t.CacheTTL = constants.ListCacheTTL
	if doc.Settings.CacheTTL != "" {
		if t.CacheTTL, err = duration.Parse(doc.Settings.CacheTTL); err != nil {
			return nil, fmt.Errorf("template %s: cache_ttl: %w", path, err)
		}
	}

	if t.Annotations, err = decodeAnnotations(path, doc.Annotations); err != nil {
		return nil, err
	}

	return t, nil
}

func decodeAnnotations(path string, doc annotationsDoc) (model.Annotations, error) {
	ann := model.NewAnnotations()
	for _, id := range doc.Ignored {
		ann.Ignored[id] = true
	}
	for id, note := range doc.Notes {
		ann.Notes[id] = note
	}
	for id, node := range doc.StatusOverrides {
		var status model.Status
		if err := status.UnmarshalYAML(&node); err != nil {
			return ann, &CorruptionError{
				Path:   path,
				Reason: ReasonStatusOverride,
				Detail: fmt.Sprintf("status override for %s", id),
				Err:    err,
			}
		}
		// A "none" entry carries no information and is dropped on load,
		// the same as cycling an item back to none drops it on save.
		if status != model.StatusNone {
			ann.Statuses[id] = status
		}
	}
	return ann, nil
}

// Save writes the template back to its source path atomically. Enums and
// status values serialize as plain strings so documents stay editable by
// hand and readable by any YAML tool.
func (t *Template) Save() error {
	if t.path == "" {
		return errors.New("template has no backing file")
	}
	return t.SaveTo(t.path)
}

// SaveTo writes the template to an explicit path.
func (t *Template) SaveTo(path string) error {
	doc := templateDoc{
		Name:        t.Name,
		Description: t.Description,
		Conditions:  t.Filter.Conditions,
		Logic:       string(t.Filter.Logic),
		LastUsed:    t.LastUsed,
		Settings: settingsDoc{
			State:              string(t.State),
			IncludeDiscussions: t.IncludeDiscussions,
			MaxAge:             formatDuration(t.MaxAge),
			CacheTTL:           formatDuration(t.CacheTTL),
		},
	}
	for _, repo := range t.Repositories {
		doc.Repositories = append(doc.Repositories, repo.FullName())
	}
	doc.Annotations = encodeAnnotations(t.Annotations)

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to encode template: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}
	t.path = path
	return nil
}

func encodeAnnotations(ann model.Annotations) annotationsDoc {
	doc := annotationsDoc{}
	for id, on := range ann.Ignored {
		if on {
			doc.Ignored = append(doc.Ignored, id)
		}
	}
	sort.Strings(doc.Ignored)

	if len(ann.Notes) > 0 {
		doc.Notes = make(map[string]string, len(ann.Notes))
		for id, note := range ann.Notes {
			doc.Notes[id] = note
		}
	}
	if len(ann.Statuses) > 0 {
		doc.StatusOverrides = make(map[string]yaml.Node, len(ann.Statuses))
		for id, status := range ann.Statuses {
			if status == model.StatusNone {
				continue
			}
			var node yaml.Node
			node.SetString(status.String())
			doc.StatusOverrides[id] = node
		}
		if len(doc.StatusOverrides) == 0 {
			doc.StatusOverrides = nil
		}
	}
	return doc
}

// formatDuration renders a duration in the largest whole unit the
// duration parser accepts.
func formatDuration(d time.Duration) string {
	day := 24 * time.Hour
	switch {
	case d >= day && d%day == 0:
		return fmt.Sprintf("%dd", d/day)
	case d >= time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	default:
		return fmt.Sprintf("%dm", d/time.Minute)
	}
}

// Path returns the file the template was loaded from.
func (t *Template) Path() string {
	return t.path
}

// Touch records a use of the template.
func (t *Template) Touch() {
	t.LastUsed = time.Now().UTC().Truncate(time.Second)
}

// DefaultDir returns the directory templates are stored in.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(base, "tracker", "templates"), nil
}
