package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spiffcs/tracker/config"
	"github.com/spiffcs/tracker/internal/log"
	"github.com/spiffcs/tracker/internal/model"
	"github.com/spiffcs/tracker/internal/overlay"
	"github.com/spiffcs/tracker/internal/template"
	"github.com/spiffcs/tracker/internal/usage"
)

// annotateOptions holds the mutually exclusive edit flags.
type annotateOptions struct {
	toggleIgnore bool
	note         string
	clearNote    bool
	cycleStatus  bool
}

// NewCmdAnnotate creates the annotate command for scripted edits of a
// template's item annotations, the non-interactive counterpart to the
// item browser keys.
func NewCmdAnnotate(opts *Options) *cobra.Command {
	var edit annotateOptions

	cmd := &cobra.Command{
		Use:   "annotate <template> <item-id>",
		Short: "Edit an item's ignore flag, note or status",
		Long: `Applies one annotation edit to an item and saves the template.
Exactly one of --toggle-ignore, --note, --clear-note or --cycle-status
must be given. Item IDs are shown in JSON output.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnnotate(args, opts, edit)
		},
	}

	cmd.Flags().BoolVar(&edit.toggleIgnore, "toggle-ignore", false, "Flip the ignore flag")
	cmd.Flags().StringVar(&edit.note, "note", "", "Set the note text")
	cmd.Flags().BoolVar(&edit.clearNote, "clear-note", false, "Remove the note")
	cmd.Flags().BoolVar(&edit.cycleStatus, "cycle-status", false, "Advance the status one step")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity")
	cmd.Flags().StringVar(&opts.TemplateDir, "templates", "", "Template directory (default: user config dir)")

	return cmd
}

func (o annotateOptions) toEdit() (overlay.Edit, error) {
	var edits []overlay.Edit
	if o.toggleIgnore {
		edits = append(edits, overlay.ToggleIgnore{})
	}
	if o.note != "" {
		edits = append(edits, overlay.SetNote{Text: o.note})
	}
	if o.clearNote {
		edits = append(edits, overlay.SetNote{})
	}
	if o.cycleStatus {
		edits = append(edits, overlay.CycleStatus{})
	}
	if len(edits) != 1 {
		return nil, fmt.Errorf("exactly one of --toggle-ignore, --note, --clear-note or --cycle-status is required")
	}
	return edits[0], nil
}

func runAnnotate(args []string, opts *Options, annOpts annotateOptions) error {
	log.Initialize(opts.Verbosity, os.Stderr)

	edit, err := annOpts.toEdit()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	dir, err := templateDir(opts, cfg)
	if err != nil {
		return err
	}
	path, err := resolveTemplatePath(dir, args[:1], opts)
	if err != nil {
		return err
	}

	t, err := template.Load(path)
	if err != nil {
		return err
	}

	id := args[1]
	t.Annotations = overlay.ApplyEdit(t.Annotations, id, edit)
	if err := t.Save(); err != nil {
		return err
	}

	if store, uerr := usage.NewStore(); uerr == nil {
		_ = store.Touch(t.Name)
	}

	fmt.Printf("Updated %s: %s\n", t.Name, describeEdit(t.Annotations, id, edit))
	return nil
}

func describeEdit(ann model.Annotations, id string, edit overlay.Edit) string {
	switch edit.(type) {
	case overlay.ToggleIgnore:
		if ann.Ignored[id] {
			return fmt.Sprintf("%s ignored", id)
		}
		return fmt.Sprintf("%s no longer ignored", id)
	case overlay.CycleStatus:
		return fmt.Sprintf("%s status is now %s", id, ann.StatusFor(id))
	case overlay.SetNote:
		if _, ok := ann.Notes[id]; ok {
			return fmt.Sprintf("note set on %s", id)
		}
		return fmt.Sprintf("note cleared on %s", id)
	}
	return id
}
