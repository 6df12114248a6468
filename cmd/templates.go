package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spiffcs/tracker/config"
	"github.com/spiffcs/tracker/internal/format"
	"github.com/spiffcs/tracker/internal/template"
)

// NewCmdTemplates creates the templates command with subcommands.
func NewCmdTemplates(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage query templates",
	}

	cmd.PersistentFlags().StringVar(&opts.TemplateDir, "templates", "", "Template directory (default: user config dir)")

	cmd.AddCommand(newCmdTemplatesList(opts))
	cmd.AddCommand(newCmdTemplatesShow(opts))

	return cmd
}

func newCmdTemplatesList(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplatesList(opts)
		},
	}
}

func newCmdTemplatesShow(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <template>",
		Short: "Show a template's settings and annotation counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTemplatesShow(args[0], opts)
		},
	}
}

func runTemplatesList(opts *Options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	dir, err := templateDir(opts, cfg)
	if err != nil {
		return err
	}

	infos, err := template.List(dir)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Printf("No templates found in %s\n", dir)
		return nil
	}

	for _, info := range infos {
		used := "never used"
		if !info.LastUsed.IsZero() {
			used = "used " + format.Age(time.Since(info.LastUsed)) + " ago"
		}
		fmt.Printf("%-24s  %d repos, %s\n", info.Name, info.RepoCount, used)
		if info.Description != "" {
			fmt.Printf("    %s\n", info.Description)
		}
	}
	return nil
}

func runTemplatesShow(name string, opts *Options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	dir, err := templateDir(opts, cfg)
	if err != nil {
		return err
	}
	path, err := resolveTemplatePath(dir, []string{name}, opts)
	if err != nil {
		return err
	}

	t, err := template.Load(path)
	if err != nil {
		return err
	}

	fmt.Printf("Name:         %s\n", t.Name)
	if t.Description != "" {
		fmt.Printf("Description:  %s\n", t.Description)
	}
	fmt.Printf("File:         %s\n", t.Path())
	fmt.Println("Repositories:")
	for _, repo := range t.Repositories {
		fmt.Printf("  %s\n", repo.FullName())
	}
	fmt.Printf("Conditions:   %d (%s)\n", len(t.Filter.Conditions), t.Filter.Logic)
	fmt.Printf("State:        %s\n", t.State)
	fmt.Printf("Discussions:  %t\n", t.IncludeDiscussions)
	fmt.Printf("Max age:      %s\n", t.MaxAge)
	fmt.Printf("Cache TTL:    %s\n", t.CacheTTL)
	fmt.Printf("Annotations:  %d ignored, %d notes, %d statuses\n",
		len(t.Annotations.Ignored), len(t.Annotations.Notes), len(t.Annotations.Statuses))
	if !t.LastUsed.IsZero() {
		fmt.Printf("Last used:    %s\n", t.LastUsed.Format(time.RFC3339))
	}
	return nil
}
