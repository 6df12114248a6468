package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spiffcs/tracker/config"
	"github.com/spiffcs/tracker/internal/cache"
	"github.com/spiffcs/tracker/internal/constants"
	"github.com/spiffcs/tracker/internal/duration"
	"github.com/spiffcs/tracker/internal/filter"
	"github.com/spiffcs/tracker/internal/github"
	"github.com/spiffcs/tracker/internal/log"
	"github.com/spiffcs/tracker/internal/model"
	"github.com/spiffcs/tracker/internal/output"
	"github.com/spiffcs/tracker/internal/overlay"
	"github.com/spiffcs/tracker/internal/service"
	"github.com/spiffcs/tracker/internal/template"
	"github.com/spiffcs/tracker/internal/tui"
	"github.com/spiffcs/tracker/internal/usage"
)

func runTrack(cmd *cobra.Command, args []string, opts *Options) error {
	log.Initialize(opts.Verbosity, os.Stderr)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dir, err := templateDir(opts, cfg)
	if err != nil {
		return err
	}

	path, err := resolveTemplatePath(dir, args, opts)
	if err != nil {
		return err
	}

	t, err := template.Load(path)
	if err != nil {
		return err
	}
	applyConfigDefaults(t, cfg)

	svc, client, err := buildService(opts)
	if err != nil {
		return err
	}

	req := service.FetchRequest{
		Template:           t.Name,
		Repositories:       t.Repositories,
		State:              t.State,
		IncludeDiscussions: t.IncludeDiscussions,
		Logic:              t.Filter.Logic,
		MaxAge:             t.MaxAge,
		CacheTTL:           t.CacheTTL,
		ForceRefresh:       opts.ForceRefresh,
	}

	result, err := svc.Fetch(cmd.Context(), req)
	if err != nil {
		return err
	}

	matched := filter.Apply(result.Items, t.Filter)
	log.Debug("filter applied", "fetched", len(result.Items), "matched", len(matched))

	recordUse(t)

	if remaining, limit, resetAt, known := client.RateLimit().Snapshot(); known {
		log.Debug("rate limit", "remaining", remaining, "limit", limit, "resetAt", resetAt)
	}

	return render(t, matched, result, opts, cfg)
}

// templateDir resolves the template directory: flag, then config, then
// the default location.
func templateDir(opts *Options, cfg *config.Config) (string, error) {
	if opts.TemplateDir != "" {
		return opts.TemplateDir, nil
	}
	if cfg.TemplateDir != "" {
		return cfg.TemplateDir, nil
	}
	return template.DefaultDir()
}

// resolveTemplatePath turns the positional argument into a template
// file path. An explicit path is used as-is, a bare name is looked up
// in the template directory, and no argument opens the picker.
func resolveTemplatePath(dir string, args []string, opts *Options) (string, error) {
	if len(args) == 1 {
		arg := args[0]
		if _, err := os.Stat(arg); err == nil {
			return arg, nil
		}
		candidate := filepath.Join(dir, arg+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		return "", fmt.Errorf("template %q not found (looked at %s and %s)", arg, arg, candidate)
	}

	if !shouldUseTUI(opts) {
		return "", fmt.Errorf("no template given; pass one or run interactively (see 'tracker templates list')")
	}
	info, err := tui.RunSelector(dir)
	if err != nil {
		return "", err
	}
	return info.Path, nil
}

// applyConfigDefaults fills settings the template left at their built-in
// defaults from the global config.
func applyConfigDefaults(t *template.Template, cfg *config.Config) {
	if cfg.MaxAge != "" && t.MaxAge == constants.DefaultMaxAge {
		if d, err := duration.Parse(cfg.MaxAge); err == nil {
			t.MaxAge = d
		} else {
			log.Warn("invalid max_age in config, ignoring", "value", cfg.MaxAge, "error", err)
		}
	}
	if cfg.CacheTTL != "" && t.CacheTTL == constants.ListCacheTTL {
		if d, err := duration.Parse(cfg.CacheTTL); err == nil {
			t.CacheTTL = d
		} else {
			log.Warn("invalid cache_ttl in config, ignoring", "value", cfg.CacheTTL, "error", err)
		}
	}
}

func buildService(opts *Options) (*service.Service, *github.Client, error) {
	client, err := github.NewClient("")
	if err != nil {
		return nil, nil, err
	}

	var store *cache.Store
	if !opts.NoCache {
		store, err = cache.NewStore()
		if err != nil {
			log.Warn("failed to initialize cache, continuing without", "error", err)
			store = nil
		}
	}

	return service.New(client, store), client, nil
}

// recordUse updates both the usage store and the template's own
// last_used stamp. Neither failure blocks the run.
func recordUse(t *template.Template) {
	if store, err := usage.NewStore(); err == nil {
		if err := store.Touch(t.Name); err != nil {
			log.Debug("failed to record template use", "error", err)
		}
	}
	t.Touch()
	if err := t.Save(); err != nil {
		log.Warn("failed to save template", "error", err)
	}
}

func render(t *template.Template, matched []model.Item, result *service.FetchResult, opts *Options, cfg *config.Config) error {
	formatName := opts.Format
	if formatName == "" {
		formatName = cfg.DefaultFormat
	}
	outFormat, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}

	var failures []string
	for _, failure := range result.Failures {
		failures = append(failures, failure.String())
	}

	// Interactive browsing for table output on a terminal; edits made
	// there are saved through the template as they happen. Partial
	// failures ride along so the browser shows what is missing.
	if shouldUseTUI(opts) && outFormat == output.FormatTable {
		ann, err := tui.RunItems(t.Name, matched, t.Annotations, failures, func(a model.Annotations) error {
			t.Annotations = a
			return t.Save()
		})
		if err != nil {
			return err
		}
		t.Annotations = ann
		return nil
	}

	merged := overlay.Merge(matched, t.Annotations)
	var shown []overlay.Annotated
	ignored := 0
	for _, item := range merged {
		if item.Ignored {
			ignored++
			if !opts.ShowIgnored {
				continue
			}
		}
		shown = append(shown, item)
	}

	report := output.Report{
		Template:  t.Name,
		Items:     shown,
		Total:     len(result.Items),
		Matched:   len(matched),
		Ignored:   ignored,
		FromCache: result.FromCache,
		Failures:  failures,
	}

	return output.NewFormatter(outFormat).Format(report, os.Stdout)
}
