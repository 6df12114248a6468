package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "tracker [template]",
		Short: "GitHub issue tracking across repositories",
		Long: `A CLI tool that fetches issues and discussions from the repositories
named in a query template, filters them with the template's conditions
and overlays your local notes, ignore flags and statuses.

With no template argument an interactive picker is shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrack(cmd, args, opts)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	addTrackFlags(rootCmd, opts)

	rootCmd.AddCommand(NewCmdTemplates(opts))
	rootCmd.AddCommand(NewCmdAnnotate(opts))
	rootCmd.AddCommand(NewCmdCache())
	rootCmd.AddCommand(NewCmdRateLimit())
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}

// addTrackFlags adds the fetch-and-display flags to a command.
func addTrackFlags(cmd *cobra.Command, opts *Options) {
	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json, markdown)")
	cmd.Flags().StringVar(&opts.TemplateDir, "templates", "", "Template directory (default: user config dir)")
	cmd.Flags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug)")
	cmd.Flags().BoolVarP(&opts.ForceRefresh, "refresh", "r", false, "Bypass the cache and fetch fresh data")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "Disable the query cache entirely")
	cmd.Flags().BoolVar(&opts.ShowIgnored, "show-ignored", false, "Include ignored items in the output")
	cmd.Flags().Var(newTUIFlag(opts), "tui", "Enable/disable interactive browsing (default: auto-detect)")
}
