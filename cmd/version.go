package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build metadata, stamped through ldflags by the release build.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersionInfo overrides the build metadata. Empty values keep the
// compiled-in defaults, so a partial stamp stays coherent.
func SetVersionInfo(v, c, d string) {
	if v != "" {
		version = v
	}
	if c != "" {
		commit = c
	}
	if d != "" {
		date = d
	}
}

// NewCmdVersion creates the version command.
func NewCmdVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and build details",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tracker %s (commit %s, built %s, %s)\n", version, commit, date, runtime.Version())
		},
	}
}
