package cmd

import (
	"fmt"
	"strconv"

	"github.com/spiffcs/tracker/internal/tui"
)

// tuiFlag is the pflag.Value behind --tui. It has three states: forced
// on, forced off, and auto (nil), where auto defers to terminal
// detection at run time.
type tuiFlag struct {
	opts *Options
}

func newTUIFlag(opts *Options) *tuiFlag {
	return &tuiFlag{opts: opts}
}

func (f *tuiFlag) String() string {
	switch {
	case f.opts.TUI == nil:
		return "auto"
	case *f.opts.TUI:
		return "true"
	default:
		return "false"
	}
}

func (f *tuiFlag) Set(s string) error {
	if s == "auto" {
		f.opts.TUI = nil
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("invalid --tui value %q: use true, false, or auto", s)
	}
	f.opts.TUI = &v
	return nil
}

func (f *tuiFlag) Type() string { return "bool" }

// IsBoolFlag lets a bare --tui mean --tui=true.
func (f *tuiFlag) IsBoolFlag() bool { return true }

// shouldUseTUI decides whether this run is interactive. Verbose runs
// stay non-interactive so log lines are not swallowed by the
// alternate screen.
func shouldUseTUI(opts *Options) bool {
	if opts.Verbosity > 0 {
		return false
	}
	if opts.TUI != nil {
		return *opts.TUI
	}
	return tui.ShouldUseTUI()
}
