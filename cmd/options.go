package cmd

// Options holds the shared command-line options for the tracker CLI.
type Options struct {
	Format       string
	TemplateDir  string
	Verbosity    int
	ForceRefresh bool
	NoCache      bool
	ShowIgnored  bool
	TUI          *bool // nil = auto-detect, true = force TUI, false = disable TUI
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// NewOptions creates a new Options with defaults and applies any provided options.
func NewOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithFormat sets the output format (table, json, markdown).
func WithFormat(format string) Option {
	return func(o *Options) {
		o.Format = format
	}
}

// WithTemplateDir sets the directory templates are read from.
func WithTemplateDir(dir string) Option {
	return func(o *Options) {
		o.TemplateDir = dir
	}
}

// WithVerbosity sets the verbosity level.
func WithVerbosity(v int) Option {
	return func(o *Options) {
		o.Verbosity = v
	}
}

// WithForceRefresh bypasses the cache for one run.
func WithForceRefresh(force bool) Option {
	return func(o *Options) {
		o.ForceRefresh = force
	}
}

// WithShowIgnored includes ignored items in the output.
func WithShowIgnored(show bool) Option {
	return func(o *Options) {
		o.ShowIgnored = show
	}
}

// WithTUI controls TUI mode (nil = auto-detect, true = force, false = disable).
func WithTUI(tui *bool) Option {
	return func(o *Options) {
		o.TUI = tui
	}
}
