package replay

import (
	"path/filepath"
	"strconv"
	"strings"
)

// trailingFlags disable audio and video and ask the engine for the
// level-timing log and the run analysis.
var trailingFlags = []string{"-nosound", "-nomusic", "-nodraw", "-levelstat", "-analysis"}

// Invocation is a fully resolved engine command line.
type Invocation struct {
	// Path is the engine executable.
	Path string

	// Args are the engine arguments, without the executable.
	Args []string
}

// Build resolves cfg against DefaultLayout.
func Build(cfg Config) Invocation {
	return DefaultLayout().Build(cfg)
}

// Build resolves cfg against the layout. Empty layout fields fall back to
// DefaultLayout. Build never fails; missing files surface when the
// invocation is run.
func (l Layout) Build(cfg Config) Invocation {
	l = l.withDefaults()

	args := make([]string, 0, 6+len(trailingFlags))
	args = append(args, "-iwad", filepath.Join(l.WadDir, cfg.BaseWAD()))
	if cfg.PWAD != "" {
		args = append(args, "-file", filepath.Join(l.WadDir, cfg.PWAD))
	}
	args = append(args, "-fastdemo", filepath.Join(l.DemoDir, cfg.Demo))
	args = append(args, trailingFlags...)

	return Invocation{Path: l.Engine, Args: args}
}

// Argv returns the executable followed by its arguments.
func (inv Invocation) Argv() []string {
	argv := make([]string, 0, len(inv.Args)+1)
	argv = append(argv, inv.Path)
	return append(argv, inv.Args...)
}

// String renders the invocation as a shell command line. Arguments
// containing whitespace or quotes are quoted.
func (inv Invocation) String() string {
	argv := inv.Argv()
	parts := make([]string, len(argv))
	for i, a := range argv {
		if a == "" || strings.ContainsAny(a, " \t\n\"'") {
			a = strconv.Quote(a)
		}
		parts[i] = a
	}
	return strings.Join(parts, " ")
}
