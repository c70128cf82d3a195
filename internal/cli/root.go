package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"slices"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/roach88/demoreplay/internal/harness"
	"github.com/roach88/demoreplay/internal/replay"
	"github.com/roach88/demoreplay/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	Engine  string // engine executable
	WadDir  string // directory holding IWADs and PWADs
	DemoDir string // directory holding demo files
	Dir     string // working directory the engine runs in
	DB      string // run history database, empty to disable
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the demoreplay CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "demoreplay",
		Short: "Replay prboom-plus demos and check the results",
		Long: `Replay recorded demos through prboom-plus without audio or video and
check the run analysis and level timings the engine writes.

Paths default to the layout of a prboom-plus checkout (engine at
./build/prboom-plus.exe, support files under spec/support). The
DEMOREPLAY_ENGINE, DEMOREPLAY_WAD_DIR, DEMOREPLAY_DEMO_DIR and
DEMOREPLAY_DB environment variables override the defaults; flags
override both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			envCfg, err := LoadEnvConfig()
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid environment", err)
			}
			opts.applyEnv(envCfg)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Engine, "engine", "", "engine executable (default "+replay.DefaultEngine+")")
	cmd.PersistentFlags().StringVar(&opts.WadDir, "wad-dir", "", "WAD directory (default "+replay.DefaultWadDir+")")
	cmd.PersistentFlags().StringVar(&opts.DemoDir, "demo-dir", "", "demo directory (default "+replay.DefaultDemoDir+")")
	cmd.PersistentFlags().StringVar(&opts.Dir, "dir", "", "working directory for the engine (default current)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "record runs in this SQLite database")

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	// Add subcommands
	cmd.AddCommand(NewCommandCommand(opts))
	cmd.AddCommand(NewPlayCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// Execute runs the CLI with os.Args and returns the process exit code.
func Execute(ctx context.Context) int {
	return execute(ctx, NewRootCommand(), os.Args[1:])
}

func execute(ctx context.Context, cmd *cobra.Command, args []string) int {
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return GetExitCode(err)
	}
	return ExitSuccess
}

// applyEnv fills flags left empty from the environment.
func (o *RootOptions) applyEnv(cfg EnvConfig) {
	if o.Engine == "" {
		o.Engine = cfg.Engine
	}
	if o.WadDir == "" {
		o.WadDir = cfg.WadDir
	}
	if o.DemoDir == "" {
		o.DemoDir = cfg.DemoDir
	}
	if o.DB == "" {
		o.DB = cfg.DB
	}
}

// Layout returns the engine layout. Empty fields fall back to
// replay.DefaultLayout when an invocation is built.
func (o *RootOptions) Layout() replay.Layout {
	return replay.Layout{
		Engine:  o.Engine,
		WadDir:  o.WadDir,
		DemoDir: o.DemoDir,
	}
}

// Logger returns a terminal logger writing to w. Debug output needs
// --verbose; otherwise only warnings and errors are shown.
func (o *RootOptions) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		NoColor: runtime.GOOS == "windows",
		Level:   level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// Harness builds a harness from the global flags. Engine output is
// forwarded to the command's stderr in verbose mode.
func (o *RootOptions) Harness(cmd *cobra.Command) *harness.Harness {
	logger := o.Logger(cmd.ErrOrStderr())

	runnerOpts := []replay.RunnerOption{
		replay.WithDir(o.Dir),
		replay.WithLogger(logger),
	}
	if o.Verbose {
		runnerOpts = append(runnerOpts, replay.WithOutput(cmd.ErrOrStderr(), cmd.ErrOrStderr()))
	}

	return harness.New(
		harness.WithLayout(o.Layout()),
		harness.WithRunner(replay.NewRunner(runnerOpts...)),
		harness.WithLogger(logger),
	)
}

// OpenStore opens the run history database, or returns nil when --db is
// not set.
func (o *RootOptions) OpenStore() (*store.Store, error) {
	if o.DB == "" {
		return nil, nil
	}
	st, err := store.Open(o.DB)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// formatter returns an OutputFormatter writing to the command's streams.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
