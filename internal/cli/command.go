package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/demoreplay/internal/replay"
)

// CommandResult is the JSON payload of the command command.
type CommandResult struct {
	Command string   `json:"command"`
	Path    string   `json:"path"`
	Args    []string `json:"args"`
}

// NewCommandCommand creates the command command, which prints the engine
// invocation for a demo without running it.
func NewCommandCommand(rootOpts *RootOptions) *cobra.Command {
	cfg := &replay.Config{}

	cmd := &cobra.Command{
		Use:   "command",
		Short: "Print the engine command line for a demo",
		Long: `Print the prboom-plus command line that play would run.

Examples:
  demoreplay command --demo nuts-pacifist.lmp --pwad NUTS.WAD
  demoreplay command --demo e1m1.lmp --iwad DOOM.WAD --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			inv := rootOpts.Layout().Build(*cfg)
			formatter := rootOpts.formatter(cmd)
			if rootOpts.Format == "json" {
				return formatter.Success(CommandResult{
					Command: inv.String(),
					Path:    inv.Path,
					Args:    inv.Args,
				})
			}
			return formatter.Success(inv.String())
		},
	}

	addReplayFlags(cmd, cfg)
	return cmd
}

// addReplayFlags registers --demo, --iwad and --pwad.
func addReplayFlags(cmd *cobra.Command, cfg *replay.Config) {
	cmd.Flags().StringVar(&cfg.Demo, "demo", "", "demo file, relative to the demo directory (required)")
	cmd.Flags().StringVar(&cfg.IWAD, "iwad", "", "base archive (default "+replay.DefaultIWAD+")")
	cmd.Flags().StringVar(&cfg.PWAD, "pwad", "", "patch archive layered on the IWAD")
	_ = cmd.MarkFlagRequired("demo")
}
