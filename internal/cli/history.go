package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/demoreplay/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Demo  string // only runs of this demo
	Limit int    // max runs, 0 for all
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs, newest first",
		Long: `List the runs recorded by play and test in the run history database.

Requires --db or DEMOREPLAY_DB.

Examples:
  demoreplay history --db runs.db
  demoreplay history --db runs.db --demo nuts-pacifist.lmp --limit 5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Demo, "demo", "", "only show runs of this demo file")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs (0 for all)")

	return cmd
}

func runHistory(ctx context.Context, opts *HistoryOptions, cmd *cobra.Command) error {
	if opts.DB == "" {
		return NewExitError(ExitCommandError, "history needs a database: set --db or DEMOREPLAY_DB")
	}
	if opts.Limit < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid limit %d", opts.Limit))
	}

	st, err := opts.OpenStore()
	if err != nil {
		return err
	}
	defer closeStore(st, opts.Logger(cmd.ErrOrStderr()))

	runs, err := st.ListRuns(ctx, store.RunFilter{Demo: opts.Demo, Limit: opts.Limit})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read history", err)
	}

	if opts.Format == "json" {
		return opts.formatter(cmd).Success(runs)
	}

	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tSCENARIO\tDEMO\tWADS\tEXIT\tTOTAL")
	for _, run := range runs {
		scenario := run.Scenario
		if scenario == "" {
			scenario = "-"
		}
		wads := run.IWAD
		if run.PWAD != "" {
			wads += "+" + run.PWAD
		}
		exit := "ok"
		if !run.Success {
			exit = "non-zero"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", run.Seq, scenario, run.Demo, wads, exit, run.Total)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	last, err := st.LastSeq(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read history", err)
	}
	fmt.Fprintf(w, "\n%d run(s) shown, latest seq %d\n", len(runs), last)
	return nil
}
