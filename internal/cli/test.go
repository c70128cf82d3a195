package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/demoreplay/internal/harness"
	"github.com/roach88/demoreplay/internal/store"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run demo scenarios",
		Long: `Run every scenario file (*.yaml, *.yml) under a directory.

Each scenario replays one demo and checks its expectations. When
golden/<file>.golden exists next to the scenario file <file>.yaml, the
outcome must also match it byte for byte.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  demoreplay test ./scenarios
  demoreplay test ./scenarios --filter "nuts-*"
  demoreplay test ./scenarios --update
  demoreplay test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(ctx context.Context, opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
	}

	st, err := opts.OpenStore()
	if err != nil {
		return err
	}
	if st != nil {
		defer closeStore(st, opts.Logger(cmd.ErrOrStderr()))
	}

	result, err := opts.Harness(cmd).RunSuite(ctx, scenariosDir, harness.SuiteOptions{
		Filter: opts.Filter,
		Update: opts.Update,
	})
	if err != nil {
		if result == nil {
			return WrapExitError(ExitCommandError, "failed to run scenarios", err)
		}
		return WrapExitError(ExitFailure, "test run interrupted", err)
	}

	if st != nil {
		if err := recordSuite(ctx, st, result); err != nil {
			return WrapExitError(ExitCommandError, "failed to record runs", err)
		}
	}

	if opts.Format == "json" {
		return outputTestJSON(opts.formatter(cmd), result)
	}
	return outputTestText(cmd, result)
}

// recordSuite stores the outcome of every scenario that got to run.
func recordSuite(ctx context.Context, st *store.Store, result *harness.SuiteResult) error {
	for _, report := range result.Scenarios {
		if report.Outcome == nil || report.Scenario == nil {
			continue
		}
		s := report.Scenario
		if _, err := recordRun(ctx, st, s.Name, s.Config(), report.Outcome); err != nil {
			return err
		}
	}
	return nil
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(formatter *OutputFormatter, result *harness.SuiteResult) error {
	status := "ok"
	if result.Failed > 0 {
		status = "error"
	}

	response := CLIResponse{
		Status: status,
		Data:   result,
	}

	if result.Failed > 0 {
		response.Error = &CLIError{
			Code:    ErrCodeTestFailed,
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}

	if err := formatter.JSON(response); err != nil {
		return err
	}

	if result.Failed > 0 {
		// Test failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

// outputTestText outputs the test result as text.
func outputTestText(cmd *cobra.Command, result *harness.SuiteResult) error {
	w := cmd.OutOrStdout()

	if result.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return nil
	}

	for _, report := range result.Scenarios {
		switch {
		case report.Pass && report.GoldenUpdated:
			fmt.Fprintf(w, "✓ %s (golden updated)\n", report.Name)
		case report.Pass:
			fmt.Fprintf(w, "✓ %s\n", report.Name)
		default:
			fmt.Fprintf(w, "✗ %s\n", report.Name)
			for _, e := range report.Errors {
				fmt.Fprintf(w, "  %s\n", e)
			}
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		// Test failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}

	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
