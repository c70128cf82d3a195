package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/demoreplay/internal/harness"
)

// ValidationError describes one scenario file that failed to load.
type ValidationError struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult is the payload of the validate command.
type ValidationResult struct {
	Valid     bool              `json:"valid"`
	Scenarios int               `json:"scenarios"`
	Errors    []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "validate <scenarios-dir>",
		Short: "Check scenario files without running the engine",
		Long: `Load every scenario file under a directory and check it against the
scenario schema. Nothing is replayed.

Exit codes:
  0 - All scenarios are valid
  1 - One or more scenarios are invalid
  2 - Command error (directory not found, etc.)

Examples:
  demoreplay validate ./scenarios
  demoreplay validate ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], filter, cmd)
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "filter scenarios by glob pattern")
	return cmd
}

func runValidate(opts *RootOptions, dir, filter string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		msg := fmt.Sprintf("scenarios directory not found: %s", dir)
		if opts.Format == "json" {
			_ = formatter.Error(ErrCodeNotFound, msg, nil)
		}
		return NewExitError(ExitCommandError, msg)
	}

	files, err := harness.FindScenarios(dir, filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	result := ValidationResult{Valid: true, Scenarios: len(files)}
	for _, path := range files {
		formatter.VerboseLog("Validating %s", path)
		if _, err := harness.LoadScenario(path); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, ValidationError{
				Path:    path,
				Code:    ErrCodeInvalid,
				Message: err.Error(),
			})
		}
	}

	if opts.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result}
		if !result.Valid {
			resp.Status = "error"
			resp.Error = &CLIError{Code: ErrCodeInvalid, Message: result.Errors[0].Message}
		}
		if err := formatter.JSON(resp); err != nil {
			return err
		}
	} else {
		outputValidateText(cmd, result)
	}

	if !result.Valid {
		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
	}
	return nil
}

func outputValidateText(cmd *cobra.Command, result ValidationResult) {
	w := cmd.OutOrStdout()

	if result.Valid {
		fmt.Fprintf(w, "✓ %d scenario(s) valid\n", result.Scenarios)
		return
	}

	fmt.Fprintln(w, "✗ Validation failed")
	fmt.Fprintln(w)
	for _, e := range result.Errors {
		fmt.Fprintln(w, e.Path)
		fmt.Fprintf(w, "  %s: %s\n\n", e.Code, e.Message)
	}
}
