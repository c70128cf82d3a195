package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/demoreplay/internal/artifact"
	"github.com/roach88/demoreplay/internal/harness"
	"github.com/roach88/demoreplay/internal/replay"
	"github.com/roach88/demoreplay/internal/store"
)

// Error codes reported in JSON output.
const (
	ErrCodeLaunch      = "E_LAUNCH"
	ErrCodeBusy        = "E_WORKDIR_BUSY"
	ErrCodeArtifact    = "E_ARTIFACT"
	ErrCodeInterrupted = "E_INTERRUPTED"
	ErrCodeNotFound    = "E_NOT_FOUND"
	ErrCodeTestFailed  = "E_TEST_FAILED"
	ErrCodeInvalid     = "E_INVALID_SCENARIO"
	ErrCodeReplay      = "E_REPLAY_FAILED"
)

// PlayResult is the payload of the play command.
type PlayResult struct {
	*harness.Outcome
	RunID string `json:"run_id,omitempty"`
	Seq   int64  `json:"seq,omitempty"`
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	cfg := &replay.Config{}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Replay one demo and print its analysis",
		Long: `Replay one demo through the engine, then read analysis.txt and
levelstat.txt from the working directory and print a summary.

Exit codes:
  0 - Engine exited cleanly
  1 - Engine exited non-zero, or its output could not be read
  2 - Command error (engine not launchable, working directory busy, etc.)

Examples:
  demoreplay play --demo nuts-pacifist.lmp --pwad NUTS.WAD
  demoreplay play --demo e1m1.lmp --iwad DOOM.WAD --db runs.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), rootOpts, *cfg, cmd)
		},
	}

	addReplayFlags(cmd, cfg)
	return cmd
}

func runPlay(ctx context.Context, opts *RootOptions, cfg replay.Config, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	st, err := opts.OpenStore()
	if err != nil {
		return err
	}
	if st != nil {
		defer closeStore(st, logger)
	}

	outcome, err := opts.Harness(cmd).Play(ctx, cfg)
	if err != nil {
		exitErr := classifyReplayError(err)
		if opts.Format == "json" {
			_ = formatter.Error(replayErrorCode(err), exitErr.Error(), nil)
		}
		return exitErr
	}

	result := PlayResult{Outcome: outcome}
	if st != nil {
		run, err := recordRun(ctx, st, "", cfg, outcome)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		result.RunID = run.ID
		result.Seq = run.Seq
		formatter.VerboseLog("Recorded run %s (seq %d)", run.ID, run.Seq)
	}

	if opts.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: result}
		if !outcome.Success {
			resp.Status = "error"
			resp.Error = &CLIError{Code: ErrCodeReplay, Message: "engine exited non-zero"}
		}
		if err := formatter.JSON(resp); err != nil {
			return err
		}
	} else {
		writePlaySummary(cmd.OutOrStdout(), cfg, result)
	}

	if !outcome.Success {
		return NewExitError(ExitFailure, "engine exited non-zero")
	}
	return nil
}

func writePlaySummary(w io.Writer, cfg replay.Config, result PlayResult) {
	analysis := artifact.NewAnalysis(result.Analysis)

	status := "ok"
	if !result.Success {
		status = "non-zero"
	}

	fmt.Fprintf(w, "Demo:            %s\n", cfg.Demo)
	fmt.Fprintf(w, "Command:         %s\n", result.Command)
	fmt.Fprintf(w, "Exit:            %s\n", status)
	fmt.Fprintf(w, "Pacifist:        %s\n", yesNo(analysis.Pacifist()))
	fmt.Fprintf(w, "Reality:         %s\n", yesNo(analysis.Reality()))
	fmt.Fprintf(w, "Almost reality:  %s\n", yesNo(analysis.AlmostReality()))
	fmt.Fprintf(w, "100%% kills:      %s\n", yesNo(analysis.HundredK()))
	fmt.Fprintf(w, "Tyson weapons:   %s\n", yesNo(analysis.TysonWeapons()))
	fmt.Fprintf(w, "Missed monsters: %d\n", analysis.MissedMonsters())
	fmt.Fprintf(w, "Missed secrets:  %d\n", analysis.MissedSecrets())
	fmt.Fprintf(w, "Levels:          %d\n", len(result.Levels))
	fmt.Fprintf(w, "Total:           %s\n", result.Total)
	if result.RunID != "" {
		fmt.Fprintf(w, "Run:             %s (seq %d)\n", result.RunID, result.Seq)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// classifyReplayError maps a replay or artifact error to an exit code.
// Problems with the environment are command errors; anything the replay
// itself produced is a failure.
func classifyReplayError(err error) *ExitError {
	switch {
	case replay.IsLaunchError(err):
		return WrapExitError(ExitCommandError, "engine could not be started", err)
	case replay.IsBusyError(err):
		return WrapExitError(ExitCommandError, "working directory is busy", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return WrapExitError(ExitFailure, "replay interrupted", err)
	default:
		return WrapExitError(ExitFailure, "replay output unreadable", err)
	}
}

func replayErrorCode(err error) string {
	switch {
	case replay.IsLaunchError(err):
		return ErrCodeLaunch
	case replay.IsBusyError(err):
		return ErrCodeBusy
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeInterrupted
	default:
		return ErrCodeArtifact
	}
}

// recordRun stores an outcome in the run history.
func recordRun(ctx context.Context, st *store.Store, scenario string, cfg replay.Config, outcome *harness.Outcome) (store.Run, error) {
	return st.WriteRun(ctx, store.Run{
		Scenario: scenario,
		Demo:     cfg.Demo,
		IWAD:     cfg.BaseWAD(),
		PWAD:     cfg.PWAD,
		Command:  outcome.Command,
		Success:  outcome.Success,
		Total:    outcome.Total,
		Analysis: outcome.Analysis,
	})
}

func closeStore(st *store.Store, logger *slog.Logger) {
	if err := st.Close(); err != nil {
		logger.Error("error closing database", "error", err)
	}
}
