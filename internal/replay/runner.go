package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"time"
)

// waitDelay bounds how long Run waits for the engine's output pipes to close
// after the context kills it.
const waitDelay = 5 * time.Second

// Runner executes invocations as blocking child processes.
//
// A Runner has no timeout of its own: a hung engine blocks Run until the
// caller's context ends. Runners are not meant for concurrent use against
// one directory; the workdir lock turns such misuse into ErrCodeBusy.
type Runner struct {
	dir    string
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithDir runs the engine in dir instead of the current working directory.
// The artifacts are written there, and relative paths in the invocation
// resolve against it.
func WithDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.dir = dir
	}
}

// WithOutput forwards the engine's stdout and stderr. Nil discards.
func WithOutput(stdout, stderr io.Writer) RunnerOption {
	return func(r *Runner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithLogger sets the logger for replay lifecycle events.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a Runner. By default it runs in the current directory,
// discards engine output and logs nothing.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dir returns the working directory the engine runs in ("" for the current one).
func (r *Runner) Dir() string {
	return r.dir
}

// Run executes inv and blocks until the engine exits.
//
// It returns true if the engine exited with status 0 and false if it exited
// non-zero. A non-zero exit is not an error: the engine may still have
// written partial artifacts worth inspecting. An error is returned only when
// the engine could not be started (ErrCodeLaunch), the directory is held by
// another replay (ErrCodeBusy), or ctx ended before the engine did.
//
// Failures are never retried; replays are deterministic.
func (r *Runner) Run(ctx context.Context, inv Invocation) (bool, error) {
	unlock, err := lockDir(r.dir)
	if err != nil {
		return false, err
	}
	defer unlock()

	cmd := exec.CommandContext(ctx, inv.Path, inv.Args...) //nolint:gosec // G204: engine path comes from the harness layout
	cmd.Dir = r.dir
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	cmd.WaitDelay = waitDelay

	r.logger.Debug("starting replay",
		"command", inv.String(),
		"dir", r.dir,
	)

	if err := cmd.Start(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		return false, NewLaunchError(inv.Path, err)
	}

	waitErr := cmd.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		r.logger.Warn("replay interrupted", "command", inv.String(), "error", ctxErr)
		return false, ctxErr
	}

	if waitErr == nil {
		r.logger.Info("replay finished", "command", inv.String())
		return true, nil
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		r.logger.Warn("replay exited non-zero",
			"command", inv.String(),
			"exit_code", exitErr.ExitCode(),
		)
		return false, nil
	}

	return false, fmt.Errorf("waiting for engine: %w", waitErr)
}
