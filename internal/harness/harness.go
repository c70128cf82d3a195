package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/roach88/demoreplay/internal/artifact"
	"github.com/roach88/demoreplay/internal/replay"
)

// Harness runs scenarios against one engine layout and working directory.
type Harness struct {
	layout replay.Layout
	runner *replay.Runner
	logger *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithLayout sets where the engine, WADs and demos live.
func WithLayout(layout replay.Layout) Option {
	return func(h *Harness) {
		h.layout = layout
	}
}

// WithRunner sets the runner. Artifacts are read from the runner's directory.
func WithRunner(runner *replay.Runner) Option {
	return func(h *Harness) {
		if runner != nil {
			h.runner = runner
		}
	}
}

// WithLogger sets the logger for scenario events.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New creates a Harness. By default it uses replay.DefaultLayout, runs in
// the current directory and logs nothing.
func New(opts ...Option) *Harness {
	h := &Harness{
		layout: replay.DefaultLayout(),
		runner: replay.NewRunner(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Play runs one replay and reads both artifacts.
//
// The artifacts are read even when the engine exits non-zero. A launch
// failure, a busy directory, a cancelled ctx, or a missing or malformed
// artifact is returned as an error.
func (h *Harness) Play(ctx context.Context, cfg replay.Config) (*Outcome, error) {
	inv := h.layout.Build(cfg)

	success, err := h.runner.Run(ctx, inv)
	if err != nil {
		return nil, err
	}

	analysis, err := artifact.ReadAnalysis(h.artifactPath(artifact.AnalysisFile))
	if err != nil {
		return nil, err
	}

	levelstat, err := artifact.ReadLevelstat(h.artifactPath(artifact.LevelstatFile))
	if err != nil {
		return nil, err
	}

	total, err := levelstat.Total()
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Command:  inv.String(),
		Args:     inv.Args,
		Success:  success,
		Analysis: analysis.Map(),
		Levels:   levelstat.Rows(),
		Total:    total,
	}, nil
}

// Run plays the scenario's demo and checks its expectations.
//
// Failed expectations are reported in the Result, not as an error.
func (h *Harness) Run(ctx context.Context, s *Scenario) (*Result, error) {
	h.logger.Debug("running scenario", "scenario", s.Name, "demo", s.Demo)

	outcome, err := h.Play(ctx, s.Config())
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	outcome.Scenario = s.Name

	result := NewResult(outcome)
	for _, failure := range Evaluate(&s.Expect, outcome) {
		result.AddError(failure.Error())
	}

	h.logger.Info("scenario finished",
		"scenario", s.Name,
		"pass", result.Pass,
		"failures", len(result.Errors),
	)
	return result, nil
}

func (h *Harness) artifactPath(name string) string {
	return filepath.Join(h.runner.Dir(), name)
}
