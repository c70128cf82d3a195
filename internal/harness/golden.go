package harness

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden runs a scenario and compares its outcome against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./... -update
//
// Expectation failures are reported through t; a launch or artifact error
// is returned.
func RunWithGolden(t *testing.T, h *Harness, scenario *Scenario) error {
	t.Helper()

	result, err := h.Run(context.Background(), scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Error(msg)
	}

	return AssertGolden(t, scenario.Name, result.Outcome)
}

// AssertGolden compares an outcome that was already produced against the
// golden file for name.
func AssertGolden(t *testing.T, name string, outcome *Outcome) error {
	t.Helper()

	data, err := outcome.Snapshot()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}

// GoldenPath returns the golden file kept next to a scenario file:
// <dir>/golden/<base name>.golden.
func GoldenPath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

// WriteGolden stores the outcome snapshot at path, creating its directory.
func WriteGolden(path string, outcome *Outcome) error {
	data, err := outcome.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to snapshot outcome: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// CompareGolden reports whether the outcome snapshot equals the golden file
// at path.
func CompareGolden(path string, outcome *Outcome) (bool, error) {
	want, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}

	got, err := outcome.Snapshot()
	if err != nil {
		return false, fmt.Errorf("failed to snapshot outcome: %w", err)
	}

	return bytes.Equal(want, got), nil
}
