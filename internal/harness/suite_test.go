package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/demoreplay/internal/testutil"
)

const passingScenario = `
name: pass_one
description: pacifist run
demo: one.lmp
expect:
  pacifist: true
  total: "1:17"
`

const failingScenario = `
name: fail_two
description: expects 100k
demo: two.lmp
expect:
  hundred_k: true
`

func suiteHarness(t *testing.T) *Harness {
	t.Helper()
	h, _ := newTestHarness(t, testutil.FakeEngine{
		Analysis:  pacifistAnalysis,
		Levelstat: twoLevelLevelstat,
	})
	return h
}

func TestFindScenarios(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "b.yaml", passingScenario)
	writeScenario(t, dir, "a.yml", passingScenario)
	writeScenario(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	writeScenario(t, filepath.Join(dir, "nested"), "c.yaml", passingScenario)

	files, err := FindScenarios(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "nested", "c.yaml"),
	}, files)

	files, err = FindScenarios(dir, "b*")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.yaml")}, files)

	_, err = FindScenarios(dir, "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

func TestRunSuite_Mixed(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "one.yaml", passingScenario)
	writeScenario(t, dir, "two.yaml", failingScenario)
	writeScenario(t, dir, "three.yaml", "name: broken\n")

	result, err := suiteHarness(t).RunSuite(context.Background(), dir, SuiteOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 2, result.Failed)

	byName := map[string]ScenarioReport{}
	for _, r := range result.Scenarios {
		byName[r.Name] = r
	}
	assert.True(t, byName["pass_one"].Pass)
	assert.NotNil(t, byName["pass_one"].Outcome)
	assert.False(t, byName["fail_two"].Pass)
	assert.Contains(t, byName["fail_two"].Errors[0], "hundred_k")
	require.Contains(t, byName, "three")
	assert.Contains(t, byName["three"].Errors[0], "failed to load scenario")
}

func TestRunSuite_UpdateThenCompare(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "one.yaml", passingScenario)
	h := suiteHarness(t)

	result, err := h.RunSuite(context.Background(), dir, SuiteOptions{Update: true})
	require.NoError(t, err)
	require.Len(t, result.Scenarios, 1)
	assert.True(t, result.Scenarios[0].GoldenUpdated)
	assert.FileExists(t, filepath.Join(dir, "golden", "one.golden"))

	result, err = h.RunSuite(context.Background(), dir, SuiteOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Passed)
}

func TestRunSuite_GoldenMismatch(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "one.yaml", passingScenario)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "golden"), 0755))
	writeScenario(t, filepath.Join(dir, "golden"), "one.golden", `{"stale":true}`)

	result, err := suiteHarness(t).RunSuite(context.Background(), dir, SuiteOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Contains(t, result.Scenarios[0].Errors[0], "does not match golden file")
}

func TestRunSuite_Filter(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "one.yaml", passingScenario)
	writeScenario(t, dir, "two.yaml", failingScenario)

	result, err := suiteHarness(t).RunSuite(context.Background(), dir, SuiteOptions{Filter: "one"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Passed)
}

func TestRunSuite_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "one.yaml", passingScenario)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := suiteHarness(t).RunSuite(ctx, dir, SuiteOptions{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result.Scenarios)
}
