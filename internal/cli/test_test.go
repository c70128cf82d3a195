package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/demoreplay/internal/harness"
	"github.com/roach88/demoreplay/internal/testutil"
)

const passingScenario = `
name: pacifist_map01
description: pacifist exit on MAP01
demo: pac.lmp
expect:
  exit_success: true
  pacifist: true
  missed_monsters: 3
  total: "0:05"
`

const failingScenario = `
name: reality_map01
description: expects a reality run
demo: pac.lmp
expect:
  reality: true
`

// writeScenarios writes each name/content pair into a fresh directory.
func writeScenarios(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestTestCommandMissingArgs(t *testing.T) {
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTestCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTestCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"/nonexistent/scenarios"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewTestCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{t.TempDir()})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No scenarios found")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewTestCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{t.TempDir()})

	err := cmd.Execute()
	require.NoError(t, err)

	var response CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)
}

func TestTestCommand_AllPass(t *testing.T) {
	args := engineArgs(t, testutil.FakeEngine{Analysis: pacifistAnalysis, Levelstat: oneLevelLevelstat})
	dir := writeScenarios(t, map[string]string{"pacifist.yaml": passingScenario})

	code, stdout, stderr := runCLI(t, append(args, "test", dir)...)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "✓ pacifist_map01")
	assert.Contains(t, stdout, "Test Summary: 1 passed, 0 failed, 1 total")
	assert.Contains(t, stdout, "✓ All scenarios passed")
}

func TestTestCommand_Failure(t *testing.T) {
	args := engineArgs(t, testutil.FakeEngine{Analysis: pacifistAnalysis, Levelstat: oneLevelLevelstat})
	dir := writeScenarios(t, map[string]string{
		"a_pacifist.yaml": passingScenario,
		"b_reality.yaml":  failingScenario,
	})

	code, stdout, stderr := runCLI(t, append(args, "test", dir)...)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stdout, "✓ pacifist_map01")
	assert.Contains(t, stdout, "✗ reality_map01")
	assert.Contains(t, stdout, "Assertion failed: reality")
	assert.Contains(t, stdout, "Test Summary: 1 passed, 1 failed, 2 total")
	assert.Contains(t, stderr, "1 scenario(s) failed")
}

func TestTestCommand_FailureJSON(t *testing.T) {
	args := engineArgs(t, testutil.FakeEngine{Analysis: pacifistAnalysis, Levelstat: oneLevelLevelstat})
	dir := writeScenarios(t, map[string]string{"b_reality.yaml": failingScenario})

	code, stdout, _ := runCLI(t, append(args, "--format", "json", "test", dir)...)
	assert.Equal(t, ExitFailure, code)

	var resp struct {
		Status string              `json:"status"`
		Data   harness.SuiteResult `json:"data"`
		Error  *CLIError           `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	assert.Equal(t, 1, resp.Data.Failed)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Equal(t, "reality_map01", resp.Data.Scenarios[0].Name)
}

func TestTestCommand_UpdateThenCompare(t *testing.T) {
	args := engineArgs(t, testutil.FakeEngine{Analysis: pacifistAnalysis, Levelstat: oneLevelLevelstat})
	dir := writeScenarios(t, map[string]string{"pacifist.yaml": passingScenario})

	code, stdout, stderr := runCLI(t, append(args, "test", dir, "--update")...)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "(golden updated)")
	assert.FileExists(t, filepath.Join(dir, "golden", "pacifist.golden"))

	code, _, stderr = runCLI(t, append(args, "test", dir)...)
	assert.Equal(t, ExitSuccess, code, stderr)
}

func TestTestCommand_RecordsRuns(t *testing.T) {
	args := engineArgs(t, testutil.FakeEngine{Analysis: pacifistAnalysis, Levelstat: oneLevelLevelstat})
	dir := writeScenarios(t, map[string]string{
		"a_pacifist.yaml": passingScenario,
		"b_reality.yaml":  failingScenario,
		"c_broken.yaml":   "name: [unclosed\n",
	})
	db := filepath.Join(t.TempDir(), "runs.db")

	code, _, _ := runCLI(t, append(args, "--db", db, "test", dir)...)
	assert.Equal(t, ExitFailure, code)

	code, stdout, stderr := runCLI(t, "--db", db, "history")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "pacifist_map01")
	assert.Contains(t, stdout, "reality_map01")
	assert.NotContains(t, stdout, "c_broken")
}

func TestTestHelpText(t *testing.T) {
	cmd := NewTestCommand(&RootOptions{})
	assert.Contains(t, cmd.Long, "golden/<file>.golden")
	assert.Contains(t, cmd.Long, "Exit codes:")
}
