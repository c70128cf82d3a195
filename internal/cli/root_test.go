package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command with args in a clean environment and
// returns the exit code, stdout and stderr.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	for _, key := range []string{"DEMOREPLAY_ENGINE", "DEMOREPLAY_WAD_DIR", "DEMOREPLAY_DEMO_DIR", "DEMOREPLAY_DB"} {
		t.Setenv(key, "")
	}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	code := execute(context.Background(), cmd, args)
	return code, stdout.String(), stderr.String()
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "demoreplay", cmd.Use)
	assert.Contains(t, cmd.Short, "prboom-plus")
	assert.Contains(t, cmd.Long, "DEMOREPLAY_ENGINE")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"command", "play", "test", "validate", "history"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"engine", "wad-dir", "demo-dir", "dir", "db"} {
		flag := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, "flag --%s", name)
		assert.Equal(t, "", flag.DefValue)
	}
}

func TestReplayCommandFlags(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"command", "play"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)

			require.NotNil(t, sub.Flags().Lookup("demo"))
			require.NotNil(t, sub.Flags().Lookup("iwad"))
			require.NotNil(t, sub.Flags().Lookup("pwad"))
		})
	}
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	updateFlag := testCmd.Flags().Lookup("update")
	require.NotNil(t, updateFlag)
	assert.Equal(t, "false", updateFlag.DefValue)

	filterFlag := testCmd.Flags().Lookup("filter")
	require.NotNil(t, filterFlag)
	assert.Equal(t, "", filterFlag.DefValue)
}

func TestHistoryCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	historyCmd, _, err := cmd.Find([]string{"history"})
	require.NoError(t, err)

	limitFlag := historyCmd.Flags().Lookup("limit")
	require.NotNil(t, limitFlag)
	assert.Equal(t, "20", limitFlag.DefValue)
	require.NotNil(t, historyCmd.Flags().Lookup("demo"))
}

func TestFormatValidation(t *testing.T) {
	// Test valid formats
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	// Test invalid formats
	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	code, _, stderr := runCLI(t, "--format", "invalid", "command", "--demo", "a.lmp")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "invalid format")
}

func TestExecute_UnknownFlag(t *testing.T) {
	code, _, stderr := runCLI(t, "play", "--no-such-flag")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "invalid flags")
}

func TestExecute_MissingRequiredFlag(t *testing.T) {
	code, _, stderr := runCLI(t, "command")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr, "demo")
}

func TestRootOptions_Logger(t *testing.T) {
	buf := &bytes.Buffer{}

	opts := &RootOptions{}
	logger := opts.Logger(buf)
	logger.Info("hidden")
	logger.Warn("shown", "demo", "a.lmp")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "a.lmp")

	buf.Reset()
	opts.Verbose = true
	opts.Logger(buf).Debug("detail")
	assert.Contains(t, buf.String(), "detail")
}

func TestRootOptions_OpenStore(t *testing.T) {
	opts := &RootOptions{}
	st, err := opts.OpenStore()
	require.NoError(t, err)
	assert.Nil(t, st)

	opts.DB = t.TempDir() + "/runs.db"
	st, err = opts.OpenStore()
	require.NoError(t, err)
	require.NotNil(t, st)
	require.NoError(t, st.Close())
}

func TestRootOptions_OpenStoreNestedPath(t *testing.T) {
	opts := &RootOptions{DB: filepath.Join(t.TempDir(), "runs", "history.db")}
	st, err := opts.OpenStore()
	require.NoError(t, err)
	require.NotNil(t, st)
	require.NoError(t, st.Close())
	assert.FileExists(t, opts.DB)
}
