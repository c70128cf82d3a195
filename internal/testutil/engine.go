// Package testutil provides a scripted stand-in for the prboom-plus engine.
//
// The fake engine is a POSIX shell script. When run, it records its argv,
// optionally sleeps, copies canned artifacts into its working directory and
// exits with a chosen status. This lets runner, harness and CLI tests drive
// real process execution without the engine or any WAD files.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// FakeEngine describes what the scripted engine does when run.
type FakeEngine struct {
	// Analysis is copied to analysis.txt unless NoAnalysis is set.
	Analysis   string
	NoAnalysis bool

	// Levelstat is copied to levelstat.txt unless NoLevelstat is set.
	Levelstat   string
	NoLevelstat bool

	// ExitCode is the engine's exit status.
	ExitCode int

	// Sleep delays the engine, in seconds (for cancellation tests).
	Sleep int
}

// InstalledEngine is a fake engine written to disk.
type InstalledEngine struct {
	// Path is the absolute path of the executable script.
	Path string

	argsPath string
}

// Install writes the engine script and its fixtures to a fresh temp dir.
// Tests using it are skipped on Windows.
func (f FakeEngine) Install(t *testing.T) *InstalledEngine {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake engine requires a POSIX shell")
	}

	dir := t.TempDir()
	argsPath := filepath.Join(dir, "argv.txt")

	var script strings.Builder
	script.WriteString("#!/bin/sh\n")
	fmt.Fprintf(&script, "printf '%%s\\n' \"$@\" > %s\n", shellQuote(argsPath))
	if f.Sleep > 0 {
		fmt.Fprintf(&script, "sleep %d\n", f.Sleep)
	}
	if !f.NoAnalysis {
		src := writeFixture(t, dir, "analysis.fixture", f.Analysis)
		fmt.Fprintf(&script, "cp %s analysis.txt || exit 99\n", shellQuote(src))
	}
	if !f.NoLevelstat {
		src := writeFixture(t, dir, "levelstat.fixture", f.Levelstat)
		fmt.Fprintf(&script, "cp %s levelstat.txt || exit 99\n", shellQuote(src))
	}
	fmt.Fprintf(&script, "exit %d\n", f.ExitCode)

	path := filepath.Join(dir, "prboom-plus")
	if err := os.WriteFile(path, []byte(script.String()), 0o755); err != nil {
		t.Fatal(err)
	}

	return &InstalledEngine{Path: path, argsPath: argsPath}
}

// Args returns the arguments of the most recent run, or nil if the engine
// has not run.
func (e *InstalledEngine) Args(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(e.argsPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
