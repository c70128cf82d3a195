package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/demoreplay/internal/snapshot"
)

// Outcome is everything one replay reported.
type Outcome struct {
	// Scenario is the name of the scenario that produced the outcome.
	Scenario string `json:"scenario"`

	// Command is the invocation as a shell command line.
	Command string `json:"command"`

	// Args are the engine arguments, without the executable.
	Args []string `json:"args"`

	// Success is true when the engine exited with status 0.
	Success bool `json:"success"`

	// Analysis holds the raw key/value pairs of analysis.txt.
	Analysis map[string]string `json:"analysis"`

	// Levels holds the rows of levelstat.txt, split on whitespace.
	Levels [][]string `json:"levels"`

	// Total is the cumulative run time, "00:00" if no level was completed.
	Total string `json:"total"`
}

// Snapshot renders the outcome as canonical JSON.
//
// The engine path is left out so that snapshots taken from different
// checkouts compare equal.
func (o *Outcome) Snapshot() ([]byte, error) {
	analysis := o.Analysis
	if analysis == nil {
		analysis = map[string]string{}
	}
	levels := o.Levels
	if levels == nil {
		levels = [][]string{}
	}
	args := o.Args
	if args == nil {
		args = []string{}
	}

	return snapshot.Marshal(map[string]any{
		"scenario": o.Scenario,
		"args":     args,
		"success":  o.Success,
		"analysis": analysis,
		"levels":   levels,
		"total":    o.Total,
	})
}

// Result is the outcome of a scenario run plus the expectation checks.
type Result struct {
	// Pass is true if every expectation matched.
	Pass bool `json:"pass"`

	// Errors contains one message per failed expectation.
	Errors []string `json:"errors,omitempty"`

	// Outcome is what the replay reported.
	Outcome *Outcome `json:"outcome"`
}

// NewResult creates a passing result for outcome.
func NewResult(outcome *Outcome) *Result {
	return &Result{
		Pass:    true,
		Errors:  []string{},
		Outcome: outcome,
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AssertionError describes one expectation that did not match.
type AssertionError struct {
	Field    string // expectation key, e.g. "pacifist" or "analysis.skill"
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Field)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}
