package harness

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// SuiteOptions controls RunSuite.
type SuiteOptions struct {
	// Filter is a glob matched against scenario file names without extension.
	Filter string

	// Update rewrites golden files instead of comparing against them.
	Update bool
}

// ScenarioReport is the result of one scenario file in a suite.
type ScenarioReport struct {
	Name          string   `json:"name"`
	Path          string   `json:"path"`
	Pass          bool     `json:"pass"`
	GoldenUpdated bool     `json:"golden_updated,omitempty"`
	Errors        []string `json:"errors,omitempty"`
	Outcome       *Outcome `json:"outcome,omitempty"`

	// Scenario is the loaded scenario, nil if it failed to load.
	Scenario *Scenario `json:"-"`
}

// SuiteResult summarizes a suite run.
type SuiteResult struct {
	Scenarios []ScenarioReport `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

func (r *SuiteResult) add(report ScenarioReport) {
	r.Scenarios = append(r.Scenarios, report)
	r.Total++
	if report.Pass {
		r.Passed++
	} else {
		r.Failed++
	}
}

// FindScenarios returns the .yaml and .yml files under dir in lexical
// order, skipping names that do not match filter.
func FindScenarios(dir, filter string) ([]string, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			if matched, _ := filepath.Match(filter, name); !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	return files, err
}

// RunSuite loads and runs every scenario under dir.
//
// A scenario fails when it cannot be loaded or played, when an expectation
// does not match, or when its golden file exists and differs. Scenarios
// without a golden file are checked on expectations alone. Cancelling ctx
// stops the suite; the scenarios run so far are returned with ctx's error.
func (h *Harness) RunSuite(ctx context.Context, dir string, opts SuiteOptions) (*SuiteResult, error) {
	files, err := FindScenarios(dir, opts.Filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find scenarios: %w", err)
	}

	result := &SuiteResult{Scenarios: make([]ScenarioReport, 0, len(files))}
	for _, path := range files {
		report := h.runScenarioFile(ctx, path, opts)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		result.add(report)
	}

	h.logger.Info("suite finished",
		"dir", dir,
		"passed", result.Passed,
		"failed", result.Failed,
	)
	return result, nil
}

func (h *Harness) runScenarioFile(ctx context.Context, path string, opts SuiteOptions) ScenarioReport {
	report := ScenarioReport{
		Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path: path,
	}

	scenario, err := LoadScenario(path)
	if err != nil {
		report.Errors = []string{fmt.Sprintf("failed to load scenario: %v", err)}
		return report
	}
	report.Name = scenario.Name
	report.Scenario = scenario

	result, err := h.Run(ctx, scenario)
	if err != nil {
		report.Errors = []string{fmt.Sprintf("execution failed: %v", err)}
		return report
	}
	report.Outcome = result.Outcome
	report.Errors = result.Errors

	goldenPath := GoldenPath(path)
	switch {
	case opts.Update:
		if err := WriteGolden(goldenPath, result.Outcome); err != nil {
			report.Errors = append(report.Errors, err.Error())
			return report
		}
		report.GoldenUpdated = true
	default:
		match, err := CompareGolden(goldenPath, result.Outcome)
		if errors.Is(err, os.ErrNotExist) {
			break
		}
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("golden comparison failed: %v", err))
			return report
		}
		if !match {
			report.Errors = append(report.Errors, "outcome does not match golden file (run with --update to regenerate)")
			return report
		}
	}

	report.Pass = result.Pass
	return report
}
