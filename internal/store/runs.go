package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/demoreplay/internal/snapshot"
)

// Run is one recorded replay.
type Run struct {
	ID       string            `json:"id"`
	Seq      int64             `json:"seq"`
	Scenario string            `json:"scenario,omitempty"`
	Demo     string            `json:"demo"`
	IWAD     string            `json:"iwad"`
	PWAD     string            `json:"pwad,omitempty"`
	Command  string            `json:"command"`
	Success  bool              `json:"success"`
	Total    string            `json:"total"`
	Analysis map[string]string `json:"analysis"`
}

// RunFilter narrows ListRuns.
type RunFilter struct {
	// Demo keeps only runs of this demo file. Empty keeps all.
	Demo string

	// Limit caps the number of runs returned. Zero or less means no cap.
	Limit int
}

// WriteRun records a replay and returns it with ID and Seq assigned.
//
// An empty ID gets a fresh UUIDv7. Seq is always the next value after the
// highest seq in the store; any Seq set by the caller is ignored.
func (s *Store) WriteRun(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return Run{}, fmt.Errorf("write run: generate id: %w", err)
		}
		run.ID = id.String()
	}

	analysisJSON, err := marshalAnalysis(run.Analysis)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) + 1 FROM runs
	`).Scan(&run.Seq); err != nil {
		return Run{}, fmt.Errorf("write run: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, scenario, demo, iwad, pwad, command, success, total, analysis)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Seq,
		run.Scenario,
		run.Demo,
		run.IWAD,
		run.PWAD,
		run.Command,
		run.Success,
		run.Total,
		analysisJSON,
	)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("write run: commit: %w", err)
	}

	run.Analysis = cloneAnalysis(run.Analysis)
	return run, nil
}

// ReadRun retrieves a single run by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, scenario, demo, iwad, pwad, command, success, total, analysis
		FROM runs
		WHERE id = ?
	`, id)

	return scanRun(row)
}

// ListRuns returns recorded runs, most recent first.
func (s *Store) ListRuns(ctx context.Context, filter RunFilter) ([]Run, error) {
	var (
		query strings.Builder
		args  []any
	)
	query.WriteString(`
		SELECT id, seq, scenario, demo, iwad, pwad, command, success, total, analysis
		FROM runs`)
	if filter.Demo != "" {
		query.WriteString(`
		WHERE demo = ?`)
		args = append(args, filter.Demo)
	}
	query.WriteString(`
		ORDER BY seq DESC, id COLLATE BINARY ASC`)
	if filter.Limit > 0 {
		query.WriteString(`
		LIMIT ?`)
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

// LastSeq returns the highest seq in the store, 0 when empty.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), 0) FROM runs
	`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("get last seq: %w", err)
	}
	return seq, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	var analysisJSON string

	if err := row.Scan(
		&run.ID, &run.Seq, &run.Scenario, &run.Demo, &run.IWAD, &run.PWAD,
		&run.Command, &run.Success, &run.Total, &analysisJSON,
	); err != nil {
		return Run{}, err
	}

	analysis, err := unmarshalAnalysis(analysisJSON)
	if err != nil {
		return Run{}, err
	}
	run.Analysis = analysis

	return run, nil
}

// marshalAnalysis converts the analysis map to canonical JSON TEXT.
func marshalAnalysis(analysis map[string]string) (string, error) {
	if analysis == nil {
		analysis = map[string]string{}
	}
	data, err := snapshot.Marshal(analysis)
	if err != nil {
		return "", fmt.Errorf("marshal analysis: %w", err)
	}
	return string(data), nil
}

func unmarshalAnalysis(data string) (map[string]string, error) {
	analysis := map[string]string{}
	if data == "" {
		return analysis, nil
	}
	if err := json.Unmarshal([]byte(data), &analysis); err != nil {
		return nil, fmt.Errorf("unmarshal analysis: %w", err)
	}
	return analysis, nil
}

func cloneAnalysis(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
