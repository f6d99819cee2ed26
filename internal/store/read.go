package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/pagecheck/internal/recorder"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("run not found")

// ListFilter narrows ListRuns.
type ListFilter struct {
	// Scenario restricts the list to one scenario. Empty means all.
	Scenario string
	// Limit caps the number of runs. Zero or negative means no limit.
	Limit int
}

// ListRuns returns stored runs, newest first, without their outcomes.
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) ListRuns(ctx context.Context, f ListFilter) ([]Run, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scenario, started_at, ended_at, total, passed, failed, pass_rate, aborted_at, artifacts, report
		FROM runs
		WHERE ? = '' OR scenario = ?
		ORDER BY started_at DESC, id COLLATE BINARY DESC
		LIMIT ?
	`, f.Scenario, f.Scenario, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns a run with its outcomes.
// Returns ErrNotFound if the run doesn't exist.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, scenario, started_at, ended_at, total, passed, failed, pass_rate, aborted_at, artifacts, report
		FROM runs
		WHERE id = ?
	`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Run{}, err
	}

	r.Outcomes, err = s.RunOutcomes(ctx, id)
	if err != nil {
		return Run{}, err
	}
	return r, nil
}

// RunOutcomes returns the outcomes of a run in recording order.
// Returns an empty slice (not nil) for a run without outcomes.
func (s *Store) RunOutcomes(ctx context.Context, runID string) ([]recorder.Outcome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, name, passed, details
		FROM outcomes
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	outcomes := []recorder.Outcome{}
	for rows.Next() {
		var (
			o      recorder.Outcome
			passed int
		)
		if err := rows.Scan(&o.Seq, &o.Name, &passed, &o.Details); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.Passed = passed == 1
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return outcomes, nil
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRun scans a single run row. sql.ErrNoRows is returned unwrapped.
func scanRun(sc scanner) (Run, error) {
	var (
		r              Run
		started, ended string
		artifacts      string
	)
	err := sc.Scan(
		&r.ID,
		&r.Scenario,
		&started,
		&ended,
		&r.Summary.Total,
		&r.Summary.Passed,
		&r.Summary.Failed,
		&r.Summary.PassRate,
		&r.AbortedAt,
		&artifacts,
		&r.Report,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	if r.Started, err = parseTime(started); err != nil {
		return Run{}, fmt.Errorf("scan run %s: %w", r.ID, err)
	}
	if r.Ended, err = parseTime(ended); err != nil {
		return Run{}, fmt.Errorf("scan run %s: %w", r.ID, err)
	}
	if r.Artifacts, err = unmarshalArtifacts(artifacts); err != nil {
		return Run{}, fmt.Errorf("scan run %s: %w", r.ID, err)
	}
	return r, nil
}
