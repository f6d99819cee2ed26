package store

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/pagecheck/internal/harness"
	"github.com/roach88/pagecheck/internal/recorder"
)

// Run is one stored run.
type Run struct {
	ID        string
	Scenario  string
	Started   time.Time
	Ended     time.Time
	Summary   recorder.Summary
	AbortedAt string
	Artifacts []string
	Report    string
	// Outcomes is only populated by ReadRun.
	Outcomes []recorder.Outcome
}

// FromResult converts a harness result into a storable run.
func FromResult(res *harness.Result) Run {
	r := Run{
		ID:        res.RunID,
		Scenario:  res.Scenario,
		Started:   res.Started,
		Ended:     res.Ended,
		Summary:   res.Summary,
		Artifacts: res.Artifacts,
		Report:    res.Report,
		Outcomes:  res.Outcomes,
	}
	if res.Critical != nil {
		r.AbortedAt = res.Critical.Stage
	}
	return r
}

// RecordResult stores a finished run. It has the signature of a
// harness.Hook so it can be installed directly.
func (s *Store) RecordResult(ctx context.Context, res *harness.Result) error {
	return s.WriteRun(ctx, FromResult(res))
}

// WriteRun inserts a run and its outcomes in one transaction.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - writing the same run
// twice leaves the first copy in place.
func (s *Store) WriteRun(ctx context.Context, r Run) error {
	if r.ID == "" {
		return fmt.Errorf("write run: id is required")
	}
	artifactsJSON, err := marshalArtifacts(r.Artifacts)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, scenario, started_at, ended_at, total, passed, failed, pass_rate, aborted_at, artifacts, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		r.ID,
		r.Scenario,
		formatTime(r.Started),
		formatTime(r.Ended),
		r.Summary.Total,
		r.Summary.Passed,
		r.Summary.Failed,
		r.Summary.PassRate,
		r.AbortedAt,
		artifactsJSON,
		r.Report,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil
	}

	for _, o := range r.Outcomes {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO outcomes (run_id, seq, name, passed, details)
			VALUES (?, ?, ?, ?, ?)
		`, r.ID, o.Seq, o.Name, boolToInt(o.Passed), o.Details)
		if err != nil {
			return fmt.Errorf("write outcome %d: %w", o.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
