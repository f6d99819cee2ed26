package store

import (
	"context"
	"fmt"

	"github.com/roach88/pagecheck/internal/recorder"
)

// Comparison lists how the outcomes of Head differ from those of Base.
// Tests are matched by name; when a name was recorded more than once, the
// last outcome counts.
type Comparison struct {
	Base Run
	Head Run

	Regressions []string // passed in Base, failed in Head
	Fixes       []string // failed in Base, passed in Head
	Added       []string // only in Head
	Removed     []string // only in Base
}

// Changed reports whether any test changed state.
func (c Comparison) Changed() bool {
	return len(c.Regressions)+len(c.Fixes)+len(c.Added)+len(c.Removed) > 0
}

// CompareRuns loads two runs and compares their outcomes.
func (s *Store) CompareRuns(ctx context.Context, baseID, headID string) (Comparison, error) {
	base, err := s.ReadRun(ctx, baseID)
	if err != nil {
		return Comparison{}, fmt.Errorf("compare runs: %w", err)
	}
	head, err := s.ReadRun(ctx, headID)
	if err != nil {
		return Comparison{}, fmt.Errorf("compare runs: %w", err)
	}
	return Compare(base, head), nil
}

// CompareLatest compares the two most recent runs of scenario.
// Returns ErrNotFound when fewer than two runs are stored.
func (s *Store) CompareLatest(ctx context.Context, scenario string) (Comparison, error) {
	runs, err := s.ListRuns(ctx, ListFilter{Scenario: scenario, Limit: 2})
	if err != nil {
		return Comparison{}, fmt.Errorf("compare latest: %w", err)
	}
	if len(runs) < 2 {
		return Comparison{}, fmt.Errorf("compare latest %s: %w: need two runs, have %d", scenario, ErrNotFound, len(runs))
	}
	return s.CompareRuns(ctx, runs[1].ID, runs[0].ID)
}

// Compare diffs the outcomes of two loaded runs. Results follow Head's
// recording order, except Removed which follows Base's.
func Compare(base, head Run) Comparison {
	c := Comparison{Base: base, Head: head}
	before, baseOrder := lastByName(base.Outcomes)
	after, headOrder := lastByName(head.Outcomes)

	for _, name := range headOrder {
		was, ok := before[name]
		now := after[name]
		switch {
		case !ok:
			c.Added = append(c.Added, name)
		case was && !now:
			c.Regressions = append(c.Regressions, name)
		case !was && now:
			c.Fixes = append(c.Fixes, name)
		}
	}
	for _, name := range baseOrder {
		if _, ok := after[name]; !ok {
			c.Removed = append(c.Removed, name)
		}
	}
	return c
}

func lastByName(outcomes []recorder.Outcome) (map[string]bool, []string) {
	passed := make(map[string]bool, len(outcomes))
	var order []string
	for _, o := range outcomes {
		if _, seen := passed[o.Name]; !seen {
			order = append(order, o.Name)
		}
		passed[o.Name] = o.Passed
	}
	return passed, order
}
