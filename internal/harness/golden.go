package harness

import (
	"context"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/pagecheck/internal/ir"
	"github.com/roach88/pagecheck/internal/recorder"
	"github.com/roach88/pagecheck/internal/testutil"
)

// goldenEpoch is the start time of every golden run.
var goldenEpoch = time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

// RunSnapshot is the part of a Result that is identical across runs.
type RunSnapshot struct {
	Scenario  string
	Summary   recorder.Summary
	Outcomes  []recorder.Outcome
	AbortedAt string
	Artifacts []string
}

// value renders the snapshot in the ir model so MarshalCanonical can encode
// it with sorted keys. Empty details and AbortedAt are omitted.
func (s RunSnapshot) value() ir.Object {
	outcomes := make(ir.List, len(s.Outcomes))
	for i, o := range s.Outcomes {
		obj := ir.Object{
			"seq":    ir.Int(o.Seq),
			"name":   ir.Str(o.Name),
			"passed": ir.Bool(o.Passed),
		}
		if o.Details != "" {
			obj["details"] = ir.Str(o.Details)
		}
		outcomes[i] = obj
	}
	artifacts := make(ir.List, len(s.Artifacts))
	for i, a := range s.Artifacts {
		artifacts[i] = ir.Str(a)
	}

	snap := ir.Object{
		"scenario": ir.Str(s.Scenario),
		"summary": ir.Object{
			"total":     ir.Int(s.Summary.Total),
			"passed":    ir.Int(s.Summary.Passed),
			"failed":    ir.Int(s.Summary.Failed),
			"pass_rate": ir.Float(s.Summary.PassRate),
		},
		"outcomes":  outcomes,
		"artifacts": artifacts,
	}
	if s.AbortedAt != "" {
		snap["aborted_at"] = ir.Str(s.AbortedAt)
	}
	return snap
}

// Snapshot returns the canonical JSON snapshot of a result. Timestamps and
// the run ID are excluded.
func Snapshot(res *Result) ([]byte, error) {
	snap := RunSnapshot{
		Scenario:  res.Scenario,
		Summary:   res.Summary,
		Outcomes:  res.Outcomes,
		Artifacts: res.Artifacts,
	}
	if res.Critical != nil {
		snap.AbortedAt = res.Critical.Stage
	}
	return ir.MarshalCanonical(snap.value())
}

// RunWithGolden runs cfg and asserts its snapshot against
// testdata/golden/{name}.golden. Without a Recorder or Scheduler in cfg it
// installs a step clock, sequential run IDs and a scheduler that records
// waits instead of sleeping. Regenerate with go test ./internal/harness -update.
func RunWithGolden(t *testing.T, name string, cfg Config) (*Result, error) {
	t.Helper()

	if cfg.Recorder == nil {
		clock := testutil.NewStepClock(goldenEpoch, time.Second)
		cfg.Recorder = recorder.New(nil,
			recorder.WithClock(clock.Now),
			recorder.WithIDGenerator(testutil.NewSequenceIDGenerator("golden")),
		)
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = &testutil.RecordingScheduler{}
	}

	res, err := Run(context.Background(), cfg)
	if res == nil {
		return nil, err
	}
	AssertGolden(t, name, res)
	return res, err
}

// AssertGolden fails t when result's snapshot differs from the golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	data, err := Snapshot(result)
	if err != nil {
		t.Fatalf("snapshot %s: %v", name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
