package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/pagecheck/internal/recorder"
)

var testEpoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testRun creates a run with two outcomes, started offset minutes after testEpoch.
func testRun(id, scenario string, offset int) Run {
	started := testEpoch.Add(time.Duration(offset) * time.Minute)
	return Run{
		ID:        id,
		Scenario:  scenario,
		Started:   started,
		Ended:     started.Add(42 * time.Second),
		Summary:   recorder.Summary{Total: 2, Passed: 1, Failed: 1, PassRate: 50},
		Artifacts: []string{"Test-screenshot-initial.png"},
		Report:    "TEST REPORT\n",
		Outcomes: []recorder.Outcome{
			{Seq: 1, Name: "A", Passed: true},
			{Seq: 2, Name: "B", Passed: false, Details: "x"},
		},
	}
}

func writeTestRun(t *testing.T, s *Store, r Run) {
	t.Helper()
	if err := s.WriteRun(context.Background(), r); err != nil {
		t.Fatalf("WriteRun(%s) failed: %v", r.ID, err)
	}
}
