package store

import (
	"context"
	"errors"
	"testing"
)

func TestListRuns_NewestFirst(t *testing.T) {
	s := createTestStore(t)
	writeTestRun(t, s, testRun("run-a", "practice", 0))
	writeTestRun(t, s, testRun("run-b", "login", 1))
	writeTestRun(t, s, testRun("run-c", "practice", 2))

	runs, err := s.ListRuns(context.Background(), ListFilter{})
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}

	var ids []string
	for _, r := range runs {
		ids = append(ids, r.ID)
		if r.Outcomes != nil {
			t.Errorf("ListRuns() loaded outcomes for %s", r.ID)
		}
	}
	want := []string{"run-c", "run-b", "run-a"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids = %v, want %v", ids, want)
			break
		}
	}
}

func TestListRuns_SameStartOrdersByID(t *testing.T) {
	s := createTestStore(t)
	writeTestRun(t, s, testRun("run-a", "practice", 0))
	writeTestRun(t, s, testRun("run-b", "practice", 0))

	runs, err := s.ListRuns(context.Background(), ListFilter{})
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-b" || runs[1].ID != "run-a" {
		t.Errorf("runs = %+v, want run-b before run-a", runs)
	}
}

func TestListRuns_Filter(t *testing.T) {
	s := createTestStore(t)
	writeTestRun(t, s, testRun("run-a", "practice", 0))
	writeTestRun(t, s, testRun("run-b", "login", 1))
	writeTestRun(t, s, testRun("run-c", "practice", 2))
	writeTestRun(t, s, testRun("run-d", "practice", 3))

	tests := []struct {
		name   string
		filter ListFilter
		want   []string
	}{
		{"scenario", ListFilter{Scenario: "practice"}, []string{"run-d", "run-c", "run-a"}},
		{"limit", ListFilter{Limit: 2}, []string{"run-d", "run-c"}},
		{"scenario and limit", ListFilter{Scenario: "practice", Limit: 1}, []string{"run-d"}},
		{"unknown scenario", ListFilter{Scenario: "nope"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs, err := s.ListRuns(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("ListRuns() failed: %v", err)
			}
			if runs == nil {
				t.Fatal("ListRuns() returned nil, want empty slice")
			}
			if len(runs) != len(tt.want) {
				t.Fatalf("len(runs) = %d, want %d", len(runs), len(tt.want))
			}
			for i, id := range tt.want {
				if runs[i].ID != id {
					t.Errorf("runs[%d].ID = %q, want %q", i, runs[i].ID, id)
				}
			}
		})
	}
}

func TestReadRun_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadRun(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRunOutcomes_Order(t *testing.T) {
	s := createTestStore(t)
	r := testRun("run-1", "practice", 0)
	// Written out of order; read back by seq.
	r.Outcomes[0], r.Outcomes[1] = r.Outcomes[1], r.Outcomes[0]
	writeTestRun(t, s, r)

	got, err := s.RunOutcomes(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("RunOutcomes() failed: %v", err)
	}
	if len(got) != 2 || got[0].Seq != 1 || got[1].Seq != 2 {
		t.Errorf("outcomes = %+v, want seq 1, 2", got)
	}
}

func TestRunOutcomes_Unknown(t *testing.T) {
	s := createTestStore(t)

	got, err := s.RunOutcomes(context.Background(), "missing")
	if err != nil {
		t.Fatalf("RunOutcomes() failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("outcomes = %#v, want empty slice", got)
	}
}
