package recorder

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pagecheck/internal/testutil"
)

var epoch = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestRecorder(out *bytes.Buffer) *Recorder {
	clock := testutil.NewStepClock(epoch, 1500*time.Millisecond)
	return New(out,
		WithClock(clock.Now),
		WithIDGenerator(testutil.NewSequenceIDGenerator("run")),
	)
}

func TestRecordWritesStatusLinesInOrder(t *testing.T) {
	var out bytes.Buffer
	r := newTestRecorder(&out)

	r.Record("A", true, "ok")
	r.Record("B", false, "boom")
	r.Record("C", true, "")

	assert.Equal(t,
		"✅ PASSED: A - ok\n❌ FAILED: B - boom\n✅ PASSED: C\n",
		out.String(),
	)

	outcomes := r.Outcomes()
	require.Len(t, outcomes, 3)
	assert.Equal(t, Outcome{Seq: 1, Name: "A", Passed: true, Details: "ok"}, outcomes[0])
	assert.Equal(t, Outcome{Seq: 2, Name: "B", Passed: false, Details: "boom"}, outcomes[1])
	assert.Equal(t, 3, outcomes[2].Seq)
}

func TestSummaryAfterTwoOutcomes(t *testing.T) {
	r := newTestRecorder(&bytes.Buffer{})
	r.Record("A", true, "")
	r.Record("B", false, "x")

	assert.Equal(t, Summary{Total: 2, Passed: 1, Failed: 1, PassRate: 50.00}, r.Summary())

	report := r.Render(Layout{Title: "T"})
	assert.Contains(t, report, "PASSED TESTS:\n1. A\n")
	assert.Contains(t, report, "FAILED TESTS:\n1. B\n")
}

func TestSummaryMonotonic(t *testing.T) {
	r := newTestRecorder(&bytes.Buffer{})
	for i := 0; i < 20; i++ {
		before := r.Summary()
		r.Record("step", i%3 != 0, "")
		after := r.Summary()

		assert.Equal(t, before.Total+1, after.Total)
		assert.Equal(t, after.Total, after.Passed+after.Failed)
		assert.GreaterOrEqual(t, after.Passed, before.Passed)
		assert.GreaterOrEqual(t, after.Failed, before.Failed)
	}
}

func TestSummaryPassRate(t *testing.T) {
	tests := []struct {
		name     string
		passed   int
		failed   int
		expected float64
	}{
		{"empty run", 0, 0, 0},
		{"all passed", 4, 0, 100},
		{"all failed", 0, 3, 0},
		{"two thirds", 2, 1, 66.67},
		{"one third", 1, 2, 33.33},
		{"one seventh", 1, 6, 14.29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRecorder(&bytes.Buffer{})
			for i := 0; i < tt.passed; i++ {
				r.Record("p", true, "")
			}
			for i := 0; i < tt.failed; i++ {
				r.Record("f", false, "")
			}
			assert.Equal(t, tt.expected, r.Summary().PassRate)
		})
	}
}

func TestDuplicateNamesAreKept(t *testing.T) {
	r := newTestRecorder(&bytes.Buffer{})
	r.Record("Critical Error", false, "a")
	r.Record("Critical Error", false, "b")

	assert.Equal(t, 2, r.Summary().Failed)
	assert.Contains(t, r.Render(Layout{}), "1. Critical Error\n2. Critical Error\n")
}

func TestFinishOnce(t *testing.T) {
	r := newTestRecorder(&bytes.Buffer{})
	assert.True(t, r.Ended().IsZero())
	assert.False(t, r.Finished())

	r.Finish()
	first := r.Ended()
	r.Finish()

	assert.True(t, r.Finished())
	assert.Equal(t, first, r.Ended())
	assert.Equal(t, epoch, r.Started())
	assert.Equal(t, epoch.Add(1500*time.Millisecond), first)
}

func TestRenderEmptyRun(t *testing.T) {
	r := newTestRecorder(&bytes.Buffer{})
	r.Finish()

	report := r.Render(Layout{Title: "EMPTY"})
	assert.Contains(t, report, "Total Tests Run: 0\n")
	assert.Contains(t, report, "Success Rate: 0.00%\n")
	assert.Contains(t, report, "PASSED TESTS:\nNone\n")
	assert.NotContains(t, report, "FAILED TESTS:")
	assert.Contains(t, report, "SCREENSHOTS:\n------------\nNone\n")
	assert.True(t, len(report) > 0 && report[len(report)-len("END OF REPORT\n"):] == "END OF REPORT\n")
}

func TestRenderBeforeFinish(t *testing.T) {
	r := newTestRecorder(&bytes.Buffer{})
	report := r.Render(Layout{})

	assert.Contains(t, report, "Generated: -\n")
	assert.Contains(t, report, "End Time: -\n")
	assert.NotContains(t, report, "Duration:")
}

func TestRenderDeterministic(t *testing.T) {
	r := newTestRecorder(&bytes.Buffer{})
	r.Record("A", true, "")
	r.Finish()

	l := Layout{Title: "X", Artifacts: []string{"a.png"}}
	assert.Equal(t, r.Render(l), r.Render(l))
}

func TestRenderGolden(t *testing.T) {
	r := newTestRecorder(&bytes.Buffer{})
	r.Record("Radio Button Selection", true, "radio2 selected")
	r.Record("Checkbox Selection", true, "")
	r.Record("Alert Dialog", false, "no alert text")
	r.Finish()

	report := r.Render(Layout{
		Title: "AUTOMATION PRACTICE TEST REPORT",
		Artifacts: []string{
			"AutomationPractice-screenshot-initial.png",
			"AutomationPractice-screenshot-final.png",
		},
		Included: []string{
			"Radio Button Selection",
			"Checkbox Selection",
			"Alert Dialog",
		},
	})

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "practice_report", []byte(report))
}

func TestTable(t *testing.T) {
	r := newTestRecorder(&bytes.Buffer{})
	r.Record("Dropdown Selection", true, "option2")
	r.Record("Alert Dialog", false, "timeout")

	out := r.Table(Layout{Title: "Practice"})
	assert.Contains(t, out, "Practice")
	assert.Contains(t, out, "Dropdown Selection")
	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "1 PASSED, 1 FAILED")
	assert.Contains(t, out, "50.00%")
}

func TestUUIDv7Generator(t *testing.T) {
	r := New(nil)
	assert.Len(t, r.RunID(), 36)
	assert.NotEqual(t, r.RunID(), New(nil).RunID())
}
