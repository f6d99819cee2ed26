package harness

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pagecheck/internal/browser"
	"github.com/roach88/pagecheck/internal/ir"
	"github.com/roach88/pagecheck/internal/recorder"
	"github.com/roach88/pagecheck/internal/testutil"
)

type fixture struct {
	launcher *testutil.FakeLauncher
	sink     *testutil.MemorySink
	sched    *testutil.RecordingScheduler
	out      *bytes.Buffer
}

func newFixture() *fixture {
	return &fixture{
		launcher: testutil.NewFakeLauncher(),
		sink:     testutil.NewMemorySink("Test"),
		sched:    &testutil.RecordingScheduler{},
		out:      &bytes.Buffer{},
	}
}

func (f *fixture) config(steps ...Step) Config {
	clock := testutil.NewStepClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), time.Second)
	return Config{
		Plan: &Plan{
			Name:   "test",
			Prefix: "Test",
			Layout: recorder.Layout{Title: "TEST REPORT"},
			Steps:  steps,
		},
		Launcher: f.launcher,
		Recorder: recorder.New(f.out,
			recorder.WithClock(clock.Now),
			recorder.WithIDGenerator(testutil.NewSequenceIDGenerator("run")),
		),
		Sink:      f.sink,
		Scheduler: f.sched,
	}
}

func passing(name string) Step {
	return Step{Name: name, Action: func(context.Context, *Env) (Verdict, error) {
		return Pass("ok"), nil
	}}
}

func failing(name string, err error) Step {
	return Step{Name: name, Action: func(context.Context, *Env) (Verdict, error) {
		return Verdict{}, err
	}}
}

func outcomeNames(res *Result) []string {
	var names []string
	for _, o := range res.Outcomes {
		names = append(names, o.Name)
	}
	return names
}

func TestRunIsolatesStepFailures(t *testing.T) {
	f := newFixture()
	cfg := f.config(
		passing("first"),
		failing("second", errors.New("element not clickable")),
		passing("third"),
	)

	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, res.Outcomes, 3)
	assert.Equal(t, recorder.Outcome{Seq: 1, Name: "first", Passed: true, Details: "ok"}, res.Outcomes[0])
	assert.Equal(t, recorder.Outcome{Seq: 2, Name: "second", Passed: false, Details: "element not clickable"}, res.Outcomes[1])
	assert.Equal(t, recorder.Outcome{Seq: 3, Name: "third", Passed: true, Details: "ok"}, res.Outcomes[2])
	assert.False(t, res.Aborted())
	assert.Equal(t, recorder.Summary{Total: 3, Passed: 2, Failed: 1, PassRate: 66.67}, res.Summary)

	assert.Equal(t, 1, f.launcher.Session.CloseCalls())
	require.Len(t, f.sink.Reports, 1)
	assert.Equal(t, res.Report, f.sink.LastReport())
	assert.Contains(t, f.out.String(), "❌ FAILED: second - element not clickable\n")
}

func TestRunRecoversPanics(t *testing.T) {
	f := newFixture()
	cfg := f.config(
		Step{Name: "explodes", Action: func(context.Context, *Env) (Verdict, error) {
			var m map[string]int
			m["x"] = 1
			return Pass(""), nil
		}},
		passing("after"),
	)

	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, res.Outcomes, 2)
	assert.False(t, res.Outcomes[0].Passed)
	assert.Contains(t, res.Outcomes[0].Details, "panic:")
	assert.True(t, res.Outcomes[1].Passed)
	assert.True(t, res.Steps[0].Failed())
}

func TestRunCriticalFailureBeforeAnyStep(t *testing.T) {
	f := newFixture()
	f.launcher.Session.NavigateErr["https://down.test"] = errors.New("net::ERR_CONNECTION_REFUSED")

	ran := false
	cfg := f.config(
		Step{Name: "Open page", Glue: true, Action: func(ctx context.Context, env *Env) (Verdict, error) {
			return Silent(), env.Navigate(ctx, "https://down.test")
		}},
		Step{Name: "never", Action: func(context.Context, *Env) (Verdict, error) {
			ran = true
			return Pass(""), nil
		}},
	)

	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.False(t, ran, "steps after a critical failure are skipped")
	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, CriticalErrorName, res.Outcomes[0].Name)
	assert.False(t, res.Outcomes[0].Passed)
	assert.Equal(t, "net::ERR_CONNECTION_REFUSED", res.Outcomes[0].Details)

	require.NotNil(t, res.Critical)
	assert.Equal(t, "Open page", res.Critical.Stage)
	var ce *browser.ClientError
	assert.ErrorAs(t, res.Critical, &ce)
	var sf *StepFailure
	assert.False(t, errors.As(res.Critical, &sf), "the step name lives in Stage, not in the error")

	assert.Equal(t, 1, f.launcher.Session.CloseCalls())
	assert.Equal(t, "close", f.launcher.Session.Calls[len(f.launcher.Session.Calls)-1])
	assert.True(t, f.launcher.Session.Shots() == 0)
	assert.Contains(t, f.sink.LastReport(), "FAILED TESTS:\n1. Critical Error\n")
}

func TestRunLaunchFailure(t *testing.T) {
	f := newFixture()
	f.launcher.LaunchErr = errors.New("chrome not found")

	res, err := Run(context.Background(), f.config(passing("never")))
	require.NoError(t, err)

	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, CriticalErrorName, res.Outcomes[0].Name)
	assert.Equal(t, "launch", res.Critical.Stage)
	assert.Equal(t, 0, f.launcher.Session.CloseCalls(), "nothing acquired, nothing released")
	assert.Len(t, f.sink.Reports, 1)
}

func TestRunGlueStepPanicIsCritical(t *testing.T) {
	f := newFixture()
	cfg := f.config(
		Step{Name: "Page info", Glue: true, Action: func(context.Context, *Env) (Verdict, error) {
			panic("boom")
		}},
		passing("skipped"),
	)

	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{CriticalErrorName}, outcomeNames(res))
	assert.Equal(t, 1, f.launcher.Session.CloseCalls())
}

func TestRunSilentVerdictsAreNotRecorded(t *testing.T) {
	f := newFixture()
	cfg := f.config(
		Step{Name: "shot", Glue: true, Action: func(ctx context.Context, env *Env) (Verdict, error) {
			return Silent(), env.Screenshot(ctx, "initial")
		}},
		passing("visible"),
	)

	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"visible"}, outcomeNames(res))
	assert.Equal(t, []string{"initial"}, f.sink.Order)
	assert.Equal(t, []byte("png-1"), f.sink.Screenshots["initial"])
}

func TestRunWaitsThroughScheduler(t *testing.T) {
	f := newFixture()
	step := passing("slow")
	step.WaitBefore = 500 * time.Millisecond
	step.WaitAfter = time.Second

	_, err := Run(context.Background(), f.config(step))
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{500 * time.Millisecond, time.Second}, f.sched.Waits)
}

func TestRunTeardownFailure(t *testing.T) {
	f := newFixture()
	f.launcher.Session.CloseErr = errors.New("quit: target closed")

	res, err := Run(context.Background(), f.config(passing("only")))
	require.NotNil(t, res)

	var tf *TeardownFailure
	require.ErrorAs(t, err, &tf)
	assert.Contains(t, tf.Error(), "target closed")
	assert.Equal(t, 1, f.launcher.Session.CloseCalls())
	assert.Len(t, f.sink.Reports, 1, "the report is written before the teardown failure propagates")
	assert.Equal(t, 1, res.Summary.Passed)
}

func TestRunInterrupted(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cfg := f.config(
		Step{Name: "cancels", Action: func(context.Context, *Env) (Verdict, error) {
			cancel()
			return Pass("done"), nil
		}},
		passing("skipped"),
	)

	res, err := Run(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"cancels", CriticalErrorName}, outcomeNames(res))
	assert.Equal(t, "interrupted", res.Critical.Stage)
	assert.ErrorIs(t, res.Critical, context.Canceled)
	assert.Equal(t, 1, f.launcher.Session.CloseCalls())
	assert.NoError(t, f.launcher.Session.CloseCtxErr())
}

type stepLog struct {
	names  []string
	passed []bool
}

func (l *stepLog) StepDone(step string, passed bool, _ time.Duration) {
	l.names = append(l.names, step)
	l.passed = append(l.passed, passed)
}

func TestRunNotifiesObserverAndHooks(t *testing.T) {
	f := newFixture()
	cfg := f.config(passing("a"), failing("b", errors.New("x")))
	obs := &stepLog{}
	cfg.Observer = obs

	var seen *Result
	hookErr := errors.New("history unavailable")
	cfg.Hooks = []Hook{
		func(_ context.Context, res *Result) error {
			seen = res
			return nil
		},
		func(context.Context, *Result) error { return hookErr },
	}

	res, err := Run(context.Background(), cfg)
	assert.ErrorIs(t, err, hookErr)
	var tf *TeardownFailure
	assert.False(t, errors.As(err, &tf))

	assert.Same(t, res, seen)
	assert.Equal(t, []string{"a", "b"}, obs.names)
	assert.Equal(t, []bool{true, false}, obs.passed)
}

func TestRunReportSaveError(t *testing.T) {
	f := newFixture()
	f.sink.ReportErr = errors.New("disk full")

	res, err := Run(context.Background(), f.config(passing("a")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save report: disk full")
	assert.NotEmpty(t, res.Report)
}

func TestRunArtifactsInLayout(t *testing.T) {
	f := newFixture()
	cfg := f.config(passing("a"))
	cfg.Plan.Screenshots = []string{"initial", "final"}

	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"Test-screenshot-initial.png", "Test-screenshot-final.png"}, res.Artifacts)
	assert.Contains(t, res.Report, "1. Test-screenshot-initial.png\n2. Test-screenshot-final.png\n")
}

func TestRunRequiresPlanAndLauncher(t *testing.T) {
	_, err := Run(context.Background(), Config{})
	assert.ErrorContains(t, err, "plan is required")

	_, err = Run(context.Background(), Config{Plan: &Plan{}})
	assert.ErrorContains(t, err, "launcher is required")
}

func TestRunRejectsFinishedRecorder(t *testing.T) {
	f := newFixture()
	cfg := f.config(passing("once"))

	_, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	res, err := Run(context.Background(), cfg)
	assert.Nil(t, res)
	assert.ErrorContains(t, err, "recorder belongs to a finished run")
	assert.Equal(t, 1, f.launcher.Launches(), "no second session")
}

func TestEnvEvaluateNormalizes(t *testing.T) {
	f := newFixture()
	f.launcher.Session.Results["return rows"] = map[string]any{
		"type":  "array",
		"value": []any{map[string]any{"value": 1}, 2},
	}

	var got ir.Value
	cfg := f.config(Step{Name: "eval", Action: func(ctx context.Context, env *Env) (Verdict, error) {
		v, err := env.Evaluate(ctx, "return rows")
		got = v
		return Silent(), err
	}})

	_, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, ir.List{ir.Int(1), ir.Int(2)}, got)
}

func TestEnvEvaluateTooDeep(t *testing.T) {
	f := newFixture()
	cyclic := map[string]any{}
	cyclic["self"] = cyclic
	f.launcher.Session.OnEvaluate = func(string) (any, error) { return cyclic, nil }

	cfg := f.config(Step{Name: "eval", Action: func(ctx context.Context, env *Env) (Verdict, error) {
		_, err := env.Evaluate(ctx, "return window")
		return Verdict{}, err
	}})

	res, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 1)
	assert.False(t, res.Outcomes[0].Passed)
	require.True(t, res.Steps[0].Failed())
	assert.ErrorIs(t, res.Steps[0].Failure, ir.ErrTooDeep)
}

func TestSleepScheduler(t *testing.T) {
	s := SleepScheduler{}
	assert.NoError(t, s.Wait(context.Background(), 0))
	assert.NoError(t, s.Wait(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Wait(ctx, time.Hour), context.Canceled)
}
