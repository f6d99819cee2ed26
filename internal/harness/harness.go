package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/roach88/pagecheck/internal/browser"
	"github.com/roach88/pagecheck/internal/recorder"
)

// Observer is notified after every step that ran.
type Observer interface {
	StepDone(step string, passed bool, d time.Duration)
}

// Hook runs after the report has been persisted, e.g. to store run history.
type Hook func(ctx context.Context, res *Result) error

// Config wires a run.
type Config struct {
	Plan     *Plan
	Launcher browser.Launcher
	Options  browser.Options

	// Recorder receives the outcomes. Defaults to one printing to stdout.
	Recorder  *recorder.Recorder
	Sink      Sink
	Scheduler Scheduler
	Logger    *slog.Logger
	Observer  Observer
	Hooks     []Hook
}

// Run executes the plan's steps in order against one browser session.
//
// Failures inside a regular step are recorded and the run continues.
// A failing glue step, a launch failure or a cancelled ctx aborts the run:
// a single "Critical Error" outcome is recorded and the remaining steps are
// skipped. Whatever happens, the session is closed exactly once, the report
// is rendered and handed to the sink, and the hooks run.
//
// The returned error is nil when the run completed, even with failed tests.
// It wraps *TeardownFailure when the session could not be closed, and
// carries sink and hook errors otherwise. The Result is always non-nil.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Plan == nil {
		return nil, fmt.Errorf("run: plan is required")
	}
	if cfg.Launcher == nil {
		return nil, fmt.Errorf("run: launcher is required")
	}
	if cfg.Recorder != nil && cfg.Recorder.Finished() {
		return nil, fmt.Errorf("run: recorder belongs to a finished run")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = discardLogger()
	}
	logger = logger.With("scenario", cfg.Plan.Name)
	rec := cfg.Recorder
	if rec == nil {
		rec = recorder.New(os.Stdout, recorder.WithLogger(logger))
	}
	sched := cfg.Scheduler
	if sched == nil {
		sched = SleepScheduler{}
	}

	res := &Result{Scenario: cfg.Plan.Name, RunID: rec.RunID()}
	logger.Info("run started", "run", rec.RunID(), "steps", len(cfg.Plan.Steps))

	var teardown error
	err := browser.WithSession(ctx, cfg.Launcher, cfg.Options, func(s browser.Session) error {
		env := &Env{
			Session:   s,
			sink:      cfg.Sink,
			scheduler: sched,
			logger:    logger,
		}
		executeSteps(ctx, env, cfg, rec, res)
		return nil
	})

	var launchErr *browser.LaunchError
	var closeErr *browser.CloseError
	switch {
	case errors.As(err, &launchErr):
		abort(rec, res, &CriticalFailure{Stage: "launch", Err: launchErr.Err}, logger)
	case errors.As(err, &closeErr):
		teardown = &TeardownFailure{Err: closeErr.Err}
		logger.Error("closing browser failed", "error", closeErr.Err)
	case err != nil:
		teardown = &TeardownFailure{Err: err}
	}

	return res, finalize(ctx, cfg, rec, res, teardown, logger)
}

func executeSteps(ctx context.Context, env *Env, cfg Config, rec *recorder.Recorder, res *Result) {
	for _, step := range cfg.Plan.Steps {
		if err := ctx.Err(); err != nil {
			abort(rec, res, &CriticalFailure{Stage: "interrupted", Err: err}, env.logger)
			return
		}

		sr := runStep(ctx, env, step)
		res.Steps = append(res.Steps, sr)
		if cfg.Observer != nil {
			cfg.Observer.StepDone(step.Name, sr.Passed(), sr.Duration)
		}

		if sr.Failed() {
			env.logger.Warn("step failed", "step", step.Name, "error", sr.Failure.Err)
			if step.Glue || ctx.Err() != nil {
				abort(rec, res, &CriticalFailure{Stage: step.Name, Err: sr.Failure.Err}, env.logger)
				return
			}
			rec.Record(step.Name, false, failureDetails(sr.Failure.Err))
			continue
		}

		if !sr.Verdict.Silent {
			rec.Record(step.Name, sr.Verdict.Passed, sr.Verdict.Details)
		}
	}
}

// runStep never panics: a panicking action becomes a StepFailure.
func runStep(ctx context.Context, env *Env, step Step) (sr StepResult) {
	start := time.Now()
	sr.Step = step.Name
	defer func() {
		if p := recover(); p != nil {
			sr.Verdict = Verdict{}
			sr.Failure = &StepFailure{Step: step.Name, Err: fmt.Errorf("panic: %v", p)}
		}
		sr.Duration = time.Since(start)
	}()

	fail := func(err error) StepResult {
		sr.Failure = &StepFailure{Step: step.Name, Err: err}
		return sr
	}

	if step.WaitBefore > 0 {
		if err := env.Wait(ctx, step.WaitBefore); err != nil {
			return fail(err)
		}
	}
	if step.Action == nil {
		return fail(fmt.Errorf("no action"))
	}
	v, err := step.Action(ctx, env)
	if err != nil {
		return fail(err)
	}
	if step.WaitAfter > 0 {
		if err := env.Wait(ctx, step.WaitAfter); err != nil {
			return fail(err)
		}
	}
	sr.Verdict = v
	return sr
}

func abort(rec *recorder.Recorder, res *Result, cf *CriticalFailure, logger *slog.Logger) {
	res.Critical = cf
	logger.Error("run aborted", "stage", cf.Stage, "error", cf.Err)
	rec.Record(CriticalErrorName, false, failureDetails(cf.Err))
}

// failureDetails is the message recorded for a failed step: the client's
// own error text, without the operation prefix browser.Wrap adds.
func failureDetails(err error) string {
	var ce *browser.ClientError
	if errors.As(err, &ce) && ce.Err != nil {
		return ce.Err.Error()
	}
	return err.Error()
}

func finalize(ctx context.Context, cfg Config, rec *recorder.Recorder, res *Result, teardown error, logger *slog.Logger) error {
	rec.Finish()

	layout := cfg.Plan.Layout
	if len(layout.Artifacts) == 0 {
		for _, name := range cfg.Plan.Screenshots {
			if cfg.Sink != nil {
				name = cfg.Sink.ScreenshotName(name)
			}
			layout.Artifacts = append(layout.Artifacts, name)
		}
	}

	res.Summary = rec.Summary()
	res.Outcomes = rec.Outcomes()
	res.Started = rec.Started()
	res.Ended = rec.Ended()
	res.Report = rec.Render(layout)
	res.Artifacts = layout.Artifacts

	errs := []error{teardown}
	if cfg.Sink != nil {
		if err := cfg.Sink.SaveReport(res.Report); err != nil {
			errs = append(errs, fmt.Errorf("save report: %w", err))
		}
	}
	// Hooks see a completed result even when ctx was cancelled.
	hookCtx := context.WithoutCancel(ctx)
	for _, hook := range cfg.Hooks {
		if err := hook(hookCtx, res); err != nil {
			logger.Warn("run hook failed", "error", err)
			errs = append(errs, err)
		}
	}

	logger.Info("run finished",
		"run", res.RunID,
		"total", res.Summary.Total,
		"passed", res.Summary.Passed,
		"failed", res.Summary.Failed,
		"aborted", res.Aborted(),
	)
	return errors.Join(errs...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
