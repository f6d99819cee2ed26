package harness

import (
	"context"
	"time"

	"github.com/roach88/pagecheck/internal/recorder"
)

// Action is the body of a step. It returns the verdict to record, or an
// error when the step could not be carried out.
type Action func(ctx context.Context, env *Env) (Verdict, error)

// Step is one named unit of a run.
type Step struct {
	Name string

	// WaitBefore and WaitAfter are settle delays around the action.
	WaitBefore time.Duration
	WaitAfter  time.Duration

	// Glue marks infrastructure steps (navigation, screenshots, page info).
	// A failing glue step aborts the run with a CriticalFailure; any other
	// failing step is recorded and the run continues.
	Glue bool

	Action Action
}

// Verdict is the outcome a step reports.
type Verdict struct {
	Passed  bool
	Details string
	// Silent verdicts are not recorded.
	Silent bool
}

// Pass returns a passing verdict.
func Pass(details string) Verdict {
	return Verdict{Passed: true, Details: details}
}

// Fail returns a failing verdict.
func Fail(details string) Verdict {
	return Verdict{Passed: false, Details: details}
}

// Check returns a passing verdict when ok holds.
func Check(ok bool, details string) Verdict {
	return Verdict{Passed: ok, Details: details}
}

// Silent returns a verdict that records nothing.
func Silent() Verdict {
	return Verdict{Passed: true, Silent: true}
}

// StepResult is the tagged outcome of running one step: either a Verdict
// or a Failure, never both.
type StepResult struct {
	Step     string
	Verdict  Verdict
	Failure  *StepFailure
	Duration time.Duration
}

// Failed reports whether the step raised instead of returning a verdict.
func (r StepResult) Failed() bool {
	return r.Failure != nil
}

// Passed reports whether the step produced a passing verdict.
func (r StepResult) Passed() bool {
	return r.Failure == nil && r.Verdict.Passed
}

// Plan is everything needed to run one scenario.
type Plan struct {
	Name        string
	Description string
	// Prefix names the artifacts of the run, e.g. "AutomationPractice".
	Prefix string
	Layout recorder.Layout
	// Screenshots lists the snapshot names the plan takes, in order.
	Screenshots []string
	Steps       []Step
}

// Result is the outcome of a whole run.
type Result struct {
	Scenario  string
	RunID     string
	Summary   recorder.Summary
	Outcomes  []recorder.Outcome
	Started   time.Time
	Ended     time.Time
	Report    string
	Artifacts []string
	// Critical is set when the run was aborted.
	Critical *CriticalFailure
	// Steps holds the result of every step that ran, in order.
	Steps []StepResult
}

// Aborted reports whether a critical failure stopped the run early.
func (r *Result) Aborted() bool {
	return r.Critical != nil
}
