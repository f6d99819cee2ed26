package harness

import (
	"fmt"
	"strings"
)

// CriticalErrorName is the outcome recorded when a run is aborted.
const CriticalErrorName = "Critical Error"

// StepFailure is an error raised inside a single step.
type StepFailure struct {
	Step string
	Err  error
}

func (e *StepFailure) Error() string {
	return fmt.Sprintf("step %q: %v", e.Step, e.Err)
}

func (e *StepFailure) Unwrap() error {
	return e.Err
}

// CriticalFailure aborts the remaining steps of a run.
// Stage is "launch", "interrupted", or the name of the failing glue step.
type CriticalFailure struct {
	Stage string
	Err   error
}

func (e *CriticalFailure) Error() string {
	return fmt.Sprintf("critical failure at %s: %v", e.Stage, e.Err)
}

func (e *CriticalFailure) Unwrap() error {
	return e.Err
}

// TeardownFailure is returned by Run when the session could not be
// released. The report has still been rendered and persisted.
type TeardownFailure struct {
	Err error
}

func (e *TeardownFailure) Error() string {
	return fmt.Sprintf("teardown: %v", e.Err)
}

func (e *TeardownFailure) Unwrap() error {
	return e.Err
}

// AssertionError is returned when a step's expectation does not hold.
type AssertionError struct {
	Type     string // equals, contains, truthy, path
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "assertion failed: %s: ", e.Type)
	fmt.Fprintf(&buf, "expected %s, got %s", e.Expected, e.Actual)
	return buf.String()
}
