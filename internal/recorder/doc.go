// Package recorder accumulates named pass/fail outcomes for one test run and
// renders the run report.
//
// Every Record call prints a status line immediately, so a long run shows
// progress as it goes. Render is a pure function of the recorded state and
// produces the plain-text report persisted at the end of the run.
//
// A Recorder belongs to a single run and is not safe for concurrent use.
package recorder
