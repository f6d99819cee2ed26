package recorder

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
)

// Outcome is one recorded test result. Seq starts at 1.
type Outcome struct {
	Seq     int
	Name    string
	Passed  bool
	Details string
}

// Summary holds the run totals.
type Summary struct {
	Total    int
	Passed   int
	Failed   int
	PassRate float64 // percent, rounded to two decimals
}

// IDGenerator produces run identifiers.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run IDs.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Recorder collects outcomes for a single run.
type Recorder struct {
	out    io.Writer
	logger *slog.Logger
	now    func() time.Time
	ids    IDGenerator

	runID    string
	started  time.Time
	ended    time.Time
	finished bool
	outcomes []Outcome
	passed   int
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithLogger sets the logger that receives a debug record per outcome.
func WithLogger(l *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = l
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		r.now = now
	}
}

// WithIDGenerator replaces the UUIDv7 run ID generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(r *Recorder) {
		r.ids = g
	}
}

// New starts a run. Status lines are written to out; a nil out discards them.
func New(out io.Writer, opts ...Option) *Recorder {
	r := &Recorder{
		out:    out,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
		ids:    UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.out == nil {
		r.out = io.Discard
	}

	r.runID = r.ids.Generate()
	r.started = r.now().UTC()
	return r
}

// Record appends an outcome and prints its status line.
// Recording the same name twice yields two outcomes.
func (r *Recorder) Record(name string, passed bool, details string) {
	o := Outcome{
		Seq:     len(r.outcomes) + 1,
		Name:    name,
		Passed:  passed,
		Details: details,
	}
	r.outcomes = append(r.outcomes, o)
	if passed {
		r.passed++
	}

	fmt.Fprintln(r.out, StatusLine(o))
	r.logger.Debug("outcome recorded",
		"run", r.runID,
		"seq", o.Seq,
		"name", name,
		"passed", passed,
	)
}

// StatusLine formats the line printed for an outcome.
func StatusLine(o Outcome) string {
	label := "✅ PASSED"
	if !o.Passed {
		label = "❌ FAILED"
	}
	if o.Details == "" {
		return fmt.Sprintf("%s: %s", label, o.Name)
	}
	return fmt.Sprintf("%s: %s - %s", label, o.Name, o.Details)
}

// Summary returns the totals recorded so far.
func (r *Recorder) Summary() Summary {
	total := len(r.outcomes)
	s := Summary{
		Total:  total,
		Passed: r.passed,
		Failed: total - r.passed,
	}
	if total > 0 {
		s.PassRate = math.Round(float64(r.passed)/float64(total)*100*100) / 100
	}
	return s
}

// Finish stamps the end time. Only the first call has an effect.
func (r *Recorder) Finish() {
	if r.finished {
		return
	}
	r.finished = true
	r.ended = r.now().UTC()
}

// Finished reports whether Finish has been called.
func (r *Recorder) Finished() bool {
	return r.finished
}

// Outcomes returns a copy of the recorded outcomes in call order.
func (r *Recorder) Outcomes() []Outcome {
	out := make([]Outcome, len(r.outcomes))
	copy(out, r.outcomes)
	return out
}

// RunID returns the identifier assigned at New.
func (r *Recorder) RunID() string {
	return r.runID
}

// Started returns the run start time in UTC.
func (r *Recorder) Started() time.Time {
	return r.started
}

// Ended returns the run end time, or the zero time before Finish.
func (r *Recorder) Ended() time.Time {
	return r.ended
}
