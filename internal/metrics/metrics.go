// Package metrics exports run results in the Prometheus text format.
//
// Metrics are kept in a private registry per run and written once, at the
// end, as a node-exporter style textfile.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/roach88/pagecheck/internal/harness"
)

// Namespace prefixes every metric name.
const Namespace = "pagecheck"

const (
	resultPass = "pass"
	resultFail = "fail"
)

// Metrics observes one run. It implements harness.Observer, and
// ObserveResult has the signature of a harness.Hook.
type Metrics struct {
	scenario string
	reg      *prometheus.Registry

	steps        *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
	tests        *prometheus.GaugeVec
	passRate     *prometheus.GaugeVec
	aborts       *prometheus.CounterVec
	runDuration  *prometheus.GaugeVec
	lastRun      *prometheus.GaugeVec
}

// New creates the metrics of a run of scenario.
func New(scenario string) *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		scenario: scenario,
		reg:      reg,
		steps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "steps_total",
			Help:      "Count of executed steps by result",
		}, []string{"scenario", "step", "result"}),
		stepDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "step_duration_seconds",
			Help:      "Duration of executed steps, waits included",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		}, []string{"scenario"}),
		tests: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "tests",
			Help:      "Number of recorded tests of the last run by result",
		}, []string{"scenario", "result"}),
		passRate: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "pass_rate_percent",
			Help:      "Pass rate of the last run",
		}, []string{"scenario"}),
		aborts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "aborts_total",
			Help:      "Count of runs stopped by a critical failure",
		}, []string{"scenario", "stage"}),
		runDuration: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run",
		}, []string{"scenario"}),
		lastRun: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run ended",
		}, []string{"scenario"}),
	}
}

// Registry returns the registry holding the run's metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// StepDone implements harness.Observer.
func (m *Metrics) StepDone(step string, passed bool, d time.Duration) {
	m.steps.WithLabelValues(m.scenario, step, result(passed)).Inc()
	m.stepDuration.WithLabelValues(m.scenario).Observe(d.Seconds())
}

// ObserveResult records the totals of a finished run.
func (m *Metrics) ObserveResult(_ context.Context, res *harness.Result) error {
	m.tests.WithLabelValues(m.scenario, resultPass).Set(float64(res.Summary.Passed))
	m.tests.WithLabelValues(m.scenario, resultFail).Set(float64(res.Summary.Failed))
	m.passRate.WithLabelValues(m.scenario).Set(res.Summary.PassRate)
	if res.Critical != nil {
		m.aborts.WithLabelValues(m.scenario, res.Critical.Stage).Inc()
	}
	if !res.Started.IsZero() && !res.Ended.IsZero() {
		m.runDuration.WithLabelValues(m.scenario).Set(res.Ended.Sub(res.Started).Seconds())
	}
	if !res.Ended.IsZero() {
		m.lastRun.WithLabelValues(m.scenario).Set(float64(res.Ended.Unix()))
	}
	return nil
}

// WriteTextfile writes every metric to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

func result(passed bool) string {
	if passed {
		return resultPass
	}
	return resultFail
}
