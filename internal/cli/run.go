package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/pagecheck/internal/artifact"
	"github.com/roach88/pagecheck/internal/browser"
	"github.com/roach88/pagecheck/internal/browser/cdp"
	"github.com/roach88/pagecheck/internal/harness"
	"github.com/roach88/pagecheck/internal/metrics"
	"github.com/roach88/pagecheck/internal/recorder"
	"github.com/roach88/pagecheck/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	OutDir    string
	Database  string
	Headless  bool
	Width     int
	Height    int
	Timeout   time.Duration
	NoMetrics bool

	// Launcher overrides the browser (for testing). Defaults to cdp.Launcher.
	Launcher browser.Launcher
	// Scheduler overrides the settle waits (for testing).
	Scheduler harness.Scheduler
}

// RunOutput is the JSON payload of a finished run.
type RunOutput struct {
	RunID     string          `json:"run_id"`
	Scenario  string          `json:"scenario"`
	Total     int             `json:"total"`
	Passed    int             `json:"passed"`
	Failed    int             `json:"failed"`
	PassRate  float64         `json:"pass_rate"`
	AbortedAt string          `json:"aborted_at,omitempty"`
	Report    string          `json:"report_file"`
	Artifacts []string        `json:"artifacts"`
	Outcomes  []OutcomeOutput `json:"outcomes"`
}

// OutcomeOutput is one recorded test.
type OutcomeOutput struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Details string `json:"details,omitempty"`
}

// newRunCommand builds the command around opts, keeping the fields that
// have no flag (Launcher, Scheduler).
func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [scenario | file.yaml]",
		Short: "Run a scenario against a real browser",
		Long: `Launch Chrome, run every step of a scenario and write the report.

The argument is the name of a built-in scenario (see "pagecheck list") or
the path to a scenario file. Without an argument the practice scenario runs.

Artifacts are written to --out: one PNG per screenshot, the plain-text
report <Prefix>-TestReport.txt and the metrics file <Prefix>-metrics.prom.
With --db, the run is also appended to a SQLite history database.

Exit codes:
  0 - Run completed (failed tests do not change the exit code)
  1 - Report, metrics or history could not be written
  2 - Command error (unknown scenario, bad flags, database not found)
  3 - The browser could not be closed

Examples:
  pagecheck run
  pagecheck run login --headless --db ./history.db
  pagecheck run ./scenarios/checkout.yaml --out ./artifacts`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var arg string
			if len(args) == 1 {
				arg = args[0]
			}
			return runScenario(opts, arg, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", ".", "directory for screenshots, report and metrics")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite history database (optional)")
	cmd.Flags().BoolVar(&opts.Headless, "headless", false, "run the browser without a window")
	cmd.Flags().IntVar(&opts.Width, "width", 1280, "browser window width")
	cmd.Flags().IntVar(&opts.Height, "height", 800, "browser window height")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "bound the whole browser session (0 = no limit)")
	cmd.Flags().BoolVar(&opts.NoMetrics, "no-metrics", false, "do not write the metrics file")

	return cmd
}

func runScenario(opts *RunOptions, arg string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	plan, err := ResolvePlan(arg)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	formatter.Debugf("Scenario %s: %d steps", plan.Name, len(plan.Steps))

	dir, err := artifact.NewDir(opts.OutDir, plan.Prefix)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to prepare output directory", err)
	}

	var hooks []harness.Hook
	m := metrics.New(plan.Name)
	if !opts.NoMetrics {
		metricsPath := dir.File(dir.MetricsName())
		hooks = append(hooks,
			m.ObserveResult,
			func(context.Context, *harness.Result) error {
				return m.WriteTextfile(metricsPath)
			},
		)
	}

	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		hooks = append(hooks, st.RecordResult)
	}

	launcher := opts.Launcher
	if launcher == nil {
		launcher = cdp.Launcher{}
	}

	// Status lines are the text output; in JSON mode they move to stderr.
	statusOut := cmd.OutOrStdout()
	if opts.Format == "json" {
		statusOut = cmd.ErrOrStderr()
	}
	rec := recorder.New(statusOut, recorder.WithLogger(logger))

	ctx, stop := signalContext(cmd, logger)
	defer stop()

	res, runErr := harness.Run(ctx, harness.Config{
		Plan:     plan,
		Launcher: launcher,
		Options: browser.Options{
			Headless: opts.Headless,
			Width:    opts.Width,
			Height:   opts.Height,
			Timeout:  opts.Timeout,
			Logger:   logger,
		},
		Recorder:  rec,
		Sink:      dir,
		Scheduler: opts.Scheduler,
		Logger:    logger,
		Observer:  m,
		Hooks:     hooks,
	})
	if res == nil {
		return WrapExitError(ExitFailure, "run failed", runErr)
	}

	if err := outputRun(formatter, rec, plan, dir, res); err != nil {
		return err
	}

	var teardown *harness.TeardownFailure
	switch {
	case errors.As(runErr, &teardown):
		return WrapExitError(ExitTeardownFailure, "failed to close browser", runErr)
	case runErr != nil:
		return WrapExitError(ExitFailure, "run finished with errors", runErr)
	}
	return nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM. The
// command's context is the parent when set (tests).
func signalContext(cmd *cobra.Command, logger *slog.Logger) (context.Context, func()) {
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, stopping run", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

func outputRun(f *OutputFormatter, rec *recorder.Recorder, plan *harness.Plan, dir *artifact.Dir, res *harness.Result) error {
	if f.Format == "json" {
		out := RunOutput{
			RunID:     res.RunID,
			Scenario:  res.Scenario,
			Total:     res.Summary.Total,
			Passed:    res.Summary.Passed,
			Failed:    res.Summary.Failed,
			PassRate:  res.Summary.PassRate,
			Report:    dir.File(dir.ReportName()),
			Artifacts: res.Artifacts,
			Outcomes:  make([]OutcomeOutput, 0, len(res.Outcomes)),
		}
		if out.Artifacts == nil {
			out.Artifacts = []string{}
		}
		if res.Critical != nil {
			out.AbortedAt = res.Critical.Stage
		}
		for _, o := range res.Outcomes {
			out.Outcomes = append(out.Outcomes, OutcomeOutput{Name: o.Name, Passed: o.Passed, Details: o.Details})
		}
		return f.Success(out)
	}

	w := f.Writer
	fmt.Fprintln(w)
	if f.Verbose {
		fmt.Fprintln(w, rec.Table(plan.Layout))
	}
	fmt.Fprintf(w, "%d/%d passed (%.1f%%)\n", res.Summary.Passed, res.Summary.Total, res.Summary.PassRate)
	if res.Critical != nil {
		fmt.Fprintf(w, "Run aborted at %s: %v\n", res.Critical.Stage, res.Critical.Err)
	}
	fmt.Fprintf(w, "Report: %s\n", dir.File(dir.ReportName()))
	return nil
}
