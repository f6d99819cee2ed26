package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/pagecheck/internal/recorder"
	"github.com/roach88/pagecheck/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Scenario string
	Limit    int
	RunID    string // optional - one run with its outcomes
	Compare  bool   // compare the two latest runs of Scenario
}

// RunSummary is one stored run in history output.
type RunSummary struct {
	ID        string    `json:"id"`
	Scenario  string    `json:"scenario"`
	Started   time.Time `json:"started_at"`
	Total     int       `json:"total"`
	Passed    int       `json:"passed"`
	Failed    int       `json:"failed"`
	PassRate  float64   `json:"pass_rate"`
	AbortedAt string    `json:"aborted_at,omitempty"`
}

// RunDetail is a stored run with its outcomes.
type RunDetail struct {
	RunSummary
	Artifacts []string        `json:"artifacts"`
	Outcomes  []OutcomeOutput `json:"outcomes"`
}

// ComparisonResult is the JSON payload of --compare.
type ComparisonResult struct {
	Base        string   `json:"base"`
	Head        string   `json:"head"`
	Regressions []string `json:"regressions"`
	Fixes       []string `json:"fixes"`
	Added       []string `json:"added"`
	Removed     []string `json:"removed"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show stored runs",
		Long: `List the runs recorded with "pagecheck run --db", newest first.

With --run, print the outcomes of one run. With --compare, diff the two
latest runs of --scenario and list the tests that changed state.

Exit codes:
  0 - Success (no regressions when comparing)
  1 - Comparison found regressions
  2 - Command error (database not found, unknown run, etc.)

Examples:
  pagecheck history --db ./history.db
  pagecheck history --db ./history.db --scenario practice --limit 5
  pagecheck history --db ./history.db --run 0192f7c4-...
  pagecheck history --db ./history.db --scenario practice --compare`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite history database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "only runs of this scenario")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs (0 = all)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show one run with its outcomes")
	cmd.Flags().BoolVar(&opts.Compare, "compare", false, "compare the two latest runs of --scenario")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.Compare && opts.Scenario == "" {
		return NewExitError(ExitCommandError, "--compare requires --scenario")
	}
	if _, err := os.Stat(opts.Database); err != nil {
		return WrapExitError(ExitCommandError, "database not found", err)
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	switch {
	case opts.RunID != "":
		return showRun(ctx, st, opts.RunID, formatter)
	case opts.Compare:
		return compareLatest(ctx, st, opts.Scenario, formatter)
	}

	runs, err := st.ListRuns(ctx, store.ListFilter{Scenario: opts.Scenario, Limit: opts.Limit})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	summaries := make([]RunSummary, 0, len(runs))
	for _, r := range runs {
		summaries = append(summaries, summarize(r))
	}

	if formatter.Format == "json" {
		return formatter.Success(summaries)
	}
	if len(summaries) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs found in database.")
		return nil
	}
	return writeRunTable(formatter.Writer, summaries)
}

func showRun(ctx context.Context, st *store.Store, id string, formatter *OutputFormatter) error {
	r, err := st.ReadRun(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return WrapExitError(ExitCommandError, "unknown run", err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	detail := RunDetail{RunSummary: summarize(r), Artifacts: r.Artifacts, Outcomes: make([]OutcomeOutput, 0, len(r.Outcomes))}
	for _, o := range r.Outcomes {
		detail.Outcomes = append(detail.Outcomes, OutcomeOutput{Name: o.Name, Passed: o.Passed, Details: o.Details})
	}
	if formatter.Format == "json" {
		return formatter.Success(detail)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Run %s (%s) %s\n", r.ID, r.Scenario, stamp(r.Started))
	fmt.Fprintf(w, "%d/%d passed (%.1f%%)\n\n", r.Summary.Passed, r.Summary.Total, r.Summary.PassRate)
	for _, o := range r.Outcomes {
		fmt.Fprintln(w, recorder.StatusLine(o))
	}
	if formatter.Verbose && len(r.Artifacts) > 0 {
		fmt.Fprintf(w, "\nArtifacts: %s\n", strings.Join(r.Artifacts, ", "))
	}
	return nil
}

func compareLatest(ctx context.Context, st *store.Store, scenario string, formatter *OutputFormatter) error {
	c, err := st.CompareLatest(ctx, scenario)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to compare runs", err)
	}

	result := ComparisonResult{
		Base:        c.Base.ID,
		Head:        c.Head.ID,
		Regressions: orEmpty(c.Regressions),
		Fixes:       orEmpty(c.Fixes),
		Added:       orEmpty(c.Added),
		Removed:     orEmpty(c.Removed),
	}

	if formatter.Format == "json" {
		response := CLIResponse{Status: "ok", Data: result}
		if len(c.Regressions) > 0 {
			response.Status = "error"
			response.Error = &CLIError{Code: "E_REGRESSION", Message: "regressions found"}
		}
		if err := formatter.Respond(response); err != nil {
			return err
		}
	} else {
		w := formatter.Writer
		fmt.Fprintf(w, "Comparing %s -> %s\n\n", c.Base.ID, c.Head.ID)
		list(w, "✗ Regressed", c.Regressions)
		list(w, "✓ Fixed", c.Fixes)
		list(w, "+ Added", c.Added)
		list(w, "- Removed", c.Removed)
		if !c.Changed() {
			fmt.Fprintln(w, "No changes.")
		}
	}

	if len(c.Regressions) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d test(s) regressed", len(c.Regressions)))
	}
	return nil
}

func summarize(r store.Run) RunSummary {
	return RunSummary{
		ID:        r.ID,
		Scenario:  r.Scenario,
		Started:   r.Started,
		Total:     r.Summary.Total,
		Passed:    r.Summary.Passed,
		Failed:    r.Summary.Failed,
		PassRate:  r.Summary.PassRate,
		AbortedAt: r.AbortedAt,
	}
}

func writeRunTable(w io.Writer, runs []RunSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSCENARIO\tSTARTED\tPASSED\tFAILED\tRATE\tABORTED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%.1f%%\t%s\n",
			r.ID, r.Scenario, stamp(r.Started), r.Passed, r.Failed, r.PassRate, r.AbortedAt)
	}
	return tw.Flush()
}

func list(w io.Writer, heading string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(w, "%s (%d)\n", heading, len(names))
	for _, n := range names {
		fmt.Fprintf(w, "  %s\n", n)
	}
	fmt.Fprintln(w)
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
