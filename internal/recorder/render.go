package recorder

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// DefaultBanner closes every report unless Layout.Banner is set.
const DefaultBanner = "END OF REPORT"

// timestampLayout matches JavaScript's Date.toISOString.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Layout holds the fixed, per-scenario parts of a report.
type Layout struct {
	Title string
	// Artifacts lists the snapshot files the run produces, in order.
	Artifacts []string
	// Included lists the tests the scenario covers. Optional.
	Included []string
	Banner   string
}

// Render produces the plain-text report. The output depends only on the
// recorded state and the layout.
func (r *Recorder) Render(l Layout) string {
	var b strings.Builder
	s := r.Summary()

	title := l.Title
	if title == "" {
		title = "TEST REPORT"
	}
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len([]rune(title))) + "\n")
	fmt.Fprintf(&b, "Run: %s\n", r.runID)
	fmt.Fprintf(&b, "Generated: %s\n", stamp(r.ended))

	section(&b, "SUMMARY:", true)
	fmt.Fprintf(&b, "Total Tests Run: %d\n", s.Total)
	fmt.Fprintf(&b, "Passed: %d\n", s.Passed)
	fmt.Fprintf(&b, "Failed: %d\n", s.Failed)
	fmt.Fprintf(&b, "Success Rate: %.2f%%\n", s.PassRate)

	section(&b, "PASSED TESTS:", false)
	if s.Passed == 0 {
		b.WriteString("None\n")
	}
	numbered(&b, r.names(true))

	if s.Failed > 0 {
		section(&b, "FAILED TESTS:", false)
		numbered(&b, r.names(false))
	}

	section(&b, "TIMING:", true)
	fmt.Fprintf(&b, "Start Time: %s\n", stamp(r.started))
	fmt.Fprintf(&b, "End Time: %s\n", stamp(r.ended))
	if r.finished {
		fmt.Fprintf(&b, "Duration: %s\n", r.ended.Sub(r.started))
	}

	section(&b, "SCREENSHOTS:", true)
	if len(l.Artifacts) == 0 {
		b.WriteString("None\n")
	}
	numbered(&b, l.Artifacts)

	if len(l.Included) > 0 {
		section(&b, "TESTS INCLUDED:", true)
		numbered(&b, l.Included)
	}

	banner := l.Banner
	if banner == "" {
		banner = DefaultBanner
	}
	b.WriteString("\n" + banner + "\n")
	return b.String()
}

// Table renders the outcomes as a console table with a totals footer.
func (r *Recorder) Table(l Layout) string {
	s := r.Summary()

	t := table.NewWriter()
	if l.Title != "" {
		t.SetTitle(l.Title)
	}
	if s.Failed > 0 {
		t.SetStyle(table.StyleDouble)
	} else {
		t.SetStyle(table.StyleLight)
	}
	t.AppendHeader(table.Row{"#", "Test", "Status", "Details"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "#", Align: text.AlignRight},
		{Name: "Test", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Details", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, o := range r.outcomes {
		t.AppendRow(table.Row{o.Seq, o.Name, status(o.Passed), o.Details})
	}
	t.AppendFooter(table.Row{
		"",
		fmt.Sprintf("Total %d", s.Total),
		fmt.Sprintf("%d passed, %d failed", s.Passed, s.Failed),
		fmt.Sprintf("%.2f%%", s.PassRate),
	})
	return t.Render()
}

func status(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}

func (r *Recorder) names(passed bool) []string {
	var out []string
	for _, o := range r.outcomes {
		if o.Passed == passed {
			out = append(out, o.Name)
		}
	}
	return out
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(timestampLayout)
}

func section(b *strings.Builder, heading string, rule bool) {
	b.WriteString("\n" + heading + "\n")
	if rule {
		b.WriteString(strings.Repeat("-", len(heading)) + "\n")
	}
}

func numbered(b *strings.Builder, items []string) {
	for i, item := range items {
		fmt.Fprintf(b, "%d. %s\n", i+1, item)
	}
}
