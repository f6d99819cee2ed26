package scenarios

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/pagecheck/internal/harness"
	"github.com/roach88/pagecheck/internal/ir"
	"github.com/roach88/pagecheck/internal/table"
)

// Delays used by the built-in scenarios.
const (
	pageLoad = 3 * time.Second
	settle   = time.Second
	react    = 1500 * time.Millisecond
	popup    = 2 * time.Second
)

// openPage navigates, lets the page load and takes the first snapshot.
func openPage(name, url, shot string) harness.Step {
	return harness.Step{
		Name:      name,
		Glue:      true,
		WaitAfter: settle,
		Action: func(ctx context.Context, env *harness.Env) (harness.Verdict, error) {
			if err := env.Navigate(ctx, url); err != nil {
				return harness.Verdict{}, err
			}
			if err := env.Wait(ctx, pageLoad); err != nil {
				return harness.Verdict{}, err
			}
			if err := env.Screenshot(ctx, shot); err != nil {
				return harness.Verdict{}, err
			}
			return harness.Pass(""), nil
		},
	}
}

// snapshot is a glue step that saves a screenshot without recording.
func snapshot(name string) harness.Step {
	return harness.Step{
		Name:      "screenshot " + name,
		Glue:      true,
		WaitAfter: settle,
		Action: func(ctx context.Context, env *harness.Env) (harness.Verdict, error) {
			if err := env.Screenshot(ctx, name); err != nil {
				return harness.Verdict{}, err
			}
			return harness.Silent(), nil
		},
	}
}

// pageInfo logs the title and URL of the loaded page.
func pageInfo() harness.Step {
	return harness.Step{
		Name:      "page info",
		Glue:      true,
		WaitAfter: settle,
		Action: func(ctx context.Context, env *harness.Env) (harness.Verdict, error) {
			v, err := env.Evaluate(ctx, pageInfoScript)
			if err != nil {
				return harness.Verdict{}, err
			}
			env.Logger().Info("page loaded", "title", field(v, "title"), "url", field(v, "url"))
			return harness.Silent(), nil
		},
	}
}

// check is a regular, recorded step followed by the usual settle delay.
func check(name string, action harness.Action) harness.Step {
	return harness.Step{Name: name, WaitAfter: settle, Action: action}
}

// field returns the string form of v[key], or "" when absent.
func field(v ir.Value, key string) string {
	got, ok := ir.Lookup(v, key)
	if !ok {
		return ""
	}
	if _, null := got.(ir.Null); null {
		return ""
	}
	return ir.String(got)
}

// flag returns the truthiness of v[key].
func flag(v ir.Value, key string) bool {
	got, ok := ir.Lookup(v, key)
	return ok && ir.Truthy(got)
}

// prefix returns at most n runes of s.
func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// readTable extracts the densest table of the current page from its
// serialized DOM. Returns false when the page has no table.
func readTable(ctx context.Context, env *harness.Env) (table.Parsed, bool, error) {
	v, err := env.Evaluate(ctx, pageHTMLScript)
	if err != nil {
		return table.Parsed{}, false, err
	}
	html, ok := ir.AsString(v)
	if !ok {
		return table.Parsed{}, false, fmt.Errorf("read tables: page html is %T, not a string", v)
	}
	candidates, err := table.FromHTML(strings.NewReader(html))
	if err != nil {
		return table.Parsed{}, false, fmt.Errorf("read tables: %w", err)
	}
	best, ok := table.SelectDensest(candidates)
	if !ok {
		return table.Parsed{}, false, nil
	}
	return table.Parse(best), true, nil
}
