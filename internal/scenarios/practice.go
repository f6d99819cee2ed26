package scenarios

import (
	"context"
	"fmt"

	"github.com/roach88/pagecheck/internal/harness"
	"github.com/roach88/pagecheck/internal/ir"
	"github.com/roach88/pagecheck/internal/recorder"
	"github.com/roach88/pagecheck/internal/table"
)

// PracticeURL is the page the practice scenario drives.
const PracticeURL = "https://rahulshettyacademy.com/AutomationPractice/"

const (
	nameSelector = `input[placeholder*="Name"]`
	nameInput    = "Aniket"
	suggestion   = "India"
)

var practiceIncluded = []string{
	"Page Navigation & Initialization",
	"Radio Button Selection",
	"Checkbox Selection",
	"Dropdown Selection",
	"Text Input (Name Field)",
	"Alert Dialog Interaction",
	"Confirm Dialog Interaction",
	"Web Table Data Extraction",
	"Table Filtering & Analysis",
	"Element Hide/Show Visibility",
	"Window/Tab Opening",
	"Window/Tab Switching",
	"Window Communication Capabilities",
	`Suggestion Class / Autocomplete Example (Type "India" and Select)`,
}

// Practice exercises the form controls, dialogs, web table, visibility
// toggles, window helpers and autocomplete of the automation practice page.
func Practice() *harness.Plan {
	return &harness.Plan{
		Name:        "practice",
		Description: "Form controls, dialogs, tables, visibility, windows and autocomplete on the practice page",
		Prefix:      "AutomationPractice",
		Layout: recorder.Layout{
			Title:    "AUTOMATION PRACTICE TEST REPORT",
			Included: practiceIncluded,
		},
		Screenshots: []string{"initial", "form-filled", "final"},
		Steps: []harness.Step{
			openPage("Navigation to Practice Page", PracticeURL, "initial"),
			pageInfo(),
			check("Radio Button Selection", toggle(`input[type="radio"]`)),
			check("Checkbox Selection", toggle(`input[type="checkbox"]`)),
			check("Dropdown Selection", selectDropdown),
			snapshot("form-filled"),
			check("Name Field Input", typeName),
			check("Alert Dialog Interaction", dialog("alert")),
			check("Confirm Dialog Interaction", dialog("confirm")),
			check("Table Data Extraction", extractTable),
			check("Table Filtering", filterTable),
			check("Hide Element", hideElement),
			check("Show Element", showElement),
			check("Window/Tab Opening", openingLink),
			check("Window/Tab Switching", windowState),
			check("Window Communication", windowCapabilities),
			check("Suggestion Class Example", autocomplete),
			snapshot("final"),
		},
	}
}

// toggle clicks the first element matching selector and checks that it
// ended up checked.
func toggle(selector string) harness.Action {
	return func(ctx context.Context, env *harness.Env) (harness.Verdict, error) {
		if err := env.Click(ctx, selector); err != nil {
			return harness.Verdict{}, err
		}
		if err := env.Wait(ctx, settle); err != nil {
			return harness.Verdict{}, err
		}
		v, err := env.Evaluate(ctx, checkedScript(selector))
		if err != nil {
			return harness.Verdict{}, err
		}
		return harness.Check(ir.Truthy(v), ""), nil
	}
}

func selectDropdown(ctx context.Context, env *harness.Env) (harness.Verdict, error) {
	options, err := env.Evaluate(ctx, dropdownOptionsScript)
	if err != nil {
		return harness.Verdict{}, err
	}
	if arr, ok := options.(ir.List); ok {
		env.Logger().Debug("dropdown options", "count", len(arr), "options", ir.String(arr))
	}
	selected, err := env.Evaluate(ctx, dropdownSelectScript)
	if err != nil {
		return harness.Verdict{}, err
	}
	return harness.Pass(ir.String(selected)), nil
}

func typeName(ctx context.Context, env *harness.Env) (harness.Verdict, error) {
	if err := env.Type(ctx, nameSelector, nameInput); err != nil {
		return harness.Verdict{}, err
	}
	if err := env.Wait(ctx, react); err != nil {
		return harness.Verdict{}, err
	}
	v, err := env.Evaluate(ctx, inputValueScript(nameSelector))
	if err != nil {
		return harness.Verdict{}, err
	}
	got := ir.String(v)
	return harness.Check(got == nameInput, got), nil
}

// dialog replaces the page's dialog function, presses the button whose
// value mentions kind and reports the captured message.
func dialog(kind string) harness.Action {
	scripts := dialogScriptsFor(kind)
	return func(ctx context.Context, env *harness.Env) (harness.Verdict, error) {
		if _, err := env.Evaluate(ctx, scripts.capture); err != nil {
			return harness.Verdict{}, err
		}
		clicked, err := env.Evaluate(ctx, scripts.click)
		if err != nil {
			return harness.Verdict{}, err
		}
		if !ir.Truthy(clicked) {
			return harness.Fail("Button not found"), nil
		}
		if err := env.Wait(ctx, popup); err != nil {
			return harness.Verdict{}, err
		}
		msg, err := env.Evaluate(ctx, scripts.read)
		if err != nil {
			return harness.Verdict{}, err
		}
		return harness.Pass(ir.String(msg)), nil
	}
}

func extractTable(ctx context.Context, env *harness.Env) (harness.Verdict, error) {
	parsed, ok, err := readTable(ctx, env)
	if err != nil {
		return harness.Verdict{}, err
	}
	if !ok {
		return harness.Fail("No tables"), nil
	}
	env.Logger().Info("table extracted", "headers", parsed.Headers, "rows", len(parsed.Rows))
	if len(parsed.Rows) == 0 {
		return harness.Silent(), nil
	}
	return harness.Pass(fmt.Sprintf("%d rows extracted", len(parsed.Rows))), nil
}

// Columns of the course table, used when its headers are not recognized.
const (
	courseColumn = 1
	priceColumn  = 2
)

func filterTable(ctx context.Context, env *harness.Env) (harness.Verdict, error) {
	parsed, ok, err := readTable(ctx, env)
	if err != nil {
		return harness.Verdict{}, err
	}
	if !ok {
		return harness.Fail("No tables"), nil
	}
	rows := parsed.Rows
	if len(rows) == 0 {
		return harness.Pass("Table analyzed (no data rows currently available)"), nil
	}

	course := column(parsed, "Course", courseColumn)
	price := column(parsed, "Price", priceColumn)

	selenium := table.Filter(rows, table.Contains(course, "selenium"))
	cheap := table.Filter(rows, table.Between(price, 0, 25))
	free := table.Filter(rows, table.Equals(price, 0))
	attrs := []any{
		"rows", len(rows),
		"selenium", len(selenium),
		"under_25", len(cheap),
		"free", len(free),
	}
	if top, ok := table.MaxNumeric(rows, price); ok {
		attrs = append(attrs, "max_price", top)
	}
	env.Logger().Info("table analyzed", attrs...)

	return harness.Pass(fmt.Sprintf("Analyzed %d rows", len(rows))), nil
}

func column(p table.Parsed, name string, fallback int) int {
	if i := p.Column(name); i >= 0 {
		return i
	}
	return fallback
}

func hideElement(ctx context.Context, env *harness.Env) (harness.Verdict, error) {
	clicked, err := env.Evaluate(ctx, pressButtonScript("Hide"))
	if err != nil {
		return harness.Verdict{}, err
	}
	if !ir.Truthy(clicked) {
		return harness.Fail("Hide button not found"), nil
	}
	if err := env.Wait(ctx, react); err != nil {
		return harness.Verdict{}, err
	}
	v, err := env.Evaluate(ctx, visibilityScript)
	if err != nil {
		return harness.Verdict{}, err
	}
	if field(v, "error") != "" {
		env.Logger().Warn("visibility target not found")
		return harness.Silent(), nil
	}
	return harness.Check(!flag(v, "isVisible"), "Element hidden successfully"), nil
}

func showElement(ctx context.Context, env *harness.Env) (harness.Verdict, error) {
	clicked, err := env.Evaluate(ctx, pressButtonScript("Show"))
	if err != nil {
		return harness.Verdict{}, err
	}
	if !ir.Truthy(clicked) {
		return harness.Fail("Show button not found"), nil
	}
	if err := env.Wait(ctx, react); err != nil {
		return harness.Verdict{}, err
	}
	v, err := env.Evaluate(ctx, visibilityScript)
	if err != nil {
		return harness.Verdict{}, err
	}
	if field(v, "error") != "" {
		return harness.Pass("Show button clicked (element visibility undetermined)"), nil
	}
	if flag(v, "isVisible") || field(v, "display") != "none" {
		return harness.Pass("Element displayed successfully"), nil
	}
	return harness.Fail("Element may not be visible"), nil
}

func openingLink(ctx context.Context, env *harness.Env) (harness.Verdict, error) {
	v, err := env.Evaluate(ctx, firstLinkScript)
	if err != nil {
		return harness.Verdict{}, err
	}
	if !flag(v, "linkFound") {
		return harness.Pass("Page analyzed (no links to test)"), nil
	}
	env.Logger().Debug("link found", "text", field(v, "linkText"), "href", field(v, "linkHref"))
	if err := env.Wait(ctx, react); err != nil {
		return harness.Verdict{}, err
	}
	return harness.Pass("Link identified for new tab: " + prefix(field(v, "linkText"), 30)), nil
}

func windowState(ctx context.Context, env *harness.Env) (harness.Verdict, error) {
	v, err := env.Evaluate(ctx, windowInfoScript)
	if err != nil {
		return harness.Verdict{}, err
	}
	env.Logger().Debug("window state",
		"url", field(v, "currentUrl"),
		"name", field(v, "windowName"),
		"opener", flag(v, "hasOpener"),
	)
	if err := env.Wait(ctx, react); err != nil {
		return harness.Verdict{}, err
	}
	return harness.Pass("Current tab: " + field(v, "windowTitle")), nil
}

func windowCapabilities(ctx context.Context, env *harness.Env) (harness.Verdict, error) {
	v, err := env.Evaluate(ctx, windowCapabilitiesScript)
	if err != nil {
		return harness.Verdict{}, err
	}
	env.Logger().Debug("window capabilities",
		"open", flag(v, "canOpenWindow"),
		"post_message", flag(v, "canPostMessage"),
		"local_storage", flag(v, "hasLocalStorage"),
		"session_storage", flag(v, "hasSessionStorage"),
	)
	if err := env.Wait(ctx, react); err != nil {
		return harness.Verdict{}, err
	}
	return harness.Pass("All window capabilities available"), nil
}

func autocomplete(ctx context.Context, env *harness.Env) (harness.Verdict, error) {
	found, err := env.Evaluate(ctx, suggestionFindScript)
	if err != nil {
		return harness.Verdict{}, err
	}
	if !flag(found, "found") {
		return harness.Pass("Page analyzed (no suggestion field)"), nil
	}
	if err := env.Wait(ctx, settle); err != nil {
		return harness.Verdict{}, err
	}
	typed, err := env.Evaluate(ctx, suggestionTypeScript(suggestion))
	if err != nil {
		return harness.Verdict{}, err
	}
	env.Logger().Debug("suggestion field typed", "value", field(typed, "value"))
	if err := env.Wait(ctx, react); err != nil {
		return harness.Verdict{}, err
	}
	selected, err := env.Evaluate(ctx, suggestionSelectScript(suggestion))
	if err != nil {
		return harness.Verdict{}, err
	}
	if flag(selected, "found") {
		return harness.Pass("India selected from autocomplete"), nil
	}
	return harness.Pass("Suggestion field typed (selection unavailable)"), nil
}
