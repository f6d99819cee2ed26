package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/pagecheck/internal/ir"
)

// maxDetails bounds the value echoed into an outcome's details.
const maxDetails = 120

func (s ScenarioStep) action(kind string, record bool) Action {
	verdict := func(details string) Verdict {
		if !record {
			return Silent()
		}
		return Pass(details)
	}

	switch kind {
	case KindNavigate:
		url := s.Navigate
		return func(ctx context.Context, env *Env) (Verdict, error) {
			if err := env.Navigate(ctx, url); err != nil {
				return Verdict{}, err
			}
			return verdict("loaded " + url), nil
		}
	case KindClick:
		sel := s.Click
		return func(ctx context.Context, env *Env) (Verdict, error) {
			if err := env.Click(ctx, sel); err != nil {
				return Verdict{}, err
			}
			return verdict("clicked " + sel), nil
		}
	case KindType:
		in := *s.Type
		return func(ctx context.Context, env *Env) (Verdict, error) {
			if err := env.Type(ctx, in.Selector, in.Text); err != nil {
				return Verdict{}, err
			}
			return verdict(fmt.Sprintf("typed %q into %s", in.Text, in.Selector)), nil
		}
	case KindText:
		sel, expect := s.Text, s.Expect
		return func(ctx context.Context, env *Env) (Verdict, error) {
			text, err := env.Text(ctx, sel)
			if err != nil {
				return Verdict{}, err
			}
			return judge(ir.Str(text), expect, verdict), nil
		}
	case KindEvaluate:
		script, expect := s.Evaluate, s.Expect
		return func(ctx context.Context, env *Env) (Verdict, error) {
			v, err := env.Evaluate(ctx, script)
			if err != nil {
				return Verdict{}, err
			}
			return judge(v, expect, verdict), nil
		}
	case KindScreenshot:
		name := s.Screenshot
		return func(ctx context.Context, env *Env) (Verdict, error) {
			if err := env.Screenshot(ctx, name); err != nil {
				return Verdict{}, err
			}
			return verdict("saved " + name), nil
		}
	default:
		return nil
	}
}

func judge(v ir.Value, e *Expect, verdict func(string) Verdict) Verdict {
	if e == nil {
		return verdict(truncate(ir.String(v)))
	}
	got, err := CheckExpect(v, e)
	if err != nil {
		return Fail(err.Error())
	}
	return Pass(truncate(ir.String(got)))
}

// CheckExpect applies e to v and returns the checked value.
// A mismatch is reported as *AssertionError.
func CheckExpect(v ir.Value, e *Expect) (ir.Value, error) {
	if e.Path != "" {
		sub, ok := ir.Lookup(v, ir.SplitPath(e.Path)...)
		if !ok {
			return nil, &AssertionError{
				Type:     "path",
				Expected: "a value at " + e.Path,
				Actual:   "nothing",
			}
		}
		v = sub
	}

	if e.Equals != nil {
		want, err := ir.NormalizeRaw(e.Equals)
		if err != nil {
			return nil, fmt.Errorf("expect.equals: %w", err)
		}
		if !ir.Equal(v, want) {
			return nil, &AssertionError{
				Type:     "equals",
				Expected: ir.String(want),
				Actual:   ir.String(v),
			}
		}
	}

	if e.Contains != "" {
		if s := ir.String(v); !strings.Contains(s, e.Contains) {
			return nil, &AssertionError{
				Type:     "contains",
				Expected: fmt.Sprintf("%q in value", e.Contains),
				Actual:   truncate(s),
			}
		}
	}

	if e.Truthy != nil && ir.Truthy(v) != *e.Truthy {
		return nil, &AssertionError{
			Type:     "truthy",
			Expected: fmt.Sprintf("truthy=%t", *e.Truthy),
			Actual:   ir.String(v),
		}
	}

	return v, nil
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxDetails {
		return s
	}
	return string(r[:maxDetails]) + "..."
}
