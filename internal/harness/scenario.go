package harness

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pagecheck/internal/recorder"
)

// Scenario is a declarative run read from YAML.
//
//	name: login
//	description: "Log in and check the flash message"
//	prefix: Login
//	steps:
//	  - name: Open login page
//	    navigate: https://the-internet.herokuapp.com/login
//	  - name: Username
//	    type: { selector: "#username", text: tomsmith }
//	  - name: Flash message
//	    text: "#flash"
//	    expect: { contains: "You logged into" }
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Title heads the report. Defaults to the upper-cased name.
	Title string `yaml:"title,omitempty"`

	// Prefix names the artifacts. Defaults to Name.
	Prefix string `yaml:"prefix,omitempty"`

	// Included lists the tests covered, printed in the report.
	Included []string `yaml:"included,omitempty"`

	Steps []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one declarative step. Exactly one of Navigate, Click,
// Type, Text, Evaluate and Screenshot must be set.
type ScenarioStep struct {
	Name string `yaml:"name"`

	// Glue overrides the default: navigate and screenshot steps are glue,
	// everything else is isolated.
	Glue *bool `yaml:"glue,omitempty"`

	// Record forces an outcome for steps without an expect clause.
	// Steps with expect always record; navigate and screenshot steps
	// are silent otherwise.
	Record *bool `yaml:"record,omitempty"`

	WaitBefore time.Duration `yaml:"wait_before,omitempty"`
	WaitAfter  time.Duration `yaml:"wait_after,omitempty"`

	Navigate   string     `yaml:"navigate,omitempty"`
	Click      string     `yaml:"click,omitempty"`
	Type       *TypeInput `yaml:"type,omitempty"`
	Text       string     `yaml:"text,omitempty"`
	Evaluate   string     `yaml:"evaluate,omitempty"`
	Screenshot string     `yaml:"screenshot,omitempty"`

	Expect *Expect `yaml:"expect,omitempty"`
}

// TypeInput is the argument of a type step.
type TypeInput struct {
	Selector string `yaml:"selector"`
	Text     string `yaml:"text"`
}

// Expect checks the value a text or evaluate step produced.
type Expect struct {
	// Path selects a part of the value ("rows.0.1"). Empty means the whole value.
	Path     string `yaml:"path,omitempty"`
	Equals   any    `yaml:"equals,omitempty"`
	Contains string `yaml:"contains,omitempty"`
	Truthy   *bool  `yaml:"truthy,omitempty"`
}

// Step kinds.
const (
	KindNavigate   = "navigate"
	KindClick      = "click"
	KindType       = "type"
	KindText       = "text"
	KindEvaluate   = "evaluate"
	KindScreenshot = "screenshot"
)

// Kind returns which action the step performs, or "" if none is set.
// When several are set the first in declaration order wins; validation
// rejects that case.
func (s *ScenarioStep) Kind() string {
	kinds := s.kinds()
	if len(kinds) == 0 {
		return ""
	}
	return kinds[0]
}

func (s *ScenarioStep) kinds() []string {
	var kinds []string
	if s.Navigate != "" {
		kinds = append(kinds, KindNavigate)
	}
	if s.Click != "" {
		kinds = append(kinds, KindClick)
	}
	if s.Type != nil {
		kinds = append(kinds, KindType)
	}
	if s.Text != "" {
		kinds = append(kinds, KindText)
	}
	if s.Evaluate != "" {
		kinds = append(kinds, KindEvaluate)
	}
	if s.Screenshot != "" {
		kinds = append(kinds, KindScreenshot)
	}
	return kinds
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or fails the schema.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML. The document is checked against the
// CUE #Scenario schema before the typed decode, so type mismatches such as
// a numeric wait_after are reported as schema errors.
func ParseScenario(data []byte) (*Scenario, error) {
	if err := validateSchema(data); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	// Strict decode as a second guard against typos the schema let through.
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks the rules the schema cannot express.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	shots := make(map[string]bool)
	for i, step := range s.Steps {
		if step.Name == "" {
			return fmt.Errorf("steps[%d]: name is required", i)
		}
		switch kinds := step.kinds(); len(kinds) {
		case 0:
			return fmt.Errorf("steps[%d] %q: one of navigate, click, type, text, evaluate, screenshot is required", i, step.Name)
		case 1:
		default:
			return fmt.Errorf("steps[%d] %q: only one action allowed, got %v", i, step.Name, kinds)
		}
		if step.Type != nil && step.Type.Selector == "" {
			return fmt.Errorf("steps[%d] %q: type.selector is required", i, step.Name)
		}
		if step.Expect != nil {
			if k := step.Kind(); k != KindText && k != KindEvaluate {
				return fmt.Errorf("steps[%d] %q: expect is only valid on text and evaluate steps", i, step.Name)
			}
			if step.Expect.Equals == nil && step.Expect.Contains == "" && step.Expect.Truthy == nil {
				return fmt.Errorf("steps[%d] %q: expect needs equals, contains or truthy", i, step.Name)
			}
		}
		if step.WaitBefore < 0 || step.WaitAfter < 0 {
			return fmt.Errorf("steps[%d] %q: waits must be non-negative", i, step.Name)
		}
		if step.Screenshot != "" {
			if shots[step.Screenshot] {
				return fmt.Errorf("steps[%d] %q: duplicate screenshot %q", i, step.Name, step.Screenshot)
			}
			shots[step.Screenshot] = true
		}
	}
	return nil
}

// Plan compiles the scenario into executable steps.
func (s *Scenario) Plan() *Plan {
	prefix := s.Prefix
	if prefix == "" {
		prefix = s.Name
	}
	title := s.Title
	if title == "" {
		title = upper(s.Name) + " TEST REPORT"
	}

	p := &Plan{
		Name:        s.Name,
		Description: s.Description,
		Prefix:      prefix,
		Layout: recorder.Layout{
			Title:    title,
			Included: s.Included,
		},
	}
	for _, st := range s.Steps {
		if st.Screenshot != "" {
			p.Screenshots = append(p.Screenshots, st.Screenshot)
		}
		p.Steps = append(p.Steps, st.compile())
	}
	return p
}

func (s ScenarioStep) compile() Step {
	kind := s.Kind()
	glue := kind == KindNavigate || kind == KindScreenshot
	if s.Glue != nil {
		glue = *s.Glue
	}
	record := s.Expect != nil || (kind != KindNavigate && kind != KindScreenshot)
	if s.Record != nil {
		record = *s.Record
	}

	return Step{
		Name:       s.Name,
		WaitBefore: s.WaitBefore,
		WaitAfter:  s.WaitAfter,
		Glue:       glue,
		Action:     s.action(kind, record),
	}
}

var titleReplacer = strings.NewReplacer("-", " ", "_", " ")

func upper(s string) string {
	return strings.ToUpper(titleReplacer.Replace(s))
}
