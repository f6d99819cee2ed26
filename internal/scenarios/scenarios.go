// Package scenarios holds the built-in runs of pagecheck.
//
// The practice and windowtab scenarios are written in Go because their
// steps branch on what the page returns. The declarative ones are YAML
// files under builtin/, compiled with harness.ParseScenario.
package scenarios

import (
	"embed"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/roach88/pagecheck/internal/harness"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Entry describes a built-in scenario.
type Entry struct {
	Name        string
	Description string
	Steps       int
}

var coded = map[string]func() *harness.Plan{
	"practice":  Practice,
	"windowtab": WindowTab,
}

// Default is the scenario run when none is named.
const Default = "practice"

// Lookup returns a fresh plan for the built-in scenario called name.
func Lookup(name string) (*harness.Plan, error) {
	if build, ok := coded[name]; ok {
		return build(), nil
	}
	data, err := builtinFS.ReadFile(path.Join("builtin", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("unknown scenario %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	s, err := harness.ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("builtin scenario %s: %w", name, err)
	}
	return s.Plan(), nil
}

// Names returns the names of all built-in scenarios, sorted.
func Names() []string {
	names := make([]string, 0, len(coded))
	for name := range coded {
		names = append(names, name)
	}
	entries, _ := builtinFS.ReadDir("builtin")
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	slices.Sort(names)
	return names
}

// All describes every built-in scenario, sorted by name.
func All() ([]Entry, error) {
	var out []Entry
	for _, name := range Names() {
		p, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{Name: p.Name, Description: p.Description, Steps: len(p.Steps)})
	}
	return out, nil
}
