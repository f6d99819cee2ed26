package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/roach88/pagecheck/internal/harness"
	"github.com/roach88/pagecheck/internal/scenarios"
)

// LoadError is a scenario that could not be resolved or parsed.
type LoadError struct {
	Code    string
	Message string
	Path    string // file the error refers to, if any
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// isScenarioFile reports whether arg names a YAML file rather than a
// built-in scenario.
func isScenarioFile(arg string) bool {
	ext := strings.ToLower(filepath.Ext(arg))
	return ext == ".yaml" || ext == ".yml" || strings.ContainsRune(arg, os.PathSeparator)
}

// ResolvePlan returns the plan for a built-in scenario name or a path to
// a scenario file. An empty arg selects the default scenario.
func ResolvePlan(arg string) (*harness.Plan, error) {
	if arg == "" {
		arg = scenarios.Default
	}
	if !isScenarioFile(arg) {
		p, err := scenarios.Lookup(arg)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeUnknownScenario, Message: err.Error()}
		}
		return p, nil
	}

	if _, err := os.Stat(arg); err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "scenario file not found", Path: arg}
	}
	sc, err := harness.LoadScenario(arg)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScenario, Message: err.Error(), Path: arg}
	}
	return sc.Plan(), nil
}

// FindScenarioFiles returns the YAML files under path, sorted. A file path
// is returned as is.
func FindScenarioFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "path not found", Path: path}
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".yaml", ".yml":
			if !d.IsDir() {
				files = append(files, p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err), Path: path}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: "no scenario files found", Path: path}
	}
	slices.Sort(files)
	return files, nil
}

// Error code constants, shared by all commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No scenario files found
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeWriteFailed = "E007" // Artifact write error
	ErrCodeDatabase    = "E008" // History database error

	ErrCodeScenario        = "E101" // Invalid scenario file
	ErrCodeUnknownScenario = "E102" // No built-in scenario of that name
)
