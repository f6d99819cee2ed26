package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pagecheck/internal/harness"
)

// ValidationError is a scenario file that failed to load.
type ValidationError struct {
	File    string `json:"file"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidatedFile is a scenario file that loaded cleanly.
type ValidatedFile struct {
	File     string `json:"file"`
	Scenario string `json:"scenario"`
	Steps    int    `json:"steps"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Files  []ValidatedFile   `json:"files,omitempty"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file-or-dir>",
		Short: "Validate scenario files without running them",
		Long: `Validate scenario YAML files without launching a browser.

Each file is decoded strictly (unknown fields are errors), checked against
the scenario schema and checked for step consistency. A directory is
searched recursively for .yaml and .yml files.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	files, err := FindScenarioFiles(path)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			return outputValidateError(formatter, loadErr.Code, loadErr.Error(), nil)
		}
		return outputValidateError(formatter, ErrCodeGeneric, err.Error(), nil)
	}
	formatter.Debugf("Found %d scenario file(s) in %s", len(files), path)

	result := validateFiles(files, formatter)
	if len(result.Errors) > 0 {
		return outputValidationErrors(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

func validateFiles(files []string, formatter *OutputFormatter) ValidationResult {
	result := ValidationResult{Valid: true}
	names := make(map[string]string)
	for _, file := range files {
		formatter.Debugf("Validating %s", file)
		sc, err := harness.LoadScenario(file)
		if err != nil {
			result.Errors = append(result.Errors, ValidationError{File: file, Code: ErrCodeScenario, Message: err.Error()})
			continue
		}
		if prev, dup := names[sc.Name]; dup {
			result.Errors = append(result.Errors, ValidationError{
				File:    file,
				Code:    ErrCodeScenario,
				Message: fmt.Sprintf("scenario %q already defined in %s", sc.Name, prev),
			})
			continue
		}
		names[sc.Name] = file
		result.Files = append(result.Files, ValidatedFile{File: file, Scenario: sc.Name, Steps: len(sc.Steps)})
	}
	result.Valid = len(result.Errors) == 0
	return result
}

func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	for _, f := range result.Files {
		formatter.Debugf("  %s: %s (%d steps)", f.File, f.Scenario, f.Steps)
	}
	fmt.Fprintf(formatter.Writer, "✓ All scenarios valid (%d file(s))\n", len(result.Files))
	return nil
}

// outputValidateError reports a command-level error (exit code 2).
func outputValidateError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Fail(code, message, details)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors reports invalid files (exit code 1).
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		if err := formatter.Respond(response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		fmt.Fprintln(formatter.Writer, err.File)
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
