package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the pagecheck CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RunOptions{})
}

// newRootCommand wires the subcommands around runOpts. Invoked without a
// subcommand, pagecheck runs the default scenario with the run defaults.
func newRootCommand(runOpts *RunOptions) *cobra.Command {
	opts := &RootOptions{}
	runOpts.RootOptions = opts

	cmd := &cobra.Command{
		Use:   "pagecheck",
		Short: "pagecheck - sequential browser test harness",
		Long: `Drive a browser through a scripted scenario, record a pass/fail outcome
per step and write a plain-text report with screenshots.

Without a subcommand the practice scenario runs, as "pagecheck run" would.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(runOpts, "", cmd)
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(newRunCommand(runOpts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// newLogger returns the diagnostic logger: info by default, debug with
// --verbose.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
