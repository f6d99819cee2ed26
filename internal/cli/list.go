package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/pagecheck/internal/scenarios"
)

// ScenarioInfo describes a built-in scenario in list output.
type ScenarioInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Steps       int    `json:"steps"`
	Default     bool   `json:"default,omitempty"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List built-in scenarios",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	entries, err := scenarios.All()
	if err != nil {
		return WrapExitError(ExitFailure, "failed to load built-in scenarios", err)
	}

	infos := make([]ScenarioInfo, 0, len(entries))
	for _, e := range entries {
		infos = append(infos, ScenarioInfo{
			Name:        e.Name,
			Description: e.Description,
			Steps:       e.Steps,
			Default:     e.Name == scenarios.Default,
		})
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(infos)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSTEPS\tDESCRIPTION")
	for _, info := range infos {
		name := info.Name
		if info.Default {
			name += " (default)"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", name, info.Steps, info.Description)
	}
	return tw.Flush()
}
