package commands

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/hdlmacro/internal/cli/output"
	"github.com/leapstack-labs/hdlmacro/internal/registry"
	"github.com/spf13/cobra"
)

// MacroSummary is one row of list output.
type MacroSummary struct {
	Name        string   `json:"name"`
	Source      string   `json:"source"`
	Description string   `json:"description"`
	Ports       []string `json:"ports"`
	Parameters  []string `json:"parameters"`
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List every known macro",
		Long: `List the macros available for instantiation: builtins, library files
in the macros directory, extra libraries from the config, and the newest
definition of each macro recorded in the run catalog.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # List all macros
  hdlmacro list

  # Only builtins, as JSON
  hdlmacro list --source builtin -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, source)
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Only list macros from this source")

	return cmd
}

func runList(cmd *cobra.Command, source string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	reg, err := cmdCtx.BuildRegistry(cmd.Context())
	if err != nil {
		return err
	}

	var entries []registry.Entry
	for _, e := range reg.List() {
		if source == "" || e.Source == source {
			entries = append(entries, e)
		}
	}

	if r.EffectiveMode() == output.ModeJSON {
		summaries := make([]MacroSummary, 0, len(entries))
		for _, e := range entries {
			summaries = append(summaries, MacroSummary{
				Name:        e.Macro.Name,
				Source:      e.Source,
				Description: e.Macro.Description,
				Ports:       e.Macro.PortNames(),
				Parameters:  e.Macro.ParameterNames(),
			})
		}
		return r.JSON(summaries)
	}

	r.Header(1, fmt.Sprintf("Macros (%d total)", len(entries)))
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Macro.Name,
			e.Source,
			strconv.Itoa(len(e.Macro.Ports)),
			strconv.Itoa(len(e.Macro.Attributes)),
			e.Macro.Description,
		})
	}
	r.Table([]string{"Name", "Source", "Ports", "Attributes", "Description"}, rows)
	return nil
}
