package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/leapstack-labs/hdlmacro/internal/cli/output"
	"github.com/leapstack-labs/hdlmacro/internal/state"
	"github.com/leapstack-labs/hdlmacro/pkg/codec"
	"github.com/spf13/cobra"
)

// RunOutput is the JSON form of a recorded run.
type RunOutput struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	MacroCount int       `json:"macro_count"`
	CreatedAt  time.Time `json:"created_at"`
}

func toRunOutput(run *state.Run) RunOutput {
	return RunOutput{ID: run.ID, Source: run.Source, MacroCount: run.MacroCount, CreatedAt: run.CreatedAt}
}

// NewRunsCommand creates the runs command and its subcommands.
func NewRunsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded extraction runs",
		Long: `List the extraction runs recorded in the catalog, newest first.

Use "runs show <id>" to print the collection a run recorded and
"runs delete <id>" to remove it.`,
		Example: `  hdlmacro runs
  hdlmacro runs --limit 5 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRuns(cmd, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")

	cmd.AddCommand(newRunsShowCommand())
	cmd.AddCommand(newRunsDeleteCommand())

	return cmd
}

func runRuns(cmd *cobra.Command, limit int) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	store, err := cmdCtx.OpenCatalog()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		out := make([]RunOutput, 0, len(runs))
		for _, run := range runs {
			out = append(out, toRunOutput(run))
		}
		return r.JSON(out)
	}

	r.Header(1, fmt.Sprintf("Runs (%d shown)", len(runs)))
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			run.Source,
			strconv.Itoa(run.MacroCount),
			run.CreatedAt.Local().Format(time.DateTime),
		})
	}
	r.Table([]string{"ID", "Source", "Macros", "Recorded"}, rows)
	return nil
}

func newRunsShowCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print the macro collection a run recorded",
		Long: `Print the macro collection a run recorded, exactly as imported, in any
library format. The default is JSON in canonical form.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)

			f, err := codec.ParseFormat(format)
			if err != nil {
				return err
			}

			store, err := cmdCtx.OpenCatalog()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			c, err := store.LoadRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			data, err := codec.Encode(f, c)
			if err != nil {
				return err
			}
			if f == codec.FormatJSON {
				data = append(data, '\n')
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(codec.FormatJSON), "Output format (json|yaml|toml|msgpack)")

	return cmd
}

func newRunsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a recorded run",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)

			store, err := cmdCtx.OpenCatalog()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteRun(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmdCtx.Renderer.Success("Deleted run " + args[0])
			return nil
		},
	}
}
