package commands

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/hdlmacro/pkg/schema"
	"github.com/spf13/cobra"
)

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the macro collection JSON Schema",
		Long: `Print the JSON Schema every macro library and extraction response must
follow. Hand it to an extractor as its output contract; hdlmacro validates
payloads against the same document.

The schema is always printed as raw JSON, whatever the output mode.`,
		Example: `  hdlmacro schema > macro-collection.schema.json
  hdlmacro schema --out schema.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := schema.DescribeSchemaJSON()
			if err != nil {
				return fmt.Errorf("failed to render schema: %w", err)
			}
			data = append(data, '\n')

			if out != "" {
				if err := os.WriteFile(out, data, 0o644); err != nil { //nolint:gosec // G306: schema is public
					return fmt.Errorf("failed to write %s: %w", out, err)
				}
				NewCommandContext(cmd).Renderer.Success(fmt.Sprintf("Wrote schema %s to %s", schema.Version, out))
				return nil
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Write the schema to a file")

	return cmd
}
