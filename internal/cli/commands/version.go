package commands

import (
	"fmt"

	"github.com/leapstack-labs/hdlmacro/pkg/schema"
	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display hdlmacro version and the macro schema version it reads and writes.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "hdlmacro v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Macro schema %s (%s)\n", schema.Version, schema.SchemaID)
		},
	}
}
