package commands

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/hdlmacro/pkg/codec"
	"github.com/spf13/cobra"
)

// ConvertOptions holds options for the convert command.
type ConvertOptions struct {
	From string
	To   string
	Out  string
}

// NewConvertCommand creates the convert command.
func NewConvertCommand() *cobra.Command {
	opts := &ConvertOptions{}
	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Re-encode a macro library in another format",
		Long: `Read a macro library, validate it, and write it in another format.

The target format is taken from --to, then from the extension of --out, then
from the default_format setting. JSON output uses four-space indentation and
a fixed field order, so identical collections always produce identical bytes.`,
		Example: `  # Convert an extraction response to YAML on stdout
  hdlmacro convert 7series_logic__response.json --to yaml

  # Write a TOML copy next to it
  hdlmacro convert macros/logic.yaml --out macros/logic.toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "Input format (default: from file extension)")
	cmd.Flags().StringVarP(&opts.To, "to", "t", "", "Output format (json|yaml|toml|msgpack)")
	cmd.Flags().StringVar(&opts.Out, "out", "", "Output file (default: stdout)")

	return cmd
}

func runConvert(cmd *cobra.Command, file string, opts *ConvertOptions) error {
	cmdCtx := NewCommandContext(cmd)

	lib, err := loadLibrary(file, opts.From)
	if err != nil {
		return err
	}

	to, err := targetFormat(opts, cmdCtx.Cfg.DefaultFormat)
	if err != nil {
		return err
	}

	data, err := codec.Encode(to, lib.Collection)
	if err != nil {
		return err
	}
	cmdCtx.Logger.Debug("converted library", "from", lib.Format, "to", to, "macros", len(lib.Collection.Macros))

	if opts.Out == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.Out, data, 0o644); err != nil { //nolint:gosec // G306: libraries are not secret
		return fmt.Errorf("failed to write %s: %w", opts.Out, err)
	}
	cmdCtx.Renderer.Success(fmt.Sprintf("Wrote %s (%s, %s)", opts.Out, to, countLabel(len(lib.Collection.Macros), "macro")))
	return nil
}

func targetFormat(opts *ConvertOptions, fallback string) (codec.Format, error) {
	switch {
	case opts.To != "":
		return codec.ParseFormat(opts.To)
	case opts.Out != "":
		return codec.FormatFromPath(opts.Out)
	default:
		return codec.ParseFormat(fallback)
	}
}
