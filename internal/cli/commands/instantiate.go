package commands

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/hdlmacro/internal/cli/output"
	"github.com/leapstack-labs/hdlmacro/pkg/core"
	"github.com/leapstack-labs/hdlmacro/pkg/instantiate"
	"github.com/spf13/cobra"
)

// InstantiateOptions holds options for the instantiate command.
type InstantiateOptions struct {
	Params       []string
	Ports        []string
	BindingsFile string
	FillPorts    bool
	Out          string
}

// InstantiateOutput is the JSON output for the instantiate command.
type InstantiateOutput struct {
	Macro    string `json:"macro"`
	Source   string `json:"source"`
	Instance string `json:"instance"`
	Text     string `json:"text"`
}

// NewInstantiateCommand creates the instantiate command.
func NewInstantiateCommand() *cobra.Command {
	opts := &InstantiateOptions{}
	cmd := &cobra.Command{
		Use:     "instantiate <macro> <instance>",
		Aliases: []string{"inst"},
		Short:   "Render a Verilog instantiation of a macro",
		Long: `Render the Verilog instantiation text for one macro.

Every declared port must be bound exactly once. Parameters start from the
attribute defaults; --param overrides a default in place or appends a new
parameter. Bindings appear in the order they are given, with --param/--port
flags applied after the --bindings file.`,
		Example: `  # Bind every port of FDCE
  hdlmacro instantiate FDCE ff0 --port D=d --port CE=ce --port R=rst --port Q=q --port QBAR=qn

  # Override INIT
  hdlmacro instantiate FDCE ff0 --param INIT=1 --bindings ff0.yaml

  # Connect every unbound port to a net of the same name
  hdlmacro instantiate MUXF8_D mux0 --fill-ports`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstantiate(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Params, "param", "p", nil, "Parameter binding NAME=VALUE (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Ports, "port", nil, "Port binding NAME=NET (repeatable)")
	cmd.Flags().StringVarP(&opts.BindingsFile, "bindings", "b", "", "YAML file with parameters and ports mappings")
	cmd.Flags().BoolVar(&opts.FillPorts, "fill-ports", false, "Bind every unbound port to a net of the same name")
	cmd.Flags().StringVar(&opts.Out, "out", "", "Write the instantiation to a file instead of stdout")

	return cmd
}

func runInstantiate(cmd *cobra.Command, macroName, instanceName string, opts *InstantiateOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	reg, err := cmdCtx.BuildRegistry(cmd.Context())
	if err != nil {
		return err
	}
	entry, err := reg.Get(macroName)
	if err != nil {
		return err
	}

	params, ports := core.NewBindings(), core.NewBindings()
	if opts.BindingsFile != "" {
		bf, err := loadBindingsFile(opts.BindingsFile)
		if err != nil {
			return err
		}
		params, ports = bf.Parameters, bf.Ports
	}
	if err := parseAssignments(params, opts.Params, "parameter"); err != nil {
		return err
	}
	if err := parseAssignments(ports, opts.Ports, "port"); err != nil {
		return err
	}
	if opts.FillPorts {
		fillPorts(entry.Macro, ports)
	}

	text, err := instantiate.Instantiate(entry.Macro, instanceName, params, ports)
	if err != nil {
		return err
	}
	cmdCtx.Logger.Debug("rendered instantiation", "macro", entry.Macro.Name, "source", entry.Source, "instance", instanceName)

	if opts.Out != "" {
		if err := os.WriteFile(opts.Out, []byte(text+"\n"), 0o644); err != nil { //nolint:gosec // G306: generated source is not secret
			return fmt.Errorf("failed to write %s: %w", opts.Out, err)
		}
		r.Success(fmt.Sprintf("Wrote %s instance %s to %s", entry.Macro.Name, instanceName, opts.Out))
		return nil
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(InstantiateOutput{
			Macro:    entry.Macro.Name,
			Source:   entry.Source,
			Instance: instanceName,
			Text:     text,
		})
	default:
		r.Code("verilog", text)
		return nil
	}
}

// fillPorts binds every declared port missing from ports to itself.
func fillPorts(m core.Instantiable, ports *core.Bindings) {
	for _, name := range m.PortNames() {
		if !ports.Has(name) {
			ports.Set(name, name)
		}
	}
}
