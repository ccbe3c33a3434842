package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/hdlmacro/internal/cli/output"
	"github.com/leapstack-labs/hdlmacro/internal/registry"
	"github.com/leapstack-labs/hdlmacro/pkg/core"
	"github.com/leapstack-labs/hdlmacro/pkg/instantiate"
	"github.com/leapstack-labs/hdlmacro/pkg/schema"
	"github.com/spf13/cobra"
)

// ShowOutput is the JSON output for one macro of the show command.
type ShowOutput struct {
	Source string               `json:"source"`
	Macro  schema.MacroDocument `json:"macro"`
}

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <macro>...",
		Short: "Show the ports and attributes of macros",
		Long: `Show the full definition of one or more macros, with an instantiation
skeleton that binds every port to a net of the same name.

Names match exactly first, then case-insensitively; "source.NAME" picks a
macro only if it came from that source.`,
		Example: `  hdlmacro show FDCE
  hdlmacro show fdce bufgce_1 -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args)
		},
	}
	return cmd
}

func runShow(cmd *cobra.Command, names []string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	reg, err := cmdCtx.BuildRegistry(cmd.Context())
	if err != nil {
		return err
	}
	found, missing := reg.Resolve(names)
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", registry.ErrNotFound, strings.Join(missing, ", "))
	}

	if r.EffectiveMode() == output.ModeJSON {
		out := make([]ShowOutput, 0, len(found))
		for _, e := range found {
			out = append(out, ShowOutput{Source: e.Source, Macro: schema.FromMacro(e.Macro)})
		}
		return r.JSON(out)
	}

	for i, e := range found {
		if i > 0 {
			r.Println("")
		}
		if err := renderMacro(r, e); err != nil {
			return err
		}
	}
	return nil
}

func renderMacro(r *output.Renderer, e registry.Entry) error {
	m := e.Macro
	r.Header(1, m.Name)
	r.KeyValue("Description", m.Description)
	r.KeyValue("Source", e.Source)
	r.Println("")

	r.Header(2, fmt.Sprintf("Ports (%d)", len(m.Ports)))
	portRows := make([][]string, 0, len(m.Ports))
	for _, p := range m.Ports {
		portRows = append(portRows, []string{p.Name, p.Direction.String(), strconv.Itoa(p.Width), optional(p.Description)})
	}
	r.Table([]string{"Name", "Direction", "Width", "Description"}, portRows)
	r.Println("")

	if len(m.Attributes) > 0 {
		r.Header(2, fmt.Sprintf("Attributes (%d)", len(m.Attributes)))
		attrRows := make([][]string, 0, len(m.Attributes))
		for _, a := range m.Attributes {
			attrRows = append(attrRows, []string{a.Name, optional(a.Default), optional(a.Description)})
		}
		r.Table([]string{"Name", "Default", "Description"}, attrRows)
		r.Println("")
	}

	ports := core.NewBindings()
	fillPorts(m, ports)
	text, err := instantiate.Instantiate(m, strings.ToLower(m.Name)+"_inst", nil, ports)
	if err != nil {
		return err
	}
	r.Header(2, "Instantiation")
	r.Code("verilog", text)
	return nil
}

func optional(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
