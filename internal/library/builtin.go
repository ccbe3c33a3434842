// Package library holds the primitive definitions hdlmacro ships with.
package library

import "github.com/leapstack-labs/hdlmacro/pkg/core"

// Source is the registry source label for built-in macros.
const Source = "builtin"

// Builtin returns the built-in primitives. A fresh collection is returned on
// every call.
func Builtin() core.MacroCollection {
	return core.MacroCollection{Macros: []core.Macro{fdce(), bufgce1(), muxf8d()}}
}

func fdce() core.Macro {
	return core.Macro{
		Name:        "FDCE",
		Description: "D flip-flop with clock enable and asynchronous clear",
		Ports: []core.MacroPort{
			port("D", core.DirectionInput, "Data input"),
			port("CE", core.DirectionInput, "Clock enable"),
			port("R", core.DirectionInput, "Asynchronous clear"),
			port("Q", core.DirectionOutput, "Data output"),
			port("QBAR", core.DirectionOutput, "Inverted data output"),
		},
		Attributes: []core.MacroAttribute{
			{Name: "INIT", Default: core.Ptr("0"), Description: core.Ptr("Initial value of Q after configuration")},
		},
	}
}

func bufgce1() core.Macro {
	return core.Macro{
		Name:        "BUFGCE_1",
		Description: "Global clock buffer with clock enable, output low when disabled",
		Ports: []core.MacroPort{
			port("O", core.DirectionOutput, "Clock output"),
			port("CE", core.DirectionInput, "Clock enable"),
			port("I", core.DirectionInput, "Clock input"),
		},
		Attributes: []core.MacroAttribute{},
	}
}

func muxf8d() core.Macro {
	return core.Macro{
		Name:        "MUXF8_D",
		Description: "2-to-1 look-up table multiplexer with dual output",
		Ports: []core.MacroPort{
			port("O", core.DirectionOutput, "Output of MUX to general routing"),
			port("LO", core.DirectionOutput, "Output of MUX to local routing"),
			port("I0", core.DirectionInput, "Input selected when S is low"),
			port("I1", core.DirectionInput, "Input selected when S is high"),
			port("S", core.DirectionInput, "Select input"),
		},
		Attributes: []core.MacroAttribute{},
	}
}

func port(name string, dir core.Direction, description string) core.MacroPort {
	p := core.NewPort(name, dir)
	p.Description = core.Ptr(description)
	return p
}
