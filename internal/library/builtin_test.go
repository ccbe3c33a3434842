package library

import (
	"testing"

	"github.com/leapstack-labs/hdlmacro/pkg/core"
	"github.com/leapstack-labs/hdlmacro/pkg/instantiate"
	"github.com/leapstack-labs/hdlmacro/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin_Valid(t *testing.T) {
	c := Builtin()
	require.NoError(t, c.Validate())

	names := make([]string, 0, len(c.Macros))
	for _, m := range c.Macros {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"FDCE", "BUFGCE_1", "MUXF8_D"}, names)
}

func TestBuiltin_FreshCopies(t *testing.T) {
	a := Builtin()
	a.Macros[0].Ports[0].Name = "CHANGED"

	b := Builtin()
	assert.Equal(t, "D", b.Macros[0].Ports[0].Name)
}

func TestBuiltin_RoundTrips(t *testing.T) {
	data, err := schema.Serialize(Builtin())
	require.NoError(t, err)

	back, err := schema.Parse(data)
	require.NoError(t, err)
	assert.True(t, Builtin().Equal(back))
}

func TestBuiltin_FDCEInstantiation(t *testing.T) {
	m, ok := Builtin().Find("FDCE")
	require.True(t, ok)

	ports := core.NewBindings(
		core.Binding{Name: "D", Value: "wire_0"},
		core.Binding{Name: "CE", Value: "wire_1"},
		core.Binding{Name: "R", Value: "wire_2"},
		core.Binding{Name: "Q", Value: "wire_3"},
		core.Binding{Name: "QBAR", Value: "wire_4"},
	)
	got, err := instantiate.Instantiate(m, "fdce0", nil, ports)
	require.NoError(t, err)
	assert.Equal(t, "FDCE #(\n    .INIT(0)\n)\nfdce0(\n    .D(wire_0),\n    .CE(wire_1),\n    .R(wire_2),\n    .Q(wire_3),\n    .QBAR(wire_4)\n);", got)
}
