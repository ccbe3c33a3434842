package codec

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/hdlmacro/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func library() core.MacroCollection {
	return core.MacroCollection{Macros: []core.Macro{
		{
			Name:        "FDCE",
			Description: "D flip-flop with clock enable and asynchronous clear",
			Ports: []core.MacroPort{
				{Name: "D", Direction: core.DirectionInput, Width: 1, Description: core.Ptr("Data input")},
				{Name: "CE", Direction: core.DirectionInput, Width: 1},
				{Name: "Q", Direction: core.DirectionOutput, Width: 1},
			},
			Attributes: []core.MacroAttribute{
				{Name: "INIT", Default: core.Ptr("1'b0"), Description: core.Ptr("Initial value")},
				{Name: "IS_C_INVERTED"},
				{Name: "EMPTY", Default: core.Ptr("")},
			},
		},
		{
			Name:        "RAM64M",
			Description: "64-deep by 4-wide multi-port RAM",
			Ports: []core.MacroPort{
				{Name: "DOA", Direction: core.DirectionOutput, Width: 1},
				{Name: "ADDRA", Direction: core.DirectionInput, Width: 6},
				{Name: "IO", Direction: core.DirectionInout, Width: 64},
			},
			Attributes: []core.MacroAttribute{
				{Name: "INIT_A", Default: core.Ptr("64'h0000000000000000")},
			},
		},
		{
			Name:        "BUFG",
			Description: "Global clock buffer",
			Ports:       []core.MacroPort{},
			Attributes:  []core.MacroAttribute{},
		},
	}}
}

func TestRoundTrip_AllFormats(t *testing.T) {
	for _, f := range Formats() {
		t.Run(string(f), func(t *testing.T) {
			data, err := Encode(f, library())
			require.NoError(t, err)
			require.NotEmpty(t, data)

			back, err := Decode(f, data)
			require.NoError(t, err)
			assert.True(t, library().Equal(back), "%s round trip changed the library:\n%s", f, data)
		})
	}
}

func TestDecode_ValidationIsSharedAcrossFormats(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
	}{
		{
			name:   "yaml bad direction",
			format: FormatYAML,
			data: `macros:
  - name: X
    description: x
    ports:
      - {name: A, direction: sideways}
`,
		},
		{
			name:   "yaml unquoted numeric default",
			format: FormatYAML,
			data: `macros:
  - name: X
    description: x
    ports: []
    attributes:
      - {name: INIT, default: 0}
`,
		},
		{
			name:   "toml zero width",
			format: FormatTOML,
			data: `[[macros]]
name = "X"
description = "x"

[[macros.ports]]
name = "A"
direction = "input"
width = 0
`,
		},
		{
			name:   "toml missing ports",
			format: FormatTOML,
			data: `[[macros]]
name = "X"
description = "x"
`,
		},
		{name: "yaml malformed", format: FormatYAML, data: "macros: [\n"},
		{name: "toml malformed", format: FormatTOML, data: "[[macros]\n"},
		{name: "msgpack truncated", format: FormatMsgpack, data: "\x81\xa6macros"},
		{name: "yaml non-string key", format: FormatYAML, data: "macros:\n  - 1: x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.format, []byte(tt.data))
			var sve *core.SchemaValidationError
			require.True(t, errors.As(err, &sve), "expected SchemaValidationError, got %T: %v", err, err)
		})
	}
}

func TestDecode_HandWrittenYAML(t *testing.T) {
	data := `macros:
  - name: LUT2
    description: 2-input look-up table
    ports:
      - name: O
        direction: output
      - name: I0
        direction: input
      - name: I1
        direction: input
    attributes:
      - name: INIT
        default: "4'h0"
`
	c, err := Decode(FormatYAML, []byte(data))
	require.NoError(t, err)
	require.Len(t, c.Macros, 1)

	lut := c.Macros[0]
	assert.Equal(t, []string{"O", "I0", "I1"}, lut.PortNames())
	assert.Equal(t, 1, lut.Ports[0].Width)
	assert.Equal(t, "4'h0", *lut.Attributes[0].Default)
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "lib/logic.json", want: FormatJSON},
		{path: "lib/logic.YAML", want: FormatYAML},
		{path: "lib/logic.yml", want: FormatYAML},
		{path: "lib/logic.toml", want: FormatTOML},
		{path: "lib/logic.msgpack", want: FormatMsgpack},
		{path: "lib/logic.mpk", want: FormatMsgpack},
		{path: "lib/logic.pdf", wantErr: true},
		{path: "lib/README", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = ParseFormat("toml")
	require.NoError(t, err)
	assert.Equal(t, FormatTOML, f)

	_, err = ParseFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Encode("xml", library())
	assert.ErrorIs(t, err, ErrUnknownFormat)
	_, err = Decode("xml", nil)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{".json", ".mpk", ".msgpack", ".toml", ".yaml", ".yml"}, Extensions())
	assert.Equal(t, ".msgpack", FormatMsgpack.Extension())
	assert.Equal(t, ".yaml", FormatYAML.Extension())
}
