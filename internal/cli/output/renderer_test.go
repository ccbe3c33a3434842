package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(mode Mode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestRenderer_EffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{name: "auto on terminal", mode: ModeAuto, isTTY: true, want: ModeText},
		{name: "auto when piped", mode: ModeAuto, isTTY: false, want: ModeMarkdown},
		{name: "empty means auto", mode: "", isTTY: false, want: ModeMarkdown},
		{name: "explicit text when piped", mode: ModeText, isTTY: false, want: ModeText},
		{name: "explicit json", mode: ModeJSON, isTTY: true, want: ModeJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRenderer(tt.mode, tt.isTTY)
			assert.Equal(t, tt.want, r.EffectiveMode())
			assert.Equal(t, tt.isTTY, r.IsTTY())
		})
	}
}

func TestNewRenderer_BufferIsNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, &buf, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Same(t, &buf, r.Writer())
}

func TestRenderer_Markdown(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)

	r.Header(1, "Macros")
	r.KeyValue("Source", "builtin")
	r.Code("verilog", "FDCE f0(\n);\n")

	assert.Equal(t, "# Macros\n\n- **Source:** builtin\n```verilog\nFDCE f0(\n);\n```\n", out.String())
}

func TestRenderer_TableMarkdown(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)

	r.Table([]string{"Name", "Ports"}, [][]string{{"FDCE", "5"}, {"BUFGCE_1", "3"}})

	got := out.String()
	assert.Contains(t, got, "| Name | Ports |")
	assert.Contains(t, got, "| FDCE | 5 |")
	assert.Contains(t, got, "| BUFGCE_1 | 3 |")
}

func TestRenderer_TableText(t *testing.T) {
	r, out, _ := newTestRenderer(ModeText, true)

	r.Table([]string{"Name"}, [][]string{{"MUXF8_D"}})

	assert.Contains(t, out.String(), "MUXF8_D")
	assert.Contains(t, out.String(), "┌")
}

func TestRenderer_JSON(t *testing.T) {
	r, out, _ := newTestRenderer(ModeJSON, false)

	require.NoError(t, r.JSON(map[string]int{"macros": 3}))
	assert.Equal(t, "{\n  \"macros\": 3\n}\n", out.String())
}

func TestRenderer_Messages(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeMarkdown, false)

	r.Success("imported 3 macros")
	r.Warning("library dir missing")

	assert.Equal(t, "imported 3 macros\n", out.String())
	assert.Equal(t, "Warning: library dir missing\n", errOut.String())
	assert.Equal(t, "plain", r.Muted("plain"))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Ports", FormatHeader(2, "Ports"))
	assert.Equal(t, "###### deep", FormatHeader(9, "deep"))
	assert.Equal(t, "# top", FormatHeader(0, "top"))
	assert.Equal(t, "- **Width:** 4", FormatKeyValue("Width", "4"))
	assert.Equal(t, "```\nx\n```", FormatCodeBlock("", "x\n\n"))
}

func TestStyles_Direction(t *testing.T) {
	s := DefaultStyles()
	assert.Equal(t, s.Input, s.Direction("input"))
	assert.Equal(t, s.Output, s.Direction("output"))
	assert.Equal(t, s.Inout, s.Direction("inout"))
	assert.Equal(t, s.Muted, s.Direction("sideways"))
}

func TestRenderer_StatusLine(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)

	r.StatusLine("macros dir", "success", "")
	r.StatusLine("FDCE", "warning", "shadowed by run:1a2b")
	r.StatusLine("broken.json", "error", "bad direction")

	assert.Equal(t, "- ✓ macros dir\n- ! FDCE: shadowed by run:1a2b\n- ✗ broken.json: bad direction\n", out.String())
}
