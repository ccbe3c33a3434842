package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readPage(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec // test file
	require.NoError(t, err)
	return string(data)
}

func TestGenerateCLIDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateCLIDocs(dir))

	index := readPage(t, filepath.Join(dir, "index.md"))
	assert.Contains(t, index, generatedMarker)
	assert.Contains(t, index, "[`instantiate`](/cli/instantiate)")
	assert.Contains(t, index, "`HDLMACRO_MACROS_DIR`")
	assert.Contains(t, index, "## Extraction runs")
	assert.Less(t, strings.Index(index, "## Macro libraries"), strings.Index(index, "## Instantiation"))
	assert.NotContains(t, index, "## Other", "every command belongs to a group")

	page := readPage(t, filepath.Join(dir, "instantiate.md"))
	assert.Contains(t, page, "# instantiate")
	assert.Contains(t, page, "hdlmacro instantiate <macro> <instance>")
	assert.Contains(t, page, "`--fill-ports`")
	assert.Contains(t, page, "| `-p`, `--param` | stringArray |")
	assert.Contains(t, page, "Aliases: `inst`")

	runs := readPage(t, filepath.Join(dir, "runs.md"))
	assert.Contains(t, runs, "hdlmacro runs <subcommand>")
	assert.Contains(t, runs, "## runs show")
	assert.Contains(t, runs, "## runs delete")
	assert.Contains(t, runs, "Aliases: `rm`")
}

func TestGenerateSchemaDocs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generateSchemaDocs(dir))

	page := readPage(t, filepath.Join(dir, "macro-schema.md"))
	for _, want := range []string{
		"## Macro",
		"## MacroPort",
		"## MacroAttribute",
		"| `direction` | string (input, output, inout) | Yes |",
		"MacroPort[]",
		"`BUFGCE_1`",
		"```json",
	} {
		assert.Contains(t, page, want)
	}

	cfg := readPage(t, filepath.Join(dir, "configuration.md"))
	assert.Contains(t, cfg, "`HDLMACRO_STATE_PATH`")
	assert.Contains(t, cfg, "`.hdlmacro/state.db`")
}

func TestCleanExample(t *testing.T) {
	in := "  # first\n  hdlmacro list\n\n    indented\n"
	assert.Equal(t, "# first\nhdlmacro list\n\n  indented", cleanExample(in))
}

func TestGroupCommands_Other(t *testing.T) {
	sections := groupCommands([]*cobra.Command{{Use: "list"}, {Use: "frobnicate"}})
	require.Len(t, sections, 2)
	assert.Equal(t, "Instantiation", sections[0].Group.Title)
	assert.Equal(t, "Other", sections[1].Group.Title)
	assert.Equal(t, "frobnicate", sections[1].Commands[0].Name())
}

func TestFlagDefault(t *testing.T) {
	flags := pflag.NewFlagSet("t", pflag.ContinueOnError)
	flags.Int("limit", 20, "")
	flags.Bool("force", false, "")
	flags.StringArray("param", nil, "")

	assert.Equal(t, "`20`", flagDefault(flags.Lookup("limit")))
	assert.Empty(t, flagDefault(flags.Lookup("force")))
	assert.Empty(t, flagDefault(flags.Lookup("param")))
}

func TestSchemaType(t *testing.T) {
	assert.Equal(t, "string or null", schemaType(&jsonschema.Schema{Types: []string{"string", "null"}}))
	assert.Equal(t, "integer", schemaType(&jsonschema.Schema{Type: "integer"}))
}
