package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/hdlmacro/internal/cli/commands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRoot_Subcommands(t *testing.T) {
	root := NewRootCmd()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{
		"version", "schema", "validate", "convert", "import", "runs",
		"list", "show", "instantiate", "init", "doctor", "completion",
	} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"config", "macros-dir", "state", "output", "verbose", "log-level"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRoot_Version(t *testing.T) {
	stdout, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "hdlmacro "+Version+"\n", stdout)
}

func TestRoot_InitThenInstantiate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "proj")
	cfgPath := filepath.Join(dir, "hdlmacro.yaml")

	_, _, err := execute(t, "init", dir, "--example")
	require.NoError(t, err)

	stdout, _, err := execute(t, "--config", cfgPath, "-o", "json",
		"instantiate", "LUT2", "lut0", "--bindings", filepath.Join(dir, "bindings", "lut0.yaml"))
	require.NoError(t, err)

	var out commands.InstantiateOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "7series_logic", out.Source)
	assert.Equal(t, `LUT2 #(
    .INIT(4'h8)
)
lut0(
    .I0(a),
    .I1(b),
    .O(a_and_b)
);`, out.Text)
}

func TestRoot_EnvSelectsOutput(t *testing.T) {
	dir := t.TempDir()
	_, _, err := execute(t, "init", dir)
	require.NoError(t, err)

	t.Setenv("HDLMACRO_OUTPUT", "json")
	stdout, _, err := execute(t, "--config", filepath.Join(dir, "hdlmacro.yaml"), "list", "--source", "builtin")
	require.NoError(t, err)

	var summaries []commands.MacroSummary
	require.NoError(t, json.Unmarshal([]byte(stdout), &summaries))
	assert.Len(t, summaries, 3)
}

func TestRoot_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	_, _, err := execute(t, "init", dir)
	require.NoError(t, err)

	_, _, err = execute(t, "--config", filepath.Join(dir, "hdlmacro.yaml"), "--output", "html", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output")
}

func TestRoot_VerboseLogsToStderr(t *testing.T) {
	dir := t.TempDir()
	_, _, err := execute(t, "init", dir)
	require.NoError(t, err)

	_, stderr, err := execute(t, "--config", filepath.Join(dir, "hdlmacro.yaml"), "-v", "list")
	require.NoError(t, err)
	assert.Contains(t, stderr, "using config file")
	assert.Contains(t, stderr, "registry built")
}

func TestRoot_Completion(t *testing.T) {
	stdout, _, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, stdout, "bash completion")

	_, _, err = execute(t, "completion", "tcsh")
	assert.Error(t, err)
}
