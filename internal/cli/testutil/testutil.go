// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/hdlmacro/internal/cli/config"
	"github.com/leapstack-labs/hdlmacro/internal/cli/output"
	"github.com/leapstack-labs/hdlmacro/internal/testutil"
	"github.com/spf13/cobra"
)

// FF0Bindings binds every port of the FDCE macro in LogicLibraryJSON.
const FF0Bindings = `parameters:
  INIT: "1'b1"
ports:
  Q: q
  C: clk
  CE: ce
  CLR: rst
  D: d
`

// SetupTestProject creates a temporary project with a config file, one macro
// library and a bindings file. It returns the project root.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"hdlmacro.yaml":     "macros_dir: macros\nstate_path: .hdlmacro/state.db\n",
		"macros/logic.json": testutil.LogicLibraryJSON,
		"bindings/ff0.yaml": FF0Bindings,
		"macros/README.md":  "# macros\n",
	})
	return dir
}

// ProjectConfig returns a config for a project created by SetupTestProject,
// rendering in the given output mode.
func ProjectConfig(root string, mode output.Mode) *config.Config {
	cfg := config.Default()
	cfg.ProjectRoot = root
	cfg.ConfigFile = filepath.Join(root, "hdlmacro.yaml")
	cfg.MacrosDir = filepath.Join(root, "macros")
	cfg.StatePath = filepath.Join(root, ".hdlmacro", "state.db")
	cfg.OutputFormat = string(mode)
	return cfg
}

// Result holds the captured output of one command execution.
type Result struct {
	Stdout string
	Stderr string
	Err    error
}

// RunCommand executes cmd with args and cfg in its context, capturing stdout
// and stderr.
func RunCommand(t *testing.T, cmd *cobra.Command, cfg *config.Config, args ...string) Result {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	ctx := context.WithValue(context.Background(), config.LoggerKey(), testutil.NewTestLogger(t))
	ctx = config.WithConfig(ctx, cfg)
	err := cmd.ExecuteContext(ctx)

	return Result{Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererJSON creates a new test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
