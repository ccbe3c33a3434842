package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/hdlmacro/internal/cli/config"
	clitest "github.com/leapstack-labs/hdlmacro/internal/cli/testutil"
	"github.com/leapstack-labs/hdlmacro/internal/macro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name      string
		setupDir  func(t *testing.T, dir string)
		args      []string
		wantErr   bool
		wantFiles []string
		wantOut   []string
	}{
		{
			name:      "init empty directory",
			wantFiles: []string{"hdlmacro.yaml", ".gitignore", "macros", "macros/README.md"},
			wantOut:   []string{"hdlmacro project initialized!", "## Configuration"},
		},
		{
			name: "init existing config without force",
			setupDir: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "hdlmacro.yaml"), []byte("existing"), 0o600))
			},
			wantErr: true,
		},
		{
			name: "init existing config with force",
			setupDir: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "hdlmacro.yaml"), []byte("existing"), 0o600))
			},
			args:      []string{"--force"},
			wantFiles: []string{"hdlmacro.yaml", "macros"},
		},
		{
			name:      "init with example",
			args:      []string{"--example"},
			wantFiles: []string{"hdlmacro.yaml", "macros/7series_logic.yaml", "bindings/lut0.yaml"},
			wantOut:   []string{"## Bindings", "instantiate LUT2 lut0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "project")
			require.NoError(t, os.MkdirAll(dir, 0o750))
			if tt.setupDir != nil {
				tt.setupDir(t, dir)
			}

			res := clitest.RunCommand(t, NewInitCommand(), config.Default(), append([]string{dir}, tt.args...)...)
			if tt.wantErr {
				require.Error(t, res.Err)
				assert.Contains(t, res.Err.Error(), "already exists")
				return
			}
			require.NoError(t, res.Err)

			for _, f := range tt.wantFiles {
				_, err := os.Stat(filepath.Join(dir, f))
				assert.NoError(t, err, "expected %s to exist", f)
			}
			for _, want := range tt.wantOut {
				assert.Contains(t, res.Stdout, want)
			}
		})
	}
}

func TestInit_ForceOverwritesConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "hdlmacro.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("existing"), 0o600))

	res := clitest.RunCommand(t, NewInitCommand(), config.Default(), dir, "--force")
	require.NoError(t, res.Err)

	content, err := os.ReadFile(cfgPath) //nolint:gosec // test file
	require.NoError(t, err)
	assert.Contains(t, string(content), "macros_dir: macros")
}

func TestInit_ExampleLibraryIsValid(t *testing.T) {
	dir := t.TempDir()
	res := clitest.RunCommand(t, NewInitCommand(), config.Default(), dir, "--example")
	require.NoError(t, res.Err)

	lib, err := macro.LoadFile(filepath.Join(dir, "macros", "7series_logic.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"LUT2", "CARRY4"}, []string{lib.Collection.Macros[0].Name, lib.Collection.Macros[1].Name})

	bf, err := loadBindingsFile(filepath.Join(dir, "bindings", "lut0.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"I0", "I1", "O"}, bf.Ports.Names())
}

func TestGroupTemplateFiles(t *testing.T) {
	groups := groupTemplateFiles([]string{"hdlmacro.yaml", ".gitignore", "macros/a.yaml", "bindings/b.yaml"})

	assert.Equal(t, []string{"hdlmacro.yaml", ".gitignore"}, groups["config"])
	assert.Equal(t, []string{"macros/a.yaml"}, groups["macros"])
	assert.Equal(t, []string{"bindings/b.yaml"}, groups["bindings"])
}

func TestRenameSpecialFiles(t *testing.T) {
	assert.Equal(t, ".gitignore", renameSpecialFiles("gitignore"))
	assert.Equal(t, "sub/.gitignore", renameSpecialFiles("sub/gitignore"))
	assert.Equal(t, "macros/README.md", renameSpecialFiles("macros/README.md"))
}
