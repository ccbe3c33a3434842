package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "config file")
	flags.String("macros-dir", "", "macros directory")
	flags.String("state", "", "state database")
	flags.StringP("output", "o", "", "output format")
	flags.BoolP("verbose", "v", false, "verbose")
	flags.String("log-level", "", "log level")
	return flags
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hdlmacro.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfgPath := writeConfig(t, "")
	root := filepath.Dir(cfgPath)

	cfg, err := LoadConfig(cfgPath, newFlags())
	require.NoError(t, err)

	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, cfgPath, cfg.ConfigFile)
	assert.Equal(t, filepath.Join(root, DefaultMacrosDir), cfg.MacrosDir)
	assert.Equal(t, filepath.Join(root, DefaultStateFile), cfg.StatePath)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultLibraryFormat, cfg.DefaultFormat)
	assert.False(t, cfg.Verbose)
}

func TestLoadConfig_File(t *testing.T) {
	cfgPath := writeConfig(t, `macros_dir: vendor/unisim
state_path: ":memory:"
output: json
default_format: yaml
log_level: debug
libraries:
  - extra/clocking.toml
  - /abs/memory.json
`)
	root := filepath.Dir(cfgPath)

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "vendor", "unisim"), cfg.MacrosDir)
	assert.Equal(t, ":memory:", cfg.StatePath, "in-memory marker is never resolved")
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "yaml", cfg.DefaultFormat)
	assert.Equal(t, []string{filepath.Join(root, "extra", "clocking.toml"), "/abs/memory.json"}, cfg.Libraries)
}

// TestLoadConfig_FlagPrecedence tests that explicitly set flags win over env and file.
func TestLoadConfig_FlagPrecedence(t *testing.T) {
	cfgPath := writeConfig(t, "macros_dir: from_file\noutput: text\n")
	t.Setenv("HDLMACRO_MACROS_DIR", "from_env")
	t.Setenv("HDLMACRO_OUTPUT", "markdown")

	flags := newFlags()
	require.NoError(t, flags.Set("macros-dir", "from_flag"))
	require.NoError(t, flags.Set("output", "json"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	// Flag paths are relative to the working directory, not the project root.
	want, err := filepath.Abs("from_flag")
	require.NoError(t, err)
	assert.Equal(t, want, cfg.MacrosDir, "flag value should override config file and env var")
	assert.Equal(t, "json", cfg.OutputFormat)
}

// TestLoadConfig_EnvPrecedenceOverFile tests that env vars override config file.
func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	cfgPath := writeConfig(t, "macros_dir: from_file\n")
	t.Setenv("HDLMACRO_MACROS_DIR", "from_env")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(cfgPath), "from_env"), cfg.MacrosDir, "env var should override config file")
}

// TestLoadConfig_FlagNotSetUsesEnv tests that unset flags fall back to env vars.
func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	cfgPath := writeConfig(t, "log_level: info\n")
	t.Setenv("HDLMACRO_LOG_LEVEL", "error")

	cfg, err := LoadConfig(cfgPath, newFlags())
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.LogLevel, "env var should be used when flag is not set")
}

func TestLoadConfig_StateFlagMemory(t *testing.T) {
	flags := newFlags()
	require.NoError(t, flags.Set("state", ":memory:"))
	require.NoError(t, flags.Set("verbose", "true"))

	cfg, err := LoadConfig(writeConfig(t, ""), flags)
	require.NoError(t, err)

	assert.Equal(t, ":memory:", cfg.StatePath)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{name: "bad output", content: "output: html\n", errSubstr: "invalid output"},
		{name: "bad default format", content: "default_format: xml\n", errSubstr: "invalid default_format"},
		{name: "bad log level", content: "log_level: chatty\n", errSubstr: "invalid log_level"},
		{name: "malformed yaml", content: "output: [\n", errSubstr: "error reading config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.MacrosDir = ""
	assert.ErrorContains(t, cfg.Validate(), "macros_dir is required")
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	_, err = ParseLogLevel("")
	assert.Error(t, err)
}

func TestConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()

	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	cfg.Verbose = true
	cfg.NewLogger(&buf).Debug("debug line")
	assert.Contains(t, buf.String(), "debug line")
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()

	assert.NotNil(t, GetLogger(ctx), "missing logger falls back to discard")
	assert.Equal(t, Default(), FromContext(ctx))

	logger := slog.New(slog.DiscardHandler)
	ctx = context.WithValue(ctx, LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))

	cfg := &Config{MacrosDir: "lib"}
	ctx = WithConfig(ctx, cfg)
	assert.Same(t, cfg, FromContext(ctx))
}
