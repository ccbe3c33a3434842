package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	sharedcfg "github.com/leapstack-labs/hdlmacro/internal/config"
	"github.com/leapstack-labs/hdlmacro/internal/state"
	"github.com/spf13/pflag"
)

// loggerKey is used to store logger in context.
type loggerKey struct{}

// configKey is used to store the loaded config in context.
type configKey struct{}

// pathFlags are flags whose values are paths typed relative to the working
// directory rather than the project root.
var pathFlags = map[string]string{
	"macros-dir": "macros_dir",
	"state":      "state_path",
}

// inferProjectRoot determines the project root.
// Priority:
//  1. Directory of an explicit --config file
//  2. Search upward from CWD for hdlmacro.yaml
//  3. Current working directory
func inferProjectRoot(cfgFile string) string {
	if cfgFile != "" {
		if abs, err := filepath.Abs(cfgFile); err == nil {
			return filepath.Dir(abs)
		}
		return filepath.Dir(cfgFile)
	}

	cwd, err := os.Getwd()
	if err != nil || cwd == "" {
		return "."
	}
	if root := sharedcfg.FindProjectRoot(cwd); root != "" {
		return root
	}
	return cwd
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty, already absolute, or the
// in-memory catalog marker.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || path == state.MemoryPath || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// LoadConfig loads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	projectRoot := inferProjectRoot(cfgFile)

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]any{
		"macros_dir":     DefaultMacrosDir,
		"state_path":     DefaultStateFile,
		"output":         DefaultOutput,
		"verbose":        false,
		"log_level":      DefaultLogLevel,
		"default_format": DefaultLibraryFormat,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	configFile := cfgFile
	if configFile == "" {
		configFile = sharedcfg.FindConfigFile(projectRoot)
	}
	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	}

	// 3. Environment variables: HDLMACRO_MACROS_DIR -> macros_dir
	if err := k.Load(env.Provider(sharedcfg.EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, sharedcfg.EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those explicitly set
	flagPaths := map[string]string{}
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			if key, ok := pathFlags[f.Name]; ok {
				// Flag paths are relative to the working directory.
				v := f.Value.String()
				if abs, err := filepath.Abs(v); err == nil && v != state.MemoryPath {
					v = abs
				}
				flagPaths[key] = v
				return key, v
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Resolve paths that did not come from flags against the project root
	cfg.ProjectRoot = projectRoot
	cfg.ConfigFile = configFile
	if _, ok := flagPaths["macros_dir"]; !ok {
		cfg.MacrosDir = resolvePathRelativeTo(cfg.MacrosDir, projectRoot)
	}
	if _, ok := flagPaths["state_path"]; !ok {
		cfg.StatePath = resolvePathRelativeTo(cfg.StatePath, projectRoot)
	}
	for i, lib := range cfg.Libraries {
		cfg.Libraries[i] = resolvePathRelativeTo(lib, projectRoot)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() any {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}

// WithConfig stores cfg in ctx.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config stored by WithConfig, or the defaults
// resolved against the working directory.
func FromContext(ctx context.Context) *Config {
	if ctx != nil {
		if c, ok := ctx.Value(configKey{}).(*Config); ok {
			return c
		}
	}
	return Default()
}
