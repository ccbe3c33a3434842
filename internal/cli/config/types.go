// Package config provides configuration management for the hdlmacro CLI.
//
// Values are layered with koanf, lowest to highest precedence: defaults,
// hdlmacro.yaml, HDLMACRO_* environment variables, explicitly set flags.
package config

import (
	sharedcfg "github.com/leapstack-labs/hdlmacro/internal/config"
)

// Config holds all CLI configuration options.
type Config struct {
	MacrosDir     string   `koanf:"macros_dir"`
	StatePath     string   `koanf:"state_path"`
	OutputFormat  string   `koanf:"output"`
	Verbose       bool     `koanf:"verbose"`
	LogLevel      string   `koanf:"log_level"`
	DefaultFormat string   `koanf:"default_format"`
	Libraries     []string `koanf:"libraries"` // extra library files outside macros_dir

	// ProjectRoot is the directory relative paths were resolved against.
	ProjectRoot string `koanf:"-"`
	// ConfigFile is the config file that was loaded, if any.
	ConfigFile string `koanf:"-"`
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultMacrosDir     = sharedcfg.DefaultMacrosDir
	DefaultStateFile     = sharedcfg.DefaultStateFile
	DefaultOutput        = sharedcfg.DefaultOutput
	DefaultLogLevel      = sharedcfg.DefaultLogLevel
	DefaultLibraryFormat = sharedcfg.DefaultLibraryFormat
)

// OutputModes lists the accepted values of the output setting.
func OutputModes() []string {
	return []string{"auto", "text", "markdown", "json"}
}

// Default returns the configuration used when nothing else is loaded.
func Default() *Config {
	return &Config{
		MacrosDir:     DefaultMacrosDir,
		StatePath:     DefaultStateFile,
		OutputFormat:  DefaultOutput,
		LogLevel:      DefaultLogLevel,
		DefaultFormat: DefaultLibraryFormat,
	}
}
