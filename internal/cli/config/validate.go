package config

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/leapstack-labs/hdlmacro/pkg/codec"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.MacrosDir == "" {
		return fmt.Errorf("macros_dir is required")
	}
	if c.StatePath == "" {
		return fmt.Errorf("state_path is required")
	}
	if !slices.Contains(OutputModes(), c.OutputFormat) {
		return fmt.Errorf("invalid output %q: must be one of %s", c.OutputFormat, strings.Join(OutputModes(), ", "))
	}
	if _, err := codec.ParseFormat(c.DefaultFormat); err != nil {
		return fmt.Errorf("invalid default_format: %w", err)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLogLevel maps a level name (debug, info, warn, error) to a slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: must be debug, info, warn or error", s)
	}
	return level, nil
}

// NewLogger builds the CLI logger. Verbose forces debug level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelWarn
	}
	if c.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
