// Package config provides shared configuration defaults and project
// discovery for hdlmacro. It is decoupled from CLI concerns.
package config

// Default configuration values.
const (
	DefaultMacrosDir     = "macros"
	DefaultStateFile     = ".hdlmacro/state.db"
	DefaultOutput        = "auto" // TTY=text, non-TTY=markdown
	DefaultLogLevel      = "warn"
	DefaultLibraryFormat = "json"
)

// Config file names, in lookup order.
const (
	ConfigFileName    = "hdlmacro.yaml"
	ConfigFileNameAlt = "hdlmacro.yml"
)

// EnvPrefix prefixes every environment variable hdlmacro reads.
const EnvPrefix = "HDLMACRO_"
