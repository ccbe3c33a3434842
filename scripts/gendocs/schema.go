package main

import (
	"fmt"
	"log"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/leapstack-labs/hdlmacro/internal/cli/config"
	sharedcfg "github.com/leapstack-labs/hdlmacro/internal/config"
	"github.com/leapstack-labs/hdlmacro/internal/library"
	"github.com/leapstack-labs/hdlmacro/pkg/schema"
)

// generateSchemaDocs generates the macro schema and configuration references.
func generateSchemaDocs(outDir string) error {
	log.Printf("Generating schema docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := generateMacroSchemaDoc(outDir); err != nil {
		return fmt.Errorf("failed to generate macro-schema.md: %w", err)
	}
	log.Printf("  Generated macro-schema.md")

	if err := generateConfigurationDoc(outDir); err != nil {
		return fmt.Errorf("failed to generate configuration.md: %w", err)
	}
	log.Printf("  Generated configuration.md")

	return nil
}

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Description string
}

// getConfigSchema returns the configuration keys of hdlmacro.yaml.
// This is based on internal/cli/config/types.go Config.
func getConfigSchema() []ConfigField {
	return []ConfigField{
		{Name: "macros_dir", Type: "string", Default: config.DefaultMacrosDir, Description: "Directory scanned for macro library files"},
		{Name: "state_path", Type: "string", Default: config.DefaultStateFile, Description: "Run catalog database (`:memory:` for a throwaway catalog)"},
		{Name: "libraries", Type: "[]string", Description: "Extra library files outside macros_dir"},
		{Name: "default_format", Type: "string", Default: config.DefaultLibraryFormat, Description: "Format used by convert when none is given"},
		{Name: "output", Type: "string", Default: config.DefaultOutput, Description: "Output mode: " + strings.Join(config.OutputModes(), ", ")},
		{Name: "log_level", Type: "string", Default: config.DefaultLogLevel, Description: "Log level: debug, info, warn, error"},
		{Name: "verbose", Type: "bool", Default: "false", Description: "Shorthand for log_level debug"},
	}
}

func envName(key string) string {
	return sharedcfg.EnvPrefix + strings.ToUpper(key)
}

// generateConfigurationDoc generates the configuration reference page.
func generateConfigurationDoc(outDir string) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Configuration", "hdlmacro configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph(fmt.Sprintf("hdlmacro is configured via %s in your project root. Relative paths are resolved against the directory holding the file.",
		InlineCode(sharedcfg.ConfigFileName)))

	headers := []string{"Field", "Type", "Default", "Environment", "Description"}
	var rows [][]string
	for _, f := range getConfigSchema() {
		defVal := "-"
		if f.Default != "" {
			defVal = InlineCode(f.Default)
		}
		rows = append(rows, []string{InlineCode(f.Name), f.Type, defVal, InlineCode(envName(f.Name)), f.Description})
	}
	w.Table(headers, rows)

	w.Header(2, "Example")
	w.CodeBlock("yaml", `macros_dir: macros
state_path: .hdlmacro/state.db
libraries:
  - vendor/ultrascale_clocking.toml
default_format: yaml
output: auto
log_level: warn`)

	return os.WriteFile(filepath.Join(outDir, "configuration.md"), w.Bytes(), 0o600)
}

// fieldOrder lists document fields in wire order; unknown fields follow sorted.
var fieldOrder = []string{"name", "direction", "width", "default", "description", "ports", "attributes", "macros"}

// generateMacroSchemaDoc generates the macro collection schema page.
func generateMacroSchemaDoc(outDir string) error {
	w := NewMarkdownWriter()
	root := schema.DescribeSchema()

	w.Frontmatter("Macro Schema", "Macro collection schema "+schema.Version)
	w.GeneratedMarker()

	w.Header(1, "Macro Schema")
	w.Paragraph(root.Description)
	w.Paragraph(fmt.Sprintf("Schema version %s, %s. Print it with %s.",
		InlineCode(schema.Version), InlineCode(schema.SchemaID), InlineCode("hdlmacro schema")))

	macro := root.Properties["macros"].Items
	port := macro.Properties["ports"].Items
	attribute := macro.Properties["attributes"].Items
	for _, s := range []*jsonschema.Schema{macro, port, attribute} {
		w.Header(2, s.Title)
		writePropertiesTable(w, s)
	}

	w.Header(2, "Builtin Macros")
	w.Paragraph("These macros are always available and can be shadowed by any library.")
	var rows [][]string
	for _, m := range library.Builtin().Macros {
		rows = append(rows, []string{InlineCode(m.Name), strconv.Itoa(len(m.Ports)), strings.Join(m.ParameterNames(), ", "), m.Description})
	}
	w.Table([]string{"Name", "Ports", "Parameters", "Description"}, rows)

	data, err := schema.DescribeSchemaJSON()
	if err != nil {
		return err
	}
	w.Header(2, "JSON Schema")
	w.CodeBlock("json", string(data))

	return os.WriteFile(filepath.Join(outDir, "macro-schema.md"), w.Bytes(), 0o600)
}

func writePropertiesTable(w *MarkdownWriter, s *jsonschema.Schema) {
	var rows [][]string
	for _, name := range orderedFields(s.Properties) {
		p := s.Properties[name]
		required := "No"
		if slices.Contains(s.Required, name) {
			required = "Yes"
		}
		rows = append(rows, []string{InlineCode(name), schemaType(p), required, cleanDescription(p.Description)})
	}
	w.Table([]string{"Field", "Type", "Required", "Description"}, rows)
}

func orderedFields(props map[string]*jsonschema.Schema) []string {
	var names []string
	for _, name := range fieldOrder {
		if _, ok := props[name]; ok {
			names = append(names, name)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(props)) {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

func schemaType(s *jsonschema.Schema) string {
	typ := s.Type
	if typ == "" {
		typ = strings.Join(s.Types, " or ")
	}
	if typ == "array" && s.Items != nil && s.Items.Title != "" {
		typ = s.Items.Title + "[]"
	}
	if len(s.Enum) > 0 {
		values := make([]string, 0, len(s.Enum))
		for _, v := range s.Enum {
			values = append(values, fmt.Sprint(v))
		}
		typ += " (" + strings.Join(values, ", ") + ")"
	}
	return typ
}
