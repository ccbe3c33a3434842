package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/hdlmacro/internal/cli/output"
	sharedcfg "github.com/leapstack-labs/hdlmacro/internal/config"
	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var example bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new hdlmacro project",
		Long: `Initialize a new hdlmacro project with a configuration file and a macros
directory for library files.

This creates:
  - hdlmacro.yaml configuration file
  - macros/ directory for macro libraries
  - .gitignore excluding the run catalog

Use --example to add a sample 7-series library and a bindings file.`,
		Example: `  # Initialize in current directory
  hdlmacro init

  # Initialize a new directory with an example library
  hdlmacro init my-project --example

  # Force overwrite existing config
  hdlmacro init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			r := NewCommandContext(cmd).Renderer

			template := "minimal"
			if example {
				template = "example"
			}
			return runInit(r, dir, template, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().BoolVar(&example, "example", false, "Add an example macro library and bindings file")

	return cmd
}

func runInit(r *output.Renderer, dir, template string, force bool) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, sharedcfg.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", sharedcfg.ConfigFileName)
	}

	if err := copyTemplate(template, dir, force); err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	files, err := listTemplateFiles(template)
	if err != nil {
		return err
	}
	groups := groupTemplateFiles(files)
	for _, section := range []struct{ key, title string }{
		{"config", "Configuration"},
		{"macros", "Macros"},
		{"bindings", "Bindings"},
	} {
		if len(groups[section.key]) == 0 {
			continue
		}
		r.Header(2, section.title)
		for _, f := range groups[section.key] {
			r.StatusLine(f, "success", "")
		}
		r.Println("")
	}

	r.Success("hdlmacro project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  hdlmacro schema > schema.json   Hand the schema to your extractor")
	r.Println("  hdlmacro import response.json   Record an extraction run")
	r.Println("  hdlmacro list                   See every known macro")
	if template == "example" {
		r.Println("  hdlmacro instantiate LUT2 lut0 --bindings bindings/lut0.yaml")
	}

	return nil
}
