package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/leapstack-labs/hdlmacro/internal/cli"
	sharedcfg "github.com/leapstack-labs/hdlmacro/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// commandGroup is one section of the CLI index. Commands are listed in the
// order given here; anything not named falls into "Other".
type commandGroup struct {
	Title    string
	Summary  string
	Commands []string
}

var commandGroups = []commandGroup{
	{
		Title:    "Macro libraries",
		Summary:  "Check and convert library files. Every format goes through the same validator as extractor output.",
		Commands: []string{"schema", "validate", "convert"},
	},
	{
		Title:    "Extraction runs",
		Summary:  "Record extractor output in the run catalog and inspect what was recorded.",
		Commands: []string{"import", "runs"},
	},
	{
		Title:    "Instantiation",
		Summary:  "Look up macros across builtins, libraries and the catalog, and render Verilog instances.",
		Commands: []string{"list", "show", "instantiate"},
	},
	{
		Title:    "Project",
		Commands: []string{"init", "doctor", "version", "completion"},
	},
}

const workflowExample = `hdlmacro init --example
hdlmacro schema --out schema.json      # hand this to the extractor
hdlmacro import responses/*.json       # record what it produced
hdlmacro show FDCE
hdlmacro instantiate FDCE ff0 --bindings bindings/ff0.yaml`

// generateCLIDocs writes index.md plus one page per top-level command.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	commands := documentedCommands(root)

	if err := writePage(outDir, "index.md", cliIndex(root, commands)); err != nil {
		return err
	}
	for _, cmd := range commands {
		if err := writePage(outDir, cmd.Name()+".md", commandPage(cmd)); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", cmd.Name(), err)
		}
	}
	log.Printf("  Generated index.md and %d command pages", len(commands))
	return nil
}

func writePage(dir, name string, w *MarkdownWriter) error {
	return os.WriteFile(filepath.Join(dir, name), w.Bytes(), 0o600)
}

func documentedCommands(root *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range root.Commands() {
		if cmd.IsAvailableCommand() {
			out = append(out, cmd)
		}
	}
	return out
}

type commandSection struct {
	Group    commandGroup
	Commands []*cobra.Command
}

// groupCommands sorts commands into commandGroups, keeping the group order.
func groupCommands(commands []*cobra.Command) []commandSection {
	byName := make(map[string]*cobra.Command, len(commands))
	for _, cmd := range commands {
		byName[cmd.Name()] = cmd
	}

	var sections []commandSection
	placed := make(map[string]bool)
	for _, g := range commandGroups {
		s := commandSection{Group: g}
		for _, name := range g.Commands {
			if cmd, ok := byName[name]; ok {
				s.Commands = append(s.Commands, cmd)
				placed[name] = true
			}
		}
		if len(s.Commands) > 0 {
			sections = append(sections, s)
		}
	}

	other := commandSection{Group: commandGroup{Title: "Other"}}
	for _, cmd := range commands {
		if !placed[cmd.Name()] {
			other.Commands = append(other.Commands, cmd)
		}
	}
	if len(other.Commands) > 0 {
		sections = append(sections, other)
	}
	return sections
}

func cliIndex(root *cobra.Command, commands []*cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter("CLI Reference", "Command-line interface reference for hdlmacro")
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph(root.Long)
	w.CodeBlock("bash", "go install github.com/leapstack-labs/hdlmacro/cmd/hdlmacro@latest")

	w.Header(2, "Typical workflow")
	w.CodeBlock("bash", workflowExample)

	for _, s := range groupCommands(commands) {
		w.Header(2, s.Group.Title)
		if s.Group.Summary != "" {
			w.Paragraph(s.Group.Summary)
		}
		var rows [][]string
		for _, cmd := range s.Commands {
			link := fmt.Sprintf("[%s](/cli/%s)", InlineCode(cmd.Name()), cmd.Name())
			rows = append(rows, []string{link, cleanDescription(cmd.Short)})
		}
		w.Table([]string{"Command", "Description"}, rows)
	}

	w.Header(2, "Global flags")
	writeFlagsTable(w, root.PersistentFlags())

	w.Header(2, "Environment")
	w.Paragraph("Every configuration key can be set through the environment. Flags win over the environment, which wins over " +
		InlineCode(sharedcfg.ConfigFileName) + ".")
	var envRows [][]string
	for _, f := range getConfigSchema() {
		envRows = append(envRows, []string{InlineCode(envName(f.Name)), f.Description})
	}
	w.Table([]string{"Variable", "Description"}, envRows)

	w.Header(2, "Exit status")
	w.Paragraph("Commands exit 0 on success and 1 on any error, including a failed " + InlineCode("validate") +
		" file, a port binding mismatch in " + InlineCode("instantiate") + ", or a failing " + InlineCode("doctor") + " check.")
	return w
}

// commandPage documents a command and, inline, each of its subcommands.
func commandPage(cmd *cobra.Command) *MarkdownWriter {
	w := NewMarkdownWriter()
	w.Frontmatter(cmd.Name(), cmd.Short)
	w.GeneratedMarker()

	w.Header(1, cmd.Name())
	writeCommandBody(w, cmd, 2)

	for _, sub := range cmd.Commands() {
		if !sub.IsAvailableCommand() {
			continue
		}
		w.Header(2, cmd.Name()+" "+sub.Name())
		writeCommandBody(w, sub, 3)
	}
	return w
}

func writeCommandBody(w *MarkdownWriter, cmd *cobra.Command, level int) {
	if cmd.Long != "" {
		w.Paragraph(cmd.Long)
	} else {
		w.Paragraph(cmd.Short)
	}

	w.Header(level, "Usage")
	usage := []string{cmd.UseLine()}
	if cmd.HasAvailableSubCommands() {
		usage = append(usage, cmd.CommandPath()+" <subcommand>")
	}
	w.CodeBlock("bash", strings.Join(usage, "\n"))

	if len(cmd.Aliases) > 0 {
		aliases := make([]string, len(cmd.Aliases))
		for i, a := range cmd.Aliases {
			aliases[i] = InlineCode(a)
		}
		w.Paragraph("Aliases: " + strings.Join(aliases, ", "))
	}

	if cmd.HasAvailableLocalFlags() {
		w.Header(level, "Flags")
		writeFlagsTable(w, cmd.LocalNonPersistentFlags())
	}

	if cmd.Example != "" {
		w.Header(level, "Examples")
		w.CodeBlock("bash", cleanExample(cmd.Example))
	}
}

// writeFlagsTable lists visible flags, shorthand first.
func writeFlagsTable(w *MarkdownWriter, flags *pflag.FlagSet) {
	var rows [][]string
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		names := []string{InlineCode("--" + f.Name)}
		if f.Shorthand != "" {
			names = slices.Insert(names, 0, InlineCode("-"+f.Shorthand))
		}
		rows = append(rows, []string{
			strings.Join(names, ", "),
			f.Value.Type(),
			flagDefault(f),
			cleanDescription(f.Usage),
		})
	})
	w.Table([]string{"Flag", "Type", "Default", "Description"}, rows)
}

func flagDefault(f *pflag.Flag) string {
	switch f.DefValue {
	case "", "[]", "false":
		return ""
	default:
		return InlineCode(f.DefValue)
	}
}

// cleanExample strips the two-space indent cobra examples are written with.
func cleanExample(example string) string {
	lines := strings.Split(strings.Trim(example, "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, "  ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
