package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/leapstack-labs/hdlmacro/internal/cli/output"
	"github.com/leapstack-labs/hdlmacro/internal/macro"
	"github.com/leapstack-labs/hdlmacro/pkg/schema"
	"github.com/spf13/cobra"
)

// ImportOptions holds options for the import command.
type ImportOptions struct {
	Source       string
	Format       string
	NormalizeDir string
}

// ImportResult is the JSON output for one imported file.
type ImportResult struct {
	File       string `json:"file"`
	RunID      string `json:"run_id"`
	Source     string `json:"source"`
	Macros     int    `json:"macros"`
	Normalized string `json:"normalized,omitempty"`
}

// NewImportCommand creates the import command.
func NewImportCommand() *cobra.Command {
	opts := &ImportOptions{}
	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Record extraction responses in the run catalog",
		Long: `Validate extraction responses and record each one as a run in the
catalog. Every file is validated before anything is recorded; a single invalid
file aborts the import.

Recorded macros become available to list, show and instantiate; a newer run
shadows older definitions of the same macro.

With --normalize-dir, each response is also written back as
<name>__macros.json in canonical form.`,
		Example: `  hdlmacro import demo_output/7series_logic__response.json --source 7series_logic.pdf
  hdlmacro import responses/*.json --normalize-dir demo_output`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Source, "source", "", "Source label for the run (default: file name)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Input format (default: from file extension)")
	cmd.Flags().StringVar(&opts.NormalizeDir, "normalize-dir", "", "Also write canonical <name>__macros.json files here")

	return cmd
}

func runImport(cmd *cobra.Command, files []string, opts *ImportOptions) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	libs := make([]*macro.LoadedLibrary, 0, len(files))
	for _, file := range files {
		lib, err := loadLibrary(file, opts.Format)
		if err != nil {
			return err
		}
		libs = append(libs, lib)
	}

	store, err := cmdCtx.OpenCatalog()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	results := make([]ImportResult, 0, len(libs))
	for _, lib := range libs {
		source := opts.Source
		if source == "" {
			source = filepath.Base(lib.Path)
		}

		run, err := store.SaveRun(cmd.Context(), source, lib.Collection)
		if err != nil {
			return err
		}
		res := ImportResult{File: lib.Path, RunID: run.ID, Source: run.Source, Macros: run.MacroCount}

		if opts.NormalizeDir != "" {
			path, err := writeNormalized(opts.NormalizeDir, lib)
			if err != nil {
				return err
			}
			res.Normalized = path
		}
		results = append(results, res)
	}

	return renderImport(r, results)
}

func writeNormalized(dir string, lib *macro.LoadedLibrary) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	data, err := schema.Serialize(lib.Collection)
	if err != nil {
		return "", err
	}
	name := trimResponseSuffix(lib.Name) + "__macros.json"
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // G306: libraries are not secret
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// trimResponseSuffix maps "7series_logic__response" to "7series_logic".
func trimResponseSuffix(name string) string {
	return strings.TrimSuffix(name, "__response")
}

func renderImport(r *output.Renderer, results []ImportResult) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(results)
	}

	rows := make([][]string, 0, len(results))
	for _, res := range results {
		rows = append(rows, []string{res.RunID, res.Source, strconv.Itoa(res.Macros)})
	}
	r.Table([]string{"Run", "Source", "Macros"}, rows)
	for _, res := range results {
		if res.Normalized != "" {
			r.StatusLine(res.Normalized, "success", "")
		}
	}
	r.Success(fmt.Sprintf("Imported %s", countLabel(len(results), "run")))
	return nil
}
