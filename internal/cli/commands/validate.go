package commands

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/leapstack-labs/hdlmacro/internal/cli/output"
	"github.com/leapstack-labs/hdlmacro/internal/macro"
	"github.com/leapstack-labs/hdlmacro/pkg/codec"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// ValidateResult is the outcome for one file.
type ValidateResult struct {
	File   string `json:"file"`
	Format string `json:"format,omitempty"`
	Macros int    `json:"macros"`
	Valid  bool   `json:"valid"`
	Error  string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate macro library files against the schema",
		Long: `Validate one or more library files or extraction responses against the
macro schema. Files are checked concurrently; every file is reported and the
command fails if any of them is invalid.

The format comes from the file extension unless --format is given.`,
		Example: `  hdlmacro validate macros/*.yaml
  hdlmacro validate --format json 7series_logic__response.txt`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Input format (json|yaml|toml|msgpack)")

	return cmd
}

func runValidate(cmd *cobra.Command, files []string, format string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	var forced codec.Format
	if format != "" {
		f, err := codec.ParseFormat(format)
		if err != nil {
			return err
		}
		forced = f
	}

	results := validateFiles(files, forced)

	invalid := 0
	for _, res := range results {
		if !res.Valid {
			invalid++
			cmdCtx.Logger.Debug("invalid library", "file", res.File, "error", res.Error)
		}
	}

	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(results); err != nil {
			return err
		}
	} else {
		r.Header(1, fmt.Sprintf("Validated %d file(s)", len(results)))
		for _, res := range results {
			if res.Valid {
				r.StatusLine(res.File, "success", fmt.Sprintf("%s, %d macro(s)", res.Format, res.Macros))
			} else {
				r.StatusLine(res.File, "error", res.Error)
			}
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d file(s) failed validation", invalid, len(results))
	}
	return nil
}

// validateFiles decodes every file concurrently. Results keep the order of
// files; a failing file never stops the others.
func validateFiles(files []string, forced codec.Format) []ValidateResult {
	results := make([]ValidateResult, len(files))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		g.Go(func() error {
			res := ValidateResult{File: file}
			var (
				lib *macro.LoadedLibrary
				err error
			)
			if forced != "" {
				lib, err = macro.LoadFileAs(file, forced)
			} else {
				lib, err = macro.LoadFile(file)
			}
			if err != nil {
				res.Error = err.Error()
			} else {
				res.Valid = true
				res.Format = string(lib.Format)
				res.Macros = len(lib.Collection.Macros)
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func countLabel(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	if strings.HasSuffix(noun, "y") {
		return strconv.Itoa(n) + " " + strings.TrimSuffix(noun, "y") + "ies"
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
