package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/leapstack-labs/hdlmacro/internal/cli/config"
	"github.com/leapstack-labs/hdlmacro/internal/cli/output"
	"github.com/leapstack-labs/hdlmacro/internal/library"
	"github.com/leapstack-labs/hdlmacro/internal/macro"
	"github.com/leapstack-labs/hdlmacro/internal/registry"
	"github.com/leapstack-labs/hdlmacro/internal/state"
	"github.com/leapstack-labs/hdlmacro/pkg/codec"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the command's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	logger := config.GetLogger(ctx)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// OpenCatalog opens the run catalog, creating and migrating it if needed.
// The caller must close it.
func (c *CommandContext) OpenCatalog() (*state.SQLiteStore, error) {
	store, err := state.OpenSQLiteStore(c.Cfg.StatePath, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", c.Cfg.StatePath, err)
	}
	return store, nil
}

// catalogExists reports whether a catalog file has been created yet, so
// read-only commands do not create one as a side effect.
func (c *CommandContext) catalogExists() bool {
	if c.Cfg.StatePath == state.MemoryPath {
		return false
	}
	_, err := os.Stat(c.Cfg.StatePath)
	return err == nil
}

// loadLibrary reads one library file, taking the format from format when it
// is set and from the file extension otherwise.
func loadLibrary(file, format string) (*macro.LoadedLibrary, error) {
	if format == "" {
		return macro.LoadFile(file)
	}
	f, err := codec.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return macro.LoadFileAs(file, f)
}

// runSource labels catalog entries in the registry.
func runSource(runID string) string {
	if len(runID) > 8 {
		runID = runID[:8]
	}
	return "run:" + runID
}

// BuildRegistry gathers every known macro. Later sources shadow earlier
// ones: builtins, then the macros directory, then extra library files, then
// the newest catalog definitions.
func (c *CommandContext) BuildRegistry(ctx context.Context) (*registry.MacroRegistry, error) {
	reg := registry.NewMacroRegistry()
	reg.RegisterCollection(library.Source, library.Builtin())

	libs, err := macro.NewLoader(c.Cfg.MacrosDir, c.Logger).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load macro libraries: %w", err)
	}
	for _, lib := range libs {
		reg.RegisterCollection(lib.Name, lib.Collection)
	}

	for _, path := range c.Cfg.Libraries {
		lib, err := macro.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load library: %w", err)
		}
		reg.RegisterCollection(lib.Name, lib.Collection)
	}

	if c.catalogExists() {
		store, err := c.OpenCatalog()
		if err != nil {
			return nil, err
		}
		defer func() { _ = store.Close() }()

		latest, err := store.LatestMacros(ctx)
		if err != nil {
			return nil, err
		}
		for _, cm := range latest {
			reg.Register(runSource(cm.RunID), cm.Macro)
		}
	}

	c.Logger.Debug("registry built", slog.Int("macros", reg.Count()))
	return reg, nil
}
