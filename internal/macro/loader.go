// Package macro loads macro library files from disk.
// A library is one file holding a MacroCollection in any codec format; the
// library name is the file name without its extension.
package macro

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/leapstack-labs/hdlmacro/pkg/codec"
	"github.com/leapstack-labs/hdlmacro/pkg/core"
	"golang.org/x/sync/errgroup"
)

// Loader scans a directory for library files and decodes them.
type Loader struct {
	dir    string
	logger *slog.Logger
}

// NewLoader creates a new library loader for the specified directory.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{dir: dir, logger: logger}
}

// LoadedLibrary represents a decoded library file.
type LoadedLibrary struct {
	// Name is derived from the file name (e.g., "7series_logic" from "7series_logic.yaml")
	Name string

	// Path is the path to the library file
	Path string

	Format     codec.Format
	Collection core.MacroCollection
}

// Load decodes every library file in the directory, in parallel.
// Results are sorted by path. A missing directory yields no libraries.
// Subdirectories, hidden files and files with unknown extensions are skipped.
func (l *Loader) Load(ctx context.Context) ([]*LoadedLibrary, error) {
	info, err := os.Stat(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Debug("macros directory not found", "dir", l.dir)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to access macros directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("macros path is not a directory: %s", l.dir)
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan macros directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if _, err := codec.FormatFromPath(e.Name()); err != nil {
			l.logger.Debug("skipping file with unknown extension", "file", e.Name())
			continue
		}
		files = append(files, filepath.Join(l.dir, e.Name()))
	}
	sort.Strings(files)

	libs := make([]*LoadedLibrary, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			lib, err := LoadFile(path)
			if err != nil {
				return err
			}
			libs[i] = lib
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, lib := range libs {
		l.logger.Debug("loaded macro library", "name", lib.Name, "format", lib.Format, "macros", len(lib.Collection.Macros))
	}
	return libs, nil
}

// LoadFile reads and decodes one library file. The format comes from the
// file extension.
func LoadFile(path string) (*LoadedLibrary, error) {
	format, err := codec.FormatFromPath(path)
	if err != nil {
		return nil, &LoadError{File: path, Err: err}
	}
	return LoadFileAs(path, format)
}

// LoadFileAs reads and decodes one library file in an explicit format.
func LoadFileAs(path string, format codec.Format) (*LoadedLibrary, error) {
	content, err := os.ReadFile(path) //nolint:gosec // G304: path is a library file chosen by the user
	if err != nil {
		return nil, &LoadError{File: path, Err: err}
	}

	c, err := codec.Decode(format, content)
	if err != nil {
		return nil, &LoadError{File: path, Err: err}
	}

	return &LoadedLibrary{
		Name:       strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path:       path,
		Format:     format,
		Collection: c,
	}, nil
}

// LoadError represents an error loading a library file.
type LoadError struct {
	File string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", filepath.Base(e.File), e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
