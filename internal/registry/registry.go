// Package registry provides macro registration and name resolution.
// It merges macros from every source the CLI knows about (builtins, library
// files, the run catalog) into one lookup table.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/hdlmacro/pkg/core"
)

// ErrNotFound is returned when no registered macro matches a name.
var ErrNotFound = errors.New("macro not found")

// Entry is a registered macro together with the source it came from.
type Entry struct {
	Macro  core.Macro
	Source string
}

// MacroRegistry maps macro names to their definitions.
type MacroRegistry struct {
	mu sync.RWMutex

	// byName maps exact macro names to entries: "FDCE" → Entry
	// Note: if multiple sources define the same name, the last registered wins
	byName map[string]Entry

	// byFold maps lower-cased names to exact names: "fdce" → "FDCE"
	byFold map[string]string
}

// NewMacroRegistry creates a new empty registry.
func NewMacroRegistry() *MacroRegistry {
	return &MacroRegistry{
		byName: make(map[string]Entry),
		byFold: make(map[string]string),
	}
}

// Register adds a macro to the registry under the given source label.
func (r *MacroRegistry) Register(source string, m core.Macro) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.register(source, m)
}

// RegisterCollection adds every macro of c in order, so a later duplicate
// within c wins as well.
func (r *MacroRegistry) RegisterCollection(source string, c core.MacroCollection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range c.Macros {
		r.register(source, m)
	}
}

func (r *MacroRegistry) register(source string, m core.Macro) {
	r.byName[m.Name] = Entry{Macro: m, Source: source}
	r.byFold[strings.ToLower(m.Name)] = m.Name
}

// Get resolves a macro name.
//
// Resolution order:
//  1. exact name
//  2. case-insensitive name
//  3. source-qualified name ("builtin.FDCE"), matching only that source
func (r *MacroRegistry) Get(name string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.byName[name]; ok {
		return e, nil
	}
	if exact, ok := r.byFold[strings.ToLower(name)]; ok {
		return r.byName[exact], nil
	}
	// Source labels come from file names and may contain dots themselves.
	if i := strings.LastIndex(name, "."); i > 0 {
		source, bare := name[:i], name[i+1:]
		if exact, ok := r.byFold[strings.ToLower(bare)]; ok {
			if e := r.byName[exact]; e.Source == source {
				return e, nil
			}
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Resolve looks up several names at once. Found entries keep the order of
// names with duplicates dropped; unknown names are returned separately.
func (r *MacroRegistry) Resolve(names []string) (found []Entry, missing []string) {
	seen := make(map[string]struct{})
	for _, name := range names {
		e, err := r.Get(name)
		if err != nil {
			missing = append(missing, name)
			continue
		}
		if _, ok := seen[e.Macro.Name]; ok {
			continue
		}
		seen[e.Macro.Name] = struct{}{}
		found = append(found, e)
	}
	return found, missing
}

// List returns all registered macros sorted by name.
func (r *MacroRegistry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.byName))
	for _, e := range r.byName {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Macro.Name < entries[j].Macro.Name
	})
	return entries
}

// Count returns the number of registered macros.
func (r *MacroRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
