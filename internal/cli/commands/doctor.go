package commands

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/leapstack-labs/hdlmacro/internal/cli/config"
	"github.com/leapstack-labs/hdlmacro/internal/cli/output"
	"github.com/leapstack-labs/hdlmacro/internal/library"
	"github.com/leapstack-labs/hdlmacro/internal/macro"
	"github.com/leapstack-labs/hdlmacro/pkg/core"
	"github.com/spf13/cobra"
)

// Health check statuses.
const (
	StatusPass = "pass"
	StatusWarn = "warn"
	StatusFail = "error"
)

// HealthCheck is the result of one doctor check.
type HealthCheck struct {
	Name    string   `json:"name"`
	Status  string   `json:"status"`
	Detail  string   `json:"detail,omitempty"`
	Details []string `json:"details,omitempty"`
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Checks   []HealthCheck `json:"checks"`
	Warnings int           `json:"warnings"`
	Errors   int           `json:"errors"`
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the project setup and macro libraries",
		Long: `Check the project configuration, the macro libraries and the run catalog.

The doctor command reports:
- whether a project config file was found
- whether the macros directory exists and every library in it loads
- libraries listed in the config that fail to load
- macro names defined by more than one source (later sources shadow earlier ones)
- macros with repeated port or attribute names
- the catalog schema version

Warnings do not fail the command; errors do.`,
		Example: `  hdlmacro doctor
  hdlmacro doctor -o json`,
		Args: cobra.NoArgs,
		RunE: runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	out := buildDoctorOutput(cmd.Context(), cmdCtx)

	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(out); err != nil {
			return err
		}
	} else {
		renderDoctor(r, out)
	}

	if out.Errors > 0 {
		return fmt.Errorf("doctor found %s", countLabel(out.Errors, "error"))
	}
	return nil
}

func buildDoctorOutput(ctx context.Context, cmdCtx *CommandContext) *DoctorOutput {
	cfg := cmdCtx.Cfg
	checks := []HealthCheck{checkConfigFile(cfg)}

	sources := []sourceMacros{{source: library.Source, macros: library.Builtin().Macros}}

	dirCheck, libs := checkMacrosDir(ctx, cmdCtx)
	checks = append(checks, dirCheck)
	for _, lib := range libs {
		sources = append(sources, sourceMacros{source: lib.Name, macros: lib.Collection.Macros})
	}

	libCheck, extra := checkLibraries(cfg.Libraries)
	checks = append(checks, libCheck)
	sources = append(sources, extra...)

	catalogCheck, catalogMacros := checkCatalog(ctx, cmdCtx)
	checks = append(checks, catalogCheck)
	sources = append(sources, catalogMacros...)

	checks = append(checks, checkShadowing(sources), checkDuplicateNames(sources))

	out := &DoctorOutput{Checks: checks}
	for _, c := range checks {
		switch c.Status {
		case StatusWarn:
			out.Warnings++
		case StatusFail:
			out.Errors++
		}
	}
	return out
}

// sourceMacros is the macro list contributed by one registry source.
type sourceMacros struct {
	source string
	macros []core.Macro
}

func checkConfigFile(cfg *config.Config) HealthCheck {
	check := HealthCheck{Name: "Config file"}
	if cfg.ConfigFile == "" {
		check.Status = StatusWarn
		check.Detail = "no hdlmacro.yaml found, using defaults"
		return check
	}
	check.Status = StatusPass
	check.Detail = cfg.ConfigFile
	return check
}

func checkMacrosDir(ctx context.Context, cmdCtx *CommandContext) (HealthCheck, []*macro.LoadedLibrary) {
	check := HealthCheck{Name: "Macros directory"}
	dir := cmdCtx.Cfg.MacrosDir

	info, err := os.Stat(dir)
	if err != nil {
		check.Status = StatusWarn
		check.Detail = dir + " does not exist"
		return check, nil
	}
	if !info.IsDir() {
		check.Status = StatusFail
		check.Detail = dir + " is not a directory"
		return check, nil
	}

	libs, err := macro.NewLoader(dir, cmdCtx.Logger).Load(ctx)
	if err != nil {
		check.Status = StatusFail
		check.Detail = err.Error()
		return check, nil
	}

	check.Status = StatusPass
	check.Detail = fmt.Sprintf("%s (%s)", dir, countLabel(len(libs), "library"))
	return check, libs
}

func checkLibraries(paths []string) (HealthCheck, []sourceMacros) {
	check := HealthCheck{Name: "Extra libraries", Status: StatusPass}
	if len(paths) == 0 {
		check.Detail = "none configured"
		return check, nil
	}

	var loaded []sourceMacros
	for _, path := range paths {
		lib, err := macro.LoadFile(path)
		if err != nil {
			check.Details = append(check.Details, err.Error())
			continue
		}
		loaded = append(loaded, sourceMacros{source: lib.Name, macros: lib.Collection.Macros})
	}

	if len(check.Details) > 0 {
		check.Status = StatusFail
		check.Detail = fmt.Sprintf("%d of %d failed to load", len(check.Details), len(paths))
		return check, loaded
	}
	check.Detail = countLabel(len(paths), "library") + " loaded"
	return check, loaded
}

func checkCatalog(ctx context.Context, cmdCtx *CommandContext) (HealthCheck, []sourceMacros) {
	check := HealthCheck{Name: "Run catalog"}
	if !cmdCtx.catalogExists() {
		check.Status = StatusPass
		check.Detail = "not created yet"
		return check, nil
	}

	store, err := cmdCtx.OpenCatalog()
	if err != nil {
		check.Status = StatusFail
		check.Detail = err.Error()
		return check, nil
	}
	defer func() { _ = store.Close() }()

	version, err := store.SchemaVersion()
	if err != nil {
		check.Status = StatusFail
		check.Detail = err.Error()
		return check, nil
	}
	latest, err := store.LatestMacros(ctx)
	if err != nil {
		check.Status = StatusFail
		check.Detail = err.Error()
		return check, nil
	}

	bySource := make(map[string][]core.Macro)
	var order []string
	for _, cm := range latest {
		src := runSource(cm.RunID)
		if _, ok := bySource[src]; !ok {
			order = append(order, src)
		}
		bySource[src] = append(bySource[src], cm.Macro)
	}
	sources := make([]sourceMacros, 0, len(order))
	for _, src := range order {
		sources = append(sources, sourceMacros{source: src, macros: bySource[src]})
	}

	check.Status = StatusPass
	check.Detail = fmt.Sprintf("schema version %d, %s", version, countLabel(len(latest), "macro"))
	return check, sources
}

// checkShadowing reports macro names defined by more than one source.
func checkShadowing(sources []sourceMacros) HealthCheck {
	check := HealthCheck{Name: "Shadowed macros", Status: StatusPass}

	seen := make(map[string][]string)
	display := make(map[string]string)
	for _, s := range sources {
		for _, m := range s.macros {
			key := strings.ToLower(m.Name)
			if _, ok := display[key]; !ok {
				display[key] = m.Name
			}
			defs := seen[key]
			if len(defs) == 0 || defs[len(defs)-1] != s.source {
				seen[key] = append(defs, s.source)
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name, defs := range seen {
		if len(defs) > 1 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		defs := seen[name]
		check.Details = append(check.Details,
			fmt.Sprintf("%s: %s wins over %s", display[name], defs[len(defs)-1], strings.Join(defs[:len(defs)-1], ", ")))
	}
	if len(names) > 0 {
		check.Status = StatusWarn
		check.Detail = countLabel(len(names), "macro") + " defined more than once"
	}
	return check
}

// checkDuplicateNames reports macros that repeat a port or attribute name.
func checkDuplicateNames(sources []sourceMacros) HealthCheck {
	check := HealthCheck{Name: "Port and attribute names", Status: StatusPass}

	for _, s := range sources {
		for _, m := range s.macros {
			if dups := duplicateNames(portNames(m)); len(dups) > 0 {
				check.Details = append(check.Details,
					fmt.Sprintf("%s (%s): repeated port %s", m.Name, s.source, strings.Join(dups, ", ")))
			}
			if dups := duplicateNames(attributeNames(m)); len(dups) > 0 {
				check.Details = append(check.Details,
					fmt.Sprintf("%s (%s): repeated attribute %s", m.Name, s.source, strings.Join(dups, ", ")))
			}
		}
	}
	if len(check.Details) > 0 {
		check.Status = StatusWarn
		check.Detail = countLabel(len(check.Details), "problem")
	}
	return check
}

func portNames(m core.Macro) []string {
	names := make([]string, 0, len(m.Ports))
	for _, p := range m.Ports {
		names = append(names, p.Name)
	}
	return names
}

func attributeNames(m core.Macro) []string {
	names := make([]string, 0, len(m.Attributes))
	for _, a := range m.Attributes {
		names = append(names, a.Name)
	}
	return names
}

// duplicateNames returns each name that appears more than once, in order of
// its second appearance.
func duplicateNames(names []string) []string {
	counts := make(map[string]int, len(names))
	var dups []string
	for _, n := range names {
		counts[n]++
		if counts[n] == 2 {
			dups = append(dups, n)
		}
	}
	return dups
}

func renderDoctor(r *output.Renderer, out *DoctorOutput) {
	r.Header(1, "Project health")

	for _, c := range out.Checks {
		status := "success"
		switch c.Status {
		case StatusWarn:
			status = "warning"
		case StatusFail:
			status = "error"
		}
		r.StatusLine(c.Name, status, c.Detail)
		for _, d := range c.Details {
			r.Println("    " + r.Muted(d))
		}
	}

	r.Println()
	if out.Errors == 0 && out.Warnings == 0 {
		r.Success("All checks passed")
		return
	}
	r.Println(fmt.Sprintf("%s, %s", countLabel(out.Errors, "error"), countLabel(out.Warnings, "warning")))
}
