// Package instantiate renders a macro definition plus caller bindings into
// Verilog instantiation text.
package instantiate

import (
	"errors"
	"slices"
	"strings"

	"github.com/leapstack-labs/hdlmacro/pkg/core"
)

// ErrEmptyInstanceName is returned when no instance name is given.
var ErrEmptyInstanceName = errors.New("instance name must not be empty")

// bindingIndent prefixes every .name(value) line.
const bindingIndent = "    "

// Instantiate renders one instance of m.
//
// portValues must bind exactly the declared port names, otherwise a
// *core.PortBindingMismatchError is returned. Parameters start from the
// attribute defaults in declaration order; parameterValues overrides a
// default in place and appends names that have no default. Attributes with
// neither a default nor a caller value are left out of the output.
//
// With no effective parameters the output is
//
//	NAME inst(
//	    .PORT(value)
//	);
//
// otherwise
//
//	NAME #(
//	    .PARAM(value)
//	)
//	inst(
//	    .PORT(value)
//	);
//
// Ports are rendered in the order the caller supplied them. Nil bindings are
// treated as empty.
func Instantiate(m core.Instantiable, instanceName string, parameterValues, portValues *core.Bindings) (string, error) {
	if instanceName == "" {
		return "", ErrEmptyInstanceName
	}
	if err := CheckPorts(m, portValues); err != nil {
		return "", err
	}

	params := EffectiveParameters(m, parameterValues)

	var b strings.Builder
	b.WriteString(m.MacroName())
	b.WriteByte(' ')
	if params.Len() > 0 {
		b.WriteString("#(\n")
		writeBindings(&b, params)
		b.WriteString("\n)\n")
	}
	b.WriteString(instanceName)
	b.WriteString("(\n")
	writeBindings(&b, portValues)
	b.WriteString("\n);")
	return b.String(), nil
}

// EffectiveParameters merges caller values over the macro's defaults.
// The result is a new Bindings; neither input is modified.
func EffectiveParameters(m core.Instantiable, parameterValues *core.Bindings) *core.Bindings {
	params := m.DefaultParameterValues().Clone()
	params.Merge(parameterValues)
	return params
}

// CheckPorts verifies that the names in portValues are exactly the declared
// port names, compared as sets.
func CheckPorts(m core.Instantiable, portValues *core.Bindings) error {
	declared := m.PortNames()

	var missing []string
	seen := make(map[string]struct{}, len(declared))
	for _, name := range declared {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if !portValues.Has(name) {
			missing = append(missing, name)
		}
	}

	supplied := portValues.Names()
	var extra []string
	for _, name := range supplied {
		if _, ok := seen[name]; !ok {
			extra = append(extra, name)
		}
	}

	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	return &core.PortBindingMismatchError{
		Macro:    m.MacroName(),
		Declared: slices.Clone(declared),
		Supplied: supplied,
		Missing:  missing,
		Extra:    extra,
	}
}

func writeBindings(b *strings.Builder, bindings *core.Bindings) {
	for i, e := range bindings.Entries() {
		if i > 0 {
			b.WriteString(",\n")
		}
		b.WriteString(bindingIndent)
		b.WriteByte('.')
		b.WriteString(e.Name)
		b.WriteByte('(')
		b.WriteString(e.Value)
		b.WriteByte(')')
	}
}
