package core

import (
	"fmt"
	"slices"
)

// Direction is the closed set of port directions.
type Direction uint8

// Direction constants. The zero value is not a valid direction.
const (
	DirectionUnknown Direction = iota
	DirectionInput
	DirectionOutput
	DirectionInout
)

// Directions returns every valid direction in declaration order.
func Directions() []Direction {
	return []Direction{DirectionInput, DirectionOutput, DirectionInout}
}

func (d Direction) String() string {
	switch d {
	case DirectionInput:
		return "input"
	case DirectionOutput:
		return "output"
	case DirectionInout:
		return "inout"
	default:
		return "unknown"
	}
}

// Valid reports whether d is one of input, output or inout.
func (d Direction) Valid() bool {
	return d >= DirectionInput && d <= DirectionInout
}

// ParseDirection converts the wire spelling of a direction.
// Matching is exact; "Input" or "in" are rejected.
func ParseDirection(s string) (Direction, error) {
	for _, d := range Directions() {
		if d.String() == s {
			return d, nil
		}
	}
	return DirectionUnknown, fmt.Errorf("invalid direction %q (expected one of input, output, inout)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid direction %d", d)
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DefaultPortWidth is the width of a port whose width was not given.
const DefaultPortWidth = 1

// MacroAttribute is a compile-time parameter of a macro.
// Default holds a verbatim HDL literal ("1", "32'h00000000", "true", "ENABLED")
// and is never interpreted.
type MacroAttribute struct {
	Name        string
	Default     *string
	Description *string
}

// Validate checks the attribute's field constraints.
func (a MacroAttribute) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("attribute name is required")
	}
	return nil
}

// MacroPort is a named, directioned, fixed-width connection point.
type MacroPort struct {
	Name        string
	Direction   Direction
	Width       int
	Description *string
}

// NewPort returns a port of the default width.
func NewPort(name string, dir Direction) MacroPort {
	return MacroPort{Name: name, Direction: dir, Width: DefaultPortWidth}
}

// Validate checks the port's field constraints.
func (p MacroPort) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("port name is required")
	}
	if !p.Direction.Valid() {
		return fmt.Errorf("port %s: invalid direction", p.Name)
	}
	if p.Width < 1 {
		return fmt.Errorf("port %s: width must be a positive integer, got %d", p.Name, p.Width)
	}
	return nil
}

// Macro is a reusable hardware primitive definition.
//
// Port and attribute names are expected to be unique. Duplicates are
// tolerated: the port name set collapses them, and a later attribute
// default shadows an earlier one.
type Macro struct {
	Name        string
	Description string
	Ports       []MacroPort
	Attributes  []MacroAttribute
}

// NewMacro builds a macro and validates it.
func NewMacro(name, description string, ports []MacroPort, attributes []MacroAttribute) (Macro, error) {
	if ports == nil {
		ports = []MacroPort{}
	}
	if attributes == nil {
		attributes = []MacroAttribute{}
	}
	m := Macro{
		Name:        name,
		Description: description,
		Ports:       ports,
		Attributes:  attributes,
	}
	if err := m.Validate(); err != nil {
		return Macro{}, err
	}
	return m, nil
}

// Validate checks the macro and every port and attribute.
func (m Macro) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("macro name is required")
	}
	for i, p := range m.Ports {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("macro %s: ports[%d]: %w", m.Name, i, err)
		}
	}
	for i, a := range m.Attributes {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("macro %s: attributes[%d]: %w", m.Name, i, err)
		}
	}
	return nil
}

// MacroName implements Instantiable.
func (m Macro) MacroName() string { return m.Name }

// PortNames implements Instantiable. Names are returned in declaration order,
// duplicates included.
func (m Macro) PortNames() []string {
	names := make([]string, len(m.Ports))
	for i, p := range m.Ports {
		names[i] = p.Name
	}
	return names
}

// ParameterNames implements Instantiable.
func (m Macro) ParameterNames() []string {
	names := make([]string, len(m.Attributes))
	for i, a := range m.Attributes {
		names[i] = a.Name
	}
	return names
}

// DefaultParameterValues implements Instantiable. Attributes without a
// default are skipped. A new Bindings is built on every call.
func (m Macro) DefaultParameterValues() *Bindings {
	b := &Bindings{}
	for _, a := range m.Attributes {
		if a.Default != nil {
			b.Set(a.Name, *a.Default)
		}
	}
	return b
}

// Port returns the last port declared with name.
func (m Macro) Port(name string) (MacroPort, bool) {
	for i := len(m.Ports) - 1; i >= 0; i-- {
		if m.Ports[i].Name == name {
			return m.Ports[i], true
		}
	}
	return MacroPort{}, false
}

// Attribute returns the last attribute declared with name.
func (m Macro) Attribute(name string) (MacroAttribute, bool) {
	for i := len(m.Attributes) - 1; i >= 0; i-- {
		if m.Attributes[i].Name == name {
			return m.Attributes[i], true
		}
	}
	return MacroAttribute{}, false
}

// Equal reports field-for-field equality. Nil and empty slices compare equal.
func (m Macro) Equal(o Macro) bool {
	if m.Name != o.Name || m.Description != o.Description {
		return false
	}
	return slices.EqualFunc(m.Ports, o.Ports, func(a, b MacroPort) bool {
		return a.Name == b.Name && a.Direction == b.Direction && a.Width == b.Width &&
			equalOptional(a.Description, b.Description)
	}) && slices.EqualFunc(m.Attributes, o.Attributes, func(a, b MacroAttribute) bool {
		return a.Name == b.Name && equalOptional(a.Default, b.Default) &&
			equalOptional(a.Description, b.Description)
	})
}

// MacroCollection is an ordered aggregate of macros.
type MacroCollection struct {
	Macros []Macro
}

// Validate validates every macro in the collection.
func (c MacroCollection) Validate() error {
	for i, m := range c.Macros {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("macros[%d]: %w", i, err)
		}
	}
	return nil
}

// Equal reports whether both collections hold equal macros in the same order.
func (c MacroCollection) Equal(o MacroCollection) bool {
	return slices.EqualFunc(c.Macros, o.Macros, Macro.Equal)
}

// Find returns the first macro named name.
func (c MacroCollection) Find(name string) (Macro, bool) {
	for _, m := range c.Macros {
		if m.Name == name {
			return m, true
		}
	}
	return Macro{}, false
}

// Ptr returns a pointer to a copy of v. Handy for optional fields.
func Ptr[T any](v T) *T {
	return &v
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Instantiable is the capability the instantiation generator needs from a
// macro definition. Macro implements it; other definitions may too.
type Instantiable interface {
	MacroName() string
	PortNames() []string
	ParameterNames() []string
	DefaultParameterValues() *Bindings
}

var _ Instantiable = Macro{}
