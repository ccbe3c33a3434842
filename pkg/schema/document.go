// Package schema declares the canonical shape of a macro collection and
// converts between that shape and the core data model.
//
// The same shape serves two purposes: DescribeSchema hands it to external
// extractors as an output contract, and Parse uses it to validate whatever
// they produce.
package schema

import (
	"fmt"

	"github.com/leapstack-labs/hdlmacro/pkg/core"
)

// Document is the serialized form of a MacroCollection. Field order here is
// the field order on the wire.
type Document struct {
	Macros []MacroDocument `json:"macros" yaml:"macros" toml:"macros"`
}

// MacroDocument is the serialized form of a Macro.
type MacroDocument struct {
	Name        string              `json:"name" yaml:"name" toml:"name"`
	Description string              `json:"description" yaml:"description" toml:"description"`
	Ports       []PortDocument      `json:"ports" yaml:"ports" toml:"ports"`
	Attributes  []AttributeDocument `json:"attributes" yaml:"attributes" toml:"attributes"`
}

// PortDocument is the serialized form of a MacroPort.
type PortDocument struct {
	Name        string  `json:"name" yaml:"name" toml:"name"`
	Direction   string  `json:"direction" yaml:"direction" toml:"direction"`
	Width       *int    `json:"width" yaml:"width" toml:"width"`
	Description *string `json:"description" yaml:"description" toml:"description"`
}

// AttributeDocument is the serialized form of a MacroAttribute.
type AttributeDocument struct {
	Name        string  `json:"name" yaml:"name" toml:"name"`
	Default     *string `json:"default" yaml:"default" toml:"default"`
	Description *string `json:"description" yaml:"description" toml:"description"`
}

// FromCollection converts a collection into its document form. Nil slices
// become empty slices so they serialize as [] rather than null.
func FromCollection(c core.MacroCollection) Document {
	doc := Document{Macros: make([]MacroDocument, 0, len(c.Macros))}
	for _, m := range c.Macros {
		doc.Macros = append(doc.Macros, FromMacro(m))
	}
	return doc
}

// FromMacro converts a single macro into its document form.
func FromMacro(m core.Macro) MacroDocument {
	md := MacroDocument{
		Name:        m.Name,
		Description: m.Description,
		Ports:       make([]PortDocument, 0, len(m.Ports)),
		Attributes:  make([]AttributeDocument, 0, len(m.Attributes)),
	}
	for _, p := range m.Ports {
		md.Ports = append(md.Ports, PortDocument{
			Name:        p.Name,
			Direction:   p.Direction.String(),
			Width:       core.Ptr(p.Width),
			Description: cloneOptional(p.Description),
		})
	}
	for _, a := range m.Attributes {
		md.Attributes = append(md.Attributes, AttributeDocument{
			Name:        a.Name,
			Default:     cloneOptional(a.Default),
			Description: cloneOptional(a.Description),
		})
	}
	return md
}

// ToCollection converts a decoded document into core values, checking the
// constraints the JSON Schema cannot express on its own.
func (d Document) ToCollection() (core.MacroCollection, error) {
	c := core.MacroCollection{Macros: make([]core.Macro, 0, len(d.Macros))}
	for i, md := range d.Macros {
		m, err := md.toMacro(fmt.Sprintf("macros[%d]", i))
		if err != nil {
			return core.MacroCollection{}, err
		}
		c.Macros = append(c.Macros, m)
	}
	return c, nil
}

// ToMacro converts a single decoded macro document.
func (md MacroDocument) ToMacro() (core.Macro, error) {
	return md.toMacro("")
}

func (md MacroDocument) toMacro(path string) (core.Macro, error) {
	m := core.Macro{
		Name:        md.Name,
		Description: md.Description,
		Ports:       make([]core.MacroPort, 0, len(md.Ports)),
		Attributes:  make([]core.MacroAttribute, 0, len(md.Attributes)),
	}
	if m.Name == "" {
		return core.Macro{}, invalid(join(path, "name"), "macro name must be a non-empty string")
	}

	for i, pd := range md.Ports {
		portPath := join(path, fmt.Sprintf("ports[%d]", i))
		if pd.Name == "" {
			return core.Macro{}, invalid(join(portPath, "name"), "port name must be a non-empty string")
		}
		dir, err := core.ParseDirection(pd.Direction)
		if err != nil {
			return core.Macro{}, &core.SchemaValidationError{Path: join(portPath, "direction"), Err: err}
		}
		width := core.DefaultPortWidth
		if pd.Width != nil {
			width = *pd.Width
		}
		if width < 1 {
			return core.Macro{}, invalid(join(portPath, "width"), fmt.Sprintf("width must be a positive integer, got %d", width))
		}
		m.Ports = append(m.Ports, core.MacroPort{
			Name:        pd.Name,
			Direction:   dir,
			Width:       width,
			Description: cloneOptional(pd.Description),
		})
	}

	for i, ad := range md.Attributes {
		if ad.Name == "" {
			return core.Macro{}, invalid(join(path, fmt.Sprintf("attributes[%d].name", i)), "attribute name must be a non-empty string")
		}
		m.Attributes = append(m.Attributes, core.MacroAttribute{
			Name:        ad.Name,
			Default:     cloneOptional(ad.Default),
			Description: cloneOptional(ad.Description),
		})
	}

	return m, nil
}

func invalid(path, reason string) *core.SchemaValidationError {
	return &core.SchemaValidationError{Path: path, Reason: reason}
}

func join(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}

func cloneOptional(s *string) *string {
	if s == nil {
		return nil
	}
	return core.Ptr(*s)
}
