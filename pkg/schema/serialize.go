package schema

import (
	"encoding/json"
	"fmt"

	"github.com/leapstack-labs/hdlmacro/pkg/core"
)

// Indent is the indentation Serialize uses.
const Indent = "    "

// Serialize writes a collection as indented JSON with a fixed field order.
// Absent optional values are written as null.
//
// A collection that Parse would reject (empty names, an unknown direction,
// a non-positive width) is refused, so every document Serialize produces
// reads back equal.
func Serialize(c core.MacroCollection) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("cannot serialize macro collection: %w", err)
	}
	return json.MarshalIndent(FromCollection(c), "", Indent)
}

// SerializeMacro writes one macro in compact form.
func SerializeMacro(m core.Macro) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("cannot serialize macro: %w", err)
	}
	return json.Marshal(FromMacro(m))
}
