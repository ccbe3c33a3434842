package core

import (
	"fmt"
	"strings"
)

// SchemaValidationError reports a payload that does not conform to the macro
// schema: malformed text, a missing required field, an unknown direction or a
// non-positive width.
type SchemaValidationError struct {
	// Path locates the offending value (e.g. "macros[0].ports[2].direction").
	// Empty when the payload as a whole is unreadable.
	Path   string
	Reason string
	Err    error
}

func (e *SchemaValidationError) Error() string {
	var b strings.Builder
	b.WriteString("schema validation failed")
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *SchemaValidationError) Unwrap() error {
	return e.Err
}

// PortBindingMismatchError reports port bindings whose names differ from the
// macro's declared ports.
type PortBindingMismatchError struct {
	Macro    string
	Declared []string // declared port names, in declaration order
	Supplied []string // supplied binding names, in caller order
	Missing  []string // declared but not supplied
	Extra    []string // supplied but not declared
}

func (e *PortBindingMismatchError) Error() string {
	msg := fmt.Sprintf("macro %s: port values must be provided for exactly all ports listed: [%s]",
		e.Macro, strings.Join(e.Declared, ", "))
	if len(e.Missing) > 0 {
		msg += fmt.Sprintf("; missing: [%s]", strings.Join(e.Missing, ", "))
	}
	if len(e.Extra) > 0 {
		msg += fmt.Sprintf("; unexpected: [%s]", strings.Join(e.Extra, ", "))
	}
	return msg
}
