package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/leapstack-labs/hdlmacro/pkg/core"
)

var (
	resolvedCollection = sync.OnceValues(func() (*jsonschema.Resolved, error) {
		return DescribeSchema().Resolve(nil)
	})
	resolvedMacro = sync.OnceValues(func() (*jsonschema.Resolved, error) {
		s := macroSchema()
		s.Schema = draft202012
		return s.Resolve(nil)
	})
)

// Parse validates a JSON payload against the macro schema and converts it to
// a MacroCollection. Any failure is a *core.SchemaValidationError and no
// partial collection is returned.
//
// Unknown fields are ignored. An explicit null for an optional field is the
// same as leaving it out.
func Parse(payload []byte) (core.MacroCollection, error) {
	var doc Document
	if err := validate(payload, resolvedCollection, collectionWidths, &doc); err != nil {
		return core.MacroCollection{}, err
	}
	c, err := doc.ToCollection()
	if err != nil {
		return core.MacroCollection{}, err
	}
	return c, nil
}

// ParseMacro is Parse for a payload holding a single macro object.
func ParseMacro(payload []byte) (core.Macro, error) {
	var md MacroDocument
	if err := validate(payload, resolvedMacro, macroWidths, &md); err != nil {
		return core.Macro{}, err
	}
	return md.ToMacro()
}

func validate(payload []byte, resolve func() (*jsonschema.Resolved, error), checkWidths func(any) error, into any) error {
	var instance any
	if err := json.Unmarshal(payload, &instance); err != nil {
		return &core.SchemaValidationError{Reason: "payload is not well-formed JSON", Err: err}
	}
	if err := checkWidths(instance); err != nil {
		return err
	}

	resolved, err := resolve()
	if err != nil {
		return fmt.Errorf("failed to resolve macro schema: %w", err)
	}
	if err := resolved.Validate(instance); err != nil {
		return &core.SchemaValidationError{Reason: "payload does not match the macro schema", Err: err}
	}

	// Re-encoding writes whole-number widths such as 2.0 or 1e2 as plain
	// integers, which is what the document types decode.
	canonical, err := json.Marshal(instance)
	if err != nil {
		return &core.SchemaValidationError{Reason: "payload could not be re-encoded", Err: err}
	}
	if err := json.Unmarshal(canonical, into); err != nil {
		return &core.SchemaValidationError{Reason: "payload has a value of the wrong type", Err: err}
	}
	return nil
}

// collectionWidths checks port widths in a decoded collection payload.
// Anything that is not shaped like a collection is left to the schema.
func collectionWidths(instance any) error {
	root, ok := instance.(map[string]any)
	if !ok {
		return nil
	}
	macros, _ := root["macros"].([]any)
	for i, m := range macros {
		if err := checkPortWidths(m, fmt.Sprintf("macros[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

func macroWidths(instance any) error {
	return checkPortWidths(instance, "")
}

// checkPortWidths accepts any JSON number with an integral value as a width
// and rejects fractions, naming the offending port.
func checkPortWidths(instance any, path string) error {
	m, ok := instance.(map[string]any)
	if !ok {
		return nil
	}
	ports, _ := m["ports"].([]any)
	for i, p := range ports {
		port, ok := p.(map[string]any)
		if !ok {
			continue
		}
		w, ok := port["width"].(float64)
		if !ok {
			continue
		}
		widthPath := join(path, fmt.Sprintf("ports[%d].width", i))
		if w != math.Trunc(w) {
			return invalid(widthPath, fmt.Sprintf("width must be a whole number, got %v", w))
		}
		if math.Abs(w) > math.MaxInt32 {
			return invalid(widthPath, fmt.Sprintf("width %v is out of range", w))
		}
	}
	return nil
}
