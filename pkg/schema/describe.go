package schema

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/leapstack-labs/hdlmacro/pkg/core"
)

// Version identifies the shape of Document. Payloads carry no version field;
// the version lives in the schema $id so extractors can pin the contract.
const Version = "v1"

// SchemaID is the $id of the document returned by DescribeSchema.
const SchemaID = "https://hdlmacro.leapstack.dev/schema/macro-collection/" + Version + ".json"

const draft202012 = "https://json-schema.org/draft/2020-12/schema"

// DescribeSchema returns a JSON Schema (draft 2020-12) for a macro collection.
// Descriptions double as extraction guidance for whatever produces payloads.
// A new schema is built on every call, so callers may modify the result.
func DescribeSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Schema:      draft202012,
		ID:          SchemaID,
		Title:       "MacroCollection",
		Description: "Collection of hardware macro definitions extracted from vendor documentation.",
		Type:        "object",
		Properties: map[string]*jsonschema.Schema{
			"macros": {
				Type:        "array",
				Description: "Collection of Macro definitions",
				Items:       macroSchema(),
			},
		},
		Required: []string{"macros"},
	}
}

// DescribeSchemaJSON returns DescribeSchema as indented JSON text, the form
// handed to extractors.
func DescribeSchemaJSON() ([]byte, error) {
	return json.MarshalIndent(DescribeSchema(), "", "  ")
}

func macroSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Title: "Macro",
		Type:  "object",
		Properties: map[string]*jsonschema.Schema{
			"name":        identifier("Macro name"),
			"description": {Type: "string", Description: "Description of the macro"},
			"ports": {
				Type:        "array",
				Description: "List of ports belonging to the macro",
				Items:       portSchema(),
			},
			"attributes": {
				Type:        "array",
				Description: "List of attributes (i.e. parameters) for the macro",
				Items:       attributeSchema(),
				Default:     json.RawMessage(`[]`),
			},
		},
		Required: []string{"name", "description", "ports"},
	}
}

func portSchema() *jsonschema.Schema {
	directions := make([]any, 0, 3)
	for _, d := range core.Directions() {
		directions = append(directions, d.String())
	}

	return &jsonschema.Schema{
		Title: "MacroPort",
		Type:  "object",
		Properties: map[string]*jsonschema.Schema{
			"name": identifier("Port name"),
			"direction": {
				Type:        "string",
				Description: "Direction of the port: input, output, or inout",
				Enum:        directions,
			},
			"width": {
				Type:        "integer",
				Description: "Bit-width of the port (default: 1)",
				Minimum:     core.Ptr(float64(1)),
				Default:     json.RawMessage(`1`),
			},
			"description": optionalText("Human-readable description of the port"),
		},
		Required: []string{"name", "direction"},
	}
}

func attributeSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Title: "MacroAttribute",
		Type:  "object",
		Properties: map[string]*jsonschema.Schema{
			"name": identifier("Name of the macro attribute"),
			"default": optionalText(`Default value for the attribute, if any. Should be a string literal of the default value, ` +
				`e.g. "1", "32'h00000000", "true", "ENABLED", etc.; these are verilog literal values.`),
			"description": optionalText("Human-readable description of the attribute"),
		},
		Required: []string{"name"},
	}
}

func identifier(description string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Description: description,
		MinLength:   core.Ptr(1),
	}
}

func optionalText(description string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Types:       []string{"string", "null"},
		Description: description,
		Default:     json.RawMessage(`null`),
	}
}
