// Package codec reads and writes macro libraries in the supported file
// formats. Every format decodes through schema.Parse, so a YAML, TOML or
// msgpack library is held to exactly the same rules as a JSON payload.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/leapstack-labs/hdlmacro/pkg/core"
	"github.com/leapstack-labs/hdlmacro/pkg/schema"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format names a library encoding.
type Format string

// Supported formats.
const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatTOML    Format = "toml"
	FormatMsgpack Format = "msgpack"
)

// ErrUnknownFormat is returned for formats and file extensions codec does
// not handle.
var ErrUnknownFormat = errors.New("unknown library format")

var extensions = map[string]Format{
	".json":    FormatJSON,
	".yaml":    FormatYAML,
	".yml":     FormatYAML,
	".toml":    FormatTOML,
	".msgpack": FormatMsgpack,
	".mpk":     FormatMsgpack,
}

// Formats returns the supported formats in a stable order.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatTOML, FormatMsgpack}
}

// ParseFormat validates a format name. Matching is case-insensitive and
// accepts "yml" for YAML.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatJSON, FormatYAML, FormatTOML, FormatMsgpack:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	if f, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Base(path))
}

// Extensions returns every recognised file extension, sorted.
func Extensions() []string {
	exts := make([]string, 0, len(extensions))
	for ext := range extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Extension returns the canonical file extension for f.
func (f Format) Extension() string {
	if f == FormatMsgpack {
		return ".msgpack"
	}
	return "." + string(f)
}

// Decode parses a library in the given format.
// Validation failures are *core.SchemaValidationError whatever the format.
func Decode(f Format, data []byte) (core.MacroCollection, error) {
	if f == FormatJSON {
		return schema.Parse(data)
	}

	var generic any
	var err error
	switch f {
	case FormatYAML:
		err = yaml.Unmarshal(data, &generic)
	case FormatTOML:
		var table map[string]any
		err = toml.Unmarshal(data, &table)
		generic = table
	case FormatMsgpack:
		err = msgpack.Unmarshal(data, &generic)
	default:
		return core.MacroCollection{}, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return core.MacroCollection{}, &core.SchemaValidationError{
			Reason: fmt.Sprintf("payload is not well-formed %s", f),
			Err:    err,
		}
	}

	normalized, err := normalize(generic)
	if err != nil {
		return core.MacroCollection{}, &core.SchemaValidationError{Reason: err.Error()}
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return core.MacroCollection{}, &core.SchemaValidationError{
			Reason: fmt.Sprintf("%s payload holds values with no JSON equivalent", f),
			Err:    err,
		}
	}
	return schema.Parse(payload)
}

// Encode writes a collection in the given format using the same document
// shape as schema.Serialize.
func Encode(f Format, c core.MacroCollection) ([]byte, error) {
	if f == FormatJSON {
		return schema.Serialize(c)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("cannot encode macro collection: %w", err)
	}
	doc := schema.FromCollection(c)

	var buf bytes.Buffer
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to encode toml: %w", err)
		}
	case FormatMsgpack:
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to encode msgpack: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	return buf.Bytes(), nil
}

// normalize turns decoder output into values encoding/json accepts.
// YAML and msgpack can produce maps with non-string keys.
func normalize(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			n, err := normalize(val)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("mapping key %v is not a string", k)
			}
			n, err := normalize(val)
			if err != nil {
				return nil, err
			}
			out[key] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			n, err := normalize(val)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case []map[string]any:
		out := make([]any, len(t))
		for i, val := range t {
			n, err := normalize(val)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	default:
		return v, nil
	}
}
