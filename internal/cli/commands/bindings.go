package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/leapstack-labs/hdlmacro/pkg/core"
	"gopkg.in/yaml.v3"
)

// parseAssignments applies NAME=VALUE pairs to b in order. The value may
// itself contain '='.
func parseAssignments(b *core.Bindings, pairs []string, kind string) error {
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return fmt.Errorf("invalid %s %q: expected NAME=VALUE", kind, pair)
		}
		b.Set(name, value)
	}
	return nil
}

// bindingsFile is the decoded form of a --bindings file:
//
//	parameters:
//	  INIT: "1'b0"
//	ports:
//	  D: d_in
//	  Q: q_out
//
// Entries keep the order they are written in.
type bindingsFile struct {
	Parameters *core.Bindings
	Ports      *core.Bindings
}

func loadBindingsFile(path string) (*bindingsFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is a bindings file chosen by the user
	if err != nil {
		return nil, fmt.Errorf("failed to read bindings file: %w", err)
	}
	bf, err := parseBindingsFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bf, nil
}

func parseBindingsFile(data []byte) (*bindingsFile, error) {
	bf := &bindingsFile{Parameters: core.NewBindings(), Ports: core.NewBindings()}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid bindings yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		return bf, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: bindings file must be a mapping", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		var target *core.Bindings
		switch key.Value {
		case "parameters":
			target = bf.Parameters
		case "ports":
			target = bf.Ports
		default:
			return nil, fmt.Errorf("line %d: unknown section %q (expected parameters or ports)", key.Line, key.Value)
		}
		if err := decodeOrderedMapping(value, target); err != nil {
			return nil, fmt.Errorf("%s: %w", key.Value, err)
		}
	}
	return bf, nil
}

func decodeOrderedMapping(node *yaml.Node, into *core.Bindings) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of NAME: VALUE", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: value of %s must be a scalar", v.Line, k.Value)
		}
		into.Set(k.Value, v.Value)
	}
	return nil
}
