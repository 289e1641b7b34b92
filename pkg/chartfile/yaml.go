package chartfile

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/chart/pkg/node"
)

type yamlDocument struct {
	Version string    `yaml:"version"`
	Chart   yaml.Node `yaml:"chart"`
}

// DecodeYAML decodes a YAML or JSON document into root.
func DecodeYAML(data []byte, root *node.Node) error {
	const op = "chartfile.DecodeYAML"
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return configError(op, fmt.Errorf("parse document: %w", err))
	}
	if err := CheckVersion(doc.Version); err != nil {
		return configError(op, err)
	}
	if doc.Chart.Kind == 0 {
		return nil
	}
	return configError(op, applyMapping(root, &doc.Chart, true))
}

// applyMapping writes the keys of m onto n in document order and decodes
// its children list.
func applyMapping(n *node.Node, m *yaml.Node, isRoot bool) error {
	if m.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping for %s", m.Line, describe(n))
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, val := m.Content[i], m.Content[i+1]
		switch key.Value {
		case keyType:
			if isRoot && val.Value != n.Type() {
				return fmt.Errorf("line %d: root type is %q, not %q", key.Line, n.Type(), val.Value)
			}
		case keyChildren:
			if err := applyChildren(n, val); err != nil {
				return err
			}
		default:
			var v any
			if err := val.Decode(&v); err != nil {
				return fmt.Errorf("line %d: attribute %s: %w", key.Line, key.Value, err)
			}
			if err := setAttr(n, key.Value, v); err != nil {
				return fmt.Errorf("line %d: %w", key.Line, err)
			}
		}
	}
	return nil
}

func applyChildren(parent *node.Node, seq *yaml.Node) error {
	if seq.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: %s must be a list", seq.Line, keyChildren)
	}
	for _, item := range seq.Content {
		if item.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: child must be a mapping", item.Line)
		}
		child, err := appendChild(parent, mappingType(item))
		if err != nil {
			return fmt.Errorf("line %d: %w", item.Line, err)
		}
		if err := applyMapping(child, item, false); err != nil {
			return err
		}
	}
	return nil
}

func mappingType(m *yaml.Node) string {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == keyType {
			return m.Content[i+1].Value
		}
	}
	return ""
}
