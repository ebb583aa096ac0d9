package valirator

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// MarshalYAML emits the tree as an ordered YAML mapping.
func (r *Result) MarshalYAML() (any, error) {
	return r.yamlNode(), nil
}

func (r *Result) yamlNode() *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if r == nil {
		return n
	}
	for _, e := range r.entries {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.key}
		var val *yaml.Node
		if e.kind == KindNode {
			val = e.node.yamlNode()
		} else {
			val = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(e.leaf)}
		}
		n.Content = append(n.Content, key, val)
	}
	return n
}

// UnmarshalYAML decodes a YAML mapping of bools and nested mappings, keeping
// document key order.
func (r *Result) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := fromYAMLNode(value, Root())
	if err != nil {
		return err
	}
	*r = *parsed
	return nil
}

func fromYAMLNode(n *yaml.Node, p PathRef) (*Result, error) {
	n = resolveYAML(n)
	if n == nil || n.Kind != yaml.MappingNode {
		var v any
		if n != nil {
			v = n.Value
		}
		return nil, &LeafTypeError{Path: p.Pointer(), Value: v}
	}
	entries := make([]Entry, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		val := resolveYAML(n.Content[i+1])
		switch {
		case val == nil:
			return nil, &LeafTypeError{Path: p.Field(key).Pointer(), Value: nil}
		case val.Kind == yaml.MappingNode:
			child, err := fromYAMLNode(val, p.Field(key))
			if err != nil {
				return nil, err
			}
			entries = append(entries, Nested(key, child))
		case val.Kind == yaml.ScalarNode && val.ShortTag() == "!!bool":
			var b bool
			if err := val.Decode(&b); err != nil {
				return nil, err
			}
			entries = append(entries, Leaf(key, b))
		default:
			return nil, &LeafTypeError{Path: p.Field(key).Pointer(), Value: val.Value}
		}
	}
	return New(entries...), nil
}

// resolveYAML unwraps document and alias nodes.
func resolveYAML(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		case yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}
