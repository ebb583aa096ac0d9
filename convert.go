package valirator

import (
	"maps"
	"slices"
)

// FromMap builds a Result from a plain nested mapping such as decoded JSON.
// Go maps carry no order, so keys are enumerated in sorted order. Values may be
// bool, map[string]bool, map[string]any or an already built *Result; anything
// else fails with a *LeafTypeError wrapping ErrInvalidLeafType.
func FromMap(m map[string]any) (*Result, error) {
	return fromMap(m, Root())
}

func fromMap(m map[string]any, p PathRef) (*Result, error) {
	entries := make([]Entry, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		switch v := m[k].(type) {
		case bool:
			entries = append(entries, Leaf(k, v))
		case *Result:
			entries = append(entries, Nested(k, v))
		case map[string]any:
			child, err := fromMap(v, p.Field(k))
			if err != nil {
				return nil, err
			}
			entries = append(entries, Nested(k, child))
		case map[string]bool:
			sub := make([]Entry, 0, len(v))
			for _, sk := range slices.Sorted(maps.Keys(v)) {
				sub = append(sub, Leaf(sk, v[sk]))
			}
			entries = append(entries, Nested(k, New(sub...)))
		default:
			return nil, &LeafTypeError{Path: p.Field(k).Pointer(), Value: v}
		}
	}
	return New(entries...), nil
}

// ToMap returns a plain copy of the tree made of map[string]any and bool
// values, suitable for generic serializers.
func (r *Result) ToMap() map[string]any {
	out := make(map[string]any, r.Len())
	if r == nil {
		return out
	}
	for _, e := range r.entries {
		if e.kind == KindNode {
			out[e.key] = e.node.ToMap()
			continue
		}
		out[e.key] = e.leaf
	}
	return out
}
