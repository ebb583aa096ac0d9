package valirator

import (
	"iter"
	"slices"
)

// Kind discriminates the two shapes an Entry can take.
type Kind int

const (
	// KindLeaf is the outcome of a single rule applied to a single value.
	KindLeaf Kind = iota
	// KindNode is the nested result of a sub-value (object field or array element).
	KindNode
)

// String returns "leaf" or "node".
func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindNode:
		return "node"
	default:
		return "unknown"
	}
}

// Entry is one keyed member of a Result: either a bool leaf or a nested Result.
// The zero Entry is a false leaf with an empty key.
type Entry struct {
	key  string
	kind Kind
	leaf bool
	node *Result
}

// Leaf records a rule outcome under key. By convention the value is the error
// signal: true means the rule failed.
func Leaf(key string, v bool) Entry {
	return Entry{key: key, kind: KindLeaf, leaf: v}
}

// Nested records a sub-result under key. A nil node is stored as an empty Result.
func Nested(key string, node *Result) Entry {
	if node == nil {
		node = New()
	}
	return Entry{key: key, kind: KindNode, node: node}
}

// Key returns the rule name, field name or element index the entry is stored under.
func (e Entry) Key() string { return e.key }

// Kind reports whether the entry is a leaf or a nested node.
func (e Entry) Kind() Kind { return e.kind }

// IsLeaf reports whether the entry holds a bool rule outcome.
func (e Entry) IsLeaf() bool { return e.kind == KindLeaf }

// IsNode reports whether the entry holds a nested Result.
func (e Entry) IsNode() bool { return e.kind == KindNode }

// Bool returns the leaf value. Nodes report false.
func (e Entry) Bool() bool {
	if e.kind != KindLeaf {
		return false
	}
	return e.leaf
}

// Node returns the nested Result, or nil for leaves.
func (e Entry) Node() *Result {
	if e.kind != KindNode {
		return nil
	}
	return e.node
}

// Value returns the entry payload as bool or *Result.
func (e Entry) Value() any {
	if e.kind == KindNode {
		return e.node
	}
	return e.leaf
}

// Result is an immutable mapping from keys to leaves or nested results.
// Enumeration order is construction order. A Result is never modified after New
// returns, so it may be shared across goroutines without synchronization.
// A nil *Result behaves as an empty node.
type Result struct {
	entries []Entry
	index   map[string]int
}

// New builds a Result from entries. When a key repeats, the later value wins
// and the key keeps the position of its first occurrence. Nested results are
// referenced, not copied.
func New(entries ...Entry) *Result {
	r := &Result{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if e.kind == KindNode && e.node == nil {
			e.node = &Result{}
		}
		if i, ok := r.index[e.key]; ok {
			r.entries[i] = e
			continue
		}
		r.index[e.key] = len(r.entries)
		r.entries = append(r.entries, e)
	}
	return r
}

// Len reports the number of keys.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Keys returns the keys in enumeration order.
func (r *Result) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, len(r.entries))
	for i, e := range r.entries {
		keys[i] = e.key
	}
	return keys
}

// Get looks up the entry stored under key.
func (r *Result) Get(key string) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	i, ok := r.index[key]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Entries returns a copy of the entries in enumeration order.
func (r *Result) Entries() []Entry {
	if r == nil {
		return nil
	}
	return slices.Clone(r.entries)
}

// All iterates over key/entry pairs in enumeration order.
func (r *Result) All() iter.Seq2[string, Entry] {
	return func(yield func(string, Entry) bool) {
		if r == nil {
			return
		}
		for _, e := range r.entries {
			if !yield(e.key, e) {
				return
			}
		}
	}
}

// IsValid reports whether the tree carries no error signal.
func (r *Result) IsValid() bool { return !r.HasErrors() }

// HasErrors reports whether any leaf, at any depth, is true. Leaves hold the
// error signal, so a leaf recorded as false never counts.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	for _, e := range r.entries {
		switch e.kind {
		case KindNode:
			if e.node.HasErrors() {
				return true
			}
		default:
			if e.leaf {
				return true
			}
		}
	}
	return false
}

// HasErrorsOfTypes reports whether any node in the tree carries a key named
// after one of ruleNames. Key presence is enough: the leaf value is not
// inspected.
func (r *Result) HasErrorsOfTypes(ruleNames ...string) bool {
	if r == nil || len(ruleNames) == 0 {
		return false
	}
	for _, e := range r.entries {
		if slices.Contains(ruleNames, e.key) {
			return true
		}
		if e.kind == KindNode && e.node.HasErrorsOfTypes(ruleNames...) {
			return true
		}
	}
	return false
}

// GetErrors returns a new tree holding the error signals of r. Nested results
// are kept when their own errors are non-empty; leaves are kept when true.
// With includeEmpty every key is kept.
func (r *Result) GetErrors(includeEmpty bool) *Result {
	if r == nil {
		return New()
	}
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		switch e.kind {
		case KindNode:
			sub := e.node.GetErrors(includeEmpty)
			if includeEmpty || sub.Len() > 0 {
				out = append(out, Nested(e.key, sub))
			}
		default:
			if includeEmpty || e.leaf {
				out = append(out, e)
			}
		}
	}
	return New(out...)
}

// GetFirstErrors collects every nested result the same way as GetErrors, but
// of the leaves at each level only the one at position 0 is reported. This
// gives "all field errors, first rule per scalar field" reporting.
func (r *Result) GetFirstErrors(includeEmpty bool) *Result {
	if r == nil {
		return New()
	}
	out := make([]Entry, 0, len(r.entries))
	for i, e := range r.entries {
		switch e.kind {
		case KindNode:
			sub := e.node.GetFirstErrors(includeEmpty)
			if includeEmpty || sub.Len() > 0 {
				out = append(out, Nested(e.key, sub))
			}
		default:
			if i == 0 {
				out = append(out, e)
			}
		}
	}
	return New(out...)
}

// GetErrorsAsArray returns the entries whose key is not in exclude, in
// enumeration order.
func (r *Result) GetErrorsAsArray(exclude ...string) []Entry {
	if r == nil {
		return []Entry{}
	}
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if slices.Contains(exclude, e.key) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// GetFirstError returns the first entry not excluded. ok is false when nothing
// remains.
func (r *Result) GetFirstError(exclude ...string) (Entry, bool) {
	all := r.GetErrorsAsArray(exclude...)
	if len(all) == 0 {
		return Entry{}, false
	}
	return all[0], true
}
