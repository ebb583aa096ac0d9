package valirator

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLeafType is returned when a plain mapping, JSON or YAML document
// holds a leaf that is neither a bool nor a nested mapping.
var ErrInvalidLeafType = errors.New("valirator: leaf is neither a bool nor a mapping")

// LeafTypeError reports where an invalid leaf was found.
type LeafTypeError struct {
	Path  string // JSON Pointer of the offending key.
	Value any
}

func (e *LeafTypeError) Error() string {
	return fmt.Sprintf("valirator: invalid leaf %T at %q", e.Value, e.Path)
}

func (e *LeafTypeError) Unwrap() error { return ErrInvalidLeafType }

// Issue represents a single failed rule in a Result.
type Issue struct {
	Path    string `json:"path" yaml:"path"` // JSON Pointer of the validated value (for example: /items/2/price, or "" for the root).
	Rule    string `json:"rule" yaml:"rule"` // Leaf key that carried the error signal.
	Message string `json:"message" yaml:"message"`
}

// Issues is a collection of failed rules that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. required at /name
		fmt.Fprintf(b, "%s at %s", it.Rule, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Has reports whether any issue was raised at path.
func (iss Issues) Has(path string) bool {
	for _, it := range iss {
		if it.Path == path {
			return true
		}
	}
	return false
}

// Paths returns the distinct issue paths in first-seen order.
func (iss Issues) Paths() []string {
	var out []string
	seen := make(map[string]struct{}, len(iss))
	for _, it := range iss {
		if _, ok := seen[it.Path]; ok {
			continue
		}
		seen[it.Path] = struct{}{}
		out = append(out, it.Path)
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// Issues flattens every true leaf of the tree into an Issue, in enumeration
// order. The path is the pointer of the node holding the leaf.
func (r *Result) Issues() Issues {
	var out Issues
	r.collectIssues(Root(), &out)
	return out
}

func (r *Result) collectIssues(p PathRef, out *Issues) {
	if r == nil {
		return
	}
	for _, e := range r.entries {
		if e.kind == KindNode {
			e.node.collectIssues(p.Field(e.key), out)
			continue
		}
		if e.leaf {
			*out = AppendIssues(*out, p.Issue(e.key))
		}
	}
}

// Err returns the Issues of r as an error, or nil when r is valid.
func (r *Result) Err() error {
	iss := r.Issues()
	if len(iss) == 0 {
		return nil
	}
	return iss
}
