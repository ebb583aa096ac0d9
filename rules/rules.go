// Package rules defines the rule-evaluation contract consumed by the schema
// walker: a named, pure predicate over (value, param) plus a registry to look
// predicates up by name. It ships no built-in rule catalog.
package rules

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

var (
	// ErrEmptyName is returned by Register for an empty rule name.
	ErrEmptyName = errors.New("rules: empty rule name")
	// ErrNilRule is returned by Register for a nil Func.
	ErrNilRule = errors.New("rules: nil rule func")
	// ErrDuplicateRule is returned by Register when the name is already taken.
	ErrDuplicateRule = errors.New("rules: rule already registered")
	// ErrUnknownRule is returned by Evaluate for a name that was never registered.
	ErrUnknownRule = errors.New("rules: unknown rule")
)

// Func evaluates one constraint against one value. passed is true when the
// value satisfies the constraint. A non-nil error means the rule could not be
// evaluated at all (for example an unsupported param), which is distinct from
// the value failing it.
type Func func(value, param any) (passed bool, err error)

// Predicate adapts a param-less check into a Func.
func Predicate(check func(value any) bool) Func {
	return func(value, _ any) (bool, error) { return check(value), nil }
}

// Registry maps rule names to Funcs. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: map[string]Func{}}
}

// Register adds fn under name. Names are unique per registry.
func (r *Registry) Register(name string, fn Func) error {
	if name == "" {
		return ErrEmptyName
	}
	if fn == nil {
		return fmt.Errorf("%w: %q", ErrNilRule, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.funcs[name]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateRule, name)
	}
	r.funcs[name] = fn
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, fn Func) *Registry {
	if err := r.Register(name, fn); err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the Func registered under name.
func (r *Registry) Lookup(name string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.funcs))
}

// Len reports the number of registered rules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.funcs)
}

// Clone returns an independent copy of the registry.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &Registry{funcs: maps.Clone(r.funcs)}
}

// Evaluate runs the rule registered under name. Unknown names fail with
// ErrUnknownRule.
func (r *Registry) Evaluate(name string, value, param any) (bool, error) {
	fn, ok := r.Lookup(name)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownRule, name)
	}
	return fn(value, param)
}
