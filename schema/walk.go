package schema

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/reoring/valirator"
	"github.com/reoring/valirator/rules"
)

// RuleError reports a rule that could not be evaluated: either its name is not
// registered (wrapping rules.ErrUnknownRule) or the Func returned an error.
// It also reports a key claimed twice within one value (ErrKeyCollision).
type RuleError struct {
	Path string
	Rule string
	Err  error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("schema: rule %q at %q: %v", e.Rule, e.Path, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }

var (
	// ErrNoRegistry is returned by Validate when a schema carries rules but no
	// registry was supplied.
	ErrNoRegistry = errors.New("schema: no rule registry configured")
	// ErrKeyCollision is returned by Validate when a rule, a property and an
	// element index of the same value map to one Result key.
	ErrKeyCollision = errors.New("schema: result key collision")
)

// Option configures Validate.
type Option func(*options)

type options struct {
	registry *rules.Registry
	logger   *slog.Logger
	failFast bool
}

// WithRegistry sets the registry used to resolve constraint rule names.
func WithRegistry(r *rules.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithLogger enables debug logging of failed rules. Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithFailFast stops evaluating the remaining constraints of a value after its
// first failed rule. Properties and items are still walked.
func WithFailFast(enabled bool) Option {
	return func(o *options) { o.failFast = enabled }
}

func defaultOptions() *options {
	return &options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Validate walks value against s and returns the assembled result tree.
// Every constraint becomes a leaf keyed by its rule name holding !passed, so a
// true leaf is an error signal. Properties and collection elements become
// nested results keyed by field name or decimal index.
//
// Validate returns an error only when the walk itself cannot proceed: a
// cancelled context, a missing registry, an unknown rule, a rule error or two
// members of one value sharing a key (ErrKeyCollision).
func Validate(ctx context.Context, s *Schema, value any, opts ...Option) (*valirator.Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	w := &walker{options: o}
	return w.walk(ctx, s, value, valirator.Root())
}

type walker struct {
	*options
}

func (w *walker) walk(ctx context.Context, s *Schema, value any, p valirator.PathRef) (*valirator.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil {
		return valirator.New(), nil
	}
	entries := make([]valirator.Entry, 0, len(s.Rules)+len(s.Properties))
	seen := make(map[string]struct{}, cap(entries))
	claim := func(key string) error {
		if _, dup := seen[key]; dup {
			return &RuleError{Path: p.Pointer(), Rule: key, Err: ErrKeyCollision}
		}
		seen[key] = struct{}{}
		return nil
	}

	for _, c := range s.Rules {
		if err := claim(c.Rule); err != nil {
			return nil, err
		}
		passed, err := w.evaluate(c, value)
		if err != nil {
			return nil, &RuleError{Path: p.Pointer(), Rule: c.Rule, Err: err}
		}
		entries = append(entries, valirator.Leaf(c.Rule, !passed))
		if !passed {
			w.logger.DebugContext(ctx, "rule failed",
				slog.String("path", p.Pointer()),
				slog.String("rule", c.Rule),
			)
			if w.failFast {
				break
			}
		}
	}

	for _, prop := range s.Properties {
		if err := claim(prop.Name); err != nil {
			return nil, err
		}
		fv, _ := fieldValue(value, prop.Name)
		child, err := w.walk(ctx, prop.Schema, fv, p.Field(prop.Name))
		if err != nil {
			return nil, err
		}
		entries = append(entries, valirator.Nested(prop.Name, child))
	}

	if s.Items != nil {
		if elems, ok := elements(value); ok {
			for i, el := range elems {
				key := strconv.Itoa(i)
				if err := claim(key); err != nil {
					return nil, err
				}
				child, err := w.walk(ctx, s.Items, el, p.Index(i))
				if err != nil {
					return nil, err
				}
				entries = append(entries, valirator.Nested(key, child))
			}
		}
	}

	return valirator.New(entries...), nil
}

func (w *walker) evaluate(c Constraint, value any) (bool, error) {
	if w.registry == nil {
		return false, ErrNoRegistry
	}
	return w.registry.Evaluate(c.Rule, value, c.Param)
}
