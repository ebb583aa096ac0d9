package rules_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/valirator/rules"
)

var (
	isString = rules.Predicate(func(v any) bool { _, ok := v.(string); return ok })
	notNil   = rules.Predicate(func(v any) bool { return v != nil })
	errRule  = func(any, any) (bool, error) { return false, errors.New("boom") }
)

func minLen(value, param any) (bool, error) {
	s, _ := value.(string)
	n, ok := param.(int)
	if !ok {
		return false, errors.New("minLen: param must be int")
	}
	return len(s) >= n, nil
}

func TestRegistry_RegisterLookup(t *testing.T) {
	reg := rules.NewRegistry()
	require.NoError(t, reg.Register("minLen", minLen))
	require.NoError(t, reg.Register("isString", isString))

	fn, ok := reg.Lookup("minLen")
	require.True(t, ok)
	passed, err := fn("abc", 2)
	require.NoError(t, err)
	assert.True(t, passed)

	_, ok = reg.Lookup("nope")
	assert.False(t, ok)
	assert.Equal(t, []string{"isString", "minLen"}, reg.Names())
	assert.Equal(t, 2, reg.Len())
}

func TestRegistry_RegisterErrors(t *testing.T) {
	reg := rules.NewRegistry()
	assert.ErrorIs(t, reg.Register("", isString), rules.ErrEmptyName)
	assert.ErrorIs(t, reg.Register("x", nil), rules.ErrNilRule)
	require.NoError(t, reg.Register("x", isString))
	assert.ErrorIs(t, reg.Register("x", isString), rules.ErrDuplicateRule)
	assert.Panics(t, func() { reg.MustRegister("x", isString) })
}

func TestRegistry_Evaluate(t *testing.T) {
	reg := rules.NewRegistry().MustRegister("minLen", minLen)

	passed, err := reg.Evaluate("minLen", "ab", 3)
	require.NoError(t, err)
	assert.False(t, passed)

	_, err = reg.Evaluate("minLen", "ab", "3")
	assert.EqualError(t, err, "minLen: param must be int")

	_, err = reg.Evaluate("maxLen", "ab", 3)
	assert.ErrorIs(t, err, rules.ErrUnknownRule)
}

func TestRegistry_CloneIsIndependent(t *testing.T) {
	reg := rules.NewRegistry().MustRegister("a", isString)
	c := reg.Clone()
	c.MustRegister("b", notNil)
	assert.Equal(t, []string{"a"}, reg.Names())
	assert.Equal(t, []string{"a", "b"}, c.Names())
}

func TestRegistry_Concurrent(t *testing.T) {
	reg := rules.NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = reg.Register(string(rune('a'+i)), isString)
			_, _ = reg.Lookup("a")
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 16, reg.Len())
}

func TestCombinators(t *testing.T) {
	tests := []struct {
		name    string
		fn      rules.Func
		value   any
		want    bool
		wantErr bool
	}{
		{"and pass", rules.And(isString, notNil), "x", true, false},
		{"and fail", rules.And(notNil, isString), 1, false, false},
		{"and skips nil", rules.And(nil, isString), "x", true, false},
		{"and error", rules.And(errRule, isString), "x", false, true},
		{"or pass", rules.Or(isString, notNil), 1, true, false},
		{"or fail", rules.Or(isString, notNil), nil, false, false},
		{"or recovers from error", rules.Or(errRule, notNil), 1, true, false},
		{"or reports first error", rules.Or(errRule, isString), 1, false, true},
		{"not", rules.Not(isString), 1, true, false},
		{"not error", rules.Not(errRule), 1, false, true},
		{"when cond false passes", rules.When(notNil, isString), nil, true, false},
		{"when cond true delegates", rules.When(notNil, isString), 1, false, false},
		{"when cond error", rules.When(errRule, isString), 1, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(tt.value, nil)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
