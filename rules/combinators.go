package rules

// ---------- Rule combinators ----------

// And passes when every rule passes. Evaluation stops at the first failure or
// error. Nil rules are skipped.
func And(fns ...Func) Func {
	return func(value, param any) (bool, error) {
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			ok, err := fn(value, param)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
}

// Or passes when any rule passes. Errors from earlier branches are dropped
// once a later branch passes; if no branch passes the first error is returned.
func Or(fns ...Func) Func {
	return func(value, param any) (bool, error) {
		var firstErr error
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			ok, err := fn(value, param)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			if ok {
				return true, nil
			}
		}
		return false, firstErr
	}
}

// Not inverts fn. Errors pass through unchanged.
func Not(fn Func) Func {
	return func(value, param any) (bool, error) {
		ok, err := fn(value, param)
		if err != nil {
			return false, err
		}
		return !ok, nil
	}
}

// When runs fn only if cond passes; otherwise the rule passes.
func When(cond, fn Func) Func {
	return func(value, param any) (bool, error) {
		ok, err := cond(value, param)
		if err != nil {
			return false, err
		}
		if !ok {
			return true, nil
		}
		return fn(value, param)
	}
}
