// Package valirator provides:
//
// - An immutable, ordered validation result tree (Result) built from rule
// outcomes (bool leaves) and nested per-field results
// - Uniform queries over that tree regardless of depth (IsValid, HasErrors,
// HasErrorsOfTypes, GetErrors, GetFirstErrors, GetErrorsAsArray, GetFirstError)
// - A flat error model via Issues (JSON Pointer, rule name, message)
// - Order-preserving JSON/YAML codecs and plain-map conversion
//
// Design policy:
// - Keep only the result model in the root package; the rule contract lives
// under rules/, the schema walker under schema/, and the CLI under cmd/valirator.
// - Leaves carry the error signal: a leaf recorded as true means the rule failed.
// Walkers store !passed, never passed.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	res, err := schema.Validate(ctx, userSchema, input, schema.WithRegistry(reg))
//	if err != nil {
//		return err
//	}
//	if !res.IsValid() {
//		firsts := res.GetFirstErrors(false)
//		iss := res.Issues()
//	}
package valirator
