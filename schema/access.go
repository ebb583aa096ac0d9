package schema

import (
	"reflect"
	"strings"
)

// resolveStructKey resolves a struct field's external key.
// Priority: valirator:"name=..." > json tag name > field name; "-" disables the field.
func resolveStructKey(sf reflect.StructField) string {
	if vt := sf.Tag.Get("valirator"); vt != "" {
		for _, p := range strings.Split(vt, ",") {
			p = strings.TrimSpace(p)
			if strings.HasPrefix(p, "name=") {
				return strings.TrimPrefix(p, "name=")
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if n, _, _ := strings.Cut(jt, ","); n != "" {
			return n
		}
	}
	return sf.Name
}

// fieldValue returns the member name of an object-like value (map with
// string-kinded keys, struct, or pointers to them). Missing members and
// non-objects report ok=false.
func fieldValue(v any, name string) (any, bool) {
	if m, ok := v.(map[string]any); ok {
		fv, ok := m[name]
		return fv, ok
	}
	cur, ok := deref(reflect.ValueOf(v))
	if !ok {
		return nil, false
	}
	switch cur.Kind() {
	case reflect.Struct:
		rt := cur.Type()
		for i := 0; i < rt.NumField(); i++ {
			sf := rt.Field(i)
			if !sf.IsExported() {
				continue
			}
			if key := resolveStructKey(sf); key != "-" && key == name {
				return cur.Field(i).Interface(), true
			}
		}
	case reflect.Map:
		if cur.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := cur.MapIndex(reflect.ValueOf(name).Convert(cur.Type().Key()))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true
	}
	return nil, false
}

// elements returns the members of a slice or array value.
func elements(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	cur, ok := deref(reflect.ValueOf(v))
	if !ok {
		return nil, false
	}
	switch cur.Kind() {
	case reflect.Slice, reflect.Array:
		if cur.Kind() == reflect.Slice && cur.IsNil() {
			return nil, false
		}
		out := make([]any, cur.Len())
		for i := range out {
			out[i] = cur.Index(i).Interface()
		}
		return out, true
	default:
		return nil, false
	}
}

func deref(cur reflect.Value) (reflect.Value, bool) {
	for cur.IsValid() && (cur.Kind() == reflect.Pointer || cur.Kind() == reflect.Interface) {
		if cur.IsNil() {
			return reflect.Value{}, false
		}
		cur = cur.Elem()
	}
	return cur, cur.IsValid()
}
