package valirator

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// MarshalJSON encodes the tree as a JSON object, keeping enumeration order.
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Result) writeJSON(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	if r != nil {
		for i, e := range r.entries {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(e.key)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			if e.kind == KindNode {
				if err := e.node.writeJSON(buf); err != nil {
					return err
				}
				continue
			}
			if e.leaf {
				buf.WriteString("true")
			} else {
				buf.WriteString("false")
			}
		}
	}
	buf.WriteByte('}')
	return nil
}

// UnmarshalJSON decodes a JSON object of bools and nested objects, keeping
// document key order. Other leaf kinds fail with ErrInvalidLeafType.
func (r *Result) UnmarshalJSON(data []byte) error {
	parsed, err := DecodeJSON(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*r = *parsed
	return nil
}

// ErrTrailingData is returned by DecodeJSON when input follows the top-level
// object.
var ErrTrailingData = errors.New("valirator: trailing data after json object")

// DecodeJSON reads a single JSON object from rd and builds a Result from it.
// rd must hold nothing else but whitespace.
func DecodeJSON(rd io.Reader) (*Result, error) {
	dec := json.NewDecoder(rd)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("valirator: decode json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, &LeafTypeError{Path: Root().Pointer(), Value: tok}
	}
	r, err := decodeJSONObject(dec, Root())
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}
	return r, nil
}

// decodeJSONObject consumes tokens up to and including the closing '}' of the
// object whose '{' has already been read.
func decodeJSONObject(dec *json.Decoder, p PathRef) (*Result, error) {
	var entries []Entry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("valirator: decode json: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("valirator: decode json: expected object key at %q, got %v", p.Pointer(), tok)
		}
		val, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("valirator: decode json: %w", err)
		}
		switch v := val.(type) {
		case bool:
			entries = append(entries, Leaf(key, v))
		case json.Delim:
			if v != '{' {
				return nil, &LeafTypeError{Path: p.Field(key).Pointer(), Value: v}
			}
			child, err := decodeJSONObject(dec, p.Field(key))
			if err != nil {
				return nil, err
			}
			entries = append(entries, Nested(key, child))
		default:
			return nil, &LeafTypeError{Path: p.Field(key).Pointer(), Value: v}
		}
	}
	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("valirator: decode json: %w", err)
	}
	return New(entries...), nil
}
