package valirator

import (
	"fmt"
	"strconv"
	"strings"
)

// PathRef builds JSON Pointer paths in a chain-safe way and creates Issues.
type PathRef interface {
	Field(name string) PathRef
	Index(i int) PathRef
	Pointer() string
	Issue(rule string) Issue
}

// Root returns the pointer to the whole document, the empty string per
// RFC 6901. "/" addresses the key "" of the root object.
func Root() PathRef { return &pathRef{parts: nil} }

// At parses an already escaped JSON Pointer. Empty reference tokens are kept,
// so "/a/" addresses the key "" of /a. A pointer without a leading '/' is read
// as if it had one.
func At(pointer string) PathRef {
	if pointer == "" {
		return Root()
	}
	return &pathRef{parts: strings.Split(strings.TrimPrefix(pointer, "/"), "/")}
}

type pathRef struct {
	parts []string
}

func (p *pathRef) Field(name string) PathRef {
	// escape '~' -> '~0', '/' -> '~1' per RFC6901
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return &pathRef{parts: append(append([]string{}, p.parts...), esc)}
}

func (p *pathRef) Index(i int) PathRef {
	return &pathRef{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

func (p *pathRef) Pointer() string {
	if len(p.parts) == 0 {
		return ""
	}
	return "/" + strings.Join(p.parts, "/")
}

func (p *pathRef) Issue(rule string) Issue {
	return Issue{Path: p.Pointer(), Rule: rule, Message: fmt.Sprintf("%s failed", rule)}
}
