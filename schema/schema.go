// Package schema describes declarative constraints per value and walks input
// values against them, assembling a valirator.Result that mirrors the schema
// shape.
package schema

// Constraint applies the rule registered under Rule with Param.
type Constraint struct {
	Rule  string
	Param any
}

// Property validates the field Name of an object value with Schema.
type Property struct {
	Name   string
	Schema *Schema
}

// Schema lists the constraints of one value. Rules run first, then
// Properties, then Items for every element of a collection value.
type Schema struct {
	Rules      []Constraint
	Properties []Property
	Items      *Schema
}

// Builder assembles a Schema fluently.
type Builder struct {
	s      Schema
	fields map[string]int
}

// New creates an empty builder.
func New() *Builder {
	return &Builder{fields: map[string]int{}}
}

// Rule appends a constraint. Rules keep insertion order, which is also the
// enumeration order of their leaves in the Result.
func (b *Builder) Rule(name string, param any) *Builder {
	b.s.Rules = append(b.s.Rules, Constraint{Rule: name, Param: param})
	return b
}

// Field registers a property. Registering a name twice replaces its schema and
// keeps the first position.
func (b *Builder) Field(name string, sub *Schema) *Builder {
	if i, ok := b.fields[name]; ok {
		b.s.Properties[i].Schema = sub
		return b
	}
	b.fields[name] = len(b.s.Properties)
	b.s.Properties = append(b.s.Properties, Property{Name: name, Schema: sub})
	return b
}

// Items sets the schema applied to every element of a collection value.
func (b *Builder) Items(sub *Schema) *Builder {
	b.s.Items = sub
	return b
}

// Build returns a copy of the schema assembled so far.
func (b *Builder) Build() *Schema {
	out := &Schema{
		Rules:      append([]Constraint(nil), b.s.Rules...),
		Properties: append([]Property(nil), b.s.Properties...),
		Items:      b.s.Items,
	}
	return out
}
