package ast

import "strings"

// Value is a sealed interface over the leaf expressions of the DSL.
// Only Var, Str, Num, Bool, and List implement it.
//
// There is no separate node-reference variant. A Str whose text contains
// a colon or starts with '@' is conventionally a node reference (an IRI
// or prefixed name) rather than a string literal; the parser preserves
// the raw text and IsNode encodes the convention in one place for
// downstream consumers.
type Value interface {
	valueNode() // Marker method - seals interface to this package
}

// Var references a query variable by name (without the '$' sigil).
// Two Vars with the same name are the same logical variable.
type Var struct {
	Name string
}

func (Var) valueNode() {}

// Str is a string value: either a string literal or, by convention,
// a node reference (see IsNode).
type Str struct {
	Text string
}

func (Str) valueNode() {}

// IsNode reports whether the string is conventionally a node reference:
// a prefixed name such as "rdf:type" or an '@'-prefixed name such as
// "@schema:Person". The parser never resolves namespaces; consumers
// apply this convention at serialization time.
func (s Str) IsNode() bool {
	return strings.HasPrefix(s.Text, "@") || strings.Contains(s.Text, ":")
}

// Num is a numeric value, either an integer or a float.
// Exactly one of Int or Float is meaningful, selected by IsFloat.
type Num struct {
	Int     int64
	Float   float64
	IsFloat bool
}

func (Num) valueNode() {}

// Bool is a boolean value.
type Bool struct {
	Val bool
}

func (Bool) valueNode() {}

// List is an ordered sequence of values.
type List struct {
	Elems []Value
}

func (List) valueNode() {}
