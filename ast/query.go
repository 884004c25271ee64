package ast

// Query is a sealed interface over every query operation of the DSL.
//
// Variants fall into families:
//
//   - Graph pattern: Triple
//   - Logical: And, Or, Not, Optional
//   - Control flow: Select, Distinct, Limit, Start, OrderBy, GroupBy
//   - Comparison: Eq, Greater, Less
//   - Type: Isa, TypeOf, Subsumption
//   - String: Concat, Substring, Trim, Upper, Lower, Regexp
//   - Arithmetic: Eval
//   - Collection: Sum, Count
//   - Document: ReadDocument, InsertDocument, UpdateDocument, DeleteDocument
//   - Path: Path
//
// The marker method seals the interface to this package so the wire
// serializer can type-switch exhaustively.
type Query interface {
	queryNode() // Marker method - seals interface to this package
}

// Triple matches a single subject-predicate-object edge.
// Subject and predicate must serialize as node positions (variable or
// node reference); the object may additionally be a data literal.
type Triple struct {
	Subject   Value
	Predicate Value
	Object    Value
}

func (Triple) queryNode() {}

// And is the conjunction of its sub-queries, in order.
type And struct {
	Queries []Query
}

func (And) queryNode() {}

// Or is the disjunction of its sub-queries, in order.
type Or struct {
	Queries []Query
}

func (Or) queryNode() {}

// Not succeeds when its sub-query produces no solutions.
type Not struct {
	Query Query
}

func (Not) queryNode() {}

// Optional makes its sub-query non-failing: solutions pass through when
// it matches, and the enclosing query proceeds unbound when it does not.
type Optional struct {
	Query Query
}

func (Optional) queryNode() {}

// Select restricts the result columns to the named variables.
type Select struct {
	Variables []Var
	Query     Query
}

func (Select) queryNode() {}

// Distinct deduplicates solutions over the named variables.
type Distinct struct {
	Variables []Var
	Query     Query
}

func (Distinct) queryNode() {}

// Limit caps the number of solutions of the sub-query.
type Limit struct {
	N     uint64
	Query Query
}

func (Limit) queryNode() {}

// Start skips the first N solutions of the sub-query.
type Start struct {
	N     uint64
	Query Query
}

func (Start) queryNode() {}

// OrderSpec pairs an ordering variable with a direction.
type OrderSpec struct {
	Var       Var
	Ascending bool
}

// OrderBy sorts solutions by the given specs, applied left to right.
type OrderBy struct {
	Ordering []OrderSpec
	Query    Query
}

func (OrderBy) queryNode() {}

// GroupBy groups solutions by GroupVars and collects the Template
// variables of each group into a list result.
type GroupBy struct {
	GroupVars []Var
	Template  []Var
	Query     Query
}

func (GroupBy) queryNode() {}

// Eq unifies two values.
type Eq struct {
	Left  Value
	Right Value
}

func (Eq) queryNode() {}

// Greater succeeds when Left compares greater than Right.
type Greater struct {
	Left  Value
	Right Value
}

func (Greater) queryNode() {}

// Less succeeds when Left compares less than Right.
type Less struct {
	Left  Value
	Right Value
}

func (Less) queryNode() {}

// Isa matches Element against a type.
type Isa struct {
	Element Value
	Type    Value
}

func (Isa) queryNode() {}

// TypeOf binds the type of Value to Out.
type TypeOf struct {
	Value Value
	Out   Var
}

func (TypeOf) queryNode() {}

// Subsumption succeeds when Child is subsumed by Parent in the class
// hierarchy.
type Subsumption struct {
	Child  Value
	Parent Value
}

func (Subsumption) queryNode() {}

// Concat concatenates Parts and binds the result to Out.
type Concat struct {
	Parts []Value
	Out   Var
}

func (Concat) queryNode() {}

// Substring relates a string to a substring with before/length/after
// character counts, binding the substring to Out.
type Substring struct {
	String Value
	Before Value
	Length Value
	After  Value
	Out    Var
}

func (Substring) queryNode() {}

// Trim strips surrounding whitespace from In, binding the result to Out.
type Trim struct {
	In  Value
	Out Var
}

func (Trim) queryNode() {}

// Upper uppercases In, binding the result to Out.
type Upper struct {
	In  Value
	Out Var
}

func (Upper) queryNode() {}

// Lower lowercases In, binding the result to Out.
type Lower struct {
	In  Value
	Out Var
}

func (Lower) queryNode() {}

// Regexp matches Subject against Pattern, binding capture groups to Out.
type Regexp struct {
	Pattern string
	Subject Value
	Out     Var
}

func (Regexp) queryNode() {}

// Eval evaluates an arithmetic expression and binds the result to Out.
type Eval struct {
	Expr Arith
	Out  Var
}

func (Eval) queryNode() {}

// Sum sums Values and binds the result to Out.
type Sum struct {
	Values []Value
	Out    Var
}

func (Sum) queryNode() {}

// Count binds the number of solutions of the sub-query to Out.
type Count struct {
	Query Query
	Out   Var
}

func (Count) queryNode() {}

// ReadDocument binds the document identified by ID to Out.
type ReadDocument struct {
	ID  Value
	Out Var
}

func (ReadDocument) queryNode() {}

// InsertDocument inserts Document and binds its identifier to Out.
type InsertDocument struct {
	Document Value
	Out      Var
}

func (InsertDocument) queryNode() {}

// UpdateDocument replaces the stored document with Document.
type UpdateDocument struct {
	Document Value
}

func (UpdateDocument) queryNode() {}

// DeleteDocument deletes the document identified by ID.
type DeleteDocument struct {
	ID Value
}

func (DeleteDocument) queryNode() {}

// Path matches a traversal from Subject to Object along Pattern.
// Out, when non-nil, binds the concrete traversal taken.
type Path struct {
	Subject Value
	Pattern PathPattern
	Object  Value
	Out     *Var
}

func (Path) queryNode() {}
