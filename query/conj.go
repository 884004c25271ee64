package query

import "github.com/roach88/quarry/ast"

// Conj accumulates clauses that compose into an implicit conjunction,
// the way successive clauses compose inside an and(...) call. The
// zero value is ready to use.
//
// Note bare juxtaposition is not legal at the top level of the DSL
// text - a parse accepts exactly one query expression. Conj is the
// builder-side equivalent of writing that expression as and(...).
type Conj struct {
	queries []ast.Query
}

// Add appends any query clause.
func (c *Conj) Add(q ast.Query) *Conj {
	c.queries = append(c.queries, q)
	return c
}

// Triple appends a triple clause.
func (c *Conj) Triple(subject, predicate, object ast.Value) *Conj {
	return c.Add(Triple(subject, predicate, object))
}

// Eq appends a unification clause.
func (c *Conj) Eq(left, right ast.Value) *Conj {
	return c.Add(Eq(left, right))
}

// Isa appends a type-membership clause.
func (c *Conj) Isa(element, typ ast.Value) *Conj {
	return c.Add(Isa(element, typ))
}

// Greater appends a greater-than clause.
func (c *Conj) Greater(left, right ast.Value) *Conj {
	return c.Add(Greater(left, right))
}

// Less appends a less-than clause.
func (c *Conj) Less(left, right ast.Value) *Conj {
	return c.Add(Less(left, right))
}

// Opt appends an optional clause.
func (c *Conj) Opt(q ast.Query) *Conj {
	return c.Add(Opt(q))
}

// Query returns the accumulated conjunction: a single clause stands
// alone, several wrap into an And. Returns nil when nothing was added.
func (c *Conj) Query() ast.Query {
	switch len(c.queries) {
	case 0:
		return nil
	case 1:
		return c.queries[0]
	default:
		return ast.And{Queries: c.queries}
	}
}
