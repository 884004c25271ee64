package query

import "github.com/roach88/quarry/ast"

// V constructs a variable reference (without the '$' sigil).
func V(name string) ast.Var { return ast.Var{Name: name} }

// S constructs a string value. Strings containing a colon or starting
// with '@' are node references by downstream convention.
func S(text string) ast.Str { return ast.Str{Text: text} }

// I constructs an integer value.
func I(n int64) ast.Num { return ast.Num{Int: n} }

// F constructs a float value.
func F(f float64) ast.Num { return ast.Num{Float: f, IsFloat: true} }

// B constructs a boolean value.
func B(b bool) ast.Bool { return ast.Bool{Val: b} }

// L constructs a list value.
func L(elems ...ast.Value) ast.List { return ast.List{Elems: elems} }

// Vars constructs a variable list for Select, Distinct and GroupBy.
func Vars(names ...string) []ast.Var {
	vars := make([]ast.Var, len(names))
	for i, n := range names {
		vars[i] = ast.Var{Name: n}
	}
	return vars
}

// Triple matches a subject-predicate-object edge.
func Triple(subject, predicate, object ast.Value) ast.Triple {
	return ast.Triple{Subject: subject, Predicate: predicate, Object: object}
}

// And conjoins queries in order.
func And(queries ...ast.Query) ast.And { return ast.And{Queries: queries} }

// Or disjoins queries in order.
func Or(queries ...ast.Query) ast.Or { return ast.Or{Queries: queries} }

// Not negates a query.
func Not(q ast.Query) ast.Not { return ast.Not{Query: q} }

// Opt makes a query optional.
func Opt(q ast.Query) ast.Optional { return ast.Optional{Query: q} }

// Select restricts result columns to the named variables.
func Select(vars []ast.Var, q ast.Query) ast.Select {
	return ast.Select{Variables: vars, Query: q}
}

// Distinct deduplicates solutions over the named variables.
func Distinct(vars []ast.Var, q ast.Query) ast.Distinct {
	return ast.Distinct{Variables: vars, Query: q}
}

// Limit caps the number of solutions.
func Limit(n uint64, q ast.Query) ast.Limit { return ast.Limit{N: n, Query: q} }

// Start skips the first n solutions.
func Start(n uint64, q ast.Query) ast.Start { return ast.Start{N: n, Query: q} }

// Asc orders ascending by the named variable.
func Asc(name string) ast.OrderSpec {
	return ast.OrderSpec{Var: ast.Var{Name: name}, Ascending: true}
}

// Desc orders descending by the named variable.
func Desc(name string) ast.OrderSpec {
	return ast.OrderSpec{Var: ast.Var{Name: name}}
}

// OrderBy sorts solutions by the given specs, left to right.
func OrderBy(ordering []ast.OrderSpec, q ast.Query) ast.OrderBy {
	return ast.OrderBy{Ordering: ordering, Query: q}
}

// GroupBy groups solutions by group vars, collecting template vars per group.
func GroupBy(group, template []ast.Var, q ast.Query) ast.GroupBy {
	return ast.GroupBy{GroupVars: group, Template: template, Query: q}
}

// Eq unifies two values.
func Eq(left, right ast.Value) ast.Eq { return ast.Eq{Left: left, Right: right} }

// Greater succeeds when left > right.
func Greater(left, right ast.Value) ast.Greater {
	return ast.Greater{Left: left, Right: right}
}

// Less succeeds when left < right.
func Less(left, right ast.Value) ast.Less {
	return ast.Less{Left: left, Right: right}
}

// Isa matches an element against a type.
func Isa(element, typ ast.Value) ast.Isa { return ast.Isa{Element: element, Type: typ} }

// TypeOf binds the type of a value to out.
func TypeOf(v ast.Value, out string) ast.TypeOf {
	return ast.TypeOf{Value: v, Out: ast.Var{Name: out}}
}

// Subsumption succeeds when child is subsumed by parent.
func Subsumption(child, parent ast.Value) ast.Subsumption {
	return ast.Subsumption{Child: child, Parent: parent}
}

// Concat concatenates parts into out.
func Concat(parts []ast.Value, out string) ast.Concat {
	return ast.Concat{Parts: parts, Out: ast.Var{Name: out}}
}

// Substring relates a string to a substring with before/length/after counts.
func Substring(s, before, length, after ast.Value, out string) ast.Substring {
	return ast.Substring{String: s, Before: before, Length: length, After: after, Out: ast.Var{Name: out}}
}

// Trim strips surrounding whitespace.
func Trim(in ast.Value, out string) ast.Trim {
	return ast.Trim{In: in, Out: ast.Var{Name: out}}
}

// Upper uppercases a string.
func Upper(in ast.Value, out string) ast.Upper {
	return ast.Upper{In: in, Out: ast.Var{Name: out}}
}

// Lower lowercases a string.
func Lower(in ast.Value, out string) ast.Lower {
	return ast.Lower{In: in, Out: ast.Var{Name: out}}
}

// Regexp matches subject against pattern, binding captures to out.
func Regexp(pattern string, subject ast.Value, out string) ast.Regexp {
	return ast.Regexp{Pattern: pattern, Subject: subject, Out: ast.Var{Name: out}}
}

// Eval evaluates an arithmetic expression into out.
func Eval(expr ast.Arith, out string) ast.Eval {
	return ast.Eval{Expr: expr, Out: ast.Var{Name: out}}
}

// Lit lifts a value into an arithmetic leaf.
func Lit(v ast.Value) ast.ArithValue { return ast.ArithValue{Value: v} }

// Plus is left + right.
func Plus(left, right ast.Arith) ast.Plus { return ast.Plus{Left: left, Right: right} }

// Minus is left - right.
func Minus(left, right ast.Arith) ast.Minus { return ast.Minus{Left: left, Right: right} }

// Times is left * right.
func Times(left, right ast.Arith) ast.Times { return ast.Times{Left: left, Right: right} }

// Div is left / right.
func Div(left, right ast.Arith) ast.Div { return ast.Div{Left: left, Right: right} }

// Exp is left raised to right.
func Exp(left, right ast.Arith) ast.Exp { return ast.Exp{Left: left, Right: right} }

// Sum sums values into out.
func Sum(values []ast.Value, out string) ast.Sum {
	return ast.Sum{Values: values, Out: ast.Var{Name: out}}
}

// Count binds the number of solutions of q to out.
func Count(q ast.Query, out string) ast.Count {
	return ast.Count{Query: q, Out: ast.Var{Name: out}}
}

// ReadDocument binds the document identified by id to out.
func ReadDocument(id ast.Value, out string) ast.ReadDocument {
	return ast.ReadDocument{ID: id, Out: ast.Var{Name: out}}
}

// InsertDocument inserts a document and binds its identifier to out.
func InsertDocument(doc ast.Value, out string) ast.InsertDocument {
	return ast.InsertDocument{Document: doc, Out: ast.Var{Name: out}}
}

// UpdateDocument replaces a stored document.
func UpdateDocument(doc ast.Value) ast.UpdateDocument {
	return ast.UpdateDocument{Document: doc}
}

// DeleteDocument deletes the document identified by id.
func DeleteDocument(id ast.Value) ast.DeleteDocument {
	return ast.DeleteDocument{ID: id}
}

// Path matches a traversal from subject to object along pattern.
func Path(subject ast.Value, pattern ast.PathPattern, object ast.Value) ast.Path {
	return ast.Path{Subject: subject, Pattern: pattern, Object: object}
}

// PathVar is Path with the concrete traversal bound to out.
func PathVar(subject ast.Value, pattern ast.PathPattern, object ast.Value, out string) ast.Path {
	v := ast.Var{Name: out}
	return ast.Path{Subject: subject, Pattern: pattern, Object: object, Out: &v}
}

// Pred is a forward predicate step.
func Pred(predicate ast.Value) ast.PathPred { return ast.PathPred{Predicate: predicate} }

// Inv traverses a pattern in the inverse direction.
func Inv(pattern ast.PathPattern) ast.PathInv { return ast.PathInv{Pattern: pattern} }

// Star repeats a pattern zero or more times.
func Star(pattern ast.PathPattern) ast.PathStar { return ast.PathStar{Pattern: pattern} }

// PlusPath repeats a pattern one or more times. (Plus is taken by the
// arithmetic constructor.)
func PlusPath(pattern ast.PathPattern) ast.PathPlus { return ast.PathPlus{Pattern: pattern} }

// Seq chains path patterns in order. A single pattern collapses to
// itself, matching the parser's treatment of seq(p).
func Seq(patterns ...ast.PathPattern) ast.PathPattern {
	if len(patterns) == 1 {
		return patterns[0]
	}
	return ast.PathSeq{Patterns: patterns}
}

// OrPath tries path alternatives in order. A single pattern collapses
// to itself, matching the parser's treatment of or(p). (Or is taken by
// the query-level constructor.)
func OrPath(patterns ...ast.PathPattern) ast.PathPattern {
	if len(patterns) == 1 {
		return patterns[0]
	}
	return ast.PathOr{Patterns: patterns}
}
