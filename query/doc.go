// Package query is the programmatic construction surface for the DSL:
// one typed constructor per grammar rule, producing the same ast trees
// the parser does. Argument shapes are enforced by the signatures, so a
// query assembled here carries the same structural invariants as a
// parsed one.
//
// Constructor names track the DSL keywords. Two path combinators would
// collide with the query-level Or and the arithmetic Plus, so path
// alternation is OrPath and path repetition is PlusPath.
//
// A parsed query and its built equivalent are interchangeable:
//
//	q := query.And(
//	    query.Triple(query.V("P"), query.S("@schema:age"), query.V("Age")),
//	    query.Greater(query.V("Age"), query.I(18)),
//	)
//
// builds the tree that parsing
//
//	and(triple($P, "@schema:age", $Age), greater($Age, 18))
//
// produces.
package query
