package ast

// PathPattern is a sealed interface over graph-traversal patterns.
//
// Alternation (PathOr) binds loosest, sequencing (PathSeq) tighter, and
// PathPred/PathInv/PathStar/PathPlus are atoms - though in the DSL all
// of these are written as explicit call forms, so precedence is realized
// purely by nesting depth.
type PathPattern interface {
	pathNode() // Marker method - seals interface to this package
}

// PathPred is a single forward predicate step.
type PathPred struct {
	Predicate Value
}

func (PathPred) pathNode() {}

// PathInv traverses its pattern in the inverse direction.
// The wire schema only expresses inversion of a single predicate step,
// so serialization rejects PathInv over composite patterns.
type PathInv struct {
	Pattern PathPattern
}

func (PathInv) pathNode() {}

// PathStar repeats its pattern zero or more times.
type PathStar struct {
	Pattern PathPattern
}

func (PathStar) pathNode() {}

// PathPlus repeats its pattern one or more times.
type PathPlus struct {
	Pattern PathPattern
}

func (PathPlus) pathNode() {}

// PathSeq chains patterns in order.
// A PathSeq is never constructed with a single child: the parser and
// builder both collapse seq(p) to p so round-trips stay stable.
type PathSeq struct {
	Patterns []PathPattern
}

func (PathSeq) pathNode() {}

// PathOr tries alternatives in order. Distinct from the query-level Or.
// Like PathSeq, a single-child or(p) collapses to p.
type PathOr struct {
	Patterns []PathPattern
}

func (PathOr) pathNode() {}
