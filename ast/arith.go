package ast

// Arith is a sealed interface over arithmetic expressions, used only
// inside Eval. Binary operators are explicit nodes; there is no infix
// form and no precedence, nesting is purely structural. Negative
// numbers are lexical (a negative Num inside ArithValue), never a
// Minus with a zero left operand.
type Arith interface {
	arithNode() // Marker method - seals interface to this package
}

// ArithValue lifts a Value (number or variable) into an expression leaf.
type ArithValue struct {
	Value Value
}

func (ArithValue) arithNode() {}

// Plus is Left + Right.
type Plus struct {
	Left  Arith
	Right Arith
}

func (Plus) arithNode() {}

// Minus is Left - Right.
type Minus struct {
	Left  Arith
	Right Arith
}

func (Minus) arithNode() {}

// Times is Left * Right.
type Times struct {
	Left  Arith
	Right Arith
}

func (Times) arithNode() {}

// Div is Left / Right.
type Div struct {
	Left  Arith
	Right Arith
}

func (Div) arithNode() {}

// Exp is Left raised to Right.
type Exp struct {
	Left  Arith
	Right Arith
}

func (Exp) arithNode() {}
