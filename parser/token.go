package parser

// TokenKind classifies a lexical unit of the DSL.
type TokenKind int

const (
	// ILLEGAL marks a character the lexer does not recognize.
	ILLEGAL TokenKind = iota
	// EOF marks the end of input.
	EOF

	// IDENT is a bare word: operation names, true/false, asc/desc.
	// The lexer does not distinguish operation names from arbitrary
	// identifiers - that is the parser's job.
	IDENT
	// VAR is a '$'-prefixed variable name; Literal holds the name
	// without the sigil.
	VAR
	// STRING is a double-quoted string literal; Literal holds the
	// decoded text.
	STRING
	// NUMBER is an integer or decimal literal, optionally negative;
	// Literal holds the raw text.
	NUMBER

	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]
	COMMA    // ,
)

// Token is one lexical unit with its source position.
type Token struct {
	Kind    TokenKind
	Literal string
	Offset  int // byte offset of the first character
	Line    int
	Column  int
}

// String returns a human-readable name for diagnostics.
func (k TokenKind) String() string {
	switch k {
	case ILLEGAL:
		return "ILLEGAL"
	case EOF:
		return "end of input"
	case IDENT:
		return "identifier"
	case VAR:
		return "variable"
	case STRING:
		return "string"
	case NUMBER:
		return "number"
	case LPAREN:
		return "'('"
	case RPAREN:
		return "')'"
	case LBRACKET:
		return "'['"
	case RBRACKET:
		return "']'"
	case COMMA:
		return "','"
	default:
		return "UNKNOWN"
	}
}
