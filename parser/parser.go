// Package parser implements the recursive-descent parser for the quarry
// query DSL. Parse turns DSL text into an ast.Query or fails with a
// *ParseError; there is no partial-success mode. The grammar has four
// mutually recursive levels - queries, values, arithmetic expressions,
// and path patterns - all written as explicit call forms, so dispatch
// reduces to an arity-table lookup per operation name.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/quarry/ast"
)

// Parse parses exactly one top-level query expression. Bare consecutive
// clauses are not implicitly conjoined: wrap them in and(...), anything
// after the first expression is a CodeTrailing error.
func Parse(input string) (ast.Query, error) {
	toks, err := lexAll(input)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	q, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind != EOF {
		return nil, &ParseError{
			Code:    CodeTrailing,
			Message: fmt.Sprintf("unexpected %s after query", tok.Kind),
			Offset:  tok.Offset,
		}
	}
	return q, nil
}

// ParseValue parses a single value expression, for tooling that needs
// the value grammar on its own.
func ParseValue(input string) (ast.Value, error) {
	toks, err := lexAll(input)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	v, err := p.parseValue("")
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind != EOF {
		return nil, &ParseError{
			Code:    CodeTrailing,
			Message: fmt.Sprintf("unexpected %s after value", tok.Kind),
			Offset:  tok.Offset,
		}
	}
	return v, nil
}

type parser struct {
	toks []Token
	pos  int
}

func (p *parser) peek() Token {
	return p.toks[p.pos]
}

func (p *parser) next() Token {
	tok := p.toks[p.pos]
	if tok.Kind != EOF {
		p.pos++
	}
	return tok
}

// parsedArg holds one parsed argument; exactly one field is set,
// matching the argKind the arity table demanded for the position.
type parsedArg struct {
	value    ast.Value
	values   []ast.Value
	v        ast.Var
	vars     []ast.Var
	query    ast.Query
	n        uint64
	arith    ast.Arith
	path     ast.PathPattern
	ordering []ast.OrderSpec
	pattern  string
}

func (p *parser) parseQuery() (ast.Query, error) {
	tok := p.peek()
	if tok.Kind != IDENT {
		return nil, &ParseError{
			Code:     CodeArgKind,
			Message:  fmt.Sprintf("expected query, found %s", tok.Kind),
			Offset:   tok.Offset,
			Expected: "query",
			Found:    tok.Kind.String(),
		}
	}
	spec, ok := opTable[tok.Literal]
	if !ok {
		return nil, &ParseError{
			Code:    CodeUnknownOp,
			Message: fmt.Sprintf("unknown operation %q", tok.Literal),
			Offset:  tok.Offset,
			Found:   tok.Literal,
		}
	}
	p.next()
	args, err := p.parseCall(tok, spec)
	if err != nil {
		return nil, err
	}
	return buildQuery(tok.Literal, args), nil
}

// parseCall consumes '(' args ')' for a known operation, validating
// count and kind per the arity table.
func (p *parser) parseCall(op Token, spec opSpec) ([]parsedArg, error) {
	open, err := p.expectOpen(op.Literal)
	if err != nil {
		return nil, err
	}

	var args []parsedArg
	for {
		tok := p.peek()
		switch {
		case tok.Kind == RPAREN:
			required := len(spec.args) - spec.optional
			if len(args) < required {
				return nil, p.arityError(op.Literal, spec, len(args), tok.Offset)
			}
			p.next()
			return args, nil
		case tok.Kind == EOF:
			return nil, p.unterminated(op.Literal, open)
		}

		if len(args) > 0 {
			if tok.Kind != COMMA {
				return nil, &ParseError{
					Code:     CodeArgKind,
					Op:       op.Literal,
					Message:  fmt.Sprintf("expected ',' or ')', found %s", tok.Kind),
					Offset:   tok.Offset,
					Expected: "','",
					Found:    tok.Kind.String(),
				}
			}
			p.next()
			tok = p.peek()
		}

		var kind argKind
		switch {
		case len(args) < len(spec.args):
			kind = spec.args[len(args)]
		case spec.variadic:
			kind = spec.args[len(spec.args)-1]
		default:
			return nil, p.arityError(op.Literal, spec, len(args)+1, tok.Offset)
		}

		arg, err := p.parseArg(kind, op.Literal)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
}

func (p *parser) parseArg(kind argKind, op string) (parsedArg, error) {
	var arg parsedArg
	var err error
	switch kind {
	case argValue:
		arg.value, err = p.parseValue(op)
	case argValueList:
		arg.values, err = p.parseValueList(op)
	case argVar:
		arg.v, err = p.parseVar(op)
	case argVarList:
		arg.vars, err = p.parseVarList(op)
	case argQuery:
		arg.query, err = p.parseQuery()
	case argUint:
		arg.n, err = p.parseUint(op)
	case argArith:
		arg.arith, err = p.parseArith(op)
	case argPath:
		arg.path, err = p.parsePath(op)
	case argOrderList:
		arg.ordering, err = p.parseOrderList(op)
	case argPattern:
		arg.pattern, err = p.parsePatternString(op)
	}
	return arg, err
}

func (p *parser) parseValue(op string) (ast.Value, error) {
	tok := p.peek()
	switch tok.Kind {
	case VAR:
		p.next()
		return ast.Var{Name: tok.Literal}, nil
	case STRING:
		p.next()
		return ast.Str{Text: tok.Literal}, nil
	case NUMBER:
		p.next()
		return parseNum(tok)
	case IDENT:
		switch tok.Literal {
		case "true":
			p.next()
			return ast.Bool{Val: true}, nil
		case "false":
			p.next()
			return ast.Bool{Val: false}, nil
		}
		if _, known := opTable[tok.Literal]; known {
			return nil, p.argKindError(op, "value", fmt.Sprintf("query operation %q", tok.Literal), tok.Offset)
		}
		return nil, p.argKindError(op, "value", fmt.Sprintf("identifier %q", tok.Literal), tok.Offset)
	case LBRACKET:
		open := p.next()
		var elems []ast.Value
		for {
			tok := p.peek()
			if tok.Kind == RBRACKET {
				p.next()
				return ast.List{Elems: elems}, nil
			}
			if tok.Kind == EOF {
				return nil, p.unterminatedBracket(op, open)
			}
			if len(elems) > 0 {
				if tok.Kind != COMMA {
					return nil, p.argKindError(op, "',' or ']'", tok.Kind.String(), tok.Offset)
				}
				p.next()
			}
			v, err := p.parseValue(op)
			if err != nil {
				return nil, err
			}
			elems = append(elems, v)
		}
	default:
		return nil, p.argKindError(op, "value", tok.Kind.String(), tok.Offset)
	}
}

func parseNum(tok Token) (ast.Value, error) {
	if strings.Contains(tok.Literal, ".") {
		f, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, &ParseError{
				Code:    CodeArgKind,
				Message: fmt.Sprintf("invalid number %q", tok.Literal),
				Offset:  tok.Offset,
				Found:   tok.Literal,
			}
		}
		return ast.Num{Float: f, IsFloat: true}, nil
	}
	n, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		return nil, &ParseError{
			Code:    CodeArgKind,
			Message: fmt.Sprintf("integer %q out of range", tok.Literal),
			Offset:  tok.Offset,
			Found:   tok.Literal,
		}
	}
	return ast.Num{Int: n}, nil
}

func (p *parser) parseUint(op string) (uint64, error) {
	tok := p.peek()
	if tok.Kind != NUMBER || strings.HasPrefix(tok.Literal, "-") || strings.Contains(tok.Literal, ".") {
		found := tok.Kind.String()
		if tok.Kind == NUMBER {
			found = fmt.Sprintf("number %q", tok.Literal)
		}
		return 0, p.argKindError(op, "non-negative integer", found, tok.Offset)
	}
	// Counts must fit in the wire format's signed 64-bit integer.
	n, err := strconv.ParseUint(tok.Literal, 10, 63)
	if err != nil {
		return 0, p.argKindError(op, "non-negative integer", fmt.Sprintf("number %q", tok.Literal), tok.Offset)
	}
	p.next()
	return n, nil
}

func (p *parser) parseVar(op string) (ast.Var, error) {
	tok := p.peek()
	if tok.Kind != VAR {
		return ast.Var{}, p.argKindError(op, "variable", tok.Kind.String(), tok.Offset)
	}
	p.next()
	return ast.Var{Name: tok.Literal}, nil
}

func (p *parser) parseVarList(op string) ([]ast.Var, error) {
	open, err := p.expectBracket(op)
	if err != nil {
		return nil, err
	}
	var vars []ast.Var
	for {
		tok := p.peek()
		if tok.Kind == RBRACKET {
			if len(vars) == 0 {
				return nil, p.argKindError(op, "at least one variable", "empty list", open.Offset)
			}
			p.next()
			return vars, nil
		}
		if tok.Kind == EOF {
			return nil, p.unterminatedBracket(op, open)
		}
		if len(vars) > 0 {
			if tok.Kind != COMMA {
				return nil, p.argKindError(op, "',' or ']'", tok.Kind.String(), tok.Offset)
			}
			p.next()
		}
		v, err := p.parseVar(op)
		if err != nil {
			return nil, err
		}
		vars = append(vars, v)
	}
}

func (p *parser) parseValueList(op string) ([]ast.Value, error) {
	open, err := p.expectBracket(op)
	if err != nil {
		return nil, err
	}
	var vals []ast.Value
	for {
		tok := p.peek()
		if tok.Kind == RBRACKET {
			if len(vals) == 0 {
				return nil, p.argKindError(op, "at least one value", "empty list", open.Offset)
			}
			p.next()
			return vals, nil
		}
		if tok.Kind == EOF {
			return nil, p.unterminatedBracket(op, open)
		}
		if len(vals) > 0 {
			if tok.Kind != COMMA {
				return nil, p.argKindError(op, "',' or ']'", tok.Kind.String(), tok.Offset)
			}
			p.next()
		}
		v, err := p.parseValue(op)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
}

// parseOrderList parses [asc($X), desc($Y), $Z]; a bare variable
// defaults to ascending.
func (p *parser) parseOrderList(op string) ([]ast.OrderSpec, error) {
	open, err := p.expectBracket(op)
	if err != nil {
		return nil, err
	}
	var specs []ast.OrderSpec
	for {
		tok := p.peek()
		if tok.Kind == RBRACKET {
			if len(specs) == 0 {
				return nil, p.argKindError(op, "at least one ordering", "empty list", open.Offset)
			}
			p.next()
			return specs, nil
		}
		if tok.Kind == EOF {
			return nil, p.unterminatedBracket(op, open)
		}
		if len(specs) > 0 {
			if tok.Kind != COMMA {
				return nil, p.argKindError(op, "',' or ']'", tok.Kind.String(), tok.Offset)
			}
			p.next()
			tok = p.peek()
		}
		switch {
		case tok.Kind == VAR:
			p.next()
			specs = append(specs, ast.OrderSpec{Var: ast.Var{Name: tok.Literal}, Ascending: true})
		case tok.Kind == IDENT && (tok.Literal == "asc" || tok.Literal == "desc"):
			p.next()
			open, err := p.expectOpen(op)
			if err != nil {
				return nil, err
			}
			v, err := p.parseVar(op)
			if err != nil {
				return nil, err
			}
			if err := p.expectClose(op, open); err != nil {
				return nil, err
			}
			specs = append(specs, ast.OrderSpec{Var: v, Ascending: tok.Literal == "asc"})
		default:
			return nil, p.argKindError(op, "asc(...), desc(...) or variable", tok.Kind.String(), tok.Offset)
		}
	}
}

func (p *parser) parsePatternString(op string) (string, error) {
	tok := p.peek()
	if tok.Kind != STRING {
		return "", p.argKindError(op, "pattern string", tok.Kind.String(), tok.Offset)
	}
	p.next()
	return tok.Literal, nil
}

// parseArith parses the eval sub-grammar: a value leaf or a binary call
// form. Negative numbers are lexical, so there is no unary minus rule.
func (p *parser) parseArith(op string) (ast.Arith, error) {
	tok := p.peek()
	if tok.Kind == IDENT && arithOps[tok.Literal] {
		p.next()
		open, err := p.expectOpen(tok.Literal)
		if err != nil {
			return nil, err
		}
		left, err := p.parseArith(tok.Literal)
		if err != nil {
			return nil, err
		}
		sep := p.peek()
		if sep.Kind == RPAREN {
			return nil, p.arityError(tok.Literal, opSpec{args: []argKind{argArith, argArith}}, 1, sep.Offset)
		}
		if sep.Kind != COMMA {
			if sep.Kind == EOF {
				return nil, p.unterminated(tok.Literal, open)
			}
			return nil, p.argKindError(tok.Literal, "','", sep.Kind.String(), sep.Offset)
		}
		p.next()
		right, err := p.parseArith(tok.Literal)
		if err != nil {
			return nil, err
		}
		if tail := p.peek(); tail.Kind == COMMA {
			return nil, p.arityError(tok.Literal, opSpec{args: []argKind{argArith, argArith}}, 3, tail.Offset)
		}
		if err := p.expectClose(tok.Literal, open); err != nil {
			return nil, err
		}
		return buildArith(tok.Literal, left, right), nil
	}
	if tok.Kind == IDENT && tok.Literal != "true" && tok.Literal != "false" {
		return nil, &ParseError{
			Code:    CodeUnknownOp,
			Op:      op,
			Message: fmt.Sprintf("unknown arithmetic operation %q", tok.Literal),
			Offset:  tok.Offset,
			Found:   tok.Literal,
		}
	}
	v, err := p.parseValue(op)
	if err != nil {
		return nil, err
	}
	return ast.ArithValue{Value: v}, nil
}

// parsePath parses the path sub-grammar. seq and or with a single
// argument collapse to that argument so round-trips stay stable.
func (p *parser) parsePath(op string) (ast.PathPattern, error) {
	tok := p.peek()
	if tok.Kind != IDENT {
		return nil, p.argKindError(op, "path pattern", tok.Kind.String(), tok.Offset)
	}
	if !pathOps[tok.Literal] {
		return nil, &ParseError{
			Code:    CodeUnknownOp,
			Op:      op,
			Message: fmt.Sprintf("unknown path operation %q", tok.Literal),
			Offset:  tok.Offset,
			Found:   tok.Literal,
		}
	}
	p.next()
	open, err := p.expectOpen(tok.Literal)
	if err != nil {
		return nil, err
	}

	switch tok.Literal {
	case "pred":
		v, err := p.parseValue(tok.Literal)
		if err != nil {
			return nil, err
		}
		if err := p.expectClose(tok.Literal, open); err != nil {
			return nil, err
		}
		return ast.PathPred{Predicate: v}, nil
	case "inv", "star", "plus":
		inner, err := p.parsePath(tok.Literal)
		if err != nil {
			return nil, err
		}
		if err := p.expectClose(tok.Literal, open); err != nil {
			return nil, err
		}
		switch tok.Literal {
		case "inv":
			return ast.PathInv{Pattern: inner}, nil
		case "star":
			return ast.PathStar{Pattern: inner}, nil
		default:
			return ast.PathPlus{Pattern: inner}, nil
		}
	default: // seq, or
		var pats []ast.PathPattern
		for {
			next := p.peek()
			if next.Kind == RPAREN {
				if len(pats) == 0 {
					return nil, p.arityError(tok.Literal, opSpec{args: []argKind{argPath}, variadic: true}, 0, next.Offset)
				}
				p.next()
				if len(pats) == 1 {
					return pats[0], nil
				}
				if tok.Literal == "seq" {
					return ast.PathSeq{Patterns: pats}, nil
				}
				return ast.PathOr{Patterns: pats}, nil
			}
			if next.Kind == EOF {
				return nil, p.unterminated(tok.Literal, open)
			}
			if len(pats) > 0 {
				if next.Kind != COMMA {
					return nil, p.argKindError(tok.Literal, "',' or ')'", next.Kind.String(), next.Offset)
				}
				p.next()
			}
			inner, err := p.parsePath(tok.Literal)
			if err != nil {
				return nil, err
			}
			pats = append(pats, inner)
		}
	}
}

func (p *parser) expectOpen(op string) (Token, error) {
	tok := p.peek()
	if tok.Kind != LPAREN {
		return tok, p.argKindError(op, "'('", tok.Kind.String(), tok.Offset)
	}
	return p.next(), nil
}

func (p *parser) expectClose(op string, open Token) error {
	tok := p.peek()
	if tok.Kind == EOF {
		return p.unterminated(op, open)
	}
	if tok.Kind != RPAREN {
		return p.argKindError(op, "')'", tok.Kind.String(), tok.Offset)
	}
	p.next()
	return nil
}

func (p *parser) expectBracket(op string) (Token, error) {
	tok := p.peek()
	if tok.Kind != LBRACKET {
		return tok, p.argKindError(op, "'['", tok.Kind.String(), tok.Offset)
	}
	return p.next(), nil
}

func (p *parser) arityError(op string, spec opSpec, found int, offset int) error {
	expected := fmt.Sprintf("%d", len(spec.args))
	switch {
	case spec.variadic:
		expected = fmt.Sprintf("at least %d", len(spec.args))
	case spec.optional > 0:
		expected = fmt.Sprintf("%d or %d", len(spec.args)-spec.optional, len(spec.args))
	}
	return &ParseError{
		Code:     CodeArity,
		Op:       op,
		Message:  fmt.Sprintf("expects %s argument(s), found %d", expected, found),
		Offset:   offset,
		Expected: expected,
		Found:    fmt.Sprintf("%d", found),
	}
}

func (p *parser) argKindError(op, expected, found string, offset int) error {
	msg := fmt.Sprintf("expected %s, found %s", expected, found)
	return &ParseError{
		Code:     CodeArgKind,
		Op:       op,
		Message:  msg,
		Offset:   offset,
		Expected: expected,
		Found:    found,
	}
}

func (p *parser) unterminated(op string, open Token) error {
	return &ParseError{
		Code:    CodeUnterminated,
		Op:      op,
		Message: "missing closing ')'",
		Offset:  open.Offset,
	}
}

func (p *parser) unterminatedBracket(op string, open Token) error {
	return &ParseError{
		Code:    CodeUnterminated,
		Op:      op,
		Message: "missing closing ']'",
		Offset:  open.Offset,
	}
}

func buildArith(op string, left, right ast.Arith) ast.Arith {
	switch op {
	case "plus":
		return ast.Plus{Left: left, Right: right}
	case "minus":
		return ast.Minus{Left: left, Right: right}
	case "times":
		return ast.Times{Left: left, Right: right}
	case "div":
		return ast.Div{Left: left, Right: right}
	default:
		return ast.Exp{Left: left, Right: right}
	}
}

// buildQuery maps a validated argument vector onto the AST variant.
// parseCall has already enforced count and kind, so indexing is safe.
func buildQuery(op string, args []parsedArg) ast.Query {
	switch op {
	case "triple":
		return ast.Triple{Subject: args[0].value, Predicate: args[1].value, Object: args[2].value}
	case "and":
		return ast.And{Queries: collectQueries(args)}
	case "or":
		return ast.Or{Queries: collectQueries(args)}
	case "not":
		return ast.Not{Query: args[0].query}
	case "opt", "optional":
		return ast.Optional{Query: args[0].query}
	case "select":
		return ast.Select{Variables: args[0].vars, Query: args[1].query}
	case "distinct":
		return ast.Distinct{Variables: args[0].vars, Query: args[1].query}
	case "limit":
		return ast.Limit{N: args[0].n, Query: args[1].query}
	case "start":
		return ast.Start{N: args[0].n, Query: args[1].query}
	case "order_by":
		return ast.OrderBy{Ordering: args[0].ordering, Query: args[1].query}
	case "group_by":
		return ast.GroupBy{GroupVars: args[0].vars, Template: args[1].vars, Query: args[2].query}
	case "eq":
		return ast.Eq{Left: args[0].value, Right: args[1].value}
	case "greater":
		return ast.Greater{Left: args[0].value, Right: args[1].value}
	case "less":
		return ast.Less{Left: args[0].value, Right: args[1].value}
	case "isa":
		return ast.Isa{Element: args[0].value, Type: args[1].value}
	case "type_of":
		return ast.TypeOf{Value: args[0].value, Out: args[1].v}
	case "subsumption":
		return ast.Subsumption{Child: args[0].value, Parent: args[1].value}
	case "concat":
		return ast.Concat{Parts: args[0].values, Out: args[1].v}
	case "substring":
		return ast.Substring{String: args[0].value, Before: args[1].value, Length: args[2].value, After: args[3].value, Out: args[4].v}
	case "trim":
		return ast.Trim{In: args[0].value, Out: args[1].v}
	case "upper":
		return ast.Upper{In: args[0].value, Out: args[1].v}
	case "lower":
		return ast.Lower{In: args[0].value, Out: args[1].v}
	case "regexp":
		return ast.Regexp{Pattern: args[0].pattern, Subject: args[1].value, Out: args[2].v}
	case "eval":
		return ast.Eval{Expr: args[0].arith, Out: args[1].v}
	case "sum":
		return ast.Sum{Values: args[0].values, Out: args[1].v}
	case "count":
		return ast.Count{Query: args[0].query, Out: args[1].v}
	case "read_document":
		return ast.ReadDocument{ID: args[0].value, Out: args[1].v}
	case "insert_document":
		return ast.InsertDocument{Document: args[0].value, Out: args[1].v}
	case "update_document":
		return ast.UpdateDocument{Document: args[0].value}
	case "delete_document":
		return ast.DeleteDocument{ID: args[0].value}
	case "path":
		pq := ast.Path{Subject: args[0].value, Pattern: args[1].path, Object: args[2].value}
		if len(args) == 4 {
			out := args[3].v
			pq.Out = &out
		}
		return pq
	default:
		// Unreachable: parseQuery only dispatches names in opTable.
		return nil
	}
}

func collectQueries(args []parsedArg) []ast.Query {
	qs := make([]ast.Query, len(args))
	for i, a := range args {
		qs[i] = a.query
	}
	return qs
}
