package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/quarry/ast"
)

func mustParse(t *testing.T, input string) ast.Query {
	t.Helper()
	q, err := Parse(input)
	require.NoError(t, err)
	return q
}

func assertQuery(t *testing.T, want ast.Query, input string) {
	t.Helper()
	got := mustParse(t, input)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTriple(t *testing.T) {
	assertQuery(t, ast.Triple{
		Subject:   ast.Var{Name: "S"},
		Predicate: ast.Str{Text: "rdf:type"},
		Object:    ast.Str{Text: "ex:Person"},
	}, `triple($S, "rdf:type", "ex:Person")`)
}

func TestParseLiterals(t *testing.T) {
	assertQuery(t, ast.Eq{
		Left:  ast.Var{Name: "X"},
		Right: ast.Num{Int: -7},
	}, `eq($X, -7)`)

	assertQuery(t, ast.Eq{
		Left:  ast.Var{Name: "X"},
		Right: ast.Num{Float: 2.5, IsFloat: true},
	}, `eq($X, 2.5)`)

	assertQuery(t, ast.Eq{
		Left:  ast.Var{Name: "Flag"},
		Right: ast.Bool{Val: true},
	}, `eq($Flag, true)`)

	assertQuery(t, ast.Eq{
		Left:  ast.Var{Name: "L"},
		Right: ast.List{Elems: []ast.Value{ast.Num{Int: 1}, ast.Str{Text: "two"}, ast.Bool{Val: false}}},
	}, `eq($L, [1, "two", false])`)
}

func TestParseNestedCombinators(t *testing.T) {
	assertQuery(t, ast.And{Queries: []ast.Query{
		ast.Triple{Subject: ast.Var{Name: "S"}, Predicate: ast.Str{Text: "p"}, Object: ast.Var{Name: "O"}},
		ast.Or{Queries: []ast.Query{
			ast.Eq{Left: ast.Var{Name: "O"}, Right: ast.Num{Int: 1}},
			ast.Eq{Left: ast.Var{Name: "O"}, Right: ast.Num{Int: 2}},
		}},
		ast.Not{Query: ast.Eq{Left: ast.Var{Name: "S"}, Right: ast.Str{Text: "ex:excluded"}}},
	}}, `and(triple($S, "p", $O), or(eq($O, 1), eq($O, 2)), not(eq($S, "ex:excluded")))`)
}

func TestParseOptionalAliases(t *testing.T) {
	want := ast.Optional{Query: ast.Triple{
		Subject:   ast.Var{Name: "S"},
		Predicate: ast.Str{Text: "p"},
		Object:    ast.Var{Name: "O"},
	}}
	assertQuery(t, want, `opt(triple($S, "p", $O))`)
	assertQuery(t, want, `optional(triple($S, "p", $O))`)
}

func TestParseSolutionModifiers(t *testing.T) {
	inner := ast.Triple{Subject: ast.Var{Name: "S"}, Predicate: ast.Str{Text: "p"}, Object: ast.Var{Name: "O"}}

	assertQuery(t, ast.Select{
		Variables: []ast.Var{{Name: "S"}, {Name: "O"}},
		Query:     inner,
	}, `select([$S, $O], triple($S, "p", $O))`)

	assertQuery(t, ast.Distinct{
		Variables: []ast.Var{{Name: "S"}},
		Query:     inner,
	}, `distinct([$S], triple($S, "p", $O))`)

	assertQuery(t, ast.Limit{N: 10, Query: inner}, `limit(10, triple($S, "p", $O))`)
	assertQuery(t, ast.Start{N: 20, Query: inner}, `start(20, triple($S, "p", $O))`)

	assertQuery(t, ast.OrderBy{
		Ordering: []ast.OrderSpec{
			{Var: ast.Var{Name: "A"}, Ascending: true},
			{Var: ast.Var{Name: "B"}},
		},
		Query: inner,
	}, `order_by([asc($A), desc($B)], triple($S, "p", $O))`)

	assertQuery(t, ast.GroupBy{
		GroupVars: []ast.Var{{Name: "S"}},
		Template:  []ast.Var{{Name: "O"}},
		Query:     inner,
	}, `group_by([$S], [$O], triple($S, "p", $O))`)
}

func TestParseBareOrderVarDefaultsAscending(t *testing.T) {
	q := mustParse(t, `order_by([$A], triple($S, "p", $O))`)
	ob, ok := q.(ast.OrderBy)
	require.True(t, ok)
	require.Len(t, ob.Ordering, 1)
	assert.True(t, ob.Ordering[0].Ascending)
}

func TestParseStringOps(t *testing.T) {
	assertQuery(t, ast.Concat{
		Parts: []ast.Value{ast.Var{Name: "A"}, ast.Str{Text: "-"}, ast.Var{Name: "B"}},
		Out:   ast.Var{Name: "Full"},
	}, `concat([$A, "-", $B], $Full)`)

	assertQuery(t, ast.Substring{
		String: ast.Var{Name: "S"},
		Before: ast.Num{Int: 0},
		Length: ast.Num{Int: 3},
		After:  ast.Var{Name: "After"},
		Out:    ast.Var{Name: "Sub"},
	}, `substring($S, 0, 3, $After, $Sub)`)

	assertQuery(t, ast.Trim{In: ast.Var{Name: "Raw"}, Out: ast.Var{Name: "Clean"}}, `trim($Raw, $Clean)`)
	assertQuery(t, ast.Upper{In: ast.Var{Name: "S"}, Out: ast.Var{Name: "U"}}, `upper($S, $U)`)
	assertQuery(t, ast.Lower{In: ast.Var{Name: "S"}, Out: ast.Var{Name: "L"}}, `lower($S, $L)`)

	assertQuery(t, ast.Regexp{
		Pattern: `^a.*z$`,
		Subject: ast.Var{Name: "S"},
		Out:     ast.Var{Name: "M"},
	}, `regexp("^a.*z$", $S, $M)`)
}

func TestParseEvalArithmetic(t *testing.T) {
	assertQuery(t, ast.Eval{
		Expr: ast.Plus{
			Left: ast.ArithValue{Value: ast.Var{Name: "X"}},
			Right: ast.Times{
				Left:  ast.ArithValue{Value: ast.Num{Int: 2}},
				Right: ast.ArithValue{Value: ast.Var{Name: "Y"}},
			},
		},
		Out: ast.Var{Name: "Z"},
	}, `eval(plus($X, times(2, $Y)), $Z)`)

	assertQuery(t, ast.Eval{
		Expr: ast.Div{
			Left:  ast.ArithValue{Value: ast.Num{Float: 1.5, IsFloat: true}},
			Right: ast.ArithValue{Value: ast.Num{Int: -3}},
		},
		Out: ast.Var{Name: "Q"},
	}, `eval(div(1.5, -3), $Q)`)

	assertQuery(t, ast.Eval{
		Expr: ast.Exp{
			Left:  ast.ArithValue{Value: ast.Var{Name: "B"}},
			Right: ast.ArithValue{Value: ast.Num{Int: 2}},
		},
		Out: ast.Var{Name: "Sq"},
	}, `eval(exp($B, 2), $Sq)`)
}

func TestParseArithOpsAreBinary(t *testing.T) {
	_, err := Parse(`eval(minus(1), $X)`)
	require.Error(t, err)
	assert.True(t, IsArityError(err))

	_, err = Parse(`eval(plus(1, 2, 3), $X)`)
	require.Error(t, err)
	assert.True(t, IsArityError(err))
}

func TestParseUnknownArithOp(t *testing.T) {
	_, err := Parse(`eval(modulo(1, 2), $X)`)
	require.Error(t, err)
	assert.True(t, IsUnknownOp(err))
}

func TestParseAggregates(t *testing.T) {
	inner := ast.Triple{Subject: ast.Var{Name: "S"}, Predicate: ast.Str{Text: "p"}, Object: ast.Var{Name: "O"}}

	assertQuery(t, ast.Sum{
		Values: []ast.Value{ast.Var{Name: "A"}, ast.Var{Name: "B"}},
		Out:    ast.Var{Name: "Total"},
	}, `sum([$A, $B], $Total)`)

	assertQuery(t, ast.Count{Query: inner, Out: ast.Var{Name: "N"}}, `count(triple($S, "p", $O), $N)`)
}

func TestParseDocumentOps(t *testing.T) {
	assertQuery(t, ast.ReadDocument{
		ID:  ast.Str{Text: "ex:doc1"},
		Out: ast.Var{Name: "Doc"},
	}, `read_document("ex:doc1", $Doc)`)

	assertQuery(t, ast.InsertDocument{
		Document: ast.Var{Name: "Doc"},
		Out:      ast.Var{Name: "ID"},
	}, `insert_document($Doc, $ID)`)

	assertQuery(t, ast.UpdateDocument{Document: ast.Var{Name: "Doc"}}, `update_document($Doc)`)
	assertQuery(t, ast.DeleteDocument{ID: ast.Str{Text: "ex:doc1"}}, `delete_document("ex:doc1")`)
}

func TestParseTypeOps(t *testing.T) {
	assertQuery(t, ast.Isa{
		Element: ast.Var{Name: "X"},
		Type:    ast.Str{Text: "ex:Person"},
	}, `isa($X, "ex:Person")`)

	assertQuery(t, ast.TypeOf{
		Value: ast.Var{Name: "X"},
		Out:   ast.Var{Name: "T"},
	}, `type_of($X, $T)`)

	assertQuery(t, ast.Subsumption{
		Child:  ast.Str{Text: "ex:Employee"},
		Parent: ast.Str{Text: "ex:Person"},
	}, `subsumption("ex:Employee", "ex:Person")`)
}

func TestParsePathPatterns(t *testing.T) {
	assertQuery(t, ast.Path{
		Subject: ast.Var{Name: "S"},
		Pattern: ast.PathSeq{Patterns: []ast.PathPattern{
			ast.PathPred{Predicate: ast.Str{Text: "ex:knows"}},
			ast.PathStar{Pattern: ast.PathPred{Predicate: ast.Str{Text: "ex:worksWith"}}},
		}},
		Object: ast.Var{Name: "O"},
	}, `path($S, seq(pred("ex:knows"), star(pred("ex:worksWith"))), $O)`)

	out := ast.Var{Name: "P"}
	assertQuery(t, ast.Path{
		Subject: ast.Var{Name: "S"},
		Pattern: ast.PathOr{Patterns: []ast.PathPattern{
			ast.PathInv{Pattern: ast.PathPred{Predicate: ast.Str{Text: "ex:parent"}}},
			ast.PathPlus{Pattern: ast.PathPred{Predicate: ast.Str{Text: "ex:child"}}},
		}},
		Object: ast.Var{Name: "O"},
		Out:    &out,
	}, `path($S, or(inv(pred("ex:parent")), plus(pred("ex:child"))), $O, $P)`)
}

func TestParsePathSingleChildCollapse(t *testing.T) {
	want := ast.Path{
		Subject: ast.Var{Name: "S"},
		Pattern: ast.PathPred{Predicate: ast.Str{Text: "ex:p"}},
		Object:  ast.Var{Name: "O"},
	}
	assertQuery(t, want, `path($S, seq(pred("ex:p")), $O)`)
	assertQuery(t, want, `path($S, or(pred("ex:p")), $O)`)
}

func TestParseUnknownPathOp(t *testing.T) {
	_, err := Parse(`path($S, hop("ex:p"), $O)`)
	require.Error(t, err)
	assert.True(t, IsUnknownOp(err))
}

func TestParseVariableIdentity(t *testing.T) {
	q := mustParse(t, `triple($X, "p", $X)`)
	tr, ok := q.(ast.Triple)
	require.True(t, ok)
	assert.Equal(t, tr.Subject, tr.Object)
	assert.Equal(t, []string{"X"}, ast.Vars(q))
}

func TestParseUnknownOperation(t *testing.T) {
	_, err := Parse(`foo($X, $Y)`)
	require.Error(t, err)
	assert.True(t, IsUnknownOp(err))

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 0, perr.Offset)
	assert.Equal(t, "foo", perr.Found)
}

func TestParseArityMismatch(t *testing.T) {
	_, err := Parse(`limit(10)`)
	require.Error(t, err)
	assert.True(t, IsArityError(err))

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "limit", perr.Op)
	assert.Equal(t, "2", perr.Expected)
	assert.Equal(t, "1", perr.Found)
}

func TestParseTooManyArguments(t *testing.T) {
	_, err := Parse(`not(eq($X, 1), eq($Y, 2))`)
	require.Error(t, err)
	assert.True(t, IsArityError(err))
}

func TestParseArgKindMismatch(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"query where value expected", `eq(triple($S, $P, $O), 1)`},
		{"value where query expected", `not($X)`},
		{"variable where count expected", `limit($N, eq($X, 1))`},
		{"negative count", `limit(-1, eq($X, 1))`},
		{"fractional count", `limit(1.5, eq($X, 1))`},
		{"count above int64 range", `limit(18446744073709551615, eq($X, 1))`},
		{"start above int64 range", `start(9223372036854775808, eq($X, 1))`},
		{"string where var list expected", `select("X", eq($X, 1))`},
		{"empty var list", `select([], eq($X, 1))`},
		{"non-string regexp pattern", `regexp($P, $S, $M)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			assert.True(t, IsArgKindError(err), "got %v", err)
		})
	}
}

func TestParseUnterminated(t *testing.T) {
	_, err := Parse(`and(eq($X, 1)`)
	require.Error(t, err)
	assert.True(t, IsUnterminated(err))

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 3, perr.Offset) // the unmatched '('
}

func TestParseTrailingInput(t *testing.T) {
	_, err := Parse(`eq($X, 1) eq($Y, 2)`)
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, CodeTrailing, perr.Code)
	assert.Equal(t, 10, perr.Offset) // byte offset of the second eq
}

func TestParseEmptyInput(t *testing.T) {
	_, err := Parse(``)
	require.Error(t, err)

	_, err = Parse("   \n\t")
	require.Error(t, err)
}

func TestParseErrorIsTerminal(t *testing.T) {
	q, err := Parse(`and(eq($X, 1), bogus($Y))`)
	require.Error(t, err)
	assert.Nil(t, q)
}

func TestParseValueStandalone(t *testing.T) {
	v, err := ParseValue(`[1, $X, "s"]`)
	require.NoError(t, err)
	assert.Equal(t, ast.List{Elems: []ast.Value{ast.Num{Int: 1}, ast.Var{Name: "X"}, ast.Str{Text: "s"}}}, v)

	_, err = ParseValue(`1 2`)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, CodeTrailing, perr.Code)
}

func TestParseIntegerOverflow(t *testing.T) {
	_, err := Parse(`eq($X, 99999999999999999999)`)
	require.Error(t, err)
	assert.True(t, IsArgKindError(err))
}

func TestParsePrintRoundTrip(t *testing.T) {
	inputs := []string{
		`triple($S, "rdf:type", "ex:Person")`,
		`and(triple($S, "p", $O), eq($O, 3))`,
		`or(eq($X, 1), eq($X, 2), eq($X, 3))`,
		`select([$S, $O], opt(triple($S, "p", $O)))`,
		`limit(10, start(5, distinct([$S], triple($S, "p", $O))))`,
		`order_by([asc($A), desc($B)], triple($A, "p", $B))`,
		`group_by([$S], [$O], triple($S, "p", $O))`,
		`eval(plus($X, times(2, $Y)), $Z)`,
		`concat([$A, "-", $B], $Full)`,
		`regexp("^x", $S, $M)`,
		`path($S, seq(pred("a:p"), star(pred("b:q"))), $O, $P)`,
		`count(triple($S, "p", $O), $N)`,
		`eq($L, [1, 2.5, true, "s"])`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			q := mustParse(t, input)
			printed := ast.Print(q)
			assert.Equal(t, input, printed)

			again := mustParse(t, printed)
			if diff := cmp.Diff(q, again); diff != "" {
				t.Errorf("round trip mismatch (-first +second):\n%s", diff)
			}
		})
	}
}

// Strings may hold control characters the string grammar has no short
// escape for; the printer must still emit text the lexer accepts.
func TestPrintedControlCharactersReparse(t *testing.T) {
	texts := []string{
		"a\fb",
		"a\vb",
		"a\x01b",
		"tab\tand\nnewline\rend",
		`back\slash and "quote"`,
	}
	for _, text := range texts {
		q := ast.Eq{Left: ast.Var{Name: "X"}, Right: ast.Str{Text: text}}
		again, err := Parse(ast.Print(q))
		require.NoError(t, err, "printed form %q", ast.Print(q))
		if diff := cmp.Diff(ast.Query(q), again); diff != "" {
			t.Errorf("round trip mismatch for %q (-built +parsed):\n%s", text, diff)
		}
	}
}
