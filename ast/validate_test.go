package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsWellFormed(t *testing.T) {
	out := Var{Name: "P"}
	queries := []Query{
		Triple{Subject: Var{Name: "S"}, Predicate: Str{Text: "p"}, Object: Num{Int: 1}},
		And{Queries: []Query{
			Eq{Left: Var{Name: "X"}, Right: Num{Int: 1}},
			Not{Query: Eq{Left: Var{Name: "X"}, Right: Num{Int: 2}}},
		}},
		Select{
			Variables: []Var{{Name: "S"}},
			Query:     Triple{Subject: Var{Name: "S"}, Predicate: Str{Text: "p"}, Object: Var{Name: "O"}},
		},
		Eval{
			Expr: Div{Left: ArithValue{Value: Var{Name: "X"}}, Right: ArithValue{Value: Num{Int: 2}}},
			Out:  Var{Name: "Y"},
		},
		Path{
			Subject: Var{Name: "S"},
			Pattern: PathSeq{Patterns: []PathPattern{
				PathPred{Predicate: Str{Text: "ex:a"}},
				PathStar{Pattern: PathPred{Predicate: Str{Text: "ex:b"}}},
			}},
			Object: Var{Name: "O"},
			Out:    &out,
		},
	}

	for _, q := range queries {
		assert.NoError(t, Validate(q))
	}
}

func TestValidateRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		q    Query
	}{
		{"nil query", nil},
		{"nil triple subject", Triple{Predicate: Str{Text: "p"}, Object: Num{Int: 1}}},
		{"empty and", And{}},
		{"nil child in and", And{Queries: []Query{nil}}},
		{"nil not body", Not{}},
		{"empty select vars", Select{Query: Eq{Left: Var{Name: "X"}, Right: Num{Int: 1}}}},
		{"empty var name", Select{Variables: []Var{{}}, Query: Eq{Left: Var{Name: "X"}, Right: Num{Int: 1}}}},
		{"nil limit body", Limit{N: 10}},
		{"empty ordering", OrderBy{Query: Eq{Left: Var{Name: "X"}, Right: Num{Int: 1}}}},
		{"empty concat parts", Concat{Out: Var{Name: "O"}}},
		{"empty eval out", Eval{Expr: ArithValue{Value: Num{Int: 1}}}},
		{"nil arith operand", Eval{Expr: Plus{Left: ArithValue{Value: Num{Int: 1}}}, Out: Var{Name: "X"}}},
		{"nil path pattern", Path{Subject: Var{Name: "S"}, Object: Var{Name: "O"}}},
		{"nil list element", Eq{Left: Var{Name: "X"}, Right: List{Elems: []Value{nil}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, Validate(tt.q))
		})
	}
}

func TestValidateRejectsSingleChildPathCombinators(t *testing.T) {
	seq := Path{
		Subject: Var{Name: "S"},
		Pattern: PathSeq{Patterns: []PathPattern{PathPred{Predicate: Str{Text: "ex:p"}}}},
		Object:  Var{Name: "O"},
	}
	err := Validate(seq)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "need at least 2")

	or := Path{
		Subject: Var{Name: "S"},
		Pattern: PathOr{Patterns: []PathPattern{PathPred{Predicate: Str{Text: "ex:p"}}}},
		Object:  Var{Name: "O"},
	}
	assert.Error(t, Validate(or))
}
