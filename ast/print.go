package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders the canonical DSL text for a query. Parsing the printed
// text yields a structurally identical tree, so Print is the inverse of
// the parser up to insignificant whitespace.
func Print(q Query) string {
	var b strings.Builder
	printQuery(&b, q)
	return b.String()
}

// PrintValue renders the canonical DSL text for a single value.
func PrintValue(v Value) string {
	var b strings.Builder
	printValue(&b, v)
	return b.String()
}

func printValue(b *strings.Builder, v Value) {
	switch n := v.(type) {
	case Var:
		b.WriteByte('$')
		b.WriteString(n.Name)
	case Str:
		quoteString(b, n.Text)
	case Num:
		if n.IsFloat {
			// 'f' keeps the text inside the DSL number grammar (no exponent).
			b.WriteString(strconv.FormatFloat(n.Float, 'f', -1, 64))
		} else {
			b.WriteString(strconv.FormatInt(n.Int, 10))
		}
	case Bool:
		if n.Val {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case List:
		b.WriteByte('[')
		for i, e := range n.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			printValue(b, e)
		}
		b.WriteByte(']')
	default:
		fmt.Fprintf(b, "<?%T>", v)
	}
}

// quoteString renders a double-quoted string literal using only the
// escapes the string grammar defines: \" \\ \n \t \r, with \uXXXX for
// the remaining control characters. Everything else is written raw, so
// the printed text stays parseable.
func quoteString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if c < 0x20 {
				fmt.Fprintf(b, `\u%04x`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
}

func printVarList(b *strings.Builder, vars []Var) {
	b.WriteByte('[')
	for i, v := range vars {
		if i > 0 {
			b.WriteString(", ")
		}
		printValue(b, v)
	}
	b.WriteByte(']')
}

func printValueList(b *strings.Builder, vals []Value) {
	b.WriteByte('[')
	for i, v := range vals {
		if i > 0 {
			b.WriteString(", ")
		}
		printValue(b, v)
	}
	b.WriteByte(']')
}

func printArith(b *strings.Builder, a Arith) {
	op := func(name string, l, r Arith) {
		b.WriteString(name)
		b.WriteByte('(')
		printArith(b, l)
		b.WriteString(", ")
		printArith(b, r)
		b.WriteByte(')')
	}
	switch n := a.(type) {
	case ArithValue:
		printValue(b, n.Value)
	case Plus:
		op("plus", n.Left, n.Right)
	case Minus:
		op("minus", n.Left, n.Right)
	case Times:
		op("times", n.Left, n.Right)
	case Div:
		op("div", n.Left, n.Right)
	case Exp:
		op("exp", n.Left, n.Right)
	}
}

func printPath(b *strings.Builder, p PathPattern) {
	list := func(name string, pats []PathPattern) {
		b.WriteString(name)
		b.WriteByte('(')
		for i, c := range pats {
			if i > 0 {
				b.WriteString(", ")
			}
			printPath(b, c)
		}
		b.WriteByte(')')
	}
	switch n := p.(type) {
	case PathPred:
		b.WriteString("pred(")
		printValue(b, n.Predicate)
		b.WriteByte(')')
	case PathInv:
		b.WriteString("inv(")
		printPath(b, n.Pattern)
		b.WriteByte(')')
	case PathStar:
		b.WriteString("star(")
		printPath(b, n.Pattern)
		b.WriteByte(')')
	case PathPlus:
		b.WriteString("plus(")
		printPath(b, n.Pattern)
		b.WriteByte(')')
	case PathSeq:
		list("seq", n.Patterns)
	case PathOr:
		list("or", n.Patterns)
	}
}

func printQuery(b *strings.Builder, q Query) {
	queries := func(name string, qs []Query) {
		b.WriteString(name)
		b.WriteByte('(')
		for i, c := range qs {
			if i > 0 {
				b.WriteString(", ")
			}
			printQuery(b, c)
		}
		b.WriteByte(')')
	}
	wrap := func(name string, inner Query) {
		b.WriteString(name)
		b.WriteByte('(')
		printQuery(b, inner)
		b.WriteByte(')')
	}
	varsThen := func(name string, vars []Var, inner Query) {
		b.WriteString(name)
		b.WriteByte('(')
		printVarList(b, vars)
		b.WriteString(", ")
		printQuery(b, inner)
		b.WriteByte(')')
	}
	binary := func(name string, l, r Value) {
		b.WriteString(name)
		b.WriteByte('(')
		printValue(b, l)
		b.WriteString(", ")
		printValue(b, r)
		b.WriteByte(')')
	}
	valueOut := func(name string, in Value, out Var) {
		b.WriteString(name)
		b.WriteByte('(')
		printValue(b, in)
		b.WriteString(", ")
		printValue(b, out)
		b.WriteByte(')')
	}

	switch n := q.(type) {
	case Triple:
		b.WriteString("triple(")
		printValue(b, n.Subject)
		b.WriteString(", ")
		printValue(b, n.Predicate)
		b.WriteString(", ")
		printValue(b, n.Object)
		b.WriteByte(')')
	case And:
		queries("and", n.Queries)
	case Or:
		queries("or", n.Queries)
	case Not:
		wrap("not", n.Query)
	case Optional:
		wrap("opt", n.Query)
	case Select:
		varsThen("select", n.Variables, n.Query)
	case Distinct:
		varsThen("distinct", n.Variables, n.Query)
	case Limit:
		fmt.Fprintf(b, "limit(%d, ", n.N)
		printQuery(b, n.Query)
		b.WriteByte(')')
	case Start:
		fmt.Fprintf(b, "start(%d, ", n.N)
		printQuery(b, n.Query)
		b.WriteByte(')')
	case OrderBy:
		b.WriteString("order_by([")
		for i, spec := range n.Ordering {
			if i > 0 {
				b.WriteString(", ")
			}
			if spec.Ascending {
				b.WriteString("asc(")
			} else {
				b.WriteString("desc(")
			}
			printValue(b, spec.Var)
			b.WriteByte(')')
		}
		b.WriteString("], ")
		printQuery(b, n.Query)
		b.WriteByte(')')
	case GroupBy:
		b.WriteString("group_by(")
		printVarList(b, n.GroupVars)
		b.WriteString(", ")
		printVarList(b, n.Template)
		b.WriteString(", ")
		printQuery(b, n.Query)
		b.WriteByte(')')
	case Eq:
		binary("eq", n.Left, n.Right)
	case Greater:
		binary("greater", n.Left, n.Right)
	case Less:
		binary("less", n.Left, n.Right)
	case Isa:
		binary("isa", n.Element, n.Type)
	case TypeOf:
		valueOut("type_of", n.Value, n.Out)
	case Subsumption:
		binary("subsumption", n.Child, n.Parent)
	case Concat:
		b.WriteString("concat(")
		printValueList(b, n.Parts)
		b.WriteString(", ")
		printValue(b, n.Out)
		b.WriteByte(')')
	case Substring:
		b.WriteString("substring(")
		printValue(b, n.String)
		b.WriteString(", ")
		printValue(b, n.Before)
		b.WriteString(", ")
		printValue(b, n.Length)
		b.WriteString(", ")
		printValue(b, n.After)
		b.WriteString(", ")
		printValue(b, n.Out)
		b.WriteByte(')')
	case Trim:
		valueOut("trim", n.In, n.Out)
	case Upper:
		valueOut("upper", n.In, n.Out)
	case Lower:
		valueOut("lower", n.In, n.Out)
	case Regexp:
		b.WriteString("regexp(")
		quoteString(b, n.Pattern)
		b.WriteString(", ")
		printValue(b, n.Subject)
		b.WriteString(", ")
		printValue(b, n.Out)
		b.WriteByte(')')
	case Eval:
		b.WriteString("eval(")
		printArith(b, n.Expr)
		b.WriteString(", ")
		printValue(b, n.Out)
		b.WriteByte(')')
	case Sum:
		b.WriteString("sum(")
		printValueList(b, n.Values)
		b.WriteString(", ")
		printValue(b, n.Out)
		b.WriteByte(')')
	case Count:
		b.WriteString("count(")
		printQuery(b, n.Query)
		b.WriteString(", ")
		printValue(b, n.Out)
		b.WriteByte(')')
	case ReadDocument:
		valueOut("read_document", n.ID, n.Out)
	case InsertDocument:
		valueOut("insert_document", n.Document, n.Out)
	case UpdateDocument:
		b.WriteString("update_document(")
		printValue(b, n.Document)
		b.WriteByte(')')
	case DeleteDocument:
		b.WriteString("delete_document(")
		printValue(b, n.ID)
		b.WriteByte(')')
	case Path:
		b.WriteString("path(")
		printValue(b, n.Subject)
		b.WriteString(", ")
		printPath(b, n.Pattern)
		b.WriteString(", ")
		printValue(b, n.Object)
		if n.Out != nil {
			b.WriteString(", ")
			printValue(b, *n.Out)
		}
		b.WriteByte(')')
	default:
		fmt.Fprintf(b, "<?%T>", q)
	}
}
