package ast

import "fmt"

// Validate checks the structural invariants the type system cannot
// express: no nil children, non-empty variable lists, and no
// single-child path combinators (the parser and builder collapse
// those, so their presence means a malformed hand-built tree).
//
// The parser only produces valid trees; Validate exists for trees
// assembled directly from struct literals. The wire serializer calls
// it before serializing, so a malformed node fails loudly instead of
// producing a malformed payload.
func Validate(q Query) error {
	return validateQuery(q)
}

func validateValue(v Value) error {
	switch n := v.(type) {
	case nil:
		return fmt.Errorf("nil value")
	case List:
		for i, e := range n.Elems {
			if err := validateValue(e); err != nil {
				return fmt.Errorf("list[%d]: %w", i, err)
			}
		}
	case Var:
		if n.Name == "" {
			return fmt.Errorf("variable with empty name")
		}
	}
	return nil
}

func validateValues(what string, vs []Value) error {
	if len(vs) == 0 {
		return fmt.Errorf("%s: empty value list", what)
	}
	for i, v := range vs {
		if err := validateValue(v); err != nil {
			return fmt.Errorf("%s[%d]: %w", what, i, err)
		}
	}
	return nil
}

func validateVars(what string, vars []Var) error {
	if len(vars) == 0 {
		return fmt.Errorf("%s: empty variable list", what)
	}
	for _, v := range vars {
		if v.Name == "" {
			return fmt.Errorf("%s: variable with empty name", what)
		}
	}
	return nil
}

func validateArith(a Arith) error {
	binary := func(l, r Arith) error {
		if l == nil || r == nil {
			return fmt.Errorf("%T: nil operand", a)
		}
		if err := validateArith(l); err != nil {
			return err
		}
		return validateArith(r)
	}
	switch n := a.(type) {
	case nil:
		return fmt.Errorf("nil arithmetic expression")
	case ArithValue:
		return validateValue(n.Value)
	case Plus:
		return binary(n.Left, n.Right)
	case Minus:
		return binary(n.Left, n.Right)
	case Times:
		return binary(n.Left, n.Right)
	case Div:
		return binary(n.Left, n.Right)
	case Exp:
		return binary(n.Left, n.Right)
	}
	return nil
}

func validatePath(p PathPattern) error {
	combinator := func(name string, pats []PathPattern) error {
		// A single child would not survive a print/parse round-trip:
		// the parser collapses seq(p) and or(p) to p.
		if len(pats) < 2 {
			return fmt.Errorf("path %s with %d patterns, need at least 2", name, len(pats))
		}
		for i, c := range pats {
			if err := validatePath(c); err != nil {
				return fmt.Errorf("path %s[%d]: %w", name, i, err)
			}
		}
		return nil
	}
	switch n := p.(type) {
	case nil:
		return fmt.Errorf("nil path pattern")
	case PathPred:
		return validateValue(n.Predicate)
	case PathInv:
		return validatePath(n.Pattern)
	case PathStar:
		return validatePath(n.Pattern)
	case PathPlus:
		return validatePath(n.Pattern)
	case PathSeq:
		return combinator("seq", n.Patterns)
	case PathOr:
		return combinator("or", n.Patterns)
	}
	return nil
}

func validateQuery(q Query) error {
	queries := func(name string, qs []Query) error {
		if len(qs) == 0 {
			return fmt.Errorf("%s: no sub-queries", name)
		}
		for i, c := range qs {
			if err := validateQuery(c); err != nil {
				return fmt.Errorf("%s[%d]: %w", name, i, err)
			}
		}
		return nil
	}
	wrap := func(name string, inner Query) error {
		if inner == nil {
			return fmt.Errorf("%s: nil sub-query", name)
		}
		return validateQuery(inner)
	}
	values := func(name string, vs ...Value) error {
		for _, v := range vs {
			if err := validateValue(v); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
		return nil
	}

	switch n := q.(type) {
	case nil:
		return fmt.Errorf("nil query")
	case Triple:
		return values("triple", n.Subject, n.Predicate, n.Object)
	case And:
		return queries("and", n.Queries)
	case Or:
		return queries("or", n.Queries)
	case Not:
		return wrap("not", n.Query)
	case Optional:
		return wrap("opt", n.Query)
	case Select:
		if err := validateVars("select", n.Variables); err != nil {
			return err
		}
		return wrap("select", n.Query)
	case Distinct:
		if err := validateVars("distinct", n.Variables); err != nil {
			return err
		}
		return wrap("distinct", n.Query)
	case Limit:
		return wrap("limit", n.Query)
	case Start:
		return wrap("start", n.Query)
	case OrderBy:
		if len(n.Ordering) == 0 {
			return fmt.Errorf("order_by: empty ordering")
		}
		for _, spec := range n.Ordering {
			if spec.Var.Name == "" {
				return fmt.Errorf("order_by: variable with empty name")
			}
		}
		return wrap("order_by", n.Query)
	case GroupBy:
		if err := validateVars("group_by group", n.GroupVars); err != nil {
			return err
		}
		if err := validateVars("group_by template", n.Template); err != nil {
			return err
		}
		return wrap("group_by", n.Query)
	case Eq:
		return values("eq", n.Left, n.Right)
	case Greater:
		return values("greater", n.Left, n.Right)
	case Less:
		return values("less", n.Left, n.Right)
	case Isa:
		return values("isa", n.Element, n.Type)
	case TypeOf:
		if n.Out.Name == "" {
			return fmt.Errorf("type_of: variable with empty name")
		}
		return values("type_of", n.Value)
	case Subsumption:
		return values("subsumption", n.Child, n.Parent)
	case Concat:
		if n.Out.Name == "" {
			return fmt.Errorf("concat: variable with empty name")
		}
		return validateValues("concat", n.Parts)
	case Substring:
		if n.Out.Name == "" {
			return fmt.Errorf("substring: variable with empty name")
		}
		return values("substring", n.String, n.Before, n.Length, n.After)
	case Trim:
		if n.Out.Name == "" {
			return fmt.Errorf("trim: variable with empty name")
		}
		return values("trim", n.In)
	case Upper:
		if n.Out.Name == "" {
			return fmt.Errorf("upper: variable with empty name")
		}
		return values("upper", n.In)
	case Lower:
		if n.Out.Name == "" {
			return fmt.Errorf("lower: variable with empty name")
		}
		return values("lower", n.In)
	case Regexp:
		if n.Out.Name == "" {
			return fmt.Errorf("regexp: variable with empty name")
		}
		return values("regexp", n.Subject)
	case Eval:
		if n.Out.Name == "" {
			return fmt.Errorf("eval: variable with empty name")
		}
		return validateArith(n.Expr)
	case Sum:
		if n.Out.Name == "" {
			return fmt.Errorf("sum: variable with empty name")
		}
		return validateValues("sum", n.Values)
	case Count:
		if n.Out.Name == "" {
			return fmt.Errorf("count: variable with empty name")
		}
		return wrap("count", n.Query)
	case ReadDocument:
		if n.Out.Name == "" {
			return fmt.Errorf("read_document: variable with empty name")
		}
		return values("read_document", n.ID)
	case InsertDocument:
		if n.Out.Name == "" {
			return fmt.Errorf("insert_document: variable with empty name")
		}
		return values("insert_document", n.Document)
	case UpdateDocument:
		return values("update_document", n.Document)
	case DeleteDocument:
		return values("delete_document", n.ID)
	case Path:
		if err := values("path", n.Subject, n.Object); err != nil {
			return err
		}
		if n.Out != nil && n.Out.Name == "" {
			return fmt.Errorf("path: variable with empty name")
		}
		if n.Pattern == nil {
			return fmt.Errorf("path: nil pattern")
		}
		return validatePath(n.Pattern)
	}
	return fmt.Errorf("unknown query node %T", q)
}
