package ast

// WalkValues calls fn for every Value reachable from q, in depth-first,
// left-to-right order. List elements are visited after the list itself.
// Variables bound by output positions (e.g. the Out of Eval) are visited
// like any other value.
func WalkValues(q Query, fn func(Value)) {
	walkQuery(q, fn)
}

// Vars returns the distinct variable names used anywhere in q, in first
// occurrence order. Variable binding is implicit in the DSL, so this is
// the post-pass that recovers "all variables" from a finished tree; no
// state is collected during parsing.
func Vars(q Query) []string {
	var names []string
	seen := make(map[string]bool)
	WalkValues(q, func(v Value) {
		if vr, ok := v.(Var); ok && !seen[vr.Name] {
			seen[vr.Name] = true
			names = append(names, vr.Name)
		}
	})
	return names
}

func walkValue(v Value, fn func(Value)) {
	if v == nil {
		return
	}
	fn(v)
	if l, ok := v.(List); ok {
		for _, e := range l.Elems {
			walkValue(e, fn)
		}
	}
}

func walkValues(vs []Value, fn func(Value)) {
	for _, v := range vs {
		walkValue(v, fn)
	}
}

func walkVars(vars []Var, fn func(Value)) {
	for _, v := range vars {
		fn(v)
	}
}

func walkArith(a Arith, fn func(Value)) {
	switch n := a.(type) {
	case ArithValue:
		walkValue(n.Value, fn)
	case Plus:
		walkArith(n.Left, fn)
		walkArith(n.Right, fn)
	case Minus:
		walkArith(n.Left, fn)
		walkArith(n.Right, fn)
	case Times:
		walkArith(n.Left, fn)
		walkArith(n.Right, fn)
	case Div:
		walkArith(n.Left, fn)
		walkArith(n.Right, fn)
	case Exp:
		walkArith(n.Left, fn)
		walkArith(n.Right, fn)
	}
}

func walkPath(p PathPattern, fn func(Value)) {
	switch n := p.(type) {
	case PathPred:
		walkValue(n.Predicate, fn)
	case PathInv:
		walkPath(n.Pattern, fn)
	case PathStar:
		walkPath(n.Pattern, fn)
	case PathPlus:
		walkPath(n.Pattern, fn)
	case PathSeq:
		for _, c := range n.Patterns {
			walkPath(c, fn)
		}
	case PathOr:
		for _, c := range n.Patterns {
			walkPath(c, fn)
		}
	}
}

func walkQuery(q Query, fn func(Value)) {
	switch n := q.(type) {
	case Triple:
		walkValue(n.Subject, fn)
		walkValue(n.Predicate, fn)
		walkValue(n.Object, fn)
	case And:
		for _, c := range n.Queries {
			walkQuery(c, fn)
		}
	case Or:
		for _, c := range n.Queries {
			walkQuery(c, fn)
		}
	case Not:
		walkQuery(n.Query, fn)
	case Optional:
		walkQuery(n.Query, fn)
	case Select:
		walkVars(n.Variables, fn)
		walkQuery(n.Query, fn)
	case Distinct:
		walkVars(n.Variables, fn)
		walkQuery(n.Query, fn)
	case Limit:
		walkQuery(n.Query, fn)
	case Start:
		walkQuery(n.Query, fn)
	case OrderBy:
		for _, spec := range n.Ordering {
			fn(spec.Var)
		}
		walkQuery(n.Query, fn)
	case GroupBy:
		walkVars(n.GroupVars, fn)
		walkVars(n.Template, fn)
		walkQuery(n.Query, fn)
	case Eq:
		walkValue(n.Left, fn)
		walkValue(n.Right, fn)
	case Greater:
		walkValue(n.Left, fn)
		walkValue(n.Right, fn)
	case Less:
		walkValue(n.Left, fn)
		walkValue(n.Right, fn)
	case Isa:
		walkValue(n.Element, fn)
		walkValue(n.Type, fn)
	case TypeOf:
		walkValue(n.Value, fn)
		fn(n.Out)
	case Subsumption:
		walkValue(n.Child, fn)
		walkValue(n.Parent, fn)
	case Concat:
		walkValues(n.Parts, fn)
		fn(n.Out)
	case Substring:
		walkValue(n.String, fn)
		walkValue(n.Before, fn)
		walkValue(n.Length, fn)
		walkValue(n.After, fn)
		fn(n.Out)
	case Trim:
		walkValue(n.In, fn)
		fn(n.Out)
	case Upper:
		walkValue(n.In, fn)
		fn(n.Out)
	case Lower:
		walkValue(n.In, fn)
		fn(n.Out)
	case Regexp:
		walkValue(n.Subject, fn)
		fn(n.Out)
	case Eval:
		walkArith(n.Expr, fn)
		fn(n.Out)
	case Sum:
		walkValues(n.Values, fn)
		fn(n.Out)
	case Count:
		walkQuery(n.Query, fn)
		fn(n.Out)
	case ReadDocument:
		walkValue(n.ID, fn)
		fn(n.Out)
	case InsertDocument:
		walkValue(n.Document, fn)
		fn(n.Out)
	case UpdateDocument:
		walkValue(n.Document, fn)
	case DeleteDocument:
		walkValue(n.ID, fn)
	case Path:
		walkValue(n.Subject, fn)
		walkPath(n.Pattern, fn)
		walkValue(n.Object, fn)
		if n.Out != nil {
			fn(*n.Out)
		}
	}
}
