package wire

import (
	"fmt"
	"math"

	"github.com/roach88/quarry/ast"
)

// xsd type tags for data literals. Fixed by the engine schema.
const (
	typeString  = "xsd:string"
	typeInteger = "xsd:integer"
	typeDecimal = "xsd:decimal"
	typeBoolean = "xsd:boolean"
)

// ForQuery converts an AST to its wire object. The tree is validated
// first, so a malformed hand-built node fails here instead of producing
// a malformed payload.
func ForQuery(q ast.Query) (Obj, error) {
	if err := ast.Validate(q); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}
	return forQuery(q)
}

// Marshal serializes a query to canonical payload bytes.
func Marshal(q ast.Query) ([]byte, error) {
	obj, err := ForQuery(q)
	if err != nil {
		return nil, err
	}
	return MarshalCanonical(obj)
}

// forNodeValue serializes a value in a node position (triple subject or
// predicate, document identifiers). Only variables and node references
// are legal there; strings are always nodes in node positions, so a
// bare word like "a" serializes as a node.
func forNodeValue(v ast.Value) (Obj, error) {
	switch n := v.(type) {
	case ast.Var:
		return Obj{"@type": Str("NodeValue"), "variable": Str(n.Name)}, nil
	case ast.Str:
		return Obj{"@type": Str("NodeValue"), "node": Str(n.Text)}, nil
	default:
		return nil, fmt.Errorf("data literal %s not allowed in node position", ast.PrintValue(v))
	}
}

// forValue serializes a value in a general position. Strings split on
// the node-reference convention: colon-containing or '@'-prefixed text
// is a node, anything else a typed data literal.
func forValue(v ast.Value) (Obj, error) {
	switch n := v.(type) {
	case ast.Var:
		return Obj{"@type": Str("Value"), "variable": Str(n.Name)}, nil
	case ast.Str:
		if n.IsNode() {
			return Obj{"@type": Str("Value"), "node": Str(n.Text)}, nil
		}
		return Obj{"@type": Str("Value"), "data": dataString(n.Text)}, nil
	case ast.Num:
		return Obj{"@type": Str("Value"), "data": dataNum(n)}, nil
	case ast.Bool:
		return Obj{"@type": Str("Value"), "data": Obj{"@type": Str(typeBoolean), "@value": Bool(n.Val)}}, nil
	case ast.List:
		list, err := forValues(n.Elems)
		if err != nil {
			return nil, err
		}
		return Obj{"@type": Str("Value"), "list": list}, nil
	default:
		return nil, fmt.Errorf("unknown value node %T", v)
	}
}

func forValues(vs []ast.Value) (Arr, error) {
	arr := make(Arr, len(vs))
	for i, v := range vs {
		obj, err := forValue(v)
		if err != nil {
			return nil, fmt.Errorf("list[%d]: %w", i, err)
		}
		arr[i] = obj
	}
	return arr, nil
}

func dataString(text string) Obj {
	return Obj{"@type": Str(typeString), "@value": Str(text)}
}

func dataNum(n ast.Num) Obj {
	if n.IsFloat {
		return Obj{"@type": Str(typeDecimal), "@value": Float(n.Float)}
	}
	return Obj{"@type": Str(typeInteger), "@value": Int(n.Int)}
}

func varNames(vars []ast.Var) Arr {
	arr := make(Arr, len(vars))
	for i, v := range vars {
		arr[i] = Str(v.Name)
	}
	return arr
}

func forArith(a ast.Arith) (Obj, error) {
	binary := func(tag string, l, r ast.Arith) (Obj, error) {
		left, err := forArith(l)
		if err != nil {
			return nil, err
		}
		right, err := forArith(r)
		if err != nil {
			return nil, err
		}
		return Obj{"@type": Str(tag), "left": left, "right": right}, nil
	}
	switch n := a.(type) {
	case ast.ArithValue:
		switch v := n.Value.(type) {
		case ast.Var:
			return Obj{"@type": Str("ArithmeticValue"), "variable": Str(v.Name)}, nil
		case ast.Num:
			return Obj{"@type": Str("ArithmeticValue"), "data": dataNum(v)}, nil
		default:
			return nil, fmt.Errorf("arithmetic leaf must be a number or variable, got %s", ast.PrintValue(n.Value))
		}
	case ast.Plus:
		return binary("Plus", n.Left, n.Right)
	case ast.Minus:
		return binary("Minus", n.Left, n.Right)
	case ast.Times:
		return binary("Times", n.Left, n.Right)
	case ast.Div:
		return binary("Divide", n.Left, n.Right)
	case ast.Exp:
		return binary("Exp", n.Left, n.Right)
	default:
		return nil, fmt.Errorf("unknown arithmetic node %T", a)
	}
}

func forPath(p ast.PathPattern) (Obj, error) {
	patterns := func(pats []ast.PathPattern) (Arr, error) {
		arr := make(Arr, len(pats))
		for i, c := range pats {
			obj, err := forPath(c)
			if err != nil {
				return nil, err
			}
			arr[i] = obj
		}
		return arr, nil
	}
	switch n := p.(type) {
	case ast.PathPred:
		pred, ok := n.Predicate.(ast.Str)
		if !ok {
			return nil, fmt.Errorf("path predicate must be a node reference, got %s", ast.PrintValue(n.Predicate))
		}
		return Obj{"@type": Str("PathPredicate"), "predicate": Str(pred.Text)}, nil
	case ast.PathInv:
		// The schema only expresses inversion of a single predicate step.
		pred, ok := n.Pattern.(ast.PathPred)
		if !ok {
			return nil, fmt.Errorf("inverse of a composite path pattern is not expressible in the wire schema")
		}
		str, ok := pred.Predicate.(ast.Str)
		if !ok {
			return nil, fmt.Errorf("path predicate must be a node reference, got %s", ast.PrintValue(pred.Predicate))
		}
		return Obj{"@type": Str("InversePathPredicate"), "predicate": Str(str.Text)}, nil
	case ast.PathStar:
		inner, err := forPath(n.Pattern)
		if err != nil {
			return nil, err
		}
		return Obj{"@type": Str("PathStar"), "star": inner}, nil
	case ast.PathPlus:
		inner, err := forPath(n.Pattern)
		if err != nil {
			return nil, err
		}
		return Obj{"@type": Str("PathPlus"), "plus": inner}, nil
	case ast.PathSeq:
		seq, err := patterns(n.Patterns)
		if err != nil {
			return nil, err
		}
		return Obj{"@type": Str("PathSequence"), "sequence": seq}, nil
	case ast.PathOr:
		alts, err := patterns(n.Patterns)
		if err != nil {
			return nil, err
		}
		return Obj{"@type": Str("PathOr"), "or": alts}, nil
	default:
		return nil, fmt.Errorf("unknown path node %T", p)
	}
}

func forQueries(qs []ast.Query) (Arr, error) {
	arr := make(Arr, len(qs))
	for i, q := range qs {
		obj, err := forQuery(q)
		if err != nil {
			return nil, err
		}
		arr[i] = obj
	}
	return arr, nil
}

func forQuery(q ast.Query) (Obj, error) {
	sub := func(tag string, inner ast.Query, extra Obj) (Obj, error) {
		obj, err := forQuery(inner)
		if err != nil {
			return nil, err
		}
		out := Obj{"@type": Str(tag), "query": obj}
		for k, v := range extra {
			out[k] = v
		}
		return out, nil
	}
	binary := func(tag, lk, rk string, l, r ast.Value) (Obj, error) {
		left, err := forValue(l)
		if err != nil {
			return nil, err
		}
		right, err := forValue(r)
		if err != nil {
			return nil, err
		}
		return Obj{"@type": Str(tag), lk: left, rk: right}, nil
	}
	stringOp := func(tag, ik, ok string, in ast.Value, out ast.Var) (Obj, error) {
		inObj, err := forValue(in)
		if err != nil {
			return nil, err
		}
		outObj, err := forValue(out)
		if err != nil {
			return nil, err
		}
		return Obj{"@type": Str(tag), ik: inObj, ok: outObj}, nil
	}
	listOp := func(tag string, parts []ast.Value, out ast.Var) (Obj, error) {
		list, err := forValues(parts)
		if err != nil {
			return nil, err
		}
		outObj, err := forValue(out)
		if err != nil {
			return nil, err
		}
		return Obj{
			"@type":  Str(tag),
			"list":   Obj{"@type": Str("Value"), "list": list},
			"result": outObj,
		}, nil
	}

	switch n := q.(type) {
	case ast.Triple:
		subj, err := forNodeValue(n.Subject)
		if err != nil {
			return nil, fmt.Errorf("triple subject: %w", err)
		}
		pred, err := forNodeValue(n.Predicate)
		if err != nil {
			return nil, fmt.Errorf("triple predicate: %w", err)
		}
		obj, err := forValue(n.Object)
		if err != nil {
			return nil, fmt.Errorf("triple object: %w", err)
		}
		return Obj{"@type": Str("Triple"), "subject": subj, "predicate": pred, "object": obj}, nil

	case ast.And:
		qs, err := forQueries(n.Queries)
		if err != nil {
			return nil, err
		}
		return Obj{"@type": Str("And"), "and": qs}, nil

	case ast.Or:
		qs, err := forQueries(n.Queries)
		if err != nil {
			return nil, err
		}
		return Obj{"@type": Str("Or"), "or": qs}, nil

	case ast.Not:
		return sub("Not", n.Query, nil)

	case ast.Optional:
		return sub("Optional", n.Query, nil)

	case ast.Select:
		return sub("Select", n.Query, Obj{"variables": varNames(n.Variables)})

	case ast.Distinct:
		return sub("Distinct", n.Query, Obj{"variables": varNames(n.Variables)})

	case ast.Limit:
		if n.N > math.MaxInt64 {
			return nil, fmt.Errorf("limit %d exceeds the wire integer range", n.N)
		}
		return sub("Limit", n.Query, Obj{"limit": Int(n.N)})

	case ast.Start:
		if n.N > math.MaxInt64 {
			return nil, fmt.Errorf("start %d exceeds the wire integer range", n.N)
		}
		return sub("Start", n.Query, Obj{"start": Int(n.N)})

	case ast.OrderBy:
		ordering := make(Arr, len(n.Ordering))
		for i, spec := range n.Ordering {
			order := "desc"
			if spec.Ascending {
				order = "asc"
			}
			ordering[i] = Obj{
				"@type":    Str("OrderTemplate"),
				"variable": Str(spec.Var.Name),
				"order":    Str(order),
			}
		}
		return sub("OrderBy", n.Query, Obj{"ordering": ordering})

	case ast.GroupBy:
		return sub("GroupBy", n.Query, Obj{
			"group_by": varNames(n.GroupVars),
			"template": varNames(n.Template),
		})

	case ast.Eq:
		return binary("Equals", "left", "right", n.Left, n.Right)

	case ast.Greater:
		return binary("Greater", "left", "right", n.Left, n.Right)

	case ast.Less:
		return binary("Less", "left", "right", n.Left, n.Right)

	case ast.Isa:
		return binary("IsA", "element", "type", n.Element, n.Type)

	case ast.TypeOf:
		return binary("TypeOf", "value", "type", n.Value, n.Out)

	case ast.Subsumption:
		return binary("Subsumption", "child", "parent", n.Child, n.Parent)

	case ast.Concat:
		return listOp("Concatenate", n.Parts, n.Out)

	case ast.Substring:
		fields := []struct {
			key string
			val ast.Value
		}{
			{"string", n.String},
			{"before", n.Before},
			{"length", n.Length},
			{"after", n.After},
			{"substring", n.Out},
		}
		out := Obj{"@type": Str("Substring")}
		for _, f := range fields {
			obj, err := forValue(f.val)
			if err != nil {
				return nil, fmt.Errorf("substring %s: %w", f.key, err)
			}
			out[f.key] = obj
		}
		return out, nil

	case ast.Trim:
		return stringOp("Trim", "untrimmed", "trimmed", n.In, n.Out)

	case ast.Upper:
		return stringOp("Upper", "mixed", "upper", n.In, n.Out)

	case ast.Lower:
		return stringOp("Lower", "mixed", "lower", n.In, n.Out)

	case ast.Regexp:
		subject, err := forValue(n.Subject)
		if err != nil {
			return nil, err
		}
		result, err := forValue(n.Out)
		if err != nil {
			return nil, err
		}
		return Obj{
			"@type":   Str("Regexp"),
			"pattern": Obj{"@type": Str("Value"), "data": dataString(n.Pattern)},
			"string":  subject,
			"result":  result,
		}, nil

	case ast.Eval:
		expr, err := forArith(n.Expr)
		if err != nil {
			return nil, err
		}
		return Obj{
			"@type":      Str("Eval"),
			"expression": expr,
			"result":     Obj{"@type": Str("ArithmeticValue"), "variable": Str(n.Out.Name)},
		}, nil

	case ast.Sum:
		return listOp("Sum", n.Values, n.Out)

	case ast.Count:
		inner, err := forQuery(n.Query)
		if err != nil {
			return nil, err
		}
		count, err := forValue(n.Out)
		if err != nil {
			return nil, err
		}
		return Obj{"@type": Str("Count"), "query": inner, "count": count}, nil

	case ast.ReadDocument:
		id, err := forNodeValue(n.ID)
		if err != nil {
			return nil, fmt.Errorf("read_document identifier: %w", err)
		}
		doc, err := forValue(n.Out)
		if err != nil {
			return nil, err
		}
		return Obj{"@type": Str("ReadDocument"), "identifier": id, "document": doc}, nil

	case ast.InsertDocument:
		doc, err := forValue(n.Document)
		if err != nil {
			return nil, err
		}
		id, err := forNodeValue(n.Out)
		if err != nil {
			return nil, err
		}
		return Obj{"@type": Str("InsertDocument"), "document": doc, "identifier": id}, nil

	case ast.UpdateDocument:
		doc, err := forValue(n.Document)
		if err != nil {
			return nil, err
		}
		return Obj{"@type": Str("UpdateDocument"), "document": doc}, nil

	case ast.DeleteDocument:
		id, err := forNodeValue(n.ID)
		if err != nil {
			return nil, fmt.Errorf("delete_document identifier: %w", err)
		}
		return Obj{"@type": Str("DeleteDocument"), "identifier": id}, nil

	case ast.Path:
		subj, err := forValue(n.Subject)
		if err != nil {
			return nil, fmt.Errorf("path subject: %w", err)
		}
		pattern, err := forPath(n.Pattern)
		if err != nil {
			return nil, err
		}
		obj, err := forValue(n.Object)
		if err != nil {
			return nil, fmt.Errorf("path object: %w", err)
		}
		out := Obj{"@type": Str("Path"), "subject": subj, "pattern": pattern, "object": obj}
		if n.Out != nil {
			pv, err := forValue(*n.Out)
			if err != nil {
				return nil, err
			}
			out["path"] = pv
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unknown query node %T", q)
	}
}
