package parser

// argKind names the argument positions an operation accepts. The table
// below is the single source of truth for dispatch: every operation has
// a fixed, ordered argument shape, so the parser's job is a direct
// lookup plus shape validation, never inference.
type argKind int

const (
	argValue     argKind = iota // variable, literal, or list value
	argValueList                // bracketed list of values
	argVar                      // a single $variable
	argVarList                  // bracketed list of $variables
	argQuery                    // nested query
	argUint                     // non-negative integer literal
	argArith                    // arithmetic expression (eval)
	argPath                     // path pattern (path)
	argOrderList                // bracketed list of asc($v)/desc($v)
	argPattern                  // regular-expression string literal
)

func (k argKind) String() string {
	switch k {
	case argValue:
		return "value"
	case argValueList:
		return "value list"
	case argVar:
		return "variable"
	case argVarList:
		return "variable list"
	case argQuery:
		return "query"
	case argUint:
		return "non-negative integer"
	case argArith:
		return "arithmetic expression"
	case argPath:
		return "path pattern"
	case argOrderList:
		return "ordering list"
	case argPattern:
		return "pattern string"
	default:
		return "argument"
	}
}

// opSpec is one row of the arity table.
type opSpec struct {
	args     []argKind
	variadic bool // the last kind may repeat (and, or)
	optional int  // count of trailing args that may be omitted
}

// opTable maps operation name to its fixed argument shape. "opt" and
// "optional" are aliases.
var opTable = map[string]opSpec{
	"triple":          {args: []argKind{argValue, argValue, argValue}},
	"and":             {args: []argKind{argQuery}, variadic: true},
	"or":              {args: []argKind{argQuery}, variadic: true},
	"not":             {args: []argKind{argQuery}},
	"opt":             {args: []argKind{argQuery}},
	"optional":        {args: []argKind{argQuery}},
	"select":          {args: []argKind{argVarList, argQuery}},
	"distinct":        {args: []argKind{argVarList, argQuery}},
	"limit":           {args: []argKind{argUint, argQuery}},
	"start":           {args: []argKind{argUint, argQuery}},
	"order_by":        {args: []argKind{argOrderList, argQuery}},
	"group_by":        {args: []argKind{argVarList, argVarList, argQuery}},
	"eq":              {args: []argKind{argValue, argValue}},
	"greater":         {args: []argKind{argValue, argValue}},
	"less":            {args: []argKind{argValue, argValue}},
	"isa":             {args: []argKind{argValue, argValue}},
	"type_of":         {args: []argKind{argValue, argVar}},
	"subsumption":     {args: []argKind{argValue, argValue}},
	"concat":          {args: []argKind{argValueList, argVar}},
	"substring":       {args: []argKind{argValue, argValue, argValue, argValue, argVar}},
	"trim":            {args: []argKind{argValue, argVar}},
	"upper":           {args: []argKind{argValue, argVar}},
	"lower":           {args: []argKind{argValue, argVar}},
	"regexp":          {args: []argKind{argPattern, argValue, argVar}},
	"eval":            {args: []argKind{argArith, argVar}},
	"sum":             {args: []argKind{argValueList, argVar}},
	"count":           {args: []argKind{argQuery, argVar}},
	"read_document":   {args: []argKind{argValue, argVar}},
	"insert_document": {args: []argKind{argValue, argVar}},
	"update_document": {args: []argKind{argValue}},
	"delete_document": {args: []argKind{argValue}},
	"path":            {args: []argKind{argValue, argPath, argValue, argVar}, optional: 1},
}

// arithOps are the call forms legal inside eval. Binary, always.
var arithOps = map[string]bool{
	"plus":  true,
	"minus": true,
	"times": true,
	"div":   true,
	"exp":   true,
}

// pathOps are the call forms legal inside a path pattern. At the path
// level "plus" and "or" denote repetition and alternation, distinct
// from the arithmetic and query operations of the same name.
var pathOps = map[string]bool{
	"pred": true,
	"inv":  true,
	"star": true,
	"plus": true,
	"seq":  true,
	"or":   true,
}
