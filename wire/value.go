package wire

import "slices"

// Val is a sealed interface over the JSON value types a wire payload
// may contain. Only Str, Int, Float, Bool, Arr, and Obj implement it.
// There is no null: the wire schema never carries one, optional fields
// are simply absent.
type Val interface {
	wireVal() // Sealed - only these types implement it
}

// Str is a JSON string.
type Str string

func (Str) wireVal() {}

// Int is a JSON integer. Kept separate from Float so integer literals
// serialize without a fractional part.
type Int int64

func (Int) wireVal() {}

// Float is a JSON number with a fractional part.
type Float float64

func (Float) wireVal() {}

// Bool is a JSON boolean.
type Bool bool

func (Bool) wireVal() {}

// Arr is a JSON array.
type Arr []Val

func (Arr) wireVal() {}

// Obj is a JSON object. Use SortedKeys for deterministic iteration.
type Obj map[string]Val

func (Obj) wireVal() {}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code
// units). Go's sort order over strings is UTF-8 byte order, which
// differs for characters outside the BMP, so the comparison goes
// through utf16 explicitly.
func (o Obj) SortedKeys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysUTF16)
	return keys
}
