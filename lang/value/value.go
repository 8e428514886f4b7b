// Package value implements the IPPcode23 value algebra: a small tagged
// variant of Int, String, Bool and Nil, plus the parsing and formatting
// rules spec.md §4.1 defines for each kind.
//
// A variable cell that has never been assigned (DEFVAR but no MOVE) holds
// no value package type at all; it is represented by a plain Go nil
// stored in a lang/machine.Frame cell. Only TYPE tolerates it; every other
// call site that loads a cell has to explicitly decide what to do with a
// nil value.Value.
package value

import "strconv"

// Value is the interface implemented by every IPPcode23 runtime value.
// Unlike the teacher's richer types.Value (which layers on Ordered,
// Iterable, Mapping, HasBinary, Freeze, Truth for a general-purpose
// scripting language) this only needs the two operations every IPPcode23
// opcode cares about: how a value prints to stdout and what its dynamic
// type tag is. Arithmetic, comparison and string operations are free
// functions in this package that type-switch on Value, mirroring the
// teacher's standalone Compare/Binary functions rather than methods on
// the value types themselves.
type Value interface {
	// String returns the value's textual form as WRITE would print it.
	String() string
	// Type returns the value's IPPcode23 type tag: "int", "string", "bool"
	// or "nil".
	Type() string
}

// Int is the type of a signed integer value.
type Int int64

var _ Value = Int(0)

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }
func (Int) Type() string     { return "int" }

// String is the type of a text value. Escapes of the form \DDD (three
// decimal digits) are decoded once, at parse time (see ParseString); the
// Go string held here is already the raw byte sequence spec.md §4.1
// requires WRITE to print verbatim.
type String string

var _ Value = String("")

func (s String) String() string { return string(s) }
func (String) Type() string     { return "string" }

// Bool is the type of a boolean value.
type Bool bool

const (
	False Bool = false
	True  Bool = true
)

var _ Value = True

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (Bool) Type() string { return "bool" }

// nilType is the type of the sole Nil value. WRITE prints it as the empty
// string (spec.md §4.1).
type nilType struct{}

// Nil is the unique value of nilType.
var Nil Value = nilType{}

func (nilType) String() string { return "" }
func (nilType) Type() string   { return "nil" }

// IsNil reports whether v is the Nil value.
func IsNil(v Value) bool {
	_, ok := v.(nilType)
	return ok
}
