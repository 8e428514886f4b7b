package machine

import (
	"github.com/dolthub/swiss"

	"github.com/mna/ippcode23/lang/status"
	"github.com/mna/ippcode23/lang/value"
)

// Frame is a variable scope: a mapping from unqualified identifier to a
// Value cell, per spec.md §3/§4.2. This is the teacher's machine.Map
// (itself a thin wrapper over github.com/dolthub/swiss) generalized from
// "value → value" to "identifier → Value cell", and it is keyed only by
// the unqualified name, never by a "GF@"/"TF@"/"LF@"-prefixed string, per
// the re-architecture spec.md §9 calls for: the frame prefix only matters
// at operand-resolution time (see Memory.frameFor), not to the Frame
// itself, so PUSHFRAME/POPFRAME move a *Frame onto/off of a stack without
// rewriting a single key.
//
// A declared-but-unassigned variable (DEFVAR without a following MOVE)
// stores a nil value.Value, representing Uninit (spec.md §3); Get returns
// that nil value.Value as-is and lets the caller decide whether reading it
// is acceptable (only TYPE is).
type Frame struct {
	vars *swiss.Map[string, value.Value]
}

// NewFrame returns an empty frame.
func NewFrame() *Frame {
	return &Frame{vars: swiss.NewMap[string, value.Value](0)}
}

// Declare inserts name as Uninit. Redeclaring an existing name is a
// semantic error (spec.md §4.2).
func (f *Frame) Declare(name string) error {
	if _, ok := f.vars.Get(name); ok {
		return status.New(status.Semantic, "variable %s already exists", name)
	}
	f.vars.Put(name, nil)
	return nil
}

// Get returns the cell's current value, which is nil for an Uninit
// variable. It fails VarNotExist if name was never declared.
func (f *Frame) Get(name string) (value.Value, error) {
	v, ok := f.vars.Get(name)
	if !ok {
		return nil, status.New(status.VarNotExist, "variable %s does not exist", name)
	}
	return v, nil
}

// Set overwrites the cell for name, regardless of its prior value's type.
// It fails VarNotExist if name was never declared (spec.md §4.2).
func (f *Frame) Set(name string, v value.Value) error {
	if _, ok := f.vars.Get(name); !ok {
		return status.New(status.VarNotExist, "variable %s does not exist", name)
	}
	f.vars.Put(name, v)
	return nil
}
