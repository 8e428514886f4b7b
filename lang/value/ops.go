package value

import (
	"strings"

	"github.com/mna/ippcode23/lang/status"
)

// Arith applies one of the four IPPcode23 integer arithmetic opcodes
// (ADD, SUB, MUL, IDIV) to x and y, per spec.md §4.7. Both operands must be
// Int; IDIV by zero is a Value error, not a TypeMismatch.
func Arith(op string, x, y Value) (Value, error) {
	xi, ok := x.(Int)
	if !ok {
		return nil, status.New(status.TypeMismatch, "%s: expected int operand, got %s", op, x.Type())
	}
	yi, ok := y.(Int)
	if !ok {
		return nil, status.New(status.TypeMismatch, "%s: expected int operand, got %s", op, y.Type())
	}
	switch op {
	case "ADD":
		return xi + yi, nil
	case "SUB":
		return xi - yi, nil
	case "MUL":
		return xi * yi, nil
	case "IDIV":
		if yi == 0 {
			return nil, status.New(status.Value, "IDIV: division by zero")
		}
		return xi / yi, nil
	default:
		panic("value: unknown arithmetic op " + op)
	}
}

// Compare implements the LT/GT/EQ family of spec.md §4.7: LT and GT forbid
// Nil on either side, EQ permits Nil on either side (true iff both are
// Nil). Operands of different concrete type (other than the EQ/Nil
// exception) are a TypeMismatch.
func Compare(op string, x, y Value) (Bool, error) {
	if op == "EQ" {
		if IsNil(x) || IsNil(y) {
			return Bool(IsNil(x) && IsNil(y)), nil
		}
	}
	if IsNil(x) || IsNil(y) {
		return false, status.New(status.TypeMismatch, "%s: nil is not an ordered operand", op)
	}
	if x.Type() != y.Type() {
		return false, status.New(status.TypeMismatch, "%s: mismatched operand types %s and %s", op, x.Type(), y.Type())
	}

	var cmp int
	switch xv := x.(type) {
	case Int:
		yv := y.(Int)
		switch {
		case xv < yv:
			cmp = -1
		case xv > yv:
			cmp = 1
		}
	case String:
		cmp = strings.Compare(string(xv), string(y.(String)))
	case Bool:
		cmp = b2i(bool(xv)) - b2i(bool(y.(Bool)))
	default:
		return false, status.New(status.TypeMismatch, "%s: %s is not an ordered type", op, x.Type())
	}

	switch op {
	case "LT":
		return cmp < 0, nil
	case "GT":
		return cmp > 0, nil
	case "EQ":
		return cmp == 0, nil
	default:
		panic("value: unknown comparison op " + op)
	}
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Logical applies AND/OR to two Bool operands, or NOT to a single Bool
// operand (y is ignored for NOT). Any non-Bool operand is a TypeMismatch.
func Logical(op string, x, y Value) (Bool, error) {
	xb, ok := x.(Bool)
	if !ok {
		return false, status.New(status.TypeMismatch, "%s: expected bool operand, got %s", op, x.Type())
	}
	if op == "NOT" {
		return !xb, nil
	}
	yb, ok := y.(Bool)
	if !ok {
		return false, status.New(status.TypeMismatch, "%s: expected bool operand, got %s", op, y.Type())
	}
	switch op {
	case "AND":
		return xb && yb, nil
	case "OR":
		return xb || yb, nil
	default:
		panic("value: unknown logical op " + op)
	}
}
