// Package machine implements the virtual machine that executes a decoded
// IPPcode23 Program: operand resolution, the fetch/decode/execute loop, and
// the runtime semantics of every opcode.
package machine

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mna/ippcode23/lang/status"
	"github.com/mna/ippcode23/lang/value"
)

// Machine is the single aggregate that owns everything an IPPcode23 program
// touches while it runs: its Memory (frames, operand stack, call stack,
// input queue) and its standard I/O. This collapses the teacher's
// Thread+callStack-of-Frames design into one struct, per spec.md §9's
// "single Machine aggregate over class-level mutable state" design note.
// IPPcode23 has no nested function values or closures to keep a call stack
// of *Frame for, only a stack of return orders, which Memory already holds.
type Machine struct {
	// Stdout and Stderr are the writers WRITE and DPRINT/BREAK use. If nil,
	// os.Stdout and os.Stderr are used respectively. Stdin is not read by
	// the Machine: READ consumes the input passed to NewMachine.
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	mem *Memory
}

// NewMachine returns a Machine ready to Run a Program, reading READ's input
// queue from input (nil means no input, so READ always yields Nil).
func NewMachine(input io.Reader) *Machine {
	var sc *bufio.Scanner
	if input != nil {
		sc = bufio.NewScanner(input)
	}
	return &Machine{mem: NewMemory(sc)}
}

func (m *Machine) stdout() io.Writer {
	if m.Stdout != nil {
		return m.Stdout
	}
	return os.Stdout
}

func (m *Machine) stderr() io.Writer {
	if m.Stderr != nil {
		return m.Stderr
	}
	return os.Stderr
}

// Run executes prog from its first instruction to completion, an EXIT, or
// the first runtime error, per spec.md §4.7 and §9. A *status.Status return
// carries the process exit code the caller (internal/maincmd) should use;
// a nil return means the program ran to completion (exit code OK).
func (m *Machine) Run(prog *Program, labels Labels) error {
	insn, ok := prog.Seek(0)
	for ok {
		next := insn.Order + 1
		var jumpTo uint64
		var jumped bool
		var exitErr error

		switch insn.Opcode {
		case LABEL:
			// no-op at runtime; the label table was already built from the
			// static pass over prog.

		case CREATEFRAME:
			m.mem.CreateFrame()
		case PUSHFRAME:
			exitErr = m.mem.PushFrame()
		case POPFRAME:
			exitErr = m.mem.PopFrame()
		case DEFVAR:
			exitErr = m.mem.Declare(insn.Args[0].Text)
		case RETURN:
			var order uint64
			if order, exitErr = m.mem.PopCall(); exitErr == nil {
				jumpTo, jumped = order, true
			}
		case CALL:
			target, err := m.resolveLabel(labels, insn.Args[0])
			if err != nil {
				exitErr = err
				break
			}
			m.mem.PushCall(next)
			jumpTo, jumped = target, true

		case MOVE:
			exitErr = m.execMove(insn)
		case PUSHS:
			exitErr = m.execPushs(insn)
		case POPS:
			exitErr = m.execPops(insn)

		case ADD, SUB, MUL, IDIV:
			exitErr = m.execArith(insn)
		case LT, GT, EQ:
			exitErr = m.execCompare(insn)
		case AND, OR, NOT:
			exitErr = m.execLogical(insn)

		case INT2CHAR:
			exitErr = m.execInt2Char(insn)
		case STRI2INT:
			exitErr = m.execStri2Int(insn)
		case CONCAT:
			exitErr = m.execConcat(insn)
		case STRLEN:
			exitErr = m.execStrlen(insn)
		case GETCHAR:
			exitErr = m.execGetChar(insn)
		case SETCHAR:
			exitErr = m.execSetChar(insn)

		case READ:
			exitErr = m.execRead(insn)
		case WRITE:
			exitErr = m.execWrite(insn)
		case DPRINT:
			exitErr = m.execDprint(insn)
		case BREAK:
			m.printBreak(insn.Order)

		case JUMP:
			target, err := m.resolveLabel(labels, insn.Args[0])
			if err != nil {
				exitErr = err
				break
			}
			jumpTo, jumped = target, true
		case JUMPIFEQ, JUMPIFNEQ:
			var target uint64
			var take bool
			if target, take, exitErr = m.execJumpIf(insn, labels); exitErr == nil && take {
				jumpTo, jumped = target, true
			}

		case EXIT:
			exitErr = m.execExit(insn)

		case TYPE:
			exitErr = m.execType(insn)

		default:
			exitErr = status.New(status.Internal, "unhandled opcode %s at order %d", insn.Opcode, insn.Order)
		}

		if exitErr != nil {
			return exitErr
		}

		if jumped {
			insn, ok = prog.Seek(jumpTo)
		} else {
			insn, ok = prog.Seek(next)
		}
	}
	return nil
}

func (m *Machine) resolveLabel(labels Labels, op Operand) (uint64, error) {
	target, ok := labels[op.Text]
	if !ok {
		return 0, status.New(status.Semantic, "undefined label %q", op.Text)
	}
	return target, nil
}

// resolve produces the runtime value.Value denoted by a symb operand: a
// variable is loaded (failing MissingValue on Uninit), a literal is
// converted from its textual form per spec.md §4.4 (failing InvalidXML if
// that text is malformed).
func (m *Machine) resolve(op Operand) (value.Value, error) {
	switch op.Kind {
	case KindVar:
		return m.mem.LoadValue(op.Text)
	case KindInt:
		n, err := value.ParseInt(op.Text)
		if err != nil {
			return nil, status.New(status.InvalidXML, "%v", err)
		}
		return n, nil
	case KindString:
		s, err := value.ParseString(op.Text)
		if err != nil {
			return nil, status.New(status.InvalidXML, "%v", err)
		}
		return s, nil
	case KindBool:
		return value.ParseBool(op.Text), nil
	case KindNil:
		return value.Nil, nil
	default:
		return nil, status.New(status.Internal, "operand %q is not a symbol", op.Text)
	}
}

func (m *Machine) execMove(insn Instruction) error {
	v, err := m.resolve(insn.Args[1])
	if err != nil {
		return err
	}
	return m.mem.Store(insn.Args[0].Text, v)
}

func (m *Machine) execPushs(insn Instruction) error {
	v, err := m.resolve(insn.Args[0])
	if err != nil {
		return err
	}
	m.mem.PushOperand(v)
	return nil
}

func (m *Machine) execPops(insn Instruction) error {
	v, err := m.mem.PopOperand()
	if err != nil {
		return err
	}
	return m.mem.Store(insn.Args[0].Text, v)
}

func (m *Machine) binaryOperands(insn Instruction) (value.Value, value.Value, error) {
	x, err := m.resolve(insn.Args[1])
	if err != nil {
		return nil, nil, err
	}
	y, err := m.resolve(insn.Args[2])
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func (m *Machine) execArith(insn Instruction) error {
	x, y, err := m.binaryOperands(insn)
	if err != nil {
		return err
	}
	res, err := value.Arith(insn.Opcode.String(), x, y)
	if err != nil {
		return err
	}
	return m.mem.Store(insn.Args[0].Text, res)
}

func (m *Machine) execCompare(insn Instruction) error {
	x, y, err := m.binaryOperands(insn)
	if err != nil {
		return err
	}
	res, err := value.Compare(insn.Opcode.String(), x, y)
	if err != nil {
		return err
	}
	return m.mem.Store(insn.Args[0].Text, res)
}

func (m *Machine) execLogical(insn Instruction) error {
	if insn.Opcode == NOT {
		x, err := m.resolve(insn.Args[1])
		if err != nil {
			return err
		}
		res, err := value.Logical("NOT", x, x)
		if err != nil {
			return err
		}
		return m.mem.Store(insn.Args[0].Text, res)
	}
	x, y, err := m.binaryOperands(insn)
	if err != nil {
		return err
	}
	res, err := value.Logical(insn.Opcode.String(), x, y)
	if err != nil {
		return err
	}
	return m.mem.Store(insn.Args[0].Text, res)
}

func (m *Machine) execInt2Char(insn Instruction) error {
	symb, err := m.resolve(insn.Args[1])
	if err != nil {
		return err
	}
	res, err := value.Int2Char(symb)
	if err != nil {
		return err
	}
	return m.mem.Store(insn.Args[0].Text, res)
}

func (m *Machine) execStri2Int(insn Instruction) error {
	s, idx, err := m.binaryOperands(insn)
	if err != nil {
		return err
	}
	res, err := value.Stri2Int(s, idx)
	if err != nil {
		return err
	}
	return m.mem.Store(insn.Args[0].Text, res)
}

func (m *Machine) execConcat(insn Instruction) error {
	a, b, err := m.binaryOperands(insn)
	if err != nil {
		return err
	}
	res, err := value.Concat(a, b)
	if err != nil {
		return err
	}
	return m.mem.Store(insn.Args[0].Text, res)
}

func (m *Machine) execStrlen(insn Instruction) error {
	s, err := m.resolve(insn.Args[1])
	if err != nil {
		return err
	}
	res, err := value.Strlen(s)
	if err != nil {
		return err
	}
	return m.mem.Store(insn.Args[0].Text, res)
}

func (m *Machine) execGetChar(insn Instruction) error {
	s, idx, err := m.binaryOperands(insn)
	if err != nil {
		return err
	}
	res, err := value.GetChar(s, idx)
	if err != nil {
		return err
	}
	return m.mem.Store(insn.Args[0].Text, res)
}

func (m *Machine) execSetChar(insn Instruction) error {
	dst, err := m.mem.LoadValue(insn.Args[0].Text)
	if err != nil {
		return err
	}
	idx, src, err := m.binaryOperands(insn)
	if err != nil {
		return err
	}
	res, err := value.SetChar(dst, idx, src)
	if err != nil {
		return err
	}
	return m.mem.Store(insn.Args[0].Text, res)
}

func (m *Machine) execRead(insn Instruction) error {
	typ := insn.Args[1].Text
	line, ok := m.mem.ReadLine()
	var v value.Value = value.Nil
	if ok {
		switch typ {
		case "int":
			if parsed, err := value.ParseInt(line); err == nil {
				v = parsed
			}
		case "string":
			v = value.String(line)
		case "bool":
			// unlike a bool literal operand (exact "true"), READ coerces
			// case-insensitively against "true" (spec.md §4.7).
			v = value.Bool(strings.EqualFold(line, "true"))
		}
	}
	return m.mem.Store(insn.Args[0].Text, v)
}

func (m *Machine) execWrite(insn Instruction) error {
	v, err := m.resolve(insn.Args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(m.stdout(), writeForm(v))
	return nil
}

func (m *Machine) execDprint(insn Instruction) error {
	v, err := m.resolve(insn.Args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(m.stderr(), writeForm(v))
	return nil
}

// writeForm renders a value.Value for WRITE/DPRINT: Nil prints as the empty
// string, not the literal "nil", per spec.md §4.7.
func writeForm(v value.Value) string {
	if value.IsNil(v) {
		return ""
	}
	return v.String()
}

func (m *Machine) printBreak(order uint64) {
	fmt.Fprintf(m.stderr(), "BREAK at order %d: %d operand(s), %d call frame(s)\n",
		order, len(m.mem.operandStack), len(m.mem.lfs))
}

func (m *Machine) execJumpIf(insn Instruction, labels Labels) (uint64, bool, error) {
	x, y, err := m.binaryOperands(insn)
	if err != nil {
		return 0, false, err
	}
	eq, err := value.Compare("EQ", x, y)
	if err != nil {
		return 0, false, err
	}
	take := bool(eq)
	if insn.Opcode == JUMPIFNEQ {
		take = !take
	}
	if !take {
		return 0, false, nil
	}
	target, err := m.resolveLabel(labels, insn.Args[0])
	return target, true, err
}

func (m *Machine) execExit(insn Instruction) error {
	v, err := m.resolve(insn.Args[0])
	if err != nil {
		return err
	}
	code, ok := v.(value.Int)
	if !ok {
		return status.New(status.TypeMismatch, "EXIT: operand must be int, got %s", v.Type())
	}
	if code < 0 || code > 49 {
		return status.New(status.Value, "EXIT: code %d out of range 0-49", code)
	}
	return &status.Status{Code: status.Code(code), Msg: ""}
}

// execType implements TYPE: unlike every other opcode, an Uninit source
// variable is not an error here, it simply yields the empty string
// (spec.md §4.7), so a var operand is loaded with Load, not LoadValue.
func (m *Machine) execType(insn Instruction) error {
	arg := insn.Args[1]
	var v value.Value
	if arg.Kind == KindVar {
		loaded, err := m.mem.Load(arg.Text)
		if err != nil {
			return err
		}
		v = loaded
	} else {
		resolved, err := m.resolve(arg)
		if err != nil {
			return err
		}
		v = resolved
	}
	var typ string
	if v != nil {
		typ = v.Type()
	}
	return m.mem.Store(insn.Args[0].Text, value.String(typ))
}
