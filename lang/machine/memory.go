package machine

import (
	"bufio"
	"strings"

	"github.com/mna/ippcode23/lang/status"
	"github.com/mna/ippcode23/lang/value"
)

// Memory is the aggregate store spec.md §3 describes: one permanent global
// frame, at most one temporary frame, a LIFO stack of local frames, an
// operand stack, a call stack of return orders, and the input queue READ
// consumes from. It replaces the teacher's per-Thread bytecode stack
// machinery (locals/freevars/cells) with exactly the pieces IPPcode23
// needs, per spec.md §9's "single Machine aggregate" design note.
type Memory struct {
	global *Frame
	temp   *Frame // nil when absent
	lfs    []*Frame

	operandStack []value.Value
	callStack    []uint64

	input *bufio.Scanner
}

// NewMemory returns a Memory with a fresh global frame, no temporary
// frame, and input read line-by-line from input (either the opened --input
// file or, for interactive reads, os.Stdin, per spec.md §6).
func NewMemory(input *bufio.Scanner) *Memory {
	return &Memory{
		global: NewFrame(),
		input:  input,
	}
}

// CreateFrame implements CREATEFRAME: replaces TF unconditionally with a
// fresh, empty frame (spec.md §4.7).
func (m *Memory) CreateFrame() {
	m.temp = NewFrame()
}

// PushFrame implements PUSHFRAME: requires TF, moves it onto the LF stack,
// and clears TF (spec.md §4.7).
func (m *Memory) PushFrame() error {
	if m.temp == nil {
		return status.New(status.FrameNotExist, "PUSHFRAME: no temporary frame")
	}
	m.lfs = append(m.lfs, m.temp)
	m.temp = nil
	return nil
}

// PopFrame implements POPFRAME: requires a non-empty LF stack, pops its
// top into TF (spec.md §4.7).
func (m *Memory) PopFrame() error {
	if len(m.lfs) == 0 {
		return status.New(status.FrameNotExist, "POPFRAME: local frame stack is empty")
	}
	n := len(m.lfs) - 1
	m.temp = m.lfs[n]
	m.lfs = m.lfs[:n]
	return nil
}

// frameFor resolves a qualified name's prefix to the Frame it addresses,
// per spec.md §4.3.
func (m *Memory) frameFor(qualified string) (*Frame, string, error) {
	prefix, name, ok := splitQualified(qualified)
	if !ok {
		return nil, "", status.New(status.Internal, "malformed variable name %q", qualified)
	}
	switch prefix {
	case "GF":
		return m.global, name, nil
	case "TF":
		if m.temp == nil {
			return nil, "", status.New(status.FrameNotExist, "temporary frame does not exist")
		}
		return m.temp, name, nil
	case "LF":
		if len(m.lfs) == 0 {
			return nil, "", status.New(status.FrameNotExist, "local frame stack is empty")
		}
		return m.lfs[len(m.lfs)-1], name, nil
	default:
		return nil, "", status.New(status.Internal, "unknown frame prefix %q", prefix)
	}
}

func splitQualified(qualified string) (prefix, name string, ok bool) {
	i := strings.IndexByte(qualified, '@')
	if i < 0 {
		return "", "", false
	}
	return qualified[:i], qualified[i+1:], true
}

// Declare implements DEFVAR's frame-insertion half.
func (m *Memory) Declare(qualified string) error {
	f, name, err := m.frameFor(qualified)
	if err != nil {
		return err
	}
	return f.Declare(name)
}

// Load resolves a qualified variable name to its current value, which is
// nil for an Uninit cell. Callers that cannot tolerate Uninit should use
// LoadValue instead.
func (m *Memory) Load(qualified string) (value.Value, error) {
	f, name, err := m.frameFor(qualified)
	if err != nil {
		return nil, err
	}
	return f.Get(name)
}

// LoadValue resolves a qualified variable name and fails MissingValue if
// the cell is Uninit, per spec.md §4.3/§4.4.
func (m *Memory) LoadValue(qualified string) (value.Value, error) {
	v, err := m.Load(qualified)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, status.New(status.MissingValue, "%s has no value", qualified)
	}
	return v, nil
}

// Store implements a variable assignment (MOVE and friends' destination
// write), per spec.md §4.2.
func (m *Memory) Store(qualified string, v value.Value) error {
	f, name, err := m.frameFor(qualified)
	if err != nil {
		return err
	}
	return f.Set(name, v)
}

// PushOperand implements PUSHS.
func (m *Memory) PushOperand(v value.Value) {
	m.operandStack = append(m.operandStack, v)
}

// PopOperand implements POPS; fails MissingValue on an empty stack
// (spec.md §7).
func (m *Memory) PopOperand() (value.Value, error) {
	if len(m.operandStack) == 0 {
		return nil, status.New(status.MissingValue, "POPS: operand stack is empty")
	}
	n := len(m.operandStack) - 1
	v := m.operandStack[n]
	m.operandStack = m.operandStack[:n]
	return v, nil
}

// PushCall implements CALL's return-address push.
func (m *Memory) PushCall(returnOrder uint64) {
	m.callStack = append(m.callStack, returnOrder)
}

// PopCall implements RETURN; fails MissingValue on an empty call stack
// (spec.md §7).
func (m *Memory) PopCall() (uint64, error) {
	if len(m.callStack) == 0 {
		return 0, status.New(status.MissingValue, "RETURN: call stack is empty")
	}
	n := len(m.callStack) - 1
	order := m.callStack[n]
	m.callStack = m.callStack[:n]
	return order, nil
}

// ReadLine implements READ's line consumption: it returns ("", false) once
// the input queue is exhausted, in which case READ always yields Nil
// regardless of the declared type (spec.md §4.7, §9).
func (m *Memory) ReadLine() (string, bool) {
	if m.input == nil || !m.input.Scan() {
		return "", false
	}
	return m.input.Text(), true
}
