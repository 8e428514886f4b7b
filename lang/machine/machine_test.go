package machine

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/ippcode23/lang/status"
)

func varOp(text string) Operand  { return Operand{Kind: KindVar, Text: text} }
func intOp(text string) Operand  { return Operand{Kind: KindInt, Text: text} }
func strOp(text string) Operand  { return Operand{Kind: KindString, Text: text} }
func lblOp(text string) Operand  { return Operand{Kind: KindLabel, Text: text} }
func typeOp(text string) Operand { return Operand{Kind: KindType, Text: text} }

func runProgram(t *testing.T, insns []Instruction, input string) (*Machine, *bytes.Buffer, error) {
	t.Helper()
	prog := NewProgram(insns)
	require.NoError(t, Validate(prog))
	labels, err := BuildLabels(prog)
	require.NoError(t, err)

	var out bytes.Buffer
	m := NewMachine(strings.NewReader(input))
	m.Stdout = &out
	err = m.Run(prog, labels)
	return m, &out, err
}

func TestMoveAndWrite(t *testing.T) {
	insns := []Instruction{
		{Order: 1, Opcode: DEFVAR, Args: []Operand{varOp("GF@x")}},
		{Order: 2, Opcode: MOVE, Args: []Operand{varOp("GF@x"), intOp("42")}},
		{Order: 3, Opcode: WRITE, Args: []Operand{varOp("GF@x")}},
	}
	_, out, err := runProgram(t, insns, "")
	require.NoError(t, err)
	assert.Equal(t, "42", out.String())
}

func TestArithAndIDivByZero(t *testing.T) {
	insns := []Instruction{
		{Order: 1, Opcode: DEFVAR, Args: []Operand{varOp("GF@r")}},
		{Order: 2, Opcode: IDIV, Args: []Operand{varOp("GF@r"), intOp("10"), intOp("0")}},
	}
	_, _, err := runProgram(t, insns, "")
	var st *status.Status
	require.ErrorAs(t, err, &st)
	assert.Equal(t, status.Value, st.Code)
}

func TestFramesAndCallReturn(t *testing.T) {
	insns := []Instruction{
		{Order: 1, Opcode: DEFVAR, Args: []Operand{varOp("GF@out")}},
		{Order: 2, Opcode: CALL, Args: []Operand{lblOp("sub")}},
		{Order: 3, Opcode: WRITE, Args: []Operand{varOp("GF@out")}},
		{Order: 4, Opcode: JUMP, Args: []Operand{lblOp("end")}},

		{Order: 10, Opcode: LABEL, Args: []Operand{lblOp("sub")}},
		{Order: 11, Opcode: CREATEFRAME},
		{Order: 12, Opcode: PUSHFRAME},
		{Order: 13, Opcode: DEFVAR, Args: []Operand{varOp("LF@tmp")}},
		{Order: 14, Opcode: MOVE, Args: []Operand{varOp("LF@tmp"), strOp("hi")}},
		{Order: 15, Opcode: MOVE, Args: []Operand{varOp("GF@out"), varOp("LF@tmp")}},
		{Order: 16, Opcode: POPFRAME},
		{Order: 17, Opcode: RETURN},

		{Order: 30, Opcode: LABEL, Args: []Operand{lblOp("end")}},
	}
	_, out, err := runProgram(t, insns, "")
	require.NoError(t, err)
	assert.Equal(t, "hi", out.String())
}

func TestReadExhaustedYieldsNil(t *testing.T) {
	insns := []Instruction{
		{Order: 1, Opcode: DEFVAR, Args: []Operand{varOp("GF@x")}},
		{Order: 2, Opcode: READ, Args: []Operand{varOp("GF@x"), typeOp("int")}},
		{Order: 3, Opcode: DEFVAR, Args: []Operand{varOp("GF@t")}},
		{Order: 4, Opcode: TYPE, Args: []Operand{varOp("GF@t"), varOp("GF@x")}},
		{Order: 5, Opcode: WRITE, Args: []Operand{varOp("GF@t")}},
	}
	_, out, err := runProgram(t, insns, "")
	require.NoError(t, err)
	assert.Equal(t, "nil", out.String())
}

func TestTypeOfUninitIsEmptyString(t *testing.T) {
	insns := []Instruction{
		{Order: 1, Opcode: DEFVAR, Args: []Operand{varOp("GF@x")}},
		{Order: 2, Opcode: DEFVAR, Args: []Operand{varOp("GF@t")}},
		{Order: 3, Opcode: TYPE, Args: []Operand{varOp("GF@t"), varOp("GF@x")}},
		{Order: 4, Opcode: WRITE, Args: []Operand{varOp("GF@t")}},
	}
	_, out, err := runProgram(t, insns, "")
	require.NoError(t, err)
	assert.Equal(t, "", out.String())
}

func TestReadBoolIsCaseInsensitive(t *testing.T) {
	insns := []Instruction{
		{Order: 1, Opcode: DEFVAR, Args: []Operand{varOp("GF@x")}},
		{Order: 2, Opcode: READ, Args: []Operand{varOp("GF@x"), typeOp("bool")}},
		{Order: 3, Opcode: WRITE, Args: []Operand{varOp("GF@x")}},
	}
	_, out, err := runProgram(t, insns, "TRUE")
	require.NoError(t, err)
	assert.Equal(t, "true", out.String())
}

func TestJumpIfEqGapSkipping(t *testing.T) {
	insns := []Instruction{
		{Order: 1, Opcode: JUMPIFEQ, Args: []Operand{lblOp("skip"), intOp("1"), intOp("1")}},
		{Order: 5, Opcode: DEFVAR, Args: []Operand{varOp("GF@x")}},
		{Order: 100, Opcode: LABEL, Args: []Operand{lblOp("skip")}},
		{Order: 101, Opcode: DEFVAR, Args: []Operand{varOp("GF@y")}},
		{Order: 102, Opcode: MOVE, Args: []Operand{varOp("GF@y"), intOp("7")}},
		{Order: 103, Opcode: WRITE, Args: []Operand{varOp("GF@y")}},
	}
	_, out, err := runProgram(t, insns, "")
	require.NoError(t, err)
	assert.Equal(t, "7", out.String())
}

func TestExitStatusPropagates(t *testing.T) {
	insns := []Instruction{
		{Order: 1, Opcode: EXIT, Args: []Operand{intOp("3")}},
	}
	_, _, err := runProgram(t, insns, "")
	var st *status.Status
	require.ErrorAs(t, err, &st)
	assert.Equal(t, status.Code(3), st.Code)
}

func TestExitOutOfRange(t *testing.T) {
	insns := []Instruction{
		{Order: 1, Opcode: EXIT, Args: []Operand{intOp("50")}},
	}
	_, _, err := runProgram(t, insns, "")
	var st *status.Status
	require.ErrorAs(t, err, &st)
	assert.Equal(t, status.Value, st.Code)
}

func TestUndefinedLabelIsSemanticError(t *testing.T) {
	insns := []Instruction{
		{Order: 1, Opcode: JUMP, Args: []Operand{lblOp("nowhere")}},
	}
	_, _, err := runProgram(t, insns, "")
	var st *status.Status
	require.ErrorAs(t, err, &st)
	assert.Equal(t, status.Semantic, st.Code)
}
