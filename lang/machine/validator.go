package machine

import "github.com/mna/ippcode23/lang/status"

// argClass is the shape a single operand position must satisfy, per
// spec.md §4.5.
type argClass uint8

const (
	classVar   argClass = iota // exactly kind var
	classSymb                  // var, int, string, bool or nil
	classLabel                 // exactly kind label
	classType                  // exactly kind type
)

// signatures maps each Opcode to its required operand classes, in order.
// This is the Validator's whole job (spec.md §4.5): argument count and
// per-position kind, checked once over the decoded stream before any
// label indexing or execution happens.
var signatures = map[Opcode][]argClass{
	MOVE:        {classVar, classSymb},
	CREATEFRAME: {},
	PUSHFRAME:   {},
	POPFRAME:    {},
	DEFVAR:      {classVar},
	CALL:        {classLabel},
	RETURN:      {},

	PUSHS: {classSymb},
	POPS:  {classVar},

	ADD:  {classVar, classSymb, classSymb},
	SUB:  {classVar, classSymb, classSymb},
	MUL:  {classVar, classSymb, classSymb},
	IDIV: {classVar, classSymb, classSymb},

	LT: {classVar, classSymb, classSymb},
	GT: {classVar, classSymb, classSymb},
	EQ: {classVar, classSymb, classSymb},

	AND: {classVar, classSymb, classSymb},
	OR:  {classVar, classSymb, classSymb},
	NOT: {classVar, classSymb},

	INT2CHAR: {classVar, classSymb},
	STRI2INT: {classVar, classSymb, classSymb},
	CONCAT:   {classVar, classSymb, classSymb},
	STRLEN:   {classVar, classSymb},
	GETCHAR:  {classVar, classSymb, classSymb},
	SETCHAR:  {classVar, classSymb, classSymb},

	READ:   {classVar, classType},
	WRITE:  {classSymb},
	DPRINT: {classSymb},
	BREAK:  {},

	LABEL:     {classLabel},
	JUMP:      {classLabel},
	JUMPIFEQ:  {classLabel, classSymb, classSymb},
	JUMPIFNEQ: {classLabel, classSymb, classSymb},

	EXIT: {classSymb},
	TYPE: {classVar, classSymb},
}

// symbKinds is the set of operand Kinds a classSymb position accepts.
var symbKinds = map[Kind]bool{
	KindVar:    true,
	KindInt:    true,
	KindString: true,
	KindBool:   true,
	KindNil:    true,
}

// Validate checks every instruction's argument count and per-position kind
// against its opcode's signature (spec.md §4.5). It does not check label
// existence (that's a SEMANTIC concern resolved by BuildLabels/Machine.Run
// against the fully-collected label table) nor operand values (those are
// runtime concerns). READ's second argument is additionally restricted to
// the type tokens "int", "string" or "bool".
func Validate(prog *Program) error {
	for _, insn := range prog.All() {
		sig, ok := signatures[insn.Opcode]
		if !ok {
			return status.New(status.InvalidXML, "order %d: unknown opcode %s", insn.Order, insn.Opcode)
		}
		if len(insn.Args) != len(sig) {
			return status.New(status.InvalidXML, "order %d: %s expects %d argument(s), got %d",
				insn.Order, insn.Opcode, len(sig), len(insn.Args))
		}
		for i, class := range sig {
			arg := insn.Args[i]
			switch class {
			case classVar:
				if arg.Kind != KindVar {
					return status.New(status.InvalidXML, "order %d: %s argument %d must be a variable, got %s",
						insn.Order, insn.Opcode, i+1, arg.Kind)
				}
			case classLabel:
				if arg.Kind != KindLabel {
					return status.New(status.InvalidXML, "order %d: %s argument %d must be a label, got %s",
						insn.Order, insn.Opcode, i+1, arg.Kind)
				}
			case classType:
				if arg.Kind != KindType {
					return status.New(status.InvalidXML, "order %d: %s argument %d must be a type, got %s",
						insn.Order, insn.Opcode, i+1, arg.Kind)
				}
				if arg.Text != "int" && arg.Text != "string" && arg.Text != "bool" {
					return status.New(status.InvalidXML, "order %d: %s argument %d has invalid type %q",
						insn.Order, insn.Opcode, i+1, arg.Text)
				}
			case classSymb:
				if !symbKinds[arg.Kind] {
					return status.New(status.InvalidXML, "order %d: %s argument %d must be a variable or literal, got %s",
						insn.Order, insn.Opcode, i+1, arg.Kind)
				}
			}
		}
	}
	return nil
}
