// Package status defines the closed set of terminal outcomes the
// interpreter can produce. Every execution of a program ends by reaching
// exactly one Status, which doubles as the process exit code.
package status

import "fmt"

// Code is one of the fixed exit codes an interpreter run can terminate
// with. The zero value is OK.
type Code int

const (
	OK            Code = 0
	MissingParam  Code = 10
	InputFile     Code = 11
	OutputFile    Code = 12
	Malformed     Code = 31
	InvalidXML    Code = 32
	Semantic      Code = 52
	TypeMismatch  Code = 53
	VarNotExist   Code = 54
	FrameNotExist Code = 55
	MissingValue  Code = 56
	Value         Code = 57
	String        Code = 58
	Internal      Code = 99
)

func (c Code) String() string {
	switch c {
	case OK:
		return "ok"
	case MissingParam:
		return "missing parameter"
	case InputFile:
		return "input file error"
	case OutputFile:
		return "output file error"
	case Malformed:
		return "malformed xml"
	case InvalidXML:
		return "invalid xml structure"
	case Semantic:
		return "semantic error"
	case TypeMismatch:
		return "type mismatch"
	case VarNotExist:
		return "variable does not exist"
	case FrameNotExist:
		return "frame does not exist"
	case MissingValue:
		return "missing value"
	case Value:
		return "invalid value"
	case String:
		return "string operation error"
	case Internal:
		return "internal error"
	default:
		return fmt.Sprintf("status(%d)", int(c))
	}
}

// Status is a terminal outcome: a Code plus a human-readable message. It
// implements error so every layer of the interpreter can return it as a
// plain Go error and have the code recovered at the process boundary with
// errors.As.
type Status struct {
	Code Code
	Msg  string
}

// New builds a Status with the given code and formatted message.
func New(c Code, format string, args ...interface{}) *Status {
	return &Status{Code: c, Msg: fmt.Sprintf(format, args...)}
}

func (s *Status) Error() string {
	if s.Msg == "" {
		return s.Code.String()
	}
	return s.Msg
}

// Is reports whether target is a *Status with the same Code, so errors.Is
// matches two Status values by code alone, ignoring their messages.
func (s *Status) Is(target error) bool {
	t, ok := target.(*Status)
	if !ok {
		return false
	}
	return s.Code == t.Code
}
