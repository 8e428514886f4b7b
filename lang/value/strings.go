package value

import (
	"unicode/utf8"

	"github.com/mna/ippcode23/lang/status"
)

// Int2Char implements INT2CHAR: symb must be Int, and its value must be a
// valid Unicode code point, per spec.md §4.7. Out-of-range code points are
// a String error (58), not a TypeMismatch.
func Int2Char(symb Value) (String, error) {
	i, ok := symb.(Int)
	if !ok {
		return "", status.New(status.TypeMismatch, "INT2CHAR: expected int operand, got %s", symb.Type())
	}
	r := rune(i)
	if i < 0 || i > utf8.MaxRune || !utf8.ValidRune(r) {
		return "", status.New(status.String, "INT2CHAR: %d is not a valid code point", int64(i))
	}
	return String(r), nil
}

// Stri2Int implements STRI2INT: s must be String, idx must be Int and in
// range [0, len(s)) counted in code points (runes), per spec.md §4.7.
func Stri2Int(s, idx Value) (Int, error) {
	str, ok := s.(String)
	if !ok {
		return 0, status.New(status.TypeMismatch, "STRI2INT: expected string operand, got %s", s.Type())
	}
	i, ok := idx.(Int)
	if !ok {
		return 0, status.New(status.TypeMismatch, "STRI2INT: expected int index, got %s", idx.Type())
	}
	runes := []rune(string(str))
	if i < 0 || int(i) >= len(runes) {
		return 0, status.New(status.String, "STRI2INT: index %d out of range", int64(i))
	}
	return Int(runes[i]), nil
}

// Concat implements CONCAT: both operands must be String.
func Concat(a, b Value) (String, error) {
	as, ok := a.(String)
	if !ok {
		return "", status.New(status.TypeMismatch, "CONCAT: expected string operand, got %s", a.Type())
	}
	bs, ok := b.(String)
	if !ok {
		return "", status.New(status.TypeMismatch, "CONCAT: expected string operand, got %s", b.Type())
	}
	return as + bs, nil
}

// Strlen implements STRLEN: s must be String; the result counts code
// points, matching the granularity Stri2Int/GetChar/SetChar index by.
func Strlen(s Value) (Int, error) {
	str, ok := s.(String)
	if !ok {
		return 0, status.New(status.TypeMismatch, "STRLEN: expected string operand, got %s", s.Type())
	}
	return Int(utf8.RuneCountInString(string(str))), nil
}

// GetChar implements GETCHAR: same bounds as Stri2Int, returns a
// one-code-point String.
func GetChar(s, idx Value) (String, error) {
	str, ok := s.(String)
	if !ok {
		return "", status.New(status.TypeMismatch, "GETCHAR: expected string operand, got %s", s.Type())
	}
	i, ok := idx.(Int)
	if !ok {
		return "", status.New(status.TypeMismatch, "GETCHAR: expected int index, got %s", idx.Type())
	}
	runes := []rune(string(str))
	if i < 0 || int(i) >= len(runes) {
		return "", status.New(status.String, "GETCHAR: index %d out of range", int64(i))
	}
	return String(runes[i]), nil
}

// SetChar implements SETCHAR: dst must be String (the current value of the
// destination variable), idx must be Int in [0, len(dst)), src must be a
// non-empty String whose first code point replaces position idx. Returns
// the new String to store back into the destination variable.
func SetChar(dst, idx, src Value) (String, error) {
	dstr, ok := dst.(String)
	if !ok {
		return "", status.New(status.TypeMismatch, "SETCHAR: destination does not hold a string, got %s", dst.Type())
	}
	i, ok := idx.(Int)
	if !ok {
		return "", status.New(status.TypeMismatch, "SETCHAR: expected int index, got %s", idx.Type())
	}
	srcs, ok := src.(String)
	if !ok {
		return "", status.New(status.TypeMismatch, "SETCHAR: expected string source, got %s", src.Type())
	}
	if srcs == "" {
		return "", status.New(status.String, "SETCHAR: replacement string is empty")
	}

	runes := []rune(string(dstr))
	if i < 0 || int(i) >= len(runes) {
		return "", status.New(status.String, "SETCHAR: index %d out of range", int64(i))
	}
	srcRunes := []rune(string(srcs))
	runes[i] = srcRunes[0]
	return String(runes), nil
}
