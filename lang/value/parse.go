package value

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseInt parses a decimal integer operand, accepting a leading sign, per
// spec.md §4.1.
func ParseInt(text string) (Int, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed int literal %q", text)
	}
	return Int(n), nil
}

// ParseBool parses a bool operand: the literal text "true" yields True,
// anything else yields False, per spec.md §4.1.
func ParseBool(text string) Bool {
	return Bool(text == "true")
}

// ParseNilLiteral validates a nil operand: spec.md §4.1 requires the text
// to be exactly "nil".
func ParseNilLiteral(text string) error {
	if text != "nil" {
		return fmt.Errorf("malformed nil literal %q", text)
	}
	return nil
}

// ParseString decodes the \DDD escapes (three decimal digits, encoding a
// code point) used in string operands and WRITE/PUSHS string literals, per
// spec.md §4.1. Any other backslash sequence is invalid.
func ParseString(text string) (String, error) {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+3 >= len(text) {
			return "", fmt.Errorf("truncated escape sequence in %q", text)
		}
		digits := text[i+1 : i+4]
		if strings.Trim(digits, "0123456789") != "" {
			return "", fmt.Errorf("invalid escape sequence \\%s in %q", digits, text)
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return "", fmt.Errorf("invalid escape sequence \\%s in %q", digits, text)
		}
		b.WriteRune(rune(n))
		i += 3
	}
	return String(b.String()), nil
}
