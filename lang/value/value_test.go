package value_test

import (
	"errors"
	"testing"

	"github.com/mna/ippcode23/lang/status"
	"github.com/mna/ippcode23/lang/value"
	"github.com/stretchr/testify/require"
)

func TestFormatting(t *testing.T) {
	require.Equal(t, "42", value.Int(42).String())
	require.Equal(t, "-7", value.Int(-7).String())
	require.Equal(t, "hello world", value.String("hello world").String())
	require.Equal(t, "true", value.True.String())
	require.Equal(t, "false", value.False.String())
	require.Equal(t, "", value.Nil.String())
}

func TestParseString(t *testing.T) {
	s, err := value.ParseString(`hello\032world`)
	require.NoError(t, err)
	require.Equal(t, value.String("hello world"), s)

	_, err = value.ParseString(`bad\0x`)
	require.Error(t, err)
}

func TestParseInt(t *testing.T) {
	n, err := value.ParseInt("+42")
	require.NoError(t, err)
	require.Equal(t, value.Int(42), n)

	n, err = value.ParseInt("-3")
	require.NoError(t, err)
	require.Equal(t, value.Int(-3), n)

	_, err = value.ParseInt("abc")
	require.Error(t, err)
}

func TestParseBool(t *testing.T) {
	require.Equal(t, value.True, value.ParseBool("true"))
	require.Equal(t, value.False, value.ParseBool("false"))
	require.Equal(t, value.False, value.ParseBool("garbage"))
}

func TestArith(t *testing.T) {
	r, err := value.Arith("ADD", value.Int(7), value.Int(3))
	require.NoError(t, err)
	require.Equal(t, value.Int(10), r)

	r, err = value.Arith("IDIV", value.Int(7), value.Int(2))
	require.NoError(t, err)
	require.Equal(t, value.Int(3), r)

	_, err = value.Arith("IDIV", value.Int(1), value.Int(0))
	requireStatus(t, err, status.Value)

	_, err = value.Arith("ADD", value.String("x"), value.Int(1))
	requireStatus(t, err, status.TypeMismatch)
}

func TestCompareNil(t *testing.T) {
	eq, err := value.Compare("EQ", value.Nil, value.Int(1))
	require.NoError(t, err)
	require.False(t, bool(eq))

	eq, err = value.Compare("EQ", value.Nil, value.Nil)
	require.NoError(t, err)
	require.True(t, bool(eq))

	_, err = value.Compare("LT", value.Nil, value.Int(1))
	requireStatus(t, err, status.TypeMismatch)
}

func TestCompareOrdering(t *testing.T) {
	lt, err := value.Compare("LT", value.String("abc"), value.String("abd"))
	require.NoError(t, err)
	require.True(t, bool(lt))

	lt, err = value.Compare("LT", value.False, value.True)
	require.NoError(t, err)
	require.True(t, bool(lt))

	_, err = value.Compare("LT", value.Int(1), value.String("1"))
	requireStatus(t, err, status.TypeMismatch)
}

func TestLogical(t *testing.T) {
	r, err := value.Logical("AND", value.True, value.False)
	require.NoError(t, err)
	require.False(t, bool(r))

	r, err = value.Logical("NOT", value.True, nil)
	require.NoError(t, err)
	require.False(t, bool(r))

	_, err = value.Logical("AND", value.Int(1), value.True)
	requireStatus(t, err, status.TypeMismatch)
}

func TestStringOps(t *testing.T) {
	c, err := value.Int2Char(value.Int(65))
	require.NoError(t, err)
	require.Equal(t, value.String("A"), c)

	_, err = value.Int2Char(value.Int(-1))
	requireStatus(t, err, status.String)

	n, err := value.Stri2Int(value.String("abc"), value.Int(1))
	require.NoError(t, err)
	require.Equal(t, value.Int('b'), n)

	_, err = value.Stri2Int(value.String("abc"), value.Int(5))
	requireStatus(t, err, status.String)

	s, err := value.Concat(value.String("foo"), value.String("bar"))
	require.NoError(t, err)
	require.Equal(t, value.String("foobar"), s)

	l, err := value.Strlen(value.String("hello"))
	require.NoError(t, err)
	require.Equal(t, value.Int(5), l)

	g, err := value.GetChar(value.String("hello"), value.Int(1))
	require.NoError(t, err)
	require.Equal(t, value.String("e"), g)

	set, err := value.SetChar(value.String("hello"), value.Int(0), value.String("H"))
	require.NoError(t, err)
	require.Equal(t, value.String("Hello"), set)

	_, err = value.SetChar(value.String("hello"), value.Int(0), value.String(""))
	requireStatus(t, err, status.String)
}

func requireStatus(t *testing.T, err error, code status.Code) {
	t.Helper()
	require.Error(t, err)
	var st *status.Status
	require.True(t, errors.As(err, &st))
	require.Equal(t, code, st.Code)
}
