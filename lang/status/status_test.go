package status_test

import (
	"errors"
	"testing"

	"github.com/mna/ippcode23/lang/status"
	"github.com/stretchr/testify/require"
)

func TestStatusIsError(t *testing.T) {
	var err error = status.New(status.Value, "idiv by zero at order %d", 3)
	require.EqualError(t, err, "idiv by zero at order 3")

	var st *status.Status
	require.True(t, errors.As(err, &st))
	require.Equal(t, status.Value, st.Code)
}

func TestStatusIsComparesCode(t *testing.T) {
	a := status.New(status.VarNotExist, "GF@x")
	b := status.New(status.VarNotExist, "TF@y")
	require.True(t, errors.Is(a, b))
	require.False(t, errors.Is(a, status.New(status.Semantic, "")))
}

func TestCodeString(t *testing.T) {
	require.Equal(t, "invalid value", status.Value.String())
	require.Contains(t, status.Code(7).String(), "7")
}
