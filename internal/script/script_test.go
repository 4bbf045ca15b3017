package script

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvaluateBool(t *testing.T) {
	ctx := Context{"temperature": float64(21.5), "cycles": int64(3)}

	ok, err := EvaluateBool("temperature < 23.0", ctx)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = EvaluateBool("cycles >= 5", ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestEvaluateBoolEmptyScript(t *testing.T) {
	ok, err := EvaluateBool("   ", Context{})
	require.NoError(t, err)
	require.True(t, ok)
}

func TestEvaluateBoolRejectsNonBool(t *testing.T) {
	_, err := EvaluateBool("1 + 2", Context{})
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "error while executing script"))
}

func TestEvaluate(t *testing.T) {
	ctx := Context{"base": int64(40)}

	out, err := Evaluate("base + 2", ctx)
	require.NoError(t, err)
	require.EqualValues(t, 42, out)

	out, err = Evaluate("", ctx)
	require.NoError(t, err)
	require.Nil(t, out)
}

func TestEvaluateBadScript(t *testing.T) {
	_, err := Evaluate("1 +", Context{})
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "error while executing script"))
}

func TestCheckVariableName(t *testing.T) {
	require.NoError(t, CheckVariableName("heater_on"))
	require.NoError(t, CheckVariableName("T1"))

	require.Error(t, CheckVariableName(""))
	require.Error(t, CheckVariableName("1abc"))
	require.Error(t, CheckVariableName("_private"))
	require.Error(t, CheckVariableName("has space"))
	require.Error(t, CheckVariableName(strings.Repeat("a", 65)))
}

func TestCheckValue(t *testing.T) {
	require.NoError(t, CheckValue(int64(1)))
	require.NoError(t, CheckValue(2.5))
	require.NoError(t, CheckValue("text"))
	require.NoError(t, CheckValue(true))

	require.Error(t, CheckValue([]string{"no"}))
	require.Error(t, CheckValue(map[string]int{}))
}

func TestNormalizeValue(t *testing.T) {
	v, err := NormalizeValue(2)
	require.NoError(t, err)
	require.Equal(t, int64(2), v)

	v, err = NormalizeValue(float32(1.5))
	require.NoError(t, err)
	require.Equal(t, float64(1.5), v)

	v, err = NormalizeValue(int64(7))
	require.NoError(t, err)
	require.Equal(t, int64(7), v)

	v, err = NormalizeValue("text")
	require.NoError(t, err)
	require.Equal(t, "text", v)

	_, err = NormalizeValue([]int{1})
	require.Error(t, err)
}

func TestContextClone(t *testing.T) {
	ctx := Context{"a": int64(1)}
	clone := ctx.Clone()
	clone["a"] = int64(2)

	require.EqualValues(t, 1, ctx["a"])
	require.EqualValues(t, 2, clone["a"])
}
