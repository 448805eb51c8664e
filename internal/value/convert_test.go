package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToNumberStringWhitespace(t *testing.T) {
	cases := map[string]float64{
		"":        0,
		"  \t\n":  0,
		"  42 ":   42,
		"-3.5":    -3.5,
		"Infinity": math.Inf(1),
	}
	for in, want := range cases {
		got, err := ToNumber(NewString(in))
		require.NoError(t, err)
		if math.IsNaN(want) {
			assert.True(t, math.IsNaN(float64(got)))
		} else {
			assert.Equal(t, want, float64(got), "ToNumber(%q)", in)
		}
	}
}

func TestToIntegerEdgeCases(t *testing.T) {
	nan, _ := ToInteger(Number(math.NaN()))
	assert.Equal(t, Number(0), nan)

	posInf, _ := ToInteger(Number(math.Inf(1)))
	assert.True(t, math.IsInf(float64(posInf), 1))

	trunc, _ := ToInteger(Number(-4.9))
	assert.Equal(t, Number(-4), trunc)
}

func TestToInt32RoundTrip(t *testing.T) {
	for _, f := range []float64{0, 1, -1, 4294967295, 4294967296, -4294967297, 123456789.75} {
		u, err := ToUint32(Number(f))
		require.NoError(t, err)
		i, err := ToInt32(Number(f))
		require.NoError(t, err)
		assert.Equal(t, int32(u), i)
	}
}

func TestNumberToStringFormatting(t *testing.T) {
	cases := map[float64]string{
		0:         "0",
		3:         "3",
		3.5:       "3.5",
		100:       "100",
		0.0001:    "0.0001",
		0.0000001: "1e-7",
		1e21:      "1e+21",
		1e20:      "100000000000000000000",
	}
	for in, want := range cases {
		assert.Equal(t, want, NumberToString(Number(in)), "NumberToString(%v)", in)
	}
	assert.Equal(t, "NaN", NumberToString(Number(math.NaN())))
	assert.Equal(t, "Infinity", NumberToString(Number(math.Inf(1))))
	assert.Equal(t, "-Infinity", NumberToString(Number(math.Inf(-1))))
}

func TestAbstractEquality(t *testing.T) {
	eq, err := AbstractEquals(Null, Undefined)
	require.NoError(t, err)
	assert.True(t, eq)

	seq := StrictEquals(Null, Undefined)
	assert.False(t, seq)

	eq, err = AbstractEquals(NewString("1"), Number(1))
	require.NoError(t, err)
	assert.True(t, eq)

	assert.False(t, StrictEquals(Number(math.NaN()), Number(math.NaN())))
}

func TestLessThanStringVsNumeric(t *testing.T) {
	r, err := LessThan(NewString("10"), NewString("9"))
	require.NoError(t, err)
	assert.Equal(t, RelTrue, r)

	r, err = LessThan(Number(10), Number(9))
	require.NoError(t, err)
	assert.Equal(t, RelFalse, r)

	r, err = LessThan(Number(math.NaN()), Number(1))
	require.NoError(t, err)
	assert.Equal(t, RelUndefined, r)
	assert.False(t, r.AsBool())
}
