package positional

import (
	"math"
	"testing"

	"github.com/born-ml/walkthrough/internal/vecops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_PositionZero(t *testing.T) {
	// sin(0) = 0 on even indices, cos(0) = 1 on odd indices, scaled by 0.5.
	assert.Equal(t, vecops.Vector{0, 0.5, 0, 0.5, 0, 0.5}, Encode(0, 6))
}

func TestEncode_Formula(t *testing.T) {
	const d = 4
	pos := 3
	got := Encode(pos, d)
	require.Len(t, got, d)

	assert.InDelta(t, 0.5*math.Sin(3), got[0], 1e-12)
	assert.InDelta(t, 0.5*math.Cos(3), got[1], 1e-12)
	assert.InDelta(t, 0.5*math.Sin(3/math.Pow(10000, 4.0/4)), got[2], 1e-12)
	assert.InDelta(t, 0.5*math.Cos(3/math.Pow(10000, 4.0/4)), got[3], 1e-12)
}

func TestEncode_BoundedAndDeterministic(t *testing.T) {
	for _, d := range []int{2, 4, 6, 8, 10, 12} {
		for pos := 0; pos < 16; pos++ {
			v := Encode(pos, d)
			assert.Equal(t, v, Encode(pos, d))
			for _, x := range v {
				assert.LessOrEqual(t, math.Abs(x), Amplitude)
			}
		}
	}
}

func TestTable(t *testing.T) {
	codes := Table(3, 6)
	require.Len(t, codes, 3)
	for pos, c := range codes {
		assert.Equal(t, Encode(pos, 6), c)
	}
}

func TestApply(t *testing.T) {
	inputs := []vecops.Vector{{1, 1}, {2, 2}, {3, 3}}
	out, err := Apply(inputs)
	require.NoError(t, err)
	require.Len(t, out, 3)

	for pos := range inputs {
		code := Encode(pos, 2)
		for i := range out[pos] {
			assert.InDelta(t, inputs[pos][i]+code[i], out[pos][i], 1e-12)
		}
	}

	_, err = Apply([]vecops.Vector{{1, 1}, {1, 1, 1}})
	require.ErrorIs(t, err, vecops.ErrDimensionMismatch)

	out, err = Apply(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
