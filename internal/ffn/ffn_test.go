package ffn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/walkthrough/internal/vecops"
	"github.com/born-ml/walkthrough/internal/weights"
)

func TestForward_HandComputed(t *testing.T) {
	// dModel = 2, dFF = 3 for readability.
	w := Weights{
		Expand:   mat.NewDense(3, 2, []float64{1, 0, 0, 1, -1, -1}),
		Contract: mat.NewDense(2, 3, []float64{1, 1, 1, 0, 2, 0}),
	}

	r, err := Forward(vecops.Vector{2, -1}, w)
	require.NoError(t, err)

	// W1·x = [2, -1, -1] -> relu = [2, 0, 0]; W2·h = [2, 0]
	assert.Equal(t, vecops.Vector{2, 0, 0}, r.Hidden)
	assert.Equal(t, vecops.Vector{2, 0}, r.Output)
}

func TestForward_Shapes(t *testing.T) {
	p := weights.NewProvider(8)
	for _, d := range []int{2, 4, 6, 12} {
		w := NewWeights(p, d)
		r, c := w.Expand.Dims()
		assert.Equal(t, HiddenDim(d), r)
		assert.Equal(t, d, c)

		in := make(vecops.Vector, d)
		for i := range in {
			in[i] = float64(i) - 1.5
		}
		res, err := Forward(in, w)
		require.NoError(t, err)
		assert.Len(t, res.Hidden, 4*d)
		assert.Len(t, res.Output, d)
		for _, h := range res.Hidden {
			assert.GreaterOrEqual(t, h, 0.0)
		}
	}
}

func TestForward_DimensionMismatch(t *testing.T) {
	w := NewWeights(weights.NewProvider(1), 4)
	_, err := Forward(vecops.Vector{1, 2}, w)
	require.ErrorIs(t, err, vecops.ErrDimensionMismatch)
}

func TestAddNorm(t *testing.T) {
	got, err := AddNorm(vecops.Vector{1, 2, 3}, vecops.Vector{0, 0, 0})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-1.2247, 0, 1.2247}, got, 1e-3)

	got, err = AddNorm(vecops.Vector{0.2, -0.7, 1.1, 3}, vecops.Vector{0.5, 0.5, -2, 0.1})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, vecops.Mean(got), 1e-9)
	assert.InDelta(t, 1.0, vecops.Variance(got), 1e-3)

	_, err = AddNorm(vecops.Vector{1}, vecops.Vector{1, 2})
	require.ErrorIs(t, err, vecops.ErrDimensionMismatch)

	_, err = AddNormAll([]vecops.Vector{{1}}, nil)
	require.ErrorIs(t, err, vecops.ErrDimensionMismatch)
}

func TestBlock(t *testing.T) {
	p := weights.NewProvider(21)
	w := NewWeights(p, 6)
	inputs := []vecops.Vector{
		{0.1, 0.2, -0.3, 0.4, 0.5, -0.6},
		{1, -1, 1, -1, 1, -1},
	}

	results, normed, err := Block(inputs, w)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Len(t, normed, 2)

	for i := range inputs {
		want, err := AddNorm(inputs[i], results[i].Output)
		require.NoError(t, err)
		assert.Equal(t, want, normed[i])
	}
}
