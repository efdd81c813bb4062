package vecops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestAdd(t *testing.T) {
	tests := []struct {
		name string
		a, b Vector
		want Vector
	}{
		{name: "positive", a: Vector{1, 2, 3}, b: Vector{4, 5, 6}, want: Vector{5, 7, 9}},
		{name: "mixed signs", a: Vector{-1.5, 0, 2}, b: Vector{1.5, -3, 0.25}, want: Vector{0, -3, 2.25}},
		{name: "empty", a: Vector{}, b: Vector{}, want: Vector{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Add(tt.a, tt.b)
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for i := range got {
				assert.Equal(t, tt.a[i]+tt.b[i], got[i])
				assert.InDelta(t, tt.want[i], got[i], 1e-12)
			}
		})
	}
}

func TestAdd_DoesNotAliasInputs(t *testing.T) {
	a := Vector{1, 1}
	b := Vector{2, 2}
	_, err := Add(a, b)
	require.NoError(t, err)
	assert.Equal(t, Vector{1, 1}, a)
	assert.Equal(t, Vector{2, 2}, b)
}

func TestDimensionMismatch(t *testing.T) {
	_, err := Add(Vector{1, 2}, Vector{1})
	require.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = Dot(Vector{1, 2, 3}, Vector{1, 2})
	require.ErrorIs(t, err, ErrDimensionMismatch)

	w := mat.NewDense(2, 3, nil)
	_, err = MatVec(w, Vector{1, 2})
	require.ErrorIs(t, err, ErrDimensionMismatch)

	var dimErr *DimensionError
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, "matvec", dimErr.Op)
	assert.Equal(t, 3, dimErr.Want)
	assert.Equal(t, 2, dimErr.Got)
}

func TestDot(t *testing.T) {
	got, err := Dot(Vector{1, 2, 3}, Vector{4, -5, 6})
	require.NoError(t, err)
	assert.InDelta(t, 12.0, got, 1e-12)
}

func TestMatVec(t *testing.T) {
	// [[1, 2, 3], [4, 5, 6]] · [1, 0, -1] = [-2, -2]
	w := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	got, err := MatVec(w, Vector{1, 0, -1})
	require.NoError(t, err)
	assert.Equal(t, Vector{-2, -2}, got)
}

func TestReLU(t *testing.T) {
	assert.Equal(t, Vector{0, 0, 0.5, 3}, ReLU(Vector{-2, 0, 0.5, 3}))
}

func TestSoftmax(t *testing.T) {
	inf := math.Inf(-1)
	tests := []struct {
		name   string
		scores Vector
		masked []int
	}{
		{name: "uniform", scores: Vector{1, 1, 1, 1}},
		{name: "large values", scores: Vector{1000, 1001, 1002}},
		{name: "negative", scores: Vector{-3, -1, -7}},
		{name: "masked tail", scores: Vector{0.3, inf, inf}, masked: []int{1, 2}},
		{name: "masked middle", scores: Vector{2, inf, -1, 0.5}, masked: []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probs := Softmax(tt.scores)
			require.Len(t, probs, len(tt.scores))

			sum := 0.0
			for _, p := range probs {
				assert.False(t, math.IsNaN(p))
				assert.GreaterOrEqual(t, p, 0.0)
				sum += p
			}
			assert.InDelta(t, 1.0, sum, 1e-6)

			for _, idx := range tt.masked {
				assert.Equal(t, 0.0, probs[idx], "masked entry %d must be exactly zero", idx)
			}
		})
	}
}

func TestSoftmax_AllMasked(t *testing.T) {
	inf := math.Inf(-1)
	assert.Equal(t, Vector{0, 0}, Softmax(Vector{inf, inf}))
}

func TestLayerNorm(t *testing.T) {
	// mean = 2, variance = 2/3, std ≈ 0.8165
	got := LayerNorm(Vector{1, 2, 3}, DefaultEpsilon)
	assert.InDelta(t, -1.2247, got[0], 1e-3)
	assert.InDelta(t, 0.0, got[1], 1e-9)
	assert.InDelta(t, 1.2247, got[2], 1e-3)

	inputs := []Vector{
		{0.1, -0.4, 2.5, 7, -3, 0},
		{10, 20},
		{-1, -1, -1, 5},
	}
	for _, in := range inputs {
		out := LayerNorm(in, DefaultEpsilon)
		assert.InDelta(t, 0.0, Mean(out), 1e-9)
		assert.InDelta(t, 1.0, Variance(out), 1e-3)
	}
}

func TestLayerNorm_Constant(t *testing.T) {
	out := LayerNorm(Vector{4, 4, 4}, DefaultEpsilon)
	for _, x := range out {
		assert.False(t, math.IsNaN(x))
		assert.Equal(t, 0.0, x)
	}
}

func TestWeightedSum(t *testing.T) {
	got, err := WeightedSum([]float64{0.25, 0.75}, []Vector{{4, 0}, {0, 4}})
	require.NoError(t, err)
	assert.Equal(t, Vector{1, 3}, got)

	_, err = WeightedSum([]float64{1}, []Vector{{1}, {2}})
	require.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = WeightedSum([]float64{0.5, 0.5}, []Vector{{1, 2}, {3}})
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestArgMax(t *testing.T) {
	assert.Equal(t, -1, ArgMax(nil))
	assert.Equal(t, 2, ArgMax(Vector{0.1, 0.2, 0.7}))
	assert.Equal(t, 1, ArgMax(Vector{0.1, 0.45, 0.45}), "ties resolve to the first index")
}

func TestCloneAll(t *testing.T) {
	src := []Vector{{1, 2}, {3}}
	dup := CloneAll(src)
	dup[0][0] = 99
	assert.Equal(t, 1.0, src[0][0])
	assert.Nil(t, CloneAll(nil))
}
