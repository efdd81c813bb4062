// Package vecops provides the stateless numeric primitives of the forward pass.
//
// Vectors are plain float64 slices; weight matrices are gonum *mat.Dense values.
// Every binary operation checks its shape contract up front and reports
// ErrDimensionMismatch instead of truncating, padding or panicking.
package vecops

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultEpsilon is the variance floor used by LayerNorm.
const DefaultEpsilon = 1e-5

// Vector is an ordered sequence of reals of length dModel (or dFF for hidden states).
type Vector []float64

// Clone returns an independent copy of v.
func Clone(v Vector) Vector {
	if v == nil {
		return nil
	}
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// CloneAll deep-copies a slice of vectors.
func CloneAll(vs []Vector) []Vector {
	if vs == nil {
		return nil
	}
	out := make([]Vector, len(vs))
	for i, v := range vs {
		out[i] = Clone(v)
	}
	return out
}

// Add returns the element-wise sum a + b.
func Add(a, b Vector) (Vector, error) {
	if len(a) != len(b) {
		return nil, mismatch("add", len(a), len(b))
	}
	out := make(Vector, len(a))
	floats.AddTo(out, a, b)
	return out, nil
}

// Dot returns the sum of element-wise products of a and b.
func Dot(a, b Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, mismatch("dot", len(a), len(b))
	}
	return floats.Dot(a, b), nil
}

// MatVec multiplies every row of w with v.
//
// Shapes:
//   - w: [out, in]
//   - v: [in]
//   - result: [out]
func MatVec(w *mat.Dense, v Vector) (Vector, error) {
	rows, cols := w.Dims()
	if cols != len(v) {
		return nil, mismatch("matvec", cols, len(v))
	}
	out := make(Vector, rows)
	dst := mat.NewVecDense(rows, out)
	dst.MulVec(w, mat.NewVecDense(len(v), Clone(v)))
	return out, nil
}

// WeightedSum returns Σ_j weights[j] * vectors[j].
func WeightedSum(weights []float64, vectors []Vector) (Vector, error) {
	if len(weights) != len(vectors) {
		return nil, mismatch("weighted sum", len(vectors), len(weights))
	}
	if len(vectors) == 0 {
		return Vector{}, nil
	}
	dim := len(vectors[0])
	out := make(Vector, dim)
	for j, v := range vectors {
		if len(v) != dim {
			return nil, mismatch("weighted sum", dim, len(v))
		}
		floats.AddScaled(out, weights[j], v)
	}
	return out, nil
}

// ReLU applies max(0, x) element-wise.
func ReLU(v Vector) Vector {
	out := make(Vector, len(v))
	for i, x := range v {
		if x > 0 {
			out[i] = x
		}
	}
	return out
}

// Softmax converts scores into a probability distribution.
//
// The maximum finite score is subtracted before exponentiating. Entries equal to
// -Inf get exactly zero probability. A row in which every entry is -Inf has no
// admissible position and yields all zeros.
func Softmax(scores Vector) Vector {
	out := make(Vector, len(scores))
	maxVal := math.Inf(-1)
	for _, s := range scores {
		if s > maxVal {
			maxVal = s
		}
	}
	if math.IsInf(maxVal, -1) {
		return out
	}

	sum := 0.0
	for i, s := range scores {
		if math.IsInf(s, -1) {
			continue
		}
		out[i] = math.Exp(s - maxVal)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// Mean returns the arithmetic mean of v, or 0 for an empty vector.
func Mean(v Vector) float64 {
	if len(v) == 0 {
		return 0
	}
	return floats.Sum(v) / float64(len(v))
}

// Variance returns the population variance of v (divides by n).
func Variance(v Vector) float64 {
	if len(v) == 0 {
		return 0
	}
	mean := Mean(v)
	sum := 0.0
	for _, x := range v {
		d := x - mean
		sum += d * d
	}
	return sum / float64(len(v))
}

// LayerNorm computes (x - mean) / sqrt(variance + epsilon) for every element.
func LayerNorm(v Vector, epsilon float64) Vector {
	out := make(Vector, len(v))
	if len(v) == 0 {
		return out
	}
	mean := Mean(v)
	denom := math.Sqrt(Variance(v) + epsilon)
	for i, x := range v {
		out[i] = (x - mean) / denom
	}
	return out
}

// ArgMax returns the index of the largest entry, preferring the first on ties.
// It returns -1 for an empty vector.
func ArgMax(v Vector) int {
	if len(v) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
