// Package ffn implements the position-wise feed-forward block and the Add & Norm
// wrapper applied after every sublayer.
package ffn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/walkthrough/internal/vecops"
	"github.com/born-ml/walkthrough/internal/weights"
)

// Expansion is the conventional ratio dFF / dModel.
const Expansion = 4

// HiddenDim returns dFF for a model dimension.
func HiddenDim(dModel int) int {
	return Expansion * dModel
}

// Weights holds the two projections of one feed-forward invocation.
type Weights struct {
	Expand   *mat.Dense // W1 [dFF, dModel]
	Contract *mat.Dense // W2 [dModel, dFF]
}

// NewWeights draws fresh W1 and W2 for dModel.
func NewWeights(p *weights.Provider, dModel int) Weights {
	hidden := HiddenDim(dModel)
	return Weights{
		Expand:   p.Generate(hidden, dModel),
		Contract: p.Generate(dModel, hidden),
	}
}

// Clone deep-copies both matrices.
func (w Weights) Clone() Weights {
	return Weights{Expand: weights.Clone(w.Expand), Contract: weights.Clone(w.Contract)}
}

// Result keeps the hidden activation next to the block output so both can be shown.
type Result struct {
	Hidden vecops.Vector // relu(W1 · x), length dFF
	Output vecops.Vector // W2 · hidden, length dModel
}

// Clone deep-copies r.
func (r Result) Clone() Result {
	return Result{Hidden: vecops.Clone(r.Hidden), Output: vecops.Clone(r.Output)}
}

// Forward computes FFN(x) = W2 · relu(W1 · x).
func Forward(input vecops.Vector, w Weights) (Result, error) {
	pre, err := vecops.MatVec(w.Expand, input)
	if err != nil {
		return Result{}, fmt.Errorf("ffn expand: %w", err)
	}
	hidden := vecops.ReLU(pre)

	out, err := vecops.MatVec(w.Contract, hidden)
	if err != nil {
		return Result{}, fmt.Errorf("ffn contract: %w", err)
	}
	return Result{Hidden: hidden, Output: out}, nil
}

// AddNorm returns LayerNorm(original + delta), where original is the sublayer's input
// and delta its output.
func AddNorm(original, delta vecops.Vector) (vecops.Vector, error) {
	sum, err := vecops.Add(original, delta)
	if err != nil {
		return nil, fmt.Errorf("add & norm: %w", err)
	}
	return vecops.LayerNorm(sum, vecops.DefaultEpsilon), nil
}

// AddNormAll applies AddNorm position by position.
func AddNormAll(originals, deltas []vecops.Vector) ([]vecops.Vector, error) {
	if len(originals) != len(deltas) {
		return nil, fmt.Errorf("add & norm: %w: %d inputs, %d sublayer outputs",
			vecops.ErrDimensionMismatch, len(originals), len(deltas))
	}
	out := make([]vecops.Vector, len(originals))
	for i := range originals {
		v, err := AddNorm(originals[i], deltas[i])
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// Block runs Forward on every input and wraps each output with AddNorm against
// that input. It returns the raw per-position results and the normalized outputs.
func Block(inputs []vecops.Vector, w Weights) ([]Result, []vecops.Vector, error) {
	results := make([]Result, len(inputs))
	deltas := make([]vecops.Vector, len(inputs))
	for i, in := range inputs {
		r, err := Forward(in, w)
		if err != nil {
			return nil, nil, fmt.Errorf("position %d: %w", i, err)
		}
		results[i] = r
		deltas[i] = r.Output
	}

	normed, err := AddNormAll(inputs, deltas)
	if err != nil {
		return nil, nil, err
	}
	return results, normed, nil
}
