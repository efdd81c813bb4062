// Package attention implements the scaled dot-product attention used for encoder
// self-attention, masked decoder self-attention and decoder-encoder cross-attention.
//
// One Engine serves all three: self-attention passes the same vectors as queries
// and keys/values, cross-attention passes the encoder output as keys/values.
package attention

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/walkthrough/internal/vecops"
	"github.com/born-ml/walkthrough/internal/weights"
)

// ErrEmptyInput is returned when there are no query or key/value vectors.
var ErrEmptyInput = errors.New("attention: empty input")

// Mode selects how numHeads enters the computation.
type Mode int

const (
	// ModeCombined runs one pass over the full vectors; numHeads only sets the
	// score scale 1/sqrt(dModel/numHeads).
	ModeCombined Mode = iota

	// ModeSplitHeads slices Q, K and V into numHeads contiguous blocks of width
	// dModel/numHeads, attends within each block and concatenates the results.
	ModeSplitHeads
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeCombined:
		return "combined"
	case ModeSplitHeads:
		return "split-heads"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// WeightSet holds the projections drawn for one attention invocation.
// Every position of the batch is projected with the same three matrices.
type WeightSet struct {
	Query *mat.Dense // [dModel, dModel]
	Key   *mat.Dense // [dModel, dModel]
	Value *mat.Dense // [dModel, dModel]
}

// NewWeightSet draws fresh Wq, Wk and Wv.
func NewWeightSet(p *weights.Provider, dModel int) WeightSet {
	return WeightSet{
		Query: p.Generate(dModel, dModel),
		Key:   p.Generate(dModel, dModel),
		Value: p.Generate(dModel, dModel),
	}
}

// Clone deep-copies the three matrices.
func (w WeightSet) Clone() WeightSet {
	return WeightSet{
		Query: weights.Clone(w.Query),
		Key:   weights.Clone(w.Key),
		Value: weights.Clone(w.Value),
	}
}

// Result records every intermediate of one query position.
type Result struct {
	Position int

	Query vecops.Vector // Wq · x_i
	Keys  []vecops.Vector
	Vals  []vecops.Vector

	// Scores are the scaled dot products Q_i · K_j / sqrt(dK), before masking.
	Scores vecops.Vector

	// MaskedScores equals Scores with -Inf for j > i. Nil for unmasked passes.
	MaskedScores vecops.Vector

	// Weights is the softmax distribution over key positions. In split-heads mode
	// it is the average over heads; the per-head rows are in HeadWeights.
	Weights     vecops.Vector
	HeadWeights []vecops.Vector

	Output vecops.Vector // Σ_j Weights[j] * V_j
}

// Clone deep-copies r.
func (r Result) Clone() Result {
	return Result{
		Position:     r.Position,
		Query:        vecops.Clone(r.Query),
		Keys:         vecops.CloneAll(r.Keys),
		Vals:         vecops.CloneAll(r.Vals),
		Scores:       vecops.Clone(r.Scores),
		MaskedScores: vecops.Clone(r.MaskedScores),
		Weights:      vecops.Clone(r.Weights),
		HeadWeights:  vecops.CloneAll(r.HeadWeights),
		Output:       vecops.Clone(r.Output),
	}
}

// Engine runs scaled dot-product attention.
//
// Example:
//
//	ws := attention.NewWeightSet(provider, 6)
//	eng := attention.Engine{NumHeads: 2, Causal: true}
//	results, err := eng.Attend(decoderInputs, decoderInputs, ws)
type Engine struct {
	NumHeads int  // Must divide the vector dimension
	Causal   bool // Hide key positions j > i from query i
	Mode     Mode
}

// Attend computes attention for every query input against kvInputs.
//
// Algorithm:
//  1. Q = Wq·q, K = Wk·kv, V = Wv·kv
//  2. scores[j] = Q_i · K_j / sqrt(dModel / numHeads)
//  3. causal: scores[j] = -Inf for j > i
//  4. weights = softmax(scores)
//  5. output = Σ_j weights[j] * V_j
func (e Engine) Attend(queryInputs, kvInputs []vecops.Vector, ws WeightSet) ([]Result, error) {
	if len(queryInputs) == 0 || len(kvInputs) == 0 {
		return nil, ErrEmptyInput
	}
	dModel, _ := ws.Query.Dims()
	if e.NumHeads <= 0 || dModel%e.NumHeads != 0 {
		return nil, fmt.Errorf("attention: %d heads do not divide dModel %d", e.NumHeads, dModel)
	}

	queries, err := project(ws.Query, queryInputs)
	if err != nil {
		return nil, fmt.Errorf("attention: query projection: %w", err)
	}
	keys, err := project(ws.Key, kvInputs)
	if err != nil {
		return nil, fmt.Errorf("attention: key projection: %w", err)
	}
	values, err := project(ws.Value, kvInputs)
	if err != nil {
		return nil, fmt.Errorf("attention: value projection: %w", err)
	}

	results := make([]Result, len(queries))
	for i, q := range queries {
		var r Result
		if e.Mode == ModeSplitHeads {
			r, err = e.attendSplit(i, q, keys, values, dModel)
		} else {
			r, err = e.attendCombined(i, q, keys, values, dModel)
		}
		if err != nil {
			return nil, fmt.Errorf("attention: position %d: %w", i, err)
		}
		results[i] = r
	}
	return results, nil
}

func (e Engine) attendCombined(i int, q vecops.Vector, keys, values []vecops.Vector, dModel int) (Result, error) {
	dK := dModel / e.NumHeads
	scores, err := scaledScores(q, keys, dK)
	if err != nil {
		return Result{}, err
	}

	r := Result{Position: i, Query: q, Keys: keys, Vals: values, Scores: scores}
	effective := scores
	if e.Causal {
		r.MaskedScores = applyCausalMask(scores, i)
		effective = r.MaskedScores
	}
	r.Weights = vecops.Softmax(effective)

	r.Output, err = vecops.WeightedSum(r.Weights, values)
	if err != nil {
		return Result{}, err
	}
	return r, nil
}

func (e Engine) attendSplit(i int, q vecops.Vector, keys, values []vecops.Vector, dModel int) (Result, error) {
	dK := dModel / e.NumHeads
	r := Result{
		Position:    i,
		Query:       q,
		Keys:        keys,
		Vals:        values,
		Scores:      make(vecops.Vector, len(keys)),
		Weights:     make(vecops.Vector, len(keys)),
		HeadWeights: make([]vecops.Vector, e.NumHeads),
		Output:      make(vecops.Vector, 0, dModel),
	}

	for h := 0; h < e.NumHeads; h++ {
		lo, hi := h*dK, (h+1)*dK
		headKeys := slice(keys, lo, hi)
		scores, err := scaledScores(q[lo:hi], headKeys, dK)
		if err != nil {
			return Result{}, err
		}
		if e.Causal {
			scores = applyCausalMask(scores, i)
		}
		w := vecops.Softmax(scores)
		out, err := vecops.WeightedSum(w, slice(values, lo, hi))
		if err != nil {
			return Result{}, err
		}

		r.HeadWeights[h] = w
		r.Output = append(r.Output, out...)
		for j := range w {
			r.Weights[j] += w[j] / float64(e.NumHeads)
		}
	}

	// Report the full-width scores alongside the per-head detail.
	full, err := scaledScores(q, keys, dK)
	if err != nil {
		return Result{}, err
	}
	r.Scores = full
	if e.Causal {
		r.MaskedScores = applyCausalMask(full, i)
	}
	return r, nil
}

func project(w *mat.Dense, inputs []vecops.Vector) ([]vecops.Vector, error) {
	out := make([]vecops.Vector, len(inputs))
	for i, in := range inputs {
		v, err := vecops.MatVec(w, in)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func scaledScores(q vecops.Vector, keys []vecops.Vector, dK int) (vecops.Vector, error) {
	scale := 1 / math.Sqrt(float64(dK))
	scores := make(vecops.Vector, len(keys))
	for j, k := range keys {
		s, err := vecops.Dot(q, k)
		if err != nil {
			return nil, err
		}
		scores[j] = s * scale
	}
	return scores, nil
}

// applyCausalMask returns a copy of scores with every key position after i set to -Inf.
func applyCausalMask(scores vecops.Vector, i int) vecops.Vector {
	masked := vecops.Clone(scores)
	for j := i + 1; j < len(masked); j++ {
		masked[j] = math.Inf(-1)
	}
	return masked
}

func slice(vs []vecops.Vector, lo, hi int) []vecops.Vector {
	out := make([]vecops.Vector, len(vs))
	for i, v := range vs {
		out[i] = v[lo:hi]
	}
	return out
}
