// Package weights draws the random weight matrices that stand in for a frozen,
// untrained network.
//
// Nothing here is learned. Every call to Generate is an independent draw from
// U[-0.5, 0.5), so two stages never share a matrix unless a caller passes the same
// *mat.Dense to both. Stages draw their matrices once per invocation and reuse them
// for every position in the batch.
package weights

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// Low is the inclusive lower bound of every drawn weight.
	Low = -0.5
	// High is the exclusive upper bound of every drawn weight.
	High = 0.5
)

// Provider generates fixed-shape weight matrices with uniformly distributed values.
type Provider struct {
	mu   sync.Mutex
	dist distuv.Uniform
}

// NewProvider creates a reproducible provider: the same seed yields the same
// sequence of matrices.
func NewProvider(seed uint64) *Provider {
	return newProvider(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRandomProvider creates a provider seeded from the runtime's entropy source.
func NewRandomProvider() *Provider {
	//nolint:gosec // Weight sampling is not security-sensitive
	return newProvider(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func newProvider(src rand.Source) *Provider {
	return &Provider{
		dist: distuv.Uniform{Min: Low, Max: High, Src: src},
	}
}

// Generate returns a fresh [outDim, inDim] matrix of independent uniform values.
//
// Panics if either dimension is not positive; shapes are fixed by the validated
// configuration, so a non-positive dimension is a programming error.
func (p *Provider) Generate(outDim, inDim int) *mat.Dense {
	if outDim <= 0 || inDim <= 0 {
		panic(fmt.Sprintf("weights: invalid shape [%d, %d]", outDim, inDim))
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	data := make([]float64, outDim*inDim)
	for i := range data {
		data[i] = p.dist.Rand()
	}
	return mat.NewDense(outDim, inDim, data)
}

// Rows returns the rows of m as independent slices, for display and snapshots.
func Rows(m *mat.Dense) [][]float64 {
	if m == nil {
		return nil
	}
	r, _ := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = mat.Row(nil, i, m)
	}
	return out
}

// Clone returns a deep copy of m, or nil for a nil matrix.
func Clone(m *mat.Dense) *mat.Dense {
	if m == nil {
		return nil
	}
	return mat.DenseCopyOf(m)
}
