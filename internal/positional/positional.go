// Package positional computes the fixed sinusoidal position codes added to token
// embeddings.
package positional

import (
	"fmt"
	"math"

	"github.com/born-ml/walkthrough/internal/vecops"
)

const (
	// Base is the wavelength base of the sinusoids.
	Base = 10000.0
	// Amplitude scales every component so codes stay small next to the embeddings.
	Amplitude = 0.5
)

// Encode returns the position code for one index.
//
// Mathematical formulation, for dimension index i:
//
//	PE(pos, i) = 0.5 * sin(pos / 10000^(2i/d))       i even
//	PE(pos, i) = 0.5 * cos(pos / 10000^(2(i-1)/d))   i odd
//
// Encode is a pure function of (position, dModel).
func Encode(position, dModel int) vecops.Vector {
	v := make(vecops.Vector, dModel)
	for i := range v {
		if i%2 == 0 {
			angle := float64(position) / math.Pow(Base, float64(2*i)/float64(dModel))
			v[i] = Amplitude * math.Sin(angle)
		} else {
			angle := float64(position) / math.Pow(Base, float64(2*(i-1))/float64(dModel))
			v[i] = Amplitude * math.Cos(angle)
		}
	}
	return v
}

// Table returns the codes for positions 0..seqLen-1.
func Table(seqLen, dModel int) []vecops.Vector {
	out := make([]vecops.Vector, seqLen)
	for pos := range out {
		out[pos] = Encode(pos, dModel)
	}
	return out
}

// Apply adds the code for position i to inputs[i] and returns the new vectors.
// All inputs must share one dimension.
func Apply(inputs []vecops.Vector) ([]vecops.Vector, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	dModel := len(inputs[0])
	out := make([]vecops.Vector, len(inputs))
	for pos, in := range inputs {
		sum, err := vecops.Add(in, Encode(pos, dModel))
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", pos, err)
		}
		out[pos] = sum
	}
	return out, nil
}
