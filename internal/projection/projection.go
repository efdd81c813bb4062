// Package projection maps final decoder vectors onto the output vocabulary and
// decodes the predicted token sequence.
package projection

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/walkthrough/internal/vecops"
	"github.com/born-ml/walkthrough/internal/vocab"
	"github.com/born-ml/walkthrough/internal/weights"
)

// Vocabulary is the ordered list of tokens the projector can emit.
type Vocabulary struct {
	Tokens []string
	index  map[string]int
}

// NewVocabulary builds the output vocabulary for a run:
// special tokens, then the translations of the source tokens (deduplicated, in
// source order), then the function words of the language.
func NewVocabulary(table *vocab.Table, sourceTokens []string, lang vocab.Language) *Vocabulary {
	v := &Vocabulary{index: make(map[string]int)}
	for _, s := range []string{vocab.StartToken, vocab.EndToken, vocab.PadToken} {
		v.add(s)
	}
	for _, tok := range sourceTokens {
		if w, ok := table.Translate(tok, lang); ok {
			v.add(w)
		}
	}
	for _, w := range vocab.FunctionWords(lang) {
		v.add(w)
	}
	return v
}

func (v *Vocabulary) add(token string) {
	if _, ok := v.index[token]; ok {
		return
	}
	v.index[token] = len(v.Tokens)
	v.Tokens = append(v.Tokens, token)
}

// Size returns V, the number of distinct tokens.
func (v *Vocabulary) Size() int {
	return len(v.Tokens)
}

// Index returns the position of token, or -1.
func (v *Vocabulary) Index(token string) int {
	if i, ok := v.index[token]; ok {
		return i
	}
	return -1
}

// NewWeights draws Wout [V, dModel].
func NewWeights(p *weights.Provider, v *Vocabulary, dModel int) *mat.Dense {
	return p.Generate(v.Size(), dModel)
}

// Prediction is the projector's verdict for one decoder position.
type Prediction struct {
	Position int
	Logits   vecops.Vector // Wout · h
	Probs    vecops.Vector // softmax(Logits)
	Index    int           // argmax(Probs), first occurrence on ties
	Token    string
}

// Clone deep-copies p.
func (p Prediction) Clone() Prediction {
	p.Logits = vecops.Clone(p.Logits)
	p.Probs = vecops.Clone(p.Probs)
	return p
}

// Project computes logits, probabilities and the arg-max token for one vector.
func Project(position int, decoderOutput vecops.Vector, wOut *mat.Dense, v *Vocabulary) (Prediction, error) {
	rows, _ := wOut.Dims()
	if rows != v.Size() {
		return Prediction{}, fmt.Errorf("projection: %w: weight rows %d, vocabulary %d",
			vecops.ErrDimensionMismatch, rows, v.Size())
	}

	logits, err := vecops.MatVec(wOut, decoderOutput)
	if err != nil {
		return Prediction{}, fmt.Errorf("projection: %w", err)
	}
	probs := vecops.Softmax(logits)
	idx := vecops.ArgMax(probs)

	return Prediction{
		Position: position,
		Logits:   logits,
		Probs:    probs,
		Index:    idx,
		Token:    v.Tokens[idx],
	}, nil
}

// ProjectAll projects every decoder position with the same Wout.
func ProjectAll(decoderOutputs []vecops.Vector, wOut *mat.Dense, v *Vocabulary) ([]Prediction, error) {
	out := make([]Prediction, len(decoderOutputs))
	for i, h := range decoderOutputs {
		p, err := Project(i, h, wOut, v)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

// Decode turns predictions into the translation: tokens up to the first <END>,
// with special tokens removed.
func Decode(predictions []Prediction) []string {
	out := make([]string, 0, len(predictions))
	for _, p := range predictions {
		if p.Token == vocab.EndToken {
			break
		}
		if vocab.IsSpecial(p.Token) {
			continue
		}
		out = append(out, p.Token)
	}
	return out
}
