package pipeline

import (
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/walkthrough/internal/attention"
	"github.com/born-ml/walkthrough/internal/ffn"
	"github.com/born-ml/walkthrough/internal/projection"
	"github.com/born-ml/walkthrough/internal/tokenizer"
	"github.com/born-ml/walkthrough/internal/vecops"
	"github.com/born-ml/walkthrough/internal/weights"
)

// StageOutput is the data product of one stage. Only the fields relevant to the
// stage are set.
type StageOutput struct {
	Stage Stage

	// Tokens: source tokens (tokenizing), decoder input sequence (decoder_start),
	// final translation (translation_complete).
	Tokens []string

	// Subwords holds the BPE split of each source token when a Subworder is attached.
	Subwords [][]tokenizer.Piece

	// Vectors is the per-position output handed to the next stage.
	Vectors []vecops.Vector

	// Codes are the positional encodings that were added (positional stages).
	Codes []vecops.Vector

	Attention        []attention.Result
	AttentionWeights *attention.WeightSet

	FeedForward        []ffn.Result
	FeedForwardWeights *ffn.Weights

	Vocabulary  []string
	Projection  *mat.Dense // Wout [V, dModel]
	Predictions []projection.Prediction

	DecoderMode DecoderMode
}

// Clone returns a deep copy so collaborators can never reach controller state.
func (o *StageOutput) Clone() *StageOutput {
	if o == nil {
		return nil
	}
	dup := &StageOutput{
		Stage:       o.Stage,
		Tokens:      cloneStrings(o.Tokens),
		Vectors:     vecops.CloneAll(o.Vectors),
		Codes:       vecops.CloneAll(o.Codes),
		Vocabulary:  cloneStrings(o.Vocabulary),
		Projection:  weights.Clone(o.Projection),
		DecoderMode: o.DecoderMode,
	}
	if o.Subwords != nil {
		dup.Subwords = make([][]tokenizer.Piece, len(o.Subwords))
		for i, p := range o.Subwords {
			dup.Subwords[i] = append([]tokenizer.Piece(nil), p...)
		}
	}
	if o.Attention != nil {
		dup.Attention = make([]attention.Result, len(o.Attention))
		for i, r := range o.Attention {
			dup.Attention[i] = r.Clone()
		}
	}
	if o.AttentionWeights != nil {
		ws := o.AttentionWeights.Clone()
		dup.AttentionWeights = &ws
	}
	if o.FeedForward != nil {
		dup.FeedForward = make([]ffn.Result, len(o.FeedForward))
		for i, r := range o.FeedForward {
			dup.FeedForward[i] = r.Clone()
		}
	}
	if o.FeedForwardWeights != nil {
		w := o.FeedForwardWeights.Clone()
		dup.FeedForwardWeights = &w
	}
	if o.Predictions != nil {
		dup.Predictions = make([]projection.Prediction, len(o.Predictions))
		for i, p := range o.Predictions {
			dup.Predictions[i] = p.Clone()
		}
	}
	return dup
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}
