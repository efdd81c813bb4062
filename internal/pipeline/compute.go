package pipeline

import (
	"fmt"

	"github.com/born-ml/walkthrough/internal/attention"
	"github.com/born-ml/walkthrough/internal/ffn"
	"github.com/born-ml/walkthrough/internal/positional"
	"github.com/born-ml/walkthrough/internal/projection"
	"github.com/born-ml/walkthrough/internal/vecops"
	"github.com/born-ml/walkthrough/internal/vocab"
)

// compute produces the output of stage from the outputs already stored in st.
// Every stage that needs weights draws them here, once per run.
func compute(stage Stage, st *State, table *vocab.Table) (*StageOutput, error) {
	switch stage {
	case StageEmbedding:
		return embed(stage, st, table, StageTokenizing)
	case StagePositional:
		return addPositions(stage, st, StageEmbedding)
	case StageAttention:
		return selfAttend(stage, st, StagePositional, false)
	case StageAddNorm:
		return addNorm(stage, st, StagePositional, StageAttention)
	case StageFeedForward:
		return feedForward(stage, st, StageAddNorm)
	case StageDecoderStart:
		return decoderStart(st, table)
	case StageDecoderEmbedding:
		return embed(stage, st, table, StageDecoderStart)
	case StageDecoderPositional:
		return addPositions(stage, st, StageDecoderEmbedding)
	case StageDecoderMaskedAttention:
		return selfAttend(stage, st, StageDecoderPositional, true)
	case StageDecoderAddNorm1:
		return addNorm(stage, st, StageDecoderPositional, StageDecoderMaskedAttention)
	case StageDecoderCrossAttention:
		return crossAttend(st)
	case StageDecoderAddNorm2:
		return addNorm(stage, st, StageDecoderAddNorm1, StageDecoderCrossAttention)
	case StageDecoderFFN:
		return feedForward(stage, st, StageDecoderAddNorm2)
	case StageOutputProjection:
		return project(st, table)
	case StageTranslationComplete:
		return translate(st)
	case StageIdle, StageTokenizing, stageEnd:
		// Tokenizing runs at submission; idle and the end marker produce nothing.
		return nil, fmt.Errorf("%w: %s is not computed by advancing", ErrUnknownStage, stage)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownStage, int(stage))
	}
}

// vectorsOf returns the stored vectors of from, or ErrStageNotReady.
func vectorsOf(st *State, stage, from Stage) ([]vecops.Vector, error) {
	out := st.Output(from)
	if out == nil || len(out.Vectors) == 0 {
		return nil, notReady(stage, from)
	}
	return out.Vectors, nil
}

func tokensOf(st *State, stage, from Stage) ([]string, error) {
	out := st.Output(from)
	if out == nil || len(out.Tokens) == 0 {
		return nil, notReady(stage, from)
	}
	return out.Tokens, nil
}

func embed(stage Stage, st *State, table *vocab.Table, from Stage) (*StageOutput, error) {
	tokens, err := tokensOf(st, stage, from)
	if err != nil {
		return nil, err
	}
	vectors := make([]vecops.Vector, len(tokens))
	for i, tok := range tokens {
		v, ok := table.Embed(tok, st.Config.DModel)
		if !ok {
			return nil, fmt.Errorf("%s: token %q has no embedding", stage, tok)
		}
		vectors[i] = v
	}
	return &StageOutput{Stage: stage, Tokens: cloneStrings(tokens), Vectors: vectors}, nil
}

func addPositions(stage Stage, st *State, from Stage) (*StageOutput, error) {
	inputs, err := vectorsOf(st, stage, from)
	if err != nil {
		return nil, err
	}
	summed, err := positional.Apply(inputs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", stage, err)
	}
	return &StageOutput{
		Stage:   stage,
		Vectors: summed,
		Codes:   positional.Table(len(inputs), st.Config.DModel),
	}, nil
}

func (c Config) engine(causal bool) attention.Engine {
	return attention.Engine{NumHeads: c.NumHeads, Causal: causal, Mode: c.HeadMode}
}

func selfAttend(stage Stage, st *State, from Stage, causal bool) (*StageOutput, error) {
	inputs, err := vectorsOf(st, stage, from)
	if err != nil {
		return nil, err
	}
	ws := attention.NewWeightSet(st.provider, st.Config.DModel)
	results, err := st.Config.engine(causal).Attend(inputs, inputs, ws)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", stage, err)
	}
	return attentionOutput(stage, results, ws), nil
}

func crossAttend(st *State) (*StageOutput, error) {
	const stage = StageDecoderCrossAttention
	queries, err := vectorsOf(st, stage, StageDecoderAddNorm1)
	if err != nil {
		return nil, err
	}
	encoded, err := vectorsOf(st, stage, StageFeedForward)
	if err != nil {
		return nil, err
	}
	ws := attention.NewWeightSet(st.provider, st.Config.DModel)
	results, err := st.Config.engine(false).Attend(queries, encoded, ws)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", stage, err)
	}
	return attentionOutput(stage, results, ws), nil
}

func attentionOutput(stage Stage, results []attention.Result, ws attention.WeightSet) *StageOutput {
	vectors := make([]vecops.Vector, len(results))
	for i, r := range results {
		vectors[i] = r.Output
	}
	return &StageOutput{
		Stage:            stage,
		Vectors:          vectors,
		Attention:        results,
		AttentionWeights: &ws,
	}
}

// addNorm combines the sublayer's input (residual) with the sublayer's output.
func addNorm(stage Stage, st *State, residual, sublayer Stage) (*StageOutput, error) {
	originals, err := vectorsOf(st, stage, residual)
	if err != nil {
		return nil, err
	}
	deltas, err := vectorsOf(st, stage, sublayer)
	if err != nil {
		return nil, err
	}
	normed, err := ffn.AddNormAll(originals, deltas)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", stage, err)
	}
	return &StageOutput{Stage: stage, Vectors: normed}, nil
}

func feedForward(stage Stage, st *State, from Stage) (*StageOutput, error) {
	inputs, err := vectorsOf(st, stage, from)
	if err != nil {
		return nil, err
	}
	w := ffn.NewWeights(st.provider, st.Config.DModel)
	results, normed, err := ffn.Block(inputs, w)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", stage, err)
	}
	return &StageOutput{
		Stage:              stage,
		Vectors:            normed,
		FeedForward:        results,
		FeedForwardWeights: &w,
	}, nil
}

// decoderStart is a pass-through: it records the decoder mode and builds the
// decoder input sequence <START> + translations of the source tokens. It needs the
// encoder to be finished.
func decoderStart(st *State, table *vocab.Table) (*StageOutput, error) {
	const stage = StageDecoderStart
	if _, err := vectorsOf(st, stage, StageFeedForward); err != nil {
		return nil, err
	}
	source, err := tokensOf(st, stage, StageTokenizing)
	if err != nil {
		return nil, err
	}

	tokens := make([]string, 0, len(source)+1)
	tokens = append(tokens, vocab.StartToken)
	for _, tok := range source {
		if w, ok := table.Translate(tok, st.Config.Language); ok {
			tokens = append(tokens, w)
		}
	}
	return &StageOutput{Stage: stage, Tokens: tokens, DecoderMode: st.Config.DecoderMode}, nil
}

func project(st *State, table *vocab.Table) (*StageOutput, error) {
	const stage = StageOutputProjection
	hidden, err := vectorsOf(st, stage, StageDecoderFFN)
	if err != nil {
		return nil, err
	}
	source, err := tokensOf(st, stage, StageTokenizing)
	if err != nil {
		return nil, err
	}

	v := projection.NewVocabulary(table, source, st.Config.Language)
	wOut := projection.NewWeights(st.provider, v, st.Config.DModel)
	preds, err := projection.ProjectAll(hidden, wOut, v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", stage, err)
	}
	return &StageOutput{
		Stage:       stage,
		Vocabulary:  cloneStrings(v.Tokens),
		Projection:  wOut,
		Predictions: preds,
	}, nil
}

func translate(st *State) (*StageOutput, error) {
	const stage = StageTranslationComplete
	out := st.Output(StageOutputProjection)
	if out == nil || len(out.Predictions) == 0 {
		return nil, notReady(stage, StageOutputProjection)
	}
	return &StageOutput{Stage: stage, Tokens: projection.Decode(out.Predictions)}, nil
}
