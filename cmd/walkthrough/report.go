package main

import (
	"math"

	"github.com/born-ml/walkthrough/internal/weights"
	"github.com/born-ml/walkthrough/walkthrough"
)

// report is the JSON form of a snapshot. encoding/json rejects -Inf, so masked
// scores are emitted as null.
type report struct {
	RunID     string              `json:"run_id"`
	Sentence  string              `json:"sentence"`
	DModel    int                 `json:"d_model"`
	NumHeads  int                 `json:"num_heads"`
	Language  string              `json:"language"`
	Current   walkthrough.Stage   `json:"current"`
	Completed []walkthrough.Stage `json:"completed"`
	Stages    []stageReport       `json:"stages"`
}

type stageReport struct {
	Stage       walkthrough.Stage      `json:"stage"`
	Phase       string                 `json:"phase"`
	Tokens      []string               `json:"tokens,omitempty"`
	Vectors     [][]float64            `json:"vectors,omitempty"`
	Attention   []attentionReport      `json:"attention,omitempty"`
	Weights     map[string][][]float64 `json:"weights,omitempty"`
	Predictions []predictionReport     `json:"predictions,omitempty"`
}

type attentionReport struct {
	Position int        `json:"position"`
	Scores   []*float64 `json:"scores"`
	Weights  []float64  `json:"weights"`
}

type predictionReport struct {
	Position    int     `json:"position"`
	Token       string  `json:"token"`
	Probability float64 `json:"probability"`
}

func newReport(s walkthrough.State) report {
	r := report{
		RunID:     s.RunID.String(),
		Sentence:  s.Config.Sentence,
		DModel:    s.Config.DModel,
		NumHeads:  s.Config.NumHeads,
		Language:  string(s.Config.Language),
		Current:   s.Current,
		Completed: s.Completed(),
	}

	stages := append(s.Completed(), s.Current)
	for _, st := range stages {
		out := s.Output(st)
		if out == nil {
			continue
		}
		r.Stages = append(r.Stages, newStageReport(out))
	}
	return r
}

func newStageReport(out *walkthrough.StageOutput) stageReport {
	sr := stageReport{
		Stage:  out.Stage,
		Phase:  out.Stage.Phase().String(),
		Tokens: out.Tokens,
	}
	for _, v := range out.Vectors {
		sr.Vectors = append(sr.Vectors, []float64(v))
	}

	for _, a := range out.Attention {
		scores := a.Scores
		if a.MaskedScores != nil {
			scores = a.MaskedScores
		}
		sr.Attention = append(sr.Attention, attentionReport{
			Position: a.Position,
			Scores:   nullableInf(scores),
			Weights:  a.Weights,
		})
	}

	if ws := out.AttentionWeights; ws != nil {
		sr.Weights = map[string][][]float64{
			"query": weights.Rows(ws.Query),
			"key":   weights.Rows(ws.Key),
			"value": weights.Rows(ws.Value),
		}
	}
	if fw := out.FeedForwardWeights; fw != nil {
		sr.Weights = map[string][][]float64{
			"expand":   weights.Rows(fw.Expand),
			"contract": weights.Rows(fw.Contract),
		}
	}
	if out.Projection != nil {
		sr.Weights = map[string][][]float64{"output": weights.Rows(out.Projection)}
	}

	for _, p := range out.Predictions {
		sr.Predictions = append(sr.Predictions, predictionReport{
			Position:    p.Position,
			Token:       p.Token,
			Probability: p.Probs[p.Index],
		})
	}
	return sr
}

func nullableInf[V ~[]float64](v V) []*float64 {
	out := make([]*float64, len(v))
	for i := range v {
		if math.IsInf(v[i], 0) {
			continue
		}
		x := v[i]
		out[i] = &x
	}
	return out
}
