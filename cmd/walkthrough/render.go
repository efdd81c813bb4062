package main

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/born-ml/walkthrough/walkthrough"
)

func printHeader(w io.Writer, s walkthrough.State) {
	fmt.Fprintln(w, "Transformer walkthrough")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Run:      %s\n", s.RunID)
	fmt.Fprintf(w, "Sentence: %q\n", s.Config.Sentence)
	fmt.Fprintf(w, "dModel=%d heads=%d lang=%s decoder=%s attention=%s\n",
		s.Config.DModel, s.Config.NumHeads, s.Config.Language, s.Config.DecoderMode, s.Config.HeadMode)
}

// printSummary prints one line per run: the teacher-forced decoder input next
// to what the random projection picked.
func printSummary(w io.Writer, states []walkthrough.State) {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "language\treference\tpredicted")
	for i := range states {
		st := &states[i]
		var reference []string
		if start := st.Output(walkthrough.StageDecoderStart); start != nil && len(start.Tokens) > 0 {
			reference = start.Tokens[1:]
		}
		predicted, _ := st.Translation()
		fmt.Fprintf(tw, "%s\t%s\t%s\n", st.Config.Language, strings.Join(reference, " "), strings.Join(predicted, " "))
	}
}

func renderStage(w io.Writer, out *walkthrough.StageOutput) {
	if out == nil {
		return
	}
	fmt.Fprintf(w, "\n[%s] %s\n", out.Stage.Phase(), out.Stage)

	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	defer tw.Flush()

	switch out.Stage {
	case walkthrough.StageTokenizing:
		for i, tok := range out.Tokens {
			line := fmt.Sprintf("  %d\t%s", i, tok)
			if out.Subwords != nil {
				pieces := make([]string, len(out.Subwords[i]))
				for j, p := range out.Subwords[i] {
					pieces[j] = fmt.Sprintf("%q(%d)", p.Text, p.ID)
				}
				line += "\tbpe: " + strings.Join(pieces, " ")
			}
			fmt.Fprintln(tw, line)
		}
	case walkthrough.StageDecoderStart:
		fmt.Fprintf(tw, "  mode\t%s\n", out.DecoderMode)
		fmt.Fprintf(tw, "  decoder input\t%s\n", strings.Join(out.Tokens, " "))
	case walkthrough.StageAttention, walkthrough.StageDecoderMaskedAttention, walkthrough.StageDecoderCrossAttention:
		for _, r := range out.Attention {
			scores := r.Scores
			if r.MaskedScores != nil {
				scores = r.MaskedScores
			}
			fmt.Fprintf(tw, "  pos %d\tscores %s\tweights %s\n", r.Position, formatVector(scores), formatVector(r.Weights))
		}
		renderVectors(tw, "out", out.Vectors)
	case walkthrough.StageFeedForward, walkthrough.StageDecoderFFN:
		for i, r := range out.FeedForward {
			active := 0
			for _, h := range r.Hidden {
				if h > 0 {
					active++
				}
			}
			fmt.Fprintf(tw, "  pos %d\thidden %d/%d active\tffn %s\n", i, active, len(r.Hidden), formatVector(r.Output))
		}
		renderVectors(tw, "out", out.Vectors)
	case walkthrough.StagePositional, walkthrough.StageDecoderPositional:
		renderVectors(tw, "code", out.Codes)
		renderVectors(tw, "sum", out.Vectors)
	case walkthrough.StageOutputProjection:
		for _, p := range out.Predictions {
			fmt.Fprintf(tw, "  pos %d\t-> %s\tp=%.3f\n", p.Position, p.Token, p.Probs[p.Index])
		}
	case walkthrough.StageTranslationComplete:
		fmt.Fprintf(tw, "  translation\t%s\n", strings.Join(out.Tokens, " "))
	default:
		if len(out.Tokens) > 0 {
			fmt.Fprintf(tw, "  tokens\t%s\n", strings.Join(out.Tokens, " "))
		}
		renderVectors(tw, "vec", out.Vectors)
	}
}

func renderVectors[V ~[]float64](w io.Writer, label string, vs []V) {
	for i, v := range vs {
		fmt.Fprintf(w, "  %s %d\t%s\n", label, i, formatVector(v))
	}
}

// formatVector prints v with three decimals; masked entries show as -inf.
func formatVector[V ~[]float64](v V) string {
	parts := make([]string, len(v))
	for i, x := range v {
		if math.IsInf(x, -1) {
			parts[i] = "-inf"
			continue
		}
		parts[i] = fmt.Sprintf("%.3f", x)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
