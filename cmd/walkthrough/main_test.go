package main

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/walkthrough/walkthrough"
)

func completedRun(t *testing.T) walkthrough.State {
	t.Helper()
	c := walkthrough.New()
	cfg := walkthrough.DefaultConfig("We are best")
	cfg.Seed = 3
	require.NoError(t, c.Submit(cfg))
	for !c.Done() {
		require.NoError(t, c.Advance())
	}
	return c.Snapshot()
}

func TestReport_EncodesMaskedScoresAsNull(t *testing.T) {
	snap := completedRun(t)

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(newReport(snap)))

	var decoded struct {
		Current string `json:"current"`
		Stages  []struct {
			Stage     string `json:"stage"`
			Attention []struct {
				Scores []*float64 `json:"scores"`
			} `json:"attention"`
		} `json:"stages"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "translation_complete", decoded.Current)
	require.Len(t, decoded.Stages, walkthrough.NumStages)

	for _, st := range decoded.Stages {
		if st.Stage != "decoder_masked_attention" {
			continue
		}
		first := st.Attention[0].Scores
		assert.NotNil(t, first[0])
		for _, s := range first[1:] {
			assert.Nil(t, s, "future positions are masked")
		}
	}
}

func TestFormatVector(t *testing.T) {
	assert.Equal(t, "[1.000 -0.500 -inf]", formatVector([]float64{1, -0.5, math.Inf(-1)}))
	assert.Equal(t, "[]", formatVector([]float64{}))
}

func TestRenderStage(t *testing.T) {
	snap := completedRun(t)

	var buf bytes.Buffer
	printHeader(&buf, snap)
	for _, s := range snap.Completed() {
		renderStage(&buf, snap.Output(s))
	}
	renderStage(&buf, snap.Output(snap.Current))
	renderStage(&buf, nil)

	text := buf.String()
	for _, s := range walkthrough.Stages() {
		assert.Contains(t, text, "] "+s.String()+"\n")
	}
	assert.Contains(t, text, "decoder input")
	assert.Contains(t, text, "-inf")
	assert.True(t, strings.HasPrefix(text, "Transformer walkthrough"))
}

func TestPrintSummary(t *testing.T) {
	var cfgs []walkthrough.Config
	for _, l := range walkthrough.Languages() {
		cfg := walkthrough.DefaultConfig("We are best")
		cfg.Seed = 4
		cfg.Language = l
		cfgs = append(cfgs, cfg)
	}
	states, err := walkthrough.RunAll(context.Background(), cfgs)
	require.NoError(t, err)

	var buf bytes.Buffer
	printSummary(&buf, states)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(cfgs)+1)
	assert.True(t, strings.HasPrefix(lines[0], "language"))
	assert.Contains(t, lines[1], "french")
	assert.Contains(t, lines[1], "nous sommes meilleurs")
}

func TestRunAllLanguages(t *testing.T) {
	cfg := walkthrough.DefaultConfig("She is happy")
	cfg.Seed = 9

	var buf bytes.Buffer
	require.NoError(t, runAllLanguages(&buf, cfg, nil))
	for _, l := range walkthrough.Languages() {
		assert.Contains(t, buf.String(), string(l))
	}

	cfg.NumHeads = 5
	buf.Reset()
	err := runAllLanguages(&buf, cfg, nil)
	require.ErrorIs(t, err, walkthrough.ErrInvalidConfiguration)
	assert.Empty(t, buf.String())
}
