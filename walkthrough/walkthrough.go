// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package walkthrough provides the public API of the stepwise Transformer simulator.
//
// # Overview
//
// A Controller walks one sentence through every arithmetic step of a small
// encoder-decoder: tokenization, embeddings, positional encodings, self-attention,
// Add & Norm, feed-forward, masked self-attention, cross-attention, output
// projection and decoding. Weights are random draws, never learned; the point is
// the mechanics, not translation quality.
//
// # Basic Usage
//
//	import "github.com/born-ml/walkthrough/walkthrough"
//
//	func main() {
//	    c := walkthrough.New()
//	    cfg := walkthrough.DefaultConfig("We are best")
//	    cfg.Seed = 1
//	    if err := c.Submit(cfg); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Step through every stage
//	    for !c.Done() {
//	        if err := c.Advance(); err != nil {
//	            log.Fatal(err)
//	        }
//	        out, _ := c.Output(c.Current())
//	        render(out)
//	    }
//	}
//
// # Navigation
//
// Advance moves forward by exactly one stage and only when the current stage's
// output exists. JumpTo returns to a completed stage for review; jumping forward
// is rejected. Reset returns to idle. Play auto-advances until paused.
//
// # Errors
//
// Submission errors (ErrInvalidConfiguration, ErrEmptyVocabularyResult) are
// reported before any stage runs. ErrStageNotReady and ErrPipelineComplete are
// recoverable and can be ignored by a presentation layer.
package walkthrough

import (
	"context"

	"github.com/born-ml/walkthrough/internal/attention"
	"github.com/born-ml/walkthrough/internal/parallel"
	"github.com/born-ml/walkthrough/internal/pipeline"
	"github.com/born-ml/walkthrough/internal/tokenizer"
	"github.com/born-ml/walkthrough/internal/vocab"
)

// Controller drives a run through the stages.
type Controller = pipeline.Controller

// Option customizes a Controller.
type Option = pipeline.Option

// Config describes one run.
type Config = pipeline.Config

// State is a snapshot of a run.
type State = pipeline.State

// StageOutput is the data product of one stage.
type StageOutput = pipeline.StageOutput

// Subworder splits a word into BPE pieces for the tokenizing stage. Implement it
// to compare the lookup against any subword vocabulary.
type Subworder = tokenizer.Subworder

// Piece is one subword unit returned by a Subworder.
type Piece = tokenizer.Piece

// Stage identifies one step of the forward pass.
type Stage = pipeline.Stage

// Phase groups stages into encoder and decoder halves.
type Phase = pipeline.Phase

// DecoderMode is the informational decoder operating mode.
type DecoderMode = pipeline.DecoderMode

// HeadMode selects combined or split-heads attention.
type HeadMode = attention.Mode

// Language identifies a target language.
type Language = vocab.Language

// ConfigError names the rejected configuration field.
type ConfigError = pipeline.ConfigError

// NumStages is the number of stages after StageIdle.
const NumStages = pipeline.NumStages

// Stages in pipeline order.
const (
	StageIdle                   = pipeline.StageIdle
	StageTokenizing             = pipeline.StageTokenizing
	StageEmbedding              = pipeline.StageEmbedding
	StagePositional             = pipeline.StagePositional
	StageAttention              = pipeline.StageAttention
	StageAddNorm                = pipeline.StageAddNorm
	StageFeedForward            = pipeline.StageFeedForward
	StageDecoderStart           = pipeline.StageDecoderStart
	StageDecoderEmbedding       = pipeline.StageDecoderEmbedding
	StageDecoderPositional      = pipeline.StageDecoderPositional
	StageDecoderMaskedAttention = pipeline.StageDecoderMaskedAttention
	StageDecoderAddNorm1        = pipeline.StageDecoderAddNorm1
	StageDecoderCrossAttention  = pipeline.StageDecoderCrossAttention
	StageDecoderAddNorm2        = pipeline.StageDecoderAddNorm2
	StageDecoderFFN             = pipeline.StageDecoderFFN
	StageOutputProjection       = pipeline.StageOutputProjection
	StageTranslationComplete    = pipeline.StageTranslationComplete
)

// Decoder modes.
const (
	TeacherForcing = pipeline.TeacherForcing
	Autoregressive = pipeline.Autoregressive
)

// Attention head modes.
const (
	HeadsCombined = attention.ModeCombined
	HeadsSplit    = attention.ModeSplitHeads
)

// Target languages.
const (
	French  = vocab.French
	Spanish = vocab.Spanish
	German  = vocab.German
	Italian = vocab.Italian
)

// Errors.
var (
	ErrInvalidConfiguration  = pipeline.ErrInvalidConfiguration
	ErrEmptyVocabularyResult = pipeline.ErrEmptyVocabularyResult
	ErrStageNotReady         = pipeline.ErrStageNotReady
	ErrStageNotCompleted     = pipeline.ErrStageNotCompleted
	ErrPipelineComplete      = pipeline.ErrPipelineComplete
	ErrUnknownStage          = pipeline.ErrUnknownStage
)

// New creates an idle controller.
//
// Example:
//
//	c := walkthrough.New()
func New(opts ...Option) *Controller {
	return pipeline.New(opts...)
}

// WithSubworder records how a BPE vocabulary splits each source token.
//
// Example:
//
//	tok, err := walkthrough.NewTikToken("cl100k_base")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	c := walkthrough.New(walkthrough.WithSubworder(tok))
func WithSubworder(s Subworder) Option {
	return pipeline.WithSubworder(s)
}

// NewTikToken loads an OpenAI BPE encoding for subword comparison.
func NewTikToken(encodingName string) (Subworder, error) {
	tok, err := tokenizer.NewTikToken(encodingName)
	if err != nil {
		return nil, err
	}
	return tok, nil
}

// Run walks cfg through every stage on a fresh controller and returns the
// final state.
func Run(ctx context.Context, cfg Config, opts ...Option) (State, error) {
	return pipeline.Run(ctx, cfg, opts...)
}

// RunAll runs each configuration on its own controller, one per CPU at a time,
// and returns the final states in input order.
//
// Example:
//
//	var cfgs []walkthrough.Config
//	for _, lang := range walkthrough.Languages() {
//	    cfg := walkthrough.DefaultConfig("We are best")
//	    cfg.Language = lang
//	    cfgs = append(cfgs, cfg)
//	}
//	states, err := walkthrough.RunAll(ctx, cfgs)
func RunAll(ctx context.Context, cfgs []Config, opts ...Option) ([]State, error) {
	return pipeline.RunAll(ctx, cfgs, parallel.DefaultConfig(), opts...)
}

// Languages returns the supported target languages.
func Languages() []Language {
	return vocab.Languages()
}

// DefaultConfig returns the standard settings for sentence (dModel 6, 2 heads, French).
func DefaultConfig(sentence string) Config {
	return pipeline.DefaultConfig(sentence)
}

// Stages returns the real stages in order.
func Stages() []Stage {
	return pipeline.Stages()
}

// ParseStage resolves a stage identifier such as "decoder_cross_attention".
func ParseStage(name string) (Stage, error) {
	return pipeline.ParseStage(name)
}

// ParseLanguage resolves a language name.
func ParseLanguage(name string) (Language, error) {
	return vocab.ParseLanguage(name)
}

// ParseDecoderMode resolves "teacher-forcing" or "autoregressive".
func ParseDecoderMode(name string) (DecoderMode, error) {
	return pipeline.ParseDecoderMode(name)
}

// IsNotReady reports whether err is a recoverable readiness rejection.
func IsNotReady(err error) bool {
	return pipeline.IsNotReady(err)
}
