// Package pipeline sequences the forward pass of a small Transformer
// encoder-decoder as an explicit state machine.
//
// A Controller owns one run at a time. Collaborators submit a configuration, then
// step through the 16 stages with Advance, review finished stages with JumpTo, and
// read copies of the per-stage data products. Nothing here knows about timing or
// rendering; pacing belongs to the caller.
//
// Example:
//
//	c := pipeline.New()
//	if err := c.Submit(pipeline.DefaultConfig("We are best")); err != nil {
//	    log.Fatal(err)
//	}
//	for !c.Done() {
//	    if err := c.Advance(); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//	fmt.Println(c.Translation())
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/born-ml/walkthrough/internal/tokenizer"
	"github.com/born-ml/walkthrough/internal/vocab"
	"github.com/born-ml/walkthrough/internal/weights"
)

// Controller drives a run through the stages. It is safe for concurrent use.
type Controller struct {
	mu        sync.Mutex
	table     *vocab.Table
	subworder tokenizer.Subworder
	state     State
}

// Option customizes a Controller.
type Option func(*Controller)

// WithSubworder records a BPE split of every source token at the tokenizing stage.
func WithSubworder(s tokenizer.Subworder) Option {
	return func(c *Controller) { c.subworder = s }
}

// New creates an idle controller.
func New(opts ...Option) *Controller {
	c := &Controller{table: vocab.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit validates cfg, tokenizes the sentence and starts a fresh run positioned
// at the tokenizing stage. Previous run data is discarded only on success; a
// rejected submission leaves the controller untouched.
func (c *Controller) Submit(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	lang, err := vocab.ParseLanguage(string(cfg.Language))
	if err != nil {
		return &ConfigError{Field: "language", Reason: err.Error()}
	}
	cfg.Language = lang

	tokens := c.table.Tokenize(cfg.Sentence, cfg.MaxWords)
	if len(tokens) == 0 {
		return fmt.Errorf("%w: %q", ErrEmptyVocabularyResult, cfg.Sentence)
	}

	first := &StageOutput{Stage: StageTokenizing, Tokens: tokens}
	if c.subworder != nil {
		pieces, err := tokenizer.SplitAll(c.subworder, tokens)
		if err != nil {
			return fmt.Errorf("tokenizing: %s: %w", c.subworder.Name(), err)
		}
		first.Subwords = pieces
	}

	var provider *weights.Provider
	if cfg.Seed >= 0 {
		provider = weights.NewProvider(uint64(cfg.Seed))
	} else {
		provider = weights.NewRandomProvider()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = State{
		RunID:    uuid.New(),
		Config:   cfg,
		Current:  StageTokenizing,
		provider: provider,
	}
	c.state.store(first)
	return nil
}

// Advance moves to the next stage.
//
// The current stage's output must be stored. The next stage's output is computed
// from stored outputs with freshly drawn weights, unless it is already stored from
// before a JumpTo, in which case it is reused unchanged. On any error the state
// is not modified.
func (c *Controller) Advance() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.advanceLocked()
}

func (c *Controller) advanceLocked() error {
	st := &c.state
	switch {
	case st.Current == StageIdle:
		return fmt.Errorf("%w: no sentence submitted", ErrStageNotReady)
	case st.Done():
		return ErrPipelineComplete
	case st.Output(st.Current) == nil:
		return notReady(st.Current+1, st.Current)
	}

	next := st.Current + 1
	if st.Output(next) == nil {
		out, err := compute(next, st, c.table)
		if err != nil {
			return err
		}
		st.store(out)
	}
	st.Current = next
	return nil
}

// CanAdvance reports whether Advance would currently be accepted, without
// computing anything.
func (c *Controller) CanAdvance() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := &c.state
	return st.Current != StageIdle && !st.Done() && st.Output(st.Current) != nil
}

// JumpTo returns to a completed stage for review. Jumping to the current stage,
// a later stage or an unknown stage fails without changing anything.
func (c *Controller) JumpTo(stage Stage) error {
	if !stage.Valid() || stage == StageIdle {
		return fmt.Errorf("%w: %d", ErrUnknownStage, int(stage))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.IsCompleted(stage) {
		return fmt.Errorf("%w: %s (current %s)", ErrStageNotCompleted, stage, c.state.Current)
	}
	c.state.Current = stage
	return nil
}

// Reset discards the run and returns to idle.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = State{}
}

// Pause stops Play at the next stage boundary.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Paused = true
}

// Resume clears a pause so Play can continue.
func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Paused = false
}

// Play advances stage by stage until the run completes, the controller is paused,
// or ctx is done. observe, if non-nil, is called after every advance with the new
// stage and without the controller lock held, so it may call Pause or read
// snapshots. Play never stops mid-stage; after a pause, Resume and Play continue
// from exactly where it stopped.
func (c *Controller) Play(ctx context.Context, observe func(Stage)) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.mu.Lock()
		if c.state.Paused || c.state.Done() {
			c.mu.Unlock()
			return nil
		}
		err := c.advanceLocked()
		stage := c.state.Current
		c.mu.Unlock()

		if err != nil {
			return err
		}
		if observe != nil {
			observe(stage)
		}
	}
}

// Current returns the current stage.
func (c *Controller) Current() Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Current
}

// Phase returns the phase of the current stage.
func (c *Controller) Phase() Phase {
	return c.Current().Phase()
}

// Completed returns the completed stages in order.
func (c *Controller) Completed() []Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Completed()
}

// Done reports whether translation_complete has been reached.
func (c *Controller) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Done()
}

// Paused reports whether the controller is paused.
func (c *Controller) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Paused
}

// RunID identifies the current run; uuid.Nil when idle.
func (c *Controller) RunID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.RunID
}

// Output returns a copy of the stored product of stage.
func (c *Controller) Output(stage Stage) (*StageOutput, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.state.Output(stage)
	return out.Clone(), out != nil
}

// Snapshot returns a deep copy of the whole state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Tokens returns the source tokens of the run.
func (c *Controller) Tokens() []string {
	out, ok := c.Output(StageTokenizing)
	if !ok {
		return nil
	}
	return out.Tokens
}

// Translation returns the decoded translation once translation_complete has been
// computed.
func (c *Controller) Translation() ([]string, bool) {
	out, ok := c.Output(StageTranslationComplete)
	if !ok {
		return nil, false
	}
	return out.Tokens, true
}

// IsNotReady reports whether err means a stage could not run yet. Such errors are
// recoverable and need not be shown to the end user.
func IsNotReady(err error) bool {
	return errors.Is(err, ErrStageNotReady) || errors.Is(err, ErrPipelineComplete)
}
