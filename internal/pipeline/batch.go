package pipeline

import (
	"context"
	"fmt"

	"github.com/born-ml/walkthrough/internal/parallel"
)

// Run submits cfg to a fresh Controller and advances it to translation_complete.
// The context is checked between stages.
func Run(ctx context.Context, cfg Config, opts ...Option) (State, error) {
	c := New(opts...)
	if err := c.Submit(cfg); err != nil {
		return State{}, err
	}
	for !c.Done() {
		if err := ctx.Err(); err != nil {
			return c.Snapshot(), err
		}
		if err := c.Advance(); err != nil {
			return c.Snapshot(), fmt.Errorf("stage after %s: %w", c.Current(), err)
		}
	}
	return c.Snapshot(), nil
}

// RunAll runs every configuration to completion, each on its own Controller,
// and returns the final states in input order. Weights are drawn per run, so
// runs only match when their seeds do.
func RunAll(ctx context.Context, cfgs []Config, pc parallel.Config, opts ...Option) ([]State, error) {
	return parallel.Map(ctx, len(cfgs), pc, func(ctx context.Context, i int) (State, error) {
		st, err := Run(ctx, cfgs[i], opts...)
		if err != nil {
			return st, fmt.Errorf("run %d (%s): %w", i, cfgs[i].Language, err)
		}
		return st, nil
	})
}
