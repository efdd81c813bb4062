// Package parallel runs independent walkthroughs side by side.
package parallel

import (
	"context"
	"runtime"
	"sync"
)

// Config controls how many items run at once.
type Config struct {
	Enabled    bool // Run concurrently; false runs items in order.
	NumWorkers int  // Upper bound on concurrent items.
}

// DefaultConfig returns one worker per CPU.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:    n > 1,
		NumWorkers: n,
	}
}

// Map calls f for every i in [0, n) and collects the results in index order.
// The first error cancels the context passed to the remaining calls and is
// returned; results are then incomplete.
func Map[T any](ctx context.Context, n int, cfg Config, f func(ctx context.Context, i int) (T, error)) ([]T, error) {
	out := make([]T, n)
	if n == 0 {
		return out, ctx.Err()
	}

	if !cfg.Enabled || cfg.NumWorkers < 2 || n == 1 {
		for i := range n {
			if err := ctx.Err(); err != nil {
				return out, err
			}
			v, err := f(ctx, i)
			if err != nil {
				return out, err
			}
			out[i] = v
		}
		return out, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	next := make(chan int)
	for range min(cfg.NumWorkers, n) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				v, err := f(ctx, i)
				if err != nil {
					fail(err)
					continue
				}
				out[i] = v
			}
		}()
	}

feed:
	for i := range n {
		select {
		case next <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(next)
	wg.Wait()

	if firstErr != nil {
		return out, firstErr
	}
	return out, ctx.Err()
}
