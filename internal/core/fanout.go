// ABOUTME: Ordered fan-out of independent model calls with bounded concurrency
// ABOUTME: The lowest failing index wins and every call above it is cancelled
package core

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// fanOut calls fn for each index in [0, n) with at most limit calls in flight.
// It returns the lowest failing index and its error, or -1 and nil.
// A failure cancels the calls above it and skips any not yet started; calls
// below it run to completion, so the reported failure does not depend on
// scheduling. A limit below 2 runs in index order and stops at the first error.
func fanOut(ctx context.Context, n, limit int, fn func(ctx context.Context, i int) error) (int, error) {
	if limit < 2 {
		for i := range n {
			if err := fn(ctx, i); err != nil {
				return i, err
			}
		}
		return -1, nil
	}

	var (
		mu       sync.Mutex
		failed   = n
		firstErr error
		cancels  = make([]context.CancelFunc, n)
	)

	var g errgroup.Group
	g.SetLimit(limit)
	for i := range n {
		mu.Lock()
		if i > failed {
			mu.Unlock()
			break
		}
		callCtx, cancel := context.WithCancel(ctx)
		cancels[i] = cancel
		mu.Unlock()

		g.Go(func() error {
			defer cancel()

			mu.Lock()
			skip := i > failed
			mu.Unlock()
			if skip {
				return nil
			}

			err := fn(callCtx, i)
			if err == nil {
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			if i < failed {
				failed, firstErr = i, err
				for _, c := range cancels[i+1:] {
					if c != nil {
						c()
					}
				}
			}
			return err
		})
	}
	_ = g.Wait()

	if firstErr == nil {
		return -1, nil
	}
	return failed, firstErr
}
