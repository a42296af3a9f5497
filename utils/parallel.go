package utils

import (
	"context"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ParallelFactor is the most goroutines ChunkParallel starts. Tests may lower it.
var ParallelFactor = max(runtime.GOMAXPROCS(0), 1)

// ChunkFunc handles the items in [from, to).
type ChunkFunc func(ctx context.Context, from, to int) error

// ChunkParallel splits [0, total) into at most ParallelFactor contiguous chunks of nearly equal
// size and hands each to fn on its own goroutine. The first error cancels the context of the
// remaining chunks and is returned.
func ChunkParallel(ctx context.Context, total int, fn ChunkFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	chunks := min(ParallelFactor, total)
	if chunks <= 0 {
		return nil
	}
	group, ctx := errgroup.WithContext(ctx)
	for i := 0; i < chunks; i++ {
		from, to := i*total/chunks, (i+1)*total/chunks
		group.Go(recovered(func() error { return fn(ctx, from, to) }))
	}
	return group.Wait()
}

// SimpleFunc is one task for RunInParallel.
type SimpleFunc func(ctx context.Context) error

// RunInParallel runs every function on its own goroutine and waits for all of them. A failure
// or panic cancels the context of the others. It returns the wall time spent.
func RunInParallel(ctx context.Context, fs []SimpleFunc) (time.Duration, error) {
	start := time.Now()
	group, ctx := errgroup.WithContext(ctx)
	for _, f := range fs {
		f := f
		group.Go(recovered(func() error { return f(ctx) }))
	}
	err := group.Wait()
	return time.Since(start), err
}

// recovered turns a panic in f into its error, so the group cancels the other tasks and Wait
// reports it. goutils.PanicCapturingGo only logs a panic, which would leave Wait blocked.
func recovered(f func() error) func() error {
	return func() (err error) {
		defer func() {
			if thePanic := recover(); thePanic != nil {
				err = errors.Errorf("got panic running something in parallel: %v", thePanic)
			}
		}()
		return f()
	}
}
