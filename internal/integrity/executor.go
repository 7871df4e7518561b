package integrity

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// Executor caps how many rule evaluations and repository fetches run at
// once during scans and batch validation, so a full-guild scan cannot
// overwhelm the backing store. Waiters acquire slots in FIFO submission
// order. A failing unit reports only to its own submitter; other units are
// unaffected.
type Executor struct {
	sem   *semaphore.Weighted
	limit int
}

// NewExecutor creates an Executor allowing maxConcurrent units at once.
// Values below 1 are clamped to 1.
func NewExecutor(maxConcurrent int) *Executor {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Executor{
		sem:   semaphore.NewWeighted(int64(maxConcurrent)),
		limit: maxConcurrent,
	}
}

// Limit returns the configured concurrency cap.
func (e *Executor) Limit() int {
	return e.limit
}

// Do runs fn once a slot is free, blocking the calling goroutine until
// then. The only errors Do adds to fn's own are context cancellations hit
// while waiting for a slot.
func (e *Executor) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := e.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("integrity.Executor.Do: acquire: %w", err)
	}
	defer e.sem.Release(1)

	return fn(ctx)
}
