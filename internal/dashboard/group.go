package dashboard

import (
	"context"
	"sync"
)

// Task is one branch of a parallel group.
type Task func(ctx context.Context) error

// JoinAll runs every task concurrently and returns the first error as soon
// as it happens, or nil once all tasks succeeded. Remaining tasks are not
// cancelled: they run to completion and only their return values are
// dropped. Side effects they perform, such as rendering, still apply.
func JoinAll(ctx context.Context, tasks ...Task) error {
	return joinAll(ctx, nil, tasks...)
}

// joinAll is JoinAll with every branch counted on wg, when non-nil, until it
// returns.
func joinAll(ctx context.Context, wg *sync.WaitGroup, tasks ...Task) error {
	// Buffered so stragglers never block after an early return.
	results := make(chan error, len(tasks))
	if wg != nil {
		wg.Add(len(tasks))
	}
	for _, task := range tasks {
		go func(task Task) {
			if wg != nil {
				defer wg.Done()
			}
			results <- task(ctx)
		}(task)
	}

	for range tasks {
		if err := <-results; err != nil {
			return err
		}
	}
	return nil
}
