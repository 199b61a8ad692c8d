package dining

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultBatchSize  = 5
	DefaultBatchPause = time.Second
)

// BatchPolicy is the pacing contract for talking to the portal:
// at most Size concurrent fetches, and a Pause between one batch
// finishing and the next starting. the portal has abuse detection and
// a batch of dozens of simultaneous session bootstraps trips it.
type BatchPolicy struct {
	Size  int           `json:"size"`
	Pause time.Duration `json:"-"`
	// PauseMs exists for json config, Pause wins when both are set
	PauseMs int `json:"pause_ms"`
}

func (p BatchPolicy) withDefaults() BatchPolicy {
	if p.Size <= 0 {
		p.Size = DefaultBatchSize
	}
	if p.Pause == 0 && p.PauseMs > 0 {
		p.Pause = time.Duration(p.PauseMs) * time.Millisecond
	}
	if p.Pause == 0 {
		p.Pause = DefaultBatchPause
	}
	return p
}

// NumBatches reports how many batches n items partition into.
func (p BatchPolicy) NumBatches(n int) int {
	p = p.withDefaults()
	return (n + p.Size - 1) / p.Size
}

// RunBatched runs fn over items in fixed-size concurrent batches.
// batch N+1 does not start until every item of batch N has finished,
// and the pause is inserted between batches (never after the last).
//
// results are indexed like items. fn is expected to swallow its own
// failures into the result value, one item failing must never take
// its siblings down. cancelling the context stops further batches
// from being scheduled; processed reports how many leading items ran,
// slots past it hold zero values and the caller decides what those
// unprocessed items should look like.
func RunBatched[T any, R any](ctx context.Context, policy BatchPolicy, items []T, fn func(context.Context, T) R) (results []R, processed int) {
	policy = policy.withDefaults()
	results = make([]R, len(items))

	for start := 0; start < len(items); start += policy.Size {
		end := start + policy.Size
		if end > len(items) {
			end = len(items)
		}

		wg := sync.WaitGroup{}
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = fn(ctx, items[i])
			}(i)
		}
		wg.Wait()

		if end < len(items) {
			select {
			case <-ctx.Done():
				return results, end
			case <-time.After(policy.Pause):
			}
		}
	}

	return results, len(items)
}
