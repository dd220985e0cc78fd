package dynamo

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParallelFor executes fn over contiguous chunks of [0, n) using at most
// workers goroutines and returns after every chunk has finished. Chunks never
// overlap, so fn may write to per-index slots without synchronization.
// workers <= 0 means GOMAXPROCS.
func ParallelFor(n, minChunk, workers int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || workers == 1 {
		fn(0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		g.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	_ = g.Wait()
}
