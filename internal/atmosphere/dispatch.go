package atmosphere

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// workerCount resolves the dispatch parallelism: package override, then settings, then NumCPU.
func workerCount(settings Settings) int {
	workers := Workers
	if workers <= 0 {
		workers = settings.Workers
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	DebugLogOnce("Dispatch: workers=%d workgroup=%dx%d", workers, WorkgroupSize, WorkgroupSize)
	return workers
}

// tileCount is the number of WorkgroupSize tiles covering n invocations (div_ceil).
func tileCount(n int) int {
	return (n + WorkgroupSize - 1) / WorkgroupSize
}

// dispatch2D runs kernel(x, y) for every x in [0,w) and y in [0,h), one goroutine task per
// WorkgroupSize×WorkgroupSize tile, at most workers at a time. It returns once every invocation
// has finished (the write-then-read barrier) or the context is cancelled; a cancelled frame
// leaves the target texture partially written and must be discarded.
func dispatch2D(ctx context.Context, workers, w, h int, kernel func(x, y int)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	tx, ty := tileCount(w), tileCount(h)
	for j := 0; j < ty; j++ {
		for i := 0; i < tx; i++ {
			if err := ctx.Err(); err != nil {
				_ = g.Wait()
				return err
			}
			x0, y0 := i*WorkgroupSize, j*WorkgroupSize
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				x1 := min(x0+WorkgroupSize, w)
				y1 := min(y0+WorkgroupSize, h)
				for y := y0; y < y1; y++ {
					for x := x0; x < x1; x++ {
						kernel(x, y)
					}
				}
				return nil
			})
		}
	}
	return g.Wait()
}
