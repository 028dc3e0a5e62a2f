package spectral

import (
	"runtime"
	"sync"
)

// Lines shorter than this are not worth a goroutine handoff.
const minLinesPerWorker = 16

// parallelLines executes fn over chunks of [0, n). Parallelism stays
// inside a single transform; callers sequence whole transforms strictly.
func parallelLines(n int, fn func(start, end int)) {
	workers := runtime.NumCPU()
	if n < 2*minLinesPerWorker || workers <= 1 {
		fn(0, n)
		return
	}

	if n/minLinesPerWorker < workers {
		workers = n / minLinesPerWorker
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
