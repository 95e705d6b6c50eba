package core

import (
	"runtime"
	"sync"
)

// Rows splits [0, n) into contiguous row ranges and runs fn on each range from
// its own goroutine, waiting for all of them before returning. fn must only
// write rows inside its range; inputs it reads must stay immutable for the
// duration of the call.
func Rows(n int, fn func(y0, y1 int)) {
	if n <= 0 {
		return
	}
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, n)
		return
	}
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for y := 0; y < n; y += chunk {
		y1 := y + chunk
		if y1 > n {
			y1 = n
		}
		wg.Add(1)
		go func(a, b int) {
			defer wg.Done()
			fn(a, b)
		}(y, y1)
	}
	wg.Wait()
}
