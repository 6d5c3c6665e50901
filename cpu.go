package lzmamt

import "runtime"

// detectConcurrency returns the thread count used when a caller requests
// automatic parallelism (threads == 0). It is a pure query, evaluated once
// per session construction and never memoized, so CPU-affinity changes take
// effect on the next session.
func detectConcurrency() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}
