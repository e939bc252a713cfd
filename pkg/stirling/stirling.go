// Package stirling computes Stirling numbers of the second kind and expands
// the recurrence S(n,k) = k·S(n-1,k) + S(n-1,k-1) into an explicit recursion
// tree for step-by-step visualization.
//
// The package has two layers:
//
//   - Value computation: [S] and [Bell] return exact counts using a
//     process-lifetime memoization cache.
//   - Tree expansion: [Build] constructs the full, unshared recursion tree
//     for a single S(n,k) call, [Tree.Resolve] fills in node values, and
//     [Tree.Trace] produces a deterministic reveal sequence for animation.
//
// The tree is deliberately not a shared DAG: every recursive call site gets
// its own node, even when (n,k) repeats, so an animation shows the same
// recomputation pattern as the naive recursive definition.
package stirling

import (
	"errors"
	"sync"

	"github.com/Torito9609/stirling-partitions-simulation/pkg/observability"
)

// ErrInvalidRequest is returned by [Build] when the requested (n,k) pair has
// no defined recurrence path: negative n, negative k, or k > n. Inputs above
// [MaxBuildN] are also rejected because the unshared expansion grows as 2^n.
var ErrInvalidRequest = errors.New("invalid stirling request")

// MaxN is the largest n for which S(n,k) and Bell(n) are guaranteed to fit
// in an int64. Bell(25) = 4638590332229999353; Bell(26) overflows.
const MaxN = 25

// MaxBuildN caps [Build]. An unshared recursion tree for S(n,k) has up to
// 2^n - 1 nodes, so expansion beyond this is useless for display and would
// only exhaust memory.
const MaxBuildN = 20

var (
	memoMu sync.RWMutex
	memo   = map[[2]int]int64{}
)

// S returns the Stirling number of the second kind S(n,k): the number of
// partitions of an n-element set into exactly k nonempty blocks.
//
// S is total: out-of-range inputs (k < 0, k > n, negative n) return 0,
// matching the mathematical convention. Results are memoized for the
// lifetime of the process; the cache is safe for concurrent use.
//
// Callers must keep n ≤ [MaxN] to avoid int64 overflow.
func S(n, k int) int64 {
	if k < 0 || k > n || n < 0 {
		return 0
	}
	if n == k {
		return 1 // covers S(0,0) = 1
	}
	if k == 0 {
		return 0
	}

	key := [2]int{n, k}
	memoMu.RLock()
	v, ok := memo[key]
	memoMu.RUnlock()
	if ok {
		observability.Cache().OnMemoHit(n, k)
		return v
	}
	observability.Cache().OnMemoMiss(n, k)

	v = int64(k)*S(n-1, k) + S(n-1, k-1)

	memoMu.Lock()
	memo[key] = v
	memoMu.Unlock()
	return v
}

// Bell returns the Bell number B(n): the total number of partitions of an
// n-element set, i.e. the sum of S(n,k) over all k. B(0) = 1 (the empty
// partition). Negative n returns 0.
//
// Callers must keep n ≤ [MaxN] to avoid int64 overflow.
func Bell(n int) int64 {
	if n < 0 {
		return 0
	}
	var sum int64
	for k := 0; k <= n; k++ {
		sum += S(n, k)
	}
	return sum
}
