// Package observability provides hooks for metrics and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about partition enumeration, recursion tree
// construction, and the Stirling memoization cache.
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which keeps the core
// packages free of any observability framework while still allowing
// Prometheus, OpenTelemetry, or plain log counters to be plugged in.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Enumerator Hooks
// =============================================================================

// EnumeratorHooks receives events from partition enumeration.
type EnumeratorHooks interface {
	// OnFirst records the start of a fresh enumeration.
	OnFirst(ctx context.Context, mode string, n, k int)

	// OnAdvance records a successor or predecessor step. direction is
	// "next" or "previous"; moved is false when the cursor was already at
	// the boundary.
	OnAdvance(ctx context.Context, direction string, moved bool)
}

// =============================================================================
// Tree Hooks
// =============================================================================

// TreeHooks receives events from recursion tree construction and evaluation.
type TreeHooks interface {
	// OnBuild records a completed (or failed) tree expansion.
	OnBuild(ctx context.Context, n, k, nodeCount int, duration time.Duration, err error)

	// OnResolve records a completed post-order evaluation.
	OnResolve(ctx context.Context, n, k int, value int64, duration time.Duration)

	// OnTrace records creation of a reveal sequence.
	OnTrace(ctx context.Context, order string, events int)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from the Stirling memoization cache. The cache
// is consulted deep inside recursive computation, so these callbacks carry
// no context and must be cheap.
type CacheHooks interface {
	// OnMemoHit records a memoized S(n,k) lookup.
	OnMemoHit(n, k int)

	// OnMemoMiss records a freshly computed S(n,k) value.
	OnMemoMiss(n, k int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEnumeratorHooks is a no-op implementation of EnumeratorHooks.
type NoopEnumeratorHooks struct{}

func (NoopEnumeratorHooks) OnFirst(context.Context, string, int, int) {}
func (NoopEnumeratorHooks) OnAdvance(context.Context, string, bool)   {}

// NoopTreeHooks is a no-op implementation of TreeHooks.
type NoopTreeHooks struct{}

func (NoopTreeHooks) OnBuild(context.Context, int, int, int, time.Duration, error) {}
func (NoopTreeHooks) OnResolve(context.Context, int, int, int64, time.Duration)    {}
func (NoopTreeHooks) OnTrace(context.Context, string, int)                         {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnMemoHit(int, int)  {}
func (NoopCacheHooks) OnMemoMiss(int, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	enumeratorHooks EnumeratorHooks = NoopEnumeratorHooks{}
	treeHooks       TreeHooks       = NoopTreeHooks{}
	cacheHooks      CacheHooks      = NoopCacheHooks{}
	hooksMu         sync.RWMutex
)

// SetEnumeratorHooks registers custom enumerator hooks.
// This should be called once at application startup.
func SetEnumeratorHooks(h EnumeratorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		enumeratorHooks = h
	}
}

// SetTreeHooks registers custom tree hooks.
// This should be called once at application startup.
func SetTreeHooks(h TreeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		treeHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Enumerator returns the registered enumerator hooks.
func Enumerator() EnumeratorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return enumeratorHooks
}

// Tree returns the registered tree hooks.
func Tree() TreeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return treeHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	enumeratorHooks = NoopEnumeratorHooks{}
	treeHooks = NoopTreeHooks{}
	cacheHooks = NoopCacheHooks{}
}
