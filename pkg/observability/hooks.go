// Package observability provides hooks for instrumenting netergm runs.
//
// Libraries emit events through the registered hooks; the defaults do
// nothing. The CLI registers logger-backed hooks in verbose mode, and other
// embedders can route the same events to a metrics backend without the
// libraries depending on one.
//
// Register hooks once at startup:
//
//	observability.SetFitHooks(myFitHooks{})
//	observability.SetCacheHooks(myCacheHooks{})
//
// Libraries call them around the work they do:
//
//	observability.Fit().OnFitStart(ctx, spec.Name, len(terms))
//	// ... estimate ...
//	observability.Fit().OnFitComplete(ctx, spec.Name, logLik, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives stage events from the pipeline runner.
type PipelineHooks interface {
	OnLoadStart(ctx context.Context, adjacency, attributes string)
	OnLoadComplete(ctx context.Context, nodes, ties int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// Fit Hooks
// =============================================================================

// FitHooks receives events for every model the comparator fits.
type FitHooks interface {
	// OnFitStart is called after the model is bound, before estimation.
	OnFitStart(ctx context.Context, model string, params int)

	// OnFitComplete is called with the log-likelihood, or err on failure.
	OnFitComplete(ctx context.Context, model string, logLik float64, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache lookups. keyType is "fit", "http"
// or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from remote source downloads.
type HTTPHooks interface {
	OnRequest(ctx context.Context, url string, attempt int)
	OnResponse(ctx context.Context, url string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, url string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks ignores every event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string, string)                         {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, int, int, time.Duration, error)      {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// NoopFitHooks ignores every event.
type NoopFitHooks struct{}

func (NoopFitHooks) OnFitStart(context.Context, string, int)                              {}
func (NoopFitHooks) OnFitComplete(context.Context, string, float64, time.Duration, error) {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, int)                 {}
func (NoopHTTPHooks) OnResponse(context.Context, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	fitHooks      FitHooks      = NoopFitHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetFitHooks registers fit hooks. Nil is ignored.
func SetFitHooks(h FitHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		fitHooks = h
	}
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Fit returns the registered fit hooks.
func Fit() FitHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return fitHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores the no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	fitHooks = NoopFitHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
