// Package observability lets callers watch chain evaluation, cache traffic
// and API requests without the libraries depending on a metrics backend.
//
// Each event category has an interface and a no-op implementation. The
// registry starts with the no-ops; callers replace them at startup and the
// libraries fetch the current hooks on every event.
//
// # Usage
//
// Register hooks at application startup. [LogHooks] reports every event to
// a logger and is what the CLI installs with --verbose:
//
//	hooks := observability.NewLogHooks(logger)
//	observability.SetEvalHooks(hooks)
//	observability.SetCacheHooks(hooks)
//
// Libraries call hooks to emit events:
//
//	observability.Eval().OnEvaluateStart(ctx, nodeCount)
//	// ... evaluate ...
//	observability.Eval().OnEvaluateComplete(ctx, placed, duration, err)
package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// =============================================================================
// Evaluation Hooks
// =============================================================================

// EvalHooks receives events from scene evaluation.
type EvalHooks interface {
	// Tick events
	OnEvaluateStart(ctx context.Context, nodeCount int)
	OnEvaluateComplete(ctx context.Context, placed int, duration time.Duration, err error)

	// OnSolve records one solver call; curved reports the arc branch.
	OnSolve(ctx context.Context, node string, curved bool, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed HTTP response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEvalHooks is a no-op implementation of EvalHooks.
type NoopEvalHooks struct{}

func (NoopEvalHooks) OnEvaluateStart(context.Context, int)                          {}
func (NoopEvalHooks) OnEvaluateComplete(context.Context, int, time.Duration, error) {}
func (NoopEvalHooks) OnSolve(context.Context, string, bool, error)                  {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Registry
// =============================================================================

// registry is swapped as a whole so readers never take a lock on the
// evaluation hot path.
type registry struct {
	eval  EvalHooks
	cache CacheHooks
	http  HTTPHooks
}

var (
	current atomic.Pointer[registry]
	writeMu sync.Mutex // Serializes Set* so concurrent updates are not lost
)

func init() {
	Reset()
}

func update(fn func(r *registry)) {
	writeMu.Lock()
	defer writeMu.Unlock()
	r := *current.Load()
	fn(&r)
	current.Store(&r)
}

// SetEvalHooks registers evaluation hooks. A nil h is ignored.
func SetEvalHooks(h EvalHooks) {
	if h != nil {
		update(func(r *registry) { r.eval = h })
	}
}

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks registers HTTP hooks. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

// Eval returns the registered evaluation hooks.
func Eval() EvalHooks { return current.Load().eval }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return current.Load().cache }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return current.Load().http }

// Reset restores the no-op hooks.
func Reset() {
	writeMu.Lock()
	defer writeMu.Unlock()
	current.Store(&registry{eval: NoopEvalHooks{}, cache: NoopCacheHooks{}, http: NoopHTTPHooks{}})
}
