package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug records to a
// logger.
type LogHooks struct {
	Logger *log.Logger
}

var (
	_ EvalHooks  = LogHooks{}
	_ CacheHooks = LogHooks{}
	_ HTTPHooks  = LogHooks{}
)

// NewLogHooks creates hooks that log to l, or to log.Default() when l is
// nil.
func NewLogHooks(l *log.Logger) LogHooks {
	if l == nil {
		l = log.Default()
	}
	return LogHooks{Logger: l.WithPrefix("hooks")}
}

func (h LogHooks) OnEvaluateStart(_ context.Context, nodeCount int) {
	h.Logger.Debug("evaluate start", "nodes", nodeCount)
}

func (h LogHooks) OnEvaluateComplete(_ context.Context, placed int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("evaluate failed", "placed", placed, "took", d, "err", err)
		return
	}
	h.Logger.Debug("evaluate done", "placed", placed, "took", d)
}

func (h LogHooks) OnSolve(_ context.Context, node string, curved bool, err error) {
	branch := "straight"
	if curved {
		branch = "arc"
	}
	if err != nil {
		h.Logger.Debug("solve failed", "node", node, "branch", branch, "err", err)
		return
	}
	h.Logger.Debug("solve", "node", node, "branch", branch)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "path", path, "status", status, "took", d)
}
