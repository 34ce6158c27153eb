package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bendchain/pkg/cache"
	sceneio "github.com/matzehuels/bendchain/pkg/io"
	"github.com/matzehuels/bendchain/pkg/scene"
)

// Runner executes pipelines against a cache. It keeps no per-run state and
// may be shared between goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// EvalTTL is the lifetime of cached evaluations; zero means cache.TTLEval.
	EvalTTL time.Duration
}

// NewRunner creates a runner. Nil arguments select a [cache.NullCache], a
// [cache.DefaultKeyer] and log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	r := &Runner{Cache: c, Keyer: keyer, Logger: logger}
	if r.Cache == nil {
		r.Cache = cache.NewNullCache()
	}
	if r.Keyer == nil {
		r.Keyer = cache.NewDefaultKeyer()
	}
	if r.Logger == nil {
		r.Logger = log.Default()
	}
	return r
}

// evalEntry is the cached form of an evaluation.
type evalEntry struct {
	Document sceneio.Document `json:"document"`
	Placed   int              `json:"placed"`
	Skipped  int              `json:"skipped"`
}

// Execute evaluates a copy of s and renders every requested format. s is
// left untouched.
func (r *Runner) Execute(ctx context.Context, s *scene.Scene, opts Options) (*Result, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := r.EvaluateWithCacheInfo(ctx, s, opts)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	res.Stats.EvalTime = time.Since(start)
	r.Logger.Info("evaluated scene",
		"nodes", res.Stats.NodeCount,
		"placed", res.Eval.Placed,
		"cached", res.CacheInfo.EvalHit,
		"took", res.Stats.EvalTime)

	// Artifacts hang off the evaluation key, so a cached evaluation finds
	// its cached drawings without re-encoding the scene.
	owner := cache.Hash([]byte(r.Keyer.EvalKey(res.SceneHash, opts.EvalKeyOpts())))

	start = time.Now()
	res.Artifacts, res.CacheInfo.RenderHit, err = r.renderCached(ctx, res.Scene, owner, opts)
	if err != nil {
		return nil, err
	}
	res.Stats.RenderTime = time.Since(start)
	r.Logger.Info("rendered artifacts",
		"formats", opts.Formats,
		"cached", res.CacheInfo.RenderHit,
		"took", res.Stats.RenderTime)

	return res, nil
}

// EvaluateWithCacheInfo evaluates a copy of s, or loads the evaluation from
// the cache unless opts.Refresh is set. The result has no artifacts.
func (r *Runner) EvaluateWithCacheInfo(ctx context.Context, s *scene.Scene, opts Options) (*Result, error) {
	input, err := sceneio.Marshal(s, sceneio.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("encode scene: %w", err)
	}
	res := &Result{SceneHash: cache.Hash(input), Stats: Stats{NodeCount: s.Len()}}
	key := r.Keyer.EvalKey(res.SceneHash, opts.EvalKeyOpts())

	if !opts.Refresh {
		if sc, er, ok := r.loadEval(ctx, key); ok {
			res.Scene, res.Eval = sc, er
			res.CacheInfo.EvalHit = true
			return res, nil
		}
	}

	work := s.Clone()
	ev := scene.NewEvaluator(r.Logger)
	if opts.Frame != nil {
		res.Eval, err = ev.EvaluateFrame(ctx, work, *opts.Frame)
	} else {
		res.Eval, err = ev.Evaluate(ctx, work)
	}
	if err != nil {
		return nil, err
	}
	res.Scene = work

	data, err := json.Marshal(evalEntry{
		Document: sceneio.FromScene(work),
		Placed:   res.Eval.Placed,
		Skipped:  res.Eval.Skipped,
	})
	if err == nil {
		err = r.Cache.Set(ctx, key, data, r.evalTTL())
	}
	if err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
	}
	return res, nil
}

// loadEval reads a cached evaluation. Unreadable entries count as misses
// and are overwritten by the next evaluation.
func (r *Runner) loadEval(ctx context.Context, key string) (*scene.Scene, scene.EvalResult, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return nil, scene.EvalResult{}, false
	}
	var entry evalEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		r.Logger.Debug("discarding cached evaluation", "key", key, "err", err)
		return nil, scene.EvalResult{}, false
	}
	s, err := entry.Document.ToScene()
	if err != nil {
		r.Logger.Debug("discarding cached evaluation", "key", key, "err", err)
		return nil, scene.EvalResult{}, false
	}
	return s, scene.EvalResult{Placed: entry.Placed, Skipped: entry.Skipped}, true
}

// renderCached returns every format from the cache, or renders them all
// and stores each one. The flag reports a full cache hit.
func (r *Runner) renderCached(ctx context.Context, s *scene.Scene, owner string, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(owner, opts.ArtifactKeyOpts(format)))
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	rendered, err := Render(s, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(owner, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "err", err)
		}
	}
	return rendered, false, nil
}

func (r *Runner) evalTTL() time.Duration {
	if r.EvalTTL > 0 {
		return r.EvalTTL
	}
	return cache.TTLEval
}

// Close closes the cache.
func (r *Runner) Close() error {
	return r.Cache.Close()
}
