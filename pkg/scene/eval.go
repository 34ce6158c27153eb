package scene

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bendchain/pkg/bend"
	"github.com/matzehuels/bendchain/pkg/errors"
	"github.com/matzehuels/bendchain/pkg/observability"
)

// EvalResult summarizes one evaluation tick.
type EvalResult struct {
	Placed   int           // Nodes whose transform was recomputed
	Skipped  int           // Rigged nodes left at their authored transform
	Duration time.Duration // Wall time of the tick
}

// Evaluator drives the solver over a scene.
//
// The Evaluator is stateless except for its logger; the scene is passed to
// every call, so one Evaluator can serve many scenes.
type Evaluator struct {
	Logger *log.Logger
}

// NewEvaluator creates an evaluator. A nil logger uses log.Default().
func NewEvaluator(logger *log.Logger) *Evaluator {
	if logger == nil {
		logger = log.Default()
	}
	return &Evaluator{Logger: logger}
}

// Evaluate runs one tick over s.
//
// Nodes are visited in dependency order. A rigged bend whose predecessor
// exists and is a bend gets its world transform recomputed; the
// predecessor's direction is reset to 0 first. Rigged nodes without a
// usable predecessor are skipped and keep their transform. The first solver
// error aborts the tick.
func (e *Evaluator) Evaluate(ctx context.Context, s *Scene) (EvalResult, error) {
	start := time.Now()
	hooks := observability.Eval()
	hooks.OnEvaluateStart(ctx, s.Len())

	res, err := e.evaluate(ctx, s)
	res.Duration = time.Since(start)

	hooks.OnEvaluateComplete(ctx, res.Placed, res.Duration, err)
	return res, err
}

func (e *Evaluator) evaluate(ctx context.Context, s *Scene) (EvalResult, error) {
	var res EvalResult

	order, err := s.Order()
	if err != nil {
		return res, err
	}

	for _, id := range order {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		n, _ := s.Node(id)
		if !n.Rigged() || !n.IsBend() {
			continue
		}
		pred, ok := s.Predecessor(n)
		if !ok || !pred.IsBend() {
			res.Skipped++
			continue
		}

		pred.Direction = 0
		world, err := bend.Solve(n.Bend, pred.Bend, pred.World, n.Tag.Link)
		observability.Eval().OnSolve(ctx, n.Name, pred.Bend.Curved(), err)
		if err != nil {
			return res, fmt.Errorf("solve %s after %s: %w", n.Name, pred.Name, err)
		}
		n.World = world
		res.Placed++

		e.Logger.Debug("placed node", "node", n.Name, "after", pred.Name, "transform", world)
	}
	return res, nil
}

// SampleTracks writes every node's animated strength at frame.
// It returns the number of nodes that carry a track.
func SampleTracks(s *Scene, frame float64) int {
	var animated int
	for _, n := range s.nodes {
		if v, ok := n.Track.Sample(frame); ok {
			n.Bend.Strength = v
			animated++
		}
	}
	return animated
}

// EvaluateFrame samples strength tracks at frame, then evaluates.
func (e *Evaluator) EvaluateFrame(ctx context.Context, s *Scene, frame float64) (EvalResult, error) {
	SampleTracks(s, frame)
	return e.Evaluate(ctx, s)
}

// FrameFunc receives the scene after each frame of [Evaluator.Run].
type FrameFunc func(frame int, s *Scene, res EvalResult) error

// Run evaluates every frame from first to last inclusive, calling fn after
// each. It stops at the first error from evaluation, fn, or ctx.
func (e *Evaluator) Run(ctx context.Context, s *Scene, first, last int, fn FrameFunc) error {
	if last < first {
		return errors.New(errors.ErrCodeInvalidInput, "frame range %d..%d is empty", first, last)
	}
	for frame := first; frame <= last; frame++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := e.EvaluateFrame(ctx, s, float64(frame))
		if err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
		if fn != nil {
			if err := fn(frame, s, res); err != nil {
				return err
			}
		}
	}
	e.Logger.Debug("ran frames", "first", first, "last", last)
	return nil
}
