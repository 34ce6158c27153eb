package scene

import (
	"context"
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/matzehuels/bendchain/pkg/bend"
	"github.com/matzehuels/bendchain/pkg/errors"
	"github.com/matzehuels/bendchain/pkg/geom"
)

func quietEvaluator() *Evaluator {
	return NewEvaluator(log.New(io.Discard))
}

// chain builds a rigged chain of bends with the given lengths.
func chain(t *testing.T, lengths ...float64) (*Scene, []*Node) {
	t.Helper()
	s := New()
	var nodes []*Node
	var ids []NodeID
	for i, l := range lengths {
		n := mustAdd(t, s, string(rune('A'+i)), l)
		nodes = append(nodes, n)
		ids = append(ids, n.ID)
	}
	if _, err := s.ApplyRig(ids, bend.Link{}); err != nil {
		t.Fatalf("ApplyRig() error: %v", err)
	}
	return s, nodes
}

func TestEvaluateStraightChain(t *testing.T) {
	s, nodes := chain(t, 10, 4, 6)
	nodes[0].World = geom.Place(mgl64.Vec3{1, 0, 0}, 0, 0, 0)

	res, err := quietEvaluator().Evaluate(context.Background(), s)
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if res.Placed != 2 || res.Skipped != 1 {
		t.Errorf("result = %+v, want 2 placed, 1 skipped (chain root)", res)
	}

	// Centers stack along Y: 0, 5+2, 7+2+3.
	want := []mgl64.Vec3{{1, 0, 0}, {1, 7, 0}, {1, 12, 0}}
	for i, n := range nodes {
		if !geom.Near(n.World.Pos, want[i], 1e-9) {
			t.Errorf("%s position = %v, want %v", n.Name, n.World.Pos, want[i])
		}
	}
}

func TestEvaluatePropagatesInOneTick(t *testing.T) {
	// Insert tail first: a single tick must still see updated predecessors.
	s := New()
	c := mustAdd(t, s, "C", 2)
	b := mustAdd(t, s, "B", 2)
	a := mustAdd(t, s, "A", 2)
	if _, err := s.ApplyRig([]NodeID{a.ID, b.ID, c.ID}, bend.Link{}); err != nil {
		t.Fatal(err)
	}
	a.Bend.Strength = math.Pi / 2
	b.Bend.Strength = math.Pi / 2

	ev := quietEvaluator()
	if _, err := ev.Evaluate(context.Background(), s); err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	once := c.World

	if _, err := ev.Evaluate(context.Background(), s); err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if c.World != once {
		t.Errorf("second tick moved the tail: %v vs %v", c.World, once)
	}

	// Two quarter turns point the tail straight down.
	axis := c.World.ApplyDir(mgl64.Vec3{0, 1, 0})
	if !geom.Near(axis, mgl64.Vec3{0, -1, 0}, 1e-9) {
		t.Errorf("tail axis = %v, want -Y", axis)
	}
}

func TestEvaluateResetsPredecessorDirection(t *testing.T) {
	s, nodes := chain(t, 1, 1)
	nodes[0].Direction = 0.8
	nodes[1].Direction = 0.3

	if _, err := quietEvaluator().Evaluate(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	if nodes[0].Direction != 0 {
		t.Errorf("predecessor direction = %v, want 0", nodes[0].Direction)
	}
	if nodes[1].Direction != 0.3 {
		t.Errorf("tail direction = %v, want untouched", nodes[1].Direction)
	}
}

func TestEvaluateSkipsNonBendPredecessor(t *testing.T) {
	s := New()
	null, _ := s.Add(Node{Name: "Null", Kind: KindNull})
	b := mustAdd(t, s, "B", 1)
	b.Tag = &RigTag{Predecessor: null.ID}
	b.World = geom.Place(mgl64.Vec3{3, 3, 3}, 0, 0, 0)

	res, err := quietEvaluator().Evaluate(context.Background(), s)
	if err != nil {
		t.Fatal(err)
	}
	if res.Placed != 0 || res.Skipped != 1 {
		t.Errorf("result = %+v, want 1 skipped", res)
	}
	if b.World != geom.Place(mgl64.Vec3{3, 3, 3}, 0, 0, 0) {
		t.Error("skipped node should keep its transform")
	}
}

func TestEvaluateDomainError(t *testing.T) {
	s, _ := chain(t, 0, 1)

	_, err := quietEvaluator().Evaluate(context.Background(), s)
	if !errors.Is(err, errors.ErrCodeDomain) {
		t.Errorf("Evaluate() error = %v, want DOMAIN_ERROR", err)
	}
}

func TestEvaluateCanceled(t *testing.T) {
	s, _ := chain(t, 1, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := quietEvaluator().Evaluate(ctx, s); err != context.Canceled {
		t.Errorf("Evaluate() error = %v, want context.Canceled", err)
	}
}

func TestRunSamplesTracks(t *testing.T) {
	s, nodes := chain(t, 2, 2)
	track, err := NewTrack(Keyframe{Frame: 0, Value: 0}, Keyframe{Frame: 4, Value: math.Pi / 2})
	if err != nil {
		t.Fatal(err)
	}
	nodes[0].Track = track

	var frames []int
	var strengths []float64
	err = quietEvaluator().Run(context.Background(), s, 0, 4, func(frame int, s *Scene, res EvalResult) error {
		frames = append(frames, frame)
		strengths = append(strengths, nodes[0].Bend.Strength)
		if res.Placed != 1 {
			t.Errorf("frame %d placed = %d, want 1", frame, res.Placed)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(frames) != 5 || frames[0] != 0 || frames[4] != 4 {
		t.Errorf("frames = %v, want 0..4", frames)
	}
	if strengths[0] != 0 || strengths[4] != math.Pi/2 {
		t.Errorf("strengths = %v", strengths)
	}
	axis := nodes[1].World.ApplyDir(mgl64.Vec3{0, 1, 0})
	if !geom.Near(axis, mgl64.Vec3{1, 0, 0}, 1e-9) {
		t.Errorf("tail axis at last frame = %v, want +X", axis)
	}
}

func TestRunEmptyRange(t *testing.T) {
	s, _ := chain(t, 1)
	if err := quietEvaluator().Run(context.Background(), s, 5, 4, nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Run() error = %v, want INVALID_INPUT", err)
	}
}
