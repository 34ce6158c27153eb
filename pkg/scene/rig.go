package scene

import (
	"fmt"

	"github.com/matzehuels/bendchain/pkg/bend"
	"github.com/matzehuels/bendchain/pkg/errors"
)

// RigReport counts what [Scene.ApplyRig] did.
type RigReport struct {
	Added    int // Bends that received a new rig tag
	Existing int // Bends whose existing tag was reused
	Linked   int // Bends linked to a predecessor
}

// String renders the report as a one-line summary.
func (r RigReport) String() string {
	msg := fmt.Sprintf("bend chain rig added %d times", r.Added)
	if r.Existing > 0 {
		msg += fmt.Sprintf("; rig already exists on %d bend objects", r.Existing)
	}
	return msg
}

// ApplyRig rigs the selected nodes as a chain, in selection order.
//
// Non-bend nodes are skipped. Each selected bend gets a rig tag unless it
// already has one, has KeepYAxis switched on, and is linked to the bend
// selected before it. Tags on the first selected bend keep their existing
// predecessor, which is how a new selection extends an old chain.
//
// If the selection holds no bends the scene is left unchanged and an error
// with code NO_BEND_SELECTED is returned.
func (s *Scene) ApplyRig(selection []NodeID, defaults bend.Link) (RigReport, error) {
	var bends []*Node
	for _, id := range selection {
		n, ok := s.Node(id)
		if !ok {
			return RigReport{}, errors.New(errors.ErrCodeNodeNotFound, "unknown node %q", id)
		}
		if n.IsBend() {
			bends = append(bends, n)
		}
	}
	if len(bends) == 0 {
		return RigReport{}, errors.New(errors.ErrCodeNoBendSelected, "apply the bend chain rig to a bend object")
	}

	var report RigReport
	for i, n := range bends {
		if n.Tag == nil {
			n.Tag = &RigTag{Link: defaults}
			report.Added++
		} else {
			report.Existing++
		}
		n.KeepYAxis = true

		if i > 0 && bends[i-1].ID != n.ID {
			n.Tag.Predecessor = bends[i-1].ID
			report.Linked++
		}
	}
	return report, nil
}

// SetLink replaces the offset and twist of a rigged node.
func (s *Scene) SetLink(id NodeID, link bend.Link) error {
	n, err := s.rigged(id)
	if err != nil {
		return err
	}
	n.Tag.Link = link
	return nil
}

// SetPredecessor links a rigged node to pred. An empty pred unlinks it.
// Linking a node to itself is rejected; longer cycles are reported by
// [Scene.Order].
func (s *Scene) SetPredecessor(id, pred NodeID) error {
	n, err := s.rigged(id)
	if err != nil {
		return err
	}
	if pred == id {
		return errors.New(errors.ErrCodeInvalidInput, "node %q cannot follow itself", n.Name)
	}
	if pred != "" {
		if _, ok := s.Node(pred); !ok {
			return errors.New(errors.ErrCodeNodeNotFound, "unknown predecessor %q", pred)
		}
	}
	n.Tag.Predecessor = pred
	return nil
}

func (s *Scene) rigged(id NodeID) (*Node, error) {
	n, ok := s.Node(id)
	if !ok {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "unknown node %q", id)
	}
	if n.Tag == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "node %q has no bend chain rig", n.Name)
	}
	return n, nil
}
