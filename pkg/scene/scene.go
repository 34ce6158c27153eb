package scene

import (
	"github.com/google/uuid"

	"github.com/matzehuels/bendchain/pkg/bend"
	"github.com/matzehuels/bendchain/pkg/errors"
	"github.com/matzehuels/bendchain/pkg/geom"
)

// NodeID identifies a node within a scene.
type NodeID string

// NewID returns a fresh random node ID.
func NewID() NodeID {
	return NodeID(uuid.NewString())
}

// Kind is the object type of a node.
type Kind string

// Node kinds. Only bends take part in chains; other kinds may be selected
// and are ignored by the rig.
const (
	KindBend Kind = "bend"
	KindNull Kind = "null"
)

// RigTag is the per-node chain rig: the predecessor link plus the node's
// spacing parameters.
type RigTag struct {
	Predecessor NodeID    // Empty when the node starts a chain
	Link        bend.Link // Offset and twist relative to the predecessor
}

// Node is one object in the scene.
type Node struct {
	ID   NodeID
	Name string
	Kind Kind

	Bend      bend.Params
	Direction float64 // Bend direction angle; predecessors are reset to 0
	KeepYAxis bool    // Keep the Y extent when bending; set by the rig

	World geom.Transform
	Tag   *RigTag
	Track Track // Strength animation; empty means static
}

// Rigged reports whether n carries a rig tag.
func (n *Node) Rigged() bool {
	return n.Tag != nil
}

// IsBend reports whether n is a bend deformer.
func (n *Node) IsBend() bool {
	return n.Kind == KindBend
}

// clone returns a deep copy of n.
func (n *Node) clone() *Node {
	c := *n
	if n.Tag != nil {
		tag := *n.Tag
		c.Tag = &tag
	}
	c.Track = append(Track(nil), n.Track...)
	return &c
}

// Scene is an ordered table of nodes indexed by ID.
//
// A Scene is not safe for concurrent mutation.
type Scene struct {
	nodes []*Node
	byID  map[NodeID]*Node
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{byID: make(map[NodeID]*Node)}
}

// Add inserts a copy of n and returns the stored node.
// An empty ID is replaced with a fresh one; an empty kind defaults to
// [KindBend]; a zero orientation defaults to identity.
func (s *Scene) Add(n Node) (*Node, error) {
	if err := errors.ValidateNodeName(n.Name); err != nil {
		return nil, err
	}
	if n.ID == "" {
		n.ID = NewID()
	}
	if _, ok := s.byID[n.ID]; ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "duplicate node id %q", n.ID)
	}
	if n.Kind == "" {
		n.Kind = KindBend
	}
	if n.World.Rot == (geom.Transform{}).Rot {
		n.World.Rot = geom.Identity().Rot
	}

	node := n.clone()
	s.nodes = append(s.nodes, node)
	s.byID[node.ID] = node
	return node, nil
}

// Node returns the node with the given ID.
func (s *Scene) Node(id NodeID) (*Node, bool) {
	n, ok := s.byID[id]
	return n, ok
}

// Lookup returns the first node with the given name.
func (s *Scene) Lookup(name string) (*Node, bool) {
	for _, n := range s.nodes {
		if n.Name == name {
			return n, true
		}
	}
	return nil, false
}

// Resolve finds a node by ID, falling back to name.
func (s *Scene) Resolve(ref string) (*Node, bool) {
	if n, ok := s.byID[NodeID(ref)]; ok {
		return n, true
	}
	return s.Lookup(ref)
}

// ResolveAll maps references to IDs, failing on the first unknown one.
func (s *Scene) ResolveAll(refs []string) ([]NodeID, error) {
	ids := make([]NodeID, 0, len(refs))
	for _, ref := range refs {
		n, ok := s.Resolve(ref)
		if !ok {
			return nil, errors.New(errors.ErrCodeNodeNotFound, "unknown node %q", ref)
		}
		ids = append(ids, n.ID)
	}
	return ids, nil
}

// Nodes returns the nodes in insertion order.
// The slice is a copy; the nodes are shared.
func (s *Scene) Nodes() []*Node {
	return append([]*Node(nil), s.nodes...)
}

// Len returns the number of nodes.
func (s *Scene) Len() int {
	return len(s.nodes)
}

// Remove deletes a node and clears every link pointing at it.
func (s *Scene) Remove(id NodeID) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, n := range s.nodes {
		if n.ID == id {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			break
		}
	}
	for _, n := range s.nodes {
		if n.Tag != nil && n.Tag.Predecessor == id {
			n.Tag.Predecessor = ""
		}
	}
	return true
}

// Clone returns a deep copy of the scene.
func (s *Scene) Clone() *Scene {
	c := &Scene{
		nodes: make([]*Node, len(s.nodes)),
		byID:  make(map[NodeID]*Node, len(s.nodes)),
	}
	for i, n := range s.nodes {
		cn := n.clone()
		c.nodes[i] = cn
		c.byID[cn.ID] = cn
	}
	return c
}

// Predecessor returns n's linked predecessor if it exists in the scene.
func (s *Scene) Predecessor(n *Node) (*Node, bool) {
	if n.Tag == nil || n.Tag.Predecessor == "" {
		return nil, false
	}
	return s.Node(n.Tag.Predecessor)
}
