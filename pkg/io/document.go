package io

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/matzehuels/bendchain/pkg/bend"
	"github.com/matzehuels/bendchain/pkg/errors"
	"github.com/matzehuels/bendchain/pkg/geom"
	"github.com/matzehuels/bendchain/pkg/scene"
)

// documentVersion is the scene document version written by this package.
const documentVersion = 1

// Document is the on-disk form of a scene.
type Document struct {
	Version int       `json:"version" toml:"version" yaml:"version"`
	Nodes   []NodeDoc `json:"nodes" toml:"nodes" yaml:"nodes"`
}

// NodeDoc is the on-disk form of a scene node.
type NodeDoc struct {
	ID        string           `json:"id,omitempty" toml:"id,omitempty" yaml:"id,omitempty"`
	Name      string           `json:"name" toml:"name" yaml:"name"`
	Kind      string           `json:"kind,omitempty" toml:"kind,omitempty" yaml:"kind,omitempty"`
	Length    float64          `json:"length" toml:"length" yaml:"length"`
	Strength  float64          `json:"strength" toml:"strength" yaml:"strength"`
	Direction float64          `json:"direction,omitempty" toml:"direction,omitempty" yaml:"direction,omitempty"`
	KeepYAxis bool             `json:"keep_y_axis,omitempty" toml:"keep_y_axis,omitempty" yaml:"keep_y_axis,omitempty"`
	Position  [3]float64       `json:"position" toml:"position" yaml:"position,flow"`
	HPB       [3]float64       `json:"hpb" toml:"hpb" yaml:"hpb,flow"`
	Rig       *RigDoc          `json:"rig,omitempty" toml:"rig,omitempty" yaml:"rig,omitempty"`
	Track     []scene.Keyframe `json:"track,omitempty" toml:"track,omitempty" yaml:"track,omitempty"`
}

// RigDoc is the on-disk form of a rig tag.
type RigDoc struct {
	Predecessor string  `json:"predecessor,omitempty" toml:"predecessor,omitempty" yaml:"predecessor,omitempty"`
	Offset      float64 `json:"offset" toml:"offset" yaml:"offset"`
	Rotation    float64 `json:"rotation" toml:"rotation" yaml:"rotation"`
}

// FromScene converts a scene to its document form. Links are written as
// node IDs.
func FromScene(s *scene.Scene) Document {
	doc := Document{Version: documentVersion}
	for _, n := range s.Nodes() {
		h, p, b := geom.ToHPB(n.World.Rot)
		nd := NodeDoc{
			ID:        string(n.ID),
			Name:      n.Name,
			Kind:      string(n.Kind),
			Length:    n.Bend.Length,
			Strength:  n.Bend.Strength,
			Direction: n.Direction,
			KeepYAxis: n.KeepYAxis,
			Position:  n.World.Pos,
			HPB:       [3]float64{h, p, b},
			Track:     n.Track,
		}
		if n.Tag != nil {
			nd.Rig = &RigDoc{
				Predecessor: string(n.Tag.Predecessor),
				Offset:      n.Tag.Link.Offset,
				Rotation:    n.Tag.Link.Rotation,
			}
		}
		doc.Nodes = append(doc.Nodes, nd)
	}
	return doc
}

// ToScene builds a scene from a document.
//
// Nodes are added first, then links are resolved, so a predecessor may be
// listed after the node that follows it. A predecessor that matches no node
// id or name is an error with code NODE_NOT_FOUND.
func (d Document) ToScene() (*scene.Scene, error) {
	if d.Version > documentVersion {
		return nil, errors.New(errors.ErrCodeUnsupported, "scene document version %d is newer than %d", d.Version, documentVersion)
	}

	s := scene.New()
	nodes := make([]*scene.Node, len(d.Nodes))
	for i, nd := range d.Nodes {
		kind := scene.Kind(nd.Kind)
		switch kind {
		case "", scene.KindBend, scene.KindNull:
		default:
			return nil, errors.New(errors.ErrCodeInvalidInput, "node %q: unknown kind %q", nd.Name, nd.Kind)
		}
		track, err := scene.NewTrack(nd.Track...)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "node %q", nd.Name)
		}
		for _, v := range []float64{nd.Length, nd.Strength, nd.Direction} {
			if err := errors.ValidateFinite(nd.Name, v); err != nil {
				return nil, err
			}
		}

		n, err := s.Add(scene.Node{
			ID:        scene.NodeID(nd.ID),
			Name:      nd.Name,
			Kind:      kind,
			Bend:      bend.Params{Length: nd.Length, Strength: nd.Strength},
			Direction: nd.Direction,
			KeepYAxis: nd.KeepYAxis,
			World:     geom.Place(mgl64.Vec3(nd.Position), nd.HPB[0], nd.HPB[1], nd.HPB[2]),
			Track:     track,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "node %d", i)
		}
		nodes[i] = n
	}

	for i, nd := range d.Nodes {
		if nd.Rig == nil {
			continue
		}
		tag := &scene.RigTag{Link: bend.Link{Offset: nd.Rig.Offset, Rotation: nd.Rig.Rotation}}
		if ref := nd.Rig.Predecessor; ref != "" {
			pred, ok := s.Resolve(ref)
			if !ok {
				return nil, errors.New(errors.ErrCodeNodeNotFound, "node %q: unknown predecessor %q", nd.Name, ref)
			}
			tag.Predecessor = pred.ID
		}
		nodes[i].Tag = tag
	}
	return s, nil
}
