package bend

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/matzehuels/bendchain/pkg/errors"
	"github.com/matzehuels/bendchain/pkg/geom"
)

// Params describes one bend object's deformation state.
type Params struct {
	Length   float64 `json:"length"`   // Extent along the local Y axis
	Strength float64 `json:"strength"` // Signed bend angle in radians; 0 is straight
}

// Link holds the user-tunable spacing between a node and its predecessor.
type Link struct {
	Offset   float64 `json:"offset"`   // Gap along the chain axis
	Rotation float64 `json:"rotation"` // Twist about the chain axis, in radians
}

// Curved reports whether p takes the arc branch.
func (p Params) Curved() bool {
	return p.Strength != 0
}

// Radius returns the radius of the circle p's bend follows.
// It is infinite for a straight bend.
func (p Params) Radius() float64 {
	if !p.Curved() {
		return math.Inf(1)
	}
	circleFraction := p.Strength / (2 * math.Pi)
	circumference := p.Length / circleFraction
	return circumference / (2 * math.Pi)
}

// ArcOrigin returns the center of the bend circle in the bend's local XY
// plane. The arc starts at the bottom of the segment, (0, -length/2).
func (p Params) ArcOrigin() mgl64.Vec3 {
	return mgl64.Vec3{p.Radius(), -p.Length / 2, 0}
}

// ArcEndpoint returns where the bent segment ends, in its local space.
func (p Params) ArcEndpoint() mgl64.Vec3 {
	if !p.Curved() {
		return mgl64.Vec3{0, p.Length / 2, 0}
	}
	r := p.Radius()
	o := p.ArcOrigin()
	return mgl64.Vec3{
		o[0] - r*math.Cos(p.Strength),
		o[1] + r*math.Sin(p.Strength),
		0,
	}
}

// ArcPoints samples the bent center line from bottom to end point in the
// bend's local space. At least two points are returned.
func (p Params) ArcPoints(segments int) []mgl64.Vec3 {
	if segments < 1 {
		segments = 1
	}
	pts := make([]mgl64.Vec3, 0, segments+1)
	if !p.Curved() {
		for i := 0; i <= segments; i++ {
			y := -p.Length/2 + p.Length*float64(i)/float64(segments)
			pts = append(pts, mgl64.Vec3{0, y, 0})
		}
		return pts
	}
	r := p.Radius()
	o := p.ArcOrigin()
	for i := 0; i <= segments; i++ {
		a := p.Strength * float64(i) / float64(segments)
		pts = append(pts, mgl64.Vec3{o[0] - r*math.Cos(a), o[1] + r*math.Sin(a), 0})
	}
	return pts
}

// LocalPlacement returns a node's position and orientation in its
// predecessor's local space. For a straight predecessor the orientation is
// only the twist; [Solve] combines it with the predecessor's normalized
// world orientation.
func LocalPlacement(self, pred Params, link Link) (mgl64.Vec3, mgl64.Mat3, error) {
	if !(pred.Length > 0) {
		return mgl64.Vec3{}, mgl64.Mat3{}, &errors.DomainError{Param: "predecessor length", Value: pred.Length}
	}

	twist := geom.RotY(link.Rotation)
	if !pred.Curved() {
		pos := mgl64.Vec3{0, pred.Length/2 + self.Length/2 + link.Offset, 0}
		return pos, twist, nil
	}

	tangent := geom.RotZ(pred.Strength)
	step := tangent.Mul3x1(mgl64.Vec3{0, self.Length*0.5 + link.Offset, 0})
	return pred.ArcEndpoint().Add(step), tangent.Mul3(twist), nil
}

// Solve computes a bend node's world transform from its predecessor.
//
// self is the node's own bend (only its length is used), pred and predWorld
// are the predecessor's current bend and world transform, and link holds the
// node's offset and rotation. A pred.Length that is not positive, NaN
// included, yields a *errors.DomainError.
func Solve(self, pred Params, predWorld geom.Transform, link Link) (geom.Transform, error) {
	local, rot, err := LocalPlacement(self, pred, link)
	if err != nil {
		return geom.Transform{}, err
	}

	base := predWorld.Rot
	if !pred.Curved() {
		base = geom.Normalize(base)
	}
	return geom.Transform{
		Rot: base.Mul3(rot),
		Pos: predWorld.Apply(local),
	}, nil
}
