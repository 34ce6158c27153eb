package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/matzehuels/bendchain/pkg/geom"
	"github.com/matzehuels/bendchain/pkg/scene"
)

// DefaultSegments is the number of polyline segments per bend.
const DefaultSegments = 24

// Segment is one node's projected center line.
type Segment struct {
	ID     scene.NodeID
	Name   string
	Points []mgl64.Vec2
	Curved bool // Non-zero strength
	Rigged bool // Carries a rig tag
}

// Tip returns the last point of the segment.
func (s Segment) Tip() mgl64.Vec2 {
	return s.Points[len(s.Points)-1]
}

// View is a chain projected onto the world XY plane.
type View struct {
	Segments []Segment
	Min, Max mgl64.Vec2 // Bounding box over all points
}

// Empty reports whether the view has nothing to draw.
func (v View) Empty() bool {
	return len(v.Segments) == 0
}

// Size returns the bounding box extent.
func (v View) Size() mgl64.Vec2 {
	return v.Max.Sub(v.Min)
}

// SideView projects every bend of s onto the XY plane. Each bend is
// sampled as an arc of the given number of segments and mapped through the
// node's world transform. Non-bend nodes are not drawn.
func SideView(s *scene.Scene, segments int) View {
	v := View{
		Min: mgl64.Vec2{math.Inf(1), math.Inf(1)},
		Max: mgl64.Vec2{math.Inf(-1), math.Inf(-1)},
	}

	for _, n := range s.Nodes() {
		if !n.IsBend() {
			continue
		}
		plane := geom.RotY(n.Direction)
		local := n.Bend.ArcPoints(segments)

		seg := Segment{
			ID:     n.ID,
			Name:   n.Name,
			Points: make([]mgl64.Vec2, len(local)),
			Curved: n.Bend.Curved(),
			Rigged: n.Rigged(),
		}
		for i, p := range local {
			w := n.World.Apply(plane.Mul3x1(p))
			pt := mgl64.Vec2{w[0], w[1]}
			seg.Points[i] = pt
			v.Min = mgl64.Vec2{math.Min(v.Min[0], pt[0]), math.Min(v.Min[1], pt[1])}
			v.Max = mgl64.Vec2{math.Max(v.Max[0], pt[0]), math.Max(v.Max[1], pt[1])}
		}
		v.Segments = append(v.Segments, seg)
	}

	if v.Empty() {
		v.Min, v.Max = mgl64.Vec2{}, mgl64.Vec2{}
	}
	return v
}

// Options configures [SVG] and [PNG] output.
type Options struct {
	Width   int     // Canvas width in pixels
	Height  int     // Canvas height in pixels
	Padding int     // Margin around the chain in pixels
	Stroke  float64 // Line width in pixels
	Scale   float64 // PNG resolution multiplier; 2 gives a high-DPI image
	Labels  bool    // Draw node names at segment tips (SVG only)
}

// DefaultOptions returns sensible defaults for rendering.
func DefaultOptions() Options {
	return Options{
		Width:   800,
		Height:  600,
		Padding: 40,
		Stroke:  4,
		Scale:   1,
		Labels:  true,
	}
}

// fitter maps chain space onto the canvas: uniform scale, centered, Y up.
type fitter struct {
	scale  float64
	cx, cy float64 // Chain-space center
	w, h   float64 // Canvas size
}

func newFitter(v View, opts Options) fitter {
	f := fitter{
		scale: 1,
		w:     float64(opts.Width),
		h:     float64(opts.Height),
	}
	size := v.Size()
	availW := f.w - 2*float64(opts.Padding)
	availH := f.h - 2*float64(opts.Padding)
	if size[0] > 0 || size[1] > 0 {
		f.scale = math.Min(safeDiv(availW, size[0]), safeDiv(availH, size[1]))
	}
	f.cx = (v.Min[0] + v.Max[0]) / 2
	f.cy = (v.Min[1] + v.Max[1]) / 2
	return f
}

// safeDiv treats a zero extent as unconstrained.
func safeDiv(avail, extent float64) float64 {
	if extent <= 0 {
		return math.Inf(1)
	}
	return avail / extent
}

func (f fitter) point(p mgl64.Vec2) (x, y float64) {
	return f.w/2 + (p[0]-f.cx)*f.scale, f.h/2 - (p[1]-f.cy)*f.scale
}

func (o Options) validate() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Padding < 0 {
		o.Padding = 0
	}
	if 2*o.Padding >= o.Width || 2*o.Padding >= o.Height {
		o.Padding = 0
	}
	if o.Stroke <= 0 {
		o.Stroke = d.Stroke
	}
	if o.Scale <= 0 {
		o.Scale = d.Scale
	}
	return o
}
