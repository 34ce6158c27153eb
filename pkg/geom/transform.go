package geom

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform is a rigid transform: orientation followed by translation.
type Transform struct {
	Rot mgl64.Mat3 // Orientation; columns are the local X, Y and Z axes
	Pos mgl64.Vec3 // Translation (the local origin in parent space)
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Rot: mgl64.Ident3()}
}

// Place returns the transform at pos oriented by heading, pitch and bank
// in radians. See [FromHPB].
func Place(pos mgl64.Vec3, h, p, b float64) Transform {
	return Transform{Rot: FromHPB(h, p, b), Pos: pos}
}

// Mul returns t·o: o is applied first, then t.
func (t Transform) Mul(o Transform) Transform {
	return Transform{
		Rot: t.Rot.Mul3(o.Rot),
		Pos: t.Rot.Mul3x1(o.Pos).Add(t.Pos),
	}
}

// Apply maps a point from t's local space into its parent space.
func (t Transform) Apply(p mgl64.Vec3) mgl64.Vec3 {
	return t.Rot.Mul3x1(p).Add(t.Pos)
}

// ApplyDir maps a direction; translation is ignored.
func (t Transform) ApplyDir(d mgl64.Vec3) mgl64.Vec3 {
	return t.Rot.Mul3x1(d)
}

// ApproxEqual reports whether every element of the orientations and of the
// translations differs by at most eps.
func (t Transform) ApproxEqual(o Transform, eps float64) bool {
	return NearMat(t.Rot, o.Rot, eps) && Near(t.Pos, o.Pos, eps)
}

// Near reports whether every component of a and b differs by at most eps.
// Unlike mgl64's ApproxEqualThreshold the tolerance is absolute, so
// rounding noise next to an exact zero still compares equal.
func Near(a, b mgl64.Vec3, eps float64) bool {
	return within(a[:], b[:], eps)
}

// NearMat is [Near] for matrices.
func NearMat(a, b mgl64.Mat3, eps float64) bool {
	return within(a[:], b[:], eps)
}

// within is false when any difference is NaN.
func within(a, b []float64, eps float64) bool {
	for i := range a {
		if !(math.Abs(a[i]-b[i]) <= eps) {
			return false
		}
	}
	return true
}

// String formats the transform as position plus HPB in degrees.
func (t Transform) String() string {
	h, p, b := ToHPB(t.Rot)
	return fmt.Sprintf("pos(%.4f, %.4f, %.4f) hpb(%.2f°, %.2f°, %.2f°)",
		unsigned(t.Pos[0]), unsigned(t.Pos[1]), unsigned(t.Pos[2]),
		unsigned(mgl64.RadToDeg(h)), unsigned(mgl64.RadToDeg(p)), unsigned(mgl64.RadToDeg(b)))
}

// unsigned maps -0 and float noise to 0 so output never shows "-0.00".
func unsigned(v float64) float64 {
	if math.Abs(v) < 1e-9 {
		return 0
	}
	return v
}

// RotZ rotates about the Z axis; positive angles carry +Y toward +X.
func RotZ(angle float64) mgl64.Mat3 {
	return mgl64.Rotate3DZ(-angle)
}

// RotY rotates about the Y axis in the same left-handed sense as [RotZ].
func RotY(angle float64) mgl64.Mat3 {
	return mgl64.Rotate3DY(-angle)
}

// FromHPB builds an orientation from heading (about Y), pitch (about X) and
// bank (about Z), applied bank first.
func FromHPB(h, p, b float64) mgl64.Mat3 {
	return mgl64.Rotate3DY(h).Mul3(mgl64.Rotate3DX(p)).Mul3(mgl64.Rotate3DZ(b))
}

// gimbalEps is how close |sin(pitch)| may get to 1 before bank is folded
// into heading.
const gimbalEps = 1e-9

// ToHPB extracts heading, pitch and bank from an orientation.
// Columns are orthonormalized first, so scaled or sheared matrices yield
// the angles of their nearest rotation.
func ToHPB(m mgl64.Mat3) (h, p, b float64) {
	r := orthonormalize(m)
	sp := -r.At(1, 2)
	if sp >= 1-gimbalEps || sp <= -1+gimbalEps {
		p = math.Copysign(math.Pi/2, sp)
		h = math.Atan2(-r.At(2, 0), r.At(0, 0))
		return h, p, 0
	}
	p = math.Asin(sp)
	h = math.Atan2(r.At(0, 2), r.At(2, 2))
	b = math.Atan2(r.At(1, 0), r.At(1, 1))
	return h, p, b
}

// Normalize strips scale and shear from an orientation by round-tripping it
// through heading, pitch and bank.
func Normalize(m mgl64.Mat3) mgl64.Mat3 {
	return FromHPB(ToHPB(m))
}

// orthonormalize applies Gram-Schmidt to the columns, keeping the Y axis
// direction exact since Y is the chain axis.
func orthonormalize(m mgl64.Mat3) mgl64.Mat3 {
	y := safeNormalize(m.Col(1), mgl64.Vec3{0, 1, 0})
	x := m.Col(0)
	x = safeNormalize(x.Sub(y.Mul(x.Dot(y))), perpendicular(y))
	return mgl64.Mat3FromCols(x, y, x.Cross(y))
}

func safeNormalize(v, fallback mgl64.Vec3) mgl64.Vec3 {
	if l := v.Len(); l > 0 {
		return v.Mul(1 / l)
	}
	return fallback
}

// perpendicular returns some unit vector orthogonal to v.
func perpendicular(v mgl64.Vec3) mgl64.Vec3 {
	axis := mgl64.Vec3{1, 0, 0}
	if math.Abs(v[0]) > 0.9 {
		axis = mgl64.Vec3{0, 0, 1}
	}
	return axis.Sub(v.Mul(axis.Dot(v))).Normalize()
}
