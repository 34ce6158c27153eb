// Package geom provides rigid transforms for placing bend objects.
//
// A [Transform] pairs a 3×3 orientation with a translation, matching how a
// host application stores an object's global matrix. Transforms compose by
// multiplication ([Transform.Mul]) and map points from local to parent space
// ([Transform.Apply]).
//
// # Handedness
//
// Chain space follows the host's left-handed frame. [RotZ] therefore carries
// +Y toward +X for positive angles, which is the side a positive-strength
// bend curves toward. [RotY] uses the same convention so that a positive
// twist matches the host's rotation fields.
//
// # Heading, Pitch, Bank
//
// [ToHPB] and [FromHPB] convert between an orientation and Y-X-Z Euler
// angles. [Normalize] round-trips through HPB to strip scale and shear that
// accumulate in authored matrices.
//
// Vector and matrix storage is [github.com/go-gl/mathgl/mgl64].
package geom
