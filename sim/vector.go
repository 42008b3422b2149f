// Vector and rotation algebra shared by every geometric predicate in the
// package: pair-frame transforms in the liouvillean, obstacle-frame
// transforms for walls and plates, and the periodic boundary wrap applied
// to relative positions before any root-finding.

package sim

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vec is the vector type used for positions, velocities, and angular
// velocities throughout the package. It is a type alias, not a wrapper, so
// every r3 helper (Add, Sub, Scale, Dot, Cross, Norm, Unit) works directly
// on Vec without a conversion at each call site.
type Vec = r3.Vec

// Orientation is the quaternion type used for rigid-body orientation.
type Orientation = quat.Number

// ZeroVec is the additive identity.
var ZeroVec = Vec{}

// BoundaryCondition wraps a relative separation vector into the simulation
// cell's fundamental domain. PeriodicBC implements the common cubic/
// orthorhombic periodic image convention; NoBC is the identity, used for
// simulations bounded purely by Local walls.
type BoundaryCondition interface {
	// ApplyBC returns the minimum-image separation equivalent to rij.
	ApplyBC(rij Vec) Vec

	// ApplyVelocityShift returns the relative-velocity correction, if any,
	// implied by wrapping rij into its minimum image. Zero for every
	// boundary condition except a sheared one, where an image displaced by
	// a full box height also moves at a different mean streaming velocity.
	ApplyVelocityShift(rij Vec) Vec
}

// NoBC applies no boundary wrap: the separation vector is returned unchanged.
type NoBC struct{}

func (NoBC) ApplyBC(rij Vec) Vec       { return rij }
func (NoBC) ApplyVelocityShift(Vec) Vec { return ZeroVec }

// PeriodicBC applies the minimum-image convention for an orthorhombic cell
// of the given half-widths (HalfLx, HalfLy, HalfLz). A component of rij
// outside [-half, half] is shifted by the nearest integer multiple of the
// full cell length, per the usual EDMD periodic-boundary convention.
type PeriodicBC struct {
	HalfLx, HalfLy, HalfLz float64
}

func (bc PeriodicBC) ApplyBC(rij Vec) Vec {
	return Vec{
		X: wrapComponent(rij.X, bc.HalfLx),
		Y: wrapComponent(rij.Y, bc.HalfLy),
		Z: wrapComponent(rij.Z, bc.HalfLz),
	}
}

func (PeriodicBC) ApplyVelocityShift(Vec) Vec { return ZeroVec }

func wrapComponent(x, half float64) float64 {
	wrapped, _ := wrapComponentN(x, half)
	return wrapped
}

// wrapComponentN wraps x into [-half, half] and reports how many full
// periods (signed) it took, needed by ShearingBC to apply the matching
// streaming-velocity correction.
func wrapComponentN(x, half float64) (wrapped float64, n int) {
	if half <= 0 {
		return x, 0
	}
	full := 2 * half
	for x > half {
		x -= full
		n++
	}
	for x < -half {
		x += full
		n--
	}
	return x, n
}

// ShearingBC implements Lees-Edwards sheared periodic boundaries: the y
// boundary wraps normally, but an image displaced across it is also offset
// in x by the accumulated shear strain, and carries a streaming-velocity
// correction in ApplyVelocityShift.
type ShearingBC struct {
	HalfLx, HalfLy, HalfLz float64
	ShearRate              float64
	Time                   float64
}

func (bc ShearingBC) ApplyBC(rij Vec) Vec {
	wrappedY, ny := wrapComponentN(rij.Y, bc.HalfLy)
	shift := bc.ShearRate * bc.Time * (2 * bc.HalfLy) * float64(ny)
	wrappedX, _ := wrapComponentN(rij.X-shift, bc.HalfLx)
	wrappedZ, _ := wrapComponentN(rij.Z, bc.HalfLz)
	return Vec{X: wrappedX, Y: wrappedY, Z: wrappedZ}
}

func (bc ShearingBC) ApplyVelocityShift(rij Vec) Vec {
	_, ny := wrapComponentN(rij.Y, bc.HalfLy)
	return Vec{X: -bc.ShearRate * (2 * bc.HalfLy) * float64(ny)}
}

// RodriguesRotate rotates v by angle theta (radians) about the given axis
// (need not be unit length), using the Rodrigues rotation formula built
// from gonum's r3 vector algebra. Used by the off-centre spheres
// time-shift scenario (SPEC_FULL.md §8, P5) to perturb initial offsets.
func RodriguesRotate(v Vec, axis Vec, theta float64) Vec {
	norm := r3.Norm(axis)
	if norm == 0 {
		return v
	}
	n := r3.Scale(1/norm, axis)
	cos, sin := math.Cos(theta), math.Sin(theta)
	term1 := r3.Scale(cos, v)
	term2 := r3.Scale(sin, r3.Cross(n, v))
	term3 := r3.Scale(r3.Dot(n, v)*(1-cos), n)
	return r3.Add(r3.Add(term1, term2), term3)
}

// RotateByQuaternion rotates v by the unit quaternion q, using the
// standard q*v*conj(q) sandwich product with v embedded as a pure
// quaternion. Used to transform separations/velocities into a particle's
// body frame via its Orientation.
func RotateByQuaternion(v Vec, q Orientation) Vec {
	norm := quat.Abs(q)
	if norm == 0 {
		return v
	}
	unit := quat.Scale(1/norm, q)
	pv := quat.Number{Real: 0, Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	rotated := quat.Mul(quat.Mul(unit, pv), quat.Conj(unit))
	return Vec{X: rotated.Imag, Y: rotated.Jmag, Z: rotated.Kmag}
}

// RotateQuaternionByAngularVelocity advances a rigid body's orientation by
// dt under constant angular velocity omega (world frame, rad/s), using the
// exact Rodrigues rotation increment rather than a linearized Euler step,
// and renormalizing to absorb floating-point drift.
func RotateQuaternionByAngularVelocity(q Orientation, omega Vec, dt float64) Orientation {
	theta := r3.Norm(omega) * dt
	if theta == 0 {
		return q
	}
	axis := r3.Scale(1/r3.Norm(omega), omega)
	half := theta / 2
	delta := quat.Number{
		Real: math.Cos(half),
		Imag: math.Sin(half) * axis.X,
		Jmag: math.Sin(half) * axis.Y,
		Kmag: math.Sin(half) * axis.Z,
	}
	next := quat.Mul(delta, q)
	norm := quat.Abs(next)
	if norm == 0 {
		return q
	}
	return quat.Scale(1/norm, next)
}

// RelativeOrientation returns the quaternion that rotates from b's body
// frame into a's body frame: conj(b) * a for unit quaternions. The
// Newtonian cube routines do not call it; they work in the first cube's
// own orientation frame.
func RelativeOrientation(a, b Orientation) Orientation {
	return quat.Mul(quat.Conj(b), a)
}

// SqNorm returns the squared Euclidean length of v, avoiding the sqrt that
// r3.Norm performs -- the hot path (root-finding) only ever needs squared
// distances.
func SqNorm(v Vec) float64 {
	return r3.Dot(v, v)
}

// NearlyEqual reports whether a and b differ by no more than tol in
// absolute terms, used by the sim tests' numeric checks rather than exact
// floating point comparison.
func NearlyEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
