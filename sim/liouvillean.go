// liouvillean.go
//
// Owns the Liouvillean interface: the physics kernel that computes
// analytic free-flight advance, collision-time root-finding, and
// collision resolution (SPEC_FULL.md §4.1). Concrete implementations live
// in sim/liouvillean and register themselves into NewLiouvilleanFunc from
// an init(), mirroring the teacher's sim/latency -> sim.NewLatencyModelFunc
// split that avoids an import cycle between the interface owner and its
// implementations.

package sim

import "fmt"

// PlateState describes an oscillating-plate Local's analytic motion at the
// instant it is queried: a plane through Origin with normal Normal,
// oscillating along Normal with angular frequency Omega and amplitude
// Sigma, having started at simulation time Timeshift.
type PlateState struct {
	Origin    Vec
	Normal    Vec
	Omega     float64
	Sigma     float64
	Timeshift float64
}

// PairEventData is the record returned by a pair-collision resolver
// (SmoothSpheresColl, ParallelCubeColl): the two particles' deltas, the
// impulse applied along the contact normal (equal and opposite on each
// particle), and the resulting change in total kinetic energy (0 for e=1).
type PairEventData struct {
	P, Q        ParticleDelta
	Impulse     Vec
	EnergyDelta float64
}

// WallEventData is the record returned by a single-particle resolver
// (plane/cylinder wall, oscillating plate).
type WallEventData struct {
	Delta       ParticleDelta
	EnergyDelta float64
}

// Liouvillean is the free-flight propagator and collision resolver for one
// dynamics class (Newtonian, shearing, ...). Implementations are stateless
// with respect to particle data -- all mutation happens through the
// *ParticleStore passed in, from the driver thread only.
type Liouvillean interface {
	// Advance moves particle id's position forward by dt under the active
	// free-flight law and bumps its Clock by dt. Velocity is unchanged
	// (free flight has no forces).
	Advance(ps *ParticleStore, id int, dt float64)

	// IsUpToDate reports whether p's Clock equals the global clock T.
	IsUpToDate(p Particle, globalClock float64) bool

	// SphereSphereInRoot returns the earliest delay t >= 0, measured from
	// the (synchronized) current states of p and q, after which their
	// free-flighted centers come within distance d, or Infinity if no such
	// root exists. Callers add the global clock to get an absolute event
	// time. bc applies the active boundary condition to the separation
	// before root-finding.
	SphereSphereInRoot(p, q Particle, d float64, bc BoundaryCondition) float64

	// SphereSphereOutRoot returns the earliest delay t >= 0 after which
	// p and q, already separated by less than d and moving apart, reach
	// separation d, or Infinity if they are not currently separating.
	// This is the outbound counterpart to SphereSphereInRoot, needed to
	// detect a square-well pair escaping outward across its well radius --
	// a root SphereSphereInRoot structurally cannot see, since it only
	// considers pairs whose separation is decreasing.
	SphereSphereOutRoot(p, q Particle, d float64, bc BoundaryCondition) float64

	// CubeCubeInRoot is the axis-aligned-cube analogue, using the
	// max-norm in p's orientation frame; q is taken to share p's
	// orientation. d is the sum of the two cubes' half-widths.
	CubeCubeInRoot(p, q Particle, d float64, bc BoundaryCondition) float64

	// OffsetSphereInRoot is the rough/off-centre-sphere analogue of
	// SphereSphereInRoot: each particle's effective contact point is
	// displaced from its center of mass by a body-frame offset that
	// rotates with the particle's angular velocity. No closed-form root
	// exists in general; implementations use Newton-Raphson seeded by the
	// zero-rotation quadratic root.
	OffsetSphereInRoot(p, q Particle, offsetP, offsetQ Vec, d float64, bc BoundaryCondition) float64

	// PlaneWallCollision returns the delay t >= 0 after which p reaches
	// the plane through origin with the given normal, or Infinity. normal
	// need not be unit length. Only a particle on the side normal points
	// toward and moving against normal collides; a particle moving along
	// normal never does.
	PlaneWallCollision(p Particle, origin, normal Vec) float64

	// CylinderWallCollision returns the earliest delay t >= 0 after which
	// p reaches radius R from the infinite line through origin along
	// axis.
	CylinderWallCollision(p Particle, origin, axis Vec, radius float64) float64

	// OscillatingPlateCollision returns the delay t >= 0 after which p
	// reaches the analytically-moving plate's surface; globalClock fixes
	// the plate's phase.
	OscillatingPlateCollision(p Particle, plate PlateState, globalClock float64) float64

	// SmoothSpheresColl resolves an elastic/restitutive hard-sphere
	// collision between pID and qID already synchronized to the event
	// time, mutating their velocities in ps and returning the resulting
	// PairEventData. e is the restitution coefficient (1 = elastic); d2
	// is d^2 where d is the collision diameter.
	SmoothSpheresColl(ps *ParticleStore, pID, qID int, e, d2 float64) PairEventData

	// ParallelCubeColl is the cube analogue of SmoothSpheresColl,
	// resolving along the contact-normal axis identified in the pair's
	// relative (rotated) frame.
	ParallelCubeColl(ps *ParticleStore, pID, qID int, e, d float64, bc BoundaryCondition) PairEventData

	// WellEventColl resolves a square-well boundary crossing between pID
	// and qID already synchronized to the event time: if the pair is
	// approaching (closing speed along the line of centers is negative) it
	// always captures, converting depth worth of well potential into
	// kinetic energy; if it is receding, it escapes -- converting depth
	// worth of kinetic energy into well potential -- only if there is
	// enough outward kinetic energy to pay for it, and otherwise bounces
	// elastically back into the well. captured reports whether the pair
	// ends the event inside (true) or outside (false) the well boundary.
	WellEventColl(ps *ParticleStore, pID, qID int, depth float64) (data PairEventData, captured bool)

	// RunPlaneWallCollision resolves a single-particle wall bounce.
	RunPlaneWallCollision(ps *ParticleStore, id int, normal Vec, e float64) WallEventData

	// RunCylinderWallCollision resolves a single-particle cylinder bounce.
	RunCylinderWallCollision(ps *ParticleStore, id int, origin, axis Vec, radius, e float64) WallEventData

	// RunOscillatingPlateCollision resolves a bounce off an analytically
	// moving plate at globalClock.
	RunOscillatingPlateCollision(ps *ParticleStore, id int, plate PlateState, e, globalClock float64) WallEventData
}

// NewLiouvilleanFunc is the factory hook a sim/liouvillean implementation
// registers into from its init(). Left nil until an implementation package
// is imported.
var NewLiouvilleanFunc func(kind string) (Liouvillean, error)

// NewLiouvillean constructs a Liouvillean by kind ("newtonian",
// "shearing", ...). Callers must blank-import sim/liouvillean (or a
// package that does) before calling this.
func NewLiouvillean(kind string) (Liouvillean, error) {
	if NewLiouvilleanFunc == nil {
		return nil, fmt.Errorf("sim: no liouvillean implementation registered; blank-import sim/liouvillean")
	}
	return NewLiouvilleanFunc(kind)
}
