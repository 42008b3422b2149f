// Package liouvillean provides the free-flight propagator and collision
// resolvers that implement sim.Liouvillean. NewtonianLiouvillean is the
// straight-line free-flight law used by every scenario in SPEC_FULL.md §8;
// ShearingLiouvillean (shearing.go) layers Lees-Edwards boundary motion on
// top of it.
//
// This package registers its constructors into sim.NewLiouvilleanFunc from
// an init() (register.go), mirroring the teacher's sim/latency ->
// sim.NewLatencyModelFunc split: sim owns the interface, this package owns
// the numerics, and importing it is what wires the two together.
package liouvillean

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/tomgreen66/DynamO/sim"
)

// NewtonianLiouvillean implements straight-line free flight: particles
// move at constant velocity between events, and collisions conserve
// kinetic energy exactly when e == 1.
type NewtonianLiouvillean struct{}

// NewNewtonian constructs the default Newtonian dynamics class.
func NewNewtonian() *NewtonianLiouvillean {
	return &NewtonianLiouvillean{}
}

func (NewtonianLiouvillean) Advance(ps *sim.ParticleStore, id int, dt float64) {
	p := ps.Ptr(id)
	p.Position = addScaled(p.Position, p.Velocity, dt)
	if p.HasOrientation {
		p.Orientation = sim.RotateQuaternionByAngularVelocity(p.Orientation, p.AngularVelocity, dt)
	}
	p.Clock += dt
}

func (NewtonianLiouvillean) IsUpToDate(p sim.Particle, globalClock float64) bool {
	return p.Clock == globalClock
}

func (NewtonianLiouvillean) SphereSphereInRoot(p, q sim.Particle, d float64, bc sim.BoundaryCondition) float64 {
	rij := bc.ApplyBC(sub(q.Position, p.Position))
	vij := sub(q.Velocity, p.Velocity)
	return sphereRoot(rij, vij, d)
}

func (NewtonianLiouvillean) SphereSphereOutRoot(p, q sim.Particle, d float64, bc sim.BoundaryCondition) float64 {
	rij := bc.ApplyBC(sub(q.Position, p.Position))
	vij := sub(q.Velocity, p.Velocity)
	return sphereOutRoot(rij, vij, d)
}

func (NewtonianLiouvillean) CubeCubeInRoot(p, q sim.Particle, d float64, bc sim.BoundaryCondition) float64 {
	rij := bc.ApplyBC(sub(q.Position, p.Position))
	vij := sub(q.Velocity, p.Velocity)

	// Cubes are always parallel to each other by construction (the
	// ParallelCubes interaction); working in p's orientation frame is
	// therefore equivalent to working in the pair's shared frame.
	orient := p.Orientation
	if !p.HasOrientation {
		orient = identityOrientation()
	}
	rijLocal := sim.RotateByQuaternion(rij, conj(orient))
	vijLocal := sim.RotateByQuaternion(vij, conj(orient))

	entry, exit, ok := cubeOverlapInterval(rijLocal, vijLocal, d)
	if !ok {
		return sim.Infinity
	}
	return selectInterval(entry, exit)
}

func (n NewtonianLiouvillean) OffsetSphereInRoot(p, q sim.Particle, offsetP, offsetQ sim.Vec, d float64, bc sim.BoundaryCondition) float64 {
	rij := bc.ApplyBC(sub(q.Position, p.Position))
	vij := sub(q.Velocity, p.Velocity)

	delta := func(t float64) sim.Vec {
		op := rotatingOffset(offsetP, p.AngularVelocity, t)
		oq := rotatingOffset(offsetQ, q.AngularVelocity, t)
		return add(add(rij, scale(t, vij)), sub(oq, op))
	}
	deltaPrime := func(t float64) sim.Vec {
		op := rotatingOffset(offsetP, p.AngularVelocity, t)
		oq := rotatingOffset(offsetQ, q.AngularVelocity, t)
		dop := cross(p.AngularVelocity, op)
		doq := cross(q.AngularVelocity, oq)
		return add(sub(vij, dop), doq)
	}

	// Seed the Newton-Raphson iteration with the root of the
	// zero-rotation (fixed-offset) quadratic: it is exact whenever
	// angular velocities are zero and a good first guess otherwise.
	seed := sphereRoot(add(rij, sub(offsetQ, offsetP)), vij, d)
	if math.IsInf(seed, 1) {
		return sim.Infinity
	}

	t := seed
	const maxIter = 50
	const ftol = 1e-13
	for i := 0; i < maxIter; i++ {
		dt := delta(t)
		f := dot(dt, dt) - d*d
		if math.Abs(f) < ftol {
			break
		}
		fp := 2 * dot(dt, deltaPrime(t))
		if fp == 0 {
			logrus.Warnf("liouvillean: OffsetSphereInRoot stalled (zero derivative) at t=%g", t)
			return sim.Infinity
		}
		next := t - f/fp
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return sim.Infinity
		}
		t = next
	}
	if t < -1e-9 {
		return sim.Infinity
	}
	// A pair that passes without touching leaves Newton-Raphson without a
	// root; a final iterate that is not a contact is reported as no event.
	if end := delta(t); math.Abs(dot(end, end)-d*d) > 1e-9*d*d {
		return sim.Infinity
	}
	return math.Max(t, 0)
}

func (NewtonianLiouvillean) PlaneWallCollision(p sim.Particle, origin, normal sim.Vec) float64 {
	n := unit(normal)
	s0 := dot(sub(p.Position, origin), n)
	vn := dot(p.Velocity, n)
	if vn >= 0 {
		return sim.Infinity
	}
	t := -s0 / vn
	return selectRoot(t)
}

func (NewtonianLiouvillean) CylinderWallCollision(p sim.Particle, origin, axis sim.Vec, radius float64) float64 {
	a := unit(axis)
	d := sub(p.Position, origin)
	drad := sub(d, scale(dot(d, a), a))
	vrad := sub(p.Velocity, scale(dot(p.Velocity, a), a))

	t := quadraticRoot(dot(drad, drad)-radius*radius, dot(drad, vrad), dot(vrad, vrad))
	return t
}

func (NewtonianLiouvillean) OscillatingPlateCollision(p sim.Particle, plate sim.PlateState, globalClock float64) float64 {
	n := unit(plate.Normal)
	s := func(t float64) float64 {
		pos := dot(sub(addScaled(p.Position, p.Velocity, t), plate.Origin), n)
		return pos - plate.Sigma*math.Sin(plate.Omega*(globalClock+t-plate.Timeshift))
	}
	sPrime := func(t float64) float64 {
		return dot(p.Velocity, n) - plate.Sigma*plate.Omega*math.Cos(plate.Omega*(globalClock+t-plate.Timeshift))
	}

	// Seed from the static-plate linear approximation.
	vn := dot(p.Velocity, n)
	s0 := s(0)
	var t float64
	if vn < 0 {
		t = -s0 / vn
	} else {
		t = 0
	}

	const maxIter = 50
	for i := 0; i < maxIter; i++ {
		fv := s(t)
		if math.Abs(fv) < 1e-13 {
			break
		}
		fp := sPrime(t)
		if fp == 0 {
			return sim.Infinity
		}
		next := t - fv/fp
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return sim.Infinity
		}
		t = next
	}
	if t < -1e-9 {
		return sim.Infinity
	}
	return math.Max(t, 0)
}

func (NewtonianLiouvillean) SmoothSpheresColl(ps *sim.ParticleStore, pID, qID int, e, d2 float64) sim.PairEventData {
	return resolveSmoothSpheres(ps, pID, qID, e, d2, 1, 1)
}

func (NewtonianLiouvillean) WellEventColl(ps *sim.ParticleStore, pID, qID int, depth float64) (sim.PairEventData, bool) {
	return resolveWellCrossing(ps, pID, qID, depth, 1, 1)
}

func (NewtonianLiouvillean) ParallelCubeColl(ps *sim.ParticleStore, pID, qID int, e, d float64, bc sim.BoundaryCondition) sim.PairEventData {
	p, q := ps.Get(pID), ps.Get(qID)
	rij := bc.ApplyBC(sub(q.Position, p.Position))
	orient := p.Orientation
	if !p.HasOrientation {
		orient = identityOrientation()
	}
	rijLocal := sim.RotateByQuaternion(rij, conj(orient))

	// The contact normal is the local axis along which the separation is
	// largest (the face the cubes meet on), rotated back into the world
	// frame.
	axis := dominantAxis(rijLocal)
	normal := sim.RotateByQuaternion(axis, orient)
	return resolveAlongNormal(ps, pID, qID, e, normal, 1, 1)
}

func (NewtonianLiouvillean) RunPlaneWallCollision(ps *sim.ParticleStore, id int, normal sim.Vec, e float64) sim.WallEventData {
	n := unit(normal)
	return resolveWallBounce(ps, id, n, e)
}

func (NewtonianLiouvillean) RunCylinderWallCollision(ps *sim.ParticleStore, id int, origin, axis sim.Vec, radius, e float64) sim.WallEventData {
	a := unit(axis)
	p := ps.Get(id)
	d := sub(p.Position, origin)
	drad := sub(d, scale(dot(d, a), a))
	n := unit(drad)
	return resolveWallBounce(ps, id, n, e)
}

func (n NewtonianLiouvillean) RunOscillatingPlateCollision(ps *sim.ParticleStore, id int, plate sim.PlateState, e, globalClock float64) sim.WallEventData {
	normal := unit(plate.Normal)
	plateVelocity := scale(plate.Sigma*plate.Omega*math.Cos(plate.Omega*(globalClock-plate.Timeshift)), normal)

	p := ps.Ptr(id)
	old := p.Velocity
	vn := dot(sub(p.Velocity, plateVelocity), normal)
	delta := scale(-(1+e)*vn, normal)
	p.Velocity = add(p.Velocity, delta)

	energyDelta := 0.5 * (dot(p.Velocity, p.Velocity) - dot(old, old))
	return sim.WallEventData{
		Delta: sim.ParticleDelta{
			ID: id, OldVelocity: old, NewVelocity: p.Velocity,
			Position: p.Position, Clock: p.Clock,
		},
		EnergyDelta: energyDelta,
	}
}
