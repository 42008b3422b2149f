package sim

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// fakeLiouvillean is a minimal, fully-controllable Liouvillean double used
// by local_test.go, interaction_test.go and global_test.go to exercise the
// generator layer (Local/Interaction/Global/Simulator) without pulling in
// sim/liouvillean's real root-finding math, which has its own dedicated
// test suite. WellEventColl is the one exception: its capture/escape/
// bounce arithmetic is reproduced here (rather than stubbed) because
// interaction_test.go needs to observe real energy exchange, and the
// formula is short enough not to be worth faking.
type fakeLiouvillean struct {
	sphereRoot    float64
	outRoot       float64
	cubeRoot      float64
	offsetRoot    float64
	planeRoot     float64
	cylinderRoot  float64
	plateRoot     float64
	advanceCalled int
}

func (f *fakeLiouvillean) Advance(ps *ParticleStore, id int, dt float64) {
	f.advanceCalled++
	p := ps.Ptr(id)
	p.Position = Vec{X: p.Position.X + p.Velocity.X*dt, Y: p.Position.Y + p.Velocity.Y*dt, Z: p.Position.Z + p.Velocity.Z*dt}
	p.Clock += dt
}

func (f *fakeLiouvillean) IsUpToDate(p Particle, globalClock float64) bool {
	return p.Clock == globalClock
}

func (f *fakeLiouvillean) SphereSphereInRoot(p, q Particle, d float64, bc BoundaryCondition) float64 {
	return f.sphereRoot
}

func (f *fakeLiouvillean) SphereSphereOutRoot(p, q Particle, d float64, bc BoundaryCondition) float64 {
	return f.outRoot
}

func (f *fakeLiouvillean) CubeCubeInRoot(p, q Particle, d float64, bc BoundaryCondition) float64 {
	return f.cubeRoot
}

func (f *fakeLiouvillean) OffsetSphereInRoot(p, q Particle, offsetP, offsetQ Vec, d float64, bc BoundaryCondition) float64 {
	return f.offsetRoot
}

func (f *fakeLiouvillean) PlaneWallCollision(p Particle, origin, normal Vec) float64 {
	return f.planeRoot
}

func (f *fakeLiouvillean) CylinderWallCollision(p Particle, origin, axis Vec, radius float64) float64 {
	return f.cylinderRoot
}

func (f *fakeLiouvillean) OscillatingPlateCollision(p Particle, plate PlateState, globalClock float64) float64 {
	return f.plateRoot
}

func (f *fakeLiouvillean) SmoothSpheresColl(ps *ParticleStore, pID, qID int, e, d2 float64) PairEventData {
	p, q := ps.Ptr(pID), ps.Ptr(qID)
	oldP, oldQ := p.Velocity, q.Velocity
	p.Velocity, q.Velocity = q.Velocity, p.Velocity // trivial elastic swap for test purposes
	return PairEventData{
		P: ParticleDelta{ID: pID, OldVelocity: oldP, NewVelocity: p.Velocity, Position: p.Position, Clock: p.Clock},
		Q: ParticleDelta{ID: qID, OldVelocity: oldQ, NewVelocity: q.Velocity, Position: q.Position, Clock: q.Clock},
	}
}

func (f *fakeLiouvillean) ParallelCubeColl(ps *ParticleStore, pID, qID int, e, d float64, bc BoundaryCondition) PairEventData {
	return f.SmoothSpheresColl(ps, pID, qID, e, d*d)
}

func (f *fakeLiouvillean) WellEventColl(ps *ParticleStore, pID, qID int, depth float64) (PairEventData, bool) {
	p, q := ps.Ptr(pID), ps.Ptr(qID)
	rhat := r3.Unit(r3.Sub(q.Position, p.Position))
	vij := r3.Sub(q.Velocity, p.Velocity)
	vn := r3.Dot(vij, rhat)

	var vnNew float64
	captured := true
	switch {
	case vn < 0:
		vnNew = -math.Sqrt(vn*vn + 4*depth) // invMassSum = 2 for unit masses
	default:
		if escapeSq := vn*vn - 4*depth; escapeSq >= 0 {
			vnNew = math.Sqrt(escapeSq)
			captured = false
		} else {
			vnNew = -vn
		}
	}
	j := (vnNew - vn) / 2

	oldP, oldQ := p.Velocity, q.Velocity
	p.Velocity = r3.Sub(p.Velocity, r3.Scale(j, rhat))
	q.Velocity = r3.Add(q.Velocity, r3.Scale(j, rhat))

	energyDelta := 0.5*(r3.Dot(p.Velocity, p.Velocity)-r3.Dot(oldP, oldP)) +
		0.5*(r3.Dot(q.Velocity, q.Velocity)-r3.Dot(oldQ, oldQ))

	return PairEventData{
		P:           ParticleDelta{ID: pID, OldVelocity: oldP, NewVelocity: p.Velocity, Position: p.Position, Clock: p.Clock},
		Q:           ParticleDelta{ID: qID, OldVelocity: oldQ, NewVelocity: q.Velocity, Position: q.Position, Clock: q.Clock},
		EnergyDelta: energyDelta,
	}, captured
}

func (f *fakeLiouvillean) RunPlaneWallCollision(ps *ParticleStore, id int, normal Vec, e float64) WallEventData {
	p := ps.Ptr(id)
	old := p.Velocity
	p.Velocity = Vec{X: -e * old.X, Y: -e * old.Y, Z: -e * old.Z}
	return WallEventData{Delta: ParticleDelta{ID: id, OldVelocity: old, NewVelocity: p.Velocity, Position: p.Position, Clock: p.Clock}}
}

func (f *fakeLiouvillean) RunCylinderWallCollision(ps *ParticleStore, id int, origin, axis Vec, radius, e float64) WallEventData {
	return f.RunPlaneWallCollision(ps, id, ZeroVec, e)
}

func (f *fakeLiouvillean) RunOscillatingPlateCollision(ps *ParticleStore, id int, plate PlateState, e, globalClock float64) WallEventData {
	return f.RunPlaneWallCollision(ps, id, plate.Normal, e)
}
