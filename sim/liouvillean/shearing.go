package liouvillean

import "github.com/tomgreen66/DynamO/sim"

// ShearingLiouvillean is NewtonianLiouvillean with Lees-Edwards sheared
// periodic boundaries: free flight and collision resolution are identical
// to the Newtonian case (shear is a boundary-condition effect, not a
// force), but every root-finder must additionally correct the relative
// velocity by the streaming-velocity shift implied by wrapping across the
// shear boundary (sim.BoundaryCondition.ApplyVelocityShift).
type ShearingLiouvillean struct {
	NewtonianLiouvillean
}

// NewShearing constructs the Lees-Edwards dynamics class.
func NewShearing() *ShearingLiouvillean {
	return &ShearingLiouvillean{}
}

func (ShearingLiouvillean) SphereSphereInRoot(p, q sim.Particle, d float64, bc sim.BoundaryCondition) float64 {
	rawRij := sub(q.Position, p.Position)
	rij := bc.ApplyBC(rawRij)
	vij := add(sub(q.Velocity, p.Velocity), bc.ApplyVelocityShift(rawRij))
	return sphereRoot(rij, vij, d)
}

func (ShearingLiouvillean) SphereSphereOutRoot(p, q sim.Particle, d float64, bc sim.BoundaryCondition) float64 {
	rawRij := sub(q.Position, p.Position)
	rij := bc.ApplyBC(rawRij)
	vij := add(sub(q.Velocity, p.Velocity), bc.ApplyVelocityShift(rawRij))
	return sphereOutRoot(rij, vij, d)
}

func (s ShearingLiouvillean) CubeCubeInRoot(p, q sim.Particle, d float64, bc sim.BoundaryCondition) float64 {
	rawRij := sub(q.Position, p.Position)
	rij := bc.ApplyBC(rawRij)
	vij := add(sub(q.Velocity, p.Velocity), bc.ApplyVelocityShift(rawRij))

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

func (s ShearingLiouvillean) OffsetSphereInRoot(p, q sim.Particle, offsetP, offsetQ sim.Vec, d float64, bc sim.BoundaryCondition) float64 {
	rawRij := sub(q.Position, p.Position)
	shift := bc.ApplyVelocityShift(rawRij)
	if shift == sim.ZeroVec {
		return s.NewtonianLiouvillean.OffsetSphereInRoot(p, q, offsetP, offsetQ, d, bc)
	}
	shifted := q
	shifted.Velocity = add(q.Velocity, shift)
	return s.NewtonianLiouvillean.OffsetSphereInRoot(p, shifted, offsetP, offsetQ, d, bc)
}
