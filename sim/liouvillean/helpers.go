package liouvillean

import (
	"math"

	"gonum.org/v1/gonum/num/quat"

	"github.com/tomgreen66/DynamO/sim"
)

func add(a, b sim.Vec) sim.Vec    { return sim.Vec{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z} }
func sub(a, b sim.Vec) sim.Vec    { return sim.Vec{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z} }
func scale(s float64, v sim.Vec) sim.Vec {
	return sim.Vec{X: s * v.X, Y: s * v.Y, Z: s * v.Z}
}
func dot(a, b sim.Vec) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func cross(a, b sim.Vec) sim.Vec {
	return sim.Vec{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}
func normVec(v sim.Vec) float64 { return math.Sqrt(dot(v, v)) }
func unit(v sim.Vec) sim.Vec {
	n := normVec(v)
	if n == 0 {
		return v
	}
	return scale(1/n, v)
}
func addScaled(pos, vel sim.Vec, t float64) sim.Vec { return add(pos, scale(t, vel)) }

func identityOrientation() sim.Orientation { return quat.Number{Real: 1} }
func conj(q sim.Orientation) sim.Orientation { return quat.Conj(q) }

func rotatingOffset(offset0, omega sim.Vec, t float64) sim.Vec {
	return sim.RodriguesRotate(offset0, omega, normVec(omega)*t)
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// selectRoot applies the spec's backoff policy to a single candidate root:
// a root within [-tol, 0) is snapped to 0 (an event "just" computed at the
// current clock), a root further in the past is discarded as stale.
func selectRoot(t float64) float64 {
	const tol = 1e-9
	if t < -tol {
		return sim.Infinity
	}
	return math.Max(t, 0)
}

// selectInterval applies the same backoff policy to an overlap interval
// [entry, exit]: the pair is approaching iff the interval's upper bound is
// still in the future.
func selectInterval(entry, exit float64) float64 {
	const tol = 1e-9
	if exit < -tol {
		return sim.Infinity
	}
	if entry < 0 {
		entry = 0
	}
	return entry
}

// quadraticRoot solves a*t^2 + 2*b*t + c = 0 (c=r2, a=v2) for the smallest
// root no earlier than the backoff tolerance, trying both roots since the
// caller (CylinderWallCollision) may be querying from inside or outside the
// boundary.
func quadraticRoot(r2, b, v2 float64) float64 {
	if v2 == 0 {
		return sim.Infinity
	}
	disc := b*b - v2*r2
	if disc < 0 {
		return sim.Infinity
	}
	sq := math.Sqrt(disc)
	t1 := (-b - sq) / v2
	t2 := (-b + sq) / v2
	const tol = 1e-9
	best := sim.Infinity
	for _, t := range [2]float64{t1, t2} {
		if t >= -tol && t < best {
			best = t
		}
	}
	if math.IsInf(best, 1) {
		return sim.Infinity
	}
	return math.Max(best, 0)
}

// sphereRoot solves the translational sphere-sphere quadratic: the smallest
// non-negative t at which |rij + vij*t| == d, or Infinity if the pair is
// not approaching or never reaches contact.
func sphereRoot(rij, vij sim.Vec, d float64) float64 {
	b := dot(rij, vij)
	if b >= 0 {
		return sim.Infinity
	}
	v2 := dot(vij, vij)
	if v2 == 0 {
		return sim.Infinity
	}
	r2 := dot(rij, rij) - d*d
	disc := b*b - v2*r2
	if disc < 0 {
		return sim.Infinity
	}
	t := (-b - math.Sqrt(disc)) / v2
	return selectRoot(t)
}

// sphereOutRoot solves the translational sphere-sphere quadratic for a pair
// already separated by less than d and moving apart: the smallest
// non-negative t at which |rij + vij*t| == d on the way out, or Infinity if
// the pair is not receding (b <= 0) or never reaches d (v2 == 0). This is
// the mirror image of sphereRoot's inbound ("-") branch: it takes the
// outbound ("+") branch of the same quadratic, since a receding pair
// crosses d going outward rather than inward.
func sphereOutRoot(rij, vij sim.Vec, d float64) float64 {
	b := dot(rij, vij)
	if b <= 0 {
		return sim.Infinity
	}
	v2 := dot(vij, vij)
	if v2 == 0 {
		return sim.Infinity
	}
	r2 := dot(rij, rij) - d*d
	disc := b*b - v2*r2
	if disc < 0 {
		return sim.Infinity
	}
	t := (-b + math.Sqrt(disc)) / v2
	return selectRoot(t)
}

// resolveWellCrossing resolves a square-well boundary crossing between pID
// and qID, already synchronized to the event time, along their line of
// centers. Capturing (closing speed vn < 0) always succeeds, adding depth
// to the pair's relative kinetic energy; escaping (vn > 0) succeeds only if
// the outward kinetic energy along the line of centers is at least depth,
// subtracting it, and otherwise reflects vn -- an elastic bounce back into
// the well that changes no energy.
func resolveWellCrossing(ps *sim.ParticleStore, pID, qID int, depth, invMassP, invMassQ float64) (sim.PairEventData, bool) {
	p, q := ps.Get(pID), ps.Get(qID)
	rhat := unit(sub(q.Position, p.Position))
	vij := sub(q.Velocity, p.Velocity)
	vn := dot(vij, rhat)
	invMassSum := invMassP + invMassQ

	var vnNew float64
	captured := true
	switch {
	case vn < 0:
		vnNew = -math.Sqrt(vn*vn + 2*depth*invMassSum)
	default:
		if escapeSq := vn*vn - 2*depth*invMassSum; escapeSq >= 0 {
			vnNew = math.Sqrt(escapeSq)
			captured = false
		} else {
			vnNew = -vn
		}
	}
	j := (vnNew - vn) / invMassSum

	oldP, oldQ := p.Velocity, q.Velocity
	p.Velocity = sub(p.Velocity, scale(j*invMassP, rhat))
	q.Velocity = add(q.Velocity, scale(j*invMassQ, rhat))
	ps.Set(p)
	ps.Set(q)

	mp, mq := 1/invMassP, 1/invMassQ
	energyDelta := 0.5*mp*(dot(p.Velocity, p.Velocity)-dot(oldP, oldP)) +
		0.5*mq*(dot(q.Velocity, q.Velocity)-dot(oldQ, oldQ))

	return sim.PairEventData{
		P:           sim.ParticleDelta{ID: pID, OldVelocity: oldP, NewVelocity: p.Velocity, Position: p.Position, Clock: p.Clock},
		Q:           sim.ParticleDelta{ID: qID, OldVelocity: oldQ, NewVelocity: q.Velocity, Position: q.Position, Clock: q.Clock},
		Impulse:     scale(j, rhat),
		EnergyDelta: energyDelta,
	}, captured
}

// axisInterval returns the time interval during which pos+vel*t lies within
// [-halfRange, halfRange], and whether that interval is non-empty at all
// (false only when vel == 0 and the starting position is already outside).
func axisInterval(pos, vel, halfRange float64) (entry, exit float64, ok bool) {
	if vel == 0 {
		if math.Abs(pos) <= halfRange {
			return math.Inf(-1), math.Inf(1), true
		}
		return 0, 0, false
	}
	t1 := (-halfRange - pos) / vel
	t2 := (halfRange - pos) / vel
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	return t1, t2, true
}

// cubeOverlapInterval returns the time interval during which two cubes
// sharing the same orientation, separated by rij and approaching at vij (in
// their shared body frame), overlap on every axis simultaneously. d is the
// sum of the two cubes' half-widths.
func cubeOverlapInterval(rij, vij sim.Vec, d float64) (entry, exit float64, ok bool) {
	ex, lx, okx := axisInterval(rij.X, vij.X, d)
	if !okx {
		return 0, 0, false
	}
	ey, ly, oky := axisInterval(rij.Y, vij.Y, d)
	if !oky {
		return 0, 0, false
	}
	ez, lz, okz := axisInterval(rij.Z, vij.Z, d)
	if !okz {
		return 0, 0, false
	}
	entry = math.Max(ex, math.Max(ey, ez))
	exit = math.Min(lx, math.Min(ly, lz))
	if entry > exit {
		return 0, 0, false
	}
	return entry, exit, true
}

// dominantAxis returns the signed unit axis vector (±x, ±y or ±z) aligned
// with v's largest-magnitude component, used to pick the contact normal for
// a parallel-cube collision once the overlapping interval has been found.
func dominantAxis(v sim.Vec) sim.Vec {
	ax, ay, az := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)
	switch {
	case ax >= ay && ax >= az:
		return sim.Vec{X: sign(v.X)}
	case ay >= az:
		return sim.Vec{Y: sign(v.Y)}
	default:
		return sim.Vec{Z: sign(v.Z)}
	}
}

// resolveAlongNormal applies the standard restitutive impulse
// J = -(1+e)*vn / (invMassP+invMassQ) along the unit contact normal derived
// from normal, mutating both particles' velocities in ps.
func resolveAlongNormal(ps *sim.ParticleStore, pID, qID int, e float64, normal sim.Vec, invMassP, invMassQ float64) sim.PairEventData {
	p, q := ps.Get(pID), ps.Get(qID)
	rhat := unit(normal)
	vij := sub(q.Velocity, p.Velocity)
	vn := dot(vij, rhat)
	j := -(1 + e) * vn / (invMassP + invMassQ)

	oldP, oldQ := p.Velocity, q.Velocity
	p.Velocity = sub(p.Velocity, scale(j*invMassP, rhat))
	q.Velocity = add(q.Velocity, scale(j*invMassQ, rhat))
	ps.Set(p)
	ps.Set(q)

	mp, mq := 1/invMassP, 1/invMassQ
	energyDelta := 0.5*mp*(dot(p.Velocity, p.Velocity)-dot(oldP, oldP)) +
		0.5*mq*(dot(q.Velocity, q.Velocity)-dot(oldQ, oldQ))

	return sim.PairEventData{
		P: sim.ParticleDelta{ID: pID, OldVelocity: oldP, NewVelocity: p.Velocity, Position: p.Position, Clock: p.Clock},
		Q: sim.ParticleDelta{ID: qID, OldVelocity: oldQ, NewVelocity: q.Velocity, Position: q.Position, Clock: q.Clock},
		Impulse:     scale(j, rhat),
		EnergyDelta: energyDelta,
	}
}

// resolveSmoothSpheres is resolveAlongNormal specialised to the
// line-of-centers normal, the classic hard-sphere case.
func resolveSmoothSpheres(ps *sim.ParticleStore, pID, qID int, e, d2 float64, invMassP, invMassQ float64) sim.PairEventData {
	p, q := ps.Get(pID), ps.Get(qID)
	return resolveAlongNormal(ps, pID, qID, e, sub(q.Position, p.Position), invMassP, invMassQ)
}

// resolveWallBounce applies a restitutive bounce off an infinite-mass
// obstacle with the given unit normal, used by all three Local collision
// resolvers (plane, cylinder, oscillating plate's static component).
func resolveWallBounce(ps *sim.ParticleStore, id int, normal sim.Vec, e float64) sim.WallEventData {
	p := ps.Ptr(id)
	old := p.Velocity
	vn := dot(p.Velocity, normal)
	p.Velocity = sub(p.Velocity, scale((1+e)*vn, normal))

	energyDelta := 0.5 * (dot(p.Velocity, p.Velocity) - dot(old, old))
	return sim.WallEventData{
		Delta: sim.ParticleDelta{
			ID: id, OldVelocity: old, NewVelocity: p.Velocity,
			Position: p.Position, Clock: p.Clock,
		},
		EnergyDelta: energyDelta,
	}
}
