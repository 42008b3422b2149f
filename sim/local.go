// local.go
//
// Owns the Local contract: a single-particle generator for obstacles fixed
// in the lab frame (walls, plates) rather than moving with another
// particle (SPEC_FULL.md §4.2). FlatWall, CylinderWall, OscillatingPlate
// and DoubleWall are the four concrete variants.

package sim

import "fmt"

// Local is the single-particle obstacle-collision generator contract.
type Local interface {
	// Range reports which particles this obstacle applies to.
	Range() Range1

	// GenerateEvent returns the earliest future collision candidate for
	// particle id against this obstacle, or NoEvent() if none exists.
	GenerateEvent(l Liouvillean, ps *ParticleStore, id int, globalClock float64) Event

	// RunEvent resolves a previously-generated event for particle id.
	RunEvent(l Liouvillean, ps *ParticleStore, id int, globalClock float64) EventData

	// IsInCell reports whether particle p could plausibly interact with
	// this obstacle while confined to the axis-aligned box [cellMin,
	// cellMax]. The open question resolution (SPEC_FULL.md §9) is
	// conservative-true: an obstacle with no cheap cell-membership test
	// returns true unconditionally rather than risk a false negative that
	// would silently skip an event.
	IsInCell(p Particle, cellMin, cellMax Vec) bool

	// Name identifies the obstacle instance for diagnostics.
	Name() string
}

// FlatWall is an infinite plane through Origin with unit Normal.
type FlatWall struct {
	range1       Range1
	Origin       Vec
	Normal       Vec
	restitutionH PropertyHandle
	props        *PropertyStore
	name         string
}

// NewFlatWall binds the restitution property name against props.
func NewFlatWall(name string, r1 Range1, props *PropertyStore, origin, normal Vec, restitutionName string) (*FlatWall, error) {
	eh, err := props.Resolve(restitutionName)
	if err != nil {
		return nil, fmt.Errorf("local %q: %w", name, err)
	}
	return &FlatWall{range1: r1, Origin: origin, Normal: normal, restitutionH: eh, props: props, name: name}, nil
}

func (w *FlatWall) Range() Range1 { return w.range1 }
func (w *FlatWall) Name() string  { return w.name }

func (w *FlatWall) GenerateEvent(l Liouvillean, ps *ParticleStore, id int, globalClock float64) Event {
	t := l.PlaneWallCollision(ps.Get(id), w.Origin, w.Normal)
	if isInfiniteRoot(t) {
		return NoEvent()
	}
	return Event{Time: globalClock + t, Kind: EventWall, Primary: id, computedAt: globalClock}
}

func (w *FlatWall) RunEvent(l Liouvillean, ps *ParticleStore, id int, globalClock float64) EventData {
	e := w.props.ValueByID(w.restitutionH, ps, id)
	data := l.RunPlaneWallCollision(ps, id, w.Normal, e)
	return EventData{Deltas: []ParticleDelta{data.Delta}, EnergyDelta: data.EnergyDelta}
}

func (w *FlatWall) IsInCell(Particle, Vec, Vec) bool { return true }

// CylinderWall is an infinite cylinder of the given Radius centered on the
// line through Origin along Axis.
type CylinderWall struct {
	range1       Range1
	Origin       Vec
	Axis         Vec
	Radius       float64
	restitutionH PropertyHandle
	props        *PropertyStore
	name         string
}

// NewCylinderWall binds the restitution property name against props.
func NewCylinderWall(name string, r1 Range1, props *PropertyStore, origin, axis Vec, radius float64, restitutionName string) (*CylinderWall, error) {
	eh, err := props.Resolve(restitutionName)
	if err != nil {
		return nil, fmt.Errorf("local %q: %w", name, err)
	}
	return &CylinderWall{range1: r1, Origin: origin, Axis: axis, Radius: radius, restitutionH: eh, props: props, name: name}, nil
}

func (w *CylinderWall) Range() Range1 { return w.range1 }
func (w *CylinderWall) Name() string  { return w.name }

func (w *CylinderWall) GenerateEvent(l Liouvillean, ps *ParticleStore, id int, globalClock float64) Event {
	t := l.CylinderWallCollision(ps.Get(id), w.Origin, w.Axis, w.Radius)
	if isInfiniteRoot(t) {
		return NoEvent()
	}
	return Event{Time: globalClock + t, Kind: EventWall, Primary: id, computedAt: globalClock}
}

func (w *CylinderWall) RunEvent(l Liouvillean, ps *ParticleStore, id int, globalClock float64) EventData {
	e := w.props.ValueByID(w.restitutionH, ps, id)
	data := l.RunCylinderWallCollision(ps, id, w.Origin, w.Axis, w.Radius, e)
	return EventData{Deltas: []ParticleDelta{data.Delta}, EnergyDelta: data.EnergyDelta}
}

func (w *CylinderWall) IsInCell(Particle, Vec, Vec) bool { return true }

// OscillatingPlate is a plate whose position oscillates analytically along
// its own normal, per PlateState.
type OscillatingPlate struct {
	range1       Range1
	State        PlateState
	restitutionH PropertyHandle
	props        *PropertyStore
	name         string
}

// NewOscillatingPlate binds the restitution property name against props.
func NewOscillatingPlate(name string, r1 Range1, props *PropertyStore, state PlateState, restitutionName string) (*OscillatingPlate, error) {
	eh, err := props.Resolve(restitutionName)
	if err != nil {
		return nil, fmt.Errorf("local %q: %w", name, err)
	}
	return &OscillatingPlate{range1: r1, State: state, restitutionH: eh, props: props, name: name}, nil
}

func (w *OscillatingPlate) Range() Range1 { return w.range1 }
func (w *OscillatingPlate) Name() string  { return w.name }

func (w *OscillatingPlate) GenerateEvent(l Liouvillean, ps *ParticleStore, id int, globalClock float64) Event {
	t := l.OscillatingPlateCollision(ps.Get(id), w.State, globalClock)
	if isInfiniteRoot(t) {
		return NoEvent()
	}
	return Event{Time: globalClock + t, Kind: EventWall, Primary: id, computedAt: globalClock}
}

func (w *OscillatingPlate) RunEvent(l Liouvillean, ps *ParticleStore, id int, globalClock float64) EventData {
	e := w.props.ValueByID(w.restitutionH, ps, id)
	data := l.RunOscillatingPlateCollision(ps, id, w.State, e, globalClock)
	return EventData{Deltas: []ParticleDelta{data.Delta}, EnergyDelta: data.EnergyDelta}
}

func (w *OscillatingPlate) IsInCell(Particle, Vec, Vec) bool { return true }

// DoubleWall is a pair of parallel FlatWalls sharing one restitution and
// range, used to confine a slab -- the earlier of the two candidate times
// wins.
type DoubleWall struct {
	range1       Range1
	first        *FlatWall
	second       *FlatWall
	name         string
}

// NewDoubleWall builds two parallel FlatWalls sharing restitution: one at
// originA with the given normal and one at originB with the negated
// normal, so both walls face the slab between them.
func NewDoubleWall(name string, r1 Range1, props *PropertyStore, originA, originB, normal Vec, restitutionName string) (*DoubleWall, error) {
	first, err := NewFlatWall(name+"/a", r1, props, originA, normal, restitutionName)
	if err != nil {
		return nil, err
	}
	second, err := NewFlatWall(name+"/b", r1, props, originB, Vec{X: -normal.X, Y: -normal.Y, Z: -normal.Z}, restitutionName)
	if err != nil {
		return nil, err
	}
	return &DoubleWall{range1: r1, first: first, second: second, name: name}, nil
}

func (w *DoubleWall) Range() Range1 { return w.range1 }
func (w *DoubleWall) Name() string  { return w.name }

func (w *DoubleWall) GenerateEvent(l Liouvillean, ps *ParticleStore, id int, globalClock float64) Event {
	a := w.first.GenerateEvent(l, ps, id, globalClock)
	b := w.second.GenerateEvent(l, ps, id, globalClock)
	if a.IsNone() {
		return b
	}
	if b.IsNone() {
		return a
	}
	if a.Time <= b.Time {
		return a
	}
	return b
}

func (w *DoubleWall) RunEvent(l Liouvillean, ps *ParticleStore, id int, globalClock float64) EventData {
	a := w.first.GenerateEvent(l, ps, id, globalClock)
	b := w.second.GenerateEvent(l, ps, id, globalClock)
	if !a.IsNone() && (b.IsNone() || a.Time <= b.Time) {
		return w.first.RunEvent(l, ps, id, globalClock)
	}
	return w.second.RunEvent(l, ps, id, globalClock)
}

func (w *DoubleWall) IsInCell(Particle, Vec, Vec) bool { return true }
