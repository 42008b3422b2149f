// global.go
//
// Owns the Global contract: a generator that is not tied to a specific
// particle pair or fixed obstacle, used for system-wide bookkeeping (cell
// neighbour list maintenance) and stochastic driving forces (Andersen
// thermostat resampling), per SPEC_FULL.md §4.2. A Global's RunEvent is
// the one place a FullUpdate of the scheduler can be required, since its
// effects are not confined to the two particles named in its Event.

package sim

import (
	"fmt"
	"math"
)

// Global is the system-wide generator contract.
type Global interface {
	// GenerateEvent returns the earliest future event this Global
	// produces for particle id, or NoEvent() if none is pending.
	GenerateEvent(l Liouvillean, ps *ParticleStore, rng *PartitionedRNG, id int, globalClock float64) Event

	// RunEvent resolves a previously-generated event for particle id.
	// Invalidates reports whether the driver must FullUpdate the
	// scheduler afterward because this event's effects are not confined
	// to id alone.
	RunEvent(l Liouvillean, ps *ParticleStore, rng *PartitionedRNG, id int, globalClock float64) (data EventData, invalidates bool)

	// Name identifies the Global instance for diagnostics. Its RNG
	// subsystem (SubsystemGlobal) is keyed by the instance index, not by
	// Name.
	Name() string
}

// CellNeighbourList partitions the simulation cell into a uniform grid of
// cellSize-wide cubic cells and emits a virtual EventCell whenever a
// particle is about to cross a cell boundary, letting the driver rebuild
// that particle's candidate partner list without waiting for a real
// collision. It carries no potential and never changes velocities.
type CellNeighbourList struct {
	CellSize float64
	index    int
}

// NewCellNeighbourList constructs a CellNeighbourList with the given cell
// width. index distinguishes this instance's RNG subsystem from any other
// Global (unused here since cell crossings are deterministic, but kept for
// a consistent Name()/diagnostics scheme across all Globals).
func NewCellNeighbourList(cellSize float64, index int) *CellNeighbourList {
	return &CellNeighbourList{CellSize: cellSize, index: index}
}

func (c *CellNeighbourList) Name() string { return fmt.Sprintf("CellNeighbourList#%d", c.index) }

func (c *CellNeighbourList) GenerateEvent(l Liouvillean, ps *ParticleStore, rng *PartitionedRNG, id int, globalClock float64) Event {
	p := ps.Get(id)
	t := math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		pos, vel := component(p.Position, axis), component(p.Velocity, axis)
		if vel == 0 {
			continue
		}
		cellIdx := math.Floor(pos / c.CellSize)
		var boundary float64
		if vel > 0 {
			boundary = (cellIdx + 1) * c.CellSize
		} else {
			boundary = cellIdx * c.CellSize
		}
		dt := (boundary - pos) / vel
		if dt < t {
			t = dt
		}
	}
	if math.IsInf(t, 1) {
		return NoEvent()
	}
	return Event{Time: globalClock + t, Kind: EventCell, Primary: id, Source: SourceHandle{Family: FamilyGlobal, Index: c.index}, computedAt: globalClock}
}

func (c *CellNeighbourList) RunEvent(l Liouvillean, ps *ParticleStore, rng *PartitionedRNG, id int, globalClock float64) (EventData, bool) {
	// A cell crossing changes no velocity; the driver's job after this
	// returns is to re-query neighbouring-cell interactions for id, which
	// does not require invalidating every other particle's candidate.
	p := ps.Get(id)
	return EventData{Deltas: []ParticleDelta{{ID: id, OldVelocity: p.Velocity, NewVelocity: p.Velocity, Position: p.Position, Clock: p.Clock}}}, false
}

func component(v Vec, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// AndersenThermostat drives the system toward a target temperature by
// resampling a Poisson-selected particle's velocity from a Maxwell-
// Boltzmann distribution at rate CollisionFrequency, per-particle, per
// SPEC_FULL.md's stochastic Global example.
type AndersenThermostat struct {
	Temperature       float64
	CollisionFrequency float64
	index             int
}

// NewAndersenThermostat constructs a thermostat targeting Temperature with
// the given per-particle collision frequency.
func NewAndersenThermostat(temperature, collisionFrequency float64, index int) *AndersenThermostat {
	return &AndersenThermostat{Temperature: temperature, CollisionFrequency: collisionFrequency, index: index}
}

func (a *AndersenThermostat) Name() string { return fmt.Sprintf("AndersenThermostat#%d", a.index) }

func (a *AndersenThermostat) GenerateEvent(l Liouvillean, ps *ParticleStore, rng *PartitionedRNG, id int, globalClock float64) Event {
	if a.CollisionFrequency <= 0 {
		return NoEvent()
	}
	r := rng.ForSubsystem(SubsystemGlobal(a.index))
	// Exponential inter-arrival time for a Poisson process of rate
	// CollisionFrequency. Every call draws afresh from this instance's
	// stream; the driver calls this whenever it refreshes the particle's
	// candidate, so a pending draw can be replaced before its event fires.
	u := r.Float64()
	for u <= 0 {
		u = r.Float64()
	}
	dt := -math.Log(u) / a.CollisionFrequency
	return Event{Time: globalClock + dt, Kind: EventVirtual, Primary: id, Source: SourceHandle{Family: FamilyGlobal, Index: a.index}, computedAt: globalClock}
}

func (a *AndersenThermostat) RunEvent(l Liouvillean, ps *ParticleStore, rng *PartitionedRNG, id int, globalClock float64) (EventData, bool) {
	r := rng.ForSubsystem(SubsystemGlobal(a.index))
	p := ps.Ptr(id)
	old := p.Velocity

	sigma := math.Sqrt(a.Temperature)
	p.Velocity = Vec{
		X: sigma * r.NormFloat64(),
		Y: sigma * r.NormFloat64(),
		Z: sigma * r.NormFloat64(),
	}

	energyDelta := 0.5 * (SqNorm(p.Velocity) - SqNorm(old))
	data := EventData{
		Deltas: []ParticleDelta{{
			ID: id, OldVelocity: old, NewVelocity: p.Velocity,
			Position: p.Position, Clock: p.Clock,
		}},
		EnergyDelta: energyDelta,
	}
	// Resampling one particle's velocity does not change any other
	// particle's trajectory, so only id's own scheduler entry needs
	// refreshing -- no FullUpdate required.
	return data, false
}
