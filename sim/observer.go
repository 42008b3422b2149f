// observer.go
//
// The external Observer interface (SPEC_FULL.md §6.2): plugins receive a
// read-only record of each committed event and may not mutate particle
// state. Concrete plugins live in sim/observer; this file defines only the
// contract and the data they receive.

package sim

// ParticleDelta describes one particle's state change as a result of a
// committed event, carried in EventData so observers never need to reach
// back into the ParticleStore (which they must not mutate).
type ParticleDelta struct {
	ID          int
	OldVelocity Vec
	NewVelocity Vec
	Position    Vec
	Clock       float64
}

// EventData is the per-particle change list produced by RunEvent,
// SPEC_FULL.md §6.2. EnergyDelta is the change in total kinetic energy of
// the touched particles attributable to this event (0 for elastic
// collisions by construction, per invariant 3).
type EventData struct {
	Deltas      []ParticleDelta
	EnergyDelta float64
}

// Observer is the external plugin contract. Implementations must not
// mutate the Simulator's particle state; EventData is a read-only
// snapshot of what changed.
type Observer interface {
	// EventUpdate is called once per committed event, in execution order,
	// after the event's state has been applied.
	EventUpdate(source Event, data EventData)

	// Name identifies the observer for diagnostics and for disabling it
	// after a panic (SPEC_FULL.md §7: observer failures are isolated).
	Name() string
}
