// Tracks simulation-wide diagnostic counters for final reporting.

package sim

import "fmt"

// Metrics aggregates run-wide diagnostics: event throughput by kind and
// the running totals needed to check the conservation invariants
// (SPEC_FULL.md §8, P3/P4) without re-scanning the full particle store.
type Metrics struct {
	EventsByKind map[EventKind]int64

	InitialEnergy   float64
	InitialMomentum Vec
	EnergyDrift     float64

	StaleEventsDiscarded int64
	FullUpdates          int64
}

// NewMetrics constructs an empty Metrics, to be seeded with the initial
// energy/momentum once the particle population is loaded.
func NewMetrics() *Metrics {
	return &Metrics{EventsByKind: make(map[EventKind]int64)}
}

func (m *Metrics) recordEvent(kind EventKind) {
	m.EventsByKind[kind]++
}

func (m *Metrics) recordEnergyDelta(delta float64) {
	m.EnergyDrift += delta
}

// Print displays aggregated diagnostics at the end of the simulation.
func (m *Metrics) Print(eventCount int64, finalClock float64) {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Events executed      : %d\n", eventCount)
	fmt.Printf("Final simulation time: %g\n", finalClock)
	for _, kind := range []EventKind{EventCore, EventWall, EventCell, EventVirtual, EventShutdown} {
		if n := m.EventsByKind[kind]; n > 0 {
			fmt.Printf("  %-9s : %d\n", kind, n)
		}
	}
	fmt.Printf("Stale events discarded: %d\n", m.StaleEventsDiscarded)
	fmt.Printf("Scheduler full updates: %d\n", m.FullUpdates)
	fmt.Printf("Cumulative energy drift: %g (initial energy %g)\n", m.EnergyDrift, m.InitialEnergy)
}

func totalKineticEnergy(ps *ParticleStore) float64 {
	total := 0.0
	for _, p := range ps.All() {
		total += 0.5 * SqNorm(p.Velocity)
	}
	return total
}

func totalMomentum(ps *ParticleStore) Vec {
	total := ZeroVec
	for _, p := range ps.All() {
		total = Vec{X: total.X + p.Velocity.X, Y: total.Y + p.Velocity.Y, Z: total.Z + p.Velocity.Z}
	}
	return total
}
