// Package sim provides the core event-driven molecular dynamics (EDMD)
// engine: particles advance along analytic free-flight trajectories and
// interact only at discrete collision events.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - particle.go: Particle state and the flat ParticleStore
//   - event.go: the Event tuple and its EventKind taxonomy
//   - simulator.go: the event loop (Run), dispatch, and invalidation
//
// # Architecture
//
// The sim package defines the interfaces and the hot-path data structures
// directly (Particle, Event, Range, Scheduler's BoundedPEL, Interaction and
// Local generator variants); heavier, swappable implementations live in
// sub-packages that register themselves via init():
//   - sim/liouvillean/: free-flight + collision-resolution kernels (Newtonian, shearing)
//   - sim/scheduler/: alternative scheduler organizations (CalendarQueue)
//   - sim/observer/: concrete Observer plugins (energy/momentum tracking, snapshots, POV-Ray dump)
//   - sim/xmlconfig/: the XML configuration schema, loader, and writer
//
// Sub-packages register their implementations via init() functions that set
// package-level factory variables (NewLiouvilleanFunc, NewSchedulerFunc).
//
// # Key Interfaces
//
//   - Liouvillean: free-flight advance, root-finding, collision resolution
//   - Interaction: pair event generator + resolver over a 2-range
//   - Local: single-particle event generator + resolver over a 1-range
//   - Global: many-particle event generator that may re-register itself
//   - Scheduler: priority structure over pending Events with staleness detection
//   - Observer: read-only plugin notified after each committed event
package sim
