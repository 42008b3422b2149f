// simulator.go
//
// The event-driven driver loop (SPEC_FULL.md §4.4): pop the globally-next
// candidate, discard it if stale, advance the two participants to its
// time, resolve it, fan the resulting delta out to observers, and refresh
// the scheduler's candidates for whatever the event touched. Grounded on
// the teacher's Simulator.Run (sim/simulator.go): a single-threaded for
// loop around heap.Pop, generalized from a fixed EventQueue to the
// Scheduler interface and from Event.Execute to an explicit dispatch.
//
// Unlike the teacher's tick-based Run, cancellation here is cooperative
// via context.Context rather than an external Horizon field alone,
// because a long-running physical simulation (unlike a bounded workload
// replay) has no natural upper bound on wall-clock run time.

package sim

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Simulator owns every piece of mutable state a running simulation needs:
// the particle population, the active dynamics class, the generator set,
// the scheduler, and the observer fan-out. It is not safe for concurrent
// use; Run must be the only goroutine touching it.
type Simulator struct {
	Particles  *ParticleStore
	Properties *PropertyStore
	Dynamics   Liouvillean
	Scheduler  Scheduler
	BC         BoundaryCondition
	RNG        *PartitionedRNG

	Interactions []Interaction
	Locals       []Local
	Globals      []Global

	Metrics *Metrics

	Clock      float64
	EventCount int64

	observers     []Observer
	disabledObs   map[string]bool
	particleVersion map[int]int64
}

// NewSimulator builds a Simulator ready to Run. particles, props, dynamics
// and scheduler must be non-nil; the generator slices and bc/rng may be
// left at their zero value for a trivial (no-collision) configuration.
func NewSimulator(particles *ParticleStore, props *PropertyStore, dynamics Liouvillean, scheduler Scheduler, bc BoundaryCondition, rng *PartitionedRNG) *Simulator {
	if bc == nil {
		bc = NoBC{}
	}
	s := &Simulator{
		Particles:       particles,
		Properties:      props,
		Dynamics:        dynamics,
		Scheduler:       scheduler,
		BC:              bc,
		RNG:             rng,
		Metrics:         NewMetrics(),
		particleVersion: make(map[int]int64),
	}
	s.Metrics.InitialEnergy = totalKineticEnergy(particles)
	s.Metrics.InitialMomentum = totalMomentum(particles)
	return s
}

// AddObserver registers an observer to receive every committed event from
// this point on.
func (s *Simulator) AddObserver(o Observer) {
	s.observers = append(s.observers, o)
}

// Run drives the simulation until ctx is cancelled, maxEvents events have
// been executed (0 = unbounded), or the next event's time exceeds maxTime
// (0 = unbounded), whichever comes first.
func (s *Simulator) Run(ctx context.Context, maxEvents int64, maxTime float64) error {
	s.refreshAllCandidates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if maxEvents > 0 && s.EventCount >= maxEvents {
			return nil
		}

		ev := s.Scheduler.PopNext()
		if ev.IsNone() {
			return nil
		}
		if maxTime > 0 && ev.Time > maxTime {
			return nil
		}

		if !s.isFresh(ev) {
			s.Metrics.StaleEventsDiscarded++
			s.refreshCandidate(ev.Primary)
			continue
		}

		s.Clock = ev.Time
		s.sync(ev.Primary)
		if ev.HasSecondary {
			s.sync(ev.Secondary)
		}

		data, invalidates := s.dispatch(ev)
		s.EventCount++
		s.Metrics.recordEvent(ev.Kind)
		s.Metrics.recordEnergyDelta(data.EnergyDelta)

		for _, delta := range data.Deltas {
			s.touch(delta.ID)
		}
		s.notify(ev, data)

		if invalidates {
			s.Metrics.FullUpdates++
			s.Scheduler.FullUpdate()
			s.refreshAllCandidates()
		} else {
			s.refreshCandidate(ev.Primary)
			if ev.HasSecondary {
				s.refreshCandidate(ev.Secondary)
			}
		}
	}
}

// sync advances particle id to the current global clock if it is not
// already there, per the Liouvillean.IsUpToDate contract.
func (s *Simulator) sync(id int) {
	p := s.Particles.Get(id)
	if s.Dynamics.IsUpToDate(p, s.Clock) {
		return
	}
	s.Dynamics.Advance(s.Particles, id, s.Clock-p.Clock)
}

func (s *Simulator) touch(id int) {
	s.particleVersion[id]++
}

func (s *Simulator) isFresh(ev Event) bool {
	if s.particleVersion[ev.Primary] != ev.primaryVersion {
		return false
	}
	if ev.HasSecondary && s.particleVersion[ev.Secondary] != ev.secondaryVersion {
		return false
	}
	return true
}

// dispatch resolves a committed event by looking its SourceHandle back up
// in the owning generator slice and calling RunEvent on it.
func (s *Simulator) dispatch(ev Event) (EventData, bool) {
	switch ev.Source.Family {
	case FamilyInteraction:
		inter := s.Interactions[ev.Source.Index]
		return inter.RunEvent(s.Dynamics, s.Particles, ev.Primary, ev.Secondary), false
	case FamilyLocal:
		loc := s.Locals[ev.Source.Index]
		return loc.RunEvent(s.Dynamics, s.Particles, ev.Primary, s.Clock), false
	case FamilyGlobal:
		g := s.Globals[ev.Source.Index]
		return g.RunEvent(s.Dynamics, s.Particles, s.RNG, ev.Primary, s.Clock)
	default:
		logrus.Warnf("simulator: event %s has no recognized source; treating as a no-op", ev)
		return EventData{}, false
	}
}

// refreshAllCandidates rebuilds every particle's scheduler entry from
// scratch, used at startup and after any event that invalidates state
// beyond its own two participants.
func (s *Simulator) refreshAllCandidates() {
	for _, p := range s.Particles.All() {
		s.refreshCandidate(p.ID)
	}
}

// refreshCandidate recomputes particle id's earliest event across every
// Interaction, Local and Global, and pushes it into the scheduler. O(n)
// interaction partners per particle; a cell-list Global narrows this in
// practice but the driver itself makes no assumption about candidate
// density.
func (s *Simulator) refreshCandidate(id int) {
	s.sync(id)
	best := NoEvent()

	for i, inter := range s.Interactions {
		r2 := inter.Range()
		for _, other := range s.Particles.All() {
			if other.ID == id || !r2.InRange(id, other.ID) {
				continue
			}
			s.sync(other.ID)
			cand := inter.GenerateEvent(s.Dynamics, s.Particles, id, other.ID, s.Clock, s.BC)
			if cand.IsNone() {
				continue
			}
			cand.Source = SourceHandle{Family: FamilyInteraction, Index: i}
			cand.primaryVersion = s.particleVersion[id]
			cand.secondaryVersion = s.particleVersion[other.ID]
			if cand.Less(best) {
				best = cand
			}
		}
	}

	for i, loc := range s.Locals {
		if !loc.Range().InRange(id) {
			continue
		}
		cand := loc.GenerateEvent(s.Dynamics, s.Particles, id, s.Clock)
		if cand.IsNone() {
			continue
		}
		cand.Source = SourceHandle{Family: FamilyLocal, Index: i}
		cand.primaryVersion = s.particleVersion[id]
		if cand.Less(best) {
			best = cand
		}
	}

	for _, g := range s.Globals {
		cand := g.GenerateEvent(s.Dynamics, s.Particles, s.RNG, id, s.Clock)
		if cand.IsNone() {
			continue
		}
		cand.primaryVersion = s.particleVersion[id]
		if cand.Less(best) {
			best = cand
		}
	}

	if best.IsNone() {
		return
	}
	s.Scheduler.Push(id, best)
}

// notify fans out a committed event to every observer, isolating each
// observer's panic so one misbehaving plugin cannot halt the simulation
// (SPEC_FULL.md §7); the offending observer is disabled for the rest of
// the run rather than retried.
func (s *Simulator) notify(ev Event, data EventData) {
	for _, o := range s.observers {
		if s.disabledObs != nil && s.disabledObs[o.Name()] {
			continue
		}
		s.safeNotify(o, ev, data)
	}
}

func (s *Simulator) safeNotify(o Observer, ev Event, data EventData) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("simulator: observer %q panicked, disabling it: %v", o.Name(), r)
			if s.disabledObs == nil {
				s.disabledObs = make(map[string]bool)
			}
			s.disabledObs[o.Name()] = true
		}
	}()
	o.EventUpdate(ev, data)
}

// String renders a compact run-state summary for diagnostics.
func (s *Simulator) String() string {
	return fmt.Sprintf("Simulator{clock:%g events:%d particles:%d}", s.Clock, s.EventCount, s.Particles.Len())
}
