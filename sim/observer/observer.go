// Package observer provides the built-in sim.Observer plugins: energy and
// momentum tracking for invariant checking, periodic config snapshots, a
// POV-Ray scene dumper for visualization, and a velocity-histogram
// sampler. None of them mutate simulator state; all of them are safe to
// run concurrently with each other (though the driver calls them
// sequentially per SPEC_FULL.md §5).
package observer

import (
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/tomgreen66/DynamO/sim"
)

// EnergyMomentumTracker accumulates the running total kinetic energy and
// momentum drift implied by each event's EnergyDelta/velocity deltas,
// letting a long run's conservation invariants (P3/P4) be checked without
// re-scanning the particle population.
type EnergyMomentumTracker struct {
	name string

	EnergyDrift   float64
	MomentumDrift sim.Vec
}

// NewEnergyMomentumTracker constructs a tracker identified by name in
// diagnostics.
func NewEnergyMomentumTracker(name string) *EnergyMomentumTracker {
	return &EnergyMomentumTracker{name: name}
}

func (t *EnergyMomentumTracker) Name() string { return t.name }

func (t *EnergyMomentumTracker) EventUpdate(source sim.Event, data sim.EventData) {
	t.EnergyDrift += data.EnergyDelta
	for _, d := range data.Deltas {
		dv := sim.Vec{
			X: d.NewVelocity.X - d.OldVelocity.X,
			Y: d.NewVelocity.Y - d.OldVelocity.Y,
			Z: d.NewVelocity.Z - d.OldVelocity.Z,
		}
		t.MomentumDrift = sim.Vec{X: t.MomentumDrift.X + dv.X, Y: t.MomentumDrift.Y + dv.Y, Z: t.MomentumDrift.Z + dv.Z}
	}
}

// ConfigSnapshotWriter writes the full particle population to w every
// Interval committed events: each particle's ID, position and velocity,
// using xmlconfig's <Particle>/<P>/<V> element names inside a <Snapshot>
// element. Species, orientation and particle clocks are not written, so
// the output is not a loadable xmlconfig.Document; positions are as of
// each particle's own last synchronization.
type ConfigSnapshotWriter struct {
	name     string
	w        io.Writer
	interval int64
	ps       *sim.ParticleStore
	count    int64
}

// NewConfigSnapshotWriter constructs a writer that snapshots ps to w every
// interval committed events.
func NewConfigSnapshotWriter(name string, w io.Writer, interval int64, ps *sim.ParticleStore) *ConfigSnapshotWriter {
	return &ConfigSnapshotWriter{name: name, w: w, interval: interval, ps: ps}
}

func (c *ConfigSnapshotWriter) Name() string { return c.name }

func (c *ConfigSnapshotWriter) EventUpdate(source sim.Event, data sim.EventData) {
	c.count++
	if c.interval <= 0 || c.count%c.interval != 0 {
		return
	}
	fmt.Fprintf(c.w, "<Snapshot event=%q time=%q>\n", source.String(), fmt.Sprintf("%g", source.Time))
	for _, p := range c.ps.All() {
		fmt.Fprintf(c.w, "  <Particle ID=%q><P x=%q y=%q z=%q/><V x=%q y=%q z=%q/></Particle>\n",
			fmt.Sprint(p.ID),
			fmt.Sprint(p.Position.X), fmt.Sprint(p.Position.Y), fmt.Sprint(p.Position.Z),
			fmt.Sprint(p.Velocity.X), fmt.Sprint(p.Velocity.Y), fmt.Sprint(p.Velocity.Z))
	}
	fmt.Fprintln(c.w, "</Snapshot>")
}

// PovRayDumper writes a POV-Ray scene description of the particle
// population every Interval events, for offline rendering of a run.
type PovRayDumper struct {
	name     string
	w        io.Writer
	interval int64
	radius   float64
	ps       *sim.ParticleStore
	count    int64
	frame    int
}

// NewPovRayDumper constructs a dumper rendering particles as spheres of
// the given radius.
func NewPovRayDumper(name string, w io.Writer, interval int64, radius float64, ps *sim.ParticleStore) *PovRayDumper {
	return &PovRayDumper{name: name, w: w, interval: interval, radius: radius, ps: ps}
}

func (p *PovRayDumper) Name() string { return p.name }

func (p *PovRayDumper) EventUpdate(source sim.Event, data sim.EventData) {
	p.count++
	if p.interval <= 0 || p.count%p.interval != 0 {
		return
	}
	fmt.Fprintf(p.w, "// frame %d, t=%g\n", p.frame, source.Time)
	for _, particle := range p.ps.All() {
		fmt.Fprintf(p.w, "sphere { <%g,%g,%g>, %g pigment { color rgb <0.8,0.2,0.2> } }\n",
			particle.Position.X, particle.Position.Y, particle.Position.Z, p.radius)
	}
	p.frame++
}

// HistogramObserver bins one particle-velocity component into a
// fixed-width histogram, sampling the new velocity of every particle delta
// in each committed event.
type HistogramObserver struct {
	name    string
	axis    int // 0=x, 1=y, 2=z
	binSize float64
	bins    map[int]int64
}

// NewHistogramObserver constructs a histogram sampling the given velocity
// axis with the given bin width.
func NewHistogramObserver(name string, axis int, binSize float64) *HistogramObserver {
	return &HistogramObserver{name: name, axis: axis, binSize: binSize, bins: make(map[int]int64)}
}

func (h *HistogramObserver) Name() string { return h.name }

func (h *HistogramObserver) EventUpdate(source sim.Event, data sim.EventData) {
	for _, d := range data.Deltas {
		v := component(d.NewVelocity, h.axis)
		bin := int(math.Floor(v / h.binSize))
		h.bins[bin]++
	}
}

// Snapshot returns a copy of the current bin counts.
func (h *HistogramObserver) Snapshot() map[int]int64 {
	out := make(map[int]int64, len(h.bins))
	for k, v := range h.bins {
		out[k] = v
	}
	return out
}

func component(v sim.Vec, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// BoundedFanout wraps a set of observers with a per-observer event budget:
// once an observer has received maxEvents calls it is dropped from
// further notification (one Info log line marks its last call) rather than continuing to spend time on a
// plugin whose output the caller has already decided it has enough of.
type BoundedFanout struct {
	name      string
	observers []sim.Observer
	max       int64
	counts    map[string]int64
}

// NewBoundedFanout wraps observers with a shared per-observer budget of
// maxEvents (0 = unbounded).
func NewBoundedFanout(name string, maxEvents int64, observers ...sim.Observer) *BoundedFanout {
	return &BoundedFanout{name: name, observers: observers, max: maxEvents, counts: make(map[string]int64)}
}

func (f *BoundedFanout) Name() string { return f.name }

func (f *BoundedFanout) EventUpdate(source sim.Event, data sim.EventData) {
	for _, o := range f.observers {
		if f.max > 0 && f.counts[o.Name()] >= f.max {
			continue
		}
		f.counts[o.Name()]++
		if f.counts[o.Name()] == f.max {
			logrus.Infof("observer/boundedfanout: %q reached its %d-event budget, dropping it", o.Name(), f.max)
		}
		o.EventUpdate(source, data)
	}
}
