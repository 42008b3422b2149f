package observer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tomgreen66/DynamO/sim"
)

func delta(id int, old, new sim.Vec) sim.EventData {
	return sim.EventData{Deltas: []sim.ParticleDelta{{ID: id, OldVelocity: old, NewVelocity: new}}, EnergyDelta: 0}
}

func TestEnergyMomentumTracker_AccumulatesAcrossEvents(t *testing.T) {
	tr := NewEnergyMomentumTracker("tracker")

	tr.EventUpdate(sim.Event{}, sim.EventData{
		Deltas:      []sim.ParticleDelta{{ID: 0, OldVelocity: sim.Vec{X: 1}, NewVelocity: sim.Vec{X: -1}}},
		EnergyDelta: 0.25,
	})
	tr.EventUpdate(sim.Event{}, sim.EventData{
		Deltas:      []sim.ParticleDelta{{ID: 1, OldVelocity: sim.Vec{X: -1}, NewVelocity: sim.Vec{X: 1}}},
		EnergyDelta: -0.25,
	})

	if tr.EnergyDrift != 0 {
		t.Fatalf("expected zero net energy drift, got %v", tr.EnergyDrift)
	}
	if tr.MomentumDrift.X != 0 {
		t.Fatalf("expected zero net momentum drift for an elastic exchange, got %v", tr.MomentumDrift.X)
	}
	if tr.Name() != "tracker" {
		t.Fatalf("unexpected name: %s", tr.Name())
	}
}

func TestConfigSnapshotWriter_WritesEveryInterval(t *testing.T) {
	store := sim.NewParticleStore([]sim.Particle{{ID: 0, Position: sim.Vec{X: 1}}})
	var buf bytes.Buffer
	w := NewConfigSnapshotWriter("snap", &buf, 2, store)

	w.EventUpdate(sim.Event{Time: 1}, delta(0, sim.Vec{}, sim.Vec{}))
	if buf.Len() != 0 {
		t.Fatal("expected no output before the interval elapses")
	}
	w.EventUpdate(sim.Event{Time: 2}, delta(0, sim.Vec{}, sim.Vec{}))
	if !strings.Contains(buf.String(), "<Snapshot") {
		t.Fatalf("expected a snapshot after the second event, got: %s", buf.String())
	}
}

func TestPovRayDumper_WritesEveryInterval(t *testing.T) {
	store := sim.NewParticleStore([]sim.Particle{{ID: 0, Position: sim.Vec{X: 1}}})
	var buf bytes.Buffer
	d := NewPovRayDumper("pov", &buf, 1, 0.5, store)

	d.EventUpdate(sim.Event{Time: 1}, delta(0, sim.Vec{}, sim.Vec{}))
	if !strings.Contains(buf.String(), "sphere") {
		t.Fatalf("expected a sphere primitive, got: %s", buf.String())
	}
}

func TestHistogramObserver_BinsByVelocityComponent(t *testing.T) {
	h := NewHistogramObserver("hist", 0, 1.0)
	h.EventUpdate(sim.Event{}, delta(0, sim.Vec{}, sim.Vec{X: 2.5}))
	h.EventUpdate(sim.Event{}, delta(1, sim.Vec{}, sim.Vec{X: 2.1}))

	snap := h.Snapshot()
	if snap[2] != 2 {
		t.Fatalf("expected bin 2 to have 2 samples, got %v", snap)
	}
}

func TestBoundedFanout_DropsObserverAfterBudget(t *testing.T) {
	h := NewHistogramObserver("hist", 0, 1.0)
	f := NewBoundedFanout("fanout", 1, h)

	f.EventUpdate(sim.Event{}, delta(0, sim.Vec{}, sim.Vec{X: 1}))
	f.EventUpdate(sim.Event{}, delta(0, sim.Vec{}, sim.Vec{X: 1}))

	snap := h.Snapshot()
	total := int64(0)
	for _, n := range snap {
		total += n
	}
	if total != 1 {
		t.Fatalf("expected exactly 1 sample to pass the budget, got %d", total)
	}
}

func TestBoundedFanout_UnboundedPassesEverything(t *testing.T) {
	h := NewHistogramObserver("hist", 0, 1.0)
	f := NewBoundedFanout("fanout", 0, h)

	for i := 0; i < 5; i++ {
		f.EventUpdate(sim.Event{}, delta(0, sim.Vec{}, sim.Vec{X: 1}))
	}

	snap := h.Snapshot()
	total := int64(0)
	for _, n := range snap {
		total += n
	}
	if total != 5 {
		t.Fatalf("expected all 5 samples to pass an unbounded fanout, got %d", total)
	}
}
