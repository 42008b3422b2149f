package sim

import (
	"context"
	"testing"
)

// recordingObserver counts how many events it has seen and can be told to
// panic on its first call, exercising the driver's observer isolation.
type recordingObserver struct {
	name    string
	calls   int
	panicOn int // panics on this call number if > 0
}

func (o *recordingObserver) Name() string { return o.name }

func (o *recordingObserver) EventUpdate(ev Event, data EventData) {
	o.calls++
	if o.panicOn > 0 && o.calls == o.panicOn {
		panic("boom")
	}
}

func newTestSimulatorWithHardSphere(t *testing.T, sphereRoot float64) (*Simulator, *fakeLiouvillean) {
	t.Helper()
	props := NewPropertyStore()
	props.DefineConstant("d", 1.0)
	props.DefineConstant("e", 1.0)
	inter, err := NewHardSphere("core", AllPairs{}, props, "d", "e")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store := NewParticleStore([]Particle{
		{ID: 0, Velocity: Vec{X: 1}},
		{ID: 1, Velocity: Vec{X: -1}},
	})
	f := &fakeLiouvillean{sphereRoot: sphereRoot}
	sched := NewBoundedPEL()

	s := NewSimulator(store, props, f, sched, NoBC{}, nil)
	s.Interactions = []Interaction{inter}
	return s, f
}

func TestSimulator_RunExecutesExactlyMaxEvents(t *testing.T) {
	s, _ := newTestSimulatorWithHardSphere(t, 0.5)

	if err := s.Run(context.Background(), 1, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.EventCount != 1 {
		t.Fatalf("expected exactly 1 event, got %d", s.EventCount)
	}
}

func TestSimulator_RunStopsAtMaxTime(t *testing.T) {
	s, _ := newTestSimulatorWithHardSphere(t, 0.5)

	if err := s.Run(context.Background(), 0, 0.1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.EventCount != 0 {
		t.Fatalf("expected no events to fire before maxTime, got %d", s.EventCount)
	}
}

func TestSimulator_RunRespectsContextCancellation(t *testing.T) {
	s, _ := newTestSimulatorWithHardSphere(t, 0.5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Run(ctx, 0, 0); err == nil {
		t.Fatal("expected context.Canceled to propagate")
	}
}

func TestSimulator_ObserverReceivesCommittedEvents(t *testing.T) {
	s, _ := newTestSimulatorWithHardSphere(t, 0.5)
	obs := &recordingObserver{name: "rec"}
	s.AddObserver(obs)

	if err := s.Run(context.Background(), 1, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obs.calls != 1 {
		t.Fatalf("expected observer to see 1 event, got %d", obs.calls)
	}
}

func TestSimulator_PanickingObserverIsDisabledNotFatal(t *testing.T) {
	s, _ := newTestSimulatorWithHardSphere(t, 0.5)
	bad := &recordingObserver{name: "bad", panicOn: 1}
	good := &recordingObserver{name: "good"}
	s.AddObserver(bad)
	s.AddObserver(good)

	if err := s.Run(context.Background(), 2, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bad.calls != 1 {
		t.Fatalf("expected the panicking observer to be disabled after its first call, got %d calls", bad.calls)
	}
	if good.calls != 2 {
		t.Fatalf("expected the healthy observer to keep receiving events, got %d calls", good.calls)
	}
}

func TestSimulator_IsFresh_DetectsInterveningTouch(t *testing.T) {
	s, _ := newTestSimulatorWithHardSphere(t, 0.5)

	ev := Event{Time: 0.5, Primary: 0, Secondary: 1, HasSecondary: true}
	if !s.isFresh(ev) {
		t.Fatal("a freshly-stamped event (version 0 == version 0) must be fresh")
	}

	s.touch(1) // an intervening event changed particle 1's velocity
	if s.isFresh(ev) {
		t.Fatal("an event whose secondary participant was touched since generation must be stale")
	}
}

func TestSimulator_String(t *testing.T) {
	s, _ := newTestSimulatorWithHardSphere(t, 0.5)
	if s.String() == "" {
		t.Fatal("expected a non-empty diagnostic string")
	}
}
