package sim

import "testing"

func TestPairDiameter_AdditiveMixing(t *testing.T) {
	props := NewPropertyStore()
	h := props.DefinePerSpecies("diameter", []float64{1.0, 3.0})
	store := NewParticleStore([]Particle{{ID: 0, Species: 0}, {ID: 1, Species: 1}})

	if got := pairDiameter(props, h, store, 0, 1); got != 2.0 {
		t.Fatalf("expected (1+3)/2=2.0, got %v", got)
	}
}

func TestHardSphere_GenerateAndRunEvent(t *testing.T) {
	props := NewPropertyStore()
	props.DefineConstant("d", 1.0)
	props.DefineConstant("e", 1.0)
	h, err := NewHardSphere("core", AllPairs{}, props, "d", "e")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store := NewParticleStore([]Particle{
		{ID: 0, Velocity: Vec{X: 1}},
		{ID: 1, Velocity: Vec{X: -1}},
	})
	f := &fakeLiouvillean{sphereRoot: 0.5}

	ev := h.GenerateEvent(f, store, 0, 1, 10, NoBC{})
	if ev.IsNone() || ev.Time != 10.5 || !ev.HasSecondary || ev.Secondary != 1 {
		t.Fatalf("unexpected event: %v", ev)
	}

	data := h.RunEvent(f, store, 0, 1)
	if len(data.Deltas) != 2 {
		t.Fatalf("expected 2 deltas, got %d", len(data.Deltas))
	}
}

func TestHardSphere_UnresolvedPropertyErrors(t *testing.T) {
	props := NewPropertyStore()
	props.DefineConstant("d", 1.0)
	if _, err := NewHardSphere("core", AllPairs{}, props, "d", "missing-e"); err == nil {
		t.Fatal("expected an error for an unresolved restitution property name")
	}
}

func TestHardSphere_NoRootIsNoEvent(t *testing.T) {
	props := NewPropertyStore()
	props.DefineConstant("d", 1.0)
	props.DefineConstant("e", 1.0)
	h, _ := NewHardSphere("core", AllPairs{}, props, "d", "e")
	store := NewParticleStore([]Particle{{ID: 0}, {ID: 1}})
	f := &fakeLiouvillean{sphereRoot: Infinity}

	if got := h.GenerateEvent(f, store, 0, 1, 0, NoBC{}); !got.IsNone() {
		t.Fatalf("expected NoEvent, got %v", got)
	}
}

func newSquareWellFixture(t *testing.T) (*SquareWell, *PropertyStore) {
	t.Helper()
	props := NewPropertyStore()
	props.DefineConstant("core", 1.0)
	props.DefineConstant("width", 2.0)
	props.DefineConstant("depth", 0.5)
	s, err := NewSquareWell("well", AllPairs{}, props, "core", "width", "depth")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s, props
}

func TestSquareWell_GenerateEvent_PicksEarliestOfCoreCaptureEscape(t *testing.T) {
	s, _ := newSquareWellFixture(t)
	store := NewParticleStore([]Particle{{ID: 0}, {ID: 1}})

	// tCore and tCapture both route through SphereSphereInRoot (sphereRoot
	// field); tEscape routes through the separate outbound root-finder and
	// is the smallest here, so GenerateEvent must pick it rather than
	// defaulting to the inbound roots alone.
	f := &fakeLiouvillean{sphereRoot: 0.9, outRoot: 0.2}
	ev := s.GenerateEvent(f, store, 0, 1, 10, NoBC{})
	if ev.IsNone() || ev.Time != 10.2 {
		t.Fatalf("expected t=10.2 (the escape root), got %v", ev)
	}
}

func TestSquareWell_GenerateEvent_NoRootInEitherDirectionIsNoEvent(t *testing.T) {
	s, _ := newSquareWellFixture(t)
	store := NewParticleStore([]Particle{{ID: 0}, {ID: 1}})
	f := &fakeLiouvillean{sphereRoot: Infinity, outRoot: Infinity}

	if got := s.GenerateEvent(f, store, 0, 1, 0, NoBC{}); !got.IsNone() {
		t.Fatalf("expected NoEvent, got %v", got)
	}
}

// squareWellPair builds a pair separated along x by exactly sep, approaching
// (closing) or receding (opening) at the given relative speed.
func squareWellPair(sep, closingSpeed float64) *ParticleStore {
	return NewParticleStore([]Particle{
		{ID: 0, Position: Vec{X: -sep / 2}, Velocity: Vec{X: closingSpeed / 2}},
		{ID: 1, Position: Vec{X: sep / 2}, Velocity: Vec{X: -closingSpeed / 2}},
	})
}

func TestSquareWell_RunEvent_CoreCrossingIsElasticBounce(t *testing.T) {
	s, _ := newSquareWellFixture(t)
	// Separation is exactly the core diameter (1.0), well inside the
	// midpoint between core^2 and width^2 -- RunEvent must dispatch to the
	// hard-core branch, not the well-crossing one.
	store := squareWellPair(1.0, 1.0) // closing at relative speed 1
	f := &fakeLiouvillean{}

	data := s.RunEvent(f, store, 0, 1)
	if len(data.Deltas) != 2 {
		t.Fatalf("expected 2 deltas, got %d", len(data.Deltas))
	}
	if data.EnergyDelta != 0 {
		t.Fatalf("expected an elastic core bounce to conserve energy, got delta %v", data.EnergyDelta)
	}
}

func TestSquareWell_RunEvent_CaptureAddsWellDepthToKineticEnergy(t *testing.T) {
	s, _ := newSquareWellFixture(t)
	const depth = 0.5 // matches the "depth" constant in newSquareWellFixture
	// Separation at the well boundary (2.0), approaching.
	store := squareWellPair(2.0, 1.0)
	f := &fakeLiouvillean{}

	data := s.RunEvent(f, store, 0, 1)
	if !NearlyEqual(data.EnergyDelta, depth, 1e-9) {
		t.Fatalf("expected capture to add the well depth %v to kinetic energy, got delta %v", depth, data.EnergyDelta)
	}
}

func TestSquareWell_RunEvent_EscapeSubtractsWellDepthWhenEnoughEnergy(t *testing.T) {
	s, _ := newSquareWellFixture(t)
	// Receding at the well boundary with plenty of outward kinetic energy
	// (0.5*mu*v^2 = 0.5*0.5*4 = 1.0 > depth 0.5) to pay the depth.
	store := squareWellPair(2.0, -2.0)
	f := &fakeLiouvillean{}

	data := s.RunEvent(f, store, 0, 1)
	if !NearlyEqual(data.EnergyDelta, -0.5, 1e-9) {
		t.Fatalf("expected escape to subtract the well depth 0.5 from kinetic energy, got delta %v", data.EnergyDelta)
	}
}

func TestSquareWell_RunEvent_BouncesBackWhenNotEnoughEnergyToEscape(t *testing.T) {
	s, _ := newSquareWellFixture(t)
	// Receding at the well boundary with too little outward kinetic energy
	// (0.5*mu*v^2 = 0.5*0.5*0.01 = 0.0025 < depth 0.5) to escape.
	store := squareWellPair(2.0, -0.1)
	before := store.Get(1).Velocity.X
	f := &fakeLiouvillean{}

	data := s.RunEvent(f, store, 0, 1)
	if data.EnergyDelta != 0 {
		t.Fatalf("expected a failed escape to bounce elastically (no energy change), got delta %v", data.EnergyDelta)
	}
	after := store.Get(1).Velocity.X
	if after != -before {
		t.Fatalf("expected the outward velocity to reverse on bounce-back, got %v -> %v", before, after)
	}
}

func TestParallelCubes_GenerateAndRunEvent(t *testing.T) {
	props := NewPropertyStore()
	props.DefineConstant("width", 1.0)
	props.DefineConstant("e", 1.0)
	c, err := NewParallelCubes("cubes", AllPairs{}, props, "width", "e")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store := NewParticleStore([]Particle{{ID: 0}, {ID: 1}})
	f := &fakeLiouvillean{cubeRoot: 0.2}

	ev := c.GenerateEvent(f, store, 0, 1, 0, NoBC{})
	if ev.IsNone() || ev.Time != 0.2 {
		t.Fatalf("expected t=0.2, got %v", ev)
	}

	data := c.RunEvent(f, store, 0, 1)
	if len(data.Deltas) != 2 {
		t.Fatalf("expected 2 deltas, got %d", len(data.Deltas))
	}
}

func TestIsInfiniteRoot(t *testing.T) {
	if !isInfiniteRoot(Infinity) {
		t.Fatal("expected Infinity to be infinite")
	}
	if isInfiniteRoot(1.0) {
		t.Fatal("expected 1.0 to not be infinite")
	}
}
