package sim

import "testing"

func TestFlatWall_GenerateAndRunEvent(t *testing.T) {
	props := NewPropertyStore()
	props.DefineConstant("e", 0.8)
	w, err := NewFlatWall("floor", AllRange1{}, props, Vec{}, Vec{Z: 1}, "e")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store := NewParticleStore([]Particle{{ID: 0, Velocity: Vec{Z: -1}}})
	f := &fakeLiouvillean{planeRoot: 2.5}

	ev := w.GenerateEvent(f, store, 0, 10)
	if ev.IsNone() || ev.Time != 12.5 || ev.Kind != EventWall {
		t.Fatalf("unexpected event: %v", ev)
	}

	data := w.RunEvent(f, store, 0, 12.5)
	if len(data.Deltas) != 1 {
		t.Fatalf("expected 1 delta, got %d", len(data.Deltas))
	}
	if data.Deltas[0].NewVelocity.Z != 0.8 {
		t.Fatalf("expected restitution-scaled bounce 0.8, got %v", data.Deltas[0].NewVelocity.Z)
	}
}

func TestFlatWall_UnresolvedRestitutionErrors(t *testing.T) {
	props := NewPropertyStore()
	if _, err := NewFlatWall("floor", AllRange1{}, props, Vec{}, Vec{Z: 1}, "nonexistent"); err == nil {
		t.Fatal("expected an error for an unresolved restitution property name")
	}
}

func TestFlatWall_NoRootIsNoEvent(t *testing.T) {
	props := NewPropertyStore()
	props.DefineConstant("e", 1.0)
	w, _ := NewFlatWall("floor", AllRange1{}, props, Vec{}, Vec{Z: 1}, "e")
	store := NewParticleStore([]Particle{{ID: 0}})
	f := &fakeLiouvillean{planeRoot: Infinity}

	if got := w.GenerateEvent(f, store, 0, 0); !got.IsNone() {
		t.Fatalf("expected NoEvent, got %v", got)
	}
}

func TestCylinderWall_GenerateEvent(t *testing.T) {
	props := NewPropertyStore()
	props.DefineConstant("e", 1.0)
	w, _ := NewCylinderWall("tube", AllRange1{}, props, Vec{}, Vec{Z: 1}, 1.0, "e")
	store := NewParticleStore([]Particle{{ID: 0}})
	f := &fakeLiouvillean{cylinderRoot: 3.0}

	ev := w.GenerateEvent(f, store, 0, 1)
	if ev.Time != 4.0 {
		t.Fatalf("expected t=4.0, got %v", ev.Time)
	}
}

func TestOscillatingPlate_GenerateEvent(t *testing.T) {
	props := NewPropertyStore()
	props.DefineConstant("e", 1.0)
	state := PlateState{Origin: Vec{}, Normal: Vec{X: 1}, Omega: 1, Sigma: 1}
	w, _ := NewOscillatingPlate("plate", AllRange1{}, props, state, "e")
	store := NewParticleStore([]Particle{{ID: 0}})
	f := &fakeLiouvillean{plateRoot: 0.7}

	ev := w.GenerateEvent(f, store, 0, 0)
	if ev.Time != 0.7 {
		t.Fatalf("expected t=0.7, got %v", ev.Time)
	}
}

func TestDoubleWall_PicksEarlierSide(t *testing.T) {
	props := NewPropertyStore()
	props.DefineConstant("e", 1.0)
	w, err := NewDoubleWall("slab", AllRange1{}, props, Vec{X: -1}, Vec{X: 1}, Vec{X: 1}, "e")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store := NewParticleStore([]Particle{{ID: 0}})

	// the fake returns the same planeRoot for both walls, so the two sides
	// tie at t=1.0 and exactly one of them must fire.
	f := &fakeLiouvillean{planeRoot: 1.0}
	ev := w.GenerateEvent(f, store, 0, 0)
	if ev.IsNone() || ev.Time != 1.0 {
		t.Fatalf("expected t=1.0 from either side (shared planeRoot), got %v", ev)
	}

	data := w.RunEvent(f, store, 0, 1.0)
	if len(data.Deltas) != 1 {
		t.Fatalf("expected exactly one delta from whichever side fired, got %d", len(data.Deltas))
	}
}

func TestFlatWall_IsInCellConservativeTrue(t *testing.T) {
	props := NewPropertyStore()
	props.DefineConstant("e", 1.0)
	w, _ := NewFlatWall("floor", AllRange1{}, props, Vec{}, Vec{Z: 1}, "e")
	if !w.IsInCell(Particle{}, Vec{X: -1000}, Vec{X: -999}) {
		t.Fatal("FlatWall.IsInCell must resolve conservative-true regardless of cell bounds")
	}
}
