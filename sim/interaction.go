// interaction.go
//
// Owns the Interaction contract: a pair generator that, for every particle
// pair selected by its Range2, proposes the next core-collision Event and
// later resolves it once the scheduler selects it as globally next
// (SPEC_FULL.md §4.2). Concrete interactions are closed, tagged structs
// rather than a C++-style virtual hierarchy, per the closed tagged variant
// design note: HardSphere, SquareWell and ParallelCubes are the only three
// and exhaustively switch on nothing, because each owns its own
// GenerateEvent/RunEvent pair directly.

package sim

import "fmt"

// Interaction is the pair-collision generator contract. Implementations
// must be safe to call concurrently for GenerateEvent across disjoint
// pairs; RunEvent is always called from the driver thread alone.
type Interaction interface {
	// Range reports which pairs this interaction governs.
	Range() Range2

	// GenerateEvent returns the earliest future core-collision candidate
	// for the pair (pID, qID), or NoEvent() if they are not currently
	// approaching under l. Both particles must already be synchronized to
	// globalClock by the caller.
	GenerateEvent(l Liouvillean, ps *ParticleStore, pID, qID int, globalClock float64, bc BoundaryCondition) Event

	// RunEvent resolves a previously-generated event for (pID, qID),
	// mutating their velocities in ps and returning the resulting delta.
	RunEvent(l Liouvillean, ps *ParticleStore, pID, qID int) EventData

	// Name identifies the interaction instance for diagnostics.
	Name() string
}

// pairDiameter computes the additive combined contact distance for a pair,
// the usual (sigma_p + sigma_q) / 2 mixing rule.
func pairDiameter(props *PropertyStore, h PropertyHandle, ps *ParticleStore, pID, qID int) float64 {
	dp := props.ValueByID(h, ps, pID)
	dq := props.ValueByID(h, ps, qID)
	return (dp + dq) / 2
}

// HardSphere is the elastic/restitutive hard-sphere pair interaction: the
// collision time is the translational sphere-sphere root, and the event
// resolves to an impulsive velocity exchange along the line of centers.
type HardSphere struct {
	range2         Range2
	diameterH      PropertyHandle
	restitutionH   PropertyHandle
	props          *PropertyStore
	name           string
}

// NewHardSphere binds diameterName and restitutionName against props,
// failing at construction (load time) rather than at first use if either
// name is unresolved -- the "fatal load error on unresolved property name"
// design decision.
func NewHardSphere(name string, r2 Range2, props *PropertyStore, diameterName, restitutionName string) (*HardSphere, error) {
	dh, err := props.Resolve(diameterName)
	if err != nil {
		return nil, fmt.Errorf("interaction %q: %w", name, err)
	}
	eh, err := props.Resolve(restitutionName)
	if err != nil {
		return nil, fmt.Errorf("interaction %q: %w", name, err)
	}
	return &HardSphere{range2: r2, diameterH: dh, restitutionH: eh, props: props, name: name}, nil
}

func (h *HardSphere) Range() Range2 { return h.range2 }
func (h *HardSphere) Name() string  { return h.name }

func (h *HardSphere) GenerateEvent(l Liouvillean, ps *ParticleStore, pID, qID int, globalClock float64, bc BoundaryCondition) Event {
	d := pairDiameter(h.props, h.diameterH, ps, pID, qID)
	t := l.SphereSphereInRoot(ps.Get(pID), ps.Get(qID), d, bc)
	if isInfiniteRoot(t) {
		return NoEvent()
	}
	return Event{Time: globalClock + t, Kind: EventCore, Primary: pID, Secondary: qID, HasSecondary: true, computedAt: globalClock}
}

func (h *HardSphere) RunEvent(l Liouvillean, ps *ParticleStore, pID, qID int) EventData {
	e := h.props.ValueByID(h.restitutionH, ps, pID)
	dp := h.props.ValueByID(h.diameterH, ps, pID)
	dq := h.props.ValueByID(h.diameterH, ps, qID)
	d := (dp + dq) / 2
	data := l.SmoothSpheresColl(ps, pID, qID, e, d*d)
	return EventData{Deltas: []ParticleDelta{data.P, data.Q}, EnergyDelta: data.EnergyDelta}
}

// SquareWell models a pair that interacts through a finite square-well
// potential: a hard core at Core and an attractive well extending out to
// WellWidth. Inside the well, particles free-flight exactly as under
// HardSphere. A crossing of the well boundary either captures (approaching
// from outside: well depth converts into kinetic energy, pulling the pair
// together) or, once captured, either escapes (receding with enough
// outward kinetic energy to pay for the depth) or bounces back into the
// well (receding without enough). A crossing of the core itself is always
// an ordinary elastic bounce -- the well potential has no effect at the
// core, only at its own boundary.
//
// No mutable per-pair state lives on the Interaction: GenerateEvent always
// proposes the earliest of the three possible next crossings (core
// approach, well capture, well escape), and RunEvent re-derives which one
// actually happened from the pair's separation at the event time.
type SquareWell struct {
	range2       Range2
	coreH        PropertyHandle
	wellWidthH   PropertyHandle
	wellDepthH   PropertyHandle
	props        *PropertyStore
	name         string
}

// NewSquareWell binds core diameter, well width (outer diameter) and well
// depth (energy) property names against props.
func NewSquareWell(name string, r2 Range2, props *PropertyStore, coreName, wellWidthName, wellDepthName string) (*SquareWell, error) {
	core, err := props.Resolve(coreName)
	if err != nil {
		return nil, fmt.Errorf("interaction %q: %w", name, err)
	}
	width, err := props.Resolve(wellWidthName)
	if err != nil {
		return nil, fmt.Errorf("interaction %q: %w", name, err)
	}
	depth, err := props.Resolve(wellDepthName)
	if err != nil {
		return nil, fmt.Errorf("interaction %q: %w", name, err)
	}
	return &SquareWell{range2: r2, coreH: core, wellWidthH: width, wellDepthH: depth, props: props, name: name}, nil
}

func (s *SquareWell) Range() Range2 { return s.range2 }
func (s *SquareWell) Name() string  { return s.name }

func (s *SquareWell) GenerateEvent(l Liouvillean, ps *ParticleStore, pID, qID int, globalClock float64, bc BoundaryCondition) Event {
	p, q := ps.Get(pID), ps.Get(qID)
	core := pairDiameter(s.props, s.coreH, ps, pID, qID)
	width := pairDiameter(s.props, s.wellWidthH, ps, pID, qID)

	// Three candidate crossings: the core, approached from inside the
	// well; the well boundary, approached from outside (capture); and the
	// well boundary, departed from inside (escape). SphereSphereInRoot
	// alone cannot see the third -- it only finds roots for a shrinking
	// separation -- so an already-captured, receding pair needs the
	// outbound root-finder instead.
	tCore := l.SphereSphereInRoot(p, q, core, bc)
	tCapture := l.SphereSphereInRoot(p, q, width, bc)
	tEscape := l.SphereSphereOutRoot(p, q, width, bc)

	t := tCore
	if tCapture < t {
		t = tCapture
	}
	if tEscape < t {
		t = tEscape
	}
	if isInfiniteRoot(t) {
		return NoEvent()
	}
	return Event{Time: globalClock + t, Kind: EventCore, Primary: pID, Secondary: qID, HasSecondary: true, computedAt: globalClock}
}

func (s *SquareWell) RunEvent(l Liouvillean, ps *ParticleStore, pID, qID int) EventData {
	core := pairDiameter(s.props, s.coreH, ps, pID, qID)
	width := pairDiameter(s.props, s.wellWidthH, ps, pID, qID)
	depth := s.props.ValueByID(s.wellDepthH, ps, pID)

	p, q := ps.Get(pID), ps.Get(qID)
	rij := Vec{X: q.Position.X - p.Position.X, Y: q.Position.Y - p.Position.Y, Z: q.Position.Z - p.Position.Z}

	// The event time was computed as an exact analytic root, so the
	// current separation is (within floating-point noise) either Core or
	// WellWidth -- never anything between. The midpoint of their squares
	// is the cheapest way to tell which one without a magic tolerance.
	if SqNorm(rij) < (core*core+width*width)/2 {
		data := l.SmoothSpheresColl(ps, pID, qID, 1.0, core*core)
		return EventData{Deltas: []ParticleDelta{data.P, data.Q}, EnergyDelta: data.EnergyDelta}
	}

	data, _ := l.WellEventColl(ps, pID, qID, depth)
	return EventData{Deltas: []ParticleDelta{data.P, data.Q}, EnergyDelta: data.EnergyDelta}
}

// ParallelCubes is the cube-shaped analogue of HardSphere: rigid bodies
// that remain mutually parallel by construction, colliding face-on rather
// than point-on.
type ParallelCubes struct {
	range2       Range2
	widthH       PropertyHandle
	restitutionH PropertyHandle
	props        *PropertyStore
	name         string
}

// NewParallelCubes binds the side-length and restitution property names.
func NewParallelCubes(name string, r2 Range2, props *PropertyStore, widthName, restitutionName string) (*ParallelCubes, error) {
	wh, err := props.Resolve(widthName)
	if err != nil {
		return nil, fmt.Errorf("interaction %q: %w", name, err)
	}
	eh, err := props.Resolve(restitutionName)
	if err != nil {
		return nil, fmt.Errorf("interaction %q: %w", name, err)
	}
	return &ParallelCubes{range2: r2, widthH: wh, restitutionH: eh, props: props, name: name}, nil
}

func (c *ParallelCubes) Range() Range2 { return c.range2 }
func (c *ParallelCubes) Name() string  { return c.name }

func (c *ParallelCubes) GenerateEvent(l Liouvillean, ps *ParticleStore, pID, qID int, globalClock float64, bc BoundaryCondition) Event {
	d := pairDiameter(c.props, c.widthH, ps, pID, qID)
	t := l.CubeCubeInRoot(ps.Get(pID), ps.Get(qID), d, bc)
	if isInfiniteRoot(t) {
		return NoEvent()
	}
	return Event{Time: globalClock + t, Kind: EventCore, Primary: pID, Secondary: qID, HasSecondary: true, computedAt: globalClock}
}

func (c *ParallelCubes) RunEvent(l Liouvillean, ps *ParticleStore, pID, qID int) EventData {
	e := c.props.ValueByID(c.restitutionH, ps, pID)
	d := pairDiameter(c.props, c.widthH, ps, pID, qID)
	data := l.ParallelCubeColl(ps, pID, qID, e, d, NoBC{})
	return EventData{Deltas: []ParticleDelta{data.P, data.Q}, EnergyDelta: data.EnergyDelta}
}

func isInfiniteRoot(t float64) bool {
	return t == Infinity
}
