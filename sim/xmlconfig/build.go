package xmlconfig

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tomgreen66/DynamO/sim"
)

// Build resolves a parsed Document into a ready-to-run sim.Simulator. Any
// unresolved property name, unknown generator Type, or malformed Range
// produces a *LoadError naming the offending section rather than a panic,
// per the "fatal load error on unresolved property name" design decision.
func Build(doc *Document) (*sim.Simulator, error) {
	speciesIndex := make(map[string]int, len(doc.Species))
	for i, sp := range doc.Species {
		speciesIndex[sp.Name] = i
	}

	props, err := buildProperties(doc)
	if err != nil {
		return nil, err
	}

	particles, err := buildParticles(doc, speciesIndex)
	if err != nil {
		return nil, err
	}
	store := sim.NewParticleStore(particles)

	dynamics, err := sim.NewLiouvillean(doc.Run.Dynamics)
	if err != nil {
		return nil, &LoadError{Section: "Run.Dynamics", Err: err}
	}
	scheduler, err := sim.NewScheduler(doc.Run.Scheduler)
	if err != nil {
		return nil, &LoadError{Section: "Run.Scheduler", Err: err}
	}

	bc := sim.BoundaryConfig{
		Kind: doc.Boundary.Kind, Lx: doc.Boundary.Lx, Ly: doc.Boundary.Ly, Lz: doc.Boundary.Lz,
		ShearRate: doc.Boundary.ShearRate,
	}.Build(0)

	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(doc.Run.Seed))

	s := sim.NewSimulator(store, props, dynamics, scheduler, bc, rng)

	for _, el := range doc.Interactions {
		inter, err := buildInteraction(el, props, speciesIndex)
		if err != nil {
			return nil, err
		}
		s.Interactions = append(s.Interactions, inter)
	}
	for _, el := range doc.Locals {
		loc, err := buildLocal(el, props)
		if err != nil {
			return nil, err
		}
		s.Locals = append(s.Locals, loc)
	}
	for i, el := range doc.Globals {
		g, err := buildGlobal(el, i)
		if err != nil {
			return nil, err
		}
		s.Globals = append(s.Globals, g)
	}

	return s, nil
}

// buildProperties collects every property name referenced by any Species
// and registers it as a per-species property, defaulting a species that
// omits the name to 0 rather than treating the omission as an error --
// only a property referenced by a generator but never resolvable at all
// is fatal (PropertyStore.Resolve, called from each generator's
// constructor).
func buildProperties(doc *Document) (*sim.PropertyStore, error) {
	names := make([]string, 0)
	seen := make(map[string]bool)
	for _, sp := range doc.Species {
		for _, attr := range sp.Properties {
			if seen[attr.Name] {
				continue
			}
			seen[attr.Name] = true
			names = append(names, attr.Name)
		}
	}

	props := sim.NewPropertyStore()
	for _, name := range names {
		values := make([]float64, len(doc.Species))
		for i, sp := range doc.Species {
			for _, attr := range sp.Properties {
				if attr.Name == name {
					values[i] = attr.Value
				}
			}
		}
		props.DefinePerSpecies(name, values)
	}
	return props, nil
}

func buildParticles(doc *Document, speciesIndex map[string]int) ([]sim.Particle, error) {
	particles := make([]sim.Particle, len(doc.Particles))
	for i, pe := range doc.Particles {
		idx, ok := speciesIndex[pe.Species]
		if !ok {
			return nil, &LoadError{Section: "Particles", Err: fmt.Errorf("particle %d references unknown species %q", pe.ID, pe.Species)}
		}
		particles[i] = sim.Particle{
			ID:              pe.ID,
			Position:        pe.Position.ToVec(),
			Velocity:        pe.Velocity.ToVec(),
			HasOrientation:  pe.HasOrientation,
			AngularVelocity: pe.AngularVelocity.ToVec(),
			Species:         idx,
		}
	}
	return particles, nil
}

func buildRange1(el RangeElement) (sim.Range1, error) {
	switch el.Kind {
	case "", "all":
		return sim.AllRange1{}, nil
	case "none":
		return sim.NoneRange1{}, nil
	case "interval":
		return sim.Interval{Start: el.Start, End: el.End}, nil
	case "list":
		ids, err := parseIDList(el.IDs)
		if err != nil {
			return nil, err
		}
		return sim.NewListRange1(ids), nil
	default:
		return nil, fmt.Errorf("unknown Range1 kind %q", el.Kind)
	}
}

func buildRange2(el RangeElement) (sim.Range2, error) {
	switch el.Kind {
	case "", "all":
		return sim.AllPairs{}, nil
	case "none":
		return sim.NonePairs{}, nil
	case "intrachains":
		return sim.IntraChains{Range1ID: el.Start, Range2ID: el.End, Interval: el.Interval}, nil
	default:
		return nil, fmt.Errorf("unknown Range2 kind %q", el.Kind)
	}
}

func parseIDList(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid ID %q in list: %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func attr(el GeneratorElement, name string) string {
	for _, a := range el.Attributes {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

func attrVec(el GeneratorElement, prefix string) sim.Vec {
	x, _ := strconv.ParseFloat(attr(el, prefix+"X"), 64)
	y, _ := strconv.ParseFloat(attr(el, prefix+"Y"), 64)
	z, _ := strconv.ParseFloat(attr(el, prefix+"Z"), 64)
	return sim.Vec{X: x, Y: y, Z: z}
}

func attrFloat(el GeneratorElement, name string) float64 {
	v, _ := strconv.ParseFloat(attr(el, name), 64)
	return v
}

func buildInteraction(el GeneratorElement, props *sim.PropertyStore, speciesIndex map[string]int) (sim.Interaction, error) {
	r2, err := buildRange2(el.Range)
	if err != nil {
		return nil, &LoadError{Section: "Interactions/" + el.Name, Err: err}
	}
	switch el.Type {
	case "HardSphere":
		inter, err := sim.NewHardSphere(el.Name, r2, props, attr(el, "Diameter"), attr(el, "Restitution"))
		if err != nil {
			return nil, &LoadError{Section: "Interactions/" + el.Name, Err: err}
		}
		return inter, nil
	case "SquareWell":
		inter, err := sim.NewSquareWell(el.Name, r2, props, attr(el, "Core"), attr(el, "WellWidth"), attr(el, "WellDepth"))
		if err != nil {
			return nil, &LoadError{Section: "Interactions/" + el.Name, Err: err}
		}
		return inter, nil
	case "ParallelCubes":
		inter, err := sim.NewParallelCubes(el.Name, r2, props, attr(el, "Width"), attr(el, "Restitution"))
		if err != nil {
			return nil, &LoadError{Section: "Interactions/" + el.Name, Err: err}
		}
		return inter, nil
	default:
		return nil, &LoadError{Section: "Interactions/" + el.Name, Err: fmt.Errorf("unknown Interaction type %q", el.Type)}
	}
}

func buildLocal(el GeneratorElement, props *sim.PropertyStore) (sim.Local, error) {
	r1, err := buildRange1(el.Range)
	if err != nil {
		return nil, &LoadError{Section: "Locals/" + el.Name, Err: err}
	}
	switch el.Type {
	case "FlatWall":
		loc, err := sim.NewFlatWall(el.Name, r1, props, attrVec(el, "Origin"), attrVec(el, "Normal"), attr(el, "Restitution"))
		if err != nil {
			return nil, &LoadError{Section: "Locals/" + el.Name, Err: err}
		}
		return loc, nil
	case "CylinderWall":
		loc, err := sim.NewCylinderWall(el.Name, r1, props, attrVec(el, "Origin"), attrVec(el, "Axis"), attrFloat(el, "Radius"), attr(el, "Restitution"))
		if err != nil {
			return nil, &LoadError{Section: "Locals/" + el.Name, Err: err}
		}
		return loc, nil
	case "OscillatingPlate":
		state := sim.PlateState{
			Origin: attrVec(el, "Origin"), Normal: attrVec(el, "Normal"),
			Omega: attrFloat(el, "Omega"), Sigma: attrFloat(el, "Sigma"), Timeshift: attrFloat(el, "Timeshift"),
		}
		loc, err := sim.NewOscillatingPlate(el.Name, r1, props, state, attr(el, "Restitution"))
		if err != nil {
			return nil, &LoadError{Section: "Locals/" + el.Name, Err: err}
		}
		return loc, nil
	case "DoubleWall":
		loc, err := sim.NewDoubleWall(el.Name, r1, props, attrVec(el, "OriginA"), attrVec(el, "OriginB"), attrVec(el, "Normal"), attr(el, "Restitution"))
		if err != nil {
			return nil, &LoadError{Section: "Locals/" + el.Name, Err: err}
		}
		return loc, nil
	default:
		return nil, &LoadError{Section: "Locals/" + el.Name, Err: fmt.Errorf("unknown Local type %q", el.Type)}
	}
}

func buildGlobal(el GeneratorElement, index int) (sim.Global, error) {
	switch el.Type {
	case "CellNeighbourList":
		return sim.NewCellNeighbourList(attrFloat(el, "CellSize"), index), nil
	case "AndersenThermostat":
		return sim.NewAndersenThermostat(attrFloat(el, "Temperature"), attrFloat(el, "CollisionFrequency"), index), nil
	default:
		return nil, &LoadError{Section: "Globals/" + el.Name, Err: fmt.Errorf("unknown Global type %q", el.Type)}
	}
}
