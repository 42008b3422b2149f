// Package xmlconfig loads and saves the XML configuration format
// (SPEC_FULL.md §6.1) describing a simulation's particles, species
// properties, and generator set. encoding/xml is used deliberately: no
// third-party XML library appears anywhere in the retrieved example
// corpus, and the stdlib decoder/encoder pair is a complete, idiomatic fit
// for a config format this shallow.
package xmlconfig

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/tomgreen66/DynamO/sim"
)

// Document is the root of the XML configuration schema.
type Document struct {
	XMLName xml.Name       `xml:"DynamO"`
	Run     RunElement     `xml:"Run"`
	Boundary BoundaryElement `xml:"Boundary"`
	Species []SpeciesElement `xml:"Species>Species"`
	Particles []ParticleElement `xml:"Particles>Particle"`
	Interactions []GeneratorElement `xml:"Interactions>Interaction"`
	Locals       []GeneratorElement `xml:"Locals>Local"`
	Globals      []GeneratorElement `xml:"Globals>Global"`
}

// RunElement carries the run-termination and reproducibility settings.
type RunElement struct {
	Seed      int64   `xml:"Seed,attr"`
	MaxEvents int64   `xml:"MaxEvents,attr"`
	MaxTime   float64 `xml:"MaxTime,attr"`
	Dynamics  string  `xml:"Dynamics,attr"`
	Scheduler string  `xml:"Scheduler,attr"`
}

// BoundaryElement carries the simulation cell's geometry.
type BoundaryElement struct {
	Kind      string  `xml:"Kind,attr"`
	Lx        float64 `xml:"Lx,attr"`
	Ly        float64 `xml:"Ly,attr"`
	Lz        float64 `xml:"Lz,attr"`
	ShearRate float64 `xml:"ShearRate,attr"`
}

// SpeciesElement defines a named species and the per-species constant
// property values particles of that species resolve to.
type SpeciesElement struct {
	Name       string              `xml:"Name,attr"`
	Properties []PropertyAttribute `xml:"Property"`
}

// PropertyAttribute is one name/value pair within a Species.
type PropertyAttribute struct {
	Name  string  `xml:"Name,attr"`
	Value float64 `xml:"Value,attr"`
}

// ParticleElement is one particle's initial synchronized state.
type ParticleElement struct {
	ID              int     `xml:"ID,attr"`
	Species         string  `xml:"Species,attr"`
	Position        Vec3    `xml:"P"`
	Velocity        Vec3    `xml:"V"`
	HasOrientation  bool    `xml:"HasOrientation,attr"`
	AngularVelocity Vec3    `xml:"W"`
}

// Vec3 is the XML element form of sim.Vec.
type Vec3 struct {
	X float64 `xml:"x,attr"`
	Y float64 `xml:"y,attr"`
	Z float64 `xml:"z,attr"`
}

// ToVec converts to sim.Vec.
func (v Vec3) ToVec() sim.Vec { return sim.Vec{X: v.X, Y: v.Y, Z: v.Z} }

// FromVec converts from sim.Vec.
func FromVec(v sim.Vec) Vec3 { return Vec3{X: v.X, Y: v.Y, Z: v.Z} }

// GeneratorElement is the generic schema node for one Interaction, Local
// or Global: a Type tag selecting the concrete variant, a Range
// description, and a bag of named attributes the variant's constructor
// interprets (e.g. "Diameter", "Restitution" property names, "Origin",
// "Normal" for a FlatWall).
type GeneratorElement struct {
	Type       string              `xml:"Type,attr"`
	Name       string              `xml:"Name,attr"`
	Range      RangeElement        `xml:"Range"`
	Attributes []PropertyRefAttr   `xml:"Attr"`
}

// RangeElement describes a Range1/Range2 selection.
type RangeElement struct {
	Kind     string `xml:"Kind,attr"` // "all", "none", "list", "interval", "intrachains"
	Start    int    `xml:"Start,attr"`
	End      int    `xml:"End,attr"`
	Interval int    `xml:"Interval,attr"`
	IDs      string `xml:"IDs,attr"` // comma-separated for "list"
}

// PropertyRefAttr is a named attribute whose value is either a literal
// string (property name reference) or numeric value, carried as text for
// the loader to interpret per-attribute.
type PropertyRefAttr struct {
	Name  string `xml:"Name,attr"`
	Value string `xml:"Value,attr"`
}

// LoadError wraps an error encountered while loading or validating a
// configuration document, carrying enough context to locate the problem
// without re-parsing: the top-level section is always named.
type LoadError struct {
	Section string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("xmlconfig: %s: %v", e.Section, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load decodes a Document from r.
func Load(r io.Reader) (*Document, error) {
	var doc Document
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, &LoadError{Section: "document", Err: err}
	}
	return &doc, nil
}

// LoadFile opens path and decodes a Document from it.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Section: "open", Err: err}
	}
	defer f.Close()
	return Load(f)
}

// Save encodes doc to w as indented XML with a header.
func Save(w io.Writer, doc *Document) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return &LoadError{Section: "header", Err: err}
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return &LoadError{Section: "document", Err: err}
	}
	return nil
}

// SaveFile creates (or truncates) path and encodes doc into it.
func SaveFile(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return &LoadError{Section: "create", Err: err}
	}
	defer f.Close()
	return Save(f, doc)
}
