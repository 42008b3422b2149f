package observer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tomgreen66/DynamO/sim"
)

// Bundle holds a reusable named set of observer configurations, loadable
// from a YAML file independent of the XML simulation config. A nil pointer
// field means "not set in YAML": Build attaches no observer for it. Within
// a section that is set, zero-valued fields take Build's defaults.
type Bundle struct {
	EnergyMomentum *EnergyMomentumSpec `yaml:"energy_momentum"`
	Histogram      *HistogramSpec      `yaml:"histogram"`
	PovRay         *PovRaySpec         `yaml:"povray"`
	Snapshot       *SnapshotSpec       `yaml:"snapshot"`
}

// EnergyMomentumSpec configures an EnergyMomentumTracker.
type EnergyMomentumSpec struct {
	Name string `yaml:"name"`
}

// HistogramSpec configures a HistogramObserver.
type HistogramSpec struct {
	Name     string  `yaml:"name"`
	Axis     string  `yaml:"axis"` // "x", "y", or "z"
	BinWidth float64 `yaml:"bin_width"`
	Budget   int64   `yaml:"budget"` // 0 = unbounded
}

// PovRaySpec configures a PovRayDumper.
type PovRaySpec struct {
	Name     string  `yaml:"name"`
	Interval int64   `yaml:"interval"`
	Radius   float64 `yaml:"radius"`
}

// SnapshotSpec configures a ConfigSnapshotWriter.
type SnapshotSpec struct {
	Name     string `yaml:"name"`
	Interval int64  `yaml:"interval"`
	Path     string `yaml:"path"` // "" writes to stdout
}

// ValidAxes is the set of recognized HistogramSpec axis names.
var ValidAxes = map[string]bool{"": true, "x": true, "y": true, "z": true}

// LoadBundle reads and parses a YAML observer bundle file.
func LoadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading observer bundle: %w", err)
	}
	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing observer bundle: %w", err)
	}
	return &b, nil
}

// Validate checks that every configured spec's field values are within
// range, so a typo'd bundle fails fast at load time rather than mid-run.
func (b *Bundle) Validate() error {
	if b.Histogram != nil {
		if !ValidAxes[b.Histogram.Axis] {
			return fmt.Errorf("unknown histogram axis %q", b.Histogram.Axis)
		}
		if b.Histogram.BinWidth < 0 {
			return fmt.Errorf("bin_width must be non-negative, got %v", b.Histogram.BinWidth)
		}
		if b.Histogram.Budget < 0 {
			return fmt.Errorf("budget must be non-negative, got %v", b.Histogram.Budget)
		}
	}
	if b.PovRay != nil {
		if b.PovRay.Interval < 0 {
			return fmt.Errorf("povray interval must be non-negative, got %v", b.PovRay.Interval)
		}
		if b.PovRay.Radius < 0 {
			return fmt.Errorf("povray radius must be non-negative, got %v", b.PovRay.Radius)
		}
	}
	if b.Snapshot != nil && b.Snapshot.Interval < 0 {
		return fmt.Errorf("snapshot interval must be non-negative, got %v", b.Snapshot.Interval)
	}
	return nil
}

func axisIndex(axis string) int {
	switch axis {
	case "y":
		return 1
	case "z":
		return 2
	default:
		return 0
	}
}

// Build instantiates every observer named in the bundle against s's
// particle store,
// wrapping each in a BoundedFanout when its spec declares a nonzero
// budget. Call Validate first; Build does not re-check ranges.
func (b *Bundle) Build(s *sim.Simulator) ([]sim.Observer, error) {
	var out []sim.Observer

	if b.EnergyMomentum != nil {
		name := b.EnergyMomentum.Name
		if name == "" {
			name = "energy-momentum"
		}
		out = append(out, NewEnergyMomentumTracker(name))
	}
	if b.Histogram != nil {
		name := b.Histogram.Name
		if name == "" {
			name = "histogram"
		}
		binWidth := b.Histogram.BinWidth
		if binWidth == 0 {
			binWidth = 0.1
		}
		var ob sim.Observer = NewHistogramObserver(name, axisIndex(b.Histogram.Axis), binWidth)
		if b.Histogram.Budget > 0 {
			ob = NewBoundedFanout(name, b.Histogram.Budget, ob)
		}
		out = append(out, ob)
	}
	if b.PovRay != nil {
		name := b.PovRay.Name
		if name == "" {
			name = "povray"
		}
		interval := b.PovRay.Interval
		if interval == 0 {
			interval = 1000
		}
		radius := b.PovRay.Radius
		if radius == 0 {
			radius = 0.5
		}
		out = append(out, NewPovRayDumper(name, os.Stdout, interval, radius, s.Particles))
	}
	if b.Snapshot != nil {
		name := b.Snapshot.Name
		if name == "" {
			name = "snapshot"
		}
		interval := b.Snapshot.Interval
		if interval == 0 {
			interval = 1000
		}
		w := os.Stdout
		if b.Snapshot.Path != "" {
			f, err := os.Create(b.Snapshot.Path)
			if err != nil {
				return nil, fmt.Errorf("opening snapshot output %q: %w", b.Snapshot.Path, err)
			}
			w = f
		}
		out = append(out, NewConfigSnapshotWriter(name, w, interval, s.Particles))
	}

	return out, nil
}
