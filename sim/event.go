// event.go
//
// Defines the Event tuple that drives the simulation and the small tagged
// taxonomy of event kinds, per SPEC_FULL.md §3.

package sim

import (
	"fmt"
	"math"
)

// Infinity is the sentinel "no event" time. A generator that finds no root
// within a reasonable horizon returns an Event with Time == Infinity and
// Kind == EventNone; this is never an error (SPEC_FULL.md §7).
var Infinity = math.Inf(1)

// BackoffTolerance records a relative back-off of 1e-12. No root-finder
// reads it: the sim/liouvillean root-finders snap a root no more than
// 1e-9 (absolute) before the current clock to 0 and discard earlier ones.
const BackoffTolerance = 1e-12

// EventKind tags the category of an Event.
type EventKind int

const (
	EventNone EventKind = iota
	EventCore           // pair (Interaction) collision
	EventWall           // Local obstacle collision
	EventCell           // Global cell-neighbour-list boundary crossing
	EventVirtual        // Global periodic/system event (e.g. thermostat)
	EventShutdown       // terminal event requested by the driver
)

func (k EventKind) String() string {
	switch k {
	case EventNone:
		return "NONE"
	case EventCore:
		return "CORE"
	case EventWall:
		return "WALL"
	case EventCell:
		return "CELL"
	case EventVirtual:
		return "VIRTUAL"
	case EventShutdown:
		return "SHUTDOWN"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// GeneratorFamily identifies which kind of generator owns a SourceHandle.
type GeneratorFamily int

const (
	FamilyInteraction GeneratorFamily = iota
	FamilyLocal
	FamilyGlobal
)

func (f GeneratorFamily) String() string {
	switch f {
	case FamilyInteraction:
		return "Interaction"
	case FamilyLocal:
		return "Local"
	case FamilyGlobal:
		return "Global"
	default:
		return fmt.Sprintf("GeneratorFamily(%d)", int(f))
	}
}

// SourceHandle identifies the specific generator instance that produced an
// Event, so the driver can re-resolve (RunEvent) or invalidate
// (FullUpdate) events without a type switch over every generator kind.
type SourceHandle struct {
	Family GeneratorFamily
	Index  int
}

// Event is the (t, kind, primary, secondary, source) tuple of SPEC_FULL.md
// §3. Secondary is only meaningful when HasSecondary is true (pair events).
type Event struct {
	Time         float64
	Kind         EventKind
	Primary      int
	Secondary    int
	HasSecondary bool
	Source       SourceHandle

	// computedAt records the simulation time at which this event was
	// generated. Freshness is not judged from it: the driver compares the
	// version counters below.
	computedAt float64

	// primaryVersion/secondaryVersion snapshot the driver's per-particle
	// version counters at generation time. The driver bumps a particle's
	// counter every time an event changes its velocity; a popped Event
	// whose snapshot no longer matches the live counter was invalidated by
	// an intervening event and is discarded rather than executed.
	primaryVersion   int64
	secondaryVersion int64
}

// NoEvent is the canonical "nothing found" event, returned by a generator
// whose root-finder found no real, future root.
func NoEvent() Event {
	return Event{Time: Infinity, Kind: EventNone}
}

// IsNone reports whether e carries no real collision.
func (e Event) IsNone() bool {
	return e.Kind == EventNone || math.IsInf(e.Time, 1)
}

// String renders a compact, deterministic representation used in
// diagnostic log lines and for reproducibility comparisons in tests.
func (e Event) String() string {
	if e.HasSecondary {
		return fmt.Sprintf("Event{t:%g kind:%s p:%d q:%d src:%s#%d}",
			e.Time, e.Kind, e.Primary, e.Secondary, e.Source.Family, e.Source.Index)
	}
	return fmt.Sprintf("Event{t:%g kind:%s p:%d src:%s#%d}",
		e.Time, e.Kind, e.Primary, e.Source.Family, e.Source.Index)
}

// Less implements the scheduler's deterministic tie-break (SPEC_FULL.md
// §4.3): order by Time, then by Primary ID, then by SourceHandle.
func (e Event) Less(other Event) bool {
	if e.Time != other.Time {
		return e.Time < other.Time
	}
	if e.Primary != other.Primary {
		return e.Primary < other.Primary
	}
	if e.Source.Family != other.Source.Family {
		return e.Source.Family < other.Source.Family
	}
	return e.Source.Index < other.Source.Index
}
