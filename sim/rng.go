package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// SimulationKey is the master seed for one reproducible run. Two runs
// started from the same SimulationKey and the same configuration must
// produce a bit-for-bit identical event stream (SPEC_FULL.md's determinism
// requirement): every RNG draw anywhere in the simulator --
// AndersenThermostat's Poisson inter-arrivals and Maxwell-Boltzmann
// resampling, any future stochastic Global -- must trace
// back to this one value through PartitionedRNG rather than to
// process-global state like time.Now().
type SimulationKey int64

// NewSimulationKey wraps a --seed value as a SimulationKey.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

const (
	// SubsystemInit is the RNG subsystem name reserved for sampling a
	// configuration's initial particle state. It draws directly from the
	// master seed. No loader or generator in this module draws from it:
	// configs give every particle's velocity literally.
	SubsystemInit = "init"

	// SubsystemThermostat names the RNG subsystem shared by thermostat-like
	// Globals that don't need per-instance isolation. AndersenThermostat
	// does not use this constant itself -- see SubsystemGlobal -- it exists
	// for Globals that have no instance index of their own.
	SubsystemThermostat = "thermostat"
)

// SubsystemGlobal returns the RNG subsystem name for the Nth configured
// Global event source. Two AndersenThermostats in the same config (e.g. one
// per half of a split simulation cell) must draw from disjoint streams, or
// neither is independently reproducible when the other's configuration
// changes; keying by config-declaration order gives each one a stream that
// survives reordering everything else in the file.
func SubsystemGlobal(index int) string {
	return fmt.Sprintf("global_%d", index)
}

// PartitionedRNG hands out one *rand.Rand per named subsystem, all
// ultimately derived from a single SimulationKey, so a run's reproducibility
// does not depend on the order in which subsystems happen to be touched.
//
// Derivation: SubsystemInit draws from the master seed directly; every
// other subsystem draws from the master seed XORed with a hash of its own
// name, which keeps the streams independent without needing a separate
// seed value to live in the config for each one.
//
// Not safe for concurrent use -- the event loop that owns a PartitionedRNG
// runs single-threaded (SPEC_FULL.md §5), and every Global's GenerateEvent/
// RunEvent pair is called from that same thread.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG derives a PartitionedRNG from key. Subsystem streams are
// created lazily, on first ForSubsystem call, not eagerly here.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the *rand.Rand for name, creating and caching it on
// first call. Repeated calls with the same name return the same instance,
// so a Global queried many times over a run (GenerateEvent may be called
// speculatively before its event is ever resolved) keeps drawing from one
// advancing stream rather than restarting it.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	derivedSeed := int64(p.key)
	if name != SubsystemInit {
		derivedSeed ^= fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey this PartitionedRNG was derived from.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
