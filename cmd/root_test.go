package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomgreen66/DynamO/sim"
	"github.com/tomgreen66/DynamO/sim/xmlconfig"
)

func TestSpeciesName(t *testing.T) {
	doc := &xmlconfig.Document{Species: []xmlconfig.SpeciesElement{{Name: "argon"}, {Name: "water"}}}

	assert.Equal(t, "argon", speciesName(doc, 0))
	assert.Equal(t, "water", speciesName(doc, 1))
	assert.Equal(t, "", speciesName(doc, 2))
	assert.Equal(t, "", speciesName(doc, -1))
}

func newTestSimulator(t *testing.T, particles []sim.Particle) *sim.Simulator {
	dyn, err := sim.NewLiouvillean("")
	require.NoError(t, err)
	sched, err := sim.NewScheduler("")
	require.NoError(t, err)
	store := sim.NewParticleStore(particles)
	props := sim.NewPropertyStore()
	return sim.NewSimulator(store, props, dyn, sched, sim.NoBC{}, sim.NewPartitionedRNG(sim.NewSimulationKey(1)))
}

func TestNewObserver_Known(t *testing.T) {
	s := newTestSimulator(t, nil)

	for _, name := range []string{"energy-momentum", "histogram-vx", "povray", "snapshot"} {
		ob, err := newObserver(name, s)
		require.NoError(t, err)
		assert.Equal(t, name, ob.Name())
	}
}

func TestNewObserver_Unknown(t *testing.T) {
	s := newTestSimulator(t, nil)

	_, err := newObserver("nonexistent", s)
	require.Error(t, err)
}

func TestWriteSnapshot_RoundTrip(t *testing.T) {
	doc := &xmlconfig.Document{
		Species: []xmlconfig.SpeciesElement{{Name: "argon"}},
	}
	s := newTestSimulator(t, []sim.Particle{
		{ID: 0, Position: sim.Vec{X: 1, Y: 2, Z: 3}, Velocity: sim.Vec{X: 0.1}, Species: 0},
	})

	dir := t.TempDir()
	path := filepath.Join(dir, "out.xml")
	require.NoError(t, writeSnapshot(path, doc, s))

	loaded, err := xmlconfig.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, loaded.Particles, 1)
	assert.Equal(t, "argon", loaded.Particles[0].Species)
	assert.Equal(t, 1.0, loaded.Particles[0].Position.X)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}
