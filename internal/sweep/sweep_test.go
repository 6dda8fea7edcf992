package sweep

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTOMLGrid = `
[scenarios.run1]
num_particles = 20
bridge_height = 0.2
circle_radius = 1.0
circle_distance = 1.0
left_gate_capacity = 2
right_gate_capacity = 2
left_ratio = 0.5
transient_events = 50
final_events = 200

[scenarios.run2]
num_particles = 30
bridge_height = 0.25
circle_radius = 1.0
circle_distance = 1.0
left_gate_capacity = 3
right_gate_capacity = 3
left_ratio = 0.5
transient_events = 50
final_events = 200
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTOMLGrid(t *testing.T) {
	path := writeTemp(t, "grid.toml", sampleTOMLGrid)
	scenarios, err := LoadTOMLGrid(path)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)

	byID := map[string]Scenario{}
	for _, sc := range scenarios {
		byID[sc.ID] = sc
	}
	require.Contains(t, byID, "run1")
	assert.Equal(t, 20, byID["run1"].NumParticles)
	assert.Equal(t, uint64(200), byID["run1"].FinalEvents)
}

func TestLoadLegacyGrid(t *testing.T) {
	content := "1.0 0.2 2 1.0 20 0.5 50 200\n1.0 0.25 3 1.0 30 0.5 50 200\n"
	path := writeTemp(t, "grid.dat", content)

	scenarios, err := LoadLegacyGrid(path)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "row0", scenarios[0].ID)
	assert.Equal(t, 20, scenarios[0].NumParticles)
	assert.Equal(t, 2, scenarios[0].LeftGateCapacity)
	assert.Equal(t, 2, scenarios[0].RightGateCapacity)
}

func TestRunWindowedRejectsBadWindow(t *testing.T) {
	sc := Scenario{
		NumParticles: 10, BridgeHeight: 0.2, CircleRadius: 1, CircleDistance: 1,
		LeftGateCapacity: 2, RightGateCapacity: 2, LeftRatio: 0.5,
		TransientEvents: 100, FinalEvents: 100,
	}
	_, _, err := RunWindowed(sc, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func TestRunWindowedProducesBoundedSpread(t *testing.T) {
	sc := Scenario{
		NumParticles: 20, BridgeHeight: 0.2, CircleRadius: 1, CircleDistance: 1,
		LeftGateCapacity: 2, RightGateCapacity: 2, LeftRatio: 0.5,
		TransientEvents: 20, FinalEvents: 120,
	}
	avg, currents, err := RunWindowed(sc, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, avg, 0.0)
	assert.LessOrEqual(t, avg, 1.0)
	for _, c := range currents {
		assert.GreaterOrEqual(t, c, 0.0)
	}
}

func TestCriticalParticleCountConverges(t *testing.T) {
	opts := DefaultCriticalParticleCountOptions()
	opts.UpperBound = 40
	opts.FinalTime = 50
	opts.Repeats = 2

	seed := 0
	n, err := CriticalParticleCount(1.0, opts, func() *rand.Rand {
		seed++
		return rand.New(rand.NewSource(int64(seed)))
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 0)
	assert.LessOrEqual(t, n, opts.UpperBound)
}

func TestCoolDownTimeReturnsWithinBudget(t *testing.T) {
	opts := DefaultCoolDownTimeOptions()
	opts.FinalTime = 200
	opts.Threshold = 3

	elapsed, err := CoolDownTime(20, 2, opts, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, 0.0)
	assert.LessOrEqual(t, elapsed, opts.FinalTime)
}
