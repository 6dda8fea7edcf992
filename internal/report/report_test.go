package report

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dumbbellgas/internal/sim"
)

func TestChiWriterAppends(t *testing.T) {
	dir := t.TempDir()
	id := filepath.Join(dir, "sample")

	w, err := OpenChiWriter(id)
	require.NoError(t, err)
	require.NoError(t, w.WriteRow(10, 1.5, 42, -0.2))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(id + ".chi")
	require.NoError(t, err)
	assert.Equal(t, "10,1.5,42,0.2\n", string(data))
}

func TestAppendOutSummary(t *testing.T) {
	dir := t.TempDir()
	fileID := filepath.Join(dir, "sweep")

	require.NoError(t, AppendOutSummary(fileID, "run1", 0.42, [4]float64{1, 2, 0, 0}))
	require.NoError(t, AppendOutSummary(fileID, "run2", 0.1, [4]float64{3, 4, 0, 0}))

	data, err := os.ReadFile(fileID + ".out")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "run1,0.42")
}

func TestAggregateOutSortsNaturally(t *testing.T) {
	dir := t.TempDir()
	fileID := filepath.Join(dir, "sweep")
	require.NoError(t, AppendOutSummary(fileID, "run10", 0.1, [4]float64{}))
	require.NoError(t, AppendOutSummary(fileID, "run2", 0.2, [4]float64{}))

	dest := filepath.Join(dir, "combined.csv")
	require.NoError(t, AggregateOut([]string{fileID + ".out"}, dest, []string{"id", "chi", "c0", "c1", "c2", "c3"}))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.Index(content, "run2") < strings.Index(content, "run10"))
}

func TestWriteTotalsMatchesEventCount(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s, err := sim.New(sim.Config{
		NumParticles:      10,
		BridgeHeight:      0.2,
		CircleRadius:      1,
		CircleDistance:    1,
		LeftGateCapacity:  2,
		RightGateCapacity: 2,
		GateIsFlat:        true,
	}, rng)
	require.NoError(t, err)
	require.NoError(t, s.Start(0.5))
	for i := 0; i < 50; i++ {
		s.Update(0, nil)
	}

	path := filepath.Join(t.TempDir(), "totals.dat")
	require.NoError(t, WriteTotals(path, s))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, len(s.MeasuringTimes), len(strings.Fields(lines[0])))
}

func TestResultsWriterWritesHeaderAndSnapshots(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	s, err := sim.New(sim.Config{
		NumParticles:      4,
		BridgeHeight:      0.2,
		CircleRadius:      1,
		CircleDistance:    1,
		LeftGateCapacity:  2,
		RightGateCapacity: 2,
		GateIsFlat:        true,
	}, rng)
	require.NoError(t, err)
	require.NoError(t, s.Start(0.5))

	path := filepath.Join(t.TempDir(), "results.dat")
	rw, err := NewResultsWriter(path)
	require.NoError(t, err)
	rw.WriteGeometryHeader(s.NumParticles, s.Geometry.CircleRadius, s.Geometry.CircleDistance, s.Geometry.BridgeHeight, s.Geometry.BridgeLength)

	var snaps int
	for i := 0; i < 200 && snaps < 3; i++ {
		s.Update(0.001, func(t float64, particles []sim.Particle) {
			rw.WriteSnapshot(t, particles)
			snaps++
		})
	}
	require.NoError(t, rw.Close())
	assert.Greater(t, snaps, 0)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "num_particles\tcircle_radius"))
}
