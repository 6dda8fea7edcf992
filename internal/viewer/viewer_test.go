package viewer

import (
	"math"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dumbbellgas/internal/geom"
	"dumbbellgas/internal/sim"
)

func newTestDashboard(t *testing.T) *Dashboard {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	screen.SetSize(80, 24)
	d, err := newDashboardWithScreen(screen, false)
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d
}

func TestRenderPlotsParticlesWithinBounds(t *testing.T) {
	d := newTestDashboard(t)
	g := geom.Geometry{CircleRadius: 1, CircleDistance: 1}
	particles := []sim.Particle{
		{Pos: geom.Vec2{X: 0, Y: 0}},
		{Pos: geom.Vec2{X: g.CircleDistance/2 + g.CircleRadius, Y: 0}},
	}
	assert.NotPanics(t, func() {
		d.render(1.5, particles, g)
	})
}

func TestRenderHandlesZeroGeometryGracefully(t *testing.T) {
	d := newTestDashboard(t)
	assert.NotPanics(t, func() {
		d.render(0, nil, geom.Geometry{})
	})
}

func TestChimeGeneratorProducesDecayingSignal(t *testing.T) {
	g := newChimeGenerator(chimeSampleRate)
	buf := make([][2]float64, int(chimeSampleRate)/10)
	n, ok := g.Stream(buf)
	require.True(t, ok)
	require.Equal(t, len(buf), n)

	peak := func(s [][2]float64) float64 {
		m := 0.0
		for _, v := range s {
			m = math.Max(m, math.Abs(v[0]))
		}
		return m
	}
	tenth := len(buf) / 10
	first := peak(buf[:tenth])
	last := peak(buf[len(buf)-tenth:])
	assert.Less(t, last, first, "chime envelope should decay, not grow")
	assert.NoError(t, g.Err())
}

func TestPollQuitReturnsFalseWithNoEvents(t *testing.T) {
	d := newTestDashboard(t)
	assert.False(t, d.PollQuit())
}
