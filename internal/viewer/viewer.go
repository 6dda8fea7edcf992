// Package viewer renders a running simulation live in the terminal: a
// scatter-plot of particle positions, a status line with the simulation
// time and particle count, and a chime whenever a gate explosion fires.
package viewer

import (
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"dumbbellgas/internal/geom"
	"dumbbellgas/internal/sim"
)

const chimeSampleRate = beep.SampleRate(44100)

// Dashboard owns the terminal screen and audio mixer for one viewing
// session.
type Dashboard struct {
	screen tcell.Screen
	mixer  *beep.Mixer
	sounds bool

	lastExplosions [2]int
	lastRenderAt   time.Time
	renderEvery    time.Duration
}

// NewDashboard initializes tcell (and, if enableSound, the speaker
// mixer). Call Close when the viewing session ends.
func NewDashboard(enableSound bool) (*Dashboard, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("viewer: creating screen: %w", err)
	}
	return newDashboard(screen, enableSound)
}

// newDashboardWithScreen wires a pre-constructed tcell.Screen (e.g. a
// tcell.NewSimulationScreen in tests) instead of the real terminal.
func newDashboardWithScreen(screen tcell.Screen, enableSound bool) (*Dashboard, error) {
	return newDashboard(screen, enableSound)
}

func newDashboard(screen tcell.Screen, enableSound bool) (*Dashboard, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("viewer: initializing screen: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault)
	screen.Clear()

	d := &Dashboard{screen: screen, renderEvery: 33 * time.Millisecond}

	if enableSound {
		if err := speaker.Init(chimeSampleRate, chimeSampleRate.N(time.Millisecond*50)); err != nil {
			screen.Fini()
			return nil, fmt.Errorf("viewer: initializing speaker: %w", err)
		}
		d.mixer = &beep.Mixer{}
		speaker.Play(d.mixer)
		d.sounds = true
	}
	return d, nil
}

// Close tears down the terminal screen.
func (d *Dashboard) Close() {
	d.screen.Fini()
}

// PollQuit returns true once the user presses 'q' or Ctrl-C. Call
// periodically from the render loop; it never blocks.
func (d *Dashboard) PollQuit() bool {
	for d.screen.HasPendingEvent() {
		switch ev := d.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				return true
			}
		case *tcell.EventResize:
			d.screen.Sync()
		}
	}
	return false
}

// Snapshot is a sim.SnapshotFunc: wire it into Simulation.Update to
// redraw the dashboard (throttled to renderEvery) as the run advances.
func (d *Dashboard) Snapshot(t float64, particles []sim.Particle) {
	now := time.Now()
	if now.Sub(d.lastRenderAt) < d.renderEvery {
		return
	}
	d.lastRenderAt = now
	d.render(t, particles, geom.Geometry{})
}

// Render draws one frame given the simulation's full state, including
// geometry (to scale the plot to the domain's extent; no reservoir or
// bridge outline is drawn) and explosion counts (for the chime trigger).
func (d *Dashboard) Render(s *sim.Simulation) {
	d.render(s.Time, s.Particles, s.Geometry)
	explosions := s.Explosions()
	if d.sounds {
		for i, c := range explosions {
			if c > d.lastExplosions[i] {
				d.playChime()
			}
		}
	}
	d.lastExplosions = explosions
}

func (d *Dashboard) render(t float64, particles []sim.Particle, g geom.Geometry) {
	d.screen.Clear()
	width, height := d.screen.Size()
	plotHeight := height - 2
	if plotHeight < 1 || width < 1 {
		d.screen.Show()
		return
	}

	spanX := g.CircleDistance/2 + 2*g.CircleRadius
	if spanX <= 0 {
		spanX = 1
	}
	spanY := g.CircleRadius
	if spanY <= 0 {
		spanY = 1
	}

	for _, p := range particles {
		col := int((p.Pos.X/spanX + 1) / 2 * float64(width-1))
		row := int((1 - (p.Pos.Y/spanY+1)/2) * float64(plotHeight-1))
		if col < 0 || col >= width || row < 0 || row >= plotHeight {
			continue
		}
		d.screen.SetContent(col, row, '*', nil, tcell.StyleDefault.Foreground(tcell.ColorYellow))
	}

	status := fmt.Sprintf("t=%.4f  particles=%d  (q to quit)", t, len(particles))
	for i, r := range status {
		if i >= width {
			break
		}
		d.screen.SetContent(i, height-1, r, nil, tcell.StyleDefault)
	}
	d.screen.Show()
}

func (d *Dashboard) playChime() {
	streamer := beep.Take(chimeSampleRate.N(120*time.Millisecond), newChimeGenerator(chimeSampleRate))
	d.mixer.Add(streamer)
}

// chimeGenerator is a short decaying sine sweep played on every gate
// explosion.
type chimeGenerator struct {
	sr  beep.SampleRate
	pos int
}

func newChimeGenerator(sr beep.SampleRate) *chimeGenerator {
	return &chimeGenerator{sr: sr}
}

func (g *chimeGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		envelope := math.Exp(-t * 12)
		freq := 880 - 400*t
		sample := 0.3 * envelope * math.Sin(2*math.Pi*freq*t)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *chimeGenerator) Err() error { return nil }
