// Command dumbbell-run drives a single simulation from an INI config
// file, writing results.dat, totals.dat and a periodic .chi log, with
// an optional live terminal dashboard or WebSocket monitor.
package main

import (
	"flag"
	"log"
	"math/rand"
	"net/http"
	"path/filepath"
	"time"

	"dumbbellgas/internal/config"
	"dumbbellgas/internal/monitor"
	"dumbbellgas/internal/report"
	"dumbbellgas/internal/sim"
	"dumbbellgas/internal/viewer"
)

func main() {
	configPath := flag.String("config", "run.ini", "path to the run's INI config file")
	seed := flag.Int64("seed", 1, "RNG seed")
	finalTime := flag.Float64("final-time", 1e4, "simulated time to run for")
	chiEvery := flag.Int("chi-every", 100, "collisions between .chi samples")
	watch := flag.Bool("watch", false, "show a live terminal dashboard")
	sound := flag.Bool("sound", false, "play a chime on gate explosions (requires -watch)")
	monitorAddr := flag.String("monitor-addr", "", "if set, serve a live WebSocket monitor on this address")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("dumbbell-run: %v", err)
	}

	s, err := sim.New(cfg.ToSimConfig(), rand.New(rand.NewSource(*seed)))
	if err != nil {
		log.Fatalf("dumbbell-run: %v", err)
	}
	if err := s.Start(cfg.LeftRatio); err != nil {
		log.Fatalf("dumbbell-run: %v", err)
	}

	resultsPath := filepath.Join(cfg.OutputDir, "results.dat")
	rw, err := report.NewResultsWriter(resultsPath)
	if err != nil {
		log.Fatalf("dumbbell-run: %v", err)
	}
	defer rw.Close()
	rw.WriteGeometryHeader(s.NumParticles, s.Geometry.CircleRadius, s.Geometry.CircleDistance, s.Geometry.BridgeHeight, s.Geometry.BridgeLength)

	chiID := filepath.Join(cfg.OutputDir, "run")
	chi, err := report.OpenChiWriter(chiID)
	if err != nil {
		log.Fatalf("dumbbell-run: %v", err)
	}
	defer chi.Close()

	var dash *viewer.Dashboard
	if *watch {
		dash, err = viewer.NewDashboard(*sound)
		if err != nil {
			log.Fatalf("dumbbell-run: %v", err)
		}
		defer dash.Close()
	}

	var hub *monitor.Hub
	if *monitorAddr != "" {
		hub = monitor.NewHub()
		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		go func() {
			if err := http.ListenAndServe(*monitorAddr, mux); err != nil {
				log.Printf("dumbbell-run: monitor server stopped: %v", err)
			}
		}()
		defer hub.Close()
	}

	snapshotter := func(t float64, particles []sim.Particle) {
		rw.WriteSnapshot(t, particles)
	}

	var hubSnap *monitor.Snapshotter
	if hub != nil {
		hubSnap = monitor.NewSnapshotter(hub, s, 50*time.Millisecond)
	}

	lastChiCollisions := uint64(0)
	for s.Time < *finalTime {
		if dash != nil && dash.PollQuit() {
			break
		}
		s.Update(cfg.WriteDt, snapshotter)
		if hubSnap != nil {
			hubSnap.Snapshot(s.Time, s.Particles)
		}
		if dash != nil {
			dash.Render(s)
		}
		if s.NumCollisions-lastChiCollisions >= uint64(*chiEvery) {
			lastChiCollisions = s.NumCollisions
			if err := chi.WriteRow(s.NumCollisions, s.Time, s.InLeft, s.MassSpread()); err != nil {
				log.Printf("dumbbell-run: writing chi row: %v", err)
			}
		}
	}

	if err := report.WriteTotals(filepath.Join(cfg.OutputDir, "totals.dat"), s); err != nil {
		log.Fatalf("dumbbell-run: %v", err)
	}
}
