// Command dumbbell-viewer runs a simulation purely for live terminal
// observation: no file output, just the scatter-plot dashboard (and,
// optionally, explosion chimes) until the user quits or final-time
// elapses.
package main

import (
	"flag"
	"log"
	"math/rand"

	"dumbbellgas/internal/config"
	"dumbbellgas/internal/sim"
	"dumbbellgas/internal/viewer"
)

func main() {
	configPath := flag.String("config", "run.ini", "path to the run's INI config file")
	seed := flag.Int64("seed", 1, "RNG seed")
	finalTime := flag.Float64("final-time", 1e6, "simulated time to run for")
	sound := flag.Bool("sound", true, "play a chime on gate explosions")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("dumbbell-viewer: %v", err)
	}

	s, err := sim.New(cfg.ToSimConfig(), rand.New(rand.NewSource(*seed)))
	if err != nil {
		log.Fatalf("dumbbell-viewer: %v", err)
	}
	if err := s.Start(cfg.LeftRatio); err != nil {
		log.Fatalf("dumbbell-viewer: %v", err)
	}

	dash, err := viewer.NewDashboard(*sound)
	if err != nil {
		log.Fatalf("dumbbell-viewer: %v", err)
	}
	defer dash.Close()

	for s.Time < *finalTime {
		if dash.PollQuit() {
			break
		}
		s.Update(0, nil)
		dash.Render(s)
	}
}
