// Package sweep drives batches of runs over a parameter grid: loading
// scenarios from TOML or legacy whitespace-column files, and the
// windowed-average, bisection-search and cool-down analyses the original
// exploration scripts performed on top of a single Simulation.
package sweep

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/BurntSushi/toml"
	"github.com/phil-mansfield/table"

	"dumbbellgas/internal/sim"
)

// Scenario is one parameter-grid row: enough to build a sim.Config and
// drive a windowed run.
type Scenario struct {
	ID                string
	NumParticles      int
	BridgeHeight      float64
	CircleRadius      float64
	CircleDistance    float64
	LeftGateCapacity  int
	RightGateCapacity int
	LeftRatio         float64
	TransientEvents   uint64
	FinalEvents       uint64
}

func (s Scenario) toConfig() sim.Config {
	return sim.Config{
		NumParticles:      s.NumParticles,
		BridgeHeight:      s.BridgeHeight,
		CircleRadius:      s.CircleRadius,
		CircleDistance:    s.CircleDistance,
		LeftGateCapacity:  s.LeftGateCapacity,
		RightGateCapacity: s.RightGateCapacity,
		GateIsFlat:        true,
	}
}

// tomlGrid is the shape a sweep grid file written in TOML takes: a table
// of named scenarios under [scenarios.<id>].
type tomlGrid struct {
	Scenarios map[string]struct {
		NumParticles      int     `toml:"num_particles"`
		BridgeHeight      float64 `toml:"bridge_height"`
		CircleRadius      float64 `toml:"circle_radius"`
		CircleDistance    float64 `toml:"circle_distance"`
		LeftGateCapacity  int     `toml:"left_gate_capacity"`
		RightGateCapacity int     `toml:"right_gate_capacity"`
		LeftRatio         float64 `toml:"left_ratio"`
		TransientEvents   uint64  `toml:"transient_events"`
		FinalEvents       uint64  `toml:"final_events"`
	}
}

// LoadTOMLGrid reads a sweep grid described in TOML.
func LoadTOMLGrid(path string) ([]Scenario, error) {
	var grid tomlGrid
	if _, err := toml.DecodeFile(path, &grid); err != nil {
		return nil, fmt.Errorf("sweep: decoding %s: %w", path, err)
	}
	scenarios := make([]Scenario, 0, len(grid.Scenarios))
	for id, row := range grid.Scenarios {
		scenarios = append(scenarios, Scenario{
			ID:                id,
			NumParticles:      row.NumParticles,
			BridgeHeight:      row.BridgeHeight,
			CircleRadius:      row.CircleRadius,
			CircleDistance:    row.CircleDistance,
			LeftGateCapacity:  row.LeftGateCapacity,
			RightGateCapacity: row.RightGateCapacity,
			LeftRatio:         row.LeftRatio,
			TransientEvents:   row.TransientEvents,
			FinalEvents:       row.FinalEvents,
		})
	}
	return scenarios, nil
}

// legacyGridColumns is the column order of the whitespace-delimited grid
// files the original batch driver's CLI arguments were tabulated into:
// channel_length, channel_width, threshold, radius, num_particles,
// left_ratio, transient_events, final_events.
var legacyGridColumns = []int{0, 1, 2, 3, 4, 5, 6, 7}

// LoadLegacyGrid reads a whitespace-column parameter grid in the shape
// double_channel_runs.cpp's CLI arguments were tabulated into, one row
// per scenario. IDs are assigned "row0", "row1", ...
func LoadLegacyGrid(path string) ([]Scenario, error) {
	cols, err := table.ReadTable(path, legacyGridColumns, nil)
	if err != nil {
		return nil, fmt.Errorf("sweep: reading grid %s: %w", path, err)
	}
	if len(cols) != len(legacyGridColumns) {
		return nil, fmt.Errorf("sweep: grid %s has %d columns, want %d", path, len(cols), len(legacyGridColumns))
	}
	n := len(cols[0])
	scenarios := make([]Scenario, n)
	for i := 0; i < n; i++ {
		threshold := int(cols[2][i])
		scenarios[i] = Scenario{
			ID:                fmt.Sprintf("row%d", i),
			CircleDistance:    cols[0][i],
			BridgeHeight:      cols[1][i],
			LeftGateCapacity:  threshold,
			RightGateCapacity: threshold,
			CircleRadius:      cols[3][i],
			NumParticles:      int(cols[4][i]),
			LeftRatio:         cols[5][i],
			TransientEvents:   uint64(cols[6][i]),
			FinalEvents:       uint64(cols[7][i]),
		}
	}
	return scenarios, nil
}

// RunWindowed drives a scenario to FinalEvents collisions, discarding the
// first TransientEvents as thermalization, and returns the
// collision-weighted average mass spread plus the per-direction mid-line
// current measured over the stationary window — the Go equivalent of
// the original batch driver's get_mass_spread.
func RunWindowed(sc Scenario, rng *rand.Rand) (avgMassSpread float64, currents [4]float64, err error) {
	if sc.FinalEvents <= sc.TransientEvents {
		return 0, currents, fmt.Errorf("sweep: FinalEvents (%d) must exceed TransientEvents (%d)", sc.FinalEvents, sc.TransientEvents)
	}
	s, err := sim.New(sc.toConfig(), rng)
	if err != nil {
		return 0, currents, err
	}
	leftRatio := sc.LeftRatio
	if leftRatio == 0 {
		leftRatio = 0.5
	}
	if err := s.Start(leftRatio); err != nil {
		return 0, currents, err
	}

	for s.NumCollisions < sc.TransientEvents {
		s.Update(0, nil)
	}

	weight := 1.0 / float64(sc.FinalEvents-sc.TransientEvents)
	startCounters := s.Counters()
	startTime := s.Time
	for s.NumCollisions < sc.FinalEvents {
		s.Update(0, nil)
		avgMassSpread += weight * s.MassSpread()
	}
	currents = s.Currents(startTime, startCounters)
	return avgMassSpread, currents, nil
}

// CriticalParticleCountOptions bundles the bisection search's tunables so
// callers only need to override what they care about.
type CriticalParticleCountOptions struct {
	UpperBound        int
	Repeats           int
	FinalTime         float64
	PolarisationRatio float64
	GateCapacity      int
	BridgeHeight      float64
	CircleDistance    float64
}

// DefaultCriticalParticleCountOptions mirrors investigate_relations.cpp's
// hardcoded constants.
func DefaultCriticalParticleCountOptions() CriticalParticleCountOptions {
	return CriticalParticleCountOptions{
		UpperBound:        1000,
		Repeats:           3,
		FinalTime:         1e5,
		PolarisationRatio: 0.95,
		GateCapacity:      2,
		BridgeHeight:      0.3,
		CircleDistance:    0.3,
	}
}

// CriticalParticleCount bisection-searches for the smallest particle
// count at which the given reservoir radius reliably polarises (settles
// into a majority-left-or-right state) within opts.FinalTime, running
// opts.Repeats independent trials per candidate.
func CriticalParticleCount(radius float64, opts CriticalParticleCountOptions, newRNG func() *rand.Rand) (int, error) {
	lower, upper := 0, opts.UpperBound
	numParticles := (lower + upper) / 2

	for {
		polarizations := 0
		for rep := 0; rep < opts.Repeats; rep++ {
			cfg := sim.Config{
				NumParticles:      numParticles,
				BridgeHeight:      opts.BridgeHeight,
				CircleRadius:      radius,
				CircleDistance:    opts.CircleDistance,
				LeftGateCapacity:  opts.GateCapacity,
				RightGateCapacity: opts.GateCapacity,
				GateIsFlat:        true,
			}
			s, err := sim.New(cfg, newRNG())
			if err != nil {
				return 0, err
			}
			if err := s.StartEvenly(); err != nil {
				return 0, err
			}
			diff := 0
			for float64(diff) < float64(numParticles)*opts.PolarisationRatio && s.Time < opts.FinalTime {
				s.Update(0, nil)
				left := s.InLeft
				right := numParticles - left
				diff = int(math.Abs(float64(left - right)))
			}
			if s.Time < opts.FinalTime {
				polarizations++
			}
		}
		switch {
		case polarizations == 0:
			lower = numParticles
			numParticles = (lower + upper) / 2
		case polarizations == opts.Repeats:
			upper = numParticles
			numParticles = (lower + upper) / 2
		default:
			return numParticles, nil
		}
		if upper-lower <= 1 {
			return numParticles, nil
		}
	}
}

// CoolDownTimeOptions bundles find_unicorn.cpp's get_cool_down_time
// constants.
type CoolDownTimeOptions struct {
	CircleRadius   float64
	BridgeHeight   float64
	CircleDistance float64
	FinalTime      float64
	Threshold      int // number of particles that must reach the closed side
}

// DefaultCoolDownTimeOptions mirrors find_unicorn.cpp's hardcoded values.
func DefaultCoolDownTimeOptions() CoolDownTimeOptions {
	return CoolDownTimeOptions{
		CircleRadius:   1,
		BridgeHeight:   0.3,
		CircleDistance: 1,
		FinalTime:      1e5,
		Threshold:      10,
	}
}

// CoolDownTime seeds every particle on the left with the right gate at
// capacity 1 (the smallest value sim.New accepts, so a second
// simultaneous occupant there triggers an explosion) and returns the
// time until Threshold particles have drifted across into the right
// reservoir, or FinalTime if they never do.
func CoolDownTime(numParticles, leftGateCapacity int, opts CoolDownTimeOptions, rng *rand.Rand) (float64, error) {
	cfg := sim.Config{
		NumParticles:      numParticles,
		BridgeHeight:      opts.BridgeHeight,
		CircleRadius:      opts.CircleRadius,
		CircleDistance:    opts.CircleDistance,
		LeftGateCapacity:  leftGateCapacity,
		RightGateCapacity: 1, // sim.New rejects 0; see DESIGN.md
		GateIsFlat:        true,
	}
	s, err := sim.New(cfg, rng)
	if err != nil {
		return 0, err
	}
	if err := s.Start(1.0); err != nil {
		return 0, err
	}
	for numParticles-s.InLeft < opts.Threshold && s.Time < opts.FinalTime {
		s.Update(0, nil)
	}
	if s.Time > opts.FinalTime {
		return opts.FinalTime, nil
	}
	return s.Time, nil
}
