// Package config loads a single simulation run's parameters from an
// INI-style file.
package config

import (
	"fmt"

	"gopkg.in/gcfg.v1"

	"dumbbellgas/internal/sim"
)

// RunConfig mirrors sim.Config, field for field, in the shape gcfg wants
// to unmarshal a `[Run]` section into.
type RunConfig struct {
	// Required
	NumParticles      int
	BridgeHeight      float64
	CircleRadius      float64
	CircleDistance    float64
	LeftGateCapacity  int
	RightGateCapacity int

	// Optional
	ExplosionDirectionIsRandom bool
	GateIsFlat                 bool
	DistanceAsChannelLength    bool
	ExpectedCollisions         int
	SecondBridgeLength         float64
	SecondBridgeWidth          float64

	// Optional, run-level (not part of sim.Config)
	LeftRatio float64
	WriteDt   float64
	OutputDir string
}

type runWrapper struct {
	Run RunConfig
}

// Default returns a RunConfig with the same optional-field defaults the
// original CLI driver used: a flat gate, deterministic retraction, and
// an even initial split.
func Default() RunConfig {
	return RunConfig{
		GateIsFlat: true,
		LeftRatio:  0.5,
		OutputDir:  ".",
	}
}

// ValidNumParticles reports whether NumParticles was set to a usable
// value; see the other Valid* methods below for the rest of the
// CheckInit-style validation pass.
func (c *RunConfig) ValidNumParticles() bool      { return c.NumParticles > 0 }
func (c *RunConfig) ValidBridgeHeight() bool      { return c.BridgeHeight > 0 }
func (c *RunConfig) ValidCircleRadius() bool      { return c.CircleRadius > 0 }
func (c *RunConfig) ValidCircleDistance() bool    { return c.CircleDistance > 0 }
func (c *RunConfig) ValidLeftGateCapacity() bool  { return c.LeftGateCapacity > 0 }
func (c *RunConfig) ValidRightGateCapacity() bool { return c.RightGateCapacity > 0 }
func (c *RunConfig) ValidLeftRatio() bool         { return c.LeftRatio >= 0 && c.LeftRatio <= 1 }

// CheckInit runs every Valid* precondition and returns the first failure,
// naming the offending field the way gotetra's BallConfig/BoxConfig do.
func (c *RunConfig) CheckInit() error {
	checks := []struct {
		name string
		ok   bool
	}{
		{"NumParticles", c.ValidNumParticles()},
		{"BridgeHeight", c.ValidBridgeHeight()},
		{"CircleRadius", c.ValidCircleRadius()},
		{"CircleDistance", c.ValidCircleDistance()},
		{"LeftGateCapacity", c.ValidLeftGateCapacity()},
		{"RightGateCapacity", c.ValidRightGateCapacity()},
		{"LeftRatio", c.ValidLeftRatio()},
	}
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("config: invalid or missing %s", c.name)
		}
	}
	return nil
}

// ToSimConfig projects the run-level RunConfig down to the fields
// sim.New actually consumes.
func (c *RunConfig) ToSimConfig() sim.Config {
	return sim.Config{
		NumParticles:               c.NumParticles,
		BridgeHeight:               c.BridgeHeight,
		CircleRadius:               c.CircleRadius,
		CircleDistance:             c.CircleDistance,
		LeftGateCapacity:           c.LeftGateCapacity,
		RightGateCapacity:          c.RightGateCapacity,
		ExplosionDirectionIsRandom: c.ExplosionDirectionIsRandom,
		GateIsFlat:                 c.GateIsFlat,
		DistanceAsChannelLength:    c.DistanceAsChannelLength,
		ExpectedCollisions:         c.ExpectedCollisions,
		SecondBridgeLength:         c.SecondBridgeLength,
		SecondBridgeWidth:          c.SecondBridgeWidth,
	}
}

// Load reads a `[Run]` INI file at path, applying Default()'s values for
// anything left unset, and validates the result.
func Load(path string) (RunConfig, error) {
	cfg := Default()
	wrapper := runWrapper{Run: cfg}
	if err := gcfg.ReadFileInto(&wrapper, path); err != nil {
		return RunConfig{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := wrapper.Run.CheckInit(); err != nil {
		return RunConfig{}, err
	}
	return wrapper.Run, nil
}
