package sim

import "fmt"

// InvariantError is raised (as a panic from Reinsert) when the scheduler
// has lost track of a particle. Domain escapes are snapped back and gate
// capacity is enforced by explosions, so neither raises it. These are
// bugs, not configuration errors,
// and are always fatal: callers should let them propagate as panics
// rather than attempt to continue stepping.
type InvariantError struct {
	Msg      string
	Particle int
	Time     float64
}

func (e *InvariantError) Error() string {
	if e.Particle < 0 {
		return fmt.Sprintf("dumbbellgas: invariant violated at t=%g: %s", e.Time, e.Msg)
	}
	return fmt.Sprintf("dumbbellgas: invariant violated at t=%g for particle %d: %s", e.Time, e.Particle, e.Msg)
}

// ConfigError wraps a rejected constructor parameter with the field that
// failed validation.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("dumbbellgas: invalid %s: %s", e.Field, e.Msg)
}
