package sim

import "dumbbellgas/internal/geom"

// Particle is one point mass, identified by its index into Simulation's
// particle slice.
type Particle struct {
	Pos  geom.Vec2
	Dir  float64
	Next struct {
		Pos  geom.Vec2
		Dir  float64
		Time float64
	}
	ImpactTime float64

	InLeftGate  bool
	InRightGate bool

	heapIndex int // position in the scheduler's heap; maintained by scheduler.go
}

// InGate reports the particle's current gate-membership flag for side s.
func (p *Particle) InGate(s geom.Side) bool {
	if s == geom.Left {
		return p.InLeftGate
	}
	return p.InRightGate
}

// SetInGate sets the particle's current gate-membership flag for side s.
func (p *Particle) SetInGate(s geom.Side, v bool) {
	if s == geom.Left {
		p.InLeftGate = v
	} else {
		p.InRightGate = v
	}
}

// CurrentPosition interpolates the particle's position at simulation time
// t, linearly between its last committed event (Pos, ImpactTime) and its
// planned one (Next.Pos, Next.Time). If the two times coincide the
// committed position is returned directly.
func (p *Particle) CurrentPosition(t float64) geom.Vec2 {
	if p.ImpactTime == p.Next.Time {
		return p.Pos
	}
	alpha := (p.ImpactTime - t) / (p.ImpactTime - p.Next.Time)
	return p.Pos.Add(p.Next.Pos.Sub(p.Pos).Scale(alpha))
}
