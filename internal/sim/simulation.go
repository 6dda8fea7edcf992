// Package sim implements the event-driven kinetic gas model: particles
// travel in straight lines inside a dumbbell-shaped domain and only ever
// get recomputed at the instant they strike a boundary.
package sim

import (
	"math"

	"github.com/pkg/errors"

	"dumbbellgas/internal/geom"
)

// RNG is the uniform-real source the model draws from for particle
// seeding and gate-explosion retraction sampling. It is small on purpose:
// callers own the actual generator (seeded or not) and hand in whatever
// satisfies this single method.
type RNG interface {
	Float64() float64 // uniform on [0, 1)
}

// Config carries every constructor input needed to set up a single run.
// SecondBridgeLength and SecondBridgeWidth are accepted and stored but
// never read by the stepper: they exist only so config files written for
// the (out of scope) two-channel variant still parse cleanly here.
type Config struct {
	NumParticles               int
	BridgeHeight               float64
	CircleRadius               float64
	CircleDistance             float64
	LeftGateCapacity           int
	RightGateCapacity          int
	ExplosionDirectionIsRandom bool
	GateIsFlat                 bool
	DistanceAsChannelLength    bool
	ExpectedCollisions         int

	SecondBridgeLength float64
	SecondBridgeWidth  float64
}

// SnapshotFunc receives an interpolated position/direction snapshot for
// every particle at simulation time t. Writing it anywhere durable is the
// caller's responsibility (see internal/report).
type SnapshotFunc func(t float64, particles []Particle)

// Simulation is one dumbbell-gas run: static geometry plus the mutable
// particle and scheduler state that Update advances one event at a time.
type Simulation struct {
	Geometry geom.Geometry
	RNG      RNG

	NumParticles       int
	Particles          []Particle
	ExpectedCollisions int

	Time            float64
	LastWrittenTime float64
	InLeft          int
	NumCollisions   uint64
	ResetCounter    uint64

	// CurrentCounters holds cumulative signed mid-line crossings:
	// [0]=left-to-right, [1]=right-to-left. Slots 2/3 stay zero here; they
	// exist for the second bridge of the (out of scope) two-channel
	// variant.
	CurrentCounters [4]int

	// ExplosionCounters holds cumulative gate-overflow events:
	// [0]=left gate, [1]=right gate.
	ExplosionCounters [2]int

	MeasuringTimes []float64
	TotalLeft      []int

	gateContents [2][]int
	order        []int // scheduler heap; see scheduler.go
}

// New validates cfg and returns a Simulation whose geometry has been
// derived but whose particles have not yet been placed — call Start or
// StartEvenly next.
func New(cfg Config, rng RNG) (*Simulation, error) {
	if cfg.NumParticles <= 0 {
		return nil, errors.Wrap(&ConfigError{Field: "NumParticles", Msg: "must be positive"}, "sim.New")
	}
	if cfg.CircleRadius <= 0 {
		return nil, errors.Wrap(&ConfigError{Field: "CircleRadius", Msg: "must be positive"}, "sim.New")
	}
	if cfg.BridgeHeight <= 0 || cfg.BridgeHeight >= 2*cfg.CircleRadius {
		return nil, errors.Wrap(&ConfigError{Field: "BridgeHeight", Msg: "must be positive and less than the circle diameter"}, "sim.New")
	}
	if cfg.LeftGateCapacity <= 0 || cfg.RightGateCapacity <= 0 {
		return nil, errors.Wrap(&ConfigError{Field: "GateCapacity", Msg: "must be positive on both sides"}, "sim.New")
	}
	if cfg.DistanceAsChannelLength && !cfg.GateIsFlat {
		return nil, errors.Wrap(&ConfigError{Field: "DistanceAsChannelLength", Msg: "requires a flat gate"}, "sim.New")
	}
	if rng == nil {
		return nil, errors.Wrap(&ConfigError{Field: "RNG", Msg: "must not be nil"}, "sim.New")
	}

	g := geom.Geometry{
		CircleRadius:               cfg.CircleRadius,
		CircleDistance:             cfg.CircleDistance,
		BridgeHeight:               cfg.BridgeHeight,
		GateIsFlat:                 cfg.GateIsFlat,
		LeftGateCapacity:           cfg.LeftGateCapacity,
		RightGateCapacity:          cfg.RightGateCapacity,
		ExplosionDirectionIsRandom: cfg.ExplosionDirectionIsRandom,
		DistanceAsChannelLength:    cfg.DistanceAsChannelLength,
	}
	g.CoupleBridge()

	s := &Simulation{
		Geometry:           g,
		RNG:                rng,
		NumParticles:       cfg.NumParticles,
		Particles:          make([]Particle, cfg.NumParticles),
		ExpectedCollisions: cfg.ExpectedCollisions,
	}
	if cfg.ExpectedCollisions > 0 {
		s.MeasuringTimes = make([]float64, 0, cfg.ExpectedCollisions)
		s.TotalLeft = make([]int, 0, cfg.ExpectedCollisions)
	}
	return s, nil
}

// boxRadii returns the rejection-sampling box start/StartEvenly draw
// candidate positions from, and errors out early if the box can never
// contain a valid point.
func (s *Simulation) boxRadii() (boxX, boxY float64, err error) {
	boxX = s.Geometry.CircleDistance/2 + s.Geometry.CircleRadius*2
	boxY = s.Geometry.CircleRadius
	if s.Geometry.BridgeHeight/2 >= boxY {
		return 0, 0, errors.New("sim: bridge height too large; no initialization possible")
	}
	return boxX, boxY, nil
}

// resetParticle rejection-samples a fresh position strictly inside
// reservoir side (never in its gate or the bridge) and a uniform random
// heading, for particle i.
func (s *Simulation) resetParticle(i int, boxX, boxY float64, side geom.Side) {
	p := &s.Particles[i]
	for {
		p.Pos.X = (s.RNG.Float64() - 0.5) * boxX * 2
		p.Pos.Y = (s.RNG.Float64() - 0.5) * boxY * 2
		if s.Geometry.InCircle(p.Pos.X, p.Pos.Y, side) &&
			!s.Geometry.InGate(p.Pos.X, p.Pos.Y, side) &&
			!s.Geometry.InBridge(p.Pos.X, p.Pos.Y) {
			break
		}
	}
	p.Dir = (s.RNG.Float64() - 0.5) * 2 * math.Pi
}

// Start seeds every particle, placing floor(leftRatio*NumParticles) of
// them in the left reservoir and the remainder in the right, then
// schedules the first event for each.
func (s *Simulation) Start(leftRatio float64) error {
	if leftRatio < 0 || leftRatio > 1 {
		return errors.New("sim: left ratio must be between 0 and 1")
	}
	boxX, boxY, err := s.boxRadii()
	if err != nil {
		return err
	}

	s.Time = 0
	s.LastWrittenTime = 0
	s.InLeft = 0

	numLeft := int(leftRatio * float64(s.NumParticles))
	for i := 0; i < numLeft; i++ {
		s.resetParticle(i, boxX, boxY, geom.Left)
		s.Particles[i].ImpactTime = 0
		s.computeNextImpact(i)
		s.InLeft++
	}
	for i := numLeft; i < s.NumParticles; i++ {
		s.resetParticle(i, boxX, boxY, geom.Right)
		s.Particles[i].ImpactTime = 0
		s.computeNextImpact(i)
	}
	s.schedInit()
	s.measure()
	return nil
}

// StartEvenly is exactly Start(0.5): the supplemented "start evenly"
// driver mode used by sweep scenarios that want a fixed half/half split.
func (s *Simulation) StartEvenly() error {
	return s.Start(0.5)
}

// computeNextImpact recasts particle i's ray from its current committed
// state and stores the earliest boundary hit into its Next fields. If no
// boundary is found within one MaxPath traversal (a numerical escape),
// the particle is respawned in whichever reservoir it was last on and the
// cast is retried.
func (s *Simulation) computeNextImpact(i int) {
	p := &s.Particles[i]
	g := &s.Geometry

	for {
		nextTime := g.MaxPath
		nextAngle := 0.0

		if h := timeToHitBridge(g, p.Pos, p.Dir); h.time < nextTime {
			nextTime = h.time
			nextAngle = ReflectionAngle(p.Dir, h.normal)
		}
		if h := timeToHitCircle(g, p.Pos, p.Dir, geom.Left); h.time < nextTime {
			nextTime = h.time
			nextAngle = ReflectionAngle(p.Dir, h.normal)
		}
		if h := timeToHitCircle(g, p.Pos, p.Dir, geom.Right); h.time < nextTime {
			nextTime = h.time
			nextAngle = ReflectionAngle(p.Dir, h.normal)
		}
		if t := timeToHitGate(g, p.Pos, p.Dir); t < nextTime {
			nextTime = t + geom.Eps
			nextAngle = p.Dir
		}
		if t := timeToHitMiddle(g, p.Pos, p.Dir); t < nextTime {
			nextTime = t + geom.Eps
			nextAngle = p.Dir
		}

		if nextTime == g.MaxPath {
			s.ResetCounter++
			boxX := g.CircleDistance/2 + g.CircleRadius*2
			boxY := g.CircleRadius
			side := geom.Right
			if p.Pos.X < 0 {
				side = geom.Left
			}
			s.resetParticle(i, boxX, boxY, side)
			continue
		}

		p.Next.Pos = geom.Vec2{
			X: p.Pos.X + nextTime*math.Cos(p.Dir),
			Y: p.Pos.Y + nextTime*math.Sin(p.Dir),
		}
		p.Next.Time = s.Time + nextTime
		p.Next.Dir = nextAngle
		return
	}
}

// Update advances the simulation by exactly one event: the particle with
// the smallest scheduled Next.Time is committed to its new state, gate
// membership is re-evaluated on both sides, and the particle is replanned
// and reinserted into the schedule. snap, if non-nil, is invoked once per
// write_dt boundary crossed by this event with an interpolated snapshot
// of every particle.
func (s *Simulation) Update(writeDt float64, snap SnapshotFunc) {
	i := s.PeekMin()
	p := &s.Particles[i]
	nextImpact := p.Next.Time

	if writeDt > 0 {
		for nextImpact > s.LastWrittenTime+writeDt {
			s.LastWrittenTime += writeDt
			if snap != nil {
				frame := make([]Particle, len(s.Particles))
				for j := range s.Particles {
					frame[j] = s.Particles[j]
					frame[j].Pos = s.Particles[j].CurrentPosition(s.LastWrittenTime)
				}
				snap(s.LastWrittenTime, frame)
			}
		}
	}

	if !s.Geometry.InDomain(p.Next.Pos.X, p.Next.Pos.Y) {
		sign := geom.Sign(p.Next.Pos.X)
		p.Next.Pos.X = sign * (s.Geometry.CircleDistance/2 + s.Geometry.CircleRadius)
		p.Next.Pos.Y = 0
	}

	switch {
	case p.Pos.X > 0 && p.Next.Pos.X < 0:
		s.InLeft++
		s.CurrentCounters[1]++ // R->L
	case p.Pos.X < 0 && p.Next.Pos.X > 0:
		s.InLeft--
		s.CurrentCounters[0]++ // L->R
	}

	p.Pos = p.Next.Pos
	p.Dir = p.Next.Dir
	p.ImpactTime = nextImpact
	s.Time = nextImpact

	for _, side := range [2]geom.Side{geom.Left, geom.Right} {
		if s.Geometry.InGate(p.Pos.X, p.Pos.Y, side) && isGoingIn(p.Pos, p.Dir) {
			s.checkGateAdmission(i, side)
		} else {
			s.checkGateDeparture(i, side)
		}
	}

	s.computeNextImpact(i)
	// wasMinimum can't be assumed here: a gate explosion on this same
	// event (checkGateAdmission above) replans i and every gate resident
	// while i is still sitting in the heap, which can sift something
	// else to the root in the meantime. Locate i by its own heapIndex
	// instead of trusting it's still order[0].
	s.Reinsert(i, false)
	s.NumCollisions++
	s.measure()
}

// measure appends the current (time, particles-in-left) pair to the
// running time series consumed by totals reporting.
func (s *Simulation) measure() {
	s.MeasuringTimes = append(s.MeasuringTimes, s.Time)
	s.TotalLeft = append(s.TotalLeft, s.InLeft)
}

// MassSpread is the fraction of the population imbalanced between the two
// reservoirs at the most recent event, in [0, 1].
func (s *Simulation) MassSpread() float64 {
	if len(s.TotalLeft) == 0 {
		return 0
	}
	left := s.TotalLeft[len(s.TotalLeft)-1]
	return math.Abs(2*float64(left)-float64(s.NumParticles)) / float64(s.NumParticles)
}

// Counters returns a snapshot of the cumulative signed mid-line crossing
// counts: [0]=left-to-right, [1]=right-to-left. Slots 2 and 3 are
// reserved for the two-channel variant's second bridge and are always
// zero here.
func (s *Simulation) Counters() [4]int {
	return s.CurrentCounters
}

// Explosions returns a snapshot of the cumulative gate-overflow counts:
// [0]=left gate, [1]=right gate.
func (s *Simulation) Explosions() [2]int {
	return s.ExplosionCounters
}

// Currents computes the average per-direction mid-line crossing rate
// over the window [windowStart, s.Time), given the counter snapshot
// taken at windowStart. Returns all zeros if the window has non-positive
// length.
func (s *Simulation) Currents(windowStart float64, startCounters [4]int) [4]float64 {
	var out [4]float64
	dt := s.Time - windowStart
	if dt <= 0 {
		return out
	}
	for i := range out {
		out[i] = float64(s.CurrentCounters[i]-startCounters[i]) / dt
	}
	return out
}

// Finish reports the final mass spread; callers that need durable output
// (totals.dat, results.dat) do so through internal/report, which reads
// MeasuringTimes/TotalLeft directly.
func (s *Simulation) Finish() float64 {
	return s.MassSpread()
}
