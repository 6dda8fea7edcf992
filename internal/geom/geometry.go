package geom

import "math"

// Side identifies one of the two reservoirs (and, correspondingly, one
// side of the gate/bridge).
type Side int

const (
	Left Side = iota
	Right
)

// sign returns -1 for Left, +1 for Right — mirrors the original source's
// `(int)direction * 2 - 1` trick.
func (s Side) sign() float64 {
	if s == Left {
		return -1
	}
	return 1
}

// Geometry holds every constant quantity derived from the constructor
// parameters. It never changes after CoupleBridge.
type Geometry struct {
	CircleRadius   float64
	CircleDistance float64 // nominal gap between circle edges along x, pre fit-up
	BridgeHeight   float64
	BridgeLength   float64 // computed by CoupleBridge

	LeftCenterX  float64
	RightCenterX float64
	MaxPath      float64

	GateIsFlat                 bool
	LeftGateCapacity           int
	RightGateCapacity          int
	ExplosionDirectionIsRandom bool
	DistanceAsChannelLength    bool
}

// GateCapacity returns the resident cap for side s.
func (g *Geometry) GateCapacity(s Side) int {
	if s == Left {
		return g.LeftGateCapacity
	}
	return g.RightGateCapacity
}

// CenterX returns the reservoir center for side s.
func (g *Geometry) CenterX(s Side) float64 {
	if s == Left {
		return g.LeftCenterX
	}
	return g.RightCenterX
}

// CoupleBridge lengthens (or, in channel-length mode, narrows the gap of)
// the bridge so its flat rails meet the circular arcs exactly. Must be
// called once, after CircleRadius/CircleDistance/BridgeHeight are set and
// before anything else derived from BridgeLength/LeftCenterX/RightCenterX
// is used.
func (g *Geometry) CoupleBridge() {
	r := g.CircleRadius
	h := g.BridgeHeight
	discrepancy := 2*math.Sqrt(r*r-h*h/4) - 2*r
	if g.DistanceAsChannelLength {
		g.BridgeLength = g.CircleDistance
		g.CircleDistance = g.BridgeLength + discrepancy
	} else {
		g.BridgeLength = g.CircleDistance - discrepancy
	}
	g.LeftCenterX = -g.CircleDistance/2 - r
	g.RightCenterX = g.CircleDistance/2 + r
	g.MaxPath = g.CircleDistance + h + 4*r
}

// InCircle reports whether (x, y) lies strictly inside reservoir s.
func (g *Geometry) InCircle(x, y float64, s Side) bool {
	d := Vec2{X: x - g.CenterX(s), Y: y}
	return d.Len() < g.CircleRadius
}

// InBridge reports whether (x, y) lies in the bridge rectangle
// (not mutually exclusive with InCircle, and distinct from InGate).
func (g *Geometry) InBridge(x, y float64) bool {
	return absF(x) <= g.BridgeLength/2 && absF(y) <= g.BridgeHeight/2
}

// InDomain reports whether (x, y) lies anywhere in the dumbbell.
func (g *Geometry) InDomain(x, y float64) bool {
	if g.InBridge(x, y) {
		return true
	}
	if x < 0 {
		return g.InCircle(x, y, Left)
	}
	return g.InCircle(x, y, Right)
}

// InGate reports whether (x, y) lies in the gate aperture on side s: the
// flat vertical segment at x = ±BridgeLength/2 when GateIsFlat, otherwise
// the cap of the bridge rectangle carved out of the reservoir arc.
func (g *Geometry) InGate(x, y float64, s Side) bool {
	if g.GateIsFlat {
		return s.sign()*x >= 0 && absF(x) <= g.BridgeLength/2
	}
	return s.sign()*x >= 0 && !g.InCircle(x, y, s)
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
