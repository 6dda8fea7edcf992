// Package geom implements the dumbbell domain's static geometry: vectors,
// in-domain predicates and the bridge/circle fit-up.
package geom

import "math"

// Eps is the floating tolerance used throughout the kernel to nudge an
// accepted event time to the correct side of the boundary it crossed.
const Eps = 1e-14

// Vec2 is a point or displacement in the plane.
type Vec2 struct{ X, Y float64 }

func (a Vec2) Add(b Vec2) Vec2      { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2      { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Dot(b Vec2) float64   { return a.X*b.X + a.Y*b.Y }
func (a Vec2) Len() float64         { return math.Sqrt(a.Dot(a)) }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }

// Sign returns -1, 0 or 1 for the sign of v.
func Sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
