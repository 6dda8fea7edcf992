package sim

import (
	"math"

	"dumbbellgas/internal/geom"
)

// hit is the outcome of a single boundary test: how far along the ray
// (in units of travel distance, since speed is unit) the boundary is hit,
// and the surface normal angle at that point, pointing back into the
// domain (meaningless for non-reflective boundaries).
type hit struct {
	time   float64 // geom.Eps < time, biased by ±Eps already
	normal float64
}

// circleIntersections solves the quadratic for the two (possibly
// out-of-range) roots of the ray p + t*r against the circle centered at
// (centerX, 0) with radius g.CircleRadius, where r = MaxPath*(cos a, sin a).
// Returns t1 <= t2 when real, or ok=false when the discriminant is negative.
func circleIntersections(g *geom.Geometry, pos geom.Vec2, dir, centerX float64) (t1, t2 float64, ok bool) {
	addX := g.MaxPath * math.Cos(dir)
	addY := g.MaxPath * math.Sin(dir)
	r := g.CircleRadius
	tPosX := (pos.X - centerX) / r
	tPosY := pos.Y / r
	tAddX := addX / r
	tAddY := addY / r

	a := tAddX*tAddX + tAddY*tAddY
	b := 2*tPosX*tAddX + 2*tPosY*tAddY
	c := tPosX*tPosX + tPosY*tPosY - 1
	d := b*b - 4*a*c
	if d < 0 {
		return 0, 0, false
	}
	sq := math.Sqrt(d)
	t1 = (-b - sq) / (2 * a)
	t2 = (-b + sq) / (2 * a)
	return t1, t2, true
}

// timeToHitBridge returns the travel distance to whichever bridge rail
// (top or bottom) the particle hits first, or g.MaxPath if neither.
func timeToHitBridge(g *geom.Geometry, pos geom.Vec2, dir float64) hit {
	rx := g.MaxPath * math.Cos(dir)
	ry := g.MaxPath * math.Sin(dir)
	sx := g.BridgeLength
	sy := 0.0

	denom := rx*sy - ry*sx
	minT := 1.0
	normal := 0.0
	if denom != 0 {
		// bottom rail: q = (-L/2, -h/2)
		u1 := ((-g.BridgeLength/2-pos.X)*ry - (-g.BridgeHeight/2-pos.Y)*rx) / denom
		t1 := ((-g.BridgeLength/2-pos.X)*sy - (-g.BridgeHeight/2-pos.Y)*sx) / denom
		// top rail: q = (-L/2, +h/2)
		u2 := ((-g.BridgeLength/2-pos.X)*ry - (g.BridgeHeight/2-pos.Y)*rx) / denom
		t2 := ((-g.BridgeLength/2-pos.X)*sy - (g.BridgeHeight/2-pos.Y)*sx) / denom

		if geom.Eps < t1 && t1 < minT && 0 <= u1 && u1 <= 1 {
			minT = t1 - geom.Eps
			normal = math.Pi / 2
		}
		if geom.Eps < t2 && t2 < minT && 0 <= u2 && u2 <= 1 {
			minT = t2 - geom.Eps
			normal = -math.Pi / 2
		}
	}
	return hit{time: minT * g.MaxPath, normal: normal}
}

// timeToHitCircle returns the travel distance to the nearest point on
// reservoir side's arc, masked out where that arc lies inside the bridge
// rectangle (handled by the rail/gate tests instead).
func timeToHitCircle(g *geom.Geometry, pos geom.Vec2, dir float64, s geom.Side) hit {
	centerX := g.CenterX(s)
	addX := g.MaxPath * math.Cos(dir)
	addY := g.MaxPath * math.Sin(dir)

	minT := 1.0
	normal := 0.0
	t1, t2, ok := circleIntersections(g, pos, dir, centerX)
	if !ok {
		return hit{time: minT * g.MaxPath}
	}
	if geom.Eps < t1 && t1 < minT {
		ix := pos.X + t1*addX
		iy := pos.Y + t1*addY
		if !g.InBridge(ix, iy) {
			normal = math.Atan2(0-iy, centerX-ix)
			minT = t1 - geom.Eps
		}
	}
	if geom.Eps < t2 && t2 < minT {
		ix := pos.X + t2*addX
		iy := pos.Y + t2*addY
		if !g.InBridge(ix, iy) {
			normal = math.Atan2(0-iy, centerX-ix)
			minT = t2 - geom.Eps
		}
	}
	return hit{time: minT * g.MaxPath, normal: normal}
}

// timeToHitGate returns the travel distance to the gate aperture: the
// vertical planes at x = ±L/2 for a flat gate, or the in-bridge portion
// of either reservoir arc for a circular one. The gate is non-reflective:
// the caller keeps the incoming direction.
func timeToHitGate(g *geom.Geometry, pos geom.Vec2, dir float64) float64 {
	if g.GateIsFlat {
		minPath := g.MaxPath
		cosA := math.Cos(dir)
		if cosA != 0 {
			toLeft := (-g.BridgeLength/2 - pos.X) / cosA
			toRight := (g.BridgeLength/2 - pos.X) / cosA
			if toLeft > 0 && toLeft < minPath {
				minPath = toLeft
			}
			if toRight > 0 && toRight < minPath {
				minPath = toRight
			}
		}
		return minPath
	}

	minT := 1.0
	addX := g.MaxPath * math.Cos(dir)
	addY := g.MaxPath * math.Sin(dir)
	for _, s := range []geom.Side{geom.Left, geom.Right} {
		centerX := g.CenterX(s)
		t1, t2, ok := circleIntersections(g, pos, dir, centerX)
		if !ok {
			continue
		}
		if geom.Eps < t1 && t1 < minT {
			ix := pos.X + t1*addX
			iy := pos.Y + t1*addY
			if g.InBridge(ix, iy) {
				minT = t1
			}
		}
		if geom.Eps < t2 && t2 < minT {
			ix := pos.X + t2*addX
			iy := pos.Y + t2*addY
			if g.InBridge(ix, iy) {
				minT = t2
			}
		}
	}
	return minT * g.MaxPath
}

// timeToHitMiddle returns the travel distance to the synthetic vertical
// barrier at x = 0, |y| <= h/2 — used only to resynchronize the in_left
// count at the exact crossing instant.
func timeToHitMiddle(g *geom.Geometry, pos geom.Vec2, dir float64) float64 {
	rx := g.MaxPath * math.Cos(dir)
	ry := g.MaxPath * math.Sin(dir)
	sy := g.BridgeHeight

	minT := 1.0
	denom := rx * sy
	if denom != 0 {
		u := ((0-pos.X)*ry - (-g.BridgeHeight/2-pos.Y)*rx) / denom
		t := ((0 - pos.X) * sy) / denom
		if geom.Eps < t && t < minT && 0 <= u && u <= 1 {
			minT = t + geom.Eps
		}
	}
	return minT * g.MaxPath
}

// ReflectionAngle computes the outgoing direction for a specular bounce
// off a surface with normal angle `normal`, given incoming
// direction `in`.
func ReflectionAngle(in, normal float64) float64 {
	out := math.Mod(2*normal-in+math.Pi, 2*math.Pi)
	return out
}
