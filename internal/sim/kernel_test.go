package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"dumbbellgas/internal/geom"
)

func testGeom() *geom.Geometry {
	g := &geom.Geometry{
		CircleRadius:   1,
		CircleDistance: 1,
		BridgeHeight:   0.2,
		GateIsFlat:     true,
	}
	g.CoupleBridge()
	return g
}

func TestTimeToHitBridgeHitsTopRail(t *testing.T) {
	g := testGeom()
	pos := geom.Vec2{X: 0, Y: 0}
	h := timeToHitBridge(g, pos, math.Pi/2) // straight up
	assert.InDelta(t, g.BridgeHeight/2, h.time, 1e-9)
	assert.InDelta(t, -math.Pi/2, h.normal, 1e-9)
}

func TestTimeToHitBridgeHitsBottomRail(t *testing.T) {
	g := testGeom()
	pos := geom.Vec2{X: 0, Y: 0}
	h := timeToHitBridge(g, pos, -math.Pi/2) // straight down
	assert.InDelta(t, g.BridgeHeight/2, h.time, 1e-9)
	assert.InDelta(t, math.Pi/2, h.normal, 1e-9)
}

func TestTimeToHitCircleFindsArc(t *testing.T) {
	g := testGeom()
	pos := geom.Vec2{X: g.RightCenterX, Y: 0}
	h := timeToHitCircle(g, pos, 0, geom.Right)
	assert.InDelta(t, g.CircleRadius, h.time, 1e-9)
}

func TestReflectionAngleNormalIncidence(t *testing.T) {
	// Straight up into the top rail (normal pointing down into the
	// bridge, -pi/2): should bounce straight back down.
	out := ReflectionAngle(math.Pi/2, -math.Pi/2)
	assert.InDelta(t, -math.Pi/2, out, 1e-9)
}

func TestTimeToHitGateFlat(t *testing.T) {
	g := testGeom()
	pos := geom.Vec2{X: 0, Y: 0}
	dist := timeToHitGate(g, pos, 0) // straight right
	assert.InDelta(t, g.BridgeLength/2, dist, 1e-9)
}

func TestTimeToHitMiddleFindsCenterline(t *testing.T) {
	g := testGeom()
	pos := geom.Vec2{X: -0.1, Y: 0}
	dist := timeToHitMiddle(g, pos, 0) // straight right, crossing x=0
	assert.InDelta(t, 0.1, dist, 1e-9)
}

func TestTimeToHitMiddleParallelNeverHits(t *testing.T) {
	g := testGeom()
	pos := geom.Vec2{X: -0.1, Y: 0}
	dist := timeToHitMiddle(g, pos, math.Pi/2) // straight up, never crosses x=0
	assert.InDelta(t, g.MaxPath, dist, 1e-9)
}
