package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCubicBezierEndpoints(t *testing.T) {
	c := CubicBezier{Pt(0, 0), Pt(30, 50), Pt(70, 50), Pt(100, 100)}

	p0 := c.At(0)
	assert.InDelta(t, 0, p0.X, 0.1)
	assert.InDelta(t, 0, p0.Y, 0.1)

	p1 := c.At(1)
	assert.InDelta(t, 100, p1.X, 0.1)
	assert.InDelta(t, 100, p1.Y, 0.1)

	// Out-of-range parameters clamp to the ends.
	assert.Equal(t, c.At(0), c.At(-1))
	assert.Equal(t, c.At(1), c.At(2))
}

func TestCubicBezierMidpointWeights(t *testing.T) {
	c := CubicBezier{Pt(0, 0), Pt(0, 80), Pt(200, 20), Pt(200, 100)}

	mid := c.Midpoint()
	wantX := 0*0.125 + 0*0.375 + 200*0.375 + 200*0.125
	wantY := 0*0.125 + 80*0.375 + 20*0.375 + 100*0.125

	assert.InDelta(t, wantX, mid.X, 1e-9)
	assert.InDelta(t, wantY, mid.Y, 1e-9)
}

func TestCubicBezierLengthStraight(t *testing.T) {
	c := CubicBezier{Pt(0, 0), Pt(25, 0), Pt(75, 0), Pt(100, 0)}
	assert.InDelta(t, 100, c.Length(), 1)
}

func TestCubicBezierTangent(t *testing.T) {
	c := CubicBezier{Pt(0, 0), Pt(25, 0), Pt(75, 0), Pt(100, 0)}

	tangent := c.Tangent(0.5)
	assert.Greater(t, tangent.X, 0.0)
	assert.InDelta(t, 0, tangent.Y, 0.1)
}

func TestControlBoundsContainCurve(t *testing.T) {
	c := CubicBezier{Pt(0, 0), Pt(-40, 120), Pt(160, -60), Pt(100, 100)}
	bounds := c.ControlBounds()

	for i := 0; i <= 20; i++ {
		p := c.At(float64(i) / 20)
		assert.True(t, bounds.Contains(p), "point %v outside %v", p, bounds)
	}
}
