// Cubic Bézier evaluation used to check label anchors and measure edges.

package geometry

// CubicBezier is a single cubic segment: start, two controls, end.
type CubicBezier struct {
	P0, P1, P2, P3 Point
}

// At computes the point on the curve at parameter t ∈ [0,1].
func (c CubicBezier) At(t float64) Point {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	mt := 1 - t
	mt2 := mt * mt
	mt3 := mt2 * mt
	t2 := t * t
	t3 := t2 * t

	return Point{
		X: mt3*c.P0.X + 3*mt2*t*c.P1.X + 3*mt*t2*c.P2.X + t3*c.P3.X,
		Y: mt3*c.P0.Y + 3*mt2*t*c.P1.Y + 3*mt*t2*c.P2.Y + t3*c.P3.Y,
	}
}

// Tangent computes the derivative of the curve at t.
func (c CubicBezier) Tangent(t float64) Point {
	mt := 1 - t
	mt2 := mt * mt
	t2 := t * t

	return Point{
		X: 3*mt2*(c.P1.X-c.P0.X) + 6*mt*t*(c.P2.X-c.P1.X) + 3*t2*(c.P3.X-c.P2.X),
		Y: 3*mt2*(c.P1.Y-c.P0.Y) + 6*mt*t*(c.P2.Y-c.P1.Y) + 3*t2*(c.P3.Y-c.P2.Y),
	}
}

// Midpoint returns the point at t=0.5. It equals
// 0.125*P0 + 0.375*P1 + 0.375*P2 + 0.125*P3.
func (c CubicBezier) Midpoint() Point {
	return c.At(0.5)
}

// Length approximates the arc length by sampling.
func (c CubicBezier) Length() float64 {
	const numSamples = 100

	length := 0.0
	prev := c.P0
	for i := 1; i <= numSamples; i++ {
		curr := c.At(float64(i) / numSamples)
		length += Distance(prev, curr)
		prev = curr
	}

	return length
}

// ControlBounds returns the bounding box of the control polygon,
// which always contains the curve.
func (c CubicBezier) ControlBounds() Rect {
	return Bounds([]Point{c.P0, c.P1, c.P2, c.P3})
}
