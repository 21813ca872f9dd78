package edges

import (
	"math"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/geometry"
)

// DefaultCurvature is used when BezierParams.Curvature is nil.
const DefaultCurvature = 0.25

// BezierParams configures Bezier.
type BezierParams struct {
	Endpoints
	// Curvature eases the control offset when an endpoint is ahead of the
	// other along its side normal. nil selects DefaultCurvature.
	Curvature *float64
	// ControlOffset translates both control points.
	ControlOffset geometry.Point
}

// controlOffset projects a control point outward from its endpoint.
// A non-negative distance means the endpoint lags behind the other one.
func controlOffset(distance, curvature float64) float64 {
	if distance >= 0 {
		return 0.5 * distance
	}
	return curvature * 25 * math.Sqrt(-distance)
}

func controlWithCurvature(pos flow.Side, x1, y1, x2, y2, c float64) (float64, float64) {
	switch pos {
	case flow.Left:
		return x1 - controlOffset(x1-x2, c), y1
	case flow.Right:
		return x1 + controlOffset(x2-x1, c), y1
	case flow.Top:
		return x1, y1 - controlOffset(y1-y2, c)
	case flow.Bottom:
		return x1, y1 + controlOffset(y2-y1, c)
	}
	return x1, y1
}

// BezierControls returns the cubic segment Bezier would draw.
func BezierControls(p BezierParams) geometry.CubicBezier {
	ep := p.Endpoints.withDefaults()
	curvature := DefaultCurvature
	if p.Curvature != nil {
		curvature = *p.Curvature
	}

	scx, scy := controlWithCurvature(ep.SourcePosition, ep.SourceX, ep.SourceY, ep.TargetX, ep.TargetY, curvature)
	tcx, tcy := controlWithCurvature(ep.TargetPosition, ep.TargetX, ep.TargetY, ep.SourceX, ep.SourceY, curvature)

	return geometry.CubicBezier{
		P0: geometry.Pt(ep.SourceX, ep.SourceY),
		P1: geometry.Pt(scx, scy).Add(p.ControlOffset),
		P2: geometry.Pt(tcx, tcy).Add(p.ControlOffset),
		P3: geometry.Pt(ep.TargetX, ep.TargetY),
	}
}

// Bezier builds a cubic edge whose control points extend along each
// endpoint's side normal.
func Bezier(p BezierParams) Path {
	c := BezierControls(p)

	cx, cy, ox, oy := bezierCenter(c.P0.X, c.P0.Y, c.P1.X, c.P1.Y, c.P2.X, c.P2.Y, c.P3.X, c.P3.Y)

	var w pathWriter
	w.cmd("M", c.P0.X, c.P0.Y)
	w.sep()
	w.cmd("C", c.P1.X, c.P1.Y, c.P2.X, c.P2.Y, c.P3.X, c.P3.Y)

	return Path{D: w.String(), LabelX: cx, LabelY: cy, OffsetX: ox, OffsetY: oy}
}

func simpleControl(pos flow.Side, x1, y1, x2, y2 float64) (float64, float64) {
	if pos == flow.Left || pos == flow.Right {
		return 0.5 * (x1 + x2), y1
	}
	return x1, 0.5 * (y1 + y2)
}

// SimpleBezier builds a cubic edge with control points at the axis
// midpoint between the endpoints.
func SimpleBezier(ep Endpoints) Path {
	ep = ep.withDefaults()

	scx, scy := simpleControl(ep.SourcePosition, ep.SourceX, ep.SourceY, ep.TargetX, ep.TargetY)
	tcx, tcy := simpleControl(ep.TargetPosition, ep.TargetX, ep.TargetY, ep.SourceX, ep.SourceY)

	cx, cy, ox, oy := bezierCenter(ep.SourceX, ep.SourceY, scx, scy, tcx, tcy, ep.TargetX, ep.TargetY)

	var w pathWriter
	w.cmd("M", ep.SourceX, ep.SourceY)
	w.sep()
	w.cmd("C", scx, scy, tcx, tcy, ep.TargetX, ep.TargetY)

	return Path{D: w.String(), LabelX: cx, LabelY: cy, OffsetX: ox, OffsetY: oy}
}

// Straight builds a line between the endpoints.
func Straight(ep Endpoints) Path {
	cx, cy, ox, oy := EdgeCenter(ep.SourceX, ep.SourceY, ep.TargetX, ep.TargetY)

	var w pathWriter
	w.cmd("M", ep.SourceX, ep.SourceY)
	w.sep()
	w.cmd("L", ep.TargetX, ep.TargetY)

	return Path{D: w.String(), LabelX: cx, LabelY: cy, OffsetX: ox, OffsetY: oy}
}
