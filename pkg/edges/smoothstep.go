package edges

import (
	"math"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/geometry"
)

// Defaults for SmoothStep.
const (
	DefaultBorderRadius = 5.0
	DefaultStepOffset   = 20.0
)

// SmoothStepParams configures SmoothStep and Step.
type SmoothStepParams struct {
	Endpoints
	// BorderRadius rounds each bend; nil selects DefaultBorderRadius.
	BorderRadius *float64
	// Offset is the straight run leaving each handle; nil selects
	// DefaultStepOffset.
	Offset *float64
	// CenterX, CenterY override where the middle segment runs when the
	// handles face each other.
	CenterX, CenterY *float64
}

var sideDirections = map[flow.Side]geometry.Point{
	flow.Left:   {X: -1, Y: 0},
	flow.Right:  {X: 1, Y: 0},
	flow.Top:    {X: 0, Y: -1},
	flow.Bottom: {X: 0, Y: 1},
}

type axis int

const (
	axisX axis = iota
	axisY
)

func (a axis) other() axis {
	if a == axisX {
		return axisY
	}
	return axisX
}

func get(p geometry.Point, a axis) float64 {
	if a == axisX {
		return p.X
	}
	return p.Y
}

func set(p *geometry.Point, a axis, v float64) {
	if a == axisX {
		p.X = v
	} else {
		p.Y = v
	}
}

func stepDirection(source geometry.Point, sourcePosition flow.Side, target geometry.Point) geometry.Point {
	if sourcePosition == flow.Left || sourcePosition == flow.Right {
		if source.X < target.X {
			return geometry.Point{X: 1}
		}
		return geometry.Point{X: -1}
	}
	if source.Y < target.Y {
		return geometry.Point{Y: 1}
	}
	return geometry.Point{Y: -1}
}

// stepPoints routes an orthogonal polyline from source to target. It
// returns the polyline (source and target included) and the label anchor.
func stepPoints(ep Endpoints, center [2]*float64, offset float64) (points []geometry.Point, labelX, labelY, offsetX, offsetY float64) {
	source := geometry.Pt(ep.SourceX, ep.SourceY)
	target := geometry.Pt(ep.TargetX, ep.TargetY)
	sourceDir := sideDirections[ep.SourcePosition]
	targetDir := sideDirections[ep.TargetPosition]

	sourceGapped := source.Add(sourceDir.Scale(offset))
	targetGapped := target.Add(targetDir.Scale(offset))

	dir := stepDirection(sourceGapped, ep.SourcePosition, targetGapped)
	acc := axisY
	if dir.X != 0 {
		acc = axisX
	}
	currDir := get(dir, acc)

	var mid []geometry.Point
	var sourceGapOffset, targetGapOffset geometry.Point

	defaultCX, defaultCY, defaultOX, defaultOY := EdgeCenter(source.X, source.Y, target.X, target.Y)

	if get(sourceDir, acc)*get(targetDir, acc) == -1 {
		// opposite handle sides
		labelX, labelY = defaultCX, defaultCY
		if center[0] != nil {
			labelX = *center[0]
		}
		if center[1] != nil {
			labelY = *center[1]
		}

		verticalSplit := []geometry.Point{{X: labelX, Y: sourceGapped.Y}, {X: labelX, Y: targetGapped.Y}}
		horizontalSplit := []geometry.Point{{X: sourceGapped.X, Y: labelY}, {X: targetGapped.X, Y: labelY}}

		if get(sourceDir, acc) == currDir {
			if acc == axisX {
				mid = verticalSplit
			} else {
				mid = horizontalSplit
			}
		} else {
			if acc == axisX {
				mid = horizontalSplit
			} else {
				mid = verticalSplit
			}
		}
	} else {
		// sourceTarget takes x from source and y from target.
		sourceTarget := []geometry.Point{{X: sourceGapped.X, Y: targetGapped.Y}}
		targetSource := []geometry.Point{{X: targetGapped.X, Y: sourceGapped.Y}}

		if acc == axisX {
			if sourceDir.X == currDir {
				mid = targetSource
			} else {
				mid = sourceTarget
			}
		} else {
			if sourceDir.Y == currDir {
				mid = sourceTarget
			} else {
				mid = targetSource
			}
		}

		if ep.SourcePosition == ep.TargetPosition {
			// Same-side handles closer than the offset would fold the
			// gapped points onto the bend; pull one of them back.
			diff := math.Abs(get(source, acc) - get(target, acc))
			if diff <= offset {
				gapOffset := math.Min(offset-1, offset-diff)
				if get(sourceDir, acc) == currDir {
					sign := 1.0
					if get(sourceGapped, acc) > get(source, acc) {
						sign = -1
					}
					set(&sourceGapOffset, acc, sign*gapOffset)
				} else {
					sign := 1.0
					if get(targetGapped, acc) > get(target, acc) {
						sign = -1
					}
					set(&targetGapOffset, acc, sign*gapOffset)
				}
			}
		}

		if ep.SourcePosition != ep.TargetPosition {
			opp := acc.other()
			isSameDir := get(sourceDir, acc) == get(targetDir, opp)
			sourceGtTarget := get(sourceGapped, opp) > get(targetGapped, opp)
			sourceLtTarget := get(sourceGapped, opp) < get(targetGapped, opp)
			flip := (get(sourceDir, acc) == 1 && ((!isSameDir && sourceGtTarget) || (isSameDir && sourceLtTarget))) ||
				(get(sourceDir, acc) != 1 && ((!isSameDir && sourceLtTarget) || (isSameDir && sourceGtTarget)))

			if flip {
				if acc == axisX {
					mid = sourceTarget
				} else {
					mid = targetSource
				}
			}
		}

		sourceGapPoint := sourceGapped.Add(sourceGapOffset)
		targetGapPoint := targetGapped.Add(targetGapOffset)
		maxXDistance := math.Max(math.Abs(sourceGapPoint.X-mid[0].X), math.Abs(targetGapPoint.X-mid[0].X))
		maxYDistance := math.Max(math.Abs(sourceGapPoint.Y-mid[0].Y), math.Abs(targetGapPoint.Y-mid[0].Y))

		// the label sits on the longest segment
		if maxXDistance >= maxYDistance {
			labelX = (sourceGapPoint.X + targetGapPoint.X) / 2
			labelY = mid[0].Y
		} else {
			labelX = mid[0].X
			labelY = (sourceGapPoint.Y + targetGapPoint.Y) / 2
		}
	}

	points = make([]geometry.Point, 0, len(mid)+4)
	points = append(points, source, sourceGapped.Add(sourceGapOffset))
	points = append(points, mid...)
	points = append(points, targetGapped.Add(targetGapOffset), target)

	return points, labelX, labelY, defaultOX, defaultOY
}

// bend draws the corner at b between segments a→b and b→c as a
// quadratic curve of at most size radius.
func bend(w *pathWriter, a, b, c geometry.Point, size float64) {
	bendSize := math.Min(math.Min(geometry.Distance(a, b)/2, geometry.Distance(b, c)/2), size)
	x, y := b.X, b.Y

	if (a.X == x && x == c.X) || (a.Y == y && y == c.Y) {
		w.cmd("L", x, y)
		return
	}

	if a.Y == y {
		// first segment is horizontal
		xDir := 1.0
		if a.X < c.X {
			xDir = -1
		}
		yDir := -1.0
		if a.Y < c.Y {
			yDir = 1
		}
		w.cmd("L", x+bendSize*xDir, y)
		w.cmd("Q", x, y, x, y+bendSize*yDir)
		return
	}

	xDir := -1.0
	if a.X < c.X {
		xDir = 1
	}
	yDir := 1.0
	if a.Y < c.Y {
		yDir = -1
	}
	w.cmd("L", x, y+bendSize*yDir)
	w.cmd("Q", x, y, x+bendSize*xDir, y)
}

// StepPoints returns the orthogonal polyline SmoothStep rounds off.
func StepPoints(p SmoothStepParams) []geometry.Point {
	ep := p.Endpoints.withDefaults()
	offset := DefaultStepOffset
	if p.Offset != nil {
		offset = *p.Offset
	}
	points, _, _, _, _ := stepPoints(ep, [2]*float64{p.CenterX, p.CenterY}, offset)
	return points
}

// SmoothStep builds an orthogonal edge with rounded bends.
func SmoothStep(p SmoothStepParams) Path {
	ep := p.Endpoints.withDefaults()
	radius := DefaultBorderRadius
	if p.BorderRadius != nil {
		radius = *p.BorderRadius
	}
	offset := DefaultStepOffset
	if p.Offset != nil {
		offset = *p.Offset
	}

	points, lx, ly, ox, oy := stepPoints(ep, [2]*float64{p.CenterX, p.CenterY}, offset)

	var w pathWriter
	for i, pt := range points {
		switch {
		case i == 0:
			w.cmd("M", pt.X, pt.Y)
		case i == len(points)-1:
			w.cmd("L", pt.X, pt.Y)
		default:
			bend(&w, points[i-1], pt, points[i+1], radius)
		}
	}

	return Path{D: w.String(), LabelX: lx, LabelY: ly, OffsetX: ox, OffsetY: oy}
}

// Step builds an orthogonal edge with square bends.
func Step(p SmoothStepParams) Path {
	zero := 0.0
	p.BorderRadius = &zero
	return SmoothStep(p)
}
