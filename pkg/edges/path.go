// Package edges computes renderable edge paths and label anchors from
// endpoint positions and their connection sides.
package edges

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
)

// Path is the result of every path builder.
type Path struct {
	// D is an SVG path description.
	D string `json:"path"`
	// LabelX, LabelY is the label anchor.
	LabelX float64 `json:"labelX"`
	LabelY float64 `json:"labelY"`
	// OffsetX, OffsetY is the displacement of the anchor from the source.
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// Kind selects a path builder.
type Kind string

const (
	KindDefault      Kind = "default"
	KindBezier       Kind = "bezier"
	KindSimpleBezier Kind = "simplebezier"
	KindStraight     Kind = "straight"
	KindStep         Kind = "step"
	KindSmoothStep   Kind = "smoothstep"
)

// Kinds lists every supported kind.
func Kinds() []Kind {
	return []Kind{KindDefault, KindBezier, KindSimpleBezier, KindStraight, KindStep, KindSmoothStep}
}

// Endpoints are the parameters shared by all builders.
type Endpoints struct {
	SourceX, SourceY float64
	SourcePosition   flow.Side
	TargetX, TargetY float64
	TargetPosition   flow.Side
}

func (e Endpoints) withDefaults() Endpoints {
	if e.SourcePosition == "" {
		e.SourcePosition = flow.Bottom
	}
	if e.TargetPosition == "" {
		e.TargetPosition = flow.Top
	}
	return e
}

// Options carries the builder-specific tuning values for Build.
// Zero values select each builder's defaults.
type Options struct {
	Curvature    *float64
	BorderRadius *float64
	Offset       *float64
}

// Build dispatches to the builder for kind. Unknown kinds are an error.
func Build(kind Kind, ep Endpoints, opts Options) (Path, error) {
	switch kind {
	case KindDefault, KindBezier, "":
		return Bezier(BezierParams{Endpoints: ep, Curvature: opts.Curvature}), nil
	case KindSimpleBezier:
		return SimpleBezier(ep), nil
	case KindStraight:
		return Straight(ep), nil
	case KindStep:
		return Step(SmoothStepParams{Endpoints: ep, Offset: opts.Offset}), nil
	case KindSmoothStep:
		return SmoothStep(SmoothStepParams{Endpoints: ep, BorderRadius: opts.BorderRadius, Offset: opts.Offset}), nil
	}
	return Path{}, fmt.Errorf("unknown edge kind %q", kind)
}

// EdgeCenter returns the midpoint of a straight edge and the half
// distances along each axis.
func EdgeCenter(sourceX, sourceY, targetX, targetY float64) (centerX, centerY, offsetX, offsetY float64) {
	offsetX = math.Abs(targetX-sourceX) / 2
	if targetX < sourceX {
		centerX = targetX + offsetX
	} else {
		centerX = targetX - offsetX
	}

	offsetY = math.Abs(targetY-sourceY) / 2
	if targetY < sourceY {
		centerY = targetY + offsetY
	} else {
		centerY = targetY - offsetY
	}

	return centerX, centerY, offsetX, offsetY
}

// bezierCenter is the t=0.5 point of the cubic, plus its offset from
// the source.
func bezierCenter(sx, sy, scx, scy, tcx, tcy, tx, ty float64) (centerX, centerY, offsetX, offsetY float64) {
	centerX = sx*0.125 + scx*0.375 + tcx*0.375 + tx*0.125
	centerY = sy*0.125 + scy*0.375 + tcy*0.375 + ty*0.125
	return centerX, centerY, math.Abs(centerX - sx), math.Abs(centerY - sy)
}

// num formats a coordinate with the shortest exact representation.
func num(v float64) string {
	if v == 0 {
		// avoid "-0"
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func pair(x, y float64) string {
	return num(x) + "," + num(y)
}

type pathWriter struct {
	sb strings.Builder
}

func (w *pathWriter) cmd(c string, coords ...float64) {
	w.sb.WriteString(c)
	for i := 0; i+1 < len(coords); i += 2 {
		if i > 0 {
			w.sb.WriteByte(' ')
		}
		w.sb.WriteString(pair(coords[i], coords[i+1]))
	}
}

func (w *pathWriter) sep() {
	w.sb.WriteByte(' ')
}

func (w *pathWriter) String() string {
	return w.sb.String()
}
