package drag

import (
	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/geometry"
)

// Result is a clamped drag position.
type Result struct {
	// Position is relative to the parent, or absolute without one.
	Position geometry.Point `json:"position"`
	// ComputedPosition is always absolute.
	ComputedPosition geometry.Point `json:"computedPosition"`
}

// ClampPosition clamps p component-wise into extent.
func ClampPosition(p geometry.Point, extent flow.CoordinateExtent) geometry.Point {
	return geometry.Point{
		X: geometry.Clamp(p.X, extent[0][0], extent[1][0]),
		Y: geometry.Clamp(p.Y, extent[0][1], extent[1][1]),
	}
}

// nodeExtent pulls the far corner in by the node's size so the node's far
// edge respects the boundary rather than its origin.
func nodeExtent(d flow.Dimensions, e flow.CoordinateExtent) flow.CoordinateExtent {
	return flow.CoordinateExtent{
		e[0],
		{e[1][0] - d.Width, e[1][1] - d.Height},
	}
}

// CalcNextPosition clamps the absolute target position next of a dragged
// item into its resolved extent. Extent errors go to onError and the
// ambient default is used instead.
func CalcNextPosition(item Item, next geometry.Point, defaultExtent flow.Extent, parent *flow.Node, onError flow.ErrorHandler) Result {
	extent, err := ResolveExtent(item, defaultExtent, parent)
	onError.Report(err)

	clamped := ClampPosition(next, nodeExtent(item.Dimensions, extent))

	var origin geometry.Point
	if parent != nil {
		origin = parent.ComputedPosition
	}

	return Result{
		Position:         clamped.Sub(origin),
		ComputedPosition: clamped,
	}
}
