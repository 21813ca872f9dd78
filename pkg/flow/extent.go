package flow

import "math"

// CoordinateExtent is an axis-aligned box [[minX, minY], [maxX, maxY]].
type CoordinateExtent [2][2]float64

// Infinite is the extent that never constrains a position.
var Infinite = CoordinateExtent{
	{math.Inf(-1), math.Inf(-1)},
	{math.Inf(1), math.Inf(1)},
}

// Translate shifts the extent by (dx, dy).
func (e CoordinateExtent) Translate(dx, dy float64) CoordinateExtent {
	return CoordinateExtent{
		{e[0][0] + dx, e[0][1] + dy},
		{e[1][0] + dx, e[1][1] + dy},
	}
}

// Padding insets an extent. It follows box-model shorthand:
// 1 value = all sides, 2 = [vertical, horizontal],
// 3 = [top, horizontal, bottom], 4 = [top, right, bottom, left].
type Padding []float64

// Extent constrains where a node may be dragged. A nil Extent means the
// ambient default applies.
type Extent interface {
	isExtent()
}

// UnboundedExtent never constrains a position.
type UnboundedExtent struct{}

// ParentExtent keeps the node inside its parent's box, inset by Padding.
type ParentExtent struct {
	Padding Padding
}

// BoxExtent is an explicit box in parent-relative coordinates.
type BoxExtent struct {
	Box CoordinateExtent
}

// RangeExtent is an explicit box in parent-relative coordinates inset by
// Padding after translation.
type RangeExtent struct {
	Box     CoordinateExtent
	Padding Padding
}

func (UnboundedExtent) isExtent() {}
func (ParentExtent) isExtent()    {}
func (BoxExtent) isExtent()       {}
func (RangeExtent) isExtent()     {}
