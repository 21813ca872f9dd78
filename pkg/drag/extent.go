// Package drag computes where dragged nodes may go: extent resolution,
// position clamping and the per-gesture drag items.
package drag

import (
	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/geometry"
)

// ExpandPadding expands box-model shorthand into [top, right, bottom, left].
// Lengths other than 1 to 4 expand to zeros.
func ExpandPadding(p flow.Padding) [4]float64 {
	switch len(p) {
	case 1:
		return [4]float64{p[0], p[0], p[0], p[0]}
	case 2:
		return [4]float64{p[0], p[1], p[0], p[1]}
	case 3:
		return [4]float64{p[0], p[1], p[2], p[1]}
	case 4:
		return [4]float64{p[0], p[1], p[2], p[3]}
	}
	return [4]float64{}
}

// inset shrinks e by the expanded padding.
func inset(e flow.CoordinateExtent, p flow.Padding) flow.CoordinateExtent {
	pad := ExpandPadding(p)
	top, right, bottom, left := pad[0], pad[1], pad[2], pad[3]
	return flow.CoordinateExtent{
		{e[0][0] + left, e[0][1] + top},
		{e[1][0] - right, e[1][1] - bottom},
	}
}

// ResolveExtent turns the item's extent (or defaultExtent when the item has
// none) into an absolute box.
//
// A parent extent needs a parent node and known item dimensions; without
// them the returned error wraps flow.ErrExtentInvalid and the extent falls
// back to defaultExtent. Explicit boxes are parent-relative and get
// translated by the parent's absolute position. Items that expand their
// parent are never held inside it.
func ResolveExtent(item Item, defaultExtent flow.Extent, parent *flow.Node) (flow.CoordinateExtent, error) {
	current := item.Extent
	if current == nil {
		current = defaultExtent
	}

	var origin geometry.Point
	if parent != nil {
		origin = parent.ComputedPosition
	}

	switch ext := current.(type) {
	case flow.ParentExtent:
		if item.ExpandParent {
			return flow.Infinite, nil
		}
		if item.ParentID == "" || parent == nil || item.Dimensions.IsZero() {
			return fallback(defaultExtent), flow.NewError(flow.CodeExtentInvalid, item.ID)
		}
		box := flow.CoordinateExtent{
			{origin.X, origin.Y},
			{origin.X + parent.Dimensions.Width, origin.Y + parent.Dimensions.Height},
		}
		return inset(box, ext.Padding), nil

	case flow.BoxExtent:
		return ext.Box.Translate(origin.X, origin.Y), nil

	case flow.RangeExtent:
		return inset(ext.Box.Translate(origin.X, origin.Y), ext.Padding), nil
	}

	return flow.Infinite, nil
}

// fallback resolves the ambient default without any parent context.
func fallback(def flow.Extent) flow.CoordinateExtent {
	switch ext := def.(type) {
	case flow.BoxExtent:
		return ext.Box
	case flow.RangeExtent:
		return inset(ext.Box, ext.Padding)
	}
	return flow.Infinite
}
