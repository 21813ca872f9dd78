// Package handle resolves which node handle a connection gesture should
// snap to and whether the resulting connection is allowed.
package handle

import (
	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/geometry"
)

// Position returns the absolute attachment point of a handle on a node.
// The anchor sits in the middle of the handle's face on its side. A
// handle without a size anchors at its own offset.
func Position(node flow.Node, h flow.HandleElement) geometry.Point {
	x := h.X + node.ComputedPosition.X
	y := h.Y + node.ComputedPosition.Y
	width, height := h.Width, h.Height

	switch h.Position {
	case flow.Top:
		return geometry.Point{X: x + width/2, Y: y}
	case flow.Right:
		return geometry.Point{X: x + width, Y: y + height/2}
	case flow.Bottom:
		return geometry.Point{X: x + width/2, Y: y + height}
	case flow.Left:
		return geometry.Point{X: x, Y: y + height/2}
	}
	return geometry.Point{X: x, Y: y}
}

// Handles collects the absolute handle descriptors of one type on a node,
// skipping the handle identified by exclude.
func Handles(node flow.Node, t flow.HandleType, exclude *flow.HandleRef) []flow.ConnectionHandle {
	var result []flow.ConnectionHandle

	for _, h := range node.HandleBounds.ByType(t) {
		if exclude != nil && exclude.NodeID == node.ID && exclude.ID == h.ID && exclude.Type == t {
			continue
		}

		p := Position(node, h)
		result = append(result, flow.ConnectionHandle{
			ID:     h.ID,
			NodeID: node.ID,
			Type:   t,
			X:      p.X,
			Y:      p.Y,
		})
	}

	return result
}

// Lookup returns every source and target handle on every node except
// origin, the handle a connection gesture started from.
func Lookup(nodes []flow.Node, origin flow.HandleRef) []flow.ConnectionHandle {
	var result []flow.ConnectionHandle
	for _, n := range nodes {
		result = append(result, Handles(n, flow.Source, &origin)...)
		result = append(result, Handles(n, flow.Target, &origin)...)
	}
	return result
}

// Find returns the descriptor matching ref, if present.
func Find(handles []flow.ConnectionHandle, ref flow.HandleRef) (flow.ConnectionHandle, bool) {
	for _, h := range handles {
		if h.Matches(ref) {
			return h, true
		}
	}
	return flow.ConnectionHandle{}, false
}

// Side returns the side a handle attaches to, looked up from node layout.
func Side(node flow.Node, ref flow.HandleRef) (flow.Side, bool) {
	for _, h := range node.HandleBounds.ByType(ref.Type) {
		if h.ID == ref.ID {
			return h.Position, true
		}
	}
	return "", false
}
