package changes

import (
	"math"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/geometry"
)

// absolutePosition resolves n's position against its parent's computed
// position, or returns it unchanged when there is no parent in nodes.
func absolutePosition(nodes []flow.Node, n flow.Node) geometry.Point {
	if n.ParentID == "" {
		return n.Position
	}
	if p := flow.FindNode(nodes, n.ParentID); p != nil {
		return p.ComputedPosition.Add(n.Position)
	}
	return n.Position
}

// expandParent grows the parent of nodes[i] so the child fits inside it.
// A child at a negative position shifts the parent instead and is moved
// back to the parent's origin on that axis.
func expandParent(nodes []flow.Node, i int) {
	child := &nodes[i]
	if !child.ExpandParent || child.ParentID == "" {
		return
	}
	p := indexOf(nodes, child.ParentID)
	if p < 0 || p == i {
		return
	}
	parent := &nodes[p]

	extendWidth := child.Position.X + child.Dimensions.Width - parent.Dimensions.Width
	extendHeight := child.Position.Y + child.Dimensions.Height - parent.Dimensions.Height

	if extendWidth > 0 {
		parent.Dimensions.Width += extendWidth
	}
	if extendHeight > 0 {
		parent.Dimensions.Height += extendHeight
	}

	if child.Position.X < 0 {
		d := math.Abs(child.Position.X)
		parent.Position.X -= d
		parent.ComputedPosition.X -= d
		parent.Dimensions.Width += d
		child.Position.X = 0
	}
	if child.Position.Y < 0 {
		d := math.Abs(child.Position.Y)
		parent.Position.Y -= d
		parent.ComputedPosition.Y -= d
		parent.Dimensions.Height += d
		child.Position.Y = 0
	}
}

// RefreshComputed recomputes every node's absolute position from its
// parent chain, in place. A node whose parent is missing is absolute.
// Parent cycles are cut where the chain revisits a node.
func RefreshComputed(nodes []flow.Node) []flow.Node {
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
	}

	done := make([]bool, len(nodes))
	visiting := make([]bool, len(nodes))

	var resolve func(i int) geometry.Point
	resolve = func(i int) geometry.Point {
		n := &nodes[i]
		if done[i] {
			return n.ComputedPosition
		}

		n.ComputedPosition = n.Position
		if p, ok := index[n.ParentID]; ok && n.ParentID != "" && !visiting[i] {
			visiting[i] = true
			if !visiting[p] {
				n.ComputedPosition = resolve(p).Add(n.Position)
			}
			visiting[i] = false
		}

		done[i] = true
		return n.ComputedPosition
	}

	for i := range nodes {
		resolve(i)
	}
	return nodes
}
