package drag

import (
	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/geometry"
)

// Item is the per-gesture record of one dragged node. Items are created at
// drag start, updated on every move and dropped when the gesture ends.
type Item struct {
	ID string
	// Position is the node's parent-relative position at drag start.
	Position geometry.Point
	// Distance is the pointer's offset from the node's absolute position.
	Distance     geometry.Point
	From         geometry.Point
	Extent       flow.Extent
	ParentID     string
	Dimensions   flow.Dimensions
	ExpandParent bool
}

// NodeFinder looks a node up by ID, returning nil when it does not exist.
type NodeFinder func(id string) *flow.Node

// Finder returns a NodeFinder over a node slice.
func Finder(nodes []flow.Node) NodeFinder {
	return func(id string) *flow.Node {
		return flow.FindNode(nodes, id)
	}
}

// IsParentSelected reports whether any ancestor of node is selected.
func IsParentSelected(node flow.Node, find NodeFinder) bool {
	seen := map[string]bool{node.ID: true}

	for id := node.ParentID; id != "" && !seen[id]; {
		parent := find(id)
		if parent == nil {
			return false
		}
		if parent.Selected {
			return true
		}
		seen[id] = true
		id = parent.ParentID
	}

	return false
}

// DragItems builds the items for a drag gesture: every selected node plus
// nodeID, if draggable, skipping nodes whose ancestor is already being
// dragged.
func DragItems(nodes []flow.Node, draggableDefault bool, pointer geometry.Point, find NodeFinder, nodeID string) []Item {
	var items []Item

	for _, n := range nodes {
		if !n.Selected && n.ID != nodeID {
			continue
		}
		if n.ParentID != "" && IsParentSelected(n, find) {
			continue
		}
		if !n.IsDraggable(draggableDefault) {
			continue
		}

		items = append(items, Item{
			ID:           n.ID,
			Position:     n.Position,
			Distance:     pointer.Sub(n.ComputedPosition),
			From:         n.ComputedPosition,
			Extent:       n.Extent,
			ParentID:     n.ParentID,
			Dimensions:   n.Dimensions,
			ExpandParent: n.ExpandParent,
		})
	}

	return items
}

// EventParams returns the node identified by id (or the first dragged node
// when id is empty) together with every dragged node still present.
func EventParams(id string, items []Item, find NodeFinder) (*flow.Node, []flow.Node) {
	var dragged []flow.Node
	for _, it := range items {
		if n := find(it.ID); n != nil {
			dragged = append(dragged, *n)
		}
	}

	if id == "" {
		if len(dragged) == 0 {
			return nil, dragged
		}
		return &dragged[0], dragged
	}

	return flow.FindNode(dragged, id), dragged
}

// Move computes the next position of every item for a pointer position.
// Item origins are updated so the next call continues from there.
func Move(items []Item, pointer geometry.Point, defaultExtent flow.Extent, find NodeFinder, onError flow.ErrorHandler) []Result {
	results := make([]Result, len(items))

	for i := range items {
		var parent *flow.Node
		if items[i].ParentID != "" {
			parent = find(items[i].ParentID)
		}

		next := pointer.Sub(items[i].Distance)
		r := CalcNextPosition(items[i], next, defaultExtent, parent, onError)

		items[i].Position = r.Position
		items[i].From = r.ComputedPosition
		results[i] = r
	}

	return results
}
