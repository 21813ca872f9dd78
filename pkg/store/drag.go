package store

import (
	"go.uber.org/zap"

	"github.com/ha1tch/flow-toolkit/pkg/changes"
	"github.com/ha1tch/flow-toolkit/pkg/drag"
	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/geometry"
)

// DragGesture moves the selected nodes of a store with the pointer.
type DragGesture struct {
	s     *Store
	items []drag.Item
}

// StartDrag begins dragging nodeID together with every selected node. An
// unknown node is reported and yields a nil gesture. A gesture with no
// draggable node is returned but moves nothing.
func (s *Store) StartDrag(nodeID string, pointer geometry.Point) (*DragGesture, error) {
	s.mu.RLock()
	if flow.FindNode(s.nodes, nodeID) == nil {
		s.mu.RUnlock()
		err := flow.NewError(flow.CodeNodeNotFound, nodeID)
		s.report(err)
		return nil, err
	}
	items := drag.DragItems(s.nodes, s.cfg.Nodes.Draggable, pointer, drag.Finder(s.nodes), nodeID)
	s.mu.RUnlock()

	s.log.Debug("drag started", zap.String("node", nodeID), zap.Int("items", len(items)))
	return &DragGesture{s: s, items: items}, nil
}

// Items returns the IDs of the dragged nodes.
func (g *DragGesture) Items() []string {
	ids := make([]string, len(g.items))
	for i, it := range g.items {
		ids[i] = it.ID
	}
	return ids
}

// Move computes the next positions for pointer and applies them.
func (g *DragGesture) Move(pointer geometry.Point) []changes.NodeChange {
	if len(g.items) == 0 {
		return nil
	}

	var errs []error
	onError := func(err error) { errs = append(errs, err) }

	g.s.mu.RLock()
	results := drag.Move(g.items, pointer, g.s.cfg.Nodes.Extent.Get(), drag.Finder(g.s.nodes), onError)
	g.s.mu.RUnlock()

	cs := make([]changes.NodeChange, len(results))
	for i, r := range results {
		p := r.Position
		cs[i] = changes.NodePosition{ID: g.items[i].ID, Position: &p, Dragging: true}
	}

	g.s.report(errs...)
	g.s.ApplyNodeChanges(cs)
	return cs
}

// End clears the dragging flag of every dragged node.
func (g *DragGesture) End() []changes.NodeChange {
	if len(g.items) == 0 {
		return nil
	}

	cs := make([]changes.NodeChange, len(g.items))
	for i, it := range g.items {
		cs[i] = changes.NodePosition{ID: it.ID, Dragging: false}
	}
	g.s.ApplyNodeChanges(cs)
	g.items = nil

	g.s.log.Debug("drag ended")
	return cs
}
