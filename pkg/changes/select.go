package changes

import "github.com/ha1tch/flow-toolkit/pkg/flow"

// SelectNodes returns the select changes that make exactly the nodes in ids
// selected. Nodes already in the wanted state produce no change.
func SelectNodes(nodes []flow.Node, ids ...string) []NodeChange {
	want := idSet(ids)

	var result []NodeChange
	for _, n := range nodes {
		if n.Selected != want[n.ID] {
			result = append(result, NodeSelect{ID: n.ID, Selected: want[n.ID]})
		}
	}
	return result
}

// SelectEdges is SelectNodes for edges.
func SelectEdges(edges []flow.Edge, ids ...string) []EdgeChange {
	want := idSet(ids)

	var result []EdgeChange
	for _, e := range edges {
		if e.Selected != want[e.ID] {
			result = append(result, EdgeSelect{ID: e.ID, Selected: want[e.ID]})
		}
	}
	return result
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// NodeClick maps a click on node id to selection changes. An unselected
// node becomes selected, alone unless multi-selection is active. A
// selected node is deselected when unselect is set or multi-selection is
// active. Unknown and unselectable nodes produce no change.
func NodeClick(nodes []flow.Node, id string, selectableDefault, multi, unselect bool) []NodeChange {
	n := flow.FindNode(nodes, id)
	if n == nil || !n.IsSelectable(selectableDefault) {
		return nil
	}

	switch {
	case !n.Selected && multi:
		return []NodeChange{NodeSelect{ID: id, Selected: true}}
	case !n.Selected:
		return SelectNodes(nodes, id)
	case unselect || multi:
		return []NodeChange{NodeSelect{ID: id, Selected: false}}
	}
	return nil
}
