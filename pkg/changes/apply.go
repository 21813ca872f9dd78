package changes

import (
	"fmt"
	"slices"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
)

type identified interface {
	GetID() string
}

func indexOf[T identified](items []T, id string) int {
	return slices.IndexFunc(items, func(item T) bool {
		return item.GetID() == id
	})
}

// ApplyNodeChanges applies changes in order to a copy of nodes and returns
// the copy. Adding an existing ID and removing or selecting a missing one
// are silent no-ops. Position and dimension updates naming a missing node
// are skipped and reported as flow.ErrNodeNotFound.
func ApplyNodeChanges(changes []NodeChange, nodes []flow.Node, opts ...Option) []flow.Node {
	o := newOptions(opts)
	result := slices.Clone(nodes)

	for _, change := range changes {
		switch c := NodeValue(change).(type) {
		case NodeAdd:
			if indexOf(result, c.Item.ID) < 0 {
				result = append(result, c.Item)
			}

		case NodeRemove:
			if i := indexOf(result, c.ID); i >= 0 {
				result = slices.Delete(result, i, i+1)
			}

		case NodeSelect:
			if i := indexOf(result, c.ID); i >= 0 {
				result[i].Selected = c.Selected
			}

		case NodePosition:
			i := indexOf(result, c.ID)
			if i < 0 {
				o.onError.Report(flow.NewError(flow.CodeNodeNotFound, c.ID))
				continue
			}
			if c.Position != nil {
				result[i].Position = *c.Position
				result[i].ComputedPosition = absolutePosition(result, result[i])
			}
			result[i].Dragging = c.Dragging
			expandParent(result, i)

		case NodeDimensions:
			i := indexOf(result, c.ID)
			if i < 0 {
				o.onError.Report(flow.NewError(flow.CodeNodeNotFound, c.ID))
				continue
			}
			if c.Dimensions != nil {
				result[i].Dimensions = *c.Dimensions
			}
			result[i].Resizing = c.Resizing
			expandParent(result, i)

		default:
			o.onError.Report(fmt.Errorf("unknown node change %T", change))
		}
	}

	return result
}

// ApplyEdgeChanges applies changes in order to a copy of edges and returns
// the copy, with the same no-op rules as ApplyNodeChanges.
func ApplyEdgeChanges(changes []EdgeChange, edges []flow.Edge, opts ...Option) []flow.Edge {
	o := newOptions(opts)
	result := slices.Clone(edges)

	for _, change := range changes {
		switch c := EdgeValue(change).(type) {
		case EdgeAdd:
			if indexOf(result, c.Item.ID) < 0 {
				result = append(result, c.Item)
			}

		case EdgeRemove:
			if i := indexOf(result, c.ID); i >= 0 {
				result = slices.Delete(result, i, i+1)
			}

		case EdgeSelect:
			if i := indexOf(result, c.ID); i >= 0 {
				result[i].Selected = c.Selected
			}

		default:
			o.onError.Report(fmt.Errorf("unknown edge change %T", change))
		}
	}

	return result
}

// NodeValue dereferences a pointer change. A nil pointer yields nil.
func NodeValue(c NodeChange) NodeChange {
	switch p := c.(type) {
	case *NodeAdd:
		if p == nil {
			return nil
		}
		return *p
	case *NodeRemove:
		if p == nil {
			return nil
		}
		return *p
	case *NodeSelect:
		if p == nil {
			return nil
		}
		return *p
	case *NodePosition:
		if p == nil {
			return nil
		}
		return *p
	case *NodeDimensions:
		if p == nil {
			return nil
		}
		return *p
	}
	return c
}

// EdgeValue dereferences a pointer change. A nil pointer yields nil.
func EdgeValue(c EdgeChange) EdgeChange {
	switch p := c.(type) {
	case *EdgeAdd:
		if p == nil {
			return nil
		}
		return *p
	case *EdgeRemove:
		if p == nil {
			return nil
		}
		return *p
	case *EdgeSelect:
		if p == nil {
			return nil
		}
		return *p
	}
	return c
}
