package flowfile

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ha1tch/flow-toolkit/pkg/changes"
	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/geometry"
)

// Change kinds.
const (
	KindNode = "node"
	KindEdge = "edge"
)

// ChangeRecord is the encoded form of one node or edge change. Kind
// defaults to node. Add records carry the new element in Node or Edge.
type ChangeRecord struct {
	Type       changes.Type     `json:"type" yaml:"type" validate:"required,oneof=add remove select position dimensions"`
	Kind       string           `json:"kind,omitempty" yaml:"kind,omitempty" validate:"omitempty,oneof=node edge"`
	ID         string           `json:"id,omitempty" yaml:"id,omitempty"`
	Selected   bool             `json:"selected,omitempty" yaml:"selected,omitempty"`
	Position   *geometry.Point  `json:"position,omitempty" yaml:"position,omitempty"`
	Dragging   bool             `json:"dragging,omitempty" yaml:"dragging,omitempty"`
	Dimensions *flow.Dimensions `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	Resizing   bool             `json:"resizing,omitempty" yaml:"resizing,omitempty"`
	Node       *Node            `json:"node,omitempty" yaml:"node,omitempty"`
	Edge       *flow.Edge       `json:"edge,omitempty" yaml:"edge,omitempty"`
}

// ParseChangesJSON parses a JSON change list.
func ParseChangesJSON(data []byte) ([]ChangeRecord, error) {
	var records []ChangeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ParseChangesYAML parses a YAML change list.
func ParseChangesYAML(data []byte) ([]ChangeRecord, error) {
	var records []ChangeRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SplitChanges converts records into node and edge changes, each keeping
// the relative order of the records.
func SplitChanges(records []ChangeRecord) ([]changes.NodeChange, []changes.EdgeChange, error) {
	var nodeChanges []changes.NodeChange
	var edgeChanges []changes.EdgeChange

	for i, r := range records {
		if r.Kind == KindEdge || (r.Type == changes.TypeAdd && r.Edge != nil) {
			c, err := r.edgeChange()
			if err != nil {
				return nil, nil, fmt.Errorf("change %d: %w", i, err)
			}
			edgeChanges = append(edgeChanges, c)
			continue
		}

		c, err := r.nodeChange()
		if err != nil {
			return nil, nil, fmt.Errorf("change %d: %w", i, err)
		}
		nodeChanges = append(nodeChanges, c)
	}

	return nodeChanges, edgeChanges, nil
}

func (r ChangeRecord) nodeChange() (changes.NodeChange, error) {
	switch r.Type {
	case changes.TypeAdd:
		if r.Node == nil {
			return nil, fmt.Errorf("add needs a node")
		}
		n := r.Node.Node
		n.Extent = r.Node.Extent.Get()
		return changes.NodeAdd{Item: n}, nil
	case changes.TypeRemove:
		return changes.NodeRemove{ID: r.ID}, nil
	case changes.TypeSelect:
		return changes.NodeSelect{ID: r.ID, Selected: r.Selected}, nil
	case changes.TypePosition:
		return changes.NodePosition{ID: r.ID, Position: r.Position, Dragging: r.Dragging}, nil
	case changes.TypeDimensions:
		return changes.NodeDimensions{ID: r.ID, Dimensions: r.Dimensions, Resizing: r.Resizing}, nil
	}
	return nil, fmt.Errorf("unknown node change type %q", r.Type)
}

func (r ChangeRecord) edgeChange() (changes.EdgeChange, error) {
	switch r.Type {
	case changes.TypeAdd:
		if r.Edge == nil {
			return nil, fmt.Errorf("add needs an edge")
		}
		return changes.EdgeAdd{Item: *r.Edge}, nil
	case changes.TypeRemove:
		return changes.EdgeRemove{ID: r.ID}, nil
	case changes.TypeSelect:
		return changes.EdgeSelect{ID: r.ID, Selected: r.Selected}, nil
	}
	return nil, fmt.Errorf("unknown edge change type %q", r.Type)
}

// NodeRecord encodes a node change. c must not be nil.
func NodeRecord(c changes.NodeChange) ChangeRecord {
	c = changes.NodeValue(c)
	r := ChangeRecord{Type: c.Type(), ID: c.TargetID()}
	switch v := c.(type) {
	case changes.NodeAdd:
		r.ID = ""
		r.Node = &Node{Node: v.Item, Extent: Spec(v.Item.Extent)}
	case changes.NodeSelect:
		r.Selected = v.Selected
	case changes.NodePosition:
		r.Position, r.Dragging = v.Position, v.Dragging
	case changes.NodeDimensions:
		r.Dimensions, r.Resizing = v.Dimensions, v.Resizing
	}
	return r
}

// EdgeRecord encodes an edge change. c must not be nil.
func EdgeRecord(c changes.EdgeChange) ChangeRecord {
	c = changes.EdgeValue(c)
	r := ChangeRecord{Type: c.Type(), Kind: KindEdge, ID: c.TargetID()}
	switch v := c.(type) {
	case changes.EdgeAdd:
		r.ID = ""
		e := v.Item
		r.Edge = &e
	case changes.EdgeSelect:
		r.Selected = v.Selected
	}
	return r
}
