// Package changes applies declarative change lists to node and edge
// collections.
package changes

import (
	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/geometry"
)

// Type names a change variant in documents and logs.
type Type string

const (
	TypeAdd        Type = "add"
	TypeRemove     Type = "remove"
	TypeSelect     Type = "select"
	TypePosition   Type = "position"
	TypeDimensions Type = "dimensions"
)

// NodeChange is one of NodeAdd, NodeRemove, NodeSelect, NodePosition or
// NodeDimensions.
type NodeChange interface {
	Type() Type
	// TargetID is the ID of the node the change applies to.
	TargetID() string
	nodeChange()
}

// EdgeChange is one of EdgeAdd, EdgeRemove or EdgeSelect.
type EdgeChange interface {
	Type() Type
	TargetID() string
	edgeChange()
}

// NodeAdd appends Item unless a node with the same ID exists.
type NodeAdd struct {
	Item flow.Node
}

// NodeRemove removes the node with ID.
type NodeRemove struct {
	ID string
}

// NodeSelect sets the node's selected flag.
type NodeSelect struct {
	ID       string
	Selected bool
}

// NodePosition moves a node. A nil Position only updates Dragging.
type NodePosition struct {
	ID       string
	Position *geometry.Point
	Dragging bool
}

// NodeDimensions records a node's measured size. A nil Dimensions only
// updates Resizing.
type NodeDimensions struct {
	ID         string
	Dimensions *flow.Dimensions
	Resizing   bool
}

// EdgeAdd appends Item unless an edge with the same ID exists.
type EdgeAdd struct {
	Item flow.Edge
}

// EdgeRemove removes the edge with ID.
type EdgeRemove struct {
	ID string
}

// EdgeSelect sets the edge's selected flag.
type EdgeSelect struct {
	ID       string
	Selected bool
}

func (NodeAdd) Type() Type        { return TypeAdd }
func (NodeRemove) Type() Type     { return TypeRemove }
func (NodeSelect) Type() Type     { return TypeSelect }
func (NodePosition) Type() Type   { return TypePosition }
func (NodeDimensions) Type() Type { return TypeDimensions }
func (EdgeAdd) Type() Type        { return TypeAdd }
func (EdgeRemove) Type() Type     { return TypeRemove }
func (EdgeSelect) Type() Type     { return TypeSelect }

func (c NodeAdd) TargetID() string        { return c.Item.ID }
func (c NodeRemove) TargetID() string     { return c.ID }
func (c NodeSelect) TargetID() string     { return c.ID }
func (c NodePosition) TargetID() string   { return c.ID }
func (c NodeDimensions) TargetID() string { return c.ID }
func (c EdgeAdd) TargetID() string        { return c.Item.ID }
func (c EdgeRemove) TargetID() string     { return c.ID }
func (c EdgeSelect) TargetID() string     { return c.ID }

func (NodeAdd) nodeChange()        {}
func (NodeRemove) nodeChange()     {}
func (NodeSelect) nodeChange()     {}
func (NodePosition) nodeChange()   {}
func (NodeDimensions) nodeChange() {}
func (EdgeAdd) edgeChange()        {}
func (EdgeRemove) edgeChange()     {}
func (EdgeSelect) edgeChange()     {}

// Option configures ApplyNodeChanges and ApplyEdgeChanges.
type Option func(*options)

type options struct {
	onError flow.ErrorHandler
}

// WithErrorHandler routes recoverable errors, such as updates naming an
// unknown node, to h.
func WithErrorHandler(h flow.ErrorHandler) Option {
	return func(o *options) {
		o.onError = h
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
