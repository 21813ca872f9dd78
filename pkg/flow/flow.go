// Package flow provides the core node/edge data model shared by the
// geometry, handle, drag and change packages.
package flow

import (
	"fmt"
	"strings"

	"github.com/ha1tch/flow-toolkit/pkg/geometry"
)

// Side is the face of a node a handle or edge endpoint attaches to.
type Side string

const (
	Top    Side = "top"
	Right  Side = "right"
	Bottom Side = "bottom"
	Left   Side = "left"
)

// Opposite returns the side facing s.
func (s Side) Opposite() Side {
	switch s {
	case Top:
		return Bottom
	case Bottom:
		return Top
	case Left:
		return Right
	case Right:
		return Left
	}
	return s
}

// Horizontal reports whether the side's normal runs along the x axis.
func (s Side) Horizontal() bool {
	return s == Left || s == Right
}

// ParseSide converts a string to a Side.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case Top:
		return Top, nil
	case Right:
		return Right, nil
	case Bottom:
		return Bottom, nil
	case Left:
		return Left, nil
	}
	return "", fmt.Errorf("unknown side %q", s)
}

// HandleType distinguishes where an edge may start or end.
type HandleType string

const (
	Source HandleType = "source"
	Target HandleType = "target"
)

// ConnectionMode controls which handle pairings are structurally allowed.
type ConnectionMode string

const (
	// ConnectionStrict only allows source→target pairings.
	ConnectionStrict ConnectionMode = "strict"
	// ConnectionLoose allows any pairing except a handle with itself.
	ConnectionLoose ConnectionMode = "loose"
)

// Dimensions holds a measured width and height.
type Dimensions struct {
	Width  float64 `json:"width" yaml:"width" validate:"gte=0"`
	Height float64 `json:"height" yaml:"height" validate:"gte=0"`
}

// IsZero reports whether either dimension is unknown.
func (d Dimensions) IsZero() bool {
	return d.Width == 0 || d.Height == 0
}

// HandleElement is a handle's bounds relative to its node's origin.
type HandleElement struct {
	ID       string  `json:"id,omitempty" yaml:"id,omitempty"`
	Position Side    `json:"position" yaml:"position"`
	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	Width    float64 `json:"width" yaml:"width"`
	Height   float64 `json:"height" yaml:"height"`
	// Connectable and ConnectableEnd override the node's connectable flag;
	// ConnectableEnd controls whether a connection may end here.
	Connectable    *bool `json:"connectable,omitempty" yaml:"connectable,omitempty"`
	ConnectableEnd *bool `json:"connectableEnd,omitempty" yaml:"connectableEnd,omitempty"`
}

// HandleBounds groups a node's handles by type.
type HandleBounds struct {
	Source []HandleElement `json:"source,omitempty" yaml:"source,omitempty"`
	Target []HandleElement `json:"target,omitempty" yaml:"target,omitempty"`
}

// ByType returns the handles of the given type.
func (hb HandleBounds) ByType(t HandleType) []HandleElement {
	if t == Target {
		return hb.Target
	}
	return hb.Source
}

// ConnectionHandle is a handle with its absolute position. It is derived
// from node layout on demand and never stored.
type ConnectionHandle struct {
	ID     string     `json:"id,omitempty"`
	NodeID string     `json:"nodeId"`
	Type   HandleType `json:"type"`
	X      float64    `json:"x"`
	Y      float64    `json:"y"`
}

// Point returns the handle's absolute position.
func (h ConnectionHandle) Point() geometry.Point {
	return geometry.Point{X: h.X, Y: h.Y}
}

// Matches reports whether h refers to the same handle as ref.
func (h ConnectionHandle) Matches(ref HandleRef) bool {
	return h.NodeID == ref.NodeID && h.ID == ref.ID && h.Type == ref.Type
}

// HandleRef identifies a handle without geometry, e.g. the result of a
// hit test or the origin of a connection gesture.
type HandleRef struct {
	NodeID string     `json:"nodeId"`
	ID     string     `json:"id,omitempty"`
	Type   HandleType `json:"type"`
}

func (r HandleRef) String() string {
	return r.NodeID + "-" + r.ID + "-" + string(r.Type)
}

// Connection describes an edge to be created between two handles.
type Connection struct {
	Source       string `json:"source"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	Target       string `json:"target"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// Node is a diagram node. Position is relative to the parent (or absolute
// without one); ComputedPosition is always absolute.
type Node struct {
	ID               string         `json:"id" yaml:"id" validate:"required"`
	Type             string         `json:"type,omitempty" yaml:"type,omitempty"`
	Label            string         `json:"label,omitempty" yaml:"label,omitempty"`
	Position         geometry.Point `json:"position" yaml:"position"`
	ComputedPosition geometry.Point `json:"computedPosition" yaml:"computedPosition"`
	Dimensions       Dimensions     `json:"dimensions" yaml:"dimensions"`
	ParentID         string         `json:"parentNode,omitempty" yaml:"parentNode,omitempty"`
	Extent           Extent         `json:"-" yaml:"-"`
	ExpandParent     bool           `json:"expandParent,omitempty" yaml:"expandParent,omitempty"`
	Selected         bool           `json:"selected,omitempty" yaml:"selected,omitempty"`
	Dragging         bool           `json:"dragging,omitempty" yaml:"dragging,omitempty"`
	Resizing         bool           `json:"resizing,omitempty" yaml:"resizing,omitempty"`
	Draggable        *bool          `json:"draggable,omitempty" yaml:"draggable,omitempty"`
	Selectable       *bool          `json:"selectable,omitempty" yaml:"selectable,omitempty"`
	Connectable      *bool          `json:"connectable,omitempty" yaml:"connectable,omitempty"`
	HandleBounds     HandleBounds   `json:"handleBounds" yaml:"handleBounds"`
	Data             map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// Rect returns the node's absolute bounding box.
func (n Node) Rect() geometry.Rect {
	return geometry.Rect{
		X:      n.ComputedPosition.X,
		Y:      n.ComputedPosition.Y,
		Width:  n.Dimensions.Width,
		Height: n.Dimensions.Height,
	}
}

// IsDraggable resolves the node's draggable flag against a default.
func (n Node) IsDraggable(def bool) bool {
	if n.Draggable != nil {
		return *n.Draggable
	}
	return def
}

// IsSelectable resolves the node's selectable flag against a default.
func (n Node) IsSelectable(def bool) bool {
	if n.Selectable != nil {
		return *n.Selectable
	}
	return def
}

// IsConnectable resolves the node's connectable flag against a default.
func (n Node) IsConnectable(def bool) bool {
	if n.Connectable != nil {
		return *n.Connectable
	}
	return def
}

// GetID returns the node ID.
func (n Node) GetID() string { return n.ID }

// Edge connects two node handles.
type Edge struct {
	ID           string         `json:"id" yaml:"id" validate:"required"`
	Type         string         `json:"type,omitempty" yaml:"type,omitempty"`
	Source       string         `json:"source" yaml:"source" validate:"required"`
	Target       string         `json:"target" yaml:"target" validate:"required"`
	SourceHandle string         `json:"sourceHandle,omitempty" yaml:"sourceHandle,omitempty"`
	TargetHandle string         `json:"targetHandle,omitempty" yaml:"targetHandle,omitempty"`
	Label        string         `json:"label,omitempty" yaml:"label,omitempty"`
	Selected     bool           `json:"selected,omitempty" yaml:"selected,omitempty"`
	Animated     bool           `json:"animated,omitempty" yaml:"animated,omitempty"`
	Data         map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// GetID returns the edge ID.
func (e Edge) GetID() string { return e.ID }

// Bool returns a pointer to b, for the optional node flags.
func Bool(b bool) *bool {
	return &b
}

// FindNode returns the node with the given ID, or nil.
func FindNode(nodes []Node, id string) *Node {
	for i := range nodes {
		if nodes[i].ID == id {
			return &nodes[i]
		}
	}
	return nil
}

// FindEdge returns the edge with the given ID, or nil.
func FindEdge(edges []Edge, id string) *Edge {
	for i := range edges {
		if edges[i].ID == id {
			return &edges[i]
		}
	}
	return nil
}

// GetConnectedEdges returns the edges touching any of the given nodes.
func GetConnectedEdges(nodes []Node, edges []Edge) []Edge {
	ids := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = true
	}

	var result []Edge
	for _, e := range edges {
		if ids[e.Source] || ids[e.Target] {
			result = append(result, e)
		}
	}
	return result
}

// EdgeID derives the default edge ID for a connection.
func EdgeID(c Connection) string {
	return fmt.Sprintf("flow__edge-%s%s-%s%s", c.Source, c.SourceHandle, c.Target, c.TargetHandle)
}

// ConnectionExists reports whether an edge already joins the same handles.
func ConnectionExists(c Connection, edges []Edge) bool {
	for _, e := range edges {
		if e.Source == c.Source && e.Target == c.Target &&
			e.SourceHandle == c.SourceHandle && e.TargetHandle == c.TargetHandle {
			return true
		}
	}
	return false
}

// AddEdge appends an edge for the connection unless an identical one
// already exists. The returned bool reports whether an edge was added.
func AddEdge(c Connection, edges []Edge) ([]Edge, bool) {
	if c.Source == "" || c.Target == "" {
		return edges, false
	}
	if ConnectionExists(c, edges) {
		return edges, false
	}

	return append(edges, Edge{
		ID:           EdgeID(c),
		Source:       c.Source,
		Target:       c.Target,
		SourceHandle: c.SourceHandle,
		TargetHandle: c.TargetHandle,
	}), true
}
