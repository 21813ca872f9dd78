package store

import (
	"go.uber.org/zap"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/geometry"
	"github.com/ha1tch/flow-toolkit/pkg/handle"
)

// ConnectGesture drags a new connection out of a handle. Handles and
// validity are resolved against the snapshot taken when it started.
type ConnectGesture struct {
	s        *Store
	from     flow.HandleRef
	handles  []flow.ConnectionHandle
	validate handle.Validator
	radius   float64

	closest *flow.ConnectionHandle
	result  handle.ValidHandleResult
	status  handle.Status
}

// StartConnect begins a connection gesture at the given handle. An unknown
// node is reported and yields a nil gesture.
func (s *Store) StartConnect(nodeID, handleID string, t flow.HandleType) (*ConnectGesture, error) {
	s.mu.RLock()
	if flow.FindNode(s.nodes, nodeID) == nil {
		s.mu.RUnlock()
		err := flow.NewError(flow.CodeNodeNotFound, nodeID)
		s.report(err)
		return nil, err
	}

	from := flow.HandleRef{NodeID: nodeID, ID: handleID, Type: t}
	g := &ConnectGesture{
		s:       s,
		from:    from,
		handles: handle.Lookup(s.nodes, from),
		validate: handle.NewValidator(s.nodes, s.edges, from, handle.Config{
			Mode:             s.cfg.Connection.Mode,
			NodesConnectable: s.cfg.Nodes.Connectable,
			Validate:         s.validate,
		}),
		radius: s.cfg.Connection.Radius,
		result: handle.DefaultResult(),
	}
	s.mu.RUnlock()

	s.log.Debug("connection started", zap.Stringer("from", from), zap.Int("handles", len(g.handles)))
	return g, nil
}

// From returns the handle the gesture started at.
func (g *ConnectGesture) From() flow.HandleRef { return g.from }

// Move resolves the handle the connection would snap to for pointer. hovered
// is the handle under the pointer according to the host, or nil.
func (g *ConnectGesture) Move(pointer geometry.Point, hovered *flow.HandleRef) (handle.Status, *flow.ConnectionHandle) {
	g.closest, g.result = handle.FindClosest(pointer, g.handles, g.radius, hovered, g.validate)
	g.status = handle.ConnectionStatus(g.closest != nil, g.result.IsValid)
	return g.status, g.closest
}

// Result returns the validity of the last resolved handle.
func (g *ConnectGesture) Result() handle.ValidHandleResult { return g.result }

// Status returns the status of the last resolved handle.
func (g *ConnectGesture) Status() handle.Status { return g.status }

// End resolves the final pointer position and, when the connection is
// valid, adds it to the store.
func (g *ConnectGesture) End(pointer geometry.Point, hovered *flow.HandleRef) (*flow.Connection, bool) {
	g.Move(pointer, hovered)
	if !g.result.IsValid {
		g.s.log.Debug("connection dropped", zap.Stringer("from", g.from))
		return nil, false
	}

	conn := g.result.Connection
	g.s.Connect(conn)
	return &conn, true
}
