package handle

import (
	"github.com/ha1tch/flow-toolkit/pkg/flow"
)

// EndHandle describes the handle a valid connection ends on.
type EndHandle struct {
	NodeID   string          `json:"nodeId"`
	HandleID string          `json:"handleId,omitempty"`
	Type     flow.HandleType `json:"type"`
	// Position is only set when the host validator accepted the connection.
	Position flow.Side `json:"position,omitempty"`
}

// ValidHandleResult is always structurally complete so callers never need
// nil checks.
type ValidHandleResult struct {
	IsValid    bool            `json:"isValid"`
	Connection flow.Connection `json:"connection"`
	EndHandle  *EndHandle      `json:"endHandle,omitempty"`
}

// DefaultResult is the invalid result returned when nothing matched.
func DefaultResult() ValidHandleResult {
	return ValidHandleResult{}
}

// ConnectionContext is what a host validator sees.
type ConnectionContext struct {
	Nodes      []flow.Node
	Edges      []flow.Edge
	SourceNode *flow.Node
	TargetNode *flow.Node
}

// ConnectionValidator is host-supplied application logic deciding whether
// a structurally valid connection is allowed.
type ConnectionValidator func(flow.Connection, ConnectionContext) bool

// AllowAll accepts every structurally valid connection.
func AllowAll(flow.Connection, ConnectionContext) bool { return true }

// Candidate is a handle under consideration along with its configuration
// flags. Connectable and ConnectableEnd come from node/handle settings.
type Candidate struct {
	flow.HandleRef
	Side           flow.Side
	Connectable    bool
	ConnectableEnd bool
}

// ValidityParams groups the inputs of IsValid.
type ValidityParams struct {
	Candidate Candidate
	Mode      flow.ConnectionMode
	From      flow.HandleRef
	Validate  ConnectionValidator
	Nodes     []flow.Node
	Edges     []flow.Edge
}

// IsValid checks whether connecting From to the candidate is allowed.
// Strict mode only pairs sources with targets; loose mode only refuses
// reconnecting the origin handle to itself. Structurally valid pairs are
// then put to the host validator.
func IsValid(p ValidityParams) ValidHandleResult {
	result := DefaultResult()

	c := p.Candidate
	if c.NodeID == "" {
		return result
	}

	isTarget := p.From.Type == flow.Target

	conn := flow.Connection{
		Source:       p.From.NodeID,
		SourceHandle: p.From.ID,
		Target:       c.NodeID,
		TargetHandle: c.ID,
	}
	if isTarget {
		conn = flow.Connection{
			Source:       c.NodeID,
			SourceHandle: c.ID,
			Target:       p.From.NodeID,
			TargetHandle: p.From.ID,
		}
	}
	result.Connection = conn

	structural := c.Connectable && c.ConnectableEnd
	if structural {
		if p.Mode == flow.ConnectionStrict {
			structural = (isTarget && c.Type == flow.Source) || (!isTarget && c.Type == flow.Target)
		} else {
			structural = c.NodeID != p.From.NodeID || c.ID != p.From.ID
		}
	}
	if !structural {
		return result
	}

	validate := p.Validate
	if validate == nil {
		validate = AllowAll
	}
	result.IsValid = validate(conn, ConnectionContext{
		Nodes:      p.Nodes,
		Edges:      p.Edges,
		SourceNode: flow.FindNode(p.Nodes, conn.Source),
		TargetNode: flow.FindNode(p.Nodes, conn.Target),
	})

	result.EndHandle = &EndHandle{
		NodeID:   c.NodeID,
		HandleID: c.ID,
		Type:     c.Type,
	}
	if result.IsValid {
		result.EndHandle.Position = c.Side
	}

	return result
}

// Status classifies the state of an in-progress connection.
type Status string

const (
	StatusNone    Status = ""
	StatusValid   Status = "valid"
	StatusInvalid Status = "invalid"
)

// ConnectionStatus reports valid when the handle is valid, invalid when
// the pointer is within radius of an invalid handle, and none otherwise.
func ConnectionStatus(insideRadius, valid bool) Status {
	if valid {
		return StatusValid
	}
	if insideRadius {
		return StatusInvalid
	}
	return StatusNone
}
