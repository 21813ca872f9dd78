package handle

import "github.com/ha1tch/flow-toolkit/pkg/flow"

// Config holds the gesture-wide settings used to build a Validator.
type Config struct {
	Mode flow.ConnectionMode
	// NodesConnectable is the default for nodes without a Connectable flag.
	NodesConnectable bool
	Validate         ConnectionValidator
}

// CandidateFor resolves the configuration flags of the handle ref points
// at from node layout data. A handle missing from layout is not
// connectable.
func CandidateFor(nodes []flow.Node, ref flow.HandleRef, nodesConnectable bool) Candidate {
	c := Candidate{HandleRef: ref}

	node := flow.FindNode(nodes, ref.NodeID)
	if node == nil {
		return c
	}

	for _, h := range node.HandleBounds.ByType(ref.Type) {
		if h.ID != ref.ID {
			continue
		}
		c.Side = h.Position
		c.Connectable = node.IsConnectable(nodesConnectable)
		if h.Connectable != nil {
			c.Connectable = *h.Connectable
		}
		c.ConnectableEnd = true
		if h.ConnectableEnd != nil {
			c.ConnectableEnd = *h.ConnectableEnd
		}
		break
	}

	return c
}

// NewValidator returns a Validator for a gesture starting at from.
func NewValidator(nodes []flow.Node, edges []flow.Edge, from flow.HandleRef, cfg Config) Validator {
	return func(ref flow.HandleRef) ValidHandleResult {
		return IsValid(ValidityParams{
			Candidate: CandidateFor(nodes, ref, cfg.NodesConnectable),
			Mode:      cfg.Mode,
			From:      from,
			Validate:  cfg.Validate,
			Nodes:     nodes,
			Edges:     edges,
		})
	}
}
