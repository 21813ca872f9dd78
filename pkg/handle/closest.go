package handle

import (
	"math"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/geometry"
)

// Validator decides whether a candidate handle would complete a valid
// connection.
type Validator func(flow.HandleRef) ValidHandleResult

type candidate struct {
	handle flow.ConnectionHandle
	result ValidHandleResult
}

// FindClosest picks the handle a connection gesture should snap to.
//
// hovered is the handle the caller's hit test places under the pointer, if
// any; it wins outright regardless of distance. Otherwise the handles
// within radius at the minimum distance are kept (exact ties included,
// for stacked handles) and a target-type handle is preferred, then a valid
// one, then the first. With no candidate the handle is nil and the result
// is DefaultResult().
func FindClosest(pointer geometry.Point, handles []flow.ConnectionHandle, radius float64,
	hovered *flow.HandleRef, validate Validator) (*flow.ConnectionHandle, ValidHandleResult) {

	if validate == nil {
		validate = func(flow.HandleRef) ValidHandleResult { return DefaultResult() }
	}

	if hovered != nil && hovered.NodeID != "" {
		result := validate(*hovered)
		h := flow.ConnectionHandle{
			ID:     hovered.ID,
			NodeID: hovered.NodeID,
			Type:   hovered.Type,
			X:      pointer.X,
			Y:      pointer.Y,
		}
		if known, ok := Find(handles, *hovered); ok {
			h.X, h.Y = known.X, known.Y
		}
		return &h, result
	}

	var closest []candidate
	minDistance := math.Inf(1)

	for _, h := range handles {
		d := geometry.Distance(h.Point(), pointer)
		if d > radius || d > minDistance {
			continue
		}

		c := candidate{handle: h, result: validate(ref(h))}
		if d < minDistance {
			closest = []candidate{c}
			minDistance = d
		} else {
			closest = append(closest, c)
		}
	}

	if len(closest) == 0 {
		return nil, DefaultResult()
	}

	pick := closest[0]
	if len(closest) > 1 {
		hasTarget, hasValid := false, false
		for _, c := range closest {
			hasTarget = hasTarget || c.handle.Type == flow.Target
			hasValid = hasValid || c.result.IsValid
		}

		for _, c := range closest {
			if (hasTarget && c.handle.Type == flow.Target) ||
				(!hasTarget && hasValid && c.result.IsValid) {
				pick = c
				break
			}
		}
	}

	h := pick.handle
	return &h, pick.result
}

func ref(h flow.ConnectionHandle) flow.HandleRef {
	return flow.HandleRef{NodeID: h.NodeID, ID: h.ID, Type: h.Type}
}
