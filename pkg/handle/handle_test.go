package handle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/geometry"
)

func testNode(id string, x, y float64) flow.Node {
	return flow.Node{
		ID:               id,
		Position:         geometry.Pt(x, y),
		ComputedPosition: geometry.Pt(x, y),
		Dimensions:       flow.Dimensions{Width: 200, Height: 100},
		HandleBounds: flow.HandleBounds{
			Source: []flow.HandleElement{{ID: "out", Position: flow.Right, X: 195, Y: 45, Width: 10, Height: 10}},
			Target: []flow.HandleElement{{ID: "in", Position: flow.Left, X: -5, Y: 45, Width: 10, Height: 10}},
		},
	}
}

func TestPosition(t *testing.T) {
	n := testNode("a", 100, 50)

	tests := []struct {
		name string
		h    flow.HandleElement
		want geometry.Point
	}{
		{"right", flow.HandleElement{Position: flow.Right, X: 195, Y: 45, Width: 10, Height: 10}, geometry.Pt(305, 100)},
		{"left", flow.HandleElement{Position: flow.Left, X: -5, Y: 45, Width: 10, Height: 10}, geometry.Pt(95, 100)},
		{"top", flow.HandleElement{Position: flow.Top, X: 95, Y: -5, Width: 10, Height: 10}, geometry.Pt(200, 45)},
		{"bottom", flow.HandleElement{Position: flow.Bottom, X: 95, Y: 95, Width: 10, Height: 10}, geometry.Pt(200, 155)},
		{"unsized bottom anchors at offset", flow.HandleElement{Position: flow.Bottom, X: 40, Y: 100}, geometry.Pt(140, 150)},
		{"unsized right anchors at offset", flow.HandleElement{Position: flow.Right, X: 200, Y: 50}, geometry.Pt(300, 100)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Position(n, tc.h))
		})
	}
}

func TestPositionFollowsNodeMove(t *testing.T) {
	n := testNode("a", 0, 0)
	h := n.HandleBounds.Source[0]
	before := Position(n, h)

	n.ComputedPosition = geometry.Pt(40, -10)
	after := Position(n, h)

	assert.Equal(t, before.Add(geometry.Pt(40, -10)), after)
}

func TestLookupExcludesOrigin(t *testing.T) {
	nodes := []flow.Node{testNode("a", 0, 0), testNode("b", 400, 0)}

	all := Lookup(nodes, flow.HandleRef{NodeID: "a", ID: "out", Type: flow.Source})
	require.Len(t, all, 3)

	for _, h := range all {
		assert.False(t, h.NodeID == "a" && h.ID == "out" && h.Type == flow.Source)
	}

	h, ok := Find(all, flow.HandleRef{NodeID: "b", ID: "in", Type: flow.Target})
	require.True(t, ok)
	assert.Equal(t, 395.0, h.X)
	assert.Equal(t, 50.0, h.Y)
}

func TestSide(t *testing.T) {
	n := testNode("a", 0, 0)

	side, ok := Side(n, flow.HandleRef{NodeID: "a", ID: "in", Type: flow.Target})
	require.True(t, ok)
	assert.Equal(t, flow.Left, side)

	_, ok = Side(n, flow.HandleRef{NodeID: "a", ID: "nope", Type: flow.Target})
	assert.False(t, ok)
}

func validWhen(pred func(flow.HandleRef) bool) Validator {
	return func(r flow.HandleRef) ValidHandleResult {
		return ValidHandleResult{IsValid: pred(r)}
	}
}

func TestFindClosestPrefersTargetOnTie(t *testing.T) {
	handles := []flow.ConnectionHandle{
		{NodeID: "a", ID: "s", Type: flow.Source, X: 5, Y: 0},
		{NodeID: "b", ID: "t", Type: flow.Target, X: 0, Y: 5},
		{NodeID: "c", ID: "far", Type: flow.Target, X: 12, Y: 0},
	}

	h, _ := FindClosest(geometry.Pt(0, 0), handles, 10, nil, nil)
	require.NotNil(t, h)
	assert.Equal(t, "b", h.NodeID)
	assert.Equal(t, flow.Target, h.Type)
}

func TestFindClosestPrefersValidWithoutTarget(t *testing.T) {
	handles := []flow.ConnectionHandle{
		{NodeID: "a", ID: "s1", Type: flow.Source, X: 3, Y: 4},
		{NodeID: "b", ID: "s2", Type: flow.Source, X: -3, Y: -4},
	}

	h, res := FindClosest(geometry.Pt(0, 0), handles, 10, nil,
		validWhen(func(r flow.HandleRef) bool { return r.NodeID == "b" }))
	require.NotNil(t, h)
	assert.Equal(t, "b", h.NodeID)
	assert.True(t, res.IsValid)

	h, res = FindClosest(geometry.Pt(0, 0), handles, 10, nil,
		validWhen(func(flow.HandleRef) bool { return false }))
	require.NotNil(t, h)
	assert.Equal(t, "a", h.NodeID, "falls back to the first candidate")
	assert.False(t, res.IsValid)
}

func TestFindClosestStrictMinimum(t *testing.T) {
	handles := []flow.ConnectionHandle{
		{NodeID: "a", Type: flow.Target, X: 6, Y: 0},
		{NodeID: "b", Type: flow.Source, X: 2, Y: 0},
	}

	h, _ := FindClosest(geometry.Pt(0, 0), handles, 10, nil, nil)
	require.NotNil(t, h)
	assert.Equal(t, "b", h.NodeID, "target preference only applies among ties")
}

func TestFindClosestHoveredWinsOutsideRadius(t *testing.T) {
	handles := []flow.ConnectionHandle{
		{NodeID: "near", Type: flow.Target, X: 1, Y: 0},
		{NodeID: "h1", ID: "in", Type: flow.Target, X: 50, Y: 0},
	}
	hovered := &flow.HandleRef{NodeID: "h1", ID: "in", Type: flow.Target}

	h, res := FindClosest(geometry.Pt(0, 0), handles, 10, hovered,
		validWhen(func(r flow.HandleRef) bool { return r.NodeID == "h1" }))
	require.NotNil(t, h)
	assert.Equal(t, "h1", h.NodeID)
	assert.Equal(t, 50.0, h.X)
	assert.True(t, res.IsValid)
}

func TestFindClosestHoveredUnknownUsesPointer(t *testing.T) {
	hovered := &flow.HandleRef{NodeID: "x", ID: "y", Type: flow.Source}

	h, _ := FindClosest(geometry.Pt(7, 8), nil, 10, hovered, nil)
	require.NotNil(t, h)
	assert.Equal(t, geometry.Pt(7, 8), h.Point())
}

func TestFindClosestNothingInRadius(t *testing.T) {
	handles := []flow.ConnectionHandle{{NodeID: "a", Type: flow.Target, X: 100, Y: 100}}

	h, res := FindClosest(geometry.Pt(0, 0), handles, 10, nil, nil)
	assert.Nil(t, h)
	assert.Equal(t, DefaultResult(), res)
	assert.False(t, res.IsValid)
	assert.Nil(t, res.EndHandle)
}

func TestIsValidStrictMode(t *testing.T) {
	from := flow.HandleRef{NodeID: "a", ID: "out", Type: flow.Source}

	tests := []struct {
		name string
		cand Candidate
		want bool
	}{
		{"source to target", Candidate{HandleRef: flow.HandleRef{NodeID: "b", ID: "in", Type: flow.Target}, Connectable: true, ConnectableEnd: true}, true},
		{"source to source", Candidate{HandleRef: flow.HandleRef{NodeID: "b", ID: "out", Type: flow.Source}, Connectable: true, ConnectableEnd: true}, false},
		{"not connectable", Candidate{HandleRef: flow.HandleRef{NodeID: "b", ID: "in", Type: flow.Target}, ConnectableEnd: true}, false},
		{"not connectable end", Candidate{HandleRef: flow.HandleRef{NodeID: "b", ID: "in", Type: flow.Target}, Connectable: true}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := IsValid(ValidityParams{Candidate: tc.cand, Mode: flow.ConnectionStrict, From: from})
			assert.Equal(t, tc.want, res.IsValid)
			assert.Equal(t, "a", res.Connection.Source)
			assert.Equal(t, "b", res.Connection.Target)
		})
	}
}

func TestIsValidFromTargetSwapsConnection(t *testing.T) {
	from := flow.HandleRef{NodeID: "a", ID: "in", Type: flow.Target}
	cand := Candidate{
		HandleRef:      flow.HandleRef{NodeID: "b", ID: "out", Type: flow.Source},
		Side:           flow.Right,
		Connectable:    true,
		ConnectableEnd: true,
	}

	res := IsValid(ValidityParams{Candidate: cand, Mode: flow.ConnectionStrict, From: from})
	require.True(t, res.IsValid)
	assert.Equal(t, flow.Connection{Source: "b", SourceHandle: "out", Target: "a", TargetHandle: "in"}, res.Connection)
	require.NotNil(t, res.EndHandle)
	assert.Equal(t, flow.Right, res.EndHandle.Position)
}

func TestIsValidLooseMode(t *testing.T) {
	from := flow.HandleRef{NodeID: "a", ID: "out", Type: flow.Source}

	same := Candidate{HandleRef: flow.HandleRef{NodeID: "a", ID: "out", Type: flow.Source}, Connectable: true, ConnectableEnd: true}
	res := IsValid(ValidityParams{Candidate: same, Mode: flow.ConnectionLoose, From: from})
	assert.False(t, res.IsValid, "a handle cannot connect to itself")
	assert.Nil(t, res.EndHandle)

	other := Candidate{HandleRef: flow.HandleRef{NodeID: "b", ID: "out", Type: flow.Source}, Connectable: true, ConnectableEnd: true}
	res = IsValid(ValidityParams{Candidate: other, Mode: flow.ConnectionLoose, From: from})
	assert.True(t, res.IsValid, "loose mode allows source to source")
}

func TestIsValidHostValidator(t *testing.T) {
	nodes := []flow.Node{testNode("a", 0, 0), testNode("b", 400, 0)}
	from := flow.HandleRef{NodeID: "a", ID: "out", Type: flow.Source}
	cand := Candidate{HandleRef: flow.HandleRef{NodeID: "b", ID: "in", Type: flow.Target}, Side: flow.Left, Connectable: true, ConnectableEnd: true}

	var seen ConnectionContext
	res := IsValid(ValidityParams{
		Candidate: cand,
		Mode:      flow.ConnectionStrict,
		From:      from,
		Nodes:     nodes,
		Validate: func(c flow.Connection, ctx ConnectionContext) bool {
			seen = ctx
			return false
		},
	})

	assert.False(t, res.IsValid)
	require.NotNil(t, res.EndHandle, "structurally valid handles report their end handle")
	assert.Equal(t, flow.Side(""), res.EndHandle.Position)
	require.NotNil(t, seen.SourceNode)
	require.NotNil(t, seen.TargetNode)
	assert.Equal(t, "a", seen.SourceNode.ID)
	assert.Equal(t, "b", seen.TargetNode.ID)
}

func TestNewValidatorReadsFlags(t *testing.T) {
	a := testNode("a", 0, 0)
	b := testNode("b", 400, 0)
	b.HandleBounds.Target[0].ConnectableEnd = flow.Bool(false)
	c := testNode("c", 0, 300)
	c.Connectable = flow.Bool(false)
	nodes := []flow.Node{a, b, c}

	v := NewValidator(nodes, nil, flow.HandleRef{NodeID: "a", ID: "out", Type: flow.Source},
		Config{Mode: flow.ConnectionStrict, NodesConnectable: true})

	assert.False(t, v(flow.HandleRef{NodeID: "b", ID: "in", Type: flow.Target}).IsValid)
	assert.False(t, v(flow.HandleRef{NodeID: "c", ID: "in", Type: flow.Target}).IsValid)
	assert.False(t, v(flow.HandleRef{NodeID: "zzz", ID: "in", Type: flow.Target}).IsValid)

	d := testNode("d", 0, 600)
	v = NewValidator(append(nodes, d), nil, flow.HandleRef{NodeID: "a", ID: "out", Type: flow.Source},
		Config{Mode: flow.ConnectionStrict, NodesConnectable: true})
	res := v(flow.HandleRef{NodeID: "d", ID: "in", Type: flow.Target})
	assert.True(t, res.IsValid)
	assert.Equal(t, flow.Left, res.EndHandle.Position)
}

func TestConnectionStatus(t *testing.T) {
	assert.Equal(t, StatusValid, ConnectionStatus(true, true))
	assert.Equal(t, StatusValid, ConnectionStatus(false, true))
	assert.Equal(t, StatusInvalid, ConnectionStatus(true, false))
	assert.Equal(t, StatusNone, ConnectionStatus(false, false))
}
