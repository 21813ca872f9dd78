package store

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/flow-toolkit/pkg/changes"
	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/geometry"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	m := NewMetrics("flow", reg)
	s := newTestStore(t, WithMetrics(m))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Nodes))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Edges))

	p := geometry.Pt(5, 5)
	s.ApplyNodeChanges([]changes.NodeChange{
		changes.NodePosition{ID: "a", Position: &p},
		changes.NodePosition{ID: "ghost", Position: &p},
	})
	assert.Equal(t, 2.0, testutil.ToFloat64(m.NodeChanges.WithLabelValues("position")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Errors.WithLabelValues(string(flow.CodeNodeNotFound))))

	_, ok := s.Connect(flow.Connection{Source: "a", SourceHandle: "out", Target: "b", TargetHandle: "in"})
	require.True(t, ok)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Connections))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Edges))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EdgeChanges.WithLabelValues("add")))

	s.RemoveNodes("b")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Nodes))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Edges))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EdgeChanges.WithLabelValues("remove")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 6)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.size(1, 1)
		m.connected()
		m.reported(flow.NewError(flow.CodeEdgeNotFound, "e"))
		m.nodeChanges([]changes.NodeChange{changes.NodeRemove{ID: "a"}})
	})
}
