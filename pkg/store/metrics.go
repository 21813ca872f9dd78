package store

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ha1tch/flow-toolkit/pkg/changes"
	"github.com/ha1tch/flow-toolkit/pkg/flow"
)

// Metrics holds the Prometheus collectors a store reports to. A nil
// *Metrics records nothing.
type Metrics struct {
	NodeChanges *prometheus.CounterVec
	EdgeChanges *prometheus.CounterVec
	Connections prometheus.Counter
	Errors      *prometheus.CounterVec
	Nodes       prometheus.Gauge
	Edges       prometheus.Gauge
}

// NewMetrics creates the store collectors and registers them with reg,
// unless reg is nil.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		NodeChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "node_changes_total",
				Help:      "Node changes applied, by type",
			},
			[]string{"type"},
		),
		EdgeChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "edge_changes_total",
				Help:      "Edge changes applied, by type",
			},
			[]string{"type"},
		),
		Connections: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "connections_total",
				Help:      "Edges created by connections",
			},
		),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Recoverable errors reported, by code",
			},
			[]string{"code"},
		),
		Nodes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "nodes",
				Help:      "Nodes currently held",
			},
		),
		Edges: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "edges",
				Help:      "Edges currently held",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(m.NodeChanges, m.EdgeChanges, m.Connections, m.Errors, m.Nodes, m.Edges)
	}
	return m
}

// WithMetrics makes the store report to m.
func WithMetrics(m *Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

func (m *Metrics) nodeChanges(cs []changes.NodeChange) {
	if m == nil {
		return
	}
	for _, c := range cs {
		if c = changes.NodeValue(c); c != nil {
			m.NodeChanges.WithLabelValues(string(c.Type())).Inc()
		}
	}
}

func (m *Metrics) edgeChanges(cs []changes.EdgeChange) {
	if m == nil {
		return
	}
	for _, c := range cs {
		if c = changes.EdgeValue(c); c != nil {
			m.EdgeChanges.WithLabelValues(string(c.Type())).Inc()
		}
	}
}

func (m *Metrics) size(nodes, edges int) {
	if m == nil {
		return
	}
	m.Nodes.Set(float64(nodes))
	m.Edges.Set(float64(edges))
}

func (m *Metrics) connected() {
	if m == nil {
		return
	}
	m.Connections.Inc()
}

func (m *Metrics) reported(err error) {
	if m == nil {
		return
	}
	code := "unknown"
	var fe *flow.Error
	if errors.As(err, &fe) {
		code = string(fe.Code)
	}
	m.Errors.WithLabelValues(code).Inc()
}
