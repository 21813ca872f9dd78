// Package store holds a canonical node and edge collection, applies change
// lists to it and notifies registered listeners.
package store

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ha1tch/flow-toolkit/pkg/changes"
	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/flowfile"
	"github.com/ha1tch/flow-toolkit/pkg/handle"
)

// Store is safe for concurrent use. The node and edge slices are replaced,
// never modified in place, so snapshots stay stable. Listeners are called
// after the lock is released, in registration order.
type Store struct {
	id       string
	log      *zap.Logger
	cfg      *flowfile.Config
	validate handle.ConnectionValidator
	metrics  *Metrics

	mu    sync.RWMutex
	nodes []flow.Node
	edges []flow.Edge

	nodesChange hook[[]changes.NodeChange]
	edgesChange hook[[]changes.EdgeChange]
	connect     hook[flow.Connection]
	errors      hook[error]
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// WithConfig sets the defaults used by gestures.
func WithConfig(cfg *flowfile.Config) Option {
	return func(s *Store) {
		s.cfg = cfg
	}
}

// WithID overrides the generated store ID.
func WithID(id string) Option {
	return func(s *Store) {
		s.id = id
	}
}

// WithConnectionValidator installs application logic deciding whether a
// structurally valid connection is allowed.
func WithConnectionValidator(v handle.ConnectionValidator) Option {
	return func(s *Store) {
		s.validate = v
	}
}

// WithDocument loads the nodes and edges of doc.
func WithDocument(doc *flowfile.Document) Option {
	return func(s *Store) {
		s.nodes = doc.FlowNodes()
		s.edges = slices.Clone(doc.Edges)
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		id:  uuid.New().String(),
		log: zap.NewNop(),
		cfg: flowfile.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.log = s.log.With(zap.String("store", s.id))
	changes.RefreshComputed(s.nodes)
	s.metrics.size(len(s.nodes), len(s.edges))
	return s
}

// ID returns the store's instance ID.
func (s *Store) ID() string { return s.id }

// Config returns the store's configuration.
func (s *Store) Config() *flowfile.Config { return s.cfg }

// NewNodeID returns a fresh random node ID.
func NewNodeID() string {
	return uuid.New().String()
}

// Nodes returns a snapshot of the nodes.
func (s *Store) Nodes() []flow.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.nodes)
}

// Edges returns a snapshot of the edges.
func (s *Store) Edges() []flow.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.edges)
}

// FindNode returns the node with id.
func (s *Store) FindNode(id string) (flow.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n := flow.FindNode(s.nodes, id); n != nil {
		return *n, true
	}
	return flow.Node{}, false
}

// FindEdge returns the edge with id.
func (s *Store) FindEdge(id string) (flow.Edge, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e := flow.FindEdge(s.edges, id); e != nil {
		return *e, true
	}
	return flow.Edge{}, false
}

// NodeInfo is a node together with its parent and connected edges.
type NodeInfo struct {
	Node   flow.Node
	Parent *flow.Node
	Edges  []flow.Edge
}

// Node looks up id with its parent and connected edges. An unknown node is
// reported and returned as flow.ErrNodeNotFound.
func (s *Store) Node(id string) (NodeInfo, error) {
	s.mu.RLock()
	n := flow.FindNode(s.nodes, id)
	if n == nil {
		s.mu.RUnlock()
		err := flow.NewError(flow.CodeNodeNotFound, id)
		s.report(err)
		return NodeInfo{}, err
	}

	info := NodeInfo{
		Node:  *n,
		Edges: flow.GetConnectedEdges([]flow.Node{*n}, s.edges),
	}
	if p := flow.FindNode(s.nodes, n.ParentID); n.ParentID != "" && p != nil {
		parent := *p
		info.Parent = &parent
	}
	s.mu.RUnlock()
	return info, nil
}

// SetNodes replaces every node. Listeners are not notified.
func (s *Store) SetNodes(nodes []flow.Node) {
	nodes = changes.RefreshComputed(slices.Clone(nodes))

	s.mu.Lock()
	s.nodes = nodes
	s.metrics.size(len(s.nodes), len(s.edges))
	s.mu.Unlock()
}

// SetEdges replaces every edge. Listeners are not notified.
func (s *Store) SetEdges(edges []flow.Edge) {
	edges = slices.Clone(edges)

	s.mu.Lock()
	s.edges = edges
	s.metrics.size(len(s.nodes), len(s.edges))
	s.mu.Unlock()
}

// Document returns a snapshot as a document.
func (s *Store) Document() *flowfile.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return flowfile.NewDocument(s.nodes, slices.Clone(s.edges))
}

// AddNodes adds nodes, giving a fresh ID to any node without one.
func (s *Store) AddNodes(nodes ...flow.Node) []changes.NodeChange {
	cs := make([]changes.NodeChange, 0, len(nodes))
	for _, n := range nodes {
		if n.ID == "" {
			n.ID = NewNodeID()
		}
		cs = append(cs, changes.NodeAdd{Item: n})
	}
	s.ApplyNodeChanges(cs)
	return cs
}

// RemoveNodes removes nodes by ID together with their edges.
func (s *Store) RemoveNodes(ids ...string) {
	cs := make([]changes.NodeChange, 0, len(ids))
	for _, id := range ids {
		cs = append(cs, changes.NodeRemove{ID: id})
	}
	s.ApplyNodeChanges(cs)
}

// ApplyNodeChanges applies cs, refreshes absolute positions and removes the
// edges of removed nodes. Node listeners see cs; edge listeners see the
// resulting edge removals.
func (s *Store) ApplyNodeChanges(cs []changes.NodeChange) {
	if len(cs) == 0 {
		return
	}

	var errs []error
	collect := changes.WithErrorHandler(func(err error) { errs = append(errs, err) })

	s.mu.Lock()
	nodes := changes.ApplyNodeChanges(cs, s.nodes, collect)
	changes.RefreshComputed(nodes)

	var removed []flow.Node
	for _, c := range cs {
		if c = changes.NodeValue(c); c == nil || c.Type() != changes.TypeRemove {
			continue
		}
		if n := flow.FindNode(s.nodes, c.TargetID()); n != nil && flow.FindNode(nodes, n.ID) == nil {
			removed = append(removed, *n)
		}
	}

	var edgeChanges []changes.EdgeChange
	for _, e := range flow.GetConnectedEdges(removed, s.edges) {
		edgeChanges = append(edgeChanges, changes.EdgeRemove{ID: e.ID})
	}
	edges := changes.ApplyEdgeChanges(edgeChanges, s.edges)

	s.nodes, s.edges = nodes, edges
	s.metrics.size(len(nodes), len(edges))
	s.mu.Unlock()

	s.metrics.nodeChanges(cs)
	s.metrics.edgeChanges(edgeChanges)

	s.log.Debug("applied node changes",
		zap.Int("changes", len(cs)),
		zap.Int("nodes", len(nodes)),
		zap.Int("removedEdges", len(edgeChanges)))

	s.nodesChange.emit(cs)
	if len(edgeChanges) > 0 {
		s.edgesChange.emit(edgeChanges)
	}
	s.report(errs...)
}

// ApplyEdgeChanges applies cs to the edges.
func (s *Store) ApplyEdgeChanges(cs []changes.EdgeChange) {
	if len(cs) == 0 {
		return
	}

	var errs []error
	collect := changes.WithErrorHandler(func(err error) { errs = append(errs, err) })

	s.mu.Lock()
	s.edges = changes.ApplyEdgeChanges(cs, s.edges, collect)
	n := len(s.edges)
	s.metrics.size(len(s.nodes), n)
	s.mu.Unlock()

	s.metrics.edgeChanges(cs)

	s.log.Debug("applied edge changes", zap.Int("changes", len(cs)), zap.Int("edges", n))
	s.edgesChange.emit(cs)
	s.report(errs...)
}

// Connect adds an edge for c unless an identical one exists, notifying
// connect listeners either way.
func (s *Store) Connect(c flow.Connection) (flow.Edge, bool) {
	s.connect.emit(c)

	s.mu.Lock()
	edges, added := flow.AddEdge(c, s.edges)
	var edge flow.Edge
	if added {
		edge = edges[len(edges)-1]
		s.edges = edges
		s.metrics.size(len(s.nodes), len(s.edges))
	}
	s.mu.Unlock()

	if !added {
		s.log.Debug("connection not added", zap.String("source", c.Source), zap.String("target", c.Target))
		return flow.Edge{}, false
	}

	s.metrics.connected()
	s.metrics.edgeChanges([]changes.EdgeChange{changes.EdgeAdd{Item: edge}})
	s.log.Info("connected",
		zap.String("edge", edge.ID),
		zap.String("source", c.Source),
		zap.String("target", c.Target))
	s.edgesChange.emit([]changes.EdgeChange{changes.EdgeAdd{Item: edge}})
	return edge, true
}

// UpdateEdge moves an existing edge to the handles of c, keeping its ID and
// its place in the collection.
func (s *Store) UpdateEdge(id string, c flow.Connection) (flow.Edge, error) {
	s.mu.Lock()
	edges := slices.Clone(s.edges)
	e := flow.FindEdge(edges, id)
	if e == nil {
		s.mu.Unlock()
		err := flow.NewError(flow.CodeEdgeNotFound, id)
		s.report(err)
		return flow.Edge{}, err
	}
	e.Source, e.SourceHandle = c.Source, c.SourceHandle
	e.Target, e.TargetHandle = c.Target, c.TargetHandle
	updated := *e
	s.edges = edges
	s.mu.Unlock()

	// Listeners see the update as the old edge replaced by the new one.
	cs := []changes.EdgeChange{changes.EdgeRemove{ID: id}, changes.EdgeAdd{Item: updated}}
	s.metrics.edgeChanges(cs)
	s.log.Debug("edge updated", zap.String("edge", id))
	s.edgesChange.emit(cs)
	return updated, nil
}

// Select makes exactly the given nodes selected and deselects all edges.
func (s *Store) Select(nodeIDs ...string) {
	nodes, edges := s.Nodes(), s.Edges()
	s.ApplyNodeChanges(changes.SelectNodes(nodes, nodeIDs...))
	s.ApplyEdgeChanges(changes.SelectEdges(edges))
}

// ClickNode applies the selection changes of a click on node id.
func (s *Store) ClickNode(id string, multi, unselect bool) []changes.NodeChange {
	cs := changes.NodeClick(s.Nodes(), id, s.cfg.Nodes.Selectable, multi, unselect)
	s.ApplyNodeChanges(cs)
	return cs
}

// OnNodesChange registers fn for applied node changes.
func (s *Store) OnNodesChange(fn func([]changes.NodeChange)) func() {
	return s.nodesChange.on(fn)
}

// OnEdgesChange registers fn for applied edge changes.
func (s *Store) OnEdgesChange(fn func([]changes.EdgeChange)) func() {
	return s.edgesChange.on(fn)
}

// OnConnect registers fn for completed connection gestures.
func (s *Store) OnConnect(fn func(flow.Connection)) func() {
	return s.connect.on(fn)
}

// OnError registers fn for recoverable errors.
func (s *Store) OnError(fn func(error)) func() {
	return s.errors.on(fn)
}

// report logs errs and hands them to error listeners.
func (s *Store) report(errs ...error) {
	for _, err := range errs {
		if err == nil {
			continue
		}
		s.log.Warn("flow error", zap.Error(err))
		s.metrics.reported(err)
		s.errors.emit(err)
	}
}
