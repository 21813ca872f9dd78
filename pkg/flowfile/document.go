// Package flowfile reads and writes flow documents, change lists and the
// toolkit configuration.
package flowfile

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/viewport"
)

// Version is the document format version written by this package.
const Version = 1

// Document is the on-disk form of a flow.
type Document struct {
	Version  int                `json:"version" yaml:"version" validate:"gte=0"`
	Nodes    []Node             `json:"nodes" yaml:"nodes" validate:"dive"`
	Edges    []flow.Edge        `json:"edges" yaml:"edges" validate:"dive"`
	Viewport *viewport.Viewport `json:"viewport,omitempty" yaml:"viewport,omitempty"`
}

// Node is a flow.Node with its extent in encodable form.
type Node struct {
	flow.Node `yaml:",inline"`
	Extent    *ExtentSpec `json:"extent,omitempty" yaml:"extent,omitempty"`
}

// NewDocument builds a document from a node and edge snapshot.
func NewDocument(nodes []flow.Node, edges []flow.Edge) *Document {
	doc := &Document{
		Version: Version,
		Nodes:   make([]Node, 0, len(nodes)),
		Edges:   edges,
	}
	for _, n := range nodes {
		doc.Nodes = append(doc.Nodes, Node{Node: n, Extent: Spec(n.Extent)})
	}
	if doc.Edges == nil {
		doc.Edges = []flow.Edge{}
	}
	return doc
}

// FlowNodes returns the document's nodes with extents attached.
func (d *Document) FlowNodes() []flow.Node {
	nodes := make([]flow.Node, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		fn := n.Node
		fn.Extent = n.Extent.Get()
		nodes = append(nodes, fn)
	}
	return nodes
}

// ParseJSON parses a document from JSON.
func ParseJSON(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ToJSON converts a document to JSON.
func ToJSON(d *Document, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(d, "", "  ")
	}
	return json.Marshal(d)
}

// ParseYAML parses a document from YAML.
func ParseYAML(data []byte) (*Document, error) {
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ToYAML converts a document to YAML.
func ToYAML(d *Document) ([]byte, error) {
	return yaml.Marshal(d)
}
