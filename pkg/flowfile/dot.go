package flowfile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ha1tch/flow-toolkit/pkg/changes"
	"github.com/ha1tch/flow-toolkit/pkg/flow"
)

// dotScale converts flow units (pixels) to Graphviz points.
const dotScale = 0.75

// GenerateDOT converts a document to Graphviz DOT. Nodes keep their
// absolute positions as pinned pos attributes so `neato -n` reproduces
// the layout; child nodes are grouped in a cluster per parent.
func GenerateDOT(doc *Document, title string) string {
	var sb strings.Builder

	sb.WriteString("digraph flow {\n")
	sb.WriteString("    node [shape=box, fontname=\"Helvetica\", fontsize=11];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=10];\n")
	sb.WriteString("\n")

	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		sb.WriteString(fmt.Sprintf("    label=\"%s\";\n", escapeDOT(title)))
		sb.WriteString("\n")
	}

	nodes := changes.RefreshComputed(doc.FlowNodes())

	children := make(map[string][]flow.Node)
	var roots []flow.Node
	for _, n := range nodes {
		if n.ParentID != "" && flow.FindNode(nodes, n.ParentID) != nil {
			children[n.ParentID] = append(children[n.ParentID], n)
			continue
		}
		roots = append(roots, n)
	}

	for _, n := range roots {
		writeDOTNode(&sb, n, children, "    ")
	}
	sb.WriteString("\n")

	edges := append([]flow.Edge(nil), doc.Edges...)
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })

	for _, e := range edges {
		var attrs []string
		if e.Label != "" {
			attrs = append(attrs, fmt.Sprintf("label=\"%s\"", escapeDOT(e.Label)))
		}
		if e.SourceHandle != "" {
			attrs = append(attrs, fmt.Sprintf("taillabel=\"%s\"", escapeDOT(e.SourceHandle)))
		}
		if e.TargetHandle != "" {
			attrs = append(attrs, fmt.Sprintf("headlabel=\"%s\"", escapeDOT(e.TargetHandle)))
		}
		if e.Animated {
			attrs = append(attrs, "style=dashed")
		}

		line := fmt.Sprintf("    \"%s\" -> \"%s\"", escapeDOT(e.Source), escapeDOT(e.Target))
		if len(attrs) > 0 {
			line += " [" + strings.Join(attrs, ", ") + "]"
		}
		sb.WriteString(line + ";\n")
	}

	sb.WriteString("}\n")
	return sb.String()
}

// writeDOTNode writes n, or a cluster holding n and its children when it
// has any.
func writeDOTNode(sb *strings.Builder, n flow.Node, children map[string][]flow.Node, indent string) {
	kids := children[n.ID]
	if len(kids) > 0 {
		sb.WriteString(fmt.Sprintf("%ssubgraph \"cluster_%s\" {\n", indent, escapeDOT(n.ID)))
		sb.WriteString(fmt.Sprintf("%s    label=\"%s\";\n", indent, escapeDOT(nodeLabel(n))))
		writeDOTNode(sb, flow.Node{
			ID:               n.ID,
			Label:            n.Label,
			ComputedPosition: n.ComputedPosition,
			Dimensions:       n.Dimensions,
			Selected:         n.Selected,
		}, nil, indent+"    ")
		for _, c := range kids {
			writeDOTNode(sb, c, children, indent+"    ")
		}
		sb.WriteString(indent + "}\n")
		return
	}

	attrs := []string{fmt.Sprintf("label=\"%s\"", escapeDOT(nodeLabel(n)))}
	if !n.Dimensions.IsZero() {
		center := n.Rect().Center()
		attrs = append(attrs,
			fmt.Sprintf("pos=\"%g,%g!\"", center.X*dotScale, -center.Y*dotScale),
			fmt.Sprintf("width=%g", n.Dimensions.Width/96),
			fmt.Sprintf("height=%g", n.Dimensions.Height/96))
	}
	if n.Selected {
		attrs = append(attrs, "penwidth=2")
	}

	sb.WriteString(fmt.Sprintf("%s\"%s\" [%s];\n", indent, escapeDOT(n.ID), strings.Join(attrs, ", ")))
}

func nodeLabel(n flow.Node) string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "<", "\\<")
	s = strings.ReplaceAll(s, ">", "\\>")
	return s
}
