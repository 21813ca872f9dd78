package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/flow-toolkit/pkg/edges"
	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/flowfile"
	"github.com/ha1tch/flow-toolkit/pkg/geometry"
)

const sampleDoc = `{
  "version": 1,
  "nodes": [
    {"id": "a", "position": {"x": 0, "y": 0}, "dimensions": {"width": 200, "height": 100},
     "handleBounds": {
       "source": [{"id": "out", "position": "right", "x": 195, "y": 45, "width": 10, "height": 10}],
       "target": [{"id": "in", "position": "left", "x": -5, "y": 45, "width": 10, "height": 10}]}},
    {"id": "b", "position": {"x": 400, "y": 0}, "dimensions": {"width": 200, "height": 100},
     "handleBounds": {
       "source": [{"id": "out", "position": "right", "x": 195, "y": 45, "width": 10, "height": 10}],
       "target": [{"id": "in", "position": "left", "x": -5, "y": 45, "width": 10, "height": 10}]}},
    {"id": "boxed", "position": {"x": 0, "y": 300}, "dimensions": {"width": 10, "height": 10},
     "extent": [[0, 0], [100, 100]]}
  ],
  "edges": [{"id": "ab", "source": "a", "target": "b"}],
  "viewport": {"x": 0, "y": 0, "zoom": 1}
}`

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPathStraight(t *testing.T) {
	out, _, err := run(t, "path", "straight", "--source", "0,0", "--target", "100,50")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "M0,0 L100,50", lines[0])
	assert.Equal(t, "label 50,25 offset 50,25", lines[1])
}

func TestPathJSON(t *testing.T) {
	out, _, err := run(t, "path", "--json", "--source", "0,0", "--target", "0,200")
	require.NoError(t, err)

	var p edges.Path
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, "M0,0 C0,100 0,100 0,200", p.D)
	assert.Equal(t, 100.0, p.LabelY)
}

func TestPathErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown kind", []string{"path", "zigzag"}},
		{"bad point", []string{"path", "--source", "1;2"}},
		{"bad side", []string{"path", "--source-side", "up"}},
		{"too many args", []string{"path", "bezier", "step"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := run(t, tc.args...)
			assert.Error(t, err)
		})
	}
}

func TestConnectAddsEdge(t *testing.T) {
	doc := writeFile(t, "graph.json", sampleDoc)
	output := filepath.Join(t.TempDir(), "out.json")

	out, _, err := run(t, "connect", doc, "--from", "a:out:source", "--pointer", "398,52", "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, "closest:    b-in-target at 395,50")
	assert.Contains(t, out, "status:     valid")
	assert.Contains(t, out, "connection: a/out -> b/in")

	written, err := flowfile.ReadFile(output)
	require.NoError(t, err)
	require.Len(t, written.Edges, 2)
	assert.Equal(t, "flow__edge-aout-bin", written.Edges[1].ID)
	require.NotNil(t, written.Viewport)
}

func TestConnectNoHandle(t *testing.T) {
	doc := writeFile(t, "graph.json", sampleDoc)

	out, _, err := run(t, "connect", doc, "--from", "a:out:source", "--pointer", "1000,1000")
	require.NoError(t, err)
	assert.Contains(t, out, "no handle within 20")
}

func TestConnectStrictAndLoose(t *testing.T) {
	doc := writeFile(t, "graph.json", sampleDoc)

	out, _, err := run(t, "connect", doc, "--from", "a:out:source", "--pointer", "605,50")
	require.NoError(t, err)
	assert.Contains(t, out, "status:     invalid")
	assert.NotContains(t, out, "connection:")

	out, _, err = run(t, "connect", doc, "--from", "a:out:source", "--pointer", "605,50", "--mode", "loose")
	require.NoError(t, err)
	assert.Contains(t, out, "connection: a/out -> b/out")
}

func TestConnectHovered(t *testing.T) {
	doc := writeFile(t, "graph.json", sampleDoc)

	out, _, err := run(t, "connect", doc, "--from", "b:in:target", "--pointer", "1000,1000", "--hover", "a:out:source")
	require.NoError(t, err)
	assert.Contains(t, out, "connection: a/out -> b/in")
}

func TestConnectErrors(t *testing.T) {
	doc := writeFile(t, "graph.json", sampleDoc)

	_, _, err := run(t, "connect", doc, "--from", "a:out:sideways", "--pointer", "0,0")
	assert.Error(t, err)

	_, _, err = run(t, "connect", doc, "--from", "a:out:source", "--pointer", "0,0", "--mode", "anything")
	assert.Error(t, err)

	_, _, err = run(t, "connect", doc, "--from", "ghost:out:source", "--pointer", "0,0")
	assert.True(t, errors.Is(err, flow.ErrNodeNotFound))

	_, _, err = run(t, "connect", doc, "--pointer", "0,0")
	assert.Error(t, err)
}

func TestClamp(t *testing.T) {
	doc := writeFile(t, "graph.json", sampleDoc)
	output := filepath.Join(t.TempDir(), "out.yaml")

	out, _, err := run(t, "clamp", doc, "boxed", "--to", "500,500", "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, "boxed")
	assert.Contains(t, out, "90,90")

	written, err := flowfile.ReadFile(output)
	require.NoError(t, err)
	n := flow.FindNode(written.FlowNodes(), "boxed")
	require.NotNil(t, n)
	assert.Equal(t, geometry.Pt(90, 90), n.Position)
	assert.False(t, n.Dragging)
}

func TestClampUnboundedNode(t *testing.T) {
	doc := writeFile(t, "graph.json", sampleDoc)
	output := filepath.Join(t.TempDir(), "out.json")

	out, _, err := run(t, "clamp", doc, "a", "--to", "30,40", "-o", output)
	require.NoError(t, err)
	assert.NotContains(t, out, "not draggable")
	assert.Contains(t, out, "30,40")

	written, err := flowfile.ReadFile(output)
	require.NoError(t, err)
	n := flow.FindNode(written.FlowNodes(), "a")
	require.NotNil(t, n)
	assert.Equal(t, geometry.Pt(30, 40), n.Position)
}

func TestClampUnknownNode(t *testing.T) {
	doc := writeFile(t, "graph.json", sampleDoc)

	_, _, err := run(t, "clamp", doc, "ghost", "--to", "0,0")
	assert.True(t, errors.Is(err, flow.ErrNodeNotFound))
}

func TestApply(t *testing.T) {
	doc := writeFile(t, "graph.json", sampleDoc)
	changesFile := writeFile(t, "changes.json", `[
  {"type": "remove", "id": "a"},
  {"type": "position", "id": "ghost", "position": {"x": 1, "y": 1}},
  {"type": "select", "id": "b", "selected": true}
]`)

	out, errOut, err := run(t, "apply", doc, changesFile)
	require.NoError(t, err)
	assert.Contains(t, errOut, "warning: NODE_NOT_FOUND")

	result, err := flowfile.ParseJSON([]byte(out))
	require.NoError(t, err)
	require.Len(t, result.Nodes, 2)
	assert.Equal(t, "b", result.Nodes[0].ID)
	assert.True(t, result.Nodes[0].Selected)
	assert.Empty(t, result.Edges)
}

func TestApplyStats(t *testing.T) {
	doc := writeFile(t, "graph.json", sampleDoc)
	changesFile := writeFile(t, "changes.json", `[
  {"type": "remove", "id": "a"},
  {"type": "position", "id": "ghost", "position": {"x": 1, "y": 1}}
]`)

	_, errOut, err := run(t, "apply", doc, changesFile, "--stats")
	require.NoError(t, err)
	assert.Contains(t, errOut, "METRIC")
	assert.Contains(t, errOut, "flow_node_changes_total")
	assert.Contains(t, errOut, "type=remove")
	assert.Contains(t, errOut, "flow_edge_changes_total")
	assert.Contains(t, errOut, "code=NODE_NOT_FOUND")
}

func TestApplyYAMLToFile(t *testing.T) {
	doc := writeFile(t, "graph.json", sampleDoc)
	changesFile := writeFile(t, "changes.yaml", `
- type: add
  kind: edge
  edge: {id: ba, source: b, target: a}
- type: select
  kind: edge
  id: ba
  selected: true
`)
	output := filepath.Join(t.TempDir(), "out.json")

	out, _, err := run(t, "apply", doc, changesFile, "-o", output)
	require.NoError(t, err)
	assert.Contains(t, out, "applied 2 changes")

	written, err := flowfile.ReadFile(output)
	require.NoError(t, err)
	e := flow.FindEdge(written.Edges, "ba")
	require.NotNil(t, e)
	assert.True(t, e.Selected)
}

func TestApplyInvalidChanges(t *testing.T) {
	doc := writeFile(t, "graph.json", sampleDoc)
	changesFile := writeFile(t, "changes.json", `[{"type": "explode"}]`)

	_, _, err := run(t, "apply", doc, changesFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "change 0")
}

func TestInfo(t *testing.T) {
	doc := writeFile(t, "graph.json", sampleDoc)

	out, _, err := run(t, "info", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "Nodes:    3")
	assert.Contains(t, out, "Edges:    1")
	assert.Contains(t, out, "Bounds:   0,0 600x310")
	assert.Contains(t, out, "Viewport: x=0 y=0 zoom=1")
	assert.Contains(t, out, "NODE")
	assert.Contains(t, out, "EDGE")
}

func TestValidate(t *testing.T) {
	doc := writeFile(t, "graph.json", sampleDoc)

	out, _, err := run(t, "validate", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "valid, 3 nodes, 1 edges")

	bad := writeFile(t, "bad.json", `{"version": 1, "nodes": [{"id": "a"}, {"id": "a"}], "edges": [{"id": "e", "source": "a", "target": "z"}]}`)
	_, _, err = run(t, "validate", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not unique")
	assert.Contains(t, err.Error(), "unknown node")
}

func TestConvert(t *testing.T) {
	doc := writeFile(t, "graph.json", sampleDoc)

	out, _, err := run(t, "convert", doc)
	require.NoError(t, err)
	yamlPath := strings.TrimSuffix(doc, ".json") + ".yaml"
	assert.Contains(t, out, "Written: "+yamlPath)

	converted, err := flowfile.ReadFile(yamlPath)
	require.NoError(t, err)
	assert.Len(t, converted.Nodes, 3)
	assert.Equal(t, flow.BoxExtent{Box: flow.CoordinateExtent{{0, 0}, {100, 100}}}, converted.Nodes[2].Extent.Get())

	bundle := filepath.Join(t.TempDir(), "graph.flowz")
	_, _, err = run(t, "convert", yamlPath, "--with-config", "-o", bundle)
	require.NoError(t, err)

	data, err := os.ReadFile(bundle)
	require.NoError(t, err)
	fromBundle, cfg, err := flowfile.ReadBundleBytes(data)
	require.NoError(t, err)
	assert.Len(t, fromBundle.Edges, 1)
	assert.Equal(t, flowfile.Default(), cfg)
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flow", "config.toml")

	out, _, err := run(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Written: "+path)

	_, _, err = run(t, "--config", path, "config", "init")
	assert.Error(t, err)

	_, _, err = run(t, "--config", path, "config", "init", "--force")
	assert.NoError(t, err)

	out, _, err = run(t, "--config", path, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "[edges]")
	assert.Contains(t, out, `kind = "bezier"`)
}

func TestInvalidConfigFails(t *testing.T) {
	path := writeFile(t, "config.toml", "[connection]\nmode = \"sloppy\"\n")

	_, _, err := run(t, "--config", path, "config")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestLogLevelFlag(t *testing.T) {
	_, _, err := run(t, "--log-level", "bogus", "config")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log level")

	doc := writeFile(t, "graph.json", sampleDoc)
	_, errOut, err := run(t, "--log-level", "debug", "info", doc)
	require.NoError(t, err)
	assert.Contains(t, errOut, "document loaded")
}

func TestParseHandle(t *testing.T) {
	tests := []struct {
		in      string
		want    flow.HandleRef
		wantErr bool
	}{
		{"a:out:source", flow.HandleRef{NodeID: "a", ID: "out", Type: flow.Source}, false},
		{"a:target", flow.HandleRef{NodeID: "a", Type: flow.Target}, false},
		{"a::target", flow.HandleRef{NodeID: "a", Type: flow.Target}, false},
		{"a", flow.HandleRef{}, true},
		{":out:source", flow.HandleRef{}, true},
		{"a:out:middle", flow.HandleRef{}, true},
		{"a:b:c:d", flow.HandleRef{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parseHandle(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParsePoint(t *testing.T) {
	p, err := parsePoint(" -1.5, 2 ")
	require.NoError(t, err)
	assert.Equal(t, geometry.Pt(-1.5, 2), p)

	for _, in := range []string{"", "1", "x,1", "1,y"} {
		_, err := parsePoint(in)
		assert.Error(t, err, in)
	}
}

func TestDot(t *testing.T) {
	doc := writeFile(t, "graph.json", sampleDoc)

	out, _, err := run(t, "dot", doc)
	require.NoError(t, err)
	assert.Contains(t, out, `label="graph.json: 3 nodes";`)
	assert.Contains(t, out, `"a" -> "b";`)

	output := filepath.Join(t.TempDir(), "graph.dot")
	_, _, err = run(t, "dot", doc, "-t", "Graph", "-o", output)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), `label="Graph";`)
}
