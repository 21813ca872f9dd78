package flowfile

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ha1tch/flow-toolkit/pkg/flow"
)

// ExtentSpec carries a flow.Extent through JSON, YAML and TOML.
//
// Encodings:
//
//	"unbounded"
//	"parent"
//	[[minX, minY], [maxX, maxY]]
//	{"range": "parent" | [[...], [...]], "padding": n | [n, ...]}
type ExtentSpec struct {
	flow.Extent
}

// Spec wraps e, returning nil for a nil extent.
func Spec(e flow.Extent) *ExtentSpec {
	if e == nil {
		return nil
	}
	return &ExtentSpec{Extent: e}
}

// Get returns the wrapped extent, nil-safe.
func (s *ExtentSpec) Get() flow.Extent {
	if s == nil {
		return nil
	}
	return s.Extent
}

func (s ExtentSpec) MarshalJSON() ([]byte, error) {
	return json.Marshal(extentValue(s.Extent))
}

func (s *ExtentSpec) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	e, err := parseExtent(v)
	if err != nil {
		return err
	}
	s.Extent = e
	return nil
}

func (s ExtentSpec) MarshalYAML() (any, error) {
	return extentValue(s.Extent), nil
}

func (s *ExtentSpec) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	e, err := parseExtent(v)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	s.Extent = e
	return nil
}

func (s *ExtentSpec) UnmarshalTOML(v any) error {
	e, err := parseExtent(v)
	if err != nil {
		return err
	}
	s.Extent = e
	return nil
}

func (s ExtentSpec) MarshalTOML() ([]byte, error) {
	return []byte(tomlValue(extentValue(s.Extent))), nil
}

// extentValue converts e to plain maps, slices, strings and numbers.
func extentValue(e flow.Extent) any {
	switch ext := e.(type) {
	case flow.ParentExtent:
		if len(ext.Padding) == 0 {
			return "parent"
		}
		return map[string]any{"range": "parent", "padding": paddingValue(ext.Padding)}
	case flow.BoxExtent:
		return boxValue(ext.Box)
	case flow.RangeExtent:
		return map[string]any{"range": boxValue(ext.Box), "padding": paddingValue(ext.Padding)}
	case nil:
		return nil
	}
	return "unbounded"
}

func boxValue(b flow.CoordinateExtent) []any {
	return []any{
		[]any{b[0][0], b[0][1]},
		[]any{b[1][0], b[1][1]},
	}
}

func paddingValue(p flow.Padding) any {
	if len(p) == 1 {
		return p[0]
	}
	out := make([]any, len(p))
	for i, v := range p {
		out[i] = v
	}
	return out
}

// parseExtent reads the plain value produced by any of the decoders.
func parseExtent(v any) (flow.Extent, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil

	case string:
		switch strings.ToLower(val) {
		case "":
			return nil, nil
		case "parent":
			return flow.ParentExtent{}, nil
		case "unbounded":
			return flow.UnboundedExtent{}, nil
		}
		return nil, fmt.Errorf("unknown extent %q", val)

	case []any:
		box, err := parseBox(val)
		if err != nil {
			return nil, err
		}
		return flow.BoxExtent{Box: box}, nil

	case map[string]any:
		pad, err := parsePadding(val["padding"])
		if err != nil {
			return nil, err
		}
		switch r := val["range"].(type) {
		case string:
			if r != "parent" {
				return nil, fmt.Errorf("unknown extent range %q", r)
			}
			return flow.ParentExtent{Padding: pad}, nil
		case []any:
			box, err := parseBox(r)
			if err != nil {
				return nil, err
			}
			return flow.RangeExtent{Box: box, Padding: pad}, nil
		}
		return nil, fmt.Errorf("extent range must be \"parent\" or a box")
	}

	return nil, fmt.Errorf("invalid extent of type %T", v)
}

func parseBox(v []any) (flow.CoordinateExtent, error) {
	var box flow.CoordinateExtent
	if len(v) != 2 {
		return box, fmt.Errorf("extent box needs two corners, got %d", len(v))
	}
	for i, corner := range v {
		c, ok := corner.([]any)
		if !ok || len(c) != 2 {
			return box, fmt.Errorf("extent corner %d must be [x, y]", i)
		}
		for j, n := range c {
			f, err := number(n)
			if err != nil {
				return box, fmt.Errorf("extent corner %d: %w", i, err)
			}
			box[i][j] = f
		}
	}
	return box, nil
}

func parsePadding(v any) (flow.Padding, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case []any:
		pad := make(flow.Padding, 0, len(val))
		for _, n := range val {
			f, err := number(n)
			if err != nil {
				return nil, fmt.Errorf("padding: %w", err)
			}
			pad = append(pad, f)
		}
		return pad, nil
	}
	f, err := number(v)
	if err != nil {
		return nil, fmt.Errorf("padding: %w", err)
	}
	return flow.Padding{f}, nil
}

func number(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	}
	return 0, fmt.Errorf("%v is not a number", v)
}

// tomlValue formats a plain value as an inline TOML value.
func tomlValue(v any) string {
	switch val := v.(type) {
	case string:
		return strconv.Quote(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = tomlValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		return fmt.Sprintf("{ range = %s, padding = %s }", tomlValue(val["range"]), tomlValue(val["padding"]))
	}
	return `""`
}
