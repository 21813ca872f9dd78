package flowfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/ha1tch/flow-toolkit/pkg/edges"
	"github.com/ha1tch/flow-toolkit/pkg/flow"
	"github.com/ha1tch/flow-toolkit/pkg/viewport"
)

// Config holds the toolkit defaults shared by the store and the CLI.
type Config struct {
	Edges      EdgesConfig      `toml:"edges"`
	Connection ConnectionConfig `toml:"connection"`
	Nodes      NodesConfig      `toml:"nodes"`
	Viewport   ViewportConfig   `toml:"viewport"`
	Log        LogConfig        `toml:"log"`
}

// EdgesConfig controls path building.
type EdgesConfig struct {
	Kind         edges.Kind `toml:"kind" validate:"oneof=default bezier simplebezier straight step smoothstep"`
	Curvature    float64    `toml:"curvature" validate:"gte=0"`
	BorderRadius float64    `toml:"border_radius" validate:"gte=0"`
	Offset       float64    `toml:"offset" validate:"gte=0"`
}

// ConnectionConfig controls handle resolution.
type ConnectionConfig struct {
	Radius float64             `toml:"radius" validate:"gte=0"`
	Mode   flow.ConnectionMode `toml:"mode" validate:"oneof=strict loose"`
}

// NodesConfig holds node defaults.
type NodesConfig struct {
	Draggable   bool       `toml:"draggable"`
	Selectable  bool       `toml:"selectable"`
	Connectable bool       `toml:"connectable"`
	Extent      ExtentSpec `toml:"extent"`
}

// ViewportConfig bounds zooming.
type ViewportConfig struct {
	MinZoom float64 `toml:"min_zoom" validate:"gt=0"`
	MaxZoom float64 `toml:"max_zoom" validate:"gtefield=MinZoom"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level       string `toml:"level" validate:"oneof=debug info warn error"`
	Development bool   `toml:"development"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Edges: EdgesConfig{
			Kind:         edges.KindBezier,
			Curvature:    edges.DefaultCurvature,
			BorderRadius: edges.DefaultBorderRadius,
			Offset:       edges.DefaultStepOffset,
		},
		Connection: ConnectionConfig{Radius: 20, Mode: flow.ConnectionStrict},
		Nodes: NodesConfig{
			Draggable:   true,
			Selectable:  true,
			Connectable: true,
			Extent:      ExtentSpec{Extent: flow.UnboundedExtent{}},
		},
		Viewport: ViewportConfig{MinZoom: viewport.DefaultMinZoom, MaxZoom: viewport.DefaultMaxZoom},
		Log:      LogConfig{Level: "info"},
	}
}

// ConfigDir returns the flow-toolkit config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "flow-toolkit")
}

// DefaultConfigPath returns the path of config.toml in ConfigDir.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LoadConfig reads the config at path over the defaults. A missing file is
// not an error. An empty path means DefaultConfigPath.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes cfg to path, creating its directory.
func SaveConfig(path string, cfg *Config) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EdgeOptions returns the path options configured for edges.
func (c *Config) EdgeOptions() edges.Options {
	curvature, radius, offset := c.Edges.Curvature, c.Edges.BorderRadius, c.Edges.Offset
	return edges.Options{
		Curvature:    &curvature,
		BorderRadius: &radius,
		Offset:       &offset,
	}
}
