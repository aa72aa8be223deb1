// Package config provides configuration loading and access for the bolt scene.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/arclight/geom"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid wraps every validation failure reported by Load.
var ErrInvalid = errors.New("config: invalid")

// Config holds all scene configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen" toml:"screen"`
	Seed      int64           `yaml:"seed" toml:"seed"`
	Driver    DriverConfig    `yaml:"driver" toml:"driver"`
	Noise     NoiseConfig     `yaml:"noise" toml:"noise"`
	Probes    ProbesConfig    `yaml:"probes" toml:"probes"`
	Anchors   []AnchorConfig  `yaml:"anchors" toml:"anchors"`
	Bolts     []BoltConfig    `yaml:"bolts" toml:"bolts"`
	Fields    []FieldConfig   `yaml:"fields" toml:"fields"`
	Telemetry TelemetryConfig `yaml:"telemetry" toml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-" toml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width" toml:"width"`
	Height    int `yaml:"height" toml:"height"`
	TargetFPS int `yaml:"target_fps" toml:"target_fps"`
}

// DriverConfig holds tick settings.
type DriverConfig struct {
	DT float64 `yaml:"dt" toml:"dt"` // seconds per tick, used for anchor motion
}

// NoiseConfig selects the noise backend.
type NoiseConfig struct {
	Kind string `yaml:"kind" toml:"kind"` // perlin or opensimplex
}

// ProbesConfig sizes the containment probe pool.
type ProbesConfig struct {
	Count       int  `yaml:"count" toml:"count"`
	Placeholder bool `yaml:"placeholder" toml:"placeholder"` // shared fallback when the pool is exhausted
}

// Vec3 is an [x, y, z] triple.
type Vec3 [3]float64

// R3 converts to a gonum vector.
func (v Vec3) R3() r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

// AnchorConfig places a named anchor.
type AnchorConfig struct {
	Name     string       `yaml:"name" toml:"name"`
	Position Vec3         `yaml:"position" toml:"position"`
	Orbit    *OrbitConfig `yaml:"orbit,omitempty" toml:"orbit,omitempty"`
}

// OrbitConfig moves an anchor in a horizontal circle.
type OrbitConfig struct {
	Pivot  Vec3    `yaml:"pivot" toml:"pivot"`
	Radius float64 `yaml:"radius" toml:"radius"`
	Speed  float64 `yaml:"speed" toml:"speed"` // radians per second
}

// BoltConfig describes one lightning generator. Zero values select the
// generator defaults.
type BoltConfig struct {
	Name           string         `yaml:"name" toml:"name"`
	From           string         `yaml:"from" toml:"from"`
	To             string         `yaml:"to" toml:"to"`
	VertexCount    int            `yaml:"vertex_count" toml:"vertex_count"`
	Funkiness      float64        `yaml:"funkiness" toml:"funkiness"`
	Radius         float64        `yaml:"radius" toml:"radius"`
	CycleRate      float64        `yaml:"cycle_rate" toml:"cycle_rate"` // degrees per tick
	Cycles         int            `yaml:"cycles" toml:"cycles"`
	NoiseIncrement float64        `yaml:"noise_increment" toml:"noise_increment"`
	Colors         []string       `yaml:"colors" toml:"colors"` // hex, #rrggbb
	ColorSpeed     float64        `yaml:"color_speed" toml:"color_speed"`
	FBM            geom.FBMParams `yaml:"fbm" toml:"fbm"`
}

// FieldConfig describes one spatial field and the anchors it tracks.
type FieldConfig struct {
	Name     string   `yaml:"name" toml:"name"`
	Position Vec3     `yaml:"position" toml:"position"`
	Size     Vec3     `yaml:"size" toml:"size"`
	Distance float64  `yaml:"distance" toml:"distance"`
	Track    []string `yaml:"track" toml:"track"`
}

// Box returns the field's bounding box.
func (f FieldConfig) Box() geom.Box {
	return geom.Box{
		Position: f.Position.R3(),
		Size:     geom.Dimensions{X: f.Size[0], Y: f.Size[1], Z: f.Size[2]},
	}
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window" toml:"stats_window"` // ticks between reports
	PerfCollectorWindow int `yaml:"perf_collector_window" toml:"perf_collector_window"`
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	ScreenW32  float32
	ScreenH32  float32
	DT32       float32
	BoltColors map[string][]color.RGBA
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML or TOML file, merging with embedded
// defaults. Files ending in .toml are decoded as TOML. If path is empty, only
// embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := decode(path, data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode overwrites only the fields present in data.
func decode(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	if c.Driver.DT <= 0 {
		c.Driver.DT = 1.0 / 60.0
	}
	c.Derived.DT32 = float32(c.Driver.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	c.Derived.BoltColors = make(map[string][]color.RGBA, len(c.Bolts))
	for _, b := range c.Bolts {
		colors := make([]color.RGBA, 0, len(b.Colors))
		for _, hex := range b.Colors {
			rgba, err := ParseHexColor(hex)
			if err != nil {
				return fmt.Errorf("%w: bolt %q: %w", ErrInvalid, b.Name, err)
			}
			colors = append(colors, rgba)
		}
		c.Derived.BoltColors[b.Name] = colors
	}
	return nil
}

// Validate checks cross references and ranges.
func (c *Config) Validate() error {
	anchors := make(map[string]bool, len(c.Anchors))
	for _, a := range c.Anchors {
		if a.Name == "" {
			return fmt.Errorf("%w: anchor without a name", ErrInvalid)
		}
		if anchors[a.Name] {
			return fmt.Errorf("%w: duplicate anchor %q", ErrInvalid, a.Name)
		}
		anchors[a.Name] = true
	}

	bolts := make(map[string]bool, len(c.Bolts))
	for _, b := range c.Bolts {
		if bolts[b.Name] {
			return fmt.Errorf("%w: duplicate bolt %q", ErrInvalid, b.Name)
		}
		bolts[b.Name] = true
		if !anchors[b.From] || !anchors[b.To] {
			return fmt.Errorf("%w: bolt %q references unknown anchor", ErrInvalid, b.Name)
		}
		if b.VertexCount < 3 {
			return fmt.Errorf("%w: bolt %q vertex_count %d < 3", ErrInvalid, b.Name, b.VertexCount)
		}
	}

	for _, f := range c.Fields {
		if f.Distance <= 0 {
			return fmt.Errorf("%w: field %q distance must be positive", ErrInvalid, f.Name)
		}
		if !(f.Size[0] > 0 && f.Size[1] > 0 && f.Size[2] > 0) || !geom.Finite(f.Size.R3()) {
			return fmt.Errorf("%w: field %q size %v must be positive on every axis", ErrInvalid, f.Name, f.Size)
		}
		if !geom.Finite(f.Position.R3()) {
			return fmt.Errorf("%w: field %q position %v is not finite", ErrInvalid, f.Name, f.Position)
		}
		for _, name := range f.Track {
			if !anchors[name] {
				return fmt.Errorf("%w: field %q tracks unknown anchor %q", ErrInvalid, f.Name, name)
			}
		}
	}

	switch c.Noise.Kind {
	case "", geom.NoisePerlin, geom.NoiseSimplex:
	default:
		return fmt.Errorf("%w: unknown noise kind %q", ErrInvalid, c.Noise.Kind)
	}
	return nil
}

// ParseHexColor parses #rrggbb or #rrggbbaa.
func ParseHexColor(s string) (color.RGBA, error) {
	c := color.RGBA{A: 255}
	s = strings.TrimPrefix(s, "#")
	var err error
	switch len(s) {
	case 6:
		_, err = fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B)
	case 8:
		_, err = fmt.Sscanf(s, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	default:
		err = fmt.Errorf("color %q: want 6 or 8 hex digits", s)
	}
	return c, err
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
