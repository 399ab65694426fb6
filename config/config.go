// Package config provides configuration loading and access for the tree simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Growth    GrowthConfig    `yaml:"growth"`
	Tree      TreeConfig      `yaml:"tree"`
	Leaves    LeavesConfig    `yaml:"leaves"`
	Camera    CameraConfig    `yaml:"camera"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// GrowthConfig holds the process-wide growth parameters.
type GrowthConfig struct {
	Rate         float64 `yaml:"rate"`          // Feed supplied to the root per tick
	SplitDecay   float64 `yaml:"split_decay"`   // Split threshold decay per depth level
	PassRatio    float64 `yaml:"pass_ratio"`    // Girth share of internal branches without area conservation
	ConserveArea bool    `yaml:"conserve_area"` // Derive the girth share from child areas
	Directedness float64 `yaml:"directedness"`  // 1 = pure density avoidance, 0 = pure noise
	LocalDepth   int     `yaml:"local_depth"`   // Ancestor steps for the leaf density estimate
	InitialArea  float64 `yaml:"initial_area"`  // Area of new branches
}

// TreeConfig holds the root shape and tube mesh settings.
type TreeConfig struct {
	Ratio       float64 `yaml:"ratio"`
	Spread      float64 `yaml:"spread"`
	SplitSize   float64 `yaml:"split_size"`
	LengthScale float64 `yaml:"length_scale"`
	RadiusScale float64 `yaml:"radius_scale"`
	Taper       float64 `yaml:"taper"`
	RingSize    int     `yaml:"ring_size"`
}

// LeavesConfig holds foliage placement settings.
type LeavesConfig struct {
	MinDepth  int        `yaml:"min_depth"`
	Count     int        `yaml:"count"`
	Spread    [3]float64 `yaml:"spread"`
	Size      float64    `yaml:"size"`
	Billboard bool       `yaml:"billboard"`
}

// CameraConfig holds the orbit camera defaults.
type CameraConfig struct {
	AutoRotate  bool    `yaml:"auto_rotate"`
	RotateSpeed float64 `yaml:"rotate_speed"` // Degrees per frame while auto-rotating
	Zoom        float64 `yaml:"zoom"`
	Distance    float64 `yaml:"distance"`
	Height      float64 `yaml:"height"`
	TargetY     float64 `yaml:"target_y"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Ticks per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
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

// Defaults returns the embedded default configuration.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
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
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate rejects values outside the documented ranges. Every violation is
// reported, joined into one error.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, field, want string) {
		if !ok {
			errs = append(errs, fmt.Errorf("%s must be %s", field, want))
		}
	}

	g := c.Growth
	check(g.Rate >= 0, "growth.rate", ">= 0")
	check(g.SplitDecay >= 0, "growth.split_decay", ">= 0")
	check(g.PassRatio >= 0 && g.PassRatio <= 1, "growth.pass_ratio", "in [0, 1]")
	check(g.Directedness >= 0 && g.Directedness <= 1, "growth.directedness", "in [0, 1]")
	check(g.LocalDepth >= 0, "growth.local_depth", ">= 0")
	check(g.InitialArea > 0, "growth.initial_area", "> 0")

	t := c.Tree
	check(t.Ratio >= 0 && t.Ratio <= 1, "tree.ratio", "in [0, 1]")
	check(t.Spread >= 0, "tree.spread", ">= 0")
	check(t.SplitSize > 0, "tree.split_size", "> 0")
	check(t.LengthScale > 0, "tree.length_scale", "> 0")
	check(t.RadiusScale >= 0, "tree.radius_scale", ">= 0")
	check(t.Taper >= 0 && t.Taper <= 1, "tree.taper", "in [0, 1]")
	check(t.RingSize >= 3, "tree.ring_size", ">= 3")

	l := c.Leaves
	check(l.MinDepth >= 0, "leaves.min_depth", ">= 0")
	check(l.Count >= 0, "leaves.count", ">= 0")
	check(l.Spread[0] >= 0 && l.Spread[1] >= 0 && l.Spread[2] >= 0, "leaves.spread", "non-negative")
	check(l.Size >= 0, "leaves.size", ">= 0")

	check(c.Camera.Zoom > 0, "camera.zoom", "> 0")
	check(c.Telemetry.StatsWindow >= 1, "telemetry.stats_window", ">= 1")

	return errors.Join(errs...)
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
