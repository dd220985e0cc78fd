package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/boxdim/internal/dynamo"
	"github.com/san-kum/boxdim/internal/physics"
)

// Defaults follow the original Lorenz exploration: a long run with
// (15, 40, 2.66) and a 10-unit grid over [-75, 75)^3.
const (
	DefaultSystem    = "lorenz"
	DefaultT0        = 0.0
	DefaultMaxTime   = 100.0
	DefaultSteps     = 40000
	DefaultHalfWidth = 75.0
	DefaultSide      = 10.0
	DefaultMinSide   = 2.5
	DefaultMargin    = 10.0
)

type Config struct {
	System    string             `yaml:"system"`
	Params    map[string]float64 `yaml:"params"`
	InitState []float64          `yaml:"init_state"`
	T0        float64            `yaml:"t0"`
	MaxTime   float64            `yaml:"max_time"`
	Steps     int                `yaml:"steps"`
	Box       BoxConfig          `yaml:"box"`
}

// BoxConfig describes the grid(s) used for occupancy counting. With
// Scales > 1 the sides run geometrically from Side down to MinSide.
type BoxConfig struct {
	HalfWidth  float64 `yaml:"half_width"`
	AutoRegion bool    `yaml:"auto_region"`
	Margin     float64 `yaml:"margin"`
	Side       float64 `yaml:"side"`
	MinSide    float64 `yaml:"min_side"`
	Scales     int     `yaml:"scales"`
	Workers    int     `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		System:    DefaultSystem,
		Params:    map[string]float64{"sigma": 15, "rho": 40, "beta": 2.66},
		InitState: []float64{1, 1, 1},
		T0:        DefaultT0,
		MaxTime:   DefaultMaxTime,
		Steps:     DefaultSteps,
		Box: BoxConfig{
			HalfWidth: DefaultHalfWidth,
			Margin:    DefaultMargin,
			Side:      DefaultSide,
			MinSide:   DefaultMinSide,
			Scales:    1,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	// yaml.v3 merges into a non-nil map, which would leak Lorenz names
	// into other systems.
	cfg.Params = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Params == nil && cfg.System == DefaultSystem {
		cfg.Params = DefaultConfig().Params
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Params = make(map[string]float64, len(c.Params))
	for k, v := range c.Params {
		cp.Params[k] = v
	}
	cp.InitState = append([]float64(nil), c.InitState...)
	return &cp
}

// Validate checks every field that the integrator or grid would otherwise
// reject, plus the names of the parameters.
func (c *Config) Validate() error {
	sys, err := physics.Lookup(c.System)
	if err != nil {
		return err
	}
	if _, err := c.ResolveParams(sys); err != nil {
		return err
	}
	if _, err := c.InitialState(sys); err != nil {
		return err
	}
	if c.Steps <= 0 {
		return dynamo.InvalidArgument("steps", c.Steps, "must be positive")
	}
	if !finite(c.T0) || !finite(c.MaxTime) {
		return dynamo.InvalidArgument("max_time", c.MaxTime, "times must be finite")
	}
	if c.Box.Side <= 0 || !finite(c.Box.Side) {
		return dynamo.InvalidArgument("box.side", c.Box.Side, "must be positive")
	}
	if c.Box.Scales > 1 && (c.Box.MinSide <= 0 || c.Box.MinSide > c.Box.Side) {
		return dynamo.InvalidArgument("box.min_side", c.Box.MinSide, "must be in (0, side]")
	}
	if !c.Box.AutoRegion && !(c.Box.HalfWidth > 0) {
		return dynamo.InvalidArgument("box.half_width", c.Box.HalfWidth, "must be positive")
	}
	if c.Box.AutoRegion && c.Box.Margin < 0 {
		return dynamo.InvalidArgument("box.margin", c.Box.Margin, "must not be negative")
	}
	return nil
}

// ResolveParams maps named parameters onto the system's parameter triple.
// Missing names keep the system default.
func (c *Config) ResolveParams(sys physics.System) (dynamo.Params, error) {
	p := sys.DefaultParam
	for name, v := range c.Params {
		idx := sys.Param(name)
		if idx < 0 {
			return p, fmt.Errorf("system %s has no parameter %q: %w", sys.Name, name, dynamo.ErrInvalidArgument)
		}
		p[idx] = v
	}
	return p, nil
}

// InitialState returns the configured starting point, or the system default
// when none is set.
func (c *Config) InitialState(sys physics.System) (dynamo.State, error) {
	if len(c.InitState) == 0 {
		return sys.DefaultState, nil
	}
	if len(c.InitState) != 3 {
		return dynamo.State{}, dynamo.InvalidArgument("init_state", c.InitState, "need exactly 3 values")
	}
	return dynamo.State{c.InitState[0], c.InitState[1], c.InitState[2]}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
