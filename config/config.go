// Package config provides configuration loading and access for the
// pathfinding simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Grid      GridConfig      `yaml:"grid"`
	Maze      MazeConfig      `yaml:"maze"`
	Search    SearchConfig    `yaml:"search"`
	Dynamic   DynamicConfig   `yaml:"dynamic"`
	Run       RunConfig       `yaml:"run"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// GridConfig holds grid dimensions.
type GridConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// MazeConfig holds random maze generation parameters.
type MazeConfig struct {
	Density float64 `yaml:"density"` // wall probability per cell, in [0,1]
}

// SearchConfig holds the default algorithm and heuristic selection.
// Values are display names ("A* Search", "Greedy BFS", "Manhattan",
// "Euclidean"); unknown names are rejected when the simulation starts.
type SearchConfig struct {
	Algorithm string `yaml:"algorithm"`
	Heuristic string `yaml:"heuristic"`
}

// DynamicConfig holds dynamic obstacle mode parameters.
type DynamicConfig struct {
	Enabled          bool `yaml:"enabled"`
	ObstacleInterval int  `yaml:"obstacle_interval"` // ticks between spawns
	StepInterval     int  `yaml:"step_interval"`     // ticks between agent steps
}

// RunConfig holds run control parameters.
type RunConfig struct {
	Seed     int64 `yaml:"seed"`      // 0 = time-based
	MaxTicks int   `yaml:"max_ticks"` // 0 = until arrival or no path
}

// TelemetryConfig holds telemetry output parameters.
type TelemetryConfig struct {
	OutputDir string `yaml:"output_dir"` // empty = CSV output disabled
	LogStats  bool   `yaml:"log_stats"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	CellCount int // Grid.Rows * Grid.Cols
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults
// if path is empty. Must be called before Cfg().
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

// Load loads configuration from a YAML file, merging with embedded
// defaults. If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
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
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate checks that loaded values are usable.
func (c *Config) Validate() error {
	if c.Grid.Rows < 2 || c.Grid.Cols < 2 {
		return fmt.Errorf("config: grid %dx%d too small, need at least 2x2", c.Grid.Rows, c.Grid.Cols)
	}
	if c.Maze.Density < 0 || c.Maze.Density > 1 {
		return fmt.Errorf("config: maze density %v outside [0,1]", c.Maze.Density)
	}
	if c.Dynamic.ObstacleInterval < 1 {
		return fmt.Errorf("config: obstacle_interval %d must be at least 1", c.Dynamic.ObstacleInterval)
	}
	if c.Dynamic.StepInterval < 1 {
		return fmt.Errorf("config: step_interval %d must be at least 1", c.Dynamic.StepInterval)
	}
	if c.Run.MaxTicks < 0 {
		return fmt.Errorf("config: max_ticks %d must not be negative", c.Run.MaxTicks)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.CellCount = c.Grid.Rows * c.Grid.Cols
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
