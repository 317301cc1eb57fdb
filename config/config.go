// Package config provides configuration loading and validation for the
// simulation. Defaults are embedded; a YAML file can override them. The
// resulting Config is immutable by convention and passed explicitly into
// the grid, behavior and clock constructors — there is no process-wide
// mutable parameter state.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation parameters.
type Config struct {
	Grid       GridConfig       `yaml:"grid"`
	Population PopulationConfig `yaml:"population"`
	Prey       PreyConfig       `yaml:"prey"`
	Predator   PredatorConfig   `yaml:"predator"`
	Run        RunConfig        `yaml:"run"`
}

// GridConfig holds world dimensions.
type GridConfig struct {
	Size int `yaml:"size"` // side length N of the toroidal grid
}

// PopulationConfig holds initial population counts per species.
type PopulationConfig struct {
	Prey      int `yaml:"prey"`
	Predators int `yaml:"predators"`
}

// PreyConfig holds prey behavior parameters.
type PreyConfig struct {
	ReproduceProb float64 `yaml:"reproduce_prob"` // in (0,1)
}

// PredatorConfig holds predator behavior parameters.
type PredatorConfig struct {
	ReproduceProb float64 `yaml:"reproduce_prob"` // in (0,1)
	StarveTime    int     `yaml:"starve_time"`    // ticks without eating before death, >= 1
	HuntingRadius int     `yaml:"hunting_radius"` // Manhattan hunting range, >= 1
}

// RunConfig holds run-loop parameters.
type RunConfig struct {
	MaxTicks int `yaml:"max_ticks"`
}

// Load builds a Config from the embedded defaults, overlaid with the YAML
// file at path if path is non-empty, and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first configuration error, if any. All of these are
// construction-time failures; nothing here can fail mid-run.
func (c *Config) Validate() error {
	if c.Grid.Size <= 0 {
		return fmt.Errorf("grid.size must be positive, got %d", c.Grid.Size)
	}
	if c.Population.Prey < 0 || c.Population.Predators < 0 {
		return fmt.Errorf("population counts must be non-negative, got prey=%d predators=%d",
			c.Population.Prey, c.Population.Predators)
	}
	capacity := c.Grid.Size * c.Grid.Size
	if total := c.Population.Prey + c.Population.Predators; total > capacity {
		return fmt.Errorf("initial population %d exceeds grid capacity %d", total, capacity)
	}
	if p := c.Prey.ReproduceProb; p <= 0 || p >= 1 {
		return fmt.Errorf("prey.reproduce_prob must be in (0,1), got %g", p)
	}
	if p := c.Predator.ReproduceProb; p <= 0 || p >= 1 {
		return fmt.Errorf("predator.reproduce_prob must be in (0,1), got %g", p)
	}
	if c.Predator.StarveTime < 1 {
		return fmt.Errorf("predator.starve_time must be at least 1, got %d", c.Predator.StarveTime)
	}
	if c.Predator.HuntingRadius < 1 {
		return fmt.Errorf("predator.hunting_radius must be at least 1, got %d", c.Predator.HuntingRadius)
	}
	if c.Run.MaxTicks < 1 {
		return fmt.Errorf("run.max_ticks must be at least 1, got %d", c.Run.MaxTicks)
	}
	return nil
}

// WriteYAML saves the configuration to a file, for run-output snapshots.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config snapshot: %w", err)
	}
	return nil
}
