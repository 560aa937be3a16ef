// Package config loads the simulation configuration from a YAML file and
// KINEMATIC_ prefixed environment variables, the latter taking precedence.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/akmonengine/kinematic"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "KINEMATIC_"

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Logging    LoggingConfig      `yaml:"logging" envPrefix:"LOG_"`
	Simulation SimulationConfig   `yaml:"simulation" envPrefix:"SIM_"`
	Controller kinematic.Settings `yaml:"controller" envPrefix:"CONTROLLER_"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

type SimulationConfig struct {
	// TickRate is the number of fixed steps per simulated second
	TickRate int `yaml:"tick_rate" env:"TICK_RATE"`
	Ticks    int `yaml:"ticks" env:"TICKS"`
	Agents   int `yaml:"agents" env:"AGENTS"`
	Workers  int `yaml:"workers" env:"WORKERS"`
	// Level is "course", a flat obstacle course, or "planet", a sphere with
	// gravity toward its center
	Level string `yaml:"level" env:"LEVEL"`
	// BroadPhase is "rtree" or "grid"
	BroadPhase string  `yaml:"broad_phase" env:"BROAD_PHASE"`
	CellSize   float64 `yaml:"cell_size" env:"CELL_SIZE"`
}

func Default() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Simulation: SimulationConfig{
			TickRate:   60,
			Ticks:      600,
			Agents:     1,
			Workers:    1,
			Level:      "course",
			BroadPhase: "rtree",
			CellSize:   4,
		},
		Controller: kinematic.DefaultSettings(),
	}
}

// Load reads path over the defaults, then applies environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ParseEnv overlays KINEMATIC_ environment variables onto target
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	switch {
	case c.Simulation.TickRate < 1:
		return fmt.Errorf("%w: tick rate %d must be at least 1", ErrInvalidConfig, c.Simulation.TickRate)
	case c.Simulation.Ticks < 0:
		return fmt.Errorf("%w: ticks %d must not be negative", ErrInvalidConfig, c.Simulation.Ticks)
	case c.Simulation.Agents < 1:
		return fmt.Errorf("%w: agents %d must be at least 1", ErrInvalidConfig, c.Simulation.Agents)
	case c.Simulation.Level != "course" && c.Simulation.Level != "planet":
		return fmt.Errorf("%w: unknown level %q", ErrInvalidConfig, c.Simulation.Level)
	case c.Simulation.BroadPhase != "rtree" && c.Simulation.BroadPhase != "grid":
		return fmt.Errorf("%w: unknown broad phase %q", ErrInvalidConfig, c.Simulation.BroadPhase)
	case c.Simulation.BroadPhase == "grid" && !(c.Simulation.CellSize > 0):
		return fmt.Errorf("%w: cell size %v must be positive", ErrInvalidConfig, c.Simulation.CellSize)
	}

	if err := c.Controller.Validate(); err != nil {
		return fmt.Errorf("controller: %w", err)
	}
	return nil
}

// TimeStep is the duration of one tick in seconds
func (s SimulationConfig) TimeStep() float64 {
	return 1 / float64(s.TickRate)
}
