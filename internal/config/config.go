// Package config loads the YAML configuration of the lrtensor command.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/born-ml/lrtensor/internal/logging"
	"github.com/born-ml/lrtensor/internal/lrtensor"
	"github.com/born-ml/lrtensor/internal/parallel"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds all lrtensor command settings.
type Config struct {
	Tensor   TensorConfig   `yaml:"tensor"`
	Grid     GridConfig     `yaml:"grid"`
	Logging  LoggingConfig  `yaml:"logging"`
	Parallel ParallelConfig `yaml:"parallel"`
}

// TensorConfig selects the representation and accuracy.
type TensorConfig struct {
	Thresh float64 `yaml:"thresh"`
	Kind   string  `yaml:"kind"` // fullrank, lowrank-2d, lowrank-3d
}

// GridConfig describes the cubic grid of generated test fields.
type GridConfig struct {
	K    int `yaml:"k"`    // points per axis
	NDim int `yaml:"ndim"` // number of axes
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// ParallelConfig configures the dense kernels.
type ParallelConfig struct {
	Workers int `yaml:"workers"` // 0 uses all CPUs
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Tensor: TensorConfig{
			Thresh: 1e-6,
			Kind:   lrtensor.KindLowRank2D.String(),
		},
		Grid: GridConfig{
			K:    8,
			NDim: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML file on top of the defaults.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes the configuration as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies LRTENSOR_* environment variables.
func (c *Config) applyEnvOverrides() {
	if level := os.Getenv("LRTENSOR_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if kind := os.Getenv("LRTENSOR_KIND"); kind != "" {
		c.Tensor.Kind = kind
	}
	if w := os.Getenv("LRTENSOR_WORKERS"); w != "" {
		if n, err := strconv.Atoi(w); err == nil {
			c.Parallel.Workers = n
		}
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if _, err := c.Args(); err != nil {
		return err
	}
	if c.Grid.K < 1 {
		return fmt.Errorf("invalid grid: k must be positive, got %d", c.Grid.K)
	}
	if c.Grid.NDim < 1 {
		return fmt.Errorf("invalid grid: ndim must be positive, got %d", c.Grid.NDim)
	}
	if c.Parallel.Workers < 0 {
		return fmt.Errorf("invalid parallel workers: %d", c.Parallel.Workers)
	}
	if c.Logging.Level != "" {
		if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
	}
	return nil
}

// Args converts the tensor section to construction arguments.
func (c *Config) Args() (lrtensor.Args, error) {
	kind, err := lrtensor.ParseKind(c.Tensor.Kind)
	if err != nil {
		return lrtensor.Args{}, err
	}
	return lrtensor.NewArgs(c.Tensor.Thresh, kind)
}

// LoggerOptions returns the logging section as logger options.
func (c *Config) LoggerOptions() logging.Options {
	return logging.Options{Level: c.Logging.Level, JSON: c.Logging.JSON}
}

// Kernels returns the loop configuration for the dense kernels.
func (c *Config) Kernels() parallel.Config {
	return parallel.DefaultConfig().WithWorkers(c.Parallel.Workers)
}
