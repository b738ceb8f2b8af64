// Package config provides the Config struct and loader for .plpstats.yaml
// configuration files.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up by Load.
const FileName = ".plpstats.yaml"

// Default values for configuration. New() references them and no other code
// should duplicate them.
const (
	DefaultMaxScores = 0
	DefaultMaxValues = 0

	DefaultBootstrapIterations      = 2000
	DefaultBootstrapConfidenceLevel = 0.95
	DefaultBootstrapSeed            = 42

	DefaultCohortWorkers = 4
)

// maxSearchDepth bounds how many parent directories Load walks.
const maxSearchDepth = 10

// LimitsConfig caps input sizes. Zero means unlimited.
type LimitsConfig struct {
	MaxScores int `yaml:"max_scores,omitempty" mapstructure:"max_scores"`
	MaxValues int `yaml:"max_values,omitempty" mapstructure:"max_values"`
}

// BootstrapConfig holds bootstrap AUC interval defaults.
type BootstrapConfig struct {
	Iterations      int     `yaml:"iterations,omitempty" mapstructure:"iterations"`
	ConfidenceLevel float64 `yaml:"confidence_level,omitempty" mapstructure:"confidence_level"`
	Seed            *int64  `yaml:"seed,omitempty" mapstructure:"seed"`
}

// CohortsConfig holds cohort evaluation settings.
type CohortsConfig struct {
	Workers int `yaml:"workers,omitempty" mapstructure:"workers"`
}

// Config is the top-level configuration loaded from .plpstats.yaml.
type Config struct {
	Limits    LimitsConfig    `yaml:"limits,omitempty" mapstructure:"limits"`
	Bootstrap BootstrapConfig `yaml:"bootstrap,omitempty" mapstructure:"bootstrap"`
	Cohorts   CohortsConfig   `yaml:"cohorts,omitempty" mapstructure:"cohorts"`
}

// New returns a Config with all defaults populated.
func New() *Config {
	seed := int64(DefaultBootstrapSeed)
	return &Config{
		Limits: LimitsConfig{
			MaxScores: DefaultMaxScores,
			MaxValues: DefaultMaxValues,
		},
		Bootstrap: BootstrapConfig{
			Iterations:      DefaultBootstrapIterations,
			ConfidenceLevel: DefaultBootstrapConfidenceLevel,
			Seed:            &seed,
		},
		Cohorts: CohortsConfig{
			Workers: DefaultCohortWorkers,
		},
	}
}

// WithDefaults returns a copy of cfg with every zero field set to its
// default. A nil cfg yields New().
func WithDefaults(cfg *Config) *Config {
	out := New()
	if cfg != nil {
		mergeConfig(out, cfg)
	}
	return out
}

// Load finds .plpstats.yaml by walking up from startDir, validates it against
// the config schema, and merges it onto the defaults. If no file is found the
// defaults are returned with a nil error.
func Load(startDir string) (*Config, error) {
	cfg := New()

	path, data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("No config file found, using defaults", "startDir", startDir)
			return cfg, nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}

	if errs := Validate(data); len(errs) > 0 {
		return nil, fmt.Errorf("invalid %s: %s", path, strings.Join(errs, "; "))
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	slog.Debug("Loaded config", "path", path)
	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// FromMap decodes options handed over as a generic map (for example by a
// host pipeline) and merges them onto the defaults. Keys use the same names
// as the YAML file.
func FromMap(params map[string]any) (*Config, error) {
	cfg := New()

	var src Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &src,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(params); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := src.validate(); err != nil {
		return nil, err
	}

	mergeConfig(cfg, &src)
	return cfg, nil
}

// validate applies the schema's range rules to a decoded config. Zero means
// "not set" and is accepted.
func (c *Config) validate() error {
	switch {
	case c.Limits.MaxScores < 0:
		return fmt.Errorf("limits.max_scores must be >= 0, got %d", c.Limits.MaxScores)
	case c.Limits.MaxValues < 0:
		return fmt.Errorf("limits.max_values must be >= 0, got %d", c.Limits.MaxValues)
	case c.Bootstrap.Iterations < 0:
		return fmt.Errorf("bootstrap.iterations must be >= 0, got %d", c.Bootstrap.Iterations)
	case c.Bootstrap.ConfidenceLevel < 0 || c.Bootstrap.ConfidenceLevel >= 1:
		return fmt.Errorf("bootstrap.confidence_level must be in (0, 1), got %v", c.Bootstrap.ConfidenceLevel)
	case c.Cohorts.Workers < 0:
		return fmt.Errorf("cohorts.workers must be >= 0, got %d", c.Cohorts.Workers)
	}
	return nil
}

// findConfigFile walks up from dir looking for FileName. Returns
// os.ErrNotExist if none is found and propagates real I/O errors.
func findConfigFile(dir string) (string, []byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < maxSearchDepth; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return p, data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return "", nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *Config) {
	if src.Limits.MaxScores != 0 {
		dst.Limits.MaxScores = src.Limits.MaxScores
	}
	if src.Limits.MaxValues != 0 {
		dst.Limits.MaxValues = src.Limits.MaxValues
	}

	if src.Bootstrap.Iterations != 0 {
		dst.Bootstrap.Iterations = src.Bootstrap.Iterations
	}
	if src.Bootstrap.ConfidenceLevel != 0 {
		dst.Bootstrap.ConfidenceLevel = src.Bootstrap.ConfidenceLevel
	}
	if src.Bootstrap.Seed != nil {
		dst.Bootstrap.Seed = src.Bootstrap.Seed
	}

	if src.Cohorts.Workers != 0 {
		dst.Cohorts.Workers = src.Cohorts.Workers
	}
}
