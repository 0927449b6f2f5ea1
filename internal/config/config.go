package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mergegate/mergegate/internal/constants"
)

// Default gating mode. Teams start in warning mode and switch to error
// mode once the findings backlog is manageable.
const DefaultMode = "warning"

// Config is the main configuration structure
type Config struct {
	// Mode is the gating policy: "warning" or "error"
	Mode string `json:"mode" mapstructure:"mode" yaml:"mode"`

	// Parallel runs the five check categories concurrently
	Parallel bool `json:"parallel" mapstructure:"parallel" yaml:"parallel"`

	// MaxGoroutines bounds concurrent validator execution (0 = executor default)
	MaxGoroutines int `json:"maxGoroutines" mapstructure:"max_goroutines" yaml:"max_goroutines"`

	// Architecture holds the layer hierarchy used by layer separation checks
	Architecture ArchitectureConfig `json:"architecture" mapstructure:"architecture" yaml:"architecture"`

	// Coverage holds test coverage check configuration
	Coverage CoverageConfig `json:"coverage" mapstructure:"coverage" yaml:"coverage"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`
}

// LayerDefinition describes one architectural layer: the path fragments
// that classify a file into it and the layers it must not depend on
type LayerDefinition struct {
	// Name is the layer identifier (controller, service, repository, model)
	Name string `json:"name" mapstructure:"name" yaml:"name"`

	// Paths are the path fragments that map a file into this layer
	Paths []string `json:"paths" mapstructure:"paths" yaml:"paths"`

	// Allowed lists the layers this layer may depend on (informational,
	// used in remediation text)
	Allowed []string `json:"allowed" mapstructure:"allowed" yaml:"allowed"`

	// Prohibited lists the layers this layer must not depend on
	Prohibited []string `json:"prohibited" mapstructure:"prohibited" yaml:"prohibited"`
}

// ArchitectureConfig holds the injected layer hierarchy
type ArchitectureConfig struct {
	Layers []LayerDefinition `json:"layers" mapstructure:"layers" yaml:"layers"`
}

// LayerByName returns the layer definition with the given name, or nil
func (a ArchitectureConfig) LayerByName(name string) *LayerDefinition {
	for i := range a.Layers {
		if a.Layers[i].Name == name {
			return &a.Layers[i]
		}
	}
	return nil
}

// CoverageConfig holds test coverage check configuration
type CoverageConfig struct {
	// SkipPatterns are gitignore-style patterns for files exempt from the
	// new-functions-have-tests check
	SkipPatterns []string `json:"skipPatterns" mapstructure:"skip_patterns" yaml:"skip_patterns"`
}

// OutputConfig holds output formatting configuration
type OutputConfig struct {
	// Format is the default output format: text, markdown, json, yaml
	Format string `json:"format" mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Mode:          DefaultMode,
		Parallel:      true,
		MaxGoroutines: 0,
		Architecture: ArchitectureConfig{
			Layers: []LayerDefinition{
				{
					Name:       "controller",
					Paths:      []string{"api/", "controllers/"},
					Allowed:    []string{"service", "model"},
					Prohibited: []string{"repository"},
				},
				{
					Name:       "service",
					Paths:      []string{"services/", "business/"},
					Allowed:    []string{"repository", "model"},
					Prohibited: []string{"controller", "api"},
				},
				{
					Name:       "repository",
					Paths:      []string{"repositories/", "data/"},
					Allowed:    []string{"model"},
					Prohibited: []string{"controller", "api", "service"},
				},
				{
					Name:       "model",
					Paths:      []string{"models/", "entities/"},
					Allowed:    []string{},
					Prohibited: []string{"controller", "api", "service", "repository"},
				},
			},
		},
		Coverage: CoverageConfig{
			SkipPatterns: []string{
				"test_*",
				"**/test_*",
				"__init__.py",
				"**/__init__.py",
				"migrations/**",
				"scripts/**",
				"config/**",
				"*.example",
			},
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	if c.Mode != "warning" && c.Mode != "error" {
		return fmt.Errorf("invalid mode %q: must be \"warning\" or \"error\"", c.Mode)
	}
	if c.MaxGoroutines < 0 {
		return fmt.Errorf("max_goroutines must be >= 0, got %d", c.MaxGoroutines)
	}
	seen := make(map[string]bool)
	for _, layer := range c.Architecture.Layers {
		if layer.Name == "" {
			return fmt.Errorf("layer definition with empty name")
		}
		if seen[layer.Name] {
			return fmt.Errorf("duplicate layer definition: %s", layer.Name)
		}
		seen[layer.Name] = true
	}
	return nil
}

// configFileNames lists recognized config files in order of preference
var configFileNames = []string{
	constants.ConfigFileName,
	".mergegate.yaml",
	".mergegate.yml",
	".mergegate.json",
	"mergegate.yaml",
	"mergegate.yml",
}

// LoadConfig loads configuration from the given path, or from a
// discovered config file when path is empty. Defaults apply for any
// value not present in the file; MERGEGATE_* environment variables
// override file values.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := DefaultConfig()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if mode := v.GetString("mode"); mode != "" {
		cfg.Mode = mode
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile searches the current directory and its parents for a
// recognized config file
func findConfigFile() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
