package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultConfigFile = ".shipway.yml"

// Config is the top-level Shipway configuration.
type Config struct {
	// Product is the base name embedded in every artifact file name.
	Product string `yaml:"product"`

	Toolchain ToolchainConfig `yaml:"toolchain"`

	// Targets replaces the built-in matrix when non-empty.
	Targets []TargetConfig `yaml:"targets"`

	Release ReleaseConfig `yaml:"release"`
	Fanout  FanoutConfig  `yaml:"fanout"`
	Scan    ScanConfig    `yaml:"scan"`
}

// Load reads configuration from a YAML file.
// If path is empty, it tries the default file.
// Returns sensible defaults if the file doesn't exist.
func Load(path string) (*Config, error) {
	if path == "" {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaults(), nil
		}
		return nil, err
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Product:   "app",
		Toolchain: DefaultToolchainConfig(),
		Release:   DefaultReleaseConfig(),
		Fanout:    DefaultFanoutConfig(),
		Scan:      DefaultScanConfig(),
	}
}

// ResolvedTargets returns the build matrix for a run: the configured
// targets if any, otherwise the built-in default matrix. The returned
// slice is a copy — the matrix is fixed once a run starts.
func (c *Config) ResolvedTargets() []TargetConfig {
	src := c.Targets
	if len(src) == 0 {
		src = DefaultTargets()
	}
	out := make([]TargetConfig, len(src))
	copy(out, src)
	return out
}
