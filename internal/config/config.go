// Package config loads the user-level sb configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// Dir is the config directory under ~/.config.
	Dir = "sb"
	// ConfigFile is the config file name inside Dir.
	ConfigFile = "config.yaml"
)

// Config is the resolved user configuration. All fields are optional;
// the zero value is a valid configuration.
type Config struct {
	Defaults Defaults `yaml:"defaults"`
	Docker   Docker   `yaml:"docker"`
}

// Defaults are applied to every sandbox unless overridden per invocation.
type Defaults struct {
	// ExtraMounts are mount specs ("path" or "path:ro|rw") added after
	// the fixed mounts.
	ExtraMounts []string `yaml:"extra_mounts"`
	// EnvPassthrough are env var names forwarded from the host.
	EnvPassthrough []string `yaml:"env_passthrough"`
	// SensitiveDirs extend the built-in sensitive-directory guard.
	SensitiveDirs []string `yaml:"sensitive_dirs"`
}

type Docker struct {
	// Image overrides the built-in sandbox image.
	Image string `yaml:"image,omitempty"`
}

// Path returns the config file location (~/.config/sb/config.yaml).
func Path() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(base, Dir, ConfigFile), nil
}

// Load reads the config file, returning defaults if it does not exist.
// Path entries get ~ expanded so downstream code sees concrete paths.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Defaults.ExtraMounts = expandPaths(cfg.Defaults.ExtraMounts)
	cfg.Defaults.SensitiveDirs = expandPaths(cfg.Defaults.SensitiveDirs)
	return &cfg, nil
}

// Save writes the config file, creating the directory if needed.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Exists reports whether a config file is present.
func Exists() bool {
	path, err := Path()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func expandPaths(paths []string) []string {
	if len(paths) == 0 {
		return paths
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return paths
	}
	expanded := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "~" || strings.HasPrefix(p, "~/") {
			p = filepath.Join(home, p[1:])
		}
		expanded = append(expanded, p)
	}
	return expanded
}
