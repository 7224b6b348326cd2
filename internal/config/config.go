package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// OutputFormat selects how reports are rendered
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// ColorMode controls ANSI colors in text output
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

const defaultDebounce = 500 * time.Millisecond

// Config represents the complete rulesguard configuration
type Config struct {
	Root   RootConfig   `yaml:"root"`
	Output OutputConfig `yaml:"output"`
	Watch  WatchConfig  `yaml:"watch"`
}

// RootConfig configures repository root resolution
type RootConfig struct {
	Dir    string `yaml:"dir"`
	UseGit *bool  `yaml:"use_git"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Format OutputFormat `yaml:"format"`
	Color  ColorMode    `yaml:"color"`
}

// WatchConfig configures watch mode
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.expandEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadOptional behaves like Load but returns defaults when the file does not
// exist
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// DefaultPath returns $XDG_CONFIG_HOME/rulesguard/config.yaml, falling back
// to ~/.config when XDG_CONFIG_HOME is unset
func DefaultPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "rulesguard", "config.yaml"), nil
}

// expandEnv expands environment variables in all string fields
func (c *Config) expandEnv() {
	c.Root.Dir = os.ExpandEnv(c.Root.Dir)
	c.Watch.Debounce = os.ExpandEnv(c.Watch.Debounce)
}

// applyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) applyDefaults() {
	if c.Root.UseGit == nil {
		useGit := true
		c.Root.UseGit = &useGit
	}
	if c.Output.Format == "" {
		c.Output.Format = FormatText
	}
	if c.Output.Color == "" {
		c.Output.Color = ColorAuto
	}
	if c.Watch.Debounce == "" {
		c.Watch.Debounce = defaultDebounce.String()
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatText, FormatJSON:
		// valid
	default:
		return fmt.Errorf("invalid output.format: %s (must be text or json)", c.Output.Format)
	}

	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid output.color: %s (must be auto, always, or never)", c.Output.Color)
	}

	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return fmt.Errorf("invalid watch.debounce %q: %w", c.Watch.Debounce, err)
	}
	if d <= 0 {
		return fmt.Errorf("watch.debounce must be positive: %s", c.Watch.Debounce)
	}

	return nil
}

// GitEnabled reports whether git should be queried for the repository root
func (c *Config) GitEnabled() bool {
	return c.Root.UseGit == nil || *c.Root.UseGit
}

// StartDir returns the configured start directory, or fallback when unset
func (c *Config) StartDir(fallback string) string {
	if c.Root.Dir == "" {
		return fallback
	}
	return c.Root.Dir
}

// DebounceDelay returns the watch debounce as a duration
func (c *Config) DebounceDelay() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return defaultDebounce
	}
	return d
}
