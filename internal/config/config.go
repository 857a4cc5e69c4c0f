// Package config loads the formdesigner server configuration from an
// optional YAML file. Command-line flags are layered on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers accepted in StoreConfig.Driver.
const (
	DriverMemory = "memory"
	DriverBolt   = "bolt"
	DriverDir    = "dir"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the server configuration.
type Config struct {
	Listen string       `yaml:"listen"`
	Store  StoreConfig  `yaml:"store"`
	Log    LogConfig    `yaml:"log"`
	Theme  ThemeConfig  `yaml:"theme"`
	Render RenderConfig `yaml:"render"`
	Search SearchConfig `yaml:"search"`
	// Models is an OpenAPI document (path or URL) exposed for binding.
	Models string `yaml:"models"`
	// Preset is a JSON preset applied to every design before rendering.
	Preset string `yaml:"preset"`
}

// StoreConfig selects the design library backend.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	// Path is the bolt database file or the designs directory.
	Path string `yaml:"path"`
	// Format is the file format new designs are written in by the dir
	// driver: json or yaml.
	Format string `yaml:"format"`
	Watch  bool   `yaml:"watch"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type ThemeConfig struct {
	Name    string `yaml:"name"`
	Variant string `yaml:"variant"`
}

type RenderConfig struct {
	Minify bool `yaml:"minify"`
	// Strict fails renders whose design has lint errors.
	Strict bool `yaml:"strict"`
}

type SearchConfig struct {
	CacheSize int           `yaml:"cacheSize"`
	Debounce  time.Duration `yaml:"debounce"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Listen: ":8080",
		Store: StoreConfig{
			Driver: DriverMemory,
			Format: "json",
		},
		Log: LogConfig{Level: "info"},
		Search: SearchConfig{
			CacheSize: 128,
			Debounce:  300 * time.Millisecond,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, keeping values the document does not set,
// then validates the result.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("decode yaml: %w", err)
	}
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	return cfg.Validate()
}

// Validate checks driver and path combinations.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case "", DriverMemory:
	case DriverBolt, DriverDir:
		if strings.TrimSpace(c.Store.Path) == "" {
			return fmt.Errorf("%w: store driver %q requires a path", ErrInvalidConfig, c.Store.Driver)
		}
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalidConfig, c.Store.Driver)
	}
	switch strings.ToLower(c.Store.Format) {
	case "", "json", "yaml", "yml":
	default:
		return fmt.Errorf("%w: unknown store format %q", ErrInvalidConfig, c.Store.Format)
	}
	if c.Search.CacheSize < 0 {
		return fmt.Errorf("%w: search cache size must not be negative", ErrInvalidConfig)
	}
	if c.Search.Debounce < 0 {
		return fmt.Errorf("%w: search debounce must not be negative", ErrInvalidConfig)
	}
	return nil
}
