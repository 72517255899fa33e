package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fzft/go-chainset/hashing"
	"github.com/fzft/go-chainset/set"
)

var ErrInvalidConfig = errors.New("invalid configuration")

const (
	KeyTypeString = "string"
	KeyTypeInt    = "int"

	DefaultHistoryFile = ".chainset_history"
	DefaultPrompt      = "chainset> "
)

// Config is the shell configuration file.
type Config struct {
	Set     SetConfig     `yaml:"set"`
	Shell   ShellConfig   `yaml:"shell"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// SetConfig describes the set the shell operates on.
type SetConfig struct {
	Capacity      int     `yaml:"capacity"`
	MaxLoadFactor float64 `yaml:"max_load_factor"`
	KeyType       string  `yaml:"key_type"` // string or int
	Hasher        string  `yaml:"hasher"`   // string keys only
}

type ShellConfig struct {
	HistoryFile string `yaml:"history_file"`
	Prompt      string `yaml:"prompt"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
	TimeZone    string `yaml:"time_zone"`
}

type MetricsConfig struct {
	Listen string `yaml:"listen"` // empty disables the endpoint
}

func Default() *Config {
	return &Config{
		Set: SetConfig{
			Capacity:      set.DefaultCapacity,
			MaxLoadFactor: set.DefaultMaxLoadFactor,
			KeyType:       KeyTypeString,
			Hasher:        hashing.NameDefault,
		},
		Shell: ShellConfig{
			HistoryFile: DefaultHistoryFile,
			Prompt:      DefaultPrompt,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Set.Capacity <= 0 {
		return fmt.Errorf("%w: set.capacity must be positive, got %d", ErrInvalidConfig, c.Set.Capacity)
	}
	if !(c.Set.MaxLoadFactor > 0) || math.IsInf(c.Set.MaxLoadFactor, 0) {
		return fmt.Errorf("%w: set.max_load_factor must be a positive finite number, got %v", ErrInvalidConfig, c.Set.MaxLoadFactor)
	}
	switch c.Set.KeyType {
	case KeyTypeString, KeyTypeInt:
	default:
		return fmt.Errorf("%w: set.key_type must be %q or %q, got %q", ErrInvalidConfig, KeyTypeString, KeyTypeInt, c.Set.KeyType)
	}
	if _, err := hashing.ByName(c.Set.Hasher); err != nil {
		return fmt.Errorf("%w: set.hasher: %v", ErrInvalidConfig, err)
	}
	return nil
}

// SetOptions converts the set section into set options.
func (c *Config) SetOptions() []set.Option {
	return []set.Option{
		set.WithCapacity(c.Set.Capacity),
		set.WithMaxLoadFactor(c.Set.MaxLoadFactor),
	}
}
