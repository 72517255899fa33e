package set

import (
	"math"

	"go.uber.org/zap"

	"github.com/fzft/go-chainset/log"
)

const (
	DefaultCapacity      = 7
	DefaultMaxLoadFactor = 0.7
)

// Config holds the construction parameters of a Set. Clear restores a set to
// an empty table of Config.Capacity buckets.
type Config struct {
	Capacity      int
	MaxLoadFactor float64
	Logger        *zap.Logger
}

type Option func(*Config)

// WithCapacity sets the initial number of buckets.
func WithCapacity(n int) Option {
	return func(c *Config) {
		c.Capacity = n
	}
}

// WithMaxLoadFactor sets the size/capacity ratio that insertion may not exceed.
func WithMaxLoadFactor(f float64) Option {
	return func(c *Config) {
		c.MaxLoadFactor = f
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

func newConfig(opts []Option) Config {
	cfg := Config{
		Capacity:      DefaultCapacity,
		MaxLoadFactor: DefaultMaxLoadFactor,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Capacity <= 0 {
		panic("set: capacity must be positive")
	}
	if !(cfg.MaxLoadFactor > 0) || math.IsInf(cfg.MaxLoadFactor, 0) {
		panic("set: max load factor must be a positive finite number")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Logger
	}
	return cfg
}
