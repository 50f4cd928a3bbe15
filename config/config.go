package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/PM4Rs/promi/buffer"
	"github.com/PM4Rs/promi/errors"
	"github.com/PM4Rs/promi/xes"
)

// Parse mode constants
const (
	ModeStrict  = "strict"
	ModeLenient = "lenient"
)

// Config holds the processing settings an embedding application feeds
// into readers, buffers and pipelines.
type Config struct {
	Mode     string         `yaml:"mode"`
	Buffer   BufferConfig   `yaml:"buffer"`
	Throttle ThrottleConfig `yaml:"throttle"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// BufferConfig sizes the decoupling buffer. Capacity 0 means
// unbounded.
type BufferConfig struct {
	Capacity int    `yaml:"capacity"`
	Policy   string `yaml:"policy"` // block, drop_oldest, drop_newest
}

// ThrottleConfig rate-limits live replays. Rate 0 disables throttling.
type ThrottleConfig struct {
	Rate  float64 `yaml:"rate"` // items per second
	Burst int     `yaml:"burst"`
}

// LoggingConfig controls the slog setup.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// Default returns a configuration with every field at its default.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load parses a YAML document and validates it.
func Load(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapParse(err, "Config", "Load", "yaml decoding")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile reads and parses a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "Config", "LoadFile", "file reading")
	}
	return Load(data)
}

func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeLenient
	}
	if c.Buffer.Policy == "" {
		c.Buffer.Policy = "block"
	}
	if c.Throttle.Rate > 0 && c.Throttle.Burst <= 0 {
		c.Throttle.Burst = 1
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

// Validate fills defaults and rejects inconsistent settings.
func (c *Config) Validate() error {
	c.applyDefaults()

	if c.Mode != ModeStrict && c.Mode != ModeLenient {
		return errors.WrapValidation(
			fmt.Errorf("mode %q: %w", c.Mode, errors.ErrInvalidConfig),
			"Config", "Validate", "mode check")
	}
	if c.Buffer.Capacity < 0 {
		return errors.WrapValidation(
			fmt.Errorf("buffer capacity %d: %w", c.Buffer.Capacity, errors.ErrInvalidConfig),
			"Config", "Validate", "buffer check")
	}
	if _, err := c.overflowPolicy(); err != nil {
		return err
	}
	if c.Throttle.Rate < 0 {
		return errors.WrapValidation(
			fmt.Errorf("throttle rate %v: %w", c.Throttle.Rate, errors.ErrInvalidConfig),
			"Config", "Validate", "throttle check")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.WrapValidation(
			fmt.Errorf("log level %q: %w", c.Logging.Level, errors.ErrInvalidConfig),
			"Config", "Validate", "logging check")
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return errors.WrapValidation(
			fmt.Errorf("log format %q: %w", c.Logging.Format, errors.ErrInvalidConfig),
			"Config", "Validate", "logging check")
	}
	return nil
}

func (c *Config) overflowPolicy() (buffer.OverflowPolicy, error) {
	switch c.Buffer.Policy {
	case "block":
		return buffer.Block, nil
	case "drop_oldest":
		return buffer.DropOldest, nil
	case "drop_newest":
		return buffer.DropNewest, nil
	}
	return buffer.Block, errors.WrapValidation(
		fmt.Errorf("overflow policy %q: %w", c.Buffer.Policy, errors.ErrInvalidConfig),
		"Config", "Validate", "buffer check")
}

// Strict reports whether strict parsing is configured.
func (c *Config) Strict() bool {
	return c.Mode == ModeStrict
}

// ReaderOptions converts the parse settings into xes reader options.
func (c *Config) ReaderOptions() []xes.ReaderOption {
	return []xes.ReaderOption{
		xes.WithStrict(c.Strict()),
		xes.WithLogger(c.Logger()),
	}
}

// BufferOptions converts the buffer settings into buffer options.
// Combine with buffer.New(c.Buffer.Capacity, ...).
func (c *Config) BufferOptions() []buffer.Option {
	policy, err := c.overflowPolicy()
	if err != nil {
		policy = buffer.Block
	}
	return []buffer.Option{buffer.WithOverflowPolicy(policy)}
}
