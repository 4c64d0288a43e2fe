package internal

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	DefaultActionPriority = 0
	DefaultLatePriority   = 1000
)

// Config tunes a runtime. It can be read from YAML:
//
//	default_priority: 0
//	late_priority: 1000
//	debug: false
//	log_level: info
type Config struct {
	// priority of actions created without an explicit one
	DefaultPriority int `yaml:"default_priority"`

	// priority of late actions, which run after default ones
	LatePriority int `yaml:"late_priority"`

	// check goroutine ownership and schedule integrity on every mutation
	Debug bool `yaml:"debug"`

	// minimum level logged through Logger
	LogLevel string `yaml:"log_level"`

	// nil disables logging
	Logger *zap.Logger `yaml:"-"`
}

func DefaultConfig() Config {
	return Config{
		DefaultPriority: DefaultActionPriority,
		LatePriority:    DefaultLatePriority,
		LogLevel:        "info",
	}
}

// ParseConfig reads a YAML document on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	return ParseConfig(data)
}

func (c Config) Validate() error {
	if _, err := c.level(); err != nil {
		return err
	}

	return nil
}

func (c Config) level() (zapcore.Level, error) {
	if c.LogLevel == "" {
		return zapcore.InfoLevel, nil
	}

	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return lvl, fmt.Errorf("config: log_level: %w", err)
	}

	return lvl, nil
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}

	lvl, err := c.level()
	if err != nil {
		return c.Logger
	}

	return c.Logger.WithOptions(zap.IncreaseLevel(lvl))
}
