package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// TaskConfig is one task entry in a registration YAML file. Command is
// shelled out to by the run daemon; the library API (scheduler.Registration)
// takes a Go callback directly and has no use for this type.
type TaskConfig struct {
	Name       string `mapstructure:"name" yaml:"name"`
	Cron       string `mapstructure:"cron" yaml:"cron"`
	Command    string `mapstructure:"command" yaml:"command"`
	RetryDelay string `mapstructure:"retry_delay" yaml:"retry_delay"`
}

// Config is the top-level shape of a registration file accepted by run,
// diff, validate --file, and produced by import.
type Config struct {
	Store        string       `mapstructure:"store" yaml:"store"`
	PollInterval string       `mapstructure:"poll_interval" yaml:"poll_interval"`
	Tasks        []TaskConfig `mapstructure:"tasks" yaml:"tasks"`
}

// RetryDelayDuration parses TaskConfig.RetryDelay, defaulting to zero for
// an empty string.
func (t TaskConfig) RetryDelayDuration() (time.Duration, error) {
	if t.RetryDelay == "" {
		return 0, nil
	}
	return time.ParseDuration(t.RetryDelay)
}

// PollIntervalDuration parses Config.PollInterval, defaulting to zero
// (caller applies its own default) for an empty string.
func (c Config) PollIntervalDuration() (time.Duration, error) {
	if c.PollInterval == "" {
		return 0, nil
	}
	return time.ParseDuration(c.PollInterval)
}

// LoadConfig reads a YAML registration file at path into a Config.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}
