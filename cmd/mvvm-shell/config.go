package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mvvm-kit/mvvm-go/cmd/mvvm-shell/interactive"
)

// Config holds the shell configuration.
type Config struct {
	Prompt   string `yaml:"prompt"`
	LogLevel string `yaml:"log_level"`

	// EventLog is the path of the CBOR notification log. Empty disables it.
	EventLog string `yaml:"event_log"`

	// TraceEvents mirrors notification events to the operational log at debug level.
	TraceEvents bool `yaml:"trace_events"`

	Loop    LoopConfig                `yaml:"loop"`
	Counter interactive.CounterConfig `yaml:"counter"`
}

// LoopConfig configures the UI loop.
type LoopConfig struct {
	Name string `yaml:"name"`

	// Autostart runs the loop on its own goroutine. When false, queued work
	// only runs when the "pump" command is issued.
	Autostart bool `yaml:"autostart"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Prompt:   "mvvm> ",
		LogLevel: "info",
		Loop: LoopConfig{
			Name:      "ui",
			Autostart: true,
		},
		Counter: interactive.CounterConfig{
			Min:     0,
			Max:     10,
			Initial: 0,
		},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", c.LogLevel)
	}
	if c.Loop.Name == "" {
		return fmt.Errorf("loop name is required")
	}
	return c.Counter.Validate()
}
