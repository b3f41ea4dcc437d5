package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the monitor's YAML configuration. Flags override it.
type Config struct {
	Device        string   `yaml:"device"`
	Baud          int      `yaml:"baud"`
	ReadTimeoutMS int      `yaml:"read_timeout_ms"`
	Sources       []string `yaml:"sources"` // empty: show every source
	HaltOn        string   `yaml:"halt_on"` // source that ends the session, e.g. "err"
}

func defaultConfig() Config {
	return Config{
		Device:        "/dev/ttyACM0",
		Baud:          9600,
		ReadTimeoutMS: 500,
	}
}

// parseConfig overlays data on the defaults.
func parseConfig(data []byte) (Config, error) {
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadConfig(path string) (Config, error) {
	if path == "" {
		return defaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return parseConfig(data)
}

func (c Config) validate() error {
	if c.Device == "" {
		return fmt.Errorf("config: device is required")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("config: baud must be positive, got %d", c.Baud)
	}
	if c.ReadTimeoutMS < 0 {
		return fmt.Errorf("config: read_timeout_ms must not be negative")
	}
	return nil
}

func (c Config) wants(source string) bool {
	if len(c.Sources) == 0 {
		return true
	}
	for _, s := range c.Sources {
		if s == source {
			return true
		}
	}
	return false
}
