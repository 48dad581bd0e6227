package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no --config flag
// is given.
const DefaultFile = ".sql-doctest.yml"

// Config mirrors the CLI flags; flag values win over file values.
type Config struct {
	Driver   string   `yaml:"driver"`
	DSN      string   `yaml:"dsn"`
	Jobs     int      `yaml:"jobs"`
	Timeout  string   `yaml:"timeout"` // Go duration string, e.g. "30s"
	Marker   string   `yaml:"marker"`
	Excludes []string `yaml:"exclude"`
}

// Load reads a YAML config file. With an empty path the default file is
// tried and its absence is not an error; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if _, err := cfg.TimeoutDuration(); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// TimeoutDuration parses the timeout field; empty means no timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	return d, nil
}
