package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/goopsie/texcompat/pkg/export"
)

// Config holds the settings shared by all subcommands. Values from a config
// file are applied over Default, and flags given on the command line are
// applied over both.
type Config struct {
	// SizeLimit caps the edge length of streamed textures. 0 disables it.
	SizeLimit int `yaml:"size_limit"`

	// Format is the export format: auto, png or dds.
	Format string `yaml:"format"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Jobs is the number of files batch exports in parallel.
	Jobs int `yaml:"jobs"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Format:   export.FormatAuto,
		LogLevel: "info",
		Jobs:     runtime.NumCPU(),
	}
}

// LoadFile reads a YAML config file over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	switch c.Format {
	case export.FormatAuto, export.FormatPNG, export.FormatDDS:
	default:
		return fmt.Errorf("format must be auto, png or dds, got %q", c.Format)
	}
	if c.SizeLimit < 0 {
		return fmt.Errorf("size_limit must not be negative, got %d", c.SizeLimit)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
