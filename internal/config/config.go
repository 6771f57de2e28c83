package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/pixelate/internal/pixelate"
)

// DefaultOutput is the file written when no output is configured.
const DefaultOutput = "result.jpg"

// NotifyConfig configures refresh notifications published after each flush.
type NotifyConfig struct {
	RedisAddr string `yaml:"redis_addr,omitempty"` // Empty disables Redis notifications
	Channel   string `yaml:"channel,omitempty"`    // Default: pixelate:refresh
}

// Config represents a pixelate.yml file
type Config struct {
	SquareSize  int           `yaml:"square_size"`
	Mode        string        `yaml:"mode"`              // "S"/"sequential" or "M"/"partitioned"
	Workers     int           `yaml:"workers,omitempty"` // 0 = one per CPU
	Output      string        `yaml:"output,omitempty"`
	JPEGQuality int           `yaml:"jpeg_quality,omitempty"`
	Progress    *bool         `yaml:"progress,omitempty"` // Terminal progress line, default on
	Timeout     time.Duration `yaml:"timeout,omitempty"`  // 0 = no limit
	Notify      NotifyConfig  `yaml:"notify,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	progress := true
	return &Config{
		Mode:        string(pixelate.ModeSequential),
		Output:      DefaultOutput,
		JPEGQuality: 90,
		Progress:    &progress,
		Notify:      NotifyConfig{Channel: "pixelate:refresh"},
	}
}

// ShowProgress reports whether the terminal progress line is enabled.
func (c *Config) ShowProgress() bool {
	return c.Progress == nil || *c.Progress
}

// ParsedMode returns the configured mode as a pixelate.Mode.
func (c *Config) ParsedMode() (pixelate.Mode, error) {
	return pixelate.ParseMode(c.Mode)
}

// Validate checks the configuration. square_size is validated here too,
// so a render never starts with a bad block size.
func (c *Config) Validate() error {
	if c.SquareSize <= 0 {
		return fmt.Errorf("square_size must be a positive integer, got %d", c.SquareSize)
	}
	if _, err := c.ParsedMode(); err != nil {
		return fmt.Errorf("invalid mode %q (must be 'S' or 'M')", c.Mode)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0 (0 = one per CPU), got %d", c.Workers)
	}
	if c.JPEGQuality < 0 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be between 1 and 100, got %d", c.JPEGQuality)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %s", c.Timeout)
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Notify.RedisAddr != "" && c.Notify.Channel == "" {
		c.Notify.Channel = "pixelate:refresh"
	}
	return nil
}

// Load reads pixelate.yml from path, applying file values over Default().
// The result is not validated: the caller applies command-line overrides first
// and then calls Validate.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return cfg, nil
}
