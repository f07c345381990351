// Package config handles configuration loading from TOML files and
// environment variables. CLI flags are applied on top by the commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all configuration settings.
type Config struct {
	Canvas  CanvasConfig  `toml:"canvas"`
	Server  ServerConfig  `toml:"server"`
	Logging LoggingConfig `toml:"logging"`
}

// CanvasConfig holds drawing surface settings.
type CanvasConfig struct {
	Width    int      `toml:"width"`
	Height   int      `toml:"height"`
	Interval Duration `toml:"interval"` // capture sampling and replay period
	Palette  []string `toml:"palette"`  // colours offered by the toolbar
}

// ServerConfig holds live stream settings.
type ServerConfig struct {
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	Advertise bool   `toml:"advertise"` // announce the stream over mDNS
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
}

// Duration is a time.Duration that can be unmarshaled from TOML strings.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for Duration.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns a Config with all default values.
func DefaultConfig() *Config {
	return &Config{
		Canvas: CanvasConfig{
			Width:    800,
			Height:   600,
			Interval: Duration(10 * time.Millisecond),
			Palette:  []string{"black", "red", "green", "blue", "orange", "purple"},
		},
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8888,
			Advertise: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the TOML file at path over the defaults, then applies DOODLER_*
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("config: canvas size %dx%d must be positive", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Canvas.Interval <= 0 {
		return fmt.Errorf("config: canvas interval %s must be positive", c.Canvas.Interval)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server port %d out of range", c.Server.Port)
	}
	return nil
}

// Addr returns the listen address of the live stream.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// applyEnv applies environment variable overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv("DOODLER_WIDTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Canvas.Width = n
		}
	}
	if v := os.Getenv("DOODLER_HEIGHT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Canvas.Height = n
		}
	}
	if v := os.Getenv("DOODLER_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Canvas.Interval = Duration(d)
		}
	}
	if v := os.Getenv("DOODLER_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("DOODLER_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.Port = n
		}
	}
	if v := os.Getenv("DOODLER_ADVERTISE"); v != "" {
		c.Server.Advertise = v == "true" || v == "1"
	}
	if v := os.Getenv("DOODLER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}
