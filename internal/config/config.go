// Package config provides configuration for go-ada commands.
// Values come from an optional YAML file with environment overrides on
// top, so a bare binary still starts with sensible defaults.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Default display configuration. The 466x466 canvas matches the round
// AMOLED panel the firmware drives.
const (
	DefaultWidth   = 466
	DefaultHeight  = 466
	DefaultFPS     = 30
	DefaultQuality = 80
	DefaultPort    = "8765"
)

// Config holds the display server configuration.
type Config struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	FPS      int    `yaml:"fps"`
	Quality  int    `yaml:"quality"`
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`
	Glow     bool   `yaml:"glow"`
	Seed     int64  `yaml:"seed"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		FPS:      DefaultFPS,
		Quality:  DefaultQuality,
		Port:     DefaultPort,
		LogLevel: "info",
		Glow:     true,
	}
}

// Load reads configuration from path, if it exists, and applies
// environment overrides. An empty path skips the file entirely.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides fields from ADA_* environment variables.
func (c *Config) applyEnv() {
	if port := os.Getenv("ADA_PORT"); port != "" {
		c.Port = port
	}
	if level := os.Getenv("ADA_LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
	if fps := os.Getenv("ADA_FPS"); fps != "" {
		if n, err := strconv.Atoi(fps); err == nil {
			c.FPS = n
		}
	}
	if quality := os.Getenv("ADA_QUALITY"); quality != "" {
		if n, err := strconv.Atoi(quality); err == nil {
			c.Quality = n
		}
	}
	if seed := os.Getenv("ADA_SEED"); seed != "" {
		if n, err := strconv.ParseInt(seed, 10, 64); err == nil {
			c.Seed = n
		}
	}
}

// Validate rejects configurations the renderer cannot work with.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", c.Width, c.Height)
	}
	if c.FPS < 1 || c.FPS > 30 {
		return fmt.Errorf("fps %d out of range [1, 30]", c.FPS)
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality %d out of range [1, 100]", c.Quality)
	}
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	return nil
}
