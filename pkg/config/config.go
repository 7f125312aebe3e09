package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for tablescope.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"3333"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (the SQLite file being explored)
	Database DatabaseConfig `yaml:"database"`

	// UIDir is the directory of static frontend assets served at /.
	UIDir string `yaml:"ui_dir" env:"UI_DIR" env-default:"./ui/dist"`
}

// DatabaseConfig holds settings for the explored SQLite database.
type DatabaseConfig struct {
	// Path is the SQLite database file to explore. Required.
	Path string `yaml:"path" env:"DATABASE_PATH" env-default:""`

	// SampleLimit caps rows pulled per table during type detection.
	SampleLimit int `yaml:"sample_limit" env:"SAMPLE_LIMIT" env-default:"1000"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time and set on the
// returned Config. A missing config.yaml is fine as long as the environment
// provides what the file would have.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if cfg.Database.Path == "" {
		return nil, fmt.Errorf("database path is required (set database.path or DATABASE_PATH)")
	}

	return cfg, nil
}
