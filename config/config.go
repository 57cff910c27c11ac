package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config is the propfirm runtime configuration.
type Config struct {
	Storage    StorageConfig    `json:"storage" yaml:"storage"`
	Log        LogConfig        `json:"log" yaml:"log"`
	Evaluation EvaluationConfig `json:"evaluation" yaml:"evaluation"`
	Metrics    MetricsConfig    `json:"metrics" yaml:"metrics"`
}

// StorageConfig selects the backing store.
type StorageConfig struct {
	Driver string `json:"driver" yaml:"driver"` // "sqlite" or "postgres"
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	DSN    string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // "console" or "json"
}

// EvaluationConfig controls how the evaluation day is determined.
type EvaluationConfig struct {
	Timezone string `json:"timezone" yaml:"timezone"`
}

// MetricsConfig names the node_exporter textfile the CLI writes after each
// run. Empty disables it.
type MetricsConfig struct {
	Textfile string `json:"textfile,omitempty" yaml:"textfile,omitempty"`
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes the configuration as YAML for .yaml/.yml paths and as
// indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "sqlite":
		if c.Storage.DBPath == "" {
			return fmt.Errorf("storage.db_path required for sqlite driver")
		}
	case "postgres":
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn required for postgres driver")
		}
	default:
		return fmt.Errorf("storage.driver must be 'sqlite' or 'postgres'")
	}

	if _, err := c.Log.ZerologLevel(); err != nil {
		return err
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be 'console' or 'json'")
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// ZerologLevel maps the configured level name onto zerolog.
func (l LogConfig) ZerologLevel() (zerolog.Level, error) {
	switch l.Level {
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	}
	return zerolog.NoLevel, fmt.Errorf("log.level must be one of debug, info, warn, error")
}

// Location resolves evaluation.timezone. Empty means UTC.
func (c *Config) Location() (*time.Location, error) {
	if c.Evaluation.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Evaluation.Timezone)
	if err != nil {
		return nil, fmt.Errorf("evaluation.timezone: %w", err)
	}
	return loc, nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver: "sqlite",
			DBPath: "./propfirm.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Evaluation: EvaluationConfig{
			Timezone: "UTC",
		},
	}
}
