// Package config loads and persists ggo's user configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete ggo configuration
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Frecency FrecencyConfig `json:"frecency" mapstructure:"frecency"`
	Scoring  ScoringConfig  `json:"scoring" mapstructure:"scoring"`
	Behavior BehaviorConfig `json:"behavior" mapstructure:"behavior"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// FrecencyConfig contains frecency decay configuration
type FrecencyConfig struct {
	// HalfLifeDays is the exponential decay half-life: a branch's recency
	// weight halves after this many days of inactivity.
	HalfLifeDays float64 `json:"halfLifeDays" mapstructure:"halfLifeDays"`
}

// ScoringConfig contains score-combination configuration
type ScoringConfig struct {
	// FrecencyWeight multiplies the frecency score before it is added to
	// match quality.
	FrecencyWeight float64 `json:"frecencyWeight" mapstructure:"frecencyWeight"`

	// AutoSelectThreshold is the top/runner-up score ratio at or above which
	// the best candidate is checked out without prompting.
	AutoSelectThreshold float64 `json:"autoSelectThreshold" mapstructure:"autoSelectThreshold"`
}

// BehaviorConfig contains matching behavior defaults
type BehaviorConfig struct {
	DefaultFuzzy      bool `json:"defaultFuzzy" mapstructure:"defaultFuzzy"`
	DefaultIgnoreCase bool `json:"defaultIgnoreCase" mapstructure:"defaultIgnoreCase"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `json:"level" mapstructure:"level"`

	// File appends log output to a file instead of stderr. A relative path
	// is resolved inside the data directory.
	File string `json:"file,omitempty" mapstructure:"file"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Frecency: FrecencyConfig{
			HalfLifeDays: 7.0,
		},
		Scoring: ScoringConfig{
			FrecencyWeight:      10.0,
			AutoSelectThreshold: 2.0,
		},
		Behavior: BehaviorConfig{
			DefaultFuzzy:      true,
			DefaultIgnoreCase: false,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// HalfLifeSeconds returns the decay half-life in seconds
func (c *Config) HalfLifeSeconds() float64 {
	return c.Frecency.HalfLifeDays * 24 * 60 * 60
}

// DataDir returns the directory holding ggo's database, config, and logs.
// GGO_DATA_DIR overrides the default of <user config dir>/ggo.
func DataDir() (string, error) {
	if dir := os.Getenv("GGO_DATA_DIR"); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
		return dir, nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "ggo")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// Load reads configuration from config.json in the data dir.
// A missing file yields the defaults; a malformed file is an error.
func Load() (*Config, error) {
	dir, err := DataDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(dir)
}

// LoadFrom reads configuration from config.json in the given directory
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("version", defaults.Version)
	v.SetDefault("frecency.halfLifeDays", defaults.Frecency.HalfLifeDays)
	v.SetDefault("scoring.frecencyWeight", defaults.Scoring.FrecencyWeight)
	v.SetDefault("scoring.autoSelectThreshold", defaults.Scoring.AutoSelectThreshold)
	v.SetDefault("behavior.defaultFuzzy", defaults.Behavior.DefaultFuzzy)
	v.SetDefault("behavior.defaultIgnoreCase", defaults.Behavior.DefaultIgnoreCase)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.file", defaults.Logging.File)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to config.json in the given directory
func (c *Config) Save(dir string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	if c.Frecency.HalfLifeDays <= 0 {
		return &ConfigError{Field: "frecency.halfLifeDays", Message: "must be positive"}
	}
	if c.Scoring.FrecencyWeight < 0 {
		return &ConfigError{Field: "scoring.frecencyWeight", Message: "must not be negative"}
	}
	if c.Scoring.AutoSelectThreshold < 1 {
		return &ConfigError{Field: "scoring.autoSelectThreshold", Message: "must be at least 1"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
