// Package config handles configuration loading for the ABCD validator.
// It supports XDG config paths and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the validator.
type Config struct {
	Converter ConverterConfig `mapstructure:"converter"`
	Watch     WatchConfig     `mapstructure:"watch"`
	History   HistoryConfig   `mapstructure:"history"`
	TUI       TUIConfig       `mapstructure:"tui"`
}

// ConverterConfig holds settings passed to the conversion backend.
type ConverterConfig struct {
	// Verbose enables the backend's informational output channel.
	Verbose bool `mapstructure:"verbose"`
	// OutFile is the result document filename.
	OutFile string `mapstructure:"out_file"`
}

// WatchConfig holds input-watching settings.
type WatchConfig struct {
	// Enabled turns on clearing of inputs that disappear from disk.
	Enabled bool `mapstructure:"enabled"`
}

// HistoryConfig holds run-history settings.
type HistoryConfig struct {
	// Enabled turns on recording of completed runs.
	Enabled bool `mapstructure:"enabled"`
	// KeepDays is how long run records are retained.
	KeepDays int `mapstructure:"keep_days"`
}

// TUIConfig holds interface settings.
type TUIConfig struct {
	// Glyphs renders diagnostics with severity glyphs instead of text labels.
	Glyphs bool `mapstructure:"glyphs"`
}

// Load loads configuration from the XDG user config path and environment
// variables (prefix ABCD_VALIDATOR). Precedence (highest to lowest):
// environment, user config file, built-in defaults.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(UserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	v.SetEnvPrefix("ABCD_VALIDATOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers built-in defaults.
func setDefaults(v *viper.Viper) {
	v.SetDefault("converter.verbose", false)
	v.SetDefault("converter.out_file", "result.xml")
	v.SetDefault("watch.enabled", true)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.keep_days", 90)
	v.SetDefault("tui.glyphs", true)
}

// UserConfigDir returns the XDG config directory for the validator.
func UserConfigDir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "abcd-validator")
}

// UserConfigPath returns the path of the user config file.
func UserConfigPath() string {
	return filepath.Join(UserConfigDir(), "config.yaml")
}

// WriteDefault writes a commented default config file at path, creating
// parent directories. Existing files are left untouched.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

const defaultConfigYAML = `# ABCD validator configuration.
converter:
  # Enable the backend's informational output channel.
  verbose: false
  # Result document filename.
  out_file: result.xml

watch:
  # Clear an input selection when its file disappears from disk.
  enabled: true

history:
  # Record completed runs in the local history database.
  enabled: true
  # Days to retain run records.
  keep_days: 90

tui:
  # Render diagnostics with severity glyphs instead of text labels.
  glyphs: true
`
