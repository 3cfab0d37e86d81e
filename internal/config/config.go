package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Scaling conventions for turning a reference nutrition profile into
// absolute macro values.
const (
	// ScalingPer100g treats profile values as per 100 grams.
	ScalingPer100g = "per_100g"
	// ScalingPerReferenceWeight treats profile values as per the profile's own weight.
	ScalingPerReferenceWeight = "per_reference_weight"
)

// Config represents the complete intake configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Ledger  LedgerConfig  `mapstructure:"ledger"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig controls how the remote nutrition API is reached
type APIConfig struct {
	// BaseURL is the scheme and host of the API, e.g. "http://localhost:8080"
	BaseURL string `mapstructure:"base_url"`
	// Token is the bearer credential. Usually supplied via INTAKE_API_TOKEN or .env
	Token string `mapstructure:"token"`
	// TimeoutSeconds is the HTTP client timeout (default: 10)
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// LedgerConfig controls how day entries are normalized
type LedgerConfig struct {
	// Scaling selects the reference basis: "per_100g" (default) or "per_reference_weight"
	Scaling string `mapstructure:"scaling"`
	// CalendarDays is how many days, ending today, the date picker offers (default: 7)
	CalendarDays int `mapstructure:"calendar_days"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// Theme is the color theme for the TUI (default: "default")
	Theme string `mapstructure:"theme"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir is where intake.log is written. Empty means stderr for CLI commands
	// and the config directory for the TUI.
	Dir string `mapstructure:"dir"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8080",
			Token:          "",
			TimeoutSeconds: 10,
		},
		Ledger: LedgerConfig{
			Scaling:      ScalingPer100g,
			CalendarDays: 7,
		},
		TUI: TUIConfig{
			Theme: "default",
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "",
		},
	}
}

// Timeout returns the API timeout as a time.Duration
func (c *APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("api.base_url", defaults.API.BaseURL)
	viper.SetDefault("api.token", defaults.API.Token)
	viper.SetDefault("api.timeout_seconds", defaults.API.TimeoutSeconds)

	viper.SetDefault("ledger.scaling", defaults.Ledger.Scaling)
	viper.SetDefault("ledger.calendar_days", defaults.Ledger.CalendarDays)

	viper.SetDefault("tui.theme", defaults.TUI.Theme)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults when the
// loaded configuration is invalid
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "intake")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".intake"
	}
	return filepath.Join(home, ".config", "intake")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Write saves the current settings to path as YAML, creating the directory
// if needed. The API token is only written back when it was read from a
// config file, so tokens from the environment or .env never land on disk.
func Write(path string) error {
	settings := viper.AllSettings()
	if api, ok := settings["api"].(map[string]any); ok && !viper.InConfig("api.token") {
		delete(api, "token")
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ValidScalings returns the list of valid ledger.scaling values
func ValidScalings() []string {
	return []string{ScalingPer100g, ScalingPerReferenceWeight}
}
