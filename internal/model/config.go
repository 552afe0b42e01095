package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// APIConfig holds settings for the remote notification service.
type APIConfig struct {
	// BaseURL is the root URL of the service. Empty selects the local store.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// PageSize is how many notifications a refresh requests.
	PageSize int `mapstructure:"page_size" yaml:"page_size"`

	// Filter is sent with every list request.
	Filter string `mapstructure:"filter" yaml:"filter"`

	TimeoutSec int     `mapstructure:"timeout_sec" yaml:"timeout_sec"`
	RatePerSec float64 `mapstructure:"rate_per_sec" yaml:"rate_per_sec"`
	MaxRetries int     `mapstructure:"max_retries" yaml:"max_retries"`
}

// WidgetConfig holds notification bell preferences.
type WidgetConfig struct {
	PreviewSize        int    `mapstructure:"preview_size" yaml:"preview_size"`
	WordLimit          int    `mapstructure:"word_limit" yaml:"word_limit"`
	BadgeCap           int    `mapstructure:"badge_cap" yaml:"badge_cap"`
	RefreshIntervalSec int    `mapstructure:"refresh_interval_sec" yaml:"refresh_interval_sec"`
	NotificationsRoute string `mapstructure:"notifications_route" yaml:"notifications_route"`
}

// StoreConfig locates the local notification database.
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API    APIConfig    `mapstructure:"api" yaml:"api"`
	Widget WidgetConfig `mapstructure:"widget" yaml:"widget"`
	Store  StoreConfig  `mapstructure:"store" yaml:"store"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// configDir returns ~/.config/notifybell, or the working directory when the
// home directory is unknown.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "notifybell")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/notifybell/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultAppConfig returns the built-in configuration.
func DefaultAppConfig() *AppConfig {
	dir := configDir()
	return &AppConfig{
		API: APIConfig{
			PageSize:   1000,
			Filter:     "all",
			TimeoutSec: 30,
			RatePerSec: 2,
			MaxRetries: 3,
		},
		Widget: WidgetConfig{
			PreviewSize:        3,
			WordLimit:          6,
			BadgeCap:           99,
			NotificationsRoute: "/notifications",
		},
		Store: StoreConfig{
			Path: filepath.Join(dir, "notifications.db"),
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dir, "notifybell.log"),
		},
	}
}

// setDefaults mirrors DefaultAppConfig into v so missing keys resolve to
// sensible values and environment overrides bind.
func setDefaults(v *viper.Viper, cfg *AppConfig) {
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.page_size", cfg.API.PageSize)
	v.SetDefault("api.filter", cfg.API.Filter)
	v.SetDefault("api.timeout_sec", cfg.API.TimeoutSec)
	v.SetDefault("api.rate_per_sec", cfg.API.RatePerSec)
	v.SetDefault("api.max_retries", cfg.API.MaxRetries)
	v.SetDefault("widget.preview_size", cfg.Widget.PreviewSize)
	v.SetDefault("widget.word_limit", cfg.Widget.WordLimit)
	v.SetDefault("widget.badge_cap", cfg.Widget.BadgeCap)
	v.SetDefault("widget.refresh_interval_sec", cfg.Widget.RefreshIntervalSec)
	v.SetDefault("widget.notifications_route", cfg.Widget.NotificationsRoute)
	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Environment variables prefixed with NOTIFYBELL_ (e.g.
// NOTIFYBELL_API_BASE_URL) override file values. If the file does not
// exist, defaults and the environment apply.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("NOTIFYBELL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, DefaultAppConfig())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.normalize()
	return cfg, nil
}

// normalize replaces out-of-range values with defaults.
func (c *AppConfig) normalize() {
	def := DefaultAppConfig()
	if c.API.PageSize <= 0 {
		c.API.PageSize = def.API.PageSize
	}
	if strings.TrimSpace(c.API.Filter) == "" {
		c.API.Filter = def.API.Filter
	}
	if c.Widget.PreviewSize <= 0 {
		c.Widget.PreviewSize = def.Widget.PreviewSize
	}
	if c.Widget.WordLimit <= 0 {
		c.Widget.WordLimit = def.Widget.WordLimit
	}
	if c.Widget.BadgeCap <= 0 {
		c.Widget.BadgeCap = def.Widget.BadgeCap
	}
	if c.Widget.RefreshIntervalSec < 0 {
		c.Widget.RefreshIntervalSec = 0
	}
	if c.Widget.NotificationsRoute == "" {
		c.Widget.NotificationsRoute = def.Widget.NotificationsRoute
	}
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("widget", cfg.Widget)
	v.Set("store", cfg.Store)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
