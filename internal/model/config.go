package model

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// APIConfig holds settings for the remote task backend.
type APIConfig struct {
	// BaseURL is the root URL of the backend (e.g., http://localhost:8000).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds a single HTTP request.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// MaxRetries is how many times a rate-limited request is retried.
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`
}

// CacheConfig holds settings for the local SQLite cache.
type CacheConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme              string `mapstructure:"theme" yaml:"theme"`
	RefreshIntervalSec int    `mapstructure:"refresh_interval_sec" yaml:"refresh_interval_sec"`
	DefaultSort        string `mapstructure:"default_sort" yaml:"default_sort"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level    string `mapstructure:"level" yaml:"level"`
	Encoding string `mapstructure:"encoding" yaml:"encoding"`
	Path     string `mapstructure:"path" yaml:"path"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// envPrefix namespaces environment overrides, e.g. TODO_API_BASE_URL.
const envPrefix = "TODO"

// ConfigDir returns ~/.config/todo-client, or "." when the home directory
// cannot be resolved.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "todo-client")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/todo-client/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	dir := ConfigDir()
	return &AppConfig{
		API: APIConfig{
			BaseURL:    "http://localhost:8000",
			TimeoutSec: 30,
			MaxRetries: 3,
		},
		Cache: CacheConfig{
			Path: filepath.Join(dir, "cache.db"),
		},
		Display: DisplayConfig{
			Theme:              "default",
			RefreshIntervalSec: 120,
			DefaultSort:        "date",
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "json",
			Path:     filepath.Join(dir, "todo.log"),
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// A .env file in the working directory is loaded first so TODO_* variables
// can override file values. If the config file does not exist, defaults
// (plus environment overrides) are returned.
func LoadConfig(path string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	def := DefaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values and so
	// AutomaticEnv knows every key during Unmarshal.
	v.SetDefault("api.base_url", def.API.BaseURL)
	v.SetDefault("api.timeout_sec", def.API.TimeoutSec)
	v.SetDefault("api.max_retries", def.API.MaxRetries)
	v.SetDefault("cache.path", def.Cache.Path)
	v.SetDefault("display.theme", def.Display.Theme)
	v.SetDefault("display.refresh_interval_sec", def.Display.RefreshIntervalSec)
	v.SetDefault("display.default_sort", def.Display.DefaultSort)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.encoding", def.Log.Encoding)
	v.SetDefault("log.path", def.Log.Path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *fs.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	if cfg.API.TimeoutSec <= 0 {
		cfg.API.TimeoutSec = def.API.TimeoutSec
	}
	if cfg.API.MaxRetries < 0 {
		cfg.API.MaxRetries = 0
	}
	if cfg.Display.RefreshIntervalSec <= 0 {
		cfg.Display.RefreshIntervalSec = def.Display.RefreshIntervalSec
	}
	cfg.Cache.Path = expandHome(cfg.Cache.Path)
	cfg.Log.Path = expandHome(cfg.Log.Path)

	return cfg, nil
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
	v.Set("cache", cfg.Cache)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p
}
