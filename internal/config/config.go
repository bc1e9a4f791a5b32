// Package config loads maildesk settings from a YAML file, a .env file and
// the process environment, in increasing order of precedence.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/viper"
)

const appDir = "maildesk"

// APIConfig locates the remote mail service.
type APIConfig struct {
	// BaseURL is the service origin; /api is appended by the client.
	BaseURL    string `mapstructure:"base_url" yaml:"base_url"`
	TimeoutSec int    `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// UIConfig holds list and refresh preferences.
type UIConfig struct {
	PerPage int `mapstructure:"per_page" yaml:"per_page"`

	// StatsConfirmDelayMs is the gap between the immediate and the
	// confirming statistics refresh after an action.
	StatsConfirmDelayMs int `mapstructure:"stats_confirm_delay_ms" yaml:"stats_confirm_delay_ms"`

	PollIntervalSec int    `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`
	DefaultFolder   string `mapstructure:"default_folder" yaml:"default_folder"`
	Theme           string `mapstructure:"theme" yaml:"theme"`
}

// CacheConfig locates the local SQLite cache.
type CacheConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig locates the debug log. The terminal is owned by the UI, so logs
// always go to a file.
type LogConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// ExportConfig is where exported messages are written.
type ExportConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// Config is the top-level application configuration.
type Config struct {
	API    APIConfig    `mapstructure:"api" yaml:"api"`
	UI     UIConfig     `mapstructure:"ui" yaml:"ui"`
	Cache  CacheConfig  `mapstructure:"cache" yaml:"cache"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	Export ExportConfig `mapstructure:"export" yaml:"export"`
}

// envOverlay lists the environment variables that override file settings.
// Unset variables leave the file value in place.
type envOverlay struct {
	APIURL    string `env:"MAILDESK_API_URL"`
	PerPage   int    `env:"MAILDESK_PER_PAGE"`
	CachePath string `env:"MAILDESK_CACHE_PATH"`
	LogFile   string `env:"MAILDESK_LOG_FILE"`
	ExportDir string `env:"MAILDESK_EXPORT_DIR"`
}

// Dir returns ~/.config/maildesk, or the working directory when the home
// directory cannot be resolved.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", appDir)
}

// DefaultPath returns the default path for the configuration file.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:    "http://localhost:5000",
			TimeoutSec: 30,
		},
		UI: UIConfig{
			PerPage:             50,
			StatsConfirmDelayMs: 500,
			PollIntervalSec:     120,
			DefaultFolder:       "inbox",
			Theme:               "default",
		},
		Cache:  CacheConfig{Path: filepath.Join(Dir(), "cache.db")},
		Log:    LogConfig{File: filepath.Join(Dir(), "maildesk.log")},
		Export: ExportConfig{Dir: filepath.Join(Dir(), "exports")},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout_sec", d.API.TimeoutSec)
	v.SetDefault("ui.per_page", d.UI.PerPage)
	v.SetDefault("ui.stats_confirm_delay_ms", d.UI.StatsConfirmDelayMs)
	v.SetDefault("ui.poll_interval_sec", d.UI.PollIntervalSec)
	v.SetDefault("ui.default_folder", d.UI.DefaultFolder)
	v.SetDefault("ui.theme", d.UI.Theme)
	v.SetDefault("cache.path", d.Cache.Path)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("export.dir", d.Export.Dir)
}

// Load reads configuration from the YAML file at path. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// LoadEnvFiles loads KEY=VALUE pairs from the given .env files into the
// process environment without overriding variables that are already set.
// Missing files are skipped.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides file settings with MAILDESK_* variables from the
// process environment.
func (c *Config) ApplyEnv(ctx context.Context) error {
	return c.applyEnv(ctx, envconfig.OsLookuper())
}

func (c *Config) applyEnv(ctx context.Context, l envconfig.Lookuper) error {
	var o envOverlay
	if err := envconfig.ProcessWith(ctx, &o, l); err != nil {
		return fmt.Errorf("parsing env vars: %w", err)
	}

	if o.APIURL != "" {
		c.API.BaseURL = o.APIURL
	}
	if o.PerPage > 0 {
		c.UI.PerPage = o.PerPage
	}
	if o.CachePath != "" {
		c.Cache.Path = o.CachePath
	}
	if o.LogFile != "" {
		c.Log.File = o.LogFile
	}
	if o.ExportDir != "" {
		c.Export.Dir = o.ExportDir
	}
	c.normalize()
	return nil
}

// normalize replaces out-of-range values with defaults.
func (c *Config) normalize() {
	d := Default()
	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	if c.API.TimeoutSec <= 0 {
		c.API.TimeoutSec = d.API.TimeoutSec
	}
	if c.UI.PerPage <= 0 || c.UI.PerPage > 200 {
		c.UI.PerPage = d.UI.PerPage
	}
	if c.UI.StatsConfirmDelayMs <= 0 {
		c.UI.StatsConfirmDelayMs = d.UI.StatsConfirmDelayMs
	}
	if c.UI.PollIntervalSec < 10 {
		c.UI.PollIntervalSec = d.UI.PollIntervalSec
	}
	if c.UI.DefaultFolder == "" {
		c.UI.DefaultFolder = d.UI.DefaultFolder
	}
}

// Timeout is the per-request API timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSec) * time.Second
}

// ConfirmDelay is the delay before the confirming statistics refresh.
func (c *Config) ConfirmDelay() time.Duration {
	return time.Duration(c.UI.StatsConfirmDelayMs) * time.Millisecond
}

// PollInterval is how often notifications and statistics are refreshed in
// the background.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.UI.PollIntervalSec) * time.Second
}

// Save writes cfg to a YAML file at path, creating parent directories if
// needed.
func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("ui", cfg.UI)
	v.Set("cache", cfg.Cache)
	v.Set("log", cfg.Log)
	v.Set("export", cfg.Export)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
