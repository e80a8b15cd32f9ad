// Package config resolves console settings from flags, environment, a .env
// file and an optional YAML file.
package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	EnvPrefix      = "DOCKET"
	ConfigName     = ".docket"
	DefaultBaseURL = "http://localhost:5000"
)

// Config represents the application configuration
type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Log    LogConfig    `mapstructure:"log"`
	State  StateConfig  `mapstructure:"state"`
	Redis  RedisConfig  `mapstructure:"redis"`
	UI     UIConfig     `mapstructure:"ui"`
	Import ImportConfig `mapstructure:"import"`
}

type APIConfig struct {
	BaseURL   string            `mapstructure:"base_url"`
	Timeout   time.Duration     `mapstructure:"timeout"`
	Headers   map[string]string `mapstructure:"headers"`
	UserAgent string            `mapstructure:"user_agent"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type StateConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	URL      string        `mapstructure:"url"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type UIConfig struct {
	Theme         string        `mapstructure:"theme"`
	PageSize      int           `mapstructure:"page_size"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	StartLocation string        `mapstructure:"start_location"`
}

type ImportConfig struct {
	Dir      string   `mapstructure:"dir"`
	Patterns []string `mapstructure:"patterns"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("api.headers", map[string]string{})
	v.SetDefault("api.user_agent", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "./data/console.log")
	v.SetDefault("state.path", "./data/docket.db")
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.cache_ttl", 5*time.Minute)
	v.SetDefault("ui.theme", "dark")
	v.SetDefault("ui.page_size", 8)
	v.SetDefault("ui.poll_interval", 10*time.Second)
	v.SetDefault("ui.start_location", "/")
	v.SetDefault("import.dir", "./import")
	v.SetDefault("import.patterns", []string{"*.jsonl", "*.json"})
}

// Init prepares v: defaults, DOCKET_* environment (after loading envFile when
// it exists) and the YAML config file. A missing config file is not an error.
// It returns the config file used, if any.
func Init(v *viper.Viper, cfgFile, envFile string) (string, error) {
	SetDefaults(v)

	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("load %s: %w", envFile, err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(ConfigName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || (cfgFile != "" && errors.Is(err, os.ErrNotExist)) {
			return "", nil
		}
		return "", fmt.Errorf("read config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// GetConfig loads the configuration from the global viper instance.
func GetConfig() (Config, error) {
	return Load(viper.GetViper())
}

// Validate checks the values the console cannot run without.
func (c Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	if c.UI.PageSize < 1 {
		return fmt.Errorf("ui.page_size must be at least 1, got %d", c.UI.PageSize)
	}
	if c.UI.PollInterval <= 0 {
		return fmt.Errorf("ui.poll_interval must be positive, got %s", c.UI.PollInterval)
	}
	return nil
}

// Watch re-reads the config file at path whenever it changes and hands the
// new, valid configuration to onChange. The directory is watched so that
// editors replacing the file are seen. Watch blocks until ctx is done.
func Watch(ctx context.Context, v *viper.Viper, path string, logger *zap.SugaredLogger, onChange func(Config)) error {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch add: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := v.ReadInConfig(); err != nil {
				logger.Warnw("config reload failed", "file", abs, "error", err)
				continue
			}
			cfg, err := Load(v)
			if err != nil {
				logger.Warnw("reloaded config rejected", "file", abs, "error", err)
				continue
			}
			logger.Infow("config reloaded", "file", abs)
			onChange(cfg)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("config watch error", "error", err)
		}
	}
}
