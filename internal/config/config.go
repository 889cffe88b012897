// Package config loads spotcheck settings from an optional YAML file overlaid
// with SPOTCHECK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/spotcheck/internal/runtime"
	"github.com/aretw0/spotcheck/pkg/adapters/redis"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when present; a missing default file is not an error.
const DefaultPath = "spotcheck.yaml"

// EnvPrefix marks environment overrides, e.g. SPOTCHECK_REDIS_ADDR.
const EnvPrefix = "SPOTCHECK_"

// Config holds every runtime setting.
type Config struct {
	Addr      string `mapstructure:"addr" yaml:"addr"`
	Database  string `mapstructure:"database" yaml:"database"`
	ImagesDir string `mapstructure:"images_dir" yaml:"images_dir"`

	// Catalog selects the step source: "sqlite" or "yaml".
	Catalog   string `mapstructure:"catalog" yaml:"catalog"`
	StepsFile string `mapstructure:"steps_file" yaml:"steps_file"`

	// Store selects the session store: "memory", "file" or "redis".
	Store       string        `mapstructure:"store" yaml:"store"`
	SessionsDir string        `mapstructure:"sessions_dir" yaml:"sessions_dir"`
	Redis       RedisConfig   `mapstructure:"redis" yaml:"redis"`
	SessionTTL  time.Duration `mapstructure:"session_ttl" yaml:"session_ttl"`

	CookieName   string `mapstructure:"cookie_name" yaml:"cookie_name"`
	CookieSecure bool   `mapstructure:"cookie_secure" yaml:"cookie_secure"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	MaxTextSize int `mapstructure:"max_text_size" yaml:"max_text_size"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`
	Prefix   string `mapstructure:"prefix" yaml:"prefix"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Addr:        ":8080",
		Database:    "spotcheck.db",
		ImagesDir:   "uploads",
		Catalog:     "sqlite",
		StepsFile:   "steps.yaml",
		Store:       "memory",
		SessionsDir: ".spotcheck/sessions",
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: redis.DefaultPrefix,
		},
		SessionTTL:  24 * time.Hour,
		CookieName:  "spotcheck_session",
		LogLevel:    "info",
		LogFormat:   "text",
		MaxTextSize: runtime.DefaultMaxTextSize,
	}
}

// Load reads path (if it exists) and applies overrides from environ.
// environ uses the os.Environ format.
func Load(path string, environ []string) (Config, error) {
	raw := map[string]any{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &raw); err != nil {
				return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
			}
			if raw == nil {
				raw = map[string]any{}
			}
		case errors.Is(err, os.ErrNotExist) && path == DefaultPath:
		default:
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	overlayEnv(raw, environ)

	cfg := Default()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return Config{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// overlayEnv copies SPOTCHECK_* variables into raw. SPOTCHECK_REDIS_X lands in redis.x.
func overlayEnv(raw map[string]any, environ []string) {
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))

		if sub, found := strings.CutPrefix(key, "redis_"); found {
			nested, _ := raw["redis"].(map[string]any)
			if nested == nil {
				nested = map[string]any{}
				raw["redis"] = nested
			}
			nested[sub] = value
			continue
		}
		raw[key] = value
	}
}

// Validate checks enumerated settings and bounds.
func (c Config) Validate() error {
	var errs []error
	if !slices.Contains([]string{"sqlite", "yaml"}, c.Catalog) {
		errs = append(errs, fmt.Errorf("catalog must be sqlite or yaml, got %q", c.Catalog))
	}
	if !slices.Contains([]string{"memory", "file", "redis"}, c.Store) {
		errs = append(errs, fmt.Errorf("store must be memory, file or redis, got %q", c.Store))
	}
	if !slices.Contains([]string{"text", "json"}, strings.ToLower(c.LogFormat)) {
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}
	if c.SessionTTL < 0 {
		errs = append(errs, fmt.Errorf("session_ttl must not be negative"))
	}
	if c.MaxTextSize < 0 {
		errs = append(errs, fmt.Errorf("max_text_size must not be negative"))
	}
	if c.CookieName == "" {
		errs = append(errs, fmt.Errorf("cookie_name must not be empty"))
	}
	return errors.Join(errs...)
}
