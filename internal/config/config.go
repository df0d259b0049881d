// Package config loads server settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/ulule/limiter/v3"

	"github.com/erazemk/trgovina/internal/filter"
)

// Config holds the server settings.
type Config struct {
	Addr             string
	APIBaseURL       string
	APIKey           string
	APITimeout       time.Duration
	LogPath          string
	LogLevel         slog.Level
	FlashSecret      string
	FilterMode       filter.Mode
	InsightsInterval time.Duration
	StartupTimeout   time.Duration
	ReloadDelay      time.Duration
	RateLimit        limiter.Rate
}

// Defaults.
const (
	DefaultAddr             = ":8080"
	DefaultAPIBaseURL       = "http://localhost:5000"
	DefaultAPITimeout       = 30 * time.Second
	DefaultInsightsInterval = 5 * time.Minute
	DefaultStartupTimeout   = 10 * time.Second
	DefaultReloadDelay      = time.Second
	DefaultRateLimit        = "60-M"
)

// Load reads envFile if it exists, then the environment. Environment
// variables win over the file. Invalid values fall back to their defaults
// with a warning.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	v := viper.New()
	v.SetDefault("ADDR", DefaultAddr)
	v.SetDefault("API_BASE_URL", DefaultAPIBaseURL)
	v.SetDefault("API_KEY", "")
	v.SetDefault("API_TIMEOUT", DefaultAPITimeout.String())
	v.SetDefault("LOG_PATH", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("FLASH_SECRET", "")
	v.SetDefault("FILTER_MODE", "navigate")
	v.SetDefault("INSIGHTS_INTERVAL", DefaultInsightsInterval.String())
	v.SetDefault("STARTUP_TIMEOUT", DefaultStartupTimeout.String())
	v.SetDefault("RELOAD_DELAY", DefaultReloadDelay.String())
	v.SetDefault("RATE_LIMIT", DefaultRateLimit)
	v.AutomaticEnv()

	cfg := &Config{
		Addr:             v.GetString("ADDR"),
		APIBaseURL:       v.GetString("API_BASE_URL"),
		APIKey:           v.GetString("API_KEY"),
		LogPath:          v.GetString("LOG_PATH"),
		FlashSecret:      v.GetString("FLASH_SECRET"),
		APITimeout:       duration(v, "API_TIMEOUT", DefaultAPITimeout),
		InsightsInterval: duration(v, "INSIGHTS_INTERVAL", DefaultInsightsInterval),
		StartupTimeout:   duration(v, "STARTUP_TIMEOUT", DefaultStartupTimeout),
		ReloadDelay:      wholeSeconds("RELOAD_DELAY", duration(v, "RELOAD_DELAY", DefaultReloadDelay)),
	}

	mode, err := filter.ParseMode(v.GetString("FILTER_MODE"))
	if err != nil {
		slog.Warn("invalid FILTER_MODE, using navigate", "error", err)
	}
	cfg.FilterMode = mode

	rate, err := limiter.NewRateFromFormatted(v.GetString("RATE_LIMIT"))
	if err != nil {
		slog.Warn("invalid RATE_LIMIT, using default", "value", v.GetString("RATE_LIMIT"), "default", DefaultRateLimit)
		rate, _ = limiter.NewRateFromFormatted(DefaultRateLimit)
	}
	cfg.RateLimit = rate

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		slog.Warn("invalid LOG_LEVEL, using info", "value", v.GetString("LOG_LEVEL"))
		cfg.LogLevel = slog.LevelInfo
	}

	if cfg.FlashSecret == "" {
		slog.Warn("FLASH_SECRET not set, alerts will not survive a restart")
	}
	return cfg, nil
}

// wholeSeconds rounds d up to a whole number of seconds, the resolution of
// the Refresh header.
func wholeSeconds(key string, d time.Duration) time.Duration {
	whole := (d + time.Second - 1).Truncate(time.Second)
	if whole != d {
		slog.Warn("duration is applied in whole seconds, rounding up", "key", key, "value", d, "rounded", whole)
	}
	return whole
}

func duration(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration, using default", "key", key, "value", raw, "default", def)
		return def
	}
	return d
}
